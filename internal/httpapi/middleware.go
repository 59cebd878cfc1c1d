package httpapi

import (
	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"taskTracker/internal/auth"
)

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	VerifyToken(token string) (*auth.Principal, error)
}

// requireAuth rejects requests without a valid bearer token before any handler or
// storage access, and injects the Principal into the request context.
func (h *handler) requireAuth(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok, err := auth.TokenFromHeader(c.Request().Header)
			if err != nil {
				return h.respondError(c, err)
			}
			p, err := v.VerifyToken(tok)
			if err != nil {
				return h.respondError(c, err)
			}
			req := c.Request()
			c.SetRequest(req.WithContext(auth.WithPrincipal(req.Context(), p)))
			return next(c)
		}
	}
}

// principal returns the caller injected by requireAuth.
func principal(c echo.Context) *auth.Principal {
	p, _ := auth.FromContext(c.Request().Context())
	return p
}

// accessLog writes one line per request to logger.
func accessLog(logger *log.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				"method", v.Method,
				"path", v.URIPath,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID)
			return nil
		},
	})
}
