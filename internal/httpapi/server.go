package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"taskTracker/internal/auth"
	"taskTracker/repository"
)

// Authenticator is the account API the handlers need.
type Authenticator interface {
	TokenVerifier
	Register(ctx context.Context, username, password, question, answer string) error
	Login(ctx context.Context, username, password string) (*auth.Session, error)
	SecurityQuestion(ctx context.Context, username string) (string, error)
	ResetPassword(ctx context.Context, username, answer, newPassword string) error
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
	ChangeSecurityQuestion(ctx context.Context, userID int64, password, newQuestion, newAnswer string) error
}

// Options bundles the dependencies of the HTTP API.
type Options struct {
	Auth        Authenticator
	Todos       repository.TodoRepositoryI
	Logger      *log.Logger
	CORSOrigins []string
}

type handler struct {
	auth   Authenticator
	todos  repository.TodoRepositoryI
	logger *log.Logger
}

// New builds the echo application with every route registered.
func New(opts Options) *echo.Echo {
	if opts.Auth == nil || opts.Todos == nil {
		panic("httpapi: auth and todos are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	h := &handler{auth: opts.Auth, todos: opts.Todos, logger: logger.WithPrefix("http")}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(accessLog(h.logger))
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	h.routes(e)
	return e
}

func (h *handler) routes(e *echo.Echo) {
	api := e.Group("/api")

	// Public routes
	api.POST("/register", h.register)
	api.POST("/login", h.login)
	api.POST("/get-question", h.getQuestion)
	api.POST("/reset-password", h.resetPassword)

	// Everything below requires a bearer token.
	protected := api.Group("", h.requireAuth(h.auth))
	protected.POST("/change-password", h.changePassword)
	protected.POST("/change-security-question", h.changeSecurityQuestion)
	protected.GET("/todos", h.listTodos)
	protected.POST("/todos", h.createTodo)
	protected.PUT("/todos/:id", h.updateTodo)
	protected.PUT("/todos/:id/toggle", h.toggleTodo)
	protected.DELETE("/todos/:id", h.deleteTodo)
}

// Server is a running HTTP listener.
type Server struct {
	e   *echo.Echo
	lis net.Listener
}

// Start listens on addr and serves e in the background.
func Start(addr string, e *echo.Echo, logger *log.Logger) (*Server, error) {
	if addr == "" {
		addr = ":3000"
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	e.Listener = lis
	go func() {
		if err := e.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", "err", err)
		}
	}()
	return &Server{e: e, lis: lis}, nil
}

// Addr returns the bound listen address.
func (s *Server) Addr() net.Addr { return s.lis.Addr() }

// Shutdown stops accepting requests and waits for in-flight ones until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.e.Shutdown(ctx)
}
