package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"taskTracker/internal/auth"
	"taskTracker/repository"
)

const (
	msgMissingToken  = "no token provided"
	msgInvalidToken  = "token is invalid or expired"
	msgBadBody       = "invalid request body"
	msgTodoNotOwned  = "permission denied or task not found"
	msgInternalError = "operation failed, please try again"
)

// businessMessages maps domain errors to the message returned with success=false.
var businessMessages = []struct {
	err error
	msg string
}{
	{auth.ErrMissingFields, "please fill in all fields"},
	{auth.ErrDuplicateUser, "username already exists"},
	{auth.ErrInvalidCredentials, "invalid username or password"},
	{auth.ErrNotFound, "account not found"},
	{auth.ErrWrongAnswer, "security answer is incorrect"},
	{auth.ErrWrongPassword, "password is incorrect"},
	{auth.ErrSecretTooLong, "password or answer is too long (max 72 bytes)"},
	{repository.ErrNotFound, msgTodoNotOwned},
}

// respondError writes err as a 200 {success:false} body, except token failures which
// get 401 or 403. Unrecognized errors are logged and replaced by a generic message.
func (h *handler) respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return c.JSON(http.StatusUnauthorized, fail(msgMissingToken))
	case errors.Is(err, auth.ErrInvalidToken):
		return c.JSON(http.StatusForbidden, fail(msgInvalidToken))
	case errors.Is(err, repository.ErrInvalidField):
		return c.JSON(http.StatusOK, fail(err.Error()))
	}
	for _, m := range businessMessages {
		if errors.Is(err, m.err) {
			return c.JSON(http.StatusOK, fail(m.msg))
		}
	}
	h.logger.Error("request failed",
		"method", c.Request().Method,
		"path", c.Path(),
		"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		"err", err)
	return c.JSON(http.StatusOK, fail(msgInternalError))
}
