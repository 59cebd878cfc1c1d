package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *handler) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, fail(msgBadBody))
	}
	if err := h.auth.Register(c.Request().Context(), req.Username, req.Password, req.Question, req.Answer); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, ok())
}

func (h *handler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, fail(msgBadBody))
	}
	sess, err := h.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, result{Success: true, Token: sess.Token, User: viewOf(sess.User)})
}

func (h *handler) getQuestion(c echo.Context) error {
	var req getQuestionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, fail(msgBadBody))
	}
	q, err := h.auth.SecurityQuestion(c.Request().Context(), req.Username)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, result{Success: true, Question: q})
}

func (h *handler) resetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, fail(msgBadBody))
	}
	if err := h.auth.ResetPassword(c.Request().Context(), req.Username, req.Answer, req.NewPassword); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, ok())
}

func (h *handler) changePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, fail(msgBadBody))
	}
	p := principal(c)
	if err := h.auth.ChangePassword(c.Request().Context(), p.UserID, req.OldPassword, req.NewPassword); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, ok())
}

func (h *handler) changeSecurityQuestion(c echo.Context) error {
	var req changeSecurityQuestionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, fail(msgBadBody))
	}
	p := principal(c)
	if err := h.auth.ChangeSecurityQuestion(c.Request().Context(), p.UserID, req.Password, req.NewQuestion, req.NewAnswer); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, ok())
}
