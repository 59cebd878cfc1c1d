package httpapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"taskTracker/models"
	"taskTracker/repository"
)

func (r todoRequest) fields() repository.TodoFields {
	return repository.TodoFields{
		Text:     r.Text,
		DueDate:  r.DueDate,
		Priority: models.Priority(r.Priority),
		Memo:     r.Memo,
		Category: r.Category,
	}
}

// todoID parses the :id path segment. A malformed id cannot match any row, so it gets
// the same answer as a foreign or missing one.
func todoID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// listTodos always answers with a JSON array; storage errors yield [].
func (h *handler) listTodos(c echo.Context) error {
	p := principal(c)
	f := repository.TodoFilter{
		Text:     c.QueryParam("q"),
		Priority: c.QueryParam("priority"),
		Category: c.QueryParam("category"),
	}
	return c.JSON(http.StatusOK, h.todos.List(c.Request().Context(), p.UserID, f))
}

func (h *handler) createTodo(c echo.Context) error {
	var req todoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, fail(msgBadBody))
	}
	p := principal(c)
	td, err := h.todos.Create(c.Request().Context(), p.UserID, req.fields())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, result{Success: true, ID: td.ID})
}

func (h *handler) updateTodo(c echo.Context) error {
	id, valid := todoID(c)
	if !valid {
		return c.JSON(http.StatusOK, fail(msgTodoNotOwned))
	}
	var req todoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, fail(msgBadBody))
	}
	p := principal(c)
	if err := h.todos.Update(c.Request().Context(), p.UserID, id, req.fields()); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, ok())
}

func (h *handler) toggleTodo(c echo.Context) error {
	id, valid := todoID(c)
	if !valid {
		return c.JSON(http.StatusOK, fail(msgTodoNotOwned))
	}
	p := principal(c)
	if err := h.todos.ToggleDone(c.Request().Context(), p.UserID, id); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, ok())
}

func (h *handler) deleteTodo(c echo.Context) error {
	id, valid := todoID(c)
	if !valid {
		return c.JSON(http.StatusOK, fail(msgTodoNotOwned))
	}
	p := principal(c)
	if err := h.todos.Delete(c.Request().Context(), p.UserID, id); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, ok())
}
