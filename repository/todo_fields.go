package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"taskTracker/models"
)

// ErrInvalidField is returned when a todo field cannot be stored as given.
var ErrInvalidField = errors.New("invalid field")

// FilterAll disables a TodoFilter equality predicate.
const FilterAll = "all"

// TodoFilter narrows List. Text is a case-sensitive substring; Priority and Category
// are equality filters that are skipped when empty or FilterAll.
type TodoFilter struct {
	Text     string
	Priority string
	Category string
}

// TodoFields are the user-editable columns of a todo.
type TodoFields struct {
	Text     string
	DueDate  *string
	Priority models.Priority
	Memo     *string
	Category string
}

// columns applies defaults, validates, and returns the column map written by
// create and update. Empty due dates and memos are stored as NULL.
func (f TodoFields) columns() (map[string]any, error) {
	priority := f.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: priority %q", ErrInvalidField, f.Priority)
	}

	category := strings.TrimSpace(f.Category)
	if category == "" {
		category = models.DefaultCategory
	}

	var due any
	if f.DueDate != nil && strings.TrimSpace(*f.DueDate) != "" {
		d := strings.TrimSpace(*f.DueDate)
		if _, err := time.Parse(models.DueDateLayout, d); err != nil {
			return nil, fmt.Errorf("%w: due_date %q", ErrInvalidField, d)
		}
		due = d
	}

	var memo any
	if f.Memo != nil && *f.Memo != "" {
		memo = *f.Memo
	}

	return map[string]any{
		"text":     f.Text,
		"due_date": due,
		"priority": string(priority),
		"memo":     memo,
		"category": category,
	}, nil
}
