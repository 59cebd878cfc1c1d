package models

// Priority ranks a todo. Stored as text.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// DefaultCategory is assigned when a todo is saved without a category.
const DefaultCategory = "other"

// DueDateLayout is the storage and wire format of Todo.DueDate.
const DueDateLayout = "2006-01-02"

// Todo is a task owned by exactly one user.
// DueDate and Memo are nullable in DB; pointers distinguish null from empty.
type Todo struct {
	ID       int64    `db:"id" json:"id"`
	UserID   int64    `db:"user_id" json:"user_id"`
	Text     string   `db:"text" json:"text"`
	Done     bool     `db:"done" json:"done"`
	DueDate  *string  `db:"due_date" json:"due_date"`
	Priority Priority `db:"priority" json:"priority"`
	Memo     *string  `db:"memo" json:"memo"`
	Category string   `db:"category" json:"category"`
}
