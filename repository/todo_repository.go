package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"

	"taskTracker/models"
)

const todosTable = "todos"

var todoColumns = []string{"id", "user_id", "text", "done", "due_date", "priority", "memo", "category"}

// TodoRepository stores todos. Every statement carries the owner predicate.
type TodoRepository struct {
	db     *sqlx.DB
	logger *log.Logger
}

// NewTodoRepository creates a TodoRepository. A nil logger falls back to the default logger.
func NewTodoRepository(db *sqlx.DB, logger *log.Logger) *TodoRepository {
	if logger == nil {
		logger = log.Default()
	}
	return &TodoRepository{db: db, logger: logger.WithPrefix("todos")}
}

// List returns the owner's todos matching f, incomplete first, then by id.
//
// Storage failures are logged and reported as an empty list so that clients always
// receive an array. Use Query when the error matters.
func (r *TodoRepository) List(ctx context.Context, userID int64, f TodoFilter) []models.Todo {
	out, err := r.Query(ctx, userID, f)
	if err != nil {
		r.logger.Warn("list todos failed, returning empty result", "user_id", userID, "err", err)
		return []models.Todo{}
	}
	return out
}

// Query is List without the leniency: storage errors are returned.
func (r *TodoRepository) Query(ctx context.Context, userID int64, f TodoFilter) ([]models.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	b := sq.Select(todoColumns...).
		From(todosTable).
		Where(sq.Eq{"user_id": userID})
	if f.Text != "" {
		// instr is case-sensitive; LIKE is not for ASCII in SQLite.
		b = b.Where(sq.Expr("instr(text, ?) > 0", f.Text))
	}
	if f.Priority != "" && f.Priority != FilterAll {
		b = b.Where(sq.Eq{"priority": f.Priority})
	}
	if f.Category != "" && f.Category != FilterAll {
		b = b.Where(sq.Eq{"category": f.Category})
	}
	b = b.OrderBy("done ASC", "id ASC")

	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	out := []models.Todo{}
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a todo owned by userID. Done starts false.
func (r *TodoRepository) Create(ctx context.Context, userID int64, fields TodoFields) (*models.Todo, error) {
	cols, err := fields.columns()
	if err != nil {
		return nil, err
	}
	cols["user_id"] = userID

	query, args, err := sq.Insert(todosTable).SetMap(cols).ToSql()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.get(ctx, userID, id)
}

// Update replaces the editable fields of a todo owned by userID.
func (r *TodoRepository) Update(ctx context.Context, userID, id int64, fields TodoFields) error {
	cols, err := fields.columns()
	if err != nil {
		return err
	}
	return r.mutateOwnedOne(ctx, id, userID, cols)
}

// ToggleDone flips the done flag in a single statement.
func (r *TodoRepository) ToggleDone(ctx context.Context, userID, id int64) error {
	return r.mutateOwnedOne(ctx, id, userID, patch{"done": sq.Expr("1 - done")})
}

// Delete removes a todo owned by userID.
func (r *TodoRepository) Delete(ctx context.Context, userID, id int64) error {
	return r.mutateOwnedOne(ctx, id, userID, nil)
}

// patch is a column → value map for mutateOwned. Values may be squirrel expressions.
// A nil patch deletes the row.
type patch map[string]any

// mutateOwned applies p to the todo with the given id, but only if ownerID owns it,
// and returns the number of affected rows.
func (r *TodoRepository) mutateOwned(ctx context.Context, id, ownerID int64, p patch) (int64, error) {
	owned := sq.Eq{"id": id, "user_id": ownerID}

	var stmt sq.Sqlizer
	if p == nil {
		stmt = sq.Delete(todosTable).Where(owned)
	} else {
		stmt = sq.Update(todosTable).SetMap(p).Where(owned)
	}
	query, args, err := stmt.ToSql()
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// mutateOwnedOne is mutateOwned with zero affected rows mapped to ErrNotFound.
func (r *TodoRepository) mutateOwnedOne(ctx context.Context, id, ownerID int64, p patch) error {
	n, err := r.mutateOwned(ctx, id, ownerID, p)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("todo %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *TodoRepository) get(ctx context.Context, userID, id int64) (*models.Todo, error) {
	query, args, err := sq.Select(todoColumns...).
		From(todosTable).
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var t models.Todo
	if err := r.db.GetContext(ctx, &t, query, args...); err != nil {
		return nil, err
	}
	return &t, nil
}
