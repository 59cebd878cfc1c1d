package repository

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskTracker/internal/testutil"
	"taskTracker/models"
)

func strPtr(s string) *string { return &s }

// seedUsers creates two owners and returns their ids.
func seedUsers(t *testing.T, d *sqlx.DB) (int64, int64) {
	t.Helper()
	users := NewUserRepository(d)
	ctx := context.Background()
	a, err := users.Create(ctx, &models.User{Username: "alice", PasswordHash: "x", SecurityQuestion: "q", SecurityAnswerHash: "y"})
	require.NoError(t, err)
	b, err := users.Create(ctx, &models.User{Username: "bob", PasswordHash: "x", SecurityQuestion: "q", SecurityAnswerHash: "y"})
	require.NoError(t, err)
	return a.ID, b.ID
}

func TestTodoRepository_CreateAppliesDefaults(t *testing.T) {
	d := testutil.OpenInMemoryDB(t)
	alice, _ := seedUsers(t, d)
	repo := NewTodoRepository(d, nil)

	got, err := repo.Create(context.Background(), alice, TodoFields{Text: "buy milk"})
	require.NoError(t, err)
	assert.NotZero(t, got.ID)
	assert.Equal(t, alice, got.UserID)
	assert.Equal(t, "buy milk", got.Text)
	assert.False(t, got.Done)
	assert.Equal(t, models.PriorityMedium, got.Priority)
	assert.Equal(t, models.DefaultCategory, got.Category)
	assert.Nil(t, got.DueDate)
	assert.Nil(t, got.Memo)
}

func TestTodoRepository_CreateRejectsInvalidFields(t *testing.T) {
	d := testutil.OpenInMemoryDB(t)
	alice, _ := seedUsers(t, d)
	repo := NewTodoRepository(d, nil)
	ctx := context.Background()

	_, err := repo.Create(ctx, alice, TodoFields{Text: "x", Priority: "urgent"})
	assert.ErrorIs(t, err, ErrInvalidField)

	_, err = repo.Create(ctx, alice, TodoFields{Text: "x", DueDate: strPtr("31/12/2025")})
	assert.ErrorIs(t, err, ErrInvalidField)

	got, err := repo.Create(ctx, alice, TodoFields{Text: "x", DueDate: strPtr("2025-12-31"), Memo: strPtr("note"), Priority: models.PriorityHigh, Category: "work"})
	require.NoError(t, err)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2025-12-31", *got.DueDate)
	require.NotNil(t, got.Memo)
	assert.Equal(t, "note", *got.Memo)
	assert.Equal(t, models.PriorityHigh, got.Priority)
	assert.Equal(t, "work", got.Category)
}

func TestTodoRepository_ListFiltersAndOrder(t *testing.T) {
	d := testutil.OpenInMemoryDB(t)
	alice, bob := seedUsers(t, d)
	repo := NewTodoRepository(d, nil)
	ctx := context.Background()

	mk := func(owner int64, f TodoFields) int64 {
		t.Helper()
		td, err := repo.Create(ctx, owner, f)
		require.NoError(t, err)
		return td.ID
	}
	first := mk(alice, TodoFields{Text: "Buy milk", Priority: models.PriorityHigh, Category: "home"})
	second := mk(alice, TodoFields{Text: "write report", Priority: models.PriorityLow, Category: "work"})
	third := mk(alice, TodoFields{Text: "buy bread", Category: "home"})
	mk(bob, TodoFields{Text: "buy milk too"})

	// Complete the first one; it must sort after the open ones.
	require.NoError(t, repo.ToggleDone(ctx, alice, first))

	ids := func(list []models.Todo) []int64 {
		out := make([]int64, 0, len(list))
		for _, td := range list {
			out = append(out, td.ID)
		}
		return out
	}

	all := repo.List(ctx, alice, TodoFilter{Priority: FilterAll, Category: FilterAll})
	assert.Equal(t, []int64{second, third, first}, ids(all))

	// Substring match is case-sensitive.
	assert.Equal(t, []int64{third}, ids(repo.List(ctx, alice, TodoFilter{Text: "buy"})))
	assert.Equal(t, []int64{first}, ids(repo.List(ctx, alice, TodoFilter{Text: "Buy"})))

	assert.Equal(t, []int64{second}, ids(repo.List(ctx, alice, TodoFilter{Priority: "low"})))
	assert.Equal(t, []int64{third, first}, ids(repo.List(ctx, alice, TodoFilter{Category: "home", Priority: FilterAll})))
	assert.Equal(t, []int64{first}, ids(repo.List(ctx, alice, TodoFilter{Category: "home", Priority: "high"})))

	// Bob only ever sees his own row.
	bobs := repo.List(ctx, bob, TodoFilter{})
	require.Len(t, bobs, 1)
	assert.Equal(t, "buy milk too", bobs[0].Text)

	empty := repo.List(ctx, alice, TodoFilter{Text: "nothing like this"})
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestTodoRepository_OwnershipEnforced(t *testing.T) {
	d := testutil.OpenInMemoryDB(t)
	alice, bob := seedUsers(t, d)
	repo := NewTodoRepository(d, nil)
	ctx := context.Background()

	td, err := repo.Create(ctx, alice, TodoFields{Text: "secret"})
	require.NoError(t, err)

	assert.ErrorIs(t, repo.Update(ctx, bob, td.ID, TodoFields{Text: "hijacked"}), ErrNotFound)
	assert.ErrorIs(t, repo.ToggleDone(ctx, bob, td.ID), ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, bob, td.ID), ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, alice, td.ID+100), ErrNotFound)

	list := repo.List(ctx, alice, TodoFilter{})
	require.Len(t, list, 1)
	assert.Equal(t, "secret", list[0].Text)
	assert.False(t, list[0].Done)
}

func TestTodoRepository_UpdateToggleDelete(t *testing.T) {
	d := testutil.OpenInMemoryDB(t)
	alice, _ := seedUsers(t, d)
	repo := NewTodoRepository(d, nil)
	ctx := context.Background()

	td, err := repo.Create(ctx, alice, TodoFields{Text: "draft", Memo: strPtr("m")})
	require.NoError(t, err)

	require.NoError(t, repo.Update(ctx, alice, td.ID, TodoFields{Text: "final", Priority: models.PriorityLow, Category: "work", DueDate: strPtr("2026-01-02")}))
	list := repo.List(ctx, alice, TodoFilter{})
	require.Len(t, list, 1)
	assert.Equal(t, "final", list[0].Text)
	assert.Equal(t, models.PriorityLow, list[0].Priority)
	assert.Equal(t, "work", list[0].Category)
	assert.Nil(t, list[0].Memo, "update replaces every editable field")

	// Two toggles return to the original state.
	require.NoError(t, repo.ToggleDone(ctx, alice, td.ID))
	assert.True(t, repo.List(ctx, alice, TodoFilter{})[0].Done)
	require.NoError(t, repo.ToggleDone(ctx, alice, td.ID))
	assert.False(t, repo.List(ctx, alice, TodoFilter{})[0].Done)

	require.NoError(t, repo.Delete(ctx, alice, td.ID))
	assert.Empty(t, repo.List(ctx, alice, TodoFilter{}))
	assert.ErrorIs(t, repo.Delete(ctx, alice, td.ID), ErrNotFound)
}

func newMockRepo(t *testing.T) (*TodoRepository, sqlmock.Sqlmock, *bytes.Buffer) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	var buf bytes.Buffer
	return NewTodoRepository(sqlx.NewDb(mockDB, "sqlite3"), testutil.Logger(&buf)), mock, &buf
}

func TestTodoRepository_ListSwallowsStorageErrors(t *testing.T) {
	repo, mock, logs := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, text, done, due_date, priority, memo, category FROM todos WHERE user_id = ? ORDER BY done ASC, id ASC`)).
		WithArgs(int64(7)).
		WillReturnError(errors.New("disk I/O error"))

	got := repo.List(context.Background(), 7, TodoFilter{})
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Contains(t, logs.String(), "disk I/O error")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_QueryReturnsStorageErrors(t *testing.T) {
	repo, mock, _ := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, text, done, due_date, priority, memo, category FROM todos WHERE user_id = ? AND instr(text, ?) > 0 AND priority = ? ORDER BY done ASC, id ASC`)).
		WithArgs(int64(7), "milk", "high").
		WillReturnError(errors.New("boom"))

	_, err := repo.Query(context.Background(), 7, TodoFilter{Text: "milk", Priority: "high", Category: FilterAll})
	assert.EqualError(t, err, "boom")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_MutateOwnedStatements(t *testing.T) {
	repo, mock, _ := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE todos SET done = 1 - done WHERE id = ? AND user_id = ?`)).
		WithArgs(int64(3), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.ToggleDone(ctx, 9, 3))

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM todos WHERE id = ? AND user_id = ?`)).
		WithArgs(int64(3), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(ctx, 10, 3), ErrNotFound)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM todos WHERE id = ? AND user_id = ?`)).
		WithArgs(int64(4), int64(9)).
		WillReturnError(errors.New("database is locked"))
	err := repo.Delete(ctx, 9, 4)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))

	require.NoError(t, mock.ExpectationsWereMet())
}
