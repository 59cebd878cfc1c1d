package repository

import (
	"context"

	"taskTracker/models"
)

// UserRepositoryI defines operations on User entities (the credential store).
type UserRepositoryI interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	UpdateSecurityQuestion(ctx context.Context, id int64, question, answerHash string) error
	List(ctx context.Context, limit, offset int) ([]models.User, error)
}

// TodoRepositoryI defines operations on Todo entities. Every method is scoped by owner.
type TodoRepositoryI interface {
	List(ctx context.Context, userID int64, f TodoFilter) []models.Todo
	Query(ctx context.Context, userID int64, f TodoFilter) ([]models.Todo, error)
	Create(ctx context.Context, userID int64, fields TodoFields) (*models.Todo, error)
	Update(ctx context.Context, userID, id int64, fields TodoFields) error
	ToggleDone(ctx context.Context, userID, id int64) error
	Delete(ctx context.Context, userID, id int64) error
}

var (
	_ UserRepositoryI = (*UserRepository)(nil)
	_ TodoRepositoryI = (*TodoRepository)(nil)
)
