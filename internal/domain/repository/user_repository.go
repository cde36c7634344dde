package repository

import (
	"context"
	"errors"

	"github.com/storelane/storelane-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no record matches the given identifier.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when the unique email constraint is violated.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserPatch carries a merge-update of a user. Nil fields keep their
// stored values.
type UserPatch struct {
	Name     *string
	Email    *string
	Password *string // already hashed by the caller
	Role     *entity.Role
}

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	Update(ctx context.Context, id string, patch UserPatch) (*entity.User, error)
	Delete(ctx context.Context, id string) (*entity.User, error)
}
