package person

import (
	"context"

	domain "github.com/joserubiobejarano/crmtrilogy/internal/domain/person"
)

// Store persists Person state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Person, error)
	GetByEmail(ctx context.Context, email string) (domain.Person, error)
	Save(ctx context.Context, value domain.Person) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Person, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	IDs    []string
	City   string
	Limit  int
	Offset int
}
