package city

import (
	"context"

	domain "github.com/joserubiobejarano/crmtrilogy/internal/domain/city"
)

// Store defines the persistence interface for cities.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.City, error)
	GetByName(ctx context.Context, name string) (domain.City, error)
	Save(ctx context.Context, entity domain.City) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.City, error)
}
