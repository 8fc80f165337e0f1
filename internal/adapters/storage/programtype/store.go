package programtype

import (
	"context"

	domain "github.com/joserubiobejarano/crmtrilogy/internal/domain/programtype"
)

// Store defines the persistence interface for program types.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.ProgramType, error)
	GetByCode(ctx context.Context, code string) (domain.ProgramType, error)
	Save(ctx context.Context, entity domain.ProgramType) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.ProgramType, error)
}
