package orchestrators

import (
	"context"
	"log/slog"
	"time"

	cityDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/city"
	programtypeDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/programtype"

	"github.com/google/uuid"
)

// CityStoreForSeed defines the store interface needed by SeedCatalog.
type CityStoreForSeed interface {
	Save(ctx context.Context, c cityDomain.City) error
	List(ctx context.Context) ([]cityDomain.City, error)
}

// ProgramTypeStoreForSeed defines the store interface needed by SeedCatalog.
type ProgramTypeStoreForSeed interface {
	Save(ctx context.Context, pt programtypeDomain.ProgramType) error
	List(ctx context.Context) ([]programtypeDomain.ProgramType, error)
}

// SeedCatalogDeps holds dependencies for SeedCatalog.
type SeedCatalogDeps struct {
	CityStore        CityStoreForSeed
	ProgramTypeStore ProgramTypeStoreForSeed
}

// defaultCities are the cities the admin teams operate in.
var defaultCities = []string{"Miami", "Orlando", "Houston"}

// ExecuteSeedCatalog creates the default cities and program types if the
// catalog tables are empty. Safe to run on every startup.
func ExecuteSeedCatalog(ctx context.Context, deps SeedCatalogDeps) error {
	now := time.Now().UTC().Format(time.RFC3339)

	cities, err := deps.CityStore.List(ctx)
	if err != nil {
		return err
	}
	if len(cities) == 0 {
		for _, name := range defaultCities {
			c := cityDomain.City{ID: uuid.New().String(), Name: name, CreatedAt: now}
			if err := deps.CityStore.Save(ctx, c); err != nil {
				return err
			}
		}
		slog.Info("seeded_cities", "count", len(defaultCities))
	}

	programTypes, err := deps.ProgramTypeStore.List(ctx)
	if err != nil {
		return err
	}
	if len(programTypes) == 0 {
		for _, code := range programtypeDomain.DefaultCodes {
			pt := programtypeDomain.ProgramType{
				ID:        uuid.New().String(),
				Code:      code,
				Label:     programtypeDomain.Display(code),
				CreatedAt: now,
			}
			if err := deps.ProgramTypeStore.Save(ctx, pt); err != nil {
				return err
			}
		}
		slog.Info("seeded_program_types", "count", len(programtypeDomain.DefaultCodes))
	}

	return nil
}
