package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage"
	cityStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/city"
	eventStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/event"
	programtypeStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/programtype"
	cityDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/city"
	programtypeDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/programtype"
)

// Errors returned by the catalog orchestrators.
var (
	ErrCityExists         = errors.New("city already exists")
	ErrCityInUse          = errors.New("city is referenced by events")
	ErrCityNotFound       = errors.New("city not found")
	ErrProgramTypeExists  = errors.New("program type code already exists")
	ErrProgramTypeInUse   = errors.New("program type is referenced by events")
	ErrProgramTypeMissing = errors.New("program type not found")
)

// CatalogDeps holds external dependencies for the city and program type
// admin operations.
type CatalogDeps struct {
	CityStore        cityStore.Store
	ProgramTypeStore programtypeStore.Store
	EventStore       eventStore.Store
	GenerateID       func() string
	Now              func() time.Time
}

func (d CatalogDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// ExecuteAddCity creates a catalog city.
// PRE: name is non-blank after trimming
// POST: City exists; a case-insensitive duplicate returns ErrCityExists
func ExecuteAddCity(ctx context.Context, name string, deps CatalogDeps) (cityDomain.City, error) {
	c := cityDomain.City{
		ID:        deps.GenerateID(),
		Name:      strings.TrimSpace(name),
		CreatedAt: deps.now().UTC().Format(time.RFC3339),
	}
	if err := c.Validate(); err != nil {
		return cityDomain.City{}, err
	}

	if _, err := deps.CityStore.GetByName(ctx, c.Name); err == nil {
		return cityDomain.City{}, ErrCityExists
	} else if !storage.IsNotFound(err) {
		return cityDomain.City{}, err
	}

	if err := deps.CityStore.Save(ctx, c); err != nil {
		return cityDomain.City{}, fmt.Errorf("save city: %w", err)
	}
	return c, nil
}

// ExecuteDeleteCity removes a catalog city unless events reference it.
// PRE: id is non-empty
// POST: City is removed, or ErrCityInUse when any event uses its name
func ExecuteDeleteCity(ctx context.Context, id string, deps CatalogDeps) error {
	c, err := deps.CityStore.GetByID(ctx, id)
	if err != nil {
		if storage.IsNotFound(err) {
			return ErrCityNotFound
		}
		return err
	}

	events, err := deps.EventStore.List(ctx, eventStore.ListFilter{City: c.Name})
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}
	if len(events) > 0 {
		return ErrCityInUse
	}
	return deps.CityStore.Delete(ctx, id)
}

// ExecuteAddProgramType creates a catalog program type. Codes are stored
// upper-case.
// PRE: code and label are non-blank after trimming
// POST: Program type exists; a duplicate code returns ErrProgramTypeExists
func ExecuteAddProgramType(ctx context.Context, code, label string, deps CatalogDeps) (programtypeDomain.ProgramType, error) {
	pt := programtypeDomain.ProgramType{
		ID:        deps.GenerateID(),
		Code:      strings.ToUpper(strings.TrimSpace(code)),
		Label:     strings.TrimSpace(label),
		CreatedAt: deps.now().UTC().Format(time.RFC3339),
	}
	if err := pt.Validate(); err != nil {
		return programtypeDomain.ProgramType{}, err
	}

	if _, err := deps.ProgramTypeStore.GetByCode(ctx, pt.Code); err == nil {
		return programtypeDomain.ProgramType{}, ErrProgramTypeExists
	} else if !storage.IsNotFound(err) {
		return programtypeDomain.ProgramType{}, err
	}

	if err := deps.ProgramTypeStore.Save(ctx, pt); err != nil {
		return programtypeDomain.ProgramType{}, fmt.Errorf("save program type: %w", err)
	}
	return pt, nil
}

// ExecuteDeleteProgramType removes a program type unless events reference
// its code.
// PRE: id is non-empty
// POST: Program type is removed, or ErrProgramTypeInUse when in use
func ExecuteDeleteProgramType(ctx context.Context, id string, deps CatalogDeps) error {
	pt, err := deps.ProgramTypeStore.GetByID(ctx, id)
	if err != nil {
		if storage.IsNotFound(err) {
			return ErrProgramTypeMissing
		}
		return err
	}

	events, err := deps.EventStore.List(ctx, eventStore.ListFilter{ProgramType: pt.Code})
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}
	if len(events) > 0 {
		return ErrProgramTypeInUse
	}
	return deps.ProgramTypeStore.Delete(ctx, id)
}
