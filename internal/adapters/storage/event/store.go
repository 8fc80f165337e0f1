package event

import (
	"context"

	domain "github.com/joserubiobejarano/crmtrilogy/internal/domain/event"
)

// ListFilter narrows the events returned by List.
type ListFilter struct {
	ProgramType     string
	City            string
	ActiveOnly      bool
	DeletionPending bool // only events with a scheduled deletion
}

// Store defines the persistence interface for events.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Event, error)
	GetByProgramTypeAndCode(ctx context.Context, programType, code string) (domain.Event, error)
	Save(ctx context.Context, entity domain.Event) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Event, error)
	DeactivateAll(ctx context.Context, programType, city string) error
}
