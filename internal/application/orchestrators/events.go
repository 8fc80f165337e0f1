package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage"
	eventStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/event"
	programtypeStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/programtype"
	eventDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/event"
)

// Validation errors shared by the event orchestrators.
var (
	ErrInvalidProgramType = errors.New("program type is not in the catalog")
	ErrEventNotFound      = errors.New("event not found")
)

// EventDeps holds external dependencies for the event orchestrators.
type EventDeps struct {
	EventStore       eventStore.Store
	ProgramTypeStore programtypeStore.Store
	GenerateID       func() string
	Now              func() time.Time
}

func (d EventDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// CreateEventInput carries the fields for a new event.
type CreateEventInput struct {
	ProgramType string
	Code        string
	City        string
	Coordinator string
	StartDate   string // RFC 3339 or empty
	EndDate     string // RFC 3339 or empty
}

// ExecuteCreateEvent creates an inactive event after validating the program
// type against the catalog.
// PRE: Deps stores are wired
// POST: Event is persisted inactive, or a validation error is returned
func ExecuteCreateEvent(ctx context.Context, input CreateEventInput, deps EventDeps) (eventDomain.Event, error) {
	programType := strings.ToUpper(strings.TrimSpace(input.ProgramType))
	if _, err := deps.ProgramTypeStore.GetByCode(ctx, programType); err != nil {
		if storage.IsNotFound(err) {
			return eventDomain.Event{}, ErrInvalidProgramType
		}
		return eventDomain.Event{}, err
	}

	ev := eventDomain.Event{
		ID:          deps.GenerateID(),
		ProgramType: programType,
		Code:        strings.TrimSpace(input.Code),
		City:        strings.TrimSpace(input.City),
		Coordinator: strings.TrimSpace(input.Coordinator),
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Active:      false,
		CreatedAt:   deps.now().UTC().Format(time.RFC3339),
	}
	if err := ev.Validate(); err != nil {
		return eventDomain.Event{}, err
	}
	if err := deps.EventStore.Save(ctx, ev); err != nil {
		return eventDomain.Event{}, fmt.Errorf("save event: %w", err)
	}

	slog.Info("event_created", "event_id", ev.ID, "program_type", ev.ProgramType, "code", ev.Code, "city", ev.City)
	return ev, nil
}

// UpdateEventInput carries the full editable field set of an event.
type UpdateEventInput struct {
	EventID         string
	ProgramType     string
	Code            string
	City            string
	Coordinator     string
	Entrenadores    string
	CapitanMentores string
	Mentores        string
	StartDate       string
	EndDate         string
}

// ExecuteUpdateEvent overwrites the editable fields of an event.
// PRE: input.EventID is non-empty
// POST: All listed fields are replaced; active flag and deletion schedule
// are untouched
func ExecuteUpdateEvent(ctx context.Context, input UpdateEventInput, deps EventDeps) (eventDomain.Event, error) {
	ev, err := deps.EventStore.GetByID(ctx, input.EventID)
	if err != nil {
		if storage.IsNotFound(err) {
			return eventDomain.Event{}, ErrEventNotFound
		}
		return eventDomain.Event{}, err
	}

	programType := strings.ToUpper(strings.TrimSpace(input.ProgramType))
	if _, err := deps.ProgramTypeStore.GetByCode(ctx, programType); err != nil {
		if storage.IsNotFound(err) {
			return eventDomain.Event{}, ErrInvalidProgramType
		}
		return eventDomain.Event{}, err
	}

	ev.ProgramType = programType
	ev.Code = strings.TrimSpace(input.Code)
	ev.City = strings.TrimSpace(input.City)
	ev.Coordinator = strings.TrimSpace(input.Coordinator)
	ev.Entrenadores = strings.TrimSpace(input.Entrenadores)
	ev.CapitanMentores = strings.TrimSpace(input.CapitanMentores)
	ev.Mentores = strings.TrimSpace(input.Mentores)
	ev.StartDate = input.StartDate
	ev.EndDate = input.EndDate

	if err := ev.Validate(); err != nil {
		return eventDomain.Event{}, err
	}
	if err := deps.EventStore.Save(ctx, ev); err != nil {
		return eventDomain.Event{}, fmt.Errorf("save event: %w", err)
	}
	return ev, nil
}

// UpdateEventStaffInput carries optional staff assignments; nil pointers
// leave the stored value untouched.
type UpdateEventStaffInput struct {
	EventID         string
	Coordinator     *string
	Entrenadores    *string
	CapitanMentores *string
	Mentores        *string
}

// ExecuteUpdateEventStaff updates only the staff lines of an event.
// PRE: input.EventID is non-empty
// POST: Only the provided staff fields change
func ExecuteUpdateEventStaff(ctx context.Context, input UpdateEventStaffInput, deps EventDeps) (eventDomain.Event, error) {
	ev, err := deps.EventStore.GetByID(ctx, input.EventID)
	if err != nil {
		if storage.IsNotFound(err) {
			return eventDomain.Event{}, ErrEventNotFound
		}
		return eventDomain.Event{}, err
	}

	changed := false
	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
			changed = true
		}
	}
	apply(&ev.Coordinator, input.Coordinator)
	apply(&ev.Entrenadores, input.Entrenadores)
	apply(&ev.CapitanMentores, input.CapitanMentores)
	apply(&ev.Mentores, input.Mentores)

	if !changed {
		return ev, nil
	}
	if err := deps.EventStore.Save(ctx, ev); err != nil {
		return eventDomain.Event{}, fmt.Errorf("save event: %w", err)
	}
	return ev, nil
}

// ExecuteSetActiveEvent marks one event active and deactivates every other
// event sharing its program type and city. At most one event per
// (program type, city) is active afterwards.
// PRE: eventID is non-empty
// POST: The event is the only active one for its program type and city
func ExecuteSetActiveEvent(ctx context.Context, eventID string, deps EventDeps) error {
	ev, err := deps.EventStore.GetByID(ctx, eventID)
	if err != nil {
		if storage.IsNotFound(err) {
			return ErrEventNotFound
		}
		return err
	}

	if err := deps.EventStore.DeactivateAll(ctx, ev.ProgramType, ev.City); err != nil {
		return fmt.Errorf("deactivate events: %w", err)
	}
	ev.Active = true
	if err := deps.EventStore.Save(ctx, ev); err != nil {
		return fmt.Errorf("save event: %w", err)
	}

	slog.Info("event_activated", "event_id", ev.ID, "program_type", ev.ProgramType, "city", ev.City)
	return nil
}
