package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage"
	enrollmentStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/enrollment"
	personStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/person"
	enrollmentDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/enrollment"
	eventDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/event"
)

// DuplicateEventInput describes the replacement event and whether to carry
// the roster over.
type DuplicateEventInput struct {
	SourceEventID    string
	ProgramType      string
	Code             string
	City             string
	Coordinator      string
	CopyParticipants bool
}

// DuplicateEventDeps holds external dependencies for event duplication.
type DuplicateEventDeps struct {
	EventDeps
	EnrollmentStore enrollmentStore.Store
	PersonStore     personStore.Store
}

// ExecuteDuplicateEvent creates a new inactive event from a source event,
// optionally copying its roster. Copied enrollments keep contract status,
// notes, angel and city but reset the per-event progress flags (attended,
// details sent, confirmed, cca, health doc, TL norms/rules, cantidad,
// finalized); transferred-out enrollments are not carried over. When a city
// is set, the copied people's city is bulk-updated to it.
// PRE: input fields validated as for ExecuteCreateEvent
// POST: New event exists; source event and its roster are unchanged
func ExecuteDuplicateEvent(ctx context.Context, input DuplicateEventInput, deps DuplicateEventDeps) (eventDomain.Event, error) {
	if _, err := deps.EventStore.GetByID(ctx, input.SourceEventID); err != nil {
		if storage.IsNotFound(err) {
			return eventDomain.Event{}, ErrEventNotFound
		}
		return eventDomain.Event{}, err
	}

	newEvent, err := ExecuteCreateEvent(ctx, CreateEventInput{
		ProgramType: input.ProgramType,
		Code:        input.Code,
		City:        input.City,
		Coordinator: input.Coordinator,
	}, deps.EventDeps)
	if err != nil {
		return eventDomain.Event{}, err
	}

	if !input.CopyParticipants {
		return newEvent, nil
	}

	source, err := deps.EnrollmentStore.List(ctx, enrollmentStore.ListFilter{EventID: input.SourceEventID})
	if err != nil {
		return eventDomain.Event{}, fmt.Errorf("list source enrollments: %w", err)
	}

	now := deps.now().UTC().Format(time.RFC3339)
	var copiedPeople []string
	for _, src := range source {
		if src.Status == enrollmentDomain.StatusTransferredOut {
			continue
		}
		dup := enrollmentDomain.Enrollment{
			ID:       deps.GenerateID(),
			EventID:  newEvent.ID,
			PersonID: src.PersonID,
			Status:   src.Status,
			Flags: enrollmentDomain.Flags{
				ContractSigned: src.Flags.ContractSigned,
			},
			AdminNotes: src.AdminNotes,
			AngelName:  src.AngelName,
			City:       src.City,
			CreatedAt:  now,
		}
		if err := deps.EnrollmentStore.Save(ctx, dup); err != nil {
			return eventDomain.Event{}, fmt.Errorf("copy enrollment for person %s: %w", src.PersonID, err)
		}
		copiedPeople = append(copiedPeople, src.PersonID)
	}

	city := strings.TrimSpace(input.City)
	if city != "" && len(copiedPeople) > 0 {
		people, err := deps.PersonStore.List(ctx, personStore.ListFilter{IDs: copiedPeople})
		if err != nil {
			return eventDomain.Event{}, fmt.Errorf("list copied people: %w", err)
		}
		for _, p := range people {
			p.City = city
			if err := deps.PersonStore.Save(ctx, p); err != nil {
				return eventDomain.Event{}, fmt.Errorf("update person city: %w", err)
			}
		}
	}

	slog.Info("event_duplicated",
		"source_event_id", input.SourceEventID,
		"new_event_id", newEvent.ID,
		"participants_copied", len(copiedPeople),
	)
	return newEvent, nil
}
