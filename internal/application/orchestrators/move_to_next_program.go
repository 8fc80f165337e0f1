package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage"
	enrollmentStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/enrollment"
	eventStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/event"
	personStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/person"
	enrollmentDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/enrollment"
	"github.com/joserubiobejarano/crmtrilogy/internal/domain/programtype"
)

// Errors returned by the program progression orchestrator.
var (
	ErrNoNextProgram     = errors.New("program has no successor")
	ErrNoActiveNextEvent = errors.New("no active event for the next program in this city")
)

// MoveToNextProgramDeps holds external dependencies for moving a
// participant to the next program.
type MoveToNextProgramDeps struct {
	EnrollmentStore enrollmentStore.Store
	EventStore      eventStore.Store
	PersonStore     personStore.Store
	GenerateID      func() string
	Now             func() time.Time
}

func (d MoveToNextProgramDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// ExecuteMoveToNextProgram enrolls the participant of the given enrollment
// into the active event of the next program (PT → LT → TL) in the same
// city, carrying the angel name over. The person's city follows the target
// event's city.
// PRE: enrollmentID refers to an existing enrollment
// POST: A pending_contract enrollment exists in the next program's active
// event, or a typed error explains why not
func ExecuteMoveToNextProgram(ctx context.Context, enrollmentID string, deps MoveToNextProgramDeps) (enrollmentDomain.Enrollment, error) {
	enr, err := deps.EnrollmentStore.GetByID(ctx, enrollmentID)
	if err != nil {
		if storage.IsNotFound(err) {
			return enrollmentDomain.Enrollment{}, ErrEnrollmentNotFound
		}
		return enrollmentDomain.Enrollment{}, err
	}

	ev, err := deps.EventStore.GetByID(ctx, enr.EventID)
	if err != nil {
		if storage.IsNotFound(err) {
			return enrollmentDomain.Enrollment{}, ErrEventNotFound
		}
		return enrollmentDomain.Enrollment{}, err
	}

	nextCode := programtype.NextCode(ev.ProgramType)
	if nextCode == "" {
		return enrollmentDomain.Enrollment{}, ErrNoNextProgram
	}

	candidates, err := deps.EventStore.List(ctx, eventStore.ListFilter{
		ProgramType: nextCode,
		City:        ev.City,
		ActiveOnly:  true,
	})
	if err != nil {
		return enrollmentDomain.Enrollment{}, err
	}
	if len(candidates) == 0 {
		return enrollmentDomain.Enrollment{}, ErrNoActiveNextEvent
	}
	nextEvent := candidates[0]

	if _, err := deps.EnrollmentStore.GetByEventAndPerson(ctx, nextEvent.ID, enr.PersonID); err == nil {
		return enrollmentDomain.Enrollment{}, ErrAlreadyEnrolled
	} else if !storage.IsNotFound(err) {
		return enrollmentDomain.Enrollment{}, err
	}

	moved := enrollmentDomain.Enrollment{
		ID:        deps.GenerateID(),
		EventID:   nextEvent.ID,
		PersonID:  enr.PersonID,
		Status:    enrollmentDomain.StatusPendingContract,
		AngelName: enr.AngelName,
		CreatedAt: deps.now().UTC().Format(time.RFC3339),
	}
	if err := deps.EnrollmentStore.Save(ctx, moved); err != nil {
		return enrollmentDomain.Enrollment{}, fmt.Errorf("save enrollment: %w", err)
	}

	if nextEvent.City != "" {
		person, err := deps.PersonStore.GetByID(ctx, enr.PersonID)
		if err == nil && person.City != nextEvent.City {
			person.City = nextEvent.City
			if err := deps.PersonStore.Save(ctx, person); err != nil {
				slog.Error("move_next_program_city_update_failed", "person_id", person.ID, "error", err.Error())
			}
		}
	}

	slog.Info("moved_to_next_program",
		"enrollment_id", enrollmentID,
		"person_id", enr.PersonID,
		"from_program", ev.ProgramType,
		"to_event_id", nextEvent.ID,
	)
	return moved, nil
}
