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
	personDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/person"
)

// Errors returned by the enrollment orchestrator.
var (
	ErrEmailRequired   = errors.New("email is required")
	ErrAlreadyEnrolled = errors.New("person is already enrolled in this event")
)

// EnrollParticipantInput carries the participant fields for an enrollment.
type EnrollParticipantInput struct {
	EventID   string
	FirstName string
	LastName  string
	Phone     string
	Email     string
	AngelName string
	Cantidad  int
}

// EnrollParticipantResult reports what the enrollment created.
type EnrollParticipantResult struct {
	PersonID      string
	EnrollmentID  string
	PersonCreated bool
}

// EnrollParticipantDeps holds external dependencies for participant enrollment.
type EnrollParticipantDeps struct {
	PersonStore     personStore.Store
	EventStore      eventStore.Store
	EnrollmentStore enrollmentStore.Store
	GenerateID      func() string
	Now             func() time.Time
}

func (d EnrollParticipantDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// ExecuteEnrollParticipant resolves a person by case-insensitive email,
// creating the person when absent, and enrolls them into the event with
// status pending_contract.
// PRE: input.EventID refers to an existing event
// POST: The person exists and is enrolled exactly once; a second call for
// the same (event, person) returns ErrAlreadyEnrolled
func ExecuteEnrollParticipant(ctx context.Context, input EnrollParticipantInput, deps EnrollParticipantDeps) (EnrollParticipantResult, error) {
	email := personDomain.NormalizeEmail(input.Email)
	if email == "" {
		return EnrollParticipantResult{}, ErrEmailRequired
	}

	if _, err := deps.EventStore.GetByID(ctx, input.EventID); err != nil {
		if storage.IsNotFound(err) {
			return EnrollParticipantResult{}, ErrEventNotFound
		}
		return EnrollParticipantResult{}, err
	}

	var result EnrollParticipantResult
	existing, err := deps.PersonStore.GetByEmail(ctx, email)
	switch {
	case err == nil:
		result.PersonID = existing.ID
	case storage.IsNotFound(err):
		p := personDomain.Person{
			ID:        deps.GenerateID(),
			FirstName: input.FirstName,
			LastName:  input.LastName,
			Phone:     input.Phone,
			Email:     email,
			CreatedAt: deps.now().UTC().Format(time.RFC3339),
		}
		if err := deps.PersonStore.Save(ctx, p); err != nil {
			return EnrollParticipantResult{}, fmt.Errorf("save person: %w", err)
		}
		result.PersonID = p.ID
		result.PersonCreated = true
	default:
		return EnrollParticipantResult{}, err
	}

	if _, err := deps.EnrollmentStore.GetByEventAndPerson(ctx, input.EventID, result.PersonID); err == nil {
		return EnrollParticipantResult{}, ErrAlreadyEnrolled
	} else if !storage.IsNotFound(err) {
		return EnrollParticipantResult{}, err
	}

	enr := enrollmentDomain.Enrollment{
		ID:        deps.GenerateID(),
		EventID:   input.EventID,
		PersonID:  result.PersonID,
		Status:    enrollmentDomain.StatusPendingContract,
		AngelName: input.AngelName,
		Cantidad:  input.Cantidad,
		CreatedAt: deps.now().UTC().Format(time.RFC3339),
	}
	if err := deps.EnrollmentStore.Save(ctx, enr); err != nil {
		return EnrollParticipantResult{}, fmt.Errorf("save enrollment: %w", err)
	}
	result.EnrollmentID = enr.ID

	slog.Info("participant_enrolled",
		"event_id", input.EventID,
		"person_id", result.PersonID,
		"person_created", result.PersonCreated,
	)
	return result, nil
}
