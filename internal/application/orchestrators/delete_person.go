package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage"
	enrollmentStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/enrollment"
	paymentStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/payment"
	personStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/person"
)

// ErrPersonNotFound is returned when the person to delete does not exist.
var ErrPersonNotFound = errors.New("person not found")

// DeletePersonDeps holds external dependencies for person deletion.
type DeletePersonDeps struct {
	PersonStore     personStore.Store
	EnrollmentStore enrollmentStore.Store
	PaymentStore    paymentStore.Store
}

// ExecuteDeletePerson removes a person together with their enrollments and
// those enrollments' payments across all events.
// PRE: personID is non-empty
// POST: No record referencing the person remains
func ExecuteDeletePerson(ctx context.Context, personID string, deps DeletePersonDeps) error {
	if _, err := deps.PersonStore.GetByID(ctx, personID); err != nil {
		if storage.IsNotFound(err) {
			return ErrPersonNotFound
		}
		return err
	}

	enrollments, err := deps.EnrollmentStore.List(ctx, enrollmentStore.ListFilter{PersonID: personID})
	if err != nil {
		return fmt.Errorf("list enrollments: %w", err)
	}
	for _, enr := range enrollments {
		payments, err := deps.PaymentStore.ListByEnrollment(ctx, enr.ID)
		if err != nil {
			return fmt.Errorf("list payments: %w", err)
		}
		for _, p := range payments {
			if err := deps.PaymentStore.Delete(ctx, p.ID); err != nil {
				return fmt.Errorf("delete payment: %w", err)
			}
		}
		if err := deps.EnrollmentStore.Delete(ctx, enr.ID); err != nil {
			return fmt.Errorf("delete enrollment: %w", err)
		}
	}

	if err := deps.PersonStore.Delete(ctx, personID); err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	slog.Info("person_deleted", "person_id", personID, "enrollments_removed", len(enrollments))
	return nil
}
