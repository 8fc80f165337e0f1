package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage"
	enrollmentStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/enrollment"
	eventStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/event"
	paymentStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/payment"
	eventDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/event"
)

// EventDeletionDeps holds external dependencies for the deletion lifecycle.
type EventDeletionDeps struct {
	EventStore      eventStore.Store
	EnrollmentStore enrollmentStore.Store
	PaymentStore    paymentStore.Store
	Now             func() time.Time
}

func (d EventDeletionDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// ExecuteScheduleEventDeletion marks an event for removal after the grace
// period. The event stays fully usable until the deadline passes.
// PRE: eventID is non-empty
// POST: ScheduledDeletionAt is set to now + grace
func ExecuteScheduleEventDeletion(ctx context.Context, eventID string, deps EventDeletionDeps) (eventDomain.Event, error) {
	ev, err := deps.EventStore.GetByID(ctx, eventID)
	if err != nil {
		if storage.IsNotFound(err) {
			return eventDomain.Event{}, ErrEventNotFound
		}
		return eventDomain.Event{}, err
	}

	ev.ScheduledDeletionAt = deps.now().UTC().Add(eventDomain.ScheduledDeletionGrace).Format(time.RFC3339)
	if err := deps.EventStore.Save(ctx, ev); err != nil {
		return eventDomain.Event{}, fmt.Errorf("save event: %w", err)
	}

	slog.Info("event_deletion_scheduled", "event_id", ev.ID, "at", ev.ScheduledDeletionAt)
	return ev, nil
}

// ExecuteCancelEventDeletion clears a pending deletion schedule.
// PRE: eventID is non-empty
// POST: ScheduledDeletionAt is empty
func ExecuteCancelEventDeletion(ctx context.Context, eventID string, deps EventDeletionDeps) (eventDomain.Event, error) {
	ev, err := deps.EventStore.GetByID(ctx, eventID)
	if err != nil {
		if storage.IsNotFound(err) {
			return eventDomain.Event{}, ErrEventNotFound
		}
		return eventDomain.Event{}, err
	}

	ev.ScheduledDeletionAt = ""
	if err := deps.EventStore.Save(ctx, ev); err != nil {
		return eventDomain.Event{}, fmt.Errorf("save event: %w", err)
	}

	slog.Info("event_deletion_cancelled", "event_id", ev.ID)
	return ev, nil
}

// ExecuteProcessScheduledDeletions permanently removes every event whose
// deletion deadline has passed, together with its enrollments and their
// payments. Events still inside the grace period are untouched.
// PRE: Deps stores are wired
// POST: Returns the number of events removed
func ExecuteProcessScheduledDeletions(ctx context.Context, deps EventDeletionDeps) (int, error) {
	pending, err := deps.EventStore.List(ctx, eventStore.ListFilter{DeletionPending: true})
	if err != nil {
		return 0, fmt.Errorf("list pending deletions: %w", err)
	}

	now := deps.now()
	deleted := 0
	for _, ev := range pending {
		if !ev.DeletionDue(now) {
			continue
		}
		if err := deleteEventCascade(ctx, ev.ID, deps); err != nil {
			slog.Error("event_deletion_failed", "event_id", ev.ID, "err", err)
			continue
		}
		deleted++
		slog.Info("event_deleted", "event_id", ev.ID, "program_type", ev.ProgramType, "code", ev.Code)
	}
	return deleted, nil
}

// deleteEventCascade removes an event with its enrollments and payments.
func deleteEventCascade(ctx context.Context, eventID string, deps EventDeletionDeps) error {
	enrollments, err := deps.EnrollmentStore.List(ctx, enrollmentStore.ListFilter{EventID: eventID})
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
	return deps.EventStore.Delete(ctx, eventID)
}
