package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage"
	eventStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/event"
	reportStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/eventreport"
	reportDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/eventreport"
)

// ErrReportNotFound is returned when no report exists for an event.
var ErrReportNotFound = errors.New("report not found")

// ReportDeps holds external dependencies for the closing-report
// orchestrators.
type ReportDeps struct {
	ReportStore reportStore.Store
	EventStore  eventStore.Store
	GenerateID  func() string
	Now         func() time.Time
}

func (d ReportDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// ExecuteEnsureReport creates the report row for an event if it does not
// exist yet. Existing notes are never overwritten.
// PRE: eventID refers to an existing event
// POST: A report row exists for the event; repeat calls are no-ops
func ExecuteEnsureReport(ctx context.Context, eventID string, deps ReportDeps) (reportDomain.EventReport, error) {
	if _, err := deps.EventStore.GetByID(ctx, eventID); err != nil {
		if storage.IsNotFound(err) {
			return reportDomain.EventReport{}, ErrEventNotFound
		}
		return reportDomain.EventReport{}, err
	}

	existing, err := deps.ReportStore.GetByEventID(ctx, eventID)
	if err == nil {
		return existing, nil
	}
	if !storage.IsNotFound(err) {
		return reportDomain.EventReport{}, err
	}

	r := reportDomain.EventReport{
		ID:        deps.GenerateID(),
		EventID:   eventID,
		CreatedAt: deps.now().UTC().Format(time.RFC3339),
	}
	if err := deps.ReportStore.Save(ctx, r); err != nil {
		return reportDomain.EventReport{}, fmt.Errorf("save report: %w", err)
	}

	slog.Info("report_created", "event_id", eventID)
	return r, nil
}

// ExecuteUpdateReportNotes replaces the stored notes for an event's report.
// PRE: a report exists for the event
// POST: Notes are replaced and UpdatedAt refreshed
func ExecuteUpdateReportNotes(ctx context.Context, eventID, notes string, deps ReportDeps) (reportDomain.EventReport, error) {
	r, err := deps.ReportStore.GetByEventID(ctx, eventID)
	if err != nil {
		if storage.IsNotFound(err) {
			return reportDomain.EventReport{}, ErrReportNotFound
		}
		return reportDomain.EventReport{}, err
	}

	r.Notes = notes
	r.UpdatedAt = deps.now().UTC().Format(time.RFC3339)
	if err := deps.ReportStore.Save(ctx, r); err != nil {
		return reportDomain.EventReport{}, fmt.Errorf("save report: %w", err)
	}
	return r, nil
}

// ExecuteDeleteReport removes the report for an event. The report
// disappears from the list until generated again; the event is untouched.
// PRE: a report exists for the event
// POST: No report row exists for the event
func ExecuteDeleteReport(ctx context.Context, eventID string, deps ReportDeps) error {
	if _, err := deps.ReportStore.GetByEventID(ctx, eventID); err != nil {
		if storage.IsNotFound(err) {
			return ErrReportNotFound
		}
		return err
	}
	if err := deps.ReportStore.DeleteByEventID(ctx, eventID); err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	slog.Info("report_deleted", "event_id", eventID)
	return nil
}
