package projections

import (
	"context"

	"github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage"
	eventStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/event"
	reportStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/eventreport"
)

// ReportListItem is one row of the closing-report list: the report joined
// with the fields of its event shown on the list page.
type ReportListItem struct {
	ID          string
	EventID     string
	ProgramType string
	Code        string
	City        string
	EndDate     string
	CreatedAt   string
}

// ReportListDeps holds dependencies for the report list projection.
type ReportListDeps struct {
	ReportStore reportStore.Store
	EventStore  eventStore.Store
}

// QueryReportList returns all closing reports newest first, each joined
// with its event's program type, code, city and end date. A report whose
// event no longer resolves keeps its row with blank event fields.
// PRE: Deps stores are wired
// POST: Items are ordered by report creation, newest first
func QueryReportList(ctx context.Context, deps ReportListDeps) ([]ReportListItem, error) {
	reports, err := deps.ReportStore.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]ReportListItem, 0, len(reports))
	for _, r := range reports {
		item := ReportListItem{
			ID:        r.ID,
			EventID:   r.EventID,
			CreatedAt: r.CreatedAt,
		}
		ev, err := deps.EventStore.GetByID(ctx, r.EventID)
		if err != nil && !storage.IsNotFound(err) {
			return nil, err
		}
		if err == nil {
			item.ProgramType = ev.ProgramType
			item.Code = ev.Code
			item.City = ev.City
			item.EndDate = ev.EndDate
		}
		items = append(items, item)
	}
	return items, nil
}
