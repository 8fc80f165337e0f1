package projections

import (
	"context"
	"testing"

	eventDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/event"
	eventreportDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/eventreport"
)

func TestQueryReportList_JoinsEventFields(t *testing.T) {
	events := newMockEventStore()
	events.byID["ev-1"] = eventDomain.Event{ID: "ev-1", ProgramType: "PT", Code: "PT-120", City: "Miami", EndDate: "2026-02-20"}
	events.byID["ev-2"] = eventDomain.Event{ID: "ev-2", ProgramType: "LT", Code: "LT-52", City: "Orlando", EndDate: "2026-03-15"}

	reports := &mockReportStore{reports: []eventreportDomain.EventReport{
		{ID: "r-2", EventID: "ev-2", CreatedAt: "2026-03-16T00:00:00Z"},
		{ID: "r-1", EventID: "ev-1", CreatedAt: "2026-02-21T00:00:00Z"},
	}}

	items, err := QueryReportList(context.Background(), ReportListDeps{
		ReportStore: reports,
		EventStore:  events,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0].ID != "r-2" || items[1].ID != "r-1" {
		t.Errorf("order = %q, %q; want newest first", items[0].ID, items[1].ID)
	}
	first := items[0]
	if first.ProgramType != "LT" || first.Code != "LT-52" || first.City != "Orlando" || first.EndDate != "2026-03-15" {
		t.Errorf("joined fields = %+v", first)
	}
}

func TestQueryReportList_MissingEventKeepsRow(t *testing.T) {
	events := newMockEventStore()
	reports := &mockReportStore{reports: []eventreportDomain.EventReport{
		{ID: "r-orphan", EventID: "ev-gone", CreatedAt: "2026-01-01T00:00:00Z"},
	}}

	items, err := QueryReportList(context.Background(), ReportListDeps{
		ReportStore: reports,
		EventStore:  events,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if items[0].ID != "r-orphan" || items[0].Code != "" || items[0].City != "" {
		t.Errorf("orphan row = %+v", items[0])
	}
}

func TestQueryReportList_Empty(t *testing.T) {
	items, err := QueryReportList(context.Background(), ReportListDeps{
		ReportStore: &mockReportStore{},
		EventStore:  newMockEventStore(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("items = %d, want 0", len(items))
	}
}
