package projections

import (
	"context"
	"fmt"
	"strings"

	"github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage"
	enrollmentStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/enrollment"
	eventStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/event"
	reportStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/eventreport"
	personStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/person"
	enrollmentDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/enrollment"
	eventDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/event"
	eventreportDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/eventreport"
	paymentDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/payment"
	personDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/person"
)

// In-memory store mocks for the projection tests. Not-found lookups wrap
// storage.ErrNotFound so IsNotFound branches behave as with sqlite.

type mockPersonStore struct {
	byID map[string]personDomain.Person
}

func newMockPersonStore() *mockPersonStore {
	return &mockPersonStore{byID: make(map[string]personDomain.Person)}
}

func (m *mockPersonStore) GetByID(_ context.Context, id string) (personDomain.Person, error) {
	p, ok := m.byID[id]
	if !ok {
		return personDomain.Person{}, fmt.Errorf("person %s: %w", id, storage.ErrNotFound)
	}
	return p, nil
}

func (m *mockPersonStore) GetByEmail(_ context.Context, email string) (personDomain.Person, error) {
	for _, p := range m.byID {
		if strings.EqualFold(p.Email, email) {
			return p, nil
		}
	}
	return personDomain.Person{}, fmt.Errorf("person by email: %w", storage.ErrNotFound)
}

func (m *mockPersonStore) Save(_ context.Context, p personDomain.Person) error {
	m.byID[p.ID] = p
	return nil
}

func (m *mockPersonStore) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

func (m *mockPersonStore) List(_ context.Context, filter personStore.ListFilter) ([]personDomain.Person, error) {
	var out []personDomain.Person
	for _, p := range m.byID {
		if len(filter.IDs) > 0 {
			found := false
			for _, id := range filter.IDs {
				if p.ID == id {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if filter.City != "" && p.City != filter.City {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type mockEventStore struct {
	byID map[string]eventDomain.Event
}

func newMockEventStore() *mockEventStore {
	return &mockEventStore{byID: make(map[string]eventDomain.Event)}
}

func (m *mockEventStore) GetByID(_ context.Context, id string) (eventDomain.Event, error) {
	e, ok := m.byID[id]
	if !ok {
		return eventDomain.Event{}, fmt.Errorf("event %s: %w", id, storage.ErrNotFound)
	}
	return e, nil
}

func (m *mockEventStore) GetByProgramTypeAndCode(_ context.Context, programType, code string) (eventDomain.Event, error) {
	for _, e := range m.byID {
		if e.ProgramType == programType && e.Code == code {
			return e, nil
		}
	}
	return eventDomain.Event{}, fmt.Errorf("event %s/%s: %w", programType, code, storage.ErrNotFound)
}

func (m *mockEventStore) Save(_ context.Context, e eventDomain.Event) error {
	m.byID[e.ID] = e
	return nil
}

func (m *mockEventStore) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

func (m *mockEventStore) List(_ context.Context, filter eventStore.ListFilter) ([]eventDomain.Event, error) {
	var out []eventDomain.Event
	for _, e := range m.byID {
		if filter.ProgramType != "" && e.ProgramType != filter.ProgramType {
			continue
		}
		if filter.City != "" && e.City != filter.City {
			continue
		}
		if filter.ActiveOnly && !e.Active {
			continue
		}
		if filter.DeletionPending && e.ScheduledDeletionAt == "" {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *mockEventStore) DeactivateAll(_ context.Context, programType, city string) error {
	for id, e := range m.byID {
		if e.ProgramType == programType && e.City == city {
			e.Active = false
			m.byID[id] = e
		}
	}
	return nil
}

type mockEnrollmentStore struct {
	byID map[string]enrollmentDomain.Enrollment
}

func newMockEnrollmentStore() *mockEnrollmentStore {
	return &mockEnrollmentStore{byID: make(map[string]enrollmentDomain.Enrollment)}
}

func (m *mockEnrollmentStore) GetByID(_ context.Context, id string) (enrollmentDomain.Enrollment, error) {
	e, ok := m.byID[id]
	if !ok {
		return enrollmentDomain.Enrollment{}, fmt.Errorf("enrollment %s: %w", id, storage.ErrNotFound)
	}
	return e, nil
}

func (m *mockEnrollmentStore) GetByEventAndPerson(_ context.Context, eventID, personID string) (enrollmentDomain.Enrollment, error) {
	for _, e := range m.byID {
		if e.EventID == eventID && e.PersonID == personID {
			return e, nil
		}
	}
	return enrollmentDomain.Enrollment{}, fmt.Errorf("enrollment for event %s: %w", eventID, storage.ErrNotFound)
}

func (m *mockEnrollmentStore) Save(_ context.Context, e enrollmentDomain.Enrollment) error {
	m.byID[e.ID] = e
	return nil
}

func (m *mockEnrollmentStore) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

func (m *mockEnrollmentStore) List(_ context.Context, filter enrollmentStore.ListFilter) ([]enrollmentDomain.Enrollment, error) {
	var out []enrollmentDomain.Enrollment
	for _, e := range m.byID {
		if filter.EventID != "" && e.EventID != filter.EventID {
			continue
		}
		if filter.PersonID != "" && e.PersonID != filter.PersonID {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type mockPaymentStore struct {
	payments []paymentDomain.Payment
}

func (m *mockPaymentStore) ListByEnrollments(_ context.Context, enrollmentIDs []string) ([]paymentDomain.Payment, error) {
	var out []paymentDomain.Payment
	for _, id := range enrollmentIDs {
		for _, p := range m.payments {
			if p.EnrollmentID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

// mockReportStore keeps reports in insertion order; tests seed them the way
// the sqlite store would return them (newest first).
type mockReportStore struct {
	reports []eventreportDomain.EventReport
}

func (m *mockReportStore) GetByEventID(_ context.Context, eventID string) (eventreportDomain.EventReport, error) {
	for _, r := range m.reports {
		if r.EventID == eventID {
			return r, nil
		}
	}
	return eventreportDomain.EventReport{}, fmt.Errorf("report for event %s: %w", eventID, storage.ErrNotFound)
}

func (m *mockReportStore) Save(_ context.Context, rep eventreportDomain.EventReport) error {
	for i, r := range m.reports {
		if r.EventID == rep.EventID {
			m.reports[i] = rep
			return nil
		}
	}
	m.reports = append(m.reports, rep)
	return nil
}

func (m *mockReportStore) DeleteByEventID(_ context.Context, eventID string) error {
	for i, r := range m.reports {
		if r.EventID == eventID {
			m.reports = append(m.reports[:i], m.reports[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockReportStore) List(_ context.Context) ([]eventreportDomain.EventReport, error) {
	return append([]eventreportDomain.EventReport(nil), m.reports...), nil
}

// Interface conformance checks.
var (
	_ personStore.Store          = (*mockPersonStore)(nil)
	_ eventStore.Store           = (*mockEventStore)(nil)
	_ enrollmentStore.Store      = (*mockEnrollmentStore)(nil)
	_ PaymentsByEnrollmentsStore = (*mockPaymentStore)(nil)
	_ reportStore.Store          = (*mockReportStore)(nil)
)
