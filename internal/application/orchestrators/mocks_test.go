package orchestrators

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage"
	cityStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/city"
	enrollmentStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/enrollment"
	eventStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/event"
	reportStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/eventreport"
	paymentStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/payment"
	personStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/person"
	programtypeStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/programtype"
	cityDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/city"
	enrollmentDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/enrollment"
	eventDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/event"
	eventreportDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/eventreport"
	paymentDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/payment"
	personDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/person"
	programtypeDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/programtype"
)

// In-memory store mocks shared by the orchestrator tests. Not-found lookups
// wrap storage.ErrNotFound so the orchestrators' IsNotFound branches behave
// exactly as with the sqlite stores.

type mockPersonStore struct {
	byID    map[string]personDomain.Person
	saveErr error
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
	if m.saveErr != nil {
		return m.saveErr
	}
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
	byID    map[string]eventDomain.Event
	saveErr error
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
	if m.saveErr != nil {
		return m.saveErr
	}
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
	byID    map[string]enrollmentDomain.Enrollment
	saveErr error
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
	if m.saveErr != nil {
		return m.saveErr
	}
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
	byID    map[string]paymentDomain.Payment
	saveErr error
}

func newMockPaymentStore() *mockPaymentStore {
	return &mockPaymentStore{byID: make(map[string]paymentDomain.Payment)}
}

func (m *mockPaymentStore) GetByID(_ context.Context, id string) (paymentDomain.Payment, error) {
	p, ok := m.byID[id]
	if !ok {
		return paymentDomain.Payment{}, fmt.Errorf("payment %s: %w", id, storage.ErrNotFound)
	}
	return p, nil
}

func (m *mockPaymentStore) GetByEnrollmentAndMethod(_ context.Context, enrollmentID, method string) (paymentDomain.Payment, error) {
	for _, p := range m.byID {
		if p.EnrollmentID == enrollmentID && p.Method == method {
			return p, nil
		}
	}
	return paymentDomain.Payment{}, fmt.Errorf("payment for enrollment %s: %w", enrollmentID, storage.ErrNotFound)
}

func (m *mockPaymentStore) Save(_ context.Context, p paymentDomain.Payment) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.byID[p.ID] = p
	return nil
}

func (m *mockPaymentStore) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

func (m *mockPaymentStore) ListByEnrollment(_ context.Context, enrollmentID string) ([]paymentDomain.Payment, error) {
	var out []paymentDomain.Payment
	for _, p := range m.byID {
		if p.EnrollmentID == enrollmentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPaymentStore) ListByEnrollments(_ context.Context, enrollmentIDs []string) ([]paymentDomain.Payment, error) {
	var out []paymentDomain.Payment
	for _, id := range enrollmentIDs {
		for _, p := range m.byID {
			if p.EnrollmentID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

type mockCityStore struct {
	byID    map[string]cityDomain.City
	saveErr error
}

func newMockCityStore() *mockCityStore {
	return &mockCityStore{byID: make(map[string]cityDomain.City)}
}

func (m *mockCityStore) GetByID(_ context.Context, id string) (cityDomain.City, error) {
	c, ok := m.byID[id]
	if !ok {
		return cityDomain.City{}, fmt.Errorf("city %s: %w", id, storage.ErrNotFound)
	}
	return c, nil
}

func (m *mockCityStore) GetByName(_ context.Context, name string) (cityDomain.City, error) {
	for _, c := range m.byID {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return cityDomain.City{}, fmt.Errorf("city %q: %w", name, storage.ErrNotFound)
}

func (m *mockCityStore) Save(_ context.Context, c cityDomain.City) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.byID[c.ID] = c
	return nil
}

func (m *mockCityStore) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

func (m *mockCityStore) List(_ context.Context) ([]cityDomain.City, error) {
	var out []cityDomain.City
	for _, c := range m.byID {
		out = append(out, c)
	}
	return out, nil
}

type mockProgramTypeStore struct {
	byID    map[string]programtypeDomain.ProgramType
	saveErr error
}

func newMockProgramTypeStore() *mockProgramTypeStore {
	return &mockProgramTypeStore{byID: make(map[string]programtypeDomain.ProgramType)}
}

func (m *mockProgramTypeStore) GetByID(_ context.Context, id string) (programtypeDomain.ProgramType, error) {
	p, ok := m.byID[id]
	if !ok {
		return programtypeDomain.ProgramType{}, fmt.Errorf("program type %s: %w", id, storage.ErrNotFound)
	}
	return p, nil
}

func (m *mockProgramTypeStore) GetByCode(_ context.Context, code string) (programtypeDomain.ProgramType, error) {
	for _, p := range m.byID {
		if strings.EqualFold(p.Code, code) {
			return p, nil
		}
	}
	return programtypeDomain.ProgramType{}, fmt.Errorf("program type %q: %w", code, storage.ErrNotFound)
}

func (m *mockProgramTypeStore) Save(_ context.Context, p programtypeDomain.ProgramType) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.byID[p.ID] = p
	return nil
}

func (m *mockProgramTypeStore) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

func (m *mockProgramTypeStore) List(_ context.Context) ([]programtypeDomain.ProgramType, error) {
	var out []programtypeDomain.ProgramType
	for _, p := range m.byID {
		out = append(out, p)
	}
	return out, nil
}

type mockReportStore struct {
	byEventID map[string]eventreportDomain.EventReport
	saveErr   error
}

func newMockReportStore() *mockReportStore {
	return &mockReportStore{byEventID: make(map[string]eventreportDomain.EventReport)}
}

func (m *mockReportStore) GetByEventID(_ context.Context, eventID string) (eventreportDomain.EventReport, error) {
	rep, ok := m.byEventID[eventID]
	if !ok {
		return eventreportDomain.EventReport{}, fmt.Errorf("report for event %s: %w", eventID, storage.ErrNotFound)
	}
	return rep, nil
}

func (m *mockReportStore) Save(_ context.Context, rep eventreportDomain.EventReport) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.byEventID[rep.EventID] = rep
	return nil
}

func (m *mockReportStore) DeleteByEventID(_ context.Context, eventID string) error {
	delete(m.byEventID, eventID)
	return nil
}

func (m *mockReportStore) List(_ context.Context) ([]eventreportDomain.EventReport, error) {
	var out []eventreportDomain.EventReport
	for _, rep := range m.byEventID {
		out = append(out, rep)
	}
	return out, nil
}

// sequentialID returns a deterministic ID generator for tests.
func sequentialID() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	}
}

// fixedNow returns a clock pinned to a known instant.
func fixedNow() func() time.Time {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

// Interface conformance checks.
var (
	_ personStore.Store      = (*mockPersonStore)(nil)
	_ eventStore.Store       = (*mockEventStore)(nil)
	_ enrollmentStore.Store  = (*mockEnrollmentStore)(nil)
	_ paymentStore.Store     = (*mockPaymentStore)(nil)
	_ cityStore.Store        = (*mockCityStore)(nil)
	_ programtypeStore.Store = (*mockProgramTypeStore)(nil)
	_ reportStore.Store      = (*mockReportStore)(nil)
)
