package projections

import (
	"context"
	"errors"
	"testing"

	enrollmentDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/enrollment"
	eventDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/event"
	paymentDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/payment"
	personDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/person"
)

type rosterFixture struct {
	people      *mockPersonStore
	events      *mockEventStore
	enrollments *mockEnrollmentStore
	payments    *mockPaymentStore
	deps        EventRosterDeps
}

func newRosterFixture() *rosterFixture {
	people := newMockPersonStore()
	events := newMockEventStore()
	enrollments := newMockEnrollmentStore()
	payments := &mockPaymentStore{}

	events.byID["ev-1"] = eventDomain.Event{ID: "ev-1", ProgramType: "PT", Code: "PT-120", City: "Miami"}

	people.byID["p-ana"] = personDomain.Person{ID: "p-ana", FirstName: "Ana", Email: "ana@test.com"}
	people.byID["p-luis"] = personDomain.Person{ID: "p-luis", FirstName: "Luis", Email: "luis@test.com"}

	enrollments.byID["en-ana"] = enrollmentDomain.Enrollment{
		ID: "en-ana", EventID: "ev-1", PersonID: "p-ana",
		Status: enrollmentDomain.StatusPaid,
		Flags:  enrollmentDomain.Flags{Attended: true, Confirmed: true},
	}
	enrollments.byID["en-luis"] = enrollmentDomain.Enrollment{
		ID: "en-luis", EventID: "ev-1", PersonID: "p-luis",
		Status: enrollmentDomain.StatusConfirmed,
	}

	fee := 300.0
	payments.payments = []paymentDomain.Payment{
		{ID: "pay-1", EnrollmentID: "en-ana", Method: paymentDomain.MethodSquare, FeeAmount: &fee},
	}

	return &rosterFixture{
		people:      people,
		events:      events,
		enrollments: enrollments,
		payments:    payments,
		deps: EventRosterDeps{
			EventStore:      events,
			EnrollmentStore: enrollments,
			PersonStore:     people,
			PaymentStore:    payments,
		},
	}
}

func entryByEnrollment(t *testing.T, roster EventRoster, enrollmentID string) RosterEntry {
	t.Helper()
	for _, entry := range roster.Entries {
		if entry.Enrollment.ID == enrollmentID {
			return entry
		}
	}
	t.Fatalf("no roster entry for enrollment %s", enrollmentID)
	return RosterEntry{}
}

func TestQueryEventRoster_JoinsPeopleAndPayments(t *testing.T) {
	f := newRosterFixture()

	got, err := QueryEventRoster(context.Background(), "ev-1", ViewAll, f.deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Event.ID != "ev-1" {
		t.Errorf("event = %q, want ev-1", got.Event.ID)
	}
	if len(got.Entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(got.Entries))
	}

	ana := entryByEnrollment(t, got, "en-ana")
	if ana.Person.FirstName != "Ana" {
		t.Errorf("person = %+v, want Ana joined", ana.Person)
	}
	if !ana.HasPayment {
		t.Error("HasPayment = false, want true")
	}
	amount := ana.PaymentsByMethod[paymentDomain.MethodSquare]
	if amount == nil || *amount != 300 {
		t.Errorf("square amount = %v, want 300", amount)
	}

	luis := entryByEnrollment(t, got, "en-luis")
	if luis.HasPayment {
		t.Error("HasPayment = true for unpaid enrollment")
	}
	if len(luis.PaymentsByMethod) != 0 {
		t.Errorf("PaymentsByMethod = %v, want empty", luis.PaymentsByMethod)
	}
}

func TestQueryEventRoster_Views(t *testing.T) {
	f := newRosterFixture()

	cases := []struct {
		view RosterView
		want []string
	}{
		{ViewAll, []string{"en-ana", "en-luis"}},
		{ViewAttended, []string{"en-ana"}},
		{ViewConfirmed, []string{"en-ana"}},
		{ViewBacklog, []string{"en-luis"}},
		{ViewFinalized, nil},
	}
	for _, tc := range cases {
		got, err := QueryEventRoster(context.Background(), "ev-1", tc.view, f.deps)
		if err != nil {
			t.Fatalf("view %q: unexpected error: %v", tc.view, err)
		}
		if len(got.Entries) != len(tc.want) {
			t.Errorf("view %q: len(entries) = %d, want %d", tc.view, len(got.Entries), len(tc.want))
			continue
		}
		for _, id := range tc.want {
			entryByEnrollment(t, got, id)
		}
	}
}

func TestQueryEventRoster_MissingPersonDegrades(t *testing.T) {
	f := newRosterFixture()
	delete(f.people.byID, "p-luis")

	got, err := QueryEventRoster(context.Background(), "ev-1", ViewAll, f.deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(got.Entries))
	}
	luis := entryByEnrollment(t, got, "en-luis")
	if luis.Person.ID != "" {
		t.Errorf("person = %+v, want zero value", luis.Person)
	}
}

func TestQueryEventRoster_UnknownEvent(t *testing.T) {
	f := newRosterFixture()
	_, err := QueryEventRoster(context.Background(), "missing", ViewAll, f.deps)
	if !errors.Is(err, ErrRosterEventNotFound) {
		t.Errorf("err = %v, want ErrRosterEventNotFound", err)
	}
}
