package projections

import (
	"context"
	"errors"

	"github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage"
	enrollmentStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/enrollment"
	eventStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/event"
	personStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/person"
	enrollmentDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/enrollment"
	eventDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/event"
	personDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/person"
)

// ErrRosterEventNotFound is returned when the roster's event does not exist.
var ErrRosterEventNotFound = errors.New("event not found")

// RosterView filters the roster entries.
type RosterView string

const (
	ViewAll       RosterView = ""
	ViewBacklog   RosterView = "backlog"
	ViewConfirmed RosterView = "confirmed"
	ViewAttended  RosterView = "attended"
	ViewFinalized RosterView = "finalized"
)

// RosterEntry joins an enrollment with its person and payment summary.
type RosterEntry struct {
	Enrollment       enrollmentDomain.Enrollment
	Person           personDomain.Person
	PaymentsByMethod map[string]*float64 // method -> fee amount (nil when unset)
	HasPayment       bool
}

// EventRoster is the event detail payload.
type EventRoster struct {
	Event   eventDomain.Event
	Entries []RosterEntry
}

// EventRosterDeps holds dependencies for the roster projection.
type EventRosterDeps struct {
	EventStore      eventStore.Store
	EnrollmentStore enrollmentStore.Store
	PersonStore     personStore.Store
	PaymentStore    PaymentsByEnrollmentsStore
}

// QueryEventRoster returns an event with its enrollments joined to person
// fields and payments grouped by method, in enrollment order.
// PRE: eventID is non-empty
// POST: Entries reflect the requested view filter; missing people degrade to
// an empty Person rather than dropping the enrollment
func QueryEventRoster(ctx context.Context, eventID string, view RosterView, deps EventRosterDeps) (EventRoster, error) {
	ev, err := deps.EventStore.GetByID(ctx, eventID)
	if err != nil {
		if storage.IsNotFound(err) {
			return EventRoster{}, ErrRosterEventNotFound
		}
		return EventRoster{}, err
	}

	enrollments, err := deps.EnrollmentStore.List(ctx, enrollmentStore.ListFilter{EventID: eventID})
	if err != nil {
		return EventRoster{}, err
	}

	enrollmentIDs := make([]string, 0, len(enrollments))
	personIDs := make([]string, 0, len(enrollments))
	for _, e := range enrollments {
		enrollmentIDs = append(enrollmentIDs, e.ID)
		personIDs = append(personIDs, e.PersonID)
	}

	payments, err := deps.PaymentStore.ListByEnrollments(ctx, enrollmentIDs)
	if err != nil {
		return EventRoster{}, err
	}
	byMethod := make(map[string]map[string]*float64)
	for _, p := range payments {
		if byMethod[p.EnrollmentID] == nil {
			byMethod[p.EnrollmentID] = make(map[string]*float64)
		}
		if p.Method != "" {
			byMethod[p.EnrollmentID][p.Method] = p.FeeAmount
		}
	}

	personByID := make(map[string]personDomain.Person, len(personIDs))
	if len(personIDs) > 0 {
		people, err := deps.PersonStore.List(ctx, personStore.ListFilter{IDs: personIDs})
		if err != nil {
			return EventRoster{}, err
		}
		for _, p := range people {
			personByID[p.ID] = p
		}
	}

	roster := EventRoster{Event: ev}
	for _, e := range enrollments {
		hasPayment := len(byMethod[e.ID]) > 0
		if !matchesView(e, view, hasPayment) {
			continue
		}
		methods := byMethod[e.ID]
		if methods == nil {
			methods = make(map[string]*float64)
		}
		roster.Entries = append(roster.Entries, RosterEntry{
			Enrollment:       e,
			Person:           personByID[e.PersonID],
			PaymentsByMethod: methods,
			HasPayment:       hasPayment,
		})
	}
	return roster, nil
}

func matchesView(e enrollmentDomain.Enrollment, view RosterView, hasPayment bool) bool {
	switch view {
	case ViewBacklog:
		return e.InBacklog(hasPayment)
	case ViewConfirmed:
		return e.Flags.Confirmed
	case ViewAttended:
		return e.Flags.Attended
	case ViewFinalized:
		return e.Finalized
	default:
		return true
	}
}
