package projections

import (
	"context"
	"strings"

	enrollmentStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/enrollment"
	eventStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/event"
	personStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/person"
	enrollmentDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/enrollment"
	eventDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/event"
	paymentDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/payment"
	personDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/person"
)

// PeopleFilters narrows the people directory. Zero values mean "all".
type PeopleFilters struct {
	City          string
	PaymentMethod string
	Backlog       bool
	ProgramType   string
	EventCode     string
}

// PeopleCounts summarizes the whole directory regardless of filters.
type PeopleCounts struct {
	Total           int            // unique people with at least one enrollment
	ByCity          map[string]int // keyed by person city, "Sin ciudad" for blank
	ByPaymentMethod map[string]int // unique people per payment method
	BacklogTotal    int            // enrollments in the follow-up backlog
}

// PeopleDirectory is the directory page payload.
type PeopleDirectory struct {
	People []personDomain.Person
	Counts PeopleCounts
}

// PeopleDirectoryDeps holds dependencies for the directory projection.
type PeopleDirectoryDeps struct {
	PersonStore     personStore.Store
	EventStore      eventStore.Store
	EnrollmentStore enrollmentStore.Store
	PaymentStore    PaymentsByEnrollmentsStore
}

// PaymentsByEnrollmentsStore is the payment surface the projections need.
type PaymentsByEnrollmentsStore interface {
	ListByEnrollments(ctx context.Context, enrollmentIDs []string) ([]paymentDomain.Payment, error)
}

// QueryPeopleDirectory returns people matching the filters plus directory
// counts. Counts are computed over all enrollments, not the filtered subset.
// PRE: Deps stores are wired
// POST: People are returned newest first; events pending deletion are
// excluded from event-scoped filters
func QueryPeopleDirectory(ctx context.Context, filters PeopleFilters, deps PeopleDirectoryDeps) (PeopleDirectory, error) {
	enrollments, err := deps.EnrollmentStore.List(ctx, enrollmentStore.ListFilter{})
	if err != nil {
		return PeopleDirectory{}, err
	}

	enrollmentIDs := make([]string, 0, len(enrollments))
	for _, e := range enrollments {
		enrollmentIDs = append(enrollmentIDs, e.ID)
	}
	payments, err := deps.PaymentStore.ListByEnrollments(ctx, enrollmentIDs)
	if err != nil {
		return PeopleDirectory{}, err
	}

	withPayment := make(map[string]bool)
	methodByEnrollment := make(map[string]string)
	for _, p := range payments {
		withPayment[p.EnrollmentID] = true
		if p.Method != "" {
			methodByEnrollment[p.EnrollmentID] = p.Method
		}
	}

	counts, err := buildPeopleCounts(ctx, enrollments, payments, withPayment, deps)
	if err != nil {
		return PeopleDirectory{}, err
	}

	hasEventFilter := strings.TrimSpace(filters.ProgramType) != "" || strings.TrimSpace(filters.EventCode) != ""
	hasFilters := filters.City != "" || filters.PaymentMethod != "" || filters.Backlog || hasEventFilter

	if !hasFilters {
		people, err := deps.PersonStore.List(ctx, personStore.ListFilter{})
		if err != nil {
			return PeopleDirectory{}, err
		}
		return PeopleDirectory{People: people, Counts: counts}, nil
	}

	var eventByID map[string]eventDomain.Event
	if hasEventFilter {
		events, err := deps.EventStore.List(ctx, eventStore.ListFilter{})
		if err != nil {
			return PeopleDirectory{}, err
		}
		eventByID = make(map[string]eventDomain.Event, len(events))
		for _, ev := range events {
			eventByID[ev.ID] = ev
		}
	}

	matching := make(map[string]bool)
	for _, e := range enrollments {
		if hasEventFilter {
			ev, ok := eventByID[e.EventID]
			if !ok || ev.DeletionPending() {
				continue
			}
			if pt := strings.TrimSpace(filters.ProgramType); pt != "" && ev.ProgramType != pt {
				continue
			}
			if code := strings.TrimSpace(filters.EventCode); code != "" && ev.Code != code {
				continue
			}
		}
		if filters.PaymentMethod != "" && methodByEnrollment[e.ID] != filters.PaymentMethod {
			continue
		}
		if filters.Backlog && !e.InBacklog(withPayment[e.ID]) {
			continue
		}
		matching[e.PersonID] = true
	}

	if len(matching) == 0 {
		return PeopleDirectory{Counts: counts}, nil
	}

	ids := make([]string, 0, len(matching))
	for id := range matching {
		ids = append(ids, id)
	}
	people, err := deps.PersonStore.List(ctx, personStore.ListFilter{IDs: ids, City: filters.City})
	if err != nil {
		return PeopleDirectory{}, err
	}
	return PeopleDirectory{People: people, Counts: counts}, nil
}

// buildPeopleCounts aggregates directory totals over every enrollment.
func buildPeopleCounts(ctx context.Context, enrollments []enrollmentDomain.Enrollment, payments []paymentDomain.Payment, withPayment map[string]bool, deps PeopleDirectoryDeps) (PeopleCounts, error) {
	counts := PeopleCounts{
		ByCity:          make(map[string]int),
		ByPaymentMethod: make(map[string]int),
	}

	personByEnrollment := make(map[string]string, len(enrollments))
	uniquePeople := make(map[string]bool)
	for _, e := range enrollments {
		personByEnrollment[e.ID] = e.PersonID
		uniquePeople[e.PersonID] = true
		if e.InBacklog(withPayment[e.ID]) {
			counts.BacklogTotal++
		}
	}
	counts.Total = len(uniquePeople)

	peopleByMethod := make(map[string]map[string]bool)
	for _, p := range payments {
		method := p.Method
		if method == "" {
			method = "sin_pago"
		}
		if peopleByMethod[method] == nil {
			peopleByMethod[method] = make(map[string]bool)
		}
		if personID, ok := personByEnrollment[p.EnrollmentID]; ok {
			peopleByMethod[method][personID] = true
		}
	}
	for method, set := range peopleByMethod {
		counts.ByPaymentMethod[method] = len(set)
	}

	if len(uniquePeople) > 0 {
		ids := make([]string, 0, len(uniquePeople))
		for id := range uniquePeople {
			ids = append(ids, id)
		}
		people, err := deps.PersonStore.List(ctx, personStore.ListFilter{IDs: ids})
		if err != nil {
			return PeopleCounts{}, err
		}
		for _, p := range people {
			city := strings.TrimSpace(p.City)
			if city == "" {
				city = "Sin ciudad"
			}
			counts.ByCity[city]++
		}
	}

	return counts, nil
}
