package orchestrators

import (
	"context"
	"errors"
	"testing"

	enrollmentDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/enrollment"
	paymentDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/payment"
	personDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/person"
)

func TestExecuteDeletePerson_CascadesEnrollmentsAndPayments(t *testing.T) {
	people := newMockPersonStore()
	enrollments := newMockEnrollmentStore()
	payments := newMockPaymentStore()
	deps := DeletePersonDeps{PersonStore: people, EnrollmentStore: enrollments, PaymentStore: payments}

	people.byID["p-1"] = personDomain.Person{ID: "p-1", Email: "ana@test.com"}
	people.byID["p-2"] = personDomain.Person{ID: "p-2", Email: "luis@test.com"}
	enrollments.byID["en-1"] = enrollmentDomain.Enrollment{ID: "en-1", EventID: "ev-1", PersonID: "p-1"}
	enrollments.byID["en-2"] = enrollmentDomain.Enrollment{ID: "en-2", EventID: "ev-2", PersonID: "p-1"}
	enrollments.byID["en-3"] = enrollmentDomain.Enrollment{ID: "en-3", EventID: "ev-1", PersonID: "p-2"}
	payments.byID["pay-1"] = paymentDomain.Payment{ID: "pay-1", EnrollmentID: "en-1", Method: paymentDomain.MethodZelle}
	payments.byID["pay-2"] = paymentDomain.Payment{ID: "pay-2", EnrollmentID: "en-3", Method: paymentDomain.MethodCash}

	if err := ExecuteDeletePerson(context.Background(), "p-1", deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := people.byID["p-1"]; ok {
		t.Error("person still present")
	}
	if _, ok := enrollments.byID["en-1"]; ok {
		t.Error("enrollment en-1 still present")
	}
	if _, ok := enrollments.byID["en-2"]; ok {
		t.Error("enrollment en-2 still present")
	}
	if _, ok := payments.byID["pay-1"]; ok {
		t.Error("payment pay-1 still present")
	}

	// Unrelated records survive.
	if _, ok := people.byID["p-2"]; !ok {
		t.Error("other person removed")
	}
	if _, ok := enrollments.byID["en-3"]; !ok {
		t.Error("other enrollment removed")
	}
	if _, ok := payments.byID["pay-2"]; !ok {
		t.Error("other payment removed")
	}
}

func TestExecuteDeletePerson_NotFound(t *testing.T) {
	deps := DeletePersonDeps{
		PersonStore:     newMockPersonStore(),
		EnrollmentStore: newMockEnrollmentStore(),
		PaymentStore:    newMockPaymentStore(),
	}
	if err := ExecuteDeletePerson(context.Background(), "missing", deps); !errors.Is(err, ErrPersonNotFound) {
		t.Errorf("err = %v, want ErrPersonNotFound", err)
	}
}
