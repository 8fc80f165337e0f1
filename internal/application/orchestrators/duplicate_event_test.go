package orchestrators

import (
	"context"
	"testing"

	enrollmentStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/enrollment"
	enrollmentDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/enrollment"
	personDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/person"
	programtypeDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/programtype"
)

func duplicateDepsFixture() (DuplicateEventDeps, *mockEventStore, *mockEnrollmentStore, *mockPersonStore) {
	events := newMockEventStore()
	enrollments := newMockEnrollmentStore()
	people := newMockPersonStore()
	programTypes := newMockProgramTypeStore()
	programTypes.byID["pt-1"] = programtypeDomain.ProgramType{ID: "pt-1", Code: "PT", Label: "Poder Total"}

	deps := DuplicateEventDeps{
		EventDeps: EventDeps{
			EventStore:       events,
			ProgramTypeStore: programTypes,
			GenerateID:       sequentialID(),
			Now:              fixedNow(),
		},
		EnrollmentStore: enrollments,
		PersonStore:     people,
	}
	return deps, events, enrollments, people
}

func TestExecuteDuplicateEvent_CopiesRosterWithFlagReset(t *testing.T) {
	deps, events, enrollments, people := duplicateDepsFixture()
	events.byID["src"] = eventWith("src", "PT", "134", "Miami")
	people.byID["p-1"] = personDomain.Person{ID: "p-1", Email: "ana@test.com", City: "Miami"}

	enrollments.byID["en-1"] = enrollmentDomain.Enrollment{
		ID: "en-1", EventID: "src", PersonID: "p-1",
		Status: enrollmentDomain.StatusConfirmed,
		Flags: enrollmentDomain.Flags{
			Attended:        true,
			Confirmed:       true,
			ContractSigned:  true,
			CCASigned:       true,
			HealthDocSigned: true,
		},
		AdminNotes: "nota",
		AngelName:  "Pedro",
		Cantidad:   2,
		Finalized:  true,
		CreatedAt:  "2026-01-01T00:00:00Z",
	}

	newEvent, err := ExecuteDuplicateEvent(context.Background(), DuplicateEventInput{
		SourceEventID:    "src",
		ProgramType:      "PT",
		Code:             "135",
		City:             "Orlando",
		CopyParticipants: true,
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dup, err := enrollments.GetByEventAndPerson(context.Background(), newEvent.ID, "p-1")
	if err != nil {
		t.Fatalf("enrollment not copied: %v", err)
	}
	if dup.Status != enrollmentDomain.StatusConfirmed {
		t.Errorf("status = %q, want kept confirmed", dup.Status)
	}
	if !dup.Flags.ContractSigned {
		t.Error("contract_signed must be kept")
	}
	if dup.Flags.Attended || dup.Flags.Confirmed || dup.Flags.CCASigned || dup.Flags.HealthDocSigned {
		t.Errorf("progress flags not reset: %+v", dup.Flags)
	}
	if dup.Finalized || dup.Cantidad != 0 {
		t.Errorf("finalized=%v cantidad=%d, want reset", dup.Finalized, dup.Cantidad)
	}
	if dup.AdminNotes != "nota" || dup.AngelName != "Pedro" {
		t.Errorf("notes/angel not carried: %q %q", dup.AdminNotes, dup.AngelName)
	}

	// The copied person's city follows the new event.
	if p, _ := people.GetByID(context.Background(), "p-1"); p.City != "Orlando" {
		t.Errorf("person city = %q, want Orlando", p.City)
	}

	// Source roster untouched.
	src, _ := enrollments.GetByID(context.Background(), "en-1")
	if !src.Flags.Attended || !src.Finalized {
		t.Error("source enrollment was modified")
	}
}

func TestExecuteDuplicateEvent_SkipsTransferredOut(t *testing.T) {
	deps, events, enrollments, people := duplicateDepsFixture()
	events.byID["src"] = eventWith("src", "PT", "134", "Miami")
	people.byID["p-1"] = personDomain.Person{ID: "p-1", Email: "out@test.com"}
	enrollments.byID["en-1"] = enrollmentDomain.Enrollment{
		ID: "en-1", EventID: "src", PersonID: "p-1",
		Status:    enrollmentDomain.StatusTransferredOut,
		CreatedAt: "2026-01-01T00:00:00Z",
	}

	newEvent, err := ExecuteDuplicateEvent(context.Background(), DuplicateEventInput{
		SourceEventID:    "src",
		ProgramType:      "PT",
		Code:             "135",
		City:             "Miami",
		CopyParticipants: true,
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := enrollments.GetByEventAndPerson(context.Background(), newEvent.ID, "p-1"); err == nil {
		t.Error("transferred_out enrollment was copied")
	}
}

func TestExecuteDuplicateEvent_WithoutParticipants(t *testing.T) {
	deps, events, enrollments, _ := duplicateDepsFixture()
	events.byID["src"] = eventWith("src", "PT", "134", "Miami")
	enrollments.byID["en-1"] = enrollmentDomain.Enrollment{
		ID: "en-1", EventID: "src", PersonID: "p-1",
		Status: enrollmentDomain.StatusPaid, CreatedAt: "2026-01-01T00:00:00Z",
	}

	newEvent, err := ExecuteDuplicateEvent(context.Background(), DuplicateEventInput{
		SourceEventID: "src",
		ProgramType:   "PT",
		Code:          "135",
		City:          "Miami",
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list, _ := enrollments.List(context.Background(), enrollmentStore.ListFilter{EventID: newEvent.ID})
	if len(list) != 0 {
		t.Errorf("enrollments copied without copy_participants: %d", len(list))
	}
}
