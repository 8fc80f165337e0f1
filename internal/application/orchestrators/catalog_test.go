package orchestrators

import (
	"context"
	"errors"
	"testing"

	cityDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/city"
	eventDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/event"
	programtypeDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/programtype"
)

type catalogFixture struct {
	cities       *mockCityStore
	programTypes *mockProgramTypeStore
	events       *mockEventStore
	deps         CatalogDeps
}

func newCatalogFixture() *catalogFixture {
	cities := newMockCityStore()
	programTypes := newMockProgramTypeStore()
	events := newMockEventStore()
	return &catalogFixture{
		cities:       cities,
		programTypes: programTypes,
		events:       events,
		deps: CatalogDeps{
			CityStore:        cities,
			ProgramTypeStore: programTypes,
			EventStore:       events,
			GenerateID:       sequentialID(),
			Now:              fixedNow(),
		},
	}
}

func TestExecuteAddCity_TrimsAndPersists(t *testing.T) {
	f := newCatalogFixture()

	got, err := ExecuteAddCity(context.Background(), "  Tampa ", f.deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Tampa" {
		t.Errorf("name = %q, want %q", got.Name, "Tampa")
	}
	if _, ok := f.cities.byID[got.ID]; !ok {
		t.Error("city not persisted")
	}
}

func TestExecuteAddCity_RejectsCaseInsensitiveDuplicate(t *testing.T) {
	f := newCatalogFixture()
	f.cities.byID["c-1"] = cityDomain.City{ID: "c-1", Name: "Miami"}

	_, err := ExecuteAddCity(context.Background(), "miami", f.deps)
	if !errors.Is(err, ErrCityExists) {
		t.Errorf("err = %v, want ErrCityExists", err)
	}
}

func TestExecuteDeleteCity_BlockedWhileEventsUseIt(t *testing.T) {
	f := newCatalogFixture()
	f.cities.byID["c-1"] = cityDomain.City{ID: "c-1", Name: "Miami"}
	f.events.byID["ev-1"] = eventDomain.Event{ID: "ev-1", ProgramType: "PT", Code: "PT-120", City: "Miami"}

	if err := ExecuteDeleteCity(context.Background(), "c-1", f.deps); !errors.Is(err, ErrCityInUse) {
		t.Errorf("err = %v, want ErrCityInUse", err)
	}

	delete(f.events.byID, "ev-1")
	if err := ExecuteDeleteCity(context.Background(), "c-1", f.deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := f.cities.byID["c-1"]; ok {
		t.Error("city still present after delete")
	}
}

func TestExecuteDeleteCity_NotFound(t *testing.T) {
	f := newCatalogFixture()
	if err := ExecuteDeleteCity(context.Background(), "missing", f.deps); !errors.Is(err, ErrCityNotFound) {
		t.Errorf("err = %v, want ErrCityNotFound", err)
	}
}

func TestExecuteAddProgramType_UppercasesCode(t *testing.T) {
	f := newCatalogFixture()

	got, err := ExecuteAddProgramType(context.Background(), "sem", "Seminario", f.deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Code != "SEM" {
		t.Errorf("code = %q, want %q", got.Code, "SEM")
	}

	if _, err := ExecuteAddProgramType(context.Background(), "SEM", "Otro", f.deps); !errors.Is(err, ErrProgramTypeExists) {
		t.Errorf("err = %v, want ErrProgramTypeExists", err)
	}
}

func TestExecuteDeleteProgramType_BlockedWhileEventsUseIt(t *testing.T) {
	f := newCatalogFixture()
	f.programTypes.byID["pt-1"] = programtypeDomain.ProgramType{ID: "pt-1", Code: "PT", Label: "PT"}
	f.events.byID["ev-1"] = eventDomain.Event{ID: "ev-1", ProgramType: "PT", Code: "PT-120", City: "Miami"}

	if err := ExecuteDeleteProgramType(context.Background(), "pt-1", f.deps); !errors.Is(err, ErrProgramTypeInUse) {
		t.Errorf("err = %v, want ErrProgramTypeInUse", err)
	}

	delete(f.events.byID, "ev-1")
	if err := ExecuteDeleteProgramType(context.Background(), "pt-1", f.deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := f.programTypes.byID["pt-1"]; ok {
		t.Error("program type still present after delete")
	}
}

func TestExecuteSeedCatalog_SeedsOnlyEmptyTables(t *testing.T) {
	cities := newMockCityStore()
	programTypes := newMockProgramTypeStore()
	deps := SeedCatalogDeps{CityStore: cities, ProgramTypeStore: programTypes}

	if err := ExecuteSeedCatalog(context.Background(), deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cities.byID) != len(defaultCities) {
		t.Errorf("len(cities) = %d, want %d", len(cities.byID), len(defaultCities))
	}
	if len(programTypes.byID) != len(programtypeDomain.DefaultCodes) {
		t.Errorf("len(program types) = %d, want %d", len(programTypes.byID), len(programtypeDomain.DefaultCodes))
	}

	// A second run is a no-op.
	if err := ExecuteSeedCatalog(context.Background(), deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cities.byID) != len(defaultCities) {
		t.Errorf("len(cities) after reseed = %d, want %d", len(cities.byID), len(defaultCities))
	}
}
