package importer_test

import (
	"testing"

	"github.com/joserubiobejarano/crmtrilogy/internal/application/importer"
)

// TestBuildColumnMap verifies header resolution across person, enrollment,
// fee and payment-method targets, with unknown headers dropped.
func TestBuildColumnMap(t *testing.T) {
	header := []string{"Nombre", "Apellido", "correo", "Teléfono", "Asistió", "Observaciones", "Square", "Fee", "Zelle", "Mystery Column"}
	cm := importer.BuildColumnMap(header)

	if got := cm.Person[importer.FieldFirstName]; got != 0 {
		t.Errorf("first_name col = %d, want 0", got)
	}
	if got := cm.Person[importer.FieldLastName]; got != 1 {
		t.Errorf("last_name col = %d, want 1", got)
	}
	if got := cm.Person[importer.FieldEmail]; got != 2 {
		t.Errorf("email col = %d, want 2", got)
	}
	if got := cm.Person[importer.FieldPhone]; got != 3 {
		t.Errorf("phone col = %d, want 3", got)
	}
	if got := cm.Enrollment[importer.FieldAttended]; got != 4 {
		t.Errorf("attended col = %d, want 4", got)
	}
	if got := cm.Enrollment[importer.FieldAdminNotes]; got != 5 {
		t.Errorf("admin_notes col = %d, want 5", got)
	}
	if cm.FeeCol != 7 {
		t.Errorf("fee col = %d, want 7", cm.FeeCol)
	}
	if len(cm.Methods) != 2 {
		t.Fatalf("methods = %v, want square and zelle", cm.Methods)
	}
	if cm.Methods[0].Method != "square" || cm.Methods[0].Col != 6 {
		t.Errorf("methods[0] = %+v", cm.Methods[0])
	}
	if cm.Methods[1].Method != "zelle" || cm.Methods[1].Col != 8 {
		t.Errorf("methods[1] = %+v", cm.Methods[1])
	}
}

// TestBuildColumnMapFirstOccurrenceWins verifies duplicate semantic targets
// keep the earliest column.
func TestBuildColumnMapFirstOccurrenceWins(t *testing.T) {
	header := []string{"Telefono", "Teléfono", "Fee", "Fee", "Square", "Square"}
	cm := importer.BuildColumnMap(header)

	if got := cm.Person[importer.FieldPhone]; got != 0 {
		t.Errorf("phone col = %d, want 0 (first occurrence)", got)
	}
	if cm.FeeCol != 2 {
		t.Errorf("fee col = %d, want 2 (first occurrence)", cm.FeeCol)
	}
	if len(cm.Methods) != 1 || cm.Methods[0].Col != 4 {
		t.Errorf("methods = %v, want single square at col 4", cm.Methods)
	}
}

// TestBuildColumnMapEmptyHeader verifies an empty header row yields an
// empty map with no fee column.
func TestBuildColumnMapEmptyHeader(t *testing.T) {
	cm := importer.BuildColumnMap(nil)
	if len(cm.Person) != 0 || len(cm.Enrollment) != 0 || cm.FeeCol != -1 || len(cm.Methods) != 0 {
		t.Errorf("empty header produced %+v", cm)
	}
}

// TestCellHelpers verifies short rows and unmapped fields read as "".
func TestCellHelpers(t *testing.T) {
	cm := importer.BuildColumnMap([]string{"correo", "Asistió"})
	row := []string{"ana@x.com"}

	if got := cm.PersonCell(row, importer.FieldEmail); got != "ana@x.com" {
		t.Errorf("PersonCell = %q", got)
	}
	// attended maps to col 1 but the data row is short
	if got := cm.EnrollmentCell(row, importer.FieldAttended); got != "" {
		t.Errorf("short row cell = %q, want empty", got)
	}
	if got := cm.PersonCell(row, importer.FieldPhone); got != "" {
		t.Errorf("unmapped field cell = %q, want empty", got)
	}
}
