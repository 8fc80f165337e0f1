package importer_test

import (
	"testing"

	"github.com/joserubiobejarano/crmtrilogy/internal/application/importer"
)

// TestNormalizeHeader verifies trimming, case folding, whitespace collapse
// and diacritic stripping.
func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Teléfono", "telefono"},
		{"telefono ", "telefono"},
		{"  Envio   Detalles ", "envio detalles"},
		{"ASISTIÓ", "asistio"},
		{"Retiró", "retiro"},
		{"", ""},
		{"   ", ""},
		{"Doc Salud", "doc salud"},
	}
	for _, tt := range tests {
		if got := importer.NormalizeHeader(tt.in); got != tt.want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestNormalizeHeaderVariantsCollapse verifies accent/case/spacing variants
// of the same label normalize to the same key.
func TestNormalizeHeaderVariantsCollapse(t *testing.T) {
	if importer.NormalizeHeader("Teléfono") != importer.NormalizeHeader("telefono ") {
		t.Error("accented and plain variants must normalize identically")
	}
	if importer.NormalizeHeader("Asistió") != importer.NormalizeHeader("ASISTIO") {
		t.Error("case variants must normalize identically")
	}
}

// TestNormalizeHeaderIdempotent verifies normalizing twice is a no-op.
func TestNormalizeHeaderIdempotent(t *testing.T) {
	for _, s := range []string{"Teléfono", "  Envio   Detalles ", "correo", ""} {
		once := importer.NormalizeHeader(s)
		if twice := importer.NormalizeHeader(once); twice != once {
			t.Errorf("NormalizeHeader not idempotent for %q: %q vs %q", s, once, twice)
		}
	}
}
