package programtype

import (
	"errors"
	"strings"
)

// Seeded program codes. Spreadsheet import sheets are named after these.
const (
	CodePT = "PT"
	CodeLT = "LT"
	CodeTL = "TL"
)

// DefaultCodes lists the program codes seeded at startup, which double as
// the import sheet allow-list.
var DefaultCodes = []string{CodePT, CodeLT, CodeTL}

// displayNames maps codes to their long-form labels.
var displayNames = map[string]string{
	CodePT: "Poder Total",
	CodeLT: "Libertad Total",
	"OTRO": "Otro",
}

// ProgramType is a catalog entry describing a recurring program. Codes are
// unique and stored upper-case.
type ProgramType struct {
	ID        string
	Code      string
	Label     string
	CreatedAt string
}

// Validate checks if the ProgramType has valid data.
func (p *ProgramType) Validate() error {
	if strings.TrimSpace(p.Code) == "" {
		return errors.New("program type code is required")
	}
	if strings.TrimSpace(p.Label) == "" {
		return errors.New("program type label is required")
	}
	return nil
}

// Display returns the long-form label for a program code, falling back to
// the raw code for unknown values.
func Display(code string) string {
	upper := strings.ToUpper(strings.TrimSpace(code))
	if label, ok := displayNames[upper]; ok {
		return label
	}
	return code
}

// NextCode returns the program that follows the given one in the
// progression PT → LT → TL. TL and unknown codes have no successor.
func NextCode(code string) string {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case CodePT:
		return CodeLT
	case CodeLT:
		return CodeTL
	}
	return ""
}
