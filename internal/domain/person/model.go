package person

import (
	"errors"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Domain errors
var (
	ErrEmailRequired = errors.New("person email is required")
)

// PlaceholderDomain is the synthetic email domain used for people imported
// without an email address. Their dedup key is derived from the phone number.
const PlaceholderDomain = "@placeholder.local"

// Person holds state for a participant identity.
// Email is the primary dedup key and is stored lower-cased.
type Person struct {
	ID        string
	FirstName string
	LastName  string
	Phone     string
	Email     string
	City      string
	CreatedAt string
}

// Validate checks if the Person has valid data.
// PRE: Person struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Email must be non-empty and contain '@'
func (p *Person) Validate() error {
	if strings.TrimSpace(p.Email) == "" {
		return ErrEmailRequired
	}
	if !strings.Contains(p.Email, "@") {
		return errors.New("person email must be valid")
	}
	if len(p.FirstName) > MaxNameLength {
		return errors.New("person first name cannot exceed 100 characters")
	}
	if len(p.LastName) > MaxNameLength {
		return errors.New("person last name cannot exceed 100 characters")
	}
	return nil
}

// FullName joins first and last name, skipping empty parts.
// INVARIANT: no field is mutated
func (p *Person) FullName() string {
	parts := []string{}
	if p.FirstName != "" {
		parts = append(parts, p.FirstName)
	}
	if p.LastName != "" {
		parts = append(parts, p.LastName)
	}
	return strings.Join(parts, " ")
}

// IsPlaceholder reports whether the person's email is an import-synthesized
// placeholder rather than a real address.
func (p *Person) IsPlaceholder() bool {
	return strings.HasSuffix(p.Email, PlaceholderDomain)
}

// NormalizeEmail lower-cases and trims an email for case-insensitive matching.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
