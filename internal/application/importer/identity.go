package importer

import (
	"errors"
	"strings"

	"github.com/joserubiobejarano/crmtrilogy/internal/domain/person"
)

// ErrNoIdentity marks a row carrying neither an email nor a phone; such a
// row cannot be reconciled and must be reported, not silently dropped.
var ErrNoIdentity = errors.New("no email or phone")

// PlaceholderEmail synthesizes a deterministic dedup key for a person with
// no email: "import-" + last 10 digits of the phone (or "unknown" when the
// phone has no digits) + the placeholder domain. Distinct phone-less,
// email-less individuals sharing the same last 10 digits collide on the
// same placeholder; that approximation is accepted.
func PlaceholderEmail(phone string) string {
	var digits []rune
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	key := string(digits)
	if key == "" {
		key = "unknown"
	}
	return "import-" + key + person.PlaceholderDomain
}

// ResolveIdentityEmail determines the canonical lookup email for a row:
// the lower-cased email when present, otherwise a phone-derived placeholder.
// PRE: email and phone are raw cell strings
// POST: returns the dedup email, or ErrNoIdentity when both are blank
func ResolveIdentityEmail(email, phone string) (string, error) {
	email = person.NormalizeEmail(email)
	phone = strings.TrimSpace(phone)
	if email != "" {
		return email, nil
	}
	if phone != "" {
		return PlaceholderEmail(phone), nil
	}
	return "", ErrNoIdentity
}
