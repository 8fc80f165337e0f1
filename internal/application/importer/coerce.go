package importer

import (
	"strconv"
	"strings"
)

// truthyTokens is the fixed set of cell values that count as true in
// boolean columns, after trimming and lower-casing.
var truthyTokens = map[string]bool{
	"x":         true,
	"1":         true,
	"si":        true,
	"sí":        true,
	"s":         true,
	"yes":       true,
	"true":      true,
	"verdadero": true,
	"v":         true,
	"y":         true,
}

// ToBool coerces a raw cell into a boolean. Blank cells and values outside
// the truthy token set are false.
func ToBool(value string) bool {
	s := strings.ToLower(strings.TrimSpace(value))
	return s != "" && truthyTokens[s]
}

// ToString trims a raw cell to a string. An empty cell maps to "";
// the caller decides any null fallback.
func ToString(value string) string {
	return strings.TrimSpace(value)
}

// ToNumber coerces a raw cell into a nullable number. Blank cells and
// unparsable values yield nil; it never returns an error.
func ToNumber(value string) *float64 {
	s := strings.TrimSpace(value)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &n
}
