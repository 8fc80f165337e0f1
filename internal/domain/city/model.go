package city

import (
	"errors"
	"strings"
)

// City is a catalog entry used by events and people. Names are unique.
type City struct {
	ID        string
	Name      string
	CreatedAt string
}

// Validate checks if the City has valid data.
func (c *City) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("city name is required")
	}
	return nil
}
