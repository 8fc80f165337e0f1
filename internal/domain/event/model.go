package event

import (
	"errors"
	"strings"
	"time"
)

// ScheduledDeletionGrace is how long a scheduled deletion waits before the
// event becomes eligible for permanent removal.
const ScheduledDeletionGrace = 7 * 24 * time.Hour

// Domain errors
var (
	ErrCodeRequired = errors.New("event code is required")
	ErrCityRequired = errors.New("event city is required")
)

// Event is a scheduled program run. Within imports it is identified by the
// (ProgramType, Code) pair; both are set to the sheet name by convention.
type Event struct {
	ID                  string
	ProgramType         string
	Code                string
	City                string
	Coordinator         string
	Entrenadores        string
	CapitanMentores     string
	Mentores            string
	StartDate           string // RFC 3339, empty when unset
	EndDate             string // RFC 3339, empty when unset
	Active              bool
	ScheduledDeletionAt string // RFC 3339, empty when no deletion pending
	CreatedAt           string
}

// Validate checks if the Event has valid data.
// PRE: Event struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (e *Event) Validate() error {
	if strings.TrimSpace(e.ProgramType) == "" {
		return errors.New("event program type is required")
	}
	if strings.TrimSpace(e.Code) == "" {
		return ErrCodeRequired
	}
	if strings.TrimSpace(e.City) == "" {
		return ErrCityRequired
	}
	return nil
}

// DeletionPending reports whether the event has a scheduled deletion.
func (e *Event) DeletionPending() bool {
	return e.ScheduledDeletionAt != ""
}

// DeletionDue reports whether the scheduled deletion time has passed.
// PRE: ScheduledDeletionAt is empty or RFC 3339
// POST: false when no deletion is scheduled or the timestamp is unparsable
func (e *Event) DeletionDue(now time.Time) bool {
	if e.ScheduledDeletionAt == "" {
		return false
	}
	due, err := time.Parse(time.RFC3339, e.ScheduledDeletionAt)
	if err != nil {
		return false
	}
	return !due.After(now)
}
