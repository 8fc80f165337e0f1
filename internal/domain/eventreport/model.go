package eventreport

import "errors"

// EventReport is the persisted closing report for an event. One row per
// event. The notes body is the only editable content; everything else in
// the rendered report is rebuilt from the live roster.
type EventReport struct {
	ID        string
	EventID   string
	Notes     string
	CreatedAt string
	UpdatedAt string
}

// Validate checks if the EventReport has valid data.
func (r *EventReport) Validate() error {
	if r.EventID == "" {
		return errors.New("report event is required")
	}
	return nil
}
