package enrollment

import (
	"errors"
	"strings"
)

// Enrollment statuses observed in the admin workflow. StatusPendingContract
// is the default for new enrollments, including imported ones.
const (
	StatusPendingContract = "pending_contract"
	StatusPaid            = "paid"
	StatusConfirmed       = "confirmed"
	StatusNoShowPaid      = "no_show_paid"
	StatusNoShowUnpaid    = "no_show_unpaid"
	StatusRescheduled     = "rescheduled"
	StatusTransferredOut  = "transferred_out"
	StatusSpotReceived    = "cupo_recibido"
)

// BacklogStatuses are the statuses that place a non-attended enrollment in
// the follow-up backlog.
var BacklogStatuses = []string{
	StatusPaid,
	StatusConfirmed,
	StatusNoShowPaid,
	StatusNoShowUnpaid,
	StatusRescheduled,
	StatusTransferredOut,
}

// Domain errors
var (
	ErrEventRequired  = errors.New("enrollment event is required")
	ErrPersonRequired = errors.New("enrollment person is required")
)

// Flags holds the per-event milestone booleans tracked on an enrollment.
// Spreadsheet imports overwrite these wholesale from the current row.
type Flags struct {
	Attended        bool
	DetailsSent     bool
	Confirmed       bool
	ContractSigned  bool
	CCASigned       bool
	HealthDocSigned bool
	TLNormsSigned   bool
	TLRulesSigned   bool
	Withdrew        bool
}

// Enrollment joins a Person to an Event. (EventID, PersonID) is unique.
// ReplacedBy is set when the spot has been transferred to another
// enrollment; a non-empty value blocks further transfers.
type Enrollment struct {
	ID         string
	EventID    string
	PersonID   string
	Status     string
	Flags      Flags
	AdminNotes string
	AngelName  string
	City       string
	Cantidad   int
	Finalized  bool
	ReplacedBy string
	CreatedAt  string
	UpdatedAt  string
}

// AppendAdminNote adds a line to the admin notes, keeping existing content.
func (e *Enrollment) AppendAdminNote(note string) {
	existing := strings.TrimSpace(e.AdminNotes)
	if existing == "" {
		e.AdminNotes = note
		return
	}
	e.AdminNotes = existing + "\n" + note
}

// Validate checks if the Enrollment has valid data.
// PRE: Enrollment struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (e *Enrollment) Validate() error {
	if e.EventID == "" {
		return ErrEventRequired
	}
	if e.PersonID == "" {
		return ErrPersonRequired
	}
	if e.Status == "" {
		return errors.New("enrollment status is required")
	}
	return nil
}

// InBacklog reports whether the enrollment needs follow-up: the person has
// not attended and either holds a backlog status or has a payment on file.
func (e *Enrollment) InBacklog(hasPayment bool) bool {
	if e.Flags.Attended {
		return false
	}
	if hasPayment {
		return true
	}
	for _, s := range BacklogStatuses {
		if e.Status == s {
			return true
		}
	}
	return false
}
