package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage"
	enrollmentStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/enrollment"
	enrollmentDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/enrollment"
)

// Errors returned by the enrollment update orchestrator.
var (
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrInvalidStatus      = errors.New("unknown enrollment status")
)

var knownStatuses = map[string]bool{
	enrollmentDomain.StatusPendingContract: true,
	enrollmentDomain.StatusPaid:            true,
	enrollmentDomain.StatusConfirmed:       true,
	enrollmentDomain.StatusNoShowPaid:      true,
	enrollmentDomain.StatusNoShowUnpaid:    true,
	enrollmentDomain.StatusRescheduled:     true,
	enrollmentDomain.StatusTransferredOut:  true,
	enrollmentDomain.StatusSpotReceived:    true,
}

// UpdateEnrollmentInput carries optional field edits; nil pointers leave the
// stored value untouched. This mirrors the admin UI, which edits one field
// at a time.
type UpdateEnrollmentInput struct {
	EnrollmentID string

	Status          *string
	Attended        *bool
	DetailsSent     *bool
	Confirmed       *bool
	ContractSigned  *bool
	CCASigned       *bool
	HealthDocSigned *bool
	TLNormsSigned   *bool
	TLRulesSigned   *bool
	Withdrew        *bool
	Finalized       *bool
	AdminNotes      *string
	AngelName       *string
	City            *string
	Cantidad        *int
}

// UpdateEnrollmentDeps holds external dependencies for enrollment updates.
type UpdateEnrollmentDeps struct {
	EnrollmentStore enrollmentStore.Store
	Now             func() time.Time
}

// ExecuteUpdateEnrollment applies the provided field edits to an enrollment.
// PRE: input.EnrollmentID is non-empty
// POST: Only provided fields change; UpdatedAt is refreshed on any change
func ExecuteUpdateEnrollment(ctx context.Context, input UpdateEnrollmentInput, deps UpdateEnrollmentDeps) (enrollmentDomain.Enrollment, error) {
	enr, err := deps.EnrollmentStore.GetByID(ctx, input.EnrollmentID)
	if err != nil {
		if storage.IsNotFound(err) {
			return enrollmentDomain.Enrollment{}, ErrEnrollmentNotFound
		}
		return enrollmentDomain.Enrollment{}, err
	}

	changed := false
	if input.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*input.Status))
		if !knownStatuses[status] {
			return enrollmentDomain.Enrollment{}, ErrInvalidStatus
		}
		enr.Status = status
		changed = true
	}

	applyBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
			changed = true
		}
	}
	applyBool(&enr.Flags.Attended, input.Attended)
	applyBool(&enr.Flags.DetailsSent, input.DetailsSent)
	applyBool(&enr.Flags.Confirmed, input.Confirmed)
	applyBool(&enr.Flags.ContractSigned, input.ContractSigned)
	applyBool(&enr.Flags.CCASigned, input.CCASigned)
	applyBool(&enr.Flags.HealthDocSigned, input.HealthDocSigned)
	applyBool(&enr.Flags.TLNormsSigned, input.TLNormsSigned)
	applyBool(&enr.Flags.TLRulesSigned, input.TLRulesSigned)
	applyBool(&enr.Flags.Withdrew, input.Withdrew)
	applyBool(&enr.Finalized, input.Finalized)

	applyText := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
			changed = true
		}
	}
	applyText(&enr.AdminNotes, input.AdminNotes)
	applyText(&enr.AngelName, input.AngelName)
	applyText(&enr.City, input.City)

	if input.Cantidad != nil {
		enr.Cantidad = *input.Cantidad
		changed = true
	}

	if !changed {
		return enr, nil
	}

	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	enr.UpdatedAt = now().UTC().Format(time.RFC3339)

	if err := deps.EnrollmentStore.Save(ctx, enr); err != nil {
		return enrollmentDomain.Enrollment{}, fmt.Errorf("save enrollment: %w", err)
	}
	return enr, nil
}
