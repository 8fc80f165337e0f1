package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage"
	enrollmentStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/enrollment"
	paymentStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/payment"
	personStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/person"
	enrollmentDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/enrollment"
	paymentDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/payment"
	personDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/person"
)

// Errors returned by the spot transfer orchestrator.
var (
	ErrSpotAlreadyTransferred = errors.New("spot was already transferred")
	ErrTransferToSelf         = errors.New("cannot transfer a spot to itself")
)

// TransferSpotInput names either an existing enrollment in the same event
// (ToEnrollmentID) or a recipient person (TargetEmail plus optional name,
// phone and angel fields; the person is created when the email is unknown).
type TransferSpotInput struct {
	FromEnrollmentID string

	ToEnrollmentID string

	TargetEmail     string
	TargetFirstName string
	TargetLastName  string
	TargetPhone     string
	TargetAngelName string
}

// TransferSpotDeps holds external dependencies for spot transfers.
type TransferSpotDeps struct {
	EnrollmentStore enrollmentStore.Store
	PersonStore     personStore.Store
	PaymentStore    paymentStore.Store
	GenerateID      func() string
	Now             func() time.Time
}

func (d TransferSpotDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// personName resolves a display name for transfer notes, degrading to
// "Sin nombre" when the person is missing or has no name on file.
func personName(ctx context.Context, store personStore.Store, personID string) string {
	p, err := store.GetByID(ctx, personID)
	if err != nil {
		return "Sin nombre"
	}
	if name := p.FullName(); name != "" {
		return name
	}
	return "Sin nombre"
}

// transferFee is 10% of the source enrollment's cantidad, rounded.
func transferFee(cantidad int) float64 {
	return math.Round(float64(cantidad) * 0.1)
}

// ExecuteTransferSpot moves an enrollment's spot to another participant of
// the same event. The source enrollment becomes transferred_out and records
// which enrollment replaced it; the recipient becomes cupo_recibido, both
// get an admin note naming the counterpart, and a payment for the transfer
// fee lands on the recipient.
// PRE: input.FromEnrollmentID is non-empty; exactly one of ToEnrollmentID
// or TargetEmail identifies the recipient
// POST: Returns the receiving enrollment; a second transfer of the same
// spot returns ErrSpotAlreadyTransferred
func ExecuteTransferSpot(ctx context.Context, input TransferSpotInput, deps TransferSpotDeps) (enrollmentDomain.Enrollment, error) {
	from, err := deps.EnrollmentStore.GetByID(ctx, input.FromEnrollmentID)
	if err != nil {
		if storage.IsNotFound(err) {
			return enrollmentDomain.Enrollment{}, ErrEnrollmentNotFound
		}
		return enrollmentDomain.Enrollment{}, err
	}
	if from.ReplacedBy != "" {
		return enrollmentDomain.Enrollment{}, ErrSpotAlreadyTransferred
	}

	if input.ToEnrollmentID != "" {
		return transferToExistingEnrollment(ctx, input, deps, from)
	}
	return transferToPerson(ctx, input, deps, from)
}

func transferToExistingEnrollment(ctx context.Context, input TransferSpotInput, deps TransferSpotDeps, from enrollmentDomain.Enrollment) (enrollmentDomain.Enrollment, error) {
	if input.ToEnrollmentID == input.FromEnrollmentID {
		return enrollmentDomain.Enrollment{}, ErrTransferToSelf
	}
	to, err := deps.EnrollmentStore.GetByID(ctx, input.ToEnrollmentID)
	if err != nil {
		if storage.IsNotFound(err) {
			return enrollmentDomain.Enrollment{}, ErrEnrollmentNotFound
		}
		return enrollmentDomain.Enrollment{}, err
	}
	if to.EventID != from.EventID {
		return enrollmentDomain.Enrollment{}, ErrEnrollmentNotFound
	}

	fromName := personName(ctx, deps.PersonStore, from.PersonID)
	toName := personName(ctx, deps.PersonStore, to.PersonID)
	now := deps.now().UTC().Format(time.RFC3339)

	from.ReplacedBy = to.ID
	from.Status = enrollmentDomain.StatusTransferredOut
	from.AppendAdminNote("Transfirió su cupo a " + toName)
	from.UpdatedAt = now
	if err := deps.EnrollmentStore.Save(ctx, from); err != nil {
		return enrollmentDomain.Enrollment{}, fmt.Errorf("save source enrollment: %w", err)
	}

	to.Status = enrollmentDomain.StatusSpotReceived
	to.AppendAdminNote("Recibió cupo de " + fromName)
	to.UpdatedAt = now
	if err := deps.EnrollmentStore.Save(ctx, to); err != nil {
		return enrollmentDomain.Enrollment{}, fmt.Errorf("save recipient enrollment: %w", err)
	}

	if err := recordTransferFee(ctx, deps, to.ID, from.Cantidad, now); err != nil {
		return enrollmentDomain.Enrollment{}, err
	}

	slog.Info("spot_transferred",
		"from_enrollment_id", from.ID,
		"to_enrollment_id", to.ID,
		"event_id", from.EventID,
	)
	return to, nil
}

func transferToPerson(ctx context.Context, input TransferSpotInput, deps TransferSpotDeps, from enrollmentDomain.Enrollment) (enrollmentDomain.Enrollment, error) {
	email := personDomain.NormalizeEmail(input.TargetEmail)
	if email == "" {
		return enrollmentDomain.Enrollment{}, ErrEmailRequired
	}

	fromName := personName(ctx, deps.PersonStore, from.PersonID)
	now := deps.now().UTC().Format(time.RFC3339)

	var recipient personDomain.Person
	existing, err := deps.PersonStore.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if _, err := deps.EnrollmentStore.GetByEventAndPerson(ctx, from.EventID, existing.ID); err == nil {
			return enrollmentDomain.Enrollment{}, ErrAlreadyEnrolled
		} else if !storage.IsNotFound(err) {
			return enrollmentDomain.Enrollment{}, err
		}
		recipient = existing
	case storage.IsNotFound(err):
		recipient = personDomain.Person{
			ID:        deps.GenerateID(),
			FirstName: input.TargetFirstName,
			LastName:  input.TargetLastName,
			Phone:     input.TargetPhone,
			Email:     email,
			CreatedAt: now,
		}
		if err := deps.PersonStore.Save(ctx, recipient); err != nil {
			return enrollmentDomain.Enrollment{}, fmt.Errorf("save recipient person: %w", err)
		}
	default:
		return enrollmentDomain.Enrollment{}, err
	}

	angel := input.TargetAngelName
	if angel == "" {
		angel = from.AngelName
	}
	toName := recipient.FullName()
	if toName == "" {
		toName = "Sin nombre"
	}

	to := enrollmentDomain.Enrollment{
		ID:        deps.GenerateID(),
		EventID:   from.EventID,
		PersonID:  recipient.ID,
		Status:    enrollmentDomain.StatusSpotReceived,
		AngelName: angel,
		CreatedAt: now,
	}
	to.AppendAdminNote("Recibió cupo de " + fromName)
	if err := deps.EnrollmentStore.Save(ctx, to); err != nil {
		return enrollmentDomain.Enrollment{}, fmt.Errorf("save recipient enrollment: %w", err)
	}

	from.ReplacedBy = to.ID
	from.Status = enrollmentDomain.StatusTransferredOut
	from.AppendAdminNote("Transfirió su cupo a " + toName)
	from.UpdatedAt = now
	if err := deps.EnrollmentStore.Save(ctx, from); err != nil {
		return enrollmentDomain.Enrollment{}, fmt.Errorf("save source enrollment: %w", err)
	}

	if err := recordTransferFee(ctx, deps, to.ID, from.Cantidad, now); err != nil {
		return enrollmentDomain.Enrollment{}, err
	}

	slog.Info("spot_transferred",
		"from_enrollment_id", from.ID,
		"to_enrollment_id", to.ID,
		"event_id", from.EventID,
		"recipient_created", existing.ID == "",
	)
	return to, nil
}

// recordTransferFee books the 10% transfer fee on the receiving enrollment.
// The method is left empty: the fee is owed, not collected through a channel.
func recordTransferFee(ctx context.Context, deps TransferSpotDeps, enrollmentID string, cantidad int, now string) error {
	fee := transferFee(cantidad)
	p := paymentDomain.Payment{
		ID:           deps.GenerateID(),
		EnrollmentID: enrollmentID,
		FeeAmount:    &fee,
		CreatedAt:    now,
	}
	if err := deps.PaymentStore.Save(ctx, p); err != nil {
		return fmt.Errorf("save transfer fee: %w", err)
	}
	return nil
}
