package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage"
	enrollmentStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/enrollment"
	paymentStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/payment"
	paymentDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/payment"
)

// Errors returned by the payment orchestrators.
var (
	ErrInvalidPaymentMethod = errors.New("unknown payment method")
	ErrPaymentNotFound      = errors.New("payment not found")
)

// RecordPaymentInput carries the fields for a new payment on an enrollment.
type RecordPaymentInput struct {
	EnrollmentID string
	Method       string
	FeeAmount    *float64
	PromoNote    string
	PayerName    string
}

// PaymentDeps holds external dependencies for the payment orchestrators.
type PaymentDeps struct {
	PaymentStore    paymentStore.Store
	EnrollmentStore enrollmentStore.Store
	GenerateID      func() string
	Now             func() time.Time
}

func (d PaymentDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// ExecuteRecordPayment records a payment against an enrollment.
// PRE: input.EnrollmentID refers to an existing enrollment
// POST: Payment is persisted; the method is one of the allowed set
func ExecuteRecordPayment(ctx context.Context, input RecordPaymentInput, deps PaymentDeps) (paymentDomain.Payment, error) {
	method := strings.ToLower(strings.TrimSpace(input.Method))
	if !paymentDomain.ValidMethod(method) {
		return paymentDomain.Payment{}, ErrInvalidPaymentMethod
	}
	if _, err := deps.EnrollmentStore.GetByID(ctx, input.EnrollmentID); err != nil {
		if storage.IsNotFound(err) {
			return paymentDomain.Payment{}, ErrEnrollmentNotFound
		}
		return paymentDomain.Payment{}, err
	}

	p := paymentDomain.Payment{
		ID:           deps.GenerateID(),
		EnrollmentID: input.EnrollmentID,
		Method:       method,
		FeeAmount:    input.FeeAmount,
		PromoNote:    strings.TrimSpace(input.PromoNote),
		PayerName:    strings.TrimSpace(input.PayerName),
		CreatedAt:    deps.now().UTC().Format(time.RFC3339),
	}
	if err := deps.PaymentStore.Save(ctx, p); err != nil {
		return paymentDomain.Payment{}, fmt.Errorf("save payment: %w", err)
	}
	return p, nil
}

// UpdatePaymentInput carries optional payment edits; nil pointers leave the
// stored value untouched.
type UpdatePaymentInput struct {
	PaymentID string
	Method    *string
	FeeAmount *float64
	ClearFee  bool
	PromoNote *string
	PayerName *string
}

// ExecuteUpdatePayment edits an existing payment.
// PRE: input.PaymentID is non-empty
// POST: Only provided fields change; ClearFee removes the amount
func ExecuteUpdatePayment(ctx context.Context, input UpdatePaymentInput, deps PaymentDeps) (paymentDomain.Payment, error) {
	p, err := deps.PaymentStore.GetByID(ctx, input.PaymentID)
	if err != nil {
		if storage.IsNotFound(err) {
			return paymentDomain.Payment{}, ErrPaymentNotFound
		}
		return paymentDomain.Payment{}, err
	}

	if input.Method != nil {
		method := strings.ToLower(strings.TrimSpace(*input.Method))
		if !paymentDomain.ValidMethod(method) {
			return paymentDomain.Payment{}, ErrInvalidPaymentMethod
		}
		p.Method = method
	}
	if input.ClearFee {
		p.FeeAmount = nil
	} else if input.FeeAmount != nil {
		p.FeeAmount = input.FeeAmount
	}
	if input.PromoNote != nil {
		p.PromoNote = strings.TrimSpace(*input.PromoNote)
	}
	if input.PayerName != nil {
		p.PayerName = strings.TrimSpace(*input.PayerName)
	}

	if err := deps.PaymentStore.Save(ctx, p); err != nil {
		return paymentDomain.Payment{}, fmt.Errorf("save payment: %w", err)
	}
	return p, nil
}

// ExecuteDeletePayment removes a payment.
// PRE: paymentID is non-empty
// POST: The payment no longer exists
func ExecuteDeletePayment(ctx context.Context, paymentID string, deps PaymentDeps) error {
	if _, err := deps.PaymentStore.GetByID(ctx, paymentID); err != nil {
		if storage.IsNotFound(err) {
			return ErrPaymentNotFound
		}
		return err
	}
	return deps.PaymentStore.Delete(ctx, paymentID)
}
