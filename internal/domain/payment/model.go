package payment

import (
	"errors"
)

// Recognized payment methods (DB form, lower-case).
const (
	MethodSquare   = "square"
	MethodAfterpay = "afterpay"
	MethodZelle    = "zelle"
	MethodCash     = "cash"
	MethodTDC      = "tdc"
)

// Methods lists the recognized payment methods in display order.
var Methods = []string{MethodSquare, MethodAfterpay, MethodZelle, MethodCash, MethodTDC}

// MethodLabels maps DB method codes to display labels.
var MethodLabels = map[string]string{
	MethodSquare:   "Square",
	MethodAfterpay: "Afterpay",
	MethodZelle:    "Zelle",
	MethodCash:     "Cash",
	MethodTDC:      "TDC",
}

// Domain errors
var (
	ErrInvalidMethod = errors.New("payment method is not recognized")
)

// Payment records an amount received for an enrollment through one method.
// At most one payment per (EnrollmentID, Method) is created by imports, and
// imports never update an existing payment's amount.
type Payment struct {
	ID           string
	EnrollmentID string
	Method       string
	FeeAmount    *float64
	PromoNote    string
	PayerName    string
	CreatedAt    string
}

// ValidMethod reports whether m is one of the recognized payment methods.
func ValidMethod(m string) bool {
	for _, known := range Methods {
		if m == known {
			return true
		}
	}
	return false
}

// Validate checks if the Payment has valid data.
// PRE: Payment struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (p *Payment) Validate() error {
	if p.EnrollmentID == "" {
		return errors.New("payment enrollment is required")
	}
	if !ValidMethod(p.Method) {
		return ErrInvalidMethod
	}
	if p.FeeAmount != nil && *p.FeeAmount < 0 {
		return errors.New("payment amount cannot be negative")
	}
	return nil
}
