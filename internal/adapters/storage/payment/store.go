package payment

import (
	"context"

	domain "github.com/joserubiobejarano/crmtrilogy/internal/domain/payment"
)

// Store defines the persistence interface for payments.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Payment, error)
	GetByEnrollmentAndMethod(ctx context.Context, enrollmentID, method string) (domain.Payment, error)
	Save(ctx context.Context, entity domain.Payment) error
	Delete(ctx context.Context, id string) error
	ListByEnrollment(ctx context.Context, enrollmentID string) ([]domain.Payment, error)
	ListByEnrollments(ctx context.Context, enrollmentIDs []string) ([]domain.Payment, error)
}
