package enrollment

import (
	"context"

	domain "github.com/joserubiobejarano/crmtrilogy/internal/domain/enrollment"
)

// ListFilter narrows the enrollments returned by List.
type ListFilter struct {
	EventID  string
	PersonID string
	Status   string
}

// Store defines the persistence interface for enrollments.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Enrollment, error)
	GetByEventAndPerson(ctx context.Context, eventID, personID string) (domain.Enrollment, error)
	Save(ctx context.Context, entity domain.Enrollment) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Enrollment, error)
}
