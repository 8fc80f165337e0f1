package eventreport

import (
	"context"

	domain "github.com/joserubiobejarano/crmtrilogy/internal/domain/eventreport"
)

// Store defines the persistence interface for event closing reports.
type Store interface {
	GetByEventID(ctx context.Context, eventID string) (domain.EventReport, error)
	Save(ctx context.Context, entity domain.EventReport) error
	DeleteByEventID(ctx context.Context, eventID string) error
	List(ctx context.Context) ([]domain.EventReport, error)
}
