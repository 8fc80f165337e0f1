package eventreport

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage"
	domain "github.com/joserubiobejarano/crmtrilogy/internal/domain/eventreport"
)

const reportColumns = "id, event_id, notes, created_at, updated_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new event report store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scanReport(scan func(dest ...any) error) (domain.EventReport, error) {
	var entity domain.EventReport
	var updatedAt sql.NullString
	err := scan(&entity.ID, &entity.EventID, &entity.Notes, &entity.CreatedAt, &updatedAt)
	if err != nil {
		return domain.EventReport{}, err
	}
	entity.UpdatedAt = updatedAt.String
	return entity, nil
}

// GetByEventID retrieves the report for an event.
// PRE: eventID is non-empty
// POST: Returns the entity, or a storage.ErrNotFound-wrapped error
func (s *SQLiteStore) GetByEventID(ctx context.Context, eventID string) (domain.EventReport, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+reportColumns+" FROM event_reports WHERE event_id = ?", eventID)
	entity, err := scanReport(row.Scan)
	if err == sql.ErrNoRows {
		return domain.EventReport{}, fmt.Errorf("report for event %s: %w", eventID, storage.ErrNotFound)
	}
	return entity, err
}

// Save persists an EventReport to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update by id); the unique event_id
// constraint surfaces as an error
func (s *SQLiteStore) Save(ctx context.Context, entity domain.EventReport) error {
	var updatedAt any
	if entity.UpdatedAt != "" {
		updatedAt = entity.UpdatedAt
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO event_reports (`+reportColumns+`) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			notes=excluded.notes,
			updated_at=excluded.updated_at`,
		entity.ID, entity.EventID, entity.Notes, entity.CreatedAt, updatedAt)
	return err
}

// DeleteByEventID removes the report for an event.
// PRE: eventID is non-empty
// POST: The report for the event is removed
func (s *SQLiteStore) DeleteByEventID(ctx context.Context, eventID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM event_reports WHERE event_id = ?", eventID)
	return err
}

// List retrieves all reports, newest first.
// PRE: none
// POST: Returns all entities ordered by created_at descending
func (s *SQLiteStore) List(ctx context.Context) ([]domain.EventReport, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+reportColumns+" FROM event_reports ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.EventReport
	for rows.Next() {
		entity, err := scanReport(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
