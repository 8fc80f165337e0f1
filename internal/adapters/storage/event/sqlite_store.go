package event

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage"
	domain "github.com/joserubiobejarano/crmtrilogy/internal/domain/event"
)

const eventColumns = "id, program_type, code, city, coordinator, entrenadores, capitan_mentores, mentores, start_date, end_date, active, scheduled_deletion_at, created_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new event store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scanEvent(scan func(dest ...any) error) (domain.Event, error) {
	var entity domain.Event
	var coordinator, entrenadores, capitanMentores, mentores sql.NullString
	var startDate, endDate, scheduledDeletion sql.NullString
	err := scan(
		&entity.ID,
		&entity.ProgramType,
		&entity.Code,
		&entity.City,
		&coordinator,
		&entrenadores,
		&capitanMentores,
		&mentores,
		&startDate,
		&endDate,
		&entity.Active,
		&scheduledDeletion,
		&entity.CreatedAt,
	)
	if err != nil {
		return domain.Event{}, err
	}
	entity.Coordinator = coordinator.String
	entity.Entrenadores = entrenadores.String
	entity.CapitanMentores = capitanMentores.String
	entity.Mentores = mentores.String
	entity.StartDate = startDate.String
	entity.EndDate = endDate.String
	entity.ScheduledDeletionAt = scheduledDeletion.String
	return entity, nil
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

// GetByID retrieves an Event by its ID.
// PRE: id is non-empty
// POST: Returns the entity, or a storage.ErrNotFound-wrapped error
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Event, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM events WHERE id = ?", id)
	entity, err := scanEvent(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Event{}, fmt.Errorf("event %s: %w", id, storage.ErrNotFound)
	}
	return entity, err
}

// GetByProgramTypeAndCode retrieves the Event identified by the
// (program type, code) pair used during imports.
// PRE: programType and code are non-empty
// POST: Returns the entity, or a storage.ErrNotFound-wrapped error
func (s *SQLiteStore) GetByProgramTypeAndCode(ctx context.Context, programType, code string) (domain.Event, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE program_type = ? AND code = ?",
		programType, code)
	entity, err := scanEvent(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Event{}, fmt.Errorf("event %s/%s: %w", programType, code, storage.ErrNotFound)
	}
	return entity, err
}

// Save persists an Event to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update by id)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Event) error {
	query := `INSERT INTO events (` + eventColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			program_type=excluded.program_type,
			code=excluded.code,
			city=excluded.city,
			coordinator=excluded.coordinator,
			entrenadores=excluded.entrenadores,
			capitan_mentores=excluded.capitan_mentores,
			mentores=excluded.mentores,
			start_date=excluded.start_date,
			end_date=excluded.end_date,
			active=excluded.active,
			scheduled_deletion_at=excluded.scheduled_deletion_at`

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.ProgramType,
		entity.Code,
		entity.City,
		nullable(entity.Coordinator),
		nullable(entity.Entrenadores),
		nullable(entity.CapitanMentores),
		nullable(entity.Mentores),
		nullable(entity.StartDate),
		nullable(entity.EndDate),
		entity.Active,
		nullable(entity.ScheduledDeletionAt),
		entity.CreatedAt,
	)
	return err
}

// Delete removes an Event from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
	return err
}

// List retrieves events matching the filter, newest first.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Event, error) {
	query := "SELECT " + eventColumns + " FROM events WHERE 1=1"
	var args []any

	if filter.ProgramType != "" {
		query += " AND program_type = ?"
		args = append(args, filter.ProgramType)
	}
	if filter.City != "" {
		query += " AND city = ?"
		args = append(args, filter.City)
	}
	if filter.ActiveOnly {
		query += " AND active = 1"
	}
	if filter.DeletionPending {
		query += " AND scheduled_deletion_at IS NOT NULL"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Event
	for rows.Next() {
		entity, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// DeactivateAll clears the active flag on every event of the given
// program type and city. Used before activating a replacement.
// PRE: programType and city are non-empty
// POST: No event of that program type and city remains active
func (s *SQLiteStore) DeactivateAll(ctx context.Context, programType, city string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE events SET active = 0 WHERE program_type = ? AND city = ?",
		programType, city)
	return err
}
