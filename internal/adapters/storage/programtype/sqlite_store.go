package programtype

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage"
	domain "github.com/joserubiobejarano/crmtrilogy/internal/domain/programtype"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new program type store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a ProgramType by its ID.
// PRE: id is non-empty
// POST: Returns the entity, or a storage.ErrNotFound-wrapped error
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.ProgramType, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, code, label, created_at FROM program_types WHERE id = ?", id)
	var entity domain.ProgramType
	err := row.Scan(&entity.ID, &entity.Code, &entity.Label, &entity.CreatedAt)
	if err == sql.ErrNoRows {
		return domain.ProgramType{}, fmt.Errorf("program type %s: %w", id, storage.ErrNotFound)
	}
	return entity, err
}

// GetByCode retrieves a ProgramType by its code, matched case-insensitively.
// PRE: code is non-empty
// POST: Returns the entity, or a storage.ErrNotFound-wrapped error
func (s *SQLiteStore) GetByCode(ctx context.Context, code string) (domain.ProgramType, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, code, label, created_at FROM program_types WHERE UPPER(code) = UPPER(?)", code)
	var entity domain.ProgramType
	err := row.Scan(&entity.ID, &entity.Code, &entity.Label, &entity.CreatedAt)
	if err == sql.ErrNoRows {
		return domain.ProgramType{}, fmt.Errorf("program type %q: %w", code, storage.ErrNotFound)
	}
	return entity, err
}

// Save persists a ProgramType to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update by id); the unique code
// constraint surfaces as an error
func (s *SQLiteStore) Save(ctx context.Context, entity domain.ProgramType) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO program_types (id, code, label, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET code=excluded.code, label=excluded.label`,
		entity.ID, entity.Code, entity.Label, entity.CreatedAt)
	return err
}

// Delete removes a ProgramType from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM program_types WHERE id = ?", id)
	return err
}

// List retrieves all program types sorted by code.
// PRE: none
// POST: Returns all entities
func (s *SQLiteStore) List(ctx context.Context) ([]domain.ProgramType, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, code, label, created_at FROM program_types ORDER BY code ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.ProgramType
	for rows.Next() {
		var entity domain.ProgramType
		if err := rows.Scan(&entity.ID, &entity.Code, &entity.Label, &entity.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
