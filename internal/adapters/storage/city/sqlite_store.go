package city

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage"
	domain "github.com/joserubiobejarano/crmtrilogy/internal/domain/city"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new city store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a City by its ID.
// PRE: id is non-empty
// POST: Returns the entity, or a storage.ErrNotFound-wrapped error
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.City, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, name, created_at FROM cities WHERE id = ?", id)
	var entity domain.City
	err := row.Scan(&entity.ID, &entity.Name, &entity.CreatedAt)
	if err == sql.ErrNoRows {
		return domain.City{}, fmt.Errorf("city %s: %w", id, storage.ErrNotFound)
	}
	return entity, err
}

// GetByName retrieves a City by name, matched case-insensitively.
// PRE: name is non-empty
// POST: Returns the entity, or a storage.ErrNotFound-wrapped error
func (s *SQLiteStore) GetByName(ctx context.Context, name string) (domain.City, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM cities WHERE LOWER(name) = LOWER(?)", name)
	var entity domain.City
	err := row.Scan(&entity.ID, &entity.Name, &entity.CreatedAt)
	if err == sql.ErrNoRows {
		return domain.City{}, fmt.Errorf("city %q: %w", name, storage.ErrNotFound)
	}
	return entity, err
}

// Save persists a City to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update by id); the unique name
// constraint surfaces as an error
func (s *SQLiteStore) Save(ctx context.Context, entity domain.City) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cities (id, name, created_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name`,
		entity.ID, entity.Name, entity.CreatedAt)
	return err
}

// Delete removes a City from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM cities WHERE id = ?", id)
	return err
}

// List retrieves all cities sorted by name.
// PRE: none
// POST: Returns all entities
func (s *SQLiteStore) List(ctx context.Context) ([]domain.City, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, created_at FROM cities ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.City
	for rows.Next() {
		var entity domain.City
		if err := rows.Scan(&entity.ID, &entity.Name, &entity.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
