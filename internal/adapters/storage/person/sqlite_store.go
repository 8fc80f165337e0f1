package person

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage"
	domain "github.com/joserubiobejarano/crmtrilogy/internal/domain/person"
)

const personColumns = "id, first_name, last_name, phone, email, city, created_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new person store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// scanPerson maps one row into a domain.Person, handling nullable columns.
func scanPerson(scan func(dest ...any) error) (domain.Person, error) {
	var entity domain.Person
	var firstName, lastName, phone, city sql.NullString
	err := scan(
		&entity.ID,
		&firstName,
		&lastName,
		&phone,
		&entity.Email,
		&city,
		&entity.CreatedAt,
	)
	if err != nil {
		return domain.Person{}, err
	}
	entity.FirstName = firstName.String
	entity.LastName = lastName.String
	entity.Phone = phone.String
	entity.City = city.String
	return entity, nil
}

// GetByID retrieves a Person by its ID.
// PRE: id is non-empty
// POST: Returns the entity, or a storage.ErrNotFound-wrapped error
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Person, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+personColumns+" FROM people WHERE id = ?", id)
	entity, err := scanPerson(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Person{}, fmt.Errorf("person %s: %w", id, storage.ErrNotFound)
	}
	return entity, err
}

// GetByEmail retrieves a Person by email, matched case-insensitively.
// PRE: email is non-empty
// POST: Returns the entity, or a storage.ErrNotFound-wrapped error
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Person, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+personColumns+" FROM people WHERE LOWER(email) = LOWER(?)", email)
	entity, err := scanPerson(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Person{}, fmt.Errorf("person by email: %w", storage.ErrNotFound)
	}
	return entity, err
}

// nullable converts "" to NULL for optional text columns.
func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

// Save persists a Person to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update by id); the unique email
// constraint surfaces as an error
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Person) error {
	query := `INSERT INTO people (id, first_name, last_name, phone, email, city, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_name=excluded.first_name,
			last_name=excluded.last_name,
			phone=excluded.phone,
			email=excluded.email,
			city=excluded.city`

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		nullable(entity.FirstName),
		nullable(entity.LastName),
		nullable(entity.Phone),
		entity.Email,
		nullable(entity.City),
		entity.CreatedAt,
	)
	return err
}

// Delete removes a Person from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM people WHERE id = ?", id)
	return err
}

// List retrieves people matching the filter, newest first.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Person, error) {
	query := "SELECT " + personColumns + " FROM people WHERE 1=1"
	var args []any

	if len(filter.IDs) > 0 {
		query += " AND id IN (?" + strings.Repeat(", ?", len(filter.IDs)-1) + ")"
		for _, id := range filter.IDs {
			args = append(args, id)
		}
	}
	if filter.City != "" {
		query += " AND city = ?"
		args = append(args, filter.City)
	}
	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Person
	for rows.Next() {
		entity, err := scanPerson(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
