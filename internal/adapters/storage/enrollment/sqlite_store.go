package enrollment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage"
	domain "github.com/joserubiobejarano/crmtrilogy/internal/domain/enrollment"
)

const enrollmentColumns = "id, event_id, person_id, status, attended, details_sent, confirmed, contract_signed, cca_signed, health_doc_signed, tl_norms_signed, tl_rules_signed, withdrew, admin_notes, angel_name, city, cantidad, finalized, replaced_by_enrollment_id, created_at, updated_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new enrollment store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scanEnrollment(scan func(dest ...any) error) (domain.Enrollment, error) {
	var entity domain.Enrollment
	var adminNotes, angelName, city, replacedBy, updatedAt sql.NullString
	var cantidad sql.NullInt64
	err := scan(
		&entity.ID,
		&entity.EventID,
		&entity.PersonID,
		&entity.Status,
		&entity.Flags.Attended,
		&entity.Flags.DetailsSent,
		&entity.Flags.Confirmed,
		&entity.Flags.ContractSigned,
		&entity.Flags.CCASigned,
		&entity.Flags.HealthDocSigned,
		&entity.Flags.TLNormsSigned,
		&entity.Flags.TLRulesSigned,
		&entity.Flags.Withdrew,
		&adminNotes,
		&angelName,
		&city,
		&cantidad,
		&entity.Finalized,
		&replacedBy,
		&entity.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Enrollment{}, err
	}
	entity.AdminNotes = adminNotes.String
	entity.AngelName = angelName.String
	entity.City = city.String
	entity.Cantidad = int(cantidad.Int64)
	entity.ReplacedBy = replacedBy.String
	entity.UpdatedAt = updatedAt.String
	return entity, nil
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

// GetByID retrieves an Enrollment by its ID.
// PRE: id is non-empty
// POST: Returns the entity, or a storage.ErrNotFound-wrapped error
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Enrollment, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+enrollmentColumns+" FROM enrollments WHERE id = ?", id)
	entity, err := scanEnrollment(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Enrollment{}, fmt.Errorf("enrollment %s: %w", id, storage.ErrNotFound)
	}
	return entity, err
}

// GetByEventAndPerson retrieves the Enrollment joining a person to an event.
// PRE: eventID and personID are non-empty
// POST: Returns the entity, or a storage.ErrNotFound-wrapped error
func (s *SQLiteStore) GetByEventAndPerson(ctx context.Context, eventID, personID string) (domain.Enrollment, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+enrollmentColumns+" FROM enrollments WHERE event_id = ? AND person_id = ?",
		eventID, personID)
	entity, err := scanEnrollment(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Enrollment{}, fmt.Errorf("enrollment for event %s: %w", eventID, storage.ErrNotFound)
	}
	return entity, err
}

// Save persists an Enrollment to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update by id); the unique
// (event_id, person_id) constraint surfaces as an error
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Enrollment) error {
	query := `INSERT INTO enrollments (` + enrollmentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status=excluded.status,
			attended=excluded.attended,
			details_sent=excluded.details_sent,
			confirmed=excluded.confirmed,
			contract_signed=excluded.contract_signed,
			cca_signed=excluded.cca_signed,
			health_doc_signed=excluded.health_doc_signed,
			tl_norms_signed=excluded.tl_norms_signed,
			tl_rules_signed=excluded.tl_rules_signed,
			withdrew=excluded.withdrew,
			admin_notes=excluded.admin_notes,
			angel_name=excluded.angel_name,
			city=excluded.city,
			cantidad=excluded.cantidad,
			finalized=excluded.finalized,
			replaced_by_enrollment_id=excluded.replaced_by_enrollment_id,
			updated_at=excluded.updated_at`

	var cantidad any
	if entity.Cantidad != 0 {
		cantidad = entity.Cantidad
	}

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.EventID,
		entity.PersonID,
		entity.Status,
		entity.Flags.Attended,
		entity.Flags.DetailsSent,
		entity.Flags.Confirmed,
		entity.Flags.ContractSigned,
		entity.Flags.CCASigned,
		entity.Flags.HealthDocSigned,
		entity.Flags.TLNormsSigned,
		entity.Flags.TLRulesSigned,
		entity.Flags.Withdrew,
		nullable(entity.AdminNotes),
		nullable(entity.AngelName),
		nullable(entity.City),
		cantidad,
		entity.Finalized,
		nullable(entity.ReplacedBy),
		entity.CreatedAt,
		nullable(entity.UpdatedAt),
	)
	return err
}

// Delete removes an Enrollment from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM enrollments WHERE id = ?", id)
	return err
}

// List retrieves enrollments matching the filter, oldest first so event
// rosters keep a stable order.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Enrollment, error) {
	query := "SELECT " + enrollmentColumns + " FROM enrollments WHERE 1=1"
	var args []any

	if filter.EventID != "" {
		query += " AND event_id = ?"
		args = append(args, filter.EventID)
	}
	if filter.PersonID != "" {
		query += " AND person_id = ?"
		args = append(args, filter.PersonID)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	query += " ORDER BY created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Enrollment
	for rows.Next() {
		entity, err := scanEnrollment(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
