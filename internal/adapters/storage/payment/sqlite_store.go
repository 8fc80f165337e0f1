package payment

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage"
	domain "github.com/joserubiobejarano/crmtrilogy/internal/domain/payment"
)

const paymentColumns = "id, enrollment_id, method, fee_amount, promo_note, payer_name, created_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new payment store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scanPayment(scan func(dest ...any) error) (domain.Payment, error) {
	var entity domain.Payment
	var method, promoNote, payerName sql.NullString
	var feeAmount sql.NullFloat64
	err := scan(
		&entity.ID,
		&entity.EnrollmentID,
		&method,
		&feeAmount,
		&promoNote,
		&payerName,
		&entity.CreatedAt,
	)
	if err != nil {
		return domain.Payment{}, err
	}
	entity.Method = method.String
	if feeAmount.Valid {
		v := feeAmount.Float64
		entity.FeeAmount = &v
	}
	entity.PromoNote = promoNote.String
	entity.PayerName = payerName.String
	return entity, nil
}

// GetByID retrieves a Payment by its ID.
// PRE: id is non-empty
// POST: Returns the entity, or a storage.ErrNotFound-wrapped error
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Payment, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+paymentColumns+" FROM payments WHERE id = ?", id)
	entity, err := scanPayment(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Payment{}, fmt.Errorf("payment %s: %w", id, storage.ErrNotFound)
	}
	return entity, err
}

// GetByEnrollmentAndMethod retrieves the payment recorded for an enrollment
// under a given method. Imports use this to avoid duplicating method marks.
// PRE: enrollmentID and method are non-empty
// POST: Returns the entity, or a storage.ErrNotFound-wrapped error
func (s *SQLiteStore) GetByEnrollmentAndMethod(ctx context.Context, enrollmentID, method string) (domain.Payment, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE enrollment_id = ? AND method = ?",
		enrollmentID, method)
	entity, err := scanPayment(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Payment{}, fmt.Errorf("payment for enrollment %s: %w", enrollmentID, storage.ErrNotFound)
	}
	return entity, err
}

// Save persists a Payment to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update by id)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Payment) error {
	query := `INSERT INTO payments (` + paymentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			method=excluded.method,
			fee_amount=excluded.fee_amount,
			promo_note=excluded.promo_note,
			payer_name=excluded.payer_name`

	var method, promoNote, payerName any
	if entity.Method != "" {
		method = entity.Method
	}
	if entity.PromoNote != "" {
		promoNote = entity.PromoNote
	}
	if entity.PayerName != "" {
		payerName = entity.PayerName
	}
	var feeAmount any
	if entity.FeeAmount != nil {
		feeAmount = *entity.FeeAmount
	}

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.EnrollmentID,
		method,
		feeAmount,
		promoNote,
		payerName,
		entity.CreatedAt,
	)
	return err
}

// Delete removes a Payment from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM payments WHERE id = ?", id)
	return err
}

// ListByEnrollment retrieves all payments for one enrollment, oldest first.
// PRE: enrollmentID is non-empty
// POST: Returns matching entities
func (s *SQLiteStore) ListByEnrollment(ctx context.Context, enrollmentID string) ([]domain.Payment, error) {
	return s.list(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE enrollment_id = ? ORDER BY created_at ASC",
		enrollmentID)
}

// ListByEnrollments retrieves payments for a set of enrollments in one query.
// PRE: none
// POST: Returns matching entities; empty input yields an empty result
func (s *SQLiteStore) ListByEnrollments(ctx context.Context, enrollmentIDs []string) ([]domain.Payment, error) {
	if len(enrollmentIDs) == 0 {
		return nil, nil
	}
	query := "SELECT " + paymentColumns + " FROM payments WHERE enrollment_id IN (?" +
		strings.Repeat(", ?", len(enrollmentIDs)-1) + ") ORDER BY created_at ASC"
	args := make([]any, len(enrollmentIDs))
	for i, id := range enrollmentIDs {
		args[i] = id
	}
	return s.list(ctx, query, args...)
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...any) ([]domain.Payment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Payment
	for rows.Next() {
		entity, err := scanPayment(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
