package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kabucount/kabucount/internal/model"
)

// TaxSettlementRepository provides data access methods for the tax_settlements table.
//
// Creating and deleting a settlement also flips the taxed flag on the settled
// transaction; both sides happen inside one database transaction so the
// at-most-one-settlement invariant can never be observed half-applied.
type TaxSettlementRepository struct {
	db *sql.DB
}

// NewTaxSettlementRepository creates a new TaxSettlementRepository with the provided database connection.
func NewTaxSettlementRepository(db *sql.DB) *TaxSettlementRepository {
	return &TaxSettlementRepository{db: db}
}

const settlementColumns = `id, transaction_id, funding_group, amount, currency,
	exchange_rate, jpy_equivalent, recorded_at`

func scanSettlement(row interface{ Scan(...any) error }) (model.TaxSettlementRecord, error) {
	var (
		s             model.TaxSettlementRecord
		amount        string
		exchangeRate  sql.NullString
		jpyEquivalent string
		recordedAt    string
	)

	err := row.Scan(
		&s.ID,
		&s.TransactionID,
		&s.FundingGroup,
		&amount,
		&s.Currency,
		&exchangeRate,
		&jpyEquivalent,
		&recordedAt,
	)
	if err != nil {
		return s, err
	}

	if s.Amount, err = parseDecimal(amount); err != nil {
		return s, err
	}
	if exchangeRate.Valid {
		rate, err := parseDecimal(exchangeRate.String)
		if err != nil {
			return s, err
		}
		s.ExchangeRate = &rate
	}
	if s.JPYEquivalent, err = parseDecimal(jpyEquivalent); err != nil {
		return s, err
	}
	if s.RecordedAt, err = parseDate(recordedAt); err != nil {
		return s, err
	}

	return s, nil
}

// List retrieves every settlement ordered by recording date and insertion order.
func (r *TaxSettlementRepository) List() ([]model.TaxSettlementRecord, error) {
	query := `
		SELECT ` + settlementColumns + `
		FROM tax_settlements
		ORDER BY recorded_at ASC, rowid ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tax_settlements table: %w", err)
	}
	defer rows.Close()

	settlements := []model.TaxSettlementRecord{}
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tax_settlements table results: %w", err)
		}
		settlements = append(settlements, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tax_settlements table: %w", err)
	}

	return settlements, nil
}

// Get retrieves a settlement by ID. Returns sql.ErrNoRows when absent.
func (r *TaxSettlementRepository) Get(id string) (model.TaxSettlementRecord, error) {
	query := `
		SELECT ` + settlementColumns + `
		FROM tax_settlements
		WHERE id = ?
	`

	s, err := scanSettlement(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return model.TaxSettlementRecord{}, err
	}
	if err != nil {
		return model.TaxSettlementRecord{}, fmt.Errorf("failed to scan tax_settlements table results: %w", err)
	}

	return s, nil
}

// GetByTransaction retrieves the active settlement for a transaction.
// Returns sql.ErrNoRows when none exists.
func (r *TaxSettlementRepository) GetByTransaction(transactionID string) (model.TaxSettlementRecord, error) {
	query := `
		SELECT ` + settlementColumns + `
		FROM tax_settlements
		WHERE transaction_id = ?
		LIMIT 1
	`

	s, err := scanSettlement(r.db.QueryRow(query, transactionID))
	if err == sql.ErrNoRows {
		return model.TaxSettlementRecord{}, err
	}
	if err != nil {
		return model.TaxSettlementRecord{}, fmt.Errorf("failed to scan tax_settlements table results: %w", err)
	}

	return s, nil
}

// Create stores a settlement and marks the settled transaction as taxed,
// atomically.
func (r *TaxSettlementRepository) Create(ctx context.Context, s *model.TaxSettlementRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin settlement transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	insertQuery := `
		INSERT INTO tax_settlements (
			id, transaction_id, funding_group, amount, currency,
			exchange_rate, jpy_equivalent, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.ExecContext(ctx, insertQuery,
		s.ID,
		s.TransactionID,
		s.FundingGroup,
		s.Amount.String(),
		s.Currency,
		nullableDecimal(s.ExchangeRate),
		s.JPYEquivalent.String(),
		s.RecordedAt.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert tax settlement: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE transactions SET taxed = ? WHERE id = ?`,
		model.TaxStatusYes, s.TransactionID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark transaction taxed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settlement: %w", err)
	}

	return nil
}

// Update replaces the mutable columns of an existing settlement.
func (r *TaxSettlementRepository) Update(ctx context.Context, s *model.TaxSettlementRecord) error {
	query := `
		UPDATE tax_settlements
		SET funding_group = ?, amount = ?, exchange_rate = ?, jpy_equivalent = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		s.FundingGroup,
		s.Amount.String(),
		nullableDecimal(s.ExchangeRate),
		s.JPYEquivalent.String(),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update tax settlement: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// Delete removes a settlement and, when it was the last one for its
// transaction, restores the transaction's taxed flag to N, atomically.
func (r *TaxSettlementRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin settlement transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	var transactionID string
	err = tx.QueryRowContext(ctx,
		`SELECT transaction_id FROM tax_settlements WHERE id = ?`, id,
	).Scan(&transactionID)
	if err == sql.ErrNoRows {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to query tax settlement: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM tax_settlements WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete tax settlement: %w", err)
	}

	var remaining int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tax_settlements WHERE transaction_id = ?`, transactionID,
	).Scan(&remaining)
	if err != nil {
		return fmt.Errorf("failed to count remaining settlements: %w", err)
	}

	if remaining == 0 {
		_, err = tx.ExecContext(ctx,
			`UPDATE transactions SET taxed = ? WHERE id = ?`,
			model.TaxStatusNo, transactionID,
		)
		if err != nil {
			return fmt.Errorf("failed to mark transaction untaxed: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settlement deletion: %w", err)
	}

	return nil
}

// ExistsForGroup reports whether any settlement references the funding group.
func (r *TaxSettlementRepository) ExistsForGroup(name string) (bool, error) {
	var one int
	err := r.db.QueryRow(`SELECT 1 FROM tax_settlements WHERE funding_group = ? LIMIT 1`, name).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query tax_settlements table: %w", err)
	}
	return true, nil
}
