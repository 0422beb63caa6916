package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kabucount/kabucount/internal/model"
)

// AdjustmentRepository provides data access methods for the capital_adjustments table.
type AdjustmentRepository struct {
	db *sql.DB
}

// NewAdjustmentRepository creates a new AdjustmentRepository with the provided database connection.
func NewAdjustmentRepository(db *sql.DB) *AdjustmentRepository {
	return &AdjustmentRepository{db: db}
}

func scanAdjustment(row interface{ Scan(...any) error }) (model.CapitalAdjustment, error) {
	var (
		a       model.CapitalAdjustment
		amount  string
		dateStr string
		notes   sql.NullString
	)

	err := row.Scan(&a.ID, &a.FundingGroup, &amount, &dateStr, &notes)
	if err != nil {
		return a, err
	}

	if a.Amount, err = parseDecimal(amount); err != nil {
		return a, err
	}
	if a.EffectiveDate, err = parseDate(dateStr); err != nil {
		return a, err
	}
	if notes.Valid {
		a.Notes = &notes.String
	}

	return a, nil
}

// List retrieves capital adjustments, optionally filtered by funding group.
// Results are ordered by effective date and then insertion order.
func (r *AdjustmentRepository) List(fundingGroup string) ([]model.CapitalAdjustment, error) {
	query := `
		SELECT id, funding_group, amount, effective_date, notes
		FROM capital_adjustments
	`

	var args []any
	if fundingGroup != "" {
		query += ` WHERE funding_group = ?`
		args = append(args, fundingGroup)
	}
	query += ` ORDER BY effective_date ASC, rowid ASC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query capital_adjustments table: %w", err)
	}
	defer rows.Close()

	adjustments := []model.CapitalAdjustment{}
	for rows.Next() {
		a, err := scanAdjustment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan capital_adjustments table results: %w", err)
		}
		adjustments = append(adjustments, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating capital_adjustments table: %w", err)
	}

	return adjustments, nil
}

// Get retrieves a capital adjustment by ID. Returns sql.ErrNoRows when absent.
func (r *AdjustmentRepository) Get(id string) (model.CapitalAdjustment, error) {
	query := `
		SELECT id, funding_group, amount, effective_date, notes
		FROM capital_adjustments
		WHERE id = ?
	`

	a, err := scanAdjustment(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return model.CapitalAdjustment{}, err
	}
	if err != nil {
		return model.CapitalAdjustment{}, fmt.Errorf("failed to scan capital_adjustments table results: %w", err)
	}

	return a, nil
}

// Insert stores a new capital adjustment.
func (r *AdjustmentRepository) Insert(ctx context.Context, a *model.CapitalAdjustment) error {
	query := `
		INSERT INTO capital_adjustments (id, funding_group, amount, effective_date, notes)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.FundingGroup,
		a.Amount.String(),
		a.EffectiveDate.String(),
		nullableString(a.Notes),
	)
	if err != nil {
		return fmt.Errorf("failed to insert capital adjustment: %w", err)
	}

	return nil
}

// Delete removes a capital adjustment by ID.
func (r *AdjustmentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM capital_adjustments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete capital adjustment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// ExistsForGroup reports whether any adjustment references the funding group.
func (r *AdjustmentRepository) ExistsForGroup(name string) (bool, error) {
	var one int
	err := r.db.QueryRow(`SELECT 1 FROM capital_adjustments WHERE funding_group = ? LIMIT 1`, name).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query capital_adjustments table: %w", err)
	}
	return true, nil
}
