package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kabucount/kabucount/internal/model"
)

// FundingGroupRepository provides data access methods for the funding_groups table.
type FundingGroupRepository struct {
	db *sql.DB
}

// NewFundingGroupRepository creates a new FundingGroupRepository with the provided database connection.
func NewFundingGroupRepository(db *sql.DB) *FundingGroupRepository {
	return &FundingGroupRepository{db: db}
}

func scanFundingGroup(row interface{ Scan(...any) error }) (model.FundingGroup, error) {
	var (
		g             model.FundingGroup
		initialAmount string
		notes         sql.NullString
	)

	err := row.Scan(&g.Name, &g.Currency, &initialAmount, &notes)
	if err != nil {
		return g, err
	}

	if g.InitialAmount, err = parseDecimal(initialAmount); err != nil {
		return g, err
	}
	if notes.Valid {
		g.Notes = &notes.String
	}

	return g, nil
}

// List retrieves every funding group ordered by name.
func (r *FundingGroupRepository) List() ([]model.FundingGroup, error) {
	query := `
		SELECT name, currency, initial_amount, notes
		FROM funding_groups
		ORDER BY name ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query funding_groups table: %w", err)
	}
	defer rows.Close()

	groups := []model.FundingGroup{}
	for rows.Next() {
		g, err := scanFundingGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan funding_groups table results: %w", err)
		}
		groups = append(groups, g)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating funding_groups table: %w", err)
	}

	return groups, nil
}

// Get retrieves a funding group by name. Returns sql.ErrNoRows when absent.
func (r *FundingGroupRepository) Get(name string) (model.FundingGroup, error) {
	query := `
		SELECT name, currency, initial_amount, notes
		FROM funding_groups
		WHERE name = ?
	`

	g, err := scanFundingGroup(r.db.QueryRow(query, name))
	if err == sql.ErrNoRows {
		return model.FundingGroup{}, err
	}
	if err != nil {
		return model.FundingGroup{}, fmt.Errorf("failed to scan funding_groups table results: %w", err)
	}

	return g, nil
}

// Insert stores a new funding group.
func (r *FundingGroupRepository) Insert(ctx context.Context, g *model.FundingGroup) error {
	query := `
		INSERT INTO funding_groups (name, currency, initial_amount, notes)
		VALUES (?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		g.Name,
		g.Currency,
		g.InitialAmount.String(),
		nullableString(g.Notes),
	)
	if err != nil {
		return fmt.Errorf("failed to insert funding group: %w", err)
	}

	return nil
}

// Update replaces the mutable columns of an existing funding group.
func (r *FundingGroupRepository) Update(ctx context.Context, g *model.FundingGroup) error {
	query := `
		UPDATE funding_groups
		SET currency = ?, initial_amount = ?, notes = ?
		WHERE name = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		g.Currency,
		g.InitialAmount.String(),
		nullableString(g.Notes),
		g.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to update funding group: %w", err)
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

// Delete removes a funding group by name.
func (r *FundingGroupRepository) Delete(ctx context.Context, name string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM funding_groups WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete funding group: %w", err)
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
