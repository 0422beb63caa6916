package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/kabucount/kabucount/internal/model"
)

// HistoryRepository provides data access methods for the fund_history table.
// The table holds pre-calculated daily snapshots of each funding group's
// state so historical series never need recomputation from the full ledger.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new repository instance.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Upsert stores one day of history for a funding group, replacing any point
// previously recorded for the same group and date.
func (r *HistoryRepository) Upsert(ctx context.Context, p *model.FundHistoryPoint) error {
	query := `
		INSERT INTO fund_history (
			id, funding_group, currency, date, cash_balance, holding_cost, current_total
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (funding_group, date) DO UPDATE SET
			currency = excluded.currency,
			cash_balance = excluded.cash_balance,
			holding_cost = excluded.holding_cost,
			current_total = excluded.current_total
	`

	_, err := r.db.ExecContext(ctx, query,
		uuid.New().String(),
		p.FundingGroup,
		p.Currency,
		p.Date.String(),
		p.CashBalance.String(),
		p.HoldingCost.String(),
		p.CurrentTotal.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert fund history: %w", err)
	}

	return nil
}

// List retrieves history points ordered by date, optionally filtered by
// funding group.
func (r *HistoryRepository) List(fundingGroup string) ([]model.FundHistoryPoint, error) {
	query := `
		SELECT funding_group, currency, date, cash_balance, holding_cost, current_total
		FROM fund_history
	`

	var args []any
	if fundingGroup != "" {
		query += ` WHERE funding_group = ?`
		args = append(args, fundingGroup)
	}
	query += ` ORDER BY date ASC, funding_group ASC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund_history table: %w", err)
	}
	defer rows.Close()

	points := []model.FundHistoryPoint{}
	for rows.Next() {
		var (
			p            model.FundHistoryPoint
			dateStr      string
			cashBalance  string
			holdingCost  string
			currentTotal string
		)

		err := rows.Scan(&p.FundingGroup, &p.Currency, &dateStr, &cashBalance, &holdingCost, &currentTotal)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fund_history table results: %w", err)
		}

		if p.Date, err = parseDate(dateStr); err != nil {
			return nil, err
		}
		if p.CashBalance, err = parseDecimal(cashBalance); err != nil {
			return nil, err
		}
		if p.HoldingCost, err = parseDecimal(holdingCost); err != nil {
			return nil, err
		}
		if p.CurrentTotal, err = parseDecimal(currentTotal); err != nil {
			return nil, err
		}

		points = append(points, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund_history table: %w", err)
	}

	return points, nil
}
