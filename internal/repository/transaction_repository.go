package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/kabucount/kabucount/internal/model"
)

// TransactionRepository provides data access methods for the transactions table.
// Rows are always returned ordered by trade_date and then insertion order
// (rowid), so every read-side computation replays the ledger deterministically.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, trade_date, symbol, quantity, gross_amount,
	funding_group, cash_currency, market, taxed, memo, rowid`

func scanTransaction(rows interface{ Scan(...any) error }) (model.Transaction, error) {
	var (
		t           model.Transaction
		dateStr     string
		quantity    string
		grossAmount string
		memo        sql.NullString
	)

	err := rows.Scan(
		&t.ID,
		&dateStr,
		&t.Symbol,
		&quantity,
		&grossAmount,
		&t.FundingGroup,
		&t.CashCurrency,
		&t.Market,
		&t.Taxed,
		&memo,
		&t.Seq,
	)
	if err != nil {
		return t, err
	}

	if t.TradeDate, err = parseDate(dateStr); err != nil {
		return t, err
	}
	if t.Quantity, err = parseDecimal(quantity); err != nil {
		return t, err
	}
	if t.GrossAmount, err = parseDecimal(grossAmount); err != nil {
		return t, err
	}
	if memo.Valid {
		t.Memo = &memo.String
	}

	return t, nil
}

// List retrieves every transaction in ledger order.
func (r *TransactionRepository) List() ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		ORDER BY trade_date ASC, rowid ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transactions table results: %w", err)
		}
		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions table: %w", err)
	}

	return transactions, nil
}

// Get retrieves a single transaction by ID. Returns sql.ErrNoRows when absent.
func (r *TransactionRepository) Get(id string) (model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE id = ?
	`

	t, err := scanTransaction(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return model.Transaction{}, err
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to scan transactions table results: %w", err)
	}

	return t, nil
}

// ListByIDs retrieves the given transactions in ledger order.
// Missing IDs are simply absent from the result; callers detect them by count.
func (r *TransactionRepository) ListByIDs(ids []string) ([]model.Transaction, error) {
	if len(ids) == 0 {
		return []model.Transaction{}, nil
	}

	placeholders := make([]string, len(ids))
	for i := range placeholders {
		placeholders[i] = "?"
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE id IN (` + strings.Join(placeholders, ",") + `)
		ORDER BY trade_date ASC, rowid ASC
	`

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transactions table results: %w", err)
		}
		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions table: %w", err)
	}

	return transactions, nil
}

// Insert stores a new transaction.
func (r *TransactionRepository) Insert(ctx context.Context, t *model.Transaction) error {
	query := `
		INSERT INTO transactions (
			id, trade_date, symbol, quantity, gross_amount,
			funding_group, cash_currency, market, taxed, memo
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.TradeDate.String(),
		t.Symbol,
		t.Quantity.String(),
		t.GrossAmount.String(),
		t.FundingGroup,
		t.CashCurrency,
		t.Market,
		t.Taxed,
		nullableString(t.Memo),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// Update replaces every mutable column of an existing transaction.
func (r *TransactionRepository) Update(ctx context.Context, t *model.Transaction) error {
	query := `
		UPDATE transactions
		SET trade_date = ?, symbol = ?, quantity = ?, gross_amount = ?,
			funding_group = ?, cash_currency = ?, market = ?, taxed = ?, memo = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		t.TradeDate.String(),
		t.Symbol,
		t.Quantity.String(),
		t.GrossAmount.String(),
		t.FundingGroup,
		t.CashCurrency,
		t.Market,
		t.Taxed,
		nullableString(t.Memo),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
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

// Delete removes a transaction. Settlements referencing it are removed by the
// ON DELETE CASCADE constraint.
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
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

// ExistsForGroup reports whether any transaction references the funding group.
func (r *TransactionRepository) ExistsForGroup(name string) (bool, error) {
	var one int
	err := r.db.QueryRow(`SELECT 1 FROM transactions WHERE funding_group = ? LIMIT 1`, name).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query transactions table: %w", err)
	}
	return true, nil
}
