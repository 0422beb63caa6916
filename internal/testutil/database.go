package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the goose migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- Funding groups table
		CREATE TABLE funding_groups (
			name VARCHAR(100) NOT NULL PRIMARY KEY,
			currency VARCHAR(3) NOT NULL,
			initial_amount TEXT NOT NULL,
			notes TEXT
		);

		-- Transactions table (decimals stored as TEXT for exactness)
		CREATE TABLE transactions (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			trade_date VARCHAR(10) NOT NULL,
			symbol VARCHAR(20) NOT NULL,
			quantity TEXT NOT NULL,
			gross_amount TEXT NOT NULL,
			funding_group VARCHAR(100) NOT NULL,
			cash_currency VARCHAR(3) NOT NULL,
			market VARCHAR(2) NOT NULL,
			taxed VARCHAR(1) NOT NULL DEFAULT 'N',
			memo TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(funding_group) REFERENCES funding_groups(name)
		);

		-- Tax settlements table
		CREATE TABLE tax_settlements (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			transaction_id VARCHAR(36) NOT NULL,
			funding_group VARCHAR(100) NOT NULL,
			amount TEXT NOT NULL,
			currency VARCHAR(3) NOT NULL,
			exchange_rate TEXT,
			jpy_equivalent TEXT NOT NULL,
			recorded_at VARCHAR(10) NOT NULL,
			FOREIGN KEY(transaction_id) REFERENCES transactions(id) ON DELETE CASCADE
		);

		-- Capital adjustments table
		CREATE TABLE capital_adjustments (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			funding_group VARCHAR(100) NOT NULL,
			amount TEXT NOT NULL,
			effective_date VARCHAR(10) NOT NULL,
			notes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(funding_group) REFERENCES funding_groups(name) ON DELETE CASCADE
		);

		-- Fund history table
		CREATE TABLE fund_history (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			funding_group VARCHAR(100) NOT NULL,
			currency VARCHAR(3) NOT NULL,
			date VARCHAR(10) NOT NULL,
			cash_balance TEXT NOT NULL,
			holding_cost TEXT NOT NULL,
			current_total TEXT NOT NULL,
			CONSTRAINT uq_fund_history_group_date UNIQUE (funding_group, date)
		);

		-- Indexes for performance
		CREATE INDEX ix_transactions_trade_date ON transactions(trade_date);
		CREATE INDEX ix_transactions_funding_group ON transactions(funding_group);
		CREATE INDEX ix_transactions_symbol ON transactions(symbol);
		CREATE INDEX ix_tax_settlements_transaction_id ON tax_settlements(transaction_id);
		CREATE INDEX ix_capital_adjustments_funding_group ON capital_adjustments(funding_group);
		CREATE INDEX ix_fund_history_date ON fund_history(date);
	`

	_, err := db.Exec(schema)
	return err
}

// CleanDatabase truncates all tables in dependency order.
// Useful for reusing the same database across multiple tests.
func CleanDatabase(t *testing.T, db *sql.DB) {
	t.Helper()

	// Order matters: delete children before parents due to foreign keys
	tables := []string{
		"fund_history",
		"tax_settlements",
		"capital_adjustments",
		"transactions",
		"funding_groups",
	}

	for _, table := range tables {
		query := "DELETE FROM " + table
		if _, err := db.Exec(query); err != nil {
			t.Fatalf("Failed to clean table %s: %v", table, err)
		}
	}
}

// CountRows returns the number of rows in a table.
// Useful for assertions in tests.
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var count int
	query := "SELECT COUNT(*) FROM " + table
	err := db.QueryRow(query).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}

	return count
}

// AssertRowCount asserts that a table has the expected number of rows.
//
// Example usage:
//
//	testutil.AssertRowCount(t, db, "transactions", 2)
func AssertRowCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()

	actual := CountRows(t, db, table)
	if actual != expected {
		t.Errorf("Expected %d rows in %s, got %d", expected, table, actual)
	}
}
