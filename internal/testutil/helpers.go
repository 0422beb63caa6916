package testutil

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/kabucount/kabucount/internal/repository"
	"github.com/kabucount/kabucount/internal/service"
)

// NewTestTransactionService wires a TransactionService against the test
// database.
func NewTestTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()

	return service.NewTransactionService(
		repository.NewTransactionRepository(db),
		repository.NewFundingGroupRepository(db),
		repository.NewTaxSettlementRepository(db),
		service.NewGroupLocks(),
	)
}

// NewTestPositionService wires a PositionService against the test database.
func NewTestPositionService(t *testing.T, db *sql.DB) *service.PositionService {
	t.Helper()

	return service.NewPositionService(repository.NewTransactionRepository(db))
}

// NewTestFundService wires a FundService against the test database.
func NewTestFundService(t *testing.T, db *sql.DB) *service.FundService {
	t.Helper()

	return service.NewFundService(
		repository.NewFundingGroupRepository(db),
		repository.NewTransactionRepository(db),
		repository.NewAdjustmentRepository(db),
		repository.NewTaxSettlementRepository(db),
	)
}

// NewTestFundingGroupService wires a FundingGroupService against the test
// database.
func NewTestFundingGroupService(t *testing.T, db *sql.DB) *service.FundingGroupService {
	t.Helper()

	return service.NewFundingGroupService(
		repository.NewFundingGroupRepository(db),
		repository.NewTransactionRepository(db),
		repository.NewTaxSettlementRepository(db),
		repository.NewAdjustmentRepository(db),
		service.NewGroupLocks(),
	)
}

// NewTestTaxService wires a TaxService against the test database.
func NewTestTaxService(t *testing.T, db *sql.DB) *service.TaxService {
	t.Helper()

	return service.NewTaxService(
		repository.NewTaxSettlementRepository(db),
		repository.NewTransactionRepository(db),
		repository.NewFundingGroupRepository(db),
		service.NewGroupLocks(),
	)
}

// NewTestHistoryService wires a HistoryService against the test database.
func NewTestHistoryService(t *testing.T, db *sql.DB) *service.HistoryService {
	t.Helper()

	return service.NewHistoryService(
		repository.NewHistoryRepository(db),
		NewTestFundService(t, db),
	)
}

// NewTestSystemService wires a SystemService against the test database.
func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeSymbol generates a ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("AAPL")
//	// Returns: "AAPL1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// MakeGroupName generates a unique funding group name for testing.
//
// Example usage:
//
//	name := testutil.MakeGroupName("NISA")
//	// Returns: "NISA ABC123"
func MakeGroupName(base string) string {
	if base == "" {
		base = "Group"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
