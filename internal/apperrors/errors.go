// Package apperrors defines the sentinel errors shared across the service and
// handler layers. Handlers match them with errors.Is to pick an HTTP status.
package apperrors

import "errors"

// Domain entity errors represent missing entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrFundingGroupNotFound indicates that a funding group with the given name does not exist.
	ErrFundingGroupNotFound = errors.New("funding group not found")

	// ErrSettlementNotFound indicates that a tax settlement with the given ID does not exist.
	ErrSettlementNotFound = errors.New("tax settlement not found")

	// ErrAdjustmentNotFound indicates that a capital adjustment with the given ID does not exist.
	ErrAdjustmentNotFound = errors.New("capital adjustment not found")
)

// Business logic errors represent constraint violations.
// These errors indicate that an operation cannot be completed due to ledger rules.
var (
	// ErrTransactionImmutable indicates a mutation attempt on a tax-settled
	// transaction. Once settled, quantity, amount and date are frozen.
	ErrTransactionImmutable = errors.New("transaction is tax-settled and immutable")

	// ErrFundingGroupInUse indicates that a funding group cannot be deleted
	// because transactions or settlements still reference it.
	ErrFundingGroupInUse = errors.New("funding group is in use")

	// ErrDuplicateFundingGroup indicates that a funding group with the same name already exists.
	ErrDuplicateFundingGroup = errors.New("funding group already exists")

	// ErrCurrencyMismatch indicates that a transaction or settlement currency
	// does not match its funding group's currency.
	ErrCurrencyMismatch = errors.New("currency does not match funding group currency")

	// ErrCurrencyLocked indicates that a funding group's currency cannot change
	// while transactions reference the group.
	ErrCurrencyLocked = errors.New("currency cannot change while transactions exist")

	// ErrInsufficientPosition indicates that a sell exceeds the open quantity
	// for the symbol.
	ErrInsufficientPosition = errors.New("insufficient position to complete sell order")

	// ErrInvalidRoundTrip indicates that the selected transactions do not form
	// one fully closed round trip.
	ErrInvalidRoundTrip = errors.New("invalid round trip selection")

	// ErrAlreadySettled indicates that an active settlement already references the transaction.
	ErrAlreadySettled = errors.New("transaction already settled")

	// ErrSettlementAttached indicates that a transaction cannot be marked
	// untaxed while a settlement still references it.
	ErrSettlementAttached = errors.New("a tax settlement references this transaction")

	// ErrMissingExchangeRate indicates a non-JPY settlement without an exchange rate.
	ErrMissingExchangeRate = errors.New("exchange_rate is required for non-JPY settlements")

	// ErrGroupMismatch indicates that a settlement names a different funding
	// group than the transaction it settles.
	ErrGroupMismatch = errors.New("funding group does not match transaction record")
)

// Operation failure errors represent system-level failures when retrieving data.
var (
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveGroups       = errors.New("failed to retrieve funding groups")
	ErrFailedToRetrieveSettlements  = errors.New("failed to retrieve tax settlements")
	ErrFailedToComputePositions     = errors.New("failed to compute positions")
	ErrFailedToComputeFunds         = errors.New("failed to compute fund snapshots")
	ErrFailedToRetrieveHistory      = errors.New("failed to retrieve fund history")
)
