package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kabucount/kabucount/internal/apperrors"
	"github.com/kabucount/kabucount/internal/model"
	"github.com/kabucount/kabucount/internal/repository"
)

// TaxService handles tax settlement business logic. A settlement attaches to
// exactly one transaction, carries the funding group's currency, and flips the
// transaction's taxed flag while it exists.
type TaxService struct {
	settlementRepo  *repository.TaxSettlementRepository
	transactionRepo *repository.TransactionRepository
	groupRepo       *repository.FundingGroupRepository
	locks           *GroupLocks
}

// NewTaxService creates a new TaxService with the provided dependencies.
func NewTaxService(
	settlementRepo *repository.TaxSettlementRepository,
	transactionRepo *repository.TransactionRepository,
	groupRepo *repository.FundingGroupRepository,
	locks *GroupLocks,
) *TaxService {
	return &TaxService{
		settlementRepo:  settlementRepo,
		transactionRepo: transactionRepo,
		groupRepo:       groupRepo,
		locks:           locks,
	}
}

// List returns every settlement ordered by recording date.
func (s *TaxService) List() ([]model.TaxSettlementRecord, error) {
	settlements, err := s.settlementRepo.List()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list tax settlements")
		return nil, apperrors.ErrFailedToRetrieveSettlements
	}
	return settlements, nil
}

// Get returns a single settlement by ID.
func (s *TaxService) Get(id string) (model.TaxSettlementRecord, error) {
	settlement, err := s.settlementRepo.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TaxSettlementRecord{}, apperrors.ErrSettlementNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("settlement_id", id).Msg("Failed to get tax settlement")
		return model.TaxSettlementRecord{}, apperrors.ErrFailedToRetrieveSettlements
	}
	return settlement, nil
}

// Settle records a tax settlement against a transaction and marks it taxed.
// At most one settlement may exist per transaction.
func (s *TaxService) Settle(ctx context.Context, record *model.TaxSettlementRecord) (model.TaxSettlementRecord, error) {
	transaction, err := s.transactionRepo.Get(record.TransactionID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TaxSettlementRecord{}, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("transaction_id", record.TransactionID).Msg("Failed to load transaction")
		return model.TaxSettlementRecord{}, apperrors.ErrFailedToRetrieveTransactions
	}

	unlock := s.locks.Lock(transaction.FundingGroup)
	defer unlock()

	if _, err := s.settlementRepo.GetByTransaction(record.TransactionID); err == nil {
		return model.TaxSettlementRecord{}, apperrors.ErrAlreadySettled
	} else if !errors.Is(err, sql.ErrNoRows) {
		log.Error().Err(err).Str("transaction_id", record.TransactionID).Msg("Failed to check settlement")
		return model.TaxSettlementRecord{}, apperrors.ErrFailedToRetrieveSettlements
	}

	if record.FundingGroup == "" {
		record.FundingGroup = transaction.FundingGroup
	}
	if err := s.finalize(record, transaction); err != nil {
		return model.TaxSettlementRecord{}, err
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.RecordedAt.IsZero() {
		record.RecordedAt = model.Today()
	}

	if err := s.settlementRepo.Create(ctx, record); err != nil {
		log.Error().Err(err).Str("settlement_id", record.ID).Msg("Failed to create tax settlement")
		return model.TaxSettlementRecord{}, fmt.Errorf("failed to create tax settlement: %w", err)
	}

	log.Info().
		Str("settlement_id", record.ID).
		Str("transaction_id", record.TransactionID).
		Msg("Tax settlement recorded")

	return s.Get(record.ID)
}

// Update replaces the amount and exchange rate of an existing settlement; the
// attached transaction and funding group never change.
func (s *TaxService) Update(ctx context.Context, record *model.TaxSettlementRecord) (model.TaxSettlementRecord, error) {
	existing, err := s.Get(record.ID)
	if err != nil {
		return model.TaxSettlementRecord{}, err
	}

	unlock := s.locks.Lock(existing.FundingGroup)
	defer unlock()

	transaction, err := s.transactionRepo.Get(existing.TransactionID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TaxSettlementRecord{}, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("transaction_id", existing.TransactionID).Msg("Failed to load transaction")
		return model.TaxSettlementRecord{}, apperrors.ErrFailedToRetrieveTransactions
	}

	record.TransactionID = existing.TransactionID
	if record.FundingGroup == "" {
		record.FundingGroup = existing.FundingGroup
	}
	if err := s.finalize(record, transaction); err != nil {
		return model.TaxSettlementRecord{}, err
	}

	if err := s.settlementRepo.Update(ctx, record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.TaxSettlementRecord{}, apperrors.ErrSettlementNotFound
		}
		log.Error().Err(err).Str("settlement_id", record.ID).Msg("Failed to update tax settlement")
		return model.TaxSettlementRecord{}, fmt.Errorf("failed to update tax settlement: %w", err)
	}

	log.Info().Str("settlement_id", record.ID).Msg("Tax settlement updated")

	return s.Get(record.ID)
}

// Delete removes a settlement and restores the transaction's taxed flag.
func (s *TaxService) Delete(ctx context.Context, id string) error {
	existing, err := s.Get(id)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(existing.FundingGroup)
	defer unlock()

	if err := s.settlementRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.ErrSettlementNotFound
		}
		log.Error().Err(err).Str("settlement_id", id).Msg("Failed to delete tax settlement")
		return fmt.Errorf("failed to delete tax settlement: %w", err)
	}

	log.Info().Str("settlement_id", id).Msg("Tax settlement deleted")

	return nil
}

// finalize validates the settlement against its transaction and group, pins
// the currency to the group's, and derives the JPY equivalent.
func (s *TaxService) finalize(record *model.TaxSettlementRecord, transaction model.Transaction) error {
	if record.FundingGroup != transaction.FundingGroup {
		return apperrors.ErrGroupMismatch
	}

	group, err := s.groupRepo.Get(record.FundingGroup)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.ErrFundingGroupNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("funding_group", record.FundingGroup).Msg("Failed to load funding group")
		return apperrors.ErrFailedToRetrieveGroups
	}

	if record.Currency == "" {
		record.Currency = group.Currency
	}
	if record.Currency != group.Currency {
		return apperrors.ErrCurrencyMismatch
	}

	if record.Currency == model.CurrencyJPY {
		record.ExchangeRate = nil
		record.JPYEquivalent = record.Amount.Round(2)
		return nil
	}

	if record.ExchangeRate == nil {
		return apperrors.ErrMissingExchangeRate
	}
	record.JPYEquivalent = record.Amount.Mul(*record.ExchangeRate).Round(2)
	return nil
}
