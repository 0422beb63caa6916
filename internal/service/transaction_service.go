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

// TransactionService handles ledger entry business logic: ingestion guards,
// settled-entry immutability and round-trip analysis.
type TransactionService struct {
	transactionRepo *repository.TransactionRepository
	groupRepo       *repository.FundingGroupRepository
	settlementRepo  *repository.TaxSettlementRepository
	locks           *GroupLocks
}

// NewTransactionService creates a new TransactionService with the provided dependencies.
func NewTransactionService(
	transactionRepo *repository.TransactionRepository,
	groupRepo *repository.FundingGroupRepository,
	settlementRepo *repository.TaxSettlementRepository,
	locks *GroupLocks,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		groupRepo:       groupRepo,
		settlementRepo:  settlementRepo,
		locks:           locks,
	}
}

// List returns every transaction in ledger order.
func (s *TransactionService) List() ([]model.Transaction, error) {
	transactions, err := s.transactionRepo.List()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list transactions")
		return nil, apperrors.ErrFailedToRetrieveTransactions
	}
	return transactions, nil
}

// Get returns a single transaction by ID.
func (s *TransactionService) Get(id string) (model.Transaction, error) {
	t, err := s.transactionRepo.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("transaction_id", id).Msg("Failed to get transaction")
		return model.Transaction{}, apperrors.ErrFailedToRetrieveTransactions
	}
	return t, nil
}

// Create validates and stores a new ledger entry. The entry's currency must
// match its funding group's currency, and a sell may never exceed the open
// quantity its bucket holds at any point of the replay.
func (s *TransactionService) Create(ctx context.Context, t *model.Transaction) (model.Transaction, error) {
	unlock := s.locks.Lock(t.FundingGroup)
	defer unlock()

	group, err := s.groupRepo.Get(t.FundingGroup)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, apperrors.ErrFundingGroupNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("funding_group", t.FundingGroup).Msg("Failed to load funding group")
		return model.Transaction{}, apperrors.ErrFailedToRetrieveGroups
	}
	if t.CashCurrency != group.Currency {
		return model.Transaction{}, apperrors.ErrCurrencyMismatch
	}

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Taxed == "" {
		t.Taxed = model.TaxStatusNo
	}

	if err := s.checkOversell(*t, ""); err != nil {
		return model.Transaction{}, err
	}

	if err := s.transactionRepo.Insert(ctx, t); err != nil {
		log.Error().Err(err).Str("transaction_id", t.ID).Msg("Failed to insert transaction")
		return model.Transaction{}, fmt.Errorf("failed to create transaction: %w", err)
	}

	log.Info().
		Str("transaction_id", t.ID).
		Str("symbol", t.Symbol).
		Str("funding_group", t.FundingGroup).
		Msg("Transaction created")

	return s.Get(t.ID)
}

// Update replaces an existing ledger entry. Entries with an attached tax
// settlement are frozen; clearing the taxed flag while a settlement exists is
// also rejected.
func (s *TransactionService) Update(ctx context.Context, t *model.Transaction) (model.Transaction, error) {
	existing, err := s.Get(t.ID)
	if err != nil {
		return model.Transaction{}, err
	}

	unlock := s.locks.LockPair(existing.FundingGroup, t.FundingGroup)
	defer unlock()

	settled, err := s.hasSettlement(t.ID)
	if err != nil {
		return model.Transaction{}, err
	}
	if settled {
		if !existing.TradeDate.Equal(t.TradeDate.Time) ||
			existing.Symbol != t.Symbol ||
			!existing.Quantity.Equal(t.Quantity) ||
			!existing.GrossAmount.Equal(t.GrossAmount) ||
			existing.FundingGroup != t.FundingGroup ||
			existing.CashCurrency != t.CashCurrency ||
			existing.Market != t.Market {
			return model.Transaction{}, apperrors.ErrTransactionImmutable
		}
		if t.Taxed == model.TaxStatusNo {
			return model.Transaction{}, apperrors.ErrSettlementAttached
		}
	}

	group, err := s.groupRepo.Get(t.FundingGroup)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, apperrors.ErrFundingGroupNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("funding_group", t.FundingGroup).Msg("Failed to load funding group")
		return model.Transaction{}, apperrors.ErrFailedToRetrieveGroups
	}
	if t.CashCurrency != group.Currency {
		return model.Transaction{}, apperrors.ErrCurrencyMismatch
	}
	if t.Taxed == "" {
		t.Taxed = existing.Taxed
	}

	if err := s.checkOversell(*t, t.ID); err != nil {
		return model.Transaction{}, err
	}

	if err := s.transactionRepo.Update(ctx, t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Transaction{}, apperrors.ErrTransactionNotFound
		}
		log.Error().Err(err).Str("transaction_id", t.ID).Msg("Failed to update transaction")
		return model.Transaction{}, fmt.Errorf("failed to update transaction: %w", err)
	}

	log.Info().Str("transaction_id", t.ID).Msg("Transaction updated")

	return s.Get(t.ID)
}

// Delete removes a ledger entry. Tax-settled entries cannot be deleted, and
// removal must not leave any sell in the bucket exceeding its open quantity.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	existing, err := s.Get(id)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(existing.FundingGroup)
	defer unlock()

	settled, err := s.hasSettlement(id)
	if err != nil {
		return err
	}
	if settled {
		return apperrors.ErrTransactionImmutable
	}

	if err := s.checkLedgerWithout(existing); err != nil {
		return err
	}

	if err := s.transactionRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.ErrTransactionNotFound
		}
		log.Error().Err(err).Str("transaction_id", id).Msg("Failed to delete transaction")
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	log.Info().Str("transaction_id", id).Msg("Transaction deleted")

	return nil
}

// RoundTripYield analyses the closed trade cycle formed by the given
// transaction IDs.
func (s *TransactionService) RoundTripYield(ids []string) (model.RoundTripYieldResponse, error) {
	transactions, err := s.transactionRepo.ListByIDs(ids)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load round-trip transactions")
		return model.RoundTripYieldResponse{}, apperrors.ErrFailedToRetrieveTransactions
	}
	if len(transactions) != len(uniqueStrings(ids)) {
		return model.RoundTripYieldResponse{}, apperrors.ErrTransactionNotFound
	}

	settlements := []model.TaxSettlementRecord{}
	for _, t := range transactions {
		settlement, err := s.settlementRepo.GetByTransaction(t.ID)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			log.Error().Err(err).Str("transaction_id", t.ID).Msg("Failed to load settlement")
			return model.RoundTripYieldResponse{}, apperrors.ErrFailedToRetrieveSettlements
		}
		settlements = append(settlements, settlement)
	}

	return ComputeRoundTripYield(transactions, settlements)
}

func (s *TransactionService) hasSettlement(transactionID string) (bool, error) {
	_, err := s.settlementRepo.GetByTransaction(transactionID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		log.Error().Err(err).Str("transaction_id", transactionID).Msg("Failed to check settlement")
		return false, apperrors.ErrFailedToRetrieveSettlements
	}
	return true, nil
}

// checkOversell replays the bucket ledger as it would look with the candidate
// entry applied (replacing replaceID when updating) and rejects any state
// where a sell pushes the open quantity below zero.
func (s *TransactionService) checkOversell(candidate model.Transaction, replaceID string) error {
	all, err := s.transactionRepo.List()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load ledger for oversell check")
		return apperrors.ErrFailedToRetrieveTransactions
	}

	bucket := []model.Transaction{}
	for _, t := range all {
		if t.ID == replaceID || t.ID == candidate.ID {
			// An updated row keeps its rowid, so the candidate inherits
			// the stored slot instead of landing after its date peers.
			candidate.Seq = t.Seq
			continue
		}
		if sameBucket(t, candidate) {
			bucket = append(bucket, t)
		}
	}
	bucket = insertInLedgerOrder(bucket, candidate)

	return replayOversell(bucket)
}

// checkLedgerWithout verifies the bucket ledger stays valid once the entry is
// removed.
func (s *TransactionService) checkLedgerWithout(removed model.Transaction) error {
	all, err := s.transactionRepo.List()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load ledger for deletion check")
		return apperrors.ErrFailedToRetrieveTransactions
	}

	bucket := []model.Transaction{}
	for _, t := range all {
		if t.ID == removed.ID {
			continue
		}
		if sameBucket(t, removed) {
			bucket = append(bucket, t)
		}
	}

	return replayOversell(bucket)
}

func sameBucket(a, b model.Transaction) bool {
	return a.Symbol == b.Symbol &&
		a.FundingGroup == b.FundingGroup &&
		a.Market == b.Market &&
		a.CashCurrency == b.CashCurrency
}

// insertInLedgerOrder places the candidate where the ledger sort would put it:
// by trade date, then by the stored sequence when the candidate has one. A
// fresh insert carries no sequence and lands after every entry of its date,
// mirroring where a new row would land.
func insertInLedgerOrder(bucket []model.Transaction, candidate model.Transaction) []model.Transaction {
	idx := len(bucket)
	for i, t := range bucket {
		if candidate.TradeDate.Before(t.TradeDate.Time) {
			idx = i
			break
		}
		if candidate.Seq != 0 && candidate.TradeDate.Equal(t.TradeDate.Time) && candidate.Seq < t.Seq {
			idx = i
			break
		}
	}
	bucket = append(bucket, model.Transaction{})
	copy(bucket[idx+1:], bucket[idx:])
	bucket[idx] = candidate
	return bucket
}

func replayOversell(bucket []model.Transaction) error {
	state := &costBasisState{}
	for _, t := range bucket {
		if t.IsSell() && t.Quantity.Neg().GreaterThan(state.quantity) {
			return apperrors.ErrInsufficientPosition
		}
		state.apply(t.Quantity, t.GrossAmount)
	}
	return nil
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
