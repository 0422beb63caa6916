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

// FundingGroupService handles funding group and capital adjustment business
// logic.
type FundingGroupService struct {
	groupRepo       *repository.FundingGroupRepository
	transactionRepo *repository.TransactionRepository
	settlementRepo  *repository.TaxSettlementRepository
	adjustmentRepo  *repository.AdjustmentRepository
	locks           *GroupLocks
}

// NewFundingGroupService creates a new FundingGroupService with the provided dependencies.
func NewFundingGroupService(
	groupRepo *repository.FundingGroupRepository,
	transactionRepo *repository.TransactionRepository,
	settlementRepo *repository.TaxSettlementRepository,
	adjustmentRepo *repository.AdjustmentRepository,
	locks *GroupLocks,
) *FundingGroupService {
	return &FundingGroupService{
		groupRepo:       groupRepo,
		transactionRepo: transactionRepo,
		settlementRepo:  settlementRepo,
		adjustmentRepo:  adjustmentRepo,
		locks:           locks,
	}
}

// List returns every funding group ordered by name.
func (s *FundingGroupService) List() ([]model.FundingGroup, error) {
	groups, err := s.groupRepo.List()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list funding groups")
		return nil, apperrors.ErrFailedToRetrieveGroups
	}
	return groups, nil
}

// Get returns a funding group by name.
func (s *FundingGroupService) Get(name string) (model.FundingGroup, error) {
	group, err := s.groupRepo.Get(name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.FundingGroup{}, apperrors.ErrFundingGroupNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("funding_group", name).Msg("Failed to get funding group")
		return model.FundingGroup{}, apperrors.ErrFailedToRetrieveGroups
	}
	return group, nil
}

// Create stores a new funding group. Names are unique.
func (s *FundingGroupService) Create(ctx context.Context, g *model.FundingGroup) (model.FundingGroup, error) {
	if _, err := s.groupRepo.Get(g.Name); err == nil {
		return model.FundingGroup{}, apperrors.ErrDuplicateFundingGroup
	} else if !errors.Is(err, sql.ErrNoRows) {
		log.Error().Err(err).Str("funding_group", g.Name).Msg("Failed to check funding group")
		return model.FundingGroup{}, apperrors.ErrFailedToRetrieveGroups
	}

	if err := s.groupRepo.Insert(ctx, g); err != nil {
		log.Error().Err(err).Str("funding_group", g.Name).Msg("Failed to insert funding group")
		return model.FundingGroup{}, fmt.Errorf("failed to create funding group: %w", err)
	}

	log.Info().Str("funding_group", g.Name).Msg("Funding group created")

	return s.Get(g.Name)
}

// Update replaces a funding group's mutable fields. The currency is locked
// while any transaction references the group.
func (s *FundingGroupService) Update(ctx context.Context, g *model.FundingGroup) (model.FundingGroup, error) {
	unlock := s.locks.Lock(g.Name)
	defer unlock()

	existing, err := s.Get(g.Name)
	if err != nil {
		return model.FundingGroup{}, err
	}

	if g.Currency != existing.Currency {
		inUse, err := s.transactionRepo.ExistsForGroup(g.Name)
		if err != nil {
			log.Error().Err(err).Str("funding_group", g.Name).Msg("Failed to check group usage")
			return model.FundingGroup{}, apperrors.ErrFailedToRetrieveTransactions
		}
		if inUse {
			return model.FundingGroup{}, apperrors.ErrCurrencyLocked
		}
	}

	if err := s.groupRepo.Update(ctx, g); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.FundingGroup{}, apperrors.ErrFundingGroupNotFound
		}
		log.Error().Err(err).Str("funding_group", g.Name).Msg("Failed to update funding group")
		return model.FundingGroup{}, fmt.Errorf("failed to update funding group: %w", err)
	}

	log.Info().Str("funding_group", g.Name).Msg("Funding group updated")

	return s.Get(g.Name)
}

// Delete removes a funding group. Groups still referenced by transactions,
// settlements or adjustments cannot be deleted.
func (s *FundingGroupService) Delete(ctx context.Context, name string) error {
	unlock := s.locks.Lock(name)
	defer unlock()

	if _, err := s.Get(name); err != nil {
		return err
	}

	for _, check := range []func(string) (bool, error){
		s.transactionRepo.ExistsForGroup,
		s.settlementRepo.ExistsForGroup,
		s.adjustmentRepo.ExistsForGroup,
	} {
		inUse, err := check(name)
		if err != nil {
			log.Error().Err(err).Str("funding_group", name).Msg("Failed to check group usage")
			return apperrors.ErrFailedToRetrieveGroups
		}
		if inUse {
			return apperrors.ErrFundingGroupInUse
		}
	}

	if err := s.groupRepo.Delete(ctx, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.ErrFundingGroupNotFound
		}
		log.Error().Err(err).Str("funding_group", name).Msg("Failed to delete funding group")
		return fmt.Errorf("failed to delete funding group: %w", err)
	}

	log.Info().Str("funding_group", name).Msg("Funding group deleted")

	return nil
}

// ListAdjustments returns the capital adjustments of one funding group in
// effective-date order.
func (s *FundingGroupService) ListAdjustments(name string) ([]model.CapitalAdjustment, error) {
	if _, err := s.Get(name); err != nil {
		return nil, err
	}

	adjustments, err := s.adjustmentRepo.List(name)
	if err != nil {
		log.Error().Err(err).Str("funding_group", name).Msg("Failed to list capital adjustments")
		return nil, apperrors.ErrFailedToRetrieveGroups
	}
	return adjustments, nil
}

// AddAdjustment records a capital deposit or withdrawal against a group.
func (s *FundingGroupService) AddAdjustment(ctx context.Context, a *model.CapitalAdjustment) (model.CapitalAdjustment, error) {
	unlock := s.locks.Lock(a.FundingGroup)
	defer unlock()

	if _, err := s.Get(a.FundingGroup); err != nil {
		return model.CapitalAdjustment{}, err
	}

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.EffectiveDate.IsZero() {
		a.EffectiveDate = model.Today()
	}

	if err := s.adjustmentRepo.Insert(ctx, a); err != nil {
		log.Error().Err(err).Str("adjustment_id", a.ID).Msg("Failed to insert capital adjustment")
		return model.CapitalAdjustment{}, fmt.Errorf("failed to create capital adjustment: %w", err)
	}

	log.Info().
		Str("adjustment_id", a.ID).
		Str("funding_group", a.FundingGroup).
		Msg("Capital adjustment recorded")

	adjustment, err := s.adjustmentRepo.Get(a.ID)
	if err != nil {
		log.Error().Err(err).Str("adjustment_id", a.ID).Msg("Failed to reload capital adjustment")
		return model.CapitalAdjustment{}, apperrors.ErrFailedToRetrieveGroups
	}
	return adjustment, nil
}

// DeleteAdjustment removes a capital adjustment by ID.
func (s *FundingGroupService) DeleteAdjustment(ctx context.Context, id string) error {
	adjustment, err := s.adjustmentRepo.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.ErrAdjustmentNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("adjustment_id", id).Msg("Failed to get capital adjustment")
		return apperrors.ErrFailedToRetrieveGroups
	}

	unlock := s.locks.Lock(adjustment.FundingGroup)
	defer unlock()

	if err := s.adjustmentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.ErrAdjustmentNotFound
		}
		log.Error().Err(err).Str("adjustment_id", id).Msg("Failed to delete capital adjustment")
		return fmt.Errorf("failed to delete capital adjustment: %w", err)
	}

	log.Info().Str("adjustment_id", id).Msg("Capital adjustment deleted")

	return nil
}
