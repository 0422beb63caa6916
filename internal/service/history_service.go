package service

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/kabucount/kabucount/internal/apperrors"
	"github.com/kabucount/kabucount/internal/model"
	"github.com/kabucount/kabucount/internal/repository"
)

// HistoryService materializes a daily point of each funding group's state so
// historical charts never replay the full ledger.
type HistoryService struct {
	historyRepo *repository.HistoryRepository
	fundService *FundService
	cron        *cron.Cron
}

// NewHistoryService creates a new HistoryService with the provided dependencies.
func NewHistoryService(historyRepo *repository.HistoryRepository, fundService *FundService) *HistoryService {
	return &HistoryService{
		historyRepo: historyRepo,
		fundService: fundService,
	}
}

// List returns recorded history points, optionally filtered by funding group.
func (s *HistoryService) List(fundingGroup string) ([]model.FundHistoryPoint, error) {
	points, err := s.historyRepo.List(fundingGroup)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list fund history")
		return nil, apperrors.ErrFailedToRetrieveHistory
	}
	return points, nil
}

// Record snapshots every funding group's current state under the given date,
// replacing any point already stored for that date.
func (s *HistoryService) Record(ctx context.Context, date model.Date) error {
	snapshots, err := s.fundService.Snapshots()
	if err != nil {
		return err
	}

	for _, f := range snapshots.Funds {
		point := model.FundHistoryPoint{
			FundingGroup: f.Name,
			Currency:     f.Currency,
			Date:         date,
			CashBalance:  f.CashBalance,
			HoldingCost:  f.HoldingCost,
			CurrentTotal: f.CurrentTotal,
		}
		if err := s.historyRepo.Upsert(ctx, &point); err != nil {
			log.Error().Err(err).Str("funding_group", f.Name).Msg("Failed to record fund history")
			return err
		}
	}

	log.Info().
		Str("date", date.String()).
		Int("groups", len(snapshots.Funds)).
		Msg("Fund history recorded")

	return nil
}

// Schedule starts the daily history job on the given cron expression.
func (s *HistoryService) Schedule(spec string) error {
	s.cron = cron.New()

	_, err := s.cron.AddFunc(spec, func() {
		// Each run records the previous day's closing state.
		date := model.DateOf(model.Today().AddDate(0, 0, -1))
		if err := s.Record(context.Background(), date); err != nil {
			log.Error().Err(err).Msg("Scheduled history run failed")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Info().Str("schedule", spec).Msg("Fund history job scheduled")

	return nil
}

// Stop halts the scheduled job and waits for any running invocation.
func (s *HistoryService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}
