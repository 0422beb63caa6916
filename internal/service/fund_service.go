package service

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/kabucount/kabucount/internal/apperrors"
	"github.com/kabucount/kabucount/internal/model"
	"github.com/kabucount/kabucount/internal/repository"
)

// FundService derives per-group fund snapshots and their per-currency
// aggregates from the ledger.
type FundService struct {
	groupRepo       *repository.FundingGroupRepository
	transactionRepo *repository.TransactionRepository
	adjustmentRepo  *repository.AdjustmentRepository
	settlementRepo  *repository.TaxSettlementRepository

	// now is injectable so year-boundary behaviour is testable.
	now func() time.Time
}

// NewFundService creates a new FundService with the provided dependencies.
func NewFundService(
	groupRepo *repository.FundingGroupRepository,
	transactionRepo *repository.TransactionRepository,
	adjustmentRepo *repository.AdjustmentRepository,
	settlementRepo *repository.TaxSettlementRepository,
) *FundService {
	return &FundService{
		groupRepo:       groupRepo,
		transactionRepo: transactionRepo,
		adjustmentRepo:  adjustmentRepo,
		settlementRepo:  settlementRepo,
		now:             time.Now,
	}
}

// Snapshots loads the ledger and computes the state of every funding group.
// The four source tables load concurrently.
func (s *FundService) Snapshots() (model.FundSnapshots, error) {
	var (
		groups       []model.FundingGroup
		transactions []model.Transaction
		adjustments  []model.CapitalAdjustment
		settlements  []model.TaxSettlementRecord
	)

	var g errgroup.Group
	g.Go(func() (err error) {
		groups, err = s.groupRepo.List()
		return err
	})
	g.Go(func() (err error) {
		transactions, err = s.transactionRepo.List()
		return err
	})
	g.Go(func() (err error) {
		adjustments, err = s.adjustmentRepo.List("")
		return err
	})
	g.Go(func() (err error) {
		settlements, err = s.settlementRepo.List()
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Failed to load fund snapshot sources")
		return model.FundSnapshots{}, apperrors.ErrFailedToComputeFunds
	}

	return ComputeFundSnapshots(groups, transactions, adjustments, settlements, s.now()), nil
}

// groupState is the per-group accumulator the replay fills in.
type groupState struct {
	cashFlow       decimal.Decimal
	adjustmentSum  decimal.Decimal
	realizedByYear map[int]decimal.Decimal
	buckets        map[string]*costBasisState
}

// ComputeFundSnapshots replays the full ledger and produces one snapshot per
// funding group plus one aggregate per currency.
//
// Cash balance is initial amount plus capital adjustments plus the net ledger
// cash flow, minus tax settlements paid out of the group. Holding cost is the
// open cost basis across the group's buckets. Realized P&L is partitioned by
// the calendar year of the trade that realized it, relative to the year of now.
func ComputeFundSnapshots(
	groups []model.FundingGroup,
	transactions []model.Transaction,
	adjustments []model.CapitalAdjustment,
	settlements []model.TaxSettlementRecord,
	now time.Time,
) model.FundSnapshots {
	states := make(map[string]*groupState, len(groups))
	for _, g := range groups {
		states[g.Name] = &groupState{
			realizedByYear: make(map[int]decimal.Decimal),
			buckets:        make(map[string]*costBasisState),
		}
	}

	for _, a := range adjustments {
		state, ok := states[a.FundingGroup]
		if !ok {
			continue
		}
		state.adjustmentSum = state.adjustmentSum.Add(a.Amount)
	}

	// Settlements are paid from the group's cash in the group's currency.
	for _, st := range settlements {
		state, ok := states[st.FundingGroup]
		if !ok {
			continue
		}
		state.cashFlow = state.cashFlow.Sub(st.Amount)
	}

	ordered := make([]model.Transaction, len(transactions))
	copy(ordered, transactions)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].TradeDate.Equal(ordered[j].TradeDate.Time) {
			return ordered[i].TradeDate.Before(ordered[j].TradeDate.Time)
		}
		return ordered[i].Seq < ordered[j].Seq
	})

	for _, t := range ordered {
		state, ok := states[t.FundingGroup]
		if !ok {
			continue
		}

		if t.IsBuy() {
			state.cashFlow = state.cashFlow.Sub(t.GrossAmount)
		} else {
			state.cashFlow = state.cashFlow.Add(t.GrossAmount)
		}

		key := t.Symbol + "\x00" + string(t.Market) + "\x00" + string(t.CashCurrency)
		bucket, ok := state.buckets[key]
		if !ok {
			bucket = &costBasisState{}
			state.buckets[key] = bucket
		}

		delta := bucket.apply(t.Quantity, t.GrossAmount)
		if !delta.IsZero() {
			year := t.TradeDate.Year()
			state.realizedByYear[year] = state.realizedByYear[year].Add(delta)
		}
	}

	currentYear := now.UTC().Year()
	funds := make([]model.FundSnapshot, 0, len(groups))
	for _, g := range groups {
		funds = append(funds, buildSnapshot(g, states[g.Name], currentYear))
	}

	return model.FundSnapshots{
		Funds:      funds,
		Aggregated: aggregateSnapshots(funds),
	}
}

func buildSnapshot(g model.FundingGroup, state *groupState, currentYear int) model.FundSnapshot {
	holdingCost := decimal.Zero
	for _, bucket := range state.buckets {
		holdingCost = holdingCost.Add(bucket.openCost())
	}

	cashBalance := g.InitialAmount.Add(state.adjustmentSum).Add(state.cashFlow)
	currentTotal := cashBalance.Add(holdingCost)
	totalPL := currentTotal.Sub(g.InitialAmount).Sub(state.adjustmentSum)

	currentYearPL := state.realizedByYear[currentYear]
	previousYearPL := state.realizedByYear[currentYear-1]

	return model.FundSnapshot{
		Name:                g.Name,
		Currency:            g.Currency,
		InitialAmount:       g.InitialAmount.Round(2),
		CashBalance:         cashBalance.Round(2),
		HoldingCost:         holdingCost.Round(2),
		CurrentTotal:        currentTotal.Round(2),
		TotalPL:             totalPL.Round(2),
		CurrentYearPL:       currentYearPL.Round(2),
		CurrentYearPLRatio:  plRatio(currentYearPL, g.InitialAmount),
		PreviousYearPL:      previousYearPL.Round(2),
		PreviousYearPLRatio: plRatio(previousYearPL, g.InitialAmount),
	}
}

func aggregateSnapshots(funds []model.FundSnapshot) []model.AggregatedFundSnapshot {
	byCurrency := make(map[model.Currency]*model.AggregatedFundSnapshot)

	for _, f := range funds {
		agg, ok := byCurrency[f.Currency]
		if !ok {
			agg = &model.AggregatedFundSnapshot{Currency: f.Currency}
			byCurrency[f.Currency] = agg
		}
		agg.GroupCount++
		agg.InitialAmount = agg.InitialAmount.Add(f.InitialAmount)
		agg.CashBalance = agg.CashBalance.Add(f.CashBalance)
		agg.HoldingCost = agg.HoldingCost.Add(f.HoldingCost)
		agg.CurrentTotal = agg.CurrentTotal.Add(f.CurrentTotal)
		agg.TotalPL = agg.TotalPL.Add(f.TotalPL)
		agg.CurrentYearPL = agg.CurrentYearPL.Add(f.CurrentYearPL)
		agg.PreviousYearPL = agg.PreviousYearPL.Add(f.PreviousYearPL)
	}

	aggregated := make([]model.AggregatedFundSnapshot, 0, len(byCurrency))
	for _, currency := range model.Currencies() {
		agg, ok := byCurrency[currency]
		if !ok {
			continue
		}
		// Ratios derive from the summed figures, never from averaged ratios.
		agg.CurrentYearPLRatio = plRatio(agg.CurrentYearPL, agg.InitialAmount)
		agg.PreviousYearPLRatio = plRatio(agg.PreviousYearPL, agg.InitialAmount)
		aggregated = append(aggregated, *agg)
	}
	return aggregated
}

// plRatio divides a P&L figure by the initial amount, returning nil when the
// denominator is zero: an undefined ratio is null on the wire, not zero.
func plRatio(pl, initialAmount decimal.Decimal) *decimal.Decimal {
	if initialAmount.IsZero() {
		return nil
	}
	return roundRatio(pl.Div(initialAmount))
}
