package service

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kabucount/kabucount/internal/model"
	"github.com/kabucount/kabucount/internal/repository"
)

// PositionService derives cost-basis positions from the ledger.
type PositionService struct {
	transactionRepo *repository.TransactionRepository
}

// NewPositionService creates a new PositionService with the provided repository dependency.
func NewPositionService(transactionRepo *repository.TransactionRepository) *PositionService {
	return &PositionService{transactionRepo: transactionRepo}
}

// Positions loads a ledger snapshot and computes every open and historical
// position.
func (s *PositionService) Positions() ([]model.Position, error) {
	transactions, err := s.transactionRepo.List()
	if err != nil {
		return nil, err
	}
	return ComputePositions(transactions), nil
}

type positionKey struct {
	symbol string
	market model.Market
}

type bucketKey struct {
	currency model.Currency
	group    string
}

// ComputePositions replays the transaction set and returns per-(symbol, market)
// positions with a per-currency overall breakdown and a per-(funding group,
// currency) group breakdown. The computation is pure: the same transactions in
// the same ledger order always produce the identical result.
func ComputePositions(transactions []model.Transaction) []model.Position {
	ordered := make([]model.Transaction, len(transactions))
	copy(ordered, transactions)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].TradeDate.Equal(ordered[j].TradeDate.Time) {
			return ordered[i].TradeDate.Before(ordered[j].TradeDate.Time)
		}
		return ordered[i].Seq < ordered[j].Seq
	})

	buckets := make(map[positionKey]map[bucketKey]*costBasisState)
	var keys []positionKey

	for _, tx := range ordered {
		pk := positionKey{symbol: tx.Symbol, market: tx.Market}
		groups, ok := buckets[pk]
		if !ok {
			groups = make(map[bucketKey]*costBasisState)
			buckets[pk] = groups
			keys = append(keys, pk)
		}

		bk := bucketKey{currency: tx.CashCurrency, group: tx.FundingGroup}
		state, ok := groups[bk]
		if !ok {
			state = &costBasisState{}
			groups[bk] = state
		}

		state.apply(tx.Quantity, tx.GrossAmount)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].symbol != keys[j].symbol {
			return keys[i].symbol < keys[j].symbol
		}
		return keys[i].market < keys[j].market
	})

	positions := make([]model.Position, 0, len(keys))
	for _, pk := range keys {
		positions = append(positions, buildPosition(pk, buckets[pk]))
	}
	return positions
}

func buildPosition(pk positionKey, groups map[bucketKey]*costBasisState) model.Position {
	type currencyTotal struct {
		quantity decimal.Decimal
		cost     decimal.Decimal
		realized decimal.Decimal
	}
	totals := make(map[model.Currency]*currencyTotal)

	groupBreakdown := []model.PositionGroupBreakdown{}
	for bk, state := range groups {
		total, ok := totals[bk.currency]
		if !ok {
			total = &currencyTotal{}
			totals[bk.currency] = total
		}
		total.quantity = total.quantity.Add(state.quantity)
		total.cost = total.cost.Add(state.openCost())
		total.realized = total.realized.Add(state.realizedPL)

		// Fully closed buckets with negligible realized P&L add nothing.
		if state.quantity.IsZero() && state.realizedPL.Abs().LessThanOrEqual(decimal.New(1, -2)) {
			continue
		}

		groupBreakdown = append(groupBreakdown, model.PositionGroupBreakdown{
			FundingGroup: bk.group,
			Currency:     bk.currency,
			Quantity:     state.quantity.Round(4),
			AverageCost:  state.averageCost.Round(4),
			RealizedPL:   state.realizedPL.Round(2),
		})
	}

	breakdown := make([]model.PositionBreakdown, 0, len(totals))
	for currency, total := range totals {
		averageCost := decimal.Zero
		if !total.quantity.IsZero() {
			averageCost = total.cost.Div(total.quantity)
		}
		breakdown = append(breakdown, model.PositionBreakdown{
			Currency:    currency,
			Quantity:    total.quantity.Round(4),
			AverageCost: averageCost.Round(4),
			RealizedPL:  total.realized.Round(2),
		})
	}

	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].Currency < breakdown[j].Currency
	})
	sort.Slice(groupBreakdown, func(i, j int) bool {
		if groupBreakdown[i].Currency != groupBreakdown[j].Currency {
			return groupBreakdown[i].Currency < groupBreakdown[j].Currency
		}
		return strings.ToLower(groupBreakdown[i].FundingGroup) < strings.ToLower(groupBreakdown[j].FundingGroup)
	})

	return model.Position{
		Symbol:         pk.symbol,
		Market:         pk.market,
		Breakdown:      breakdown,
		GroupBreakdown: groupBreakdown,
	}
}
