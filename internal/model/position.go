package model

import "github.com/shopspring/decimal"

// PositionBreakdown is the cost-basis state of a symbol for one currency,
// summed across every funding group trading in that currency.
type PositionBreakdown struct {
	Currency    Currency        `json:"currency"`
	Quantity    decimal.Decimal `json:"quantity"`
	AverageCost decimal.Decimal `json:"average_cost"`
	RealizedPL  decimal.Decimal `json:"realized_pl"`
}

// PositionGroupBreakdown is the cost-basis state of a symbol for one
// (funding group, currency) pair. Group quantities for a currency always
// sum to the overall breakdown quantity for that currency.
type PositionGroupBreakdown struct {
	FundingGroup string          `json:"funding_group"`
	Currency     Currency        `json:"currency"`
	Quantity     decimal.Decimal `json:"quantity"`
	AverageCost  decimal.Decimal `json:"average_cost"`
	RealizedPL   decimal.Decimal `json:"realized_pl"`
}

// Position is the derived holding for one (symbol, market) pair.
type Position struct {
	Symbol         string                   `json:"symbol"`
	Market         Market                   `json:"market"`
	Breakdown      []PositionBreakdown      `json:"breakdown"`
	GroupBreakdown []PositionGroupBreakdown `json:"group_breakdown"`
}
