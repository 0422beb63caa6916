package model

import "github.com/shopspring/decimal"

// FundSnapshot is the derived financial state of one funding group.
//
// The ratio fields are nil when the group's initial amount is zero; an
// undefined ratio is surfaced as JSON null, never coerced to zero.
type FundSnapshot struct {
	Name                string           `json:"name"`
	Currency            Currency         `json:"currency"`
	InitialAmount       decimal.Decimal  `json:"initial_amount"`
	CashBalance         decimal.Decimal  `json:"cash_balance"`
	HoldingCost         decimal.Decimal  `json:"holding_cost"`
	CurrentTotal        decimal.Decimal  `json:"current_total"`
	TotalPL             decimal.Decimal  `json:"total_pl"`
	CurrentYearPL       decimal.Decimal  `json:"current_year_pl"`
	CurrentYearPLRatio  *decimal.Decimal `json:"current_year_pl_ratio"`
	PreviousYearPL      decimal.Decimal  `json:"previous_year_pl"`
	PreviousYearPLRatio *decimal.Decimal `json:"previous_year_pl_ratio"`
}

// AggregatedFundSnapshot sums every FundSnapshot of one currency. Ratios are
// re-derived from the summed numerator and denominator rather than averaged.
type AggregatedFundSnapshot struct {
	Currency            Currency         `json:"currency"`
	GroupCount          int              `json:"group_count"`
	InitialAmount       decimal.Decimal  `json:"initial_amount"`
	CashBalance         decimal.Decimal  `json:"cash_balance"`
	HoldingCost         decimal.Decimal  `json:"holding_cost"`
	CurrentTotal        decimal.Decimal  `json:"current_total"`
	TotalPL             decimal.Decimal  `json:"total_pl"`
	CurrentYearPL       decimal.Decimal  `json:"current_year_pl"`
	CurrentYearPLRatio  *decimal.Decimal `json:"current_year_pl_ratio"`
	PreviousYearPL      decimal.Decimal  `json:"previous_year_pl"`
	PreviousYearPLRatio *decimal.Decimal `json:"previous_year_pl_ratio"`
}

// FundSnapshots is the /funds response payload.
type FundSnapshots struct {
	Funds      []FundSnapshot           `json:"funds"`
	Aggregated []AggregatedFundSnapshot `json:"aggregated"`
}

// FundHistoryPoint is one materialized day of a funding group's state,
// recorded by the scheduled history job.
type FundHistoryPoint struct {
	FundingGroup string          `json:"funding_group"`
	Currency     Currency        `json:"currency"`
	Date         Date            `json:"date"`
	CashBalance  decimal.Decimal `json:"cash_balance"`
	HoldingCost  decimal.Decimal `json:"holding_cost"`
	CurrentTotal decimal.Decimal `json:"current_total"`
}
