package model

import "github.com/shopspring/decimal"

// FundingGroup is a named pool of capital that transactions draw from.
// The name is the unique key; the currency types the group's cash balance
// and every position it funds.
type FundingGroup struct {
	Name          string          `json:"name"`
	Currency      Currency        `json:"currency"`
	InitialAmount decimal.Decimal `json:"initial_amount"`
	Notes         *string         `json:"notes"`
}

// CapitalAdjustment records extra capital contributed to (positive) or
// withdrawn from (negative) a funding group after its creation. Adjustments
// move the cash balance and the profit baseline together so they never show
// up as phantom P&L.
type CapitalAdjustment struct {
	ID            string          `json:"id"`
	FundingGroup  string          `json:"funding_group"`
	Amount        decimal.Decimal `json:"amount"`
	EffectiveDate Date            `json:"effective_date"`
	Notes         *string         `json:"notes"`
}
