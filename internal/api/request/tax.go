package request

import "github.com/shopspring/decimal"

// CreateTaxSettlementRequest is the body for POST /api/tax/settlements.
// The settlement currency is always the funding group's; clients may echo it
// in currency, and a conflicting value is rejected. exchange_rate is required
// for non-JPY groups so the JPY equivalent can be derived.
type CreateTaxSettlementRequest struct {
	TransactionID string           `json:"transaction_id"`
	FundingGroup  *string          `json:"funding_group,omitempty"`
	Amount        decimal.Decimal  `json:"amount"`
	Currency      *string          `json:"currency,omitempty"`
	ExchangeRate  *decimal.Decimal `json:"exchange_rate,omitempty"`
	RecordedAt    *string          `json:"recorded_at,omitempty"`
}

// UpdateTaxSettlementRequest is the body for PUT /api/tax/settlements/{id}.
// Only the amount and exchange rate can change; funding_group may be echoed
// but must match the settlement's group.
type UpdateTaxSettlementRequest struct {
	FundingGroup *string          `json:"funding_group,omitempty"`
	Amount       decimal.Decimal  `json:"amount"`
	ExchangeRate *decimal.Decimal `json:"exchange_rate,omitempty"`
}
