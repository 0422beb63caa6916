package request

import "github.com/shopspring/decimal"

// CreateFundingGroupRequest is the body for POST /api/funding-groups.
type CreateFundingGroupRequest struct {
	Name          string          `json:"name"`
	Currency      string          `json:"currency"`
	InitialAmount decimal.Decimal `json:"initial_amount"`
	Notes         *string         `json:"notes,omitempty"`
}

// UpdateFundingGroupRequest is the body for PUT /api/funding-groups/{name}.
// The name comes from the URL and cannot change.
type UpdateFundingGroupRequest struct {
	Currency      string          `json:"currency"`
	InitialAmount decimal.Decimal `json:"initial_amount"`
	Notes         *string         `json:"notes,omitempty"`
}

// CreateAdjustmentRequest records a capital deposit (positive) or withdrawal
// (negative) against a funding group. EffectiveDate defaults to today.
type CreateAdjustmentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	EffectiveDate *string         `json:"effective_date,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
}
