package request

import "github.com/shopspring/decimal"

// CreateTransactionRequest is the body for POST /api/transactions. Quantity is
// signed: positive for buys, negative for sells.
type CreateTransactionRequest struct {
	TradeDate    string          `json:"trade_date"`
	Symbol       string          `json:"symbol"`
	Quantity     decimal.Decimal `json:"quantity"`
	GrossAmount  decimal.Decimal `json:"gross_amount"`
	FundingGroup string          `json:"funding_group"`
	CashCurrency string          `json:"cash_currency"`
	Market       string          `json:"market"`
	Taxed        *string         `json:"taxed,omitempty"`
	Memo         *string         `json:"memo,omitempty"`
}

// UpdateTransactionRequest is the body for PUT /api/transactions/{id}.
// The update replaces the whole entry. The frontend always sends taxed, but
// it stays optional here: an omitted taxed keeps the stored value instead of
// silently clearing the flag, which only the settlement lifecycle may do.
type UpdateTransactionRequest struct {
	TradeDate    string          `json:"trade_date"`
	Symbol       string          `json:"symbol"`
	Quantity     decimal.Decimal `json:"quantity"`
	GrossAmount  decimal.Decimal `json:"gross_amount"`
	FundingGroup string          `json:"funding_group"`
	CashCurrency string          `json:"cash_currency"`
	Market       string          `json:"market"`
	Taxed        *string         `json:"taxed,omitempty"`
	Memo         *string         `json:"memo,omitempty"`
}

// RoundTripYieldRequest selects the transactions of one closed trade cycle.
type RoundTripYieldRequest struct {
	TransactionIDs []string `json:"transaction_ids"`
}
