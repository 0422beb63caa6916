package model

import "github.com/shopspring/decimal"

// TaxSettlementRecord is a tax payment booked against a single transaction.
// At most one active settlement may reference a transaction; creating one is
// the only way a transaction's tax status flips from N to Y.
//
// JPYEquivalent is the settlement amount converted to yen: equal to Amount
// when the settlement currency is JPY, otherwise Amount times ExchangeRate.
type TaxSettlementRecord struct {
	ID            string           `json:"id"`
	TransactionID string           `json:"transaction_id"`
	FundingGroup  string           `json:"funding_group"`
	Amount        decimal.Decimal  `json:"amount"`
	Currency      Currency         `json:"currency"`
	ExchangeRate  *decimal.Decimal `json:"exchange_rate"`
	JPYEquivalent decimal.Decimal  `json:"jpy_equivalent"`
	RecordedAt    Date             `json:"recorded_at"`
}
