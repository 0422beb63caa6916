package model

import "github.com/shopspring/decimal"

// Transaction is a single ledger entry. The quantity sign carries the side:
// positive quantities are buys, negative quantities are sells. GrossAmount is
// the total pre-tax cash moved, always positive, denominated in CashCurrency.
//
// Seq is the insertion order within the ledger and breaks trade-date ties so
// that replays are deterministic. It is internal and never serialised.
type Transaction struct {
	ID           string          `json:"id"`
	TradeDate    Date            `json:"trade_date"`
	Symbol       string          `json:"symbol"`
	Quantity     decimal.Decimal `json:"quantity"`
	GrossAmount  decimal.Decimal `json:"gross_amount"`
	FundingGroup string          `json:"funding_group"`
	CashCurrency Currency        `json:"cash_currency"`
	Market       Market          `json:"market"`
	Taxed        TaxStatus       `json:"taxed"`
	Memo         *string         `json:"memo"`
	Seq          int64           `json:"-"`
}

// IsBuy reports whether the transaction adds to a position.
func (t Transaction) IsBuy() bool {
	return t.Quantity.IsPositive()
}

// IsSell reports whether the transaction reduces a position.
func (t Transaction) IsSell() bool {
	return t.Quantity.IsNegative()
}
