package testutil

import (
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/kabucount/kabucount/internal/model"
)

// FundingGroupBuilder provides a fluent interface for creating test funding
// groups.
//
// Example usage:
//
//	// Simple creation with defaults
//	group := testutil.NewFundingGroup().Build(t, db)
//
//	// Customized group
//	group := testutil.NewFundingGroup().
//	    WithName("NISA").
//	    WithCurrency(model.CurrencyUSD).
//	    WithInitialAmount("250000").
//	    Build(t, db)
type FundingGroupBuilder struct {
	Name          string
	Currency      model.Currency
	InitialAmount decimal.Decimal
	Notes         *string
}

// NewFundingGroup creates a FundingGroupBuilder with sensible defaults.
func NewFundingGroup() *FundingGroupBuilder {
	return &FundingGroupBuilder{
		Name:          MakeGroupName("Test Group"),
		Currency:      model.CurrencyJPY,
		InitialAmount: decimal.NewFromInt(1000000),
	}
}

// WithName sets a custom name.
func (b *FundingGroupBuilder) WithName(name string) *FundingGroupBuilder {
	b.Name = name
	return b
}

// WithCurrency sets a custom currency.
func (b *FundingGroupBuilder) WithCurrency(currency model.Currency) *FundingGroupBuilder {
	b.Currency = currency
	return b
}

// WithInitialAmount sets a custom initial amount from a decimal string.
func (b *FundingGroupBuilder) WithInitialAmount(amount string) *FundingGroupBuilder {
	b.InitialAmount = decimal.RequireFromString(amount)
	return b
}

// WithNotes sets notes on the group.
func (b *FundingGroupBuilder) WithNotes(notes string) *FundingGroupBuilder {
	b.Notes = &notes
	return b
}

// Build creates the funding group in the database and returns it.
func (b *FundingGroupBuilder) Build(t *testing.T, db *sql.DB) model.FundingGroup {
	t.Helper()

	query := `
		INSERT INTO funding_groups (name, currency, initial_amount, notes)
		VALUES (?, ?, ?, ?)
	`

	var notes any
	if b.Notes != nil {
		notes = *b.Notes
	}
	_, err := db.Exec(query, b.Name, b.Currency, b.InitialAmount.String(), notes)
	if err != nil {
		t.Fatalf("Failed to create test funding group: %v", err)
	}

	return model.FundingGroup{
		Name:          b.Name,
		Currency:      b.Currency,
		InitialAmount: b.InitialAmount,
		Notes:         b.Notes,
	}
}

// TransactionBuilder provides a fluent interface for creating test ledger
// entries. Quantity is signed: use a negative value for a sell.
//
// Example usage:
//
//	tx := testutil.NewTransaction(group.Name).
//	    WithSymbol("7203").
//	    WithTradeDate("2025-02-03").
//	    WithQuantity("100").
//	    WithGrossAmount("250000").
//	    Build(t, db)
type TransactionBuilder struct {
	ID           string
	TradeDate    model.Date
	Symbol       string
	Quantity     decimal.Decimal
	GrossAmount  decimal.Decimal
	FundingGroup string
	CashCurrency model.Currency
	Market       model.Market
	Taxed        model.TaxStatus
	Memo         *string
}

// NewTransaction creates a TransactionBuilder with sensible defaults: a buy
// of 100 shares of a JP symbol for 100000 JPY.
func NewTransaction(fundingGroup string) *TransactionBuilder {
	return &TransactionBuilder{
		ID:           MakeID(),
		TradeDate:    model.NewDate(2025, 1, 15),
		Symbol:       "7203",
		Quantity:     decimal.NewFromInt(100),
		GrossAmount:  decimal.NewFromInt(100000),
		FundingGroup: fundingGroup,
		CashCurrency: model.CurrencyJPY,
		Market:       model.MarketJP,
		Taxed:        model.TaxStatusNo,
	}
}

// WithID sets a custom ID.
func (b *TransactionBuilder) WithID(id string) *TransactionBuilder {
	b.ID = id
	return b
}

// WithTradeDate sets the trade date from a YYYY-MM-DD string.
func (b *TransactionBuilder) WithTradeDate(date string) *TransactionBuilder {
	parsed, err := model.ParseDate(date)
	if err != nil {
		panic(err)
	}
	b.TradeDate = parsed
	return b
}

// WithSymbol sets a custom symbol.
func (b *TransactionBuilder) WithSymbol(symbol string) *TransactionBuilder {
	b.Symbol = symbol
	return b
}

// WithQuantity sets the signed quantity from a decimal string.
func (b *TransactionBuilder) WithQuantity(quantity string) *TransactionBuilder {
	b.Quantity = decimal.RequireFromString(quantity)
	return b
}

// WithGrossAmount sets the gross cash amount from a decimal string.
func (b *TransactionBuilder) WithGrossAmount(amount string) *TransactionBuilder {
	b.GrossAmount = decimal.RequireFromString(amount)
	return b
}

// WithCurrency sets the cash currency.
func (b *TransactionBuilder) WithCurrency(currency model.Currency) *TransactionBuilder {
	b.CashCurrency = currency
	return b
}

// WithMarket sets the market.
func (b *TransactionBuilder) WithMarket(market model.Market) *TransactionBuilder {
	b.Market = market
	return b
}

// Taxed marks the entry as tax-settled.
func (b *TransactionBuilder) WithTaxed() *TransactionBuilder {
	b.Taxed = model.TaxStatusYes
	return b
}

// WithMemo sets a memo on the entry.
func (b *TransactionBuilder) WithMemo(memo string) *TransactionBuilder {
	b.Memo = &memo
	return b
}

// Build creates the transaction in the database and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	query := `
		INSERT INTO transactions (
			id, trade_date, symbol, quantity, gross_amount,
			funding_group, cash_currency, market, taxed, memo
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var memo any
	if b.Memo != nil {
		memo = *b.Memo
	}
	_, err := db.Exec(query,
		b.ID,
		b.TradeDate.String(),
		b.Symbol,
		b.Quantity.String(),
		b.GrossAmount.String(),
		b.FundingGroup,
		b.CashCurrency,
		b.Market,
		b.Taxed,
		memo,
	)
	if err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	return model.Transaction{
		ID:           b.ID,
		TradeDate:    b.TradeDate,
		Symbol:       b.Symbol,
		Quantity:     b.Quantity,
		GrossAmount:  b.GrossAmount,
		FundingGroup: b.FundingGroup,
		CashCurrency: b.CashCurrency,
		Market:       b.Market,
		Taxed:        b.Taxed,
		Memo:         b.Memo,
	}
}

// TaxSettlementBuilder provides a fluent interface for creating test tax
// settlements. Building one does not flip the transaction's taxed flag; use
// the service when that behaviour matters.
type TaxSettlementBuilder struct {
	ID            string
	TransactionID string
	FundingGroup  string
	Amount        decimal.Decimal
	Currency      model.Currency
	ExchangeRate  *decimal.Decimal
	JPYEquivalent decimal.Decimal
	RecordedAt    model.Date
}

// NewTaxSettlement creates a TaxSettlementBuilder with sensible defaults:
// a 1000 JPY settlement.
func NewTaxSettlement(transactionID, fundingGroup string) *TaxSettlementBuilder {
	return &TaxSettlementBuilder{
		ID:            MakeID(),
		TransactionID: transactionID,
		FundingGroup:  fundingGroup,
		Amount:        decimal.NewFromInt(1000),
		Currency:      model.CurrencyJPY,
		JPYEquivalent: decimal.NewFromInt(1000),
		RecordedAt:    model.NewDate(2025, 3, 15),
	}
}

// WithAmount sets the settlement amount from a decimal string. For JPY the
// JPY equivalent tracks the amount.
func (b *TaxSettlementBuilder) WithAmount(amount string) *TaxSettlementBuilder {
	b.Amount = decimal.RequireFromString(amount)
	if b.Currency == model.CurrencyJPY {
		b.JPYEquivalent = b.Amount
	}
	return b
}

// WithExchangeRate sets the currency to USD with the given JPY rate.
func (b *TaxSettlementBuilder) WithExchangeRate(rate string) *TaxSettlementBuilder {
	parsed := decimal.RequireFromString(rate)
	b.Currency = model.CurrencyUSD
	b.ExchangeRate = &parsed
	b.JPYEquivalent = b.Amount.Mul(parsed).Round(2)
	return b
}

// WithRecordedAt sets the recording date from a YYYY-MM-DD string.
func (b *TaxSettlementBuilder) WithRecordedAt(date string) *TaxSettlementBuilder {
	parsed, err := model.ParseDate(date)
	if err != nil {
		panic(err)
	}
	b.RecordedAt = parsed
	return b
}

// Build creates the settlement in the database and returns it.
func (b *TaxSettlementBuilder) Build(t *testing.T, db *sql.DB) model.TaxSettlementRecord {
	t.Helper()

	query := `
		INSERT INTO tax_settlements (
			id, transaction_id, funding_group, amount, currency,
			exchange_rate, jpy_equivalent, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var rate any
	if b.ExchangeRate != nil {
		rate = b.ExchangeRate.String()
	}
	_, err := db.Exec(query,
		b.ID,
		b.TransactionID,
		b.FundingGroup,
		b.Amount.String(),
		b.Currency,
		rate,
		b.JPYEquivalent.String(),
		b.RecordedAt.String(),
	)
	if err != nil {
		t.Fatalf("Failed to create test tax settlement: %v", err)
	}

	return model.TaxSettlementRecord{
		ID:            b.ID,
		TransactionID: b.TransactionID,
		FundingGroup:  b.FundingGroup,
		Amount:        b.Amount,
		Currency:      b.Currency,
		ExchangeRate:  b.ExchangeRate,
		JPYEquivalent: b.JPYEquivalent,
		RecordedAt:    b.RecordedAt,
	}
}

// AdjustmentBuilder provides a fluent interface for creating test capital
// adjustments.
type AdjustmentBuilder struct {
	ID            string
	FundingGroup  string
	Amount        decimal.Decimal
	EffectiveDate model.Date
	Notes         *string
}

// NewAdjustment creates an AdjustmentBuilder with sensible defaults: a
// 100000 deposit.
func NewAdjustment(fundingGroup string) *AdjustmentBuilder {
	return &AdjustmentBuilder{
		ID:            MakeID(),
		FundingGroup:  fundingGroup,
		Amount:        decimal.NewFromInt(100000),
		EffectiveDate: model.NewDate(2025, 2, 1),
	}
}

// WithAmount sets the adjustment amount from a decimal string; negative
// values are withdrawals.
func (b *AdjustmentBuilder) WithAmount(amount string) *AdjustmentBuilder {
	b.Amount = decimal.RequireFromString(amount)
	return b
}

// WithEffectiveDate sets the effective date from a YYYY-MM-DD string.
func (b *AdjustmentBuilder) WithEffectiveDate(date string) *AdjustmentBuilder {
	parsed, err := model.ParseDate(date)
	if err != nil {
		panic(err)
	}
	b.EffectiveDate = parsed
	return b
}

// Build creates the adjustment in the database and returns it.
func (b *AdjustmentBuilder) Build(t *testing.T, db *sql.DB) model.CapitalAdjustment {
	t.Helper()

	query := `
		INSERT INTO capital_adjustments (id, funding_group, amount, effective_date, notes)
		VALUES (?, ?, ?, ?, ?)
	`

	var notes any
	if b.Notes != nil {
		notes = *b.Notes
	}
	_, err := db.Exec(query, b.ID, b.FundingGroup, b.Amount.String(), b.EffectiveDate.String(), notes)
	if err != nil {
		t.Fatalf("Failed to create test capital adjustment: %v", err)
	}

	return model.CapitalAdjustment{
		ID:            b.ID,
		FundingGroup:  b.FundingGroup,
		Amount:        b.Amount,
		EffectiveDate: b.EffectiveDate,
		Notes:         b.Notes,
	}
}
