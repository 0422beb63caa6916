package validation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kabucount/kabucount/internal/api/request"
	"github.com/kabucount/kabucount/internal/model"
)

func validateTransactionFields(
	tradeDate, symbol, fundingGroup, cashCurrency, market string,
	quantity, grossAmount decimal.Decimal,
	taxed *string,
) map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(tradeDate) == "" {
		errors["trade_date"] = "trade_date is required"
	} else if _, err := model.ParseDate(tradeDate); err != nil {
		errors["trade_date"] = err.Error()
	}

	if strings.TrimSpace(symbol) == "" {
		errors["symbol"] = "symbol is required"
	}

	if strings.TrimSpace(fundingGroup) == "" {
		errors["funding_group"] = "funding_group is required"
	}

	if !model.Currency(cashCurrency).Valid() {
		errors["cash_currency"] = fmt.Sprintf("invalid currency: %s", cashCurrency)
	}

	if !model.Market(market).Valid() {
		errors["market"] = fmt.Sprintf("invalid market: %s", market)
	}

	if quantity.IsZero() {
		errors["quantity"] = "quantity must be non-zero"
	}

	if grossAmount.IsNegative() {
		errors["gross_amount"] = "gross_amount must not be negative"
	}

	if taxed != nil && !model.TaxStatus(*taxed).Valid() {
		errors["taxed"] = fmt.Sprintf("taxed must be Y or N, got: %s", *taxed)
	}

	return errors
}

// ValidateCreateTransaction validates a ledger entry creation request.
//
// Required fields:
//   - trade_date: YYYY-MM-DD
//   - symbol, funding_group: non-blank
//   - cash_currency: JPY or USD
//   - market: JP or US
//   - quantity: non-zero, signed (positive buy, negative sell)
//   - gross_amount: non-negative
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	errors := validateTransactionFields(
		req.TradeDate, req.Symbol, req.FundingGroup, req.CashCurrency, req.Market,
		req.Quantity, req.GrossAmount, req.Taxed,
	)
	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateUpdateTransaction validates a ledger entry replacement request with
// the same constraints as create.
func ValidateUpdateTransaction(req request.UpdateTransactionRequest) error {
	errors := validateTransactionFields(
		req.TradeDate, req.Symbol, req.FundingGroup, req.CashCurrency, req.Market,
		req.Quantity, req.GrossAmount, req.Taxed,
	)
	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateRoundTripYield validates a round-trip analysis request: at least two
// transaction IDs, all valid UUIDs.
func ValidateRoundTripYield(req request.RoundTripYieldRequest) error {
	if len(req.TransactionIDs) < 2 {
		return &Error{Fields: map[string]string{
			"transaction_ids": "at least two transaction IDs are required",
		}}
	}
	if err := ValidateUUIDs(req.TransactionIDs); err != nil {
		return &Error{Fields: map[string]string{"transaction_ids": err.Error()}}
	}
	return nil
}
