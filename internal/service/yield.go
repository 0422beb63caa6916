package service

import (
	"github.com/shopspring/decimal"

	"github.com/kabucount/kabucount/internal/apperrors"
	"github.com/kabucount/kabucount/internal/model"
)

var daysPerYear = decimal.NewFromInt(365)

// ComputeRoundTripYield analyses a fully closed trade cycle. Every transaction
// must share one (symbol, funding group, market, currency) tuple, the signed
// quantities must net to zero, and both sides must be present; anything else
// is ErrInvalidRoundTrip.
//
// Settlements are the tax records attached to the selected transactions; their
// amounts (in the group currency) reduce the gross profit to the net figure.
func ComputeRoundTripYield(transactions []model.Transaction, settlements []model.TaxSettlementRecord) (model.RoundTripYieldResponse, error) {
	if len(transactions) < 2 {
		return model.RoundTripYieldResponse{}, apperrors.ErrInvalidRoundTrip
	}

	first := transactions[0]
	var (
		ids          []string
		netQuantity  decimal.Decimal
		buyQuantity  decimal.Decimal
		sellQuantity decimal.Decimal
		buyAmount    decimal.Decimal
		sellAmount   decimal.Decimal
		windowStart  = first.TradeDate
		windowEnd    = first.TradeDate
	)

	for _, tx := range transactions {
		if tx.Symbol != first.Symbol ||
			tx.FundingGroup != first.FundingGroup ||
			tx.Market != first.Market ||
			tx.CashCurrency != first.CashCurrency {
			return model.RoundTripYieldResponse{}, apperrors.ErrInvalidRoundTrip
		}

		ids = append(ids, tx.ID)
		netQuantity = netQuantity.Add(tx.Quantity)
		if tx.IsBuy() {
			buyQuantity = buyQuantity.Add(tx.Quantity)
			buyAmount = buyAmount.Add(tx.GrossAmount)
		} else {
			sellQuantity = sellQuantity.Add(tx.Quantity.Neg())
			sellAmount = sellAmount.Add(tx.GrossAmount)
		}

		if tx.TradeDate.Before(windowStart.Time) {
			windowStart = tx.TradeDate
		}
		if tx.TradeDate.After(windowEnd.Time) {
			windowEnd = tx.TradeDate
		}
	}

	if !netQuantity.IsZero() || buyQuantity.IsZero() || sellQuantity.IsZero() {
		return model.RoundTripYieldResponse{}, apperrors.ErrInvalidRoundTrip
	}

	taxTotal := decimal.Zero
	for _, s := range settlements {
		taxTotal = taxTotal.Add(s.Amount)
	}

	grossProfit := sellAmount.Sub(buyAmount)
	netProfit := grossProfit.Sub(taxTotal)

	holdingDays := windowStart.DaysUntil(windowEnd)
	annualizeDays := decimal.NewFromInt(int64(max(holdingDays, 1)))

	response := model.RoundTripYieldResponse{
		Symbol:            first.Symbol,
		FundingGroup:      first.FundingGroup,
		Market:            first.Market,
		CashCurrency:      first.CashCurrency,
		TransactionIDs:    ids,
		TradeCount:        len(transactions),
		TotalBuyQuantity:  buyQuantity.Round(4),
		TotalSellQuantity: sellQuantity.Round(4),
		TotalBuyAmount:    buyAmount.Round(2),
		TotalSellAmount:   sellAmount.Round(2),
		GrossProfit:       grossProfit.Round(2),
		TaxTotal:          taxTotal.Round(2),
		NetProfit:         netProfit.Round(2),
		HoldingDays:       holdingDays,
		TradeWindowStart:  windowStart,
		TradeWindowEnd:    windowEnd,
	}

	if !buyAmount.IsZero() {
		returnRatio := grossProfit.Div(buyAmount)
		returnAfterTax := netProfit.Div(buyAmount)
		annualized := returnRatio.Mul(daysPerYear).Div(annualizeDays)
		annualizedAfterTax := returnAfterTax.Mul(daysPerYear).Div(annualizeDays)

		response.ReturnRatio = roundRatio(returnRatio)
		response.ReturnAfterTax = roundRatio(returnAfterTax)
		response.AnnualizedReturn = roundRatio(annualized)
		response.AnnualizedReturnAfterTax = roundRatio(annualizedAfterTax)
	}

	return response, nil
}

func roundRatio(d decimal.Decimal) *decimal.Decimal {
	rounded := d.Round(6)
	return &rounded
}
