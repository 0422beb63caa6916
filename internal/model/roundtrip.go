package model

import "github.com/shopspring/decimal"

// RoundTripYieldResponse is the result of analysing one fully closed trade
// cycle: a set of transactions in a single (symbol, funding group, market,
// currency) tuple whose quantities net to zero.
//
// Ratio fields are nullable; annualised returns use a one-day floor on the
// holding period so same-day round trips stay finite.
type RoundTripYieldResponse struct {
	Symbol                   string           `json:"symbol"`
	FundingGroup             string           `json:"funding_group"`
	Market                   Market           `json:"market"`
	CashCurrency             Currency         `json:"cash_currency"`
	TransactionIDs           []string         `json:"transaction_ids"`
	TradeCount               int              `json:"trade_count"`
	TotalBuyQuantity         decimal.Decimal  `json:"total_buy_quantity"`
	TotalSellQuantity        decimal.Decimal  `json:"total_sell_quantity"`
	TotalBuyAmount           decimal.Decimal  `json:"total_buy_amount"`
	TotalSellAmount          decimal.Decimal  `json:"total_sell_amount"`
	GrossProfit              decimal.Decimal  `json:"gross_profit"`
	TaxTotal                 decimal.Decimal  `json:"tax_total"`
	NetProfit                decimal.Decimal  `json:"net_profit"`
	ReturnRatio              *decimal.Decimal `json:"return_ratio"`
	ReturnAfterTax           *decimal.Decimal `json:"return_after_tax"`
	AnnualizedReturn         *decimal.Decimal `json:"annualized_return"`
	AnnualizedReturnAfterTax *decimal.Decimal `json:"annualized_return_after_tax"`
	HoldingDays              int              `json:"holding_days"`
	TradeWindowStart         Date             `json:"trade_window_start"`
	TradeWindowEnd           Date             `json:"trade_window_end"`
}
