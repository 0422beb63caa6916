package service

import (
	"testing"

	"github.com/kabucount/kabucount/internal/model"
)

func ledgerEntry(seq int64, date, symbol, group string, quantity, amount string) model.Transaction {
	d, _ := model.ParseDate(date)
	return model.Transaction{
		ID:           symbol + date + quantity,
		TradeDate:    d,
		Symbol:       symbol,
		Quantity:     dec(quantity),
		GrossAmount:  dec(amount),
		FundingGroup: group,
		CashCurrency: model.CurrencyJPY,
		Market:       model.MarketJP,
		Taxed:        model.TaxStatusNo,
		Seq:          seq,
	}
}

func TestComputePositions(t *testing.T) {
	t.Run("empty ledger yields no positions", func(t *testing.T) {
		positions := ComputePositions(nil)
		if len(positions) != 0 {
			t.Errorf("Expected no positions, got %d", len(positions))
		}
	})

	t.Run("aggregates one symbol across funding groups", func(t *testing.T) {
		transactions := []model.Transaction{
			ledgerEntry(1, "2025-01-10", "7203", "Group A", "100", "100000"),
			ledgerEntry(2, "2025-01-11", "7203", "Group B", "100", "120000"),
		}

		positions := ComputePositions(transactions)
		if len(positions) != 1 {
			t.Fatalf("Expected 1 position, got %d", len(positions))
		}

		p := positions[0]
		if p.Symbol != "7203" || p.Market != model.MarketJP {
			t.Errorf("Unexpected position identity: %s/%s", p.Symbol, p.Market)
		}

		if len(p.Breakdown) != 1 {
			t.Fatalf("Expected 1 currency breakdown, got %d", len(p.Breakdown))
		}
		assertDecimal(t, "Quantity", p.Breakdown[0].Quantity, dec("200"))
		assertDecimal(t, "AverageCost", p.Breakdown[0].AverageCost, dec("1100"))

		if len(p.GroupBreakdown) != 2 {
			t.Fatalf("Expected 2 group breakdowns, got %d", len(p.GroupBreakdown))
		}
		assertDecimal(t, "Group A avg", p.GroupBreakdown[0].AverageCost, dec("1000"))
		assertDecimal(t, "Group B avg", p.GroupBreakdown[1].AverageCost, dec("1200"))
	})

	t.Run("same symbol on different markets stays separate", func(t *testing.T) {
		us := ledgerEntry(2, "2025-01-10", "SONY", "Group A", "10", "900")
		us.Market = model.MarketUS
		us.CashCurrency = model.CurrencyUSD

		transactions := []model.Transaction{
			ledgerEntry(1, "2025-01-10", "SONY", "Group A", "100", "200000"),
			us,
		}

		positions := ComputePositions(transactions)
		if len(positions) != 2 {
			t.Fatalf("Expected 2 positions, got %d", len(positions))
		}
		if positions[0].Market != model.MarketJP || positions[1].Market != model.MarketUS {
			t.Errorf("Expected JP before US, got %s then %s", positions[0].Market, positions[1].Market)
		}
	})

	t.Run("replay follows trade date then insertion order", func(t *testing.T) {
		// The sell is inserted first but trades later; replay must buy first.
		transactions := []model.Transaction{
			ledgerEntry(1, "2025-02-10", "7203", "Group A", "-100", "110000"),
			ledgerEntry(2, "2025-01-10", "7203", "Group A", "100", "100000"),
		}

		positions := ComputePositions(transactions)
		if len(positions) != 1 {
			t.Fatalf("Expected 1 position, got %d", len(positions))
		}
		assertDecimal(t, "RealizedPL", positions[0].Breakdown[0].RealizedPL, dec("10000"))
		assertDecimal(t, "Quantity", positions[0].Breakdown[0].Quantity, dec("0"))
	})

	t.Run("closed group with negligible realized P&L is dropped from group breakdown", func(t *testing.T) {
		transactions := []model.Transaction{
			ledgerEntry(1, "2025-01-10", "7203", "Group A", "100", "100000"),
			ledgerEntry(2, "2025-02-10", "7203", "Group A", "-100", "100000.005"),
			ledgerEntry(3, "2025-01-10", "7203", "Group B", "100", "100000"),
		}

		positions := ComputePositions(transactions)
		if len(positions) != 1 {
			t.Fatalf("Expected 1 position, got %d", len(positions))
		}

		p := positions[0]
		if len(p.GroupBreakdown) != 1 {
			t.Fatalf("Expected 1 group breakdown, got %d", len(p.GroupBreakdown))
		}
		if p.GroupBreakdown[0].FundingGroup != "Group B" {
			t.Errorf("Expected Group B to survive, got %s", p.GroupBreakdown[0].FundingGroup)
		}

		// The overall breakdown still includes the closed group's realized P&L.
		assertDecimal(t, "RealizedPL", p.Breakdown[0].RealizedPL, dec("0.01"))
	})

	t.Run("closed group with material realized P&L is kept", func(t *testing.T) {
		transactions := []model.Transaction{
			ledgerEntry(1, "2025-01-10", "7203", "Group A", "100", "100000"),
			ledgerEntry(2, "2025-02-10", "7203", "Group A", "-100", "112000"),
		}

		positions := ComputePositions(transactions)
		p := positions[0]
		if len(p.GroupBreakdown) != 1 {
			t.Fatalf("Expected 1 group breakdown, got %d", len(p.GroupBreakdown))
		}
		assertDecimal(t, "Quantity", p.GroupBreakdown[0].Quantity, dec("0"))
		assertDecimal(t, "RealizedPL", p.GroupBreakdown[0].RealizedPL, dec("12000"))
	})

	t.Run("quantities round to four and money to two decimals", func(t *testing.T) {
		transactions := []model.Transaction{
			ledgerEntry(1, "2025-01-10", "VT", "Group A", "3", "1000"),
		}

		positions := ComputePositions(transactions)
		b := positions[0].Breakdown[0]
		// 1000/3 = 333.3333...
		assertDecimal(t, "AverageCost", b.AverageCost, dec("333.3333"))
	})

	t.Run("positions sort by symbol", func(t *testing.T) {
		transactions := []model.Transaction{
			ledgerEntry(1, "2025-01-10", "9984", "Group A", "100", "700000"),
			ledgerEntry(2, "2025-01-10", "7203", "Group A", "100", "100000"),
		}

		positions := ComputePositions(transactions)
		if positions[0].Symbol != "7203" || positions[1].Symbol != "9984" {
			t.Errorf("Expected sorted symbols, got %s then %s", positions[0].Symbol, positions[1].Symbol)
		}
	})
}
