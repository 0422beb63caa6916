package service

import (
	"testing"
	"time"

	"github.com/kabucount/kabucount/internal/model"
)

func fundGroup(name string, currency model.Currency, initial string) model.FundingGroup {
	return model.FundingGroup{
		Name:          name,
		Currency:      currency,
		InitialAmount: dec(initial),
	}
}

func TestComputeFundSnapshots(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("group with no activity mirrors its initial amount", func(t *testing.T) {
		groups := []model.FundingGroup{fundGroup("Main", model.CurrencyJPY, "1000000")}

		result := ComputeFundSnapshots(groups, nil, nil, nil, now)
		if len(result.Funds) != 1 {
			t.Fatalf("Expected 1 fund, got %d", len(result.Funds))
		}

		f := result.Funds[0]
		assertDecimal(t, "CashBalance", f.CashBalance, dec("1000000"))
		assertDecimal(t, "HoldingCost", f.HoldingCost, dec("0"))
		assertDecimal(t, "CurrentTotal", f.CurrentTotal, dec("1000000"))
		assertDecimal(t, "TotalPL", f.TotalPL, dec("0"))
	})

	t.Run("buys move cash into holding cost", func(t *testing.T) {
		groups := []model.FundingGroup{fundGroup("Main", model.CurrencyJPY, "1000000")}
		transactions := []model.Transaction{
			ledgerEntry(1, "2025-01-10", "7203", "Main", "100", "100000"),
		}

		result := ComputeFundSnapshots(groups, transactions, nil, nil, now)
		f := result.Funds[0]

		assertDecimal(t, "CashBalance", f.CashBalance, dec("900000"))
		assertDecimal(t, "HoldingCost", f.HoldingCost, dec("100000"))
		assertDecimal(t, "CurrentTotal", f.CurrentTotal, dec("1000000"))
		assertDecimal(t, "TotalPL", f.TotalPL, dec("0"))
	})

	t.Run("realized gains split by calendar year of the closing trade", func(t *testing.T) {
		groups := []model.FundingGroup{fundGroup("Main", model.CurrencyJPY, "1000000")}
		transactions := []model.Transaction{
			ledgerEntry(1, "2024-05-01", "9984", "Main", "100", "200000"),
			ledgerEntry(2, "2024-11-01", "9984", "Main", "-100", "230000"),
			ledgerEntry(3, "2025-01-10", "7203", "Main", "100", "100000"),
			ledgerEntry(4, "2025-03-10", "7203", "Main", "-100", "112000"),
		}

		result := ComputeFundSnapshots(groups, transactions, nil, nil, now)
		f := result.Funds[0]

		assertDecimal(t, "CurrentYearPL", f.CurrentYearPL, dec("12000"))
		assertDecimal(t, "PreviousYearPL", f.PreviousYearPL, dec("30000"))
		assertDecimal(t, "TotalPL", f.TotalPL, dec("42000"))
		assertDecimal(t, "CurrentTotal", f.CurrentTotal, dec("1042000"))

		if f.CurrentYearPLRatio == nil || !f.CurrentYearPLRatio.Equal(dec("0.012")) {
			t.Errorf("Expected current_year_pl_ratio 0.012, got %v", f.CurrentYearPLRatio)
		}
		if f.PreviousYearPLRatio == nil || !f.PreviousYearPLRatio.Equal(dec("0.03")) {
			t.Errorf("Expected previous_year_pl_ratio 0.03, got %v", f.PreviousYearPLRatio)
		}
	})

	t.Run("a position held across years realizes in the sell year", func(t *testing.T) {
		groups := []model.FundingGroup{fundGroup("Main", model.CurrencyJPY, "1000000")}
		transactions := []model.Transaction{
			ledgerEntry(1, "2024-02-01", "7203", "Main", "100", "100000"),
			ledgerEntry(2, "2025-02-01", "7203", "Main", "-100", "130000"),
		}

		result := ComputeFundSnapshots(groups, transactions, nil, nil, now)
		f := result.Funds[0]

		assertDecimal(t, "CurrentYearPL", f.CurrentYearPL, dec("30000"))
		assertDecimal(t, "PreviousYearPL", f.PreviousYearPL, dec("0"))
	})

	t.Run("capital adjustments shift cash but not profit", func(t *testing.T) {
		groups := []model.FundingGroup{fundGroup("Main", model.CurrencyJPY, "1000000")}
		adjustments := []model.CapitalAdjustment{
			{ID: "a1", FundingGroup: "Main", Amount: dec("500000"), EffectiveDate: model.NewDate(2025, 2, 1)},
			{ID: "a2", FundingGroup: "Main", Amount: dec("-100000"), EffectiveDate: model.NewDate(2025, 3, 1)},
		}

		result := ComputeFundSnapshots(groups, nil, adjustments, nil, now)
		f := result.Funds[0]

		assertDecimal(t, "CashBalance", f.CashBalance, dec("1400000"))
		assertDecimal(t, "CurrentTotal", f.CurrentTotal, dec("1400000"))
		assertDecimal(t, "TotalPL", f.TotalPL, dec("0"))
	})

	t.Run("tax settlements are paid out of cash", func(t *testing.T) {
		groups := []model.FundingGroup{fundGroup("Main", model.CurrencyJPY, "1000000")}
		transactions := []model.Transaction{
			ledgerEntry(1, "2025-01-10", "7203", "Main", "100", "100000"),
			ledgerEntry(2, "2025-03-10", "7203", "Main", "-100", "112000"),
		}
		settlements := []model.TaxSettlementRecord{
			{
				ID:            "s1",
				TransactionID: "t2",
				FundingGroup:  "Main",
				Amount:        dec("1000"),
				Currency:      model.CurrencyJPY,
				JPYEquivalent: dec("1000"),
				RecordedAt:    model.NewDate(2025, 3, 11),
			},
		}

		result := ComputeFundSnapshots(groups, transactions, nil, settlements, now)
		f := result.Funds[0]

		assertDecimal(t, "CashBalance", f.CashBalance, dec("1011000"))
		assertDecimal(t, "HoldingCost", f.HoldingCost, dec("0"))
		assertDecimal(t, "CurrentTotal", f.CurrentTotal, dec("1011000"))
		assertDecimal(t, "TotalPL", f.TotalPL, dec("11000"))
	})

	t.Run("settlements for unknown groups are ignored", func(t *testing.T) {
		groups := []model.FundingGroup{fundGroup("Main", model.CurrencyJPY, "1000000")}
		settlements := []model.TaxSettlementRecord{
			{ID: "s1", TransactionID: "t1", FundingGroup: "Ghost", Amount: dec("1000")},
		}

		result := ComputeFundSnapshots(groups, nil, nil, settlements, now)
		assertDecimal(t, "CashBalance", result.Funds[0].CashBalance, dec("1000000"))
	})

	t.Run("zero initial amount yields null ratios", func(t *testing.T) {
		groups := []model.FundingGroup{fundGroup("Scratch", model.CurrencyJPY, "0")}
		transactions := []model.Transaction{
			ledgerEntry(1, "2025-01-10", "7203", "Scratch", "100", "100000"),
			ledgerEntry(2, "2025-02-10", "7203", "Scratch", "-100", "112000"),
		}

		result := ComputeFundSnapshots(groups, transactions, nil, nil, now)
		f := result.Funds[0]

		assertDecimal(t, "CurrentYearPL", f.CurrentYearPL, dec("12000"))
		if f.CurrentYearPLRatio != nil {
			t.Errorf("Expected nil current_year_pl_ratio, got %v", f.CurrentYearPLRatio)
		}
		if f.PreviousYearPLRatio != nil {
			t.Errorf("Expected nil previous_year_pl_ratio, got %v", f.PreviousYearPLRatio)
		}
	})

	t.Run("aggregates per currency with ratios from summed figures", func(t *testing.T) {
		groups := []model.FundingGroup{
			fundGroup("JPY A", model.CurrencyJPY, "1000000"),
			fundGroup("JPY B", model.CurrencyJPY, "3000000"),
			fundGroup("USD A", model.CurrencyUSD, "10000"),
		}
		transactions := []model.Transaction{
			ledgerEntry(1, "2025-01-10", "7203", "JPY A", "100", "100000"),
			ledgerEntry(2, "2025-02-10", "7203", "JPY A", "-100", "140000"),
		}

		result := ComputeFundSnapshots(groups, transactions, nil, nil, now)
		if len(result.Aggregated) != 2 {
			t.Fatalf("Expected 2 aggregates, got %d", len(result.Aggregated))
		}

		jpy := result.Aggregated[0]
		if jpy.Currency != model.CurrencyJPY {
			t.Fatalf("Expected JPY aggregate first, got %s", jpy.Currency)
		}
		if jpy.GroupCount != 2 {
			t.Errorf("Expected 2 JPY groups, got %d", jpy.GroupCount)
		}
		assertDecimal(t, "InitialAmount", jpy.InitialAmount, dec("4000000"))
		assertDecimal(t, "CurrentYearPL", jpy.CurrentYearPL, dec("40000"))
		// 40000 / 4000000, not the average of the per-group ratios
		if jpy.CurrentYearPLRatio == nil || !jpy.CurrentYearPLRatio.Equal(dec("0.01")) {
			t.Errorf("Expected aggregate ratio 0.01, got %v", jpy.CurrentYearPLRatio)
		}

		usd := result.Aggregated[1]
		if usd.Currency != model.CurrencyUSD || usd.GroupCount != 1 {
			t.Errorf("Unexpected USD aggregate: %+v", usd)
		}
	})

	t.Run("transactions for unknown groups are ignored", func(t *testing.T) {
		groups := []model.FundingGroup{fundGroup("Main", model.CurrencyJPY, "1000000")}
		transactions := []model.Transaction{
			ledgerEntry(1, "2025-01-10", "7203", "Ghost", "100", "100000"),
		}

		result := ComputeFundSnapshots(groups, transactions, nil, nil, now)
		assertDecimal(t, "CashBalance", result.Funds[0].CashBalance, dec("1000000"))
	})
}

func TestFundService_Snapshots(t *testing.T) {
	t.Run("invariant: current total equals cash plus holdings", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		groups := []model.FundingGroup{fundGroup("Main", model.CurrencyJPY, "500000")}
		transactions := []model.Transaction{
			ledgerEntry(1, "2025-01-10", "7203", "Main", "100", "100000"),
			ledgerEntry(2, "2025-02-10", "9984", "Main", "20", "140000"),
			ledgerEntry(3, "2025-03-10", "7203", "Main", "-50", "60000"),
		}
		settlements := []model.TaxSettlementRecord{
			{ID: "s1", TransactionID: "t3", FundingGroup: "Main", Amount: dec("800"),
				Currency: model.CurrencyJPY, JPYEquivalent: dec("800")},
		}

		result := ComputeFundSnapshots(groups, transactions, nil, settlements, now)
		f := result.Funds[0]

		if !f.CurrentTotal.Equal(f.CashBalance.Add(f.HoldingCost)) {
			t.Errorf("current_total %s != cash %s + holdings %s",
				f.CurrentTotal, f.CashBalance, f.HoldingCost)
		}
	})
}
