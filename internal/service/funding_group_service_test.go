package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/kabucount/kabucount/internal/apperrors"
	"github.com/kabucount/kabucount/internal/model"
	"github.com/kabucount/kabucount/internal/testutil"
)

func TestFundingGroupService_Create(t *testing.T) {
	t.Run("creates a funding group", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		gs := testutil.NewTestFundingGroupService(t, db)

		created, err := gs.Create(context.Background(), &model.FundingGroup{
			Name:          "NISA",
			Currency:      model.CurrencyJPY,
			InitialAmount: decimal.NewFromInt(1200000),
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if created.Name != "NISA" {
			t.Errorf("Expected name NISA, got %s", created.Name)
		}
		testutil.AssertRowCount(t, db, "funding_groups", 1)
	})

	t.Run("rejects duplicate names", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		gs := testutil.NewTestFundingGroupService(t, db)
		group := testutil.NewFundingGroup().Build(t, db)

		_, err := gs.Create(context.Background(), &model.FundingGroup{
			Name:          group.Name,
			Currency:      model.CurrencyJPY,
			InitialAmount: decimal.Zero,
		})
		if !errors.Is(err, apperrors.ErrDuplicateFundingGroup) {
			t.Errorf("Expected ErrDuplicateFundingGroup, got %v", err)
		}
	})
}

func TestFundingGroupService_Update(t *testing.T) {
	t.Run("updates initial amount and notes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		gs := testutil.NewTestFundingGroupService(t, db)
		group := testutil.NewFundingGroup().Build(t, db)

		notes := "rebalanced"
		updated, err := gs.Update(context.Background(), &model.FundingGroup{
			Name:          group.Name,
			Currency:      group.Currency,
			InitialAmount: decimal.NewFromInt(2000000),
			Notes:         &notes,
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !updated.InitialAmount.Equal(decimal.NewFromInt(2000000)) {
			t.Errorf("Expected initial_amount 2000000, got %s", updated.InitialAmount)
		}
	})

	t.Run("allows currency change while the group is empty", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		gs := testutil.NewTestFundingGroupService(t, db)
		group := testutil.NewFundingGroup().Build(t, db)

		updated, err := gs.Update(context.Background(), &model.FundingGroup{
			Name:          group.Name,
			Currency:      model.CurrencyUSD,
			InitialAmount: group.InitialAmount,
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if updated.Currency != model.CurrencyUSD {
			t.Errorf("Expected currency USD, got %s", updated.Currency)
		}
	})

	t.Run("locks the currency once transactions exist", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		gs := testutil.NewTestFundingGroupService(t, db)
		group := testutil.NewFundingGroup().Build(t, db)
		testutil.NewTransaction(group.Name).Build(t, db)

		_, err := gs.Update(context.Background(), &model.FundingGroup{
			Name:          group.Name,
			Currency:      model.CurrencyUSD,
			InitialAmount: group.InitialAmount,
		})
		if !errors.Is(err, apperrors.ErrCurrencyLocked) {
			t.Errorf("Expected ErrCurrencyLocked, got %v", err)
		}
	})

	t.Run("returns not found for unknown group", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		gs := testutil.NewTestFundingGroupService(t, db)

		_, err := gs.Update(context.Background(), &model.FundingGroup{
			Name:          "Ghost",
			Currency:      model.CurrencyJPY,
			InitialAmount: decimal.Zero,
		})
		if !errors.Is(err, apperrors.ErrFundingGroupNotFound) {
			t.Errorf("Expected ErrFundingGroupNotFound, got %v", err)
		}
	})
}

func TestFundingGroupService_Delete(t *testing.T) {
	t.Run("deletes an unused group", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		gs := testutil.NewTestFundingGroupService(t, db)
		group := testutil.NewFundingGroup().Build(t, db)

		if err := gs.Delete(context.Background(), group.Name); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		testutil.AssertRowCount(t, db, "funding_groups", 0)
	})

	t.Run("refuses while transactions reference the group", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		gs := testutil.NewTestFundingGroupService(t, db)
		group := testutil.NewFundingGroup().Build(t, db)
		testutil.NewTransaction(group.Name).Build(t, db)

		err := gs.Delete(context.Background(), group.Name)
		if !errors.Is(err, apperrors.ErrFundingGroupInUse) {
			t.Errorf("Expected ErrFundingGroupInUse, got %v", err)
		}
	})

	t.Run("refuses while adjustments reference the group", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		gs := testutil.NewTestFundingGroupService(t, db)
		group := testutil.NewFundingGroup().Build(t, db)
		testutil.NewAdjustment(group.Name).Build(t, db)

		err := gs.Delete(context.Background(), group.Name)
		if !errors.Is(err, apperrors.ErrFundingGroupInUse) {
			t.Errorf("Expected ErrFundingGroupInUse, got %v", err)
		}
	})
}

func TestFundingGroupService_Adjustments(t *testing.T) {
	t.Run("records and lists adjustments", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		gs := testutil.NewTestFundingGroupService(t, db)
		group := testutil.NewFundingGroup().Build(t, db)

		created, err := gs.AddAdjustment(context.Background(), &model.CapitalAdjustment{
			FundingGroup:  group.Name,
			Amount:        decimal.NewFromInt(500000),
			EffectiveDate: model.NewDate(2025, 2, 1),
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if created.ID == "" {
			t.Error("Expected a generated ID")
		}

		adjustments, err := gs.ListAdjustments(group.Name)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(adjustments) != 1 {
			t.Fatalf("Expected 1 adjustment, got %d", len(adjustments))
		}
		if !adjustments[0].Amount.Equal(decimal.NewFromInt(500000)) {
			t.Errorf("Expected amount 500000, got %s", adjustments[0].Amount)
		}
	})

	t.Run("rejects adjustments for unknown groups", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		gs := testutil.NewTestFundingGroupService(t, db)

		_, err := gs.AddAdjustment(context.Background(), &model.CapitalAdjustment{
			FundingGroup: "Ghost",
			Amount:       decimal.NewFromInt(1),
		})
		if !errors.Is(err, apperrors.ErrFundingGroupNotFound) {
			t.Errorf("Expected ErrFundingGroupNotFound, got %v", err)
		}
	})

	t.Run("deletes an adjustment", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		gs := testutil.NewTestFundingGroupService(t, db)
		group := testutil.NewFundingGroup().Build(t, db)
		adjustment := testutil.NewAdjustment(group.Name).Build(t, db)

		if err := gs.DeleteAdjustment(context.Background(), adjustment.ID); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		testutil.AssertRowCount(t, db, "capital_adjustments", 0)
	})

	t.Run("delete returns not found for unknown adjustment", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		gs := testutil.NewTestFundingGroupService(t, db)

		err := gs.DeleteAdjustment(context.Background(), testutil.MakeID())
		if !errors.Is(err, apperrors.ErrAdjustmentNotFound) {
			t.Errorf("Expected ErrAdjustmentNotFound, got %v", err)
		}
	})
}
