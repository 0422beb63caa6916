package handlers_test

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/kabucount/kabucount/internal/api/handlers"
	"github.com/kabucount/kabucount/internal/model"
	"github.com/kabucount/kabucount/internal/testutil"
)

func setupFundingGroupHandler(t *testing.T) (*handlers.FundingGroupHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestFundingGroupService(t, db)
	return handlers.NewFundingGroupHandler(svc), db
}

func TestFundingGroupHandler_List(t *testing.T) {
	t.Run("returns all groups", func(t *testing.T) {
		handler, db := setupFundingGroupHandler(t)
		testutil.NewFundingGroup().Build(t, db)
		testutil.NewFundingGroup().WithCurrency(model.CurrencyUSD).Build(t, db)

		req := httptest.NewRequest(http.MethodGet, "/api/funding-groups", nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var groups []model.FundingGroup
		if err := json.NewDecoder(w.Body).Decode(&groups); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(groups) != 2 {
			t.Errorf("Expected 2 groups, got %d", len(groups))
		}
	})
}

func TestFundingGroupHandler_Get(t *testing.T) {
	t.Run("resolves percent-encoded names", func(t *testing.T) {
		handler, db := setupFundingGroupHandler(t)
		group := testutil.NewFundingGroup().WithName("Margin JPY").Build(t, db)

		req := testutil.NewRequestWithURLParams(
			http.MethodGet,
			"/api/funding-groups/Margin%20JPY",
			map[string]string{"name": "Margin%20JPY"},
		)
		w := httptest.NewRecorder()

		handler.Get(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var got model.FundingGroup
		if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if got.Name != group.Name {
			t.Errorf("Expected name %s, got %s", group.Name, got.Name)
		}
	})

	t.Run("returns 404 for unknown group", func(t *testing.T) {
		handler, _ := setupFundingGroupHandler(t)

		req := testutil.NewRequestWithURLParams(
			http.MethodGet,
			"/api/funding-groups/Ghost",
			map[string]string{"name": "Ghost"},
		)
		w := httptest.NewRecorder()

		handler.Get(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestFundingGroupHandler_Create(t *testing.T) {
	t.Run("creates a group", func(t *testing.T) {
		handler, db := setupFundingGroupHandler(t)

		body := `{"name": "NISA", "currency": "JPY", "initial_amount": 1200000}`

		req := httptest.NewRequest(http.MethodPost, "/api/funding-groups", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.Create(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var created model.FundingGroup
		if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if created.Name != "NISA" {
			t.Errorf("Expected name NISA, got %s", created.Name)
		}
		if !created.InitialAmount.Equal(decimal.NewFromInt(1200000)) {
			t.Errorf("Expected initial_amount 1200000, got %s", created.InitialAmount)
		}
		testutil.AssertRowCount(t, db, "funding_groups", 1)
	})

	t.Run("returns 409 for duplicate names", func(t *testing.T) {
		handler, db := setupFundingGroupHandler(t)
		group := testutil.NewFundingGroup().Build(t, db)

		body := `{"name": "` + group.Name + `", "currency": "JPY", "initial_amount": 0}`

		req := httptest.NewRequest(http.MethodPost, "/api/funding-groups", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.Create(w, req)

		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 for invalid payload", func(t *testing.T) {
		handler, _ := setupFundingGroupHandler(t)

		body := `{"name": "", "currency": "EUR", "initial_amount": -5}`

		req := httptest.NewRequest(http.MethodPost, "/api/funding-groups", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.Create(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestFundingGroupHandler_Update(t *testing.T) {
	t.Run("updates the initial amount", func(t *testing.T) {
		handler, db := setupFundingGroupHandler(t)
		group := testutil.NewFundingGroup().Build(t, db)

		body := `{"currency": "JPY", "initial_amount": 2500000}`

		req := testutil.NewRequestWithURLParamsAndBody(
			http.MethodPut,
			"/api/funding-groups/"+group.Name,
			map[string]string{"name": group.Name},
			body,
		)
		w := httptest.NewRecorder()

		handler.Update(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var updated model.FundingGroup
		if err := json.NewDecoder(w.Body).Decode(&updated); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if !updated.InitialAmount.Equal(decimal.NewFromInt(2500000)) {
			t.Errorf("Expected initial_amount 2500000, got %s", updated.InitialAmount)
		}
	})

	t.Run("returns 400 when changing the currency of an active group", func(t *testing.T) {
		handler, db := setupFundingGroupHandler(t)
		group := testutil.NewFundingGroup().Build(t, db)
		testutil.NewTransaction(group.Name).Build(t, db)

		body := `{"currency": "USD", "initial_amount": 1000000}`

		req := testutil.NewRequestWithURLParamsAndBody(
			http.MethodPut,
			"/api/funding-groups/"+group.Name,
			map[string]string{"name": group.Name},
			body,
		)
		w := httptest.NewRecorder()

		handler.Update(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestFundingGroupHandler_Delete(t *testing.T) {
	t.Run("deletes an unused group", func(t *testing.T) {
		handler, db := setupFundingGroupHandler(t)
		group := testutil.NewFundingGroup().Build(t, db)

		req := testutil.NewRequestWithURLParams(
			http.MethodDelete,
			"/api/funding-groups/"+group.Name,
			map[string]string{"name": group.Name},
		)
		w := httptest.NewRecorder()

		handler.Delete(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("Expected 204, got %d: %s", w.Code, w.Body.String())
		}
		testutil.AssertRowCount(t, db, "funding_groups", 0)
	})

	t.Run("returns 409 for a group with transactions", func(t *testing.T) {
		handler, db := setupFundingGroupHandler(t)
		group := testutil.NewFundingGroup().Build(t, db)
		testutil.NewTransaction(group.Name).Build(t, db)

		req := testutil.NewRequestWithURLParams(
			http.MethodDelete,
			"/api/funding-groups/"+group.Name,
			map[string]string{"name": group.Name},
		)
		w := httptest.NewRecorder()

		handler.Delete(w, req)

		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
		}
		testutil.AssertRowCount(t, db, "funding_groups", 1)
	})
}

func TestFundingGroupHandler_Adjustments(t *testing.T) {
	t.Run("records an adjustment", func(t *testing.T) {
		handler, db := setupFundingGroupHandler(t)
		group := testutil.NewFundingGroup().Build(t, db)

		body := `{"amount": 500000, "effective_date": "2025-02-01"}`

		req := testutil.NewRequestWithURLParamsAndBody(
			http.MethodPost,
			"/api/funding-groups/"+group.Name+"/adjustments",
			map[string]string{"name": group.Name},
			body,
		)
		w := httptest.NewRecorder()

		handler.CreateAdjustment(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var created model.CapitalAdjustment
		if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if created.ID == "" {
			t.Error("Expected a generated ID")
		}
		if created.EffectiveDate.String() != "2025-02-01" {
			t.Errorf("Expected effective_date 2025-02-01, got %s", created.EffectiveDate)
		}
	})

	t.Run("lists adjustments for a group", func(t *testing.T) {
		handler, db := setupFundingGroupHandler(t)
		group := testutil.NewFundingGroup().Build(t, db)
		testutil.NewAdjustment(group.Name).Build(t, db)
		testutil.NewAdjustment(group.Name).WithAmount("-50000").Build(t, db)

		req := testutil.NewRequestWithURLParams(
			http.MethodGet,
			"/api/funding-groups/"+group.Name+"/adjustments",
			map[string]string{"name": group.Name},
		)
		w := httptest.NewRecorder()

		handler.ListAdjustments(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var adjustments []model.CapitalAdjustment
		if err := json.NewDecoder(w.Body).Decode(&adjustments); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(adjustments) != 2 {
			t.Errorf("Expected 2 adjustments, got %d", len(adjustments))
		}
	})

	t.Run("deletes an adjustment", func(t *testing.T) {
		handler, db := setupFundingGroupHandler(t)
		group := testutil.NewFundingGroup().Build(t, db)
		adjustment := testutil.NewAdjustment(group.Name).Build(t, db)

		req := testutil.NewRequestWithURLParams(
			http.MethodDelete,
			"/api/funding-groups/adjustments/"+adjustment.ID,
			map[string]string{"uuid": adjustment.ID},
		)
		w := httptest.NewRecorder()

		handler.DeleteAdjustment(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("Expected 204, got %d: %s", w.Code, w.Body.String())
		}
		testutil.AssertRowCount(t, db, "capital_adjustments", 0)
	})
}
