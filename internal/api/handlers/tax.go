package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kabucount/kabucount/internal/api/request"
	"github.com/kabucount/kabucount/internal/api/response"
	"github.com/kabucount/kabucount/internal/model"
	"github.com/kabucount/kabucount/internal/service"
	"github.com/kabucount/kabucount/internal/validation"
)

// TaxHandler handles tax settlement HTTP requests
type TaxHandler struct {
	taxService *service.TaxService
}

// NewTaxHandler creates a new TaxHandler
func NewTaxHandler(taxService *service.TaxService) *TaxHandler {
	return &TaxHandler{
		taxService: taxService,
	}
}

// List returns every settlement ordered by recording date.
func (h *TaxHandler) List(w http.ResponseWriter, r *http.Request) {
	settlements, err := h.taxService.List()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, settlements)
}

// Get returns a single settlement by ID.
func (h *TaxHandler) Get(w http.ResponseWriter, r *http.Request) {
	settlement, err := h.taxService.Get(chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, settlement)
}

// Create records a tax settlement against a transaction.
func (h *TaxHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTaxSettlementRequest
	if !parseJSON(w, r, &req) {
		return
	}
	if err := validation.ValidateCreateTaxSettlement(req); err != nil {
		respondServiceError(w, err)
		return
	}

	record := model.TaxSettlementRecord{
		TransactionID: req.TransactionID,
		Amount:        req.Amount,
		ExchangeRate:  req.ExchangeRate,
	}
	if req.FundingGroup != nil {
		record.FundingGroup = *req.FundingGroup
	}
	if req.Currency != nil {
		record.Currency = model.Currency(*req.Currency)
	}
	if req.RecordedAt != nil {
		date, _ := model.ParseDate(*req.RecordedAt)
		record.RecordedAt = date
	}

	created, err := h.taxService.Settle(r.Context(), &record)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusCreated, created)
}

// Update amends the amount or exchange rate of an existing settlement.
func (h *TaxHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateTaxSettlementRequest
	if !parseJSON(w, r, &req) {
		return
	}
	if err := validation.ValidateUpdateTaxSettlement(req); err != nil {
		respondServiceError(w, err)
		return
	}

	record := model.TaxSettlementRecord{
		ID:           chi.URLParam(r, "uuid"),
		Amount:       req.Amount,
		ExchangeRate: req.ExchangeRate,
	}
	if req.FundingGroup != nil {
		record.FundingGroup = *req.FundingGroup
	}

	updated, err := h.taxService.Update(r.Context(), &record)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, updated)
}

// Delete removes a settlement and restores the transaction's taxed flag.
func (h *TaxHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.taxService.Delete(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusNoContent, nil)
}
