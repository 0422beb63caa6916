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

// TransactionHandler handles ledger entry HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// List returns every transaction in ledger order.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.transactionService.List()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, transactions)
}

// Get returns a single transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	transaction, err := h.transactionService.Get(chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, transaction)
}

// Create validates and records a new ledger entry.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTransactionRequest
	if !parseJSON(w, r, &req) {
		return
	}
	if err := validation.ValidateCreateTransaction(req); err != nil {
		respondServiceError(w, err)
		return
	}

	tradeDate, _ := model.ParseDate(req.TradeDate)
	transaction := model.Transaction{
		TradeDate:    tradeDate,
		Symbol:       req.Symbol,
		Quantity:     req.Quantity,
		GrossAmount:  req.GrossAmount,
		FundingGroup: req.FundingGroup,
		CashCurrency: model.Currency(req.CashCurrency),
		Market:       model.Market(req.Market),
		Memo:         req.Memo,
	}
	if req.Taxed != nil {
		transaction.Taxed = model.TaxStatus(*req.Taxed)
	}

	created, err := h.transactionService.Create(r.Context(), &transaction)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusCreated, created)
}

// Update replaces an existing ledger entry.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateTransactionRequest
	if !parseJSON(w, r, &req) {
		return
	}
	if err := validation.ValidateUpdateTransaction(req); err != nil {
		respondServiceError(w, err)
		return
	}

	tradeDate, _ := model.ParseDate(req.TradeDate)
	transaction := model.Transaction{
		ID:           chi.URLParam(r, "uuid"),
		TradeDate:    tradeDate,
		Symbol:       req.Symbol,
		Quantity:     req.Quantity,
		GrossAmount:  req.GrossAmount,
		FundingGroup: req.FundingGroup,
		CashCurrency: model.Currency(req.CashCurrency),
		Market:       model.Market(req.Market),
		Memo:         req.Memo,
	}
	if req.Taxed != nil {
		transaction.Taxed = model.TaxStatus(*req.Taxed)
	}

	updated, err := h.transactionService.Update(r.Context(), &transaction)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, updated)
}

// Delete removes a ledger entry.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.transactionService.Delete(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusNoContent, nil)
}

// RoundTripYield analyses the closed trade cycle formed by the selected
// transactions.
func (h *TransactionHandler) RoundTripYield(w http.ResponseWriter, r *http.Request) {
	var req request.RoundTripYieldRequest
	if !parseJSON(w, r, &req) {
		return
	}
	if err := validation.ValidateRoundTripYield(req); err != nil {
		respondServiceError(w, err)
		return
	}

	result, err := h.transactionService.RoundTripYield(req.TransactionIDs)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, result)
}
