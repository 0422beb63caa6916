package handlers

import (
	"net/http"

	"github.com/kabucount/kabucount/internal/api/response"
	"github.com/kabucount/kabucount/internal/service"
)

// FundHandler handles fund snapshot HTTP requests
type FundHandler struct {
	fundService    *service.FundService
	historyService *service.HistoryService
}

// NewFundHandler creates a new FundHandler
func NewFundHandler(fundService *service.FundService, historyService *service.HistoryService) *FundHandler {
	return &FundHandler{
		fundService:    fundService,
		historyService: historyService,
	}
}

// Snapshots returns the current state of every funding group plus the
// per-currency aggregates.
func (h *FundHandler) Snapshots(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.fundService.Snapshots()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, snapshots)
}

// History returns the materialized daily history, optionally filtered with
// the funding_group query parameter.
func (h *FundHandler) History(w http.ResponseWriter, r *http.Request) {
	points, err := h.historyService.List(r.URL.Query().Get("funding_group"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, points)
}
