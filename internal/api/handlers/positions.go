package handlers

import (
	"net/http"

	"github.com/kabucount/kabucount/internal/api/response"
	"github.com/kabucount/kabucount/internal/service"
)

// PositionHandler handles position aggregation HTTP requests
type PositionHandler struct {
	positionService *service.PositionService
}

// NewPositionHandler creates a new PositionHandler
func NewPositionHandler(positionService *service.PositionService) *PositionHandler {
	return &PositionHandler{
		positionService: positionService,
	}
}

// List returns the aggregated positions derived from the full ledger.
func (h *PositionHandler) List(w http.ResponseWriter, r *http.Request) {
	positions, err := h.positionService.Positions()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, positions)
}
