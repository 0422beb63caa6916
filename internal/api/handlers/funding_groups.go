package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/kabucount/kabucount/internal/api/request"
	"github.com/kabucount/kabucount/internal/api/response"
	"github.com/kabucount/kabucount/internal/model"
	"github.com/kabucount/kabucount/internal/service"
	"github.com/kabucount/kabucount/internal/validation"
)

// FundingGroupHandler handles funding group HTTP requests
type FundingGroupHandler struct {
	groupService *service.FundingGroupService
}

// NewFundingGroupHandler creates a new FundingGroupHandler
func NewFundingGroupHandler(groupService *service.FundingGroupService) *FundingGroupHandler {
	return &FundingGroupHandler{
		groupService: groupService,
	}
}

// groupName extracts the funding group name from the URL path. Names may
// contain spaces, so the path segment is percent-encoded on the wire.
func groupName(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

// List returns every funding group.
func (h *FundingGroupHandler) List(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groupService.List()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, groups)
}

// Get returns one funding group by name.
func (h *FundingGroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	group, err := h.groupService.Get(groupName(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, group)
}

// Create records a new funding group.
func (h *FundingGroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateFundingGroupRequest
	if !parseJSON(w, r, &req) {
		return
	}
	if err := validation.ValidateCreateFundingGroup(req); err != nil {
		respondServiceError(w, err)
		return
	}

	group := model.FundingGroup{
		Name:          req.Name,
		Currency:      model.Currency(req.Currency),
		InitialAmount: req.InitialAmount,
		Notes:         req.Notes,
	}

	created, err := h.groupService.Create(r.Context(), &group)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusCreated, created)
}

// Update replaces a funding group's mutable fields.
func (h *FundingGroupHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateFundingGroupRequest
	if !parseJSON(w, r, &req) {
		return
	}
	if err := validation.ValidateUpdateFundingGroup(req); err != nil {
		respondServiceError(w, err)
		return
	}

	group := model.FundingGroup{
		Name:          groupName(r),
		Currency:      model.Currency(req.Currency),
		InitialAmount: req.InitialAmount,
		Notes:         req.Notes,
	}

	updated, err := h.groupService.Update(r.Context(), &group)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, updated)
}

// Delete removes an unused funding group.
func (h *FundingGroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.groupService.Delete(r.Context(), groupName(r)); err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusNoContent, nil)
}

// ListAdjustments returns the capital adjustments of one funding group.
func (h *FundingGroupHandler) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	adjustments, err := h.groupService.ListAdjustments(groupName(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, adjustments)
}

// CreateAdjustment records a capital deposit or withdrawal.
func (h *FundingGroupHandler) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	var req request.CreateAdjustmentRequest
	if !parseJSON(w, r, &req) {
		return
	}
	if err := validation.ValidateCreateAdjustment(req); err != nil {
		respondServiceError(w, err)
		return
	}

	adjustment := model.CapitalAdjustment{
		FundingGroup: groupName(r),
		Amount:       req.Amount,
		Notes:        req.Notes,
	}
	if req.EffectiveDate != nil {
		date, _ := model.ParseDate(*req.EffectiveDate)
		adjustment.EffectiveDate = date
	}

	created, err := h.groupService.AddAdjustment(r.Context(), &adjustment)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusCreated, created)
}

// DeleteAdjustment removes a capital adjustment.
func (h *FundingGroupHandler) DeleteAdjustment(w http.ResponseWriter, r *http.Request) {
	if err := h.groupService.DeleteAdjustment(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusNoContent, nil)
}
