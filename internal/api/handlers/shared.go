package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kabucount/kabucount/internal/api/response"
	"github.com/kabucount/kabucount/internal/apperrors"
	"github.com/kabucount/kabucount/internal/validation"
)

// parseJSON decodes a request body into the target type, rejecting unknown
// fields. On failure it writes the 400 response itself and returns false.
func parseJSON[T any](w http.ResponseWriter, r *http.Request, target *T) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// respondServiceError maps a service-layer error to its HTTP status.
// Not-found errors map to 404, conflicts with existing state to 409, rule
// violations to 400 and everything else to 500.
func respondServiceError(w http.ResponseWriter, err error) {
	var validationErr *validation.Error
	if errors.As(err, &validationErr) {
		response.RespondError(w, http.StatusBadRequest, validationErr.Error())
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrTransactionNotFound),
		errors.Is(err, apperrors.ErrFundingGroupNotFound),
		errors.Is(err, apperrors.ErrSettlementNotFound),
		errors.Is(err, apperrors.ErrAdjustmentNotFound):
		response.RespondError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, apperrors.ErrTransactionImmutable),
		errors.Is(err, apperrors.ErrFundingGroupInUse),
		errors.Is(err, apperrors.ErrDuplicateFundingGroup),
		errors.Is(err, apperrors.ErrAlreadySettled),
		errors.Is(err, apperrors.ErrSettlementAttached):
		response.RespondError(w, http.StatusConflict, err.Error())

	case errors.Is(err, apperrors.ErrCurrencyMismatch),
		errors.Is(err, apperrors.ErrCurrencyLocked),
		errors.Is(err, apperrors.ErrInsufficientPosition),
		errors.Is(err, apperrors.ErrInvalidRoundTrip),
		errors.Is(err, apperrors.ErrMissingExchangeRate),
		errors.Is(err, apperrors.ErrGroupMismatch):
		response.RespondError(w, http.StatusBadRequest, err.Error())

	default:
		response.RespondError(w, http.StatusInternalServerError, err.Error())
	}
}
