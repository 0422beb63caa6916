package validation

import (
	"fmt"
	"strings"

	"github.com/kabucount/kabucount/internal/api/request"
	"github.com/kabucount/kabucount/internal/model"
)

// ValidateCreateFundingGroup validates a funding group creation request.
//
// Required fields:
//   - name: non-blank
//   - currency: JPY or USD
//   - initial_amount: non-negative
func ValidateCreateFundingGroup(req request.CreateFundingGroupRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	}

	if !model.Currency(req.Currency).Valid() {
		errors["currency"] = fmt.Sprintf("invalid currency: %s", req.Currency)
	}

	if req.InitialAmount.IsNegative() {
		errors["initial_amount"] = "initial_amount must not be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateUpdateFundingGroup validates a funding group replacement request.
func ValidateUpdateFundingGroup(req request.UpdateFundingGroupRequest) error {
	errors := make(map[string]string)

	if !model.Currency(req.Currency).Valid() {
		errors["currency"] = fmt.Sprintf("invalid currency: %s", req.Currency)
	}

	if req.InitialAmount.IsNegative() {
		errors["initial_amount"] = "initial_amount must not be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateCreateAdjustment validates a capital adjustment request. The amount
// may be negative (a withdrawal) but not zero.
func ValidateCreateAdjustment(req request.CreateAdjustmentRequest) error {
	errors := make(map[string]string)

	if req.Amount.IsZero() {
		errors["amount"] = "amount must be non-zero"
	}

	if req.EffectiveDate != nil {
		if _, err := model.ParseDate(*req.EffectiveDate); err != nil {
			errors["effective_date"] = err.Error()
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
