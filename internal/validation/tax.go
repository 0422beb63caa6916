package validation

import (
	"fmt"

	"github.com/kabucount/kabucount/internal/api/request"
	"github.com/kabucount/kabucount/internal/model"
)

// ValidateCreateTaxSettlement validates a settlement creation request.
//
// Required fields:
//   - transaction_id: valid UUID
//   - amount: positive
//
// exchange_rate, when present, must be positive; whether it is required
// depends on the funding group's currency and is checked by the service, as
// is the currency matching the group's.
func ValidateCreateTaxSettlement(req request.CreateTaxSettlementRequest) error {
	errors := make(map[string]string)

	if err := ValidateUUID(req.TransactionID); err != nil {
		errors["transaction_id"] = err.Error()
	}

	if !req.Amount.IsPositive() {
		errors["amount"] = "amount must be positive"
	}

	if req.Currency != nil && !model.Currency(*req.Currency).Valid() {
		errors["currency"] = fmt.Sprintf("invalid currency: %s", *req.Currency)
	}

	if req.ExchangeRate != nil && !req.ExchangeRate.IsPositive() {
		errors["exchange_rate"] = "exchange_rate must be positive"
	}

	if req.RecordedAt != nil {
		if _, err := model.ParseDate(*req.RecordedAt); err != nil {
			errors["recorded_at"] = err.Error()
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateUpdateTaxSettlement validates a settlement amendment request.
func ValidateUpdateTaxSettlement(req request.UpdateTaxSettlementRequest) error {
	errors := make(map[string]string)

	if !req.Amount.IsPositive() {
		errors["amount"] = "amount must be positive"
	}

	if req.ExchangeRate != nil && !req.ExchangeRate.IsPositive() {
		errors["exchange_rate"] = "exchange_rate must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
