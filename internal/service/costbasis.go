package service

import "github.com/shopspring/decimal"

// costBasisState is the running cost-basis bucket the ledger replay engine
// maintains per position. Quantity is signed: positive while long, negative
// while short. AverageCost is the weighted-average entry price of the open
// quantity and is invariant under closes; it only moves when the position
// adds on the same side or flips through zero.
type costBasisState struct {
	quantity    decimal.Decimal
	averageCost decimal.Decimal
	realizedPL  decimal.Decimal
}

// applyBuy books a purchase of qty units for a total of amount and returns
// the realized P&L delta (non-zero only when the buy covers a short).
func (s *costBasisState) applyBuy(qty, amount decimal.Decimal) decimal.Decimal {
	price := amount.Div(qty)

	if s.quantity.IsNegative() {
		// Cover the short first, realizing against the short's entry price.
		cover := decimal.Min(qty, s.quantity.Neg())
		delta := s.averageCost.Sub(price).Mul(cover)
		s.realizedPL = s.realizedPL.Add(delta)
		s.quantity = s.quantity.Add(cover)

		remainder := qty.Sub(cover)
		if s.quantity.IsZero() {
			s.averageCost = decimal.Zero
			if remainder.IsPositive() {
				// Flip through zero: the excess opens a long at the buy price.
				s.quantity = remainder
				s.averageCost = price
			}
		}
		return delta
	}

	newQty := s.quantity.Add(qty)
	s.averageCost = s.averageCost.Mul(s.quantity).Add(amount).Div(newQty)
	s.quantity = newQty
	return decimal.Zero
}

// applySell books a sale of qty units (positive) for a total of amount and
// returns the realized P&L delta (non-zero only when the sale closes a long).
func (s *costBasisState) applySell(qty, amount decimal.Decimal) decimal.Decimal {
	price := amount.Div(qty)

	if s.quantity.IsPositive() {
		closed := decimal.Min(qty, s.quantity)
		delta := price.Sub(s.averageCost).Mul(closed)
		s.realizedPL = s.realizedPL.Add(delta)
		s.quantity = s.quantity.Sub(closed)

		excess := qty.Sub(closed)
		if s.quantity.IsZero() {
			s.averageCost = decimal.Zero
			if excess.IsPositive() {
				// Flip through zero: the excess opens a short at the sale price.
				s.quantity = excess.Neg()
				s.averageCost = price
			}
		}
		return delta
	}

	// Add to (or open) a short; the entry price averages like a long's.
	shortQty := s.quantity.Neg()
	newShort := shortQty.Add(qty)
	s.averageCost = s.averageCost.Mul(shortQty).Add(amount).Div(newShort)
	s.quantity = newShort.Neg()
	return decimal.Zero
}

// apply books one signed-quantity transaction and returns the realized P&L
// delta it produced.
func (s *costBasisState) apply(quantity, amount decimal.Decimal) decimal.Decimal {
	if quantity.IsPositive() {
		return s.applyBuy(quantity, amount)
	}
	return s.applySell(quantity.Neg(), amount)
}

// openCost is the cost basis of the open quantity (negative for shorts).
func (s *costBasisState) openCost() decimal.Decimal {
	return s.averageCost.Mul(s.quantity)
}
