package tax

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Validate is the strict input check. Resolve never calls it.
func Validate(in LineItemInput) error {
	if !in.Quantity.IsPositive() {
		return ErrInvalidQuantity
	}
	if in.Rate.IsNegative() {
		return ErrInvalidRate
	}
	rate := in.RateSource.Percent()
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return ErrInvalidTaxRate
	}
	if in.Discount.IsNegative() || in.Discount.GreaterThan(in.Quantity.Mul(in.Rate)) {
		return ErrInvalidDiscount
	}
	if !in.Mode.Valid() {
		return ErrInvalidRateMode
	}
	if !in.Regime.Valid() {
		return ErrInvalidRegime
	}
	return nil
}
