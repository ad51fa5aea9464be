package tax

import (
	"github.com/shopspring/decimal"
)

// inclusivePrecision bounds the back-solve division for inclusive rates.
const inclusivePrecision = 28

var (
	one  = decimal.NewFromInt(1)
	half = decimal.RequireFromString("0.5")
)

// LineItemInput is the engine input for a single invoice line.
type LineItemInput struct {
	Quantity   decimal.Decimal
	Rate       decimal.Decimal
	Discount   decimal.Decimal
	RateSource RateSource
	Mode       RateMode
	Regime     Regime
}

// ResolvedLineItem holds every amount derived from a LineItemInput.
// Values are unrounded; use Rounded for presentation.
type ResolvedLineItem struct {
	Mode          RateMode        `json:"rate_mode"`
	Regime        Regime          `json:"regime"`
	EffectiveRate decimal.Decimal `json:"gst_percent"`

	Gross    decimal.Decimal `json:"total"`
	Discount decimal.Decimal `json:"discount_amount"`
	Taxable  decimal.Decimal `json:"taxable_amount"`
	Tax      decimal.Decimal `json:"tax_amount"`
	Final    decimal.Decimal `json:"final_amount"`

	CGSTPercent decimal.Decimal `json:"cgst_percent"`
	SGSTPercent decimal.Decimal `json:"sgst_percent"`
	IGSTPercent decimal.Decimal `json:"igst_percent"`
	CGSTAmount  decimal.Decimal `json:"cgst_amount"`
	SGSTAmount  decimal.Decimal `json:"sgst_amount"`
	IGSTAmount  decimal.Decimal `json:"igst_amount"`
}

// Resolve computes taxable value, tax split and final amount for one line.
// It accepts any numeric input, including zero or negative values. An
// inclusive line at -100% has no back-solved base; it is treated as fully
// taxable with zero tax.
func Resolve(in LineItemInput) ResolvedLineItem {
	rate := in.RateSource.Percent()
	gross := in.Quantity.Mul(in.Rate)

	var taxable, tax, final decimal.Decimal
	switch in.Mode {
	case RateModeInclusive:
		net := gross.Sub(in.Discount)
		if divisor := one.Add(rate.Shift(-2)); divisor.IsZero() {
			taxable = net
		} else {
			taxable = net.DivRound(divisor, inclusivePrecision)
		}
		tax = net.Sub(taxable)
		final = net
	default:
		taxable = gross.Sub(in.Discount)
		tax = taxable.Mul(rate).Shift(-2)
		final = taxable.Add(tax)
	}

	out := ResolvedLineItem{
		Mode:          in.Mode,
		Regime:        in.Regime,
		EffectiveRate: rate,
		Gross:         gross,
		Discount:      in.Discount,
		Taxable:       taxable,
		Tax:           tax,
		Final:         final,
	}
	if !in.Mode.Valid() {
		out.Mode = RateModeExclusive
	}

	if in.Regime == RegimeInterState {
		out.IGSTPercent = rate
		out.IGSTAmount = tax
		return out
	}

	out.Regime = RegimeIntraState
	out.CGSTPercent = rate.Mul(half)
	out.SGSTPercent = rate.Mul(half)
	out.CGSTAmount = tax.Mul(half)
	out.SGSTAmount = tax.Mul(half)
	return out
}

// Rounded returns a copy with monetary fields rounded to two places. The
// rounded components always add up to the rounded tax: SGST absorbs the
// odd paisa of an intra-state split.
func (r ResolvedLineItem) Rounded() ResolvedLineItem {
	r.Gross = r.Gross.Round(2)
	r.Discount = r.Discount.Round(2)
	r.Taxable = r.Taxable.Round(2)
	r.Final = r.Final.Round(2)
	r.Tax, r.CGSTAmount, r.SGSTAmount, r.IGSTAmount = roundSplit(r.Tax, r.CGSTAmount, r.IGSTAmount)
	return r
}

// roundSplit rounds tax, cgst and igst to two places and derives sgst as
// the remainder, so cgst+sgst+igst equals the rounded tax exactly.
func roundSplit(tax, cgst, igst decimal.Decimal) (decimal.Decimal, decimal.Decimal, decimal.Decimal, decimal.Decimal) {
	tax = tax.Round(2)
	cgst = cgst.Round(2)
	igst = igst.Round(2)
	return tax, cgst, tax.Sub(cgst).Sub(igst), igst
}
