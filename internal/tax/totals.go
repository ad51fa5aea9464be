package tax

import "github.com/shopspring/decimal"

// Totals is the invoice-level aggregate over resolved lines.
type Totals struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	TotalCGST     decimal.Decimal `json:"total_cgst"`
	TotalSGST     decimal.Decimal `json:"total_sgst"`
	TotalIGST     decimal.Decimal `json:"total_igst"`
	TotalTax      decimal.Decimal `json:"total_tax"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}

// Aggregate folds resolved lines into invoice totals. Order does not matter.
func Aggregate(lines []ResolvedLineItem) Totals {
	var t Totals
	for _, line := range lines {
		t.Subtotal = t.Subtotal.Add(line.Gross)
		t.TotalDiscount = t.TotalDiscount.Add(line.Discount)
		t.TotalCGST = t.TotalCGST.Add(line.CGSTAmount)
		t.TotalSGST = t.TotalSGST.Add(line.SGSTAmount)
		t.TotalIGST = t.TotalIGST.Add(line.IGSTAmount)
		t.GrandTotal = t.GrandTotal.Add(line.Final)
	}
	t.TotalTax = t.TotalCGST.Add(t.TotalSGST).Add(t.TotalIGST)
	return t
}

// Add returns the component-wise sum of two totals.
func (t Totals) Add(other Totals) Totals {
	return Totals{
		Subtotal:      t.Subtotal.Add(other.Subtotal),
		TotalDiscount: t.TotalDiscount.Add(other.TotalDiscount),
		TotalCGST:     t.TotalCGST.Add(other.TotalCGST),
		TotalSGST:     t.TotalSGST.Add(other.TotalSGST),
		TotalIGST:     t.TotalIGST.Add(other.TotalIGST),
		TotalTax:      t.TotalTax.Add(other.TotalTax),
		GrandTotal:    t.GrandTotal.Add(other.GrandTotal),
	}
}

// Rounded returns a copy with every total rounded to two places. As with
// lines, TotalSGST takes the remainder so the three components sum to
// TotalTax.
func (t Totals) Rounded() Totals {
	out := Totals{
		Subtotal:      t.Subtotal.Round(2),
		TotalDiscount: t.TotalDiscount.Round(2),
		GrandTotal:    t.GrandTotal.Round(2),
	}
	out.TotalTax, out.TotalCGST, out.TotalSGST, out.TotalIGST = roundSplit(t.TotalTax, t.TotalCGST, t.TotalIGST)
	return out
}
