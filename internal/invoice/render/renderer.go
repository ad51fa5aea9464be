package render

import (
	"time"

	"github.com/shopspring/decimal"
)

// RenderInput carries everything the printable invoice needs.
type RenderInput struct {
	Seller   PartyView
	Customer PartyView
	Invoice  InvoiceView
	Items    []LineItemView
}

type PartyView struct {
	Name    string
	GSTIN   string
	PAN     string
	Address string
	State   string
	Phone   string
	Email   string
}

type InvoiceView struct {
	Number        string
	Date          time.Time
	Interstate    bool
	Subtotal      decimal.Decimal
	TotalDiscount decimal.Decimal
	TotalCGST     decimal.Decimal
	TotalSGST     decimal.Decimal
	TotalIGST     decimal.Decimal
	TotalTax      decimal.Decimal
	GrandTotal    decimal.Decimal
	PaidAmount    decimal.Decimal
	BalanceDue    decimal.Decimal
	PaymentStatus string
	PaymentMethod string
	AmountInWords string
	Notes         string
}

type LineItemView struct {
	Position    int
	Title       string
	SubTitle    string
	HSN         string
	UOM         string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
	RateMode    string
	Discount    decimal.Decimal
	Taxable     decimal.Decimal
	GSTPercent  decimal.Decimal
	TaxLabel    string
	TaxAmount   decimal.Decimal
	FinalAmount decimal.Decimal
}

type Renderer interface {
	RenderHTML(input RenderInput) (string, error)
}
