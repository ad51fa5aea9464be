// Package domain contains persistence models for GST invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gstbilling/internal/tax"
)

// PaymentStatus tracks how much of the grand total has been received.
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPartial, PaymentStatusPaid:
		return true
	default:
		return false
	}
}

// Invoice is a persisted GST invoice. Customer fields are snapshotted at
// save time so later customer edits do not alter issued invoices.
type Invoice struct {
	ID              snowflake.ID  `gorm:"primaryKey" json:"id"`
	InvoiceNumber   string        `gorm:"type:text;not null;uniqueIndex:invoices_invoice_number_key" json:"invoice_number"`
	InvoiceDate     time.Time     `gorm:"not null;index" json:"invoice_date"`
	CustomerID      *snowflake.ID `gorm:"index" json:"customer_id,omitempty"`
	CustomerName    string        `gorm:"type:text;not null;default:''" json:"customer_name"`
	CustomerGSTIN   string        `gorm:"column:customer_gstin;type:text;not null;default:''" json:"customer_gstin"`
	CustomerAddress string        `gorm:"type:text;not null;default:''" json:"customer_address"`
	CustomerPhone   string        `gorm:"type:text;not null;default:''" json:"customer_phone"`
	CustomerState   string        `gorm:"type:text;not null;default:''" json:"customer_state"`
	SellerState     string        `gorm:"type:text;not null;default:''" json:"seller_state"`
	Regime          tax.Regime    `gorm:"type:text;not null" json:"regime"`

	Subtotal      decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"subtotal"`
	TotalDiscount decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"total_discount"`
	TotalCGST     decimal.Decimal `gorm:"column:total_cgst;type:numeric(18,2);not null;default:0" json:"total_cgst"`
	TotalSGST     decimal.Decimal `gorm:"column:total_sgst;type:numeric(18,2);not null;default:0" json:"total_sgst"`
	TotalIGST     decimal.Decimal `gorm:"column:total_igst;type:numeric(18,2);not null;default:0" json:"total_igst"`
	TotalTax      decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"total_tax"`
	GrandTotal    decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"grand_total"`

	PaidAmount    decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"paid_amount"`
	PaymentMethod string          `gorm:"type:text;not null;default:''" json:"payment_method"`
	PaymentStatus PaymentStatus   `gorm:"type:text;not null;default:'unpaid';index" json:"payment_status"`
	Notes         string          `gorm:"type:text;not null;default:''" json:"notes"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false" json:"updated_at"`

	Items []InvoiceItem `gorm:"-" json:"items"`
}

func (Invoice) TableName() string { return "invoices" }

// Totals returns the persisted totals in engine form.
func (i Invoice) Totals() tax.Totals {
	return tax.Totals{
		Subtotal:      i.Subtotal,
		TotalDiscount: i.TotalDiscount,
		TotalCGST:     i.TotalCGST,
		TotalSGST:     i.TotalSGST,
		TotalIGST:     i.TotalIGST,
		TotalTax:      i.TotalTax,
		GrandTotal:    i.GrandTotal,
	}
}

// BalanceDue is the grand total less what has been paid, never negative.
func (i Invoice) BalanceDue() decimal.Decimal {
	due := i.GrandTotal.Sub(i.PaidAmount)
	if due.IsNegative() {
		return decimal.Zero
	}
	return due
}

// InvoiceItem is one resolved line. Amounts are rounded to paise on save.
type InvoiceItem struct {
	ID          snowflake.ID       `gorm:"primaryKey" json:"id"`
	InvoiceID   snowflake.ID       `gorm:"not null;index" json:"invoice_id"`
	Position    int                `gorm:"not null" json:"position"`
	ProductID   *snowflake.ID      `json:"product_id,omitempty"`
	ProductName string             `gorm:"type:text;not null" json:"product_name"`
	Description string             `gorm:"type:text;not null;default:''" json:"description"`
	HSN         string             `gorm:"column:hsn;type:text;not null;default:''" json:"hsn"`
	UOM         string             `gorm:"column:uom;type:text;not null;default:'pcs'" json:"uom"`
	Quantity    decimal.Decimal    `gorm:"type:numeric(18,3);not null" json:"qty"`
	Rate        decimal.Decimal    `gorm:"type:numeric(18,4);not null" json:"rate"`
	RateMode    tax.RateMode       `gorm:"type:text;not null" json:"rate_mode"`
	RateSource  tax.RateSourceKind `gorm:"type:text;not null;default:'preset'" json:"rate_source"`
	GSTPercent  decimal.Decimal    `gorm:"column:gst_percent;type:numeric(7,3);not null" json:"gst_percent"`

	Total          decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"total"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"discount_amount"`
	TaxableAmount  decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"taxable_amount"`
	CGSTPercent    decimal.Decimal `gorm:"column:cgst_percent;type:numeric(7,3);not null;default:0" json:"cgst_percent"`
	CGSTAmount     decimal.Decimal `gorm:"column:cgst_amount;type:numeric(18,2);not null;default:0" json:"cgst_amount"`
	SGSTPercent    decimal.Decimal `gorm:"column:sgst_percent;type:numeric(7,3);not null;default:0" json:"sgst_percent"`
	SGSTAmount     decimal.Decimal `gorm:"column:sgst_amount;type:numeric(18,2);not null;default:0" json:"sgst_amount"`
	IGSTPercent    decimal.Decimal `gorm:"column:igst_percent;type:numeric(7,3);not null;default:0" json:"igst_percent"`
	IGSTAmount     decimal.Decimal `gorm:"column:igst_amount;type:numeric(18,2);not null;default:0" json:"igst_amount"`
	TaxAmount      decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"tax_amount"`
	FinalAmount    decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"final_amount"`
}

func (InvoiceItem) TableName() string { return "invoice_items" }

// TaxLabel describes the item's tax split, e.g. "CGST 9% + SGST 9%".
func (it InvoiceItem) TaxLabel(regime tax.Regime) string {
	return tax.Label(it.Resolved(regime))
}

// Resolved converts the persisted item back into engine form.
func (it InvoiceItem) Resolved(regime tax.Regime) tax.ResolvedLineItem {
	return tax.ResolvedLineItem{
		Mode:          it.RateMode,
		Regime:        regime,
		EffectiveRate: it.GSTPercent,
		Gross:         it.Total,
		Discount:      it.DiscountAmount,
		Taxable:       it.TaxableAmount,
		Tax:           it.TaxAmount,
		Final:         it.FinalAmount,
		CGSTPercent:   it.CGSTPercent,
		SGSTPercent:   it.SGSTPercent,
		IGSTPercent:   it.IGSTPercent,
		CGSTAmount:    it.CGSTAmount,
		SGSTAmount:    it.SGSTAmount,
		IGSTAmount:    it.IGSTAmount,
	}
}
