package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Range presets accepted by the stats endpoint.
const (
	RangeToday      = "today"
	Range7Days      = "7days"
	Range30Days     = "30days"
	RangeQuarterly  = "quarterly"
	RangeHalfYearly = "halfyearly"
	RangeYearly     = "yearly"
	RangeFY         = "fy"
	RangeCustom     = "custom"
)

// DateRange is a half-open interval [Start, End) over invoice dates.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Due is an invoice with an outstanding balance.
type Due struct {
	InvoiceID     string          `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerName  string          `json:"customer_name"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	PaymentStatus string          `json:"payment_status"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	DueAmount     decimal.Decimal `json:"due_amount"`
}

type Stats struct {
	Range            DateRange       `json:"range"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	TotalPendingDues decimal.Decimal `json:"total_pending_dues"`
	InvoiceCount     int64           `json:"invoice_count"`
	Top5Dues         []Due           `json:"top_5_dues"`
}
