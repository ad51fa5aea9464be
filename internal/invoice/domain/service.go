package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gstbilling/internal/tax"
	"github.com/smallbiznis/gstbilling/pkg/db/pagination"
)

// LineRequest is one line as entered on the invoice form. When ProductID is
// set, blank fields are filled from the product catalog.
type LineRequest struct {
	ProductID        string           `json:"product_id"`
	ProductName      string           `json:"product_name"`
	Description      string           `json:"description"`
	HSN              string           `json:"hsn"`
	UOM              string           `json:"uom"`
	Quantity         decimal.Decimal  `json:"qty"`
	Rate             *decimal.Decimal `json:"rate"`
	RateMode         tax.RateMode     `json:"rate_mode"`
	GSTPercent       *decimal.Decimal `json:"gst_percent"`
	CustomGSTPercent *decimal.Decimal `json:"custom_gst_percent"`
	DiscountAmount   decimal.Decimal  `json:"discount_amount"`
}

// CustomerSnapshot carries walk-in customer details when no customer id is given.
type CustomerSnapshot struct {
	Name    string `json:"name"`
	GSTIN   string `json:"gstin"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	State   string `json:"state"`
}

type InvoiceRequest struct {
	CustomerID    string            `json:"customer_id"`
	Customer      *CustomerSnapshot `json:"customer,omitempty"`
	InvoiceDate   *time.Time        `json:"invoice_date"`
	Lines         []LineRequest     `json:"lines"`
	PaymentMethod string            `json:"payment_method"`
	Notes         string            `json:"notes"`
}

type UpdatePaymentRequest struct {
	Status        PaymentStatus    `json:"payment_status"`
	PaymentMethod string           `json:"payment_method"`
	PaidAmount    *decimal.Decimal `json:"paid_amount"`
}

type ListInvoiceRequest struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size"`
	Search    string `form:"search"`
}

type ListInvoiceResponse struct {
	pagination.PageInfo
	Invoices []Invoice `json:"invoices"`
}

// Preview is a resolved but unsaved invoice.
type Preview struct {
	Regime tax.Regime      `json:"regime"`
	Items  []InvoiceItem   `json:"items"`
	Totals tax.Totals      `json:"totals"`
	Words  string          `json:"amount_in_words"`
	Labels []string        `json:"tax_labels"`
	Due    decimal.Decimal `json:"balance_due"`
}

type Service interface {
	Create(context.Context, InvoiceRequest) (Invoice, error)
	Update(ctx context.Context, id string, req InvoiceRequest) (Invoice, error)
	Delete(ctx context.Context, id string) error
	List(context.Context, ListInvoiceRequest) (ListInvoiceResponse, error)
	GetByID(ctx context.Context, id string) (Invoice, error)
	UpdatePayment(ctx context.Context, id string, req UpdatePaymentRequest) (Invoice, error)
	Preview(context.Context, InvoiceRequest) (Preview, error)

	Render(ctx context.Context, id string) ([]byte, error)
	RenderPDF(ctx context.Context, id string) ([]byte, string, error)
	RenderReceipt(ctx context.Context, id string) ([]byte, string, error)
	ExportSpreadsheet(ctx context.Context, id string) ([]byte, string, error)
}

var (
	ErrInvalidID            = errors.New("invalid_id")
	ErrInvalidCustomer      = errors.New("invalid_customer")
	ErrInvalidProduct       = errors.New("invalid_product")
	ErrInvalidLines         = errors.New("invalid_lines")
	ErrInvalidProductName   = errors.New("invalid_product_name")
	ErrInvalidPaymentStatus = errors.New("invalid_payment_status")
	ErrInvalidPaidAmount    = errors.New("invalid_paid_amount")
	ErrNumberTemplate       = errors.New("invalid_number_template")
	ErrNotFound             = errors.New("not_found")
)
