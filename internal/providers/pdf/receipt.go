package pdf

import (
	"context"

	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// ReceiptData acknowledges a payment against an invoice.
type ReceiptData struct {
	InvoiceData
	PaymentMethod string
	AmountPaid    string
	BalanceDue    string
	DatePaid      string
}

func (p *PDFProvider) GenerateReceipt(ctx context.Context, receipt ReceiptData) ([]byte, error) {
	m := newDocument()

	m.AddRow(12,
		text.NewCol(12, "PAYMENT RECEIPT", props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)

	m.AddRow(14,
		col.New(6).Add(
			text.New("Invoice number: "+receipt.InvoiceNumber, props.Text{Size: 9}),
			text.New("Invoice date: "+receipt.InvoiceDate, props.Text{Size: 9, Top: 4}),
		),
		col.New(6).Add(
			text.New("Date: "+receipt.DatePaid, props.Text{Size: 9, Align: align.Right}),
			text.New("Status: "+receipt.PaymentStatus, props.Text{Size: 9, Top: 4, Align: align.Right}),
		),
	)

	addParties(m, receipt.Seller, receipt.Buyer)
	m.AddRow(2, line.NewCol(12))

	addTotal(m, "Invoice total", receipt.GrandTotal, false)
	addTotal(m, "Amount paid", receipt.AmountPaid, true)
	addTotal(m, "Balance due", receipt.BalanceDue, false)

	if receipt.PaymentMethod != "" {
		m.AddRow(10, text.NewCol(12, "Payment method: "+receipt.PaymentMethod, props.Text{Size: 9, Top: 3}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return doc.GetBytes(), nil
}
