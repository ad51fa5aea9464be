package pdf

import (
	"context"
	"errors"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var ErrNoItems = errors.New("invoice has no items")

// Party is a seller or buyer block. Fields are preformatted for print.
type Party struct {
	Name    string
	GSTIN   string
	State   string
	Address string
	Phone   string
	Email   string
}

// InvoiceData is a fully formatted GST tax invoice. Amounts are strings
// so the caller controls rounding and currency formatting.
type InvoiceData struct {
	InvoiceNumber string
	InvoiceDate   string
	PlaceOfSupply string
	Regime        string

	Seller Party
	Buyer  Party

	Items []InvoiceItem

	Subtotal      string
	TotalDiscount string
	TotalCGST     string
	TotalSGST     string
	TotalIGST     string
	GrandTotal    string
	AmountInWords string

	PaymentStatus string
	Notes         string
}

type InvoiceItem struct {
	Name     string
	HSN      string
	Quantity string
	UOM      string
	Rate     string
	Discount string
	Taxable  string
	TaxLabel string
	Tax      string
	Amount   string
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func newDocument() core.Maroto {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()
	return maroto.New(cfg)
}

func (p *PDFProvider) GenerateInvoice(ctx context.Context, invoice InvoiceData) ([]byte, error) {
	if len(invoice.Items) == 0 {
		return nil, ErrNoItems
	}

	m := newDocument()

	m.AddRow(12,
		text.NewCol(12, "TAX INVOICE", props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)

	m.AddRow(14,
		col.New(6).Add(
			text.New("Invoice number: "+invoice.InvoiceNumber, props.Text{Size: 9}),
			text.New("Invoice date: "+invoice.InvoiceDate, props.Text{Size: 9, Top: 4}),
		),
		col.New(6).Add(
			text.New("Place of supply: "+invoice.PlaceOfSupply, props.Text{Size: 9, Align: align.Right}),
			text.New(invoice.Regime, props.Text{Size: 9, Top: 4, Align: align.Right}),
		),
	)

	addParties(m, invoice.Seller, invoice.Buyer)
	m.AddRow(2, line.NewCol(12))

	m.AddRow(8,
		text.NewCol(3, "Item", props.Text{Style: fontstyle.Bold, Size: 8}),
		text.NewCol(1, "HSN", props.Text{Style: fontstyle.Bold, Size: 8}),
		text.NewCol(1, "Qty", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right}),
		text.NewCol(1, "Rate", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right}),
		text.NewCol(1, "Disc.", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right}),
		text.NewCol(1, "Taxable", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right}),
		text.NewCol(2, "Tax", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right}),
	)

	for _, item := range invoice.Items {
		m.AddRow(10,
			text.NewCol(3, item.Name, props.Text{Size: 8}),
			text.NewCol(1, item.HSN, props.Text{Size: 8}),
			text.NewCol(1, item.Quantity+" "+item.UOM, props.Text{Size: 8, Align: align.Right}),
			text.NewCol(1, item.Rate, props.Text{Size: 8, Align: align.Right}),
			text.NewCol(1, item.Discount, props.Text{Size: 8, Align: align.Right}),
			text.NewCol(1, item.Taxable, props.Text{Size: 8, Align: align.Right}),
			col.New(2).Add(
				text.New(item.Tax, props.Text{Size: 8, Align: align.Right}),
				text.New(item.TaxLabel, props.Text{Size: 6, Top: 4, Align: align.Right}),
			),
			text.NewCol(2, item.Amount, props.Text{Size: 8, Align: align.Right}),
		)
	}

	m.AddRow(2, line.NewCol(12))

	addTotal(m, "Subtotal", invoice.Subtotal, false)
	addTotal(m, "Discount", invoice.TotalDiscount, false)
	if invoice.TotalIGST != "" {
		addTotal(m, "IGST", invoice.TotalIGST, false)
	} else {
		addTotal(m, "CGST", invoice.TotalCGST, false)
		addTotal(m, "SGST", invoice.TotalSGST, false)
	}
	addTotal(m, "Grand total", invoice.GrandTotal, true)

	m.AddRow(10,
		text.NewCol(12, "Amount in words: "+invoice.AmountInWords, props.Text{
			Size:  9,
			Style: fontstyle.Italic,
			Top:   3,
		}),
	)

	if invoice.Notes != "" {
		m.AddRow(10, text.NewCol(12, "Notes: "+invoice.Notes, props.Text{Size: 8, Top: 2}))
	}

	m.AddRow(20,
		col.New(8),
		col.New(4).Add(
			text.New("For "+invoice.Seller.Name, props.Text{Size: 9, Align: align.Right}),
			text.New("Authorised signatory", props.Text{Size: 8, Top: 14, Align: align.Right}),
		),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return doc.GetBytes(), nil
}

func addParties(m core.Maroto, seller, buyer Party) {
	m.AddRow(34,
		partyCol("Seller", seller),
		partyCol("Bill to", buyer),
	)
}

func partyCol(title string, party Party) core.Col {
	c := col.New(6).Add(
		text.New(title, props.Text{Size: 8, Style: fontstyle.Bold}),
		text.New(party.Name, props.Text{Size: 9, Top: 4, Style: fontstyle.Bold}),
		text.New(party.Address, props.Text{Size: 8, Top: 9}),
	)
	top := 18.0
	for _, entry := range []string{labelled("GSTIN", party.GSTIN), labelled("State", party.State), labelled("Phone", party.Phone), party.Email} {
		if entry == "" {
			continue
		}
		c.Add(text.New(entry, props.Text{Size: 8, Top: top}))
		top += 4
	}
	return c
}

func labelled(label, value string) string {
	if value == "" {
		return ""
	}
	return label + ": " + value
}

func addTotal(m core.Maroto, label, value string, bold bool) {
	style := fontstyle.Normal
	if bold {
		style = fontstyle.Bold
	}
	m.AddRow(6,
		col.New(8),
		text.NewCol(2, label, props.Text{Size: 9, Style: style}),
		text.NewCol(2, value, props.Text{Size: 9, Style: style, Align: align.Right}),
	)
}
