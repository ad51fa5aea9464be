package service

import (
	"context"
	"errors"

	businessdomain "github.com/smallbiznis/gstbilling/internal/business/domain"
	"github.com/smallbiznis/gstbilling/internal/invoice/domain"
	"github.com/smallbiznis/gstbilling/internal/invoice/format"
	"github.com/smallbiznis/gstbilling/internal/invoice/render"
	"github.com/smallbiznis/gstbilling/internal/providers/pdf"
	"github.com/smallbiznis/gstbilling/internal/providers/spreadsheet"
	"github.com/smallbiznis/gstbilling/internal/tax"
	"go.uber.org/zap"
)

const dateLayout = "02-01-2006"

var itemSheetHeaders = []string{
	"#", "product", "description", "hsn", "qty", "uom", "rate", "rate_mode", "gst_percent",
	"total", "discount", "taxable", "cgst_percent", "cgst", "sgst_percent", "sgst",
	"igst_percent", "igst", "tax", "amount",
}

func (s *Service) Render(ctx context.Context, id string) ([]byte, error) {
	invoice, seller, err := s.loadForPrint(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.renderer == nil {
		return nil, errors.New("renderer_not_configured")
	}

	html, err := s.renderer.RenderHTML(buildRenderInput(invoice, seller))
	if err != nil {
		return nil, err
	}
	s.metrics.RecordExport(ctx, "html", "invoice")
	return []byte(html), nil
}

func (s *Service) RenderPDF(ctx context.Context, id string) ([]byte, string, error) {
	invoice, seller, err := s.loadForPrint(ctx, id)
	if err != nil {
		return nil, "", err
	}

	out, err := s.pdf.GenerateInvoice(ctx, buildPDFData(invoice, seller))
	if err != nil {
		s.log.Error("failed to generate invoice pdf", zap.Error(err), zap.String("invoice_id", id))
		return nil, "", err
	}
	s.metrics.RecordExport(ctx, "pdf", "invoice")
	return out, pdf.Filename("invoice", invoice.InvoiceNumber), nil
}

// RenderReceipt produces a payment receipt. Unpaid invoices have nothing to
// acknowledge and are rejected.
func (s *Service) RenderReceipt(ctx context.Context, id string) ([]byte, string, error) {
	invoice, seller, err := s.loadForPrint(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if invoice.PaymentStatus == domain.PaymentStatusUnpaid {
		return nil, "", domain.ErrInvalidPaymentStatus
	}

	out, err := s.pdf.GenerateReceipt(ctx, pdf.ReceiptData{
		InvoiceData:   buildPDFData(invoice, seller),
		PaymentMethod: invoice.PaymentMethod,
		AmountPaid:    format.Rupees(invoice.PaidAmount),
		BalanceDue:    format.Rupees(invoice.BalanceDue()),
		DatePaid:      invoice.UpdatedAt.Format(dateLayout),
	})
	if err != nil {
		return nil, "", err
	}
	s.metrics.RecordExport(ctx, "pdf", "receipt")
	return out, pdf.Filename("receipt", invoice.InvoiceNumber), nil
}

func (s *Service) ExportSpreadsheet(ctx context.Context, id string) ([]byte, string, error) {
	invoice, _, err := s.loadForPrint(ctx, id)
	if err != nil {
		return nil, "", err
	}

	summary := spreadsheet.Table{
		Sheet:   "Invoice",
		Headers: []string{"field", "value"},
		Rows: [][]any{
			{"invoice_number", invoice.InvoiceNumber},
			{"invoice_date", invoice.InvoiceDate.Format(dateLayout)},
			{"customer_name", invoice.CustomerName},
			{"customer_gstin", invoice.CustomerGSTIN},
			{"customer_address", invoice.CustomerAddress},
			{"customer_state", invoice.CustomerState},
			{"seller_state", invoice.SellerState},
			{"regime", string(invoice.Regime)},
			{"payment_status", string(invoice.PaymentStatus)},
			{"payment_method", invoice.PaymentMethod},
			{"paid_amount", invoice.PaidAmount.InexactFloat64()},
		},
	}

	items := spreadsheet.Table{Sheet: "Items", Headers: itemSheetHeaders}
	for _, it := range invoice.Items {
		items.Rows = append(items.Rows, []any{
			it.Position, it.ProductName, it.Description, it.HSN,
			it.Quantity.InexactFloat64(), it.UOM, it.Rate.InexactFloat64(), string(it.RateMode),
			it.GSTPercent.InexactFloat64(), it.Total.InexactFloat64(), it.DiscountAmount.InexactFloat64(),
			it.TaxableAmount.InexactFloat64(), it.CGSTPercent.InexactFloat64(), it.CGSTAmount.InexactFloat64(),
			it.SGSTPercent.InexactFloat64(), it.SGSTAmount.InexactFloat64(), it.IGSTPercent.InexactFloat64(),
			it.IGSTAmount.InexactFloat64(), it.TaxAmount.InexactFloat64(), it.FinalAmount.InexactFloat64(),
		})
	}
	totals := invoice.Totals()
	items.Footer = [][]any{
		{"", "Subtotal", "", "", "", "", "", "", "", totals.Subtotal.InexactFloat64()},
		{"", "Discount", "", "", "", "", "", "", "", totals.TotalDiscount.InexactFloat64()},
		{"", "CGST", "", "", "", "", "", "", "", totals.TotalCGST.InexactFloat64()},
		{"", "SGST", "", "", "", "", "", "", "", totals.TotalSGST.InexactFloat64()},
		{"", "IGST", "", "", "", "", "", "", "", totals.TotalIGST.InexactFloat64()},
		{"", "Grand total", "", "", "", "", "", "", "", totals.GrandTotal.InexactFloat64()},
	}

	out, err := s.spreadsheet.Write(summary, items)
	if err != nil {
		return nil, "", err
	}
	s.metrics.RecordExport(ctx, "xlsx", "invoice")
	return out, spreadsheet.Filename("invoice", invoice.InvoiceNumber), nil
}

// loadForPrint fetches the invoice with its items and the seller profile.
// A missing profile prints with an empty seller block.
func (s *Service) loadForPrint(ctx context.Context, id string) (domain.Invoice, businessdomain.Business, error) {
	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Invoice{}, businessdomain.Business{}, err
	}

	seller, err := s.businessSvc.Get(ctx)
	if err != nil && !errors.Is(err, businessdomain.ErrNotFound) {
		return domain.Invoice{}, businessdomain.Business{}, err
	}
	return invoice, seller, nil
}

func buildRenderInput(invoice domain.Invoice, seller businessdomain.Business) render.RenderInput {
	items := make([]render.LineItemView, 0, len(invoice.Items))
	for _, it := range invoice.Items {
		items = append(items, render.LineItemView{
			Position:    it.Position,
			Title:       it.ProductName,
			SubTitle:    it.Description,
			HSN:         it.HSN,
			UOM:         it.UOM,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
			RateMode:    string(it.RateMode),
			Discount:    it.DiscountAmount,
			Taxable:     it.TaxableAmount,
			GSTPercent:  it.GSTPercent,
			TaxLabel:    it.TaxLabel(invoice.Regime),
			TaxAmount:   it.TaxAmount,
			FinalAmount: it.FinalAmount,
		})
	}

	return render.RenderInput{
		Seller: render.PartyView{
			Name:    seller.LegalName,
			GSTIN:   seller.GSTIN,
			PAN:     seller.PAN,
			Address: seller.Address(),
			State:   seller.State,
			Phone:   seller.Phone1,
			Email:   seller.Email1,
		},
		Customer: render.PartyView{
			Name:    invoice.CustomerName,
			GSTIN:   invoice.CustomerGSTIN,
			Address: invoice.CustomerAddress,
			State:   invoice.CustomerState,
			Phone:   invoice.CustomerPhone,
		},
		Invoice: render.InvoiceView{
			Number:        invoice.InvoiceNumber,
			Date:          invoice.InvoiceDate,
			Interstate:    invoice.Regime == tax.RegimeInterState,
			Subtotal:      invoice.Subtotal,
			TotalDiscount: invoice.TotalDiscount,
			TotalCGST:     invoice.TotalCGST,
			TotalSGST:     invoice.TotalSGST,
			TotalIGST:     invoice.TotalIGST,
			TotalTax:      invoice.TotalTax,
			GrandTotal:    invoice.GrandTotal,
			PaidAmount:    invoice.PaidAmount,
			BalanceDue:    invoice.BalanceDue(),
			PaymentStatus: string(invoice.PaymentStatus),
			PaymentMethod: invoice.PaymentMethod,
			AmountInWords: format.AmountInWords(invoice.GrandTotal),
			Notes:         invoice.Notes,
		},
		Items: items,
	}
}

func buildPDFData(invoice domain.Invoice, seller businessdomain.Business) pdf.InvoiceData {
	items := make([]pdf.InvoiceItem, 0, len(invoice.Items))
	for _, it := range invoice.Items {
		items = append(items, pdf.InvoiceItem{
			Name:     it.ProductName,
			HSN:      it.HSN,
			Quantity: it.Quantity.String(),
			UOM:      it.UOM,
			Rate:     format.Money(it.Rate),
			Discount: format.Money(it.DiscountAmount),
			Taxable:  format.Money(it.TaxableAmount),
			TaxLabel: it.TaxLabel(invoice.Regime),
			Tax:      format.Money(it.TaxAmount),
			Amount:   format.Money(it.FinalAmount),
		})
	}

	data := pdf.InvoiceData{
		InvoiceNumber: invoice.InvoiceNumber,
		InvoiceDate:   invoice.InvoiceDate.Format(dateLayout),
		PlaceOfSupply: invoice.CustomerState,
		Regime:        string(invoice.Regime),
		Seller: pdf.Party{
			Name:    seller.LegalName,
			GSTIN:   seller.GSTIN,
			State:   seller.State,
			Address: seller.Address(),
			Phone:   seller.Phone1,
			Email:   seller.Email1,
		},
		Buyer: pdf.Party{
			Name:    invoice.CustomerName,
			GSTIN:   invoice.CustomerGSTIN,
			State:   invoice.CustomerState,
			Address: invoice.CustomerAddress,
			Phone:   invoice.CustomerPhone,
		},
		Items:         items,
		Subtotal:      format.Rupees(invoice.Subtotal),
		TotalDiscount: format.Rupees(invoice.TotalDiscount),
		GrandTotal:    format.Rupees(invoice.GrandTotal),
		AmountInWords: format.AmountInWords(invoice.GrandTotal),
		PaymentStatus: string(invoice.PaymentStatus),
		Notes:         invoice.Notes,
	}
	if invoice.Regime == tax.RegimeInterState {
		data.TotalIGST = format.Rupees(invoice.TotalIGST)
	} else {
		data.TotalCGST = format.Rupees(invoice.TotalCGST)
		data.TotalSGST = format.Rupees(invoice.TotalSGST)
	}
	return data
}
