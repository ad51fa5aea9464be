package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	invoicedomain "github.com/smallbiznis/gstbilling/internal/invoice/domain"
	"github.com/smallbiznis/gstbilling/internal/providers/pdf"
	"github.com/smallbiznis/gstbilling/internal/providers/spreadsheet"
	"github.com/smallbiznis/gstbilling/internal/tax"
)

type invoiceLineRequest struct {
	ProductID        string           `json:"product_id"`
	ProductName      string           `json:"product_name"`
	Description      string           `json:"description"`
	HSN              string           `json:"hsn" binding:"omitempty,numeric,max=8"`
	UOM              string           `json:"uom"`
	Quantity         decimal.Decimal  `json:"qty"`
	Rate             *decimal.Decimal `json:"rate"`
	RateMode         string           `json:"rate_mode" binding:"omitempty,oneof=with_gst without_gst"`
	GSTPercent       *decimal.Decimal `json:"gst_percent"`
	CustomGSTPercent *decimal.Decimal `json:"custom_gst_percent"`
	DiscountAmount   decimal.Decimal  `json:"discount_amount"`
}

type invoiceCustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	GSTIN   string `json:"gstin" binding:"omitempty,gstin"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	State   string `json:"state"`
}

type invoiceRequest struct {
	CustomerID    string                  `json:"customer_id"`
	Customer      *invoiceCustomerRequest `json:"customer"`
	InvoiceDate   string                  `json:"invoice_date"`
	Lines         []invoiceLineRequest    `json:"lines" binding:"required,min=1,dive"`
	PaymentMethod string                  `json:"payment_method"`
	Notes         string                  `json:"notes"`
}

type updatePaymentRequest struct {
	PaymentStatus string           `json:"payment_status" binding:"required,oneof=unpaid partial paid"`
	PaymentMethod string           `json:"payment_method"`
	PaidAmount    *decimal.Decimal `json:"paid_amount"`
}

func bindInvoiceRequest(c *gin.Context) (invoicedomain.InvoiceRequest, error) {
	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return invoicedomain.InvoiceRequest{}, bindError(err)
	}

	invoiceDate, err := parseOptionalTime(req.InvoiceDate)
	if err != nil {
		return invoicedomain.InvoiceRequest{}, newValidationError("invoice_date", "invalid_invoice_date", "invalid invoice_date")
	}

	out := invoicedomain.InvoiceRequest{
		CustomerID:    strings.TrimSpace(req.CustomerID),
		InvoiceDate:   invoiceDate,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		Notes:         req.Notes,
		Lines:         make([]invoicedomain.LineRequest, 0, len(req.Lines)),
	}
	if req.Customer != nil {
		out.Customer = &invoicedomain.CustomerSnapshot{
			Name:    strings.TrimSpace(req.Customer.Name),
			GSTIN:   req.Customer.GSTIN,
			Address: req.Customer.Address,
			Phone:   req.Customer.Phone,
			State:   strings.TrimSpace(req.Customer.State),
		}
	}
	for _, line := range req.Lines {
		out.Lines = append(out.Lines, invoicedomain.LineRequest{
			ProductID:        strings.TrimSpace(line.ProductID),
			ProductName:      strings.TrimSpace(line.ProductName),
			Description:      line.Description,
			HSN:              strings.TrimSpace(line.HSN),
			UOM:              strings.TrimSpace(line.UOM),
			Quantity:         line.Quantity,
			Rate:             line.Rate,
			RateMode:         tax.RateMode(line.RateMode),
			GSTPercent:       line.GSTPercent,
			CustomGSTPercent: line.CustomGSTPercent,
			DiscountAmount:   line.DiscountAmount,
		})
	}
	return out, nil
}

func (s *Server) CreateInvoice(c *gin.Context) {
	req, err := bindInvoiceRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.invoiceSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) PreviewInvoice(c *gin.Context) {
	req, err := bindInvoiceRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.invoiceSvc.Preview(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListInvoices(c *gin.Context) {
	var query invoicedomain.ListInvoiceRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	query.Search = strings.TrimSpace(query.Search)

	resp, err := s.invoiceSvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	resp, err := s.invoiceSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	req, err := bindInvoiceRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.invoiceSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	if err := s.invoiceSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) UpdateInvoicePayment(c *gin.Context) {
	var req updatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.invoiceSvc.UpdatePayment(c.Request.Context(), strings.TrimSpace(c.Param("id")), invoicedomain.UpdatePaymentRequest{
		Status:        invoicedomain.PaymentStatus(req.PaymentStatus),
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		PaidAmount:    req.PaidAmount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RenderInvoice(c *gin.Context) {
	out, err := s.invoiceSvc.Render(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", out)
}

func (s *Server) RenderInvoicePDF(c *gin.Context) {
	out, filename, err := s.invoiceSvc.RenderPDF(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	writeAttachment(c, pdf.ContentType, filename, out)
}

func (s *Server) RenderInvoiceReceipt(c *gin.Context) {
	out, filename, err := s.invoiceSvc.RenderReceipt(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	writeAttachment(c, pdf.ContentType, filename, out)
}

func (s *Server) ExportInvoice(c *gin.Context) {
	out, filename, err := s.invoiceSvc.ExportSpreadsheet(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	writeAttachment(c, spreadsheet.ContentType, filename, out)
}
