package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gstbilling/internal/config"
	customerdomain "github.com/smallbiznis/gstbilling/internal/customer/domain"
	dashboarddomain "github.com/smallbiznis/gstbilling/internal/dashboard/domain"
	invoicedomain "github.com/smallbiznis/gstbilling/internal/invoice/domain"
	"github.com/smallbiznis/gstbilling/internal/invoice/lock"
	"github.com/smallbiznis/gstbilling/internal/observability"
	"github.com/smallbiznis/gstbilling/internal/reference"
	"github.com/smallbiznis/gstbilling/internal/tax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInvoiceService struct {
	invoicedomain.Service

	createReq  invoicedomain.InvoiceRequest
	paymentReq invoicedomain.UpdatePaymentRequest
	err        error
}

func (f *fakeInvoiceService) Create(ctx context.Context, req invoicedomain.InvoiceRequest) (invoicedomain.Invoice, error) {
	f.createReq = req
	if f.err != nil {
		return invoicedomain.Invoice{}, f.err
	}
	return invoicedomain.Invoice{
		ID:            snowflake.ID(42),
		InvoiceNumber: "INV-00001",
		Regime:        tax.RegimeIntraState,
		GrandTotal:    decimal.RequireFromString("354.00"),
		PaymentStatus: invoicedomain.PaymentStatusUnpaid,
	}, nil
}

func (f *fakeInvoiceService) GetByID(ctx context.Context, id string) (invoicedomain.Invoice, error) {
	if f.err != nil {
		return invoicedomain.Invoice{}, f.err
	}
	return invoicedomain.Invoice{ID: snowflake.ID(42), InvoiceNumber: "INV-00001"}, nil
}

func (f *fakeInvoiceService) UpdatePayment(ctx context.Context, id string, req invoicedomain.UpdatePaymentRequest) (invoicedomain.Invoice, error) {
	f.paymentReq = req
	if f.err != nil {
		return invoicedomain.Invoice{}, f.err
	}
	return invoicedomain.Invoice{ID: snowflake.ID(42), PaymentStatus: req.Status}, nil
}

func (f *fakeInvoiceService) RenderPDF(ctx context.Context, id string) ([]byte, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return []byte("%PDF-1.3"), "invoice-inv-00001.pdf", nil
}

type fakeCustomerService struct {
	customerdomain.Service

	listReq customerdomain.ListCustomerRequest
}

func (f *fakeCustomerService) List(ctx context.Context, req customerdomain.ListCustomerRequest) (customerdomain.ListCustomerResponse, error) {
	f.listReq = req
	return customerdomain.ListCustomerResponse{}, nil
}

type fakeDashboardService struct {
	dashboarddomain.Service
}

func (f *fakeDashboardService) Stats(ctx context.Context, req dashboarddomain.StatsRequest) (dashboarddomain.Stats, error) {
	if req.Range == "weekly" {
		return dashboarddomain.Stats{}, dashboarddomain.ErrInvalidRange
	}
	return dashboarddomain.Stats{InvoiceCount: 3}, nil
}

type testServer struct {
	engine    *gin.Engine
	invoices  *fakeInvoiceService
	customers *fakeCustomerService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{CORSOrigins: []string{"*"}}
	engine := NewEngine(cfg, observability.Config{}, nil)
	invoices := &fakeInvoiceService{}
	customers := &fakeCustomerService{}

	NewServer(ServerParams{
		Gin:          engine,
		Cfg:          cfg,
		ReferenceSvc: reference.NewService(config.NewStaticMasterDataHolder(config.DefaultMasterData())),
		CustomerSvc:  customers,
		InvoiceSvc:   invoices,
		DashboardSvc: &fakeDashboardService{},
	})

	return &testServer{engine: engine, invoices: invoices, customers: customers}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorPayload {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func validInvoiceBody() map[string]any {
	return map[string]any{
		"customer_id":  "100",
		"invoice_date": "2024-04-15",
		"lines": []map[string]any{
			{"product_name": "Widget", "qty": "3", "rate": "100", "rate_mode": "without_gst", "gst_percent": "18"},
		},
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStateFromGSTIN(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/states/gstin/27AAPFU0939F1ZV", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Code string `json:"code"`
			Name string `json:"name"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "27", resp.Data.Code)
	assert.Equal(t, "Maharashtra", resp.Data.Name)

	rec = ts.do(t, http.MethodGet, "/api/states/gstin/99XXXXX", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_gstin", decodeError(t, rec).Errors[0].Code)
}

func TestCreateInvoice(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/invoices", validInvoiceBody())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	req := ts.invoices.createReq
	assert.Equal(t, "100", req.CustomerID)
	require.NotNil(t, req.InvoiceDate)
	assert.Equal(t, "2024-04-15", req.InvoiceDate.Format(dateOnlyLayout))
	require.Len(t, req.Lines, 1)
	assert.Equal(t, tax.RateModeExclusive, req.Lines[0].RateMode)
	assert.True(t, req.Lines[0].Quantity.Equal(decimal.NewFromInt(3)))
	require.NotNil(t, req.Lines[0].GSTPercent)
	assert.True(t, req.Lines[0].GSTPercent.Equal(decimal.NewFromInt(18)))

	var resp struct {
		Data struct {
			InvoiceNumber string `json:"invoice_number"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INV-00001", resp.Data.InvoiceNumber)
}

func TestCreateInvoiceBindingErrors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(map[string]any)
		wantCode string
	}{
		{
			name:     "no lines",
			mutate:   func(body map[string]any) { body["lines"] = []map[string]any{} },
			wantCode: "invalid_lines",
		},
		{
			name: "unknown rate mode",
			mutate: func(body map[string]any) {
				body["lines"] = []map[string]any{{"product_name": "Widget", "qty": "1", "rate": "10", "rate_mode": "gross"}}
			},
			wantCode: "invalid_rate_mode",
		},
		{
			name: "walk-in customer with bad gstin",
			mutate: func(body map[string]any) {
				delete(body, "customer_id")
				body["customer"] = map[string]any{"name": "Cash", "gstin": "27ABC"}
			},
			wantCode: "invalid_gstin",
		},
		{
			name:     "bad invoice date",
			mutate:   func(body map[string]any) { body["invoice_date"] = "15/04/2024" },
			wantCode: "invalid_invoice_date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			body := validInvoiceBody()
			tt.mutate(body)

			rec := ts.do(t, http.MethodPost, "/api/invoices", body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			payload := decodeError(t, rec)
			assert.Equal(t, "validation_error", payload.Type)
			require.NotEmpty(t, payload.Errors)
			assert.Equal(t, tt.wantCode, payload.Errors[0].Code)
		})
	}
}

func TestServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantField  string
	}{
		{"line error", &tax.LineError{Index: 1, Err: tax.ErrInvalidDiscount}, http.StatusBadRequest, "validation_error", "lines[1].discount"},
		{"customer", invoicedomain.ErrInvalidCustomer, http.StatusBadRequest, "validation_error", "customer"},
		{"not found", customerdomain.ErrNotFound, http.StatusNotFound, "not_found", ""},
		{"lock timeout", lock.ErrLockTimeout, http.StatusConflict, "conflict", ""},
		{"unexpected", assert.AnError, http.StatusInternalServerError, "internal_error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.invoices.err = tt.err

			rec := ts.do(t, http.MethodPost, "/api/invoices", validInvoiceBody())
			require.Equal(t, tt.wantStatus, rec.Code)

			payload := decodeError(t, rec)
			assert.Equal(t, tt.wantType, payload.Type)
			if tt.wantField != "" {
				require.Len(t, payload.Errors, 1)
				assert.Equal(t, tt.wantField, payload.Errors[0].Field)
			}
		})
	}
}

func TestUpdateInvoicePayment(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPut, "/api/invoices/42/payment", map[string]any{
		"payment_status": "partial",
		"payment_method": "upi",
		"paid_amount":    "100.50",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, invoicedomain.PaymentStatusPartial, ts.invoices.paymentReq.Status)
	require.NotNil(t, ts.invoices.paymentReq.PaidAmount)
	assert.True(t, ts.invoices.paymentReq.PaidAmount.Equal(decimal.RequireFromString("100.5")))

	rec = ts.do(t, http.MethodPut, "/api/invoices/42/payment", map[string]any{"payment_status": "overdue"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_payment_status", decodeError(t, rec).Errors[0].Code)
}

func TestRenderInvoicePDF(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/invoices/42/pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="invoice-inv-00001.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3", rec.Body.String())
}

func TestGetInvoiceNotFound(t *testing.T) {
	ts := newTestServer(t)
	ts.invoices.err = invoicedomain.ErrNotFound

	rec := ts.do(t, http.MethodGet, "/api/invoices/42", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Type)
}

func TestListCustomersQuery(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/customers?search=+acme+&page_size=5&page_token=abc", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "acme", ts.customers.listReq.Search)
	assert.Equal(t, 5, ts.customers.listReq.PageSize)
	assert.Equal(t, "abc", ts.customers.listReq.PageToken)
}

func TestDashboardStats(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/dashboard/stats?range=30days", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/dashboard/stats?range=weekly", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "range", decodeError(t, rec).Errors[0].Field)
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Type)
}
