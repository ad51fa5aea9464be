package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	businessdomain "github.com/smallbiznis/gstbilling/internal/business/domain"
	"github.com/smallbiznis/gstbilling/internal/clock"
	"github.com/smallbiznis/gstbilling/internal/config"
	customerdomain "github.com/smallbiznis/gstbilling/internal/customer/domain"
	customerrepo "github.com/smallbiznis/gstbilling/internal/customer/repository"
	"github.com/smallbiznis/gstbilling/internal/invoice/domain"
	"github.com/smallbiznis/gstbilling/internal/invoice/lock"
	"github.com/smallbiznis/gstbilling/internal/invoice/render"
	"github.com/smallbiznis/gstbilling/internal/invoice/repository"
	obscontext "github.com/smallbiznis/gstbilling/internal/observability/context"
	productdomain "github.com/smallbiznis/gstbilling/internal/product/domain"
	productrepo "github.com/smallbiznis/gstbilling/internal/product/repository"
	"github.com/smallbiznis/gstbilling/internal/providers/pdf"
	"github.com/smallbiznis/gstbilling/internal/providers/spreadsheet"
	"github.com/smallbiznis/gstbilling/internal/tax"
	pkgrepository "github.com/smallbiznis/gstbilling/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

type fakeBusiness struct {
	businessdomain.Service
	profile *businessdomain.Business
}

func (f *fakeBusiness) Get(context.Context) (businessdomain.Business, error) {
	if f.profile == nil {
		return businessdomain.Business{}, businessdomain.ErrNotFound
	}
	return *f.profile, nil
}

type fixture struct {
	svc      *Service
	db       *gorm.DB
	node     *snowflake.Node
	clock    *clock.FakeClock
	business *fakeBusiness
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&customerdomain.Customer{},
		&productdomain.Product{},
		&domain.Invoice{},
		&domain.InvoiceItem{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC))
	business := &fakeBusiness{profile: &businessdomain.Business{
		LegalName: "Shree Ganesh Traders",
		GSTIN:     "27AAPFU0939F1ZV",
		State:     "Maharashtra",
		Address1:  "12 MG Road",
	}}

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Config: config.Config{Invoice: config.InvoiceConfig{
			NumberTemplate:    "INV-{SEQ5}",
			DefaultGSTPercent: decimal.NewFromInt(18),
		}},
		Locker:       lock.NewMemoryLocker(time.Second),
		Renderer:     render.NewRenderer(),
		Repo:         repository.Provide(),
		ItemRepo:     pkgrepository.ProvideStore[domain.InvoiceItem](db),
		CustomerRepo: customerrepo.Provide(),
		ProductRepo:  productrepo.Provide(),
		BusinessSvc:  business,
		PDF:          pdf.New(),
		Spreadsheet:  spreadsheet.New(zap.NewNop()),
	})

	return &fixture{svc: svc.(*Service), db: db, node: node, clock: fake, business: business}
}

func (f *fixture) customer(t *testing.T, name, state string) string {
	t.Helper()
	c := customerdomain.Customer{
		ID:        f.node.Generate(),
		Name:      name,
		State:     state,
		Address1:  "Plot 4",
		City:      "Town",
		Phone1:    "9800000000",
		CreatedAt: f.clock.Now(),
		UpdatedAt: f.clock.Now(),
	}
	require.NoError(t, customerrepo.Provide().Insert(context.Background(), f.db, &c))
	return c.ID.String()
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func assertAmount(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s: want %s got %s", msg, want, got.String())
}

func standardLines() []domain.LineRequest {
	return []domain.LineRequest{
		{ProductName: "Widget", HSN: "8471", Quantity: dec("2"), Rate: decPtr("100"), RateMode: tax.RateModeExclusive, GSTPercent: decPtr("18")},
		{ProductName: "Gadget", Quantity: dec("1"), Rate: decPtr("118"), RateMode: tax.RateModeInclusive, GSTPercent: decPtr("18")},
	}
}

func TestCreateIntraStateInvoice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customerID := f.customer(t, "Acme Stores", "maharashtra")

	inv, err := f.svc.Create(ctx, domain.InvoiceRequest{
		CustomerID:    customerID,
		Lines:         standardLines(),
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-00001", inv.InvoiceNumber)
	assert.Equal(t, tax.RegimeIntraState, inv.Regime)
	assert.Equal(t, domain.PaymentStatusUnpaid, inv.PaymentStatus)
	assert.Equal(t, "Acme Stores", inv.CustomerName)
	assert.Equal(t, "Plot 4, Town", inv.CustomerAddress)
	assert.Equal(t, "Maharashtra", inv.SellerState)
	assertAmount(t, "318.00", inv.Subtotal, "subtotal")
	assertAmount(t, "27.00", inv.TotalCGST, "cgst")
	assertAmount(t, "27.00", inv.TotalSGST, "sgst")
	assertAmount(t, "0", inv.TotalIGST, "igst")
	assertAmount(t, "354.00", inv.GrandTotal, "grand total")

	got, err := f.svc.GetByID(ctx, inv.ID.String())
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Widget", got.Items[0].ProductName)
	assert.Equal(t, 1, got.Items[0].Position)
	assertAmount(t, "200", got.Items[0].TaxableAmount, "line 1 taxable")
	assertAmount(t, "100", got.Items[1].TaxableAmount, "line 2 taxable")
	assertAmount(t, "9", got.Items[1].CGSTPercent, "line 2 cgst percent")
	assert.Equal(t, "CGST 9% + SGST 9%", got.Items[0].TaxLabel(got.Regime))
	assertAmount(t, "354.00", got.GrandTotal, "persisted grand total")

	second, err := f.svc.Create(ctx, domain.InvoiceRequest{CustomerID: customerID, Lines: standardLines()})
	require.NoError(t, err)
	assert.Equal(t, "INV-00002", second.InvoiceNumber)
}

func TestCreateInterStateInvoice(t *testing.T) {
	f := newFixture(t)
	customerID := f.customer(t, "Bangalore Mart", "Karnataka")

	inv, err := f.svc.Create(context.Background(), domain.InvoiceRequest{CustomerID: customerID, Lines: standardLines()})
	require.NoError(t, err)

	assert.Equal(t, tax.RegimeInterState, inv.Regime)
	assertAmount(t, "0", inv.TotalCGST, "cgst")
	assertAmount(t, "54.00", inv.TotalIGST, "igst")
	assertAmount(t, "354.00", inv.GrandTotal, "grand total")
	assert.Equal(t, "IGST 18%", inv.Items[0].TaxLabel(inv.Regime))
}

func TestCreateUsesFallbackSellerState(t *testing.T) {
	f := newFixture(t)
	f.business.profile = nil
	f.svc.cfg.SellerFallbackState = "Goa"
	ctx := context.Background()

	local, err := f.svc.Create(ctx, domain.InvoiceRequest{
		Customer: &domain.CustomerSnapshot{Name: "Walk-in", State: "goa"},
		Lines:    standardLines(),
	})
	require.NoError(t, err)
	assert.Equal(t, tax.RegimeIntraState, local.Regime)
	assert.Nil(t, local.CustomerID)

	remote, err := f.svc.Create(ctx, domain.InvoiceRequest{
		Customer: &domain.CustomerSnapshot{Name: "Walk-in", State: "Kerala"},
		Lines:    standardLines(),
	})
	require.NoError(t, err)
	assert.Equal(t, tax.RegimeInterState, remote.Regime)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customerID := f.customer(t, "Acme Stores", "Maharashtra")

	_, err := f.svc.Create(ctx, domain.InvoiceRequest{CustomerID: customerID})
	assert.ErrorIs(t, err, domain.ErrInvalidLines)

	_, err = f.svc.Create(ctx, domain.InvoiceRequest{Lines: standardLines()})
	assert.ErrorIs(t, err, domain.ErrInvalidCustomer)

	_, err = f.svc.Create(ctx, domain.InvoiceRequest{CustomerID: f.node.Generate().String(), Lines: standardLines()})
	assert.ErrorIs(t, err, domain.ErrInvalidCustomer)

	lines := standardLines()
	lines[1].Quantity = dec("0")
	_, err = f.svc.Create(ctx, domain.InvoiceRequest{CustomerID: customerID, Lines: lines})
	require.Error(t, err)
	assert.ErrorIs(t, err, tax.ErrInvalidQuantity)
	var lineErr *tax.LineError
	require.True(t, errors.As(err, &lineErr))
	assert.Equal(t, 1, lineErr.Index)

	lines = standardLines()
	lines[0].DiscountAmount = dec("500")
	_, err = f.svc.Create(ctx, domain.InvoiceRequest{CustomerID: customerID, Lines: lines})
	assert.ErrorIs(t, err, tax.ErrInvalidDiscount)

	lines = standardLines()
	lines[0].ProductName = ""
	_, err = f.svc.Create(ctx, domain.InvoiceRequest{CustomerID: customerID, Lines: lines})
	assert.ErrorIs(t, err, domain.ErrInvalidProductName)

	resp, err := f.svc.List(ctx, domain.ListInvoiceRequest{})
	require.NoError(t, err)
	assert.Empty(t, resp.Invoices)
}

func TestCreateFillsLineFromProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customerID := f.customer(t, "Acme Stores", "Maharashtra")

	desc := "Basmati, 5kg bag"
	product := productdomain.Product{
		ID:          f.node.Generate().Int64(),
		Name:        "Rice",
		Description: &desc,
		HSN:         "1006",
		UOM:         "bag",
		DefaultRate: dec("250"),
		GSTPercent:  dec("5"),
		CreatedAt:   f.clock.Now(),
		UpdatedAt:   f.clock.Now(),
	}
	require.NoError(t, productrepo.Provide().Create(ctx, f.db, &product))

	productID := snowflake.ID(product.ID).String()
	inv, err := f.svc.Create(ctx, domain.InvoiceRequest{
		CustomerID: customerID,
		Lines: []domain.LineRequest{
			{ProductID: productID, Quantity: dec("2")},
			{ProductID: productID, Quantity: dec("1"), CustomGSTPercent: decPtr("12")},
		},
	})
	require.NoError(t, err)
	require.Len(t, inv.Items, 2)

	first := inv.Items[0]
	assert.Equal(t, "Rice", first.ProductName)
	assert.Equal(t, desc, first.Description)
	assert.Equal(t, "1006", first.HSN)
	assert.Equal(t, "bag", first.UOM)
	assert.Equal(t, tax.RateModeExclusive, first.RateMode)
	assert.Equal(t, tax.RateSourcePreset, first.RateSource)
	assertAmount(t, "525.00", first.FinalAmount, "preset line")

	second := inv.Items[1]
	assert.Equal(t, tax.RateSourceCustom, second.RateSource)
	assertAmount(t, "12", second.GSTPercent, "custom rate")
	assertAmount(t, "280.00", second.FinalAmount, "custom line")

	_, err = f.svc.Create(ctx, domain.InvoiceRequest{
		CustomerID: customerID,
		Lines:      []domain.LineRequest{{ProductID: "12345", Quantity: dec("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidProduct)
}

func TestUpdateRecomputesStaleRegime(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customerID := f.customer(t, "Acme Stores", "Maharashtra")

	inv, err := f.svc.Create(ctx, domain.InvoiceRequest{CustomerID: customerID, Lines: standardLines()})
	require.NoError(t, err)
	require.Equal(t, tax.RegimeIntraState, inv.Regime)

	require.NoError(t, f.db.Exec(`UPDATE customers SET state = ? WHERE id = ?`, "Karnataka", customerID).Error)
	f.clock.Advance(time.Hour)

	lines := standardLines()
	lines = append(lines, domain.LineRequest{ProductName: "Cable", Quantity: dec("1"), Rate: decPtr("50"), GSTPercent: decPtr("0")})
	updated, err := f.svc.Update(ctx, inv.ID.String(), domain.InvoiceRequest{CustomerID: customerID, Lines: lines, Notes: "revised"})
	require.NoError(t, err)

	assert.Equal(t, inv.InvoiceNumber, updated.InvoiceNumber)
	assert.Equal(t, tax.RegimeInterState, updated.Regime)
	assert.Equal(t, "Karnataka", updated.CustomerState)
	assertAmount(t, "0", updated.TotalCGST, "cgst")
	assertAmount(t, "54.00", updated.TotalIGST, "igst")
	assertAmount(t, "404.00", updated.GrandTotal, "grand total")
	assert.True(t, updated.UpdatedAt.Equal(f.clock.Now()))

	got, err := f.svc.GetByID(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.Len(t, got.Items, 3)
	assert.Equal(t, "revised", got.Notes)

	_, err = f.svc.Update(ctx, f.node.Generate().String(), domain.InvoiceRequest{CustomerID: customerID, Lines: lines})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateKeepsPaidInvoiceSettled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customerID := f.customer(t, "Acme Stores", "Maharashtra")

	inv, err := f.svc.Create(ctx, domain.InvoiceRequest{CustomerID: customerID, Lines: standardLines()})
	require.NoError(t, err)
	_, err = f.svc.UpdatePayment(ctx, inv.ID.String(), domain.UpdatePaymentRequest{Status: domain.PaymentStatusPaid})
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, inv.ID.String(), domain.InvoiceRequest{CustomerID: customerID, Lines: standardLines()[:1]})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, updated.PaymentStatus)
	assertAmount(t, "236.00", updated.PaidAmount, "paid")
	assert.True(t, updated.BalanceDue().IsZero())
}

func TestUpdatePayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customerID := f.customer(t, "Acme Stores", "Maharashtra")

	inv, err := f.svc.Create(ctx, domain.InvoiceRequest{CustomerID: customerID, Lines: standardLines()})
	require.NoError(t, err)
	id := inv.ID.String()

	partial, err := f.svc.UpdatePayment(ctx, id, domain.UpdatePaymentRequest{
		Status:        domain.PaymentStatusPartial,
		PaymentMethod: "upi",
		PaidAmount:    decPtr("100"),
	})
	require.NoError(t, err)
	assertAmount(t, "100", partial.PaidAmount, "partial paid")
	assertAmount(t, "254.00", partial.BalanceDue(), "balance")
	assert.Equal(t, "upi", partial.PaymentMethod)
	assert.Len(t, partial.Items, 2)

	tests := []struct {
		name string
		req  domain.UpdatePaymentRequest
		want error
	}{
		{"unknown status", domain.UpdatePaymentRequest{Status: "refunded"}, domain.ErrInvalidPaymentStatus},
		{"partial without amount", domain.UpdatePaymentRequest{Status: domain.PaymentStatusPartial}, domain.ErrInvalidPaidAmount},
		{"partial zero", domain.UpdatePaymentRequest{Status: domain.PaymentStatusPartial, PaidAmount: decPtr("0")}, domain.ErrInvalidPaidAmount},
		{"partial equals total", domain.UpdatePaymentRequest{Status: domain.PaymentStatusPartial, PaidAmount: decPtr("354")}, domain.ErrInvalidPaidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.UpdatePayment(ctx, id, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	paid, err := f.svc.UpdatePayment(ctx, id, domain.UpdatePaymentRequest{Status: domain.PaymentStatusPaid})
	require.NoError(t, err)
	assertAmount(t, "354.00", paid.PaidAmount, "paid")

	unpaid, err := f.svc.UpdatePayment(ctx, id, domain.UpdatePaymentRequest{Status: domain.PaymentStatusUnpaid})
	require.NoError(t, err)
	assert.True(t, unpaid.PaidAmount.IsZero())

	_, err = f.svc.UpdatePayment(ctx, "nope", domain.UpdatePaymentRequest{Status: domain.PaymentStatusPaid})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestNumberSkipsSequencesInUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customerID := f.customer(t, "Acme Stores", "Maharashtra")

	first, err := f.svc.Create(ctx, domain.InvoiceRequest{CustomerID: customerID, Lines: standardLines()})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, domain.InvoiceRequest{CustomerID: customerID, Lines: standardLines()})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, first.ID.String()))
	assert.ErrorIs(t, f.svc.Delete(ctx, first.ID.String()), domain.ErrNotFound)

	third, err := f.svc.Create(ctx, domain.InvoiceRequest{CustomerID: customerID, Lines: standardLines()})
	require.NoError(t, err)
	assert.Equal(t, "INV-00003", third.InvoiceNumber)

	var orphans int64
	require.NoError(t, f.db.Model(&domain.InvoiceItem{}).Where("invoice_id = ?", first.ID).Count(&orphans).Error)
	assert.Zero(t, orphans)
}

func TestListSearchNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acme := f.customer(t, "Acme Stores", "Maharashtra")
	zenith := f.customer(t, "Zenith Foods", "Maharashtra")

	_, err := f.svc.Create(ctx, domain.InvoiceRequest{CustomerID: acme, Lines: standardLines()})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, domain.InvoiceRequest{CustomerID: zenith, Lines: standardLines()})
	require.NoError(t, err)

	all, err := f.svc.List(ctx, domain.ListInvoiceRequest{})
	require.NoError(t, err)
	require.Len(t, all.Invoices, 2)
	assert.Equal(t, "INV-00002", all.Invoices[0].InvoiceNumber)

	byName, err := f.svc.List(ctx, domain.ListInvoiceRequest{Search: "zenith"})
	require.NoError(t, err)
	require.Len(t, byName.Invoices, 1)
	assert.Equal(t, "Zenith Foods", byName.Invoices[0].CustomerName)

	byNumber, err := f.svc.List(ctx, domain.ListInvoiceRequest{Search: "inv-00001"})
	require.NoError(t, err)
	require.Len(t, byNumber.Invoices, 1)

	paged, err := f.svc.List(ctx, domain.ListInvoiceRequest{PageSize: 1})
	require.NoError(t, err)
	require.Len(t, paged.Invoices, 1)
	assert.True(t, paged.HasMore)

	next, err := f.svc.List(ctx, domain.ListInvoiceRequest{PageSize: 1, PageToken: paged.NextPageToken})
	require.NoError(t, err)
	require.Len(t, next.Invoices, 1)
	assert.Equal(t, "INV-00001", next.Invoices[0].InvoiceNumber)
	assert.False(t, next.HasMore)
}

func TestPreviewDoesNotPersist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customerID := f.customer(t, "Acme Stores", "Maharashtra")

	preview, err := f.svc.Preview(ctx, domain.InvoiceRequest{CustomerID: customerID, Lines: standardLines()})
	require.NoError(t, err)
	assert.Equal(t, tax.RegimeIntraState, preview.Regime)
	assertAmount(t, "354.00", preview.Totals.GrandTotal, "grand total")
	assert.Equal(t, "Three Hundred Fifty Four Rupees Only", preview.Words)
	assert.Equal(t, []string{"CGST 9% + SGST 9%", "CGST 9% + SGST 9%"}, preview.Labels)

	resp, err := f.svc.List(ctx, domain.ListInvoiceRequest{})
	require.NoError(t, err)
	assert.Empty(t, resp.Invoices)
}

func TestRenderOutputs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customerID := f.customer(t, "Acme Stores", "Maharashtra")

	inv, err := f.svc.Create(ctx, domain.InvoiceRequest{CustomerID: customerID, Lines: standardLines()})
	require.NoError(t, err)
	id := inv.ID.String()

	html, err := f.svc.Render(ctx, id)
	require.NoError(t, err)
	assert.Contains(t, string(html), "INV-00001")
	assert.Contains(t, string(html), "Shree Ganesh Traders")
	assert.Contains(t, string(html), "CGST 9% + SGST 9%")
	assert.Contains(t, string(html), "Three Hundred Fifty Four Rupees Only")

	doc, name, err := f.svc.RenderPDF(ctx, id)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
	assert.Equal(t, "invoice-inv-00001.pdf", name)

	_, _, err = f.svc.RenderReceipt(ctx, id)
	assert.ErrorIs(t, err, domain.ErrInvalidPaymentStatus)

	_, err = f.svc.UpdatePayment(ctx, id, domain.UpdatePaymentRequest{Status: domain.PaymentStatusPaid, PaymentMethod: "cash"})
	require.NoError(t, err)
	receipt, receiptName, err := f.svc.RenderReceipt(ctx, id)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(receipt, []byte("%PDF")))
	assert.Equal(t, "receipt-inv-00001.pdf", receiptName)

	sheet, sheetName, err := f.svc.ExportSpreadsheet(ctx, id)
	require.NoError(t, err)
	assert.NotEmpty(t, sheet)
	assert.Equal(t, "invoice-inv-00001.xlsx", sheetName)

	_, err = f.svc.Render(ctx, f.node.Generate().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIsNumberClash(t *testing.T) {
	assert.True(t, isNumberClash(&pgconn.PgError{Code: "23505", ConstraintName: "invoices_invoice_number_key"}))
	assert.True(t, isNumberClash(errors.New("UNIQUE constraint failed: invoices.invoice_number (2067)")))
	assert.False(t, isNumberClash(&pgconn.PgError{Code: "23505", ConstraintName: "invoices_pkey"}))
	assert.False(t, isNumberClash(errors.New("database is locked")))
}

func TestWriteLogsCarryRequestID(t *testing.T) {
	f := newFixture(t)
	core, logs := observer.New(zapcore.InfoLevel)
	f.svc.log = zap.New(core)

	ctx := obscontext.WithRequestID(context.Background(), "req-42")
	customerID := f.customer(t, "Acme Stores", "Maharashtra")

	inv, err := f.svc.Create(ctx, domain.InvoiceRequest{CustomerID: customerID, Lines: standardLines()})
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, inv.ID.String(), domain.InvoiceRequest{CustomerID: customerID, Lines: standardLines()})
	require.NoError(t, err)
	_, err = f.svc.UpdatePayment(ctx, inv.ID.String(), domain.UpdatePaymentRequest{Status: domain.PaymentStatusPaid, PaymentMethod: "cash"})
	require.NoError(t, err)

	for _, msg := range []string{"invoice created", "invoice updated", "payment updated"} {
		entries := logs.FilterMessage(msg).AllUntimed()
		require.Len(t, entries, 1, msg)
		fields := entries[0].ContextMap()
		assert.Equal(t, "req-42", fields["request_id"], msg)
		assert.Equal(t, inv.InvoiceNumber, fields["invoice_number"], msg)
	}
}
