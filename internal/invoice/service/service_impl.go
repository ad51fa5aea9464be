package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	businessdomain "github.com/smallbiznis/gstbilling/internal/business/domain"
	"github.com/smallbiznis/gstbilling/internal/clock"
	"github.com/smallbiznis/gstbilling/internal/config"
	customerdomain "github.com/smallbiznis/gstbilling/internal/customer/domain"
	"github.com/smallbiznis/gstbilling/internal/invoice/domain"
	"github.com/smallbiznis/gstbilling/internal/invoice/format"
	"github.com/smallbiznis/gstbilling/internal/invoice/lock"
	"github.com/smallbiznis/gstbilling/internal/invoice/render"
	"github.com/smallbiznis/gstbilling/internal/observability/logger"
	"github.com/smallbiznis/gstbilling/internal/observability/metrics"
	productdomain "github.com/smallbiznis/gstbilling/internal/product/domain"
	"github.com/smallbiznis/gstbilling/internal/providers/pdf"
	"github.com/smallbiznis/gstbilling/internal/providers/spreadsheet"
	"github.com/smallbiznis/gstbilling/internal/tax"
	pkgdb "github.com/smallbiznis/gstbilling/pkg/db"
	"github.com/smallbiznis/gstbilling/pkg/db/option"
	"github.com/smallbiznis/gstbilling/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// numberLockKey serialises invoice number allocation across writers.
const numberLockKey = "invoice:number"

// maxNumberAttempts bounds the search for a free sequence when earlier
// invoices were deleted.
const maxNumberAttempts = 1000

// maxCreateAttempts bounds retries when another instance commits the same
// invoice number between allocation and insert.
const maxCreateAttempts = 3

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Config   config.Config
	GenID    *snowflake.Node
	Clock    clock.Clock
	Locker   lock.Locker
	Metrics  *metrics.Metrics `optional:"true"`
	Renderer render.Renderer

	Repo         domain.Repository
	ItemRepo     domain.ItemRepository
	CustomerRepo customerdomain.Repository
	ProductRepo  productdomain.Repository
	BusinessSvc  businessdomain.Service

	PDF         pdf.Provider
	Spreadsheet spreadsheet.Provider
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	cfg      config.InvoiceConfig
	genID    *snowflake.Node
	clock    clock.Clock
	locker   lock.Locker
	metrics  *metrics.Metrics
	renderer render.Renderer

	repo         domain.Repository
	itemRepo     domain.ItemRepository
	customerRepo customerdomain.Repository
	productRepo  productdomain.Repository
	businessSvc  businessdomain.Service

	pdf         pdf.Provider
	spreadsheet spreadsheet.Provider
}

func New(p Params) domain.Service {
	cfg := p.Config.Invoice
	if strings.TrimSpace(cfg.NumberTemplate) == "" {
		cfg.NumberTemplate = format.DefaultInvoiceNumberTemplate
	}
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("invoice.service"),
		cfg:      cfg,
		genID:    p.GenID,
		clock:    p.Clock,
		locker:   p.Locker,
		metrics:  p.Metrics,
		renderer: p.Renderer,

		repo:         p.Repo,
		itemRepo:     p.ItemRepo,
		customerRepo: p.CustomerRepo,
		productRepo:  p.ProductRepo,
		businessSvc:  p.BusinessSvc,

		pdf:         p.PDF,
		spreadsheet: p.Spreadsheet,
	}
}

// draftResult is a request resolved against the catalog and the parties.
type draftResult struct {
	party  party
	draft  tax.InvoiceDraft
	items  []domain.InvoiceItem
	totals tax.Totals
}

type party struct {
	customerID  *snowflake.ID
	name        string
	gstin       string
	address     string
	phone       string
	state       string
	sellerState string
}

func (s *Service) Create(ctx context.Context, req domain.InvoiceRequest) (domain.Invoice, error) {
	var (
		result domain.Invoice
		err    error
	)
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		result, err = s.create(ctx, req)
		if err == nil || !isNumberClash(err) {
			break
		}
		s.log.Warn("invoice number taken, reallocating", zap.Int("attempt", attempt))
	}
	if err != nil {
		return domain.Invoice{}, err
	}

	s.metrics.RecordInvoiceCreated(ctx, string(result.Regime))
	s.recordLines(ctx, result.Items)
	logger.WithInvoice(logger.WithContext(ctx, s.log), result.ID.String(), result.InvoiceNumber).Info("invoice created",
		zap.String("regime", string(result.Regime)),
		zap.String("grand_total", result.GrandTotal.StringFixed(2)),
		zap.Int("items", len(result.Items)),
	)
	return result, nil
}

func isNumberClash(err error) bool {
	return pkgdb.IsDuplicateKeyErr(err) &&
		strings.Contains(pkgdb.DuplicateKeyConstraint(err), "invoice_number")
}

func (s *Service) create(ctx context.Context, req domain.InvoiceRequest) (domain.Invoice, error) {
	release, err := s.locker.Acquire(ctx, numberLockKey)
	if err != nil {
		return domain.Invoice{}, err
	}
	defer release()

	var result domain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		built, err := s.build(ctx, tx, req)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		invoiceDate := now
		if req.InvoiceDate != nil && !req.InvoiceDate.IsZero() {
			invoiceDate = *req.InvoiceDate
		}

		number, err := s.nextNumber(ctx, tx, invoiceDate)
		if err != nil {
			return err
		}

		invoice := domain.Invoice{
			ID:            s.genID.Generate(),
			InvoiceNumber: number,
			InvoiceDate:   invoiceDate,
			PaidAmount:    decimal.Zero,
			PaymentMethod: strings.TrimSpace(req.PaymentMethod),
			PaymentStatus: domain.PaymentStatusUnpaid,
			Notes:         strings.TrimSpace(req.Notes),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		applyDraft(&invoice, built)

		if err := s.repo.Insert(ctx, tx, &invoice); err != nil {
			return err
		}
		if err := s.replaceItems(ctx, tx, &invoice, built.items); err != nil {
			return err
		}
		result = invoice
		return nil
	})
	return result, err
}

// Update replaces every line and re-derives the regime from the current
// customer and seller states. Payment fields are preserved, with the
// status recomputed against the new grand total.
func (s *Service) Update(ctx context.Context, id string, req domain.InvoiceRequest) (domain.Invoice, error) {
	invoiceID, err := parseID(id)
	if err != nil {
		return domain.Invoice{}, domain.ErrInvalidID
	}

	release, err := s.locker.Acquire(ctx, lockKey(invoiceID))
	if err != nil {
		return domain.Invoice{}, err
	}
	defer release()

	var result domain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByID(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return domain.ErrNotFound
		}

		built, err := s.build(ctx, tx, req)
		if err != nil {
			return err
		}

		if req.InvoiceDate != nil && !req.InvoiceDate.IsZero() {
			invoice.InvoiceDate = *req.InvoiceDate
		}
		if method := strings.TrimSpace(req.PaymentMethod); method != "" {
			invoice.PaymentMethod = method
		}
		invoice.Notes = strings.TrimSpace(req.Notes)
		invoice.UpdatedAt = s.clock.Now()
		applyDraft(invoice, built)
		reconcilePayment(invoice)

		if err := s.repo.Update(ctx, tx, invoice); err != nil {
			return err
		}
		if err := s.replaceItems(ctx, tx, invoice, built.items); err != nil {
			return err
		}
		result = *invoice
		return nil
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	s.metrics.RecordInvoiceUpdated(ctx, string(result.Regime))
	s.recordLines(ctx, result.Items)
	logger.WithInvoice(logger.WithContext(ctx, s.log), result.ID.String(), result.InvoiceNumber).Info("invoice updated",
		zap.String("regime", string(result.Regime)),
		zap.String("grand_total", result.GrandTotal.StringFixed(2)),
	)
	return result, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	invoiceID, err := parseID(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	release, err := s.locker.Acquire(ctx, lockKey(invoiceID))
	if err != nil {
		return err
	}
	defer release()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoiceID).Delete(&domain.InvoiceItem{}).Error; err != nil {
			return err
		}
		deleted, err := s.repo.Delete(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		if !deleted {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) (domain.ListInvoiceResponse, error) {
	page := pagination.Pagination{PageToken: req.PageToken, PageSize: req.PageSize}
	items, err := s.repo.List(ctx, s.db, domain.ListInvoiceFilter{Search: req.Search}, page)
	if err != nil {
		return domain.ListInvoiceResponse{}, err
	}

	items, pageInfo := pagination.BuildCursorPageInfo(items, page.Size(), func(inv *domain.Invoice) pagination.Cursor {
		return pagination.Cursor{ID: inv.ID.String()}
	})

	invoices := make([]domain.Invoice, 0, len(items))
	for _, inv := range items {
		invoices = append(invoices, *inv)
	}
	return domain.ListInvoiceResponse{PageInfo: pageInfo, Invoices: invoices}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Invoice, error) {
	invoiceID, err := parseID(id)
	if err != nil {
		return domain.Invoice{}, domain.ErrInvalidID
	}

	invoice, err := s.repo.FindByID(ctx, s.db, invoiceID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}

	items, err := s.loadItems(ctx, s.db, invoiceID)
	if err != nil {
		return domain.Invoice{}, err
	}
	invoice.Items = items
	return *invoice, nil
}

// UpdatePayment applies a status transition. Paid settles the grand total,
// unpaid clears it and partial requires an amount strictly between zero and
// the grand total.
func (s *Service) UpdatePayment(ctx context.Context, id string, req domain.UpdatePaymentRequest) (domain.Invoice, error) {
	invoiceID, err := parseID(id)
	if err != nil {
		return domain.Invoice{}, domain.ErrInvalidID
	}
	if !req.Status.Valid() {
		return domain.Invoice{}, domain.ErrInvalidPaymentStatus
	}

	release, err := s.locker.Acquire(ctx, lockKey(invoiceID))
	if err != nil {
		return domain.Invoice{}, err
	}
	defer release()

	var result domain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByID(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return domain.ErrNotFound
		}

		switch req.Status {
		case domain.PaymentStatusPaid:
			invoice.PaidAmount = invoice.GrandTotal
		case domain.PaymentStatusUnpaid:
			invoice.PaidAmount = decimal.Zero
		case domain.PaymentStatusPartial:
			if req.PaidAmount == nil {
				return domain.ErrInvalidPaidAmount
			}
			paid := req.PaidAmount.Round(2)
			if !paid.IsPositive() || paid.GreaterThanOrEqual(invoice.GrandTotal) {
				return domain.ErrInvalidPaidAmount
			}
			invoice.PaidAmount = paid
		}
		invoice.PaymentStatus = req.Status
		if method := strings.TrimSpace(req.PaymentMethod); method != "" {
			invoice.PaymentMethod = method
		}
		invoice.UpdatedAt = s.clock.Now()

		if err := s.repo.UpdatePayment(ctx, tx, invoice); err != nil {
			return err
		}

		items, err := s.loadItems(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		invoice.Items = items
		result = *invoice
		return nil
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	s.metrics.RecordPaymentUpdate(ctx, string(result.PaymentStatus))
	logger.WithInvoice(logger.WithContext(ctx, s.log), result.ID.String(), result.InvoiceNumber).Info("payment updated",
		zap.String("payment_status", string(result.PaymentStatus)),
		zap.String("paid_amount", result.PaidAmount.StringFixed(2)),
	)
	return result, nil
}

// Preview resolves a request without persisting anything.
func (s *Service) Preview(ctx context.Context, req domain.InvoiceRequest) (domain.Preview, error) {
	built, err := s.build(ctx, s.db, req)
	if err != nil {
		return domain.Preview{}, err
	}

	labels := make([]string, 0, len(built.items))
	for _, item := range built.items {
		labels = append(labels, item.TaxLabel(built.draft.Regime()))
	}

	return domain.Preview{
		Regime: built.draft.Regime(),
		Items:  built.items,
		Totals: built.totals,
		Words:  format.AmountInWords(built.totals.GrandTotal),
		Labels: labels,
		Due:    built.totals.GrandTotal,
	}, nil
}

// build resolves parties, fills lines from the catalog, validates them
// strictly and runs the engine.
func (s *Service) build(ctx context.Context, db *gorm.DB, req domain.InvoiceRequest) (draftResult, error) {
	p, err := s.resolveParty(ctx, db, req)
	if err != nil {
		return draftResult{}, err
	}
	if len(req.Lines) == 0 {
		return draftResult{}, domain.ErrInvalidLines
	}

	regime := tax.DetermineRegime(&p.state, &p.sellerState)

	items := make([]domain.InvoiceItem, 0, len(req.Lines))
	inputs := make([]tax.LineItemInput, 0, len(req.Lines))
	for i, line := range req.Lines {
		item, input, err := s.resolveLine(ctx, db, line)
		if err != nil {
			return draftResult{}, &tax.LineError{Index: i, Err: err}
		}
		item.Position = i + 1
		items = append(items, item)
		inputs = append(inputs, input)
	}

	draft := tax.NewDraft(regime, inputs...)
	if err := draft.Validate(); err != nil {
		return draftResult{}, err
	}

	resolved, totals := draft.Resolve()
	for i, r := range resolved {
		applyResolved(&items[i], r.Rounded())
	}

	return draftResult{
		party:  p,
		draft:  draft,
		items:  items,
		totals: totals.Rounded(),
	}, nil
}

func (s *Service) resolveParty(ctx context.Context, db *gorm.DB, req domain.InvoiceRequest) (party, error) {
	var p party

	business, err := s.businessSvc.Get(ctx)
	switch {
	case err == nil:
		p.sellerState = business.State
	case errors.Is(err, businessdomain.ErrNotFound):
	default:
		return party{}, err
	}
	if strings.TrimSpace(p.sellerState) == "" {
		p.sellerState = s.cfg.SellerFallbackState
	}

	if id := strings.TrimSpace(req.CustomerID); id != "" {
		customerID, err := parseID(id)
		if err != nil {
			return party{}, domain.ErrInvalidCustomer
		}
		customer, err := s.customerRepo.FindByID(ctx, db, customerID)
		if err != nil {
			return party{}, err
		}
		if customer == nil {
			return party{}, domain.ErrInvalidCustomer
		}
		p.customerID = &customer.ID
		p.name = customer.Name
		p.gstin = customer.GSTIN
		p.address = customer.Address()
		p.phone = customer.Phone()
		p.state = customer.State
		return p, nil
	}

	if req.Customer == nil || strings.TrimSpace(req.Customer.Name) == "" {
		return party{}, domain.ErrInvalidCustomer
	}
	p.name = strings.TrimSpace(req.Customer.Name)
	p.gstin = strings.ToUpper(strings.TrimSpace(req.Customer.GSTIN))
	p.address = strings.TrimSpace(req.Customer.Address)
	p.phone = strings.TrimSpace(req.Customer.Phone)
	p.state = strings.TrimSpace(req.Customer.State)
	return p, nil
}

func (s *Service) resolveLine(ctx context.Context, db *gorm.DB, line domain.LineRequest) (domain.InvoiceItem, tax.LineItemInput, error) {
	item := domain.InvoiceItem{
		ProductName: strings.TrimSpace(line.ProductName),
		Description: strings.TrimSpace(line.Description),
		HSN:         strings.TrimSpace(line.HSN),
		UOM:         strings.TrimSpace(line.UOM),
		Quantity:    line.Quantity,
		RateMode:    line.RateMode,
	}

	rate := line.Rate
	gst := line.GSTPercent

	if id := strings.TrimSpace(line.ProductID); id != "" {
		productID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return item, tax.LineItemInput{}, domain.ErrInvalidProduct
		}
		product, err := s.productRepo.FindByID(ctx, db, productID)
		if err != nil {
			return item, tax.LineItemInput{}, err
		}
		if product == nil {
			return item, tax.LineItemInput{}, domain.ErrInvalidProduct
		}

		pid := snowflake.ID(product.ID)
		item.ProductID = &pid
		if item.ProductName == "" {
			item.ProductName = product.Name
		}
		if item.Description == "" && product.Description != nil {
			item.Description = *product.Description
		}
		if item.HSN == "" {
			item.HSN = product.HSN
		}
		if item.UOM == "" {
			item.UOM = product.UOM
		}
		if rate == nil {
			rate = &product.DefaultRate
		}
		if gst == nil {
			gst = &product.GSTPercent
		}
	}

	if item.ProductName == "" {
		return item, tax.LineItemInput{}, domain.ErrInvalidProductName
	}
	if item.UOM == "" {
		item.UOM = "pcs"
	}
	if item.RateMode == "" {
		item.RateMode = tax.RateModeExclusive
	}
	if rate != nil {
		item.Rate = *rate
	}
	if gst == nil {
		gst = &s.cfg.DefaultGSTPercent
	}

	source := tax.SelectRate(*gst, line.CustomGSTPercent)
	item.RateSource = source.Kind()

	return item, tax.LineItemInput{
		Quantity:   item.Quantity,
		Rate:       item.Rate,
		Discount:   line.DiscountAmount,
		RateSource: source,
		Mode:       item.RateMode,
	}, nil
}

// nextNumber formats count+1 and walks forward past numbers already taken.
func (s *Service) nextNumber(ctx context.Context, db *gorm.DB, issuedAt time.Time) (string, error) {
	count, err := s.repo.Count(ctx, db)
	if err != nil {
		return "", err
	}

	for seq := count + 1; seq <= count+maxNumberAttempts; seq++ {
		number, err := format.FormatInvoiceNumber(s.cfg.NumberTemplate, issuedAt, seq)
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrNumberTemplate, err)
		}
		exists, err := s.repo.NumberExists(ctx, db, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", fmt.Errorf("%w: no free sequence after %d", domain.ErrNumberTemplate, count)
}

func (s *Service) replaceItems(ctx context.Context, tx *gorm.DB, invoice *domain.Invoice, items []domain.InvoiceItem) error {
	if err := tx.WithContext(ctx).Where("invoice_id = ?", invoice.ID).Delete(&domain.InvoiceItem{}).Error; err != nil {
		return err
	}

	rows := make([]*domain.InvoiceItem, 0, len(items))
	for i := range items {
		items[i].ID = s.genID.Generate()
		items[i].InvoiceID = invoice.ID
		rows = append(rows, &items[i])
	}
	if err := s.itemRepo.WithTrx(tx).BatchCreate(ctx, rows); err != nil {
		return err
	}
	invoice.Items = items
	return nil
}

func (s *Service) loadItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]domain.InvoiceItem, error) {
	rows, err := s.itemRepo.WithTrx(db).Find(ctx, &domain.InvoiceItem{InvoiceID: invoiceID}, option.WithSortBy("position", false))
	if err != nil {
		return nil, err
	}
	items := make([]domain.InvoiceItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, *row)
	}
	return items, nil
}

func (s *Service) recordLines(ctx context.Context, items []domain.InvoiceItem) {
	counts := make(map[tax.RateMode]int, 2)
	for _, item := range items {
		counts[item.RateMode]++
	}
	for mode, n := range counts {
		s.metrics.RecordLineItems(ctx, string(mode), n)
	}
}

func applyDraft(invoice *domain.Invoice, built draftResult) {
	invoice.CustomerID = built.party.customerID
	invoice.CustomerName = built.party.name
	invoice.CustomerGSTIN = built.party.gstin
	invoice.CustomerAddress = built.party.address
	invoice.CustomerPhone = built.party.phone
	invoice.CustomerState = built.party.state
	invoice.SellerState = built.party.sellerState
	invoice.Regime = built.draft.Regime()

	invoice.Subtotal = built.totals.Subtotal
	invoice.TotalDiscount = built.totals.TotalDiscount
	invoice.TotalCGST = built.totals.TotalCGST
	invoice.TotalSGST = built.totals.TotalSGST
	invoice.TotalIGST = built.totals.TotalIGST
	invoice.TotalTax = built.totals.TotalTax
	invoice.GrandTotal = built.totals.GrandTotal
}

func applyResolved(item *domain.InvoiceItem, r tax.ResolvedLineItem) {
	item.GSTPercent = r.EffectiveRate
	item.Total = r.Gross
	item.DiscountAmount = r.Discount
	item.TaxableAmount = r.Taxable
	item.CGSTPercent = r.CGSTPercent
	item.CGSTAmount = r.CGSTAmount
	item.SGSTPercent = r.SGSTPercent
	item.SGSTAmount = r.SGSTAmount
	item.IGSTPercent = r.IGSTPercent
	item.IGSTAmount = r.IGSTAmount
	item.TaxAmount = r.Tax
	item.FinalAmount = r.Final
}

// reconcilePayment keeps the payment status consistent after totals change.
func reconcilePayment(invoice *domain.Invoice) {
	switch {
	case invoice.PaymentStatus == domain.PaymentStatusPaid:
		invoice.PaidAmount = invoice.GrandTotal
	case !invoice.PaidAmount.IsPositive():
		invoice.PaidAmount = decimal.Zero
		invoice.PaymentStatus = domain.PaymentStatusUnpaid
	case invoice.PaidAmount.GreaterThanOrEqual(invoice.GrandTotal):
		invoice.PaidAmount = invoice.GrandTotal
		invoice.PaymentStatus = domain.PaymentStatusPaid
	default:
		invoice.PaymentStatus = domain.PaymentStatusPartial
	}
}

func lockKey(id snowflake.ID) string {
	return "invoice:" + id.String()
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
