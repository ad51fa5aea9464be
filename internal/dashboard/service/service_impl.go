package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gstbilling/internal/clock"
	"github.com/smallbiznis/gstbilling/internal/dashboard/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const topDuesLimit = 5

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("dashboard.service"),
		clock: p.Clock,
	}
}

type summaryRow struct {
	TotalSales       decimal.Decimal `gorm:"column:total_sales"`
	TotalPendingDues decimal.Decimal `gorm:"column:total_pending_dues"`
	InvoiceCount     int64           `gorm:"column:invoice_count"`
}

type dueRow struct {
	ID            snowflake.ID    `gorm:"column:id"`
	InvoiceNumber string          `gorm:"column:invoice_number"`
	CustomerName  string          `gorm:"column:customer_name"`
	InvoiceDate   time.Time       `gorm:"column:invoice_date"`
	PaymentStatus string          `gorm:"column:payment_status"`
	GrandTotal    decimal.Decimal `gorm:"column:grand_total"`
	PaidAmount    decimal.Decimal `gorm:"column:paid_amount"`
	DueAmount     decimal.Decimal `gorm:"column:due_amount"`
}

// Stats aggregates invoices dated inside the requested range. Pending dues
// only count unpaid and partially paid invoices.
func (s *Service) Stats(ctx context.Context, req domain.StatsRequest) (domain.Stats, error) {
	dateRange, err := resolveRange(req, s.clock.Now())
	if err != nil {
		return domain.Stats{}, err
	}

	var summary summaryRow
	if err := s.db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(grand_total), 0) AS total_sales,
		        COALESCE(SUM(CASE WHEN payment_status IN ('unpaid', 'partial')
		                          THEN grand_total - paid_amount ELSE 0 END), 0) AS total_pending_dues,
		        COUNT(1) AS invoice_count
		 FROM invoices
		 WHERE invoice_date >= ? AND invoice_date < ?`,
		dateRange.Start,
		dateRange.End,
	).Scan(&summary).Error; err != nil {
		return domain.Stats{}, err
	}

	var rows []dueRow
	if err := s.db.WithContext(ctx).Raw(
		`SELECT id, invoice_number, customer_name, invoice_date, payment_status,
		        grand_total, paid_amount, grand_total - paid_amount AS due_amount
		 FROM invoices
		 WHERE invoice_date >= ? AND invoice_date < ?
		   AND payment_status IN ('unpaid', 'partial')
		 ORDER BY due_amount DESC, id DESC
		 LIMIT ?`,
		dateRange.Start,
		dateRange.End,
		topDuesLimit,
	).Scan(&rows).Error; err != nil {
		return domain.Stats{}, err
	}

	dues := make([]domain.Due, 0, len(rows))
	for _, row := range rows {
		dues = append(dues, domain.Due{
			InvoiceID:     row.ID.String(),
			InvoiceNumber: row.InvoiceNumber,
			CustomerName:  row.CustomerName,
			InvoiceDate:   row.InvoiceDate,
			PaymentStatus: row.PaymentStatus,
			GrandTotal:    row.GrandTotal.Round(2),
			PaidAmount:    row.PaidAmount.Round(2),
			DueAmount:     row.DueAmount.Round(2),
		})
	}

	s.log.Debug("dashboard stats computed",
		zap.Time("start", dateRange.Start),
		zap.Time("end", dateRange.End),
		zap.Int64("invoice_count", summary.InvoiceCount),
	)

	return domain.Stats{
		Range:            dateRange,
		TotalSales:       summary.TotalSales.Round(2),
		TotalPendingDues: summary.TotalPendingDues.Round(2),
		InvoiceCount:     summary.InvoiceCount,
		Top5Dues:         dues,
	}, nil
}
