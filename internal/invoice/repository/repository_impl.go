package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gstbilling/internal/invoice/domain"
	"github.com/smallbiznis/gstbilling/pkg/db/option"
	"github.com/smallbiznis/gstbilling/pkg/db/pagination"
	"gorm.io/gorm"
)

const invoiceColumns = `id, invoice_number, invoice_date, customer_id, customer_name, customer_gstin,
	customer_address, customer_phone, customer_state, seller_state, regime,
	subtotal, total_discount, total_cgst, total_sgst, total_igst, total_tax, grand_total,
	paid_amount, payment_method, payment_status, notes, created_at, updated_at`

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, inv *domain.Invoice) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO invoices (`+invoiceColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID,
		inv.InvoiceNumber,
		inv.InvoiceDate,
		inv.CustomerID,
		inv.CustomerName,
		inv.CustomerGSTIN,
		inv.CustomerAddress,
		inv.CustomerPhone,
		inv.CustomerState,
		inv.SellerState,
		inv.Regime,
		inv.Subtotal,
		inv.TotalDiscount,
		inv.TotalCGST,
		inv.TotalSGST,
		inv.TotalIGST,
		inv.TotalTax,
		inv.GrandTotal,
		inv.PaidAmount,
		inv.PaymentMethod,
		inv.PaymentStatus,
		inv.Notes,
		inv.CreatedAt,
		inv.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, inv *domain.Invoice) error {
	return db.WithContext(ctx).Exec(
		`UPDATE invoices SET invoice_date = ?, customer_id = ?, customer_name = ?, customer_gstin = ?,
		 customer_address = ?, customer_phone = ?, customer_state = ?, seller_state = ?, regime = ?,
		 subtotal = ?, total_discount = ?, total_cgst = ?, total_sgst = ?, total_igst = ?,
		 total_tax = ?, grand_total = ?, paid_amount = ?, payment_method = ?, payment_status = ?,
		 notes = ?, updated_at = ?
		 WHERE id = ?`,
		inv.InvoiceDate,
		inv.CustomerID,
		inv.CustomerName,
		inv.CustomerGSTIN,
		inv.CustomerAddress,
		inv.CustomerPhone,
		inv.CustomerState,
		inv.SellerState,
		inv.Regime,
		inv.Subtotal,
		inv.TotalDiscount,
		inv.TotalCGST,
		inv.TotalSGST,
		inv.TotalIGST,
		inv.TotalTax,
		inv.GrandTotal,
		inv.PaidAmount,
		inv.PaymentMethod,
		inv.PaymentStatus,
		inv.Notes,
		inv.UpdatedAt,
		inv.ID,
	).Error
}

func (r *repo) UpdatePayment(ctx context.Context, db *gorm.DB, inv *domain.Invoice) error {
	return db.WithContext(ctx).Exec(
		`UPDATE invoices SET paid_amount = ?, payment_method = ?, payment_status = ?, updated_at = ?
		 WHERE id = ?`,
		inv.PaidAmount,
		inv.PaymentMethod,
		inv.PaymentStatus,
		inv.UpdatedAt,
		inv.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	res := db.WithContext(ctx).Exec(`DELETE FROM invoices WHERE id = ?`, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := db.WithContext(ctx).Raw(
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = ?`,
		id,
	).Scan(&inv).Error
	if err != nil {
		return nil, err
	}
	if inv.ID == 0 {
		return nil, nil
	}
	return &inv, nil
}

func (r *repo) NumberExists(ctx context.Context, db *gorm.DB, number string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM invoices WHERE invoice_number = ?`,
		number,
	).Scan(&count).Error
	return count > 0, err
}

func (r *repo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(`SELECT COUNT(1) FROM invoices`).Scan(&count).Error
	return count, err
}

// List returns invoices newest first. Snowflake ids are time ordered.
func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListInvoiceFilter, page pagination.Pagination) ([]*domain.Invoice, error) {
	var invoices []*domain.Invoice
	stmt := db.WithContext(ctx).Model(&domain.Invoice{})
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		like := "%" + search + "%"
		stmt = stmt.Where("(LOWER(invoice_number) LIKE ? OR LOWER(customer_name) LIKE ?)", like, like)
	}
	stmt = option.ApplyPagination(page, "id", true).Apply(stmt)
	if err := stmt.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}
