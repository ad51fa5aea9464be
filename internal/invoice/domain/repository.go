package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gstbilling/pkg/db/pagination"
	"github.com/smallbiznis/gstbilling/pkg/repository"
	"gorm.io/gorm"
)

type ListInvoiceFilter struct {
	Search string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	Update(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	UpdatePayment(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)
	NumberExists(ctx context.Context, db *gorm.DB, number string) (bool, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	List(ctx context.Context, db *gorm.DB, filter ListInvoiceFilter, page pagination.Pagination) ([]*Invoice, error)
}

// ItemRepository stores invoice lines through the generic store.
type ItemRepository = repository.Repository[InvoiceItem]
