package domain

import (
	"context"

	"github.com/smallbiznis/gstbilling/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, product *Product) error
	Update(ctx context.Context, db *gorm.DB, product *Product) error
	Delete(ctx context.Context, db *gorm.DB, id int64) (bool, error)
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Product, error)
	FindByName(ctx context.Context, db *gorm.DB, name string) (*Product, error)
	List(ctx context.Context, db *gorm.DB, filter ListRequest, page pagination.Pagination) ([]*Product, error)
}
