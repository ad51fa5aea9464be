package repository

import (
	"context"

	"github.com/smallbiznis/gstbilling/pkg/db/option"
	"gorm.io/gorm"
)

// Repository is a generic GORM store for tables whose rows are matched by
// struct example: zero fields in the query value are ignored.
type Repository[T any] interface {
	// WithTrx binds the store to tx for the rest of a transaction.
	WithTrx(tx *gorm.DB) Repository[T]
	Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error)
	// FindOne returns nil and no error when nothing matches.
	FindOne(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error)
	Create(ctx context.Context, resource *T) error
	Save(ctx context.Context, resource *T) error
	BatchCreate(ctx context.Context, resources []*T) error
}
