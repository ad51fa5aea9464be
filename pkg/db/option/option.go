package option

import (
	"fmt"

	"github.com/smallbiznis/gstbilling/pkg/db/pagination"
	"gorm.io/gorm"
)

type QueryOption interface {
	Apply(db *gorm.DB) *gorm.DB
}

type queryOptionFunc func(db *gorm.DB) *gorm.DB

func (f queryOptionFunc) Apply(db *gorm.DB) *gorm.DB {
	return f(db)
}

func WithLimit(limit int) QueryOption {
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		return db.Limit(limit)
	})
}

// WithSortBy orders by column then id in the given direction.
func WithSortBy(column string, desc bool) QueryOption {
	dir := direction(desc)
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Order(fmt.Sprintf("%s %s, id %s", column, dir, dir))
	})
}

// ApplyPagination orders by column and id, seeks past the page token and
// fetches one row more than the page size so callers can detect a next page.
func ApplyPagination(page pagination.Pagination, column string, desc bool) QueryOption {
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		if page.PageToken != "" {
			if cursor, err := pagination.DecodeCursor(page.PageToken); err == nil && cursor.ID != "" {
				op := ">"
				if desc {
					op = "<"
				}
				if column == "id" {
					db = db.Where(fmt.Sprintf("id %s ?", op), cursor.ID)
				} else {
					db = db.Where(
						fmt.Sprintf("(%s %s ? OR (%s = ? AND id %s ?))", column, op, column, op),
						cursor.Key, cursor.Key, cursor.ID,
					)
				}
			}
		}
		if column == "id" {
			db = db.Order("id " + direction(desc))
		} else {
			db = WithSortBy(column, desc).Apply(db)
		}
		return db.Limit(page.Size() + 1)
	})
}

func direction(desc bool) string {
	if desc {
		return "desc"
	}
	return "asc"
}
