package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDuplicateKeyDriverErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		duplicate  bool
		constraint string
	}{
		{"nil", nil, false, ""},
		{"other", errors.New("connection refused"), false, ""},
		{"gorm", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true, ""},
		{"postgres", &pgconn.PgError{Code: "23505", ConstraintName: "invoices_invoice_number_key"}, true, "invoices_invoice_number_key"},
		{"postgres fk", &pgconn.PgError{Code: "23503", ConstraintName: "invoice_items_invoice_id_fkey"}, false, "invoice_items_invoice_id_fkey"},
		{"mysql", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'INV-00001' for key 'invoices.invoices_invoice_number_key'"}, true, "invoices.invoices_invoice_number_key"},
		{"mysql other", &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}, false, ""},
		{"sqlite text", errors.New("constraint failed: UNIQUE constraint failed: products.name (2067)"), true, "products.name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.duplicate, IsDuplicateKeyErr(tt.err))
			if tt.duplicate {
				assert.Equal(t, tt.constraint, DuplicateKeyConstraint(tt.err))
			}
		})
	}
}

type numbered struct {
	ID     int64  `gorm:"primaryKey"`
	Number string `gorm:"uniqueIndex"`
}

func TestDuplicateKeySQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:dup_key?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&numbered{}))

	require.NoError(t, conn.Create(&numbered{ID: 1, Number: "INV-00001"}).Error)
	err = conn.Create(&numbered{ID: 2, Number: "INV-00001"}).Error
	require.Error(t, err)

	assert.True(t, IsDuplicateKeyErr(err))
	assert.Equal(t, "numbereds.number", DuplicateKeyConstraint(err))
}
