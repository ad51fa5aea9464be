package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/gstbilling/internal/clock"
	"github.com/smallbiznis/gstbilling/internal/config"
	"github.com/smallbiznis/gstbilling/internal/customer/domain"
	"github.com/smallbiznis/gstbilling/internal/customer/repository"
	"github.com/smallbiznis/gstbilling/internal/providers/spreadsheet"
	"github.com/smallbiznis/gstbilling/internal/reference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Customer{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       clock.NewFakeClock(time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)),
		Repo:        repository.Provide(),
		Reference:   reference.NewService(config.NewStaticMasterDataHolder(config.DefaultMasterData())),
		Spreadsheet: spreadsheet.New(zap.NewNop()),
	})
	return svc.(*Service)
}

func TestCreateDerivesStateFromGSTIN(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CustomerRequest{
		Name:   " Acme Traders ",
		GSTIN:  "29abcde1234f1z5",
		Email1: "billing@acme.example",
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Traders", created.Name)
	assert.Equal(t, "29ABCDE1234F1Z5", created.GSTIN)
	assert.Equal(t, "29", created.StateCode)
	assert.Equal(t, "Karnataka", created.State)

	got, err := svc.GetByID(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Karnataka", got.State)
}

func TestCreateKeepsUnknownStateName(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), domain.CustomerRequest{Name: "Export House", State: "Dubai"})
	require.NoError(t, err)
	assert.Equal(t, "Dubai", created.State)
	assert.Empty(t, created.StateCode)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CustomerRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CustomerRequest{Name: "A", Email1: "acme.example"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = svc.Create(ctx, domain.CustomerRequest{Name: "A", GSTIN: "ABC"})
	assert.ErrorIs(t, err, domain.ErrInvalidGSTIN)

	_, err = svc.Create(ctx, domain.CustomerRequest{Name: "A", StateCode: "99"})
	assert.ErrorIs(t, err, domain.ErrInvalidStateCode)
}

func TestListSearchAndPagination(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, req := range []domain.CustomerRequest{
		{Name: "Acme Traders", City: "Pune"},
		{Name: "Blue Fabrics", Nickname: "blue", City: "Panaji"},
		{Name: "Cotton Hub", City: "Pune"},
	} {
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	pune, err := svc.List(ctx, domain.ListCustomerRequest{Search: "PUNE"})
	require.NoError(t, err)
	require.Len(t, pune.Customers, 2)
	assert.Equal(t, "Cotton Hub", pune.Customers[0].Name, "newest first")

	first, err := svc.List(ctx, domain.ListCustomerRequest{PageSize: 2})
	require.NoError(t, err)
	require.Len(t, first.Customers, 2)
	assert.True(t, first.HasMore)

	second, err := svc.List(ctx, domain.ListCustomerRequest{PageSize: 2, PageToken: first.NextPageToken})
	require.NoError(t, err)
	require.Len(t, second.Customers, 1)
	assert.False(t, second.HasMore)
	assert.Equal(t, "Acme Traders", second.Customers[0].Name)
}

func TestUpdateAndDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CustomerRequest{Name: "Acme", StateCode: "27"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID.String(), domain.CustomerRequest{Name: "Acme Traders", StateCode: "24"})
	require.NoError(t, err)
	assert.Equal(t, "Gujarat", updated.State)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	require.NoError(t, svc.Delete(ctx, created.ID.String()))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID.String()), domain.ErrNotFound)

	_, err = svc.GetByID(ctx, created.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Update(ctx, created.ID.String(), domain.CustomerRequest{Name: "Ghost"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetByID(ctx, "not-a-number")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestExportSpreadsheet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CustomerRequest{Name: "Acme Traders", GSTIN: "27AAPFU0939F1ZV"})
	require.NoError(t, err)

	data, err := svc.ExportSpreadsheet(ctx)
	require.NoError(t, err)

	records, err := spreadsheet.New(zap.NewNop()).ReadRecords(bytes.NewReader(data), "Customers")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Maharashtra", records[0]["state"])
}
