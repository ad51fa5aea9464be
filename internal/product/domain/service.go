package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gstbilling/pkg/db/pagination"
)

type Service interface {
	Upsert(ctx context.Context, req UpsertRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Get(ctx context.Context, id string) (*Response, error)
	Delete(ctx context.Context, id string) error
	ExportSpreadsheet(ctx context.Context) ([]byte, error)
}

type ListRequest struct {
	Search    string
	PageToken string
	PageSize  int
}

// UpsertRequest creates a product or updates the one with the same name.
type UpsertRequest struct {
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	HSN         string           `json:"hsn"`
	UOM         string           `json:"uom"`
	DefaultRate decimal.Decimal  `json:"default_rate"`
	GSTPercent  *decimal.Decimal `json:"gst_percent"`
}

type Response struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	HSN         string          `json:"hsn"`
	UOM         string          `json:"uom"`
	DefaultRate decimal.Decimal `json:"default_rate"`
	GSTPercent  decimal.Decimal `json:"gst_percent"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type ListResponse struct {
	pagination.PageInfo
	Products []Response `json:"products"`
}

var (
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidRate       = errors.New("invalid_rate")
	ErrInvalidGSTPercent = errors.New("invalid_gst_percent")
	ErrNotFound          = errors.New("not_found")
)
