package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/gstbilling/pkg/db/pagination"
)

type ListCustomerRequest struct {
	PageToken string
	PageSize  int
	Search    string
}

type ListCustomerFilter struct {
	Search string
}

type ListCustomerResponse struct {
	pagination.PageInfo
	Customers []Customer `json:"customers"`
}

type CustomerRequest struct {
	Name      string         `json:"name"`
	Nickname  string         `json:"nickname"`
	GSTIN     string         `json:"gstin"`
	StateCode string         `json:"state_code"`
	State     string         `json:"state"`
	City      string         `json:"city"`
	Phone1    string         `json:"phone_1"`
	Phone2    string         `json:"phone_2"`
	Email1    string         `json:"email_1"`
	Email2    string         `json:"email_2"`
	Address1  string         `json:"address_1"`
	Address2  string         `json:"address_2"`
	Metadata  map[string]any `json:"metadata"`
}

type Service interface {
	Create(context.Context, CustomerRequest) (Customer, error)
	Update(ctx context.Context, id string, req CustomerRequest) (Customer, error)
	Delete(ctx context.Context, id string) error
	List(context.Context, ListCustomerRequest) (ListCustomerResponse, error)
	GetByID(ctx context.Context, id string) (Customer, error)
	ExportSpreadsheet(context.Context) ([]byte, error)
}

var (
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidEmail     = errors.New("invalid_email")
	ErrInvalidGSTIN     = errors.New("invalid_gstin")
	ErrInvalidStateCode = errors.New("invalid_state_code")
	ErrInvalidID        = errors.New("invalid_id")
	ErrNotFound         = errors.New("not_found")
)
