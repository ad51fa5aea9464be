package domain

import (
	"context"
	"errors"
	"io"
)

type UpsertBusinessRequest struct {
	LegalName string         `json:"legal_name"`
	Nickname  string         `json:"nickname"`
	GSTIN     string         `json:"gstin"`
	PAN       string         `json:"pan"`
	StateCode string         `json:"state_code"`
	State     string         `json:"state"`
	Phone1    string         `json:"phone_1"`
	Phone2    string         `json:"phone_2"`
	Email1    string         `json:"email_1"`
	Email2    string         `json:"email_2"`
	Address1  string         `json:"address_1"`
	Address2  string         `json:"address_2"`
	Others    string         `json:"others"`
	Metadata  map[string]any `json:"metadata"`
}

type Service interface {
	Upsert(context.Context, UpsertBusinessRequest) (Business, error)
	Get(context.Context) (Business, error)
	ExportSpreadsheet(context.Context) ([]byte, error)
	ImportSpreadsheet(context.Context, io.Reader) (Business, error)
}

var (
	ErrInvalidLegalName = errors.New("invalid_legal_name")
	ErrInvalidGSTIN     = errors.New("invalid_gstin")
	ErrInvalidPAN       = errors.New("invalid_pan")
	ErrInvalidStateCode = errors.New("invalid_state_code")
	ErrInvalidEmail     = errors.New("invalid_email")
	ErrInvalidImport    = errors.New("invalid_import")
	ErrNotFound         = errors.New("not_found")
)
