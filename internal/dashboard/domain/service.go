package domain

import (
	"context"
	"errors"
)

type StatsRequest struct {
	Range     string `form:"range"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

type Service interface {
	Stats(context.Context, StatsRequest) (Stats, error)
}

var (
	ErrInvalidRange = errors.New("invalid_range")
	ErrInvalidDate  = errors.New("invalid_date")
)
