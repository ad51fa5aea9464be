package domain

import "errors"

type Service interface {
	GSTRates() []GSTRate
	SearchHSN(query string) []HSNCode
	ListStates() []State
	StateFromGSTIN(gstin string) (State, bool)
	StateByCode(code string) (State, bool)
	StateByName(name string) (State, bool)
}

var (
	ErrInvalidGSTIN = errors.New("invalid_gstin")
	ErrUnknownState = errors.New("unknown_state")
)
