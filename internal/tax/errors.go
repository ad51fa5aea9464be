package tax

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuantity = errors.New("invalid_quantity")
	ErrInvalidRate     = errors.New("invalid_rate")
	ErrInvalidDiscount = errors.New("invalid_discount")
	ErrInvalidTaxRate  = errors.New("invalid_tax_rate")
	ErrInvalidRateMode = errors.New("invalid_rate_mode")
	ErrInvalidRegime   = errors.New("invalid_regime")
	ErrLineIndex       = errors.New("invalid_line_index")
)

// LineError ties a validation failure to the offending line.
type LineError struct {
	Index int
	Err   error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Index, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }
