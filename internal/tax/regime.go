package tax

import "strings"

// Regime selects how GST is split on an invoice.
type Regime string

const (
	RegimeIntraState Regime = "cgst_sgst"
	RegimeInterState Regime = "igst"
)

func (r Regime) Valid() bool {
	return r == RegimeIntraState || r == RegimeInterState
}

// DetermineRegime compares the customer and seller state names.
// Missing or blank states fall back to intra-state.
func DetermineRegime(customerState, sellerState *string) Regime {
	if customerState == nil || sellerState == nil {
		return RegimeIntraState
	}

	customer := strings.TrimSpace(*customerState)
	seller := strings.TrimSpace(*sellerState)
	if customer == "" || seller == "" {
		return RegimeIntraState
	}

	if strings.EqualFold(customer, seller) {
		return RegimeIntraState
	}
	return RegimeInterState
}
