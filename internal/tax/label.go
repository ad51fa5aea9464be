package tax

import "fmt"

// Label renders the human-readable tax label of a resolved line,
// e.g. "IGST 18%" or "CGST 9% + SGST 9%".
func Label(line ResolvedLineItem) string {
	if line.EffectiveRate.IsZero() {
		return "GST 0%"
	}
	if line.Regime == RegimeInterState {
		return fmt.Sprintf("IGST %s%%", line.IGSTPercent.String())
	}
	return fmt.Sprintf("CGST %s%% + SGST %s%%", line.CGSTPercent.String(), line.SGSTPercent.String())
}
