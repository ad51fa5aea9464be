package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money formats an amount with two decimals and Indian digit grouping,
// e.g. 1234567.8 becomes "12,34,567.80".
func Money(amount decimal.Decimal) string {
	s := amount.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	if len(intPart) <= 3 {
		return sign + intPart + frac
	}

	head, tail := intPart[:len(intPart)-3], intPart[len(intPart)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}

	return sign + strings.Join(groups, ",") + "," + tail + frac
}

// Rupees prefixes Money with the rupee sign.
func Rupees(amount decimal.Decimal) string {
	return "₹" + Money(amount)
}

// Percent trims trailing zeros, e.g. 18.000 becomes "18" and 2.50 becomes "2.5".
func Percent(p decimal.Decimal) string {
	return p.String()
}
