package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// AmountInWords spells a rupee amount using the Indian numbering system,
// rounded to paise: 1234567.5 becomes
// "Twelve Lakh Thirty Four Thousand Five Hundred Sixty Seven Rupees and Fifty Paise Only".
func AmountInWords(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "Minus " + AmountInWords(amount.Neg())
	}

	amount = amount.Round(2)
	rupees := amount.IntPart()
	paise := amount.Sub(decimal.NewFromInt(rupees)).Shift(2).IntPart()

	switch {
	case rupees == 0 && paise == 0:
		return "Zero Rupees Only"
	case rupees == 0:
		return indianWords(paise) + " Paise Only"
	case paise == 0:
		return indianWords(rupees) + " Rupees Only"
	default:
		return indianWords(rupees) + " Rupees and " + indianWords(paise) + " Paise Only"
	}
}

func indianWords(n int64) string {
	if n == 0 {
		return ""
	}

	var parts []string

	if n >= 10000000 {
		parts = append(parts, indianWords(n/10000000)+" Crore")
		n %= 10000000
	}

	if n >= 100000 {
		parts = append(parts, under100(n/100000)+" Lakh")
		n %= 100000
	}

	if n >= 1000 {
		parts = append(parts, under100(n/1000)+" Thousand")
		n %= 1000
	}

	if n >= 100 {
		parts = append(parts, ones[n/100]+" Hundred")
		n %= 100
	}

	if n > 0 {
		parts = append(parts, under100(n))
	}

	return strings.Join(parts, " ")
}

func under100(n int64) string {
	if n < 20 {
		return ones[n]
	}
	result := tens[n/10]
	if n%10 != 0 {
		result += " " + ones[n%10]
	}
	return result
}
