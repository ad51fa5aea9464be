package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "Zero Rupees Only"},
		{"0.50", "Fifty Paise Only"},
		{"1", "One Rupees Only"},
		{"354", "Three Hundred Fifty Four Rupees Only"},
		{"1170.00", "One Thousand One Hundred Seventy Rupees Only"},
		{"84.75", "Eighty Four Rupees and Seventy Five Paise Only"},
		{"100000", "One Lakh Rupees Only"},
		{"1234567.5", "Twelve Lakh Thirty Four Thousand Five Hundred Sixty Seven Rupees and Fifty Paise Only"},
		{"1000000000", "One Hundred Crore Rupees Only"},
		{"10.005", "Ten Rupees and One Paise Only"},
		{"-12", "Minus Twelve Rupees Only"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AmountInWords(decimal.RequireFromString(tt.amount)), tt.amount)
	}
}

func TestMoney(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "0.00"},
		{"999.5", "999.50"},
		{"1000", "1,000.00"},
		{"123456.789", "1,23,456.79"},
		{"1234567.8", "12,34,567.80"},
		{"-98765432.1", "-9,87,65,432.10"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Money(decimal.RequireFromString(tt.amount)), tt.amount)
	}
	assert.Equal(t, "₹1,000.00", Rupees(decimal.NewFromInt(1000)))
	assert.Equal(t, "2.5", Percent(decimal.RequireFromString("2.50")))
}
