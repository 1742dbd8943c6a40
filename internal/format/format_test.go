package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     string
	}{
		{"1000000", "UZS", "1 000 000 сум"},
		{"100.50", "USD", "$100.50"},
		{"100", "EUR", "€100.00"},
		{"2500.75", "RUB", "2 500.75 ₽"},
		{"500000", "KZT", "500 000 ₸"},
		{"42", "XXX", "42.00 XXX"},
	}
	for _, tt := range tests {
		d, err := decimal.NewFromString(tt.amount)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, Amount(d, tt.currency), "%s %s", tt.amount, tt.currency)
	}
}

func TestAmountShort(t *testing.T) {
	assert.Equal(t, "1 000 000", AmountShort(decimal.NewFromInt(1000000)))
	assert.Equal(t, "50 000", AmountShort(decimal.RequireFromString("50000.99")))
	assert.Equal(t, "7", AmountShort(decimal.NewFromInt(7)))
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "Январь", MonthName(1, "ru"))
	assert.Equal(t, "Dekabr", MonthName(12, "uz"))
	assert.Equal(t, "August", MonthName(8, "en"))
	assert.Equal(t, "Март", MonthName(3, "de"), "unknown language falls back to ru")
	assert.Equal(t, "", MonthName(13, "ru"))
}
