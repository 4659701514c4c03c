package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateServiceFee(t *testing.T) {
	tests := []struct {
		name     string
		subtotal float64
		expected float64
	}{
		{
			name:     "zero subtotal still pays the fixed fee",
			subtotal: 0,
			expected: 10000,
		},
		{
			name:     "single cheap seat",
			subtotal: 200000,
			expected: 16000,
		},
		{
			name:     "large subtotal",
			subtotal: 1000000,
			expected: 40000,
		},
		{
			name:     "fractional variable part rounds half up",
			subtotal: 155555,
			expected: 14667, // 4666.65 rounds to 4667
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateServiceFee(tt.subtotal))
		})
	}
}

func TestQuoteForSeats(t *testing.T) {
	quote := QuoteForSeats(180000, 2, "VND")

	assert.Equal(t, 360000.0, quote.Subtotal)
	assert.Equal(t, 20800.0, quote.ServiceFee)
	assert.Equal(t, 380800.0, quote.Total)
	assert.Equal(t, "VND", quote.Currency)
}

func TestQuoteForSeatsSingleSeat(t *testing.T) {
	quote := QuoteForSeats(250000, 1, "VND")

	assert.Equal(t, 250000.0, quote.Subtotal)
	assert.Equal(t, 17500.0, quote.ServiceFee)
	assert.Equal(t, 267500.0, quote.Total)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, 123.46, FormatPrice(123.456))
	assert.Equal(t, 123.45, FormatPrice(123.454))
	assert.Equal(t, 100.0, FormatPrice(100))
}
