package pricing

import "math"

// Service fee: 3% of the subtotal plus a fixed platform fee, both in whole
// currency units (VND has no minor unit in practice).
const (
	ServiceFeeRate  = 0.03
	FixedServiceFee = 10000
)

// Quote is the price breakdown for a booking.
type Quote struct {
	Subtotal   float64 `json:"subtotal"`
	ServiceFee float64 `json:"service_fee"`
	Total      float64 `json:"total_price"`
	Currency   string  `json:"currency"`
}

// CalculateServiceFee returns the service fee for a subtotal: the variable
// part rounds half-up to the nearest currency unit, the fixed part applies
// even to a zero subtotal.
func CalculateServiceFee(subtotal float64) float64 {
	return roundHalfUp(subtotal*ServiceFeeRate) + FixedServiceFee
}

// FormatPrice rounds an amount to 2 decimal places, half up.
func FormatPrice(amount float64) float64 {
	return roundHalfUp(amount*100) / 100
}

// QuoteForSeats prices seatCount seats at pricePerSeat each.
func QuoteForSeats(pricePerSeat float64, seatCount int, currency string) Quote {
	subtotal := FormatPrice(pricePerSeat * float64(seatCount))
	fee := CalculateServiceFee(subtotal)
	return Quote{
		Subtotal:   subtotal,
		ServiceFee: fee,
		Total:      FormatPrice(subtotal + fee),
		Currency:   currency,
	}
}

// roundHalfUp rounds to the nearest integer, ties away from zero. Amounts
// are never negative here, so this matches round-half-up semantics.
func roundHalfUp(v float64) float64 {
	return math.Round(v)
}
