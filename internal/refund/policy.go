package refund

import (
	"fmt"
	"math"
	"time"
)

// Tier is one bucket of the cancellation policy: cancel at least
// MinHoursBeforeDeparture hours out and RefundPercentage of the total
// is returned.
type Tier struct {
	Name                    string  `json:"name"`
	MinHoursBeforeDeparture float64 `json:"min_hours_before_departure"`
	RefundPercentage        float64 `json:"refund_percentage"`
	Description             string  `json:"description"`
}

// tiers is ordered from most to least generous; lookup takes the first tier
// whose threshold the cancellation clears. Immutable at runtime.
var tiers = []Tier{
	{
		Name:                    "FULL_REFUND",
		MinHoursBeforeDeparture: 48,
		RefundPercentage:        100,
		Description:             "Cancelled 48 hours or more before departure",
	},
	{
		Name:                    "PARTIAL_REFUND",
		MinHoursBeforeDeparture: 24,
		RefundPercentage:        70,
		Description:             "Cancelled between 24 and 48 hours before departure",
	},
	{
		Name:                    "MINIMAL_REFUND",
		MinHoursBeforeDeparture: 12,
		RefundPercentage:        50,
		Description:             "Cancelled between 12 and 24 hours before departure",
	},
	{
		Name:                    "NO_REFUND",
		MinHoursBeforeDeparture: 0,
		RefundPercentage:        0,
		Description:             "Cancelled less than 12 hours before departure",
	},
}

// RefundDetails is the outcome of a refund calculation.
type RefundDetails struct {
	RefundAmount     float64 `json:"refund_amount"`
	ProcessingFee    float64 `json:"processing_fee"`
	RefundPercentage float64 `json:"refund_percentage"`
	Tier             Tier    `json:"tier"`
	CanRefund        bool    `json:"can_refund"`
}

// GetCancellationTier maps hours-until-departure to a policy tier. A trip
// that already departed always lands in the no-refund tier.
func GetCancellationTier(departure, now time.Time) Tier {
	hoursUntil := departure.Sub(now).Hours()
	if hoursUntil <= 0 {
		return tiers[len(tiers)-1]
	}
	for _, tier := range tiers {
		if hoursUntil >= tier.MinHoursBeforeDeparture {
			return tier
		}
	}
	return tiers[len(tiers)-1]
}

// CalculateRefund computes the refund for cancelling a booking worth
// totalPrice against a trip departing at departure.
func CalculateRefund(totalPrice float64, departure, now time.Time) RefundDetails {
	tier := GetCancellationTier(departure, now)
	departed := !departure.After(now)

	refundAmount := math.Round(totalPrice * tier.RefundPercentage / 100)
	return RefundDetails{
		RefundAmount:     refundAmount,
		ProcessingFee:    totalPrice - refundAmount,
		RefundPercentage: tier.RefundPercentage,
		Tier:             tier,
		CanRefund:        tier.RefundPercentage > 0 && !departed,
	}
}

// CanCancel reports whether the departure time still permits cancellation,
// with a human-readable reason when it does not.
func CanCancel(departure, now time.Time) (bool, string) {
	if !departure.After(now) {
		return false, "trip has already departed"
	}
	tier := GetCancellationTier(departure, now)
	if tier.RefundPercentage == 0 {
		return false, "cancellation window has closed (less than 12 hours before departure)"
	}
	return true, ""
}

// FormatRefundDetails renders a display-only summary. Not authoritative.
func FormatRefundDetails(d RefundDetails) string {
	if !d.CanRefund {
		return fmt.Sprintf("%s: no refund available", d.Tier.Name)
	}
	return fmt.Sprintf("%s: %.0f%% refund (%.0f refunded, %.0f processing fee)",
		d.Tier.Name, d.RefundPercentage, d.RefundAmount, d.ProcessingFee)
}
