package bookings

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"bustix/internal/shared/apperrors"
)

var (
	// Seat codes are a single row letter plus a 1-2 digit column, e.g. A1, B12.
	seatCodePattern = regexp.MustCompile(`^[A-Z]\d{1,2}$`)
	phonePattern    = regexp.MustCompile(`^0\d{9}$`)
)

// RegisterValidators adds booking-specific binding rules to gin's validator
// engine. Call once at route setup.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("seatcode", func(fl validator.FieldLevel) bool {
			return seatCodePattern.MatchString(NormalizeSeatCode(fl.Field().String()))
		})
	}
}

// NormalizeSeatCode trims and uppercases a seat code for comparison.
func NormalizeSeatCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NormalizePhone canonicalizes Vietnamese phone numbers so that the
// international +84 form and the domestic leading-0 form compare equal.
func NormalizePhone(phone string) string {
	p := strings.TrimSpace(phone)
	p = strings.ReplaceAll(p, " ", "")
	p = strings.ReplaceAll(p, "-", "")
	p = strings.ReplaceAll(p, ".", "")
	if strings.HasPrefix(p, "+84") {
		p = "0" + p[3:]
	} else if strings.HasPrefix(p, "84") && len(p) == 11 {
		p = "0" + p[2:]
	}
	return p
}

// NormalizeEmail lowercases and trims an email for comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateSeatSelection checks seat codes for format, duplicates, and the
// per-booking cap. It returns the normalized codes in passenger order.
func validateSeatSelection(passengers []PassengerInput, maxSeats int) ([]string, error) {
	if len(passengers) == 0 {
		return nil, apperrors.Validation("at least one passenger is required", map[string]string{
			"passengers": "must not be empty",
		})
	}
	if len(passengers) > maxSeats {
		return nil, apperrors.Validation(
			fmt.Sprintf("a booking may hold at most %d seats", maxSeats),
			map[string]string{"passengers": fmt.Sprintf("got %d, max %d", len(passengers), maxSeats)})
	}

	seen := make(map[string]struct{}, len(passengers))
	codes := make([]string, 0, len(passengers))
	for i, p := range passengers {
		code := NormalizeSeatCode(p.SeatCode)
		if !seatCodePattern.MatchString(code) {
			return nil, apperrors.Validation("invalid seat code", map[string]string{
				fmt.Sprintf("passengers[%d].seat_code", i): fmt.Sprintf("%q is not a valid seat code", p.SeatCode),
			})
		}
		if _, dup := seen[code]; dup {
			return nil, apperrors.Validation("duplicate seat code in booking", map[string]string{
				fmt.Sprintf("passengers[%d].seat_code", i): fmt.Sprintf("seat %s selected more than once", code),
			})
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes, nil
}

// validateContact checks the booking-level contact fields. Guests must supply
// both so the booking stays reachable through guest lookup.
func validateContact(email, phone string, isGuest bool) error {
	fields := map[string]string{}
	if isGuest {
		if NormalizeEmail(email) == "" {
			fields["contact_email"] = "required for guest bookings"
		}
		if NormalizePhone(phone) == "" {
			fields["contact_phone"] = "required for guest bookings"
		}
	}
	if phone != "" && !phonePattern.MatchString(NormalizePhone(phone)) {
		fields["contact_phone"] = "must be a valid Vietnamese phone number"
	}
	if len(fields) > 0 {
		return apperrors.Validation("invalid contact details", fields)
	}
	return nil
}
