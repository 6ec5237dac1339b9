package rates

import (
	"fmt"

	"github.com/finbooks/finbooks_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// ScaleFactor is the fixed-point scale for stored percentage rates: four
// decimal places of percent, so 5% is stored as 50000 and 10.25% as 102500.
const ScaleFactor = 10000

var percentDivisor = decimal.NewFromInt(100 * ScaleFactor)

// CalculatePercentage applies a scaled percentage rate to a base amount in
// cents, rounding half-up to the nearest cent.
func CalculatePercentage(baseCents int64, scaledRate int64) int64 {
	result := decimal.NewFromInt(baseCents).
		Mul(decimal.NewFromInt(scaledRate)).
		Div(percentDivisor)
	return result.Round(0).IntPart()
}

// ParsePercentage converts a decimal percentage string ("10.25") to its
// scaled integer representation (102500).
func ParsePercentage(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed percentage %q", apperrors.ErrValidation, s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: percentage cannot be negative", apperrors.ErrValidation)
	}
	scaled := d.Mul(decimal.NewFromInt(ScaleFactor))
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("%w: percentage %q exceeds supported precision", apperrors.ErrValidation, s)
	}
	return scaled.IntPart(), nil
}

// FormatPercentage renders a scaled rate back to its decimal percentage
// string, trimming trailing zeros (50000 -> "5").
func FormatPercentage(scaledRate int64) string {
	return decimal.NewFromInt(scaledRate).
		Div(decimal.NewFromInt(ScaleFactor)).
		String()
}
