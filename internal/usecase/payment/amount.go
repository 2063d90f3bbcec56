package payment

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
)

const minorUnitScale = 2

// ToMinorUnits converts a major-unit amount (99.00) to minor units (9900),
// rounding half up at two fractional digits. No binary floats are involved.
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	if amount.IsNegative() {
		return 0, fmt.Errorf("negative amount %s", amount.String())
	}
	minor := amount.Round(minorUnitScale).Shift(minorUnitScale)
	if !minor.BigInt().IsInt64() {
		return 0, fmt.Errorf("amount %s overflows minor units", amount.String())
	}
	return minor.IntPart(), nil
}

// ParseTotalFee parses the gateway's integer minor-unit fee. Only plain digits are accepted.
func ParseTotalFee(s string) (int64, error) {
	if s == "" || len(s) > 18 {
		return 0, fmt.Errorf("%w: total_fee %q", domain.ErrMalformedNotification, s)
	}
	var fee int64
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: total_fee %q", domain.ErrMalformedNotification, s)
		}
		fee = fee*10 + int64(r-'0')
	}
	return fee, nil
}
