package payment

import (
	"fmt"
	"time"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
)

// TimeEndLayout is the gateway's yyyyMMddHHmmss completion time format.
const TimeEndLayout = "20060102150405"

const DefaultMaxSkew = 5 * time.Minute

func ParseTimeEnd(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if len(s) != len(TimeEndLayout) {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidTimeFormat, s)
	}
	t, err := time.ParseInLocation(TimeEndLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", domain.ErrInvalidTimeFormat, err)
	}
	return t, nil
}

// CheckFreshness rejects notifications whose claimed completion time lies
// more than maxSkew away from now, in either direction.
func CheckFreshness(claimed, now time.Time, maxSkew time.Duration) error {
	skew := now.Sub(claimed)
	if skew < 0 {
		skew = -skew
	}
	if skew > maxSkew {
		return fmt.Errorf("%w: skew %s exceeds %s", domain.ErrStaleNotification, skew, maxSkew)
	}
	return nil
}
