package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
)

// MembershipDurationResolver looks the validity window up from the membership
// catalog. When the membership is gone it falls back to defaultDuration, or
// fails closed when no default is configured.
type MembershipDurationResolver struct {
	repo            domain.MembershipRepository
	defaultDuration time.Duration
}

func NewMembershipDurationResolver(repo domain.MembershipRepository, defaultDuration time.Duration) *MembershipDurationResolver {
	return &MembershipDurationResolver{repo: repo, defaultDuration: defaultDuration}
}

func (r *MembershipDurationResolver) MembershipDuration(ctx context.Context, membershipID string) (time.Duration, error) {
	membership, err := r.repo.GetMembershipByID(ctx, membershipID)
	switch {
	case errors.Is(err, domain.ErrMembershipNotFound):
		if r.defaultDuration > 0 {
			return r.defaultDuration, nil
		}
		return 0, fmt.Errorf("membership %s: %w", membershipID, err)
	case err != nil:
		return 0, fmt.Errorf("lookup membership %s: %w", membershipID, err)
	}

	if membership.DurationDays <= 0 {
		if r.defaultDuration > 0 {
			return r.defaultDuration, nil
		}
		return 0, fmt.Errorf("membership %s has no duration: %w", membershipID, domain.ErrMembershipNotFound)
	}
	return membership.Duration(), nil
}
