package payment

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
)

const DefaultReplayTTL = time.Hour

// ReplayGuard short-circuits duplicate deliveries. It never blocks the
// pipeline: any store failure is reported as ReplayCacheUnavailable.
type ReplayGuard struct {
	store  domain.ReplayStore
	ttl    time.Duration
	logger *slog.Logger
}

func NewReplayGuard(store domain.ReplayStore, ttl time.Duration, logger *slog.Logger) *ReplayGuard {
	if ttl <= 0 {
		ttl = DefaultReplayTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReplayGuard{store: store, ttl: ttl, logger: logger}
}

func (g *ReplayGuard) CheckAndMark(ctx context.Context, transactionID string) domain.ReplayStatus {
	if g == nil || g.store == nil {
		return domain.ReplayCacheUnavailable
	}

	created, err := g.store.MarkIfAbsent(ctx, transactionID, g.ttl)
	if err != nil {
		g.logger.Warn("replay cache unavailable, continuing without short-circuit",
			"transaction_id", transactionID,
			"error", err,
		)
		return domain.ReplayCacheUnavailable
	}
	if created {
		return domain.ReplayFirstSeen
	}
	return domain.ReplayAlreadySeen
}
