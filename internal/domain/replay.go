package domain

import (
	"context"
	"time"
)

type ReplayStatus int

const (
	ReplayFirstSeen ReplayStatus = iota + 1
	ReplayAlreadySeen
	ReplayCacheUnavailable
)

func (s ReplayStatus) String() string {
	switch s {
	case ReplayFirstSeen:
		return "first_seen"
	case ReplayAlreadySeen:
		return "already_seen"
	case ReplayCacheUnavailable:
		return "cache_unavailable"
	default:
		return "unknown"
	}
}

// ReplayStore keeps short-lived "transaction seen" markers. It is advisory:
// the order row stays the source of truth.
type ReplayStore interface {
	// MarkIfAbsent atomically records the marker with ttl. It returns true
	// when the marker was created by this call.
	MarkIfAbsent(ctx context.Context, transactionID string, ttl time.Duration) (bool, error)
}
