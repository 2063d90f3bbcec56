package domain

import (
	"context"
	"time"
)

type OrderRepository interface {
	// WithTx runs fn inside one database transaction; repository calls made
	// with the ctx handed to fn join it.
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	// GetOrderForUpdateSkipLocked locks the row FOR UPDATE SKIP LOCKED.
	// Returns ErrLockUnavailable when another transaction holds the row and
	// ErrOrderNotFound when it does not exist.
	GetOrderForUpdateSkipLocked(ctx context.Context, orderID string) (*Order, error)

	// GetOrderByID reads the committed state without locking.
	GetOrderByID(ctx context.Context, orderID string) (*Order, error)

	// MarkOrderPaid applies the pending -> paid transition. ErrDuplicateTransaction
	// is returned when the transaction id is already recorded on another row.
	MarkOrderPaid(ctx context.Context, update PaidUpdate) error
}

type MembershipRepository interface {
	GetMembershipByID(ctx context.Context, membershipID string) (*Membership, error)
}

// DurationResolver answers how long a paid membership stays valid.
type DurationResolver interface {
	MembershipDuration(ctx context.Context, membershipID string) (time.Duration, error)
}
