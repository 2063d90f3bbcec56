package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
)

type ReconcileInput struct {
	OrderID        string
	TransactionID  string
	TotalFeeMinor  int64
	CompletionTime time.Time
	PaymentMethod  string
}

type ReconcileOutcome struct {
	Result           domain.ReconcileResult
	Order            *domain.Order
	ExpectedFeeMinor int64
}

type Reconciler interface {
	Reconcile(ctx context.Context, in ReconcileInput) (ReconcileOutcome, error)
}

// DefaultReconcileUsecase owns the pending -> paid transition of an order.
type DefaultReconcileUsecase struct {
	OrderRepo domain.OrderRepository
	Durations domain.DurationResolver
	Logger    *slog.Logger
}

func NewDefaultReconcileUsecase(
	orderRepo domain.OrderRepository,
	durations domain.DurationResolver,
	logger *slog.Logger,
) *DefaultReconcileUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultReconcileUsecase{
		OrderRepo: orderRepo,
		Durations: durations,
		Logger:    logger,
	}
}

// Reconcile applies one notification to its order exactly once.
//
// The row is taken with a non-blocking lock; a competing delivery gets
// LockUnavailable instead of waiting. A unique violation on transaction_id
// (two deliveries that both passed the checks) is also reported as
// LockUnavailable so the gateway retries and converges on AlreadyApplied.
func (uc *DefaultReconcileUsecase) Reconcile(ctx context.Context, in ReconcileInput) (ReconcileOutcome, error) {
	var out ReconcileOutcome

	err := uc.OrderRepo.WithTx(ctx, func(txCtx context.Context) error {
		order, err := uc.OrderRepo.GetOrderForUpdateSkipLocked(txCtx, in.OrderID)
		switch {
		case errors.Is(err, domain.ErrLockUnavailable):
			out.Result = domain.ResultLockUnavailable
			return nil
		case errors.Is(err, domain.ErrOrderNotFound):
			out.Result = domain.ResultOrderNotFound
			return nil
		case err != nil:
			return fmt.Errorf("lock order %s: %w", in.OrderID, err)
		}
		out.Order = order

		expected, err := ToMinorUnits(order.Amount)
		if err != nil {
			return fmt.Errorf("order %s amount: %w", order.ID, err)
		}
		out.ExpectedFeeMinor = expected

		if in.TotalFeeMinor != expected {
			out.Result = domain.ResultAmountMismatch
			return nil
		}

		if order.TransactionID != "" && order.TransactionID != in.TransactionID {
			out.Result = domain.ResultTransactionIDConflict
			return nil
		}

		switch order.Status {
		case domain.StatusPaid:
			if order.TransactionID == in.TransactionID {
				out.Result = domain.ResultAlreadyApplied
				return nil
			}
			// paid without a transaction id breaks the order invariants
			out.Result = domain.ResultTransactionIDConflict
			return nil
		case domain.StatusPending:
		default:
			return fmt.Errorf("order %s in status %s: %w", order.ID, order.Status, domain.ErrOrderNotPayable)
		}

		duration, err := uc.Durations.MembershipDuration(txCtx, order.MembershipID)
		if err != nil {
			return err
		}

		start := in.CompletionTime.UTC()
		end := start.Add(duration)
		update := domain.PaidUpdate{
			OrderID:       order.ID,
			TransactionID: in.TransactionID,
			PaymentMethod: in.PaymentMethod,
			StartDate:     start,
			EndDate:       end,
		}
		if err := uc.OrderRepo.MarkOrderPaid(txCtx, update); err != nil {
			return err
		}

		paid := *order
		paid.Status = domain.StatusPaid
		paid.TransactionID = in.TransactionID
		paid.PaymentMethod = in.PaymentMethod
		paid.StartDate = &start
		paid.EndDate = &end
		out.Order = &paid
		out.Result = domain.ResultApplied
		return nil
	})

	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, domain.ErrDuplicateTransaction),
		errors.Is(err, domain.ErrStatusChanged),
		errors.Is(err, domain.ErrLockUnavailable):
		uc.Logger.Warn("concurrent delivery lost the race, asking gateway to retry",
			"order_id", in.OrderID,
			"transaction_id", in.TransactionID,
			"error", err,
		)
		return ReconcileOutcome{Result: domain.ResultLockUnavailable, Order: out.Order, ExpectedFeeMinor: out.ExpectedFeeMinor}, nil
	default:
		return ReconcileOutcome{}, err
	}
}
