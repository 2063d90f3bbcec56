package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"

	"github.com/LavaJover/shvark-payment-service/internal/clock"
	"github.com/LavaJover/shvark-payment-service/internal/domain"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/wxpay"
)

type SignatureVerifier interface {
	Verify(fields map[string]string) (bool, error)
}

type NotifyConfig struct {
	MaxSkew        time.Duration
	TimeEndZone    *time.Location
	PaymentMethod  string
	PublishTimeout time.Duration
	LogSaveTimeout time.Duration
}

// NotifyResult is the outcome of one inbound notification. Err is set when the
// notification was rejected (or failed) outside the reconciler's result set.
type NotifyResult struct {
	Result           domain.ReconcileResult
	Replay           domain.ReplayStatus
	Err              error
	OrderID          string
	TransactionID    string
	TotalFeeMinor    int64
	ExpectedFeeMinor int64
	Order            *domain.Order
}

func (r NotifyResult) Succeeded() bool {
	return r.Err == nil && r.Result.Succeeded()
}

// Outcome is a short label used for metrics and the audit log.
func (r NotifyResult) Outcome() string {
	if r.Err != nil {
		return errorLabel(r.Err)
	}
	return r.Result.String()
}

type PaymentNotifyUsecase interface {
	HandleNotification(ctx context.Context, raw []byte) NotifyResult
}

type DefaultPaymentNotifyUsecase struct {
	Verifier         SignatureVerifier
	Replay           *ReplayGuard
	Reconciler       Reconciler
	OrderRepo        domain.OrderRepository
	Publisher        domain.PaymentEventPublisher
	NotificationLogs domain.NotificationLogRepository
	Metrics          *metrics.PaymentMetrics
	Clock            clock.Clock
	Logger           *slog.Logger
	Config           NotifyConfig

	alertID func() string
	wg      sync.WaitGroup
}

func NewDefaultPaymentNotifyUsecase(
	verifier SignatureVerifier,
	replay *ReplayGuard,
	reconciler Reconciler,
	orderRepo domain.OrderRepository,
	publisher domain.PaymentEventPublisher,
	notificationLogs domain.NotificationLogRepository,
	paymentMetrics *metrics.PaymentMetrics,
	clk clock.Clock,
	logger *slog.Logger,
	cfg NotifyConfig,
) (*DefaultPaymentNotifyUsecase, error) {
	alertID, err := nanoid.Standard(15)
	if err != nil {
		return nil, fmt.Errorf("init alert id generator: %w", err)
	}
	if cfg.MaxSkew <= 0 {
		cfg.MaxSkew = DefaultMaxSkew
	}
	if cfg.TimeEndZone == nil {
		cfg.TimeEndZone = time.UTC
	}
	if cfg.PaymentMethod == "" {
		cfg.PaymentMethod = "wechat"
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 10 * time.Second
	}
	if cfg.LogSaveTimeout <= 0 {
		cfg.LogSaveTimeout = 2 * time.Second
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &DefaultPaymentNotifyUsecase{
		Verifier:         verifier,
		Replay:           replay,
		Reconciler:       reconciler,
		OrderRepo:        orderRepo,
		Publisher:        publisher,
		NotificationLogs: notificationLogs,
		Metrics:          paymentMetrics,
		Clock:            clk,
		Logger:           logger,
		Config:           cfg,
		alertID:          alertID,
	}, nil
}

// HandleNotification runs decode -> signature -> freshness -> replay -> reconcile.
func (uc *DefaultPaymentNotifyUsecase) HandleNotification(ctx context.Context, raw []byte) NotifyResult {
	start := time.Now()
	receivedAt := uc.Clock.Now()

	res := uc.process(ctx, raw, receivedAt)

	uc.report(ctx, res, receivedAt, time.Since(start))
	return res
}

func (uc *DefaultPaymentNotifyUsecase) process(ctx context.Context, raw []byte, now time.Time) NotifyResult {
	var res NotifyResult

	fields, err := wxpay.Decode(raw)
	if err != nil {
		res.Err = err
		return res
	}
	res.OrderID = fields[domain.FieldOutTradeNo]
	res.TransactionID = fields[domain.FieldTransactionID]

	ok, err := uc.Verifier.Verify(fields)
	if err != nil {
		res.Err = err
		return res
	}
	if !ok {
		res.Err = domain.ErrInvalidSignature
		return res
	}

	n, err := ParseNotification(fields, uc.Config.TimeEndZone)
	if err != nil {
		res.Err = err
		return res
	}
	res.TotalFeeMinor = n.TotalFeeMinor

	if err := CheckFreshness(n.CompletionTime, now, uc.Config.MaxSkew); err != nil {
		res.Err = err
		return res
	}

	res.Replay = uc.Replay.CheckAndMark(ctx, n.TransactionID)
	uc.Metrics.RecordReplayCheck(res.Replay.String())

	switch res.Replay {
	case domain.ReplayAlreadySeen:
		return uc.confirmPersisted(ctx, n, res)
	case domain.ReplayFirstSeen, domain.ReplayCacheUnavailable:
		reconcileStart := time.Now()
		outcome, err := uc.Reconciler.Reconcile(ctx, ReconcileInput{
			OrderID:        n.OrderID,
			TransactionID:  n.TransactionID,
			TotalFeeMinor:  n.TotalFeeMinor,
			CompletionTime: n.CompletionTime,
			PaymentMethod:  uc.Config.PaymentMethod,
		})
		if err != nil {
			uc.Metrics.ObserveReconcile("error", time.Since(reconcileStart))
			res.Err = err
			return res
		}
		uc.Metrics.ObserveReconcile(outcome.Result.String(), time.Since(reconcileStart))
		res.Result = outcome.Result
		res.Order = outcome.Order
		res.ExpectedFeeMinor = outcome.ExpectedFeeMinor
		return res
	default:
		res.Err = fmt.Errorf("unexpected replay status %d", res.Replay)
		return res
	}
}

// confirmPersisted answers a duplicate delivery from the committed order
// state instead of trusting the replay marker alone.
func (uc *DefaultPaymentNotifyUsecase) confirmPersisted(ctx context.Context, n *domain.PaymentNotification, res NotifyResult) NotifyResult {
	order, err := uc.OrderRepo.GetOrderByID(ctx, n.OrderID)
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		res.Result = domain.ResultOrderNotFound
		return res
	case err != nil:
		res.Err = fmt.Errorf("read order %s: %w", n.OrderID, err)
		return res
	}
	res.Order = order

	expected, err := ToMinorUnits(order.Amount)
	if err != nil {
		res.Err = fmt.Errorf("order %s amount: %w", order.ID, err)
		return res
	}
	res.ExpectedFeeMinor = expected

	switch {
	case n.TotalFeeMinor != expected:
		res.Result = domain.ResultAmountMismatch
	case order.TransactionID != "" && order.TransactionID != n.TransactionID:
		res.Result = domain.ResultTransactionIDConflict
	case order.IsPaid() && order.TransactionID == n.TransactionID:
		res.Result = domain.ResultAlreadyApplied
	default:
		// marker exists but nothing committed yet: the first delivery is
		// still in flight or failed, let the gateway come back later
		res.Result = domain.ResultLockUnavailable
	}
	return res
}

func (uc *DefaultPaymentNotifyUsecase) report(ctx context.Context, res NotifyResult, receivedAt time.Time, took time.Duration) {
	outcome := res.Outcome()
	uc.Metrics.RecordNotification(outcome)

	attrs := []any{
		"outcome", outcome,
		"order_id", res.OrderID,
		"transaction_id", res.TransactionID,
		"total_fee", res.TotalFeeMinor,
		"replay", res.Replay.String(),
		"took_ms", took.Milliseconds(),
	}
	switch {
	case res.Err == nil && res.Result.RaisesAlert():
		uc.raiseAlert(ctx, res)
	case res.Err == nil && res.Result == domain.ResultApplied:
		uc.Logger.Info("payment applied", attrs...)
		uc.Metrics.RecordPaid(uc.Config.PaymentMethod, res.TotalFeeMinor)
		uc.publishPaid(res)
	case res.Err == nil:
		uc.Logger.Info("payment notification handled", attrs...)
	case errors.Is(res.Err, domain.ErrInvalidSignature):
		uc.Logger.Warn("notification signature mismatch, possible tampering", attrs...)
	case errors.Is(res.Err, domain.ErrMalformedNotification),
		errors.Is(res.Err, domain.ErrMissingFields),
		errors.Is(res.Err, domain.ErrPaymentNotSuccessful),
		errors.Is(res.Err, domain.ErrInvalidTimeFormat),
		errors.Is(res.Err, domain.ErrStaleNotification):
		uc.Logger.Warn("notification rejected", append(attrs, "error", res.Err)...)
	default:
		uc.Logger.Error("notification processing failed", append(attrs, "error", res.Err)...)
	}

	uc.saveLog(ctx, res, receivedAt, took)
}

func (uc *DefaultPaymentNotifyUsecase) raiseAlert(ctx context.Context, res NotifyResult) {
	kind := domain.AlertAmountMismatch
	if res.Result == domain.ResultTransactionIDConflict {
		kind = domain.AlertTransactionIDConflict
	}

	alert := domain.PaymentAlert{
		AlertID:          uc.alertID(),
		Kind:             kind,
		OrderID:          res.OrderID,
		TransactionID:    res.TransactionID,
		ReportedFeeMinor: res.TotalFeeMinor,
		ExpectedFeeMinor: res.ExpectedFeeMinor,
		RaisedAt:         uc.Clock.Now(),
	}
	if res.Order != nil {
		alert.ExistingTransactionID = res.Order.TransactionID
	}

	uc.Metrics.RecordAlert(string(kind))
	uc.Logger.Error("payment alert raised, manual review required",
		"alert_id", alert.AlertID,
		"kind", kind,
		"order_id", alert.OrderID,
		"transaction_id", alert.TransactionID,
		"existing_transaction_id", alert.ExistingTransactionID,
		"reported_fee", alert.ReportedFeeMinor,
		"expected_fee", alert.ExpectedFeeMinor,
		"replay", res.Replay.String(),
	)

	if uc.Publisher == nil {
		return
	}
	uc.async(func() {
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.Config.PublishTimeout)
		defer cancel()
		if err := uc.Publisher.PublishAlert(pubCtx, alert); err != nil {
			uc.Logger.Error("failed to publish payment alert", "alert_id", alert.AlertID, "error", err)
		}
	})
}

func (uc *DefaultPaymentNotifyUsecase) publishPaid(res NotifyResult) {
	if uc.Publisher == nil || res.Order == nil {
		return
	}

	order := res.Order
	event := domain.OrderPaidEvent{
		EventID:       uuid.NewString(),
		OrderID:       order.ID,
		UserID:        order.UserID,
		MembershipID:  order.MembershipID,
		TransactionID: order.TransactionID,
		PaymentMethod: order.PaymentMethod,
		AmountMinor:   res.TotalFeeMinor,
		PaidAt:        uc.Clock.Now(),
	}
	if order.StartDate != nil {
		event.StartDate = *order.StartDate
	}
	if order.EndDate != nil {
		event.EndDate = *order.EndDate
	}

	uc.async(func() {
		ctx, cancel := context.WithTimeout(context.Background(), uc.Config.PublishTimeout)
		defer cancel()
		if err := uc.Publisher.PublishOrderPaid(ctx, event); err != nil {
			uc.Logger.Error("failed to publish order paid event", "order_id", event.OrderID, "error", err)
		}
	})
}

func (uc *DefaultPaymentNotifyUsecase) saveLog(ctx context.Context, res NotifyResult, receivedAt time.Time, took time.Duration) {
	if uc.NotificationLogs == nil {
		return
	}

	entry := &domain.NotificationLog{
		ID:             uuid.NewString(),
		OrderID:        res.OrderID,
		TransactionID:  res.TransactionID,
		TotalFee:       res.TotalFeeMinor,
		Outcome:        res.Outcome(),
		Success:        res.Succeeded(),
		ProcessingTime: took.Milliseconds(),
		ReceivedAt:     receivedAt,
		CreatedAt:      uc.Clock.Now(),
	}
	if res.Err != nil {
		entry.ErrorMessage = res.Err.Error()
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.Config.LogSaveTimeout)
	defer cancel()
	if err := uc.NotificationLogs.SaveNotificationLog(saveCtx, entry); err != nil {
		uc.Logger.Warn("failed to save notification log", "order_id", res.OrderID, "error", err)
	}
}

func (uc *DefaultPaymentNotifyUsecase) async(fn func()) {
	uc.wg.Add(1)
	go func() {
		defer uc.wg.Done()
		fn()
	}()
}

// Wait blocks until background publications finish.
func (uc *DefaultPaymentNotifyUsecase) Wait() {
	uc.wg.Wait()
}
