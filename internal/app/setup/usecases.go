package setup

import (
	"fmt"
	"time"

	"github.com/LavaJover/shvark-payment-service/internal/clock"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/wxpay"
	"github.com/LavaJover/shvark-payment-service/internal/usecase/payment"
)

type UseCases struct {
	ReconcileUsecase *payment.DefaultReconcileUsecase
	NotifyUsecase    *payment.DefaultPaymentNotifyUsecase
}

func InitializeUseCases(deps *Dependencies) (*UseCases, error) {
	cfg := deps.Config

	signType, err := wxpay.ParseSignType(cfg.SignType)
	if err != nil {
		return nil, fmt.Errorf("wechat_pay.sign_type: %w", err)
	}
	if cfg.APIKey == "" {
		deps.Logger.Warn("wechat_pay.api_key is empty, every notification will be rejected")
	}

	durations := payment.NewMembershipDurationResolver(deps.Repositories.MembershipRepo, cfg.DefaultMembership)
	reconcileUsecase := payment.NewDefaultReconcileUsecase(deps.Repositories.OrderRepo, durations, deps.Logger)

	notifyUsecase, err := payment.NewDefaultPaymentNotifyUsecase(
		wxpay.NewVerifier(cfg.APIKey, signType),
		payment.NewReplayGuard(deps.ReplayStore, cfg.ReplayTTL, deps.Logger),
		reconcileUsecase,
		deps.Repositories.OrderRepo,
		deps.EventPublisher,
		deps.Repositories.NotificationLogs,
		deps.Metrics,
		clock.NewSystem(),
		deps.Logger,
		payment.NotifyConfig{
			MaxSkew:        cfg.MaxSkew,
			TimeEndZone:    cfg.TimeEndLocation(),
			PaymentMethod:  cfg.PaymentMethod,
			PublishTimeout: 10 * time.Second,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("notify usecase: %w", err)
	}

	return &UseCases{
		ReconcileUsecase: reconcileUsecase,
		NotifyUsecase:    notifyUsecase,
	}, nil
}
