package setup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/LavaJover/shvark-payment-service/internal/config"
	"github.com/LavaJover/shvark-payment-service/internal/domain"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/replay"
)

type ReplayStore interface {
	domain.ReplayStore
	Ping(ctx context.Context) error
}

type Dependencies struct {
	Config         *config.PaymentConfig
	Logger         *slog.Logger
	DB             *gorm.DB
	Redis          *redis.Client
	ReplayStore    ReplayStore
	KafkaPublisher *publisher.DefaultKafkaPublisher
	EventPublisher domain.PaymentEventPublisher
	Registry       *prometheus.Registry
	Metrics        *metrics.PaymentMetrics
	Repositories   *Repositories
}

type Repositories struct {
	OrderRepo        *repository.DefaultOrderRepository
	MembershipRepo   domain.MembershipRepository
	NotificationLogs domain.NotificationLogRepository
}

func InitializeDependencies(cfg *config.PaymentConfig, log *slog.Logger) (*Dependencies, error) {
	db, err := postgres.InitDB(cfg.PaymentDB)
	if err != nil {
		return nil, err
	}

	if cfg.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.MigrationsPath); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}

	deps := &Dependencies{
		Config: cfg,
		Logger: log,
		DB:     db,
		Repositories: &Repositories{
			OrderRepo:        repository.NewDefaultOrderRepository(db),
			MembershipRepo:   repository.NewDefaultMembershipRepository(db),
			NotificationLogs: logger.NewPGNotificationLogger(db),
		},
	}

	if cfg.Redis.Addr != "" {
		deps.Redis = replay.NewRedisClient(cfg.Redis)
		deps.ReplayStore = replay.NewRedisStore(deps.Redis, cfg.KeyPrefix)
	} else {
		log.Warn("redis.addr is empty, replay markers are kept in process memory")
		deps.ReplayStore = replay.NewMemoryStore(nil)
	}

	if len(cfg.Brokers) > 0 {
		kp, err := publisher.NewDefaultKafkaPublisher(cfg.KafkaService)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("kafka publisher: %w", err)
		}
		deps.KafkaPublisher = kp
		deps.EventPublisher = publisher.NewPaymentEventPublisher(kp, cfg.EventsTopic, cfg.AlertsTopic)
	} else {
		log.Warn("kafka-service.brokers is empty, payment events and alerts are only logged")
	}

	deps.Registry = prometheus.NewRegistry()
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.Metrics = metrics.NewPaymentMetrics(deps.Registry)

	return deps, nil
}

func (d *Dependencies) PingDB(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases external connections. Safe to call on partially built deps.
func (d *Dependencies) Close() {
	if d.KafkaPublisher != nil {
		if err := d.KafkaPublisher.Close(); err != nil {
			d.Logger.Warn("failed to close kafka writer", "error", err)
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Warn("failed to close redis client", "error", err)
		}
	}
	if d.DB != nil {
		if sqlDB, err := d.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				d.Logger.Warn("failed to close database", "error", err)
			}
		}
	}
}
