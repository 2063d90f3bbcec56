package logger

import (
	"context"

	"gorm.io/gorm"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/postgres/models"
)

// PGNotificationLogger persists one audit row per processed notification.
type PGNotificationLogger struct {
	db *gorm.DB
}

func NewPGNotificationLogger(db *gorm.DB) *PGNotificationLogger {
	return &PGNotificationLogger{db: db}
}

func (l *PGNotificationLogger) SaveNotificationLog(ctx context.Context, entry *domain.NotificationLog) error {
	return l.db.WithContext(ctx).Create(&models.NotificationLogModel{
		ID:            entry.ID,
		OrderID:       entry.OrderID,
		TransactionID: entry.TransactionID,
		TotalFee:      entry.TotalFee,
		Outcome:       entry.Outcome,
		Success:       entry.Success,
		Error:         entry.ErrorMessage,
		ProcessingMs:  entry.ProcessingTime,
		ReceivedAt:    entry.ReceivedAt,
		CreatedAt:     entry.CreatedAt,
	}).Error
}
