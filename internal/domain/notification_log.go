package domain

import (
	"context"
	"time"
)

type NotificationLog struct {
	ID             string
	OrderID        string
	TransactionID  string
	TotalFee       int64
	Outcome        string
	Success        bool
	ErrorMessage   string
	ProcessingTime int64
	ReceivedAt     time.Time
	CreatedAt      time.Time
}

type NotificationLogRepository interface {
	SaveNotificationLog(ctx context.Context, log *NotificationLog) error
}
