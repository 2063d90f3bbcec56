package models

import "time"

// NotificationLogModel is the audit trail of inbound payment notifications.
type NotificationLogModel struct {
	ID            string `gorm:"primaryKey;type:uuid"`
	OrderID       string `gorm:"index"`
	TransactionID string `gorm:"index"`
	TotalFee      int64
	Outcome       string `gorm:"not null"`
	Success       bool   `gorm:"not null"`
	Error         string
	ProcessingMs  int64
	ReceivedAt    time.Time `gorm:"not null"`
	CreatedAt     time.Time
}

func (NotificationLogModel) TableName() string {
	return "payment_notification_logs"
}
