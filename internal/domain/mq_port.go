package domain

import (
	"context"
	"time"
)

type Message struct {
	Key   []byte
	Value []byte
}

type PublisherPort interface {
	Publish(ctx context.Context, topic string, msgs ...Message) error
}

type OrderPaidEvent struct {
	EventID       string    `json:"event_id"`
	OrderID       string    `json:"order_id"`
	UserID        string    `json:"user_id"`
	MembershipID  string    `json:"membership_id"`
	TransactionID string    `json:"transaction_id"`
	PaymentMethod string    `json:"payment_method"`
	AmountMinor   int64     `json:"amount_minor"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	PaidAt        time.Time `json:"paid_at"`
}

type AlertKind string

const (
	AlertAmountMismatch        AlertKind = "amount_mismatch"
	AlertTransactionIDConflict AlertKind = "transaction_id_conflict"
)

type PaymentAlert struct {
	AlertID               string    `json:"alert_id"`
	Kind                  AlertKind `json:"kind"`
	OrderID               string    `json:"order_id"`
	TransactionID         string    `json:"transaction_id"`
	ExistingTransactionID string    `json:"existing_transaction_id,omitempty"`
	ReportedFeeMinor      int64     `json:"reported_fee_minor"`
	ExpectedFeeMinor      int64     `json:"expected_fee_minor"`
	RaisedAt              time.Time `json:"raised_at"`
}

// PaymentEventPublisher ships paid events and alerts to downstream consumers.
type PaymentEventPublisher interface {
	PublishOrderPaid(ctx context.Context, event OrderPaidEvent) error
	PublishAlert(ctx context.Context, alert PaymentAlert) error
}
