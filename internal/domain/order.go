package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending OrderStatus = "pending"
	StatusPaid    OrderStatus = "paid"
	// reserved, nothing in this service moves an order to failed
	StatusFailed OrderStatus = "failed"
)

// Order is a membership order as seen by payment reconciliation.
// Amount is kept in major units (yuan) with two fractional digits.
type Order struct {
	ID            string
	UserID        string
	MembershipID  string
	Amount        decimal.Decimal
	Status        OrderStatus
	PaymentMethod string
	TransactionID string
	StartDate     *time.Time
	EndDate       *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (o *Order) IsPaid() bool {
	return o.Status == StatusPaid
}

// PaidUpdate carries the single pending -> paid mutation.
type PaidUpdate struct {
	OrderID       string
	TransactionID string
	PaymentMethod string
	StartDate     time.Time
	EndDate       time.Time
}

type Membership struct {
	ID           string
	Name         string
	Price        decimal.Decimal
	DurationDays int
	IsActive     bool
}

func (m *Membership) Duration() time.Duration {
	return time.Duration(m.DurationDays) * 24 * time.Hour
}
