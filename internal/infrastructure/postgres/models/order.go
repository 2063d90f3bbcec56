package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MembershipOrderModel struct {
	ID            string          `gorm:"primaryKey;type:varchar(36)"`
	UserID        string          `gorm:"type:varchar(36);index"`
	MembershipID  string          `gorm:"type:varchar(36)"`
	Amount        decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Status        string          `gorm:"type:varchar(16);not null;default:pending"`
	PaymentMethod *string         `gorm:"type:varchar(20)"`
	TransactionID *string         `gorm:"type:varchar(100);uniqueIndex:idx_membership_orders_transaction_id,where:transaction_id IS NOT NULL"`
	StartDate     *time.Time
	EndDate       *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (MembershipOrderModel) TableName() string {
	return "membership_orders"
}
