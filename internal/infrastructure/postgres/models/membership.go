package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MembershipModel struct {
	ID           string          `gorm:"primaryKey;type:varchar(36)"`
	Name         string          `gorm:"type:varchar(50)"`
	Price        decimal.Decimal `gorm:"type:numeric(10,2)"`
	DurationDays int             `gorm:"not null"`
	IsActive     bool
	CreatedAt    time.Time
}

func (MembershipModel) TableName() string {
	return "memberships"
}
