package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/postgres/models"
)

type DefaultOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{DB: db}
}

func (r *DefaultOrderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.DB, fn)
}

// GetOrderForUpdateSkipLocked must run inside WithTx, otherwise the lock is
// released as soon as the statement returns.
func (r *DefaultOrderRepository) GetOrderForUpdateSkipLocked(ctx context.Context, orderID string) (*domain.Order, error) {
	db := conn(ctx, r.DB)

	var rows []models.MembershipOrderModel
	err := db.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("id = ?", orderID).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		if isLockNotAvailable(err) {
			return nil, domain.ErrLockUnavailable
		}
		return nil, fmt.Errorf("select order for update: %w", err)
	}
	if len(rows) == 1 {
		return mappers.ToDomainOrder(&rows[0]), nil
	}

	// SKIP LOCKED hides both missing and locked rows
	var count int64
	if err := db.Model(&models.MembershipOrderModel{}).Where("id = ?", orderID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check order existence: %w", err)
	}
	if count == 0 {
		return nil, domain.ErrOrderNotFound
	}
	return nil, domain.ErrLockUnavailable
}

func (r *DefaultOrderRepository) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	var model models.MembershipOrderModel
	err := conn(ctx, r.DB).Where("id = ?", orderID).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return mappers.ToDomainOrder(&model), nil
}

func (r *DefaultOrderRepository) MarkOrderPaid(ctx context.Context, update domain.PaidUpdate) error {
	res := conn(ctx, r.DB).Model(&models.MembershipOrderModel{}).
		Where("id = ? AND status = ?", update.OrderID, string(domain.StatusPending)).
		Updates(map[string]interface{}{
			"status":         string(domain.StatusPaid),
			"transaction_id": update.TransactionID,
			"payment_method": update.PaymentMethod,
			"start_date":     update.StartDate,
			"end_date":       update.EndDate,
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateTransaction, update.TransactionID)
		}
		if isLockNotAvailable(res.Error) {
			return domain.ErrLockUnavailable
		}
		return fmt.Errorf("mark order paid: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrStatusChanged
	}
	return nil
}

// CreateOrder inserts a pending order. Order creation belongs to the checkout
// flow; the payment service only uses it for fixtures and backfills.
func (r *DefaultOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	if err := conn(ctx, r.DB).Create(mappers.ToGORMOrder(order)).Error; err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}
