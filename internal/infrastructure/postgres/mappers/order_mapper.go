package mappers

import (
	"github.com/LavaJover/shvark-payment-service/internal/domain"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/postgres/models"
)

func ToDomainOrder(model *models.MembershipOrderModel) *domain.Order {
	return &domain.Order{
		ID:            model.ID,
		UserID:        model.UserID,
		MembershipID:  model.MembershipID,
		Amount:        model.Amount,
		Status:        domain.OrderStatus(model.Status),
		PaymentMethod: deref(model.PaymentMethod),
		TransactionID: deref(model.TransactionID),
		StartDate:     model.StartDate,
		EndDate:       model.EndDate,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func ToGORMOrder(order *domain.Order) *models.MembershipOrderModel {
	return &models.MembershipOrderModel{
		ID:            order.ID,
		UserID:        order.UserID,
		MembershipID:  order.MembershipID,
		Amount:        order.Amount,
		Status:        string(order.Status),
		PaymentMethod: ref(order.PaymentMethod),
		TransactionID: ref(order.TransactionID),
		StartDate:     order.StartDate,
		EndDate:       order.EndDate,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

func ToDomainMembership(model *models.MembershipModel) *domain.Membership {
	return &domain.Membership{
		ID:           model.ID,
		Name:         model.Name,
		Price:        model.Price,
		DurationDays: model.DurationDays,
		IsActive:     model.IsActive,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ref keeps empty strings as NULL so the partial unique index ignores them.
func ref(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
