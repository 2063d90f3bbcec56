package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/postgres/models"
)

type DefaultMembershipRepository struct {
	DB *gorm.DB
}

func NewDefaultMembershipRepository(db *gorm.DB) *DefaultMembershipRepository {
	return &DefaultMembershipRepository{DB: db}
}

func (r *DefaultMembershipRepository) GetMembershipByID(ctx context.Context, membershipID string) (*domain.Membership, error) {
	var model models.MembershipModel
	err := conn(ctx, r.DB).Where("id = ?", membershipID).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrMembershipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return mappers.ToDomainMembership(&model), nil
}
