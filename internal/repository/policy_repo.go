package repository

import (
	"context"
	"time"

	"github.com/ken6921-byte/zuinsurance-app/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PolicyRepository interface {
	// Create inserts the policy and its items in one transaction, so a crash
	// mid-ingest can never leave a policy without its line items.
	Create(ctx context.Context, p *model.Policy) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Policy, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Policy, error)
	ListAll(ctx context.Context) ([]model.Policy, error)
	ListAllItems(ctx context.Context) ([]model.PolicyItem, error)
	UpdateHealthReport(ctx context.Context, id uuid.UUID, report string) error
	// Delete removes the policy; items go with it (DB-level cascade).
	Delete(ctx context.Context, id uuid.UUID) error
}

type policyRepo struct{ db *gorm.DB }

func NewPolicyRepository(db *gorm.DB) PolicyRepository { return &policyRepo{db: db} }

func (r *policyRepo) Create(ctx context.Context, p *model.Policy) error {
	// GORM inserts the Items association inside the same implicit transaction.
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *policyRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Policy, error) {
	var p model.Policy
	err := r.db.WithContext(ctx).Preload("Items").First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *policyRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Policy, error) {
	var policies []model.Policy
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("updated_at desc").
		Find(&policies).Error
	return policies, err
}

func (r *policyRepo) ListAll(ctx context.Context) ([]model.Policy, error) {
	var policies []model.Policy
	err := r.db.WithContext(ctx).Order("created_at asc").Find(&policies).Error
	return policies, err
}

func (r *policyRepo) ListAllItems(ctx context.Context) ([]model.PolicyItem, error) {
	var items []model.PolicyItem
	err := r.db.WithContext(ctx).Find(&items).Error
	return items, err
}

func (r *policyRepo) UpdateHealthReport(ctx context.Context, id uuid.UUID, report string) error {
	return r.db.WithContext(ctx).Model(&model.Policy{}).
		Where("id = ?", id).
		Updates(map[string]any{"health_report": report, "updated_at": time.Now()}).Error
}

func (r *policyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Policy{}, "id = ?", id).Error
}
