package repository

import (
	"context"

	"github.com/ken6921-byte/zuinsurance-app/internal/model"

	"gorm.io/gorm"
)

// AdminRepository holds destructive maintenance operations. Callers must have
// already confirmed intent — nothing here is reversible.
type AdminRepository interface {
	// WipeData deletes all policy items, policies, and customers in one
	// transaction. Users and usage counters survive.
	WipeData(ctx context.Context) error
}

type adminRepo struct{ db *gorm.DB }

func NewAdminRepository(db *gorm.DB) AdminRepository { return &adminRepo{db: db} }

func (r *adminRepo) WipeData(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.PolicyItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&model.Policy{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&model.Customer{}).Error
	})
}
