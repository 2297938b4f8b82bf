package repository

import (
	"context"
	"time"

	"github.com/ken6921-byte/zuinsurance-app/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UsageRepository interface {
	// GetOrCreate reads the (ymd, username) row, inserting a zero row when
	// absent so the first call of the day always sees concrete counters.
	GetOrCreate(ctx context.Context, ymd, username string) (*model.UsageDaily, error)
	// Increment bumps the counters atomically via upsert — two concurrent
	// calls both land, neither resets the other.
	Increment(ctx context.Context, ymd, username string, imageInc, textInc int) error
	// ResetDay wipes every user's counters for the given day (admin action).
	ResetDay(ctx context.Context, ymd string) error
}

type usageRepo struct{ db *gorm.DB }

func NewUsageRepository(db *gorm.DB) UsageRepository { return &usageRepo{db: db} }

func (r *usageRepo) GetOrCreate(ctx context.Context, ymd, username string) (*model.UsageDaily, error) {
	row := &model.UsageDaily{YMD: ymd, Username: username}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ymd"}, {Name: "username"}},
		DoNothing: true,
	}).Create(row).Error
	if err != nil {
		return nil, err
	}
	var u model.UsageDaily
	err = r.db.WithContext(ctx).Where("ymd = ? AND username = ?", ymd, username).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usageRepo) Increment(ctx context.Context, ymd, username string, imageInc, textInc int) error {
	row := &model.UsageDaily{YMD: ymd, Username: username, ImageCalls: imageInc, TextCalls: textInc}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "ymd"}, {Name: "username"}},
		DoUpdates: clause.Assignments(map[string]any{
			"image_calls": gorm.Expr("image_calls + ?", imageInc),
			"text_calls":  gorm.Expr("text_calls + ?", textInc),
			"updated_at":  time.Now(),
		}),
	}).Create(row).Error
}

func (r *usageRepo) ResetDay(ctx context.Context, ymd string) error {
	return r.db.WithContext(ctx).Where("ymd = ?", ymd).Delete(&model.UsageDaily{}).Error
}
