package repository

import (
	"context"

	"github.com/ken6921-byte/zuinsurance-app/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	// UpsertLogin records a successful login: creates the row on first login
	// and overwrites the role on every one, so an admin-password login
	// promotes an existing user.
	UpsertLogin(ctx context.Context, username, role string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

type userRepo struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepo{db: db} }

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) UpsertLogin(ctx context.Context, username, role string) (*model.User, error) {
	u := &model.User{Username: username, Role: role}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.Assignments(map[string]any{"role": role}),
	}).Create(u).Error
	if err != nil {
		return nil, err
	}
	// Re-read: on conflict the in-memory struct keeps the generated UUID, not
	// the stored one.
	return r.FindByUsername(ctx, username)
}

func (r *userRepo) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Order("created_at asc").Find(&users).Error
	return users, err
}
