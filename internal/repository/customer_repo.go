package repository

import (
	"context"

	"github.com/ken6921-byte/zuinsurance-app/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	// FindByIdentity resolves customer identity: (name, id_no) when idNo is
	// non-empty, name alone otherwise. Name-only matching merges same-name
	// people — documented ambiguity, not silently "fixed" here.
	FindByIdentity(ctx context.Context, name, idNo string) (*model.Customer, error)
	// Search filters by substring over name, id_no, and phone. Empty query
	// lists everyone, most recently updated first.
	Search(ctx context.Context, q string) ([]model.Customer, error)
	List(ctx context.Context) ([]model.Customer, error)
	Update(ctx context.Context, c *model.Customer) error
	// Delete removes the customer; policies and their items go with it
	// (DB-level cascade).
	Delete(ctx context.Context, id uuid.UUID) error
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepo) FindByIdentity(ctx context.Context, name, idNo string) (*model.Customer, error) {
	var c model.Customer
	q := r.db.WithContext(ctx).Where("name = ?", name)
	if idNo != "" {
		q = q.Where("id_no = ?", idNo)
	}
	if err := q.First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepo) Search(ctx context.Context, q string) ([]model.Customer, error) {
	var customers []model.Customer
	tx := r.db.WithContext(ctx).Order("updated_at desc")
	if q != "" {
		like := "%" + q + "%"
		tx = tx.Where("name LIKE ? OR id_no LIKE ? OR phone LIKE ?", like, like, like)
	}
	err := tx.Find(&customers).Error
	return customers, err
}

func (r *customerRepo) List(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).Order("updated_at desc").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) Update(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *customerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Customer{}, "id = ?", id).Error
}
