package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ken6921-byte/zuinsurance-app/internal/dto"
	"github.com/ken6921-byte/zuinsurance-app/internal/model"
	"github.com/ken6921-byte/zuinsurance-app/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerService interface {
	// Upsert resolves identity by (name, id_no) when id_no is present, else by
	// name alone, then creates or refreshes the record. Used by manual create,
	// the extraction flow, and spreadsheet import alike so all three share one
	// identity rule.
	Upsert(ctx context.Context, req dto.CreateCustomerRequest) (*model.Customer, error)
	Get(ctx context.Context, id uuid.UUID) (dto.CustomerResponse, error)
	Search(ctx context.Context, q string) ([]dto.CustomerResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (dto.CustomerResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func mapCustomer(c model.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		IDNo:      c.IDNo,
		Birthday:  c.Birthday,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (s *customerService) Upsert(ctx context.Context, req dto.CreateCustomerRequest) (*model.Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.New("客戶姓名不可為空")
	}
	idNo := strings.TrimSpace(req.IDNo)

	existing, err := s.repo.FindByIdentity(ctx, name, idNo)
	switch {
	case err == nil:
		// Contact fields are refreshed wholesale from the caller's payload;
		// name and id_no are identity and never touched here.
		existing.Birthday = strings.TrimSpace(req.Birthday)
		existing.Phone = strings.TrimSpace(req.Phone)
		existing.Email = strings.TrimSpace(req.Email)
		existing.Address = strings.TrimSpace(req.Address)
		existing.Notes = strings.TrimSpace(req.Notes)
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		c := &model.Customer{
			Name:     name,
			IDNo:     idNo,
			Birthday: strings.TrimSpace(req.Birthday),
			Phone:    strings.TrimSpace(req.Phone),
			Email:    strings.TrimSpace(req.Email),
			Address:  strings.TrimSpace(req.Address),
			Notes:    strings.TrimSpace(req.Notes),
		}
		if err := s.repo.Create(ctx, c); err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, err
	}
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CustomerResponse{}, ErrNotFound
		}
		return dto.CustomerResponse{}, err
	}
	return mapCustomer(*c), nil
}

func (s *customerService) Search(ctx context.Context, q string) ([]dto.CustomerResponse, error) {
	customers, err := s.repo.Search(ctx, strings.TrimSpace(q))
	if err != nil {
		return nil, err
	}
	result := make([]dto.CustomerResponse, 0, len(customers))
	for _, c := range customers {
		result = append(result, mapCustomer(c))
	}
	return result, nil
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CustomerResponse{}, ErrNotFound
		}
		return dto.CustomerResponse{}, err
	}

	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.IDNo != nil {
		c.IDNo = strings.TrimSpace(*req.IDNo)
	}
	if req.Birthday != nil {
		c.Birthday = strings.TrimSpace(*req.Birthday)
	}
	if req.Phone != nil {
		c.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		c.Email = strings.TrimSpace(*req.Email)
	}
	if req.Address != nil {
		c.Address = strings.TrimSpace(*req.Address)
	}
	if req.Notes != nil {
		c.Notes = strings.TrimSpace(*req.Notes)
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return dto.CustomerResponse{}, err
	}
	return mapCustomer(*c), nil
}

func (s *customerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}
