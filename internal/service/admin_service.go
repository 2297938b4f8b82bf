package service

import (
	"context"

	"github.com/ken6921-byte/zuinsurance-app/internal/repository"

	"github.com/rs/zerolog/log"
)

// AdminService groups the destructive maintenance operations behind one door.
type AdminService interface {
	// WipeData removes all customers, policies, and policy items. Users and
	// usage counters stay.
	WipeData(ctx context.Context) error
}

type adminService struct {
	repo repository.AdminRepository
}

func NewAdminService(repo repository.AdminRepository) AdminService {
	return &adminService{repo: repo}
}

func (s *adminService) WipeData(ctx context.Context) error {
	if err := s.repo.WipeData(ctx); err != nil {
		return err
	}
	log.Warn().Msg("all customer and policy data wiped")
	return nil
}
