package service

import (
	"context"

	"github.com/ken6921-byte/zuinsurance-app/internal/dto"
	"github.com/ken6921-byte/zuinsurance-app/internal/repository"
)

type ReportService interface {
	CustomerOverview(ctx context.Context) ([]dto.CustomerOverviewRow, error)
	CategoryStats(ctx context.Context) ([]dto.CategoryStatRow, error)
}

type reportService struct {
	repo repository.ReportRepository
}

func NewReportService(repo repository.ReportRepository) ReportService {
	return &reportService{repo: repo}
}

func (s *reportService) CustomerOverview(ctx context.Context) ([]dto.CustomerOverviewRow, error) {
	rows, err := s.repo.CustomerOverview(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CustomerOverviewRow, len(rows))
	for i, r := range rows {
		result[i] = dto.CustomerOverviewRow{
			CustomerID:      r.CustomerID,
			Name:            r.Name,
			Phone:           r.Phone,
			IDNo:            r.IDNo,
			PolicyCount:     r.PolicyCount,
			TotalPremium:    r.TotalPremium,
			LastUpdatedDate: r.LastUpdated,
		}
	}
	return result, nil
}

func (s *reportService) CategoryStats(ctx context.Context) ([]dto.CategoryStatRow, error) {
	rows, err := s.repo.CategoryStats(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CategoryStatRow, len(rows))
	for i, r := range rows {
		result[i] = dto.CategoryStatRow{
			CustomerName: r.CustomerName,
			Category:     r.Category,
			ItemCount:    r.ItemCount,
			PremiumSum:   r.PremiumSum,
		}
	}
	return result, nil
}
