package service

import (
	"context"
	"time"

	"github.com/ken6921-byte/zuinsurance-app/internal/config"
	"github.com/ken6921-byte/zuinsurance-app/internal/dto"
	"github.com/ken6921-byte/zuinsurance-app/internal/repository"
)

// UsageService enforces the per-user daily ceilings on external AI calls.
// The contract is check-before-call, record-after-success: a refused check
// means no external request is ever made, and a failed call is never counted.
type UsageService interface {
	Today(ctx context.Context, username string) (*dto.UsageResponse, error)
	CheckImageAllowance(ctx context.Context, username string) error
	CheckTextAllowance(ctx context.Context, username string) error
	RecordImageCall(ctx context.Context, username string) error
	RecordTextCall(ctx context.Context, username string) error
	ResetToday(ctx context.Context) error
}

type usageService struct {
	repo repository.UsageRepository
	cfg  *config.Config
	// now is swappable so tests can pin the calendar day
	now func() time.Time
}

func NewUsageService(repo repository.UsageRepository, cfg *config.Config) UsageService {
	return &usageService{repo: repo, cfg: cfg, now: time.Now}
}

func (s *usageService) ymd() string { return s.now().Format("2006-01-02") }

func (s *usageService) Today(ctx context.Context, username string) (*dto.UsageResponse, error) {
	u, err := s.repo.GetOrCreate(ctx, s.ymd(), username)
	if err != nil {
		return nil, err
	}
	return &dto.UsageResponse{
		YMD:        u.YMD,
		Username:   u.Username,
		ImageCalls: u.ImageCalls,
		TextCalls:  u.TextCalls,
		ImageLimit: s.cfg.DailyImageLimit,
		TextLimit:  s.cfg.DailyTextLimit,
	}, nil
}

func (s *usageService) CheckImageAllowance(ctx context.Context, username string) error {
	u, err := s.repo.GetOrCreate(ctx, s.ymd(), username)
	if err != nil {
		return err
	}
	if u.ImageCalls >= s.cfg.DailyImageLimit {
		return &LimitError{Kind: "image", Limit: s.cfg.DailyImageLimit}
	}
	return nil
}

func (s *usageService) CheckTextAllowance(ctx context.Context, username string) error {
	u, err := s.repo.GetOrCreate(ctx, s.ymd(), username)
	if err != nil {
		return err
	}
	if u.TextCalls >= s.cfg.DailyTextLimit {
		return &LimitError{Kind: "text", Limit: s.cfg.DailyTextLimit}
	}
	return nil
}

func (s *usageService) RecordImageCall(ctx context.Context, username string) error {
	return s.repo.Increment(ctx, s.ymd(), username, 1, 0)
}

func (s *usageService) RecordTextCall(ctx context.Context, username string) error {
	return s.repo.Increment(ctx, s.ymd(), username, 0, 1)
}

func (s *usageService) ResetToday(ctx context.Context) error {
	return s.repo.ResetDay(ctx, s.ymd())
}
