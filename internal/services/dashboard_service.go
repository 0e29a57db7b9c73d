package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/repositories"
)

const (
	dashboardCacheKey    = "dashboard:summary"
	dashboardRecentLimit = 10
)

type DashboardServiceInterface interface {
	GetDashboard(ctx context.Context) (*dto.DashboardDTO, error)
	// Invalidate сбрасывает закешированную сводку; вызывается слушателем событий журнала.
	Invalidate(ctx context.Context)
}

type DashboardService struct {
	repo   repositories.DashboardRepositoryInterface
	cache  repositories.CacheRepositoryInterface
	ttl    time.Duration
	logger *zap.Logger
}

func NewDashboardService(
	repo repositories.DashboardRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	ttl time.Duration,
	logger *zap.Logger,
) DashboardServiceInterface {
	return &DashboardService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

func (s *DashboardService) GetDashboard(ctx context.Context) (*dto.DashboardDTO, error) {
	var cached dto.DashboardDTO
	err := s.cache.GetJSON(ctx, dashboardCacheKey, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, repositories.ErrCacheMiss) {
		s.logger.Warn("DashboardService.GetDashboard: кеш недоступен", zap.Error(err))
	}

	totals, err := s.repo.GetTotals(ctx)
	if err != nil {
		s.logger.Error("DashboardService.GetDashboard: не удалось посчитать итоги", zap.Error(err))
		return nil, err
	}
	recent, err := s.repo.GetRecentOperations(ctx, dashboardRecentLimit)
	if err != nil {
		s.logger.Error("DashboardService.GetDashboard: не удалось получить последние операции", zap.Error(err))
		return nil, err
	}

	result := &dto.DashboardDTO{Totals: *totals, RecentOperations: recent}
	if err := s.cache.SetJSON(ctx, dashboardCacheKey, result, s.ttl); err != nil {
		s.logger.Warn("DashboardService.GetDashboard: не удалось записать в кеш", zap.Error(err))
	}
	return result, nil
}

func (s *DashboardService) Invalidate(ctx context.Context) {
	if err := s.cache.Del(ctx, dashboardCacheKey); err != nil {
		s.logger.Warn("DashboardService.Invalidate: ошибка", zap.Error(err))
	}
}
