package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
)

const accountCacheKey = "auth:account:%d"

// AccountCacheServiceInterface отдаёт учётную запись для проверки прав, не обращаясь к базе на каждый запрос.
type AccountCacheServiceInterface interface {
	GetAccount(ctx context.Context, id uint64) (*entities.Account, error)
	Invalidate(ctx context.Context, id uint64)
}

type AccountCacheService struct {
	repo   repositories.AccountRepositoryInterface
	cache  repositories.CacheRepositoryInterface
	ttl    time.Duration
	logger *zap.Logger
}

func NewAccountCacheService(
	repo repositories.AccountRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	ttl time.Duration,
	logger *zap.Logger,
) AccountCacheServiceInterface {
	return &AccountCacheService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// GetAccount при недоступном Redis читает из базы; ошибка кеша не ломает запрос.
func (s *AccountCacheService) GetAccount(ctx context.Context, id uint64) (*entities.Account, error) {
	key := fmt.Sprintf(accountCacheKey, id)

	var cached entities.Account
	err := s.cache.GetJSON(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, repositories.ErrCacheMiss) {
		s.logger.Warn("AccountCacheService.GetAccount: кеш недоступен", zap.Error(err))
	}

	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetJSON(ctx, key, account, s.ttl); err != nil {
		s.logger.Warn("AccountCacheService.GetAccount: не удалось записать в кеш", zap.Error(err))
	}
	return account, nil
}

func (s *AccountCacheService) Invalidate(ctx context.Context, id uint64) {
	if err := s.cache.Del(ctx, fmt.Sprintf(accountCacheKey, id)); err != nil {
		s.logger.Warn("AccountCacheService.Invalidate: ошибка", zap.Uint64("id", id), zap.Error(err))
	}
}
