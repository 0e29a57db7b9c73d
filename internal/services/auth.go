package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/service"
	"inventory-system/pkg/utils"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponseDTO, error)
	Me(ctx context.Context) (*dto.MeDTO, error)
}

type AuthService struct {
	accountRepo  repositories.AccountRepositoryInterface
	accountCache AccountCacheServiceInterface
	jwtService   service.JWTService
	logger       *zap.Logger
}

func NewAuthService(
	accountRepo repositories.AccountRepositoryInterface,
	accountCache AccountCacheServiceInterface,
	jwtService service.JWTService,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{accountRepo: accountRepo, accountCache: accountCache, jwtService: jwtService, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	account, err := s.accountRepo.FindByUsername(ctx, strings.TrimSpace(payload.Username))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := utils.CheckPassword(account.PasswordHash, payload.Password); err != nil {
		s.logger.Info("Login: неверный пароль", zap.String("username", account.Username))
		return nil, apperrors.ErrInvalidCredentials
	}
	if !account.IsActive {
		return nil, apperrors.ErrAccountInactive
	}

	access, refresh, err := s.jwtService.GenerateTokens(account.ID)
	if err != nil {
		s.logger.Error("Login: не удалось выпустить токены", zap.Uint64("accountID", account.ID), zap.Error(err))
		return nil, err
	}
	if err := s.accountRepo.UpdateLastLogin(ctx, account.ID); err != nil {
		s.logger.Warn("Login: не удалось обновить last_login", zap.Uint64("accountID", account.ID), zap.Error(err))
	}
	s.accountCache.Invalidate(ctx, account.ID)

	s.logger.Info("Успешный вход", zap.Uint64("accountID", account.ID))
	return &dto.AuthResponseDTO{AccessToken: access, RefreshToken: refresh, Account: account}, nil
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponseDTO, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrInvalidToken
	}

	account, err := s.accountCache.GetAccount(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if !account.IsActive {
		return nil, apperrors.ErrAccountInactive
	}

	access, refresh, err := s.jwtService.GenerateTokens(account.ID)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponseDTO{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) Me(ctx context.Context) (*dto.MeDTO, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	account, err := s.accountCache.GetAccount(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	return &dto.MeDTO{Account: account, IsAdmin: account.IsAdmin()}, nil
}
