package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/authz"
	"inventory-system/internal/entities"
	"inventory-system/pkg/contextkeys"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/service"
	"inventory-system/pkg/utils"
)

// AccountSource отдаёт учётную запись по ID (обычно через кеш).
type AccountSource interface {
	GetAccount(ctx context.Context, id uint64) (*entities.Account, error)
}

type AuthMiddleware struct {
	jwtService service.JWTService
	accounts   AccountSource
	policy     *authz.Policy
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, accounts AccountSource, policy *authz.Policy, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		accounts:   accounts,
		policy:     policy,
		logger:     logger,
	}
}

// Auth проверяет bearer access-токен и кладёт UserID в контекст запроса.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("AuthMiddleware: Неверный формат заголовка Authorization")
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("AuthMiddleware: Ошибка валидации токена", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}
		if claims.IsRefreshToken {
			m.logger.Warn("AuthMiddleware: Попытка доступа с refresh токеном", zap.Uint64("userID", claims.UserID))
			return utils.ErrorResponse(c, apperrors.ErrTokenIsNotAccess, m.logger)
		}

		ctx := context.WithValue(c.Request().Context(), contextkeys.UserIDKey, claims.UserID)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// Authorize пропускает запрос, только если политика разрешает perm текущей учётной записи.
// Должен стоять после Auth.
func (m *AuthMiddleware) Authorize(perm authz.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			userID, err := utils.GetUserIDFromCtx(ctx)
			if err != nil {
				return utils.ErrorResponse(c, err, m.logger)
			}

			account, err := m.accounts.GetAccount(ctx, userID)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
				}
				return utils.ErrorResponse(c, err, m.logger)
			}

			actor := authz.ActorFromAccount(account)
			if !m.policy.Can(actor, perm) {
				m.logger.Info("AuthMiddleware: доступ запрещён",
					zap.Uint64("userID", userID), zap.String("permission", perm.String()))
				if !actor.Active {
					return utils.ErrorResponse(c, apperrors.ErrAccountInactive, m.logger)
				}
				return utils.ErrorResponse(c, apperrors.ErrPermissionDenied, m.logger)
			}

			c.SetRequest(c.Request().WithContext(context.WithValue(ctx, contextkeys.ActorKey, actor)))
			return next(c)
		}
	}
}
