package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/pkg/contextkeys"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/service"
	"inventory-system/pkg/utils"
)

type stubAccountRepo struct {
	accounts   map[uint64]*entities.Account
	finds      int
	lastLogins []uint64
}

func (r *stubAccountRepo) FindByID(_ context.Context, id uint64) (*entities.Account, error) {
	r.finds++
	a, ok := r.accounts[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *stubAccountRepo) FindByUsername(_ context.Context, username string) (*entities.Account, error) {
	for _, a := range r.accounts {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *stubAccountRepo) UpdateLastLogin(_ context.Context, id uint64) error {
	r.lastLogins = append(r.lastLogins, id)
	return nil
}

func (r *stubAccountRepo) Upsert(_ context.Context, a entities.Account) (uint64, error) {
	a.ID = uint64(len(r.accounts) + 1)
	r.accounts[a.ID] = &a
	return a.ID, nil
}

func newAuthFixture(t *testing.T) (*stubAccountRepo, AuthServiceInterface, service.JWTService) {
	t.Helper()
	hash, err := utils.HashPassword("s3cret")
	require.NoError(t, err)

	repo := &stubAccountRepo{accounts: map[uint64]*entities.Account{
		1: {ID: 1, Username: "operator", PasswordHash: hash, UserType: entities.UserTypeRegular, IsActive: true},
		2: {ID: 2, Username: "blocked", PasswordHash: hash, UserType: entities.UserTypeAdmin, IsActive: false},
	}}
	jwtSvc := service.NewJWTService("test-secret", time.Minute, time.Hour, zap.NewNop())
	cache := NewAccountCacheService(repo, newMemCache(), time.Minute, zap.NewNop())
	return repo, NewAuthService(repo, cache, jwtSvc, zap.NewNop()), jwtSvc
}

func TestAuthService_Login(t *testing.T) {
	repo, svc, jwtSvc := newAuthFixture(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, dto.LoginDTO{Username: " operator ", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, repo.lastLogins)

	claims, err := jwtSvc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), claims.UserID)
	assert.False(t, claims.IsRefreshToken)

	_, err = svc.Login(ctx, dto.LoginDTO{Username: "operator", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, dto.LoginDTO{Username: "nobody", Password: "s3cret"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, dto.LoginDTO{Username: "blocked", Password: "s3cret"})
	assert.ErrorIs(t, err, apperrors.ErrAccountInactive)
}

func TestAuthService_RefreshAndMe(t *testing.T) {
	repo, svc, _ := newAuthFixture(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, dto.LoginDTO{Username: "operator", Password: "s3cret"})
	require.NoError(t, err)

	_, err = svc.RefreshToken(ctx, res.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken, "access-токен не обновляет сессию")

	refreshed, err := svc.RefreshToken(ctx, res.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.Me(ctx)
	assert.ErrorIs(t, err, apperrors.ErrUserIDNotFoundInContext)

	meCtx := context.WithValue(ctx, contextkeys.UserIDKey, uint64(1))
	me, err := svc.Me(meCtx)
	require.NoError(t, err)
	assert.Equal(t, "operator", me.Account.Username)
	assert.False(t, me.IsAdmin)

	finds := repo.finds
	_, err = svc.Me(meCtx)
	require.NoError(t, err)
	assert.Equal(t, finds, repo.finds, "повторный запрос обслужен кешем")
}
