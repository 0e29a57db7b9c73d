package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inventory-system/internal/authz"
	"inventory-system/internal/entities"
	"inventory-system/pkg/contextkeys"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/service"
)

type mapAccounts map[uint64]*entities.Account

func (m mapAccounts) GetAccount(_ context.Context, id uint64) (*entities.Account, error) {
	a, ok := m[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return a, nil
}

type authFixture struct {
	echo   *echo.Echo
	tokens map[uint64][2]string
}

func newAuthFixture(t *testing.T, opsCreate authz.Requirement) *authFixture {
	t.Helper()
	jwtSvc := service.NewJWTService("mw-secret", time.Minute, time.Hour, zap.NewNop())
	accounts := mapAccounts{
		1: {ID: 1, Username: "operator", UserType: entities.UserTypeRegular, IsActive: true},
		2: {ID: 2, Username: "admin", UserType: entities.UserTypeAdmin, IsActive: true},
		3: {ID: 3, Username: "former", UserType: entities.UserTypeAdmin, IsActive: false},
	}
	m := NewAuthMiddleware(jwtSvc, accounts, authz.DefaultPolicy(opsCreate), zap.NewNop())

	e := echo.New()
	ok := func(c echo.Context) error {
		actor, _ := c.Request().Context().Value(contextkeys.ActorKey).(authz.Actor)
		return c.JSON(http.StatusOK, map[string]uint64{"actor": actor.ID})
	}
	api := e.Group("/api", m.Auth)
	api.GET("/devices", ok, m.Authorize(authz.Perm(authz.Devices, authz.View)))
	api.DELETE("/devices/:id", ok, m.Authorize(authz.Perm(authz.Devices, authz.Delete)))
	api.POST("/operations", ok, m.Authorize(authz.Perm(authz.Operations, authz.Create)))
	api.POST("/unknown", ok, m.Authorize(authz.Perm("reports", authz.Create)))

	tokens := make(map[uint64][2]string)
	for id := range accounts {
		access, refresh, err := jwtSvc.GenerateTokens(id)
		require.NoError(t, err)
		tokens[id] = [2]string{access, refresh}
	}
	return &authFixture{echo: e, tokens: tokens}
}

func (f *authFixture) do(method, path, authHeader string) int {
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec.Code
}

func (f *authFixture) bearer(id uint64) string { return "Bearer " + f.tokens[id][0] }

func TestAuth_TokenChecks(t *testing.T) {
	f := newAuthFixture(t, authz.AnyAuthenticated)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/devices", ""))
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/devices", "Token abc"))
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/devices", "Bearer garbage"))
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/devices", "Bearer "+f.tokens[1][1]), "refresh-токен не даёт доступа")
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/devices", f.bearer(1)))
}

func TestAuthorize_PolicyTable(t *testing.T) {
	f := newAuthFixture(t, authz.AnyAuthenticated)

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodDelete, "/api/devices/5", f.bearer(1)))
	assert.Equal(t, http.StatusOK, f.do(http.MethodDelete, "/api/devices/5", f.bearer(2)))
	assert.Equal(t, http.StatusOK, f.do(http.MethodPost, "/api/operations", f.bearer(1)))
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPost, "/api/unknown", f.bearer(2)), "неизвестное право запрещено")
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/api/devices", f.bearer(3)), "отключённая учётная запись")
}

func TestAuthorize_OperationsCreateFromConfig(t *testing.T) {
	f := newAuthFixture(t, authz.AdminOnly)

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPost, "/api/operations", f.bearer(1)))
	assert.Equal(t, http.StatusOK, f.do(http.MethodPost, "/api/operations", f.bearer(2)))
}

func TestInjectLogger_RequestID(t *testing.T) {
	e := echo.New()
	e.Use(InjectLogger(zap.NewNop()))
	var seen string
	e.GET("/", func(c echo.Context) error {
		seen, _ = c.Request().Context().Value(contextkeys.RequestIDKey).(string)
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get(echo.HeaderXRequestID))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-42")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", seen)
}
