package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "inventory-system/pkg/errors"
)

func TestParseFilterFromQuery(t *testing.T) {
	values := url.Values{
		"search":                  {"  SN-01 "},
		"sort[serial]":            {"DESC"},
		"sort[name]":              {"sideways"},
		"filter[manufacturer_id]": {"1", "2"},
		"filter[is_used]":         {""},
		"limit":                   {"20"},
		"page":                    {"3"},
		"unrelated":               {"x"},
	}

	f := ParseFilterFromQuery(values)

	assert.Equal(t, "SN-01", f.Search)
	assert.Equal(t, map[string]string{"serial": "desc"}, f.Sort)
	assert.Equal(t, map[string]interface{}{"manufacturer_id": "1,2"}, f.Filter)
	assert.Equal(t, 20, f.Limit)
	assert.Equal(t, 3, f.Page)
	assert.Equal(t, 40, f.Offset)
	assert.True(t, f.WithPagination)
}

func TestParseFilterFromQuery_Limits(t *testing.T) {
	f := ParseFilterFromQuery(url.Values{})
	assert.Equal(t, DefaultLimit, f.Limit)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 0, f.Offset)

	f = ParseFilterFromQuery(url.Values{"limit": {"100000"}, "page": {"-1"}})
	assert.Equal(t, MaxLimit, f.Limit)
	assert.Equal(t, 1, f.Page)

	f = ParseFilterFromQuery(url.Values{"limit": {"10"}, "offset": {"25"}, "withPagination": {"false"}})
	assert.Equal(t, 25, f.Offset)
	assert.Equal(t, 3, f.Page)
	assert.False(t, f.WithPagination)
}

func errorStatus(t *testing.T, err error) (int, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, ErrorResponse(c, err, zap.NewNop()))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestErrorResponse_Mapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not found", fmt.Errorf("device: %w", apperrors.ErrNotFound), http.StatusNotFound},
		{"integrity", apperrors.NewIntegrityError("devices_serial_key", "серийный номер уже существует"), http.StatusConflict},
		{"cycle", apperrors.ErrCycleDetected, http.StatusUnprocessableEntity},
		{"forbidden", apperrors.ErrPermissionDenied, http.StatusForbidden},
		{"inactive", apperrors.ErrAccountInactive, http.StatusForbidden},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{"http error", apperrors.NewHttpError(http.StatusBadRequest, "Неверный ID", nil, nil), http.StatusBadRequest},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"), http.StatusMethodNotAllowed},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := errorStatus(t, tc.err)
			assert.Equal(t, tc.code, code)
			assert.Equal(t, false, body["status"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestErrorResponse_IntegrityMessageKeepsConstraint(t *testing.T) {
	_, body := errorStatus(t, apperrors.NewIntegrityError("devices_serial_key", "серийный номер уже существует"))
	assert.Contains(t, body["message"], "devices_serial_key")
}

func TestSuccessResponse_Pagination(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?limit=2&page=2", nil), rec)

	require.NoError(t, SuccessResponse(c, []int{3, 4}, "ok", http.StatusOK, 5))

	var resp struct {
		Status bool `json:"status"`
		Body   struct {
			List       []int `json:"list"`
			Pagination struct {
				TotalCount uint64 `json:"total_count"`
				TotalPages int    `json:"total_pages"`
				Page       int    `json:"page"`
			} `json:"pagination"`
		} `json:"body"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Status)
	assert.Equal(t, []int{3, 4}, resp.Body.List)
	assert.Equal(t, uint64(5), resp.Body.Pagination.TotalCount)
	assert.Equal(t, 3, resp.Body.Pagination.TotalPages)
	assert.Equal(t, 2, resp.Body.Pagination.Page)
}

func TestParseIDParam(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")

	c.SetParamValues("42")
	id, err := ParseIDParam(c, "id")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	for _, raw := range []string{"0", "abc", "-3"} {
		c.SetParamValues(raw)
		_, err := ParseIDParam(c, "id")
		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr, raw)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	}
}
