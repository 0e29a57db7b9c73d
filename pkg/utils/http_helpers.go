package utils

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

const (
	DefaultLimit = 200
	MaxLimit     = 500
)

// sentinelStatuses сопоставляет доменные ошибки с HTTP-кодами.
var sentinelStatuses = []struct {
	err     error
	code    int
	message string
}{
	{apperrors.ErrNotFound, http.StatusNotFound, "Запись не найдена"},
	{apperrors.ErrIntegrityViolation, http.StatusConflict, ""},
	{apperrors.ErrCycleDetected, http.StatusUnprocessableEntity, "Назначение родителя создаёт цикл в иерархии"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, "Доступ запрещён"},
	{apperrors.ErrAccountInactive, http.StatusForbidden, "Учётная запись отключена"},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, "Неверный логин или пароль"},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "Требуется авторизация"},
	{apperrors.ErrEmptyAuthHeader, http.StatusUnauthorized, ""},
	{apperrors.ErrInvalidAuthHeader, http.StatusUnauthorized, ""},
	{apperrors.ErrInvalidToken, http.StatusUnauthorized, ""},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, ""},
	{apperrors.ErrTokenNotYetValid, http.StatusUnauthorized, ""},
	{apperrors.ErrTokenIsNotAccess, http.StatusUnauthorized, ""},
	{apperrors.ErrInvalidSigningMethod, http.StatusUnauthorized, ""},
	{apperrors.ErrUserIDNotFoundInContext, http.StatusUnauthorized, ""},
	{apperrors.ErrBadRequest, http.StatusBadRequest, ""},
}

func ParseFilterFromQuery(values url.Values) types.Filter {
	filterReq := types.Filter{
		Sort:           make(map[string]string),
		Filter:         make(map[string]interface{}),
		Limit:          DefaultLimit,
		Page:           1,
		WithPagination: true,
	}

	if limitStr := values.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			if l > MaxLimit {
				filterReq.Limit = MaxLimit
			} else {
				filterReq.Limit = l
			}
		}
	}

	if pageStr := values.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			filterReq.Page = p
		}
	}

	filterReq.Offset = (filterReq.Page - 1) * filterReq.Limit
	if offsetStr := values.Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			filterReq.Offset = o
			filterReq.Page = o/filterReq.Limit + 1
		}
	}

	if values.Get("withPagination") == "false" {
		filterReq.WithPagination = false
	}

	for key, vals := range values {
		if len(vals) == 0 || vals[0] == "" {
			continue
		}

		if key == "search" {
			filterReq.Search = strings.TrimSpace(vals[0])
			continue
		}

		if strings.HasPrefix(key, "sort[") && strings.HasSuffix(key, "]") {
			field := key[5 : len(key)-1]
			direction := strings.ToLower(vals[0])
			if direction == "asc" || direction == "desc" {
				filterReq.Sort[field] = direction
			}
			continue
		}

		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") {
			field := key[7 : len(key)-1]
			filterReq.Filter[field] = strings.Join(vals, ",")
		}
	}

	return filterReq
}

// SuccessResponse оборачивает тело в {status, body, message}; при переданном total тело
// становится {list, pagination}, если клиент не отключил пагинацию.
func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HTTPResponse{Status: true, Message: message, Body: body}
	if len(total) > 0 {
		filter := ParseFilterFromQuery(ctx.QueryParams())
		if filter.WithPagination {
			response.Body = map[string]interface{}{
				"list":       body,
				"pagination": types.NewPagination(total[0], filter.Page, filter.Limit),
			}
		}
	}
	return ctx.JSON(code, response)
}

func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Err != nil && httpErr.Code >= http.StatusInternalServerError {
			logger.Error("HTTP Error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
				zap.Any("context", httpErr.Context),
				zap.String("requestID", GetRequestIDFromCtx(c.Request().Context())),
			)
		}

		response := map[string]interface{}{
			"status":  false,
			"message": httpErr.Message,
		}
		if httpErr.Details != nil {
			response["body"] = httpErr.Details
		}
		return c.JSON(httpErr.Code, response)
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		msgs := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("Поле '%s' не прошло проверку '%s'", e.Field(), e.Tag()))
		}
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  false,
			"message": "Ошибка валидации: " + strings.Join(msgs, "; "),
		})
	}

	for _, s := range sentinelStatuses {
		if errors.Is(err, s.err) {
			message := s.message
			if message == "" {
				message = err.Error()
			}
			return c.JSON(s.code, map[string]interface{}{"status": false, "message": message})
		}
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		return c.JSON(echoErr.Code, map[string]interface{}{"status": false, "message": fmt.Sprint(echoErr.Message)})
	}

	logger.Error("Unexpected Error",
		zap.Error(err),
		zap.String("requestID", GetRequestIDFromCtx(c.Request().Context())),
	)
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"status":  false,
		"message": "Внутренняя ошибка сервера",
	})
}

// ParseIDParam читает положительный числовой параметр пути.
func ParseIDParam(ctx echo.Context, name string) (uint64, error) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewHttpError(
			http.StatusBadRequest,
			"Неверный ID",
			apperrors.ErrBadRequest,
			map[string]interface{}{"param": raw},
		)
	}
	return id, nil
}
