package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/services"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
	"inventory-system/pkg/utils"
)

const (
	msgOK      = "Успешно"
	msgCreated = "Запись создана"
	msgUpdated = "Запись обновлена"
	msgDeleted = "Запись удалена"
)

// ResourceService - CRUD ресурса E, принимающий на вход DTO D.
type ResourceService[E any, D any] interface {
	List(ctx context.Context, filter types.Filter) ([]E, uint64, error)
	Get(ctx context.Context, id uint64) (*E, error)
	Create(ctx context.Context, in D) (*E, error)
	Update(ctx context.Context, id uint64, in D) (*E, error)
	Delete(ctx context.Context, id uint64) error
}

type ResourceController[E any, D any] struct {
	service ResourceService[E, D]
	logger  *zap.Logger
}

func NewResourceController[E any, D any](service ResourceService[E, D], logger *zap.Logger) *ResourceController[E, D] {
	return &ResourceController[E, D]{service: service, logger: logger}
}

func (c *ResourceController[E, D]) List(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.QueryParams())
	items, total, err := c.service.List(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, items, msgOK, http.StatusOK, total)
}

func (c *ResourceController[E, D]) Get(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	item, err := c.service.Get(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, item, msgOK, http.StatusOK)
}

func (c *ResourceController[E, D]) Create(ctx echo.Context) error {
	var in D
	if err := bindAndValidate(ctx, &in); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	item, err := c.service.Create(ctx.Request().Context(), in)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, item, msgCreated, http.StatusCreated)
}

func (c *ResourceController[E, D]) Update(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var in D
	if err := bindAndValidate(ctx, &in); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	item, err := c.service.Update(ctx.Request().Context(), id, in)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, item, msgUpdated, http.StatusOK)
}

func (c *ResourceController[E, D]) Delete(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.service.Delete(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, msgDeleted, http.StatusOK)
}

// EntityDTO - DTO справочника, который умеет превращаться в сущность.
type EntityDTO[T any] interface {
	ToEntity() T
}

// dictionaryResource приводит DictionaryService[T] к ResourceService[T, D].
type dictionaryResource[T any, D EntityDTO[T]] struct {
	services.DictionaryServiceInterface[T]
}

func (d dictionaryResource[T, D]) Create(ctx context.Context, in D) (*T, error) {
	return d.DictionaryServiceInterface.Create(ctx, in.ToEntity())
}

func (d dictionaryResource[T, D]) Update(ctx context.Context, id uint64, in D) (*T, error) {
	return d.DictionaryServiceInterface.Update(ctx, id, in.ToEntity())
}

func NewDictionaryController[T any, D EntityDTO[T]](service services.DictionaryServiceInterface[T], logger *zap.Logger) *ResourceController[T, D] {
	return NewResourceController[T, D](dictionaryResource[T, D]{service}, logger)
}

func bindAndValidate(ctx echo.Context, in interface{}) error {
	if err := ctx.Bind(in); err != nil {
		return apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат запроса", err, nil)
	}
	return ctx.Validate(in)
}
