package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/services"
	"inventory-system/pkg/utils"
)

// DeviceCompositionController меняет состав устройства: POST добавляет узлы, DELETE убирает, PUT задаёт целиком.
type DeviceCompositionController struct {
	usage  services.UsageServiceInterface
	logger *zap.Logger
}

func NewDeviceCompositionController(usage services.UsageServiceInterface, logger *zap.Logger) *DeviceCompositionController {
	return &DeviceCompositionController{usage: usage, logger: logger}
}

func (c *DeviceCompositionController) AttachParts(ctx echo.Context) error {
	var in dto.DevicePartsDTO
	return c.change(ctx, &in, func(reqCtx context.Context, id uint64) (*dto.DevicePartsResultDTO, error) {
		return c.usage.AttachParts(reqCtx, id, in.PartIDs)
	})
}

func (c *DeviceCompositionController) DetachParts(ctx echo.Context) error {
	var in dto.DevicePartsDTO
	return c.change(ctx, &in, func(reqCtx context.Context, id uint64) (*dto.DevicePartsResultDTO, error) {
		return c.usage.DetachParts(reqCtx, id, in.PartIDs)
	})
}

func (c *DeviceCompositionController) ReplaceParts(ctx echo.Context) error {
	var in dto.ReplaceDevicePartsDTO
	return c.change(ctx, &in, func(reqCtx context.Context, id uint64) (*dto.DevicePartsResultDTO, error) {
		return c.usage.ReplaceParts(reqCtx, id, in.PartIDs)
	})
}

func (c *DeviceCompositionController) change(
	ctx echo.Context,
	in interface{},
	apply func(ctx context.Context, deviceID uint64) (*dto.DevicePartsResultDTO, error),
) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := bindAndValidate(ctx, in); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := apply(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Состав устройства обновлён", http.StatusOK)
}
