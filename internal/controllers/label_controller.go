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

type LabelController struct {
	service services.LabelServiceInterface
	logger  *zap.Logger
}

func NewLabelController(service services.LabelServiceInterface, logger *zap.Logger) *LabelController {
	return &LabelController{service: service, logger: logger}
}

func (c *LabelController) Device(ctx echo.Context) error {
	return c.render(ctx, c.service.DeviceLabel)
}

func (c *LabelController) AstralPart(ctx echo.Context) error {
	return c.render(ctx, c.service.AstralPartLabel)
}

func (c *LabelController) MaterialPart(ctx echo.Context) error {
	return c.render(ctx, c.service.MaterialPartLabel)
}

func (c *LabelController) AstralRevision(ctx echo.Context) error {
	return c.render(ctx, c.service.AstralRevisionLabel)
}

func (c *LabelController) render(ctx echo.Context, build func(context.Context, uint64) (*dto.LabelDTO, error)) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	label, err := build(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, label, msgOK, http.StatusOK)
}
