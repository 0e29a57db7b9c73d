package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/services"
	"inventory-system/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// OperationController - CRUD журнала; GET /operations?format=xlsx отдаёт выгрузку.
type OperationController struct {
	*ResourceController[entities.Operation, dto.OperationDTO]
	service services.OperationServiceInterface
}

func NewOperationController(service services.OperationServiceInterface, logger *zap.Logger) *OperationController {
	return &OperationController{
		ResourceController: NewResourceController[entities.Operation, dto.OperationDTO](service, logger),
		service:            service,
	}
}

func (c *OperationController) List(ctx echo.Context) error {
	if ctx.QueryParam("format") != "xlsx" {
		return c.ResourceController.List(ctx)
	}

	filter := utils.ParseFilterFromQuery(ctx.QueryParams())
	book, err := c.service.Export(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	defer book.Close()

	ctx.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+services.ExportFileName(time.Now()))
	ctx.Response().WriteHeader(http.StatusOK)
	return book.Write(ctx.Response().Writer)
}
