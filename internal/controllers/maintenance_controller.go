package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/services"
	"inventory-system/pkg/utils"
)

type MaintenanceController struct {
	usage  services.UsageServiceInterface
	logger *zap.Logger
}

func NewMaintenanceController(usage services.UsageServiceInterface, logger *zap.Logger) *MaintenanceController {
	return &MaintenanceController{usage: usage, logger: logger}
}

// RecomputeUsage пересчитывает все флаги is_used и возвращает число исправленных записей.
func (c *MaintenanceController) RecomputeUsage(ctx echo.Context) error {
	report, err := c.usage.RecomputeAll(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, report, "Флаги использования пересчитаны", http.StatusOK)
}
