package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/hierarchy"
	"inventory-system/internal/services"
	"inventory-system/pkg/utils"
)

type HierarchyController struct {
	service services.HierarchyServiceInterface
	logger  *zap.Logger
}

func NewHierarchyController(service services.HierarchyServiceInterface, logger *zap.Logger) *HierarchyController {
	return &HierarchyController{service: service, logger: logger}
}

func (c *HierarchyController) Children(tree hierarchy.Tree) echo.HandlerFunc {
	return c.handle(tree, c.service.ListChildren)
}

func (c *HierarchyController) Ancestors(tree hierarchy.Tree) echo.HandlerFunc {
	return c.handle(tree, c.service.ListAncestors)
}

func (c *HierarchyController) Descendants(tree hierarchy.Tree) echo.HandlerFunc {
	return c.handle(tree, c.service.ListDescendants)
}

type hierarchyRead func(ctx context.Context, tree hierarchy.Tree, id uint64) ([]hierarchy.Node, error)

func (c *HierarchyController) handle(tree hierarchy.Tree, read hierarchyRead) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id, err := utils.ParseIDParam(ctx, "id")
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		nodes, err := read(ctx.Request().Context(), tree, id)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		return utils.SuccessResponse(ctx, nodes, msgOK, http.StatusOK)
	}
}
