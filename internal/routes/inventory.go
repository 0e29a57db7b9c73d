package routes

import (
	"github.com/labstack/echo/v4"

	"inventory-system/internal/authz"
	"inventory-system/internal/controllers"
	"inventory-system/internal/hierarchy"
	"inventory-system/pkg/middleware"
)

type catalogControllers struct {
	parts     crudHandlers
	revisions crudHandlers
	hierarchy *controllers.HierarchyController
	labels    *controllers.LabelController
}

type materialControllers struct {
	devices     crudHandlers
	composition *controllers.DeviceCompositionController
	parts       crudHandlers
	warehouses  crudHandlers
	hierarchy   *controllers.HierarchyController
	labels      *controllers.LabelController
}

func runCatalogRouter(g *echo.Group, authMW *middleware.AuthMiddleware, c catalogControllers) {
	registerCRUD(g, "/astral-parts", authz.AstralParts, c.parts, authMW)
	registerTree(g, "/astral-parts", authz.AstralParts, hierarchy.AstralParts, c.hierarchy, authMW)
	g.GET("/astral-parts/:id/label", c.labels.AstralPart, authMW.Authorize(authz.Perm(authz.AstralParts, authz.View)))

	registerCRUD(g, "/astral-revisions", authz.AstralRevisions, c.revisions, authMW)
	registerTree(g, "/astral-revisions", authz.AstralRevisions, hierarchy.AstralRevisions, c.hierarchy, authMW)
	g.GET("/astral-revisions/:id/label", c.labels.AstralRevision, authMW.Authorize(authz.Perm(authz.AstralRevisions, authz.View)))
}

func runMaterialRouter(g *echo.Group, authMW *middleware.AuthMiddleware, c materialControllers) {
	registerCRUD(g, "/devices", authz.Devices, c.devices, authMW)
	g.GET("/devices/:id/label", c.labels.Device, authMW.Authorize(authz.Perm(authz.Devices, authz.View)))
	g.POST("/devices/:id/parts", c.composition.AttachParts, authMW.Authorize(authz.Perm(authz.Devices, authz.Update)))
	g.DELETE("/devices/:id/parts", c.composition.DetachParts, authMW.Authorize(authz.Perm(authz.Devices, authz.Update)))
	g.PUT("/devices/:id/parts", c.composition.ReplaceParts, authMW.Authorize(authz.Perm(authz.Devices, authz.Update)))

	registerCRUD(g, "/material-parts", authz.MaterialParts, c.parts, authMW)
	registerTree(g, "/material-parts", authz.MaterialParts, hierarchy.MaterialParts, c.hierarchy, authMW)
	g.GET("/material-parts/:id/label", c.labels.MaterialPart, authMW.Authorize(authz.Perm(authz.MaterialParts, authz.View)))

	registerCRUD(g, "/material-warehouses", authz.MaterialWarehouses, c.warehouses, authMW)
	registerTree(g, "/material-warehouses", authz.MaterialWarehouses, hierarchy.Warehouses, c.hierarchy, authMW)
}

func runOperationRouter(g *echo.Group, authMW *middleware.AuthMiddleware, ctrl *controllers.OperationController) {
	registerCRUD(g, "/operations", authz.Operations, ctrl, authMW)
}

func runDashboardRouter(g *echo.Group, authMW *middleware.AuthMiddleware, dashboard *controllers.DashboardController, maintenance *controllers.MaintenanceController) {
	g.GET("/dashboard", dashboard.GetDashboard, authMW.Authorize(authz.Perm(authz.Dashboard, authz.View)))
	g.POST("/maintenance/recompute-usage", maintenance.RecomputeUsage, authMW.Authorize(authz.Perm(authz.Maintenance, authz.Update)))
}

func registerTree(g *echo.Group, path string, res authz.Resource, tree hierarchy.Tree, h *controllers.HierarchyController, authMW *middleware.AuthMiddleware) {
	view := authMW.Authorize(authz.Perm(res, authz.View))
	g.GET(path+"/:id/children", h.Children(tree), view)
	g.GET(path+"/:id/ancestors", h.Ancestors(tree), view)
	g.GET(path+"/:id/descendants", h.Descendants(tree), view)
}
