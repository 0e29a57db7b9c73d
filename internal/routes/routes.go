package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/authz"
	"inventory-system/internal/controllers"
	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/listeners"
	"inventory-system/internal/repositories"
	"inventory-system/internal/services"
	"inventory-system/pkg/config"
	"inventory-system/pkg/eventbus"
	"inventory-system/pkg/middleware"
	"inventory-system/pkg/service"
)

type Loggers struct {
	Main  *zap.Logger
	Auth  *zap.Logger
	Usage *zap.Logger
}

type Dependencies struct {
	DB     *pgxpool.Pool
	Redis  *redis.Client
	JWT    service.JWTService
	Bus    *eventbus.Bus
	Policy *authz.Policy
	Config *config.Config
}

// crudHandlers - обработчики ресурса с типовыми маршрутами.
type crudHandlers interface {
	List(ctx echo.Context) error
	Get(ctx echo.Context) error
	Create(ctx echo.Context) error
	Update(ctx echo.Context) error
	Delete(ctx echo.Context) error
}

func InitRouter(e *echo.Echo, deps Dependencies, loggers *Loggers) {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	// --- 0. ОБЩИЕ КОМПОНЕНТЫ ---
	api := e.Group("/api")
	txManager := repositories.NewTxManager(deps.DB)
	cacheRepo := repositories.NewRedisCacheRepository(deps.Redis)

	// --- 1. РЕПОЗИТОРИИ ---
	accountRepo := repositories.NewAccountRepository(deps.DB, loggers.Auth)
	hierarchyRepo := repositories.NewHierarchyRepository(deps.DB, loggers.Main)
	usageRepo := repositories.NewUsageRepository(loggers.Usage)
	partRepo := repositories.NewAstralPartRepository(deps.DB, loggers.Main)
	revisionRepo := repositories.NewAstralRevisionRepository(deps.DB, loggers.Main)
	deviceRepo := repositories.NewDeviceRepository(deps.DB, loggers.Main)
	materialPartRepo := repositories.NewMaterialPartRepository(deps.DB, loggers.Main)
	warehouseRepo := repositories.NewWarehouseRepository(deps.DB, loggers.Main)
	operationRepo := repositories.NewOperationRepository(deps.DB, loggers.Main)
	dashboardRepo := repositories.NewDashboardRepository(deps.DB, operationRepo, loggers.Main)

	// --- 2. СЕРВИСЫ ---
	accountCache := services.NewAccountCacheService(accountRepo, cacheRepo, deps.Config.Cache.AccountTTL, loggers.Auth)
	authService := services.NewAuthService(accountRepo, accountCache, deps.JWT, loggers.Auth)
	hierarchyService := services.NewHierarchyService(hierarchyRepo, loggers.Main)
	usageService := services.NewUsageService(txManager, usageRepo, deviceRepo, operationRepo, deps.Bus, loggers.Usage)
	partService := services.NewAstralPartService(txManager, partRepo, hierarchyService, loggers.Main)
	revisionService := services.NewAstralRevisionService(txManager, revisionRepo, hierarchyService, loggers.Main)
	deviceService := services.NewDeviceService(txManager, deviceRepo, usageService, deps.Bus, loggers.Main)
	materialPartService := services.NewMaterialPartService(txManager, materialPartRepo, hierarchyService, loggers.Main)
	warehouseService := services.NewWarehouseService(txManager, warehouseRepo, hierarchyService, loggers.Main)
	operationService := services.NewOperationService(operationRepo, usageService, loggers.Usage)
	dashboardService := services.NewDashboardService(dashboardRepo, cacheRepo, deps.Config.Cache.DashboardTTL, loggers.Main)
	labelService := services.NewLabelService(deps.Config.Server.PublicBaseURL, deviceRepo, partRepo, materialPartRepo, revisionRepo, loggers.Main)

	listeners.NewInventoryListener(dashboardService, loggers.Main).Register(deps.Bus)

	// --- 3. КОНТРОЛЛЕРЫ ---
	authMW := middleware.NewAuthMiddleware(deps.JWT, accountCache, deps.Policy, loggers.Auth)
	hierarchyCtrl := controllers.NewHierarchyController(hierarchyService, loggers.Main)
	labelCtrl := controllers.NewLabelController(labelService, loggers.Main)

	// --- 4. РОУТЕРЫ ---
	runAuthRouter(api, controllers.NewAuthController(authService, loggers.Auth), authMW)

	secureGroup := api.Group("", authMW.Auth)
	runDictionaryRouter(secureGroup, deps.DB, authMW, loggers.Main)
	runCatalogRouter(secureGroup, authMW, catalogControllers{
		parts:     controllers.NewResourceController[entities.AstralPart, dto.AstralPartDTO](partService, loggers.Main),
		revisions: controllers.NewResourceController[entities.AstralRevision, dto.AstralRevisionDTO](revisionService, loggers.Main),
		hierarchy: hierarchyCtrl,
		labels:    labelCtrl,
	})
	runMaterialRouter(secureGroup, authMW, materialControllers{
		devices:     controllers.NewResourceController[entities.Device, dto.DeviceDTO](deviceService, loggers.Main),
		composition: controllers.NewDeviceCompositionController(usageService, loggers.Usage),
		parts:       controllers.NewResourceController[entities.MaterialPart, dto.MaterialPartDTO](materialPartService, loggers.Main),
		warehouses:  controllers.NewResourceController[entities.MaterialWarehouse, dto.MaterialWarehouseDTO](warehouseService, loggers.Main),
		hierarchy:   hierarchyCtrl,
		labels:      labelCtrl,
	})
	runOperationRouter(secureGroup, authMW, controllers.NewOperationController(operationService, loggers.Usage))
	runDashboardRouter(secureGroup, authMW,
		controllers.NewDashboardController(dashboardService, loggers.Main),
		controllers.NewMaintenanceController(usageService, loggers.Usage),
	)

	loggers.Main.Info("InitRouter: Создание маршрутов завершено")
}

// registerCRUD вешает стандартные маршруты ресурса с проверкой прав по таблице политики.
func registerCRUD(g *echo.Group, path string, res authz.Resource, h crudHandlers, authMW *middleware.AuthMiddleware) {
	g.GET(path, h.List, authMW.Authorize(authz.Perm(res, authz.View)))
	g.GET(path+"/:id", h.Get, authMW.Authorize(authz.Perm(res, authz.View)))
	g.POST(path, h.Create, authMW.Authorize(authz.Perm(res, authz.Create)))
	g.PUT(path+"/:id", h.Update, authMW.Authorize(authz.Perm(res, authz.Update)))
	g.DELETE(path+"/:id", h.Delete, authMW.Authorize(authz.Perm(res, authz.Delete)))
}
