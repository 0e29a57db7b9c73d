package routes

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/authz"
	"inventory-system/internal/controllers"
	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	"inventory-system/internal/services"
	"inventory-system/pkg/middleware"
)

func runDictionaryRouter(g *echo.Group, db *pgxpool.Pool, authMW *middleware.AuthMiddleware, logger *zap.Logger) {
	registerCRUD(g, "/astral-types", authz.AstralTypes,
		dictionary[entities.AstralType, dto.AstralTypeDTO](db, repositories.AstralTypeSpec(), logger), authMW)
	registerCRUD(g, "/astral-variants", authz.AstralVariants,
		dictionary[entities.AstralVariant, dto.AstralVariantDTO](db, repositories.AstralVariantSpec(), logger), authMW)
	registerCRUD(g, "/astral-years", authz.AstralYears,
		dictionary[entities.AstralYear, dto.AstralYearDTO](db, repositories.AstralYearSpec(), logger), authMW)
	registerCRUD(g, "/astral-manufacturers", authz.AstralManufacturers,
		dictionary[entities.AstralManufacturer, dto.AstralManufacturerDTO](db, repositories.AstralManufacturerSpec(), logger), authMW)
	registerCRUD(g, "/material-groups", authz.MaterialGroups,
		dictionary[entities.MaterialGroup, dto.MaterialGroupDTO](db, repositories.MaterialGroupSpec(), logger), authMW)
	registerCRUD(g, "/material-operation-types", authz.MaterialOperationType,
		dictionary[entities.MaterialOperationType, dto.MaterialOperationTypeDTO](db, repositories.MaterialOperationTypeSpec(), logger), authMW)
	registerCRUD(g, "/material-users", authz.MaterialUsers,
		dictionary[entities.MaterialUser, dto.MaterialUserDTO](db, repositories.MaterialUserSpec(), logger), authMW)
	registerCRUD(g, "/material-statuses", authz.MaterialStatuses,
		dictionary[entities.MaterialStatus, dto.MaterialStatusDTO](db, repositories.MaterialStatusSpec(), logger), authMW)
}

func dictionary[T any, D controllers.EntityDTO[T]](db *pgxpool.Pool, spec repositories.DictionarySpec[T], logger *zap.Logger) *controllers.ResourceController[T, D] {
	repo := repositories.NewDictionaryRepository(db, spec, logger)
	return controllers.NewDictionaryController[T, D](services.NewDictionaryService(spec.Name, repo, logger), logger)
}
