package services

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/types"
)

const journalSheet = "Журнал операций"

var journalHeaders = []interface{}{
	"ID", "Дата", "Время", "Операция", "Исполнитель", "Статус", "Склад", "Серийный №", "Описание", "Результат",
}

type OperationServiceInterface interface {
	List(ctx context.Context, filter types.Filter) ([]entities.Operation, uint64, error)
	Get(ctx context.Context, id uint64) (*entities.Operation, error)
	Create(ctx context.Context, in dto.OperationDTO) (*entities.Operation, error)
	Update(ctx context.Context, id uint64, in dto.OperationDTO) (*entities.Operation, error)
	Delete(ctx context.Context, id uint64) error
	// Export собирает журнал по фильтру в книгу XLSX без пагинации.
	Export(ctx context.Context, filter types.Filter) (*excelize.File, error)
}

type OperationService struct {
	repo   repositories.OperationRepositoryInterface
	usage  UsageServiceInterface
	logger *zap.Logger
	now    func() time.Time
}

func NewOperationService(repo repositories.OperationRepositoryInterface, usage UsageServiceInterface, logger *zap.Logger) OperationServiceInterface {
	return &OperationService{repo: repo, usage: usage, logger: logger, now: time.Now}
}

func (s *OperationService) List(ctx context.Context, filter types.Filter) ([]entities.Operation, uint64, error) {
	return s.repo.List(ctx, filter)
}

func (s *OperationService) Get(ctx context.Context, id uint64) (*entities.Operation, error) {
	return s.repo.FindByID(ctx, nil, id)
}

func (s *OperationService) Create(ctx context.Context, in dto.OperationDTO) (*entities.Operation, error) {
	return s.usage.RecordOperation(ctx, s.operationFromDTO(in))
}

func (s *OperationService) Update(ctx context.Context, id uint64, in dto.OperationDTO) (*entities.Operation, error) {
	return s.usage.UpdateOperation(ctx, id, s.operationFromDTO(in))
}

func (s *OperationService) Delete(ctx context.Context, id uint64) error {
	return s.usage.DeleteOperation(ctx, id)
}

func (s *OperationService) Export(ctx context.Context, filter types.Filter) (*excelize.File, error) {
	filter.WithPagination = false
	ops, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", journalSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(journalSheet, "A1", &journalHeaders); err != nil {
		return nil, err
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(journalSheet, "A1", "J1", style)
	}

	for i := range ops {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := journalRow(&ops[i])
		if err := f.SetSheetRow(journalSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(journalSheet, "D", "H", 22)
	_ = f.SetColWidth(journalSheet, "I", "J", 45)

	s.logger.Info("Журнал выгружен в XLSX", zap.Int("rows", len(ops)))
	return f, nil
}

// ExportFileName - имя файла выгрузки на дату now.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("operations_%s.xlsx", now.Format("2006-01-02"))
}

func journalRow(op *entities.Operation) []interface{} {
	return []interface{}{
		op.ID,
		op.Datetime.Format("02.01.2006"),
		op.Datetime.Format("15:04"),
		op.OperationTypeName,
		op.UserFullName,
		op.StatusName,
		op.WarehouseName,
		op.TargetSerial(),
		op.Description,
		op.Result,
	}
}

func (s *OperationService) operationFromDTO(in dto.OperationDTO) entities.Operation {
	op := entities.Operation{
		OperationTypeID: in.OperationTypeID,
		UserID:          in.UserID,
		StatusID:        in.StatusID,
		WarehouseID:     in.WarehouseID,
		DeviceID:        in.DeviceID.Ptr(),
		MaterialPartID:  in.MaterialPartID.Ptr(),
		Description:     in.Description,
		Result:          in.Result,
		Datetime:        s.now(),
	}
	if in.Datetime.Valid {
		op.Datetime = in.Datetime.Time
	}
	return op
}
