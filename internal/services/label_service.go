package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
)

const (
	labelSystem     = "СИСТЕМА: НТДЦ"
	labelNotSet     = "Не указано"
	labelNoPart     = "Без узла"
	labelNoType     = "Не указан"
	labelNoRelease  = "Не указана"
	labelDateLayout = "02.01.2006"
)

// LabelServiceInterface готовит содержимое QR-этикеток: ссылку на карточку и текст для чтения без сети.
type LabelServiceInterface interface {
	DeviceLabel(ctx context.Context, id uint64) (*dto.LabelDTO, error)
	AstralPartLabel(ctx context.Context, id uint64) (*dto.LabelDTO, error)
	MaterialPartLabel(ctx context.Context, id uint64) (*dto.LabelDTO, error)
	AstralRevisionLabel(ctx context.Context, id uint64) (*dto.LabelDTO, error)
}

type LabelService struct {
	baseURL   string
	devices   repositories.DeviceRepositoryInterface
	parts     repositories.AstralPartRepositoryInterface
	materials repositories.MaterialPartRepositoryInterface
	revisions repositories.AstralRevisionRepositoryInterface
	logger    *zap.Logger
}

func NewLabelService(
	baseURL string,
	devices repositories.DeviceRepositoryInterface,
	parts repositories.AstralPartRepositoryInterface,
	materials repositories.MaterialPartRepositoryInterface,
	revisions repositories.AstralRevisionRepositoryInterface,
	logger *zap.Logger,
) LabelServiceInterface {
	return &LabelService{
		baseURL:   strings.TrimRight(baseURL, "/"),
		devices:   devices,
		parts:     parts,
		materials: materials,
		revisions: revisions,
		logger:    logger,
	}
}

func (s *LabelService) DeviceLabel(ctx context.Context, id uint64) (*dto.LabelDTO, error) {
	device, err := s.devices.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	return &dto.LabelDTO{URL: s.url("devices", id), Info: DeviceLabelText(device)}, nil
}

func (s *LabelService) AstralPartLabel(ctx context.Context, id uint64) (*dto.LabelDTO, error) {
	part, err := s.parts.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	instances, err := s.parts.CountInstances(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.LabelDTO{URL: s.url("parts", id), Info: AstralPartLabelText(part, instances)}, nil
}

func (s *LabelService) MaterialPartLabel(ctx context.Context, id uint64) (*dto.LabelDTO, error) {
	part, err := s.materials.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	return &dto.LabelDTO{URL: s.url("material-parts", id), Info: MaterialPartLabelText(part)}, nil
}

func (s *LabelService) AstralRevisionLabel(ctx context.Context, id uint64) (*dto.LabelDTO, error) {
	rev, err := s.revisions.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	var first *entities.AstralPart
	if len(rev.Parts) > 0 {
		first, err = s.parts.FindByID(ctx, nil, rev.Parts[0].ID)
		if err != nil {
			s.logger.Warn("LabelService.AstralRevisionLabel: узел ревизии не найден",
				zap.Uint64("revisionID", id), zap.Uint64("partID", rev.Parts[0].ID), zap.Error(err))
			first = nil
		}
	}
	return &dto.LabelDTO{URL: s.url("astral-revisions", id), Info: AstralRevisionLabelText(rev, first)}, nil
}

func (s *LabelService) url(section string, id uint64) string {
	return fmt.Sprintf("%s/%s/%d/", s.baseURL, section, id)
}

func DeviceLabelText(d *entities.Device) string {
	composition := labelNotSet
	if len(d.Parts) > 0 {
		items := make([]string, 0, len(d.Parts))
		for _, p := range d.Parts {
			items = append(items, fmt.Sprintf("%s (Д/Н: %s)", p.Name, p.DecimalNum))
		}
		composition = strings.Join(items, ", ")
	}
	return strings.Join([]string{
		"УСТРОЙСТВО: " + d.DisplayName(),
		"СЕРИЙНЫЙ №: " + d.Serial,
		"СОСТАВ: " + composition,
		"ОПИСАНИЕ: " + orDefault(d.Description, labelNotSet),
		labelSystem,
	}, "\n")
}

func AstralPartLabelText(p *entities.AstralPart, instances uint64) string {
	parent := "КОРНЕВОЙ УЗЕЛ"
	if p.ParentName != nil {
		parent = "РОДИТЕЛЬ: " + *p.ParentName
	}
	return strings.Join([]string{
		"ДЕТАЛЬ/УЗЕЛ: " + p.Name,
		"ДЕЦИМАЛЬНЫЙ №: " + p.DecimalNum,
		"ТИП: " + p.AstralTypeName,
		parent,
		fmt.Sprintf("ЭКЗЕМПЛЯРОВ: %d", instances),
		"ОПИСАНИЕ: " + orDefault(p.Description, labelNotSet),
		labelSystem,
	}, "\n")
}

func MaterialPartLabelText(p *entities.MaterialPart) string {
	partName, typeName := labelNoPart, labelNoType
	if p.PartName != nil {
		partName = *p.PartName
		if p.TypeName != nil {
			typeName = *p.TypeName
		}
	}
	return strings.Join([]string{
		"МАТЕРИАЛЬНЫЙ УЗЕЛ",
		"S/N: " + p.Serial,
		"УЗЕЛ: " + partName,
		"ТИП: " + typeName,
		"РЕВИЗИЯ: " + p.RevisionName,
		"ПРОИЗВОДИТЕЛЬ: " + p.ManufacturerName,
		fmt.Sprintf("ГОД: %d", p.Year),
		labelSystem,
	}, "\n")
}

// AstralRevisionLabelText: first - первый узел из состава ревизии или nil.
func AstralRevisionLabelText(r *entities.AstralRevision, first *entities.AstralPart) string {
	partName, typeName := labelNoPart, labelNoType
	if first != nil {
		partName, typeName = first.Name, first.AstralTypeName
	}
	parent := "КОРНЕВАЯ РЕВИЗИЯ"
	if r.ParentName != nil {
		parent = "РОДИТЕЛЬ: " + *r.ParentName
	}
	release := labelNoRelease
	if r.ReleaseDate != nil {
		release = r.ReleaseDate.Format(labelDateLayout)
	}
	return strings.Join([]string{
		"АСТРАЛЬНАЯ РЕВИЗИЯ",
		"НАЗВАНИЕ: " + r.Name,
		"УЗЕЛ: " + partName,
		"ТИП: " + typeName,
		parent,
		"ДАТА ВЫПУСКА: " + release,
		labelSystem,
	}, "\n")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
