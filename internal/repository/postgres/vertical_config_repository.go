package postgres

import (
	"context"

	"myLeadMarket/business/vertical"
	"myLeadMarket/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VerticalConfigRepository struct {
	DB *gorm.DB
}

var _ vertical.ConfigStore = (*VerticalConfigRepository)(nil)

func NewVerticalConfigRepository(db *gorm.DB) *VerticalConfigRepository {
	return &VerticalConfigRepository{DB: db}
}

func (r *VerticalConfigRepository) Save(ctx context.Context, v domain.Vertical, version float64, cfg map[string]any) error {
	record := domain.VerticalConfigRecord{
		Vertical: v.String(),
		Version:  version,
		Config:   datatypes.JSONMap(cfg),
	}

	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "vertical"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"version",
				"config",
				"updated_at",
			}),
		}).
		Create(&record).Error
}

func (r *VerticalConfigRepository) Get(ctx context.Context, v domain.Vertical) (domain.VerticalConfigRecord, bool, error) {
	var record domain.VerticalConfigRecord

	err := r.DB.WithContext(ctx).
		Where("vertical = ?", v.String()).
		First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return domain.VerticalConfigRecord{}, false, nil
	}
	if err != nil {
		return domain.VerticalConfigRecord{}, false, err
	}

	return record, true, nil
}
