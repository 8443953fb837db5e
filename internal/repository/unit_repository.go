package repository

import (
	"context"

	"uniadmin/internal/model"

	"gorm.io/gorm"
)

type UnitRepository struct {
	db *gorm.DB
}

func NewUnitRepository(db *gorm.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

func (r *UnitRepository) Create(ctx context.Context, unit *model.OrgUnit) error {
	return r.db.WithContext(ctx).Create(unit).Error
}

func (r *UnitRepository) List(ctx context.Context) ([]model.OrgUnit, error) {
	var units []model.OrgUnit
	err := r.db.WithContext(ctx).Order("name").Find(&units).Error
	return units, err
}

func (r *UnitRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.OrgUnit{}).Count(&count).Error
	return count, err
}
