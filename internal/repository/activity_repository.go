package repository

import (
	"context"
	"errors"

	"uniadmin/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create inserts the activity and its image rows in one transaction.
func (r *ActivityRepository) Create(ctx context.Context, activity *model.Activity, images []model.ActivityImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(activity).Error; err != nil {
			return err
		}
		if len(images) == 0 {
			return nil
		}
		for i := range images {
			images[i].ActivityID = activity.ID
		}
		return tx.Create(&images).Error
	})
}

func (r *ActivityRepository) GetByID(ctx context.Context, id uint) (*model.Activity, error) {
	var activity model.Activity
	err := r.db.WithContext(ctx).Preload("Images").Where("id = ?", id).First(&activity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

// ListByUnit returns a unit's activities with images, newest first.
func (r *ActivityRepository) ListByUnit(ctx context.Context, unitID uint) ([]model.Activity, error) {
	var activities []model.Activity
	err := r.db.WithContext(ctx).
		Preload("Images").
		Preload("Unit").
		Where("unit_id = ?", unitID).
		Order("created_at DESC").
		Find(&activities).Error
	return activities, err
}

// ListAll returns every activity in the system with images, newest first.
func (r *ActivityRepository) ListAll(ctx context.Context) ([]model.Activity, error) {
	var activities []model.Activity
	err := r.db.WithContext(ctx).
		Preload("Images").
		Preload("Unit").
		Order("created_at DESC").
		Find(&activities).Error
	return activities, err
}

func (r *ActivityRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := r.db.WithContext(ctx).Model(&model.Activity{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrActivityNotFound
	}
	return nil
}

// Delete removes image rows then the activity row, children first to honor
// the foreign key. Callers remove the stored files beforehand.
func (r *ActivityRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.ActivityImage{}, "activity_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Activity{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrActivityNotFound
		}
		return nil
	})
}
