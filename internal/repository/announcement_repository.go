package repository

import (
	"context"
	"errors"

	"uniadmin/internal/model"

	"gorm.io/gorm"
)

type AnnouncementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

func (r *AnnouncementRepository) Create(ctx context.Context, announcement *model.Announcement) error {
	return r.db.WithContext(ctx).Create(announcement).Error
}

// ListPublished returns published announcements, newest first.
func (r *AnnouncementRepository) ListPublished(ctx context.Context) ([]model.Announcement, error) {
	var announcements []model.Announcement
	err := r.db.WithContext(ctx).
		Preload("Publisher").
		Where("status = ?", model.AnnouncementPublished).
		Order("published_at DESC").
		Find(&announcements).Error
	return announcements, err
}

// ListAll returns announcements in every state, for administration.
func (r *AnnouncementRepository) ListAll(ctx context.Context) ([]model.Announcement, error) {
	var announcements []model.Announcement
	err := r.db.WithContext(ctx).
		Preload("Publisher").
		Order("published_at DESC").
		Find(&announcements).Error
	return announcements, err
}

// Recent returns up to limit published announcements, newest first.
func (r *AnnouncementRepository) Recent(ctx context.Context, limit int) ([]model.Announcement, error) {
	var announcements []model.Announcement
	err := r.db.WithContext(ctx).
		Preload("Publisher").
		Where("status = ?", model.AnnouncementPublished).
		Order("published_at DESC").
		Limit(limit).
		Find(&announcements).Error
	return announcements, err
}

func (r *AnnouncementRepository) GetByID(ctx context.Context, id uint) (*model.Announcement, error) {
	var announcement model.Announcement
	err := r.db.WithContext(ctx).Preload("Publisher").Where("id = ?", id).First(&announcement).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAnnouncementNotFound
	}
	if err != nil {
		return nil, err
	}
	return &announcement, nil
}

func (r *AnnouncementRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.Announcement{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAnnouncementNotFound
	}
	return nil
}

func (r *AnnouncementRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Announcement{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAnnouncementNotFound
	}
	return nil
}

func (r *AnnouncementRepository) CountPublished(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Announcement{}).
		Where("status = ?", model.AnnouncementPublished).
		Count(&count).Error
	return count, err
}
