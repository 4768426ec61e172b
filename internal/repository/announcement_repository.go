package repository

import (
	"context"

	"restaurant_web/internal/models"

	"gorm.io/gorm"
)

type AnnouncementRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Announcement, error)
	Latest(ctx context.Context) (*models.Announcement, error)
	Active(ctx context.Context) (*models.Announcement, error)
	List(ctx context.Context) ([]models.Announcement, error)
	// Save creates or updates the announcement; when it is active every other
	// announcement is deactivated in the same transaction.
	Save(ctx context.Context, announcement *models.Announcement) error
	Activate(ctx context.Context, id uint) error
}

type announcementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) GetByID(ctx context.Context, id uint) (*models.Announcement, error) {
	var announcement models.Announcement
	if err := r.db.WithContext(ctx).First(&announcement, id).Error; err != nil {
		return nil, err
	}
	return &announcement, nil
}

func (r *announcementRepository) Latest(ctx context.Context) (*models.Announcement, error) {
	var announcement models.Announcement
	if err := r.db.WithContext(ctx).Order("updated_at DESC, id DESC").First(&announcement).Error; err != nil {
		return nil, err
	}
	return &announcement, nil
}

func (r *announcementRepository) Active(ctx context.Context) (*models.Announcement, error) {
	var announcement models.Announcement
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("updated_at DESC").First(&announcement).Error
	if err != nil {
		return nil, err
	}
	return &announcement, nil
}

func (r *announcementRepository) List(ctx context.Context) ([]models.Announcement, error) {
	var announcements []models.Announcement
	err := r.db.WithContext(ctx).Order("updated_at DESC, id DESC").Find(&announcements).Error
	return announcements, err
}

func (r *announcementRepository) Save(ctx context.Context, announcement *models.Announcement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(announcement).Error; err != nil {
			return err
		}
		if !announcement.IsActive {
			return nil
		}
		return tx.Model(&models.Announcement{}).
			Where("id <> ? AND is_active = ?", announcement.ID, true).
			Update("is_active", false).Error
	})
}

func (r *announcementRepository) Activate(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Announcement{}).Where("id = ?", id).Update("is_active", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.Announcement{}).
			Where("id <> ? AND is_active = ?", id, true).
			Update("is_active", false).Error
	})
}
