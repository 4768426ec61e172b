package repository

import (
	"context"

	"restaurant_web/internal/models"

	"gorm.io/gorm"
)

type GalleryRepository interface {
	List(ctx context.Context) ([]models.GalleryImage, error)
	GetByID(ctx context.Context, id uint) (*models.GalleryImage, error)
	Create(ctx context.Context, image *models.GalleryImage) error
	Update(ctx context.Context, image *models.GalleryImage) error
	Delete(ctx context.Context, id uint) error
}

type galleryRepository struct {
	db *gorm.DB
}

func NewGalleryRepository(db *gorm.DB) GalleryRepository {
	return &galleryRepository{db: db}
}

func (r *galleryRepository) List(ctx context.Context) ([]models.GalleryImage, error) {
	var images []models.GalleryImage
	err := r.db.WithContext(ctx).Order("sort_order ASC, id DESC").Find(&images).Error
	return images, err
}

func (r *galleryRepository) GetByID(ctx context.Context, id uint) (*models.GalleryImage, error) {
	var image models.GalleryImage
	if err := r.db.WithContext(ctx).First(&image, id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *galleryRepository) Create(ctx context.Context, image *models.GalleryImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *galleryRepository) Update(ctx context.Context, image *models.GalleryImage) error {
	return r.db.WithContext(ctx).Save(image).Error
}

func (r *galleryRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.GalleryImage{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
