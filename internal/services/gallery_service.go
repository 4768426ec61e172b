package services

import (
	"context"

	"restaurant_web/internal/models"
	"restaurant_web/internal/repository"
	"restaurant_web/internal/storage"

	"github.com/sirupsen/logrus"
)

type GalleryRequest struct {
	Title     string `json:"title" form:"title" validate:"max=200"`
	Caption   string `json:"caption" form:"caption" validate:"max=500"`
	SortOrder int    `json:"sortOrder" form:"sortOrder"`
}

type GalleryService interface {
	List(ctx context.Context) ([]models.GalleryImage, error)
	Create(ctx context.Context, req GalleryRequest, image *Upload) (*models.GalleryImage, error)
	Update(ctx context.Context, id uint, req GalleryRequest, image *Upload) (*models.GalleryImage, error)
	Delete(ctx context.Context, id uint) error
}

type galleryService struct {
	repo   repository.GalleryRepository
	store  storage.Store
	logger *logrus.Logger
}

func NewGalleryService(repo repository.GalleryRepository, store storage.Store, logger *logrus.Logger) GalleryService {
	return &galleryService{repo: repo, store: store, logger: logger}
}

func (s *galleryService) List(ctx context.Context) ([]models.GalleryImage, error) {
	images, err := s.repo.List(ctx)
	if err != nil {
		return nil, Internal("failed to list gallery", err)
	}
	return images, nil
}

func (s *galleryService) Create(ctx context.Context, req GalleryRequest, image *Upload) (*models.GalleryImage, error) {
	fields := validateStruct(req)
	if image == nil {
		fields = mergeFields(fields, map[string]string{"image": "is required"})
	}
	if len(fields) > 0 {
		return nil, NewValidationError("invalid gallery image", fields)
	}

	url, err := saveImage(ctx, s.store, "gallery", image)
	if err != nil {
		return nil, err
	}
	entry := &models.GalleryImage{
		Title:     sanitizeText(req.Title),
		Caption:   sanitizeText(req.Caption),
		ImageURL:  url,
		SortOrder: req.SortOrder,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		removeImage(ctx, s.store, s.logger, url)
		return nil, Internal("failed to save gallery image", err)
	}
	s.logger.WithField("image_id", entry.ID).Info("Gallery image added")
	return entry, nil
}

func (s *galleryService) Update(ctx context.Context, id uint, req GalleryRequest, image *Upload) (*models.GalleryImage, error) {
	if fields := validateStruct(req); len(fields) > 0 {
		return nil, NewValidationError("invalid gallery image", fields)
	}
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "gallery image")
	}

	entry.Title = sanitizeText(req.Title)
	entry.Caption = sanitizeText(req.Caption)
	entry.SortOrder = req.SortOrder

	previous := ""
	if image != nil {
		url, err := saveImage(ctx, s.store, "gallery", image)
		if err != nil {
			return nil, err
		}
		previous, entry.ImageURL = entry.ImageURL, url
	}

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, Internal("failed to update gallery image", err)
	}
	removeImage(ctx, s.store, s.logger, previous)
	return entry, nil
}

func (s *galleryService) Delete(ctx context.Context, id uint) error {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return lookupError(err, "gallery image")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "gallery image")
	}
	removeImage(ctx, s.store, s.logger, entry.ImageURL)
	s.logger.WithField("image_id", id).Info("Gallery image deleted")
	return nil
}
