package services

import (
	"context"
	"errors"
	"strings"

	"restaurant_web/internal/models"
	"restaurant_web/internal/repository"
	"restaurant_web/internal/storage"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CategoryRequest struct {
	Name        string `json:"name" form:"name" validate:"required,max=120"`
	Description string `json:"description" form:"description" validate:"max=500"`
	SortOrder   int    `json:"sortOrder" form:"sortOrder"`
}

type MenuItemRequest struct {
	CategoryID  uint    `json:"categoryId" form:"categoryId" validate:"required"`
	Name        string  `json:"name" form:"name" validate:"required,max=200"`
	Description string  `json:"description" form:"description" validate:"max=2000"`
	Price       float64 `json:"price" form:"price" validate:"gte=0"`
	Available   *bool   `json:"available" form:"available"`
	Featured    bool    `json:"featured" form:"featured"`
	SortOrder   int     `json:"sortOrder" form:"sortOrder"`
}

type MenuService interface {
	// PublicMenu lists categories with their available items.
	PublicMenu(ctx context.Context) ([]models.MenuCategory, error)
	ListCategories(ctx context.Context) ([]models.MenuCategory, error)
	CreateCategory(ctx context.Context, req CategoryRequest) (*models.MenuCategory, error)
	UpdateCategory(ctx context.Context, id uint, req CategoryRequest) (*models.MenuCategory, error)
	DeleteCategory(ctx context.Context, id uint) error

	ListItems(ctx context.Context, filter repository.MenuItemFilter) ([]models.MenuItem, error)
	GetItem(ctx context.Context, id uint) (*models.MenuItem, error)
	CreateItem(ctx context.Context, req MenuItemRequest, image *Upload) (*models.MenuItem, error)
	UpdateItem(ctx context.Context, id uint, req MenuItemRequest, image *Upload) (*models.MenuItem, error)
	DeleteItem(ctx context.Context, id uint) error
	ImportItems(ctx context.Context, upload *Upload) (*ImportResult, error)
}

type menuService struct {
	repo   repository.MenuRepository
	store  storage.Store
	logger *logrus.Logger
}

func NewMenuService(repo repository.MenuRepository, store storage.Store, logger *logrus.Logger) MenuService {
	return &menuService{repo: repo, store: store, logger: logger}
}

func (s *menuService) PublicMenu(ctx context.Context) ([]models.MenuCategory, error) {
	categories, err := s.repo.ListCategories(ctx, true, true)
	if err != nil {
		return nil, Internal("failed to load menu", err)
	}
	return categories, nil
}

func (s *menuService) ListCategories(ctx context.Context) ([]models.MenuCategory, error) {
	categories, err := s.repo.ListCategories(ctx, false, false)
	if err != nil {
		return nil, Internal("failed to list categories", err)
	}
	return categories, nil
}

func (s *menuService) CreateCategory(ctx context.Context, req CategoryRequest) (*models.MenuCategory, error) {
	if fields := validateStruct(req); len(fields) > 0 {
		return nil, NewValidationError("invalid category", fields)
	}
	category := &models.MenuCategory{
		Name:        sanitizeText(req.Name),
		Description: sanitizeText(req.Description),
		SortOrder:   req.SortOrder,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, Conflict("category already exists")
		}
		return nil, Internal("failed to create category", err)
	}
	s.logger.WithField("category_id", category.ID).Info("Menu category created")
	return category, nil
}

func (s *menuService) UpdateCategory(ctx context.Context, id uint, req CategoryRequest) (*models.MenuCategory, error) {
	if fields := validateStruct(req); len(fields) > 0 {
		return nil, NewValidationError("invalid category", fields)
	}
	category, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, lookupError(err, "category")
	}
	category.Name = sanitizeText(req.Name)
	category.Description = sanitizeText(req.Description)
	category.SortOrder = req.SortOrder
	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, Conflict("category already exists")
		}
		return nil, Internal("failed to update category", err)
	}
	return category, nil
}

func (s *menuService) DeleteCategory(ctx context.Context, id uint) error {
	count, err := s.repo.CountItemsInCategory(ctx, id)
	if err != nil {
		return Internal("failed to check category", err)
	}
	if count > 0 {
		return Conflict("category still has menu items")
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return lookupError(err, "category")
	}
	s.logger.WithField("category_id", id).Info("Menu category deleted")
	return nil
}

func (s *menuService) ListItems(ctx context.Context, filter repository.MenuItemFilter) ([]models.MenuItem, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	items, err := s.repo.ListItems(ctx, filter)
	if err != nil {
		return nil, Internal("failed to list menu items", err)
	}
	return items, nil
}

func (s *menuService) GetItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, lookupError(err, "menu item")
	}
	return item, nil
}

func (s *menuService) validateItem(ctx context.Context, req MenuItemRequest) error {
	if fields := validateStruct(req); len(fields) > 0 {
		return NewValidationError("invalid menu item", fields)
	}
	if _, err := s.repo.GetCategory(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewValidationError("invalid menu item", map[string]string{"categoryId": "category does not exist"})
		}
		return Internal("failed to load category", err)
	}
	return nil
}

func (s *menuService) CreateItem(ctx context.Context, req MenuItemRequest, image *Upload) (*models.MenuItem, error) {
	if err := s.validateItem(ctx, req); err != nil {
		return nil, err
	}

	item := &models.MenuItem{
		CategoryID:  req.CategoryID,
		Name:        sanitizeText(req.Name),
		Description: sanitizeText(req.Description),
		Price:       models.RoundMoney(req.Price),
		Available:   req.Available == nil || *req.Available,
		Featured:    req.Featured,
		SortOrder:   req.SortOrder,
	}
	if image != nil {
		url, err := saveImage(ctx, s.store, "menu", image)
		if err != nil {
			return nil, err
		}
		item.ImageURL = url
	}

	if err := s.repo.CreateItem(ctx, item); err != nil {
		removeImage(ctx, s.store, s.logger, item.ImageURL)
		return nil, Internal("failed to create menu item", err)
	}
	s.logger.WithFields(logrus.Fields{"item_id": item.ID, "category_id": item.CategoryID}).Info("Menu item created")
	return item, nil
}

func (s *menuService) UpdateItem(ctx context.Context, id uint, req MenuItemRequest, image *Upload) (*models.MenuItem, error) {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateItem(ctx, req); err != nil {
		return nil, err
	}

	item.CategoryID = req.CategoryID
	item.Name = sanitizeText(req.Name)
	item.Description = sanitizeText(req.Description)
	item.Price = models.RoundMoney(req.Price)
	if req.Available != nil {
		item.Available = *req.Available
	}
	item.Featured = req.Featured
	item.SortOrder = req.SortOrder

	previousImage := ""
	if image != nil {
		url, err := saveImage(ctx, s.store, "menu", image)
		if err != nil {
			return nil, err
		}
		previousImage, item.ImageURL = item.ImageURL, url
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, Internal("failed to update menu item", err)
	}
	removeImage(ctx, s.store, s.logger, previousImage)
	return item, nil
}

func (s *menuService) DeleteItem(ctx context.Context, id uint) error {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return lookupError(err, "menu item")
	}
	removeImage(ctx, s.store, s.logger, item.ImageURL)
	s.logger.WithField("item_id", id).Info("Menu item deleted")
	return nil
}
