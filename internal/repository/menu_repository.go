package repository

import (
	"context"
	"strings"

	"restaurant_web/internal/models"

	"gorm.io/gorm"
)

type MenuItemFilter struct {
	CategoryID uint
	Search     string
	Available  *bool
	Featured   *bool
}

type MenuRepository interface {
	ListCategories(ctx context.Context, withItems, availableOnly bool) ([]models.MenuCategory, error)
	GetCategory(ctx context.Context, id uint) (*models.MenuCategory, error)
	GetCategoryByName(ctx context.Context, name string) (*models.MenuCategory, error)
	CreateCategory(ctx context.Context, category *models.MenuCategory) error
	UpdateCategory(ctx context.Context, category *models.MenuCategory) error
	DeleteCategory(ctx context.Context, id uint) error

	ListItems(ctx context.Context, filter MenuItemFilter) ([]models.MenuItem, error)
	GetItem(ctx context.Context, id uint) (*models.MenuItem, error)
	CreateItem(ctx context.Context, item *models.MenuItem) error
	CreateItems(ctx context.Context, items []models.MenuItem) error
	UpdateItem(ctx context.Context, item *models.MenuItem) error
	DeleteItem(ctx context.Context, id uint) error
	CountItemsInCategory(ctx context.Context, categoryID uint) (int64, error)
}

type menuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) ListCategories(ctx context.Context, withItems, availableOnly bool) ([]models.MenuCategory, error) {
	query := r.db.WithContext(ctx).Order("sort_order ASC, name ASC")
	if withItems {
		query = query.Preload("Items", func(db *gorm.DB) *gorm.DB {
			if availableOnly {
				db = db.Where("available = ?", true)
			}
			return db.Order("sort_order ASC, name ASC")
		})
	}

	var categories []models.MenuCategory
	err := query.Find(&categories).Error
	return categories, err
}

func (r *menuRepository) GetCategory(ctx context.Context, id uint) (*models.MenuCategory, error) {
	var category models.MenuCategory
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *menuRepository) GetCategoryByName(ctx context.Context, name string) (*models.MenuCategory, error) {
	var category models.MenuCategory
	err := r.db.WithContext(ctx).Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *menuRepository) CreateCategory(ctx context.Context, category *models.MenuCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *menuRepository) UpdateCategory(ctx context.Context, category *models.MenuCategory) error {
	return r.db.WithContext(ctx).Omit("Items").Save(category).Error
}

func (r *menuRepository) DeleteCategory(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.MenuCategory{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *menuRepository) ListItems(ctx context.Context, filter MenuItemFilter) ([]models.MenuItem, error) {
	query := r.db.WithContext(ctx).Model(&models.MenuItem{})
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if filter.Available != nil {
		query = query.Where("available = ?", *filter.Available)
	}
	if filter.Featured != nil {
		query = query.Where("featured = ?", *filter.Featured)
	}

	var items []models.MenuItem
	err := query.Order("sort_order ASC, name ASC").Find(&items).Error
	return items, err
}

func (r *menuRepository) GetItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *menuRepository) CreateItem(ctx context.Context, item *models.MenuItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *menuRepository) CreateItems(ctx context.Context, items []models.MenuItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&items, 100).Error
}

func (r *menuRepository) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *menuRepository) DeleteItem(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.MenuItem{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *menuRepository) CountItemsInCategory(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.MenuItem{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}
