package migrations

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"restaurant_web/internal/models"
	"restaurant_web/internal/repository"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Seed is the YAML document loaded by scripts/init-db.
type Seed struct {
	Categories   []SeedCategory    `yaml:"categories"`
	Gallery      []SeedImage       `yaml:"gallery"`
	Announcement *SeedAnnouncement `yaml:"announcement"`
}

type SeedCategory struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	SortOrder   int        `yaml:"sort_order"`
	Items       []SeedItem `yaml:"items"`
}

type SeedItem struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Price       float64 `yaml:"price"`
	ImageURL    string  `yaml:"image_url"`
	Available   *bool   `yaml:"available"`
	Featured    bool    `yaml:"featured"`
}

type SeedImage struct {
	Title     string `yaml:"title"`
	Caption   string `yaml:"caption"`
	ImageURL  string `yaml:"image_url"`
	SortOrder int    `yaml:"sort_order"`
}

type SeedAnnouncement struct {
	Message  string `yaml:"message"`
	IsActive bool   `yaml:"active"`
}

type SeedResult struct {
	Categories    int
	Items         int
	Images        int
	Announcements int
}

func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	for i, category := range seed.Categories {
		if strings.TrimSpace(category.Name) == "" {
			return nil, fmt.Errorf("seed category %d has no name", i+1)
		}
		for j, item := range category.Items {
			if strings.TrimSpace(item.Name) == "" || item.Price <= 0 {
				return nil, fmt.Errorf("seed item %d in %q needs a name and a positive price", j+1, category.Name)
			}
		}
	}
	return &seed, nil
}

// ApplySeed inserts the seed content that is not already present. Categories
// and items match by name; gallery and announcement are only seeded into
// empty tables. Running it twice changes nothing.
func ApplySeed(ctx context.Context, db *gorm.DB, seed *Seed, logger *logrus.Logger) (*SeedResult, error) {
	result := &SeedResult{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		menu := repository.NewMenuRepository(tx)
		for _, sc := range seed.Categories {
			category, err := menu.GetCategoryByName(ctx, sc.Name)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				category = &models.MenuCategory{
					Name:        strings.TrimSpace(sc.Name),
					Description: sc.Description,
					SortOrder:   sc.SortOrder,
				}
				if err := menu.CreateCategory(ctx, category); err != nil {
					return fmt.Errorf("failed to create category %q: %w", sc.Name, err)
				}
				result.Categories++
			} else if err != nil {
				return fmt.Errorf("failed to look up category %q: %w", sc.Name, err)
			}

			existing, err := menu.ListItems(ctx, repository.MenuItemFilter{CategoryID: category.ID})
			if err != nil {
				return fmt.Errorf("failed to list items of %q: %w", sc.Name, err)
			}
			names := make(map[string]struct{}, len(existing))
			for _, item := range existing {
				names[strings.ToLower(item.Name)] = struct{}{}
			}

			for i, si := range sc.Items {
				if _, ok := names[strings.ToLower(strings.TrimSpace(si.Name))]; ok {
					continue
				}
				available := true
				if si.Available != nil {
					available = *si.Available
				}
				item := &models.MenuItem{
					CategoryID:  category.ID,
					Name:        strings.TrimSpace(si.Name),
					Description: si.Description,
					Price:       models.RoundMoney(si.Price),
					ImageURL:    si.ImageURL,
					Available:   available,
					Featured:    si.Featured,
					SortOrder:   i,
				}
				if err := menu.CreateItem(ctx, item); err != nil {
					return fmt.Errorf("failed to create item %q: %w", si.Name, err)
				}
				result.Items++
			}
		}

		gallery := repository.NewGalleryRepository(tx)
		images, err := gallery.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list gallery: %w", err)
		}
		if len(images) == 0 {
			for _, si := range seed.Gallery {
				image := &models.GalleryImage{Title: si.Title, Caption: si.Caption, ImageURL: si.ImageURL, SortOrder: si.SortOrder}
				if err := gallery.Create(ctx, image); err != nil {
					return fmt.Errorf("failed to create gallery image: %w", err)
				}
				result.Images++
			}
		}

		if seed.Announcement != nil {
			announcements := repository.NewAnnouncementRepository(tx)
			latest, err := announcements.Latest(ctx)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				a := &models.Announcement{Message: seed.Announcement.Message, IsActive: seed.Announcement.IsActive}
				if err := announcements.Save(ctx, a); err != nil {
					return fmt.Errorf("failed to create announcement: %w", err)
				}
				result.Announcements++
			} else if err != nil {
				return fmt.Errorf("failed to load announcement: %w", err)
			} else {
				logger.WithField("announcement_id", latest.ID).Debug("Announcement already present, skipping")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"categories":    result.Categories,
		"items":         result.Items,
		"images":        result.Images,
		"announcements": result.Announcements,
	}).Info("Seed applied")
	return result, nil
}
