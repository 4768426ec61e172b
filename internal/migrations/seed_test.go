package migrations

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"restaurant_web/internal/models"
	"restaurant_web/internal/repository"
	"restaurant_web/internal/services"
	"restaurant_web/internal/testutil"

	"github.com/stretchr/testify/require"
)

func TestLoadExampleSeed(t *testing.T) {
	seed, err := LoadSeed(filepath.Join("..", "..", "seed.example.yaml"))
	require.NoError(t, err)
	require.Len(t, seed.Categories, 3)
	require.Equal(t, "Starters", seed.Categories[0].Name)
	require.Equal(t, 3.5, seed.Categories[0].Items[0].Price)
	require.True(t, seed.Categories[0].Items[1].Featured)
	require.Len(t, seed.Gallery, 1)
	require.True(t, seed.Announcement.IsActive)
}

func TestLoadSeedMissingFile(t *testing.T) {
	_, err := LoadSeed(filepath.Join(t.TempDir(), "nope.yaml"))
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParseSeedRejectsInvalidContent(t *testing.T) {
	_, err := ParseSeed([]byte("categories: [unclosed"))
	require.ErrorContains(t, err, "failed to parse seed file")

	_, err = ParseSeed([]byte("categories:\n  - description: nameless\n"))
	require.ErrorContains(t, err, "has no name")

	_, err = ParseSeed([]byte("categories:\n  - name: Mains\n    items:\n      - name: Free lunch\n        price: 0\n"))
	require.ErrorContains(t, err, "positive price")
}

const testSeed = `
categories:
  - name: Mains
    items:
      - name: Mansaf
        price: 12
      - name: Maqluba
        price: 9.499
        available: false
gallery:
  - title: Terrace
    image_url: /uploads/terrace.jpg
announcement:
  message: Grand opening
  active: true
`

func TestApplySeedIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	logger := testutil.Logger()

	menu := repository.NewMenuRepository(db)
	existing := &models.MenuCategory{Name: "mains"}
	require.NoError(t, menu.CreateCategory(ctx, existing))
	require.NoError(t, menu.CreateItem(ctx, &models.MenuItem{CategoryID: existing.ID, Name: "MANSAF", Price: 11, Available: true}))

	seed, err := ParseSeed([]byte(testSeed))
	require.NoError(t, err)

	result, err := ApplySeed(ctx, db, seed, logger)
	require.NoError(t, err)
	require.Equal(t, &SeedResult{Categories: 0, Items: 1, Images: 1, Announcements: 1}, result)

	items, err := menu.ListItems(ctx, repository.MenuItemFilter{CategoryID: existing.ID})
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		if item.Name == "Maqluba" {
			require.False(t, item.Available)
			require.Equal(t, 9.5, item.Price)
		}
	}

	result, err = ApplySeed(ctx, db, seed, logger)
	require.NoError(t, err)
	require.Equal(t, &SeedResult{}, result)

	active, err := repository.NewAnnouncementRepository(db).Active(ctx)
	require.NoError(t, err)
	require.Equal(t, "Grand opening", active.Message)
}

func TestRunMigrations(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	logger := testutil.Logger()

	users := services.NewUserService(repository.NewUserRepository(db), "962", logger)
	settings := services.NewSettingsService(repository.NewSettingsRepository(db), nil, 0, logger)

	require.Error(t, RunMigrations(ctx, users, settings, "", "", logger))

	require.NoError(t, RunMigrations(ctx, users, settings, "owner@example.com", "owner-password", logger))
	require.NoError(t, RunMigrations(ctx, users, settings, "other@example.com", "other-password", logger))

	all, err := users.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "owner@example.com", all[0].Email)

	stored, err := repository.NewSettingsRepository(db).Get(ctx)
	require.NoError(t, err)
	require.Len(t, stored.WorkingHours, 7)
}
