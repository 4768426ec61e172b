package repository

import (
	"context"
	"testing"

	"restaurant_web/internal/models"
	"restaurant_web/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSettingsCreateIfMissingKeepsExisting(t *testing.T) {
	repo := NewSettingsRepository(testutil.NewDB(t))
	ctx := context.Background()

	_, err := repo.Get(ctx)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.CreateIfMissing(ctx, &models.RestaurantSettings{OpeningTime: "09:00", ClosingTime: "22:00"}))
	require.NoError(t, repo.CreateIfMissing(ctx, &models.RestaurantSettings{OpeningTime: "10:00", ClosingTime: "20:00"}))

	settings, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "09:00", settings.OpeningTime)

	settings.WorkingHours = []models.DayHours{{Day: "Friday", Closed: true}}
	require.NoError(t, repo.Save(ctx, settings))
	settings, err = repo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, []models.DayHours{{Day: "Friday", Closed: true}}, settings.WorkingHours)
}

func TestAnnouncementSingleActive(t *testing.T) {
	repo := NewAnnouncementRepository(testutil.NewDB(t))
	ctx := context.Background()

	first := &models.Announcement{Message: "Open late", IsActive: true}
	require.NoError(t, repo.Save(ctx, first))
	second := &models.Announcement{Message: "New menu", IsActive: true}
	require.NoError(t, repo.Save(ctx, second))

	active, err := repo.Active(ctx)
	require.NoError(t, err)
	require.Equal(t, second.ID, active.ID)

	require.NoError(t, repo.Activate(ctx, first.ID))
	all, err := repo.List(ctx)
	require.NoError(t, err)
	activeCount := 0
	for _, a := range all {
		if a.IsActive {
			activeCount++
			require.Equal(t, first.ID, a.ID)
		}
	}
	require.Equal(t, 1, activeCount)

	require.ErrorIs(t, repo.Activate(ctx, 999), gorm.ErrRecordNotFound)
}

func TestMenuListsAvailableItemsByCategory(t *testing.T) {
	repo := NewMenuRepository(testutil.NewDB(t))
	ctx := context.Background()

	mains := &models.MenuCategory{Name: "Mains", SortOrder: 2}
	starters := &models.MenuCategory{Name: "Starters", SortOrder: 1}
	require.NoError(t, repo.CreateCategory(ctx, mains))
	require.NoError(t, repo.CreateCategory(ctx, starters))
	require.NoError(t, repo.CreateItems(ctx, []models.MenuItem{
		{CategoryID: mains.ID, Name: "Mansaf", Price: 12, Available: true},
		{CategoryID: mains.ID, Name: "Sold out", Price: 9, Available: false},
		{CategoryID: starters.ID, Name: "Hummus", Price: 3.5, Available: true},
	}))

	categories, err := repo.ListCategories(ctx, true, true)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	require.Equal(t, "Starters", categories[0].Name)
	require.Len(t, categories[1].Items, 1)
	require.Equal(t, "Mansaf", categories[1].Items[0].Name)

	byName, err := repo.GetCategoryByName(ctx, "  mains ")
	require.NoError(t, err)
	require.Equal(t, mains.ID, byName.ID)

	count, err := repo.CountItemsInCategory(ctx, mains.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	found, err := repo.ListItems(ctx, MenuItemFilter{Search: "HUM"})
	require.NoError(t, err)
	require.Len(t, found, 1)
}

func TestContactUnreadCount(t *testing.T) {
	repo := NewContactRepository(testutil.NewDB(t))
	ctx := context.Background()

	a := &models.ContactMessage{Name: "A", Message: "hi"}
	b := &models.ContactMessage{Name: "B", Message: "hello"}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))
	require.NoError(t, repo.MarkRead(ctx, a.ID))

	unread, err := repo.CountUnread(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, unread)

	msgs, total, err := repo.List(ctx, true, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "B", msgs[0].Name)
}
