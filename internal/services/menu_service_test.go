package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"restaurant_web/internal/repository"
	"restaurant_web/internal/storage"
	"restaurant_web/internal/testutil"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testBaseURL = "http://localhost:8080"

func newMenuService(t *testing.T) (MenuService, string) {
	t.Helper()
	dir := t.TempDir()
	svc := NewMenuService(
		repository.NewMenuRepository(testutil.NewDB(t)),
		storage.NewLocalStore(dir, testBaseURL),
		testutil.Logger(),
	)
	return svc, dir
}

func pngUpload(name string) *Upload {
	return &Upload{Filename: name, Size: 4, Reader: strings.NewReader("\x89PNG")}
}

func uploadedFile(dir, url string) string {
	return filepath.Join(dir, filepath.Base(url))
}

func TestMenuItemImages(t *testing.T) {
	svc, dir := newMenuService(t)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, CategoryRequest{Name: "Mains"})
	require.NoError(t, err)

	item, err := svc.CreateItem(ctx, MenuItemRequest{CategoryID: category.ID, Name: "Mansaf", Price: 12.499}, pngUpload("mansaf.PNG"))
	require.NoError(t, err)
	require.True(t, item.Available)
	require.Equal(t, 12.5, item.Price)
	require.True(t, strings.HasPrefix(item.ImageURL, testBaseURL+"/uploads/menu-"))
	require.True(t, strings.HasSuffix(item.ImageURL, ".png"))
	require.FileExists(t, uploadedFile(dir, item.ImageURL))

	first := item.ImageURL
	updated, err := svc.UpdateItem(ctx, item.ID, MenuItemRequest{CategoryID: category.ID, Name: "Mansaf", Price: 13, Available: boolPtr(false)}, pngUpload("new.jpg"))
	require.NoError(t, err)
	require.False(t, updated.Available)
	require.NotEqual(t, first, updated.ImageURL)
	require.NoFileExists(t, uploadedFile(dir, first))
	require.FileExists(t, uploadedFile(dir, updated.ImageURL))

	require.NoError(t, svc.DeleteItem(ctx, item.ID))
	require.NoFileExists(t, uploadedFile(dir, updated.ImageURL))
}

func TestMenuItemValidation(t *testing.T) {
	svc, dir := newMenuService(t)
	ctx := context.Background()

	_, err := svc.CreateItem(ctx, MenuItemRequest{CategoryID: 42, Name: "Ghost", Price: 1}, nil)
	requireValidation(t, err, "invalid menu item", "categoryId")

	_, err = svc.CreateItem(ctx, MenuItemRequest{Name: "", Price: -1}, nil)
	svcErr := requireValidation(t, err, "invalid menu item", "name")
	require.Contains(t, svcErr.Fields, "price")

	category, err := svc.CreateCategory(ctx, CategoryRequest{Name: "Mains"})
	require.NoError(t, err)
	_, err = svc.CreateItem(ctx, MenuItemRequest{CategoryID: category.ID, Name: "Mansaf", Price: 1}, pngUpload("virus.exe"))
	require.Equal(t, KindValidation, KindOf(err))
	require.Contains(t, err.(*Error).Fields, "image")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestDeleteCategoryWithItems(t *testing.T) {
	svc, _ := newMenuService(t)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, CategoryRequest{Name: "Desserts"})
	require.NoError(t, err)
	item, err := svc.CreateItem(ctx, MenuItemRequest{CategoryID: category.ID, Name: "Kunafa", Price: 4}, nil)
	require.NoError(t, err)

	err = svc.DeleteCategory(ctx, category.ID)
	require.Equal(t, KindConflict, KindOf(err))

	require.NoError(t, svc.DeleteItem(ctx, item.ID))
	require.NoError(t, svc.DeleteCategory(ctx, category.ID))
	require.Equal(t, KindNotFound, KindOf(svc.DeleteCategory(ctx, category.ID)))
}

func TestPublicMenuHidesUnavailableItems(t *testing.T) {
	svc, _ := newMenuService(t)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, CategoryRequest{Name: "Drinks"})
	require.NoError(t, err)
	_, err = svc.CreateItem(ctx, MenuItemRequest{CategoryID: category.ID, Name: "Lemonade", Price: 2}, nil)
	require.NoError(t, err)
	_, err = svc.CreateItem(ctx, MenuItemRequest{CategoryID: category.ID, Name: "Sahlab", Price: 3, Available: boolPtr(false)}, nil)
	require.NoError(t, err)

	menu, err := svc.PublicMenu(ctx)
	require.NoError(t, err)
	require.Len(t, menu, 1)
	require.Len(t, menu[0].Items, 1)
	require.Equal(t, "Lemonade", menu[0].Items[0].Name)

	all, err := svc.ListItems(ctx, repository.MenuItemFilter{CategoryID: category.ID})
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func workbook(t *testing.T, rows [][]interface{}) *Upload {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return &Upload{Filename: "menu.xlsx", Size: int64(buf.Len()), Reader: buf}
}

func TestImportItems(t *testing.T) {
	svc, _ := newMenuService(t)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, CategoryRequest{Name: "Mains"})
	require.NoError(t, err)

	result, err := svc.ImportItems(ctx, workbook(t, [][]interface{}{
		{"Category", "Name", "Price", "Description", "Available"},
		{"Mains", "Maqluba", "9", "Upside down rice", ""},
		{"mains", "Musakhan", "11.25", "", "yes"},
		{"Drinks", "Lemonade", "abc"},
		{"", "Tea", "1"},
		{"Drinks", "Mint tea", "1.5", "", "no"},
	}))
	require.NoError(t, err)
	require.Equal(t, 3, result.Created)
	require.Equal(t, 1, result.CategoriesCreated)
	require.Len(t, result.Errors, 2)
	require.Contains(t, result.Errors[0], "row 4")
	require.Contains(t, result.Errors[1], "row 5")

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)

	items, err := svc.ListItems(ctx, repository.MenuItemFilter{Search: "mint"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.False(t, items[0].Available)
	require.Equal(t, 1.5, items[0].Price)
}

func TestImportItemsRejectsBadFiles(t *testing.T) {
	svc, _ := newMenuService(t)
	ctx := context.Background()

	_, err := svc.ImportItems(ctx, &Upload{Filename: "menu.xlsx", Reader: strings.NewReader("not a workbook")})
	require.Equal(t, KindValidation, KindOf(err))

	_, err = svc.ImportItems(ctx, workbook(t, [][]interface{}{{"Category", "Name", "Price"}}))
	require.Equal(t, KindValidation, KindOf(err))
}
