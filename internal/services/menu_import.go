package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"restaurant_web/internal/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ImportResult struct {
	Created           int      `json:"created"`
	CategoriesCreated int      `json:"categoriesCreated"`
	Errors            []string `json:"errors,omitempty"`
}

// ImportItems reads the first sheet of an xlsx workbook. The first row is a
// header; the columns are category, name, price, description and an optional
// available flag. Unknown categories are created. Invalid rows are reported
// and skipped.
func (s *menuService) ImportItems(ctx context.Context, upload *Upload) (*ImportResult, error) {
	xl, err := excelize.OpenReader(upload.Reader)
	if err != nil {
		return nil, NewValidationError("failed to parse Excel file", map[string]string{"file": "must be an xlsx workbook"})
	}
	defer xl.Close()

	sheets := xl.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewValidationError("Excel file has no sheets", nil)
	}
	rows, err := xl.GetRows(sheets[0])
	if err != nil {
		return nil, Internal("failed to read Excel rows", err)
	}
	if len(rows) < 2 {
		return nil, NewValidationError("Excel must have at least one row of data", nil)
	}

	result := &ImportResult{}
	categories := make(map[string]uint)
	var items []models.MenuItem

	for i, row := range rows[1:] {
		line := i + 2
		cell := func(col int) string {
			if col < len(row) {
				return strings.TrimSpace(row[col])
			}
			return ""
		}

		categoryName, name := sanitizeText(cell(0)), sanitizeText(cell(1))
		if categoryName == "" && name == "" {
			continue
		}
		if categoryName == "" || name == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: category and name are required", line))
			continue
		}
		price, err := strconv.ParseFloat(cell(2), 64)
		if err != nil || price < 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: invalid price %q", line, cell(2)))
			continue
		}
		available := true
		if raw := cell(4); raw != "" {
			if parsed, err := strconv.ParseBool(strings.ToLower(raw)); err == nil {
				available = parsed
			} else {
				available = !strings.EqualFold(raw, "no")
			}
		}

		categoryID, err := s.importCategory(ctx, categoryName, categories, result)
		if err != nil {
			return nil, err
		}

		items = append(items, models.MenuItem{
			CategoryID:  categoryID,
			Name:        name,
			Description: sanitizeText(cell(3)),
			Price:       models.RoundMoney(price),
			Available:   available,
		})
	}

	if len(items) > 0 {
		if err := s.repo.CreateItems(ctx, items); err != nil {
			return nil, Internal("failed to import menu items", err)
		}
	}
	result.Created = len(items)

	s.logger.WithField("created", result.Created).WithField("skipped", len(result.Errors)).Info("Menu items imported")
	return result, nil
}

func (s *menuService) importCategory(ctx context.Context, name string, seen map[string]uint, result *ImportResult) (uint, error) {
	key := strings.ToLower(name)
	if id, ok := seen[key]; ok {
		return id, nil
	}

	category, err := s.repo.GetCategoryByName(ctx, name)
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		category = &models.MenuCategory{Name: name}
		if err := s.repo.CreateCategory(ctx, category); err != nil {
			return 0, Internal("failed to create category "+name, err)
		}
		result.CategoriesCreated++
	default:
		return 0, Internal("failed to load category "+name, err)
	}

	seen[key] = category.ID
	return category.ID, nil
}
