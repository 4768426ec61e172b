package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"restaurant_web/internal/models"
	"restaurant_web/internal/repository"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Orders"

var exportHeader = []interface{}{
	"Reference", "Created At", "Customer", "Phone", "Type", "Address", "Items", "Total", "Paid Online", "Status", "Notes",
}

// ExportOrders writes every order matching filter to w as an xlsx workbook.
func ExportOrders(ctx context.Context, svc OrderService, filter repository.OrderFilter, w io.Writer) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return 0, Internal("failed to prepare export", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return 0, Internal("failed to write export header", err)
	}

	filter.Limit = repository.MaxPageSize
	row := 2
	for page := 1; ; page++ {
		filter.Page = page
		orders, total, err := svc.List(ctx, filter)
		if err != nil {
			return 0, err
		}
		for i := range orders {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			values := exportRow(&orders[i])
			if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
				return 0, Internal("failed to write export row", err)
			}
			row++
		}
		if len(orders) == 0 || int64(row-2) >= total {
			break
		}
	}

	if err := f.Write(w); err != nil {
		return 0, Internal("failed to write export", err)
	}
	return row - 2, nil
}

func exportRow(order *models.Order) []interface{} {
	items := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, fmt.Sprintf("%dx %s", item.Quantity, item.Name))
	}
	address := ""
	if order.Address != nil {
		address = *order.Address
	}
	return []interface{}{
		order.Reference,
		order.CreatedAt.Format("2006-01-02 15:04"),
		order.CustomerName,
		order.Phone,
		string(order.DeliveryType),
		address,
		strings.Join(items, ", "),
		order.TotalPrice,
		order.PaidOnline,
		string(order.Status),
		order.Notes,
	}
}
