// Package export renders admin views as spreadsheets.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/spicestore/internal/client/models"
	"github.com/tealeg/xlsx"
)

const timeLayout = "2006-01-02 15:04:05"

var (
	orderHeaders = []string{
		"ID", "Customer", "Email", "OrderStatus", "PaymentStatus",
		"TotalPrice", "Discount", "GrandTotal", "Items", "CreatedAt", "Address",
	}
	itemHeaders = []string{"OrderID", "ProductID", "Name", "Price", "Quantity"}
)

// WriteOrdersXLSX writes orders as a workbook with an "Orders" sheet and an
// "Items" sheet holding one row per order line.
func WriteOrdersXLSX(w io.Writer, orders []models.Order) error {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return fmt.Errorf("add orders sheet: %w", err)
	}
	addHeader(sheet, orderHeaders)

	items, err := file.AddSheet("Items")
	if err != nil {
		return fmt.Errorf("add items sheet: %w", err)
	}
	addHeader(items, itemHeaders)

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetString(o.ID)
		row.AddCell().SetString(o.User.Name)
		row.AddCell().SetString(o.User.Email)
		row.AddCell().SetString(string(o.OrderStatus))
		row.AddCell().SetString(string(o.PaymentStatus))
		row.AddCell().SetFloat(o.TotalPrice)
		row.AddCell().SetFloat(o.Discount)
		row.AddCell().SetFloat(o.GrandTotal)
		row.AddCell().SetInt(len(o.Items))
		row.AddCell().SetString(o.CreatedAt.Format(timeLayout))
		row.AddCell().SetString(o.Address.String())

		for _, it := range o.Items {
			r := items.AddRow()
			r.AddCell().SetString(o.ID)
			r.AddCell().SetString(it.Product.ID)
			r.AddCell().SetString(strings.TrimSpace(it.Name))
			r.AddCell().SetFloat(it.Price)
			r.AddCell().SetInt(it.Quantity)
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func addHeader(sheet *xlsx.Sheet, headers []string) {
	row := sheet.AddRow()
	for _, h := range headers {
		row.AddCell().SetValue(h)
	}
}
