package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/dmitrijs2005/spicestore/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func cellValues(row *xlsx.Row) []string {
	out := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		out[i] = c.Value
	}
	return out
}

func TestWriteOrdersXLSX(t *testing.T) {
	orders := []models.Order{
		{
			ID:            "o1",
			User:          models.Ref{ID: "u1", Name: "Asha", Email: "a@b.com"},
			OrderStatus:   models.OrderStatusShipped,
			PaymentStatus: models.PaymentStatusPaid,
			TotalPrice:    300,
			Discount:      30,
			GrandTotal:    270,
			CreatedAt:     time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC),
			Address:       models.Address{City: "Kochi", Country: "IN"},
			Items: []models.OrderItem{
				{Product: models.Ref{ID: "p1"}, Name: "Cardamom", Price: 100, Quantity: 2},
				{Product: models.Ref{ID: "p2"}, Name: "Clove", Price: 100, Quantity: 1},
			},
		},
		{ID: "o2", OrderStatus: models.OrderStatusProcessing, PaymentStatus: models.PaymentStatusPending},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteOrdersXLSX(&buf, orders))

	wb, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 2)

	sheet := wb.Sheet["Orders"]
	require.NotNil(t, sheet)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, orderHeaders, cellValues(sheet.Rows[0]))

	first := cellValues(sheet.Rows[1])
	assert.Equal(t, "o1", first[0])
	assert.Equal(t, "Asha", first[1])
	assert.Equal(t, "shipped", first[3])
	assert.Equal(t, "270", first[7])
	assert.Equal(t, "2", first[8])
	assert.Equal(t, "2025-02-03 04:05:06", first[9])
	assert.Equal(t, "Kochi, IN", first[10])

	items := wb.Sheet["Items"]
	require.NotNil(t, items)
	require.Len(t, items.Rows, 3)
	assert.Equal(t, []string{"o1", "p1", "Cardamom", "100", "2"}, cellValues(items.Rows[1]))
}

func TestWriteOrdersXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOrdersXLSX(&buf, nil))

	wb, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, wb.Sheet["Orders"].Rows, 1)
}
