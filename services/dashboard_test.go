package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"salonpos/models"
)

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	st := newSeeded(t)
	now := time.Date(2024, 3, 9, 18, 0, 0, 0, time.UTC)

	for _, b := range []models.Bill{
		{ID: "b1", Total: 590, CreatedAt: now.Add(-2 * time.Hour), Items: []models.CartLine{{UnitPrice: 500, Quantity: 1, AssignedStaffID: "stf-1"}}},
		{ID: "b2", Total: 100.1, CreatedAt: now.AddDate(0, 0, -1), Items: []models.CartLine{{UnitPrice: 50, Quantity: 2, AssignedStaffID: "stf-2"}}},
		{ID: "b3", Total: 200.2, CreatedAt: now.AddDate(0, 0, -40)},
	} {
		require.NoError(t, st.CreateBill(ctx, b))
	}

	d, err := NewReportService(st, time.UTC).Dashboard(ctx, now, 7)
	require.NoError(t, err)
	require.Equal(t, 890.3, d.TotalRevenue)
	require.Equal(t, 3, d.BillCount)
	require.Equal(t, 5, d.CustomerCount)
	require.Equal(t, 2, d.LowStockCount)
	// 12*450 + 5*1200 + 3*3500 + 50*200
	require.Equal(t, 31900.0, d.InventoryRetail)

	require.Len(t, d.Daily, 7)
	require.Equal(t, "2024-03-03", d.Daily[0].Date)
	require.Equal(t, DayStat{Date: "2024-03-09", Revenue: 590, Bills: 1}, d.Daily[6])
	require.Equal(t, 100.1, d.Daily[5].Revenue)
	require.Zero(t, d.Daily[0].Bills)

	staff, err := NewReportService(st, nil).StaffSales(ctx)
	require.NoError(t, err)
	require.Equal(t, 500.0, staff["stf-1"])
	require.Equal(t, 100.0, staff["stf-2"])
}
