package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"salonpos/models"
	"salonpos/store"
)

type DayStat struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Bills   int     `json:"bills"`
}

type Dashboard struct {
	TotalRevenue    float64   `json:"totalRevenue"`
	BillCount       int       `json:"billCount"`
	CustomerCount   int       `json:"customerCount"`
	LowStockCount   int       `json:"lowStockCount"`
	InventoryRetail float64   `json:"inventoryRetailValue"`
	InventoryCost   float64   `json:"inventoryCostValue"`
	Daily           []DayStat `json:"daily"`
}

type ReportService struct {
	store store.Store
	loc   *time.Location
}

func NewReportService(st store.Store, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{store: st, loc: loc}
}

// Dashboard summarises all bills plus a per-day series for the last days
// days ending at now. Days without sales are present with zero values.
func (s *ReportService) Dashboard(ctx context.Context, now time.Time, days int) (Dashboard, error) {
	if days <= 0 {
		days = 30
	}
	var d Dashboard

	bills, err := s.store.ListBills(ctx, 0)
	if err != nil {
		return d, err
	}
	customers, err := s.store.ListCustomers(ctx)
	if err != nil {
		return d, err
	}
	inventory, err := s.store.ListInventory(ctx)
	if err != nil {
		return d, err
	}

	now = now.In(s.loc)
	first := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc).AddDate(0, 0, -(days - 1))
	index := make(map[string]int, days)
	daily := make([]decimal.Decimal, days)
	d.Daily = make([]DayStat, days)
	for i := range d.Daily {
		key := first.AddDate(0, 0, i).Format(time.DateOnly)
		d.Daily[i].Date = key
		index[key] = i
	}

	total := decimal.Zero
	for _, b := range bills {
		amt := decimal.NewFromFloat(b.Total)
		total = total.Add(amt)
		if i, ok := index[b.CreatedAt.In(s.loc).Format(time.DateOnly)]; ok {
			daily[i] = daily[i].Add(amt)
			d.Daily[i].Bills++
		}
	}
	for i := range d.Daily {
		d.Daily[i].Revenue = money(daily[i])
	}
	d.TotalRevenue = money(total)
	d.BillCount = len(bills)
	d.CustomerCount = len(customers)

	retail, cost := decimal.Zero, decimal.Zero
	for _, p := range inventory {
		qty := decimal.NewFromInt(int64(p.Stock))
		retail = retail.Add(decimal.NewFromFloat(p.Price).Mul(qty))
		cost = cost.Add(decimal.NewFromFloat(p.CostPrice).Mul(qty))
		if p.IsLowStock() {
			d.LowStockCount++
		}
	}
	d.InventoryRetail = money(retail)
	d.InventoryCost = money(cost)
	return d, nil
}

// StaffSales totals line revenue per assigned staff member. Lines without a
// staff assignment are grouped under "".
func (s *ReportService) StaffSales(ctx context.Context) (map[string]float64, error) {
	bills, err := s.store.ListBills(ctx, 0)
	if err != nil {
		return nil, err
	}
	sums := map[string]decimal.Decimal{}
	for _, b := range bills {
		for _, l := range b.Items {
			sums[l.AssignedStaffID] = sums[l.AssignedStaffID].Add(lineTotal(l))
		}
	}
	out := make(map[string]float64, len(sums))
	for k, v := range sums {
		out[k] = money(v)
	}
	return out, nil
}

func lineTotal(l models.CartLine) decimal.Decimal {
	return decimal.NewFromFloat(l.UnitPrice).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
