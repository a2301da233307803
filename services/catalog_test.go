package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"salonpos/models"
	"salonpos/store"
)

func ptr[T any](v T) *T { return &v }

func TestInventoryRestockAndLowStock(t *testing.T) {
	ctx := context.Background()
	st := newSeeded(t)
	rec := newCountingRecorder()
	inv := NewInventoryService(st, zap.NewNop(), rec)

	low, err := inv.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 2)
	require.Equal(t, 2, rec.lowStock)

	p, err := inv.Restock(ctx, "prd-7", 10)
	require.NoError(t, err)
	require.Equal(t, 15, p.Stock)

	p, err = inv.Restock(ctx, "prd-8", -10)
	require.NoError(t, err)
	require.Zero(t, p.Stock)

	low, err = inv.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	require.Equal(t, "prd-8", low[0].ID)

	_, err = inv.Restock(ctx, "nope", 1)
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestInventoryCreateProduct(t *testing.T) {
	ctx := context.Background()
	inv := NewInventoryService(newSeeded(t), zap.NewNop(), nil)

	p, err := inv.CreateProduct(ctx, models.InventoryProduct{Name: " Argan Mask ", Price: 900, Stock: 4, LowStockThreshold: 2})
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)
	require.Equal(t, "Argan Mask", p.Name)

	_, err = inv.CreateProduct(ctx, models.InventoryProduct{Name: "Bad", Price: 10, Stock: -1})
	require.ErrorIs(t, err, ErrInvalidInput)

	p, err = inv.SetPhoto(ctx, p.ID, "https://cdn/x.jpg", "https://cdn/x_preview.jpg")
	require.NoError(t, err)
	require.Equal(t, "https://cdn/x_preview.jpg", p.Productphotopreviewurl)
}

func TestInventoryCreateRejectsExistingID(t *testing.T) {
	ctx := context.Background()
	st := newSeeded(t)
	inv := NewInventoryService(st, zap.NewNop(), nil)

	_, err := inv.CreateProduct(ctx, models.InventoryProduct{ID: "prd-6", Name: "Cheap Shampoo", Price: 1, Stock: 999})
	require.ErrorIs(t, err, store.ErrDuplicate)
	kept, err := st.GetProduct(ctx, "prd-6")
	require.NoError(t, err)
	require.Equal(t, "Loreal Shampoo 250ml", kept.Name)
	require.Equal(t, 12, kept.Stock)

	_, err = inv.CreateService(ctx, models.ServiceItem{ID: "svc-1", Name: "Free Haircut", Price: 0, Active: true})
	require.ErrorIs(t, err, store.ErrDuplicate)
	svc1, err := st.GetService(ctx, "svc-1")
	require.NoError(t, err)
	require.Equal(t, 500.0, svc1.Price)

	p, err := inv.CreateProduct(ctx, models.InventoryProduct{ID: "prd-10", Name: "Hair Mask", Price: 700, Stock: 3})
	require.NoError(t, err)
	require.Equal(t, "prd-10", p.ID)
}

func TestInventoryServices(t *testing.T) {
	ctx := context.Background()
	inv := NewInventoryService(newSeeded(t), zap.NewNop(), nil)

	v, err := inv.CreateService(ctx, models.ServiceItem{Name: "Keratin", Price: 4000, Duration: 120, Active: true})
	require.NoError(t, err)

	active, err := inv.ListServices(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 6)

	v, err = inv.UpdateService(ctx, v.ID, models.UpdateService{Active: ptr(false), Price: ptr(4200.0)})
	require.NoError(t, err)
	require.False(t, v.Active)
	require.Equal(t, 4200.0, v.Price)

	active, err = inv.ListServices(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 5)

	_, err = inv.UpdateService(ctx, v.ID, models.UpdateService{Price: ptr(-1.0)})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = inv.UpdateService(ctx, "svc-404", models.UpdateService{})
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestCustomerLifecycle(t *testing.T) {
	ctx := context.Background()
	st := newSeeded(t)
	cs := NewCustomerService(st, zap.NewNop(), nil)

	c, err := cs.Create(ctx, models.CreateCustomer{Name: "Meera", Phone: "9000011111"})
	require.NoError(t, err)
	require.Zero(t, c.LoyaltyPoints)
	require.Zero(t, c.TotalSpend)
	require.Equal(t, models.TierSilver, c.Tier)

	_, err = cs.Create(ctx, models.CreateCustomer{Name: "No Phone"})
	require.ErrorIs(t, err, ErrInvalidInput)

	c, err = cs.Update(ctx, c.ID, models.UpdateCustomer{TotalSpend: ptr(60000.0), Notes: ptr("VIP")})
	require.NoError(t, err)
	require.Equal(t, models.TierPlatinum, c.Tier)
	require.Equal(t, "VIP", c.Notes)

	_, err = cs.Update(ctx, "cus-404", models.UpdateCustomer{})
	require.ErrorIs(t, err, ErrCustomerNotFound)
	_, err = cs.Get(ctx, "cus-404")
	require.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestAdjustPoints(t *testing.T) {
	ctx := context.Background()
	st := newSeeded(t)
	cs := NewCustomerService(st, zap.NewNop(), nil)

	c, entry, err := cs.AdjustPoints(ctx, "cus-104", -80, "correction")
	require.NoError(t, err)
	require.Zero(t, c.LoyaltyPoints)
	require.Equal(t, -50, entry.Points)
	require.Equal(t, models.LoyaltyAdjusted, entry.Type)

	ledger, err := cs.Ledger(ctx, "cus-104")
	require.NoError(t, err)
	require.Len(t, ledger, 1)

	_, _, err = cs.AdjustPoints(ctx, "cus-104", 0, "noop")
	require.ErrorIs(t, err, ErrInvalidInput)
	_, _, err = cs.AdjustPoints(ctx, "cus-104", 5, " ")
	require.ErrorIs(t, err, ErrInvalidInput)
	_, _, err = cs.AdjustPoints(ctx, "cus-404", 5, "gift")
	require.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestUpdateTier(t *testing.T) {
	ctx := context.Background()
	cs := NewCustomerService(newSeeded(t), zap.NewNop(), nil)

	tier, err := cs.UpdateTier(ctx, models.TierGold, models.UpdateTier{MinSpend: ptr(8000.0)})
	require.NoError(t, err)
	require.Equal(t, 8000.0, tier.MinSpend)

	tiers, err := cs.Tiers(ctx)
	require.NoError(t, err)
	require.Len(t, tiers, 3)
	require.Equal(t, 8000.0, tiers[1].MinSpend)

	_, err = cs.UpdateTier(ctx, models.TierGold, models.UpdateTier{PointMultiplier: ptr(0.0)})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = cs.UpdateTier(ctx, "Diamond", models.UpdateTier{})
	require.ErrorIs(t, err, ErrTierNotFound)
}

func TestSettingsUpdate(t *testing.T) {
	ctx := context.Background()
	ss := NewSettingsService(newSeeded(t))

	s, err := ss.Update(ctx, models.UpdateSettings{TaxRate: ptr(5.0), Currency: ptr("usd")})
	require.NoError(t, err)
	require.Equal(t, 5.0, s.TaxRate)
	require.Equal(t, "USD", s.Currency)

	_, err = ss.Update(ctx, models.UpdateSettings{TaxRate: ptr(-1.0)})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = ss.Update(ctx, models.UpdateSettings{OpeningTime: ptr("9am")})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = ss.Update(ctx, models.UpdateSettings{Currency: ptr("SOMELONGCURRENCYLABELXYZ12")})
	require.ErrorIs(t, err, ErrInvalidInput)

	got, err := ss.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, 5.0, got.TaxRate)
}
