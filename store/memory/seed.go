package memory

import (
	"time"

	"salonpos/loyalty"
	"salonpos/models"
)

// Seed loads the demo catalogue, customers and the default tier ladder.
func (s *Store) Seed() {
	defer s.lock()()
	now := time.Now().UTC()

	for _, v := range []models.ServiceItem{
		{ID: "svc-1", Name: "Classic Haircut", Price: 500, Duration: 45, Category: "Hair", Active: true},
		{ID: "svc-2", Name: "Premium Hair Spa", Price: 1500, Duration: 60, Category: "Hair", Active: true},
		{ID: "svc-3", Name: "Gel Manicure", Price: 800, Duration: 45, Category: "Nails", Active: true},
		{ID: "svc-4", Name: "Deep Tissue Massage", Price: 2500, Duration: 90, Category: "Body", Active: true},
		{ID: "svc-5", Name: "Bridal Makeup", Price: 15000, Duration: 120, Category: "Makeup", Active: true},
	} {
		v.CreatedAt = now
		s.data.services[v.ID] = v
	}

	for _, v := range []models.InventoryProduct{
		{ID: "prd-6", Name: "Loreal Shampoo 250ml", Price: 450, Category: "Retail", Stock: 12, SKU: "LOR-SH-250", Supplier: "BeautySupplies Inc", LowStockThreshold: 10, CostPrice: 300},
		{ID: "prd-7", Name: "Moroccan Oil Serum", Price: 1200, Category: "Retail", Stock: 5, SKU: "MOR-OIL-100", Supplier: "Global Brands", LowStockThreshold: 5, CostPrice: 800},
		{ID: "prd-8", Name: "O3+ Facial Kit", Price: 3500, Category: "Internal", Stock: 3, SKU: "O3-KIT-GOLD", Supplier: "BeautySupplies Inc", LowStockThreshold: 4, CostPrice: 2500},
		{ID: "prd-9", Name: "Disposable Towels (Pack)", Price: 200, Category: "Consumable", Stock: 50, SKU: "DISP-TWL", Supplier: "Local Vendor", LowStockThreshold: 20, CostPrice: 100},
	} {
		v.CreatedAt = now
		s.data.inventory[v.ID] = v
	}

	for _, v := range []models.Customer{
		{ID: "cus-101", Name: "Priya Sharma", Phone: "9876543210", Email: "priya@example.com", LoyaltyPoints: 450, LastVisit: "2023-10-15", TotalSpend: 12000, Tier: models.TierGold},
		{ID: "cus-102", Name: "Rahul Verma", Phone: "9898989898", Email: "rahul@example.com", LoyaltyPoints: 120, LastVisit: "2023-10-20", TotalSpend: 4500, Tier: models.TierSilver},
		{ID: "cus-103", Name: "Simran Kaur", Phone: "9123456789", Email: "simran@example.com", LoyaltyPoints: 800, LastVisit: "2023-09-01", TotalSpend: 25000, Tier: models.TierGold},
		{ID: "cus-104", Name: "Vikram Singh", Phone: "9000000000", Email: "vikram@example.com", LoyaltyPoints: 50, LastVisit: "2023-10-26", TotalSpend: 1500, Tier: models.TierSilver},
		{ID: "cus-105", Name: "Anjali Mehta", Phone: "9988776655", Email: "anjali@example.com", LastVisit: "2023-10-28", Tier: models.TierSilver},
	} {
		v.CreatedAt = now
		s.data.customers[v.ID] = v
	}

	for _, t := range loyalty.DefaultTiers() {
		s.data.tiers[t.ID] = t
	}
}
