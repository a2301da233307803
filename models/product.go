package models

import (
	"time"
)

// ItemType distinguishes sellable services from stocked products.
type ItemType string

const (
	ItemService ItemType = "Service"
	ItemProduct ItemType = "Product"
)

func (t ItemType) Valid() bool {
	return t == ItemService || t == ItemProduct
}

type ServiceItem struct {
	ID          string    `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name" binding:"required"`
	Price       float64   `bson:"price" json:"price"`
	Duration    int       `bson:"duration,omitempty" json:"duration,omitempty"` // минуты
	Category    string    `bson:"category" json:"category"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Active      bool      `bson:"active" json:"active"`
	CreatedAt   time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt   time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

type UpdateService struct {
	Name        *string  `json:"name,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Duration    *int     `json:"duration,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Description *string  `json:"description,omitempty"`
	Active      *bool    `json:"active,omitempty"`
}

// InventoryProduct is a physical product whose stock is decremented on sale.
type InventoryProduct struct {
	ID                     string    `bson:"_id" json:"id"`
	Name                   string    `bson:"name" json:"name" binding:"required"`
	Price                  float64   `bson:"price" json:"price"`
	Category               string    `bson:"category" json:"category"`
	Stock                  int       `bson:"stock" json:"stock"`
	SKU                    string    `bson:"sku" json:"sku"`
	Supplier               string    `bson:"supplier" json:"supplier"`
	LowStockThreshold      int       `bson:"low_stock_threshold" json:"lowStockThreshold"`
	CostPrice              float64   `bson:"cost_price" json:"costPrice"`
	Productphotourl        string    `bson:"productphotourl,omitempty" json:"productphotourl,omitempty"`
	Productphotopreviewurl string    `bson:"productphotopreviewurl,omitempty" json:"productphotopreviewurl,omitempty"`
	CreatedAt              time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt              time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// IsLowStock reports whether stock has reached the alert threshold.
func (p InventoryProduct) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}

// CartLine is one line of an in-progress sale. UnitPrice and Name are
// resolved from the catalog, never taken from the client.
type CartLine struct {
	ItemID          string   `bson:"item_id" json:"itemId"`
	ItemType        ItemType `bson:"item_type" json:"itemType"`
	Name            string   `bson:"name" json:"name"`
	UnitPrice       float64  `bson:"unit_price" json:"unitPrice"`
	Quantity        int      `bson:"quantity" json:"quantity"`
	AssignedStaffID string   `bson:"assigned_staff_id,omitempty" json:"assignedStaffId,omitempty"`
}

// LineTotal is unit price times quantity.
func (l CartLine) LineTotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// CartLineInput is what the till submits for a line.
type CartLineInput struct {
	ItemID   string   `json:"itemId" binding:"required"`
	ItemType ItemType `json:"itemType" binding:"required"`
	Quantity int      `json:"quantity" binding:"required"`
	StaffID  string   `json:"staffId,omitempty"`
}
