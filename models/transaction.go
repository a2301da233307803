package models

import (
	"time"
)

type LoyaltyTier struct {
	ID              string   `bson:"_id" json:"id"`
	Name            string   `bson:"name" json:"name"`
	MinSpend        float64  `bson:"min_spend" json:"minSpend"`
	PointMultiplier float64  `bson:"point_multiplier" json:"pointMultiplier"`
	Benefits        []string `bson:"benefits" json:"benefits"`
}

type UpdateTier struct {
	Name            *string  `json:"name,omitempty"`
	MinSpend        *float64 `json:"minSpend,omitempty"`
	PointMultiplier *float64 `json:"pointMultiplier,omitempty"`
	Benefits        []string `json:"benefits,omitempty"`
}

type LoyaltyTransactionType string

const (
	LoyaltyEarned   LoyaltyTransactionType = "Earned"
	LoyaltyRedeemed LoyaltyTransactionType = "Redeemed"
	LoyaltyAdjusted LoyaltyTransactionType = "Adjusted"
)

// LoyaltyTransaction is an immutable ledger entry. Redeemed entries carry
// negative points.
type LoyaltyTransaction struct {
	ID           string                 `bson:"_id" json:"id"`
	CustomerID   string                 `bson:"customer_id" json:"customerId"`
	CustomerName string                 `bson:"customer_name" json:"customerName"`
	BillID       string                 `bson:"bill_id,omitempty" json:"billId,omitempty"`
	Type         LoyaltyTransactionType `bson:"type" json:"type"`
	Points       int                    `bson:"points" json:"points"`
	Date         string                 `bson:"date" json:"date"`
	Amount       float64                `bson:"amount,omitempty" json:"amount,omitempty"`
	Reason       string                 `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt    time.Time              `bson:"created_at" json:"created_at"`
}

// IdempotencyRecord ties a client supplied key to the bill it produced.
type IdempotencyRecord struct {
	Key       string    `bson:"_id"`
	BillID    string    `bson:"bill_id"`
	CreatedAt time.Time `bson:"created_at"`
}
