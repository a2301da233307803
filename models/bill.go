package models

import (
	"time"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "Cash"
	PaymentCard PaymentMethod = "Card"
	PaymentUPI  PaymentMethod = "UPI"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentUPI:
		return true
	}
	return false
}

const WalkInCustomer = "Walk-in Customer"

// Bill is an immutable record of a completed sale.
type Bill struct {
	ID              string        `bson:"_id" json:"id"`
	Date            string        `bson:"date" json:"date"`
	CustomerID      string        `bson:"customer_id,omitempty" json:"customerId,omitempty"`
	CustomerName    string        `bson:"customer_name" json:"customerName"`
	Items           []CartLine    `bson:"items" json:"items"`
	Subtotal        float64       `bson:"subtotal" json:"subtotal"`
	DiscountPercent float64       `bson:"discount_percent" json:"discountPercent"`
	DiscountAmount  float64       `bson:"discount_amount" json:"discountAmount"`
	RedeemedPoints  int           `bson:"redeemed_points" json:"redeemedPoints"`
	Tax             float64       `bson:"tax" json:"tax"`
	TaxRate         float64       `bson:"tax_rate" json:"taxRate"`
	Total           float64       `bson:"total" json:"total"`
	PointsEarned    int           `bson:"points_earned" json:"pointsEarned"`
	PaymentMethod   PaymentMethod `bson:"payment_method" json:"paymentMethod"`
	ViewToken       string        `bson:"view_token" json:"view_token"`
	CashierID       string        `bson:"cashier_id,omitempty" json:"cashierId,omitempty"`
	CreatedAt       time.Time     `bson:"created_at" json:"created_at"`
}
