package models

import (
	"time"
)

type Role string

const (
	RoleAdmin        Role = "Admin"
	RoleManager      Role = "Manager"
	RoleStaff        Role = "Staff"
	RoleReceptionist Role = "Receptionist"
)

// User is a staff account able to log into the back office.
type User struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Role      Role      `bson:"role" json:"role"`
	Password  string    `bson:"password" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

const (
	TierSilver   = "Silver"
	TierGold     = "Gold"
	TierPlatinum = "Platinum"
)

type Customer struct {
	ID            string    `bson:"_id" json:"id"`
	Name          string    `bson:"name" json:"name"`
	Phone         string    `bson:"phone" json:"phone"`
	Email         string    `bson:"email" json:"email"`
	LoyaltyPoints int       `bson:"loyalty_points" json:"loyaltyPoints"`
	TotalSpend    float64   `bson:"total_spend" json:"totalSpend"`
	Tier          string    `bson:"tier" json:"tier"`
	LastVisit     string    `bson:"last_visit,omitempty" json:"lastVisit,omitempty"`
	Notes         string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
}

type CreateCustomer struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email"`
	Notes string `json:"notes"`
}

type UpdateCustomer struct {
	Name       *string  `json:"name,omitempty"`
	Phone      *string  `json:"phone,omitempty"`
	Email      *string  `json:"email,omitempty"`
	Notes      *string  `json:"notes,omitempty"`
	TotalSpend *float64 `json:"totalSpend,omitempty"`
}
