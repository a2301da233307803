// Package services holds the POS use cases. Every service works against an
// injected store.Store and never touches a database driver directly.
package services

import (
	"context"
	"errors"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidCart        = errors.New("invalid cart")
	ErrItemNotFound       = errors.New("item not found")
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrRedemptionExceeded = errors.New("requested points exceed redeemable amount")
	ErrCheckoutFailed     = errors.New("transaction failed")

	ErrInvalidInput       = errors.New("invalid input")
	ErrTierNotFound       = errors.New("tier not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Notifier delivers a short text message to a customer's phone.
type Notifier interface {
	Notify(ctx context.Context, phone, message string) error
}

// ReceiptArchiver stores a rendered receipt and returns its object key.
type ReceiptArchiver interface {
	Archive(ctx context.Context, billID, text string) (string, error)
}

// TextGenerator produces free text for a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Recorder receives business counters. middleware.Metrics implements it
// on Prometheus.
type Recorder interface {
	Checkout(result string)
	LoyaltyPoints(kind string, points int)
	LowStock(count int)
}

type nopRecorder struct{}

func (nopRecorder) Checkout(string)           {}
func (nopRecorder) LoyaltyPoints(string, int) {}
func (nopRecorder) LowStock(int)              {}

// Checkout outcomes reported to the Recorder.
const (
	ResultSuccess  = "success"
	ResultReplayed = "replayed"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)
