// Package store defines the persistence port used by the POS services.
// Adapters live in store/memory and store/mongostore.
package store

import (
	"context"
	"errors"

	"salonpos/models"
)

// ErrNotFound is returned by lookups that match no record.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert collides with an existing key.
var ErrDuplicate = errors.New("duplicate key")

// Tx is every read and write the services need. Inside Store.Transact the
// same methods operate on the transaction's view.
type Tx interface {
	ListServices(ctx context.Context) ([]models.ServiceItem, error)
	GetService(ctx context.Context, id string) (models.ServiceItem, error)
	SaveService(ctx context.Context, s models.ServiceItem) error

	ListInventory(ctx context.Context) ([]models.InventoryProduct, error)
	GetProduct(ctx context.Context, id string) (models.InventoryProduct, error)
	SaveProduct(ctx context.Context, p models.InventoryProduct) error
	// AdjustStock adds delta to the stock count, flooring the result at 0.
	AdjustStock(ctx context.Context, id string, delta int) (models.InventoryProduct, error)

	ListCustomers(ctx context.Context) ([]models.Customer, error)
	GetCustomer(ctx context.Context, id string) (models.Customer, error)
	SaveCustomer(ctx context.Context, c models.Customer) error

	AppendTransaction(ctx context.Context, e models.LoyaltyTransaction) error
	// ListTransactions returns ledger entries newest first; an empty
	// customerID lists everyone's.
	ListTransactions(ctx context.Context, customerID string) ([]models.LoyaltyTransaction, error)

	CreateBill(ctx context.Context, b models.Bill) error
	GetBill(ctx context.Context, id string) (models.Bill, error)
	GetBillByToken(ctx context.Context, token string) (models.Bill, error)
	// ListBills returns bills newest first; limit <= 0 means all.
	ListBills(ctx context.Context, limit int) ([]models.Bill, error)

	ListTiers(ctx context.Context) ([]models.LoyaltyTier, error)
	SaveTier(ctx context.Context, t models.LoyaltyTier) error

	GetSettings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, s models.Settings) error

	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	SaveUser(ctx context.Context, u models.User) error

	LookupIdempotency(ctx context.Context, key string) (models.IdempotencyRecord, error)
	RecordIdempotency(ctx context.Context, rec models.IdempotencyRecord) error
}

// Store is a Tx that can also open transactions.
type Store interface {
	Tx
	// Transact runs fn as one unit: either every write fn makes is applied
	// or none is.
	Transact(ctx context.Context, fn func(tx Tx) error) error
	Close(ctx context.Context) error
}
