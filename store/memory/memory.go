// Package memory is an in-process store.Store used for tests and demo mode.
package memory

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"

	"salonpos/models"
	"salonpos/store"
)

type state struct {
	services     map[string]models.ServiceItem
	inventory    map[string]models.InventoryProduct
	customers    map[string]models.Customer
	transactions []models.LoyaltyTransaction
	bills        []models.Bill
	tiers        map[string]models.LoyaltyTier
	settings     models.Settings
	users        map[string]models.User
	idempotency  map[string]models.IdempotencyRecord
}

func newState() *state {
	return &state{
		services:    map[string]models.ServiceItem{},
		inventory:   map[string]models.InventoryProduct{},
		customers:   map[string]models.Customer{},
		tiers:       map[string]models.LoyaltyTier{},
		settings:    models.DefaultSettings(),
		users:       map[string]models.User{},
		idempotency: map[string]models.IdempotencyRecord{},
	}
}

// clone copies every collection. Bills and ledger entries are append only so
// their backing arrays are copied rather than deep copied.
func (s *state) clone() *state {
	return &state{
		services:     maps.Clone(s.services),
		inventory:    maps.Clone(s.inventory),
		customers:    maps.Clone(s.customers),
		transactions: append([]models.LoyaltyTransaction(nil), s.transactions...),
		bills:        append([]models.Bill(nil), s.bills...),
		tiers:        maps.Clone(s.tiers),
		settings:     s.settings,
		users:        maps.Clone(s.users),
		idempotency:  maps.Clone(s.idempotency),
	}
}

// Store keeps everything in maps behind a RWMutex. A Store handed to a
// Transact callback works on a private copy and takes no locks.
type Store struct {
	mu   *sync.RWMutex
	data *state
	inTx bool
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{mu: &sync.RWMutex{}, data: newState()}
}

func (s *Store) rlock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) Transact(ctx context.Context, fn func(tx store.Tx) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := &Store{mu: s.mu, data: s.data.clone(), inTx: true}
	if err := fn(work); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.data = work.data
	return nil
}

func (s *Store) Close(context.Context) error { return nil }

func (s *Store) ListServices(context.Context) ([]models.ServiceItem, error) {
	defer s.rlock()()
	out := make([]models.ServiceItem, 0, len(s.data.services))
	for _, v := range s.data.services {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetService(_ context.Context, id string) (models.ServiceItem, error) {
	defer s.rlock()()
	v, ok := s.data.services[id]
	if !ok {
		return models.ServiceItem{}, store.ErrNotFound
	}
	return v, nil
}

func (s *Store) SaveService(_ context.Context, v models.ServiceItem) error {
	defer s.lock()()
	s.data.services[v.ID] = v
	return nil
}

func (s *Store) ListInventory(context.Context) ([]models.InventoryProduct, error) {
	defer s.rlock()()
	out := make([]models.InventoryProduct, 0, len(s.data.inventory))
	for _, v := range s.data.inventory {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetProduct(_ context.Context, id string) (models.InventoryProduct, error) {
	defer s.rlock()()
	v, ok := s.data.inventory[id]
	if !ok {
		return models.InventoryProduct{}, store.ErrNotFound
	}
	return v, nil
}

func (s *Store) SaveProduct(_ context.Context, v models.InventoryProduct) error {
	defer s.lock()()
	s.data.inventory[v.ID] = v
	return nil
}

func (s *Store) AdjustStock(_ context.Context, id string, delta int) (models.InventoryProduct, error) {
	defer s.lock()()
	v, ok := s.data.inventory[id]
	if !ok {
		return models.InventoryProduct{}, store.ErrNotFound
	}
	v.Stock = max(0, v.Stock+delta)
	s.data.inventory[id] = v
	return v, nil
}

func (s *Store) ListCustomers(context.Context) ([]models.Customer, error) {
	defer s.rlock()()
	out := make([]models.Customer, 0, len(s.data.customers))
	for _, v := range s.data.customers {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetCustomer(_ context.Context, id string) (models.Customer, error) {
	defer s.rlock()()
	v, ok := s.data.customers[id]
	if !ok {
		return models.Customer{}, store.ErrNotFound
	}
	return v, nil
}

func (s *Store) SaveCustomer(_ context.Context, v models.Customer) error {
	defer s.lock()()
	s.data.customers[v.ID] = v
	return nil
}

func (s *Store) AppendTransaction(_ context.Context, e models.LoyaltyTransaction) error {
	defer s.lock()()
	s.data.transactions = append(s.data.transactions, e)
	return nil
}

func (s *Store) ListTransactions(_ context.Context, customerID string) ([]models.LoyaltyTransaction, error) {
	defer s.rlock()()
	var out []models.LoyaltyTransaction
	for i := len(s.data.transactions) - 1; i >= 0; i-- {
		e := s.data.transactions[i]
		if customerID == "" || e.CustomerID == customerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) CreateBill(_ context.Context, b models.Bill) error {
	defer s.lock()()
	for _, existing := range s.data.bills {
		if existing.ID == b.ID {
			return store.ErrDuplicate
		}
	}
	s.data.bills = append(s.data.bills, b)
	return nil
}

func (s *Store) GetBill(_ context.Context, id string) (models.Bill, error) {
	defer s.rlock()()
	for _, b := range s.data.bills {
		if b.ID == id {
			return b, nil
		}
	}
	return models.Bill{}, store.ErrNotFound
}

func (s *Store) GetBillByToken(_ context.Context, token string) (models.Bill, error) {
	defer s.rlock()()
	if token == "" {
		return models.Bill{}, store.ErrNotFound
	}
	for _, b := range s.data.bills {
		if b.ViewToken == token {
			return b, nil
		}
	}
	return models.Bill{}, store.ErrNotFound
}

func (s *Store) ListBills(_ context.Context, limit int) ([]models.Bill, error) {
	defer s.rlock()()
	out := make([]models.Bill, 0, len(s.data.bills))
	for i := len(s.data.bills) - 1; i >= 0; i-- {
		out = append(out, s.data.bills[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) ListTiers(context.Context) ([]models.LoyaltyTier, error) {
	defer s.rlock()()
	out := make([]models.LoyaltyTier, 0, len(s.data.tiers))
	for _, v := range s.data.tiers {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MinSpend < out[j].MinSpend })
	return out, nil
}

func (s *Store) SaveTier(_ context.Context, t models.LoyaltyTier) error {
	defer s.lock()()
	s.data.tiers[t.ID] = t
	return nil
}

func (s *Store) GetSettings(context.Context) (models.Settings, error) {
	defer s.rlock()()
	return s.data.settings, nil
}

func (s *Store) SaveSettings(_ context.Context, v models.Settings) error {
	defer s.lock()()
	s.data.settings = v
	return nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	defer s.rlock()()
	v, ok := s.data.users[strings.ToLower(email)]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return v, nil
}

func (s *Store) SaveUser(_ context.Context, u models.User) error {
	defer s.lock()()
	s.data.users[strings.ToLower(u.Email)] = u
	return nil
}

func (s *Store) LookupIdempotency(_ context.Context, key string) (models.IdempotencyRecord, error) {
	defer s.rlock()()
	v, ok := s.data.idempotency[key]
	if !ok {
		return models.IdempotencyRecord{}, store.ErrNotFound
	}
	return v, nil
}

func (s *Store) RecordIdempotency(_ context.Context, rec models.IdempotencyRecord) error {
	defer s.lock()()
	if _, ok := s.data.idempotency[rec.Key]; ok {
		return store.ErrDuplicate
	}
	s.data.idempotency[rec.Key] = rec
	return nil
}
