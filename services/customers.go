package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"salonpos/loyalty"
	"salonpos/models"
	"salonpos/store"
)

// CustomerService covers customer records, the loyalty ledger and the tier
// ladder.
type CustomerService struct {
	store   store.Store
	log     *zap.Logger
	metrics Recorder
}

func NewCustomerService(st store.Store, log *zap.Logger, r Recorder) *CustomerService {
	if r == nil {
		r = nopRecorder{}
	}
	return &CustomerService{store: st, log: log, metrics: r}
}

func (s *CustomerService) List(ctx context.Context) ([]models.Customer, error) {
	return s.store.ListCustomers(ctx)
}

func (s *CustomerService) Get(ctx context.Context, id string) (models.Customer, error) {
	c, err := s.store.GetCustomer(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return c, fmt.Errorf("%w: %s", ErrCustomerNotFound, id)
	}
	return c, err
}

func (s *CustomerService) tiers(ctx context.Context, tx store.Tx) ([]models.LoyaltyTier, error) {
	tiers, err := tx.ListTiers(ctx)
	if err != nil {
		return nil, err
	}
	if len(tiers) == 0 {
		return loyalty.DefaultTiers(), nil
	}
	return tiers, nil
}

// Create registers a customer with an empty balance on the entry tier.
func (s *CustomerService) Create(ctx context.Context, in models.CreateCustomer) (models.Customer, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" || in.Phone == "" {
		return models.Customer{}, fmt.Errorf("%w: name and phone are required", ErrInvalidInput)
	}

	tiers, err := s.tiers(ctx, s.store)
	if err != nil {
		return models.Customer{}, err
	}
	c := models.Customer{
		ID:        ulid.Make().String(),
		Name:      in.Name,
		Phone:     in.Phone,
		Email:     strings.TrimSpace(in.Email),
		Notes:     in.Notes,
		Tier:      loyalty.TierFor(tiers, 0).ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.SaveCustomer(ctx, c); err != nil {
		return models.Customer{}, err
	}
	return c, nil
}

// Update applies an admin edit. Changing total spend recomputes the tier.
func (s *CustomerService) Update(ctx context.Context, id string, upd models.UpdateCustomer) (models.Customer, error) {
	var out models.Customer
	err := s.store.Transact(ctx, func(tx store.Tx) error {
		c, err := tx.GetCustomer(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrCustomerNotFound, id)
		}
		if err != nil {
			return err
		}
		if upd.Name != nil {
			c.Name = strings.TrimSpace(*upd.Name)
		}
		if upd.Phone != nil {
			c.Phone = strings.TrimSpace(*upd.Phone)
		}
		if upd.Email != nil {
			c.Email = strings.TrimSpace(*upd.Email)
		}
		if upd.Notes != nil {
			c.Notes = *upd.Notes
		}
		if c.Name == "" || c.Phone == "" {
			return fmt.Errorf("%w: name and phone are required", ErrInvalidInput)
		}
		if upd.TotalSpend != nil {
			if *upd.TotalSpend < 0 {
				return fmt.Errorf("%w: total spend cannot be negative", ErrInvalidInput)
			}
			tiers, err := s.tiers(ctx, tx)
			if err != nil {
				return err
			}
			c.TotalSpend = math.Round(*upd.TotalSpend*100) / 100
			c.Tier = loyalty.TierFor(tiers, c.TotalSpend).ID
		}
		out = c
		return tx.SaveCustomer(ctx, c)
	})
	return out, err
}

// AdjustPoints books a manual correction to a customer's balance.
func (s *CustomerService) AdjustPoints(ctx context.Context, id string, delta int, reason string) (models.Customer, models.LoyaltyTransaction, error) {
	if delta == 0 {
		return models.Customer{}, models.LoyaltyTransaction{}, fmt.Errorf("%w: points must be non-zero", ErrInvalidInput)
	}
	if strings.TrimSpace(reason) == "" {
		return models.Customer{}, models.LoyaltyTransaction{}, fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}

	var (
		c     models.Customer
		entry models.LoyaltyTransaction
	)
	err := s.store.Transact(ctx, func(tx store.Tx) error {
		cur, err := tx.GetCustomer(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrCustomerNotFound, id)
		}
		if err != nil {
			return err
		}
		c, entry = loyalty.Adjust(cur, delta, reason, time.Now().UTC())
		if err := tx.SaveCustomer(ctx, c); err != nil {
			return err
		}
		return tx.AppendTransaction(ctx, entry)
	})
	if err != nil {
		return models.Customer{}, models.LoyaltyTransaction{}, err
	}
	s.metrics.LoyaltyPoints(string(models.LoyaltyAdjusted), int(math.Abs(float64(entry.Points))))
	s.log.Info("points adjusted", zap.String("customer_id", id), zap.Int("points", entry.Points), zap.String("reason", reason))
	return c, entry, nil
}

// Ledger returns a customer's loyalty history, newest first.
func (s *CustomerService) Ledger(ctx context.Context, id string) ([]models.LoyaltyTransaction, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.store.ListTransactions(ctx, id)
}

// Transactions returns every ledger entry, newest first.
func (s *CustomerService) Transactions(ctx context.Context) ([]models.LoyaltyTransaction, error) {
	return s.store.ListTransactions(ctx, "")
}

func (s *CustomerService) Tiers(ctx context.Context) ([]models.LoyaltyTier, error) {
	return s.tiers(ctx, s.store)
}

// UpdateTier edits a tier of the ladder. Existing customers keep their tier
// until their next sale or spend edit.
func (s *CustomerService) UpdateTier(ctx context.Context, id string, upd models.UpdateTier) (models.LoyaltyTier, error) {
	var out models.LoyaltyTier
	err := s.store.Transact(ctx, func(tx store.Tx) error {
		tiers, err := s.tiers(ctx, tx)
		if err != nil {
			return err
		}
		idx := -1
		for i, t := range tiers {
			if t.ID == id {
				idx = i
			}
		}
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrTierNotFound, id)
		}
		t := tiers[idx]
		if upd.Name != nil {
			t.Name = *upd.Name
		}
		if upd.MinSpend != nil {
			t.MinSpend = *upd.MinSpend
		}
		if upd.PointMultiplier != nil {
			t.PointMultiplier = *upd.PointMultiplier
		}
		if upd.Benefits != nil {
			t.Benefits = upd.Benefits
		}
		if t.MinSpend < 0 || t.PointMultiplier <= 0 {
			return fmt.Errorf("%w: min spend must be non-negative and multiplier positive", ErrInvalidInput)
		}
		out = t
		tiers[idx] = t
		// the default ladder may not be persisted yet
		for _, t := range tiers {
			if err := tx.SaveTier(ctx, t); err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}
