package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"salonpos/models"
	"salonpos/store"
)

// InventoryService manages the sellable catalogue: salon services and
// stocked products.
type InventoryService struct {
	store   store.Store
	log     *zap.Logger
	metrics Recorder
}

func NewInventoryService(st store.Store, log *zap.Logger, r Recorder) *InventoryService {
	if r == nil {
		r = nopRecorder{}
	}
	return &InventoryService{store: st, log: log, metrics: r}
}

func (s *InventoryService) ListServices(ctx context.Context, activeOnly bool) ([]models.ServiceItem, error) {
	all, err := s.store.ListServices(ctx)
	if err != nil || !activeOnly {
		return all, err
	}
	out := all[:0]
	for _, v := range all {
		if v.Active {
			out = append(out, v)
		}
	}
	return out, nil
}

// CreateService adds a service. A caller supplied ID must not exist yet.
func (s *InventoryService) CreateService(ctx context.Context, v models.ServiceItem) (models.ServiceItem, error) {
	v.Name = strings.TrimSpace(v.Name)
	if v.Name == "" || v.Price < 0 || v.Duration < 0 {
		return models.ServiceItem{}, fmt.Errorf("%w: service needs a name and a non-negative price", ErrInvalidInput)
	}
	if v.ID == "" {
		v.ID = ulid.Make().String()
	}
	now := time.Now().UTC()
	v.CreatedAt, v.UpdatedAt = now, now
	err := s.store.Transact(ctx, func(tx store.Tx) error {
		_, err := tx.GetService(ctx, v.ID)
		if err == nil {
			return fmt.Errorf("%w: service %s", store.ErrDuplicate, v.ID)
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		return tx.SaveService(ctx, v)
	})
	if err != nil {
		return models.ServiceItem{}, err
	}
	return v, nil
}

func (s *InventoryService) UpdateService(ctx context.Context, id string, upd models.UpdateService) (models.ServiceItem, error) {
	var out models.ServiceItem
	err := s.store.Transact(ctx, func(tx store.Tx) error {
		v, err := tx.GetService(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: service %s", ErrItemNotFound, id)
		}
		if err != nil {
			return err
		}
		if upd.Name != nil {
			v.Name = strings.TrimSpace(*upd.Name)
		}
		if upd.Price != nil {
			v.Price = *upd.Price
		}
		if upd.Duration != nil {
			v.Duration = *upd.Duration
		}
		if upd.Category != nil {
			v.Category = *upd.Category
		}
		if upd.Description != nil {
			v.Description = *upd.Description
		}
		if upd.Active != nil {
			v.Active = *upd.Active
		}
		if v.Name == "" || v.Price < 0 || v.Duration < 0 {
			return fmt.Errorf("%w: service needs a name and a non-negative price", ErrInvalidInput)
		}
		v.UpdatedAt = time.Now().UTC()
		out = v
		return tx.SaveService(ctx, v)
	})
	return out, err
}

func (s *InventoryService) ListInventory(ctx context.Context) ([]models.InventoryProduct, error) {
	return s.store.ListInventory(ctx)
}

func (s *InventoryService) GetProduct(ctx context.Context, id string) (models.InventoryProduct, error) {
	p, err := s.store.GetProduct(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return p, fmt.Errorf("%w: product %s", ErrItemNotFound, id)
	}
	return p, err
}

func (s *InventoryService) CreateProduct(ctx context.Context, p models.InventoryProduct) (models.InventoryProduct, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" || p.Price < 0 || p.CostPrice < 0 || p.Stock < 0 || p.LowStockThreshold < 0 {
		return models.InventoryProduct{}, fmt.Errorf("%w: product needs a name and non-negative price, stock and threshold", ErrInvalidInput)
	}
	if p.ID == "" {
		p.ID = ulid.Make().String()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	err := s.store.Transact(ctx, func(tx store.Tx) error {
		_, err := tx.GetProduct(ctx, p.ID)
		if err == nil {
			return fmt.Errorf("%w: product %s", store.ErrDuplicate, p.ID)
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		return tx.SaveProduct(ctx, p)
	})
	if err != nil {
		return models.InventoryProduct{}, err
	}
	return p, nil
}

// Restock adds delta units to a product. A negative delta records shrinkage;
// stock never drops below zero.
func (s *InventoryService) Restock(ctx context.Context, id string, delta int) (models.InventoryProduct, error) {
	p, err := s.store.AdjustStock(ctx, id, delta)
	if errors.Is(err, store.ErrNotFound) {
		return p, fmt.Errorf("%w: product %s", ErrItemNotFound, id)
	}
	if err != nil {
		return p, err
	}
	s.log.Info("stock adjusted", zap.String("product_id", id), zap.Int("delta", delta), zap.Int("stock", p.Stock))
	return p, nil
}

// SetPhoto records uploaded photo URLs on a product.
func (s *InventoryService) SetPhoto(ctx context.Context, id, url, previewURL string) (models.InventoryProduct, error) {
	var out models.InventoryProduct
	err := s.store.Transact(ctx, func(tx store.Tx) error {
		p, err := tx.GetProduct(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: product %s", ErrItemNotFound, id)
		}
		if err != nil {
			return err
		}
		p.Productphotourl = url
		p.Productphotopreviewurl = previewURL
		p.UpdatedAt = time.Now().UTC()
		out = p
		return tx.SaveProduct(ctx, p)
	})
	return out, err
}

// LowStock lists products at or below their alert threshold and refreshes
// the low stock gauge.
func (s *InventoryService) LowStock(ctx context.Context) ([]models.InventoryProduct, error) {
	all, err := s.store.ListInventory(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.InventoryProduct{}
	for _, p := range all {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	s.metrics.LowStock(len(out))
	return out, nil
}
