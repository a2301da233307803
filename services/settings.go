package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"salonpos/models"
	"salonpos/store"
)

// maxCurrencyLen keeps the currency and the total on one receipt line.
const maxCurrencyLen = 5

type SettingsService struct {
	store store.Store
}

func NewSettingsService(st store.Store) *SettingsService {
	return &SettingsService{store: st}
}

func (s *SettingsService) Get(ctx context.Context) (models.Settings, error) {
	return s.store.GetSettings(ctx)
}

func (s *SettingsService) Update(ctx context.Context, upd models.UpdateSettings) (models.Settings, error) {
	var out models.Settings
	err := s.store.Transact(ctx, func(tx store.Tx) error {
		cur, err := tx.GetSettings(ctx)
		if err != nil {
			return err
		}
		if upd.SalonName != nil {
			cur.SalonName = strings.TrimSpace(*upd.SalonName)
		}
		if upd.Currency != nil {
			cur.Currency = strings.ToUpper(strings.TrimSpace(*upd.Currency))
		}
		if upd.TaxRate != nil {
			cur.TaxRate = *upd.TaxRate
		}
		if upd.FooterPhone != nil {
			cur.FooterPhone = strings.TrimSpace(*upd.FooterPhone)
		}
		if upd.OpeningTime != nil {
			cur.OpeningTime = *upd.OpeningTime
		}
		if upd.ClosingTime != nil {
			cur.ClosingTime = *upd.ClosingTime
		}
		if err := validateSettings(cur); err != nil {
			return err
		}
		out = cur
		return tx.SaveSettings(ctx, cur)
	})
	return out, err
}

func validateSettings(v models.Settings) error {
	if v.SalonName == "" || v.Currency == "" {
		return fmt.Errorf("%w: salon name and currency are required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(v.Currency) > maxCurrencyLen {
		return fmt.Errorf("%w: currency must be at most %d characters", ErrInvalidInput, maxCurrencyLen)
	}
	if v.TaxRate < 0 || v.TaxRate > 100 {
		return fmt.Errorf("%w: tax rate must be between 0 and 100", ErrInvalidInput)
	}
	for _, hm := range []string{v.OpeningTime, v.ClosingTime} {
		if hm == "" {
			continue
		}
		if _, err := time.Parse("15:04", hm); err != nil {
			return fmt.Errorf("%w: time %q must be HH:MM", ErrInvalidInput, hm)
		}
	}
	return nil
}
