package utils

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"salonpos/models"
)

type LowStockSource interface {
	LowStock(ctx context.Context) ([]models.InventoryProduct, error)
}

// SettingsSource supplies the salon name at send time.
type SettingsSource interface {
	GetSettings(ctx context.Context) (models.Settings, error)
}

type EmailSender interface {
	SendEmail(to, subject, body string) error
}

// LowStockReport mails the list of products at or below their threshold.
type LowStockReport struct {
	source   LowStockSource
	settings SettingsSource
	mail     EmailSender
	to       string
	log      *zap.Logger
	now      func() time.Time
}

func NewLowStockReport(source LowStockSource, settings SettingsSource, mail EmailSender, to string, log *zap.Logger) *LowStockReport {
	return &LowStockReport{source: source, settings: settings, mail: mail, to: to, log: log, now: time.Now}
}

// Run is the scheduled job. Looking the products up also refreshes the low
// stock gauge, so it runs even when no recipient is configured.
func (r *LowStockReport) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	items, err := r.source.LowStock(ctx)
	if err != nil {
		r.log.Error("low stock report: lookup failed", zap.Error(err))
		return
	}
	r.log.Info("low stock report", zap.Int("items", len(items)))
	if len(items) == 0 || r.mail == nil || r.to == "" {
		return
	}

	salon := models.DefaultSettings().SalonName
	if settings, err := r.settings.GetSettings(ctx); err != nil {
		r.log.Warn("low stock report: settings unavailable", zap.Error(err))
	} else if settings.SalonName != "" {
		salon = settings.SalonName
	}

	subject := fmt.Sprintf("%s: %d products low on stock", salon, len(items))
	if err := r.mail.SendEmail(r.to, subject, FormatLowStockReport(items, r.now())); err != nil {
		r.log.Error("low stock report: email failed", zap.String("to", r.to), zap.Error(err))
	}
}

func FormatLowStockReport(items []models.InventoryProduct, at time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Low stock report %s\n\n", at.Format("2006-01-02 15:04"))
	for _, p := range items {
		fmt.Fprintf(&sb, "%-12s %-30s stock %d (threshold %d) supplier %s\n",
			p.SKU, p.Name, p.Stock, p.LowStockThreshold, p.Supplier)
	}
	return sb.String()
}

// StartScheduler runs job every day at hh:mm in loc.
func StartScheduler(loc *time.Location, at string, job func()) (*gocron.Scheduler, error) {
	s := gocron.NewScheduler(loc)
	if _, err := s.Every(1).Day().At(at).Do(job); err != nil {
		return nil, fmt.Errorf("schedule low stock report: %w", err)
	}
	s.StartAsync()
	return s, nil
}
