package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"salonpos/api"
	"salonpos/config"
	"salonpos/controllers"
	"salonpos/loyalty"
	"salonpos/middleware"
	"salonpos/models"
	"salonpos/receipt"
	"salonpos/routes"
	"salonpos/services"
	"salonpos/store"
	"salonpos/store/memory"
	"salonpos/store/mongostore"
	"salonpos/utils"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Info("starting salonpos", zap.String("mode", gin.Mode()), zap.String("store", cfg.StoreDriver))

	a, err := newApp(cfg, logger)
	if err != nil {
		logger.Fatal("init app", zap.Error(err))
	}
	defer a.close()

	if err := a.router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

type app struct {
	router *gin.Engine
	close  func()
}

// newApp wires the store, services, scheduler and HTTP routes.
func newApp(cfg config.Config, logger *zap.Logger) (*app, error) {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	if len(cfg.CORSOrigins) == 0 {
		return nil, errors.New("CORS_ORIGINS is empty")
	}

	st, err := openStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	closeStore := func() { st.Close(context.Background()) }

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.InitMetrics(reg)

	jwt := utils.NewJWT(cfg.JWTSecret, 24*time.Hour)

	checkoutOpts := []services.CheckoutOption{
		services.WithRecorder(metrics),
		services.WithStrictRedemption(cfg.StrictRedemption),
		services.WithLocation(location),
	}
	if cfg.SMSGatewayURL != "" {
		checkoutOpts = append(checkoutOpts, services.WithNotifier(api.NewSMSClient(cfg.SMSGatewayURL, logger, metrics)))
	}

	var photos controllers.PhotoSaver
	if cfg.S3.Endpoint != "" {
		s3, err := utils.NewS3Client(cfg.S3.Endpoint, cfg.S3.AccessKey, cfg.S3.SecretKey, cfg.S3.UseSSL)
		if err != nil {
			closeStore()
			return nil, fmt.Errorf("init object storage: %w", err)
		}
		checkoutOpts = append(checkoutOpts, services.WithArchiver(receipt.NewArchiver(s3, cfg.S3.Bucket, "receipts")))
		photos = utils.NewPhotoUploader(s3, cfg.S3.Bucket, cfg.S3.PublicURL)
	}

	var gen services.TextGenerator
	if cfg.GeminiAPIKey != "" {
		gen = api.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	}

	auth := services.NewAuthService(st, jwt, logger)
	inventory := services.NewInventoryService(st, logger, metrics)
	h := &controllers.Handlers{
		Auth:      auth,
		Checkout:  services.NewCheckoutService(st, logger, checkoutOpts...),
		Customers: services.NewCustomerService(st, logger, metrics),
		Inventory: inventory,
		Settings:  services.NewSettingsService(st),
		Marketing: services.NewMarketingService(gen, st, logger),
		Reports:   services.NewReportService(st, location),
		Photos:    photos,
		Log:       logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = auth.EnsureUser(ctx, "Administrator", cfg.AdminEmail, cfg.AdminPassword, models.RoleAdmin)
	cancel()
	if err != nil {
		closeStore()
		return nil, fmt.Errorf("create admin user: %w", err)
	}

	var mailer utils.EmailSender
	if cfg.SMTP.Host != "" {
		mailer = utils.NewMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)
	}
	report := utils.NewLowStockReport(inventory, st, mailer, cfg.SMTP.ReportTo, logger)
	scheduler, err := utils.StartScheduler(location, cfg.LowStockReportAt, report.Run)
	if err != nil {
		closeStore()
		return nil, err
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(logger), gin.Recovery())
	r.Use(metrics.PrometheusMiddleware())
	r.GET("/metrics", middleware.MetricsHandler(reg, cfg.MetricsAllowedIPs))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	routes.InitializeRoutes(r, h, jwt)

	return &app{
		router: r,
		close: func() {
			scheduler.Stop()
			closeStore()
		},
	}, nil
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.Development() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// openStore returns the configured persistence adapter. The memory store
// starts with the demo catalogue; MongoDB gets its indexes and the default
// tier ladder on first run.
func openStore(cfg config.Config, logger *zap.Logger) (store.Store, error) {
	if cfg.StoreDriver != "mongo" {
		st := memory.New()
		st.Seed()
		return st, nil
	}

	client, err := config.ConnectDatabase(cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	st := mongostore.New(client, cfg.MongoDB)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := st.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	tiers, err := st.ListTiers(ctx)
	if err != nil {
		return nil, err
	}
	if len(tiers) == 0 {
		for _, t := range loyalty.DefaultTiers() {
			if err := st.SaveTier(ctx, t); err != nil {
				return nil, err
			}
		}
		logger.Info("seeded default loyalty tiers")
	}
	return st, nil
}
