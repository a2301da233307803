package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salonpos/services"
	"salonpos/store"
)

const requestTimeout = 10 * time.Second

// PhotoSaver uploads a product photo and returns the main and preview URLs.
type PhotoSaver interface {
	SaveProductPhoto(ctx context.Context, productID, contentType string, data []byte) (string, string, error)
}

// Handlers carries the services every HTTP handler works with.
type Handlers struct {
	Auth      *services.AuthService
	Checkout  *services.CheckoutService
	Customers *services.CustomerService
	Inventory *services.InventoryService
	Settings  *services.SettingsService
	Marketing *services.MarketingService
	Reports   *services.ReportService
	Photos    PhotoSaver
	Log       *zap.Logger
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// respondError maps service error kinds to HTTP statuses.
func (h *Handlers) respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, services.ErrCheckoutFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction Failed"})
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrInvalidCart),
		errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrItemNotFound),
		errors.Is(err, services.ErrCustomerNotFound),
		errors.Is(err, services.ErrTierNotFound),
		errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrRedemptionExceeded):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Request timed out"})
	default:
		h.Log.Error("request failed", zap.String("route", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func queryInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}
