package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salonpos/models"
)

func (h *Handlers) ListTiers(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	tiers, err := h.Customers.Tiers(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tiers)
}

func (h *Handlers) UpdateTier(c *gin.Context) {
	var input models.UpdateTier
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	tier, err := h.Customers.UpdateTier(ctx, c.Param("id"), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tier)
}

// ListLoyaltyTransactions returns the ledger, optionally for one customer.
func (h *Handlers) ListLoyaltyTransactions(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var (
		entries []models.LoyaltyTransaction
		err     error
	)
	if id := c.Query("customerId"); id != "" {
		entries, err = h.Customers.Ledger(ctx, id)
	} else {
		entries, err = h.Customers.Transactions(ctx)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	if entries == nil {
		entries = []models.LoyaltyTransaction{}
	}
	c.JSON(http.StatusOK, entries)
}
