package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salonpos/loyalty"
	"salonpos/models"
)

func (h *Handlers) ListCustomers(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	customers, err := h.Customers.List(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *Handlers) CreateCustomer(c *gin.Context) {
	var input models.CreateCustomer
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	customer, err := h.Customers.Create(ctx, input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *Handlers) GetCustomer(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	customer, err := h.Customers.Get(ctx, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handlers) UpdateCustomer(c *gin.Context) {
	var input models.UpdateCustomer
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	customer, err := h.Customers.Update(ctx, c.Param("id"), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// GetCustomerLoyalty returns the balance, the tier details and the ledger.
func (h *Handlers) GetCustomerLoyalty(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	id := c.Param("id")
	customer, err := h.Customers.Get(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	ledger, err := h.Customers.Ledger(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	tiers, err := h.Customers.Tiers(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var tier *models.LoyaltyTier
	for _, t := range tiers {
		if t.ID == customer.Tier {
			tier = &t
			break
		}
	}
	var next *models.LoyaltyTier
	for _, t := range loyalty.SortTiers(tiers) {
		if t.MinSpend > customer.TotalSpend {
			next = &t
			break
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"customer":     customer,
		"tier":         tier,
		"nextTier":     next,
		"transactions": ledger,
	})
}

type adjustPointsInput struct {
	Points int    `json:"points" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

func (h *Handlers) AdjustPoints(c *gin.Context) {
	var input adjustPointsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	customer, entry, err := h.Customers.AdjustPoints(ctx, c.Param("id"), input.Points, input.Reason)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customer, "transaction": entry})
}
