package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salonpos/middleware"
	"salonpos/services"
)

const defaultBillLimit = 50

func (h *Handlers) Quote(c *gin.Context) {
	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	quote, lines, err := h.Checkout.Quote(ctx, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": quote, "items": lines})
}

// ProcessTransaction completes a sale. Clients retrying after a timeout send
// the same Idempotency-Key header to get the original bill back.
func (h *Handlers) ProcessTransaction(c *gin.Context) {
	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.IdempotencyKey = c.GetHeader("Idempotency-Key")
	req.CashierID = c.GetString(middleware.ContextUserID)

	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.Checkout.ProcessTransaction(ctx, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, res)
}

func (h *Handlers) ListBills(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	bills, err := h.Checkout.Bills(ctx, queryInt(c, "limit", defaultBillLimit))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bills)
}

func (h *Handlers) GetBill(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	bill, err := h.Checkout.Bill(ctx, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

// GetBillReceipt returns the printable receipt of a bill.
func (h *Handlers) GetBillReceipt(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	bill, err := h.Checkout.Bill(ctx, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	text, err := h.Checkout.Receipt(ctx, bill)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.String(http.StatusOK, text)
}

// GetReceiptByToken is the public receipt link sent to customers.
func (h *Handlers) GetReceiptByToken(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	bill, err := h.Checkout.BillByToken(ctx, c.Param("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Receipt not found"})
		return
	}
	text, err := h.Checkout.Receipt(ctx, bill)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.String(http.StatusOK, text)
}
