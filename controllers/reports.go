package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Dashboard summarises revenue over the last ?days= days (default 30).
func (h *Handlers) Dashboard(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	d, err := h.Reports.Dashboard(ctx, time.Now(), queryInt(c, "days", 30))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handlers) StaffSales(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	sales, err := h.Reports.StaffSales(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sales)
}
