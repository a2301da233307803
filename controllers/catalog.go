package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"salonpos/models"
	"salonpos/utils"
)

func (h *Handlers) ListServices(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	items, err := h.Inventory.ListServices(ctx, c.Query("active") == "true")
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handlers) CreateService(c *gin.Context) {
	var input models.ServiceItem
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	item, err := h.Inventory.CreateService(ctx, input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handlers) UpdateService(c *gin.Context) {
	var input models.UpdateService
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	item, err := h.Inventory.UpdateService(ctx, c.Param("id"), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handlers) ListInventory(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	products, err := h.Inventory.ListInventory(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handlers) CreateProduct(c *gin.Context) {
	var input models.InventoryProduct
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	product, err := h.Inventory.CreateProduct(ctx, input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

type stockInput struct {
	Delta int `json:"delta" binding:"required"`
}

// AdjustStock adds (or with a negative delta removes) units of a product.
func (h *Handlers) AdjustStock(c *gin.Context) {
	var input stockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	product, err := h.Inventory.Restock(ctx, c.Param("id"), input.Delta)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handlers) LowStock(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	products, err := h.Inventory.LowStock(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// UploadProductPhoto takes a multipart "photo" field (JPEG or PNG).
func (h *Handlers) UploadProductPhoto(c *gin.Context) {
	if h.Photos == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Photo storage is not configured"})
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo file is required"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open uploaded file"})
		return
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	id := c.Param("id")
	if _, err := h.Inventory.GetProduct(ctx, id); err != nil {
		h.respondError(c, err)
		return
	}

	mainURL, previewURL, err := h.Photos.SaveProductPhoto(ctx, id, file.Header.Get("Content-Type"), data)
	if err != nil {
		if errors.Is(err, utils.ErrPhotoTooLarge) || errors.Is(err, utils.ErrUnsupportedType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.respondError(c, err)
		return
	}

	product, err := h.Inventory.SetPhoto(ctx, id, mainURL, previewURL)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}
