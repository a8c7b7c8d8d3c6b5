package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"desadarit/internal/api/middleware"
	"desadarit/internal/database"
	"desadarit/internal/storage"
)

// ShopHandler serves the local shop product listing and CRUD. The listing is
// always pinned to active products, matching the public storefront.
type ShopHandler struct {
	db    *gorm.DB
	store *storage.Store
}

// NewShopHandler constructs a ShopHandler.
func NewShopHandler(db *gorm.DB, store *storage.Store) *ShopHandler {
	return &ShopHandler{db: db, store: store}
}

// List returns paginated active products, searched over name and description
// and optionally filtered by category.
func (h *ShopHandler) List(c *gin.Context) {
	page, limit, offset := pageParams(c, 12)
	search := c.Query("search")
	category := c.Query("category")

	ctx := c.Request.Context()
	query := h.db.WithContext(ctx).Model(&database.ShopProduct{}).Where("status = ?", "active")
	if search != "" {
		query = query.Where("(name LIKE ? OR description LIKE ?)", "%"+search+"%", "%"+search+"%")
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		Internal(c, "Failed to get shop products")
		return
	}

	var rows []database.ShopProduct
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		Internal(c, "Failed to get shop products")
		return
	}

	c.JSON(http.StatusOK, listResponse{Data: rows, Pagination: newPagination(page, limit, total)})
}

// Get returns one product by id.
func (h *ShopHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		BadRequest(c, "Invalid product id")
		return
	}

	var row database.ShopProduct
	if err := h.db.WithContext(c.Request.Context()).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Product not found")
			return
		}
		Internal(c, "Failed to get product")
		return
	}

	Data(c, row)
}

type shopProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Category    string          `json:"category"`
	Image       *string         `json:"image"`
	Phone       string          `json:"phone" binding:"required"`
	Status      string          `json:"status"`
}

// Create inserts a product. Status defaults to active.
func (h *ShopHandler) Create(c *gin.Context) {
	var req shopProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Name, description, price, and phone are required")
		return
	}

	status := req.Status
	if status == "" {
		status = "active"
	}

	row := database.ShopProduct{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Phone:       req.Phone,
		Status:      status,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&row).Error; err != nil {
		middleware.LoggerFromContext(c).Error("create product", slog.Any("error", err))
		Internal(c, "Failed to create product")
		return
	}

	Created(c, "Product created successfully", row.ID)
}

// Update replaces every column of an existing product.
func (h *ShopHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		BadRequest(c, "Invalid product id")
		return
	}

	var req shopProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Name, description, price, and phone are required")
		return
	}

	ctx := c.Request.Context()
	var existing database.ShopProduct
	if err := h.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Product not found")
			return
		}
		Internal(c, "Failed to update product")
		return
	}

	updates := map[string]any{
		"name":        req.Name,
		"description": req.Description,
		"price":       req.Price,
		"category":    req.Category,
		"image":       req.Image,
		"phone":       req.Phone,
		"status":      req.Status,
	}
	if req.Status == "" {
		updates["status"] = existing.Status
	}

	if err := h.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
		Internal(c, "Failed to update product")
		return
	}

	Message(c, "Product updated successfully")
}

// Delete removes the product's image file best-effort, then the row.
func (h *ShopHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		BadRequest(c, "Invalid product id")
		return
	}

	ctx := c.Request.Context()
	var existing database.ShopProduct
	if err := h.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Product not found")
			return
		}
		Internal(c, "Failed to delete product")
		return
	}

	deleteStoredImage(c, h.store, existing.Image)

	if err := h.db.WithContext(ctx).Delete(&database.ShopProduct{}, id).Error; err != nil {
		Internal(c, "Failed to delete product")
		return
	}

	Message(c, "Product deleted successfully")
}
