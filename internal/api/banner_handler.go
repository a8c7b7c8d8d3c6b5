package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"desadarit/internal/api/middleware"
	"desadarit/internal/database"
	"desadarit/internal/storage"
)

// BannerHandler serves the homepage carousel slides.
type BannerHandler struct {
	db    *gorm.DB
	store *storage.Store
}

// NewBannerHandler constructs a BannerHandler.
func NewBannerHandler(db *gorm.DB, store *storage.Store) *BannerHandler {
	return &BannerHandler{db: db, store: store}
}

// List returns paginated banners ordered for display: sort_order first, newest
// first within the same slot.
func (h *BannerHandler) List(c *gin.Context) {
	page, limit, offset := pageParams(c, 50)
	search := c.Query("search")
	status := c.Query("status")

	ctx := c.Request.Context()
	query := h.db.WithContext(ctx).Model(&database.Banner{})
	if search != "" {
		query = query.Where("title LIKE ? OR description LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		Internal(c, "Failed to get banners")
		return
	}

	var rows []database.Banner
	if err := query.Order("sort_order ASC, created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		Internal(c, "Failed to get banners")
		return
	}

	c.JSON(http.StatusOK, listResponse{Data: rows, Pagination: newPagination(page, limit, total)})
}

// Get returns one banner by id.
func (h *BannerHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		BadRequest(c, "Invalid banner id")
		return
	}

	var row database.Banner
	if err := h.db.WithContext(c.Request.Context()).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Banner not found")
			return
		}
		Internal(c, "Failed to get banner")
		return
	}

	Data(c, row)
}

type bannerRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Link        *string `json:"link"`
	Image       *string `json:"image"`
	Status      string  `json:"status"`
	SortOrder   int     `json:"sort_order"`
}

// Create inserts a banner. Status defaults to active.
func (h *BannerHandler) Create(c *gin.Context) {
	var req bannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Title is required")
		return
	}

	status := req.Status
	if status == "" {
		status = "active"
	}

	row := database.Banner{
		Title:       req.Title,
		Description: req.Description,
		Link:        req.Link,
		Image:       req.Image,
		Status:      status,
		SortOrder:   req.SortOrder,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&row).Error; err != nil {
		middleware.LoggerFromContext(c).Error("create banner", slog.Any("error", err))
		Internal(c, "Failed to create banner")
		return
	}

	Created(c, "Banner created successfully", row.ID)
}

// Update replaces every column of an existing banner.
func (h *BannerHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		BadRequest(c, "Invalid banner id")
		return
	}

	var req bannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Title is required")
		return
	}

	ctx := c.Request.Context()
	var existing database.Banner
	if err := h.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Banner not found")
			return
		}
		Internal(c, "Failed to update banner")
		return
	}

	updates := map[string]any{
		"title":       req.Title,
		"description": req.Description,
		"link":        req.Link,
		"image":       req.Image,
		"status":      req.Status,
		"sort_order":  req.SortOrder,
	}
	if req.Status == "" {
		updates["status"] = existing.Status
	}

	if err := h.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
		Internal(c, "Failed to update banner")
		return
	}

	Message(c, "Banner updated successfully")
}

// Delete removes the banner's image file best-effort, then the row.
func (h *BannerHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		BadRequest(c, "Invalid banner id")
		return
	}

	ctx := c.Request.Context()
	var existing database.Banner
	if err := h.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Banner not found")
			return
		}
		Internal(c, "Failed to delete banner")
		return
	}

	deleteStoredImage(c, h.store, existing.Image)

	if err := h.db.WithContext(ctx).Delete(&database.Banner{}, id).Error; err != nil {
		Internal(c, "Failed to delete banner")
		return
	}

	Message(c, "Banner deleted successfully")
}
