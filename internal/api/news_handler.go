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

// NewsHandler serves the public news feed and the admin article CRUD.
type NewsHandler struct {
	db    *gorm.DB
	store *storage.Store
}

// NewNewsHandler constructs a NewsHandler.
func NewNewsHandler(db *gorm.DB, store *storage.Store) *NewsHandler {
	return &NewsHandler{db: db, store: store}
}

// List returns paginated articles, searched over title and content.
func (h *NewsHandler) List(c *gin.Context) {
	page, limit, offset := pageParams(c, 10)
	search := c.Query("search")
	status := c.Query("status")

	ctx := c.Request.Context()
	query := h.db.WithContext(ctx).Model(&database.News{})
	if search != "" {
		query = query.Where("title LIKE ? OR content LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		Internal(c, "Failed to get news")
		return
	}

	var rows []database.News
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		Internal(c, "Failed to get news")
		return
	}

	c.JSON(http.StatusOK, listResponse{Data: rows, Pagination: newPagination(page, limit, total)})
}

// Get returns one article by id.
func (h *NewsHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		BadRequest(c, "Invalid news id")
		return
	}

	var row database.News
	if err := h.db.WithContext(c.Request.Context()).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "News not found")
			return
		}
		Internal(c, "Failed to get news")
		return
	}

	Data(c, row)
}

type newsRequest struct {
	Title   string  `json:"title" binding:"required"`
	Content string  `json:"content" binding:"required"`
	Excerpt string  `json:"excerpt"`
	Image   *string `json:"image"`
	Status  string  `json:"status"`
}

// Create inserts an article authored by the authenticated user. Status
// defaults to published.
func (h *NewsHandler) Create(c *gin.Context) {
	var req newsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Title and content are required")
		return
	}

	claims, ok := middleware.IdentityFromContext(c)
	if !ok {
		Unauthorized(c, "Access token is required")
		return
	}

	status := req.Status
	if status == "" {
		status = "published"
	}

	row := database.News{
		Title:    req.Title,
		Content:  req.Content,
		Excerpt:  req.Excerpt,
		Image:    req.Image,
		Status:   status,
		AuthorID: claims.UserID,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&row).Error; err != nil {
		middleware.LoggerFromContext(c).Error("create news", slog.Any("error", err))
		Internal(c, "Failed to create news")
		return
	}

	Created(c, "News created successfully", row.ID)
}

// Update replaces every column of an existing article. Last writer wins.
func (h *NewsHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		BadRequest(c, "Invalid news id")
		return
	}

	var req newsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Title and content are required")
		return
	}

	ctx := c.Request.Context()
	var existing database.News
	if err := h.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "News not found")
			return
		}
		Internal(c, "Failed to update news")
		return
	}

	updates := map[string]any{
		"title":   req.Title,
		"content": req.Content,
		"excerpt": req.Excerpt,
		"image":   req.Image,
		"status":  req.Status,
	}
	if req.Status == "" {
		updates["status"] = existing.Status
	}

	if err := h.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
		Internal(c, "Failed to update news")
		return
	}

	Message(c, "News updated successfully")
}

// Delete removes the article's image file best-effort, then the row
// unconditionally.
func (h *NewsHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		BadRequest(c, "Invalid news id")
		return
	}

	ctx := c.Request.Context()
	var existing database.News
	if err := h.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "News not found")
			return
		}
		Internal(c, "Failed to delete news")
		return
	}

	deleteStoredImage(c, h.store, existing.Image)

	if err := h.db.WithContext(ctx).Delete(&database.News{}, id).Error; err != nil {
		Internal(c, "Failed to delete news")
		return
	}

	Message(c, "News deleted successfully")
}
