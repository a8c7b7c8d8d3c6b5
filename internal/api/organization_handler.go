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

// OrganizationHandler serves the village government structure members.
type OrganizationHandler struct {
	db    *gorm.DB
	store *storage.Store
}

// NewOrganizationHandler constructs an OrganizationHandler.
func NewOrganizationHandler(db *gorm.DB, store *storage.Store) *OrganizationHandler {
	return &OrganizationHandler{db: db, store: store}
}

// List returns paginated members, searched over name and position.
func (h *OrganizationHandler) List(c *gin.Context) {
	page, limit, offset := pageParams(c, 50)
	search := c.Query("search")

	ctx := c.Request.Context()
	query := h.db.WithContext(ctx).Model(&database.OrganizationMember{})
	if search != "" {
		query = query.Where("name LIKE ? OR position LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		Internal(c, "Failed to get organization members")
		return
	}

	var rows []database.OrganizationMember
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		Internal(c, "Failed to get organization members")
		return
	}

	c.JSON(http.StatusOK, listResponse{Data: rows, Pagination: newPagination(page, limit, total)})
}

// Get returns one member by id.
func (h *OrganizationHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		BadRequest(c, "Invalid member id")
		return
	}

	var row database.OrganizationMember
	if err := h.db.WithContext(c.Request.Context()).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Member not found")
			return
		}
		Internal(c, "Failed to get member")
		return
	}

	Data(c, row)
}

type memberRequest struct {
	Name     string  `json:"name" binding:"required"`
	Position string  `json:"position" binding:"required"`
	Image    *string `json:"image"`
}

// Create inserts a member.
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Name and position are required")
		return
	}

	row := database.OrganizationMember{
		Name:     req.Name,
		Position: req.Position,
		Image:    req.Image,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&row).Error; err != nil {
		middleware.LoggerFromContext(c).Error("create member", slog.Any("error", err))
		Internal(c, "Failed to create member")
		return
	}

	Created(c, "Member created successfully", row.ID)
}

// Update replaces every column of an existing member.
func (h *OrganizationHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		BadRequest(c, "Invalid member id")
		return
	}

	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Name and position are required")
		return
	}

	ctx := c.Request.Context()
	var existing database.OrganizationMember
	if err := h.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Member not found")
			return
		}
		Internal(c, "Failed to update member")
		return
	}

	updates := map[string]any{
		"name":     req.Name,
		"position": req.Position,
		"image":    req.Image,
	}
	if err := h.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
		Internal(c, "Failed to update member")
		return
	}

	Message(c, "Member updated successfully")
}

// Delete removes the member's image file best-effort, then the row.
func (h *OrganizationHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		BadRequest(c, "Invalid member id")
		return
	}

	ctx := c.Request.Context()
	var existing database.OrganizationMember
	if err := h.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Member not found")
			return
		}
		Internal(c, "Failed to delete member")
		return
	}

	deleteStoredImage(c, h.store, existing.Image)

	if err := h.db.WithContext(ctx).Delete(&database.OrganizationMember{}, id).Error; err != nil {
		Internal(c, "Failed to delete member")
		return
	}

	Message(c, "Member deleted successfully")
}
