package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"desadarit/internal/api/middleware"
	"desadarit/internal/database"
)

// complaintStatuses are the triage states a complaint can move through.
var complaintStatuses = map[string]bool{
	"pending":     true,
	"in_progress": true,
	"resolved":    true,
	"rejected":    true,
}

// ComplaintHandler handles citizen complaints: public submission, admin
// triage.
type ComplaintHandler struct {
	db *gorm.DB
}

// NewComplaintHandler constructs a ComplaintHandler.
func NewComplaintHandler(db *gorm.DB) *ComplaintHandler {
	return &ComplaintHandler{db: db}
}

type complaintRequest struct {
	Name        string `json:"name" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// Create accepts a public complaint submission. New complaints always start
// pending.
func (h *ComplaintHandler) Create(c *gin.Context) {
	var req complaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Name, phone, category, and description are required")
		return
	}

	row := database.Complaint{
		Name:        req.Name,
		Phone:       req.Phone,
		Category:    req.Category,
		Description: req.Description,
		Status:      "pending",
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&row).Error; err != nil {
		middleware.LoggerFromContext(c).Error("create complaint", slog.Any("error", err))
		Internal(c, "Failed to submit complaint")
		return
	}

	Created(c, "Complaint submitted successfully", row.ID)
}

// List returns paginated complaints for admin triage, searched over name and
// description and optionally filtered by status and category.
func (h *ComplaintHandler) List(c *gin.Context) {
	page, limit, offset := pageParams(c, 10)
	search := c.Query("search")
	status := c.Query("status")
	category := c.Query("category")

	ctx := c.Request.Context()
	query := h.db.WithContext(ctx).Model(&database.Complaint{})
	if search != "" {
		query = query.Where("(name LIKE ? OR description LIKE ?)", "%"+search+"%", "%"+search+"%")
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		Internal(c, "Failed to get complaints")
		return
	}

	var rows []database.Complaint
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		Internal(c, "Failed to get complaints")
		return
	}

	c.JSON(http.StatusOK, listResponse{Data: rows, Pagination: newPagination(page, limit, total)})
}

// Get returns one complaint by id.
func (h *ComplaintHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		BadRequest(c, "Invalid complaint id")
		return
	}

	var row database.Complaint
	if err := h.db.WithContext(c.Request.Context()).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Complaint not found")
			return
		}
		Internal(c, "Failed to get complaint")
		return
	}

	Data(c, row)
}

type complaintTriageRequest struct {
	Status        string  `json:"status" binding:"required"`
	AdminResponse *string `json:"admin_response"`
}

// Update moves a complaint through triage: status plus an optional admin
// response. The citizen-submitted fields are immutable.
func (h *ComplaintHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		BadRequest(c, "Invalid complaint id")
		return
	}

	var req complaintTriageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Status is required")
		return
	}
	if !complaintStatuses[req.Status] {
		BadRequest(c, "Invalid status")
		return
	}

	ctx := c.Request.Context()
	var existing database.Complaint
	if err := h.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Complaint not found")
			return
		}
		Internal(c, "Failed to update complaint")
		return
	}

	updates := map[string]any{
		"status":         req.Status,
		"admin_response": req.AdminResponse,
	}
	if err := h.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
		Internal(c, "Failed to update complaint")
		return
	}

	Message(c, "Complaint updated successfully")
}

// Delete removes a complaint.
func (h *ComplaintHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		BadRequest(c, "Invalid complaint id")
		return
	}

	ctx := c.Request.Context()
	var existing database.Complaint
	if err := h.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Complaint not found")
			return
		}
		Internal(c, "Failed to delete complaint")
		return
	}

	if err := h.db.WithContext(ctx).Delete(&database.Complaint{}, id).Error; err != nil {
		Internal(c, "Failed to delete complaint")
		return
	}

	Message(c, "Complaint deleted successfully")
}
