package api

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"desadarit/internal/api/middleware"
	"desadarit/internal/database"
)

// ContactHandler serves the contact settings singleton shown in the site
// footer and contact page.
type ContactHandler struct {
	db *gorm.DB
}

// NewContactHandler constructs a ContactHandler.
func NewContactHandler(db *gorm.DB) *ContactHandler {
	return &ContactHandler{db: db}
}

func defaultContactSettings() database.ContactSettings {
	return database.ContactSettings{
		Address: "Desa Darit, Kec. Menyuke\nKab. Landak, Kalimantan Barat\nIndonesia",
		Phone:   "+62 123 4567 8900",
		Email:   "info@desadarit.id",
	}
}

// Get returns the contact settings row, or the built-in defaults when no row
// exists yet.
func (h *ContactHandler) Get(c *gin.Context) {
	var row database.ContactSettings
	err := h.db.WithContext(c.Request.Context()).
		Where("singleton_key = ?", database.SingletonKeyValue).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			Data(c, defaultContactSettings())
			return
		}
		Internal(c, "Failed to get contact settings")
		return
	}

	Data(c, row)
}

type contactRequest struct {
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	FacebookURL  string `json:"facebook_url"`
	InstagramURL string `json:"instagram_url"`
	YoutubeURL   string `json:"youtube_url"`
}

// Update upserts the singleton in a single atomic statement keyed on
// singleton_key.
func (h *ContactHandler) Update(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	row := database.ContactSettings{
		SingletonKey: database.SingletonKeyValue,
		Address:      req.Address,
		Phone:        req.Phone,
		Email:        req.Email,
		FacebookURL:  req.FacebookURL,
		InstagramURL: req.InstagramURL,
		YoutubeURL:   req.YoutubeURL,
	}

	err := h.db.WithContext(c.Request.Context()).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "singleton_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"address", "phone", "email",
			"facebook_url", "instagram_url", "youtube_url",
			"updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		middleware.LoggerFromContext(c).Error("upsert contact settings", slog.Any("error", err))
		Internal(c, "Failed to update contact settings")
		return
	}

	Message(c, "Contact settings updated successfully")
}
