package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"desadarit/internal/database"
)

// DashboardHandler serves the admin landing page counters.
type DashboardHandler struct {
	db *gorm.DB
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

type dashboardStats struct {
	NewsCount     int64 `json:"news_count"`
	ProductsCount int64 `json:"products_count"`
	UsersCount    int64 `json:"users_count"`
	Population    int   `json:"population"`
	Families      int   `json:"families"`
}

// Stats returns content counts plus the headline population figures from the
// infographics singleton.
func (h *DashboardHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()
	var stats dashboardStats

	if err := h.db.WithContext(ctx).Model(&database.News{}).Count(&stats.NewsCount).Error; err != nil {
		Internal(c, "Failed to get dashboard stats")
		return
	}
	if err := h.db.WithContext(ctx).Model(&database.ShopProduct{}).Where("status = ?", "active").Count(&stats.ProductsCount).Error; err != nil {
		Internal(c, "Failed to get dashboard stats")
		return
	}
	if err := h.db.WithContext(ctx).Model(&database.User{}).Count(&stats.UsersCount).Error; err != nil {
		Internal(c, "Failed to get dashboard stats")
		return
	}

	var info database.Infographics
	err := h.db.WithContext(ctx).
		Where("singleton_key = ?", database.SingletonKeyValue).
		First(&info).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		Internal(c, "Failed to get dashboard stats")
		return
	}
	stats.Population = info.TotalPopulation
	stats.Families = info.TotalFamilies

	Data(c, stats)
}
