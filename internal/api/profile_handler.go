package api

import (
	"errors"
	"log/slog"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"desadarit/internal/api/middleware"
	"desadarit/internal/database"
	"desadarit/internal/storage"
)

// ProfileHandler serves the village profile singleton: the public about page
// plus its four image slots.
type ProfileHandler struct {
	db      *gorm.DB
	store   *storage.Store
	uploads *UploadHandler
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(db *gorm.DB, store *storage.Store, uploads *UploadHandler) *ProfileHandler {
	return &ProfileHandler{db: db, store: store, uploads: uploads}
}

// defaultProfile is what the public site sees before an admin has ever saved
// the profile.
func defaultProfile() database.VillageProfile {
	history := (*string)(nil)
	return database.VillageProfile{
		Description: "Desa Darit adalah sebuah desa yang terletak di Kecamatan Menyuke, Kabupaten Landak, Kalimantan Barat.",
		Vision:      "Terwujudnya Desa Darit yang Maju, Mandiri, dan Sejahtera",
		Mission:     "Meningkatkan kesejahteraan masyarakat melalui pembangunan yang berkelanjutan.",
		History:     history,
		Area:        "25.5",
		Population:  1234,
		Families:    456,
		DusunCount:  5,
		NorthBorder: "Desa Sekayam",
		EastBorder:  "Desa Menyuke",
		SouthBorder: "Desa Sungai Raya",
		WestBorder:  "Desa Pahauman",
	}
}

// Get returns the profile row, or the built-in defaults when no row exists
// yet.
func (h *ProfileHandler) Get(c *gin.Context) {
	var row database.VillageProfile
	err := h.db.WithContext(c.Request.Context()).
		Where("singleton_key = ?", database.SingletonKeyValue).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			Data(c, defaultProfile())
			return
		}
		Internal(c, "Failed to get village profile")
		return
	}

	Data(c, row)
}

type profileRequest struct {
	Description string  `json:"description"`
	Vision      string  `json:"vision"`
	Mission     string  `json:"mission"`
	History     *string `json:"history"`
	Area        string  `json:"area"`
	Population  int     `json:"population"`
	Families    int     `json:"families"`
	DusunCount  int     `json:"dusun_count"`
	NorthBorder string  `json:"north_border"`
	EastBorder  string  `json:"east_border"`
	SouthBorder string  `json:"south_border"`
	WestBorder  string  `json:"west_border"`
}

// Update upserts the singleton in a single atomic statement keyed on
// singleton_key, so concurrent first writes cannot race into duplicate rows.
// Image slots are only written through the upload endpoint.
func (h *ProfileHandler) Update(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	row := database.VillageProfile{
		SingletonKey: database.SingletonKeyValue,
		Description:  req.Description,
		Vision:       req.Vision,
		Mission:      req.Mission,
		History:      req.History,
		Area:         req.Area,
		Population:   req.Population,
		Families:     req.Families,
		DusunCount:   req.DusunCount,
		NorthBorder:  req.NorthBorder,
		EastBorder:   req.EastBorder,
		SouthBorder:  req.SouthBorder,
		WestBorder:   req.WestBorder,
	}

	err := h.db.WithContext(c.Request.Context()).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "singleton_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"description", "vision", "mission", "history", "area",
			"population", "families", "dusun_count",
			"north_border", "east_border", "south_border", "west_border",
			"updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		middleware.LoggerFromContext(c).Error("upsert profile", slog.Any("error", err))
		Internal(c, "Failed to update village profile")
		return
	}

	Message(c, "Village profile updated successfully")
}

// profileImageSlots whitelists the column a profile upload may target.
var profileImageSlots = map[string]bool{
	"main_image":         true,
	"structure_image":    true,
	"map_image":          true,
	"head_village_image": true,
}

// Upload stores a new image into one of the profile's image slots. The
// previous file in that slot is removed first, best-effort.
func (h *ProfileHandler) Upload(c *gin.Context) {
	slot := c.PostForm("type")
	if !profileImageSlots[slot] {
		BadRequest(c, "Invalid image type")
		return
	}

	filename, ok := h.uploads.saveUpload(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	// Make sure the singleton exists before updating a slot on it.
	seed := database.VillageProfile{SingletonKey: database.SingletonKeyValue}
	if err := h.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "singleton_key"}},
		DoNothing: true,
	}).Create(&seed).Error; err != nil {
		Internal(c, "Failed to upload image")
		return
	}

	var row database.VillageProfile
	if err := h.db.WithContext(ctx).
		Where("singleton_key = ?", database.SingletonKeyValue).
		First(&row).Error; err != nil {
		Internal(c, "Failed to upload image")
		return
	}

	var current *string
	switch slot {
	case "main_image":
		current = row.MainImage
	case "structure_image":
		current = row.StructureImage
	case "map_image":
		current = row.MapImage
	case "head_village_image":
		current = row.HeadVillageImage
	}
	deleteStoredImage(c, h.store, current)

	if err := h.db.WithContext(ctx).Model(&row).Update(slot, filename).Error; err != nil {
		Internal(c, "Failed to upload image")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Image uploaded successfully",
		"filename": filename,
		"url":      path.Join(h.uploads.BaseURL, filename),
	})
}
