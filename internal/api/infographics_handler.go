package api

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"desadarit/internal/api/middleware"
	"desadarit/internal/database"
)

// InfographicsHandler serves the demographic infographics singleton.
type InfographicsHandler struct {
	db *gorm.DB
}

// NewInfographicsHandler constructs an InfographicsHandler.
func NewInfographicsHandler(db *gorm.DB) *InfographicsHandler {
	return &InfographicsHandler{db: db}
}

// defaultInfographics is what the public site sees before an admin has ever
// saved the numbers.
func defaultInfographics() database.Infographics {
	return database.Infographics{
		TotalPopulation:  1234,
		TotalFamilies:    456,
		MalePopulation:   628,
		FemalePopulation: 606,
		AgeGroups:        datatypes.JSON(`{"0-14":234,"15-34":456,"35-54":345,"55+":199}`),
		EducationLevels:  datatypes.JSON(`{"SD":234,"SMP":345,"SMA":456,"Sarjana":199}`),
		Occupations:      datatypes.JSON(`{"Petani":456,"Pedagang":123,"PNS":78,"Lainnya":577}`),
		MaritalStatus:    datatypes.JSON(`{"Belum Kawin":234,"Kawin":789,"Cerai":34,"Janda/Duda":177}`),
		Religions:        datatypes.JSON(`{"Islam":987,"Kristen":123,"Katolik":78,"Buddha":34,"Hindu":12}`),
	}
}

// Get returns the infographics row, or the built-in defaults when no row
// exists yet.
func (h *InfographicsHandler) Get(c *gin.Context) {
	var row database.Infographics
	err := h.db.WithContext(c.Request.Context()).
		Where("singleton_key = ?", database.SingletonKeyValue).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			Data(c, defaultInfographics())
			return
		}
		Internal(c, "Failed to get infographics data")
		return
	}

	Data(c, row)
}

type infographicsRequest struct {
	TotalPopulation  int            `json:"total_population"`
	TotalFamilies    int            `json:"total_families"`
	MalePopulation   int            `json:"male_population"`
	FemalePopulation int            `json:"female_population"`
	AgeGroups        datatypes.JSON `json:"age_groups"`
	EducationLevels  datatypes.JSON `json:"education_levels"`
	Occupations      datatypes.JSON `json:"occupations"`
	MaritalStatus    datatypes.JSON `json:"marital_status"`
	Religions        datatypes.JSON `json:"religions"`
}

// Update upserts the singleton in a single atomic statement keyed on
// singleton_key. The five breakdown maps are stored as JSON verbatim.
func (h *InfographicsHandler) Update(c *gin.Context) {
	var req infographicsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	row := database.Infographics{
		SingletonKey:     database.SingletonKeyValue,
		TotalPopulation:  req.TotalPopulation,
		TotalFamilies:    req.TotalFamilies,
		MalePopulation:   req.MalePopulation,
		FemalePopulation: req.FemalePopulation,
		AgeGroups:        req.AgeGroups,
		EducationLevels:  req.EducationLevels,
		Occupations:      req.Occupations,
		MaritalStatus:    req.MaritalStatus,
		Religions:        req.Religions,
	}

	err := h.db.WithContext(c.Request.Context()).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "singleton_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_population", "total_families", "male_population", "female_population",
			"age_groups", "education_levels", "occupations", "marital_status", "religions",
			"updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		middleware.LoggerFromContext(c).Error("upsert infographics", slog.Any("error", err))
		Internal(c, "Failed to update infographics data")
		return
	}

	Message(c, "Infographics data updated successfully")
}
