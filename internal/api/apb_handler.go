package api

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"desadarit/internal/api/middleware"
	"desadarit/internal/database"
)

// APBHandler serves the village budget (APB Desa): fiscal years, income and
// expenditure categories, line items, and the derived summaries.
//
// The cached total columns on apb_years are recomputed inside the same
// transaction as every line item write, so readers never observe a year whose
// totals disagree with its items. PUT on a year can still override the totals
// by hand.
type APBHandler struct {
	db *gorm.DB
}

// NewAPBHandler constructs an APBHandler.
func NewAPBHandler(db *gorm.DB) *APBHandler {
	return &APBHandler{db: db}
}

// recomputeYearTotals refreshes the cached totals of one year from its line
// items. Must run inside the transaction that changed the items.
func recomputeYearTotals(tx *gorm.DB, yearID uint) error {
	return tx.Model(&database.APBYear{}).Where("id = ?", yearID).Updates(map[string]any{
		"total_income":      gorm.Expr("(SELECT COALESCE(SUM(budgeted_amount), 0) FROM apb_income WHERE year_id = ?)", yearID),
		"total_expenditure": gorm.Expr("(SELECT COALESCE(SUM(budgeted_amount), 0) FROM apb_expenditure WHERE year_id = ?)", yearID),
	}).Error
}

// ----- Years -----

// ListYears returns every fiscal year, newest first.
func (h *APBHandler) ListYears(c *gin.Context) {
	var rows []database.APBYear
	if err := h.db.WithContext(c.Request.Context()).Order("year DESC").Find(&rows).Error; err != nil {
		Internal(c, "Failed to get APB years")
		return
	}
	Data(c, rows)
}

// GetYear returns one fiscal year by id.
func (h *APBHandler) GetYear(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		BadRequest(c, "Invalid year id")
		return
	}

	var row database.APBYear
	if err := h.db.WithContext(c.Request.Context()).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "APB year not found")
			return
		}
		Internal(c, "Failed to get APB year")
		return
	}
	Data(c, row)
}

type apbYearCreateRequest struct {
	Year   int    `json:"year"`
	Status string `json:"status"`
}

// CreateYear opens a new fiscal year. Status defaults to draft; the year
// number is unique.
func (h *APBHandler) CreateYear(c *gin.Context) {
	var req apbYearCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Year == 0 {
		BadRequest(c, "Year is required")
		return
	}

	status := req.Status
	if status == "" {
		status = "draft"
	}

	ctx := c.Request.Context()
	var existing int64
	if err := h.db.WithContext(ctx).Model(&database.APBYear{}).Where("year = ?", req.Year).Count(&existing).Error; err != nil {
		Internal(c, "Failed to create APB year")
		return
	}
	if existing > 0 {
		Conflict(c, "APB year already exists")
		return
	}

	row := database.APBYear{Year: req.Year, Status: status}
	if err := h.db.WithContext(ctx).Create(&row).Error; err != nil {
		middleware.LoggerFromContext(c).Error("create apb year", slog.Any("error", err))
		Internal(c, "Failed to create APB year")
		return
	}

	Created(c, "APB year created successfully", row.ID)
}

type apbYearUpdateRequest struct {
	Year             int             `json:"year"`
	Status           string          `json:"status"`
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenditure decimal.Decimal `json:"total_expenditure"`
}

// UpdateYear replaces the year row, including a manual override of the cached
// totals. The next line item write recomputes them again.
func (h *APBHandler) UpdateYear(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		BadRequest(c, "Invalid year id")
		return
	}

	var req apbYearUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Year == 0 {
		BadRequest(c, "Year is required")
		return
	}

	ctx := c.Request.Context()
	var existing database.APBYear
	if err := h.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "APB year not found")
			return
		}
		Internal(c, "Failed to update APB year")
		return
	}

	updates := map[string]any{
		"year":              req.Year,
		"status":            req.Status,
		"total_income":      req.TotalIncome,
		"total_expenditure": req.TotalExpenditure,
	}
	if req.Status == "" {
		updates["status"] = existing.Status
	}

	if err := h.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
		Internal(c, "Failed to update APB year")
		return
	}

	Message(c, "APB year updated successfully")
}

// DeleteYear removes a year and all of its line items in one transaction.
func (h *APBHandler) DeleteYear(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		BadRequest(c, "Invalid year id")
		return
	}

	ctx := c.Request.Context()
	var existing database.APBYear
	if err := h.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "APB year not found")
			return
		}
		Internal(c, "Failed to delete APB year")
		return
	}

	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("year_id = ?", id).Delete(&database.APBIncome{}).Error; err != nil {
			return err
		}
		if err := tx.Where("year_id = ?", id).Delete(&database.APBExpenditure{}).Error; err != nil {
			return err
		}
		return tx.Delete(&database.APBYear{}, id).Error
	})
	if err != nil {
		middleware.LoggerFromContext(c).Error("delete apb year", slog.Any("error", err))
		Internal(c, "Failed to delete APB year")
		return
	}

	Message(c, "APB year deleted successfully")
}

// ----- Categories -----

type apbCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// ListIncomeCategories returns every income category ordered by name.
func (h *APBHandler) ListIncomeCategories(c *gin.Context) {
	var rows []database.APBIncomeCategory
	if err := h.db.WithContext(c.Request.Context()).Order("name").Find(&rows).Error; err != nil {
		Internal(c, "Failed to get income categories")
		return
	}
	Data(c, rows)
}

// CreateIncomeCategory inserts an income category.
func (h *APBHandler) CreateIncomeCategory(c *gin.Context) {
	var req apbCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Name is required")
		return
	}

	row := database.APBIncomeCategory{Name: req.Name, Description: req.Description}
	if err := h.db.WithContext(c.Request.Context()).Create(&row).Error; err != nil {
		Internal(c, "Failed to create income category")
		return
	}
	Created(c, "Income category created successfully", row.ID)
}

// UpdateIncomeCategory replaces an income category.
func (h *APBHandler) UpdateIncomeCategory(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		BadRequest(c, "Invalid category id")
		return
	}

	var req apbCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Name is required")
		return
	}

	ctx := c.Request.Context()
	var existing database.APBIncomeCategory
	if err := h.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Income category not found")
			return
		}
		Internal(c, "Failed to update income category")
		return
	}

	updates := map[string]any{"name": req.Name, "description": req.Description}
	if err := h.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
		Internal(c, "Failed to update income category")
		return
	}
	Message(c, "Income category updated successfully")
}

// DeleteIncomeCategory removes an income category. Deletion is refused while
// any line item still references it.
func (h *APBHandler) DeleteIncomeCategory(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		BadRequest(c, "Invalid category id")
		return
	}

	ctx := c.Request.Context()
	var existing database.APBIncomeCategory
	if err := h.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Income category not found")
			return
		}
		Internal(c, "Failed to delete income category")
		return
	}

	var inUse int64
	if err := h.db.WithContext(ctx).Model(&database.APBIncome{}).Where("category_id = ?", id).Count(&inUse).Error; err != nil {
		Internal(c, "Failed to delete income category")
		return
	}
	if inUse > 0 {
		Conflict(c, "Category is still referenced by income data")
		return
	}

	if err := h.db.WithContext(ctx).Delete(&database.APBIncomeCategory{}, id).Error; err != nil {
		Internal(c, "Failed to delete income category")
		return
	}
	Message(c, "Income category deleted successfully")
}

// ListExpenditureCategories returns every expenditure category ordered by
// name.
func (h *APBHandler) ListExpenditureCategories(c *gin.Context) {
	var rows []database.APBExpenditureCategory
	if err := h.db.WithContext(c.Request.Context()).Order("name").Find(&rows).Error; err != nil {
		Internal(c, "Failed to get expenditure categories")
		return
	}
	Data(c, rows)
}

// CreateExpenditureCategory inserts an expenditure category.
func (h *APBHandler) CreateExpenditureCategory(c *gin.Context) {
	var req apbCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Name is required")
		return
	}

	row := database.APBExpenditureCategory{Name: req.Name, Description: req.Description}
	if err := h.db.WithContext(c.Request.Context()).Create(&row).Error; err != nil {
		Internal(c, "Failed to create expenditure category")
		return
	}
	Created(c, "Expenditure category created successfully", row.ID)
}

// UpdateExpenditureCategory replaces an expenditure category.
func (h *APBHandler) UpdateExpenditureCategory(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		BadRequest(c, "Invalid category id")
		return
	}

	var req apbCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Name is required")
		return
	}

	ctx := c.Request.Context()
	var existing database.APBExpenditureCategory
	if err := h.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Expenditure category not found")
			return
		}
		Internal(c, "Failed to update expenditure category")
		return
	}

	updates := map[string]any{"name": req.Name, "description": req.Description}
	if err := h.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
		Internal(c, "Failed to update expenditure category")
		return
	}
	Message(c, "Expenditure category updated successfully")
}

// DeleteExpenditureCategory removes an expenditure category. Deletion is
// refused while any line item still references it.
func (h *APBHandler) DeleteExpenditureCategory(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		BadRequest(c, "Invalid category id")
		return
	}

	ctx := c.Request.Context()
	var existing database.APBExpenditureCategory
	if err := h.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Expenditure category not found")
			return
		}
		Internal(c, "Failed to delete expenditure category")
		return
	}

	var inUse int64
	if err := h.db.WithContext(ctx).Model(&database.APBExpenditure{}).Where("category_id = ?", id).Count(&inUse).Error; err != nil {
		Internal(c, "Failed to delete expenditure category")
		return
	}
	if inUse > 0 {
		Conflict(c, "Category is still referenced by expenditure data")
		return
	}

	if err := h.db.WithContext(ctx).Delete(&database.APBExpenditureCategory{}, id).Error; err != nil {
		Internal(c, "Failed to delete expenditure category")
		return
	}
	Message(c, "Expenditure category deleted successfully")
}

// ----- Income line items -----

// apbIncomeRow is an income item joined with its category name and year
// number for list and detail views.
type apbIncomeRow struct {
	ID             uint            `json:"id"`
	YearID         uint            `json:"year_id"`
	CategoryID     uint            `json:"category_id"`
	Source         string          `json:"source"`
	Description    string          `json:"description"`
	BudgetedAmount decimal.Decimal `json:"budgeted_amount"`
	RealizedAmount decimal.Decimal `json:"realized_amount"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	CategoryName   string          `json:"category_name"`
	Year           int             `json:"year"`
}

const apbIncomeSelect = `ai.id, ai.year_id, ai.category_id, ai.source, ai.description,
ai.budgeted_amount, ai.realized_amount, ai.created_at, ai.updated_at,
aic.name AS category_name, ay.year AS year`

func (h *APBHandler) incomeQuery(c *gin.Context) *gorm.DB {
	return h.db.WithContext(c.Request.Context()).
		Table("apb_income AS ai").
		Select(apbIncomeSelect).
		Joins("JOIN apb_income_categories aic ON ai.category_id = aic.id").
		Joins("JOIN apb_years ay ON ai.year_id = ay.id")
}

// ListIncome returns every income item across all years.
func (h *APBHandler) ListIncome(c *gin.Context) {
	var rows []apbIncomeRow
	if err := h.incomeQuery(c).Order("ay.year DESC, ai.created_at DESC").Scan(&rows).Error; err != nil {
		Internal(c, "Failed to get income data")
		return
	}
	Data(c, rows)
}

// ListIncomeByYear returns the income items of one year.
func (h *APBHandler) ListIncomeByYear(c *gin.Context) {
	yearID, err := idParam(c, "yearId")
	if err != nil {
		BadRequest(c, "Invalid year id")
		return
	}

	var rows []apbIncomeRow
	if err := h.incomeQuery(c).Where("ai.year_id = ?", yearID).Order("ai.created_at DESC").Scan(&rows).Error; err != nil {
		Internal(c, "Failed to get income data by year")
		return
	}
	Data(c, rows)
}

// GetIncome returns one income item by id.
func (h *APBHandler) GetIncome(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		BadRequest(c, "Invalid income id")
		return
	}

	var rows []apbIncomeRow
	if err := h.incomeQuery(c).Where("ai.id = ?", id).Scan(&rows).Error; err != nil {
		Internal(c, "Failed to get income data")
		return
	}
	if len(rows) == 0 {
		NotFound(c, "Income data not found")
		return
	}
	Data(c, rows[0])
}

type apbIncomeRequest struct {
	YearID         uint            `json:"year_id"`
	CategoryID     uint            `json:"category_id"`
	Source         string          `json:"source"`
	Description    string          `json:"description"`
	BudgetedAmount decimal.Decimal `json:"budgeted_amount"`
	RealizedAmount decimal.Decimal `json:"realized_amount"`
}

func (r *apbIncomeRequest) incomplete() bool {
	return r.YearID == 0 || r.CategoryID == 0 || r.Source == "" || r.BudgetedAmount.IsZero()
}

// validIncomeRefs checks that the year and category the item points at exist.
func (h *APBHandler) validIncomeRefs(c *gin.Context, yearID, categoryID uint) (bool, error) {
	ctx := c.Request.Context()
	var years, categories int64
	if err := h.db.WithContext(ctx).Model(&database.APBYear{}).Where("id = ?", yearID).Count(&years).Error; err != nil {
		return false, err
	}
	if err := h.db.WithContext(ctx).Model(&database.APBIncomeCategory{}).Where("id = ?", categoryID).Count(&categories).Error; err != nil {
		return false, err
	}
	return years > 0 && categories > 0, nil
}

// CreateIncome inserts an income item and refreshes its year's totals in the
// same transaction.
func (h *APBHandler) CreateIncome(c *gin.Context) {
	var req apbIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.incomplete() {
		BadRequest(c, "Year, category, source, and budgeted amount are required")
		return
	}

	ok, err := h.validIncomeRefs(c, req.YearID, req.CategoryID)
	if err != nil {
		Internal(c, "Failed to create income data")
		return
	}
	if !ok {
		BadRequest(c, "Invalid year or category")
		return
	}

	row := database.APBIncome{
		YearID:         req.YearID,
		CategoryID:     req.CategoryID,
		Source:         req.Source,
		Description:    req.Description,
		BudgetedAmount: req.BudgetedAmount,
		RealizedAmount: req.RealizedAmount,
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("YearRef", "CategoryRef").Create(&row).Error; err != nil {
			return err
		}
		return recomputeYearTotals(tx, row.YearID)
	})
	if err != nil {
		middleware.LoggerFromContext(c).Error("create income", slog.Any("error", err))
		Internal(c, "Failed to create income data")
		return
	}

	Created(c, "Income data created successfully", row.ID)
}

// UpdateIncome replaces an income item. When the item moves between years,
// both years' totals are refreshed.
func (h *APBHandler) UpdateIncome(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		BadRequest(c, "Invalid income id")
		return
	}

	var req apbIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.incomplete() {
		BadRequest(c, "Year, category, source, and budgeted amount are required")
		return
	}

	ctx := c.Request.Context()
	var existing database.APBIncome
	if err := h.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Income data not found")
			return
		}
		Internal(c, "Failed to update income data")
		return
	}

	ok, err := h.validIncomeRefs(c, req.YearID, req.CategoryID)
	if err != nil {
		Internal(c, "Failed to update income data")
		return
	}
	if !ok {
		BadRequest(c, "Invalid year or category")
		return
	}

	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"year_id":         req.YearID,
			"category_id":     req.CategoryID,
			"source":          req.Source,
			"description":     req.Description,
			"budgeted_amount": req.BudgetedAmount,
			"realized_amount": req.RealizedAmount,
		}
		if err := tx.Model(&database.APBIncome{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		if err := recomputeYearTotals(tx, req.YearID); err != nil {
			return err
		}
		if existing.YearID != req.YearID {
			return recomputeYearTotals(tx, existing.YearID)
		}
		return nil
	})
	if err != nil {
		middleware.LoggerFromContext(c).Error("update income", slog.Any("error", err))
		Internal(c, "Failed to update income data")
		return
	}

	Message(c, "Income data updated successfully")
}

// DeleteIncome removes an income item and refreshes its year's totals.
func (h *APBHandler) DeleteIncome(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		BadRequest(c, "Invalid income id")
		return
	}

	ctx := c.Request.Context()
	var existing database.APBIncome
	if err := h.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Income data not found")
			return
		}
		Internal(c, "Failed to delete income data")
		return
	}

	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&database.APBIncome{}, id).Error; err != nil {
			return err
		}
		return recomputeYearTotals(tx, existing.YearID)
	})
	if err != nil {
		middleware.LoggerFromContext(c).Error("delete income", slog.Any("error", err))
		Internal(c, "Failed to delete income data")
		return
	}

	Message(c, "Income data deleted successfully")
}

// ----- Expenditure line items -----

// apbExpenditureRow is an expenditure item joined with its category name and
// year number.
type apbExpenditureRow struct {
	ID             uint            `json:"id"`
	YearID         uint            `json:"year_id"`
	CategoryID     uint            `json:"category_id"`
	Activity       string          `json:"activity"`
	Description    string          `json:"description"`
	BudgetedAmount decimal.Decimal `json:"budgeted_amount"`
	RealizedAmount decimal.Decimal `json:"realized_amount"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	CategoryName   string          `json:"category_name"`
	Year           int             `json:"year"`
}

const apbExpenditureSelect = `ae.id, ae.year_id, ae.category_id, ae.activity, ae.description,
ae.budgeted_amount, ae.realized_amount, ae.created_at, ae.updated_at,
aec.name AS category_name, ay.year AS year`

func (h *APBHandler) expenditureQuery(c *gin.Context) *gorm.DB {
	return h.db.WithContext(c.Request.Context()).
		Table("apb_expenditure AS ae").
		Select(apbExpenditureSelect).
		Joins("JOIN apb_expenditure_categories aec ON ae.category_id = aec.id").
		Joins("JOIN apb_years ay ON ae.year_id = ay.id")
}

// ListExpenditure returns every expenditure item across all years.
func (h *APBHandler) ListExpenditure(c *gin.Context) {
	var rows []apbExpenditureRow
	if err := h.expenditureQuery(c).Order("ay.year DESC, ae.created_at DESC").Scan(&rows).Error; err != nil {
		Internal(c, "Failed to get expenditure data")
		return
	}
	Data(c, rows)
}

// ListExpenditureByYear returns the expenditure items of one year.
func (h *APBHandler) ListExpenditureByYear(c *gin.Context) {
	yearID, err := idParam(c, "yearId")
	if err != nil {
		BadRequest(c, "Invalid year id")
		return
	}

	var rows []apbExpenditureRow
	if err := h.expenditureQuery(c).Where("ae.year_id = ?", yearID).Order("ae.created_at DESC").Scan(&rows).Error; err != nil {
		Internal(c, "Failed to get expenditure data by year")
		return
	}
	Data(c, rows)
}

// GetExpenditure returns one expenditure item by id.
func (h *APBHandler) GetExpenditure(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		BadRequest(c, "Invalid expenditure id")
		return
	}

	var rows []apbExpenditureRow
	if err := h.expenditureQuery(c).Where("ae.id = ?", id).Scan(&rows).Error; err != nil {
		Internal(c, "Failed to get expenditure data")
		return
	}
	if len(rows) == 0 {
		NotFound(c, "Expenditure data not found")
		return
	}
	Data(c, rows[0])
}

type apbExpenditureRequest struct {
	YearID         uint            `json:"year_id"`
	CategoryID     uint            `json:"category_id"`
	Activity       string          `json:"activity"`
	Description    string          `json:"description"`
	BudgetedAmount decimal.Decimal `json:"budgeted_amount"`
	RealizedAmount decimal.Decimal `json:"realized_amount"`
}

func (r *apbExpenditureRequest) incomplete() bool {
	return r.YearID == 0 || r.CategoryID == 0 || r.Activity == "" || r.BudgetedAmount.IsZero()
}

func (h *APBHandler) validExpenditureRefs(c *gin.Context, yearID, categoryID uint) (bool, error) {
	ctx := c.Request.Context()
	var years, categories int64
	if err := h.db.WithContext(ctx).Model(&database.APBYear{}).Where("id = ?", yearID).Count(&years).Error; err != nil {
		return false, err
	}
	if err := h.db.WithContext(ctx).Model(&database.APBExpenditureCategory{}).Where("id = ?", categoryID).Count(&categories).Error; err != nil {
		return false, err
	}
	return years > 0 && categories > 0, nil
}

// CreateExpenditure inserts an expenditure item and refreshes its year's
// totals in the same transaction.
func (h *APBHandler) CreateExpenditure(c *gin.Context) {
	var req apbExpenditureRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.incomplete() {
		BadRequest(c, "Year, category, activity, and budgeted amount are required")
		return
	}

	ok, err := h.validExpenditureRefs(c, req.YearID, req.CategoryID)
	if err != nil {
		Internal(c, "Failed to create expenditure data")
		return
	}
	if !ok {
		BadRequest(c, "Invalid year or category")
		return
	}

	row := database.APBExpenditure{
		YearID:         req.YearID,
		CategoryID:     req.CategoryID,
		Activity:       req.Activity,
		Description:    req.Description,
		BudgetedAmount: req.BudgetedAmount,
		RealizedAmount: req.RealizedAmount,
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("YearRef", "CategoryRef").Create(&row).Error; err != nil {
			return err
		}
		return recomputeYearTotals(tx, row.YearID)
	})
	if err != nil {
		middleware.LoggerFromContext(c).Error("create expenditure", slog.Any("error", err))
		Internal(c, "Failed to create expenditure data")
		return
	}

	Created(c, "Expenditure data created successfully", row.ID)
}

// UpdateExpenditure replaces an expenditure item. When the item moves between
// years, both years' totals are refreshed.
func (h *APBHandler) UpdateExpenditure(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		BadRequest(c, "Invalid expenditure id")
		return
	}

	var req apbExpenditureRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.incomplete() {
		BadRequest(c, "Year, category, activity, and budgeted amount are required")
		return
	}

	ctx := c.Request.Context()
	var existing database.APBExpenditure
	if err := h.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Expenditure data not found")
			return
		}
		Internal(c, "Failed to update expenditure data")
		return
	}

	ok, err := h.validExpenditureRefs(c, req.YearID, req.CategoryID)
	if err != nil {
		Internal(c, "Failed to update expenditure data")
		return
	}
	if !ok {
		BadRequest(c, "Invalid year or category")
		return
	}

	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"year_id":         req.YearID,
			"category_id":     req.CategoryID,
			"activity":        req.Activity,
			"description":     req.Description,
			"budgeted_amount": req.BudgetedAmount,
			"realized_amount": req.RealizedAmount,
		}
		if err := tx.Model(&database.APBExpenditure{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		if err := recomputeYearTotals(tx, req.YearID); err != nil {
			return err
		}
		if existing.YearID != req.YearID {
			return recomputeYearTotals(tx, existing.YearID)
		}
		return nil
	})
	if err != nil {
		middleware.LoggerFromContext(c).Error("update expenditure", slog.Any("error", err))
		Internal(c, "Failed to update expenditure data")
		return
	}

	Message(c, "Expenditure data updated successfully")
}

// DeleteExpenditure removes an expenditure item and refreshes its year's
// totals.
func (h *APBHandler) DeleteExpenditure(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		BadRequest(c, "Invalid expenditure id")
		return
	}

	ctx := c.Request.Context()
	var existing database.APBExpenditure
	if err := h.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Expenditure data not found")
			return
		}
		Internal(c, "Failed to delete expenditure data")
		return
	}

	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&database.APBExpenditure{}, id).Error; err != nil {
			return err
		}
		return recomputeYearTotals(tx, existing.YearID)
	})
	if err != nil {
		middleware.LoggerFromContext(c).Error("delete expenditure", slog.Any("error", err))
		Internal(c, "Failed to delete expenditure data")
		return
	}

	Message(c, "Expenditure data deleted successfully")
}

// ----- Summaries -----

// apbSummaryRow is one year in the all-years overview. Years without any line
// items still appear with zero counts.
type apbSummaryRow struct {
	Year             int             `json:"year"`
	Status           string          `json:"status"`
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenditure decimal.Decimal `json:"total_expenditure"`
	SurplusDeficit   decimal.Decimal `json:"surplus_deficit"`
	IncomeItems      int             `json:"income_items"`
	ExpenditureItems int             `json:"expenditure_items"`
}

// Summary returns the all-years budget overview, newest first.
func (h *APBHandler) Summary(c *gin.Context) {
	var rows []apbSummaryRow
	err := h.db.WithContext(c.Request.Context()).Raw(`
		SELECT
			ay.year,
			ay.status,
			ay.total_income,
			ay.total_expenditure,
			(ay.total_income - ay.total_expenditure) AS surplus_deficit,
			COUNT(DISTINCT ai.id) AS income_items,
			COUNT(DISTINCT ae.id) AS expenditure_items
		FROM apb_years ay
		LEFT JOIN apb_income ai ON ay.id = ai.year_id
		LEFT JOIN apb_expenditure ae ON ay.id = ae.year_id
		GROUP BY ay.id, ay.year, ay.status, ay.total_income, ay.total_expenditure
		ORDER BY ay.year DESC
	`).Scan(&rows).Error
	if err != nil {
		Internal(c, "Failed to get APB summary")
		return
	}
	Data(c, rows)
}

// apbSummaryItem decorates a line item with its realization percentage for
// the per-year detail view.
type apbSummaryItem struct {
	apbIncomeRow
	RealizationPercent float64 `json:"realization_percent"`
}

type apbSummaryExpenditureItem struct {
	apbExpenditureRow
	RealizationPercent float64 `json:"realization_percent"`
}

// realizationPercent is realized/budgeted as a percentage. A zero budget
// yields 0 rather than a division error.
func realizationPercent(budgeted, realized decimal.Decimal) float64 {
	if budgeted.IsZero() {
		return 0
	}
	return realized.Div(budgeted).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

// SummaryByYear returns one year with its full income and expenditure item
// lists.
func (h *APBHandler) SummaryByYear(c *gin.Context) {
	yearID, err := idParam(c, "yearId")
	if err != nil {
		BadRequest(c, "Invalid year id")
		return
	}

	ctx := c.Request.Context()
	var year database.APBYear
	if err := h.db.WithContext(ctx).First(&year, yearID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "APB year not found")
			return
		}
		Internal(c, "Failed to get APB summary")
		return
	}

	var incomeRows []apbIncomeRow
	if err := h.incomeQuery(c).Where("ai.year_id = ?", yearID).Order("ai.created_at DESC").Scan(&incomeRows).Error; err != nil {
		Internal(c, "Failed to get APB summary")
		return
	}

	var expenditureRows []apbExpenditureRow
	if err := h.expenditureQuery(c).Where("ae.year_id = ?", yearID).Order("ae.created_at DESC").Scan(&expenditureRows).Error; err != nil {
		Internal(c, "Failed to get APB summary")
		return
	}

	income := make([]apbSummaryItem, len(incomeRows))
	for i, row := range incomeRows {
		income[i] = apbSummaryItem{
			apbIncomeRow:       row,
			RealizationPercent: realizationPercent(row.BudgetedAmount, row.RealizedAmount),
		}
	}

	expenditure := make([]apbSummaryExpenditureItem, len(expenditureRows))
	for i, row := range expenditureRows {
		expenditure[i] = apbSummaryExpenditureItem{
			apbExpenditureRow:  row,
			RealizationPercent: realizationPercent(row.BudgetedAmount, row.RealizedAmount),
		}
	}

	Data(c, gin.H{
		"year":        year,
		"income":      income,
		"expenditure": expenditure,
	})
}
