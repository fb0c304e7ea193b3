package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/restoran-pos/backend/models"
	"github.com/restoran-pos/backend/utils"
)

type ExpenseController struct {
	DB *gorm.DB
}

func NewExpenseController(db *gorm.DB) *ExpenseController {
	return &ExpenseController{DB: db}
}

// defaultExpenseCategories selalu ditawarkan, digabung dengan kategori
// custom dari tabel expense_categories.
var defaultExpenseCategories = []string{"Ərzaq", "İşçi heyəti", "Kommunal", "Digər"}

type expenseSummary struct {
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

type expenseByCategory struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int64           `json:"count"`
}

type expenseByDay struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

// AddExpense -> catat pengeluaran baru
func (ec *ExpenseController) AddExpense(c *gin.Context) {
	var req struct {
		Description string          `json:"description" binding:"required"`
		Category    string          `json:"category"`
		Amount      decimal.Decimal `json:"amount" binding:"required"`
		Date        string          `json:"date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	expense := models.Expense{
		Description: req.Description,
		Category:    "Digər",
		Amount:      req.Amount,
		Date:        time.Now().Format("2006-01-02"),
	}
	if req.Category != "" {
		expense.Category = req.Category
	}
	if req.Date != "" {
		expense.Date = req.Date
	}

	if v, exists := c.Get("userID"); exists {
		if id, ok := v.(uint); ok {
			expense.AddedBy = &id
			var user models.User
			if err := ec.DB.First(&user, id).Error; err == nil {
				expense.AddedByName = user.Username
			}
		}
	}

	if err := ec.DB.Create(&expense).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Expense added", expense)
}

// UpdateExpense -> ubah pengeluaran yang sudah ada
func (ec *ExpenseController) UpdateExpense(c *gin.Context) {
	expenseID := c.Param("expense_id")

	var expense models.Expense
	if err := ec.DB.First(&expense, expenseID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Description *string          `json:"description"`
		Category    *string          `json:"category"`
		Amount      *decimal.Decimal `json:"amount"`
		Date        *string          `json:"date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Description != nil {
		expense.Description = *req.Description
	}
	if req.Category != nil {
		expense.Category = *req.Category
	}
	if req.Amount != nil {
		expense.Amount = *req.Amount
	}
	if req.Date != nil {
		expense.Date = *req.Date
	}

	if err := ec.DB.Save(&expense).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Expense updated", expense)
}

// DeleteExpense -> hapus pengeluaran
func (ec *ExpenseController) DeleteExpense(c *gin.Context) {
	expenseID := c.Param("expense_id")

	var expense models.Expense
	if err := ec.DB.First(&expense, expenseID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := ec.DB.Delete(&expense).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Expense deleted", gin.H{"id": expense.ID})
}

// GetAllExpenses -> daftar pengeluaran terbaru (max 100)
func (ec *ExpenseController) GetAllExpenses(c *gin.Context) {
	var expenses []models.Expense
	if err := ec.DB.Order("date DESC, created_at DESC").Limit(100).
		Find(&expenses).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of expenses", expenses)
}

// GetDailyExpenses -> pengeluaran hari ini plus ringkasan per kategori
func (ec *ExpenseController) GetDailyExpenses(c *gin.Context) {
	ec.expensesSince(c, "date = date('now', 'localtime')", false)
}

// GetWeeklyExpenses -> pengeluaran 7 hari terakhir
func (ec *ExpenseController) GetWeeklyExpenses(c *gin.Context) {
	ec.expensesSince(c, "date >= date('now', '-7 days', 'localtime')", true)
}

// GetMonthlyExpenses -> pengeluaran 30 hari terakhir
func (ec *ExpenseController) GetMonthlyExpenses(c *gin.Context) {
	ec.expensesSince(c, "date >= date('now', '-30 days', 'localtime')", true)
}

func (ec *ExpenseController) expensesSince(c *gin.Context, dateCond string, withByDay bool) {
	var expenses []models.Expense
	if err := ec.DB.Where(dateCond).Order("date DESC, created_at DESC").
		Find(&expenses).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var summary expenseSummary
	if err := ec.DB.Raw(
		"SELECT COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count FROM expenses WHERE " + dateCond,
	).Scan(&summary).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	byCategory := make([]expenseByCategory, 0)
	if err := ec.DB.Raw(
		"SELECT category, SUM(amount) AS total, COUNT(*) AS count FROM expenses WHERE " +
			dateCond + " GROUP BY category ORDER BY total DESC",
	).Scan(&byCategory).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	data := gin.H{
		"expenses":    expenses,
		"summary":     summary,
		"by_category": byCategory,
	}

	if withByDay {
		byDay := make([]expenseByDay, 0)
		if err := ec.DB.Raw(
			"SELECT date, SUM(amount) AS total, COUNT(*) AS count FROM expenses WHERE " +
				dateCond + " GROUP BY date ORDER BY date",
		).Scan(&byDay).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		data["by_day"] = byDay
	}

	utils.RespondJSON(c, http.StatusOK, "Expense report", data)
}

// GetCategories -> kategori default digabung kategori custom
func (ec *ExpenseController) GetCategories(c *gin.Context) {
	var custom []models.ExpenseCategory
	if err := ec.DB.Order("name").Find(&custom).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	seen := make(map[string]bool)
	categories := make([]string, 0, len(defaultExpenseCategories)+len(custom))
	for _, name := range defaultExpenseCategories {
		seen[name] = true
		categories = append(categories, name)
	}
	for _, cat := range custom {
		if !seen[cat.Name] {
			seen[cat.Name] = true
			categories = append(categories, cat.Name)
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Expense categories", categories)
}

// AddCategory -> tambah kategori custom, duplikat diabaikan
func (ec *ExpenseController) AddCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category := models.ExpenseCategory{Name: req.Name}
	ec.DB.Where("name = ?", req.Name).FirstOrCreate(&category)

	utils.RespondJSON(c, http.StatusCreated, "Category added", category)
}
