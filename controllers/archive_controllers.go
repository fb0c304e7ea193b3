package controllers

import (
	"errors"
	"net/http"
	"regexp"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/restoran-pos/backend/models"
	"github.com/restoran-pos/backend/utils"
)

// ArchiveController menyajikan breakdown bulanan historis (omzet, xərclər,
// produk terlaris) untuk bulan-bulan yang punya data.
type ArchiveController struct {
	DB *gorm.DB
}

func NewArchiveController(db *gorm.DB) *ArchiveController {
	return &ArchiveController{DB: db}
}

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// GetMonths -> daftar bulan (YYYY-MM) yang punya sesi closed atau expense
func (ac *ArchiveController) GetMonths(c *gin.Context) {
	var sessionMonths []struct{ Month string }
	if err := ac.DB.Raw(`
		SELECT DISTINCT strftime('%Y-%m', ended_at) AS month
		FROM sessions
		WHERE status = 'closed' AND ended_at IS NOT NULL
	`).Scan(&sessionMonths).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var expenseMonths []struct{ Month string }
	if err := ac.DB.Raw(`
		SELECT DISTINCT strftime('%Y-%m', date) AS month FROM expenses
	`).Scan(&expenseMonths).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	seen := make(map[string]bool)
	months := make([]string, 0, len(sessionMonths)+len(expenseMonths))
	for _, row := range append(sessionMonths, expenseMonths...) {
		if row.Month == "" || seen[row.Month] {
			continue
		}
		seen[row.Month] = true
		months = append(months, row.Month)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))

	utils.RespondJSON(c, http.StatusOK, "Archive months", gin.H{"months": months})
}

type monthRevenue struct {
	SessionCount int64           `json:"session_count"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	AvgBill      decimal.Decimal `json:"avg_bill"`
	MaxBill      decimal.Decimal `json:"max_bill"`
}

type monthExpenses struct {
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	ExpenseCount  int64           `json:"expense_count"`
}

type monthProduct struct {
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	TotalQty     int64           `json:"total_qty"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// GetMonth -> breakdown lengkap satu bulan YYYY-MM
func (ac *ArchiveController) GetMonth(c *gin.Context) {
	month := c.Param("month")
	if !monthPattern.MatchString(month) {
		utils.RespondError(c, http.StatusBadRequest,
			errors.New("invalid month format, use YYYY-MM"))
		return
	}

	var revenue monthRevenue
	if err := ac.DB.Raw(`
		SELECT COUNT(*) AS session_count,
		       ROUND(COALESCE(SUM(total_amount), 0), 2) AS total_revenue,
		       ROUND(COALESCE(AVG(total_amount), 0), 2) AS avg_bill,
		       ROUND(COALESCE(MAX(total_amount), 0), 2) AS max_bill
		FROM sessions
		WHERE status = 'closed' AND strftime('%Y-%m', ended_at) = ?
	`, month).Scan(&revenue).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var expenses monthExpenses
	if err := ac.DB.Raw(`
		SELECT ROUND(COALESCE(SUM(amount), 0), 2) AS total_expenses,
		       COUNT(*) AS expense_count
		FROM expenses
		WHERE strftime('%Y-%m', date) = ?
	`, month).Scan(&expenses).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	byCategory := make([]expenseByCategory, 0)
	if err := ac.DB.Raw(`
		SELECT category, ROUND(SUM(amount), 2) AS total, COUNT(*) AS count
		FROM expenses
		WHERE strftime('%Y-%m', date) = ?
		GROUP BY category
		ORDER BY total DESC
	`, month).Scan(&byCategory).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	topProducts := make([]monthProduct, 0)
	if err := ac.DB.Raw(`
		SELECT p.name, p.category,
		       SUM(oi.quantity) AS total_qty,
		       ROUND(SUM(oi.quantity * oi.unit_price), 2) AS total_revenue
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		JOIN sessions s ON s.id = oi.session_id
		WHERE s.status = 'closed' AND strftime('%Y-%m', s.ended_at) = ?
		GROUP BY oi.product_id
		ORDER BY total_qty DESC
		LIMIT 20
	`, month).Scan(&topProducts).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	expenseList := make([]models.Expense, 0)
	if err := ac.DB.Where("strftime('%Y-%m', date) = ?", month).
		Order("date DESC, created_at DESC").
		Find(&expenseList).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	netProfit := revenue.TotalRevenue.Sub(expenses.TotalExpenses)

	utils.RespondJSON(c, http.StatusOK, "Archive for "+month, gin.H{
		"month":                month,
		"revenue":              revenue,
		"expenses":             expenses,
		"expenses_by_category": byCategory,
		"top_products":         topProducts,
		"expense_list":         expenseList,
		"net_profit":           netProfit.Round(2),
	})
}
