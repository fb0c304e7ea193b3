package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/restoran-pos/backend/utils"
)

// ReportController menyajikan laporan omzet harian/mingguan/bulanan dari
// sesi yang sudah closed. Pembulatan 2 desimal terjadi di sini (presentasi),
// bukan saat akumulasi.
type ReportController struct {
	DB *gorm.DB
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db}
}

type dailyRow struct {
	Date          string          `json:"date"`
	TotalSessions int64           `json:"total_sessions"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	AvgAmount     decimal.Decimal `json:"avg_amount"`
}

type hourlyRow struct {
	Hour    string          `json:"hour"`
	Count   int64           `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type reportTotals struct {
	TotalSessions int64           `json:"total_sessions"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	AvgAmount     decimal.Decimal `json:"avg_amount"`
}

// Daily -> ringkasan hari ini plus breakdown per jam
func (rc *ReportController) Daily(c *gin.Context) {
	var summary dailyRow
	if err := rc.DB.Raw(`
		SELECT date(started_at, 'localtime') AS date,
		       COUNT(*) AS total_sessions,
		       COALESCE(SUM(total_amount), 0) AS total_revenue,
		       COALESCE(AVG(total_amount), 0) AS avg_amount
		FROM sessions
		WHERE status = 'closed' AND date(started_at, 'localtime') = date('now', 'localtime')
		GROUP BY date(started_at, 'localtime')
	`).Scan(&summary).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hourly := make([]hourlyRow, 0)
	if err := rc.DB.Raw(`
		SELECT strftime('%H', started_at, 'localtime') AS hour,
		       COUNT(*) AS count,
		       COALESCE(SUM(total_amount), 0) AS revenue
		FROM sessions
		WHERE status = 'closed' AND date(started_at, 'localtime') = date('now', 'localtime')
		GROUP BY strftime('%H', started_at, 'localtime')
		ORDER BY hour
	`).Scan(&hourly).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	summary.TotalRevenue = summary.TotalRevenue.Round(2)
	summary.AvgAmount = summary.AvgAmount.Round(2)
	for i := range hourly {
		hourly[i].Revenue = hourly[i].Revenue.Round(2)
	}

	utils.RespondJSON(c, http.StatusOK, "Daily report", gin.H{
		"summary": summary,
		"hourly":  hourly,
	})
}

// Weekly -> baris per hari untuk 7 hari terakhir plus total
func (rc *ReportController) Weekly(c *gin.Context) {
	rc.periodReport(c, "-7 days", "Weekly report")
}

// Monthly -> baris per hari untuk 30 hari terakhir plus total
func (rc *ReportController) Monthly(c *gin.Context) {
	rc.periodReport(c, "-30 days", "Monthly report")
}

func (rc *ReportController) periodReport(c *gin.Context, offset, message string) {
	daily := make([]dailyRow, 0)
	if err := rc.DB.Raw(`
		SELECT date(started_at, 'localtime') AS date,
		       COUNT(*) AS total_sessions,
		       COALESCE(SUM(total_amount), 0) AS total_revenue,
		       COALESCE(AVG(total_amount), 0) AS avg_amount
		FROM sessions
		WHERE status = 'closed' AND date(started_at, 'localtime') >= date('now', ?, 'localtime')
		GROUP BY date(started_at, 'localtime')
		ORDER BY date
	`, offset).Scan(&daily).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var totals reportTotals
	if err := rc.DB.Raw(`
		SELECT COUNT(*) AS total_sessions,
		       COALESCE(SUM(total_amount), 0) AS total_revenue,
		       COALESCE(AVG(total_amount), 0) AS avg_amount
		FROM sessions
		WHERE status = 'closed' AND date(started_at, 'localtime') >= date('now', ?, 'localtime')
	`, offset).Scan(&totals).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	for i := range daily {
		daily[i].TotalRevenue = daily[i].TotalRevenue.Round(2)
		daily[i].AvgAmount = daily[i].AvgAmount.Round(2)
	}
	totals.TotalRevenue = totals.TotalRevenue.Round(2)
	totals.AvgAmount = totals.AvgAmount.Round(2)

	utils.RespondJSON(c, http.StatusOK, message, gin.H{
		"daily":  daily,
		"totals": totals,
	})
}
