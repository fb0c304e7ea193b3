package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/restoran-pos/backend/models"
	"github.com/restoran-pos/backend/services"
	"github.com/restoran-pos/backend/utils"
)

type HistoryController struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

func NewHistoryController(db *gorm.DB) *HistoryController {
	return &HistoryController{DB: db, Orders: services.NewOrderService(db)}
}

type historySession struct {
	ID          uint               `json:"id"`
	TableNumber int                `json:"table_number"`
	StartedAt   time.Time          `json:"started_at"`
	EndedAt     *time.Time         `json:"ended_at"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Status      string             `json:"status"`
	Waiter      *string            `json:"waiter"`
	DurationMin int64              `json:"duration_min"`
	Items       []models.OrderLine `json:"items"`
}

// GetHistory -> sesi closed untuk periode daily|weekly|monthly|all, lengkap
// dengan item tiap sesi dan ringkasan omzet
func (hc *HistoryController) GetHistory(c *gin.Context) {
	period := c.DefaultQuery("period", "daily")

	query := hc.DB.Model(&models.Session{}).
		Select(`sessions.id, tables.number AS table_number, sessions.started_at,
			sessions.ended_at, sessions.total_amount, sessions.status,
			users.username AS waiter`).
		Joins("JOIN tables ON tables.id = sessions.table_id").
		Joins("LEFT JOIN users ON users.id = sessions.waiter_id").
		Where("sessions.status = ?", models.SessionClosed)

	switch period {
	case "daily":
		query = query.Where("date(sessions.ended_at, 'localtime') = date('now', 'localtime')")
	case "weekly":
		query = query.Where("date(sessions.ended_at, 'localtime') >= date('now', 'localtime', '-7 days')")
	case "monthly":
		query = query.Where("date(sessions.ended_at, 'localtime') >= date('now', 'localtime', '-30 days')")
	}

	sessions := make([]historySession, 0)
	if err := query.Order("sessions.ended_at DESC").Limit(500).
		Find(&sessions).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	totalRevenue := decimal.Zero
	for i := range sessions {
		s := &sessions[i]
		if s.EndedAt != nil {
			s.DurationMin = int64(s.EndedAt.Sub(s.StartedAt).Minutes() + 0.5)
		}

		items, err := hc.Orders.Lines(s.ID)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		s.Items = items

		totalRevenue = totalRevenue.Add(s.TotalAmount)
	}

	avgBill := decimal.Zero
	if len(sessions) > 0 {
		avgBill = totalRevenue.Div(decimal.NewFromInt(int64(len(sessions))))
	}

	utils.RespondJSON(c, http.StatusOK, "Session history", gin.H{
		"sessions": sessions,
		"summary": gin.H{
			"count":         len(sessions),
			"total_revenue": totalRevenue.Round(2),
			"avg_bill":      avgBill.Round(2),
		},
	})
}
