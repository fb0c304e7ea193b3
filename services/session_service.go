package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/restoran-pos/backend/models"
	"github.com/restoran-pos/backend/utils"
)

// SessionService memegang lifecycle sesi per meja. Satu-satunya penulis
// status meja: start -> occupied, end -> available. State machine per meja:
// NONE -> ACTIVE -> CLOSED, tanpa re-open.
type SessionService struct {
	DB *gorm.DB

	// Serialisasi start antar request dalam satu proses, supaya dua request
	// bersamaan tidak sama-sama lolos cek "belum ada sesi aktif".
	startMu sync.Mutex
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{DB: db}
}

// Start membuka sesi baru di sebuah meja. Gagal dengan ErrConflict kalau
// meja sudah punya sesi aktif. Cek-lalu-insert dibungkus satu transaksi.
func (ss *SessionService) Start(tableID uint, waiterID *uint) (*models.SessionDetail, error) {
	ss.startMu.Lock()
	defer ss.startMu.Unlock()

	var sessionID uint
	err := ss.DB.Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.First(&table, tableID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("table %d: %w", tableID, utils.ErrNotFound)
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.Session{}).
			Where("table_id = ? AND status = ?", tableID, models.SessionActive).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("table %d already has an active session: %w", tableID, utils.ErrConflict)
		}

		session := models.Session{
			TableID:     tableID,
			WaiterID:    waiterID,
			Status:      models.SessionActive,
			TotalAmount: decimal.Zero,
			StartedAt:   time.Now(),
		}
		if err := tx.Create(&session).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Table{}).Where("id = ?", tableID).
			Update("status", models.TableOccupied).Error; err != nil {
			return err
		}

		sessionID = session.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Session %d started on table %d", sessionID, tableID)
	return ss.GetByID(sessionID)
}

// End menutup sesi: total dihitung ulang dari order lines sebagai nilai
// otoritatif, status jadi closed, ended_at distempel, meja dilepas.
// Memanggil End pada sesi yang sudah closed tidak ditolak: total dihitung
// ulang dan ended_at distempel lagi (perilaku sumber dipertahankan).
func (ss *SessionService) End(sessionID uint) (*models.SessionDetail, error) {
	err := ss.DB.Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := tx.First(&session, sessionID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("session %d: %w", sessionID, utils.ErrNotFound)
			}
			return err
		}

		total, err := sumSessionLines(tx, sessionID)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&models.Session{}).Where("id = ?", sessionID).
			Updates(map[string]interface{}{
				"status":       models.SessionClosed,
				"ended_at":     now,
				"total_amount": total,
			}).Error; err != nil {
			return err
		}

		return tx.Model(&models.Table{}).Where("id = ?", session.TableID).
			Update("status", models.TableAvailable).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Session %d closed", sessionID)
	return ss.GetByID(sessionID)
}

func (ss *SessionService) GetByID(sessionID uint) (*models.SessionDetail, error) {
	var detail models.SessionDetail
	err := ss.DB.Model(&models.Session{}).
		Select("sessions.*, tables.number AS table_number").
		Joins("JOIN tables ON tables.id = sessions.table_id").
		Where("sessions.id = ?", sessionID).
		First(&detail).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("session %d: %w", sessionID, utils.ErrNotFound)
		}
		return nil, err
	}
	return &detail, nil
}

// GetActive mengembalikan semua sesi aktif, yang paling lama dibuka duluan.
func (ss *SessionService) GetActive() ([]models.SessionDetail, error) {
	var sessions []models.SessionDetail
	err := ss.DB.Model(&models.Session{}).
		Select("sessions.*, tables.number AS table_number").
		Joins("JOIN tables ON tables.id = sessions.table_id").
		Where("sessions.status = ?", models.SessionActive).
		Order("sessions.started_at ASC").
		Find(&sessions).Error
	return sessions, err
}

// GetByTable mengembalikan riwayat sesi sebuah meja, terbaru duluan.
func (ss *SessionService) GetByTable(tableID uint) ([]models.SessionDetail, error) {
	var sessions []models.SessionDetail
	err := ss.DB.Model(&models.Session{}).
		Select("sessions.*, tables.number AS table_number").
		Joins("JOIN tables ON tables.id = sessions.table_id").
		Where("sessions.table_id = ?", tableID).
		Order("sessions.started_at DESC").
		Find(&sessions).Error
	return sessions, err
}

type TopProduct struct {
	Name         string          `json:"name"`
	TotalQty     int64           `json:"total_qty"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

type BestTable struct {
	Number       int             `json:"number"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

type TopExpenseCategory struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

type SessionStats struct {
	TotalRevenue       decimal.Decimal    `json:"total_revenue"`
	DailyOrders        int64              `json:"daily_orders"`
	TopProducts        []TopProduct       `json:"top_products"`
	BestTable          BestTable          `json:"best_table"`
	AvgDuration        int64              `json:"avg_duration"`
	TotalExpenses      decimal.Decimal    `json:"total_expenses"`
	DailyExpenses      decimal.Decimal    `json:"daily_expenses"`
	NetRevenue         decimal.Decimal    `json:"net_revenue"`
	TopExpenseCategory TopExpenseCategory `json:"top_expense_category"`
}

// Stats adalah proyeksi read-only untuk dashboard; murni query agregat.
func (ss *SessionService) Stats() (*SessionStats, error) {
	stats := &SessionStats{
		TotalRevenue:       decimal.Zero,
		TotalExpenses:      decimal.Zero,
		DailyExpenses:      decimal.Zero,
		BestTable:          BestTable{Number: 0},
		TopExpenseCategory: TopExpenseCategory{Category: "-"},
	}

	var revenue struct{ Total decimal.Decimal }
	if err := ss.DB.Raw(`
		SELECT COALESCE(SUM(total_amount), 0) AS total
		FROM sessions WHERE status = 'closed'
	`).Scan(&revenue).Error; err != nil {
		return nil, err
	}
	stats.TotalRevenue = revenue.Total

	if err := ss.DB.Raw(`
		SELECT COUNT(*) FROM sessions
		WHERE date(started_at, 'localtime') = date('now', 'localtime')
	`).Scan(&stats.DailyOrders).Error; err != nil {
		return nil, err
	}

	if err := ss.DB.Raw(`
		SELECT p.name, SUM(oi.quantity) AS total_qty,
		       SUM(oi.quantity * oi.unit_price) AS total_revenue
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		JOIN sessions s ON s.id = oi.session_id
		WHERE s.status = 'closed'
		GROUP BY oi.product_id
		ORDER BY total_qty DESC
		LIMIT 5
	`).Scan(&stats.TopProducts).Error; err != nil {
		return nil, err
	}

	// Best table boleh kosong saat belum ada sesi closed
	ss.DB.Raw(`
		SELECT t.number, SUM(s.total_amount) AS total_revenue
		FROM sessions s
		JOIN tables t ON t.id = s.table_id
		WHERE s.status = 'closed'
		GROUP BY s.table_id
		ORDER BY total_revenue DESC
		LIMIT 1
	`).Scan(&stats.BestTable)

	var avg struct{ Minutes *float64 }
	if err := ss.DB.Raw(`
		SELECT AVG((julianday(ended_at) - julianday(started_at)) * 24 * 60) AS minutes
		FROM sessions
		WHERE status = 'closed' AND ended_at IS NOT NULL
	`).Scan(&avg).Error; err != nil {
		return nil, err
	}
	if avg.Minutes != nil {
		stats.AvgDuration = int64(*avg.Minutes + 0.5)
	}

	var expenses struct{ Total decimal.Decimal }
	if err := ss.DB.Raw(`
		SELECT COALESCE(SUM(amount), 0) AS total FROM expenses
	`).Scan(&expenses).Error; err != nil {
		return nil, err
	}
	stats.TotalExpenses = expenses.Total

	var daily struct{ Total decimal.Decimal }
	if err := ss.DB.Raw(`
		SELECT COALESCE(SUM(amount), 0) AS total FROM expenses
		WHERE date = date('now', 'localtime')
	`).Scan(&daily).Error; err != nil {
		return nil, err
	}
	stats.DailyExpenses = daily.Total

	ss.DB.Raw(`
		SELECT category, SUM(amount) AS total
		FROM expenses
		WHERE date = date('now', 'localtime')
		GROUP BY category
		ORDER BY total DESC
		LIMIT 1
	`).Scan(&stats.TopExpenseCategory)

	stats.NetRevenue = stats.TotalRevenue.Sub(stats.TotalExpenses)
	return stats, nil
}

// sumSessionLines menjumlahkan quantity*unit_price semua baris sebuah sesi
// dengan aritmetika decimal, bukan SUM float di SQL, supaya akumulasi
// berulang tidak mengalami drift pembulatan.
func sumSessionLines(tx *gorm.DB, sessionID uint) (decimal.Decimal, error) {
	var items []models.OrderItem
	if err := tx.Where("session_id = ?", sessionID).Find(&items).Error; err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total, nil
}
