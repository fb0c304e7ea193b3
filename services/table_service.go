package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/restoran-pos/backend/models"
	"github.com/restoran-pos/backend/utils"
)

// TableService adalah registry meja fisik. Transisi status normal dilakukan
// SessionService; di sini hanya listing dan override manual.
type TableService struct {
	DB *gorm.DB
}

func NewTableService(db *gorm.DB) *TableService {
	return &TableService{DB: db}
}

// List mengembalikan semua meja beserta sesi aktifnya (left join): meja
// tanpa sesi aktif mengembalikan field sesi null.
func (ts *TableService) List() ([]models.TableWithSession, error) {
	var tables []models.TableWithSession
	err := ts.DB.Model(&models.Table{}).
		Select(`tables.*,
			sessions.id AS active_session_id,
			sessions.total_amount AS current_amount,
			sessions.started_at AS session_started_at`).
		Joins("LEFT JOIN sessions ON sessions.table_id = tables.id AND sessions.status = ?", models.SessionActive).
		Order("tables.number ASC").
		Find(&tables).Error
	return tables, err
}

func (ts *TableService) Get(tableID uint) (*models.TableWithSession, error) {
	var table models.TableWithSession
	err := ts.DB.Model(&models.Table{}).
		Select(`tables.*,
			sessions.id AS active_session_id,
			sessions.total_amount AS current_amount,
			sessions.started_at AS session_started_at`).
		Joins("LEFT JOIN sessions ON sessions.table_id = tables.id AND sessions.status = ?", models.SessionActive).
		Where("tables.id = ?", tableID).
		First(&table).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("table %d: %w", tableID, utils.ErrNotFound)
		}
		return nil, err
	}
	return &table, nil
}

// ForceStatus adalah escape hatch admin: set status meja langsung tanpa
// memeriksa state sesi. Koreksi manual, bukan transisi state machine.
func (ts *TableService) ForceStatus(tableID uint, status string) (*models.TableWithSession, error) {
	if status != models.TableAvailable && status != models.TableOccupied {
		return nil, fmt.Errorf("unknown table status %q: %w", status, utils.ErrValidation)
	}

	result := ts.DB.Model(&models.Table{}).Where("id = ?", tableID).
		Update("status", status)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("table %d: %w", tableID, utils.ErrNotFound)
	}

	utils.InfoLogger.Printf("Table %d status forced to %s", tableID, status)
	return ts.Get(tableID)
}
