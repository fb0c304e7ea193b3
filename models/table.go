package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableAvailable = "available"
	TableOccupied  = "occupied"
)

type Table struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Number    int       `gorm:"uniqueIndex;not null" json:"number"`
	Status    string    `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	Capacity  int       `gorm:"not null;default:4" json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableWithSession adalah baris listing meja: meja plus sesi aktifnya jika
// ada. Meja tanpa sesi aktif mengembalikan field null, bukan error.
type TableWithSession struct {
	Table
	ActiveSessionID  *uint            `json:"active_session_id"`
	CurrentAmount    *decimal.Decimal `json:"current_amount"`
	SessionStartedAt *time.Time       `json:"session_started_at"`
}
