package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	SessionActive = "active"
	SessionClosed = "closed"
)

type Session struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	TableID     uint            `gorm:"not null;index" json:"table_id"`
	Table       Table           `gorm:"foreignKey:TableID;references:ID" json:"-"`
	WaiterID    *uint           `gorm:"index" json:"waiter_id,omitempty"`
	Waiter      *User           `gorm:"foreignKey:WaiterID;references:ID" json:"-"`
	Status      string          `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"total_amount"`
	StartedAt   time.Time       `gorm:"not null" json:"started_at"`
	EndedAt     *time.Time      `json:"ended_at,omitempty"`
}

// SessionDetail menambahkan nomor meja pada sesi (join ke tables).
type SessionDetail struct {
	Session
	TableNumber int `json:"table_number"`
}
