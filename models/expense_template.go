package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseTemplate adalah shortcut untuk pengeluaran yang sering diinput.
type ExpenseTemplate struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Category  string          `gorm:"type:varchar(100);not null" json:"category"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}
