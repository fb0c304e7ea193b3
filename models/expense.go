package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Category    string          `gorm:"type:varchar(100);not null;default:'Digər'" json:"category"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	// Date disimpan sebagai string YYYY-MM-DD supaya bisa dibandingkan
	// langsung dengan date('now','localtime') di query laporan.
	Date        string    `gorm:"type:date;not null;index" json:"date"`
	AddedBy     *uint     `json:"added_by,omitempty"`
	AddedByName string    `gorm:"type:varchar(255)" json:"added_by_name"`
	CreatedAt   time.Time `json:"created_at"`
}
