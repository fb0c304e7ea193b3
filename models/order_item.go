package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem adalah satu baris pesanan dalam sebuah sesi. Maksimal satu baris
// per pasangan (session_id, product_id); penambahan berikutnya digabung ke
// quantity, tidak membuat baris baru. UnitPrice adalah snapshot harga produk
// saat baris pertama kali dibuat dan tidak berubah setelah itu.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	SessionID uint            `gorm:"not null;index:idx_session_product,unique" json:"session_id"`
	Session   Session         `gorm:"foreignKey:SessionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ProductID uint            `gorm:"not null;index:idx_session_product,unique" json:"product_id"`
	Product   Product         `gorm:"foreignKey:ProductID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Quantity  int             `gorm:"not null;default:1" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrderLine adalah view baris pesanan yang sudah di-join dengan produk.
type OrderLine struct {
	ID          uint            `json:"id"`
	SessionID   uint            `json:"session_id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Category    string          `json:"category"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
	CreatedAt   time.Time       `json:"created_at"`
}
