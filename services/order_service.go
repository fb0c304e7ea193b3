package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/restoran-pos/backend/models"
	"github.com/restoran-pos/backend/utils"
)

// OrderService memegang baris pesanan dalam sesi dan satu-satunya penulis
// sessions.total_amount selama sesi masih aktif. Setiap mutasi menghitung
// ulang total dan menyimpannya dalam transaksi yang sama.
type OrderService struct {
	DB *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{DB: db}
}

// Add menambahkan quantity sebuah produk ke sesi. Quantity boleh negatif:
// begitulah UI menurunkan jumlah. Kebijakan merge:
//   - sudah ada baris (session, product): quantity digabung; hasil <= 0
//     menghapus baris, hasil > 0 update di tempat
//   - belum ada baris dan quantity > 0: insert baru dengan unit_price
//     snapshot dari harga produk saat ini
//   - belum ada baris dan quantity <= 0: no-op
func (o *OrderService) Add(sessionID, productID uint, quantity int) ([]models.OrderLine, error) {
	var product models.Product
	if err := o.DB.Where("id = ? AND is_active = ?", productID, true).
		First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product %d missing or inactive: %w", productID, utils.ErrValidation)
		}
		return nil, err
	}

	err := o.DB.Transaction(func(tx *gorm.DB) error {
		if err := requireActiveSession(tx, sessionID); err != nil {
			return err
		}

		var existing models.OrderItem
		err := tx.Where("session_id = ? AND product_id = ?", sessionID, productID).
			First(&existing).Error

		switch {
		case err == nil:
			newQty := existing.Quantity + quantity
			if newQty <= 0 {
				if err := tx.Delete(&existing).Error; err != nil {
					return err
				}
			} else {
				if err := tx.Model(&existing).Update("quantity", newQty).Error; err != nil {
					return err
				}
			}
		case err == gorm.ErrRecordNotFound:
			if quantity <= 0 {
				break // tidak ada yang dikurangi, no-op
			}
			item := models.OrderItem{
				SessionID: sessionID,
				ProductID: productID,
				Quantity:  quantity,
				UnitPrice: product.Price,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return persistSessionTotal(tx, sessionID)
	})
	if err != nil {
		return nil, err
	}

	return o.Lines(sessionID)
}

// Remove menghapus baris (session, product) tanpa melihat quantity, lalu
// menghitung ulang total sesi.
func (o *OrderService) Remove(sessionID, productID uint) ([]models.OrderLine, error) {
	err := o.DB.Transaction(func(tx *gorm.DB) error {
		if err := requireActiveSession(tx, sessionID); err != nil {
			return err
		}

		if err := tx.Where("session_id = ? AND product_id = ?", sessionID, productID).
			Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}

		return persistSessionTotal(tx, sessionID)
	})
	if err != nil {
		return nil, err
	}

	return o.Lines(sessionID)
}

// Lines mengembalikan baris pesanan sesi yang di-join dengan produk,
// urut waktu pembuatan.
func (o *OrderService) Lines(sessionID uint) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	err := o.DB.Model(&models.OrderItem{}).
		Select(`order_items.id, order_items.session_id, order_items.product_id,
			products.name AS product_name, products.category,
			order_items.quantity, order_items.unit_price,
			(order_items.quantity * order_items.unit_price) AS line_total,
			order_items.created_at`).
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("order_items.session_id = ?", sessionID).
		Order("order_items.created_at ASC, order_items.id ASC").
		Find(&lines).Error
	return lines, err
}

// Total mengembalikan jumlah berjalan sesi dari baris pesanannya.
func (o *OrderService) Total(sessionID uint) (string, error) {
	total, err := sumSessionLines(o.DB, sessionID)
	if err != nil {
		return "", err
	}
	return total.String(), nil
}

// requireActiveSession menolak mutasi order untuk sesi yang tidak ada
// (not found) atau sudah closed (conflict): total sesi closed itu beku.
func requireActiveSession(tx *gorm.DB, sessionID uint) error {
	var session models.Session
	if err := tx.First(&session, sessionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("session %d: %w", sessionID, utils.ErrNotFound)
		}
		return err
	}
	if session.Status != models.SessionActive {
		return fmt.Errorf("session %d is closed: %w", sessionID, utils.ErrConflict)
	}
	return nil
}

// persistSessionTotal adalah titik sinkronisasi Session.total_amount:
// jumlahkan ulang semua baris lalu simpan ke sesi.
func persistSessionTotal(tx *gorm.DB, sessionID uint) error {
	total, err := sumSessionLines(tx, sessionID)
	if err != nil {
		return err
	}
	return tx.Model(&models.Session{}).Where("id = ?", sessionID).
		Update("total_amount", total).Error
}
