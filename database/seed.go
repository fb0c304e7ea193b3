package database

import (
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/restoran-pos/backend/models"
	"github.com/restoran-pos/backend/utils"
)

// Migrate membuat semua tabel.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.Product{},
		&models.ExpenseCategory{},
		&models.ExpenseTemplate{},
		&models.Session{},
		&models.OrderItem{},
		&models.Expense{},
	)
}

// Seed mengisi data awal kalau tabelnya masih kosong: user default,
// 12 meja, menu starter, dan template pengeluaran.
func Seed(db *gorm.DB) error {
	if err := seedUsers(db); err != nil {
		return err
	}
	if err := seedTables(db); err != nil {
		return err
	}
	if err := seedProducts(db); err != nil {
		return err
	}
	return seedTemplates(db)
}

func seedUsers(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	adminHash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	waiterHash, err := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []models.User{
		{Username: "admin", Password: string(adminHash), Role: "admin"},
		{Username: "ofisant", Password: string(waiterHash), Role: "waiter"},
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}

	utils.InfoLogger.Println("Default users created: admin, ofisant")
	return nil
}

func seedTables(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Table{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tables := make([]models.Table, 0, 12)
	for i := 1; i <= 12; i++ {
		tables = append(tables, models.Table{
			Number:   i,
			Status:   models.TableAvailable,
			Capacity: 4,
		})
	}
	if err := db.Create(&tables).Error; err != nil {
		return err
	}

	utils.InfoLogger.Println("12 tables created")
	return nil
}

func seedProducts(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	type seedProduct struct {
		name     string
		price    string
		category string
	}
	starter := []seedProduct{
		{"Cola 1L", "3.00", "içki"},
		{"Cola 0.5L", "2.00", "içki"},
		{"Fanta 1L", "3.00", "içki"},
		{"Red Bull", "5.00", "içki"},
		{"Çay Sadə", "2.00", "çay-qəhvə"},
		{"Kofe", "1.00", "çay-qəhvə"},
		{"Pendir Sacaq", "2.00", "qida"},
		{"Pomidor Yumurta", "4.00", "qida"},
		{"Sosiska Yumurta", "4.00", "qida"},
		{"Snickers Böyük", "4.00", "qida"},
		{"Nabor Balaca", "3.50", "set"},
		{"Nabor Böyük", "7.00", "set"},
		{"Qəlyan Saxsı", "10.00", "qəlyan"},
		{"Limon (Əlavə)", "1.00", "digər"},
	}

	products := make([]models.Product, 0, len(starter))
	for _, p := range starter {
		price, err := decimal.NewFromString(p.price)
		if err != nil {
			return err
		}
		products = append(products, models.Product{
			Name:     p.name,
			Price:    price,
			Category: p.category,
			IsActive: true,
		})
	}
	if err := db.Create(&products).Error; err != nil {
		return err
	}

	utils.InfoLogger.Println("Default products created")
	return nil
}

func seedTemplates(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.ExpenseTemplate{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	templates := []models.ExpenseTemplate{
		{Name: "Çay", Category: "Ərzaq", Price: decimal.RequireFromString("5.00")},
		{Name: "Şokolad", Category: "Ərzaq", Price: decimal.RequireFromString("3.50")},
		{Name: "Qab yuyan maye", Category: "Təmizlik", Price: decimal.RequireFromString("2.50")},
	}
	if err := db.Create(&templates).Error; err != nil {
		return err
	}

	utils.InfoLogger.Println("Expense templates seeded")
	return nil
}
