package Controllers_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/restoran-pos/backend/models"
	"github.com/restoran-pos/backend/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// setupTestDB menggunakan SQLite in-memory dengan nama unik per test
func setupTestDB() *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.Product{},
		&models.ExpenseCategory{},
		&models.ExpenseTemplate{},
		&models.Session{},
		&models.OrderItem{},
		&models.Expense{},
	)
	if err != nil {
		panic(err)
	}
	return db
}

func createTable(db *gorm.DB, number int) models.Table {
	table := models.Table{Number: number, Status: models.TableAvailable, Capacity: 4}
	db.Create(&table)
	return table
}

func createProduct(db *gorm.DB, name, price string) models.Product {
	product := models.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Category: "qida",
		IsActive: true,
	}
	db.Create(&product)
	return product
}
