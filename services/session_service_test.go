package services

import (
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/restoran-pos/backend/models"
	"github.com/restoran-pos/backend/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

// setupServiceDB membuat SQLite in-memory dengan nama unik per test supaya
// koneksi dari pool gorm melihat database yang sama tanpa bocor antar test.
func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.Product{},
		&models.ExpenseCategory{},
		&models.ExpenseTemplate{},
		&models.Session{},
		&models.OrderItem{},
		&models.Expense{},
	))
	return db
}

func seedTable(t *testing.T, db *gorm.DB, number int) models.Table {
	t.Helper()
	table := models.Table{Number: number, Status: models.TableAvailable, Capacity: 4}
	require.NoError(t, db.Create(&table).Error)
	return table
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string) models.Product {
	t.Helper()
	product := models.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Category: "qida",
		IsActive: true,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func TestStartSessionOccupiesTable(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewSessionService(db)
	table := seedTable(t, db, 1)

	session, err := svc.Start(table.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.SessionActive, session.Status)
	assert.Equal(t, table.ID, session.TableID)
	assert.Equal(t, 1, session.TableNumber)
	assert.True(t, session.TotalAmount.IsZero())
	assert.Nil(t, session.EndedAt)

	var got models.Table
	require.NoError(t, db.First(&got, table.ID).Error)
	assert.Equal(t, models.TableOccupied, got.Status)
}

func TestStartSessionConflictOnOccupiedTable(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewSessionService(db)
	table := seedTable(t, db, 2)

	_, err := svc.Start(table.ID, nil)
	require.NoError(t, err)

	_, err = svc.Start(table.ID, nil)
	assert.ErrorIs(t, err, utils.ErrConflict)

	var count int64
	require.NoError(t, db.Model(&models.Session{}).
		Where("table_id = ? AND status = ?", table.ID, models.SessionActive).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestStartSessionUnknownTable(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewSessionService(db)

	_, err := svc.Start(999, nil)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

// Dua puluh request start bersamaan ke meja yang sama: tepat satu yang
// menang, sisanya conflict.
func TestConcurrentStartSingleWinner(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewSessionService(db)
	table := seedTable(t, db, 3)

	const workers = 20
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Start(table.ID, nil)
		}(i)
	}
	wg.Wait()

	var won, conflicted int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		default:
			assert.ErrorIs(t, err, utils.ErrConflict)
			conflicted++
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, workers-1, conflicted)
}

func TestEndSessionFinalizesTotalAndFreesTable(t *testing.T) {
	db := setupServiceDB(t)
	sessions := NewSessionService(db)
	orders := NewOrderService(db)

	table := seedTable(t, db, 5)
	cola := seedProduct(t, db, "Cola 1L", "3.00")
	tea := seedProduct(t, db, "Çay Sadə", "2.00")

	session, err := sessions.Start(table.ID, nil)
	require.NoError(t, err)

	_, err = orders.Add(session.ID, cola.ID, 2)
	require.NoError(t, err)
	_, err = orders.Add(session.ID, tea.ID, 3)
	require.NoError(t, err)

	closed, err := sessions.End(session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionClosed, closed.Status)
	require.NotNil(t, closed.EndedAt)
	assert.True(t, closed.TotalAmount.Equal(decimal.RequireFromString("12")),
		"expected 12, got %s", closed.TotalAmount)

	var got models.Table
	require.NoError(t, db.First(&got, table.ID).Error)
	assert.Equal(t, models.TableAvailable, got.Status)
}

func TestEndSessionUnknown(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewSessionService(db)

	_, err := svc.End(42)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

// Menutup sesi yang sudah closed tidak ditolak: total dihitung ulang dan
// ended_at distempel lagi.
func TestEndSessionTwiceRestamps(t *testing.T) {
	db := setupServiceDB(t)
	sessions := NewSessionService(db)
	orders := NewOrderService(db)

	table := seedTable(t, db, 6)
	cola := seedProduct(t, db, "Cola 0.5L", "2.00")

	session, err := sessions.Start(table.ID, nil)
	require.NoError(t, err)
	_, err = orders.Add(session.ID, cola.ID, 1)
	require.NoError(t, err)

	first, err := sessions.End(session.ID)
	require.NoError(t, err)
	require.NotNil(t, first.EndedAt)

	second, err := sessions.End(session.ID)
	require.NoError(t, err)
	require.NotNil(t, second.EndedAt)
	assert.Equal(t, models.SessionClosed, second.Status)
	assert.True(t, second.TotalAmount.Equal(first.TotalAmount))
	assert.False(t, second.EndedAt.Before(*first.EndedAt))
}

func TestGetActiveOrdersOldestFirst(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewSessionService(db)

	t1 := seedTable(t, db, 7)
	t2 := seedTable(t, db, 8)

	first, err := svc.Start(t1.ID, nil)
	require.NoError(t, err)
	second, err := svc.Start(t2.ID, nil)
	require.NoError(t, err)

	active, err := svc.GetActive()
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, first.ID, active[0].ID)
	assert.Equal(t, second.ID, active[1].ID)
}

func TestStatsOnEmptyDatabase(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewSessionService(db)

	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.True(t, stats.TotalRevenue.IsZero())
	assert.True(t, stats.NetRevenue.IsZero())
	assert.Zero(t, stats.DailyOrders)
	assert.Empty(t, stats.TopProducts)
	assert.Equal(t, 0, stats.BestTable.Number)
}

func TestStatsAfterClosedSession(t *testing.T) {
	db := setupServiceDB(t)
	sessions := NewSessionService(db)
	orders := NewOrderService(db)

	table := seedTable(t, db, 9)
	cola := seedProduct(t, db, "Cola 1L", "3.00")

	session, err := sessions.Start(table.ID, nil)
	require.NoError(t, err)
	_, err = orders.Add(session.ID, cola.ID, 4)
	require.NoError(t, err)
	_, err = sessions.End(session.ID)
	require.NoError(t, err)

	stats, err := sessions.Stats()
	require.NoError(t, err)
	assert.True(t, stats.TotalRevenue.Equal(decimal.RequireFromString("12")),
		"expected 12, got %s", stats.TotalRevenue)
	require.Len(t, stats.TopProducts, 1)
	assert.Equal(t, "Cola 1L", stats.TopProducts[0].Name)
	assert.Equal(t, int64(4), stats.TopProducts[0].TotalQty)
	assert.Equal(t, 9, stats.BestTable.Number)
}
