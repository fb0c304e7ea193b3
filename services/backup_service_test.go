package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/restoran-pos/backend/models"
	"github.com/restoran-pos/backend/utils"
)

func seedBackupFixture(t *testing.T, db *gorm.DB) {
	t.Helper()

	table := seedTable(t, db, 1)
	cola := seedProduct(t, db, "Cola 1L", "3.00")

	sessions := NewSessionService(db)
	orders := NewOrderService(db)

	session, err := sessions.Start(table.ID, nil)
	require.NoError(t, err)
	_, err = orders.Add(session.ID, cola.ID, 2)
	require.NoError(t, err)
	_, err = sessions.End(session.ID)
	require.NoError(t, err)

	expense := models.Expense{
		Description: "Çay alışı",
		Category:    "Ərzaq",
		Amount:      decimal.RequireFromString("5.00"),
		Date:        "2026-08-30",
	}
	require.NoError(t, db.Create(&expense).Error)
}

func TestSnapshotContainsAllTables(t *testing.T) {
	db := setupServiceDB(t)
	seedBackupFixture(t, db)
	svc := NewBackupService(db, t.TempDir(), 7)

	payload, err := svc.CreateSnapshot(false)
	require.NoError(t, err)

	assert.Equal(t, 1, payload.Version)
	assert.False(t, payload.Auto)
	for _, table := range exportTables {
		_, ok := payload.Tables[table]
		assert.True(t, ok, "missing table %s in snapshot", table)
	}
	assert.Len(t, payload.Tables["tables"], 1)
	assert.Len(t, payload.Tables["sessions"], 1)
	assert.Len(t, payload.Tables["order_items"], 1)
	assert.Len(t, payload.Tables["expenses"], 1)
}

// Snapshot lalu restore setelah data diubah harus mengembalikan state persis
// seperti saat snapshot.
func TestSnapshotRestoreRoundTrip(t *testing.T) {
	db := setupServiceDB(t)
	seedBackupFixture(t, db)
	svc := NewBackupService(db, t.TempDir(), 7)

	payload, err := svc.CreateSnapshot(false)
	require.NoError(t, err)

	// rusak state: hapus order lines dan expenses, tambah meja baru
	require.NoError(t, db.Exec("DELETE FROM order_items").Error)
	require.NoError(t, db.Exec("DELETE FROM expenses").Error)
	seedTable(t, db, 99)

	require.NoError(t, svc.Restore(payload))

	var tableCount, itemCount, expenseCount int64
	require.NoError(t, db.Model(&models.Table{}).Count(&tableCount).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	require.NoError(t, db.Model(&models.Expense{}).Count(&expenseCount).Error)
	assert.Equal(t, int64(1), tableCount)
	assert.Equal(t, int64(1), itemCount)
	assert.Equal(t, int64(1), expenseCount)

	var session models.Session
	require.NoError(t, db.First(&session).Error)
	assert.Equal(t, models.SessionClosed, session.Status)
	assert.True(t, session.TotalAmount.Equal(decimal.RequireFromString("6")),
		"expected 6, got %s", session.TotalAmount)
}

func TestRestoreJSONRoundTrip(t *testing.T) {
	db := setupServiceDB(t)
	seedBackupFixture(t, db)
	svc := NewBackupService(db, t.TempDir(), 7)

	payload, err := svc.CreateSnapshot(false)
	require.NoError(t, err)
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	require.NoError(t, db.Exec("DELETE FROM order_items").Error)

	require.NoError(t, svc.RestoreJSON(raw))

	var itemCount int64
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.Equal(t, int64(1), itemCount)
}

func TestRestoreRejectsInvalidPayload(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewBackupService(db, t.TempDir(), 7)

	err := svc.Restore(&BackupPayload{Version: 1})
	assert.ErrorIs(t, err, utils.ErrValidation)

	err = svc.RestoreJSON([]byte("bukan json"))
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestWriteManualCreatesFile(t *testing.T) {
	db := setupServiceDB(t)
	seedBackupFixture(t, db)
	dir := t.TempDir()
	svc := NewBackupService(db, dir, 7)

	filename, raw, err := svc.WriteManual()
	require.NoError(t, err)
	assert.Regexp(t, `^backup-\d{4}-\d{2}-\d{2}-\d{2}-\d{2}\.json$`, filename)

	onDisk, err := os.ReadFile(filepath.Join(dir, filename))
	require.NoError(t, err)
	assert.Equal(t, raw, onDisk)

	var payload BackupPayload
	require.NoError(t, json.Unmarshal(onDisk, &payload))
	assert.Equal(t, 1, payload.Version)
	assert.False(t, payload.Auto)
}

// Retention menyisakan keep file terbaru per prefix; prefix lain tidak
// tersentuh.
func TestApplyRetentionKeepsNewest(t *testing.T) {
	db := setupServiceDB(t)
	dir := t.TempDir()
	svc := NewBackupService(db, dir, 7)

	for day := 1; day <= 10; day++ {
		name := fmt.Sprintf("auto-backup-2026-08-%02d.json", day)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "backup-2026-08-01-10-00.json"), []byte("{}"), 0o644))

	require.NoError(t, svc.ApplyRetention("auto-backup-", 7))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var auto []string
	manual := 0
	for _, entry := range entries {
		name := entry.Name()
		switch {
		case len(name) > 12 && name[:12] == "auto-backup-":
			auto = append(auto, name)
		default:
			manual++
		}
	}
	require.Len(t, auto, 7)
	assert.Equal(t, 1, manual)
	// tiga hari pertama (tertua) yang dipangkas
	for _, name := range auto {
		assert.NotContains(t, []string{
			"auto-backup-2026-08-01.json",
			"auto-backup-2026-08-02.json",
			"auto-backup-2026-08-03.json",
		}, name)
	}
}

func TestRunNightlySkipsExistingFile(t *testing.T) {
	db := setupServiceDB(t)
	seedBackupFixture(t, db)
	dir := t.TempDir()
	svc := NewBackupService(db, dir, 7)

	now := mustParseTime(t, "2026-08-30T22:15:00+04:00")

	created, err := svc.RunNightly(now)
	require.NoError(t, err)
	assert.True(t, created)

	path := filepath.Join(dir, "auto-backup-2026-08-30.json")
	first, err := os.Stat(path)
	require.NoError(t, err)

	created, err = svc.RunNightly(now)
	require.NoError(t, err)
	assert.False(t, created)

	second, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, first.ModTime(), second.ModTime())
}
