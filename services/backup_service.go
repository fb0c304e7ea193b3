package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/restoran-pos/backend/utils"
)

// exportTables adalah daftar koleksi yang ikut snapshot, urut dependency FK:
// parent sebelum child. Restore menghapus dengan urutan terbalik dan
// meng-insert dengan urutan ini supaya constraint FK tidak pernah terlanggar
// di tengah transaksi.
var exportTables = []string{
	"users",
	"tables",
	"products",
	"expense_templates",
	"sessions",
	"order_items",
	"expenses",
}

const backupVersion = 1

// BackupPayload adalah isi satu file snapshot.
type BackupPayload struct {
	Version    int                                 `json:"version"`
	ExportedAt time.Time                           `json:"exported_at"`
	Auto       bool                                `json:"auto"`
	Tables     map[string][]map[string]interface{} `json:"tables"`
}

// BackupService membuat snapshot logical seluruh state, menyimpan/memangkas
// file snapshot, dan me-restore state dari payload.
type BackupService struct {
	DB   *gorm.DB
	Dir  string
	Keep int
}

func NewBackupService(db *gorm.DB, dir string, keep int) *BackupService {
	if keep <= 0 {
		keep = 7
	}
	return &BackupService{DB: db, Dir: dir, Keep: keep}
}

// CreateSnapshot menyerialisasi setiap baris dari setiap koleksi ke satu
// payload. Semua tabel dibaca dalam satu transaksi supaya snapshot konsisten.
func (bs *BackupService) CreateSnapshot(auto bool) (*BackupPayload, error) {
	payload := &BackupPayload{
		Version:    backupVersion,
		ExportedAt: time.Now(),
		Auto:       auto,
		Tables:     make(map[string][]map[string]interface{}, len(exportTables)),
	}

	err := bs.DB.Transaction(func(tx *gorm.DB) error {
		for _, table := range exportTables {
			rows := make([]map[string]interface{}, 0)
			if err := tx.Table(table).Order("id").Find(&rows).Error; err != nil {
				return fmt.Errorf("export %s: %w", table, err)
			}
			payload.Tables[table] = rows
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return payload, nil
}

// WriteManual menulis snapshot manual (backup-YYYY-MM-DD-HH-mm.json) ke
// direktori backup, menjalankan retention, dan mengembalikan nama file plus
// isi JSON-nya untuk dikirim ke browser.
func (bs *BackupService) WriteManual() (string, []byte, error) {
	payload, err := bs.CreateSnapshot(false)
	if err != nil {
		return "", nil, err
	}

	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", nil, err
	}

	filename := fmt.Sprintf("backup-%s.json", time.Now().Format("2006-01-02-15-04"))
	if err := bs.writeFile(filename, raw); err != nil {
		return "", nil, err
	}
	utils.InfoLogger.Printf("Manual backup saved: %s", filename)

	if err := bs.ApplyRetention("backup-", bs.Keep); err != nil {
		utils.ErrorLogger.Printf("Retention cleanup error: %v", err)
	}

	return filename, raw, nil
}

// RunNightly membuat snapshot otomatis harian (auto-backup-YYYY-MM-DD.json)
// kalau file untuk hari ini belum ada. Mengembalikan true kalau snapshot
// baru dibuat.
func (bs *BackupService) RunNightly(now time.Time) (bool, error) {
	filename := fmt.Sprintf("auto-backup-%s.json", now.Format("2006-01-02"))
	path := filepath.Join(bs.Dir, filename)

	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	payload, err := bs.CreateSnapshot(true)
	if err != nil {
		return false, err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return false, err
	}

	if err := bs.writeFile(filename, raw); err != nil {
		return false, err
	}
	utils.InfoLogger.Printf("Auto-backup created: %s", filename)

	if err := bs.ApplyRetention("auto-backup-", bs.Keep); err != nil {
		utils.ErrorLogger.Printf("Retention cleanup error: %v", err)
	}

	return true, nil
}

// ApplyRetention menghapus semua file snapshot dengan prefix tertentu kecuali
// keep file terbaru. Nama file memuat timestamp yang bisa di-sort, jadi urut
// nama descending = terbaru duluan.
func (bs *BackupService) ApplyRetention(prefix string, keep int) error {
	entries, err := os.ReadDir(bs.Dir)
	if err != nil {
		return err
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		names = append(names, name)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	for _, old := range names[min(keep, len(names)):] {
		if err := os.Remove(filepath.Join(bs.Dir, old)); err != nil {
			utils.ErrorLogger.Printf("Retention: remove %s: %v", old, err)
			continue
		}
		utils.InfoLogger.Printf("Retention: removed old backup %s", old)
	}

	return nil
}

// Restore mengganti seluruh state dengan isi payload dalam satu transaksi
// all-or-nothing: FK enforcement dimatikan, semua baris dihapus urut
// dependency terbalik (child dulu), lalu baris payload di-insert urut maju
// (parent dulu) dengan insert-if-absent, lalu FK dinyalakan lagi. Kegagalan
// di tengah membatalkan semuanya dan state lama tetap utuh.
func (bs *BackupService) Restore(payload *BackupPayload) error {
	if payload == nil || payload.Tables == nil {
		return fmt.Errorf("backup payload has no tables map: %w", utils.ErrValidation)
	}

	bs.DB.Exec("PRAGMA foreign_keys = OFF")
	defer bs.DB.Exec("PRAGMA foreign_keys = ON")

	return bs.DB.Transaction(func(tx *gorm.DB) error {
		for i := len(exportTables) - 1; i >= 0; i-- {
			table := exportTables[i]
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
			// reset autoincrement counter; tabel tanpa counter bukan error
			tx.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table)
		}

		for _, table := range exportTables {
			rows := payload.Tables[table]
			if len(rows) == 0 {
				continue
			}
			if err := tx.Table(table).
				Clauses(clause.OnConflict{DoNothing: true}).
				Create(&rows).Error; err != nil {
				return fmt.Errorf("restore %s: %w", table, err)
			}
		}

		return nil
	})
}

// RestoreJSON memvalidasi dan menerapkan payload mentah (upload file).
func (bs *BackupService) RestoreJSON(raw []byte) error {
	var payload BackupPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("file is not valid JSON: %w", utils.ErrValidation)
	}
	return bs.Restore(&payload)
}

func (bs *BackupService) writeFile(filename string, raw []byte) error {
	if err := os.MkdirAll(bs.Dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(bs.Dir, filename), raw, 0o644)
}
