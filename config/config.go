package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config menampung seluruh konfigurasi proses, dibaca sekali di startup.
type Config struct {
	Port       string
	DBPath     string
	BackupDir  string
	BackupHour int // jam lokal mulai auto-backup, default 21
	BackupKeep int // jumlah file backup yang dipertahankan per prefix
}

func Load() *Config {
	cfg := &Config{
		Port:       getEnv("PORT", "8080"),
		DBPath:     getEnv("DB_PATH", filepath.Join("data", "restaurant.db")),
		BackupDir:  getEnv("BACKUP_DIR", "backup"),
		BackupHour: getEnvInt("BACKUP_HOUR", 21),
		BackupKeep: getEnvInt("BACKUP_KEEP", 7),
	}
	return cfg
}

// InitDB membuka file database sqlite. Store tunggal satu file, satu proses;
// transaksi sqlite adalah satu-satunya primitive konkurensi yang dipakai.
func InitDB(dbPath string) (*gorm.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// WAL + FK seperti pada setup database aslinya
	db.Exec("PRAGMA journal_mode = WAL")
	db.Exec("PRAGMA foreign_keys = ON")
	db.Exec("PRAGMA busy_timeout = 5000")

	return db, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
