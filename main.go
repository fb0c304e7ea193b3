package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/restoran-pos/backend/config"
	"github.com/restoran-pos/backend/database"
	"github.com/restoran-pos/backend/router"
	"github.com/restoran-pos/backend/services"
	"github.com/restoran-pos/backend/utils"
)

func init() {
	// Load .env file di awal sebelum apapun
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	cfg := config.Load()

	db, err := config.InitDB(cfg.DBPath)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate database: %v", err)
	}
	if err := database.Seed(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed database: %v", err)
	}

	// Backup otomatis tiap malam + retensi file lama
	backupSvc := services.NewBackupService(db, cfg.BackupDir, cfg.BackupKeep)
	scheduler := services.NewBackupScheduler(backupSvc, cfg.BackupHour)
	scheduler.Start()
	defer scheduler.Stop()

	r := router.SetupRouter(db, cfg)

	utils.InfoLogger.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatalf("Failed to start server: %v", err)
	}
}
