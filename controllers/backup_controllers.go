package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/restoran-pos/backend/services"
	"github.com/restoran-pos/backend/utils"
)

type BackupController struct {
	Backup *services.BackupService
}

func NewBackupController(db *gorm.DB, backupDir string, keep int) *BackupController {
	return &BackupController{Backup: services.NewBackupService(db, backupDir, keep)}
}

// CreateBackup -> snapshot manual: simpan ke direktori backup, jalankan
// retention, dan kirim file-nya ke browser sebagai download
func (bc *BackupController) CreateBackup(c *gin.Context) {
	filename, raw, err := bc.Backup.WriteManual()
	if err != nil {
		utils.ErrorLogger.Printf("Backup failed: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/json", raw)
}

// RestoreBackup -> ganti seluruh state dari file JSON yang di-upload.
// Kegagalan di tengah me-rollback seluruh transaksi, state lama utuh.
func (bc *BackupController) RestoreBackup(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("no file uploaded"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := bc.Backup.RestoreJSON(raw); err != nil {
		utils.ErrorLogger.Printf("Restore failed: %v", err)
		utils.RespondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Backup restored from %s", fileHeader.Filename)
	utils.RespondJSON(c, http.StatusOK, "Backup restored successfully", nil)
}
