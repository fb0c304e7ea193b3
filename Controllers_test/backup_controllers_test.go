package Controllers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/restoran-pos/backend/controllers"
	"github.com/restoran-pos/backend/models"
	"github.com/restoran-pos/backend/services"
)

func setupBackupRouter(db *gorm.DB, dir string) *gin.Engine {
	router := gin.New()
	backupCtrl := controllers.NewBackupController(db, dir, 7)
	router.POST("/backup/create", backupCtrl.CreateBackup)
	router.POST("/backup/restore", backupCtrl.RestoreBackup)
	return router
}

func TestCreateBackupDownload(t *testing.T) {
	db := setupTestDB()
	createTable(db, 1)
	createProduct(db, "Cola 1L", "3.00")
	router := setupBackupRouter(db, t.TempDir())

	req, _ := http.NewRequest("POST", "/backup/create", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "backup-")

	var payload services.BackupPayload
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, 1, payload.Version)
	assert.Len(t, payload.Tables["tables"], 1)
	assert.Len(t, payload.Tables["products"], 1)
}

func TestRestoreBackupUpload(t *testing.T) {
	db := setupTestDB()
	createTable(db, 1)
	createProduct(db, "Cola 1L", "3.00")
	router := setupBackupRouter(db, t.TempDir())

	// unduh snapshot dulu
	req, _ := http.NewRequest("POST", "/backup/create", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	snapshot := w.Body.Bytes()

	// rusak state
	db.Exec("DELETE FROM products")

	// upload snapshot sebagai multipart form
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "backup.json")
	assert.NoError(t, err)
	_, err = part.Write(snapshot)
	assert.NoError(t, err)
	assert.NoError(t, mw.Close())

	req, _ = http.NewRequest("POST", "/backup/restore", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Product{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRestoreBackupRejectsBadInput(t *testing.T) {
	db := setupTestDB()
	router := setupBackupRouter(db, t.TempDir())

	// tanpa file -> 400
	req, _ := http.NewRequest("POST", "/backup/restore", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// file bukan JSON -> 400, state lama utuh
	createTable(db, 1)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("file", "rosak.json")
	_, _ = part.Write([]byte(strings.Repeat("x", 32)))
	_ = mw.Close()

	req, _ = http.NewRequest("POST", "/backup/restore", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.Table{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
