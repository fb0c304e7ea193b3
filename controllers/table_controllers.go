package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/restoran-pos/backend/services"
	"github.com/restoran-pos/backend/utils"
)

type TableController struct {
	Tables *services.TableService
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{Tables: services.NewTableService(db)}
}

// GetAllTables -> semua meja beserta sesi aktifnya kalau ada
func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.Tables.List()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID -> detail satu meja
func (tc *TableController) GetTableByID(c *gin.Context) {
	tableID, err := strconv.Atoi(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.Get(uint(tableID))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTableStatus -> force override status meja oleh admin, sengaja tidak
// memeriksa state sesi (koreksi manual)
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	tableID, err := strconv.Atoi(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.ForceStatus(uint(tableID), body.Status)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table status updated", table)
}
