package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/restoran-pos/backend/services"
	"github.com/restoran-pos/backend/utils"
)

type SessionController struct {
	Sessions *services.SessionService
}

func NewSessionController(db *gorm.DB) *SessionController {
	return &SessionController{Sessions: services.NewSessionService(db)}
}

// StartSession -> buka sesi baru di sebuah meja
func (sc *SessionController) StartSession(c *gin.Context) {
	var body struct {
		TableID uint `json:"table_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var waiterID *uint
	if v, exists := c.Get("userID"); exists {
		if id, ok := v.(uint); ok {
			waiterID = &id
		}
	}

	session, err := sc.Sessions.Start(body.TableID, waiterID)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Session started", session)
}

// EndSession -> tutup sesi, hitung total final, lepas meja
func (sc *SessionController) EndSession(c *gin.Context) {
	var body struct {
		SessionID uint `json:"session_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	session, err := sc.Sessions.End(body.SessionID)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Session closed", session)
}

// GetActiveSessions -> sesi aktif, paling lama duluan
func (sc *SessionController) GetActiveSessions(c *gin.Context) {
	sessions, err := sc.Sessions.GetActive()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active sessions", sessions)
}

// GetSessionsByTable -> riwayat sesi satu meja
func (sc *SessionController) GetSessionsByTable(c *gin.Context) {
	tableID, err := strconv.Atoi(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	sessions, err := sc.Sessions.GetByTable(uint(tableID))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Sessions for table", sessions)
}

// GetStats -> statistik dashboard
func (sc *SessionController) GetStats(c *gin.Context) {
	stats, err := sc.Sessions.Stats()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Session stats", stats)
}
