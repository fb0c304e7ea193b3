package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/restoran-pos/backend/services"
	"github.com/restoran-pos/backend/utils"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{Orders: services.NewOrderService(db)}
}

// AddItem -> tambah (atau kurangi, quantity negatif) produk di sebuah sesi
func (oc *OrderController) AddItem(c *gin.Context) {
	var body struct {
		SessionID uint `json:"session_id" binding:"required"`
		ProductID uint `json:"product_id" binding:"required"`
		Quantity  *int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	quantity := 1
	if body.Quantity != nil {
		quantity = *body.Quantity
	}

	lines, err := oc.Orders.Add(body.SessionID, body.ProductID, quantity)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order updated", lines)
}

// RemoveItem -> hapus satu baris pesanan apapun quantity-nya
func (oc *OrderController) RemoveItem(c *gin.Context) {
	var body struct {
		SessionID uint `json:"session_id" binding:"required"`
		ProductID uint `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	lines, err := oc.Orders.Remove(body.SessionID, body.ProductID)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order updated", lines)
}

// GetSessionItems -> baris pesanan satu sesi, join nama/kategori produk
func (oc *OrderController) GetSessionItems(c *gin.Context) {
	sessionID, err := strconv.Atoi(c.Param("session_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	lines, err := oc.Orders.Lines(uint(sessionID))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order items", lines)
}
