package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/restoran-pos/backend/models"
	"github.com/restoran-pos/backend/utils"
)

type ProductController struct {
	DB *gorm.DB
}

func NewProductController(db *gorm.DB) *ProductController {
	return &ProductController{DB: db}
}

// GetAllProducts -> daftar produk, ?active=1 hanya yang bisa dipesan
func (pc *ProductController) GetAllProducts(c *gin.Context) {
	query := pc.DB.Order("category, name")
	if c.Query("active") == "1" {
		query = query.Where("is_active = ?", true)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of products", products)
}

// CreateProduct -> tambah produk baru (admin)
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req struct {
		Name     string          `json:"name" binding:"required"`
		Price    decimal.Decimal `json:"price" binding:"required"`
		Category string          `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	product := models.Product{
		Name:     req.Name,
		Price:    req.Price,
		Category: "general",
		IsActive: true,
	}
	if req.Category != "" {
		product.Category = req.Category
	}

	if err := pc.DB.Create(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New product created: %s (%s)", product.Name, product.Price)
	utils.RespondJSON(c, http.StatusCreated, "Product created", product)
}

// UpdateProduct -> ubah nama/harga/kategori. Harga baru tidak mengubah
// unit_price baris pesanan yang sudah ada (snapshot saat insert).
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	productID := c.Param("product_id")

	var product models.Product
	if err := pc.DB.First(&product, productID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Name     *string          `json:"name"`
		Price    *decimal.Decimal `json:"price"`
		Category *string          `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Category != nil {
		product.Category = *req.Category
	}

	if err := pc.DB.Save(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Product updated", product)
}

// ToggleProduct -> aktif/nonaktifkan produk (soft delete untuk menu)
func (pc *ProductController) ToggleProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("product_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var product models.Product
	if err := pc.DB.First(&product, productID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	product.IsActive = !product.IsActive
	if err := pc.DB.Save(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Product %d active=%v", product.ID, product.IsActive)
	utils.RespondJSON(c, http.StatusOK, "Product toggled", product)
}
