package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/restoran-pos/backend/models"
	"github.com/restoran-pos/backend/utils"
)

type TemplateController struct {
	DB *gorm.DB
}

func NewTemplateController(db *gorm.DB) *TemplateController {
	return &TemplateController{DB: db}
}

// GetAllTemplates -> daftar template pengeluaran
func (tc *TemplateController) GetAllTemplates(c *gin.Context) {
	var templates []models.ExpenseTemplate
	if err := tc.DB.Order("name").Find(&templates).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of templates", templates)
}

// AddTemplate -> tambah template baru
func (tc *TemplateController) AddTemplate(c *gin.Context) {
	var req struct {
		Name     string          `json:"name" binding:"required"`
		Category string          `json:"category" binding:"required"`
		Price    decimal.Decimal `json:"price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	template := models.ExpenseTemplate{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
	}
	if err := tc.DB.Create(&template).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Template added", template)
}

// DeleteTemplate -> hapus template
func (tc *TemplateController) DeleteTemplate(c *gin.Context) {
	templateID := c.Param("template_id")

	var template models.ExpenseTemplate
	if err := tc.DB.First(&template, templateID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := tc.DB.Delete(&template).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Template deleted", gin.H{"id": template.ID})
}
