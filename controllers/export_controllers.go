package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/restoran-pos/backend/models"
	"github.com/restoran-pos/backend/utils"
)

// ExportController menghasilkan workbook Excel berisi sesi, pesanan, produk
// dan pengeluaran untuk diunduh admin.
type ExportController struct {
	DB *gorm.DB
}

func NewExportController(db *gorm.DB) *ExportController {
	return &ExportController{DB: db}
}

// Excel -> susun workbook dan stream sebagai attachment
func (xc *ExportController) Excel(c *gin.Context) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4F46E5"}},
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	expenseHeaderStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DC2626"}},
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := xc.sessionsSheet(f, headerStyle); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := xc.ordersSheet(f, headerStyle); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := xc.productsSheet(f, headerStyle); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := xc.expensesSheet(f, expenseHeaderStyle); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := xc.dailyExpensesSheet(f, expenseHeaderStyle); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Sheet default bawaan excelize tidak terpakai
	f.DeleteSheet("Sheet1")

	filename := fmt.Sprintf("restoran_hesabat_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%s`, filename))

	if err := f.Write(c.Writer); err != nil {
		utils.ErrorLogger.Printf("Excel export failed: %v", err)
	}
}

func (xc *ExportController) sessionsSheet(f *excelize.File, style int) error {
	const sheet = "Sessions"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"ID", "Table", "Started", "Ended", "Amount", "Status"}
	writeHeader(f, sheet, headers, style)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 10)
	f.SetColWidth(sheet, "C", "D", 20)
	f.SetColWidth(sheet, "E", "F", 12)

	var sessions []models.SessionDetail
	if err := xc.DB.Model(&models.Session{}).
		Select("sessions.*, tables.number AS table_number").
		Joins("JOIN tables ON tables.id = sessions.table_id").
		Order("sessions.started_at DESC").
		Limit(500).
		Find(&sessions).Error; err != nil {
		return err
	}

	for i, s := range sessions {
		row := i + 2
		ended := ""
		if s.EndedAt != nil {
			ended = s.EndedAt.Format("2006-01-02 15:04")
		}
		f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &[]interface{}{
			s.ID,
			s.TableNumber,
			s.StartedAt.Format("2006-01-02 15:04"),
			ended,
			s.TotalAmount.InexactFloat64(),
			s.Status,
		})
	}
	return nil
}

func (xc *ExportController) ordersSheet(f *excelize.File, style int) error {
	const sheet = "Orders"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Session ID", "Product", "Qty", "Unit Price", "Line Total", "Date"}
	writeHeader(f, sheet, headers, style)
	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "B", "B", 25)
	f.SetColWidth(sheet, "C", "C", 10)
	f.SetColWidth(sheet, "D", "E", 14)
	f.SetColWidth(sheet, "F", "F", 20)

	var lines []models.OrderLine
	if err := xc.DB.Model(&models.OrderItem{}).
		Select(`order_items.id, order_items.session_id, order_items.product_id,
			products.name AS product_name, products.category,
			order_items.quantity, order_items.unit_price,
			(order_items.quantity * order_items.unit_price) AS line_total,
			order_items.created_at`).
		Joins("JOIN products ON products.id = order_items.product_id").
		Order("order_items.created_at DESC").
		Limit(1000).
		Find(&lines).Error; err != nil {
		return err
	}

	for i, line := range lines {
		row := i + 2
		f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &[]interface{}{
			line.SessionID,
			line.ProductName,
			line.Quantity,
			line.UnitPrice.InexactFloat64(),
			line.LineTotal.InexactFloat64(),
			line.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	return nil
}

func (xc *ExportController) productsSheet(f *excelize.File, style int) error {
	const sheet = "Products"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"ID", "Name", "Price", "Category", "Active"}
	writeHeader(f, sheet, headers, style)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 25)
	f.SetColWidth(sheet, "C", "C", 12)
	f.SetColWidth(sheet, "D", "D", 15)
	f.SetColWidth(sheet, "E", "E", 10)

	var products []models.Product
	if err := xc.DB.Order("name").Find(&products).Error; err != nil {
		return err
	}

	for i, p := range products {
		row := i + 2
		f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &[]interface{}{
			p.ID, p.Name, p.Price.InexactFloat64(), p.Category, p.IsActive,
		})
	}
	return nil
}

func (xc *ExportController) expensesSheet(f *excelize.File, style int) error {
	const sheet = "Expenses"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"ID", "Description", "Category", "Amount", "Date", "Added By"}
	writeHeader(f, sheet, headers, style)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 30)
	f.SetColWidth(sheet, "C", "C", 15)
	f.SetColWidth(sheet, "D", "D", 12)
	f.SetColWidth(sheet, "E", "E", 14)
	f.SetColWidth(sheet, "F", "F", 15)

	var expenses []models.Expense
	if err := xc.DB.Order("date DESC, created_at DESC").Limit(1000).
		Find(&expenses).Error; err != nil {
		return err
	}

	for i, e := range expenses {
		row := i + 2
		f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &[]interface{}{
			e.ID, e.Description, e.Category, e.Amount.InexactFloat64(), e.Date, e.AddedByName,
		})
	}
	return nil
}

func (xc *ExportController) dailyExpensesSheet(f *excelize.File, style int) error {
	const sheet = "Daily Expenses"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"ID", "Description", "Category", "Amount", "Date", "Added By"}
	writeHeader(f, sheet, headers, style)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 30)
	f.SetColWidth(sheet, "C", "C", 15)
	f.SetColWidth(sheet, "D", "D", 14)
	f.SetColWidth(sheet, "E", "E", 14)
	f.SetColWidth(sheet, "F", "F", 15)

	today := time.Now().Format("2006-01-02")
	var expenses []models.Expense
	if err := xc.DB.Where("date = ?", today).Order("created_at DESC").
		Find(&expenses).Error; err != nil {
		return err
	}

	total := 0.0
	for i, e := range expenses {
		row := i + 2
		total += e.Amount.InexactFloat64()
		f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &[]interface{}{
			e.ID, e.Description, e.Category, e.Amount.InexactFloat64(), e.Date, e.AddedByName,
		})
	}

	// Baris ringkasan di bawah daftar
	summaryRow := len(expenses) + 2
	f.SetSheetRow(sheet, fmt.Sprintf("A%d", summaryRow), &[]interface{}{
		"", fmt.Sprintf("TOTAL: %d expenses", len(expenses)), "", total, today, "",
	})

	numFmt := "#,##0.00"
	amountStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return err
	}
	f.SetColStyle(sheet, "D", amountStyle)
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	endCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheet, "A1", endCell, style)
}
