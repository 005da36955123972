package handlers

import (
	"bytes"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phpdave11/gofpdf"

	"eventadmin/internal/domain/models"
	"eventadmin/internal/repositories"
	"eventadmin/internal/services"
	"eventadmin/internal/utils"
)

type ReportHandler struct {
	DB *sql.DB
}

// GET /api/{events,workshops}/:id/summary
func (h ReportHandler) Summary(c *gin.Context) {
	caller, ok := CallerOrAbort(c)
	if !ok {
		return
	}
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	summary, err := services.SummaryService{DB: h.DB}.Summarize(c.Request.Context(), caller, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GET /api/{events,workshops}/:id/summary/pdf
func (h ReportHandler) SummaryPDF(c *gin.Context) {
	caller, ok := CallerOrAbort(c)
	if !ok {
		return
	}
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	summary, err := services.SummaryService{DB: h.DB}.Summarize(ctx, caller, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	b, err := repositories.BookableRepository{DB: h.DB}.GetByID(ctx, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	data, filename, err := buildSummaryPDF(b, summary)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

func buildSummaryPDF(b models.Bookable, summary []models.CategorySummary) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Budget Summary", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BUDGET SUMMARY")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Title  : %s", b.Title))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Kind   : %s", b.Kind))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Status : %s", b.Status))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(60, 8, "Category", "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 8, "Budget", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Spent", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Remaining", "1", 0, "R", false, 0, "")
	pdf.CellFormat(15, 8, "#", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	var totalBudget, totalSpent float64
	for _, row := range summary {
		pdf.CellFormat(60, 8, row.CategoryName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 8, utils.FormatMoney(row.BudgetAmount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, utils.FormatMoney(row.TotalExpense), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, utils.FormatMoney(row.Remaining), "1", 0, "R", false, 0, "")
		pdf.CellFormat(15, 8, fmt.Sprintf("%d", row.ExpenseCount), "1", 1, "R", false, 0, "")
		totalBudget += row.BudgetAmount
		totalSpent += row.TotalExpense
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(60, 8, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 8, utils.FormatMoney(totalBudget), "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, utils.FormatMoney(totalSpent), "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, utils.FormatMoney(totalBudget-totalSpent), "1", 0, "R", false, 0, "")
	pdf.CellFormat(15, 8, "", "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("budget_summary_%s_%d.pdf", b.Kind, b.ID)
	return buf.Bytes(), filename, nil
}
