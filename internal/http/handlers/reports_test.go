package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventadmin/internal/domain/models"
)

func TestBuildSummaryPDF(t *testing.T) {
	b := models.Bookable{ID: 2, Kind: models.KindEvent, Title: "Spring Gala", Status: models.StatusApproved}
	summary := []models.CategorySummary{
		{CategoryID: 1, CategoryName: "Catering", BudgetAmount: 1000, TotalExpense: 1200, Remaining: -200, ExpenseCount: 3},
		{CategoryID: 2, CategoryName: "Travel", BudgetAmount: 400, Remaining: 400},
	}

	data, filename, err := buildSummaryPDF(b, summary)

	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
	assert.Equal(t, "budget_summary_event_2.pdf", filename)
}

func TestBuildSummaryPDFEmptySummary(t *testing.T) {
	b := models.Bookable{ID: 5, Kind: models.KindWorkshop, Title: "Onboarding", Status: models.StatusPending}

	data, _, err := buildSummaryPDF(b, nil)

	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
