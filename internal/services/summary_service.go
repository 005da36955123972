package services

import (
	"context"
	"database/sql"

	"eventadmin/internal/authz"
	"eventadmin/internal/domain"
	"eventadmin/internal/domain/models"
	"eventadmin/internal/repositories"
)

// SummaryService derives remaining budget per category. It is read-only and
// recomputes on every call; no aggregate is persisted.
type SummaryService struct {
	DB *sql.DB
}

// Summarize returns one row per budget line of the bookable. budgetAmount is
// the approved amount when a reviewer set one, else the requested amount.
// remaining = budgetAmount - totalExpense and may be negative on overspend.
func (s SummaryService) Summarize(ctx context.Context, caller domain.Caller, bookableID int64) ([]models.CategorySummary, error) {
	b, err := repositories.BookableRepository{DB: s.DB}.GetByID(ctx, bookableID)
	if err != nil {
		return nil, err
	}
	if !authz.CanView(caller, b) {
		return nil, domain.PermissionError{Action: "view summary"}
	}

	lines, err := repositories.BudgetRepository{DB: s.DB}.ListLines(ctx, bookableID)
	if err != nil {
		return nil, err
	}
	totals, err := repositories.ExpenseRepository{DB: s.DB}.TotalsByCategory(ctx, bookableID)
	if err != nil {
		return nil, err
	}

	return BuildSummary(lines, totals), nil
}

// BuildSummary combines budget lines with per-category expense totals.
// Expenses in categories without a budget line are not reported; only the
// submitted categories are summarized.
func BuildSummary(lines []models.BudgetLine, totals map[int64]repositories.CategoryTotal) []models.CategorySummary {
	out := make([]models.CategorySummary, 0, len(lines))
	for _, l := range lines {
		budget := l.RequestedAmount
		if l.HasApproved {
			budget = l.ApprovedAmount
		}
		t := totals[l.CategoryID]
		out = append(out, models.CategorySummary{
			CategoryID:   l.CategoryID,
			CategoryName: l.CategoryName,
			BudgetAmount: budget,
			TotalExpense: t.Total,
			Remaining:    budget - t.Total,
			ExpenseCount: t.Count,
		})
	}
	return out
}
