package services

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"eventadmin/internal/authz"
	"eventadmin/internal/domain"
	"eventadmin/internal/domain/models"
	"eventadmin/internal/repositories"
	"eventadmin/internal/utils"
)

// ExpenseInput is the write payload for an expense. Amount is optional; the
// server recomputes it from quantity and unit price and rejects a mismatch.
type ExpenseInput struct {
	CategoryID int64   `json:"categoryId"`
	ItemName   string  `json:"itemName"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	Amount     float64 `json:"amount"`
}

type ExpenseService struct {
	DB        *sql.DB
	RequestID string
}

const amountTolerance = 0.009

func (s ExpenseService) List(ctx context.Context, caller domain.Caller, bookableID int64) ([]models.Expense, error) {
	if _, err := s.visibleBookable(ctx, caller, bookableID); err != nil {
		return nil, err
	}
	return repositories.ExpenseRepository{DB: s.DB}.ListByBookable(ctx, bookableID)
}

func (s ExpenseService) Create(ctx context.Context, caller domain.Caller, bookableID int64, in ExpenseInput) (models.Expense, error) {
	if !authz.Allow(caller.Role, authz.ActionCreateExpense) {
		return models.Expense{}, domain.PermissionError{Action: authz.ActionCreateExpense}
	}

	b, err := repositories.BookableRepository{DB: s.DB}.GetByID(ctx, bookableID)
	if err != nil {
		return models.Expense{}, err
	}
	if caller.Role == domain.RoleTeamLead && b.CreatorID != caller.ID {
		return models.Expense{}, domain.PermissionError{Action: authz.ActionCreateExpense}
	}

	amount, err := s.validateInput(ctx, in)
	if err != nil {
		return models.Expense{}, err
	}

	repo := repositories.ExpenseRepository{DB: s.DB}
	id, err := repo.Create(ctx, models.Expense{
		BookableID: bookableID,
		CategoryID: in.CategoryID,
		ItemName:   in.ItemName,
		Quantity:   in.Quantity,
		UnitPrice:  in.UnitPrice,
		Amount:     amount,
		AddedBy:    caller.ID,
	})
	if err != nil {
		return models.Expense{}, err
	}
	utils.LogEvent(s.RequestID, "expense", "create",
		fmt.Sprintf("bookable_id=%d expense_id=%d amount=%s", bookableID, id, utils.FormatMoney(amount)))
	return repo.GetByID(ctx, id)
}

func (s ExpenseService) Update(ctx context.Context, caller domain.Caller, expenseID int64, in ExpenseInput) (models.Expense, error) {
	if !authz.Allow(caller.Role, authz.ActionCreateExpense) {
		return models.Expense{}, domain.PermissionError{Action: authz.ActionCreateExpense}
	}

	repo := repositories.ExpenseRepository{DB: s.DB}
	existing, err := repo.GetByID(ctx, expenseID)
	if err != nil {
		return models.Expense{}, err
	}
	b, err := repositories.BookableRepository{DB: s.DB}.GetByID(ctx, existing.BookableID)
	if err != nil {
		return models.Expense{}, err
	}
	if caller.Role == domain.RoleTeamLead && b.CreatorID != caller.ID {
		return models.Expense{}, domain.PermissionError{Action: authz.ActionCreateExpense}
	}

	amount, err := s.validateInput(ctx, in)
	if err != nil {
		return models.Expense{}, err
	}

	existing.CategoryID = in.CategoryID
	existing.ItemName = in.ItemName
	existing.Quantity = in.Quantity
	existing.UnitPrice = in.UnitPrice
	existing.Amount = amount
	if err := repo.Update(ctx, existing); err != nil {
		return models.Expense{}, err
	}
	return repo.GetByID(ctx, expenseID)
}

func (s ExpenseService) Delete(ctx context.Context, caller domain.Caller, expenseID int64) error {
	if !authz.Allow(caller.Role, authz.ActionDeleteExpense) {
		return domain.PermissionError{Action: authz.ActionDeleteExpense}
	}
	return repositories.ExpenseRepository{DB: s.DB}.Delete(ctx, expenseID)
}

// validateInput checks the payload and returns the authoritative amount.
// A client-supplied amount that disagrees with quantity*unitPrice beyond
// rounding is rejected rather than trusted.
func (s ExpenseService) validateInput(ctx context.Context, in ExpenseInput) (float64, error) {
	if in.ItemName == "" {
		return 0, domain.ValidationError{Field: "itemName", Msg: "must not be empty"}
	}
	if in.Quantity <= 0 {
		return 0, domain.ValidationError{Field: "quantity", Msg: "must be positive"}
	}
	if in.UnitPrice < 0 {
		return 0, domain.ValidationError{Field: "unitPrice", Msg: "must not be negative"}
	}
	if in.CategoryID <= 0 {
		return 0, domain.ValidationError{Field: "categoryId", Msg: "must be provided"}
	}
	if _, err := (repositories.CategoryRepository{DB: s.DB}).GetByID(ctx, in.CategoryID); err != nil {
		return 0, err
	}

	amount := float64(in.Quantity) * in.UnitPrice
	if in.Amount != 0 && math.Abs(in.Amount-amount) > amountTolerance {
		return 0, domain.ValidationError{
			Field: "amount",
			Msg:   fmt.Sprintf("does not match quantity*unitPrice (%s)", utils.FormatMoney(amount)),
		}
	}
	return amount, nil
}

func (s ExpenseService) visibleBookable(ctx context.Context, caller domain.Caller, bookableID int64) (models.Bookable, error) {
	b, err := repositories.BookableRepository{DB: s.DB}.GetByID(ctx, bookableID)
	if err != nil {
		return models.Bookable{}, err
	}
	if !authz.CanView(caller, b) {
		return models.Bookable{}, domain.PermissionError{Action: "view expenses"}
	}
	return b, nil
}
