package models

// Expense is a recorded spend against one budget category of a bookable.
// Amount is always recomputed server-side as Quantity*UnitPrice.
type Expense struct {
	ID           int64
	BookableID   int64
	CategoryID   int64
	CategoryName string
	ItemName     string
	Quantity     int
	UnitPrice    float64
	Amount       float64
	AddedBy      int64
	CreatedAt    string
}

// CategorySummary is one row of the budget-vs-expense aggregate. Remaining
// goes negative on overspend; that is surfaced, not rejected.
type CategorySummary struct {
	CategoryID   int64   `json:"categoryId"`
	CategoryName string  `json:"category"`
	BudgetAmount float64 `json:"budgetAmount"`
	TotalExpense float64 `json:"totalExpense"`
	Remaining    float64 `json:"remaining"`
	ExpenseCount int     `json:"expenseCount"`
}
