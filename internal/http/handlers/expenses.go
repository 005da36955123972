package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventadmin/internal/domain/models"
	"eventadmin/internal/http/middleware"
	"eventadmin/internal/services"
)

type ExpenseHandler struct {
	DB *sql.DB
}

func (h ExpenseHandler) svc(c *gin.Context) services.ExpenseService {
	return services.ExpenseService{DB: h.DB, RequestID: middleware.GetRequestID(c)}
}

type expenseResponse struct {
	ID         int64   `json:"id"`
	BookableID int64   `json:"bookableId"`
	CategoryID int64   `json:"categoryId"`
	Category   string  `json:"category"`
	ItemName   string  `json:"itemName"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	Amount     float64 `json:"amount"`
	AddedBy    int64   `json:"addedBy"`
	CreatedAt  string  `json:"createdAt,omitempty"`
}

func toExpenseResponse(e models.Expense) expenseResponse {
	return expenseResponse{
		ID:         e.ID,
		BookableID: e.BookableID,
		CategoryID: e.CategoryID,
		Category:   e.CategoryName,
		ItemName:   e.ItemName,
		Quantity:   e.Quantity,
		UnitPrice:  e.UnitPrice,
		Amount:     e.Amount,
		AddedBy:    e.AddedBy,
		CreatedAt:  e.CreatedAt,
	}
}

// GET /api/{events,workshops}/:id/expenses
func (h ExpenseHandler) List(c *gin.Context) {
	caller, ok := CallerOrAbort(c)
	if !ok {
		return
	}
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	expenses, err := h.svc(c).List(c.Request.Context(), caller, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/{events,workshops}/:id/expenses
func (h ExpenseHandler) Create(c *gin.Context) {
	caller, ok := CallerOrAbort(c)
	if !ok {
		return
	}
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	var req services.ExpenseInput
	if !BindJSONOrError(c, &req) {
		return
	}
	e, err := h.svc(c).Create(c.Request.Context(), caller, id, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toExpenseResponse(e))
}

// PUT /api/expenses/:id
func (h ExpenseHandler) Update(c *gin.Context) {
	caller, ok := CallerOrAbort(c)
	if !ok {
		return
	}
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	var req services.ExpenseInput
	if !BindJSONOrError(c, &req) {
		return
	}
	e, err := h.svc(c).Update(c.Request.Context(), caller, id, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toExpenseResponse(e))
}

// DELETE /api/expenses/:id
func (h ExpenseHandler) Delete(c *gin.Context) {
	caller, ok := CallerOrAbort(c)
	if !ok {
		return
	}
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc(c).Delete(c.Request.Context(), caller, id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
