package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventadmin/internal/domain/models"
	"eventadmin/internal/http/middleware"
	"eventadmin/internal/notify"
	"eventadmin/internal/services"
)

type BudgetHandler struct {
	DB       *sql.DB
	Notifier notify.Notifier
}

func (h BudgetHandler) svc(c *gin.Context) services.BudgetService {
	return services.BudgetService{
		DB:        h.DB,
		Notifier:  h.Notifier,
		RequestID: middleware.GetRequestID(c),
	}
}

type budgetLineResponse struct {
	ID              int64    `json:"id"`
	CategoryID      int64    `json:"categoryId"`
	Category        string   `json:"category"`
	RequestedAmount float64  `json:"requestedAmount"`
	SponsorAmount   float64  `json:"sponsorAmount"`
	ApprovedAmount  *float64 `json:"approvedAmount,omitempty"`
	Remarks         string   `json:"remarks,omitempty"`
}

func toBudgetLineResponse(l models.BudgetLine) budgetLineResponse {
	out := budgetLineResponse{
		ID:              l.ID,
		CategoryID:      l.CategoryID,
		Category:        l.CategoryName,
		RequestedAmount: l.RequestedAmount,
		SponsorAmount:   l.SponsorAmount,
		Remarks:         l.Remarks,
	}
	if l.HasApproved {
		approved := l.ApprovedAmount
		out.ApprovedAmount = &approved
	}
	return out
}

type approvalResponse struct {
	ID           int64  `json:"id"`
	ReviewerID   int64  `json:"reviewerId"`
	ReviewerName string `json:"reviewerName,omitempty"`
	Decision     string `json:"decision"`
	Remarks      string `json:"remarks,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty"`
}

type submitBudgetRequest struct {
	Lines []services.BudgetLineInput `json:"lines"`
}

type reviewBudgetRequest struct {
	Decision    string                      `json:"decision"`
	Remarks     string                      `json:"remarks"`
	Adjustments []services.BudgetAdjustment `json:"adjustments"`
}

// GET /api/{events,workshops}/:id/budget
func (h BudgetHandler) ListLines(c *gin.Context) {
	caller, ok := CallerOrAbort(c)
	if !ok {
		return
	}
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	lines, err := h.svc(c).ListLines(c.Request.Context(), caller, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	out := make([]budgetLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, toBudgetLineResponse(l))
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/{events,workshops}/:id/budget
func (h BudgetHandler) Submit(c *gin.Context) {
	caller, ok := CallerOrAbort(c)
	if !ok {
		return
	}
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	var req submitBudgetRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	lines, err := h.svc(c).Submit(c.Request.Context(), caller, id, req.Lines)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	out := make([]budgetLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, toBudgetLineResponse(l))
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/{events,workshops}/:id/budget/review
func (h BudgetHandler) Review(c *gin.Context) {
	caller, ok := CallerOrAbort(c)
	if !ok {
		return
	}
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	var req reviewBudgetRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	b, err := h.svc(c).Review(c.Request.Context(), caller, id, req.Decision, req.Remarks, req.Adjustments)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookableResponse(b))
}

// GET /api/{events,workshops}/:id/budget/approvals
func (h BudgetHandler) ListApprovals(c *gin.Context) {
	caller, ok := CallerOrAbort(c)
	if !ok {
		return
	}
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	approvals, err := h.svc(c).ListApprovals(c.Request.Context(), caller, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	out := make([]approvalResponse, 0, len(approvals))
	for _, a := range approvals {
		out = append(out, approvalResponse{
			ID:           a.ID,
			ReviewerID:   a.ReviewerID,
			ReviewerName: a.ReviewerName,
			Decision:     a.Decision,
			Remarks:      a.Remarks,
			CreatedAt:    a.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}
