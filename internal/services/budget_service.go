package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"eventadmin/internal/authz"
	"eventadmin/internal/db"
	"eventadmin/internal/domain"
	"eventadmin/internal/domain/models"
	"eventadmin/internal/notify"
	"eventadmin/internal/repositories"
	"eventadmin/internal/utils"
)

// BudgetLineInput is one per-category request in a submission.
type BudgetLineInput struct {
	CategoryID      int64   `json:"categoryId"`
	RequestedAmount float64 `json:"requestedAmount"`
	SponsorAmount   float64 `json:"sponsorAmount"`
	Remarks         string  `json:"remarks"`
}

// BudgetAdjustment tweaks one line during review. Nil fields stay untouched.
type BudgetAdjustment struct {
	CategoryID     int64    `json:"categoryId"`
	ApprovedAmount *float64 `json:"approvedAmount"`
	SponsorAmount  *float64 `json:"sponsorAmount"`
}

// BudgetService drives the submission/review workflow. Review decisions are
// appended to budget_approvals and the bookable status follows the latest
// decision.
type BudgetService struct {
	DB        *sql.DB
	Notifier  notify.Notifier
	RequestID string
}

func (s BudgetService) ListLines(ctx context.Context, caller domain.Caller, bookableID int64) ([]models.BudgetLine, error) {
	if _, err := s.visibleBookable(ctx, caller, bookableID); err != nil {
		return nil, err
	}
	return repositories.BudgetRepository{DB: s.DB}.ListLines(ctx, bookableID)
}

func (s BudgetService) ListApprovals(ctx context.Context, caller domain.Caller, bookableID int64) ([]models.BudgetApproval, error) {
	if _, err := s.visibleBookable(ctx, caller, bookableID); err != nil {
		return nil, err
	}
	return repositories.BudgetRepository{DB: s.DB}.ListApprovals(ctx, bookableID)
}

// Submit upserts one budget line per category in a single transaction. The
// bookable status is untouched; a team lead submission notifies every
// finance user.
func (s BudgetService) Submit(ctx context.Context, caller domain.Caller, bookableID int64, lines []BudgetLineInput) ([]models.BudgetLine, error) {
	if !authz.Allow(caller.Role, authz.ActionSubmitBudget) {
		return nil, domain.PermissionError{Action: authz.ActionSubmitBudget}
	}
	if len(lines) == 0 {
		return nil, domain.ValidationError{Field: "lines", Msg: "at least one budget line is required"}
	}
	seen := map[int64]bool{}
	for _, l := range lines {
		if l.CategoryID <= 0 {
			return nil, domain.ValidationError{Field: "categoryId", Msg: "must be provided"}
		}
		if seen[l.CategoryID] {
			return nil, domain.ValidationError{Field: "categoryId", Msg: fmt.Sprintf("category %d listed twice", l.CategoryID)}
		}
		seen[l.CategoryID] = true
		if l.RequestedAmount < 0 || l.SponsorAmount < 0 {
			return nil, domain.ValidationError{Field: "requestedAmount", Msg: "amounts must not be negative"}
		}
	}

	b, err := repositories.BookableRepository{DB: s.DB}.GetByID(ctx, bookableID)
	if err != nil {
		return nil, err
	}
	if caller.Role == domain.RoleTeamLead && b.CreatorID != caller.ID {
		return nil, domain.PermissionError{Action: authz.ActionSubmitBudget}
	}

	catRepo := repositories.CategoryRepository{DB: s.DB}
	for _, l := range lines {
		if _, err := catRepo.GetByID(ctx, l.CategoryID); err != nil {
			return nil, err
		}
	}

	err = db.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.BudgetRepository{DB: tx}
		for _, l := range lines {
			if err := repo.UpsertLine(ctx, models.BudgetLine{
				BookableID:      bookableID,
				CategoryID:      l.CategoryID,
				RequestedAmount: l.RequestedAmount,
				SponsorAmount:   l.SponsorAmount,
				Remarks:         l.Remarks,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LogEvent(s.RequestID, "budget", "submit",
		fmt.Sprintf("bookable_id=%d lines=%d", bookableID, len(lines)))

	if caller.Role == domain.RoleTeamLead {
		emails, err := repositories.UserRepository{DB: s.DB}.EmailsByRole(ctx, domain.RoleFinance)
		if err != nil {
			log.Printf("[NOTIFY] finance email lookup failed: %v", err)
		} else {
			s.sendAsync(notify.Message{
				To:      emails,
				Subject: fmt.Sprintf("Budget submitted for %q", b.Title),
				Body: fmt.Sprintf("%s submitted a budget for %s %q (%d lines). Please review.",
					caller.Name, b.Kind, b.Title, len(lines)),
			})
		}
	}

	return repositories.BudgetRepository{DB: s.DB}.ListLines(ctx, bookableID)
}

// Review applies optional adjustments, appends the decision to the history
// and moves the bookable to approved/rejected, all in one transaction.
// Creator and coordinator are mailed after commit.
func (s BudgetService) Review(ctx context.Context, caller domain.Caller, bookableID int64, decision, remarks string, adjustments []BudgetAdjustment) (models.Bookable, error) {
	if !authz.Allow(caller.Role, authz.ActionReviewBudget) {
		return models.Bookable{}, domain.PermissionError{Action: authz.ActionReviewBudget}
	}
	if decision != models.DecisionApproved && decision != models.DecisionRejected {
		return models.Bookable{}, domain.ValidationError{Field: "decision", Msg: "must be approved or rejected"}
	}

	repo := repositories.BookableRepository{DB: s.DB}
	b, err := repo.GetByID(ctx, bookableID)
	if err != nil {
		return models.Bookable{}, err
	}

	newStatus := models.StatusApproved
	if decision == models.DecisionRejected {
		newStatus = models.StatusRejected
	}

	err = db.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		budgetRepo := repositories.BudgetRepository{DB: tx}
		for _, adj := range adjustments {
			if adj.CategoryID <= 0 {
				return domain.ValidationError{Field: "categoryId", Msg: "must be provided"}
			}
			if err := budgetRepo.ApplyAdjustment(ctx, bookableID, adj.CategoryID, adj.ApprovedAmount, adj.SponsorAmount); err != nil {
				return err
			}
		}
		if _, err := budgetRepo.InsertApproval(ctx, models.BudgetApproval{
			BookableID: bookableID,
			ReviewerID: caller.ID,
			Decision:   decision,
			Remarks:    remarks,
		}); err != nil {
			return err
		}
		if err := (repositories.BookableRepository{DB: tx}).UpdateStatus(ctx, bookableID, newStatus); err != nil {
			return err
		}
		return repositories.AuditRepository{DB: tx}.Insert(ctx, models.AuditEntry{
			ActorID:  caller.ID,
			Entity:   "bookable",
			EntityID: bookableID,
			Action:   "review_budget",
			Detail:   fmt.Sprintf("status %s -> %s", b.Status, newStatus),
		})
	})
	if err != nil {
		return models.Bookable{}, err
	}

	utils.LogEvent(s.RequestID, "budget", "review",
		fmt.Sprintf("bookable_id=%d decision=%s", bookableID, decision))

	s.notifyDecision(ctx, b, decision, remarks)

	return repo.GetByID(ctx, bookableID)
}

func (s BudgetService) notifyDecision(ctx context.Context, b models.Bookable, decision, remarks string) {
	userRepo := repositories.UserRepository{DB: s.DB}
	to := []string{}
	if creator, err := userRepo.GetByID(ctx, b.CreatorID); err == nil {
		to = append(to, creator.Email)
	}
	if b.CoordinatorID != 0 {
		if coord, err := userRepo.GetByID(ctx, b.CoordinatorID); err == nil {
			to = append(to, coord.Email)
		}
	}
	body := fmt.Sprintf("The budget for %s %q was %s.", b.Kind, b.Title, decision)
	if remarks != "" {
		body += " Remarks: " + remarks
	}
	s.sendAsync(notify.Message{
		To:      to,
		Subject: fmt.Sprintf("Budget %s: %s", decision, b.Title),
		Body:    body,
	})
}

// sendAsync fires the notification without blocking the request. Failures
// are logged and swallowed; they never fail the primary mutation.
func (s BudgetService) sendAsync(msg notify.Message) {
	if s.Notifier == nil || len(msg.To) == 0 {
		return
	}
	go func() {
		if err := s.Notifier.Send(msg); err != nil {
			log.Printf("[NOTIFY] send failed subject=%q: %v", msg.Subject, err)
		}
	}()
}

func (s BudgetService) visibleBookable(ctx context.Context, caller domain.Caller, bookableID int64) (models.Bookable, error) {
	b, err := repositories.BookableRepository{DB: s.DB}.GetByID(ctx, bookableID)
	if err != nil {
		return models.Bookable{}, err
	}
	if !authz.CanView(caller, b) {
		return models.Bookable{}, domain.PermissionError{Action: "view budget"}
	}
	return b, nil
}
