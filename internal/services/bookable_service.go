package services

import (
	"context"
	"database/sql"
	"fmt"

	"eventadmin/internal/authz"
	"eventadmin/internal/db"
	"eventadmin/internal/domain"
	"eventadmin/internal/domain/models"
	"eventadmin/internal/repositories"
	"eventadmin/internal/utils"
)

// BookableService owns the lifecycle of events and workshops: CRUD behind
// the status guard, completion, and venue assignment with double-booking
// detection.
type BookableService struct {
	DB        *sql.DB
	RequestID string
}

func (s BookableService) Get(ctx context.Context, caller domain.Caller, id int64) (models.Bookable, error) {
	b, err := repositories.BookableRepository{DB: s.DB}.GetByID(ctx, id)
	if err != nil {
		return models.Bookable{}, err
	}
	if !authz.CanView(caller, b) {
		return models.Bookable{}, domain.PermissionError{Action: "view bookable"}
	}
	return b, nil
}

func (s BookableService) List(ctx context.Context, caller domain.Caller, kind string) ([]models.Bookable, error) {
	cond, args := authz.VisibilityFilter(caller)
	return repositories.BookableRepository{DB: s.DB}.List(ctx, kind, cond, args)
}

func (s BookableService) Create(ctx context.Context, caller domain.Caller, b models.Bookable) (models.Bookable, error) {
	if !authz.Allow(caller.Role, authz.ActionCreateBookable) {
		return models.Bookable{}, domain.PermissionError{Action: authz.ActionCreateBookable}
	}
	if b.Title == "" {
		return models.Bookable{}, domain.ValidationError{Field: "title", Msg: "must not be empty"}
	}
	if b.Kind != models.KindEvent && b.Kind != models.KindWorkshop {
		return models.Bookable{}, domain.ValidationError{Field: "kind", Msg: "must be event or workshop"}
	}
	if err := validateInterval(b.StartDate, b.EndDate); err != nil {
		return models.Bookable{}, err
	}

	b.Status = models.StatusPending
	b.CreatorID = caller.ID

	repo := repositories.BookableRepository{DB: s.DB}
	id, err := repo.Create(ctx, b)
	if err != nil {
		return models.Bookable{}, err
	}
	utils.LogEvent(s.RequestID, "bookable", "create", fmt.Sprintf("id=%d kind=%s", id, b.Kind))
	return repo.GetByID(ctx, id)
}

// Update applies a partial edit. Team leads may edit only their own
// bookables and only while pending or rejected; admins bypass the status
// guard. Editing a rejected bookable re-submits it as pending.
func (s BookableService) Update(ctx context.Context, caller domain.Caller, id int64, upd models.BookableUpdate) (models.Bookable, error) {
	if !authz.Allow(caller.Role, authz.ActionUpdateBookable) {
		return models.Bookable{}, domain.PermissionError{Action: authz.ActionUpdateBookable}
	}

	repo := repositories.BookableRepository{DB: s.DB}
	b, err := repo.GetByID(ctx, id)
	if err != nil {
		return models.Bookable{}, err
	}
	if caller.Role == domain.RoleTeamLead && b.CreatorID != caller.ID {
		return models.Bookable{}, domain.PermissionError{Action: authz.ActionUpdateBookable}
	}
	if caller.Role != domain.RoleAdmin &&
		(b.Status == models.StatusApproved || b.Status == models.StatusCompleted) {
		return models.Bookable{}, domain.PreconditionError{
			Resource: "bookable",
			Msg:      fmt.Sprintf("cannot edit while status is %s", b.Status),
		}
	}

	start, end := b.StartDate, b.EndDate
	if upd.StartDate != nil {
		start = *upd.StartDate
	}
	if upd.EndDate != nil {
		end = *upd.EndDate
	}
	if err := validateInterval(start, end); err != nil {
		return models.Bookable{}, err
	}

	err = db.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		txRepo := repositories.BookableRepository{DB: tx}
		if err := txRepo.UpdatePartial(ctx, id, upd); err != nil {
			return err
		}
		// Editing a rejected bookable is the implicit re-submission path.
		if b.Status == models.StatusRejected && caller.Role != domain.RoleAdmin {
			if err := txRepo.UpdateStatus(ctx, id, models.StatusPending); err != nil {
				return err
			}
			return repositories.AuditRepository{DB: tx}.Insert(ctx, models.AuditEntry{
				ActorID:  caller.ID,
				Entity:   "bookable",
				EntityID: id,
				Action:   "resubmit",
				Detail:   "status rejected -> pending",
			})
		}
		return nil
	})
	if err != nil {
		return models.Bookable{}, err
	}
	return repo.GetByID(ctx, id)
}

// Complete marks an approved bookable as completed, which is terminal.
func (s BookableService) Complete(ctx context.Context, caller domain.Caller, id int64) (models.Bookable, error) {
	if !authz.Allow(caller.Role, authz.ActionCompleteBookable) {
		return models.Bookable{}, domain.PermissionError{Action: authz.ActionCompleteBookable}
	}

	repo := repositories.BookableRepository{DB: s.DB}
	b, err := repo.GetByID(ctx, id)
	if err != nil {
		return models.Bookable{}, err
	}
	if b.Status != models.StatusApproved {
		return models.Bookable{}, domain.PreconditionError{
			Resource: "bookable",
			Msg:      "only approved bookables can be completed",
		}
	}

	err = db.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		if err := (repositories.BookableRepository{DB: tx}).UpdateStatus(ctx, id, models.StatusCompleted); err != nil {
			return err
		}
		return repositories.AuditRepository{DB: tx}.Insert(ctx, models.AuditEntry{
			ActorID:  caller.ID,
			Entity:   "bookable",
			EntityID: id,
			Action:   "complete",
			Detail:   "status approved -> completed",
		})
	})
	if err != nil {
		return models.Bookable{}, err
	}
	return repo.GetByID(ctx, id)
}

func (s BookableService) Delete(ctx context.Context, caller domain.Caller, id int64) error {
	if !authz.Allow(caller.Role, authz.ActionDeleteBookable) {
		return domain.PermissionError{Action: authz.ActionDeleteBookable}
	}
	if _, err := (repositories.BookableRepository{DB: s.DB}).GetByID(ctx, id); err != nil {
		return err
	}
	err := db.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		return repositories.BookableRepository{DB: tx}.DeleteCascade(ctx, id)
	})
	if err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "bookable", "delete", fmt.Sprintf("id=%d", id))
	return nil
}

// AssignVenue writes the venue onto an approved bookable unless another
// approved or pending booking of either kind overlaps the interval on the
// same venue. The venue row is locked FOR UPDATE first so two concurrent
// assignments for the same venue serialize instead of racing the check.
func (s BookableService) AssignVenue(ctx context.Context, caller domain.Caller, bookableID, venueID int64) (models.Bookable, []models.VenueConflict, error) {
	if !authz.Allow(caller.Role, authz.ActionAssignVenue) {
		return models.Bookable{}, nil, domain.PermissionError{Action: authz.ActionAssignVenue}
	}
	if venueID <= 0 {
		return models.Bookable{}, nil, domain.ValidationError{Field: "venueId", Msg: "must be provided"}
	}

	var conflicts []models.VenueConflict
	err := db.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		venue, err := repositories.VenueRepository{DB: tx}.LockByID(ctx, venueID)
		if err != nil {
			return err
		}

		repo := repositories.BookableRepository{DB: tx}
		b, err := repo.GetByID(ctx, bookableID)
		if err != nil {
			return err
		}
		if b.Status != models.StatusApproved {
			return domain.PreconditionError{
				Resource: "bookable",
				Msg:      "venue assignment requires approved status",
			}
		}

		// Bookables without a schedule cannot conflict; the check is
		// skipped entirely when either date is missing.
		if b.StartDate != "" && b.EndDate != "" {
			conflicts, err = repo.FindVenueConflicts(ctx, venueID, b.StartDate, b.EndDate, b.ID)
			if err != nil {
				return err
			}
			if len(conflicts) > 0 {
				return domain.ConflictError{
					Resource: "venue",
					Msg:      fmt.Sprintf("%s is already booked in this period", venue.Name),
				}
			}
		}

		if err := repo.SetVenue(ctx, bookableID, venueID); err != nil {
			return err
		}
		return repositories.AuditRepository{DB: tx}.Insert(ctx, models.AuditEntry{
			ActorID:  caller.ID,
			Entity:   "bookable",
			EntityID: bookableID,
			Action:   "assign_venue",
			Detail:   fmt.Sprintf("venue %d -> %d", b.VenueID, venueID),
		})
	})
	if err != nil {
		return models.Bookable{}, conflicts, err
	}

	utils.LogEvent(s.RequestID, "bookable", "assign_venue",
		fmt.Sprintf("bookable_id=%d venue_id=%d", bookableID, venueID))
	b, err := repositories.BookableRepository{DB: s.DB}.GetByID(ctx, bookableID)
	return b, nil, err
}

// validateInterval checks that both or neither date is set and that the
// range is ordered. Dates are YYYY-MM-DD so string order is date order.
func validateInterval(start, end string) error {
	if start == "" && end == "" {
		return nil
	}
	if start == "" || end == "" {
		return domain.ValidationError{Field: "endDate", Msg: "startDate and endDate must be set together"}
	}
	if _, err := utils.ParseDate(start); err != nil {
		return domain.ValidationError{Field: "startDate", Msg: "must be YYYY-MM-DD", Err: err}
	}
	if _, err := utils.ParseDate(end); err != nil {
		return domain.ValidationError{Field: "endDate", Msg: "must be YYYY-MM-DD", Err: err}
	}
	if end < start {
		return domain.ValidationError{Field: "endDate", Msg: "must not be before startDate"}
	}
	return nil
}
