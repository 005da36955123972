package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventadmin/internal/domain"
	"eventadmin/internal/domain/models"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var bookableCols = []string{
	"id", "kind", "title", "description", "status", "creator_id", "creator_name",
	"coordinator_id", "venue_id", "start_date", "end_date", "created_at", "updated_at",
}

func bookableRow(id int64, kind, title, status string, creatorID, coordinatorID, venueID int64, start, end string) *sqlmock.Rows {
	return sqlmock.NewRows(bookableCols).
		AddRow(id, kind, title, "", status, creatorID, "Dana Lee", coordinatorID, venueID, start, end, "", "")
}

var facilities = domain.Caller{ID: 11, Role: domain.RoleFacilities, Name: "Sam"}

func TestAssignVenueConflictListsBlockingBooking(t *testing.T) {
	db, mock := newMockDB(t)
	svc := BookableService{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "capacity", "is_active"}).
			AddRow(7, "Main Hall", 120, true))
	mock.ExpectQuery("FROM bookables b").
		WithArgs(int64(2)).
		WillReturnRows(bookableRow(2, "workshop", "Budget Workshop", models.StatusApproved, 4, 0, 0, "2024-03-02", "2024-03-04"))
	mock.ExpectQuery("FROM bookables b").
		WithArgs(int64(7), int64(2), "2024-03-04", "2024-03-02").
		WillReturnRows(sqlmock.NewRows([]string{"id", "kind", "title", "start", "end", "creator"}).
			AddRow(1, "event", "Spring Gala", "2024-03-01", "2024-03-03", "Dana Lee"))
	mock.ExpectRollback()

	_, conflicts, err := svc.AssignVenue(context.Background(), facilities, 2, 7)

	require.Error(t, err)
	assert.True(t, domain.IsConflict(err), "expected ConflictError, got %v", err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "Spring Gala", conflicts[0].Title)
	assert.Equal(t, "2024-03-01", conflicts[0].StartDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignVenueSucceedsOutsideBookedWindow(t *testing.T) {
	db, mock := newMockDB(t)
	svc := BookableService{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "capacity", "is_active"}).
			AddRow(7, "Main Hall", 120, true))
	mock.ExpectQuery("FROM bookables b").
		WithArgs(int64(3)).
		WillReturnRows(bookableRow(3, "event", "Donor Dinner", models.StatusApproved, 4, 0, 0, "2024-03-10", "2024-03-12"))
	mock.ExpectQuery("FROM bookables b").
		WithArgs(int64(7), int64(3), "2024-03-12", "2024-03-10").
		WillReturnRows(sqlmock.NewRows([]string{"id", "kind", "title", "start", "end", "creator"}))
	mock.ExpectExec("UPDATE bookables SET venue_id").
		WithArgs(int64(7), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO audit_logs").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("FROM bookables b").
		WithArgs(int64(3)).
		WillReturnRows(bookableRow(3, "event", "Donor Dinner", models.StatusApproved, 4, 0, 7, "2024-03-10", "2024-03-12"))

	b, conflicts, err := svc.AssignVenue(context.Background(), facilities, 3, 7)

	require.NoError(t, err)
	assert.Empty(t, conflicts)
	assert.Equal(t, int64(7), b.VenueID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignVenueRequiresApprovedStatus(t *testing.T) {
	db, mock := newMockDB(t)
	svc := BookableService{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "capacity", "is_active"}).
			AddRow(7, "Main Hall", 120, true))
	mock.ExpectQuery("FROM bookables b").
		WithArgs(int64(2)).
		WillReturnRows(bookableRow(2, "event", "Draft Event", models.StatusPending, 4, 0, 0, "2024-03-02", "2024-03-04"))
	mock.ExpectRollback()

	_, _, err := svc.AssignVenue(context.Background(), facilities, 2, 7)

	assert.True(t, domain.IsPrecondition(err), "expected PreconditionError, got %v", err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignVenueSkipsCheckWithoutSchedule(t *testing.T) {
	db, mock := newMockDB(t)
	svc := BookableService{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "capacity", "is_active"}).
			AddRow(7, "Main Hall", 120, true))
	mock.ExpectQuery("FROM bookables b").
		WithArgs(int64(5)).
		WillReturnRows(bookableRow(5, "event", "Unscheduled", models.StatusApproved, 4, 0, 0, "", ""))
	mock.ExpectExec("UPDATE bookables SET venue_id").
		WithArgs(int64(7), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO audit_logs").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("FROM bookables b").
		WithArgs(int64(5)).
		WillReturnRows(bookableRow(5, "event", "Unscheduled", models.StatusApproved, 4, 0, 7, "", ""))

	_, _, err := svc.AssignVenue(context.Background(), facilities, 5, 7)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignVenueRejectsMissingVenueID(t *testing.T) {
	db, _ := newMockDB(t)
	svc := BookableService{DB: db}

	_, _, err := svc.AssignVenue(context.Background(), facilities, 2, 0)
	assert.True(t, domain.IsValidation(err), "expected ValidationError, got %v", err)
}

func TestAssignVenueDeniedForTeamLead(t *testing.T) {
	db, _ := newMockDB(t)
	svc := BookableService{DB: db}

	lead := domain.Caller{ID: 4, Role: domain.RoleTeamLead}
	_, _, err := svc.AssignVenue(context.Background(), lead, 2, 7)
	assert.True(t, domain.IsPermission(err), "expected PermissionError, got %v", err)
}

func TestUpdateRefusedOnceApproved(t *testing.T) {
	db, mock := newMockDB(t)
	svc := BookableService{DB: db}

	mock.ExpectQuery("FROM bookables b").
		WithArgs(int64(2)).
		WillReturnRows(bookableRow(2, "event", "Gala", models.StatusApproved, 4, 0, 0, "", ""))

	lead := domain.Caller{ID: 4, Role: domain.RoleTeamLead}
	title := "New Title"
	_, err := svc.Update(context.Background(), lead, 2, models.BookableUpdate{Title: &title})

	assert.True(t, domain.IsPrecondition(err), "expected PreconditionError, got %v", err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAllowedWhilePending(t *testing.T) {
	db, mock := newMockDB(t)
	svc := BookableService{DB: db}

	mock.ExpectQuery("FROM bookables b").
		WithArgs(int64(2)).
		WillReturnRows(bookableRow(2, "event", "Gala", models.StatusPending, 4, 0, 0, "", ""))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookables SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("FROM bookables b").
		WithArgs(int64(2)).
		WillReturnRows(bookableRow(2, "event", "New Title", models.StatusPending, 4, 0, 0, "", ""))

	lead := domain.Caller{ID: 4, Role: domain.RoleTeamLead}
	title := "New Title"
	b, err := svc.Update(context.Background(), lead, 2, models.BookableUpdate{Title: &title})

	require.NoError(t, err)
	assert.Equal(t, "New Title", b.Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRejectedResubmitsAsPending(t *testing.T) {
	db, mock := newMockDB(t)
	svc := BookableService{DB: db}

	mock.ExpectQuery("FROM bookables b").
		WithArgs(int64(2)).
		WillReturnRows(bookableRow(2, "event", "Gala", models.StatusRejected, 4, 0, 0, "", ""))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookables SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookables SET status").
		WithArgs(models.StatusPending, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO audit_logs").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("FROM bookables b").
		WithArgs(int64(2)).
		WillReturnRows(bookableRow(2, "event", "Gala", models.StatusPending, 4, 0, 0, "", ""))

	lead := domain.Caller{ID: 4, Role: domain.RoleTeamLead}
	title := "Gala"
	b, err := svc.Update(context.Background(), lead, 2, models.BookableUpdate{Title: &title})

	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, b.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}
