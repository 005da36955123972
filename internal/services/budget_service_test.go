package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventadmin/internal/domain"
	"eventadmin/internal/domain/models"
	"eventadmin/internal/notify"
)

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notify.Message
	err  error
}

func (f *fakeNotifier) Send(m notify.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, m)
	return f.err
}

func (f *fakeNotifier) messages() []notify.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]notify.Message, len(f.sent))
	copy(out, f.sent)
	return out
}

var userCols = []string{
	"id", "name", "email", "phone", "password_hash", "role", "status", "created_at", "updated_at",
}

func userRow(id int64, name, email, role string) *sqlmock.Rows {
	return sqlmock.NewRows(userCols).
		AddRow(id, name, email, "", "x", role, "active", "", "")
}

var finance = domain.Caller{ID: 9, Role: domain.RoleFinance, Name: "Faye"}

func expectReviewTx(mock sqlmock.Sqlmock, decision, newStatus string) {
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO budget_approvals").
		WithArgs(int64(2), int64(9), decision, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE bookables SET status").
		WithArgs(newStatus, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO audit_logs").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
}

func TestReviewRejectThenApproveAppendsHistory(t *testing.T) {
	db, mock := newMockDB(t)
	fn := &fakeNotifier{}
	svc := BudgetService{DB: db, Notifier: fn}

	// First decision: rejected.
	mock.ExpectQuery("FROM bookables b").
		WithArgs(int64(2)).
		WillReturnRows(bookableRow(2, "event", "Gala", models.StatusPending, 4, 0, 0, "", ""))
	expectReviewTx(mock, models.DecisionRejected, models.StatusRejected)
	mock.ExpectQuery("FROM users").
		WithArgs(int64(4)).
		WillReturnRows(userRow(4, "Dana Lee", "dana@example.com", domain.RoleTeamLead))
	mock.ExpectQuery("FROM bookables b").
		WithArgs(int64(2)).
		WillReturnRows(bookableRow(2, "event", "Gala", models.StatusRejected, 4, 0, 0, "", ""))

	b, err := svc.Review(context.Background(), finance, 2, models.DecisionRejected, "too expensive", nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, b.Status)

	// Second decision on the same bookable: approved. A fresh row is
	// inserted; nothing rewrites the first one.
	mock.ExpectQuery("FROM bookables b").
		WithArgs(int64(2)).
		WillReturnRows(bookableRow(2, "event", "Gala", models.StatusPending, 4, 0, 0, "", ""))
	expectReviewTx(mock, models.DecisionApproved, models.StatusApproved)
	mock.ExpectQuery("FROM users").
		WithArgs(int64(4)).
		WillReturnRows(userRow(4, "Dana Lee", "dana@example.com", domain.RoleTeamLead))
	mock.ExpectQuery("FROM bookables b").
		WithArgs(int64(2)).
		WillReturnRows(bookableRow(2, "event", "Gala", models.StatusApproved, 4, 0, 0, "", ""))

	b, err = svc.Review(context.Background(), finance, 2, models.DecisionApproved, "", nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, b.Status)
	require.NoError(t, mock.ExpectationsWereMet())

	time.Sleep(50 * time.Millisecond)
	msgs := fn.messages()
	require.Len(t, msgs, 2)
	bodies := msgs[0].Body + "\n" + msgs[1].Body
	assert.Contains(t, msgs[0].To, "dana@example.com")
	assert.Contains(t, bodies, "too expensive")
}

func TestReviewSucceedsWhenNotifierFails(t *testing.T) {
	db, mock := newMockDB(t)
	fn := &fakeNotifier{err: errors.New("ses throttled")}
	svc := BudgetService{DB: db, Notifier: fn}

	mock.ExpectQuery("FROM bookables b").
		WithArgs(int64(2)).
		WillReturnRows(bookableRow(2, "workshop", "Onboarding", models.StatusPending, 4, 0, 0, "", ""))
	expectReviewTx(mock, models.DecisionApproved, models.StatusApproved)
	mock.ExpectQuery("FROM users").
		WithArgs(int64(4)).
		WillReturnRows(userRow(4, "Dana Lee", "dana@example.com", domain.RoleTeamLead))
	mock.ExpectQuery("FROM bookables b").
		WithArgs(int64(2)).
		WillReturnRows(bookableRow(2, "workshop", "Onboarding", models.StatusApproved, 4, 0, 0, "", ""))

	b, err := svc.Review(context.Background(), finance, 2, models.DecisionApproved, "", nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, b.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRejectsUnknownDecision(t *testing.T) {
	db, _ := newMockDB(t)
	svc := BudgetService{DB: db}

	_, err := svc.Review(context.Background(), finance, 2, "maybe", "", nil)
	assert.True(t, domain.IsValidation(err), "expected ValidationError, got %v", err)
}

func TestReviewDeniedForCoordinator(t *testing.T) {
	db, _ := newMockDB(t)
	svc := BudgetService{DB: db}

	coord := domain.Caller{ID: 3, Role: domain.RoleCoordinator}
	_, err := svc.Review(context.Background(), coord, 2, models.DecisionApproved, "", nil)
	assert.True(t, domain.IsPermission(err), "expected PermissionError, got %v", err)
}

func TestSubmitByTeamLeadNotifiesFinance(t *testing.T) {
	db, mock := newMockDB(t)
	fn := &fakeNotifier{}
	svc := BudgetService{DB: db, Notifier: fn}
	lead := domain.Caller{ID: 4, Role: domain.RoleTeamLead, Name: "Dana Lee"}

	mock.ExpectQuery("FROM bookables b").
		WithArgs(int64(2)).
		WillReturnRows(bookableRow(2, "event", "Gala", models.StatusPending, 4, 0, 0, "", ""))
	mock.ExpectQuery("FROM categories").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "is_active"}).AddRow(1, "Catering", true))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO budget_lines").
		WithArgs(int64(2), int64(1), 500.0, 0.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT email FROM users").
		WithArgs(domain.RoleFinance).
		WillReturnRows(sqlmock.NewRows([]string{"email"}).
			AddRow("faye@example.com").AddRow("frank@example.com"))
	mock.ExpectQuery("FROM budget_lines l").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "bookable_id", "category_id", "name", "requested_amount",
			"sponsor_amount", "approved_amount", "has_approved", "remarks",
		}).AddRow(1, 2, 1, "Catering", 500.0, 0.0, 0.0, false, ""))

	lines, err := svc.Submit(context.Background(), lead, 2, []BudgetLineInput{
		{CategoryID: 1, RequestedAmount: 500},
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.False(t, lines[0].HasApproved)
	require.NoError(t, mock.ExpectationsWereMet())

	time.Sleep(50 * time.Millisecond)
	msgs := fn.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, []string{"faye@example.com", "frank@example.com"}, msgs[0].To)
}

func TestSubmitRejectsDuplicateCategory(t *testing.T) {
	db, _ := newMockDB(t)
	svc := BudgetService{DB: db}
	lead := domain.Caller{ID: 4, Role: domain.RoleTeamLead}

	_, err := svc.Submit(context.Background(), lead, 2, []BudgetLineInput{
		{CategoryID: 1, RequestedAmount: 500},
		{CategoryID: 1, RequestedAmount: 200},
	})
	assert.True(t, domain.IsValidation(err), "expected ValidationError, got %v", err)
}

func TestSubmitOnForeignBookableDeniedForTeamLead(t *testing.T) {
	db, mock := newMockDB(t)
	svc := BudgetService{DB: db}
	lead := domain.Caller{ID: 4, Role: domain.RoleTeamLead}

	mock.ExpectQuery("FROM bookables b").
		WithArgs(int64(2)).
		WillReturnRows(bookableRow(2, "event", "Gala", models.StatusPending, 8, 0, 0, "", ""))

	_, err := svc.Submit(context.Background(), lead, 2, []BudgetLineInput{
		{CategoryID: 1, RequestedAmount: 500},
	})
	assert.True(t, domain.IsPermission(err), "expected PermissionError, got %v", err)
	require.NoError(t, mock.ExpectationsWereMet())
}
