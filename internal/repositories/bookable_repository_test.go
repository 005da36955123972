package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"eventadmin/internal/domain"
	"eventadmin/internal/domain/models"
)

func TestFindVenueConflictsOverlapPredicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// Candidate 2024-03-02..2024-03-04 against venue 7, excluding bookable 9.
	// The query compares start <= candidate end AND end >= candidate start.
	mock.ExpectQuery("FROM bookables b").
		WithArgs(int64(7), int64(9), "2024-03-04", "2024-03-02").
		WillReturnRows(sqlmock.NewRows([]string{"id", "kind", "title", "start", "end", "creator"}).
			AddRow(3, "event", "Spring Gala", "2024-03-01", "2024-03-03", "Dana"))

	repo := BookableRepository{DB: db}
	conflicts, err := repo.FindVenueConflicts(context.Background(), 7, "2024-03-02", "2024-03-04", 9)
	if err != nil {
		t.Fatalf("FindVenueConflicts error: %v", err)
	}
	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(conflicts))
	}
	if conflicts[0].Title != "Spring Gala" || conflicts[0].CreatorName != "Dana" {
		t.Fatalf("unexpected conflict row: %+v", conflicts[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM bookables b").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = BookableRepository{DB: db}.GetByID(context.Background(), 42)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestUpdatePartialKeyPresence(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	title := "Autumn Workshop"
	start := ""
	mock.ExpectExec("UPDATE bookables SET").
		WithArgs(title, nil, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	upd := models.BookableUpdate{Title: &title, StartDate: &start}
	if err := (BookableRepository{DB: db}).UpdatePartial(context.Background(), 5, upd); err != nil {
		t.Fatalf("UpdatePartial error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
