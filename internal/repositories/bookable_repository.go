package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"eventadmin/internal/db"
	"eventadmin/internal/domain"
	"eventadmin/internal/domain/models"
)

// BookableRepository wraps DB access for events and workshops, which share
// the bookables table distinguished by kind.
type BookableRepository struct {
	DB db.Queryer
}

const bookableColumns = `
	b.id,
	b.kind,
	b.title,
	COALESCE(b.description,''),
	b.status,
	b.creator_id,
	COALESCE(u.name,''),
	COALESCE(b.coordinator_id,0),
	COALESCE(b.venue_id,0),
	COALESCE(DATE_FORMAT(b.start_date,'%Y-%m-%d'),''),
	COALESCE(DATE_FORMAT(b.end_date,'%Y-%m-%d'),''),
	COALESCE(b.created_at,''),
	COALESCE(b.updated_at,'')`

func scanBookable(scan func(dest ...any) error) (models.Bookable, error) {
	var b models.Bookable
	err := scan(
		&b.ID,
		&b.Kind,
		&b.Title,
		&b.Description,
		&b.Status,
		&b.CreatorID,
		&b.CreatorName,
		&b.CoordinatorID,
		&b.VenueID,
		&b.StartDate,
		&b.EndDate,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, err
}

func (r BookableRepository) GetByID(ctx context.Context, id int64) (models.Bookable, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+bookableColumns+`
		FROM bookables b
		LEFT JOIN users u ON u.id = b.creator_id
		WHERE b.id=? LIMIT 1`, id)
	b, err := scanBookable(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Bookable{}, domain.NotFoundError{Resource: "bookable"}
	}
	if err != nil {
		return models.Bookable{}, err
	}
	return b, nil
}

// List returns bookables of one kind (or all kinds when kind is empty),
// restricted by the caller's visibility predicate.
func (r BookableRepository) List(ctx context.Context, kind, visibility string, visArgs []any) ([]models.Bookable, error) {
	conds := []string{}
	args := []any{}
	if kind != "" {
		conds = append(conds, "b.kind = ?")
		args = append(args, kind)
	}
	if visibility != "" {
		conds = append(conds, visibility)
		args = append(args, visArgs...)
	}

	q := `
		SELECT ` + bookableColumns + `
		FROM bookables b
		LEFT JOIN users u ON u.id = b.creator_id`
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, " AND ")
	}
	q += ` ORDER BY b.id DESC`

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.Bookable{}
	for rows.Next() {
		b, err := scanBookable(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func (r BookableRepository) Create(ctx context.Context, b models.Bookable) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO bookables
			(kind, title, description, status, creator_id, coordinator_id, start_date, end_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NULLIF(?,0), NULLIF(?,''), NULLIF(?,''), NOW(), NOW())`,
		b.Kind, b.Title, b.Description, b.Status, b.CreatorID, b.CoordinatorID, b.StartDate, b.EndDate)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdatePartial applies only fields present in the update (key presence).
func (r BookableRepository) UpdatePartial(ctx context.Context, id int64, upd models.BookableUpdate) error {
	sets := []string{}
	args := []any{}
	add := func(col string, v any) {
		sets = append(sets, col+"=?")
		args = append(args, v)
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.CoordinatorID != nil {
		add("coordinator_id", db.NullIfZero(*upd.CoordinatorID))
	}
	if upd.StartDate != nil {
		add("start_date", db.NullIfEmpty(*upd.StartDate))
	}
	if upd.EndDate != nil {
		add("end_date", db.NullIfEmpty(*upd.EndDate))
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at=NOW()")
	args = append(args, id)

	_, err := r.DB.ExecContext(ctx,
		`UPDATE bookables SET `+strings.Join(sets, ", ")+` WHERE id=?`, args...)
	return err
}

func (r BookableRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE bookables SET status=?, updated_at=NOW() WHERE id=?`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r BookableRepository) SetVenue(ctx context.Context, id, venueID int64) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE bookables SET venue_id=NULLIF(?,0), updated_at=NOW() WHERE id=?`, venueID, id)
	return err
}

// FindVenueConflicts lists approved or pending bookings of any kind on the
// venue whose [start_date, end_date] overlaps the candidate interval
// inclusively: s1 <= e2 AND s2 <= e1. The candidate row itself is excluded.
func (r BookableRepository) FindVenueConflicts(ctx context.Context, venueID int64, start, end string, excludeID int64) ([]models.VenueConflict, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT
			b.id,
			b.kind,
			b.title,
			DATE_FORMAT(b.start_date,'%Y-%m-%d'),
			DATE_FORMAT(b.end_date,'%Y-%m-%d'),
			COALESCE(u.name,'')
		FROM bookables b
		LEFT JOIN users u ON u.id = b.creator_id
		WHERE b.venue_id = ?
		  AND b.id <> ?
		  AND b.status IN ('approved','pending')
		  AND b.start_date IS NOT NULL
		  AND b.end_date IS NOT NULL
		  AND b.start_date <= ?
		  AND b.end_date >= ?
		ORDER BY b.start_date ASC`,
		venueID, excludeID, end, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conflicts := []models.VenueConflict{}
	for rows.Next() {
		var c models.VenueConflict
		if err := rows.Scan(&c.BookableID, &c.Kind, &c.Title, &c.StartDate, &c.EndDate, &c.CreatorName); err != nil {
			return nil, err
		}
		conflicts = append(conflicts, c)
	}
	return conflicts, rows.Err()
}

// DeleteCascade removes the bookable and its budget lines, approval history
// and expenses. Run inside a transaction.
func (r BookableRepository) DeleteCascade(ctx context.Context, id int64) error {
	steps := []string{
		`DELETE FROM expenses WHERE bookable_id=?`,
		`DELETE FROM budget_lines WHERE bookable_id=?`,
		`DELETE FROM budget_approvals WHERE bookable_id=?`,
		`DELETE FROM bookables WHERE id=?`,
	}
	for _, q := range steps {
		if _, err := r.DB.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	return nil
}
