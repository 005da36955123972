package repositories

import (
	"context"

	"eventadmin/internal/db"
	"eventadmin/internal/domain/models"
)

// BudgetRepository covers budget_lines and the append-only budget_approvals
// history.
type BudgetRepository struct {
	DB db.Queryer
}

func (r BudgetRepository) ListLines(ctx context.Context, bookableID int64) ([]models.BudgetLine, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT
			l.id,
			l.bookable_id,
			l.category_id,
			COALESCE(c.name,''),
			l.requested_amount,
			COALESCE(l.sponsor_amount,0),
			COALESCE(l.approved_amount,0),
			l.approved_amount IS NOT NULL,
			COALESCE(l.remarks,'')
		FROM budget_lines l
		LEFT JOIN categories c ON c.id = l.category_id
		WHERE l.bookable_id=?
		ORDER BY c.name ASC`, bookableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []models.BudgetLine{}
	for rows.Next() {
		var l models.BudgetLine
		if err := rows.Scan(
			&l.ID,
			&l.BookableID,
			&l.CategoryID,
			&l.CategoryName,
			&l.RequestedAmount,
			&l.SponsorAmount,
			&l.ApprovedAmount,
			&l.HasApproved,
			&l.Remarks,
		); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// UpsertLine inserts or refreshes the one line per (bookable, category); the
// unique key enforces the pair.
func (r BudgetRepository) UpsertLine(ctx context.Context, l models.BudgetLine) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO budget_lines (bookable_id, category_id, requested_amount, sponsor_amount, remarks)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			requested_amount = VALUES(requested_amount),
			sponsor_amount   = VALUES(sponsor_amount),
			remarks          = VALUES(remarks)`,
		l.BookableID, l.CategoryID, l.RequestedAmount, l.SponsorAmount, db.NullIfEmpty(l.Remarks))
	return err
}

// ApplyAdjustment sets reviewer amounts on one line. Nil fields are left
// untouched.
func (r BudgetRepository) ApplyAdjustment(ctx context.Context, bookableID, categoryID int64, approved, sponsor *float64) error {
	sets := []string{}
	args := []any{}
	if approved != nil {
		sets = append(sets, "approved_amount=?")
		args = append(args, *approved)
	}
	if sponsor != nil {
		sets = append(sets, "sponsor_amount=?")
		args = append(args, *sponsor)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, bookableID, categoryID)

	q := "UPDATE budget_lines SET " + sets[0]
	for _, s := range sets[1:] {
		q += ", " + s
	}
	q += " WHERE bookable_id=? AND category_id=?"
	_, err := r.DB.ExecContext(ctx, q, args...)
	return err
}

// InsertApproval appends one decision row. History is never updated in
// place.
func (r BudgetRepository) InsertApproval(ctx context.Context, a models.BudgetApproval) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO budget_approvals (bookable_id, reviewer_id, decision, remarks, created_at)
		VALUES (?, ?, ?, ?, NOW())`,
		a.BookableID, a.ReviewerID, a.Decision, db.NullIfEmpty(a.Remarks))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r BudgetRepository) ListApprovals(ctx context.Context, bookableID int64) ([]models.BudgetApproval, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT
			a.id,
			a.bookable_id,
			a.reviewer_id,
			COALESCE(u.name,''),
			a.decision,
			COALESCE(a.remarks,''),
			COALESCE(a.created_at,'')
		FROM budget_approvals a
		LEFT JOIN users u ON u.id = a.reviewer_id
		WHERE a.bookable_id=?
		ORDER BY a.id ASC`, bookableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.BudgetApproval{}
	for rows.Next() {
		var a models.BudgetApproval
		if err := rows.Scan(
			&a.ID,
			&a.BookableID,
			&a.ReviewerID,
			&a.ReviewerName,
			&a.Decision,
			&a.Remarks,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
