package repositories

import (
	"context"
	"database/sql"
	"errors"

	"eventadmin/internal/db"
	"eventadmin/internal/domain"
	"eventadmin/internal/domain/models"
)

type ExpenseRepository struct {
	DB db.Queryer
}

const expenseColumns = `
	e.id,
	e.bookable_id,
	e.category_id,
	COALESCE(c.name,''),
	e.item_name,
	e.quantity,
	e.unit_price,
	e.amount,
	e.added_by,
	COALESCE(e.created_at,'')`

func (r ExpenseRepository) GetByID(ctx context.Context, id int64) (models.Expense, error) {
	var e models.Expense
	err := r.DB.QueryRowContext(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses e
		LEFT JOIN categories c ON c.id = e.category_id
		WHERE e.id=? LIMIT 1`, id).
		Scan(&e.ID, &e.BookableID, &e.CategoryID, &e.CategoryName, &e.ItemName,
			&e.Quantity, &e.UnitPrice, &e.Amount, &e.AddedBy, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Expense{}, domain.NotFoundError{Resource: "expense"}
	}
	if err != nil {
		return models.Expense{}, err
	}
	return e, nil
}

func (r ExpenseRepository) ListByBookable(ctx context.Context, bookableID int64) ([]models.Expense, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses e
		LEFT JOIN categories c ON c.id = e.category_id
		WHERE e.bookable_id=?
		ORDER BY e.id DESC`, bookableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.Expense{}
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.BookableID, &e.CategoryID, &e.CategoryName, &e.ItemName,
			&e.Quantity, &e.UnitPrice, &e.Amount, &e.AddedBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r ExpenseRepository) Create(ctx context.Context, e models.Expense) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO expenses (bookable_id, category_id, item_name, quantity, unit_price, amount, added_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NOW())`,
		e.BookableID, e.CategoryID, e.ItemName, e.Quantity, e.UnitPrice, e.Amount, e.AddedBy)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r ExpenseRepository) Update(ctx context.Context, e models.Expense) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE expenses SET category_id=?, item_name=?, quantity=?, unit_price=?, amount=?
		WHERE id=?`,
		e.CategoryID, e.ItemName, e.Quantity, e.UnitPrice, e.Amount, e.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, e.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r ExpenseRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM expenses WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "expense"}
	}
	return nil
}

// CategoryTotal is the per-category spend aggregate for one bookable.
type CategoryTotal struct {
	CategoryID int64
	Total      float64
	Count      int
}

// TotalsByCategory sums expense amounts per category for the bookable. The
// summary service recomputes from this on every call; nothing is cached.
func (r ExpenseRepository) TotalsByCategory(ctx context.Context, bookableID int64) (map[int64]CategoryTotal, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT category_id, COALESCE(SUM(amount),0), COUNT(*)
		FROM expenses
		WHERE bookable_id=?
		GROUP BY category_id`, bookableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := map[int64]CategoryTotal{}
	for rows.Next() {
		var t CategoryTotal
		if err := rows.Scan(&t.CategoryID, &t.Total, &t.Count); err != nil {
			return nil, err
		}
		totals[t.CategoryID] = t
	}
	return totals, rows.Err()
}
