package repositories

import (
	"context"
	"database/sql"
	"errors"

	"eventadmin/internal/db"
	"eventadmin/internal/domain"
	"eventadmin/internal/domain/models"
)

type CategoryRepository struct {
	DB db.Queryer
}

func (r CategoryRepository) GetByID(ctx context.Context, id int64) (models.Category, error) {
	var c models.Category
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, name, is_active FROM categories WHERE id=? LIMIT 1`, id).
		Scan(&c.ID, &c.Name, &c.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Category{}, domain.NotFoundError{Resource: "category"}
	}
	if err != nil {
		return models.Category{}, err
	}
	return c, nil
}

func (r CategoryRepository) List(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	q := `SELECT id, name, is_active FROM categories`
	if activeOnly {
		q += ` WHERE is_active=1`
	}
	q += ` ORDER BY name ASC`

	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.IsActive); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r CategoryRepository) Create(ctx context.Context, c models.Category) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO categories (name, is_active) VALUES (?, ?)`, c.Name, c.IsActive)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r CategoryRepository) Update(ctx context.Context, c models.Category) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE categories SET name=?, is_active=? WHERE id=?`, c.Name, c.IsActive, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, c.ID); err != nil {
			return err
		}
	}
	return nil
}
