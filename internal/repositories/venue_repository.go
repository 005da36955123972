package repositories

import (
	"context"
	"database/sql"
	"errors"

	"eventadmin/internal/db"
	"eventadmin/internal/domain"
	"eventadmin/internal/domain/models"
)

type VenueRepository struct {
	DB db.Queryer
}

func (r VenueRepository) GetByID(ctx context.Context, id int64) (models.Venue, error) {
	var v models.Venue
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(capacity,0), is_active
		FROM venues WHERE id=? LIMIT 1`, id).
		Scan(&v.ID, &v.Name, &v.Capacity, &v.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Venue{}, domain.NotFoundError{Resource: "venue"}
	}
	if err != nil {
		return models.Venue{}, err
	}
	return v, nil
}

// LockByID reads the venue row FOR UPDATE, serializing concurrent venue
// assignments for the same venue within the surrounding transaction.
func (r VenueRepository) LockByID(ctx context.Context, id int64) (models.Venue, error) {
	var v models.Venue
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(capacity,0), is_active
		FROM venues WHERE id=? FOR UPDATE`, id).
		Scan(&v.ID, &v.Name, &v.Capacity, &v.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Venue{}, domain.NotFoundError{Resource: "venue"}
	}
	if err != nil {
		return models.Venue{}, err
	}
	return v, nil
}

func (r VenueRepository) List(ctx context.Context, activeOnly bool) ([]models.Venue, error) {
	q := `SELECT id, name, COALESCE(capacity,0), is_active FROM venues`
	if activeOnly {
		q += ` WHERE is_active=1`
	}
	q += ` ORDER BY name ASC`

	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.Venue{}
	for rows.Next() {
		var v models.Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.Capacity, &v.IsActive); err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

func (r VenueRepository) Create(ctx context.Context, v models.Venue) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO venues (name, capacity, is_active) VALUES (?, NULLIF(?,0), ?)`,
		v.Name, v.Capacity, v.IsActive)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r VenueRepository) Update(ctx context.Context, v models.Venue) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE venues SET name=?, capacity=NULLIF(?,0), is_active=? WHERE id=?`,
		v.Name, v.Capacity, v.IsActive, v.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, v.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r VenueRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM venues WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "venue"}
	}
	return nil
}
