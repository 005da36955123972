package repositories

import (
	"context"
	"database/sql"
	"errors"

	"eventadmin/internal/db"
	"eventadmin/internal/domain"
	"eventadmin/internal/domain/models"
)

// UserRepository wraps DB access for users. DB may be *sql.DB or *sql.Tx.
type UserRepository struct {
	DB db.Queryer
}

const userColumns = `
	id,
	name,
	email,
	COALESCE(phone,''),
	password_hash,
	role,
	status,
	COALESCE(created_at,''),
	COALESCE(updated_at,'')`

func scanUser(row *sql.Row) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Phone,
		&u.PasswordHash,
		&u.Role,
		&u.Status,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (r UserRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=? LIMIT 1`, id))
}

// GetByLogin resolves a user by email (or name, kept for older clients).
func (r UserRepository) GetByLogin(ctx context.Context, login string) (models.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email=? OR name=? LIMIT 1`, login, login))
}

func (r UserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID,
			&u.Name,
			&u.Email,
			&u.Phone,
			&u.PasswordHash,
			&u.Role,
			&u.Status,
			&u.CreatedAt,
			&u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// EmailsByRole returns active users' emails for one role, for notifications.
func (r UserRepository) EmailsByRole(ctx context.Context, role string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT email FROM users WHERE role=? AND status='active' ORDER BY id ASC`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	emails := []string{}
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, err
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}

func (r UserRepository) Create(ctx context.Context, u models.User) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (name, email, phone, password_hash, role, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())`,
		u.Name, u.Email, db.NullIfEmpty(u.Phone), u.PasswordHash, u.Role, u.Status)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r UserRepository) Update(ctx context.Context, u models.User) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE users SET name=?, email=?, phone=?, role=?, status=?, updated_at=NOW()
		WHERE id=?`,
		u.Name, u.Email, db.NullIfEmpty(u.Phone), u.Role, u.Status, u.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, u.ID); err != nil {
			return err
		}
	}
	return nil
}

// CountOwnedActive counts bookables created by the user that are still
// pending or approved, which blocks account deletion.
func (r UserRepository) CountOwnedActive(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM bookables
		WHERE creator_id=? AND status IN ('pending','approved')`, userID).Scan(&n)
	return n, err
}

// DeleteCascade removes the user and every dependent row in the calling
// transaction: expenses they added, bookables they created (with budget
// lines, approvals and expenses), and coordinator assignments.
func (r UserRepository) DeleteCascade(ctx context.Context, userID int64) error {
	steps := []struct {
		query string
		args  []any
	}{
		{`DELETE FROM expenses WHERE added_by=?`, []any{userID}},
		{`DELETE e FROM expenses e JOIN bookables b ON b.id=e.bookable_id WHERE b.creator_id=?`, []any{userID}},
		{`DELETE l FROM budget_lines l JOIN bookables b ON b.id=l.bookable_id WHERE b.creator_id=?`, []any{userID}},
		{`DELETE a FROM budget_approvals a JOIN bookables b ON b.id=a.bookable_id WHERE b.creator_id=?`, []any{userID}},
		{`DELETE FROM bookables WHERE creator_id=?`, []any{userID}},
		{`UPDATE bookables SET coordinator_id=NULL WHERE coordinator_id=?`, []any{userID}},
		{`DELETE FROM users WHERE id=?`, []any{userID}},
	}
	for _, s := range steps {
		if _, err := r.DB.ExecContext(ctx, s.query, s.args...); err != nil {
			return err
		}
	}
	return nil
}
