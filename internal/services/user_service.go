package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"eventadmin/internal/authz"
	"eventadmin/internal/db"
	"eventadmin/internal/domain"
	"eventadmin/internal/domain/models"
	"eventadmin/internal/repositories"
	"eventadmin/internal/utils"
)

// UserInput is the admin-facing write payload for accounts.
type UserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

type UserService struct {
	DB        *sql.DB
	RequestID string
}

func (s UserService) List(ctx context.Context, caller domain.Caller) ([]models.User, error) {
	if !authz.Allow(caller.Role, authz.ActionManageUsers) {
		return nil, domain.PermissionError{Action: authz.ActionManageUsers}
	}
	return repositories.UserRepository{DB: s.DB}.List(ctx)
}

func (s UserService) Get(ctx context.Context, caller domain.Caller, id int64) (models.User, error) {
	if !authz.Allow(caller.Role, authz.ActionManageUsers) && caller.ID != id {
		return models.User{}, domain.PermissionError{Action: authz.ActionManageUsers}
	}
	return repositories.UserRepository{DB: s.DB}.GetByID(ctx, id)
}

func (s UserService) Create(ctx context.Context, caller domain.Caller, in UserInput) (models.User, error) {
	if !authz.Allow(caller.Role, authz.ActionManageUsers) {
		return models.User{}, domain.PermissionError{Action: authz.ActionManageUsers}
	}
	if err := validateUserInput(in, true); err != nil {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, domain.InternalError{Msg: "password hash failed", Err: err}
	}

	status := in.Status
	if status == "" {
		status = "active"
	}

	repo := repositories.UserRepository{DB: s.DB}
	id, err := repo.Create(ctx, models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.TrimSpace(in.Email),
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: string(hash),
		Role:         in.Role,
		Status:       status,
	})
	if err != nil {
		if isDuplicateKey(err) {
			return models.User{}, domain.ConflictError{Resource: "user", Msg: "email already registered"}
		}
		return models.User{}, err
	}
	utils.LogEvent(s.RequestID, "user", "create", fmt.Sprintf("id=%d role=%s", id, in.Role))
	return repo.GetByID(ctx, id)
}

func (s UserService) Update(ctx context.Context, caller domain.Caller, id int64, in UserInput) (models.User, error) {
	if !authz.Allow(caller.Role, authz.ActionManageUsers) {
		return models.User{}, domain.PermissionError{Action: authz.ActionManageUsers}
	}
	if err := validateUserInput(in, false); err != nil {
		return models.User{}, err
	}

	repo := repositories.UserRepository{DB: s.DB}
	u, err := repo.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	u.Name = strings.TrimSpace(in.Name)
	u.Email = strings.TrimSpace(in.Email)
	u.Phone = strings.TrimSpace(in.Phone)
	u.Role = in.Role
	if in.Status != "" {
		u.Status = in.Status
	}
	if err := repo.Update(ctx, u); err != nil {
		if isDuplicateKey(err) {
			return models.User{}, domain.ConflictError{Resource: "user", Msg: "email already registered"}
		}
		return models.User{}, err
	}
	return repo.GetByID(ctx, id)
}

// Delete removes the account and its dependent rows in one transaction.
// It refuses while the user still owns pending or approved bookables, so
// live approval workflows cannot lose their owner.
func (s UserService) Delete(ctx context.Context, caller domain.Caller, id int64) error {
	if !authz.Allow(caller.Role, authz.ActionDeleteUser) {
		return domain.PermissionError{Action: authz.ActionDeleteUser}
	}
	if caller.ID == id {
		return domain.ValidationError{Field: "id", Msg: "cannot delete own account"}
	}

	repo := repositories.UserRepository{DB: s.DB}
	if _, err := repo.GetByID(ctx, id); err != nil {
		return err
	}
	owned, err := repo.CountOwnedActive(ctx, id)
	if err != nil {
		return err
	}
	if owned > 0 {
		return domain.ConflictError{
			Resource: "user",
			Msg:      fmt.Sprintf("owns %d pending/approved bookables", owned),
		}
	}

	err = db.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		return repositories.UserRepository{DB: tx}.DeleteCascade(ctx, id)
	})
	if err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "user", "delete", fmt.Sprintf("id=%d", id))
	return nil
}

func validateUserInput(in UserInput, requirePassword bool) error {
	if strings.TrimSpace(in.Name) == "" {
		return domain.ValidationError{Field: "name", Msg: "must not be empty"}
	}
	if !strings.Contains(in.Email, "@") {
		return domain.ValidationError{Field: "email", Msg: "must be a valid address"}
	}
	if requirePassword && len(in.Password) < 8 {
		return domain.ValidationError{Field: "password", Msg: "must be at least 8 characters"}
	}
	if !domain.ValidRole(in.Role) {
		return domain.ValidationError{Field: "role", Msg: "unknown role"}
	}
	return nil
}

func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}
