package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"eventadmin/internal/domain"
	"eventadmin/internal/repositories"
)

// AuthHandler issues tokens. Accounts are provisioned by admins through the
// users endpoints; there is no open registration.
type AuthHandler struct {
	DB     *sql.DB
	Secret []byte
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authUser struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// POST /api/auth/login
func (h AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	user, err := repositories.UserRepository{DB: h.DB}.GetByLogin(c.Request.Context(), req.Email)
	if err != nil {
		if domain.IsNotFound(err) {
			respondError(c, http.StatusUnauthorized, "unauthorized", "wrong email or password", nil)
			return
		}
		RespondDomainError(c, err)
		return
	}
	if user.Status != "active" {
		respondError(c, http.StatusForbidden, "forbidden", "account is disabled", nil)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "unauthorized", "wrong email or password", nil)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"email":   user.Email,
		"name":    user.Name,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	tokenString, err := token.SignedString(h.Secret)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "token signing failed", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user": authUser{
			ID:     user.ID,
			Name:   user.Name,
			Email:  user.Email,
			Role:   user.Role,
			Status: user.Status,
		},
	})
}

// GET /api/auth/me
func (h AuthHandler) Me(c *gin.Context) {
	caller, ok := CallerOrAbort(c)
	if !ok {
		return
	}
	user, err := repositories.UserRepository{DB: h.DB}.GetByID(c.Request.Context(), caller.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, authUser{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		Status: user.Status,
	})
}
