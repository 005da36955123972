package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventadmin/internal/domain/models"
	"eventadmin/internal/http/middleware"
	"eventadmin/internal/services"
)

type UserHandler struct {
	DB *sql.DB
}

func (h UserHandler) svc(c *gin.Context) services.UserService {
	return services.UserService{DB: h.DB, RequestID: middleware.GetRequestID(c)}
}

type userResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt,omitempty"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}

// GET /api/users
func (h UserHandler) List(c *gin.Context) {
	caller, ok := CallerOrAbort(c)
	if !ok {
		return
	}
	users, err := h.svc(c).List(c.Request.Context(), caller)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/users/:id
func (h UserHandler) Get(c *gin.Context) {
	caller, ok := CallerOrAbort(c)
	if !ok {
		return
	}
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	u, err := h.svc(c).Get(c.Request.Context(), caller, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}

// POST /api/users
func (h UserHandler) Create(c *gin.Context) {
	caller, ok := CallerOrAbort(c)
	if !ok {
		return
	}
	var req services.UserInput
	if !BindJSONOrError(c, &req) {
		return
	}
	u, err := h.svc(c).Create(c.Request.Context(), caller, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(u))
}

// PUT /api/users/:id
func (h UserHandler) Update(c *gin.Context) {
	caller, ok := CallerOrAbort(c)
	if !ok {
		return
	}
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	var req services.UserInput
	if !BindJSONOrError(c, &req) {
		return
	}
	u, err := h.svc(c).Update(c.Request.Context(), caller, id, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}

// DELETE /api/users/:id
func (h UserHandler) Delete(c *gin.Context) {
	caller, ok := CallerOrAbort(c)
	if !ok {
		return
	}
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc(c).Delete(c.Request.Context(), caller, id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
