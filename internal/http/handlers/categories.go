package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventadmin/internal/domain/models"
	"eventadmin/internal/repositories"
)

// CategoryHandler is plain CRUD over budget/expense categories; writes are
// gated by RequireRoles at the router.
type CategoryHandler struct {
	DB *sql.DB
}

type categoryRequest struct {
	Name     string `json:"name"`
	IsActive *bool  `json:"isActive"`
}

type categoryResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

// GET /api/categories?active=1
func (h CategoryHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "1" || c.Query("active") == "true"
	cats, err := repositories.CategoryRepository{DB: h.DB}.List(c.Request.Context(), activeOnly)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	out := make([]categoryResponse, 0, len(cats))
	for _, cat := range cats {
		out = append(out, categoryResponse{ID: cat.ID, Name: cat.Name, IsActive: cat.IsActive})
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/categories
func (h CategoryHandler) Create(c *gin.Context) {
	var req categoryRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.Name == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "name: must not be empty", nil)
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	repo := repositories.CategoryRepository{DB: h.DB}
	id, err := repo.Create(c.Request.Context(), models.Category{Name: req.Name, IsActive: active})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, categoryResponse{ID: id, Name: req.Name, IsActive: active})
}

// PUT /api/categories/:id
func (h CategoryHandler) Update(c *gin.Context) {
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	var req categoryRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	repo := repositories.CategoryRepository{DB: h.DB}
	cat, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if req.Name != "" {
		cat.Name = req.Name
	}
	if req.IsActive != nil {
		cat.IsActive = *req.IsActive
	}
	if err := repo.Update(c.Request.Context(), cat); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, categoryResponse{ID: cat.ID, Name: cat.Name, IsActive: cat.IsActive})
}
