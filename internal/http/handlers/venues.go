package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventadmin/internal/domain/models"
	"eventadmin/internal/repositories"
)

// VenueHandler is plain CRUD; write routes are gated by RequireRoles at the
// router.
type VenueHandler struct {
	DB *sql.DB
}

type venueRequest struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	IsActive *bool  `json:"isActive"`
}

type venueResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity,omitempty"`
	IsActive bool   `json:"isActive"`
}

func toVenueResponse(v models.Venue) venueResponse {
	return venueResponse{ID: v.ID, Name: v.Name, Capacity: v.Capacity, IsActive: v.IsActive}
}

// GET /api/venues?active=1
func (h VenueHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "1" || c.Query("active") == "true"
	venues, err := repositories.VenueRepository{DB: h.DB}.List(c.Request.Context(), activeOnly)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	out := make([]venueResponse, 0, len(venues))
	for _, v := range venues {
		out = append(out, toVenueResponse(v))
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/venues/:id
func (h VenueHandler) Get(c *gin.Context) {
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	v, err := repositories.VenueRepository{DB: h.DB}.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toVenueResponse(v))
}

// POST /api/venues
func (h VenueHandler) Create(c *gin.Context) {
	var req venueRequest
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
	repo := repositories.VenueRepository{DB: h.DB}
	id, err := repo.Create(c.Request.Context(), models.Venue{
		Name:     req.Name,
		Capacity: req.Capacity,
		IsActive: active,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	v, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toVenueResponse(v))
}

// PUT /api/venues/:id
func (h VenueHandler) Update(c *gin.Context) {
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	var req venueRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	repo := repositories.VenueRepository{DB: h.DB}
	v, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if req.Name != "" {
		v.Name = req.Name
	}
	if req.Capacity != 0 {
		v.Capacity = req.Capacity
	}
	if req.IsActive != nil {
		v.IsActive = *req.IsActive
	}
	if err := repo.Update(c.Request.Context(), v); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toVenueResponse(v))
}

// DELETE /api/venues/:id
func (h VenueHandler) Delete(c *gin.Context) {
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	if err := (repositories.VenueRepository{DB: h.DB}).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
