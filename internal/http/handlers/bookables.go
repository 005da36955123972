package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventadmin/internal/authz"
	"eventadmin/internal/domain"
	"eventadmin/internal/domain/models"
	"eventadmin/internal/http/middleware"
	"eventadmin/internal/repositories"
	"eventadmin/internal/services"
)

// BookableHandler serves both /events and /workshops; the mounted kind
// decides which rows a group sees.
type BookableHandler struct {
	DB *sql.DB
}

func (h BookableHandler) svc(c *gin.Context) services.BookableService {
	return services.BookableService{DB: h.DB, RequestID: middleware.GetRequestID(c)}
}

type bookableResponse struct {
	ID            int64  `json:"id"`
	Kind          string `json:"kind"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Status        string `json:"status"`
	CreatorID     int64  `json:"creatorId"`
	CreatorName   string `json:"creatorName,omitempty"`
	CoordinatorID int64  `json:"coordinatorId,omitempty"`
	VenueID       int64  `json:"venueId,omitempty"`
	StartDate     string `json:"startDate,omitempty"`
	EndDate       string `json:"endDate,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
	UpdatedAt     string `json:"updatedAt,omitempty"`
}

func toBookableResponse(b models.Bookable) bookableResponse {
	return bookableResponse{
		ID:            b.ID,
		Kind:          b.Kind,
		Title:         b.Title,
		Description:   b.Description,
		Status:        b.Status,
		CreatorID:     b.CreatorID,
		CreatorName:   b.CreatorName,
		CoordinatorID: b.CoordinatorID,
		VenueID:       b.VenueID,
		StartDate:     b.StartDate,
		EndDate:       b.EndDate,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

type createBookableRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	CoordinatorID int64  `json:"coordinatorId"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
}

type updateBookableRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	CoordinatorID *int64  `json:"coordinatorId"`
	StartDate     *string `json:"startDate"`
	EndDate       *string `json:"endDate"`
}

type assignVenueRequest struct {
	VenueID int64 `json:"venueId"`
}

// GET /api/{events,workshops}
func (h BookableHandler) List(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerOrAbort(c)
		if !ok {
			return
		}
		list, err := h.svc(c).List(c.Request.Context(), caller, kind)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		out := make([]bookableResponse, 0, len(list))
		for _, b := range list {
			out = append(out, toBookableResponse(b))
		}
		c.JSON(http.StatusOK, out)
	}
}

// GET /api/{events,workshops}/:id
func (h BookableHandler) Get(c *gin.Context) {
	caller, ok := CallerOrAbort(c)
	if !ok {
		return
	}
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	b, err := h.svc(c).Get(c.Request.Context(), caller, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookableResponse(b))
}

// POST /api/{events,workshops}
func (h BookableHandler) Create(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerOrAbort(c)
		if !ok {
			return
		}
		var req createBookableRequest
		if !BindJSONOrError(c, &req) {
			return
		}
		b, err := h.svc(c).Create(c.Request.Context(), caller, models.Bookable{
			Kind:          kind,
			Title:         req.Title,
			Description:   req.Description,
			CoordinatorID: req.CoordinatorID,
			StartDate:     req.StartDate,
			EndDate:       req.EndDate,
		})
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusCreated, toBookableResponse(b))
	}
}

// PATCH /api/{events,workshops}/:id
func (h BookableHandler) Update(c *gin.Context) {
	caller, ok := CallerOrAbort(c)
	if !ok {
		return
	}
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	var req updateBookableRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	b, err := h.svc(c).Update(c.Request.Context(), caller, id, models.BookableUpdate{
		Title:         req.Title,
		Description:   req.Description,
		CoordinatorID: req.CoordinatorID,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookableResponse(b))
}

// POST /api/{events,workshops}/:id/complete
func (h BookableHandler) Complete(c *gin.Context) {
	caller, ok := CallerOrAbort(c)
	if !ok {
		return
	}
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	b, err := h.svc(c).Complete(c.Request.Context(), caller, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookableResponse(b))
}

// DELETE /api/{events,workshops}/:id
func (h BookableHandler) Delete(c *gin.Context) {
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

// POST /api/{events,workshops}/:id/venue
func (h BookableHandler) AssignVenue(c *gin.Context) {
	caller, ok := CallerOrAbort(c)
	if !ok {
		return
	}
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	var req assignVenueRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	b, conflicts, err := h.svc(c).AssignVenue(c.Request.Context(), caller, id, req.VenueID)
	if err != nil {
		if domain.IsConflict(err) {
			RespondDomainErrorDetails(c, err, gin.H{"conflicts": conflicts})
			return
		}
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookableResponse(b))
}

// GET /api/{events,workshops}/:id/audit
func (h BookableHandler) Audit(c *gin.Context) {
	caller, ok := CallerOrAbort(c)
	if !ok {
		return
	}
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	b, err := repositories.BookableRepository{DB: h.DB}.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if !authz.CanView(caller, b) {
		RespondDomainError(c, domain.PermissionError{Action: "view audit"})
		return
	}
	entries, err := repositories.AuditRepository{DB: h.DB}.ListByEntity(c.Request.Context(), "bookable", id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
