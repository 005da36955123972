package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventadmin/internal/config"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	env := config.Env{
		JWTSecret:      testSecret,
		AllowedOrigins: []string{"http://localhost:3000"},
	}
	return NewRouter(env, db, nil), mock
}

func signToken(t *testing.T, userID int64, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"email":   "tester@example.com",
		"name":    "Tester",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestHealthEndpointIsPublic(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRouteRejectsMissingToken(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVenueRouteWritesRequireFacilitiesRole(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/venues", strings.NewReader(`{"name":"Hall"}`))
	req.Header.Set("Authorization", "Bearer "+signToken(t, 4, "team_lead"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAssignVenueConflictReturns409WithConflictList(t *testing.T) {
	r, mock := newTestRouter(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "capacity", "is_active"}).
			AddRow(7, "Main Hall", 120, true))
	mock.ExpectQuery("FROM bookables b").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "kind", "title", "description", "status", "creator_id", "creator_name",
			"coordinator_id", "venue_id", "start_date", "end_date", "created_at", "updated_at",
		}).AddRow(2, "event", "Gala", "", "approved", 4, "Dana Lee", 0, 0, "2024-03-02", "2024-03-04", "", ""))
	mock.ExpectQuery("FROM bookables b").
		WillReturnRows(sqlmock.NewRows([]string{"id", "kind", "title", "start", "end", "creator"}).
			AddRow(1, "workshop", "Onboarding", "2024-03-01", "2024-03-03", "Sam Ortiz"))
	mock.ExpectRollback()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/events/2/venue", strings.NewReader(`{"venueId":7}`))
	req.Header.Set("Authorization", "Bearer "+signToken(t, 3, "facilities"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)

	var body struct {
		Code    string `json:"code"`
		Details struct {
			Conflicts []struct {
				Title     string `json:"title"`
				StartDate string `json:"startDate"`
				EndDate   string `json:"endDate"`
			} `json:"conflicts"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "conflict", body.Code)
	require.Len(t, body.Details.Conflicts, 1)
	assert.Equal(t, "Onboarding", body.Details.Conflicts[0].Title)
	assert.Equal(t, "2024-03-01", body.Details.Conflicts[0].StartDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "route not found")
}
