package router

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globetrotter-app/globetrotter/config"
	"github.com/globetrotter-app/globetrotter/internal/api/auth"
	"github.com/globetrotter-app/globetrotter/internal/types"
)

// stubHandlers answers every route with 200 and the route's name so the
// tests can assert dispatch without real services behind the handlers.
type stubHandlers struct{}

func respond(w http.ResponseWriter, name string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"handler": name})
}

func (stubHandlers) Register(w http.ResponseWriter, _ *http.Request) { respond(w, "Register") }
func (stubHandlers) Login(w http.ResponseWriter, _ *http.Request)    { respond(w, "Login") }
func (stubHandlers) Refresh(w http.ResponseWriter, _ *http.Request)  { respond(w, "Refresh") }
func (stubHandlers) Logout(w http.ResponseWriter, _ *http.Request)   { respond(w, "Logout") }
func (stubHandlers) ChangePassword(w http.ResponseWriter, _ *http.Request) {
	respond(w, "ChangePassword")
}

func (stubHandlers) CreateTrip(w http.ResponseWriter, _ *http.Request) { respond(w, "CreateTrip") }
func (stubHandlers) GetTrip(w http.ResponseWriter, _ *http.Request)    { respond(w, "GetTrip") }
func (stubHandlers) ListTrips(w http.ResponseWriter, _ *http.Request)  { respond(w, "ListTrips") }
func (stubHandlers) UpdateTrip(w http.ResponseWriter, _ *http.Request) { respond(w, "UpdateTrip") }
func (stubHandlers) DeleteTrip(w http.ResponseWriter, _ *http.Request) { respond(w, "DeleteTrip") }

func (stubHandlers) GetItinerary(w http.ResponseWriter, _ *http.Request) { respond(w, "GetItinerary") }
func (stubHandlers) AddStop(w http.ResponseWriter, _ *http.Request)      { respond(w, "AddStop") }
func (stubHandlers) UpdateStop(w http.ResponseWriter, _ *http.Request)   { respond(w, "UpdateStop") }
func (stubHandlers) DeleteStop(w http.ResponseWriter, _ *http.Request)   { respond(w, "DeleteStop") }
func (stubHandlers) MoveStop(w http.ResponseWriter, _ *http.Request)     { respond(w, "MoveStop") }
func (stubHandlers) SaveOrder(w http.ResponseWriter, _ *http.Request)    { respond(w, "SaveOrder") }
func (stubHandlers) AddActivity(w http.ResponseWriter, _ *http.Request)  { respond(w, "AddActivity") }
func (stubHandlers) UpdateActivity(w http.ResponseWriter, _ *http.Request) {
	respond(w, "UpdateActivity")
}
func (stubHandlers) DeleteActivity(w http.ResponseWriter, _ *http.Request) {
	respond(w, "DeleteActivity")
}

func (stubHandlers) SearchCities(w http.ResponseWriter, _ *http.Request) { respond(w, "SearchCities") }
func (stubHandlers) GetCity(w http.ResponseWriter, _ *http.Request)      { respond(w, "GetCity") }
func (stubHandlers) Autocomplete(w http.ResponseWriter, _ *http.Request) { respond(w, "Autocomplete") }

func (stubHandlers) GetMonth(w http.ResponseWriter, _ *http.Request) { respond(w, "GetMonth") }
func (stubHandlers) GetDay(w http.ResponseWriter, _ *http.Request)   { respond(w, "GetDay") }

func (stubHandlers) GetUserProfile(w http.ResponseWriter, _ *http.Request) {
	respond(w, "GetUserProfile")
}
func (stubHandlers) UpdateUserProfile(w http.ResponseWriter, _ *http.Request) {
	respond(w, "UpdateUserProfile")
}

func (stubHandlers) Chat(w http.ResponseWriter, _ *http.Request)    { respond(w, "Chat") }
func (stubHandlers) History(w http.ResponseWriter, _ *http.Request) { respond(w, "History") }
func (stubHandlers) ClearHistory(w http.ResponseWriter, _ *http.Request) {
	respond(w, "ClearHistory")
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		SecretKey:       "router-test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 168 * time.Hour,
		Issuer:          "globetrotter-api",
		Audience:        "globetrotter-client",
	}
}

func mintToken(t *testing.T, jwtCfg config.JWTConfig) string {
	t.Helper()
	now := time.Now()
	claims := &types.Claims{
		UserID: uuid.New().String(),
		Email:  "router@example.com",
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtCfg.Issuer,
			Audience:  jwt.ClaimStrings{jwtCfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(jwtCfg.AccessTokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtCfg.SecretKey))
	require.NoError(t, err)
	return token
}

func newTestRouter(jwtCfg config.JWTConfig) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	stubs := stubHandlers{}
	return SetupRouter(&Config{
		AuthHandler:            stubs,
		TripHandler:            stubs,
		ItineraryHandler:       stubs,
		CityHandler:            stubs,
		CalendarHandler:        stubs,
		UserHandler:            stubs,
		AssistantHandler:       stubs,
		AuthenticateMiddleware: auth.Authenticate(logger, jwtCfg),
		AllowOrigins:           []string{"http://localhost:3000"},
	})
}

func handlerName(t *testing.T, body io.Reader) string {
	t.Helper()
	var payload map[string]string
	require.NoError(t, json.NewDecoder(body).Decode(&payload))
	return payload["handler"]
}

func TestPublicRoutes(t *testing.T) {
	jwtCfg := testJWTConfig()
	r := newTestRouter(jwtCfg)

	t.Run("ping needs no token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "pong", rec.Body.String())
	})

	t.Run("login needs no token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Login", handlerName(t, rec.Body))
	})
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	jwtCfg := testJWTConfig()
	r := newTestRouter(jwtCfg)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/trips"},
		{http.MethodGet, "/api/v1/user/profile"},
		{http.MethodGet, "/api/v1/cities"},
		{http.MethodGet, "/api/v1/calendar/2026/3"},
		{http.MethodPost, "/api/v1/assistant/chat"},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(p.method, p.path, nil))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestProtectedRouteDispatch(t *testing.T) {
	jwtCfg := testJWTConfig()
	r := newTestRouter(jwtCfg)
	token := mintToken(t, jwtCfg)

	tripID := uuid.New().String()
	stopID := uuid.New().String()
	activityID := uuid.New().String()

	cases := []struct {
		method  string
		path    string
		handler string
	}{
		{http.MethodGet, "/api/v1/trips", "ListTrips"},
		{http.MethodPost, "/api/v1/trips", "CreateTrip"},
		{http.MethodGet, "/api/v1/trips/" + tripID, "GetTrip"},
		{http.MethodGet, "/api/v1/trips/" + tripID + "/itinerary", "GetItinerary"},
		{http.MethodPost, "/api/v1/trips/" + tripID + "/stops", "AddStop"},
		{http.MethodPost, "/api/v1/trips/" + tripID + "/stops/move", "MoveStop"},
		{http.MethodPut, "/api/v1/trips/" + tripID + "/stops/order", "SaveOrder"},
		{http.MethodDelete, "/api/v1/trips/" + tripID + "/stops/" + stopID, "DeleteStop"},
		{http.MethodPut, "/api/v1/trips/" + tripID + "/stops/" + stopID + "/activities/" + activityID, "UpdateActivity"},
		{http.MethodGet, "/api/v1/cities/autocomplete", "Autocomplete"},
		{http.MethodGet, "/api/v1/calendar/2026/3", "GetMonth"},
		{http.MethodGet, "/api/v1/calendar/day", "GetDay"},
		{http.MethodDelete, "/api/v1/assistant/history", "ClearHistory"},
	}

	for _, c := range cases {
		t.Run(c.handler, func(t *testing.T) {
			req := httptest.NewRequest(c.method, c.path, nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, c.handler, handlerName(t, rec.Body))
		})
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	jwtCfg := testJWTConfig()
	r := newTestRouter(jwtCfg)

	now := time.Now()
	claims := &types.Claims{
		UserID: uuid.New().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtCfg.Issuer,
			Audience:  jwt.ClaimStrings{jwtCfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-30 * time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtCfg.SecretKey))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trips", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
