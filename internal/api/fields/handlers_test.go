package fields

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/pitchside/fieldbook/internal/api"
	"github.com/pitchside/fieldbook/internal/api/authz"
	"github.com/pitchside/fieldbook/internal/db"
	dbgen "github.com/pitchside/fieldbook/internal/db/generated"
	"github.com/pitchside/fieldbook/internal/testutil"
	"github.com/pitchside/fieldbook/internal/weather"
)

type stubWeather struct {
	cond  weather.Conditions
	calls int
}

func (s *stubWeather) Current(ctx context.Context, lat, lng float64) (weather.Conditions, error) {
	s.calls++
	return s.cond, nil
}

func setupFieldTest(t *testing.T, lookup WeatherLookup) (*db.DB, dbgen.Club) {
	t.Helper()

	database := testutil.NewTestDB(t)
	club := testutil.SeedClub(t, database)

	queries = nil
	cache = nil
	forecast = nil
	queriesOnce = sync.Once{}
	InitHandlers(database, nil, lookup)

	t.Cleanup(func() {
		queries = nil
		cache = nil
		forecast = nil
		queriesOnce = sync.Once{}
	})

	return database, club
}

func newMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/fields", HandleFieldList)
	mux.HandleFunc("GET /api/v1/fields/nearby", HandleFieldsNearby)
	mux.HandleFunc("GET /api/v1/fields/{id}", HandleFieldGet)
	mux.Handle("POST /api/v1/admin/fields", api.WithAdminAuth(http.HandlerFunc(HandleFieldCreate)))
	mux.Handle("PUT /api/v1/admin/fields/{id}", api.WithAdminAuth(http.HandlerFunc(HandleFieldUpdate)))
	mux.Handle("DELETE /api/v1/admin/fields/{id}", api.WithAdminAuth(http.HandlerFunc(HandleFieldDelete)))
	return mux
}

func asAdmin(req *http.Request) *http.Request {
	return req.WithContext(authz.ContextWithUser(req.Context(), &authz.AuthUser{ID: 1, Role: authz.RoleAdmin}))
}

func asUser(req *http.Request) *http.Request {
	return req.WithContext(authz.ContextWithUser(req.Context(), &authz.AuthUser{ID: 2, Role: authz.RoleUser}))
}

func TestHandleFieldListIncludesClub(t *testing.T) {
	database, club := setupFieldTest(t, nil)
	testutil.SeedField(t, database, club.ID)
	mux := newMux()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/fields", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var views []fieldView
	if err := json.Unmarshal(rec.Body.Bytes(), &views); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("got %d fields, want 1", len(views))
	}
	if views[0].ClubName != club.Name {
		t.Errorf("club name = %q, want %q", views[0].ClubName, club.Name)
	}
	if views[0].PricePerHour != "$45.00" {
		t.Errorf("price = %q, want $45.00", views[0].PricePerHour)
	}
}

func TestFieldAdminCRUD(t *testing.T) {
	_, club := setupFieldTest(t, nil)
	mux := newMux()

	body := fmt.Sprintf(
		`{"club_id": %d, "name": "Court A", "sport": "padel", "surface": "acrylic", "indoor": true, "price_per_hour_cents": 3000}`,
		club.ID,
	)

	// Plain users cannot manage fields.
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/admin/fields", strings.NewReader(body)))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("user create status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	req = asAdmin(httptest.NewRequest(http.MethodPost, "/api/v1/admin/fields", strings.NewReader(body)))
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var created fieldView
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	update := `{"name": "Court A1", "sport": "padel", "surface": "acrylic", "indoor": true, "price_per_hour_cents": 3500}`
	req = asAdmin(httptest.NewRequest(http.MethodPut,
		fmt.Sprintf("/api/v1/admin/fields/%d", created.ID), strings.NewReader(update)))
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	req = asAdmin(httptest.NewRequest(http.MethodDelete,
		fmt.Sprintf("/api/v1/admin/fields/%d", created.ID), nil))
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/v1/fields/%d", created.ID), nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleFieldsNearby(t *testing.T) {
	lookup := &stubWeather{cond: weather.Conditions{Description: "clear sky", TempC: 21}}
	database, club := setupFieldTest(t, lookup)
	testutil.SeedField(t, database, club.ID)

	// A second club well outside the radius.
	farClub, err := database.Queries.CreateClub(context.Background(), dbgen.CreateClubParams{
		Name:    "Northern Club",
		Address: "99 Far Road",
		Lat:     sql.NullFloat64{Float64: 55.9533, Valid: true},
		Lng:     sql.NullFloat64{Float64: -3.1883, Valid: true},
	})
	if err != nil {
		t.Fatalf("seed far club: %v", err)
	}
	testutil.SeedField(t, database, farClub.ID)

	mux := newMux()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/v1/fields/nearby?lat=51.50&lng=-0.12", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var views []nearbyFieldView
	if err := json.Unmarshal(rec.Body.Bytes(), &views); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("got %d nearby fields, want 1", len(views))
	}
	if views[0].DistanceKm <= 0 || views[0].DistanceKm > 50 {
		t.Errorf("distance = %v km, want within (0, 50]", views[0].DistanceKm)
	}
	if views[0].Weather == nil || views[0].Weather.Description != "clear sky" {
		t.Errorf("weather = %+v, want clear sky", views[0].Weather)
	}
	if lookup.calls != 1 {
		t.Errorf("weather lookups = %d, want 1", lookup.calls)
	}
}

func TestHandleFieldsNearbyValidation(t *testing.T) {
	setupFieldTest(t, nil)
	mux := newMux()

	for _, target := range []string{
		"/api/v1/fields/nearby",
		"/api/v1/fields/nearby?lat=91&lng=0",
		"/api/v1/fields/nearby?lat=abc&lng=0",
	} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want %d", target, rec.Code, http.StatusBadRequest)
		}
	}
}

func TestHaversineKm(t *testing.T) {
	// London to Edinburgh is roughly 534 km.
	got := haversineKm(51.5072, -0.1276, 55.9533, -3.1883)
	if math.Abs(got-534) > 10 {
		t.Errorf("haversineKm = %v, want ~534", got)
	}

	if got := haversineKm(51.5, -0.1, 51.5, -0.1); got != 0 {
		t.Errorf("zero distance = %v, want 0", got)
	}
}
