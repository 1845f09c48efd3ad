package reports

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pitchside/fieldbook/internal/api"
	"github.com/pitchside/fieldbook/internal/api/authz"
	"github.com/pitchside/fieldbook/internal/db"
	dbgen "github.com/pitchside/fieldbook/internal/db/generated"
	"github.com/pitchside/fieldbook/internal/testutil"
)

func setupReportTest(t *testing.T) *db.DB {
	t.Helper()

	database := testutil.NewTestDB(t)

	queries = nil
	queriesOnce = sync.Once{}
	InitHandlers(database)

	t.Cleanup(func() {
		queries = nil
		queriesOnce = sync.Once{}
	})

	return database
}

// serveReport routes the request through the same admin gate the server
// mounts in front of report handlers.
func serveReport(handler http.HandlerFunc, rec *httptest.ResponseRecorder, req *http.Request) {
	api.WithAdminAuth(handler).ServeHTTP(rec, req)
}

func asAdmin(req *http.Request) *http.Request {
	return req.WithContext(authz.ContextWithUser(req.Context(), &authz.AuthUser{ID: 1, Role: authz.RoleAdmin}))
}

func seedReservation(t *testing.T, database *db.DB, fieldID, userID int64, status string, start, end time.Time) {
	t.Helper()
	if _, err := database.Queries.CreateReservation(context.Background(), dbgen.CreateReservationParams{
		FieldID:   fieldID,
		UserID:    userID,
		StartTime: start,
		EndTime:   end,
		Status:    status,
	}); err != nil {
		t.Fatalf("seed reservation: %v", err)
	}
}

func TestHandleOccupancyReport(t *testing.T) {
	database := setupReportTest(t)
	club := testutil.SeedClub(t, database)
	field := testutil.SeedField(t, database, club.ID)
	otherField := testutil.SeedField(t, database, club.ID)
	user := testutil.SeedUser(t, database, "player@example.com", "user")

	asOf := time.Date(2026, time.September, 14, 10, 30, 0, 0, time.UTC)
	seedReservation(t, database, field.ID, user.ID, "confirmed", asOf.Add(-time.Hour), asOf.Add(time.Hour))
	// A cancelled reservation covering as-of does not count.
	seedReservation(t, database, otherField.ID, user.ID, "cancelled", asOf.Add(-time.Hour), asOf.Add(time.Hour))

	target := fmt.Sprintf("/api/v1/admin/reports/occupancy?as_of=%s", asOf.Format(time.RFC3339))
	req := asAdmin(httptest.NewRequest(http.MethodGet, target, nil))
	rec := httptest.NewRecorder()
	serveReport(HandleOccupancyReport, rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var report occupancyReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if report.TotalFields != 2 {
		t.Errorf("total fields = %d, want 2", report.TotalFields)
	}
	if report.OccupiedFields != 1 {
		t.Errorf("occupied fields = %d, want 1", report.OccupiedFields)
	}
	if report.OccupancyRate != 0.5 {
		t.Errorf("occupancy rate = %v, want 0.5", report.OccupancyRate)
	}
}

func TestHandleOccupancyReportRequiresAdmin(t *testing.T) {
	setupReportTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/reports/occupancy", nil)
	req = req.WithContext(authz.ContextWithUser(req.Context(), &authz.AuthUser{ID: 2, Role: authz.RoleUser}))
	rec := httptest.NewRecorder()
	serveReport(HandleOccupancyReport, rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestHandleReservationReport(t *testing.T) {
	database := setupReportTest(t)
	club := testutil.SeedClub(t, database)
	field := testutil.SeedField(t, database, club.ID)
	user := testutil.SeedUser(t, database, "player@example.com", "user")

	start, end := testutil.Slot(0, 1)
	seedReservation(t, database, field.ID, user.ID, "confirmed", start, end)
	seedReservation(t, database, field.ID, user.ID, "confirmed", start.Add(2*time.Hour), end.Add(2*time.Hour))
	seedReservation(t, database, field.ID, user.ID, "cancelled", start.Add(4*time.Hour), end.Add(4*time.Hour))

	req := asAdmin(httptest.NewRequest(http.MethodGet, "/api/v1/admin/reports/reservations", nil))
	rec := httptest.NewRecorder()
	serveReport(HandleReservationReport, rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var counts reservationCounts
	if err := json.Unmarshal(rec.Body.Bytes(), &counts); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if counts.Total != 3 || counts.Confirmed != 2 || counts.Cancelled != 1 || counts.Pending != 0 {
		t.Fatalf("counts = %+v, want total 3 / confirmed 2 / cancelled 1 / pending 0", counts)
	}
}
