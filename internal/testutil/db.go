package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/pitchside/fieldbook/internal/db"
	dbgen "github.com/pitchside/fieldbook/internal/db/generated"
)

// NewTestDB creates a temporary SQLite database with migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// SeedClub inserts a club and returns it.
func SeedClub(t *testing.T, database *db.DB) dbgen.Club {
	t.Helper()

	club, err := database.Queries.CreateClub(context.Background(), dbgen.CreateClubParams{
		Name:    "Riverside Sports Club",
		Address: "1 Riverside Way",
		Lat:     sql.NullFloat64{Float64: 51.5072, Valid: true},
		Lng:     sql.NullFloat64{Float64: -0.1276, Valid: true},
	})
	if err != nil {
		t.Fatalf("seed club: %v", err)
	}
	return club
}

// SeedField inserts a field belonging to the given club and returns it.
func SeedField(t *testing.T, database *db.DB, clubID int64) dbgen.Field {
	t.Helper()

	field, err := database.Queries.CreateField(context.Background(), dbgen.CreateFieldParams{
		ClubID:            clubID,
		Name:              "Pitch 1",
		Sport:             "football",
		Surface:           "grass",
		Indoor:            false,
		Lighting:          true,
		PricePerHourCents: 4500,
	})
	if err != nil {
		t.Fatalf("seed field: %v", err)
	}
	return field
}

// SeedUser inserts a user with the given email and role and returns it.
func SeedUser(t *testing.T, database *db.DB, email, role string) dbgen.User {
	t.Helper()

	user, err := database.Queries.CreateUser(context.Background(), dbgen.CreateUserParams{
		Name:  "Test User",
		Email: sql.NullString{String: email, Valid: email != ""},
		Role:  role,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// Slot returns a deterministic future [start, end) range offset by the given
// number of hours from a fixed base time.
func Slot(offsetHours, durationHours int) (time.Time, time.Time) {
	base := time.Date(2026, time.September, 14, 8, 0, 0, 0, time.UTC)
	start := base.Add(time.Duration(offsetHours) * time.Hour)
	return start, start.Add(time.Duration(durationHours) * time.Hour)
}
