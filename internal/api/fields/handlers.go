// internal/api/fields/handlers.go
package fields

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/pitchside/fieldbook/internal/api/apiutil"
	appdb "github.com/pitchside/fieldbook/internal/db"
	dbgen "github.com/pitchside/fieldbook/internal/db/generated"
	"github.com/pitchside/fieldbook/internal/weather"
)

var (
	queries     *dbgen.Queries
	cache       *redis.Client
	forecast    WeatherLookup
	queriesOnce sync.Once
)

const (
	fieldQueryTimeout = 5 * time.Second
	nearbyRadiusKm    = 50.0
	nearbyCacheTTL    = time.Minute
	earthRadiusKm     = 6371.0
)

// WeatherLookup reports current conditions at a coordinate.
type WeatherLookup interface {
	Current(ctx context.Context, lat, lng float64) (weather.Conditions, error)
}

// InitHandlers must be called during server startup before handling requests.
// The cache and lookup may be nil; nearby queries then skip caching and
// weather enrichment.
func InitHandlers(database *appdb.DB, redisClient *redis.Client, lookup WeatherLookup) {
	if database == nil {
		return
	}
	queriesOnce.Do(func() {
		queries = database.Queries
		cache = redisClient
		forecast = lookup
	})
}

type fieldRequest struct {
	ClubID            int64  `json:"club_id,omitempty"`
	Name              string `json:"name"`
	Sport             string `json:"sport"`
	Surface           string `json:"surface"`
	Indoor            bool   `json:"indoor"`
	Lighting          bool   `json:"lighting"`
	PricePerHourCents int64  `json:"price_per_hour_cents"`
}

func (req fieldRequest) validate(requireClub bool) error {
	if requireClub && req.ClubID <= 0 {
		return apiutil.FieldError{Field: "club_id", Reason: "must be greater than 0"}
	}
	if strings.TrimSpace(req.Name) == "" {
		return apiutil.FieldError{Field: "name", Reason: "is required"}
	}
	if strings.TrimSpace(req.Sport) == "" {
		return apiutil.FieldError{Field: "sport", Reason: "is required"}
	}
	if req.PricePerHourCents < 0 {
		return apiutil.FieldError{Field: "price_per_hour_cents", Reason: "must be 0 or greater"}
	}
	return nil
}

type fieldView struct {
	ID                int64   `json:"id"`
	ClubID            int64   `json:"club_id"`
	Name              string  `json:"name"`
	Sport             string  `json:"sport"`
	Surface           string  `json:"surface"`
	Indoor            bool    `json:"indoor"`
	Lighting          bool    `json:"lighting"`
	PricePerHourCents int64   `json:"price_per_hour_cents"`
	PricePerHour      string  `json:"price_per_hour"`
	ClubName          string  `json:"club_name,omitempty"`
	ClubAddress       string  `json:"club_address,omitempty"`
	Lat               float64 `json:"lat,omitempty"`
	Lng               float64 `json:"lng,omitempty"`
}

func newFieldView(f dbgen.Field) fieldView {
	return fieldView{
		ID:                f.ID,
		ClubID:            f.ClubID,
		Name:              f.Name,
		Sport:             f.Sport,
		Surface:           f.Surface,
		Indoor:            f.Indoor,
		Lighting:          f.Lighting,
		PricePerHourCents: f.PricePerHourCents,
		PricePerHour:      apiutil.FormatPriceCents(f.PricePerHourCents),
	}
}

func newFieldWithClubView(row dbgen.ListFieldsWithClubRow) fieldView {
	view := fieldView{
		ID:                row.ID,
		ClubID:            row.ClubID,
		Name:              row.Name,
		Sport:             row.Sport,
		Surface:           row.Surface,
		Indoor:            row.Indoor,
		Lighting:          row.Lighting,
		PricePerHourCents: row.PricePerHourCents,
		PricePerHour:      apiutil.FormatPriceCents(row.PricePerHourCents),
		ClubName:          row.ClubName,
		ClubAddress:       row.ClubAddress,
	}
	if row.ClubLat.Valid {
		view.Lat = row.ClubLat.Float64
	}
	if row.ClubLng.Valid {
		view.Lng = row.ClubLng.Float64
	}
	return view
}

// GET /api/v1/fields
func HandleFieldList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), fieldQueryTimeout)
	defer cancel()

	rows, err := q.ListFieldsWithClub(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list fields")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to list fields")
		return
	}

	views := make([]fieldView, 0, len(rows))
	for _, row := range rows {
		views = append(views, newFieldWithClubView(row))
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, views)
}

// GET /api/v1/fields/{id}
func HandleFieldGet(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), fieldQueryTimeout)
	defer cancel()

	field, err := q.GetFieldByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusNotFound, "Field not found")
			return
		}
		logger.Error().Err(err).Int64("field_id", id).Msg("Failed to load field")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load field")
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, newFieldView(field))
}

// POST /api/v1/admin/fields
func HandleFieldCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	admin, ok := apiutil.RequireUser(w, r)
	if !ok {
		return
	}

	var req fieldRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.validate(true); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), fieldQueryTimeout)
	defer cancel()

	if _, err := q.GetClubByID(ctx, req.ClubID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusNotFound, "Club not found")
			return
		}
		logger.Error().Err(err).Int64("club_id", req.ClubID).Msg("Failed to validate club")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to validate club")
		return
	}

	created, err := q.CreateField(ctx, dbgen.CreateFieldParams{
		ClubID:            req.ClubID,
		Name:              strings.TrimSpace(req.Name),
		Sport:             strings.TrimSpace(req.Sport),
		Surface:           strings.TrimSpace(req.Surface),
		Indoor:            req.Indoor,
		Lighting:          req.Lighting,
		PricePerHourCents: req.PricePerHourCents,
	})
	if err != nil {
		logger.Error().Err(err).Int64("club_id", req.ClubID).Msg("Failed to create field")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to create field")
		return
	}

	logger.Info().
		Int64("field_id", created.ID).
		Int64("admin_id", admin.ID).
		Msg("Field created")
	_ = apiutil.WriteJSON(w, http.StatusCreated, newFieldView(created))
}

// PUT /api/v1/admin/fields/{id}
func HandleFieldUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	admin, ok := apiutil.RequireUser(w, r)
	if !ok {
		return
	}

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req fieldRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.validate(false); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), fieldQueryTimeout)
	defer cancel()

	updated, err := q.UpdateField(ctx, dbgen.UpdateFieldParams{
		ID:                id,
		Name:              strings.TrimSpace(req.Name),
		Sport:             strings.TrimSpace(req.Sport),
		Surface:           strings.TrimSpace(req.Surface),
		Indoor:            req.Indoor,
		Lighting:          req.Lighting,
		PricePerHourCents: req.PricePerHourCents,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusNotFound, "Field not found")
			return
		}
		logger.Error().Err(err).Int64("field_id", id).Msg("Failed to update field")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to update field")
		return
	}

	logger.Info().
		Int64("field_id", updated.ID).
		Int64("admin_id", admin.ID).
		Msg("Field updated")
	_ = apiutil.WriteJSON(w, http.StatusOK, newFieldView(updated))
}

// DELETE /api/v1/admin/fields/{id}
func HandleFieldDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	admin, ok := apiutil.RequireUser(w, r)
	if !ok {
		return
	}

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), fieldQueryTimeout)
	defer cancel()

	removed, err := q.DeleteField(ctx, id)
	if err != nil {
		logger.Error().Err(err).Int64("field_id", id).Msg("Failed to delete field")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to delete field")
		return
	}
	if removed == 0 {
		apiutil.WriteError(w, http.StatusNotFound, "Field not found")
		return
	}

	logger.Info().
		Int64("field_id", id).
		Int64("admin_id", admin.ID).
		Msg("Field deleted")
	w.WriteHeader(http.StatusNoContent)
}

type nearbyFieldView struct {
	fieldView
	DistanceKm float64             `json:"distance_km"`
	Weather    *weather.Conditions `json:"weather,omitempty"`
}

// GET /api/v1/fields/nearby?lat=..&lng=..
func HandleFieldsNearby(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	lat, err := apiutil.ParseFloatQuery(r, "lat")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	lng, err := apiutil.ParseFloatQuery(r, "lng")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		apiutil.WriteError(w, http.StatusBadRequest, "lat/lng out of range")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), fieldQueryTimeout)
	defer cancel()

	cacheKey := fmt.Sprintf("nearby_fields_%.4f_%.4f", lat, lng)
	if cache != nil {
		if cached, err := cache.Get(ctx, cacheKey).Result(); err == nil {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(cached))
			return
		}
	}

	rows, err := q.ListFieldsWithClub(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list fields")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to list fields")
		return
	}

	views := make([]nearbyFieldView, 0)
	for _, row := range rows {
		if !row.ClubLat.Valid || !row.ClubLng.Valid {
			continue
		}
		distance := haversineKm(lat, lng, row.ClubLat.Float64, row.ClubLng.Float64)
		if distance > nearbyRadiusKm {
			continue
		}
		view := nearbyFieldView{
			fieldView:  newFieldWithClubView(row),
			DistanceKm: math.Round(distance*100) / 100,
		}
		if forecast != nil && !row.Indoor {
			if conditions, err := forecast.Current(ctx, row.ClubLat.Float64, row.ClubLng.Float64); err == nil {
				view.Weather = &conditions
			} else {
				logger.Debug().Err(err).Int64("field_id", row.ID).Msg("Weather lookup failed for nearby field")
			}
		}
		views = append(views, view)
	}

	payload, err := json.Marshal(views)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to encode nearby fields")
		apiutil.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if cache != nil {
		if err := cache.Set(ctx, cacheKey, payload, nearbyCacheTTL).Err(); err != nil {
			logger.Debug().Err(err).Str("key", cacheKey).Msg("Failed to cache nearby fields")
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(payload)
}

// haversineKm returns the great-circle distance between two coordinates.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func loadQueries() *dbgen.Queries {
	return queries
}
