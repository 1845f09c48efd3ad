// internal/api/clubs/handlers.go
package clubs

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pitchside/fieldbook/internal/api/apiutil"
	appdb "github.com/pitchside/fieldbook/internal/db"
	dbgen "github.com/pitchside/fieldbook/internal/db/generated"
)

var (
	queries     *dbgen.Queries
	queriesOnce sync.Once
)

const clubQueryTimeout = 5 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB) {
	if database == nil {
		return
	}
	queriesOnce.Do(func() {
		queries = database.Queries
	})
}

type clubRequest struct {
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

func (req clubRequest) validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return apiutil.FieldError{Field: "name", Reason: "is required"}
	}
	if strings.TrimSpace(req.Address) == "" {
		return apiutil.FieldError{Field: "address", Reason: "is required"}
	}
	if (req.Lat == nil) != (req.Lng == nil) {
		return apiutil.FieldError{Field: "lat/lng", Reason: "must be provided together"}
	}
	if req.Lat != nil && (*req.Lat < -90 || *req.Lat > 90 || *req.Lng < -180 || *req.Lng > 180) {
		return apiutil.FieldError{Field: "lat/lng", Reason: "out of range"}
	}
	return nil
}

type clubView struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

func newClubView(c dbgen.Club) clubView {
	view := clubView{ID: c.ID, Name: c.Name, Address: c.Address}
	if c.Lat.Valid {
		lat := c.Lat.Float64
		view.Lat = &lat
	}
	if c.Lng.Valid {
		lng := c.Lng.Float64
		view.Lng = &lng
	}
	return view
}

// GET /api/v1/clubs
func HandleClubList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), clubQueryTimeout)
	defer cancel()

	clubs, err := q.ListClubs(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list clubs")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to list clubs")
		return
	}

	views := make([]clubView, 0, len(clubs))
	for _, club := range clubs {
		views = append(views, newClubView(club))
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, views)
}

// GET /api/v1/clubs/{id}
func HandleClubGet(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), clubQueryTimeout)
	defer cancel()

	club, err := q.GetClubByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusNotFound, "Club not found")
			return
		}
		logger.Error().Err(err).Int64("club_id", id).Msg("Failed to load club")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load club")
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, newClubView(club))
}

// POST /api/v1/admin/clubs
func HandleClubCreate(w http.ResponseWriter, r *http.Request) {
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

	var req clubRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), clubQueryTimeout)
	defer cancel()

	created, err := q.CreateClub(ctx, dbgen.CreateClubParams{
		Name:    strings.TrimSpace(req.Name),
		Address: strings.TrimSpace(req.Address),
		Lat:     toNullFloat(req.Lat),
		Lng:     toNullFloat(req.Lng),
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create club")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to create club")
		return
	}

	logger.Info().
		Int64("club_id", created.ID).
		Int64("admin_id", admin.ID).
		Msg("Club created")
	_ = apiutil.WriteJSON(w, http.StatusCreated, newClubView(created))
}

// PUT /api/v1/admin/clubs/{id}
func HandleClubUpdate(w http.ResponseWriter, r *http.Request) {
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

	var req clubRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), clubQueryTimeout)
	defer cancel()

	updated, err := q.UpdateClub(ctx, dbgen.UpdateClubParams{
		ID:      id,
		Name:    strings.TrimSpace(req.Name),
		Address: strings.TrimSpace(req.Address),
		Lat:     toNullFloat(req.Lat),
		Lng:     toNullFloat(req.Lng),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusNotFound, "Club not found")
			return
		}
		logger.Error().Err(err).Int64("club_id", id).Msg("Failed to update club")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to update club")
		return
	}

	logger.Info().
		Int64("club_id", updated.ID).
		Int64("admin_id", admin.ID).
		Msg("Club updated")
	_ = apiutil.WriteJSON(w, http.StatusOK, newClubView(updated))
}

// DELETE /api/v1/admin/clubs/{id}
func HandleClubDelete(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), clubQueryTimeout)
	defer cancel()

	removed, err := q.DeleteClub(ctx, id)
	if err != nil {
		logger.Error().Err(err).Int64("club_id", id).Msg("Failed to delete club")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to delete club")
		return
	}
	if removed == 0 {
		apiutil.WriteError(w, http.StatusNotFound, "Club not found")
		return
	}

	logger.Info().
		Int64("club_id", id).
		Int64("admin_id", admin.ID).
		Msg("Club deleted")
	w.WriteHeader(http.StatusNoContent)
}

func toNullFloat(value *float64) sql.NullFloat64 {
	if value == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *value, Valid: true}
}

func loadQueries() *dbgen.Queries {
	return queries
}
