// internal/weather/client.go

// Package weather looks up current conditions from the OpenWeatherMap API.
// Lookups are best-effort: short timeout, optional redis cache, and callers
// are expected to tolerate failure.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const lookupTimeout = 3 * time.Second

// Conditions is the subset of the API response the platform cares about.
type Conditions struct {
	Description string  `json:"description"`
	TempC       float64 `json:"temp_c"`
	WindSpeed   float64 `json:"wind_speed"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cache      *redis.Client
	cacheTTL   time.Duration
}

// NewClient builds a weather client. cache may be nil, in which case every
// lookup hits the API.
func NewClient(baseURL, apiKey string, cache *redis.Client, cacheTTL time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: lookupTimeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		cache:      cache,
		cacheTTL:   cacheTTL,
	}
}

// openWeatherResponse mirrors the fields of the current-weather payload we read.
type openWeatherResponse struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Current returns conditions for a coordinate pair, serving from cache when a
// recent lookup for the same rounded coordinates exists.
func (c *Client) Current(ctx context.Context, lat, lng float64) (Conditions, error) {
	if c == nil {
		return Conditions{}, fmt.Errorf("weather client is not initialized")
	}

	cacheKey := fmt.Sprintf("weather:%.4f:%.4f", lat, lng)
	if c.cache != nil {
		if raw, err := c.cache.Get(ctx, cacheKey).Result(); err == nil {
			var cached Conditions
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
		}
	}

	cond, err := c.fetch(ctx, lat, lng)
	if err != nil {
		return Conditions{}, err
	}

	if c.cache != nil {
		if raw, err := json.Marshal(cond); err == nil {
			if err := c.cache.Set(ctx, cacheKey, raw, c.cacheTTL).Err(); err != nil {
				log.Ctx(ctx).Debug().Err(err).Str("key", cacheKey).Msg("Failed to cache weather lookup")
			}
		}
	}

	return cond, nil
}

func (c *Client) fetch(ctx context.Context, lat, lng float64) (Conditions, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	query.Set("appid", c.apiKey)
	query.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return Conditions{}, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Conditions{}, fmt.Errorf("weather lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Conditions{}, fmt.Errorf("weather lookup: unexpected status %d", resp.StatusCode)
	}

	var payload openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Conditions{}, fmt.Errorf("decode weather response: %w", err)
	}

	cond := Conditions{
		TempC:     payload.Main.Temp,
		WindSpeed: payload.Wind.Speed,
	}
	if len(payload.Weather) > 0 {
		cond.Description = payload.Weather[0].Description
	}
	return cond, nil
}
