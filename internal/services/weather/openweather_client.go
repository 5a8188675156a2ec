package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/air-weather-api/internal/models"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOpenWeatherMap resolves a city to its current weather, including the
// coordinates used for the pollution lookup.
type ClientOpenWeatherMap struct {
	apiURL string
	client HTTPClient
	logger zerolog.Logger
}

// NewClientOpenWeatherMap constructs a new current-weather client.
func NewClientOpenWeatherMap(apiURL string, httpClient HTTPClient, logger zerolog.Logger) *ClientOpenWeatherMap {
	return &ClientOpenWeatherMap{
		apiURL: apiURL,
		client: httpClient,
		logger: logger.With().Str("component", "OpenWeatherMap").Logger(),
	}
}

// Fetch retrieves the weather record for a given city. Any non-2xx answer is
// reported as models.ErrCityNotFound.
func (s *ClientOpenWeatherMap) Fetch(ctx context.Context, city, apiKey string) (models.WeatherRecord, error) {
	start := time.Now()

	reqURL, err := buildURL(s.apiURL, url.Values{
		"q":     {city},
		"appid": {apiKey},
		"units": {"metric"},
	})
	if err != nil {
		s.logger.Error().Err(err).Str("city", city).Msg("invalid weather API URL")
		return models.WeatherRecord{}, err
	}

	s.logger.Debug().
		Str("city", city).
		Msg("starting OpenWeatherMap request")

	resp, err := doGet(ctx, s.client, reqURL)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("city", city).
			Msg("error sending HTTP request to OpenWeatherMap")
		return models.WeatherRecord{}, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			s.logger.Error().
				Err(cerr).
				Str("city", city).
				Msg("failed to close response body")
		}
	}()

	if !isSuccess(resp.StatusCode) {
		s.logger.Warn().
			Str("city", city).
			Str("status", resp.Status).
			Msg("OpenWeatherMap returned non-success status")
		return models.WeatherRecord{}, fmt.Errorf("OpenWeatherMap status %s: %w", resp.Status, models.ErrCityNotFound)
	}

	var raw models.WeatherRecord
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		s.logger.Error().
			Err(err).
			Str("city", city).
			Msg("failed to decode OpenWeatherMap response")
		return models.WeatherRecord{}, fmt.Errorf("decode weather response: %w", err)
	}

	if raw.Coord == nil {
		s.logger.Error().
			Str("city", city).
			Msg("OpenWeatherMap response has no coordinates")
		return models.WeatherRecord{}, fmt.Errorf("weather response has no coordinates: %w", models.ErrMalformedResponse)
	}

	s.logger.Info().
		Str("city", city).
		Str("resolved", raw.Name).
		Dur("duration_ms", time.Since(start)).
		Msg("fetched weather data")

	return raw, nil
}

func buildURL(base string, params url.Values) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, v := range params {
		q[k] = v
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func doGet(ctx context.Context, client HTTPClient, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return client.Do(req)
}

func isSuccess(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}
