package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/air-weather-api/internal/models"
)

// ClientAirPollution queries the OpenWeatherMap air pollution API by coordinates.
type ClientAirPollution struct {
	apiURL string
	client HTTPClient
	logger zerolog.Logger
}

func NewClientAirPollution(apiURL string, httpClient HTTPClient, logger zerolog.Logger) *ClientAirPollution {
	return &ClientAirPollution{
		apiURL: apiURL,
		client: httpClient,
		logger: logger.With().Str("component", "AirPollution").Logger(),
	}
}

func (s *ClientAirPollution) Fetch(
	ctx context.Context,
	coord models.Coordinates,
	apiKey string,
) (models.PollutionRecord, error) {
	start := time.Now()

	reqURL, err := buildURL(s.apiURL, url.Values{
		"lat":   {strconv.FormatFloat(coord.Lat, 'f', -1, 64)},
		"lon":   {strconv.FormatFloat(coord.Lon, 'f', -1, 64)},
		"appid": {apiKey},
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("invalid air pollution API URL")
		return models.PollutionRecord{}, err
	}

	resp, err := doGet(ctx, s.client, reqURL)
	if err != nil {
		s.logger.Error().
			Err(err).
			Float64("lat", coord.Lat).
			Float64("lon", coord.Lon).
			Msg("error sending HTTP request to air pollution API")
		return models.PollutionRecord{}, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			s.logger.Error().Err(cerr).Msg("failed to close response body")
		}
	}()

	if !isSuccess(resp.StatusCode) {
		s.logger.Error().
			Str("status", resp.Status).
			Float64("lat", coord.Lat).
			Float64("lon", coord.Lon).
			Msg("air pollution API returned non-success status")
		return models.PollutionRecord{}, fmt.Errorf("air pollution API error: status %s", resp.Status)
	}

	var raw models.PollutionRecord
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		s.logger.Error().Err(err).Msg("failed to decode air pollution response")
		return models.PollutionRecord{}, fmt.Errorf("decode pollution response: %w", err)
	}

	s.logger.Info().
		Float64("lat", coord.Lat).
		Float64("lon", coord.Lon).
		Int("readings", len(raw.List)).
		Dur("duration_ms", time.Since(start)).
		Msg("fetched air pollution data")

	return raw, nil
}
