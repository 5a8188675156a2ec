package weather

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/air-weather-api/internal/models"
)

type keySource interface {
	Key() string
}

// Options tunes how results are built.
type Options struct {
	DefaultCity string
	// IconURL is a fmt template receiving the icon identifier.
	IconURL string
	// Timeout bounds the whole aggregation; zero leaves only the caller's context.
	Timeout time.Duration
}

// Service merges current weather and air pollution data for a city.
type Service struct {
	logger    zerolog.Logger
	keys      keySource
	weather   weatherFetcher
	pollution pollutionFetcher
	opts      Options
}

func NewService(
	logger zerolog.Logger,
	keys keySource,
	weather weatherFetcher,
	pollution pollutionFetcher,
	opts Options,
) *Service {
	return &Service{
		logger:    logger.With().Str("component", "AirWeatherService").Logger(),
		keys:      keys,
		weather:   weather,
		pollution: pollution,
		opts:      opts,
	}
}

// GetByCity looks the city up, then queries pollution at its coordinates. The
// second call is never issued when the first one fails.
func (s *Service) GetByCity(ctx context.Context, city string) (models.AirWeather, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		city = s.opts.DefaultCity
	}

	apiKey := s.keys.Key()
	if apiKey == "" {
		s.logger.Error().Ctx(ctx).Str("city", city).Msg("API key is not configured")
		return models.AirWeather{}, models.ErrMissingAPIKey
	}

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	w, err := s.weather.Fetch(ctx, city, apiKey)
	if err != nil {
		s.logger.Error().Ctx(ctx).Str("city", city).Err(err).Msg("weather lookup failed")
		return models.AirWeather{}, fmt.Errorf("weather lookup for %q: %w", city, err)
	}

	if w.Coord == nil {
		err = fmt.Errorf("weather response has no coordinates: %w", models.ErrMalformedResponse)
		s.logger.Error().Ctx(ctx).Str("city", city).Err(err).Msg("cannot query pollution")
		return models.AirWeather{}, err
	}

	p, err := s.pollution.Fetch(ctx, *w.Coord, apiKey)
	if err != nil {
		s.logger.Error().Ctx(ctx).Str("city", city).Err(err).Msg("pollution lookup failed")
		return models.AirWeather{}, fmt.Errorf("pollution lookup for %q: %w", city, err)
	}

	result, err := s.merge(w, p)
	if err != nil {
		s.logger.Error().Ctx(ctx).Str("city", city).Err(err).Msg("cannot build result")
		return models.AirWeather{}, err
	}

	s.logger.Info().Ctx(ctx).
		Str("city", city).
		Str("resolved", result.City).
		Int("aqi", result.AQI).
		Msg("air weather assembled")

	return result, nil
}

func (s *Service) merge(w models.WeatherRecord, p models.PollutionRecord) (models.AirWeather, error) {
	if w.Main == nil {
		return models.AirWeather{}, fmt.Errorf("weather response has no main block: %w", models.ErrMalformedResponse)
	}
	if len(w.Weather) == 0 {
		return models.AirWeather{}, fmt.Errorf("weather conditions list is empty: %w", models.ErrMalformedResponse)
	}
	if len(p.List) == 0 {
		return models.AirWeather{}, fmt.Errorf("pollution readings list is empty: %w", models.ErrMalformedResponse)
	}

	cond := w.Weather[0]
	reading := p.List[0]
	if reading.Main == nil || reading.Components == nil {
		return models.AirWeather{}, fmt.Errorf("pollution reading is incomplete: %w", models.ErrMalformedResponse)
	}

	return models.AirWeather{
		City:    w.Name,
		Temp:    w.Main.Temp,
		Desc:    cond.Description,
		IconURL: fmt.Sprintf(s.opts.IconURL, cond.Icon),
		AQI:     reading.Main.AQI,
		PM25:    reading.Components.PM25,
		PM10:    reading.Components.PM10,
	}, nil
}
