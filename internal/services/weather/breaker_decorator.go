package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Nazarious-ucu/air-weather-api/internal/models"
)

type BreakerConfig struct {
	TimeInterval time.Duration
	TimeTimeOut  time.Duration
	RepeatNumber uint32
}

type weatherFetcher interface {
	Fetch(ctx context.Context, city, apiKey string) (models.WeatherRecord, error)
}

type pollutionFetcher interface {
	Fetch(ctx context.Context, coord models.Coordinates, apiKey string) (models.PollutionRecord, error)
}

func newCircuitBreaker(name string, cfg BreakerConfig) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    cfg.TimeInterval,
		Timeout:     cfg.TimeTimeOut,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.RepeatNumber
		},
		// unknown cities do not count towards tripping
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, models.ErrCityNotFound)
		},
	})
}

func execute[T any](name string, cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var zero T

	result, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return zero, fmt.Errorf("%s: %w", name, err)
	}
	res, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("%s returned unexpected result", name)
	}
	return res, nil
}

// BreakerWeatherClient guards the current-weather upstream with a circuit breaker.
type BreakerWeatherClient struct {
	name    string
	cb      *gobreaker.CircuitBreaker
	wrapped weatherFetcher
}

func NewBreakerWeatherClient(name string, cfg BreakerConfig, wrapped weatherFetcher) *BreakerWeatherClient {
	return &BreakerWeatherClient{name: name, cb: newCircuitBreaker(name, cfg), wrapped: wrapped}
}

func (b *BreakerWeatherClient) Fetch(ctx context.Context, city, apiKey string) (models.WeatherRecord, error) {
	return execute(b.name, b.cb, func() (models.WeatherRecord, error) {
		return b.wrapped.Fetch(ctx, city, apiKey)
	})
}

// BreakerPollutionClient guards the air pollution upstream with a circuit breaker.
type BreakerPollutionClient struct {
	name    string
	cb      *gobreaker.CircuitBreaker
	wrapped pollutionFetcher
}

func NewBreakerPollutionClient(name string, cfg BreakerConfig, wrapped pollutionFetcher) *BreakerPollutionClient {
	return &BreakerPollutionClient{name: name, cb: newCircuitBreaker(name, cfg), wrapped: wrapped}
}

func (b *BreakerPollutionClient) Fetch(
	ctx context.Context,
	coord models.Coordinates,
	apiKey string,
) (models.PollutionRecord, error) {
	return execute(b.name, b.cb, func() (models.PollutionRecord, error) {
		return b.wrapped.Fetch(ctx, coord, apiKey)
	})
}
