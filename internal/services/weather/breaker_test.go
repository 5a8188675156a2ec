package weather_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Nazarious-ucu/air-weather-api/internal/models"
	"github.com/Nazarious-ucu/air-weather-api/internal/services/weather"
)

var breakerCfg = weather.BreakerConfig{
	TimeInterval: 30 * time.Second,
	TimeTimeOut:  15 * time.Second,
	RepeatNumber: 5,
}

const (
	breakerName = "TestAPI"
	city        = "Lviv"
)

func TestBreakerWeatherClient_Success(t *testing.T) {
	wrapped := new(mockWeatherFetcher)
	expected := models.WeatherRecord{Name: city, Coord: &models.Coordinates{Lat: 49.84, Lon: 24.03}}

	wrapped.
		On("Fetch", mock.Anything, city, apiKey).
		Return(expected, nil).
		Once()

	bc := weather.NewBreakerWeatherClient(breakerName, breakerCfg, wrapped)

	data, err := bc.Fetch(context.Background(), city, apiKey)
	assert.NoError(t, err)
	assert.Equal(t, expected, data)

	wrapped.AssertExpectations(t)
}

func TestBreakerWeatherClient_TripAfterFiveFailures(t *testing.T) {
	wrapped := new(mockWeatherFetcher)
	underlyingErr := errors.New("timeout")

	wrapped.
		On("Fetch", mock.Anything, city, apiKey).
		Return(models.WeatherRecord{}, underlyingErr).
		Times(5)

	bc := weather.NewBreakerWeatherClient(breakerName, breakerCfg, wrapped)

	for i := 1; i <= 5; i++ {
		_, err := bc.Fetch(context.Background(), city, apiKey)
		assert.ErrorIs(t, err, underlyingErr, "call #%d should reach the upstream", i)
	}

	_, err := bc.Fetch(context.Background(), city, apiKey)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)

	wrapped.AssertExpectations(t)
	wrapped.AssertNumberOfCalls(t, "Fetch", 5)
}

func TestBreakerWeatherClient_CityNotFoundDoesNotTrip(t *testing.T) {
	wrapped := new(mockWeatherFetcher)

	wrapped.
		On("Fetch", mock.Anything, "Atlantis", apiKey).
		Return(models.WeatherRecord{}, models.ErrCityNotFound).
		Times(7)

	bc := weather.NewBreakerWeatherClient(breakerName, breakerCfg, wrapped)

	for i := 0; i < 7; i++ {
		_, err := bc.Fetch(context.Background(), "Atlantis", apiKey)
		assert.ErrorIs(t, err, models.ErrCityNotFound)
	}

	wrapped.AssertNumberOfCalls(t, "Fetch", 7)
}

func TestBreakerPollutionClient_Trip(t *testing.T) {
	wrapped := new(mockPollutionFetcher)
	coord := models.Coordinates{Lat: 1, Lon: 2}

	wrapped.
		On("Fetch", mock.Anything, coord, apiKey).
		Return(models.PollutionRecord{}, errors.New("bad gateway")).
		Times(2)

	bc := weather.NewBreakerPollutionClient(breakerName, weather.BreakerConfig{
		TimeInterval: time.Minute,
		TimeTimeOut:  time.Minute,
		RepeatNumber: 2,
	}, wrapped)

	for i := 0; i < 2; i++ {
		_, err := bc.Fetch(context.Background(), coord, apiKey)
		assert.Error(t, err)
	}

	_, err := bc.Fetch(context.Background(), coord, apiKey)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Contains(t, err.Error(), breakerName)

	wrapped.AssertNumberOfCalls(t, "Fetch", 2)
}
