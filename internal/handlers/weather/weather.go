package weather

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nazarious-ucu/air-weather-api/internal/models"
)

const (
	msgMissingKey   = "Missing OPENWEATHER_KEY in .env file"
	msgCityNotFound = "City not found"
	msgFetchFailed  = "Error fetching weather data"

	// unresolvedCity labels failed lookups; raw input never becomes a label.
	unresolvedCity = "unresolved"
)

type weatherGetterService interface {
	GetByCity(ctx context.Context, city string) (models.AirWeather, error)
}

type outcomeObserver interface {
	ObserveWeather(city string, status int)
}

type Handler struct {
	service  weatherGetterService
	observer outcomeObserver
}

func NewHandler(svc weatherGetterService, observer outcomeObserver) *Handler {
	return &Handler{service: svc, observer: observer}
}

// GetWeather
// @Summary Get current weather and air quality
// @Description Returns temperature, conditions and air pollution for a city
// @Tags weather
// @Produce json
// @Param city query string false "City name" default(London)
// @Success 200 {object} models.AirWeather
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /weather [get]
func (h *Handler) GetWeather(c *gin.Context) {
	data, err := h.service.GetByCity(c.Request.Context(), c.Query("city"))
	if err != nil {
		status, msg := classify(err)
		h.observe(unresolvedCity, status)
		c.JSON(status, models.ErrorResponse{Message: msg})
		return
	}

	h.observe(data.City, http.StatusOK)
	c.JSON(http.StatusOK, data)
}

func (h *Handler) observe(city string, status int) {
	if h.observer != nil {
		h.observer.ObserveWeather(city, status)
	}
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrMissingAPIKey):
		return http.StatusInternalServerError, msgMissingKey
	case errors.Is(err, models.ErrCityNotFound):
		return http.StatusNotFound, msgCityNotFound
	default:
		return http.StatusInternalServerError, msgFetchFailed
	}
}
