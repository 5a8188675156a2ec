//go:build unit

package weather_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/air-weather-api/internal/handlers/weather"
	"github.com/Nazarious-ucu/air-weather-api/internal/models"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetByCity(ctx context.Context, city string) (models.AirWeather, error) {
	args := m.Called(ctx, city)
	data, _ := args.Get(0).(models.AirWeather)
	return data, args.Error(1)
}

type mockObserver struct {
	mock.Mock
}

func (m *mockObserver) ObserveWeather(city string, status int) {
	m.Called(city, status)
}

func serve(t *testing.T, h *weather.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)
	c.Request = req

	h.GetWeather(c)
	return rec
}

func TestGetWeather_Success(t *testing.T) {
	data := models.AirWeather{
		City:    "Kyiv",
		Temp:    20.5,
		Desc:    "clear sky",
		IconURL: "https://openweathermap.org/img/wn/01d@2x.png",
		AQI:     2,
		PM25:    4.5,
		PM10:    7.25,
	}

	m := &mockService{}
	m.On("GetByCity", mock.Anything, "kyiv ").Return(data, nil).Once()
	o := &mockObserver{}
	o.On("ObserveWeather", "Kyiv", http.StatusOK).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
		o.AssertExpectations(t)
	})

	rec := serve(t, weather.NewHandler(m, o), "/api/weather?city=kyiv%20")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, fmt.Sprintf(
		`{"city":"%s","temp":%v,"desc":"%s","iconUrl":"%s","aqi":%d,"pm25":%v,"pm10":%v}`,
		data.City, data.Temp, data.Desc, data.IconURL, data.AQI, data.PM25, data.PM10,
	), rec.Body.String())
}

func TestGetWeather_NoCityDelegatesEmpty(t *testing.T) {
	m := &mockService{}
	m.On("GetByCity", mock.Anything, "").Return(models.AirWeather{City: "London"}, nil).Once()

	t.Cleanup(func() { m.AssertExpectations(t) })

	rec := serve(t, weather.NewHandler(m, nil), "/api/weather")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetWeather_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "missing key",
			err:      models.ErrMissingAPIKey,
			wantCode: http.StatusInternalServerError,
			wantBody: `{"message":"Missing OPENWEATHER_KEY in .env file"}`,
		},
		{
			name:     "city not found",
			err:      fmt.Errorf("weather lookup: %w", models.ErrCityNotFound),
			wantCode: http.StatusNotFound,
			wantBody: `{"message":"City not found"}`,
		},
		{
			name:     "malformed upstream",
			err:      fmt.Errorf("merge: %w", models.ErrMalformedResponse),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"message":"Error fetching weather data"}`,
		},
		{
			name:     "transport failure",
			err:      errors.New("dial tcp: connection refused"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"message":"Error fetching weather data"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := &mockService{}
			m.On("GetByCity", mock.Anything, "Paris").Return(models.AirWeather{}, tc.err).Once()
			o := &mockObserver{}
			o.On("ObserveWeather", "unresolved", tc.wantCode).Once()

			t.Cleanup(func() {
				m.AssertExpectations(t)
				o.AssertExpectations(t)
			})

			rec := serve(t, weather.NewHandler(m, o), "/api/weather?city=Paris")

			o.AssertNotCalled(t, "ObserveWeather", "Paris", mock.Anything)

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.JSONEq(t, tc.wantBody, rec.Body.String())
		})
	}
}
