package config

import (
	"os"

	"github.com/kelseyhightower/envconfig"
)

// APIKeyEnv is the variable holding the OpenWeatherMap credential.
const APIKeyEnv = "OPENWEATHER_KEY"

type Server struct {
	Address     string `envconfig:"SERVER_ADDRESS" default:":3000"`
	GrpcAddress string `envconfig:"GRPC_ADDRESS" default:":8083"`
	ReadTimeout int    `envconfig:"SERVER_TIMEOUT" default:"10"`
	PublicDir   string `envconfig:"PUBLIC_DIR" default:"./public"`
}

type OpenWeather struct {
	APIKey       string `envconfig:"OPENWEATHER_KEY"`
	WeatherURL   string `envconfig:"OPENWEATHER_WEATHER_URL" default:"https://api.openweathermap.org/data/2.5/weather"`
	PollutionURL string `envconfig:"OPENWEATHER_POLLUTION_URL" default:"https://api.openweathermap.org/data/2.5/air_pollution"`
	IconURL      string `envconfig:"OPENWEATHER_ICON_URL" default:"https://openweathermap.org/img/wn/%s@2x.png"`
	DefaultCity  string `envconfig:"DEFAULT_CITY" default:"London"`
	// Timeout bounds one aggregation in seconds, 0 disables it.
	Timeout int `envconfig:"UPSTREAM_TIMEOUT" default:"10"`
}

// Key returns the credential as currently set in the environment, falling back
// to the value loaded at startup. It is consulted on every request.
func (o OpenWeather) Key() string {
	if v, ok := os.LookupEnv(APIKeyEnv); ok {
		return v
	}
	return o.APIKey
}

type Breaker struct {
	TimeInterval int    `envconfig:"BREAKER_INTERVAL" default:"30"`
	TimeTimeOut  int    `envconfig:"BREAKER_TIMEOUT" default:"10"`
	RepeatNumber uint32 `envconfig:"BREAKER_REPEAT_NUM" default:"5"`
}

type Health struct {
	CheckSpec string `envconfig:"HEALTH_CHECK_SPEC" default:"@every 30s"`
}

type Config struct {
	Server      Server
	OpenWeather OpenWeather
	Breaker     Breaker
	Health      Health

	LogsPath     string `envconfig:"LOGS_PATH" default:"./log/air-weather-api.log"`
	HTTPLogsPath string `envconfig:"HTTP_LOGS_PATH" default:"./log/upstream-http.log"`
}

func NewConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
