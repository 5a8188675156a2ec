package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Nazarious-ucu/air-weather-api/internal/app"
	"github.com/Nazarious-ucu/air-weather-api/internal/config"
	metricsSvc "github.com/Nazarious-ucu/air-weather-api/internal/services/metrics"
	"github.com/Nazarious-ucu/air-weather-api/pkg/logger"
)

const serviceName = "air_weather_api"

// @title Air Weather API
// @version 1.0
// @description Current weather merged with air pollution readings
// @host localhost:3000
// @BasePath /api/
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Panicf("failed to load configuration: %v", err)
	}

	l, err := logger.NewLogger(cfg.LogsPath, serviceName)
	if err != nil {
		log.Panicf("failed to create logger: %v", err)
	}

	if cfg.OpenWeather.Key() == "" {
		l.Warn().Str("env", config.APIKeyEnv).Msg("API key not set, /api/weather will answer 500 until it is")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := app.New(*cfg, l, metricsSvc.NewMetrics(serviceName))

	if err := application.Start(ctx); err != nil {
		l.Fatal().Err(err).Msg("application failed")
	}
}
