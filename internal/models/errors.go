package models

import "errors"

var (
	ErrMissingAPIKey     = errors.New("missing OpenWeatherMap API key")
	ErrCityNotFound      = errors.New("city not found")
	ErrMalformedResponse = errors.New("malformed upstream response")
)
