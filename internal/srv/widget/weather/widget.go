package weather

import (
	"errors"
	"time"

	"github.com/jypelle/karuselo/internal/images"
	"github.com/jypelle/karuselo/internal/srv/config"
	"github.com/jypelle/karuselo/internal/srv/rotation"
	"github.com/jypelle/karuselo/internal/srv/widget"
)

var ErrMissingCredentials = errors.New("weather widget requires key and public_id")

// Build is the widget factory for weather rotation groups: six slides
// backed by the provider's endpoints, each with its own artifact TTL.
func Build(group *config.GroupParam) (widget.Definition, error) {
	param := group.Weather
	if param == nil || param.Key == "" || param.PublicId == "" {
		return widget.Definition{}, ErrMissingCredentials
	}

	client := NewClient(param)

	slots := []rotation.Slot{
		{
			Key:      "current_weather",
			Identity: "weather/current",
			Fetch:    client.CurrentWeather,
			Render:   drawCurrent,
			TTL:      600 * time.Second,
		},
		{
			Key:      "hourly_forecast",
			Identity: "weather/hourly",
			Fetch:    client.HourlyForecast,
			Render:   drawHourly,
		},
		{
			Key:      "daily_forecast",
			Identity: "weather/daily",
			Fetch:    client.DailyForecast,
			Render:   drawDaily,
			TTL:      21600 * time.Second,
		},
		{
			Key:      "warning",
			Identity: "weather/warning",
			Fetch:    client.Warnings,
			Render:   drawWarnings,
		},
		{
			Key:      "air_quality",
			Identity: "weather/air",
			Fetch:    client.AirQuality,
			Render:   drawAirQuality,
		},
		{
			Key:      "precipitation",
			Identity: "weather/precipitation",
			Fetch:    client.Precipitation,
			Render:   drawPrecipitation,
			TTL:      600 * time.Second,
		},
	}

	return widget.Definition{
		Slots:       slots,
		Placeholder: images.Loading(slideWidth, slideHeight),
	}, nil
}
