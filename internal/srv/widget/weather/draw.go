package weather

import (
	"encoding/json"
	"fmt"
	"image"
	"time"

	"github.com/jypelle/karuselo/internal/screen"
)

// Slide geometry on the panel.
const (
	slideWidth  = 128
	slideHeight = 48
)

type currentConditions struct {
	Text      string `json:"text"`
	Temp      string `json:"temp"`
	WindDir   string `json:"windDir"`
	WindScale string `json:"windScale"`
	Humidity  string `json:"humidity"`
}

type hourlyEntry struct {
	FxTime string `json:"fxTime"`
	Temp   string `json:"temp"`
}

type dailyEntry struct {
	FxDate  string `json:"fxDate"`
	TempMin string `json:"tempMin"`
	TempMax string `json:"tempMax"`
}

type warningEntry struct {
	TypeName string `json:"typeName"`
	Level    string `json:"level"`
}

type airQuality struct {
	Aqi      string `json:"aqi"`
	Category string `json:"category"`
	Pm10     string `json:"pm10"`
	Pm2p5    string `json:"pm2p5"`
}

type precipitation struct {
	Summary  string `json:"summary"`
	Minutely []struct {
		FxTime string `json:"fxTime"`
		Precip string `json:"precip"`
	} `json:"minutely"`
}

func drawCurrent(payload json.RawMessage) (image.Image, error) {
	var current currentConditions
	if err := json.Unmarshal(payload, &current); err != nil {
		return nil, fmt.Errorf("current weather payload: %w", err)
	}

	img := screen.New(slideWidth, slideHeight)
	screen.AddCenteredLabel(img, 12, "Weather now")
	screen.AddCenteredLabel(img, 28, screen.Truncate(current.Text+" "+current.Temp+"C", slideWidth))
	screen.AddCenteredLabel(img, 42, screen.Truncate(
		fmt.Sprintf("%s %s  hum %s%%", current.WindDir, current.WindScale, current.Humidity), slideWidth))
	return img, nil
}

func drawHourly(payload json.RawMessage) (image.Image, error) {
	var hourly []hourlyEntry
	if err := json.Unmarshal(payload, &hourly); err != nil {
		return nil, fmt.Errorf("hourly forecast payload: %w", err)
	}

	img := screen.New(slideWidth, slideHeight)
	screen.AddCenteredLabel(img, 12, "Hourly")

	now := time.Now()
	column := 0
	for _, entry := range hourly {
		at, err := time.Parse("2006-01-02T15:04-07:00", entry.FxTime)
		if err != nil || at.Before(now) {
			continue
		}
		x := 32*column + 1
		screen.AddLabel(img, x, 28, at.Format("15h"))
		screen.AddLabel(img, x, 42, entry.Temp+"C")
		column++
		if column >= 4 {
			break
		}
	}
	return img, nil
}

func drawDaily(payload json.RawMessage) (image.Image, error) {
	var daily []dailyEntry
	if err := json.Unmarshal(payload, &daily); err != nil {
		return nil, fmt.Errorf("daily forecast payload: %w", err)
	}

	img := screen.New(slideWidth, slideHeight)
	screen.AddCenteredLabel(img, 12, "Daily")

	today := time.Now().Truncate(24 * time.Hour)
	column := 0
	for _, entry := range daily {
		date, err := time.Parse("2006-01-02", entry.FxDate)
		if err != nil || date.Before(today) {
			continue
		}
		x := 42*column + 1
		screen.AddLabel(img, x, 28, date.Format("01-02"))
		screen.AddLabel(img, x, 42, entry.TempMin+"/"+entry.TempMax)
		column++
		if column >= 3 {
			break
		}
	}
	return img, nil
}

func drawWarnings(payload json.RawMessage) (image.Image, error) {
	var warnings []warningEntry
	if err := json.Unmarshal(payload, &warnings); err != nil {
		return nil, fmt.Errorf("warning payload: %w", err)
	}

	img := screen.New(slideWidth, slideHeight)
	screen.AddCenteredLabel(img, 12, "Alerts")

	if len(warnings) == 0 {
		screen.AddCenteredLabel(img, 32, "No active alerts")
		return img, nil
	}
	for i, warning := range warnings {
		if i >= 2 {
			break
		}
		label := warning.TypeName
		if warning.Level != "" {
			label += " " + warning.Level
		}
		screen.AddLabel(img, 1, 28+14*i, screen.Truncate(label, slideWidth))
	}
	return img, nil
}

func drawAirQuality(payload json.RawMessage) (image.Image, error) {
	var air airQuality
	if err := json.Unmarshal(payload, &air); err != nil {
		return nil, fmt.Errorf("air quality payload: %w", err)
	}

	img := screen.New(slideWidth, slideHeight)
	screen.AddCenteredLabel(img, 12, "Air quality")
	screen.AddCenteredLabel(img, 28, screen.Truncate("AQI "+air.Aqi+" "+air.Category, slideWidth))
	screen.AddCenteredLabel(img, 42, screen.Truncate("PM10 "+air.Pm10+" PM2.5 "+air.Pm2p5, slideWidth))
	return img, nil
}

func drawPrecipitation(payload json.RawMessage) (image.Image, error) {
	var precip precipitation
	if err := json.Unmarshal(payload, &precip); err != nil {
		return nil, fmt.Errorf("precipitation payload: %w", err)
	}

	img := screen.New(slideWidth, slideHeight)
	screen.AddCenteredLabel(img, 12, "Rain")
	screen.AddCenteredLabel(img, 28, screen.Truncate(precip.Summary, slideWidth))

	now := time.Now()
	column := 0
	for _, entry := range precip.Minutely {
		at, err := time.Parse("2006-01-02T15:04-07:00", entry.FxTime)
		if err != nil || at.Before(now) {
			continue
		}
		screen.AddLabel(img, 32*column+1, 42, at.Format("15:04"))
		column++
		if column >= 4 {
			break
		}
	}
	return img, nil
}
