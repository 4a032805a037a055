package config

import (
	_ "embed"
)

//go:embed param_default.yaml
var ParamDefaultFile []byte

type ServerParam struct {
	Groups   []*GroupParam `yaml:"groups"`
	ApiParam ApiParam      `yaml:"api"`
}

// GroupParam configures one rotation group. The widget-specific block
// (weather, feeds, ...) matching Widget must be filled in.
type GroupParam struct {
	Name      string `yaml:"name"`
	Widget    string `yaml:"widget"`
	Enabled   bool   `yaml:"enabled"`
	Duration  int64  `yaml:"duration"`
	Animation bool   `yaml:"animation"`
	X         int    `yaml:"x"`
	Y         int    `yaml:"y"`

	// SlotTtls overrides the artifact lifetime of individual slots,
	// in seconds, keyed by slot key.
	SlotTtls map[string]int64 `yaml:"slot_ttls,omitempty"`

	Weather *WeatherParam `yaml:"weather,omitempty"`
	Feeds   []*FeedParam  `yaml:"feeds,omitempty"`
}

type WeatherParam struct {
	Key         string `yaml:"key"`
	PublicId    string `yaml:"public_id"`
	LocationId  string `yaml:"location_id"`
	Coordinates string `yaml:"coordinates,omitempty"`
}

type FeedParam struct {
	Url   string `yaml:"url"`
	Title string `yaml:"title,omitempty"`
	Limit int    `yaml:"limit,omitempty"`
}

type ApiParam struct {
	Enabled bool   `yaml:"enabled"`
	SslPort int64  `yaml:"ssl_port"`
	ApiKey  string `yaml:"api_key"`
}
