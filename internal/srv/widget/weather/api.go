package weather

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jypelle/karuselo/internal/srv/config"
)

const apiHost = "https://devapi.qweather.com"

// Client calls the weather API with the provider's signed-query
// authentication scheme.
type Client struct {
	key         string
	publicId    string
	locationId  string
	coordinates string

	httpClient *http.Client
}

func NewClient(param *config.WeatherParam) *Client {
	return &Client{
		key:         param.Key,
		publicId:    param.PublicId,
		locationId:  param.LocationId,
		coordinates: param.Coordinates,
		httpClient:  &http.Client{Timeout: 20 * time.Second},
	}
}

func (c *Client) CurrentWeather(ctx context.Context) (json.RawMessage, error) {
	return c.gridData(ctx, "now", "now")
}

func (c *Client) HourlyForecast(ctx context.Context) (json.RawMessage, error) {
	return c.gridData(ctx, "24h", "hourly")
}

func (c *Client) DailyForecast(ctx context.Context) (json.RawMessage, error) {
	return c.gridData(ctx, "7d", "daily")
}

func (c *Client) Warnings(ctx context.Context) (json.RawMessage, error) {
	return c.field(ctx, "/v7/warning/now", "warning")
}

func (c *Client) AirQuality(ctx context.Context) (json.RawMessage, error) {
	return c.field(ctx, "/v7/air/now", "now")
}

func (c *Client) Precipitation(ctx context.Context) (json.RawMessage, error) {
	response, err := c.get(ctx, "/v7/minutely/5m")
	if err != nil {
		return nil, err
	}
	return json.Marshal(response)
}

// gridData picks the grid or city endpoint depending on whether the
// location is a coordinate pair, and extracts key from the response.
func (c *Client) gridData(ctx context.Context, slug string, key string) (json.RawMessage, error) {
	path := "/v7/weather/" + slug
	if strings.Contains(c.location(), ",") {
		path = "/v7/grid-weather/" + slug
	}
	return c.field(ctx, path, key)
}

func (c *Client) field(ctx context.Context, path string, key string) (json.RawMessage, error) {
	response, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	value, ok := response[key]
	if !ok {
		return nil, fmt.Errorf("weather api response for %s has no %q field", path, key)
	}
	return value, nil
}

func (c *Client) get(ctx context.Context, path string) (map[string]json.RawMessage, error) {
	params := map[string]string{
		"location": c.location(),
		"publicid": c.publicId,
		"t":        strconv.FormatInt(time.Now().Unix(), 10),
	}
	params["sign"] = signParams(params, c.key)

	values := url.Values{}
	for name, value := range params {
		values.Set(name, value)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, apiHost+path+"?"+values.Encode(), nil)
	if err != nil {
		return nil, err
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("weather api request for %s: %w", path, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather api status %d for %s", response.StatusCode, path)
	}

	var decoded map[string]json.RawMessage
	if err = json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("weather api response for %s: %w", path, err)
	}
	return decoded, nil
}

// location falls back from explicit coordinates to the configured
// location id.
func (c *Client) location() string {
	if c.coordinates != "" {
		return c.coordinates
	}
	return c.locationId
}

// signParams computes the md5 signature over the sorted, unencoded
// query joined with the secret key, as the provider documents.
func signParams(params map[string]string, key string) string {
	names := make([]string, 0, len(params))
	for name := range params {
		if name == "sign" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+params[name])
	}

	sum := md5.Sum([]byte(strings.Join(pairs, "&") + key))
	return hex.EncodeToString(sum[:])
}
