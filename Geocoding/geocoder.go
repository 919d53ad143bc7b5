package Geocoding

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"Oryx/Config"
	"Oryx/GeoUtils"
)

// Client talks to the geocoding provider. Failures are logged and reported as
// nil results so one unresolvable address never takes down a routing request.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewClient(cfg Config.AppConfig) *Client {
	return &Client{
		BaseURL: cfg.GeocodingBaseURL,
		Token:   cfg.MapboxToken,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Place is a forward-geocoding match.
type Place struct {
	Coordinate GeoUtils.Coordinate `json:"coordinate"`
	Formatted  string              `json:"formatted"`
}

// Address is a reverse-geocoding result with the administrative hierarchy
// pulled out of the provider's context list.
type Address struct {
	Street    string `json:"street"`
	City      string `json:"city"`
	Region    string `json:"region"`
	Country   string `json:"country"`
	Formatted string `json:"formatted"`
}

type feature struct {
	Center    []float64 `json:"center"`
	Text      string    `json:"text"`
	PlaceName string    `json:"place_name"`
	Context   []struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"context"`
}

type geocodeResponse struct {
	Features []feature `json:"features"`
}

// Geocode resolves a free-text address to its top-ranked match, or nil when
// nothing matches or the provider request fails.
func (c *Client) Geocode(address string) *Place {
	endpoint := fmt.Sprintf("%s/%s.json?access_token=%s&limit=1",
		c.BaseURL, url.PathEscape(address), url.QueryEscape(c.Token))

	result, err := c.fetch(endpoint)
	if err != nil {
		log.Printf("Geocoding failed for %q: %v", address, err)
		return nil
	}
	if len(result.Features) == 0 {
		log.Printf("No geocoding match for %q", address)
		return nil
	}

	top := result.Features[0]
	if len(top.Center) < 2 {
		log.Printf("Geocoding match for %q has no center", address)
		return nil
	}
	coord := GeoUtils.Coordinate{Lng: top.Center[0], Lat: top.Center[1]}
	if !coord.Valid() {
		log.Printf("Geocoding match for %q is out of range", address)
		return nil
	}
	return &Place{Coordinate: coord, Formatted: top.PlaceName}
}

// ReverseGeocode resolves a coordinate to an address, or nil on failure. The
// administrative fields come from matching well-known context id prefixes.
func (c *Client) ReverseGeocode(lng, lat float64) *Address {
	endpoint := fmt.Sprintf("%s/%f,%f.json?access_token=%s&limit=1",
		c.BaseURL, lng, lat, url.QueryEscape(c.Token))

	result, err := c.fetch(endpoint)
	if err != nil {
		log.Printf("Reverse geocoding failed for %f,%f: %v", lng, lat, err)
		return nil
	}
	if len(result.Features) == 0 {
		return nil
	}

	top := result.Features[0]
	addr := &Address{
		Street:    top.Text,
		Formatted: top.PlaceName,
	}
	for _, ctx := range top.Context {
		switch {
		case strings.HasPrefix(ctx.ID, "place"):
			addr.City = ctx.Text
		case strings.HasPrefix(ctx.ID, "region"):
			addr.Region = ctx.Text
		case strings.HasPrefix(ctx.ID, "country"):
			addr.Country = ctx.Text
		}
	}
	return addr
}

func (c *Client) fetch(endpoint string) (*geocodeResponse, error) {
	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Oryx/1.0")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var result geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}
