package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var ErrNotFound = errors.New("address not found")

const DefaultURL = "https://nominatim.openstreetmap.org"

// Result is the best match for an address.
type Result struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Display string  `json:"display"`
}

// Geocoder resolves a free-text address to coordinates.
type Geocoder interface {
	Lookup(ctx context.Context, address string) (*Result, error)
}

// NominatimGeocoder queries an OpenStreetMap Nominatim search endpoint.
type NominatimGeocoder struct {
	baseURL   string
	country   string
	userAgent string
	client    *http.Client
}

func NewNominatimGeocoder(baseURL, country, userAgent string, timeout time.Duration) *NominatimGeocoder {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &NominatimGeocoder{
		baseURL:   strings.TrimRight(baseURL, "/"),
		country:   country,
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

func (g *NominatimGeocoder) Lookup(ctx context.Context, address string) (*Result, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("empty address: %w", ErrNotFound)
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("q", address)
	q.Set("limit", "1")
	if g.country != "" {
		q.Set("countrycodes", g.country)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call geocoder: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var matches []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&matches); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%q: %w", address, ErrNotFound)
	}

	lat, err := strconv.ParseFloat(matches[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", matches[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(matches[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", matches[0].Lon, err)
	}
	return &Result{Lat: lat, Lng: lng, Display: matches[0].DisplayName}, nil
}
