package maps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/kvitkova/kvitkova-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://places.googleapis.com/v1"
	searchFieldMask            = "places.formattedAddress,places.location"
	requestBodyReadLimit int64 = 1024
)

var errAPIKeyRequired = errors.New("google maps api key is required")

// Client wraps the Google Places API used to pin shops on the map.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured Places base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the Google Places client given an API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		apiKey:     trimmedKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

// LatLng is the latitude/longitude pair returned by Google.
type LatLng struct {
	Latitude  float64
	Longitude float64
}

// GeocodeResult is the normalized location for a free-form address query.
type GeocodeResult struct {
	FormattedAddress string
	Location         LatLng
}

// Geocode resolves a shop's address text (street plus city) to coordinates
// using the Places text search API. A query with no matches returns nil.
func (c *Client) Geocode(ctx context.Context, query string) (*GeocodeResult, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "google maps client not configured")
	}
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "geocode query is required")
	}

	payload, err := json.Marshal(map[string]any{
		"textQuery":    trimmed,
		"languageCode": "uk",
		"maxResultCount": 1,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal geocode request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL("places:searchText"), bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build geocode request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", c.apiKey)
	httpReq.Header.Set("X-Goog-FieldMask", searchFieldMask)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute geocode request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "geocode request failed")
	}

	var apiResp struct {
		Places []struct {
			FormattedAddress string `json:"formattedAddress"`
			Location         struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"location"`
		} `json:"places"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode geocode response")
	}

	if len(apiResp.Places) == 0 {
		return nil, nil
	}

	place := apiResp.Places[0]
	return &GeocodeResult{
		FormattedAddress: place.FormattedAddress,
		Location: LatLng{
			Latitude:  place.Location.Latitude,
			Longitude: place.Location.Longitude,
		},
	}, nil
}

func (c *Client) buildURL(path string) string {
	trimmed := strings.TrimRight(c.baseURL, "/")
	path = strings.TrimLeft(path, "/")
	return fmt.Sprintf("%s/%s", trimmed, path)
}
