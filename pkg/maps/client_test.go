package maps

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestClientGeocodeRequest(t *testing.T) {
	const expectedURL = "http://maps.test/v1/places:searchText"
	respBody := `{"places":[{"formattedAddress":"вул. Хрещатик, 1, Київ","location":{"latitude":50.45,"longitude":30.52}}]}`

	var capturedURL string
	var capturedHeaders http.Header

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedHeaders = req.Header.Clone()

		bodyBytes, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		var payload map[string]any
		if err := json.Unmarshal(bodyBytes, &payload); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}
		if payload["textQuery"] != "вул. Хрещатик, 1, Київ" {
			t.Fatalf("unexpected query %q", payload["textQuery"])
		}

		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(respBody)),
			Header:     http.Header{},
		}, nil
	})

	httpClient := &http.Client{Transport: rt}
	client, err := NewClient("test-key", WithBaseURL("http://maps.test/v1"), WithHTTPClient(httpClient))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	result, err := client.Geocode(context.Background(), "вул. Хрещатик, 1, Київ")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if capturedURL != expectedURL {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if capturedHeaders.Get("X-Goog-Api-Key") != "test-key" {
		t.Fatalf("api key header missing")
	}
	if capturedHeaders.Get("X-Goog-FieldMask") == "" {
		t.Fatalf("field mask header missing")
	}
	if result == nil {
		t.Fatal("expected a geocode result")
	}
	if result.Location.Latitude != 50.45 || result.Location.Longitude != 30.52 {
		t.Fatalf("unexpected location %+v", result.Location)
	}
}

func TestClientGeocodeNoMatches(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"places":[]}`)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient("test-key", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	result, err := client.Geocode(context.Background(), "неіснуюча адреса")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil result for no matches, got %+v", result)
	}
}

func TestClientGeocodeValidation(t *testing.T) {
	client, err := NewClient("test-key")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.Geocode(context.Background(), "   "); err == nil {
		t.Fatal("expected validation error for empty query")
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
