package city

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/globetrotter-app/globetrotter/internal/types"
)

// PlacesClient is an optional external autocomplete source. When configured
// it is consulted first; any failure falls back to the city table.
type PlacesClient interface {
	SuggestPlaces(ctx context.Context, prefix string, limit int) ([]types.CitySuggestion, error)
}

const placesEndpoint = "https://maps.googleapis.com/maps/api/place/autocomplete/json"

// GooglePlacesClient queries the Google Places autocomplete API, restricted
// to city-level results.
type GooglePlacesClient struct {
	apiKey     string
	httpClient *http.Client
}

// NewGooglePlacesClient builds the client from GOOGLE_PLACES_API_KEY.
// Returns nil when the key is unset; callers treat a nil client as
// "database only".
func NewGooglePlacesClient() *GooglePlacesClient {
	apiKey := os.Getenv("GOOGLE_PLACES_API_KEY")
	if apiKey == "" {
		return nil
	}
	return &GooglePlacesClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

type placesResponse struct {
	Status      string `json:"status"`
	Predictions []struct {
		StructuredFormatting struct {
			MainText      string `json:"main_text"`
			SecondaryText string `json:"secondary_text"`
		} `json:"structured_formatting"`
	} `json:"predictions"`
}

func (c *GooglePlacesClient) SuggestPlaces(ctx context.Context, prefix string, limit int) ([]types.CitySuggestion, error) {
	params := url.Values{}
	params.Set("input", prefix)
	params.Set("types", "(cities)")
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, placesEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build places request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places request returned status %d", resp.StatusCode)
	}

	var body placesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode places response: %w", err)
	}
	if body.Status != "OK" && body.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("places API status %s", body.Status)
	}

	suggestions := []types.CitySuggestion{}
	for _, p := range body.Predictions {
		if len(suggestions) >= limit {
			break
		}
		suggestions = append(suggestions, types.CitySuggestion{
			Name:    p.StructuredFormatting.MainText,
			Country: p.StructuredFormatting.SecondaryText,
		})
	}
	return suggestions, nil
}
