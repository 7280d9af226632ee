package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pillmate/pill-helper/internal/apperrors"
	"github.com/pillmate/pill-helper/internal/config"
	"github.com/pillmate/pill-helper/internal/domain"
)

const placesBaseURL = "https://maps.googleapis.com/maps/api/place"

// PlacesService queries the Google Places API for pharmacies.
type PlacesService struct {
	baseURL      string
	apiKey       string
	nearbyRadius int
	biasRadius   int
	httpClient   *http.Client
}

// NewPlacesService creates the places client.
func NewPlacesService(cfg config.PlacesConfig) *PlacesService {
	return &PlacesService{
		baseURL:      placesBaseURL,
		apiKey:       cfg.APIKey,
		nearbyRadius: cfg.NearbyRadius,
		biasRadius:   cfg.BiasRadius,
		httpClient:   &http.Client{Timeout: defaultHTTPTimeout},
	}
}

type placesResponse struct {
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message"`
	Results      []domain.Place `json:"results"`
}

// NearbySearch finds pharmacies around the given coordinate. An empty result
// set (ZERO_RESULTS) is a valid non-error outcome.
func (s *PlacesService) NearbySearch(ctx context.Context, lat, lng float64) ([]domain.Place, error) {
	params := url.Values{}
	params.Set("location", fmt.Sprintf("%f,%f", lat, lng))
	params.Set("radius", fmt.Sprintf("%d", s.nearbyRadius))
	params.Set("type", "pharmacy")
	params.Set("key", s.apiKey)

	return s.search(ctx, s.baseURL+"/nearbysearch/json?"+params.Encode())
}

// TextSearch finds pharmacies matching the keyword, optionally biased toward
// a location. The keyword is suffixed with "약국" the way the product's
// search box does.
func (s *PlacesService) TextSearch(ctx context.Context, keyword string, bias *domain.LatLng) ([]domain.Place, error) {
	params := url.Values{}
	params.Set("query", keyword+" 약국")
	if bias != nil {
		params.Set("location", fmt.Sprintf("%f,%f", bias.Lat, bias.Lng))
		params.Set("radius", fmt.Sprintf("%d", s.biasRadius))
	}
	params.Set("key", s.apiKey)

	return s.search(ctx, s.baseURL+"/textsearch/json?"+params.Encode())
}

func (s *PlacesService) search(ctx context.Context, endpoint string) ([]domain.Place, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build places request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalAPIError(err, "places")
	}
	defer resp.Body.Close()

	var decoded placesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode places response: %w", err)
	}

	if decoded.Status != "OK" && decoded.Status != "ZERO_RESULTS" {
		msg := decoded.ErrorMessage
		if msg == "" {
			msg = fmt.Sprintf("Places error: %s", decoded.Status)
		}
		return nil, apperrors.NewExternalAPIError(fmt.Errorf("%s", msg), "places").
			WithContext("status", decoded.Status)
	}
	return decoded.Results, nil
}
