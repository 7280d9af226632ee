package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pillmate/pill-helper/internal/apperrors"
	"github.com/pillmate/pill-helper/internal/config"
)

const defaultHTTPTimeout = 15 * time.Second

// ConsultService calls the backend /consult endpoint to generate advice text
// for an identified drug and a chosen topic.
type ConsultService struct {
	baseURL    string
	profile    config.UserProfileConfig
	httpClient *http.Client
}

// NewConsultService creates the consultation client.
func NewConsultService(cfg config.BackendConfig, profile config.UserProfileConfig) *ConsultService {
	return &ConsultService{
		baseURL:    cfg.BaseURL,
		profile:    profile,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
}

type userProfile struct {
	Symptom   string `json:"symptom"`
	Age       int    `json:"age"`
	Condition string `json:"condition"`
}

type consultRequest struct {
	ClassID     int         `json:"class_id"`
	UserProfile userProfile `json:"user_profile"`
	Options     []string    `json:"options"`
}

type consultResponse struct {
	Advice string `json:"advice"`
}

// Consult requests advice for the drug class and topic. Non-2xx responses
// come back as external API errors; the session layer substitutes its static
// connectivity string.
func (s *ConsultService) Consult(ctx context.Context, classID int, topic string) (string, error) {
	payload := consultRequest{
		ClassID: classID,
		UserProfile: userProfile{
			Symptom:   s.profile.Symptom,
			Age:       s.profile.Age,
			Condition: s.profile.Condition,
		},
		Options: []string{topic},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode consult request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/consult", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build consult request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", apperrors.NewExternalAPIError(err, "consult")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apperrors.NewExternalAPIError(fmt.Errorf("unexpected status %d", resp.StatusCode), "consult")
	}

	var decoded consultResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode consult response: %w", err)
	}
	if decoded.Advice == "" {
		return "응답 형식이 올바르지 않습니다.", nil
	}
	return decoded.Advice, nil
}
