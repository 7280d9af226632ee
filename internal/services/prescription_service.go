package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"

	"github.com/pillmate/pill-helper/internal/apperrors"
	"github.com/pillmate/pill-helper/internal/config"
	"github.com/pillmate/pill-helper/internal/domain"
)

// PrescriptionService uploads prescription and pharmacy bag images to the
// backend analysis endpoint and extracts the detected data.
type PrescriptionService struct {
	baseURL    string
	httpClient *http.Client
}

// NewPrescriptionService creates the analysis client.
func NewPrescriptionService(cfg config.BackendConfig) *PrescriptionService {
	return &PrescriptionService{
		baseURL: cfg.BaseURL,
		// Analysis runs OCR plus a model pass, give it more headroom.
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type analyzeResponse struct {
	Status       string                    `json:"status"`
	Message      string                    `json:"message"`
	DetectedData domain.PrescriptionResult `json:"detected_data"`
}

// Analyze downloads the image and posts it to
// /register-drug-image?mode=<mode> as a multipart "file" field. The backend
// contract fixes the declared filename and MIME type.
func (s *PrescriptionService) Analyze(ctx context.Context, imageURI string, mode domain.PrescriptionMode) (domain.PrescriptionResult, error) {
	imageData, err := fetchImage(ctx, s.httpClient, imageURI)
	if err != nil {
		return nil, err
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="prescription.jpg"`)
	header.Set("Content-Type", "image/jpeg")
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart field: %w", err)
	}
	if _, err := part.Write(imageData); err != nil {
		return nil, fmt.Errorf("failed to write image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/register-drug-image?mode=%s", s.baseURL, url.QueryEscape(string(mode)))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalAPIError(err, "register-drug-image")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.NewExternalAPIError(fmt.Errorf("unexpected status %d", resp.StatusCode), "register-drug-image")
	}

	var decoded analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode analyze response: %w", err)
	}
	if decoded.DetectedData == nil {
		return domain.PrescriptionResult{}, nil
	}
	return decoded.DetectedData, nil
}

// fetchImage downloads the image the user submitted (a Telegram file URL).
func fetchImage(ctx context.Context, client *http.Client, imageURI string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURI, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d downloading image", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return data, nil
}
