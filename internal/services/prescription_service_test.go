package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pillmate/pill-helper/internal/apperrors"
	"github.com/pillmate/pill-helper/internal/config"
	"github.com/pillmate/pill-helper/internal/domain"
)

// imageServer serves a fake downloaded photo the way Telegram's file API does.
func imageServer(t *testing.T, data []byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
}

func TestAnalyzeUploadsMultipartFile(t *testing.T) {
	photo := []byte("jpeg-bytes")
	images := imageServer(t, photo)
	defer images.Close()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/register-drug-image", r.URL.Path)
		assert.Equal(t, "hospital_prescription", r.URL.Query().Get("mode"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "prescription.jpg", header.Filename)
		assert.Equal(t, "image/jpeg", header.Header.Get("Content-Type"))

		uploaded, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, photo, uploaded)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "success",
			"message": "분석 완료",
			"detected_data": map[string]interface{}{
				"medications": []interface{}{
					map[string]interface{}{"name": "아모크라정", "dosage": "1정"},
				},
			},
		})
	}))
	defer backend.Close()

	s := NewPrescriptionService(config.BackendConfig{BaseURL: backend.URL})

	result, err := s.Analyze(context.Background(), images.URL+"/photo.jpg", domain.ModeHospitalPrescription)
	require.NoError(t, err)
	assert.True(t, result.HasMedications())
	require.Len(t, result.Medications(), 1)
}

func TestAnalyzePharmacyBagMode(t *testing.T) {
	images := imageServer(t, []byte("jpeg"))
	defer images.Close()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "prescription", r.URL.Query().Get("mode"))
		json.NewEncoder(w).Encode(map[string]interface{}{"status": "success", "detected_data": map[string]interface{}{}})
	}))
	defer backend.Close()

	s := NewPrescriptionService(config.BackendConfig{BaseURL: backend.URL})

	result, err := s.Analyze(context.Background(), images.URL, domain.ModePharmacyBag)
	require.NoError(t, err)
	assert.False(t, result.HasMedications())
}

func TestAnalyzeMissingDetectedData(t *testing.T) {
	images := imageServer(t, []byte("jpeg"))
	defer images.Close()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"status": "success", "message": "인식 실패"})
	}))
	defer backend.Close()

	s := NewPrescriptionService(config.BackendConfig{BaseURL: backend.URL})

	result, err := s.Analyze(context.Background(), images.URL, domain.ModePharmacyBag)
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.False(t, result.HasMedications())
}

func TestAnalyzeBackendError(t *testing.T) {
	images := imageServer(t, []byte("jpeg"))
	defer images.Close()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer backend.Close()

	s := NewPrescriptionService(config.BackendConfig{BaseURL: backend.URL})

	_, err := s.Analyze(context.Background(), images.URL, domain.ModePharmacyBag)
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeExternal, appErr.Type)
}

func TestAnalyzeImageDownloadFailure(t *testing.T) {
	images := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer images.Close()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called when the image download fails")
	}))
	defer backend.Close()

	s := NewPrescriptionService(config.BackendConfig{BaseURL: backend.URL})

	_, err := s.Analyze(context.Background(), images.URL, domain.ModePharmacyBag)
	assert.Error(t, err)
}
