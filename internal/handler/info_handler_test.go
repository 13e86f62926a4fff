package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clipsave/tiktok-download-service-go/internal/models"
	"github.com/clipsave/tiktok-download-service-go/internal/service"
	"github.com/clipsave/tiktok-download-service-go/internal/validation"
	"github.com/clipsave/tiktok-download-service-go/pkg/logger"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
	// Initialize logger to prevent nil pointer errors
	_ = logger.Init("error", "")
}

// Mock video resolver
type mockVideoResolver struct {
	meta *models.VideoMetadata
	err  error
}

func (m *mockVideoResolver) FetchVideo(ctx context.Context, sourceURL string) (*models.VideoMetadata, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.meta, nil
}

func postInfo(t *testing.T, handler *InfoHandler, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/info", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.HandleInfo(c)
	return w
}

func TestNewInfoHandler(t *testing.T) {
	handler := NewInfoHandler(nil)

	if handler == nil {
		t.Fatal("NewInfoHandler() returned nil")
	}
}

func TestInfoHandler_HandleInfo_Success(t *testing.T) {
	resolver := &mockVideoResolver{meta: &models.VideoMetadata{
		ID:           "7241234567890123456",
		SourceURL:    "https://www.tiktok.com/@creator/video/7241234567890123456",
		Title:        "ocean sunset",
		Author:       "creator",
		ThumbnailURL: "https://example.com/cover.jpg",
	}}
	handler := NewInfoHandler(service.NewMetadataService(resolver, validation.New()))

	body, _ := json.Marshal(models.InfoRequestDTO{URL: "https://www.tiktok.com/@creator/video/7241234567890123456"})
	w := postInfo(t, handler, body)

	if w.Code != http.StatusOK {
		t.Fatalf("HandleInfo() status = %d, want %d", w.Code, http.StatusOK)
	}

	var meta models.VideoMetadata
	if err := json.Unmarshal(w.Body.Bytes(), &meta); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if meta.ID != "7241234567890123456" {
		t.Errorf("ID = %s, want 7241234567890123456", meta.ID)
	}
	if meta.Degraded {
		t.Error("metadata should not be degraded on upstream success")
	}
}

func TestInfoHandler_HandleInfo_InvalidJSON(t *testing.T) {
	handler := NewInfoHandler(service.NewMetadataService(&mockVideoResolver{}, validation.New()))

	w := postInfo(t, handler, []byte("{not json"))

	if w.Code != http.StatusBadRequest {
		t.Errorf("HandleInfo() status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	var resp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Error != "Bad Request" {
		t.Errorf("Error = %s, want Bad Request", resp.Error)
	}
	if resp.Path != "/api/v1/info" {
		t.Errorf("Path = %s, want /api/v1/info", resp.Path)
	}
}

func TestInfoHandler_HandleInfo_MissingURL(t *testing.T) {
	handler := NewInfoHandler(service.NewMetadataService(&mockVideoResolver{}, validation.New()))

	w := postInfo(t, handler, []byte(`{}`))

	if w.Code != http.StatusBadRequest {
		t.Errorf("HandleInfo() status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestInfoHandler_HandleInfo_NonTikTokURL(t *testing.T) {
	handler := NewInfoHandler(service.NewMetadataService(&mockVideoResolver{}, validation.New()))

	body, _ := json.Marshal(models.InfoRequestDTO{URL: "https://example.com/watch?v=123456"})
	w := postInfo(t, handler, body)

	if w.Code != http.StatusBadRequest {
		t.Errorf("HandleInfo() status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	var resp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want %d", resp.Status, http.StatusBadRequest)
	}
}

func TestInfoHandler_HandleInfo_UpstreamFailureDegrades(t *testing.T) {
	resolver := &mockVideoResolver{err: errors.New("upstream exploded")}
	handler := NewInfoHandler(service.NewMetadataService(resolver, validation.New()))

	body, _ := json.Marshal(models.InfoRequestDTO{URL: "https://www.tiktok.com/@creator/video/7241234567890123456"})
	w := postInfo(t, handler, body)

	if w.Code != http.StatusOK {
		t.Fatalf("HandleInfo() status = %d, want %d for degraded metadata", w.Code, http.StatusOK)
	}

	var meta models.VideoMetadata
	if err := json.Unmarshal(w.Body.Bytes(), &meta); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !meta.Degraded {
		t.Error("metadata should be marked degraded after an upstream failure")
	}
	if meta.ID != "7241234567890123456" {
		t.Errorf("ID = %s, want 7241234567890123456 extracted from the URL", meta.ID)
	}
}
