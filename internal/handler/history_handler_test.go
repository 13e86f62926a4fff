package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clipsave/tiktok-download-service-go/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Mock history lister
type mockHistoryLister struct {
	records   []models.DownloadHistoryRecord
	err       error
	lastLimit int
}

func (m *mockHistoryLister) ListRecent(ctx context.Context, limit int) ([]models.DownloadHistoryRecord, error) {
	m.lastLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.records, nil
}

func getRecent(t *testing.T, handler *HistoryHandler, query string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	target := "/api/v1/downloads/recent"
	if query != "" {
		target += "?" + query
	}
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)

	handler.HandleRecent(c)
	return w
}

func TestNewHistoryHandler(t *testing.T) {
	handler := NewHistoryHandler(nil)

	if handler == nil {
		t.Fatal("NewHistoryHandler() returned nil")
	}
}

func TestHistoryHandler_HandleRecent_Success(t *testing.T) {
	lister := &mockHistoryLister{records: []models.DownloadHistoryRecord{
		{
			ID:           uuid.New(),
			VideoID:      "7241234567890123456",
			Format:       models.FormatMP4,
			Quality:      models.QualityHigh,
			DownloadedAt: time.Now(),
		},
	}}
	handler := NewHistoryHandler(lister)

	w := getRecent(t, handler, "")

	if w.Code != http.StatusOK {
		t.Fatalf("HandleRecent() status = %d, want %d", w.Code, http.StatusOK)
	}
	if lister.lastLimit != defaultHistoryLimit {
		t.Errorf("limit = %d, want default %d", lister.lastLimit, defaultHistoryLimit)
	}

	var records []models.DownloadHistoryRecord
	if err := json.Unmarshal(w.Body.Bytes(), &records); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if records[0].VideoID != "7241234567890123456" {
		t.Errorf("VideoID = %s", records[0].VideoID)
	}
}

func TestHistoryHandler_HandleRecent_LimitCapped(t *testing.T) {
	lister := &mockHistoryLister{}
	handler := NewHistoryHandler(lister)

	w := getRecent(t, handler, "limit=5000")

	if w.Code != http.StatusOK {
		t.Fatalf("HandleRecent() status = %d, want %d", w.Code, http.StatusOK)
	}
	if lister.lastLimit != maxHistoryLimit {
		t.Errorf("limit = %d, want cap %d", lister.lastLimit, maxHistoryLimit)
	}
}

func TestHistoryHandler_HandleRecent_InvalidLimit(t *testing.T) {
	tests := []string{"limit=abc", "limit=0", "limit=-3"}

	for _, query := range tests {
		t.Run(query, func(t *testing.T) {
			handler := NewHistoryHandler(&mockHistoryLister{})

			w := getRecent(t, handler, query)

			if w.Code != http.StatusBadRequest {
				t.Errorf("HandleRecent() status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestHistoryHandler_HandleRecent_EmptyHistoryIsArray(t *testing.T) {
	handler := NewHistoryHandler(&mockHistoryLister{})

	w := getRecent(t, handler, "")

	if w.Code != http.StatusOK {
		t.Fatalf("HandleRecent() status = %d, want %d", w.Code, http.StatusOK)
	}
	if w.Body.String() != "[]" {
		t.Errorf("body = %s, want []", w.Body.String())
	}
}

func TestHistoryHandler_HandleRecent_RepositoryError(t *testing.T) {
	handler := NewHistoryHandler(&mockHistoryLister{err: errors.New("connection refused")})

	w := getRecent(t, handler, "")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("HandleRecent() status = %d, want %d", w.Code, http.StatusInternalServerError)
	}

	var resp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Error != "Internal Server Error" {
		t.Errorf("Error = %s, want Internal Server Error", resp.Error)
	}
}
