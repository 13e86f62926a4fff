package service

import (
	"context"
	"os"
	"time"

	"github.com/clipsave/tiktok-download-service-go/internal/cache"
	"github.com/clipsave/tiktok-download-service-go/internal/metrics"
	"github.com/clipsave/tiktok-download-service-go/internal/models"
	"github.com/clipsave/tiktok-download-service-go/internal/validation"
	"github.com/clipsave/tiktok-download-service-go/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ArtifactProducer produces a deliverable artifact for a download triple.
// *TranscodePipeline satisfies it.
type ArtifactProducer interface {
	ProduceArtifact(ctx context.Context, videoID, sourceURL string, format models.Format, quality models.Quality) (*cache.Entry, error)
}

// HistoryStore appends download history rows. *repository.Repository
// satisfies it.
type HistoryStore interface {
	InsertDownload(ctx context.Context, record *models.DownloadHistoryRecord) error
}

// EventPublisher publishes download events. *DownloadEventPublisher
// satisfies it.
type EventPublisher interface {
	PublishDownload(ctx context.Context, event *models.DownloadEventDTO) error
}

// Artifact is what the delivery endpoint streams to the client.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Artifact struct {
	FilePath      string
	FileName      string
	ContentType   string
	FileSizeBytes int64
}

// DownloadService orchestrates the delivery path: validate, produce or
// reuse the artifact, record history, and hand the file to the handler for
// streaming.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type DownloadService struct {
	producer  ArtifactProducer
	history   HistoryStore
	publisher EventPublisher
	validator *validation.Validator
}

// NewDownloadService creates a new DownloadService instance. history and
// publisher may be nil; both are best-effort side channels.
func NewDownloadService(producer ArtifactProducer, history HistoryStore, publisher EventPublisher, validator *validation.Validator) *DownloadService {
	return &DownloadService{
		producer:  producer,
		history:   history,
		publisher: publisher,
		validator: validator,
	}
}

// Serve resolves a download request into a streamable artifact. The history
// write happens before streaming starts and is swallowed on failure: it
// must never block or fail the download itself.
func (ds *DownloadService) Serve(ctx context.Context, req *models.DownloadRequestDTO, requesterIP, userAgent string) (*Artifact, error) {
	if err := ds.validator.ValidateDownloadRequest(req); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	format, _ := ds.validator.ParseFormat(req.Format)
	quality, _ := ds.validator.ParseQuality(req.Quality)

	entry, err := ds.producer.ProduceArtifact(ctx, req.VideoID, req.SourceURL, format, quality)
	if err != nil {
		return nil, err
	}

	// The sweeper may have deleted the file between cache insert and here.
	// Accepted rare race, surfaced as a clean not-found.
	if _, err := os.Stat(entry.FilePath); err != nil {
		return nil, &NotFoundError{Path: entry.FilePath}
	}

	ds.recordHistory(ctx, req, format, quality, entry, requesterIP, userAgent)

	metrics.DownloadsTotal.WithLabelValues(string(format), string(quality)).Inc()

	return &Artifact{
		FilePath:      entry.FilePath,
		FileName:      entry.FileName,
		ContentType:   format.ContentType(),
		FileSizeBytes: entry.FileSizeBytes,
	}, nil
}

// recordHistory appends the history row and publishes the download event.
// Both are best-effort: failures are logged and swallowed.
func (ds *DownloadService) recordHistory(ctx context.Context, req *models.DownloadRequestDTO, format models.Format, quality models.Quality, entry *cache.Entry, requesterIP, userAgent string) {
	now := time.Now()

	if ds.history != nil {
		size := entry.FileSizeBytes
		record := &models.DownloadHistoryRecord{
			ID:            uuid.New(),
			VideoID:       req.VideoID,
			SourceURL:     req.SourceURL,
			ThumbnailURL:  req.ThumbnailURL,
			Title:         req.Title,
			Author:        req.Author,
			Format:        format,
			Quality:       quality,
			FileSizeBytes: &size,
			RequesterIP:   requesterIP,
			UserAgent:     userAgent,
			DownloadedAt:  now,
		}
		if err := ds.history.InsertDownload(ctx, record); err != nil {
			logger.Log.Error("failed to record download history",
				zap.Error(err),
				zap.String("videoId", req.VideoID),
			)
		}
	}

	if ds.publisher != nil {
		event := &models.DownloadEventDTO{
			VideoID:       req.VideoID,
			Format:        format,
			Quality:       quality,
			FileSizeBytes: entry.FileSizeBytes,
			DownloadedAt:  now,
		}
		if err := ds.publisher.PublishDownload(ctx, event); err != nil {
			logger.Log.Warn("failed to publish download event",
				zap.Error(err),
				zap.String("videoId", req.VideoID),
			)
		}
	}
}
