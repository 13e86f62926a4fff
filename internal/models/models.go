// Package models contains the data models and DTOs for the TikTok download service.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Format is the deliverable container/codec family for a download.
type Format string

// Format constants define the supported output formats.
const (
	FormatMP4  Format = "mp4"
	FormatMP3  Format = "mp3"
	FormatWebM Format = "webm"
)

// Quality is the encoding quality tier for a download.
type Quality string

// Quality constants define the supported quality tiers.
const (
	QualityHigh   Quality = "high"
	QualityMedium Quality = "medium"
	QualityLow    Quality = "low"
)

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatMP3:
		return "audio/mpeg"
	case FormatWebM:
		return "video/webm"
	default:
		return "video/mp4"
	}
}

// Extension returns the file extension (without dot) for the format.
func (f Format) Extension() string {
	return string(f)
}

// VideoMetadata describes a resolved source video. It lives only for the
// duration of a request/response cycle and is re-derived from the upstream
// extraction API each time.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type VideoMetadata struct {
	ID              string `json:"id"`
	SourceURL       string `json:"sourceUrl"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	ThumbnailURL    string `json:"thumbnailUrl"`
	DurationSeconds int    `json:"durationSeconds,omitempty"`
	// PlayURL is the direct no-watermark media URL. It expires upstream and
	// is never cached.
	PlayURL string `json:"playUrl,omitempty"`
	// Degraded marks metadata synthesized from the URL after an upstream
	// failure.
	Degraded bool `json:"degraded,omitempty"`
}

// DownloadHistoryRecord is an append-only row recorded per served download.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type DownloadHistoryRecord struct {
	ID            uuid.UUID `json:"id"`
	VideoID       string    `json:"videoId"`
	SourceURL     string    `json:"sourceUrl"`
	ThumbnailURL  string    `json:"thumbnailUrl"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Format        Format    `json:"format"`
	Quality       Quality   `json:"quality"`
	FileSizeBytes *int64    `json:"fileSizeBytes,omitempty"`
	RequesterIP   string    `json:"requesterIp"`
	UserAgent     string    `json:"userAgent"`
	DownloadedAt  time.Time `json:"downloadedAt"`
}

// InfoRequestDTO represents the body of an info request.
type InfoRequestDTO struct {
	URL string `json:"url" binding:"required,max=2048"`
}

// DownloadRequestDTO represents the query parameters of a download request.
type DownloadRequestDTO struct {
	VideoID      string `form:"videoId"`
	Format       string `form:"format"`
	Quality      string `form:"quality"`
	SourceURL    string `form:"sourceUrl"`
	ThumbnailURL string `form:"thumbnailUrl"`
	Title        string `form:"title"`
	Author       string `form:"author"`
}

// DownloadEventDTO is the message published for each served download.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type DownloadEventDTO struct {
	VideoID       string    `json:"videoId"`
	Format        Format    `json:"format"`
	Quality       Quality   `json:"quality"`
	FileSizeBytes int64     `json:"fileSizeBytes"`
	DownloadedAt  time.Time `json:"downloadedAt"`
}

// ErrorResponse represents an error response.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Path      string    `json:"path"`
}
