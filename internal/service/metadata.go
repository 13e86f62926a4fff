// Package service provides business logic for the TikTok download service.
package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"

	"github.com/clipsave/tiktok-download-service-go/internal/metrics"
	"github.com/clipsave/tiktok-download-service-go/internal/models"
	"github.com/clipsave/tiktok-download-service-go/internal/validation"
	"github.com/clipsave/tiktok-download-service-go/pkg/logger"
	"go.uber.org/zap"
)

var (
	videoPathIDRegex = regexp.MustCompile(`/video/(\d+)`)
	anyIDRegex       = regexp.MustCompile(`(\d{6,20})`)
)

// VideoResolver resolves a TikTok URL into metadata with a direct media URL.
type VideoResolver interface {
	FetchVideo(ctx context.Context, sourceURL string) (*models.VideoMetadata, error)
}

// MetadataService implements the info path: validate, resolve upstream, and
// degrade to URL-derived metadata when the upstream fails.
type MetadataService struct {
	resolver  VideoResolver
	validator *validation.Validator
}

// NewMetadataService creates a new MetadataService instance.
func NewMetadataService(resolver VideoResolver, validator *validation.Validator) *MetadataService {
	return &MetadataService{
		resolver:  resolver,
		validator: validator,
	}
}

// FetchMetadata resolves a source URL into display metadata. A URL outside
// the TikTok domains fails fast with *InvalidURLError and no network call.
// Any upstream failure degrades to fallback metadata instead of an error so
// the caller can still render a results state.
func (ms *MetadataService) FetchMetadata(ctx context.Context, sourceURL string) (*models.VideoMetadata, error) {
	if !ms.validator.IsTikTokURL(sourceURL) {
		return nil, &InvalidURLError{URL: sourceURL}
	}

	meta, err := ms.resolver.FetchVideo(ctx, sourceURL)
	if err != nil {
		metrics.UpstreamFailures.Inc()
		logger.Log.Warn("upstream extraction failed, serving fallback metadata",
			zap.Error(err),
			zap.String("sourceUrl", sourceURL),
		)
		return fallbackMetadata(sourceURL), nil
	}

	return meta, nil
}

// ResolveMediaURL resolves a fresh direct media URL for the download path.
// Unlike FetchMetadata it cannot degrade: without a real media URL there is
// nothing to transcode.
func (ms *MetadataService) ResolveMediaURL(ctx context.Context, sourceURL string) (*models.VideoMetadata, error) {
	if !ms.validator.IsTikTokURL(sourceURL) {
		return nil, &InvalidURLError{URL: sourceURL}
	}

	meta, err := ms.resolver.FetchVideo(ctx, sourceURL)
	if err != nil {
		metrics.UpstreamFailures.Inc()
		if isTimeout(err) {
			return nil, &UpstreamTimeoutError{Stage: "extraction"}
		}
		return nil, &UpstreamError{Message: "failed to resolve media URL", Cause: err}
	}

	return meta, nil
}

// fallbackMetadata builds a degraded metadata object purely from the URL.
// It must never fail.
func fallbackMetadata(sourceURL string) *models.VideoMetadata {
	id := extractVideoID(sourceURL)
	return &models.VideoMetadata{
		ID:           id,
		SourceURL:    sourceURL,
		Title:        fmt.Sprintf("TikTok video %s", id),
		Author:       "unknown",
		ThumbnailURL: fmt.Sprintf("https://www.tiktok.com/api/img/?itemId=%s", id),
		Degraded:     true,
	}
}

// extractVideoID pulls a best-effort video ID out of a TikTok URL.
func extractVideoID(sourceURL string) string {
	if m := videoPathIDRegex.FindStringSubmatch(sourceURL); m != nil {
		return m[1]
	}
	if m := anyIDRegex.FindStringSubmatch(sourceURL); m != nil {
		return m[1]
	}
	// Short-link URLs carry no numeric ID, fall back to the last path
	// segment so the caller has a stable-ish handle.
	if u, err := url.Parse(sourceURL); err == nil {
		if seg := strings.Trim(u.Path, "/"); seg != "" {
			parts := strings.Split(seg, "/")
			return parts[len(parts)-1]
		}
	}
	return "unknown"
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
