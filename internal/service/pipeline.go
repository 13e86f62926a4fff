package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/clipsave/tiktok-download-service-go/internal/cache"
	"github.com/clipsave/tiktok-download-service-go/internal/config"
	"github.com/clipsave/tiktok-download-service-go/internal/metrics"
	"github.com/clipsave/tiktok-download-service-go/internal/models"
	"github.com/clipsave/tiktok-download-service-go/pkg/logger"
	"go.uber.org/zap"
)

const stderrExcerptLimit = 512

// MediaResolver resolves a fresh direct media URL for a source URL.
// *MetadataService satisfies it.
type MediaResolver interface {
	ResolveMediaURL(ctx context.Context, sourceURL string) (*models.VideoMetadata, error)
}

// TranscodePipeline produces deliverable artifacts: it downloads raw source
// media to scratch storage, re-encodes it with ffmpeg, and registers the
// output in the artifact cache.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type TranscodePipeline struct {
	cache      *cache.ArtifactCache
	resolver   MediaResolver
	runner     Runner
	httpClient *http.Client
	cfg        config.TranscodeConfig
}

// NewTranscodePipeline creates a new TranscodePipeline instance.
func NewTranscodePipeline(artifacts *cache.ArtifactCache, resolver MediaResolver, runner Runner, cfg config.TranscodeConfig) *TranscodePipeline {
	return &TranscodePipeline{
		cache:      artifacts,
		resolver:   resolver,
		runner:     runner,
		httpClient: &http.Client{},
		cfg:        cfg,
	}
}

// ProduceArtifact returns a transcoded file for the triple, reusing the
// cached artifact when its backing file still exists. Concurrent requests
// for the same triple may transcode redundantly; the operation is
// idempotent and the last insert wins.
func (p *TranscodePipeline) ProduceArtifact(ctx context.Context, videoID, sourceURL string, format models.Format, quality models.Quality) (*cache.Entry, error) {
	if entry, ok := p.cache.Lookup(videoID, format, quality); ok {
		metrics.CacheHits.Inc()
		logger.Log.Debug("artifact cache hit",
			zap.String("videoId", videoID),
			zap.String("format", string(format)),
			zap.String("quality", string(quality)),
		)
		return &entry, nil
	}
	metrics.CacheMisses.Inc()

	if err := os.MkdirAll(p.cfg.ScratchDir, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}

	// The direct media URL from the info step expires upstream, so the
	// download path re-resolves it from the original source URL.
	meta, err := p.resolver.ResolveMediaURL(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	sourcePath, err := p.fetchSource(ctx, videoID, meta.PlayURL)
	if err != nil {
		return nil, err
	}

	outputPath := filepath.Join(p.cfg.ScratchDir, fmt.Sprintf("%s-%s.%s", videoID, quality, format.Extension()))
	fileName := fmt.Sprintf("tiktok-%s-%s.%s", videoID, quality, format.Extension())
	args := buildTranscodeArgs(sourcePath, outputPath, format, quality)

	start := time.Now()
	runCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	output, runErr := p.runner.Run(runCtx, p.cfg.FFmpegPath, args...)
	if runErr != nil {
		metrics.TranscodeFailures.Inc()
		// Never leave a half-written output behind a cache entry.
		_ = os.Remove(outputPath)

		if runCtx.Err() == context.DeadlineExceeded {
			return nil, &TranscodeTimeoutError{}
		}

		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return nil, &TranscodeError{
				ExitCode: exitErr.ExitCode(),
				Stderr:   excerpt(output),
			}
		}
		return nil, &TranscodeError{Cause: runErr}
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		metrics.TranscodeFailures.Inc()
		return nil, &TranscodeError{Cause: fmt.Errorf("stat output file: %w", err)}
	}

	metrics.TranscodeDuration.WithLabelValues(string(format)).Observe(time.Since(start).Seconds())

	entry := cache.Entry{
		FilePath:      outputPath,
		FileName:      fileName,
		CreatedAt:     time.Now(),
		FileSizeBytes: info.Size(),
	}
	p.cache.Insert(videoID, format, quality, entry)

	logger.Log.Info("artifact produced",
		zap.String("videoId", videoID),
		zap.String("format", string(format)),
		zap.String("quality", string(quality)),
		zap.Int64("sizeBytes", entry.FileSizeBytes),
		zap.Duration("transcodeTime", time.Since(start)),
	)

	return &entry, nil
}

// fetchSource streams the raw media to a scratch file. An existing source
// file for the videoID is reused so a second request with a different
// format or quality skips the download; stale ones age out via the sweeper.
func (p *TranscodePipeline) fetchSource(ctx context.Context, videoID, playURL string) (string, error) {
	sourcePath := filepath.Join(p.cfg.ScratchDir, fmt.Sprintf("source-%s.mp4", videoID))

	if info, err := os.Stat(sourcePath); err == nil && info.Size() > 0 {
		logger.Log.Debug("reusing downloaded source", zap.String("videoId", videoID))
		return sourcePath, nil
	}

	dlCtx, cancel := context.WithTimeout(ctx, p.cfg.DownloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(dlCtx, http.MethodGet, playURL, nil)
	if err != nil {
		return "", &UpstreamError{Message: "build media download request", Cause: err}
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		if dlCtx.Err() == context.DeadlineExceeded {
			return "", &UpstreamTimeoutError{Stage: "media download"}
		}
		return "", &UpstreamError{Message: "download source media", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamError{Message: fmt.Sprintf("media host returned status %d", resp.StatusCode)}
	}

	// Stream to a temp name and rename into place once complete, so the
	// reuse check above can never observe a half-written source file.
	out, err := os.CreateTemp(p.cfg.ScratchDir, fmt.Sprintf("source-%s-*.part", videoID))
	if err != nil {
		return "", fmt.Errorf("create scratch file: %w", err)
	}
	tmpPath := out.Name()

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		_ = os.Remove(tmpPath)
		if dlCtx.Err() == context.DeadlineExceeded {
			return "", &UpstreamTimeoutError{Stage: "media download"}
		}
		return "", &UpstreamError{Message: "stream source media to scratch", Cause: err}
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("close scratch file: %w", err)
	}
	if err := os.Rename(tmpPath, sourcePath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("publish scratch file: %w", err)
	}

	return sourcePath, nil
}

func excerpt(output []byte) string {
	if len(output) > stderrExcerptLimit {
		output = output[len(output)-stderrExcerptLimit:]
	}
	return string(output)
}
