package service

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/clipsave/tiktok-download-service-go/internal/cache"
	"github.com/clipsave/tiktok-download-service-go/internal/metrics"
	"github.com/clipsave/tiktok-download-service-go/pkg/logger"
	"go.uber.org/zap"
)

// RetentionSweeper periodically deletes aged scratch and output files and
// prunes the matching artifact cache entries. It relies purely on
// filesystem mtimes, so no state survives a restart.
type RetentionSweeper struct {
	cache      *cache.ArtifactCache
	scratchDir string
}

// NewRetentionSweeper creates a new RetentionSweeper instance.
func NewRetentionSweeper(artifacts *cache.ArtifactCache, scratchDir string) *RetentionSweeper {
	return &RetentionSweeper{
		cache:      artifacts,
		scratchDir: scratchDir,
	}
}

// Sweep deletes every file in the scratch directory older than maxAge and
// evicts cache entries pointing at deleted files. Per-file failures are
// logged and do not abort the rest of the sweep. Returns the number of
// files removed.
func (s *RetentionSweeper) Sweep(maxAge time.Duration) int {
	entries, err := os.ReadDir(s.scratchDir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Log.Error("failed to list scratch directory",
				zap.Error(err),
				zap.String("dir", s.scratchDir),
			)
		}
		return 0
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(s.scratchDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			// File may have vanished between ReadDir and Info.
			continue
		}

		if info.ModTime().After(cutoff) {
			continue
		}

		if err := os.Remove(path); err != nil {
			logger.Log.Warn("failed to remove aged artifact",
				zap.Error(err),
				zap.String("path", path),
			)
			continue
		}

		removed++
		metrics.SweptFiles.Inc()
		if evicted := s.cache.EvictByFilePath(path); evicted > 0 {
			logger.Log.Debug("evicted cache entries for swept file",
				zap.String("path", path),
				zap.Int("entries", evicted),
			)
		}
	}

	if removed > 0 {
		logger.Log.Info("retention sweep completed",
			zap.Int("filesRemoved", removed),
			zap.Duration("maxAge", maxAge),
		)
	}

	return removed
}

// Run sweeps on a fixed interval until the context is cancelled.
func (s *RetentionSweeper) Run(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Log.Info("retention sweeper started",
		zap.Duration("interval", interval),
		zap.Duration("maxAge", maxAge),
	)

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("retention sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(maxAge)
		}
	}
}
