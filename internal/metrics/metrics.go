// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DownloadsTotal counts served downloads by format and quality.
	DownloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tiktok_downloads_total",
		Help: "Number of downloads served, by format and quality.",
	}, []string{"format", "quality"})

	// CacheHits counts artifact cache hits.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tiktok_artifact_cache_hits_total",
		Help: "Number of artifact cache hits.",
	})

	// CacheMisses counts artifact cache misses.
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tiktok_artifact_cache_misses_total",
		Help: "Number of artifact cache misses.",
	})

	// TranscodeFailures counts failed transcoder invocations.
	TranscodeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tiktok_transcode_failures_total",
		Help: "Number of failed ffmpeg invocations.",
	})

	// TranscodeDuration observes wall-clock transcode time per format.
	TranscodeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tiktok_transcode_duration_seconds",
		Help:    "Wall-clock duration of ffmpeg invocations.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	}, []string{"format"})

	// SweptFiles counts files removed by the retention sweeper.
	SweptFiles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tiktok_sweeper_files_removed_total",
		Help: "Number of scratch/output files removed by the retention sweeper.",
	})

	// UpstreamFailures counts failed extraction API calls.
	UpstreamFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tiktok_upstream_failures_total",
		Help: "Number of failed upstream extraction API calls.",
	})
)
