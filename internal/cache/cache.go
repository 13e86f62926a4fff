// Package cache provides the in-memory artifact cache mapping
// (videoID, format, quality) to previously transcoded files on disk.
package cache

import (
	"os"
	"sync"
	"time"

	"github.com/clipsave/tiktok-download-service-go/internal/models"
)

// Entry describes a transcoded artifact on local disk.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Entry struct {
	FilePath      string
	FileName      string
	CreatedAt     time.Time
	FileSizeBytes int64
}

// ArtifactCache is a process-local cache of transcode outputs. Entries are a
// performance optimization, not a system of record: the cache is volatile
// and an entry is only valid while its backing file exists.
type ArtifactCache struct {
	mu sync.Mutex
	// videoID -> "format:quality" -> entry
	buckets map[string]map[string]Entry
}

func New() *ArtifactCache {
	return &ArtifactCache{
		buckets: make(map[string]map[string]Entry),
	}
}

func variantKey(format models.Format, quality models.Quality) string {
	return string(format) + ":" + string(quality)
}

// Lookup returns the entry for the triple if its backing file still exists.
// A dangling entry (file deleted by the sweeper or externally) is evicted
// and reported as a miss.
func (c *ArtifactCache) Lookup(videoID string, format models.Format, quality models.Quality) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	bucket, ok := c.buckets[videoID]
	if !ok {
		return Entry{}, false
	}

	key := variantKey(format, quality)
	entry, ok := bucket[key]
	if !ok {
		return Entry{}, false
	}

	info, err := os.Stat(entry.FilePath)
	if err != nil {
		// Self-heal: the file is gone, drop the stale entry.
		delete(bucket, key)
		if len(bucket) == 0 {
			delete(c.buckets, videoID)
		}
		return Entry{}, false
	}

	if entry.FileSizeBytes == 0 {
		entry.FileSizeBytes = info.Size()
		bucket[key] = entry
	}

	return entry, true
}

// Insert registers an artifact for the triple, overwriting any previous
// entry for the same key.
func (c *ArtifactCache) Insert(videoID string, format models.Format, quality models.Quality, entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	bucket, ok := c.buckets[videoID]
	if !ok {
		bucket = make(map[string]Entry)
		c.buckets[videoID] = bucket
	}
	bucket[variantKey(format, quality)] = entry
}

// EvictByFilePath removes every entry whose backing file is the given path
// and drops videoID buckets that become empty. It returns the number of
// entries removed.
func (c *ArtifactCache) EvictByFilePath(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for videoID, bucket := range c.buckets {
		for key, entry := range bucket {
			if entry.FilePath == path {
				delete(bucket, key)
				removed++
			}
		}
		if len(bucket) == 0 {
			delete(c.buckets, videoID)
		}
	}
	return removed
}

// Len returns the number of live entries. Used by health reporting and tests.
func (c *ArtifactCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, bucket := range c.buckets {
		n += len(bucket)
	}
	return n
}
