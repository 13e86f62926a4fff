// Package repository provides database operations for the download service.
package repository

import (
	"context"

	"github.com/clipsave/tiktok-download-service-go/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles all database operations for the download service.
type Repository struct {
	db *pgxpool.Pool
}

// New creates a new Repository instance with the provided connection pool.
func New(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// InsertDownload appends a download history row. Rows are append-only and
// never mutated by this service.
func (r *Repository) InsertDownload(ctx context.Context, record *models.DownloadHistoryRecord) error {
	query := `
		INSERT INTO downloads.download_history
		(id, video_id, source_url, thumbnail_url, title, author, format, quality, file_size_bytes, requester_ip, user_agent, downloaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(ctx, query,
		record.ID, record.VideoID, record.SourceURL, record.ThumbnailURL, record.Title,
		record.Author, record.Format, record.Quality, record.FileSizeBytes,
		record.RequesterIP, record.UserAgent, record.DownloadedAt,
	)
	return err
}

// ListRecent retrieves the most recent download history rows, newest first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]models.DownloadHistoryRecord, error) {
	query := `
		SELECT id, video_id, source_url, thumbnail_url, title, author, format, quality,
		       file_size_bytes, requester_ip, user_agent, downloaded_at
		FROM downloads.download_history
		ORDER BY downloaded_at DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.DownloadHistoryRecord
	for rows.Next() {
		var record models.DownloadHistoryRecord
		if err := rows.Scan(
			&record.ID, &record.VideoID, &record.SourceURL, &record.ThumbnailURL,
			&record.Title, &record.Author, &record.Format, &record.Quality,
			&record.FileSizeBytes, &record.RequesterIP, &record.UserAgent, &record.DownloadedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// CountDownloads returns the total number of history rows.
func (r *Repository) CountDownloads(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM downloads.download_history`).Scan(&count)
	return count, err
}

// Ping checks the database connection health.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
