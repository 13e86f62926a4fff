package validation

import (
	"fmt"
	"regexp"

	"github.com/clipsave/tiktok-download-service-go/internal/models"
)

var (
	tiktokURLRegex = regexp.MustCompile(`^https?://((www|m|vm|vt)\.)?tiktok\.com/\S+$`)
	videoIDRegex   = regexp.MustCompile(`^\d{6,20}$`)
)

// Validator checks request parameters before any I/O happens.
type Validator struct {
	formats   map[models.Format]struct{}
	qualities map[models.Quality]struct{}
}

func New() *Validator {
	return &Validator{
		formats: map[models.Format]struct{}{
			models.FormatMP4:  {},
			models.FormatMP3:  {},
			models.FormatWebM: {},
		},
		qualities: map[models.Quality]struct{}{
			models.QualityHigh:   {},
			models.QualityMedium: {},
			models.QualityLow:    {},
		},
	}
}

// IsTikTokURL reports whether the URL belongs to a TikTok domain.
func (v *Validator) IsTikTokURL(url string) bool {
	return tiktokURLRegex.MatchString(url)
}

// IsValidVideoID reports whether the video ID looks like a TikTok aweme ID.
func (v *Validator) IsValidVideoID(videoID string) bool {
	return videoIDRegex.MatchString(videoID)
}

// ParseFormat validates the format query parameter.
func (v *Validator) ParseFormat(s string) (models.Format, error) {
	f := models.Format(s)
	if _, ok := v.formats[f]; !ok {
		return "", fmt.Errorf("invalid format: %q (allowed: mp4, mp3, webm)", s)
	}
	return f, nil
}

// ParseQuality validates the quality query parameter.
func (v *Validator) ParseQuality(s string) (models.Quality, error) {
	q := models.Quality(s)
	if _, ok := v.qualities[q]; !ok {
		return "", fmt.Errorf("invalid quality: %q (allowed: high, medium, low)", s)
	}
	return q, nil
}

// ValidateDownloadRequest checks every field required to serve a download
// and to write its history row.
func (v *Validator) ValidateDownloadRequest(req *models.DownloadRequestDTO) error {
	if !v.IsValidVideoID(req.VideoID) {
		return fmt.Errorf("invalid video ID: %q", req.VideoID)
	}
	if _, err := v.ParseFormat(req.Format); err != nil {
		return err
	}
	if _, err := v.ParseQuality(req.Quality); err != nil {
		return err
	}
	if req.SourceURL == "" {
		return fmt.Errorf("missing required parameter: sourceUrl")
	}
	if req.ThumbnailURL == "" {
		return fmt.Errorf("missing required parameter: thumbnailUrl")
	}
	if req.Title == "" {
		return fmt.Errorf("missing required parameter: title")
	}
	if req.Author == "" {
		return fmt.Errorf("missing required parameter: author")
	}
	return nil
}
