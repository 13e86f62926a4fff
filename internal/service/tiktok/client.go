// Package tiktok wraps the third-party TikTok extraction API that resolves
// a video URL into metadata and a no-watermark media URL.
package tiktok

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/clipsave/tiktok-download-service-go/internal/config"
	"github.com/clipsave/tiktok-download-service-go/internal/models"
)

// Client calls the keyed extraction API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a new extraction API client.
func NewClient(cfg *config.UpstreamConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
	}
}

// envelope is the extraction API response wrapper. A non-zero Code is an
// application-level failure even on HTTP 200.
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type videoPayload struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Cover    string  `json:"cover"`
	Play     string  `json:"play"`
	HDPlay   string  `json:"hdplay"`
	Duration float64 `json:"duration"`
	Author   struct {
		UniqueID string `json:"unique_id"`
		Nickname string `json:"nickname"`
	} `json:"author"`
}

// FetchVideo resolves a TikTok URL into metadata plus a direct no-watermark
// media URL. Any failure is returned as an error; the caller decides whether
// to degrade.
func (c *Client) FetchVideo(ctx context.Context, sourceURL string) (*models.VideoMetadata, error) {
	reqURL := fmt.Sprintf("%s?url=%s&hd=1", c.baseURL, url.QueryEscape(sourceURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build extraction request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extraction API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction API returned status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode extraction response: %w", err)
	}
	if env.Code != 0 {
		return nil, fmt.Errorf("extraction API error code %d: %s", env.Code, env.Msg)
	}

	var payload videoPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return nil, fmt.Errorf("decode extraction payload: %w", err)
	}
	if payload.ID == "" || (payload.Play == "" && payload.HDPlay == "") {
		return nil, fmt.Errorf("extraction payload missing id or media URL")
	}

	playURL := payload.HDPlay
	if playURL == "" {
		playURL = payload.Play
	}

	author := payload.Author.Nickname
	if author == "" {
		author = payload.Author.UniqueID
	}

	return &models.VideoMetadata{
		ID:              payload.ID,
		SourceURL:       sourceURL,
		Title:           payload.Title,
		Author:          author,
		ThumbnailURL:    payload.Cover,
		DurationSeconds: int(payload.Duration),
		PlayURL:         playURL,
	}, nil
}
