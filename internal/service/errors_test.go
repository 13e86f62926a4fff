package service

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "invalid URL",
			err:  &InvalidURLError{URL: "https://example.com/clip"},
			want: "not a valid TikTok URL: https://example.com/clip",
		},
		{
			name: "validation",
			err:  &ValidationError{Message: `invalid format: "avi" (allowed: mp4, mp3, webm)`},
			want: `invalid format: "avi" (allowed: mp4, mp3, webm)`,
		},
		{
			name: "upstream without cause",
			err:  &UpstreamError{Message: "extraction API returned code -1"},
			want: "extraction API returned code -1",
		},
		{
			name: "upstream timeout",
			err:  &UpstreamTimeoutError{Stage: "source download"},
			want: "upstream timeout during source download",
		},
		{
			name: "transcode exit",
			err:  &TranscodeError{ExitCode: 1, Stderr: "moov atom not found"},
			want: "transcoder exited with code 1: moov atom not found",
		},
		{
			name: "transcode timeout",
			err:  &TranscodeTimeoutError{},
			want: "transcoder exceeded time budget",
		},
		{
			name: "not found",
			err:  &NotFoundError{Path: "/tmp/tiktok-artifacts/7241-high.mp4"},
			want: "artifact not found: /tmp/tiktok-artifacts/7241-high.mp4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset by peer")

	upstream := &UpstreamError{Message: "extraction API unreachable", Cause: cause}
	if !errors.Is(upstream, cause) {
		t.Error("UpstreamError should unwrap to its cause")
	}
	if !strings.Contains(upstream.Error(), "connection reset by peer") {
		t.Errorf("Error() = %q, want cause included", upstream.Error())
	}

	transcode := &TranscodeError{Cause: cause}
	if !errors.Is(transcode, cause) {
		t.Error("TranscodeError should unwrap to its cause")
	}
}
