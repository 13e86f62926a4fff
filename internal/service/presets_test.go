package service

import (
	"strings"
	"testing"

	"github.com/clipsave/tiktok-download-service-go/internal/models"
)

func TestBuildTranscodeArgs(t *testing.T) {
	tests := []struct {
		name        string
		format      models.Format
		quality     models.Quality
		wantPairs   [][2]string
		wantFlags   []string
		forbidFlags []string
	}{
		{
			name:    "mp4 high uses low CRF and slow preset with faststart",
			format:  models.FormatMP4,
			quality: models.QualityHigh,
			wantPairs: [][2]string{
				{"-c:v", "libx264"},
				{"-crf", "18"},
				{"-preset", "slow"},
				{"-movflags", "+faststart"},
			},
		},
		{
			name:    "mp4 low uses high CRF and fast preset",
			format:  models.FormatMP4,
			quality: models.QualityLow,
			wantPairs: [][2]string{
				{"-crf", "28"},
				{"-preset", "fast"},
			},
		},
		{
			name:    "webm medium carries CRF, target bitrate and speed tier",
			format:  models.FormatWebM,
			quality: models.QualityMedium,
			wantPairs: [][2]string{
				{"-c:v", "libvpx-vp9"},
				{"-crf", "34"},
				{"-b:v", "1M"},
				{"-deadline", "good"},
				{"-cpu-used", "2"},
			},
		},
		{
			name:    "mp3 medium drops video and fixes sample rate and channels",
			format:  models.FormatMP3,
			quality: models.QualityMedium,
			wantPairs: [][2]string{
				{"-ar", "44100"},
				{"-ac", "2"},
				{"-b:a", "128k"},
			},
			wantFlags:   []string{"-vn"},
			forbidFlags: []string{"-c:v"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := buildTranscodeArgs("/scratch/in.mp4", "/scratch/out."+string(tt.format), tt.format, tt.quality)

			if args[len(args)-1] != "/scratch/out."+string(tt.format) {
				t.Errorf("last arg = %s, want output path", args[len(args)-1])
			}
			if !containsSequence(args, "-i", "/scratch/in.mp4") {
				t.Errorf("args missing input: %v", args)
			}
			for _, pair := range tt.wantPairs {
				if !containsSequence(args, pair[0], pair[1]) {
					t.Errorf("args missing %s %s: %v", pair[0], pair[1], args)
				}
			}
			for _, flag := range tt.wantFlags {
				if !contains(args, flag) {
					t.Errorf("args missing %s: %v", flag, args)
				}
			}
			for _, flag := range tt.forbidFlags {
				if contains(args, flag) {
					t.Errorf("args must not contain %s: %v", flag, args)
				}
			}
		})
	}
}

func TestBuildTranscodeArgsAreShellSafe(t *testing.T) {
	// The vector goes straight to exec; hostile names stay single arguments.
	input := "/scratch/source-123; rm -rf ~.mp4"
	args := buildTranscodeArgs(input, "/scratch/out.mp4", models.FormatMP4, models.QualityMedium)

	if !containsSequence(args, "-i", input) {
		t.Errorf("hostile input path was not preserved as a single argument: %v", args)
	}
	joined := strings.Join(args, "\x00")
	if strings.Contains(joined, "sh\x00-c") {
		t.Error("argument vector must never route through a shell")
	}
}
