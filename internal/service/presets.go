package service

import "github.com/clipsave/tiktok-download-service-go/internal/models"

// mp4Preset tunes libx264 per quality tier. Lower CRF and slower presets
// trade encode time for quality.
type mp4Preset struct {
	CRF    string
	Preset string
}

// webmPreset tunes libvpx-vp9 per quality tier.
type webmPreset struct {
	CRF      string
	Bitrate  string
	Deadline string
	CPUUsed  string
}

var (
	mp4Presets = map[models.Quality]mp4Preset{
		models.QualityHigh:   {CRF: "18", Preset: "slow"},
		models.QualityMedium: {CRF: "23", Preset: "medium"},
		models.QualityLow:    {CRF: "28", Preset: "fast"},
	}

	webmPresets = map[models.Quality]webmPreset{
		models.QualityHigh:   {CRF: "31", Bitrate: "2M", Deadline: "good", CPUUsed: "1"},
		models.QualityMedium: {CRF: "34", Bitrate: "1M", Deadline: "good", CPUUsed: "2"},
		models.QualityLow:    {CRF: "37", Bitrate: "500k", Deadline: "realtime", CPUUsed: "4"},
	}

	mp3Bitrates = map[models.Quality]string{
		models.QualityHigh:   "192k",
		models.QualityMedium: "128k",
		models.QualityLow:    "96k",
	}
)

// buildTranscodeArgs constructs the full ffmpeg argument vector for the
// given format and quality tier.
func buildTranscodeArgs(inputPath, outputPath string, format models.Format, quality models.Quality) []string {
	args := []string{"-y", "-i", inputPath}

	switch format {
	case models.FormatMP3:
		// Audio-only extraction, fixed sample rate and channel count.
		args = append(args,
			"-vn",
			"-ar", "44100",
			"-ac", "2",
			"-b:a", mp3Bitrates[quality],
			"-f", "mp3",
		)
	case models.FormatWebM:
		p := webmPresets[quality]
		args = append(args,
			"-c:v", "libvpx-vp9",
			"-crf", p.CRF,
			"-b:v", p.Bitrate,
			"-deadline", p.Deadline,
			"-cpu-used", p.CPUUsed,
			"-c:a", "libopus",
		)
	default:
		p := mp4Presets[quality]
		args = append(args,
			"-c:v", "libx264",
			"-crf", p.CRF,
			"-preset", p.Preset,
			"-c:a", "aac",
			// Fast-start moves the moov atom up front for progressive playback.
			"-movflags", "+faststart",
		)
	}

	return append(args, outputPath)
}
