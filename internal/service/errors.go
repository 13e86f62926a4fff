package service

import "fmt"

// InvalidURLError indicates the supplied URL does not belong to TikTok.
type InvalidURLError struct {
	URL string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("not a valid TikTok URL: %s", e.URL)
}

// ValidationError indicates malformed request parameters, rejected before
// any I/O.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UpstreamError indicates the extraction API was unreachable, rate limited,
// or returned an application-level error code.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type UpstreamError struct {
	Message string
	Cause   error
}

func (e *UpstreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *UpstreamError) Unwrap() error { return e.Cause }

// UpstreamTimeoutError indicates an upstream call or the raw media download
// exceeded its time budget.
type UpstreamTimeoutError struct {
	Stage string
}

func (e *UpstreamTimeoutError) Error() string {
	return fmt.Sprintf("upstream timeout during %s", e.Stage)
}

// TranscodeError indicates ffmpeg exited non-zero or could not be spawned.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type TranscodeError struct {
	ExitCode int
	Stderr   string
	Cause    error
}

func (e *TranscodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transcoder failed: %v", e.Cause)
	}
	return fmt.Sprintf("transcoder exited with code %d: %s", e.ExitCode, e.Stderr)
}

func (e *TranscodeError) Unwrap() error { return e.Cause }

// TranscodeTimeoutError indicates ffmpeg exceeded its time budget.
type TranscodeTimeoutError struct{}

func (e *TranscodeTimeoutError) Error() string {
	return "transcoder exceeded time budget"
}

// NotFoundError indicates an expected artifact vanished before streaming
// (a rare, accepted race with the retention sweeper).
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("artifact not found: %s", e.Path)
}
