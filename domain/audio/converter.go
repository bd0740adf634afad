package audio

import "context"

// Converter defines the interface for audio-to-WAV conversion
// This is a port that can be implemented by different infrastructure adapters
type Converter interface {
	// Convert transcodes the source file according to the request
	Convert(ctx context.Context, req *ConversionRequest) error
}

// DurationProber reports the playing time of a media file
type DurationProber interface {
	// Duration returns the duration in seconds; ok is false when unknown
	Duration(ctx context.Context, path string) (seconds float64, ok bool)
}
