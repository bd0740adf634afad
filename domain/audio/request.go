package audio

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

// DefaultChannels is the default number of output channels
const DefaultChannels = 2

// DefaultDurationTolerance is the allowed difference in seconds between the
// source and converted durations before the original is kept
const DefaultDurationTolerance = 1.0

// OutputExtension is the extension of converted files
const OutputExtension = ".wav"

var supportedExtensions = map[string]bool{
	".mp3": true, ".m4a": true, ".aac": true, ".flac": true, ".ogg": true,
	".opus": true, ".wma": true, ".wv": true, ".aif": true, ".aiff": true,
	".aifc": true, ".mp2": true, ".ac3": true, ".mka": true, ".mkv": true,
	".mp4": true, ".m4b": true,
}

// IsConvertible reports whether the file has an extension the converter accepts.
// WAV inputs are never converted.
func IsConvertible(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// ConversionRequest represents a request to convert one file to 16-bit PCM WAV
type ConversionRequest struct {
	SourcePath string
	OutputPath string
	SampleRate int // 0 keeps the source rate
	Channels   int
	Overwrite  bool
}

// NewConversionRequest creates a ConversionRequest with validation.
// The output sits next to the source with a .wav extension.
func NewConversionRequest(sourcePath string, sampleRate, channels int, overwrite bool) (*ConversionRequest, error) {
	if sourcePath == "" {
		return nil, fmt.Errorf("source path is required")
	}
	if !IsConvertible(sourcePath) {
		return nil, fmt.Errorf("unsupported audio extension %q", filepath.Ext(sourcePath))
	}
	if sampleRate < 0 {
		return nil, fmt.Errorf("sample rate must not be negative, got %d", sampleRate)
	}
	if channels == 0 {
		channels = DefaultChannels
	}
	if channels < 0 {
		return nil, fmt.Errorf("channels must be positive, got %d", channels)
	}

	return &ConversionRequest{
		SourcePath: sourcePath,
		OutputPath: OutputPathFor(sourcePath),
		SampleRate: sampleRate,
		Channels:   channels,
		Overwrite:  overwrite,
	}, nil
}

// OutputPathFor returns the WAV path that replaces sourcePath
func OutputPathFor(sourcePath string) string {
	return strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath)) + OutputExtension
}

// DurationMismatch reports whether a converted file is suspicious: both
// durations are known, the output is non-empty and they differ by more than
// tolerance seconds
func DurationMismatch(in, out, tolerance float64) bool {
	return out > 0 && math.Abs(in-out) > tolerance
}
