package convert

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"romkit/domain/audio"
	"romkit/domain/naming"
	"romkit/infrastructure/console"
	"romkit/infrastructure/filesystem"
)

// Input represents the input for a conversion run
type Input struct {
	Root              string
	Keep              bool // Keep originals after conversion
	Overwrite         bool // Replace existing WAV files
	DryRun            bool
	SampleRate        int // 0 keeps the source rate
	Channels          int
	DurationTolerance float64
}

// Result contains the counters for one conversion run
type Result struct {
	Candidates int
	Converted  int
	Deleted    int
	Skipped    int
	Errors     int
}

// Service converts audio files to WAV and removes the originals
type Service struct {
	converter audio.Converter
	prober    audio.DurationProber
	checker   naming.FileChecker
	printer   *console.Printer
}

// NewService creates a new conversion Service
func NewService(converter audio.Converter, prober audio.DurationProber, checker naming.FileChecker, printer *console.Printer) *Service {
	return &Service{
		converter: converter,
		prober:    prober,
		checker:   checker,
		printer:   printer,
	}
}

// Convert processes every convertible file below input.Root
func (s *Service) Convert(ctx context.Context, input Input) (Result, error) {
	var result Result

	root, err := filesystem.ResolveDir(input.Root)
	if err != nil {
		return result, err
	}

	sources, err := findSources(root)
	if err != nil {
		return result, err
	}
	result.Candidates = len(sources)

	s.printer.Printf("Scanning: %s\n", root)
	s.printer.Printf("Found %d candidate audio file(s).\n", len(sources))

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		s.convertOne(ctx, src, input, &result)
	}

	return result, nil
}

func findSources(root string) ([]string, error) {
	var sources []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && audio.IsConvertible(path) {
			sources = append(sources, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	return sources, nil
}

func (s *Service) convertOne(ctx context.Context, src string, input Input, result *Result) {
	req, err := audio.NewConversionRequest(src, input.SampleRate, input.Channels, input.Overwrite)
	if err != nil {
		s.printer.Error("%s: %v", src, err)
		result.Errors++
		return
	}

	if s.checker.Exists(req.OutputPath) && !input.Overwrite {
		s.printer.Printf("[skip] WAV exists: %s\n", req.OutputPath)
		result.Skipped++
		return
	}

	inDuration, inKnown := s.prober.Duration(ctx, src)

	s.printer.Printf("[convert] %s -> %s\n", src, req.OutputPath)
	if input.DryRun {
		result.Converted++
		if !input.Keep {
			result.Deleted++
		}
		return
	}

	if err := s.converter.Convert(ctx, req); err != nil {
		s.printer.Error("conversion failed: %s: %v", src, err)
		result.Errors++
		return
	}
	if !s.checker.Exists(req.OutputPath) {
		s.printer.Error("conversion produced no output: %s", src)
		result.Errors++
		return
	}

	if outDuration, outKnown := s.prober.Duration(ctx, req.OutputPath); inKnown && outKnown {
		if audio.DurationMismatch(inDuration, outDuration, input.DurationTolerance) {
			s.printer.Warn("duration mismatch (in=%.2fs, out=%.2fs), keeping original: %s", inDuration, outDuration, src)
			result.Skipped++
			return
		}
	}

	result.Converted++

	if input.Keep {
		return
	}
	if err := os.Remove(src); err != nil {
		s.printer.Error("could not delete original: %s (%v)", src, err)
		result.Errors++
		return
	}
	result.Deleted++
	s.printer.Printf("[delete] Original removed: %s\n", src)
}
