package convert

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"romkit/domain/audio"
	"romkit/infrastructure/console"
	"romkit/infrastructure/filesystem"
)

// --- Mock implementations for testing ---

// mockConverter implements audio.Converter by writing a placeholder WAV
type mockConverter struct {
	shouldFail  bool
	writeOutput bool
	requests    []*audio.ConversionRequest
}

func (m *mockConverter) Convert(ctx context.Context, req *audio.ConversionRequest) error {
	m.requests = append(m.requests, req)
	if m.shouldFail {
		return errors.New("ffmpeg exited with status 1")
	}
	if m.writeOutput {
		return os.WriteFile(req.OutputPath, []byte("RIFF"), 0644)
	}
	return nil
}

// mockProber implements audio.DurationProber for testing
type mockProber struct {
	durations map[string]float64
}

func (m *mockProber) Duration(ctx context.Context, path string) (float64, bool) {
	d, ok := m.durations[path]
	return d, ok
}

func setup(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func newService(converter *mockConverter, prober *mockProber) *Service {
	return NewService(converter, prober, filesystem.NewChecker(), console.New(&bytes.Buffer{}, true))
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestService_Convert(t *testing.T) {
	root := setup(t, "a.mp3", "sub/b.flac", "c.wav", "cover.jpg")
	converter := &mockConverter{writeOutput: true}
	svc := newService(converter, &mockProber{})

	result, err := svc.Convert(context.Background(), Input{Root: root, Channels: 2, DurationTolerance: 1})
	if err != nil {
		t.Fatalf("Convert() unexpected error: %v", err)
	}

	want := Result{Candidates: 2, Converted: 2, Deleted: 2}
	if result != want {
		t.Errorf("result = %+v, want %+v", result, want)
	}
	if exists(filepath.Join(root, "a.mp3")) || !exists(filepath.Join(root, "a.wav")) {
		t.Error("a.mp3 should be replaced by a.wav")
	}
	if !exists(filepath.Join(root, "sub", "b.wav")) {
		t.Error("sub/b.wav should exist")
	}
	if !exists(filepath.Join(root, "c.wav")) || !exists(filepath.Join(root, "cover.jpg")) {
		t.Error("non-candidates must be left alone")
	}
}

func TestService_Convert_Cases(t *testing.T) {
	tests := []struct {
		name       string
		files      []string
		input      Input
		converter  *mockConverter
		durations  func(root string) map[string]float64
		want       Result
		wantSource bool
		wantCalls  int
	}{
		{
			name:       "existing wav is skipped",
			files:      []string{"a.mp3", "a.wav"},
			converter:  &mockConverter{writeOutput: true},
			want:       Result{Candidates: 1, Skipped: 1},
			wantSource: true,
		},
		{
			name:      "overwrite converts over an existing wav",
			files:     []string{"a.mp3", "a.wav"},
			input:     Input{Overwrite: true},
			converter: &mockConverter{writeOutput: true},
			want:      Result{Candidates: 1, Converted: 1, Deleted: 1},
			wantCalls: 1,
		},
		{
			name:       "keep leaves the original",
			files:      []string{"a.ogg"},
			input:      Input{Keep: true},
			converter:  &mockConverter{writeOutput: true},
			want:       Result{Candidates: 1, Converted: 1},
			wantSource: true,
			wantCalls:  1,
		},
		{
			name:       "dry run changes nothing",
			files:      []string{"a.ogg"},
			input:      Input{DryRun: true},
			converter:  &mockConverter{writeOutput: true},
			want:       Result{Candidates: 1, Converted: 1, Deleted: 1},
			wantSource: true,
		},
		{
			name:       "failed conversion keeps the original",
			files:      []string{"a.ogg"},
			converter:  &mockConverter{shouldFail: true},
			want:       Result{Candidates: 1, Errors: 1},
			wantSource: true,
			wantCalls:  1,
		},
		{
			name:       "missing output is an error",
			files:      []string{"a.ogg"},
			converter:  &mockConverter{},
			want:       Result{Candidates: 1, Errors: 1},
			wantSource: true,
			wantCalls:  1,
		},
		{
			name:      "duration mismatch keeps the original",
			files:     []string{"a.m4a"},
			converter: &mockConverter{writeOutput: true},
			durations: func(root string) map[string]float64 {
				return map[string]float64{
					filepath.Join(root, "a.m4a"): 120,
					filepath.Join(root, "a.wav"): 60,
				}
			},
			want:       Result{Candidates: 1, Skipped: 1},
			wantSource: true,
			wantCalls:  1,
		},
		{
			name:      "duration within tolerance",
			files:     []string{"a.m4a"},
			converter: &mockConverter{writeOutput: true},
			durations: func(root string) map[string]float64 {
				return map[string]float64{
					filepath.Join(root, "a.m4a"): 120,
					filepath.Join(root, "a.wav"): 120.5,
				}
			},
			want:      Result{Candidates: 1, Converted: 1, Deleted: 1},
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := setup(t, tt.files...)
			prober := &mockProber{}
			if tt.durations != nil {
				prober.durations = tt.durations(root)
			}
			input := tt.input
			input.Root = root
			input.Channels = 2
			input.DurationTolerance = 1

			result, err := newService(tt.converter, prober).Convert(context.Background(), input)
			if err != nil {
				t.Fatalf("Convert() unexpected error: %v", err)
			}
			if result != tt.want {
				t.Errorf("result = %+v, want %+v", result, tt.want)
			}
			if got := exists(filepath.Join(root, tt.files[0])); got != tt.wantSource {
				t.Errorf("source exists = %v, want %v", got, tt.wantSource)
			}
			if len(tt.converter.requests) != tt.wantCalls {
				t.Errorf("converter calls = %d, want %d", len(tt.converter.requests), tt.wantCalls)
			}
		})
	}
}

func TestService_Convert_MissingRoot(t *testing.T) {
	svc := newService(&mockConverter{}, &mockProber{})
	_, err := svc.Convert(context.Background(), Input{Root: filepath.Join(t.TempDir(), "nope")})
	if !errors.Is(err, filesystem.ErrPathNotFound) {
		t.Errorf("Convert() error = %v, want ErrPathNotFound", err)
	}
}
