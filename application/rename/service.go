package rename

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"romkit/domain/naming"
	"romkit/infrastructure/console"
	"romkit/infrastructure/filesystem"
)

// Input represents the input for a rename run
type Input struct {
	Root      string
	MaxLength int // Includes the extension
	DryRun    bool
}

// Result contains the counters for one rename run
type Result struct {
	Scanned int
	Renamed int
	Errors  int
}

// Service cleans file names in place
type Service struct {
	checker naming.FileChecker
	printer *console.Printer
}

// NewService creates a new rename Service
func NewService(checker naming.FileChecker, printer *console.Printer) *Service {
	return &Service{
		checker: checker,
		printer: printer,
	}
}

// plannedChecker also reports names claimed earlier in a dry run
type plannedChecker struct {
	naming.FileChecker
	planned map[string]bool
}

func (c plannedChecker) Exists(path string) bool {
	return c.planned[path] || c.FileChecker.Exists(path)
}

// Rename sanitizes every file name below input.Root. Hidden files are left alone.
func (s *Service) Rename(ctx context.Context, input Input) (Result, error) {
	var result Result

	root, err := filesystem.ResolveDir(input.Root)
	if err != nil {
		return result, err
	}

	maxLen := input.MaxLength
	if maxLen <= 0 {
		maxLen = naming.DefaultMaxLength
	}

	files, err := listFiles(root)
	if err != nil {
		return result, err
	}

	checker := plannedChecker{FileChecker: s.checker, planned: make(map[string]bool)}

	for _, oldPath := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Scanned++

		dir, name := filepath.Split(oldPath)
		base, ext := naming.Sanitize(name, maxLen)
		if base+ext == name {
			continue
		}

		newPath := naming.UniquePathWithin(checker, filepath.Clean(dir), base, ext, maxLen)
		if newPath == oldPath {
			continue
		}

		if input.DryRun {
			checker.planned[newPath] = true
		} else if err := os.Rename(oldPath, newPath); err != nil {
			s.printer.Error("renaming %s: %v", name, err)
			result.Errors++
			continue
		}

		s.printer.Printf("Renamed: %s -> %s\n", name, filepath.Base(newPath))
		result.Renamed++
	}

	return result, nil
}

func listFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	return files, nil
}
