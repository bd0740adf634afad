package flatten

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"romkit/domain/naming"
	"romkit/infrastructure/console"
	"romkit/infrastructure/filesystem"
)

// skippedDirs are never descended into
var skippedDirs = map[string]bool{
	"venv": true,
}

// Input represents the input for a flatten run
type Input struct {
	Root   string
	DryRun bool
	Prune  bool // Remove directories left empty
}

// Result contains the counters for one flatten run
type Result struct {
	Moved  int
	Pruned int
	Errors int
}

// Service moves files from subdirectories into the root
type Service struct {
	checker naming.FileChecker
	printer *console.Printer
}

// NewService creates a new flatten Service
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

// Flatten moves every file below a subdirectory of input.Root into the root
func (s *Service) Flatten(ctx context.Context, input Input) (Result, error) {
	var result Result

	root, err := filesystem.ResolveDir(input.Root)
	if err != nil {
		return result, err
	}

	files, dirs, err := scan(root)
	if err != nil {
		return result, err
	}

	checker := plannedChecker{FileChecker: s.checker, planned: make(map[string]bool)}

	for _, src := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		dst := naming.UniquePath(checker, root, filepath.Base(src))
		if input.DryRun {
			checker.planned[dst] = true
		} else if err := filesystem.Move(src, dst); err != nil {
			s.printer.Error("moving %s: %v", src, err)
			result.Errors++
			continue
		}

		s.printer.Printf("Moved: %s -> %s\n", src, dst)
		result.Moved++
	}

	if input.Prune && !input.DryRun {
		result.Pruned = s.prune(dirs)
	}

	return result, nil
}

// scan returns the files to move and the visited subdirectories
func scan(root string) ([]string, []string, error) {
	var files, dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if strings.HasPrefix(name, ".") || skippedDirs[name] {
				return filepath.SkipDir
			}
			dirs = append(dirs, path)
			return nil
		}
		if strings.HasPrefix(name, ".") || filepath.Dir(path) == root {
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	return files, dirs, nil
}

// prune removes empty directories, deepest first
func (s *Service) prune(dirs []string) int {
	sorted := append([]string(nil), dirs...)
	sort.Slice(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})

	pruned := 0
	for _, dir := range sorted {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			continue
		}
		if err := os.Remove(dir); err != nil {
			s.printer.Warn("could not remove %s: %v", dir, err)
			continue
		}
		pruned++
	}
	return pruned
}
