package extract

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"romkit/domain/archive"
	"romkit/domain/naming"
	"romkit/infrastructure/console"
	"romkit/infrastructure/filesystem"
	"romkit/infrastructure/unpack"

	"github.com/dustin/go-humanize"
)

// Input represents the input for an extraction run
type Input struct {
	Root     string
	Password string // Optional, tried for encrypted archives
	Delete   bool   // Remove source archives after a successful extraction
}

// Walker finds archives under a root and extracts each one in place
type Walker struct {
	backends archive.BackendProvider
	checker  naming.FileChecker
	printer  *console.Printer
}

// NewWalker creates a new Walker
func NewWalker(backends archive.BackendProvider, checker naming.FileChecker, printer *console.Printer) *Walker {
	return &Walker{
		backends: backends,
		checker:  checker,
		printer:  printer,
	}
}

// candidate is a discovered archive together with the file names of its directory
type candidate struct {
	archive.Candidate
	siblings []string
}

// Walk extracts every archive below input.Root. Per-archive failures are
// counted in the summary; only an unusable root returns an error.
func (w *Walker) Walk(ctx context.Context, input Input) (archive.Summary, error) {
	var summary archive.Summary

	root, err := filesystem.ResolveDir(input.Root)
	if err != nil {
		return summary, err
	}

	candidates, err := w.discover(root)
	if err != nil {
		return summary, err
	}

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if !c.Kind.Extractable() {
			summary.Skipped++
			continue
		}
		summary = summary.Add(w.process(ctx, c, input))
	}

	return summary, nil
}

// discover lists the archives of every directory under root before anything
// is extracted, so files produced by this run are never picked up again
func (w *Walker) discover(root string) ([]candidate, error) {
	var result []candidate

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			w.printer.Warn("cannot read %s: %v", path, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), unpack.StagingPrefix) {
			return filepath.SkipDir
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			w.printer.Warn("cannot read %s: %v", path, err)
			return nil
		}

		var names []string
		for _, e := range entries {
			if e.Type().IsRegular() {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)

		for _, c := range archive.SelectCandidates(path, names) {
			result = append(result, candidate{Candidate: c, siblings: names})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return result, nil
}

// process extracts one archive and optionally deletes it
func (w *Walker) process(ctx context.Context, c candidate, input Input) archive.Outcome {
	w.printer.Println()
	w.printer.Info("%s: %s", strings.ToUpper(c.Kind.String()), c.Path)

	var outcome archive.Outcome
	req := archive.NewRequest(c.Candidate, input.Password)

	written, err := w.extract(ctx, req, &outcome)
	outcome.Files, outcome.Bytes = written.files, written.bytes
	if err != nil {
		outcome.Err = fmt.Errorf("failed to extract %s: %w", c.Path, err)
		w.printer.Error("%s: %v", c.Path, err)
		return outcome
	}

	w.printer.Success("  extracted %d files (%s)", written.files, humanize.Bytes(uint64(written.bytes)))

	if input.Delete {
		w.deleteSource(c, &outcome)
	}
	return outcome
}

// extract runs the backend chain for req. Fallbacks are only tried while
// nothing has been written; their errors are reported as warnings and the
// primary backend's error is returned.
func (w *Walker) extract(ctx context.Context, req *archive.Request, outcome *archive.Outcome) (written, error) {
	chain := w.backends.Backends(req.Kind)
	if len(chain) == 0 {
		return written{}, fmt.Errorf("%w: %s", archive.ErrUnsupportedFormat, req.Kind)
	}

	primary := chain[0]
	if primary.SupportsIntegrityCheck() {
		if err := primary.Test(ctx, req); err != nil {
			w.printer.Warn("integrity check failed, extracting what is readable: %v", err)
			outcome.Warnings++
		}
	}

	result, err := w.extractWith(ctx, primary, req)
	if err == nil || result.files > 0 {
		return result, err
	}

	for _, fallback := range chain[1:] {
		if ctx.Err() != nil {
			break
		}
		w.printer.Warn("%s failed (%v), trying %s", primary.Name(), err, fallback.Name())

		fbResult, fbErr := w.extractWith(ctx, fallback, req)
		if fbErr == nil {
			return fbResult, nil
		}
		w.printer.Warn("%s failed: %v", fallback.Name(), fbErr)
		if fbResult.files > 0 {
			return fbResult, err
		}
	}

	return result, err
}
