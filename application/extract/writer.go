package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"romkit/domain/archive"
	"romkit/domain/naming"
)

// maxCreateAttempts bounds the retries when an output name is taken between
// the existence check and the create
const maxCreateAttempts = 100

// defaultMemberName is used for members whose path has no usable base name
const defaultMemberName = "file"

// written counts the output of one backend run
type written struct {
	files int
	bytes int64
}

func (w *Walker) extractWith(ctx context.Context, backend archive.Backend, req *archive.Request) (written, error) {
	var result written

	err := backend.Walk(ctx, req, func(ctx context.Context, m archive.Member) error {
		if m.IsDir {
			return nil
		}
		n, err := w.writeMember(req.Dir, m)
		if err != nil {
			return err
		}
		result.files++
		result.bytes += n
		return nil
	})

	return result, err
}

// writeMember copies one member to a new, collision-free file in dir
func (w *Walker) writeMember(dir string, m archive.Member) (int64, error) {
	name := memberBaseName(m.Name)

	rc, err := m.Open()
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", m.Name, err)
	}
	defer rc.Close()

	f, path, err := w.createUnique(dir, name)
	if err != nil {
		return 0, err
	}

	progress := w.printer.Progress(m.Size, name)
	n, copyErr := io.Copy(io.MultiWriter(f, progress), rc)
	_ = progress.Finish()
	closeErr := f.Close()

	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		os.Remove(path)
		if errors.Is(copyErr, archive.ErrCorruptArchive) {
			return 0, fmt.Errorf("%s: %w", m.Name, copyErr)
		}
		return 0, fmt.Errorf("failed to write %s: %w", path, copyErr)
	}

	w.printer.Printf("  %s -> %s\n", m.Name, filepath.Base(path))
	return n, nil
}

// createUnique creates dir/name, or the first free dir/name_N variant.
// O_EXCL guarantees an existing file is never truncated.
func (w *Walker) createUnique(dir, name string) (*os.File, string, error) {
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		path := naming.UniquePath(w.checker, dir, name)

		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, "", fmt.Errorf("failed to create directory for %s: %w", path, err)
		}

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("failed to create %s: %w", path, err)
		}
	}
	return nil, "", fmt.Errorf("no free output name for %s in %s", name, dir)
}

// memberBaseName drops every directory component of an archive entry path
func memberBaseName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimRight(name, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" || name == "." || name == ".." {
		return defaultMemberName
	}
	return name
}
