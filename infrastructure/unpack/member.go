// Package unpack provides the archive backends: library readers for zip,
// rar and the generic formats, plus external command fallbacks.
package unpack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"romkit/domain/archive"

	"github.com/mholt/archives"
)

// corruptReader marks decoding errors coming out of a member stream so the
// caller can tell them apart from write failures
type corruptReader struct {
	io.Reader
}

func (r corruptReader) Read(p []byte) (int, error) {
	n, err := r.Reader.Read(p)
	if err != nil && err != io.EOF {
		err = fmt.Errorf("%w: %v", archive.ErrCorruptArchive, err)
	}
	return n, err
}

type readCloser struct {
	io.Reader
	io.Closer
}

func memberFromFileInfo(info archives.FileInfo) archive.Member {
	size, isDir := int64(-1), false
	if info.FileInfo != nil {
		size, isDir = info.Size(), info.IsDir()
	}
	return archive.Member{
		Name:  info.NameInArchive,
		Size:  size,
		IsDir: isDir,
		Open: func() (io.ReadCloser, error) {
			f, err := info.Open()
			if err != nil {
				return nil, fmt.Errorf("%w: %v", archive.ErrCorruptArchive, err)
			}
			return readCloser{Reader: corruptReader{f}, Closer: f}, nil
		},
	}
}

// isLinkOrSpecial reports entries that carry no file content of their own:
// symlinks, hard links, devices and fifos
func isLinkOrSpecial(info archives.FileInfo) bool {
	if info.LinkTarget != "" {
		return true
	}
	if info.FileInfo == nil {
		return false
	}
	mode := info.Mode()
	return !mode.IsDir() && !mode.IsRegular()
}

// walkFiles runs a mholt/archives extraction and forwards every entry to fn.
// Errors returned by fn pass through untouched; anything else the library
// reports is a decoding failure.
func walkFiles(ctx context.Context, extract func(archives.FileHandler) error, fn archive.MemberFunc) error {
	var sinkErr error
	err := extract(func(ctx context.Context, info archives.FileInfo) error {
		if isLinkOrSpecial(info) {
			return nil
		}
		if err := fn(ctx, memberFromFileInfo(info)); err != nil {
			sinkErr = err
			return err
		}
		return nil
	})
	switch {
	case err == nil:
		return nil
	case sinkErr != nil:
		return sinkErr
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, archives.NoMatch):
		return fmt.Errorf("%w: %v", archive.ErrUnsupportedFormat, err)
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return err
	default:
		return fmt.Errorf("%w: %v", archive.ErrCorruptArchive, err)
	}
}

// openError classifies a failure to open an archive file
func openError(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return fmt.Errorf("open archive: %w", err)
	}
	return fmt.Errorf("%w: %v", archive.ErrCorruptArchive, err)
}
