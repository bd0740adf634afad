package unpack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"romkit/domain/archive"

	"github.com/mholt/archives"
)

// GenericBackend implements archive.Backend for 7z, tar and the compressed
// formats by letting mholt/archives identify the content
type GenericBackend struct{}

// NewGenericBackend creates a new generic backend
func NewGenericBackend() *GenericBackend {
	return &GenericBackend{}
}

// Name implements archive.Backend
func (b *GenericBackend) Name() string {
	return "archives"
}

// SupportsIntegrityCheck implements archive.Backend
func (b *GenericBackend) SupportsIntegrityCheck() bool {
	return false
}

// Test implements archive.Backend
func (b *GenericBackend) Test(ctx context.Context, req *archive.Request) error {
	return nil
}

// Walk implements archive.Backend
func (b *GenericBackend) Walk(ctx context.Context, req *archive.Request, fn archive.MemberFunc) error {
	f, err := os.Open(req.Path)
	if err != nil {
		return openError(err)
	}
	defer f.Close()

	name := filepath.Base(req.Path)
	format, stream, err := archives.Identify(ctx, name, f)
	if err != nil {
		if errors.Is(err, archives.NoMatch) {
			return fmt.Errorf("%w: %s", archive.ErrUnsupportedFormat, name)
		}
		return fmt.Errorf("%w: identify %s: %v", archive.ErrCorruptArchive, name, err)
	}

	switch fm := format.(type) {
	case archives.SevenZip:
		fm.Password = req.Password
		return walkFiles(ctx, func(handle archives.FileHandler) error {
			return fm.Extract(ctx, stream, handle)
		}, fn)
	case archives.Rar:
		fm.Password = req.Password
		return walkFiles(ctx, func(handle archives.FileHandler) error {
			return fm.Extract(ctx, stream, handle)
		}, fn)
	case archives.CompressedArchive:
		if fm.Extraction == nil {
			return decompressSingle(ctx, fm, stream, name, fn)
		}
		return walkFiles(ctx, func(handle archives.FileHandler) error {
			return fm.Extract(ctx, stream, handle)
		}, fn)
	case archives.Extractor:
		return walkFiles(ctx, func(handle archives.FileHandler) error {
			return fm.Extract(ctx, stream, handle)
		}, fn)
	case archives.Decompressor:
		return decompressSingle(ctx, fm, stream, name, fn)
	default:
		return fmt.Errorf("%w: %s cannot be extracted", archive.ErrUnsupportedFormat, name)
	}
}

// decompressSingle handles a plain compressed file (game.bin.gz) as an
// archive holding one member named after the file minus its extension
func decompressSingle(ctx context.Context, d archives.Decompressor, stream io.Reader, name string, fn archive.MemberFunc) error {
	rc, err := d.OpenReader(stream)
	if err != nil {
		return fmt.Errorf("%w: %v", archive.ErrCorruptArchive, err)
	}
	defer rc.Close()

	memberName := strings.TrimSuffix(name, filepath.Ext(name))
	if memberName == "" {
		memberName = name
	}

	return fn(ctx, archive.Member{
		Name: memberName,
		Size: -1,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(corruptReader{rc}), nil
		},
	})
}

// Ensure GenericBackend implements archive.Backend
var _ archive.Backend = (*GenericBackend)(nil)
