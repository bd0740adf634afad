package unpack

import (
	"context"
	"os"

	"romkit/domain/archive"

	"github.com/mholt/archives"
)

// ZipBackend implements archive.Backend for .zip files using mholt/archives
type ZipBackend struct{}

// NewZipBackend creates a new zip backend
func NewZipBackend() *ZipBackend {
	return &ZipBackend{}
}

// Name implements archive.Backend
func (b *ZipBackend) Name() string {
	return "zip"
}

// SupportsIntegrityCheck implements archive.Backend
func (b *ZipBackend) SupportsIntegrityCheck() bool {
	return false
}

// Test implements archive.Backend; zip checksums are verified while reading
func (b *ZipBackend) Test(ctx context.Context, req *archive.Request) error {
	return nil
}

// Walk implements archive.Backend
func (b *ZipBackend) Walk(ctx context.Context, req *archive.Request, fn archive.MemberFunc) error {
	f, err := os.Open(req.Path)
	if err != nil {
		return openError(err)
	}
	defer f.Close()

	return walkFiles(ctx, func(handle archives.FileHandler) error {
		return archives.Zip{}.Extract(ctx, f, handle)
	}, fn)
}

// Ensure ZipBackend implements archive.Backend
var _ archive.Backend = (*ZipBackend)(nil)
