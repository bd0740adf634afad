package unpack

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"romkit/domain/archive"

	"github.com/nwaples/rardecode/v2"
)

// sfxWindow is how far into a file a RAR signature may start, leaving room
// for a self-extractor stub
const sfxWindow = 1 << 20

// rarSignature prefixes both the RAR 1.5-4.x and the RAR 5 marker blocks
var rarSignature = []byte("Rar!\x1a\x07")

// RarBackend implements archive.Backend for RAR sets using rardecode.
// It is given the first volume and follows the volume chain itself.
type RarBackend struct{}

// NewRarBackend creates a new rar backend
func NewRarBackend() *RarBackend {
	return &RarBackend{}
}

// Name implements archive.Backend
func (b *RarBackend) Name() string {
	return "rar"
}

// SupportsIntegrityCheck implements archive.Backend
func (b *RarBackend) SupportsIntegrityCheck() bool {
	return true
}

// checkSignature fails with archive.ErrCorruptArchive unless path holds a
// RAR marker within the self-extractor window. rardecode never returns on
// input without one.
func checkSignature(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	buf := make([]byte, sfxWindow+len(rarSignature))
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if !bytes.Contains(buf[:n], rarSignature) {
		return fmt.Errorf("%w: %s: no RAR signature", archive.ErrCorruptArchive, filepath.Base(path))
	}
	return nil
}

// checkVolumes verifies the signature of the first volume and of every
// continuation volume next to it that rardecode will open
func checkVolumes(req *archive.Request) error {
	if err := checkSignature(req.Path); err != nil {
		return err
	}

	entries, err := os.ReadDir(filepath.Dir(req.Path))
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}

	first := filepath.Base(req.Path)
	for _, name := range archive.VolumeSet(first, names) {
		// a bare name.rar demoted next to part-numbered volumes is not read
		if name == first || archive.Classify(name) == archive.KindRarFirst {
			continue
		}
		if err := checkSignature(filepath.Join(filepath.Dir(req.Path), name)); err != nil {
			return err
		}
	}
	return nil
}

func (b *RarBackend) open(req *archive.Request) (*rardecode.ReadCloser, error) {
	if err := checkVolumes(req); err != nil {
		return nil, err
	}

	var opts []rardecode.Option
	if req.Password != "" {
		opts = append(opts, rardecode.Password(req.Password))
	}

	rc, err := rardecode.OpenReader(req.Path, opts...)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("open archive: %w", err)
		}
		return nil, fmt.Errorf("%w: %v", archive.ErrCorruptArchive, err)
	}
	return rc, nil
}

// Test implements archive.Backend by decoding every member, which makes
// rardecode verify each file checksum
func (b *RarBackend) Test(ctx context.Context, req *archive.Request) error {
	rc, err := b.open(req)
	if err != nil {
		return err
	}
	defer rc.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		hdr, err := rc.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", archive.ErrCorruptArchive, err)
		}
		if hdr.IsDir {
			continue
		}
		if _, err := io.Copy(io.Discard, rc); err != nil {
			return fmt.Errorf("%w: %s: %v", archive.ErrCorruptArchive, hdr.Name, err)
		}
	}
}

// Walk implements archive.Backend
func (b *RarBackend) Walk(ctx context.Context, req *archive.Request, fn archive.MemberFunc) error {
	rc, err := b.open(req)
	if err != nil {
		return err
	}
	defer rc.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		hdr, err := rc.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", archive.ErrCorruptArchive, err)
		}

		size := hdr.UnPackedSize
		if hdr.UnKnownSize {
			size = -1
		}
		m := archive.Member{
			Name:  hdr.Name,
			Size:  size,
			IsDir: hdr.IsDir,
			Open: func() (io.ReadCloser, error) {
				// the member stream is the reader itself until the next call to Next
				return io.NopCloser(corruptReader{rc}), nil
			},
		}
		if err := fn(ctx, m); err != nil {
			return err
		}
	}
}

// Ensure RarBackend implements archive.Backend
var _ archive.Backend = (*RarBackend)(nil)
