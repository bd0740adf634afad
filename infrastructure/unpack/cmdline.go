package unpack

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"romkit/domain/archive"
	"romkit/infrastructure/command"
)

// Default executable names for the external extractors
const (
	SevenZip = "7z"
	Unrar    = "unrar"
	BSDTar   = "bsdtar"
	Tar      = "tar"
)

// StagingPrefix names the private directory a command extracts into before
// its files are flattened into the target directory
const StagingPrefix = ".romkit-"

// ArgsFunc builds the command line that extracts req into outDir
type ArgsFunc func(req *archive.Request, outDir string) []string

// CommandBackend implements archive.Backend by running an external unpacker.
// The tool extracts into a staging directory whose files are then yielded
// as members, so output is flattened and deduplicated like any other backend.
type CommandBackend struct {
	binary   string
	args     ArgsFunc
	testArgs func(req *archive.Request) []string
	runner   command.Runner
}

// CommandOption is a functional option for configuring CommandBackend
type CommandOption func(*CommandBackend)

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner command.Runner) CommandOption {
	return func(b *CommandBackend) {
		b.runner = runner
	}
}

// WithTestArgs enables the integrity check using the given command line
func WithTestArgs(fn func(req *archive.Request) []string) CommandOption {
	return func(b *CommandBackend) {
		b.testArgs = fn
	}
}

// NewCommandBackend creates a backend that runs binary with args
func NewCommandBackend(binary string, args ArgsFunc, opts ...CommandOption) *CommandBackend {
	b := &CommandBackend{
		binary: binary,
		args:   args,
		runner: &command.ExecRunner{},
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewSevenZipCommand runs `7z x`
func NewSevenZipCommand(binary string, opts ...CommandOption) *CommandBackend {
	return NewCommandBackend(binary, func(req *archive.Request, outDir string) []string {
		args := []string{"x", "-y", "-o" + outDir}
		if req.Password != "" {
			args = append(args, "-p"+req.Password)
		}
		return append(args, req.Path)
	}, opts...)
}

// NewUnrarCommand runs `unrar x`, with `unrar t` as integrity check
func NewUnrarCommand(binary string, opts ...CommandOption) *CommandBackend {
	password := func(req *archive.Request) string {
		if req.Password == "" {
			return "-p-"
		}
		return "-p" + req.Password
	}
	opts = append([]CommandOption{WithTestArgs(func(req *archive.Request) []string {
		return []string{"t", "-idq", password(req), req.Path}
	})}, opts...)

	return NewCommandBackend(binary, func(req *archive.Request, outDir string) []string {
		return []string{"x", "-o+", "-y", "-idq", password(req), req.Path, outDir + string(os.PathSeparator)}
	}, opts...)
}

// NewTarCommand runs `<binary> -xf archive -C dir`, which fits both GNU tar and bsdtar
func NewTarCommand(binary string, opts ...CommandOption) *CommandBackend {
	return NewCommandBackend(binary, func(req *archive.Request, outDir string) []string {
		return []string{"-xf", req.Path, "-C", outDir}
	}, opts...)
}

// Name implements archive.Backend
func (b *CommandBackend) Name() string {
	return b.binary
}

// SupportsIntegrityCheck implements archive.Backend
func (b *CommandBackend) SupportsIntegrityCheck() bool {
	return b.testArgs != nil
}

func (b *CommandBackend) available() error {
	if _, err := b.runner.LookPath(b.binary); err != nil {
		return fmt.Errorf("%w: %s is not installed", archive.ErrUnsupportedFormat, b.binary)
	}
	return nil
}

// Test implements archive.Backend
func (b *CommandBackend) Test(ctx context.Context, req *archive.Request) error {
	if b.testArgs == nil {
		return nil
	}
	if err := b.available(); err != nil {
		return err
	}
	if err := b.runner.Run(ctx, b.binary, b.testArgs(req)...); err != nil {
		return fmt.Errorf("%w: %s test failed: %v", archive.ErrCorruptArchive, b.binary, err)
	}
	return nil
}

// Walk implements archive.Backend
func (b *CommandBackend) Walk(ctx context.Context, req *archive.Request, fn archive.MemberFunc) error {
	if err := b.available(); err != nil {
		return err
	}

	staging, err := os.MkdirTemp(req.Dir, StagingPrefix)
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := b.runner.Run(ctx, b.binary, b.args(req, staging)...); err != nil {
		return fmt.Errorf("%s failed: %w", b.binary, err)
	}

	return filepath.WalkDir(staging, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == staging {
			return nil
		}

		rel, err := filepath.Rel(staging, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fn(ctx, archive.Member{Name: filepath.ToSlash(rel) + "/", Size: 0, IsDir: true})
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		return fn(ctx, archive.Member{
			Name: filepath.ToSlash(rel),
			Size: info.Size(),
			Open: func() (io.ReadCloser, error) {
				return os.Open(path)
			},
		})
	})
}

// Ensure CommandBackend implements archive.Backend
var _ archive.Backend = (*CommandBackend)(nil)
