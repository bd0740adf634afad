package archive

import (
	"context"
	"io"
)

// Request describes one archive to open
type Request struct {
	Path     string // Path to the archive (first volume for RAR sets)
	Dir      string // Target directory for extracted files
	Password string // Optional password for encrypted entries
	Kind     Kind
}

// NewRequest builds a request for a discovered candidate
func NewRequest(c Candidate, password string) *Request {
	return &Request{
		Path:     c.Path,
		Dir:      c.Dir,
		Password: password,
		Kind:     c.Kind,
	}
}

// Member is a single entry yielded by a Backend
type Member struct {
	Name  string // Path of the entry inside the archive
	Size  int64  // Uncompressed size, or -1 when unknown
	IsDir bool
	Open  func() (io.ReadCloser, error)
}

// MemberFunc is called once for every entry of an archive, in archive order
type MemberFunc func(ctx context.Context, m Member) error

// Backend is a format-specific implementation able to open an archive and
// stream out its members.
// This is a port that can be implemented by different infrastructure adapters
type Backend interface {
	// Name identifies the backend in progress output
	Name() string

	// SupportsIntegrityCheck reports whether Test does real work
	SupportsIntegrityCheck() bool

	// Test verifies archive integrity without writing anything.
	// Failures wrap ErrCorruptArchive.
	Test(ctx context.Context, req *Request) error

	// Walk opens the archive and calls fn for every entry
	Walk(ctx context.Context, req *Request, fn MemberFunc) error
}

// BackendProvider returns the ordered backend chain for a kind: the primary
// backend first, then fallbacks. An empty chain means the kind is unsupported.
type BackendProvider interface {
	Backends(kind Kind) []Backend
}
