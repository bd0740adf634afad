package archive

import "errors"

var (
	// ErrUnsupportedFormat is returned when no usable backend exists for an archive
	ErrUnsupportedFormat = errors.New("unsupported archive format")

	// ErrCorruptArchive is returned when a backend reports an integrity failure
	ErrCorruptArchive = errors.New("corrupt archive")
)
