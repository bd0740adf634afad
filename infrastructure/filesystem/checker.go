package filesystem

import (
	"os"
	"path/filepath"
	"strings"

	"romkit/domain/naming"
)

// Checker answers naming.FileChecker queries against the local disk
type Checker struct {
	foldCase bool
}

// CheckerOption configures a Checker
type CheckerOption func(*Checker)

// WithFoldCase makes names that differ only in letter case count as taken,
// matching FAT and FATX targets
func WithFoldCase() CheckerOption {
	return func(c *Checker) {
		c.foldCase = true
	}
}

// NewChecker creates a new filesystem checker
func NewChecker(opts ...CheckerOption) *Checker {
	c := &Checker{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Exists reports whether anything, a dangling symlink included, occupies path
func (c *Checker) Exists(path string) bool {
	if _, err := os.Lstat(path); err == nil {
		return true
	}
	if !c.foldCase {
		return false
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		return false
	}
	name := filepath.Base(path)
	for _, e := range entries {
		if strings.EqualFold(e.Name(), name) {
			return true
		}
	}
	return false
}

var _ naming.FileChecker = (*Checker)(nil)
