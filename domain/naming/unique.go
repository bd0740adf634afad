package naming

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FileChecker defines the interface for checking file existence
// This is used to pick output names that never collide with existing files
type FileChecker interface {
	// Exists returns true if the file exists
	Exists(path string) bool
}

// SplitExt splits a file name into base and extension (".tar" for "a.tar")
func SplitExt(filename string) (string, string) {
	ext := filepath.Ext(filename)
	if ext == filename {
		// dotfile such as ".hidden"
		return filename, ""
	}
	return strings.TrimSuffix(filename, ext), ext
}

// UniquePath returns dir/filename, or dir/base_N.ext for the smallest N >= 1
// that does not exist yet
func UniquePath(checker FileChecker, dir, filename string) string {
	candidate := filepath.Join(dir, filename)
	if !checker.Exists(candidate) {
		return candidate
	}

	base, ext := SplitExt(filename)
	for i := 1; ; i++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, i, ext))
		if !checker.Exists(candidate) {
			return candidate
		}
	}
}

// UniquePathWithin works like UniquePath but keeps base+suffix+ext within
// maxLen characters by trimming the base as the suffix grows
func UniquePathWithin(checker FileChecker, dir, base, ext string, maxLen int) string {
	candidate := filepath.Join(dir, base+ext)
	if !checker.Exists(candidate) {
		return candidate
	}

	for i := 1; ; i++ {
		suffix := fmt.Sprintf("_%d", i)
		allowed := maxLen - len(ext) - len(suffix)
		if allowed < 1 {
			allowed = 1
		}
		b := base
		if len(b) > allowed {
			b = b[:allowed]
		}
		b = strings.TrimRight(b, trimSet)
		if b == "" {
			b = Fallback
		}
		candidate = filepath.Join(dir, b+suffix+ext)
		if !checker.Exists(candidate) {
			return candidate
		}
	}
}
