package filesystem

import (
	"os"
	"path/filepath"
	"testing"
)

func TestChecker_Exists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "present.bin")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "dangling")
	if err := os.Symlink(filepath.Join(dir, "missing"), link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	c := NewChecker()
	tests := []struct {
		path string
		want bool
	}{
		{file, true},
		{dir, true},
		{link, true},
		{filepath.Join(dir, "absent.bin"), false},
	}

	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			if got := c.Exists(tt.path); got != tt.want {
				t.Errorf("Exists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestChecker_FoldCase(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Zelda.sfc"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	marker := filepath.Join(dir, "ZELDA.SFC")

	if NewChecker().Exists(marker) && !caseInsensitiveFS(dir) {
		t.Errorf("plain checker matched %s on a case-sensitive filesystem", marker)
	}
	if !NewChecker(WithFoldCase()).Exists(marker) {
		t.Errorf("fold-case checker did not match %s", marker)
	}
	if NewChecker(WithFoldCase()).Exists(filepath.Join(dir, "Mario.sfc")) {
		t.Error("fold-case checker matched an unrelated name")
	}
	if NewChecker(WithFoldCase()).Exists(filepath.Join(dir, "missing", "Zelda.sfc")) {
		t.Error("fold-case checker matched inside a missing directory")
	}
}

// caseInsensitiveFS reports whether dir lives on a case-insensitive filesystem
func caseInsensitiveFS(dir string) bool {
	marker := filepath.Join(dir, "case-marker")
	if err := os.WriteFile(marker, nil, 0o644); err != nil {
		return false
	}
	defer os.Remove(marker)
	_, err := os.Stat(filepath.Join(dir, "CASE-MARKER"))
	return err == nil
}
