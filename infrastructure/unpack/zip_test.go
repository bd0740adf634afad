package unpack

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"romkit/domain/archive"
)

func TestZipBackend_Walk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "set.zip")
	writeZip(t, path,
		entry{name: "dir1/"},
		entry{name: "dir1/dir2/file.bin", body: "payload"},
		entry{name: "top.txt", body: "hello"},
	)

	files, dirs, err := collect(t, NewZipBackend(), requestFor(path, archive.KindZip))
	if err != nil {
		t.Fatalf("Walk() unexpected error: %v", err)
	}

	if got := files["dir1/dir2/file.bin"]; got != "payload" {
		t.Errorf("dir1/dir2/file.bin = %q, want payload", got)
	}
	if got := files["top.txt"]; got != "hello" {
		t.Errorf("top.txt = %q, want hello", got)
	}
	if len(dirs) == 0 {
		t.Errorf("expected the dir1/ entry to be reported as a directory")
	}
}

func TestZipBackend_CorruptArchive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.zip")
	if err := os.WriteFile(path, []byte("this is not a zip file at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := collect(t, NewZipBackend(), requestFor(path, archive.KindZip))
	if !errors.Is(err, archive.ErrCorruptArchive) {
		t.Errorf("Walk() error = %v, want ErrCorruptArchive", err)
	}
}

func TestZipBackend_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.zip")

	_, _, err := collect(t, NewZipBackend(), requestFor(path, archive.KindZip))
	if err == nil {
		t.Fatal("Walk() expected error, got nil")
	}
	if errors.Is(err, archive.ErrCorruptArchive) {
		t.Errorf("missing file reported as corrupt: %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Walk() error = %v, want not-exist", err)
	}
}

func TestZipBackend_NoIntegrityCheck(t *testing.T) {
	if NewZipBackend().SupportsIntegrityCheck() {
		t.Error("zip backend should not advertise an integrity check")
	}
}
