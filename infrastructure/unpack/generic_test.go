package unpack

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"romkit/domain/archive"
)

func TestGenericBackend_TarGz(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bundle.tar.gz")
	writeTarGz(t, path,
		entry{name: "roms/a.bin", body: "aaa"},
		entry{name: "b.bin", body: "bb"},
	)

	files, _, err := collect(t, NewGenericBackend(), requestFor(path, archive.KindCompressed))
	if err != nil {
		t.Fatalf("Walk() unexpected error: %v", err)
	}
	if files["roms/a.bin"] != "aaa" || files["b.bin"] != "bb" {
		t.Errorf("Walk() files = %v", files)
	}
}

func TestGenericBackend_SkipsLinks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "links.tar.gz")
	writeTarGz(t, path,
		entry{name: "d1/game.bin", body: "rom"},
		entry{name: "d1/soft", body: "game.bin", link: tar.TypeSymlink},
		entry{name: "d1/hard", body: "d1/game.bin", link: tar.TypeLink},
	)

	files, _, err := collect(t, NewGenericBackend(), requestFor(path, archive.KindCompressed))
	if err != nil {
		t.Fatalf("Walk() unexpected error: %v", err)
	}
	if len(files) != 1 || files["d1/game.bin"] != "rom" {
		t.Errorf("Walk() files = %v, want only d1/game.bin", files)
	}
}

func TestGenericBackend_SingleGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.bin.gz")

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte("raw rom data")); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	files, _, err := collect(t, NewGenericBackend(), requestFor(path, archive.KindCompressed))
	if err != nil {
		t.Fatalf("Walk() unexpected error: %v", err)
	}
	if got := files["game.bin"]; got != "raw rom data" {
		t.Errorf("game.bin = %q, want raw rom data (files: %v)", got, files)
	}
}

func TestGenericBackend_UnrecognizedContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fake.7z")
	if err := os.WriteFile(path, []byte("plain text pretending to be 7z"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := collect(t, NewGenericBackend(), requestFor(path, archive.KindSevenZip))
	if err == nil {
		t.Fatal("Walk() expected error, got nil")
	}
	if !errors.Is(err, archive.ErrUnsupportedFormat) && !errors.Is(err, archive.ErrCorruptArchive) {
		t.Errorf("Walk() error = %v, want unsupported or corrupt", err)
	}
}
