package unpack

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"romkit/domain/archive"
)

func TestRarBackend_Capabilities(t *testing.T) {
	b := NewRarBackend()
	if !b.SupportsIntegrityCheck() {
		t.Error("rar backend should advertise an integrity check")
	}
	if b.Name() != "rar" {
		t.Errorf("Name() = %q, want rar", b.Name())
	}
}

func TestRarBackend_GarbageIsCorrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.rar")
	if err := os.WriteFile(path, []byte("definitely not a rar archive"), 0o644); err != nil {
		t.Fatal(err)
	}
	req := requestFor(path, archive.KindRarFirst)

	if err := NewRarBackend().Test(context.Background(), req); !errors.Is(err, archive.ErrCorruptArchive) {
		t.Errorf("Test() error = %v, want ErrCorruptArchive", err)
	}
	if _, _, err := collect(t, NewRarBackend(), req); !errors.Is(err, archive.ErrCorruptArchive) {
		t.Errorf("Walk() error = %v, want ErrCorruptArchive", err)
	}
}

func TestRarBackend_MissingFile(t *testing.T) {
	req := requestFor(filepath.Join(t.TempDir(), "absent.rar"), archive.KindRarFirst)

	_, _, err := collect(t, NewRarBackend(), req)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Walk() error = %v, want not-exist", err)
	}
}

func TestCheckSignature(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content []byte
		wantErr bool
	}{
		{"rar4 header", append([]byte("Rar!\x1a\x07\x00"), 0xcf, 0x90), false},
		{"rar5 header", []byte("Rar!\x1a\x07\x01\x00"), false},
		{"self-extractor stub", append(bytes.Repeat([]byte("MZ"), 4096), []byte("Rar!\x1a\x07\x00")...), false},
		{"empty", nil, true},
		{"text", []byte("definitely not a rar archive"), true},
		{"no R byte at all", bytes.Repeat([]byte{0}, 70000), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".rar")
			if err := os.WriteFile(path, tt.content, 0o644); err != nil {
				t.Fatal(err)
			}
			err := checkSignature(path)
			if tt.wantErr && !errors.Is(err, archive.ErrCorruptArchive) {
				t.Errorf("checkSignature() error = %v, want ErrCorruptArchive", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("checkSignature() unexpected error: %v", err)
			}
		})
	}
}

func TestCheckVolumes(t *testing.T) {
	header := []byte("Rar!\x1a\x07\x00")

	t.Run("garbage continuation volume", func(t *testing.T) {
		dir := t.TempDir()
		writeBytes(t, filepath.Join(dir, "game.part1.rar"), header)
		writeBytes(t, filepath.Join(dir, "game.part2.rar"), []byte("junk"))

		err := checkVolumes(requestFor(filepath.Join(dir, "game.part1.rar"), archive.KindRarFirst))
		if !errors.Is(err, archive.ErrCorruptArchive) || !strings.Contains(err.Error(), "game.part2.rar") {
			t.Errorf("checkVolumes() error = %v, want ErrCorruptArchive naming game.part2.rar", err)
		}
	})

	t.Run("demoted bare rar is not checked", func(t *testing.T) {
		dir := t.TempDir()
		writeBytes(t, filepath.Join(dir, "game.rar"), []byte("junk"))
		writeBytes(t, filepath.Join(dir, "game.part1.rar"), header)
		writeBytes(t, filepath.Join(dir, "game.part2.rar"), header)

		if err := checkVolumes(requestFor(filepath.Join(dir, "game.part1.rar"), archive.KindRarFirst)); err != nil {
			t.Errorf("checkVolumes() unexpected error: %v", err)
		}
	})

	t.Run("old style volumes", func(t *testing.T) {
		dir := t.TempDir()
		writeBytes(t, filepath.Join(dir, "game.rar"), header)
		writeBytes(t, filepath.Join(dir, "game.r00"), nil)

		if err := checkVolumes(requestFor(filepath.Join(dir, "game.rar"), archive.KindRarFirst)); !errors.Is(err, archive.ErrCorruptArchive) {
			t.Errorf("checkVolumes() error = %v, want ErrCorruptArchive", err)
		}
	})
}

func writeBytes(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}
