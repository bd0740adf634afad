package unpack

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"romkit/domain/archive"
)

type entry struct {
	name string
	body string
	link byte // tar.TypeSymlink or tar.TypeLink; body is the link target
}

func writeZip(t *testing.T, path string, entries ...entry) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			t.Fatalf("zip create %s: %v", e.name, err)
		}
		if _, err := io.WriteString(w, e.body); err != nil {
			t.Fatalf("zip write %s: %v", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func writeTarGz(t *testing.T, path string, entries ...entry) {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, e := range entries {
		if e.link != 0 {
			hdr := &tar.Header{Name: e.name, Mode: 0o777, Typeflag: e.link, Linkname: e.body}
			if err := tw.WriteHeader(hdr); err != nil {
				t.Fatalf("tar header %s: %v", e.name, err)
			}
			continue
		}
		hdr := &tar.Header{Name: e.name, Mode: 0o644, Size: int64(len(e.body)), Typeflag: tar.TypeReg}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("tar header %s: %v", e.name, err)
		}
		if _, err := io.WriteString(tw, e.body); err != nil {
			t.Fatalf("tar write %s: %v", e.name, err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

// collect walks a backend and returns file member contents keyed by name
func collect(t *testing.T, b archive.Backend, req *archive.Request) (map[string]string, []string, error) {
	t.Helper()
	files := make(map[string]string)
	var dirs []string
	err := b.Walk(context.Background(), req, func(ctx context.Context, m archive.Member) error {
		if m.IsDir {
			dirs = append(dirs, m.Name)
			return nil
		}
		rc, err := m.Open()
		if err != nil {
			return err
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return err
		}
		files[m.Name] = string(data)
		return nil
	})
	return files, dirs, err
}

func requestFor(path string, kind archive.Kind) *archive.Request {
	return &archive.Request{Path: path, Dir: filepath.Dir(path), Kind: kind}
}

// mockRunner implements command.Runner for testing
type mockRunner struct {
	installed map[string]bool
	runFunc   func(name string, args []string) error
	calls     [][]string
}

func (m *mockRunner) Run(ctx context.Context, name string, args ...string) error {
	m.calls = append(m.calls, append([]string{name}, args...))
	if m.runFunc != nil {
		return m.runFunc(name, args)
	}
	return nil
}

func (m *mockRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return nil, m.Run(ctx, name, args...)
}

func (m *mockRunner) LookPath(name string) (string, error) {
	if m.installed[name] {
		return "/usr/bin/" + name, nil
	}
	return "", os.ErrNotExist
}
