package rename

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"romkit/infrastructure/console"
	"romkit/infrastructure/filesystem"
)

func setup(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(f), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func listNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

func newService() *Service {
	return NewService(filesystem.NewChecker(), console.New(&bytes.Buffer{}, true))
}

func TestService_Rename(t *testing.T) {
	root := setup(t,
		"Super Mario Bros. (USA) [!].nes",
		"Clean.nes",
		"sub/Zelda (Europe) (En,Fr,De).sfc",
		".hidden (USA)",
	)

	result, err := newService().Rename(context.Background(), Input{Root: root, MaxLength: 42})
	if err != nil {
		t.Fatalf("Rename() unexpected error: %v", err)
	}

	want := []string{".hidden (USA)", "Clean.nes", "Super Mario Bros.nes"}
	if got := listNames(t, root); !equal(got, want) {
		t.Errorf("root files = %v, want %v", got, want)
	}
	if got := listNames(t, filepath.Join(root, "sub")); !equal(got, []string{"Zelda.sfc"}) {
		t.Errorf("sub files = %v, want [Zelda.sfc]", got)
	}
	if result.Renamed != 2 || result.Scanned != 3 || result.Errors != 0 {
		t.Errorf("result = %+v", result)
	}
}

func TestService_Rename_Collisions(t *testing.T) {
	root := setup(t, "Game (USA).gb", "Game (Japan).gb")

	result, err := newService().Rename(context.Background(), Input{Root: root, MaxLength: 42})
	if err != nil {
		t.Fatalf("Rename() unexpected error: %v", err)
	}

	want := []string{"Game.gb", "Game_1.gb"}
	if got := listNames(t, root); !equal(got, want) {
		t.Errorf("files = %v, want %v", got, want)
	}
	if result.Renamed != 2 {
		t.Errorf("Renamed = %d, want 2", result.Renamed)
	}
}

func TestService_Rename_DryRun(t *testing.T) {
	root := setup(t, "Game (USA).gb", "Game (Japan).gb")
	var out bytes.Buffer
	svc := NewService(filesystem.NewChecker(), console.New(&out, true))

	result, err := svc.Rename(context.Background(), Input{Root: root, MaxLength: 42, DryRun: true})
	if err != nil {
		t.Fatalf("Rename() unexpected error: %v", err)
	}

	want := []string{"Game (Japan).gb", "Game (USA).gb"}
	if got := listNames(t, root); !equal(got, want) {
		t.Errorf("dry run changed files: %v", got)
	}
	if result.Renamed != 2 {
		t.Errorf("Renamed = %d, want 2", result.Renamed)
	}
	if !bytes.Contains(out.Bytes(), []byte("Game_1.gb")) {
		t.Errorf("dry run should plan distinct names, output:\n%s", out.String())
	}
}

func TestService_Rename_LengthLimit(t *testing.T) {
	root := setup(t, "An Extremely Long Title That Keeps Going.iso")

	if _, err := newService().Rename(context.Background(), Input{Root: root, MaxLength: 20}); err != nil {
		t.Fatalf("Rename() unexpected error: %v", err)
	}

	names := listNames(t, root)
	if len(names) != 1 || len(names[0]) > 20 {
		t.Errorf("files = %v, want one name within 20 characters", names)
	}
}

func TestService_Rename_MissingRoot(t *testing.T) {
	_, err := newService().Rename(context.Background(), Input{Root: filepath.Join(t.TempDir(), "nope")})
	if !errors.Is(err, filesystem.ErrPathNotFound) {
		t.Errorf("Rename() error = %v, want ErrPathNotFound", err)
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
