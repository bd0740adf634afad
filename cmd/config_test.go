package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"romkit/infrastructure/config"
)

func TestRunConfigListWithDependencies(t *testing.T) {
	var out bytes.Buffer
	if err := RunConfigListWithDependencies(config.Default(), "", "tools", &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"TOOL", "7z", "unrar", "ffprobe"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}

	if err := RunConfigListWithDependencies(config.Default(), "", "ministers", &out); err == nil {
		t.Error("expected error for unknown entity type")
	}
}

func TestRunConfigSetWithDependencies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "romkit.yaml")
	var out bytes.Buffer

	if err := RunConfigSetWithDependencies(config.Default(), path, "tool", "7z", "/opt/7zz", &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loaded, err := config.Load(path)
	if err != nil {
		t.Fatalf("config should be saved: %v", err)
	}
	if loaded.Tools.SevenZip != "/opt/7zz" {
		t.Errorf("SevenZip = %q, want /opt/7zz", loaded.Tools.SevenZip)
	}

	err = RunConfigSetWithDependencies(config.Default(), path, "tool", "winrar", "/x", &out)
	if !errors.Is(err, config.ErrUnknownTool) {
		t.Errorf("error = %v, want ErrUnknownTool", err)
	}
}
