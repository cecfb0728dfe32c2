package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadLayersOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[grid]
enabled = true
step = 10

[patch]
rename_procedures = true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Grid.Enabled || cfg.Grid.Step != 10 {
		t.Errorf("grid = %+v", cfg.Grid)
	}
	if !cfg.Patch.RenameProcedures {
		t.Error("rename_procedures should be set")
	}
	// Sections missing from the file keep their defaults.
	if cfg.Sizes.MinWindowWidth != 30 || cfg.Sizes.MinGadgetWidth != 5 {
		t.Errorf("sizes = %+v", cfg.Sizes)
	}
}

func TestLoadRejectsNegativeValues(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "[grid]\nstep = -2\n")
	if _, err := Load(path); err == nil {
		t.Fatal("negative step should be rejected")
	}
}

func TestFindWalksParents(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[grid]\nenabled = true\n")
	nested := filepath.Join(root, "forms", "dialogs")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	path, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("Find = %q, %v, %v", path, ok, err)
	}
	if filepath.Dir(path) != root {
		t.Errorf("manifest found at %q, want it in %q", path, root)
	}
}

func TestDiscoverWithoutManifest(t *testing.T) {
	manifest, ok, err := Discover(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("no manifest expected")
	}
	if manifest.Config.Sizes.MinGadgetWidth != Default().Sizes.MinGadgetWidth {
		t.Error("defaults expected when no manifest exists")
	}
}

func TestSnap(t *testing.T) {
	cfg := Default()
	cfg.Grid.Enabled = true
	cfg.Grid.Step = 10

	tests := []struct {
		in   int
		want int
	}{
		{0, 0},
		{4, 0},
		{5, 10},
		{14, 10},
		{15, 20},
		{-4, 0},
		{-5, -10},
		{-14, -10},
	}
	for _, tt := range tests {
		if got := cfg.Snap(tt.in); got != tt.want {
			t.Errorf("Snap(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}

	off := Default()
	if off.Snap(7) != 7 {
		t.Error("snapping disabled by default")
	}
}

func TestClamp(t *testing.T) {
	cfg := Default()
	if w, h := cfg.ClampGadget(2, 100); w != 5 || h != 100 {
		t.Errorf("ClampGadget = %d, %d", w, h)
	}
	if w, h := cfg.ClampWindow(600, 10); w != 600 || h != 30 {
		t.Errorf("ClampWindow = %d, %d", w, h)
	}
}
