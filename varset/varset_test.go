package varset

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetKnown(t *testing.T) {
	vs := Default()

	info := vs.Get("velocity")
	if info.Cmap != "plasma" {
		t.Errorf("velocity cmap = %q, want plasma", info.Cmap)
	}
	if info.VMin == nil || *info.VMin != 0 {
		t.Errorf("velocity vmin = %v, want 0", info.VMin)
	}
	if info.Label == "" {
		t.Error("velocity label is empty")
	}
}

func TestGetFallback(t *testing.T) {
	vs := Default()

	info := vs.Get("porosity")
	if info.Label != "porosity" {
		t.Errorf("fallback label = %q, want the variable name", info.Label)
	}
	if info.Cmap != "viridis" {
		t.Errorf("fallback cmap = %q, want viridis", info.Cmap)
	}
	if info.VMin != nil || info.VMax != nil {
		t.Error("fallback carries fixed bounds")
	}
}

func TestSetReplaces(t *testing.T) {
	vs := Default()
	vs.Set("eta", VarInfo{Cmap: "gray", Label: "bed elevation"})

	if got := vs.Get("eta"); got.Cmap != "gray" || got.Label != "bed elevation" {
		t.Errorf("after Set, Get(eta) = %+v", got)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "varset.json")
	doc := `{
		"velocity": {"cmap": "magma", "vmax": 3.5, "label": "speed (m/s)"},
		"slurry":   {"cmap": "viridis", "label": "slurry load"}
	}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	vs, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	vel := vs.Get("velocity")
	if vel.Cmap != "magma" || vel.VMax == nil || *vel.VMax != 3.5 {
		t.Errorf("override not applied: %+v", vel)
	}
	if got := vs.Get("slurry"); got.Label != "slurry load" {
		t.Errorf("new entry not applied: %+v", got)
	}
	// untouched defaults survive
	if got := vs.Get("eta"); got.Cmap != "cividis" {
		t.Errorf("default eta clobbered: %+v", got)
	}
}

func TestLoadFileEmptyPath(t *testing.T) {
	vs, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile(\"\"): %v", err)
	}
	if vs.Get("eta").Cmap != "cividis" {
		t.Error("empty path did not return defaults")
	}
}

func TestLoadFileBadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected parse error, got nil")
	}
}

func TestNamesSorted(t *testing.T) {
	names := Default().Names()
	if len(names) == 0 {
		t.Fatal("no default names")
	}
	for i := 1; i < len(names); i++ {
		if names[i] < names[i-1] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
}
