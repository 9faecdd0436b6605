// Package varset maps variable names to display metadata: colormap name,
// optional fixed color bounds and an axis label. A VarSet seeds itself with
// defaults for the common simulation outputs and accepts overrides loaded
// from a JSON file.
package varset

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// VarInfo describes how one variable should be colored and labelled.
// Nil bounds mean the renderer scales to the data.
type VarInfo struct {
	Cmap  string   `json:"cmap,omitempty"`
	VMin  *float64 `json:"vmin,omitempty"`
	VMax  *float64 `json:"vmax,omitempty"`
	Label string   `json:"label,omitempty"`
}

// VarSet is a registry of VarInfo keyed by variable name. Lookups of
// unregistered names fall back to a neutral entry labelled with the name
// itself, so callers never need to guard.
type VarSet struct {
	infos map[string]VarInfo
}

func f64(v float64) *float64 { return &v }

// Default returns a registry seeded for the usual simulation outputs.
func Default() *VarSet {
	return &VarSet{infos: map[string]VarInfo{
		"eta":       {Cmap: "cividis", Label: "elevation (m)"},
		"stage":     {Cmap: "viridis", Label: "stage (m)"},
		"depth":     {Cmap: "blues", VMin: f64(0), Label: "flow depth (m)"},
		"discharge": {Cmap: "winter", Label: "discharge (m3/s)"},
		"velocity":  {Cmap: "plasma", VMin: f64(0), Label: "flow velocity (m/s)"},
		"sandfrac":  {Cmap: "redbrown", VMin: f64(0), VMax: f64(1), Label: "sand fraction (-)"},
		"time":      {Cmap: "viridis", Label: "time (s)"},
	}}
}

// Get returns the entry for name, or the neutral fallback.
func (vs *VarSet) Get(name string) VarInfo {
	if info, ok := vs.infos[name]; ok {
		return info
	}
	return VarInfo{Cmap: "viridis", Label: name}
}

// Set registers or replaces the entry for name.
func (vs *VarSet) Set(name string, info VarInfo) {
	if vs.infos == nil {
		vs.infos = make(map[string]VarInfo)
	}
	vs.infos[name] = info
}

// Names lists the registered variable names, sorted.
func (vs *VarSet) Names() []string {
	names := make([]string, 0, len(vs.infos))
	for n := range vs.infos {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LoadFile returns the default registry with entries replaced by those in
// the JSON file at path, a flat object of name to VarInfo. An empty path
// returns the defaults unchanged.
func LoadFile(path string) (*VarSet, error) {
	vs := Default()
	if path == "" {
		return vs, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read varset file: %w", err)
	}
	var overrides map[string]VarInfo
	if err := json.Unmarshal(raw, &overrides); err != nil {
		return nil, fmt.Errorf("parse varset file %s: %w", path, err)
	}
	for name, info := range overrides {
		vs.Set(name, info)
	}
	return vs, nil
}
