// Command strata-section cuts sections through a synthetic delta run and
// writes the results out as PNG or HTML renders, database rows, or a JSON
// summary. It exists to exercise the section pipeline end to end without
// needing simulation output on hand.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/crevasse-data/strata.report/cube"
	"github.com/crevasse-data/strata.report/internal/monitoring"
	"github.com/crevasse-data/strata.report/internal/security"
	"github.com/crevasse-data/strata.report/internal/version"
	"github.com/crevasse-data/strata.report/render/echarts"
	"github.com/crevasse-data/strata.report/render/plotpng"
	"github.com/crevasse-data/strata.report/section"
	"github.com/crevasse-data/strata.report/store"
	"github.com/crevasse-data/strata.report/varset"
)

type runConfig struct {
	Seed  int64
	Steps int
	NY    int
	NX    int

	CubeKind string // "data" or "strat"
	BoxyDZ   float64

	SectionKind string // "strike" or "path"
	StrikeY     int
	PathSpec    string

	Variable string
	Display  string
	Draw     string
	VarSet   string

	OutDir    string
	WritePNG  bool
	WriteHTML bool
	DBPath    string
	List      bool

	Quiet       bool
	ShowVersion bool
}

// summary is the JSON document printed after a run.
type summary struct {
	Section   string    `json:"section"`
	Cube      string    `json:"cube"`
	Variable  string    `json:"variable"`
	Display   string    `json:"display"`
	TraceLen  int       `json:"trace_len"`
	SRange    []float64 `json:"s_range"`
	DataShape []int     `json:"data_shape"`
	Outputs   []string  `json:"outputs,omitempty"`
	StoredID  string    `json:"stored_id,omitempty"`
}

func main() {
	cfg := parseFlags(os.Args[1:])

	if cfg.ShowVersion {
		fmt.Println("strata-section", version.String())
		return
	}
	if cfg.Quiet {
		monitoring.SetLogger(nil)
	}

	if cfg.List {
		if cfg.DBPath == "" {
			log.Fatal("-list needs -db")
		}
		if err := listSections(cfg.DBPath); err != nil {
			log.Fatalf("list sections: %v", err)
		}
		return
	}

	if err := run(cfg); err != nil {
		log.Fatalf("strata-section: %v", err)
	}
}

func parseFlags(args []string) runConfig {
	var cfg runConfig
	fs := flag.NewFlagSet("strata-section", flag.ExitOnError)

	fs.Int64Var(&cfg.Seed, "seed", 42, "synthetic run seed")
	fs.IntVar(&cfg.Steps, "steps", 0, "synthetic run time steps (0 = stock)")
	fs.IntVar(&cfg.NY, "ny", 0, "synthetic basin y extent (0 = stock)")
	fs.IntVar(&cfg.NX, "nx", 0, "synthetic basin x extent (0 = stock)")

	fs.StringVar(&cfg.CubeKind, "cube", "data", "cube to cut: data or strat")
	fs.Float64Var(&cfg.BoxyDZ, "dz", 0.05, "elevation interval for the strat cube resampling")

	fs.StringVar(&cfg.SectionKind, "section", "strike", "section shape: strike or path")
	fs.IntVar(&cfg.StrikeY, "y", -1, "strike row (-1 = basin midline)")
	fs.StringVar(&cfg.PathSpec, "path", "", `path points as "x,y;x,y;..."`)

	fs.StringVar(&cfg.Variable, "var", "eta", "variable to slice")
	fs.StringVar(&cfg.Display, "display", "", "display style (default per cube kind)")
	fs.StringVar(&cfg.Draw, "draw", "shaded", "drawing style: shaded or lines")
	fs.StringVar(&cfg.VarSet, "varset", "", "JSON display-metadata overrides file")

	fs.StringVar(&cfg.OutDir, "out", ".", "output directory for renders")
	fs.BoolVar(&cfg.WritePNG, "png", false, "write a PNG render")
	fs.BoolVar(&cfg.WriteHTML, "html", false, "write an HTML render")
	fs.StringVar(&cfg.DBPath, "db", "", "SQLite database to persist the cut into")
	fs.BoolVar(&cfg.List, "list", false, "list sections stored in -db and exit")

	fs.BoolVar(&cfg.Quiet, "quiet", false, "suppress diagnostic logging")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "print version and exit")

	fs.Parse(args)
	return cfg
}

func run(cfg runConfig) error {
	vol, err := buildVolume(cfg)
	if err != nil {
		return err
	}
	sec, desc, err := buildSection(cfg, vol)
	if err != nil {
		return err
	}
	style, err := section.ParseDisplayStyle(cfg.Display)
	if err != nil {
		return err
	}

	v, err := sec.Slice(cfg.Variable)
	if err != nil {
		return err
	}
	nz, m := v.Dims()
	s, err := sec.S()
	if err != nil {
		return err
	}

	sum := summary{
		Section:   desc,
		Cube:      cfg.CubeKind,
		Variable:  cfg.Variable,
		Display:   resolveStyleName(v, style),
		TraceLen:  m,
		SRange:    []float64{s[0], s[len(s)-1]},
		DataShape: []int{nz, m},
	}

	if cfg.WritePNG || cfg.WriteHTML {
		if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
			return fmt.Errorf("output directory: %w", err)
		}
	}
	stem := security.SanitizeFilename(cfg.Variable + "_" + desc)
	if cfg.WritePNG {
		path, err := renderPNG(cfg, sec, style, stem)
		if err != nil {
			return err
		}
		sum.Outputs = append(sum.Outputs, path)
	}
	if cfg.WriteHTML {
		path, err := renderHTML(cfg, sec, style, stem)
		if err != nil {
			return err
		}
		sum.Outputs = append(sum.Outputs, path)
	}

	if cfg.DBPath != "" {
		id, err := persist(cfg, sec, desc)
		if err != nil {
			return err
		}
		sum.StoredID = id
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(sum)
}

func buildVolume(cfg runConfig) (section.Volume, error) {
	gen := cube.NewDeltaGenerator(cfg.Seed)
	if cfg.Steps > 0 {
		gen.TimeSteps = cfg.Steps
	}
	if cfg.NY > 0 {
		gen.Height = cfg.NY
	}
	if cfg.NX > 0 {
		gen.Width = cfg.NX
	}
	dc, err := gen.Build()
	if err != nil {
		return nil, fmt.Errorf("synthesize cube: %w", err)
	}
	if cfg.VarSet != "" {
		vs, err := varset.LoadFile(cfg.VarSet)
		if err != nil {
			return nil, err
		}
		dc.SetVarSet(vs)
	}
	switch cfg.CubeKind {
	case "data":
		return dc, nil
	case "strat":
		sc, err := cube.BoxyStratigraphy(dc, cfg.BoxyDZ)
		if err != nil {
			return nil, fmt.Errorf("resample stratigraphy: %w", err)
		}
		return sc, nil
	}
	return nil, fmt.Errorf("unknown -cube %q (want data or strat)", cfg.CubeKind)
}

func buildSection(cfg runConfig, vol section.Volume) (*section.Section, string, error) {
	_, ny, _ := vol.Dims()
	switch cfg.SectionKind {
	case "strike":
		y := cfg.StrikeY
		if y < 0 {
			y = ny / 2
		}
		sec, err := section.NewStrikeSection(y, vol)
		if err != nil {
			return nil, "", err
		}
		return sec, fmt.Sprintf("strike-y%d", y), nil
	case "path":
		pts, err := parsePath(cfg.PathSpec)
		if err != nil {
			return nil, "", err
		}
		sec, err := section.NewPathSection(pts, vol)
		if err != nil {
			return nil, "", err
		}
		return sec, fmt.Sprintf("path-%dpt", len(pts)), nil
	}
	return nil, "", fmt.Errorf("unknown -section %q (want strike or path)", cfg.SectionKind)
}

// parsePath reads "x,y;x,y;..." into points.
func parsePath(spec string) ([]section.Point, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, fmt.Errorf("-section path needs -path points")
	}
	var pts []section.Point
	for _, pair := range strings.Split(spec, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		xy := strings.Split(pair, ",")
		if len(xy) != 2 {
			return nil, fmt.Errorf("bad path point %q (want x,y)", pair)
		}
		x, err := strconv.Atoi(strings.TrimSpace(xy[0]))
		if err != nil {
			return nil, fmt.Errorf("bad path point %q: %w", pair, err)
		}
		y, err := strconv.Atoi(strings.TrimSpace(xy[1]))
		if err != nil {
			return nil, fmt.Errorf("bad path point %q: %w", pair, err)
		}
		pts = append(pts, section.Point{X: x, Y: y})
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("-path %q holds no points", spec)
	}
	return pts, nil
}

func resolveStyleName(v *section.SectionVariable, style section.DisplayStyle) string {
	if style == section.StyleDefault {
		return v.DefaultStyle().String()
	}
	return style.String()
}

func renderPNG(cfg runConfig, sec *section.Section, style section.DisplayStyle, stem string) (string, error) {
	path := filepath.Join(cfg.OutDir, stem+".png")
	if err := security.ValidatePathWithinDirectory(path, cfg.OutDir); err != nil {
		return "", err
	}
	canvas := plotpng.New(plotpng.Options{
		Title:  cfg.Variable,
		XLabel: "along section (cells)",
		YLabel: "elevation",
	})
	err := sec.Show(cfg.Variable, canvas, section.ShowOptions{
		Style:        cfg.Draw,
		DisplayStyle: style,
		AutoLabel:    true,
	})
	if err != nil {
		return "", err
	}
	if err := canvas.Save(path); err != nil {
		return "", err
	}
	monitoring.Logf("wrote %s", path)
	return path, nil
}

func renderHTML(cfg runConfig, sec *section.Section, style section.DisplayStyle, stem string) (string, error) {
	path := filepath.Join(cfg.OutDir, stem+".html")
	if err := security.ValidatePathWithinDirectory(path, cfg.OutDir); err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	switch strings.ToLower(cfg.Draw) {
	case "", "shade", "shaded":
		err = echarts.WriteShaded(f, sec, cfg.Variable, style, echarts.Options{})
	case "line", "lines":
		err = echarts.WriteLines(f, sec, cfg.Variable, style, echarts.Options{})
	default:
		err = fmt.Errorf("unknown -draw %q (want shaded or lines)", cfg.Draw)
	}
	if err != nil {
		return "", err
	}
	monitoring.Logf("wrote %s", path)
	return path, nil
}

func persist(cfg runConfig, sec *section.Section, desc string) (string, error) {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return "", err
	}
	defer st.Close()

	rec, err := store.NewRecord(desc, cfg.SectionKind, sec, cfg.Variable)
	if err != nil {
		return "", err
	}
	if err := st.Insert(rec); err != nil {
		return "", err
	}
	monitoring.Logf("stored section %s as %s", desc, rec.SectionID)
	return rec.SectionID, nil
}

func listSections(dbPath string) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	recs, err := st.List()
	if err != nil {
		return err
	}
	for _, r := range recs {
		fmt.Printf("%s  %-10s %-16s %-10s %d points\n", r.SectionID, r.Kind, r.Name, r.Variable, len(r.Trace))
	}
	return nil
}
