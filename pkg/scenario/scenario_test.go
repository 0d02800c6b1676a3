package scenario

import (
	"math"
	"testing"

	"github.com/1cFE/1costingfe/pkg/plant"
)

func TestLoadProject(t *testing.T) {
	s, err := LoadProject("testdata/tokamak")
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}

	if s.Name != "tokamak-dt-baseline" {
		t.Errorf("name = %q, want %q", s.Name, "tokamak-dt-baseline")
	}
	pair, err := s.Pair()
	if err != nil {
		t.Fatalf("Pair: %v", err)
	}
	if pair.Concept != plant.Tokamak || pair.Fuel != plant.DT {
		t.Errorf("pair = %s, want tokamak/DT", pair)
	}

	// Requirements
	if s.Requirements.NetElectricMW != 1000 {
		t.Errorf("net_electric_mw = %v, want 1000", s.Requirements.NetElectricMW)
	}
	if s.Requirements.LifetimeYr != 30 {
		t.Errorf("lifetime_yr = %v, want 30", s.Requirements.LifetimeYr)
	}
	if s.Requirements.Availability != 0.85 {
		t.Errorf("availability = %v, want default 0.85", s.Requirements.Availability)
	}
	if !s.Requirements.NOAK || s.Requirements.NMod != 1 {
		t.Errorf("unset customer fields should keep defaults: %+v", s.Requirements)
	}
	if s.Requirements.ConstantOverrides["turbine"] != 180 {
		t.Errorf("constant_overrides.turbine = %v, want 180", s.Requirements.ConstantOverrides["turbine"])
	}
	if s.Overrides["eta_th"] != 0.48 {
		t.Errorf("overrides.eta_th = %v, want 0.48", s.Overrides["eta_th"])
	}

	// Analyses
	if s.Backcast == nil || s.Backcast.Targets["lcoe"] != 70 || len(s.Backcast.Free) != 1 {
		t.Fatalf("backcast = %+v", s.Backcast)
	}
	if b := s.Backcast.Free[0]; b.Param != "eta_th" || b.Min != 0.30 || b.Max != 0.65 {
		t.Errorf("backcast free = %+v", b)
	}
	values, err := s.Sweep.Values()
	if err != nil {
		t.Fatalf("sweep values: %v", err)
	}
	if len(values) != 6 || values[0] != 0.70 || math.Abs(values[5]-0.95) > 1e-12 {
		t.Errorf("sweep values = %v", values)
	}
	if opts := s.Sensitivity.Options(); opts.Method != "central" {
		t.Errorf("sensitivity method = %q", opts.Method)
	}
	pairs, err := s.Compare.Resolve()
	if err != nil {
		t.Fatalf("compare pairs: %v", err)
	}
	if len(pairs) != 3 || pairs[2].Concept != plant.LaserIFE || pairs[2].Fuel != plant.DHe3 {
		t.Errorf("compare pairs = %v", pairs)
	}
}

func TestLoadPath(t *testing.T) {
	if _, err := LoadPath("testdata/tokamak"); err != nil {
		t.Errorf("directory: %v", err)
	}
	if _, err := LoadPath("testdata/tokamak/plant.yaml"); err != nil {
		t.Errorf("file: %v", err)
	}
}

func TestLoadProjectMissing(t *testing.T) {
	_, err := LoadProject("/nonexistent/path")
	if err == nil {
		t.Error("expected error for missing project directory")
	}
}

func TestParseMinimal(t *testing.T) {
	s, err := Parse([]byte("concept: mirror\nfuel: pB11\nrequirements:\n  net_electric_mw: 500\n"))
	if err != nil {
		t.Fatal(err)
	}
	pair, err := s.Pair()
	if err != nil {
		t.Fatal(err)
	}
	if pair.Fuel != plant.PB11 {
		t.Errorf("fuel = %q, want pb11", pair.Fuel)
	}
	if s.Backcast != nil || s.Sweep != nil || s.Compare != nil {
		t.Error("absent analyses should stay nil")
	}
	if opts := s.Sensitivity.Options(); opts.Method != "" {
		t.Error("nil sensitivity should give zero options")
	}
	pairs, err := s.Compare.Resolve()
	if err != nil || pairs != nil {
		t.Errorf("nil compare = %v, %v", pairs, err)
	}

	s.Fuel = "dli6"
	if _, err := s.Pair(); err == nil {
		t.Error("expected error for unknown fuel")
	}
	if _, err := Parse([]byte("concept: [")); err == nil {
		t.Error("expected YAML error")
	}
}
