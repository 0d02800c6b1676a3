package plant

import (
	"fmt"
	"sort"
	"strings"

	"github.com/1cFE/1costingfe/pkg/costerr"
)

// Family is the top-level confinement architecture. It selects which
// power-balance equations apply.
type Family string

const (
	MFE Family = "mfe" // magnetic
	IFE Family = "ife" // inertial
	MIF Family = "mif" // magneto-inertial
)

// Concept is a specific reactor design within a family.
type Concept string

const (
	Tokamak     Concept = "tokamak"
	Stellarator Concept = "stellarator"
	Mirror      Concept = "mirror"
	LaserIFE    Concept = "laser_ife"
	HeavyIon    Concept = "heavy_ion"
	ZPinch      Concept = "zpinch"
	MagTarget   Concept = "mag_target"
	PlasmaJet   Concept = "plasma_jet"
)

// Fuel is the fusion fuel cycle.
type Fuel string

const (
	DT   Fuel = "dt"
	DD   Fuel = "dd"
	DHe3 Fuel = "dhe3"
	PB11 Fuel = "pb11"
)

// conceptFamily is never mutated after init.
var conceptFamily = map[Concept]Family{
	Tokamak:     MFE,
	Stellarator: MFE,
	Mirror:      MFE,
	LaserIFE:    IFE,
	HeavyIon:    IFE,
	ZPinch:      MIF,
	MagTarget:   MIF,
	PlasmaJet:   MIF,
}

var allFuels = []Fuel{DT, DD, DHe3, PB11}

// Family returns the confinement family of the concept.
func (c Concept) Family() (Family, error) {
	f, ok := conceptFamily[c]
	if !ok {
		return "", costerr.Input("concept", "unknown confinement concept %q", string(c))
	}
	return f, nil
}

// Concepts returns every known concept in a stable order.
func Concepts() []Concept {
	out := make([]Concept, 0, len(conceptFamily))
	for c := range conceptFamily {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ConceptsIn returns the concepts that belong to the family.
func ConceptsIn(f Family) []Concept {
	var out []Concept
	for _, c := range Concepts() {
		if conceptFamily[c] == f {
			out = append(out, c)
		}
	}
	return out
}

// Fuels returns every known fuel.
func Fuels() []Fuel {
	return append([]Fuel(nil), allFuels...)
}

// ParseConcept accepts a concept identifier such as "tokamak".
func ParseConcept(s string) (Concept, error) {
	c := Concept(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := conceptFamily[c]; !ok {
		return "", costerr.Input("concept", "unknown confinement concept %q", s)
	}
	return c, nil
}

// ParseFuel accepts a fuel identifier such as "dt" or "pB11".
func ParseFuel(s string) (Fuel, error) {
	f := Fuel(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range allFuels {
		if f == known {
			return f, nil
		}
	}
	return "", costerr.Input("fuel", "unknown fuel %q", s)
}

// Label is a display name such as "DHe3".
func (f Fuel) Label() string {
	switch f {
	case DT:
		return "DT"
	case DD:
		return "DD"
	case DHe3:
		return "DHe3"
	case PB11:
		return "pB11"
	}
	return string(f)
}

// Pair is one concept×fuel combination.
type Pair struct {
	Concept Concept `json:"concept" yaml:"concept"`
	Fuel    Fuel    `json:"fuel" yaml:"fuel"`
}

func (p Pair) String() string {
	return fmt.Sprintf("%s/%s", p.Concept, p.Fuel.Label())
}

// AllPairs returns every concept×fuel combination.
func AllPairs() []Pair {
	var out []Pair
	for _, c := range Concepts() {
		for _, f := range allFuels {
			out = append(out, Pair{Concept: c, Fuel: f})
		}
	}
	return out
}
