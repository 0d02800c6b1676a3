package scenario

import (
	"github.com/1cFE/1costingfe/pkg/analysis"
	"github.com/1cFE/1costingfe/pkg/plant"
)

// Scenario is a plant design study: one concept and fuel, the customer
// requirements, engineering overrides and the optional analyses to run.
type Scenario struct {
	Name         string             `yaml:"name,omitempty" json:"name,omitempty"`
	Concept      string             `yaml:"concept" json:"concept"`
	Fuel         string             `yaml:"fuel" json:"fuel"`
	Requirements plant.Requirements `yaml:"requirements" json:"requirements"`
	Overrides    map[string]float64 `yaml:"overrides,omitempty" json:"overrides,omitempty"`

	Sensitivity *SensitivityDef           `yaml:"sensitivity,omitempty" json:"sensitivity,omitempty"`
	Backcast    *analysis.BackcastRequest `yaml:"backcast,omitempty" json:"backcast,omitempty"`
	Sweep       *SweepDef                 `yaml:"sweep,omitempty" json:"sweep,omitempty"`
	Compare     *CompareDef               `yaml:"compare,omitempty" json:"compare,omitempty"`
}

// SensitivityDef selects the differentiation method and parameters.
type SensitivityDef struct {
	Method string   `yaml:"method,omitempty" json:"method,omitempty"`
	Step   float64  `yaml:"step,omitempty" json:"step,omitempty"`
	Params []string `yaml:"params,omitempty" json:"params,omitempty"`
}

// Options converts the definition for analysis.Sensitivity.
func (d *SensitivityDef) Options() analysis.SensitivityOptions {
	if d == nil {
		return analysis.SensitivityOptions{}
	}
	return analysis.SensitivityOptions{Method: analysis.Method(d.Method), Step: d.Step, Params: d.Params}
}

// SweepDef scans one parameter over Points evenly spaced values.
type SweepDef struct {
	Param  string  `yaml:"param" json:"param"`
	From   float64 `yaml:"from" json:"from"`
	To     float64 `yaml:"to" json:"to"`
	Points int     `yaml:"points" json:"points"`
}

// Values returns the sweep grid.
func (d SweepDef) Values() ([]float64, error) {
	return analysis.Linspace(d.From, d.To, d.Points)
}

// CompareDef lists the pairs to rank; empty means every pair.
type CompareDef struct {
	Pairs []PairDef `yaml:"pairs,omitempty" json:"pairs,omitempty"`
}

// PairDef is a concept and fuel by name.
type PairDef struct {
	Concept string `yaml:"concept" json:"concept"`
	Fuel    string `yaml:"fuel" json:"fuel"`
}

// Parse resolves the names to a plant.Pair.
func (p PairDef) Parse() (plant.Pair, error) {
	c, err := plant.ParseConcept(p.Concept)
	if err != nil {
		return plant.Pair{}, err
	}
	f, err := plant.ParseFuel(p.Fuel)
	if err != nil {
		return plant.Pair{}, err
	}
	return plant.Pair{Concept: c, Fuel: f}, nil
}

// Resolve parses every listed pair.
func (d *CompareDef) Resolve() ([]plant.Pair, error) {
	if d == nil {
		return nil, nil
	}
	out := make([]plant.Pair, 0, len(d.Pairs))
	for _, p := range d.Pairs {
		pair, err := p.Parse()
		if err != nil {
			return nil, err
		}
		out = append(out, pair)
	}
	return out, nil
}
