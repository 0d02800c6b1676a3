// Package defaults supplies default engineering parameters keyed by
// confinement family, concept and fuel, and the customer defaults.
package defaults

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/1cFE/1costingfe/pkg/plant"
)

//go:embed defaults.yaml
var builtinYAML []byte

// Table holds the default layers. A loaded Table is never mutated; share
// it freely.
type Table struct {
	Customer plant.Requirements
	Families map[plant.Family]map[string]float64
	Concepts map[plant.Concept]map[string]float64
	Fuels    map[plant.Fuel]map[string]float64
}

// document is the YAML form of a Table. Customer is a pointer so a file
// without a customer block can be told apart from one with zeros.
type document struct {
	Customer *plant.Requirements                  `yaml:"customer"`
	Families map[plant.Family]map[string]float64  `yaml:"families"`
	Concepts map[plant.Concept]map[string]float64 `yaml:"concepts"`
	Fuels    map[plant.Fuel]map[string]float64    `yaml:"fuels"`
}

func parseDocument(data []byte) (*document, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing defaults YAML: %w", err)
	}
	return &doc, nil
}

var builtin = sync.OnceValues(func() (*Table, error) {
	return Parse(builtinYAML)
})

// Builtin returns the embedded default table.
func Builtin() *Table {
	t, err := builtin()
	if err != nil {
		panic(fmt.Sprintf("embedded defaults: %v", err))
	}
	return t
}

// Parse decodes a complete defaults document.
func Parse(data []byte) (*Table, error) {
	doc, err := parseDocument(data)
	if err != nil {
		return nil, err
	}
	t := &Table{Families: doc.Families, Concepts: doc.Concepts, Fuels: doc.Fuels}
	if doc.Customer != nil {
		t.Customer = *doc.Customer
	}
	return t, nil
}

// Load reads a defaults file and lays it over the built-in table. Entries
// the file does not mention keep their built-in values; the customer
// block, when present, replaces the built-in one.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading defaults file: %w", err)
	}
	file, err := parseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	base := Builtin()
	out := &Table{
		Customer: base.Customer,
		Families: mergeLayers(base.Families, file.Families),
		Concepts: mergeLayers(base.Concepts, file.Concepts),
		Fuels:    mergeLayers(base.Fuels, file.Fuels),
	}
	if file.Customer != nil {
		out.Customer = *file.Customer
	}
	return out, nil
}

func mergeLayers[K comparable](base, over map[K]map[string]float64) map[K]map[string]float64 {
	out := make(map[K]map[string]float64, len(base))
	for k, layer := range base {
		out[k] = copyLayer(layer)
	}
	for k, layer := range over {
		if out[k] == nil {
			out[k] = map[string]float64{}
		}
		for name, v := range layer {
			out[k][name] = v
		}
	}
	return out
}

func copyLayer(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Requirements returns the customer defaults with the given net electric
// target.
func (t *Table) Requirements(netElectricMW float64) plant.Requirements {
	r := t.Customer
	r.NetElectricMW = netElectricMW
	r.CostOverrides = nil
	r.ConstantOverrides = nil
	return r
}

// Resolve returns the default engineering parameters for a concept and
// fuel: family values, then concept values, then fuel values.
func (t *Table) Resolve(concept plant.Concept, fuel plant.Fuel) (plant.Params, error) {
	family, err := concept.Family()
	if err != nil {
		return plant.Params{}, err
	}
	if _, err := plant.ParseFuel(string(fuel)); err != nil {
		return plant.Params{}, err
	}
	base, ok := t.Families[family]
	if !ok {
		return plant.Params{}, fmt.Errorf("no defaults for family %q", family)
	}
	return plant.NewParams(base).Merge(t.Concepts[concept]).Merge(t.Fuels[fuel]), nil
}
