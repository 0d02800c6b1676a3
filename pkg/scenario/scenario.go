// Package scenario loads plant design studies from YAML.
package scenario

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/1cFE/1costingfe/pkg/plant"
)

// FileName is the scenario file looked up in a project directory.
const FileName = "plant.yaml"

// New returns a scenario for concept and fuel with the customer defaults.
func New(concept, fuel string, netElectricMW float64) *Scenario {
	return &Scenario{Concept: concept, Fuel: fuel, Requirements: plant.DefaultRequirements(netElectricMW)}
}

// Parse decodes a scenario. Requirements absent from data keep the
// customer defaults.
func Parse(data []byte) (*Scenario, error) {
	s := New("", "", 0)
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}
	return s, nil
}

// Load reads a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	return Parse(data)
}

// LoadProject loads a scenario from a project directory.
// It looks for plant.yaml in the given directory.
func LoadProject(projectDir string) (*Scenario, error) {
	return Load(filepath.Join(projectDir, FileName))
}

// LoadPath accepts either a scenario file or a project directory.
func LoadPath(path string) (*Scenario, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	if info.IsDir() {
		return LoadProject(path)
	}
	return Load(path)
}

// Pair resolves the scenario's concept and fuel.
func (s *Scenario) Pair() (plant.Pair, error) {
	return PairDef{Concept: s.Concept, Fuel: s.Fuel}.Parse()
}
