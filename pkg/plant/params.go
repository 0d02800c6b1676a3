package plant

import (
	"encoding/json"
	"sort"
)

// Params is an immutable mapping from parameter name to value. It holds
// every continuous input of one evaluation: customer values, engineering
// values and fuel burn fractions. Methods that change it return a copy.
type Params struct {
	values map[string]float64
}

// NewParams copies m into a new mapping.
func NewParams(m map[string]float64) Params {
	values := make(map[string]float64, len(m))
	for k, v := range m {
		values[k] = v
	}
	return Params{values: values}
}

// Get returns the value of name and whether it is present.
func (p Params) Get(name string) (float64, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Value returns the value of name, or 0 if it is absent.
func (p Params) Value(name string) float64 {
	return p.values[name]
}

// Has reports whether name is present.
func (p Params) Has(name string) bool {
	_, ok := p.values[name]
	return ok
}

// Len is the number of parameters.
func (p Params) Len() int { return len(p.values) }

// With returns a copy with name set to v.
func (p Params) With(name string, v float64) Params {
	out := NewParams(p.values)
	out.values[name] = v
	return out
}

// Merge returns a copy with every entry of overrides applied on top.
func (p Params) Merge(overrides map[string]float64) Params {
	out := NewParams(p.values)
	for k, v := range overrides {
		out.values[k] = v
	}
	return out
}

// Without returns a copy with name removed.
func (p Params) Without(name string) Params {
	out := NewParams(p.values)
	delete(out.values, name)
	return out
}

// Names returns the parameter names in sorted order.
func (p Params) Names() []string {
	names := make([]string, 0, len(p.values))
	for k := range p.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Map returns a copy of the underlying values.
func (p Params) Map() map[string]float64 {
	out := make(map[string]float64, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes Params as a plain object.
func (p Params) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Map())
}

// UnmarshalJSON decodes a plain object into Params.
func (p *Params) UnmarshalJSON(data []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*p = NewParams(m)
	return nil
}

// MarshalYAML encodes Params as a plain mapping.
func (p Params) MarshalYAML() (any, error) { return p.Map(), nil }
