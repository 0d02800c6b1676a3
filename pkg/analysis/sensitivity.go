package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/diff/fd"

	"github.com/1cFE/1costingfe/pkg/costerr"
	"github.com/1cFE/1costingfe/pkg/model"
)

// Method selects the finite-difference formula.
type Method string

const (
	// MethodCentral differentiates with a small central step. It is the
	// accurate default.
	MethodCentral Method = "central"
	// MethodForward uses a forward step of 1% of each parameter's value.
	MethodForward Method = "forward"
)

const (
	centralStep = 1e-5
	forwardStep = 0.01
)

// SensitivityOptions controls Sensitivity. The zero value uses central
// differences over every non-zero parameter.
type SensitivityOptions struct {
	Method Method
	// Step is the relative step; 0 selects the method's default.
	Step float64
	// Params restricts the analysis to these names.
	Params []string
}

// Entry is the sensitivity of LCOE to one parameter.
type Entry struct {
	Param      string  `json:"param"`
	Value      float64 `json:"value"`
	Derivative float64 `json:"derivative"` // $/MWh per unit of the parameter
	Elasticity float64 `json:"elasticity"` // dimensionless
}

// SensitivityResult lists entries by decreasing absolute elasticity.
type SensitivityResult struct {
	LCOE    float64  `json:"lcoe"`
	Method  Method   `json:"method"`
	Step    float64  `json:"step"`
	Entries []Entry  `json:"entries"`
	Skipped []string `json:"skipped,omitempty"` // parameters at exactly zero
}

// Get returns the entry for name.
func (r *SensitivityResult) Get(name string) (Entry, bool) {
	for _, e := range r.Entries {
		if e.Param == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Sensitivity differentiates LCOE with respect to every continuous
// parameter of a forward result. Parameters are scaled to 1 so one
// relative step suits values of any magnitude; a parameter at exactly zero
// has no scale and is skipped.
func Sensitivity(m *model.CostModel, res *model.ForwardResult, opts SensitivityOptions) (*SensitivityResult, error) {
	method := opts.Method
	if method == "" {
		method = MethodCentral
	}
	settings := &fd.Settings{OriginKnown: true, OriginValue: res.Costs.LCOE}
	switch method {
	case MethodCentral:
		settings.Formula, settings.Step = fd.Central, centralStep
	case MethodForward:
		settings.Formula, settings.Step = fd.Forward, forwardStep
	default:
		return nil, costerr.Input("method", "unknown sensitivity method %q", method)
	}
	if opts.Step > 0 {
		settings.Step = opts.Step
	}

	candidates := opts.Params
	if len(candidates) == 0 {
		candidates = res.Params.Names()
	}
	out := &SensitivityResult{LCOE: res.Costs.LCOE, Method: method, Step: settings.Step}
	var names []string
	var scale []float64
	for _, name := range candidates {
		v, ok := res.Params.Get(name)
		if !ok {
			return nil, costerr.Input(name, "not a parameter of this result")
		}
		if v == 0 {
			out.Skipped = append(out.Skipped, name)
			continue
		}
		names = append(names, name)
		scale = append(scale, v)
	}
	if len(names) == 0 {
		return out, nil
	}

	var evalErr error
	lcoe := func(x []float64) float64 {
		ev, err := m.EvaluateResult(res, perturbed(res.Params, names, x, scale))
		if err != nil {
			if evalErr == nil {
				evalErr = err
			}
			return math.NaN()
		}
		return ev.Costs.LCOE
	}
	x := make([]float64, len(names))
	for i := range x {
		x[i] = 1
	}
	grad := fd.Gradient(nil, lcoe, x, settings)
	if evalErr != nil {
		return nil, fmt.Errorf("evaluating perturbed design: %w", evalErr)
	}

	out.Entries = make([]Entry, len(names))
	for i, name := range names {
		out.Entries[i] = Entry{
			Param:      name,
			Value:      scale[i],
			Derivative: grad[i] / scale[i],
			Elasticity: grad[i] / res.Costs.LCOE,
		}
	}
	sort.SliceStable(out.Entries, func(i, j int) bool {
		return math.Abs(out.Entries[i].Elasticity) > math.Abs(out.Entries[j].Elasticity)
	})
	return out, nil
}
