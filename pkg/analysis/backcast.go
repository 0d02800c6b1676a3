package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/1cFE/1costingfe/pkg/costerr"
	"github.com/1cFE/1costingfe/pkg/model"
)

// Outputs the backcast can target, in Jacobian row order.
const (
	OutputLCOE           = "lcoe"
	OutputTotalCapital   = "total_capital"
	OutputOvernightPerKW = "overnight_per_kw"
	OutputPFus           = "p_fus"
	OutputRecFrac        = "rec_frac"
)

var outputNames = []string{OutputLCOE, OutputTotalCapital, OutputOvernightPerKW, OutputPFus, OutputRecFrac}

func outputsOf(ev model.Evaluation, dst []float64) {
	dst[0] = ev.Costs.LCOE
	dst[1] = ev.Costs.TotalCapital
	dst[2] = ev.Costs.OvernightPerKW
	dst[3] = ev.Power.PFus
	dst[4] = ev.Power.RecFrac
}

// Bound declares a free parameter and the range it may physically take.
type Bound struct {
	Param string  `json:"param" yaml:"param"`
	Min   float64 `json:"min" yaml:"min"`
	Max   float64 `json:"max" yaml:"max"`
}

// BackcastRequest asks which values of the free parameters reach the
// targets while every other parameter stays fixed.
type BackcastRequest struct {
	Targets map[string]float64 `json:"targets" yaml:"targets"`
	Free    []Bound            `json:"free" yaml:"free"`
	// MaxIter caps re-linearizations; 0 means 8.
	MaxIter int `json:"max_iter,omitempty" yaml:"max_iter,omitempty"`
	// Tol is the relative target tolerance; 0 means 1e-6.
	Tol float64 `json:"tol,omitempty" yaml:"tol,omitempty"`
}

// Violation reports a required value outside its declared bound.
type Violation struct {
	Param    string  `json:"param"`
	Required float64 `json:"required"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s requires %.4g, outside [%.4g, %.4g]", v.Param, v.Required, v.Min, v.Max)
}

// BackcastResult is the solved design. Values are reported even when the
// solution is infeasible so the caller can see how far out of range the
// targets sit.
type BackcastResult struct {
	Feasible   bool               `json:"feasible"`
	Converged  bool               `json:"converged"`
	Values     map[string]float64 `json:"values"`
	Outputs    map[string]float64 `json:"outputs"`
	Violations []Violation        `json:"violations,omitempty"`
	Iterations int                `json:"iterations"`
	Message    string             `json:"message,omitempty"`
}

// Backcast solves for the free parameters that reach the requested output
// targets. Each iteration differentiates all outputs with respect to the
// free parameters in relative coordinates, then takes the minimum-norm
// step J⁺·Δy over the targeted rows. The unconstrained solution is then
// checked against each bound.
func Backcast(m *model.CostModel, res *model.ForwardResult, req BackcastRequest) (*BackcastResult, error) {
	rows, targets, err := targetRows(req.Targets)
	if err != nil {
		return nil, err
	}
	if len(req.Free) == 0 {
		return nil, costerr.Input("free", "at least one free parameter is required")
	}
	if len(rows) > len(req.Free) {
		return nil, costerr.Input("targets", "%d targets need at least as many free parameters, got %d", len(rows), len(req.Free))
	}
	maxIter := req.MaxIter
	if maxIter <= 0 {
		maxIter = 8
	}
	tol := req.Tol
	if tol <= 0 {
		tol = 1e-6
	}

	names := make([]string, len(req.Free))
	scale := make([]float64, len(req.Free))
	for i, b := range req.Free {
		if b.Min > b.Max {
			return nil, costerr.Input(b.Param, "bound min %g exceeds max %g", b.Min, b.Max)
		}
		v, ok := res.Params.Get(b.Param)
		if !ok {
			return nil, costerr.Input(b.Param, "not a parameter of this result")
		}
		names[i] = b.Param
		scale[i] = v
		if v == 0 {
			scale[i] = 1
		}
	}

	var evalErr error
	outputs := func(y, x []float64) {
		ev, err := m.EvaluateResult(res, perturbed(res.Params, names, x, scale))
		if err != nil {
			if evalErr == nil {
				evalErr = err
			}
			for i := range y {
				y[i] = math.NaN()
			}
			return
		}
		outputsOf(ev, y)
	}

	x := make([]float64, len(names))
	for i := range x {
		x[i] = res.Params.Value(names[i]) / scale[i]
	}
	y := make([]float64, len(outputNames))
	out := &BackcastResult{}

	residual := make([]float64, len(rows))
	jac := mat.NewDense(len(outputNames), len(names), nil)
	for out.Iterations = 0; ; out.Iterations++ {
		outputs(y, x)
		if evalErr != nil {
			out.Message = fmt.Sprintf("evaluation failed: %v", evalErr)
			break
		}
		worst := 0.0
		for k, row := range rows {
			residual[k] = targets[k] - y[row]
			worst = math.Max(worst, math.Abs(residual[k])/math.Max(math.Abs(targets[k]), 1e-12))
		}
		if worst <= tol {
			out.Converged = true
			break
		}
		if out.Iterations == maxIter {
			out.Message = fmt.Sprintf("no convergence after %d iterations (relative residual %.3g)", maxIter, worst)
			break
		}

		fd.Jacobian(jac, outputs, x, &fd.JacobianSettings{
			Formula:     fd.Central,
			Step:        centralStep,
			OriginValue: append([]float64(nil), y...),
		})
		if evalErr != nil {
			out.Message = fmt.Sprintf("evaluation failed: %v", evalErr)
			break
		}
		step, err := minNormStep(jac, rows, residual)
		if err != nil {
			out.Message = err.Error()
			break
		}
		floats.Add(x, step)
	}

	out.Values = make(map[string]float64, len(names))
	for i, name := range names {
		out.Values[name] = x[i] * scale[i]
	}
	out.Outputs = make(map[string]float64, len(outputNames))
	if evalErr == nil {
		for i, name := range outputNames {
			out.Outputs[name] = y[i]
		}
	}
	for _, b := range req.Free {
		if v := out.Values[b.Param]; v < b.Min || v > b.Max {
			out.Violations = append(out.Violations, Violation{Param: b.Param, Required: v, Min: b.Min, Max: b.Max})
		}
	}
	out.Feasible = out.Converged && len(out.Violations) == 0
	if out.Message == "" && len(out.Violations) > 0 {
		out.Message = out.Violations[0].String()
	}
	return out, nil
}

// BackcastSingle solves for one parameter that reaches a target LCOE.
func BackcastSingle(m *model.CostModel, res *model.ForwardResult, targetLCOE float64, free Bound) (*BackcastResult, error) {
	return Backcast(m, res, BackcastRequest{
		Targets: map[string]float64{OutputLCOE: targetLCOE},
		Free:    []Bound{free},
	})
}

func targetRows(targets map[string]float64) ([]int, []float64, error) {
	if len(targets) == 0 {
		return nil, nil, costerr.Input("targets", "at least one target is required")
	}
	keys := make([]string, 0, len(targets))
	for k := range targets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var rows []int
	var values []float64
	for _, k := range keys {
		row := -1
		for i, name := range outputNames {
			if name == k {
				row = i
			}
		}
		if row < 0 {
			return nil, nil, costerr.Input("targets", "unknown output %q (want one of %v)", k, outputNames)
		}
		v := targets[k]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, nil, costerr.Input(k, "target must be finite")
		}
		rows = append(rows, row)
		values = append(values, v)
	}
	return rows, values, nil
}

// minNormStep returns Jᵀ(JJᵀ)⁻¹r for the selected rows of jac.
func minNormStep(jac *mat.Dense, rows []int, r []float64) ([]float64, error) {
	_, n := jac.Dims()
	j := mat.NewDense(len(rows), n, nil)
	for k, row := range rows {
		j.SetRow(k, jac.RawRowView(row))
	}
	var jjt, inv mat.Dense
	jjt.Mul(j, j.T())
	if err := inv.Inverse(&jjt); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return nil, costerr.Infeasible("targets do not depend on the free parameters: %v", err)
		}
	}
	var w, dx mat.VecDense
	w.MulVec(&inv, mat.NewVecDense(len(r), append([]float64(nil), r...)))
	dx.MulVec(j.T(), &w)
	return dx.RawVector().Data, nil
}
