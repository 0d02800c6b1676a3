package analysis

import (
	"context"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/1cFE/1costingfe/pkg/costerr"
	"github.com/1cFE/1costingfe/pkg/model"
	"github.com/1cFE/1costingfe/pkg/validation"
)

// SweepPoint is one evaluation along a sweep. Err is set when the point
// failed validation or was infeasible.
type SweepPoint struct {
	Value float64 `json:"value"`
	LCOE  float64 `json:"lcoe"`
	PFus  float64 `json:"p_fus"`
	QEng  float64 `json:"q_eng"`
	Err   string  `json:"error,omitempty"`
}

// Summary describes the LCOE over the feasible points.
type Summary struct {
	Feasible int     `json:"feasible"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"std_dev"`
}

// SweepResult is a one-parameter scan.
type SweepResult struct {
	Param   string       `json:"param"`
	Points  []SweepPoint `json:"points"`
	Summary Summary      `json:"summary"`
}

// MaxSweepPoints bounds the number of points in one sweep.
const MaxSweepPoints = 10_000

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, costerr.Input("points", "a sweep needs at least 2 points, got %d", n)
	}
	if n > MaxSweepPoints {
		return nil, costerr.Input("points", "a sweep takes at most %d points, got %d", MaxSweepPoints, n)
	}
	return floats.Span(make([]float64, n), lo, hi), nil
}

// Sweep varies one parameter of a forward result over values, holding
// everything else fixed. Each point is range-checked the way Forward
// checks its inputs: customer values against the requirement rules,
// engineering values against the parameter rules. Failing points are kept
// with their error.
func Sweep(ctx context.Context, m *model.CostModel, res *model.ForwardResult, name string, values []float64, opts ...Option) (*SweepResult, error) {
	if !res.Params.Has(name) {
		return nil, costerr.Input(name, "not a parameter of this result")
	}
	if len(values) == 0 {
		return nil, costerr.Input("values", "nothing to sweep")
	}
	if len(values) > MaxSweepPoints {
		return nil, costerr.Input("values", "a sweep takes at most %d points, got %d", MaxSweepPoints, len(values))
	}
	cfg := newConfig(opts)
	required := m.RequiredParams()

	points := make([]SweepPoint, len(values))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)
	for i, v := range values {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			points[i] = sweepPoint(m, res, name, v, required)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &SweepResult{Param: name, Points: points, Summary: summarize(points)}
	cfg.log.Debug("sweep complete",
		zap.String("param", name),
		zap.Int("points", len(points)),
		zap.Int("feasible", out.Summary.Feasible),
	)
	return out, nil
}

func sweepPoint(m *model.CostModel, res *model.ForwardResult, name string, v float64, required []string) SweepPoint {
	pt := SweepPoint{Value: v}
	params := res.Params.With(name, v)
	report := validation.ValidateParams(params, required)
	if req, ok := res.Requirements.WithParam(name, v); ok {
		report.Merge(validation.ValidateRequirements(req))
	}
	if err := report.Err(); err != nil {
		pt.Err = err.Error()
		return pt
	}
	ev, err := m.EvaluateResult(res, params)
	if err != nil {
		pt.Err = err.Error()
		return pt
	}
	pt.LCOE, pt.PFus, pt.QEng = ev.Costs.LCOE, ev.Power.PFus, ev.Power.QEng
	return pt
}

func summarize(points []SweepPoint) Summary {
	var data stats.Float64Data
	for _, p := range points {
		if p.Err == "" {
			data = append(data, p.LCOE)
		}
	}
	s := Summary{Feasible: len(data)}
	if len(data) == 0 {
		return s
	}
	s.Min, _ = stats.Min(data)
	s.Max, _ = stats.Max(data)
	s.Mean, _ = stats.Mean(data)
	s.Median, _ = stats.Median(data)
	s.StdDev, _ = stats.StandardDeviation(data)
	return s
}
