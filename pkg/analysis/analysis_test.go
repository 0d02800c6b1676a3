package analysis

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1cFE/1costingfe/pkg/cost"
	"github.com/1cFE/1costingfe/pkg/costerr"
	"github.com/1cFE/1costingfe/pkg/model"
	"github.com/1cFE/1costingfe/pkg/physics"
	"github.com/1cFE/1costingfe/pkg/plant"
)

func forward(t *testing.T, concept plant.Concept, fuel plant.Fuel, overrides map[string]float64) (*model.CostModel, *model.ForwardResult) {
	t.Helper()
	m, err := model.New(concept, fuel)
	require.NoError(t, err)
	res, err := m.Forward(plant.DefaultRequirements(1000), overrides)
	require.NoError(t, err)
	return m, res
}

func TestSensitivityTokamak(t *testing.T) {
	m, res := forward(t, plant.Tokamak, plant.DT, nil)

	s, err := Sensitivity(m, res, SensitivityOptions{})
	require.NoError(t, err)
	assert.Equal(t, MethodCentral, s.Method)
	assert.InDelta(t, res.Costs.LCOE, s.LCOE, 1e-12)

	eta, ok := s.Get(physics.ParamEtaTh)
	require.True(t, ok, "eta_th missing from sensitivities")
	assert.Less(t, eta.Derivative, 0.0, "higher efficiency must lower LCOE")
	assert.NotZero(t, eta.Elasticity)

	avail, ok := s.Get(plant.ParamAvailability)
	require.True(t, ok)
	assert.Less(t, avail.Elasticity, 0.0)

	assert.Contains(t, s.Skipped, physics.ParamFDec, "zero-valued f_dec has no relative scale")
	for i := 1; i < len(s.Entries); i++ {
		assert.GreaterOrEqual(t, math.Abs(s.Entries[i-1].Elasticity), math.Abs(s.Entries[i].Elasticity))
	}
}

func TestSensitivityInertialParams(t *testing.T) {
	m, res := forward(t, plant.LaserIFE, plant.DT, nil)

	s, err := Sensitivity(m, res, SensitivityOptions{})
	require.NoError(t, err)
	_, ok := s.Get(physics.ParamEtaPin1)
	assert.True(t, ok, "IFE sensitivities must include driver efficiency")
	_, ok = s.Get(physics.ParamPInput)
	assert.False(t, ok, "IFE has no auxiliary heating parameter")
}

func TestSensitivityStepAgreement(t *testing.T) {
	m, res := forward(t, plant.Tokamak, plant.DT, nil)

	fine, err := Sensitivity(m, res, SensitivityOptions{Step: 1e-5})
	require.NoError(t, err)
	coarse, err := Sensitivity(m, res, SensitivityOptions{Step: 1e-3})
	require.NoError(t, err)

	for _, e := range fine.Entries {
		if math.Abs(e.Elasticity) < 1e-3 {
			continue
		}
		c, ok := coarse.Get(e.Param)
		require.True(t, ok)
		assert.InEpsilon(t, e.Elasticity, c.Elasticity, 0.01, e.Param)
	}
}

func TestSensitivityForwardMethod(t *testing.T) {
	m, res := forward(t, plant.Tokamak, plant.DT, nil)

	s, err := Sensitivity(m, res, SensitivityOptions{Method: MethodForward, Params: []string{physics.ParamEtaTh}})
	require.NoError(t, err)
	require.Len(t, s.Entries, 1)
	assert.Equal(t, 0.01, s.Step)
	assert.Less(t, s.Entries[0].Derivative, 0.0)

	_, err = Sensitivity(m, res, SensitivityOptions{Method: "secant"})
	assert.True(t, costerr.IsInput(err))
	_, err = Sensitivity(m, res, SensitivityOptions{Params: []string{"eta_thermal"}})
	assert.True(t, costerr.IsInput(err))
}

func TestBackcastRecoversEfficiency(t *testing.T) {
	_, better := forward(t, plant.Tokamak, plant.DT, map[string]float64{physics.ParamEtaTh: 0.5})
	m, res := forward(t, plant.Tokamak, plant.DT, nil)

	out, err := BackcastSingle(m, res, better.Costs.LCOE, Bound{Param: physics.ParamEtaTh, Min: 0.3, Max: 0.65})
	require.NoError(t, err)
	assert.True(t, out.Converged, out.Message)
	assert.True(t, out.Feasible, out.Message)
	assert.InDelta(t, 0.5, out.Values[physics.ParamEtaTh], 1e-4)
	assert.InDelta(t, better.Costs.LCOE, out.Outputs[OutputLCOE], 1e-3)
	assert.Empty(t, out.Violations)
}

func TestBackcastReportsInfeasibleTarget(t *testing.T) {
	m, res := forward(t, plant.Tokamak, plant.DT, nil)

	out, err := BackcastSingle(m, res, res.Costs.LCOE/10, Bound{Param: plant.ParamAvailability, Min: 0.5, Max: 1})
	require.NoError(t, err)
	assert.False(t, out.Feasible)
	assert.Greater(t, out.Values[plant.ParamAvailability], 1.0)
	assert.NotEmpty(t, out.Message)
}

func TestBackcastRejectsBadRequests(t *testing.T) {
	m, res := forward(t, plant.Tokamak, plant.DT, nil)
	free := []Bound{{Param: physics.ParamEtaTh, Min: 0.3, Max: 0.65}}

	_, err := Backcast(m, res, BackcastRequest{Free: free})
	assert.True(t, costerr.IsInput(err), "no targets")
	_, err = Backcast(m, res, BackcastRequest{Targets: map[string]float64{"npv": 1}, Free: free})
	assert.True(t, costerr.IsInput(err), "unknown output")
	_, err = Backcast(m, res, BackcastRequest{Targets: map[string]float64{OutputLCOE: 60, OutputPFus: 2000}, Free: free})
	assert.True(t, costerr.IsInput(err), "more targets than free parameters")
	_, err = Backcast(m, res, BackcastRequest{Targets: map[string]float64{OutputLCOE: 60}, Free: []Bound{{Param: physics.ParamEtaTh, Min: 1, Max: 0}}})
	assert.True(t, costerr.IsInput(err), "inverted bound")
}

func TestCompareAllSorted(t *testing.T) {
	pairs := []plant.Pair{
		{Concept: plant.Tokamak, Fuel: plant.DT},
		{Concept: plant.Mirror, Fuel: plant.DHe3},
		{Concept: plant.LaserIFE, Fuel: plant.DT},
		{Concept: plant.MagTarget, Fuel: plant.DD},
		{Concept: plant.Concept("spheromak"), Fuel: plant.DT},
	}
	cmp, err := CompareAll(context.Background(), pairs, plant.DefaultRequirements(1000), WithWorkers(2))
	require.NoError(t, err)

	require.Len(t, cmp.Ranked, 4)
	require.Len(t, cmp.Skipped, 1)
	assert.Equal(t, plant.Concept("spheromak"), cmp.Skipped[0].Pair.Concept)
	for i := 1; i < len(cmp.Ranked); i++ {
		assert.LessOrEqual(t, cmp.Ranked[i-1].Costs.LCOE, cmp.Ranked[i].Costs.LCOE)
	}
}

func TestCompareAllDefaultsToEveryPair(t *testing.T) {
	cmp, err := CompareAll(context.Background(), nil, plant.DefaultRequirements(1000))
	require.NoError(t, err)
	assert.NotEmpty(t, cmp.Ranked)
	assert.Len(t, cmp.Ranked, len(plant.AllPairs())-len(cmp.Skipped))
}

// Run with -race: every worker shares the model option list.
func TestCompareAllSharedModelOptions(t *testing.T) {
	c := cost.DefaultConstants()
	c.Turbine *= 2
	opt := model.WithConstants(c)
	cmp, err := CompareAll(context.Background(), plant.AllPairs(), plant.DefaultRequirements(1000),
		WithModelOptions(opt), WithModelOptions(opt), WithModelOptions(opt), WithWorkers(8))
	require.NoError(t, err)
	require.NotEmpty(t, cmp.Ranked)

	base, err := CompareAll(context.Background(), plant.AllPairs(), plant.DefaultRequirements(1000))
	require.NoError(t, err)
	assert.Len(t, cmp.Ranked, len(base.Ranked))
	assert.Greater(t, cmp.Ranked[0].Costs.CAS23, 0.0)
	for _, r := range cmp.Ranked {
		for _, b := range base.Ranked {
			if r.Concept == b.Concept && r.Fuel == b.Fuel {
				assert.InDelta(t, 2*b.Costs.CAS23, r.Costs.CAS23, 1e-9*b.Costs.CAS23, "%s/%s", r.Concept, r.Fuel)
			}
		}
	}
}

func TestCompareAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CompareAll(ctx, nil, plant.DefaultRequirements(1000))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSweepEfficiency(t *testing.T) {
	m, res := forward(t, plant.Tokamak, plant.DT, nil)

	values, err := Linspace(0.35, 0.55, 5)
	require.NoError(t, err)
	assert.InDelta(t, 0.40, values[1], 1e-12)

	sw, err := Sweep(context.Background(), m, res, physics.ParamEtaTh, append(values, 1.5))
	require.NoError(t, err)
	require.Len(t, sw.Points, 6)
	for i := 1; i < 5; i++ {
		assert.Less(t, sw.Points[i].LCOE, sw.Points[i-1].LCOE)
	}
	assert.NotEmpty(t, sw.Points[5].Err, "eta_th 1.5 is out of range")

	assert.Equal(t, 5, sw.Summary.Feasible)
	assert.Equal(t, sw.Points[4].LCOE, sw.Summary.Min)
	assert.Equal(t, sw.Points[0].LCOE, sw.Summary.Max)
	assert.Equal(t, sw.Points[2].LCOE, sw.Summary.Median)

	_, err = Sweep(context.Background(), m, res, "eta_thermal", values)
	assert.True(t, costerr.IsInput(err))
	_, err = Linspace(0, 1, 1)
	assert.True(t, costerr.IsInput(err))
}

func TestSweepChecksCustomerRanges(t *testing.T) {
	m, res := forward(t, plant.Tokamak, plant.DT, nil)

	sw, err := Sweep(context.Background(), m, res, plant.ParamAvailability, []float64{0.85, 1.5, 3.0})
	require.NoError(t, err)
	assert.Empty(t, sw.Points[0].Err)
	assert.InDelta(t, res.Costs.LCOE, sw.Points[0].LCOE, 1e-9*res.Costs.LCOE)
	assert.Contains(t, sw.Points[1].Err, "availability")
	assert.NotEmpty(t, sw.Points[2].Err)
	assert.Zero(t, sw.Points[1].LCOE)
	assert.Equal(t, 1, sw.Summary.Feasible)

	sw, err = Sweep(context.Background(), m, res, plant.ParamLifetime, []float64{30, -5})
	require.NoError(t, err)
	assert.Empty(t, sw.Points[0].Err)
	assert.NotEmpty(t, sw.Points[1].Err, "negative lifetime")
}

func TestSweepPointLimit(t *testing.T) {
	values, err := Linspace(0, 1, MaxSweepPoints)
	require.NoError(t, err)
	assert.Len(t, values, MaxSweepPoints)

	_, err = Linspace(0, 1, 2_000_000_000)
	assert.True(t, costerr.IsInput(err))

	m, res := forward(t, plant.Tokamak, plant.DT, nil)
	_, err = Sweep(context.Background(), m, res, physics.ParamEtaTh, make([]float64, MaxSweepPoints+1))
	assert.True(t, costerr.IsInput(err))
}
