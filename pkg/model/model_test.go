package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1cFE/1costingfe/pkg/costerr"
	"github.com/1cFE/1costingfe/pkg/physics"
	"github.com/1cFE/1costingfe/pkg/plant"
)

func tokamakRequirements() plant.Requirements {
	req := plant.DefaultRequirements(1000)
	req.LifetimeYr = 30
	return req
}

func TestForwardTokamakDT(t *testing.T) {
	m, err := New(plant.Tokamak, plant.DT)
	require.NoError(t, err)
	assert.Nil(t, m.Last())

	res, err := m.Forward(tokamakRequirements(), nil)
	require.NoError(t, err)

	assert.Greater(t, res.Power.PFus, 1000.0)
	assert.InDelta(t, 1000.0, res.Power.PNet, 10.0)
	assert.Greater(t, res.Costs.LCOE, 10.0)
	assert.Less(t, res.Costs.LCOE, 500.0)
	assert.True(t, res.Report.Valid)
	assert.Equal(t, plant.MFE, res.Family)
	assert.Same(t, res, m.Last())

	for _, name := range m.RequiredParams() {
		assert.True(t, res.Params.Has(name), "resolved params missing %s", name)
	}
	assert.Equal(t, 30.0, res.Params.Value(plant.ParamLifetime))
}

func TestForwardIsDeterministic(t *testing.T) {
	m, err := New(plant.Stellarator, plant.DD)
	require.NoError(t, err)
	a, err := m.Forward(tokamakRequirements(), nil)
	require.NoError(t, err)
	b, err := m.Forward(tokamakRequirements(), nil)
	require.NoError(t, err)
	assert.Equal(t, a.Power, b.Power)
	assert.Equal(t, a.Costs, b.Costs)
}

func TestForwardEveryPair(t *testing.T) {
	for _, pair := range plant.AllPairs() {
		m, err := New(pair.Concept, pair.Fuel)
		require.NoError(t, err)
		res, err := m.Forward(tokamakRequirements(), nil)
		if !assert.NoError(t, err, pair.String()) {
			continue
		}
		assert.InDelta(t, 1000.0, res.Power.PNet, 1e-6, pair.String())
		assert.Greater(t, res.Costs.LCOE, 0.0, pair.String())
	}
}

func TestAvailabilityLowersLCOE(t *testing.T) {
	m, err := New(plant.Tokamak, plant.DT)
	require.NoError(t, err)

	prev := math.Inf(1)
	for _, avail := range []float64{0.6, 0.7, 0.8, 0.9} {
		req := tokamakRequirements()
		req.Availability = avail
		res, err := m.Forward(req, nil)
		require.NoError(t, err)
		assert.Less(t, res.Costs.LCOE, prev, "availability %.1f", avail)
		prev = res.Costs.LCOE
	}
}

func TestThermalEfficiencyLowersLCOE(t *testing.T) {
	m, err := New(plant.Tokamak, plant.DT)
	require.NoError(t, err)

	prev := math.Inf(1)
	for _, eta := range []float64{0.35, 0.40, 0.46, 0.55} {
		res, err := m.Forward(tokamakRequirements(), map[string]float64{physics.ParamEtaTh: eta})
		require.NoError(t, err)
		assert.Less(t, res.Costs.LCOE, prev, "eta_th %.2f", eta)
		prev = res.Costs.LCOE
	}
}

func TestFamilyLoads(t *testing.T) {
	ife, err := New(plant.LaserIFE, plant.DT)
	require.NoError(t, err)
	res, err := ife.Forward(tokamakRequirements(), nil)
	require.NoError(t, err)
	assert.Zero(t, res.Power.PCoils)
	assert.Greater(t, res.Power.PTarget, 0.0)
	assert.Greater(t, res.Costs.CAS22Detail.TargetFactory, 0.0)

	mif, err := New(plant.MagTarget, plant.DT)
	require.NoError(t, err)
	res, err = mif.Forward(tokamakRequirements(), nil)
	require.NoError(t, err)
	assert.Greater(t, res.Power.PTarget, 0.0)
	assert.Greater(t, res.Power.PDriver, 0.0)
}

func TestInfeasibleDesign(t *testing.T) {
	m, err := New(plant.Tokamak, plant.DT)
	require.NoError(t, err)

	_, err = m.Forward(tokamakRequirements(), map[string]float64{physics.ParamFSub: 1})
	require.Error(t, err)
	assert.True(t, costerr.IsInfeasible(err), "got %v", err)
	assert.Nil(t, m.Last(), "failed evaluation must not replace the last result")
}

func TestInputErrors(t *testing.T) {
	m, err := New(plant.Tokamak, plant.DT)
	require.NoError(t, err)

	req := tokamakRequirements()
	req.NetElectricMW = -5
	_, err = m.Forward(req, nil)
	assert.True(t, costerr.IsInput(err), "negative target: %v", err)

	_, err = m.Forward(tokamakRequirements(), map[string]float64{physics.ParamEtaTh: 1.3})
	assert.True(t, costerr.IsInput(err), "eta_th > 1: %v", err)

	_, err = m.Forward(tokamakRequirements(), map[string]float64{physics.ParamEtaPin: 0})
	assert.True(t, costerr.IsInput(err), "zero eta_pin: %v", err)

	_, err = m.Forward(tokamakRequirements(), map[string]float64{"eta_thermal": 0.5})
	assert.True(t, costerr.IsInput(err), "unknown override: %v", err)

	// IFE plants have no auxiliary heating parameter.
	ife, err := New(plant.LaserIFE, plant.DT)
	require.NoError(t, err)
	_, err = ife.Forward(tokamakRequirements(), map[string]float64{physics.ParamPInput: 10})
	assert.True(t, costerr.IsInput(err), "p_input on IFE: %v", err)

	_, err = New(plant.Concept("spheromak"), plant.DT)
	assert.True(t, costerr.IsInput(err))
	_, err = New(plant.Tokamak, plant.Fuel("dli6"))
	assert.True(t, costerr.IsInput(err))
}

func TestConstantAndCostOverrides(t *testing.T) {
	m, err := New(plant.Tokamak, plant.DT)
	require.NoError(t, err)
	base, err := m.Forward(tokamakRequirements(), nil)
	require.NoError(t, err)

	req := tokamakRequirements()
	req.ConstantOverrides = map[string]float64{"turbine": 300}
	dearer, err := m.Forward(req, nil)
	require.NoError(t, err)
	assert.InDelta(t, 2*base.Costs.CAS23, dearer.Costs.CAS23, 1e-9)
	assert.Greater(t, dearer.Costs.LCOE, base.Costs.LCOE)

	req = tokamakRequirements()
	req.CostOverrides = map[string]float64{"cas28": 0}
	pinned, err := m.Forward(req, nil)
	require.NoError(t, err)
	assert.Zero(t, pinned.Costs.CAS28)

	req = tokamakRequirements()
	req.ConstantOverrides = map[string]float64{"no_such_constant": 1}
	_, err = m.Forward(req, nil)
	assert.True(t, costerr.IsInput(err), "got %v", err)
}

func TestEvaluateResultReusesDerivedAccounts(t *testing.T) {
	m, err := New(plant.Tokamak, plant.DT)
	require.NoError(t, err)
	req := tokamakRequirements()
	req.ConstantOverrides = map[string]float64{"turbine": 300}
	res, err := m.Forward(req, nil)
	require.NoError(t, err)

	require.NotNil(t, res.accounts)
	assert.NotSame(t, m.accounts, res.accounts)
	assert.Equal(t, 300.0, res.accounts.Constants().Turbine)
	got, err := m.resultAccounts(res)
	require.NoError(t, err)
	assert.Same(t, res.accounts, got)

	ev, err := m.EvaluateResult(res, res.Params)
	require.NoError(t, err)
	assert.Equal(t, res.Costs, ev.Costs)
	slow, err := m.Evaluate(res.Requirements, res.Params)
	require.NoError(t, err)
	assert.Equal(t, slow.Costs, ev.Costs)

	// A result decoded elsewhere has no accounts and falls back to rebuilding.
	bare := *res
	bare.accounts = nil
	ev, err = m.EvaluateResult(&bare, res.Params)
	require.NoError(t, err)
	assert.Equal(t, res.Costs, ev.Costs)
}

func TestRadiationOverride(t *testing.T) {
	m, err := New(plant.Tokamak, plant.DT)
	require.NoError(t, err)

	res, err := m.Forward(tokamakRequirements(), map[string]float64{physics.ParamPRadOver: 5000})
	require.NoError(t, err)
	assert.True(t, res.Power.RadClamped)
	assert.InDelta(t, res.Power.PAsh, res.Power.PRad, 1e-9)
	assert.NotEmpty(t, res.Report.Warnings)
}

func TestEvaluateMatchesForward(t *testing.T) {
	m, err := New(plant.Mirror, plant.DHe3)
	require.NoError(t, err)
	res, err := m.Forward(tokamakRequirements(), nil)
	require.NoError(t, err)

	ev, err := m.Evaluate(res.Requirements, res.Params)
	require.NoError(t, err)
	assert.Equal(t, res.Power, ev.Power)
	assert.Equal(t, res.Costs, ev.Costs)

	// Perturbing the mapping changes the answer without touching Last.
	ev2, err := m.Evaluate(res.Requirements, res.Params.With(plant.ParamAvailability, 0.9))
	require.NoError(t, err)
	assert.Less(t, ev2.Costs.LCOE, ev.Costs.LCOE)
	assert.Same(t, res, m.Last())
}

func TestForwardAtFusion(t *testing.T) {
	m, err := New(plant.Tokamak, plant.DT)
	require.NoError(t, err)
	sized, err := m.Forward(tokamakRequirements(), nil)
	require.NoError(t, err)

	res, err := m.ForwardAtFusion(sized.Power.PFus, tokamakRequirements(), nil)
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, res.Power.PNet, 1e-6)
	assert.InDelta(t, sized.Costs.LCOE, res.Costs.LCOE, 1e-6)
	assert.InDelta(t, res.Power.PNet, res.Requirements.NetElectricMW, 1e-12)

	_, err = m.ForwardAtFusion(50, tokamakRequirements(), nil)
	assert.True(t, costerr.IsInfeasible(err), "got %v", err)
	_, err = m.ForwardAtFusion(0, tokamakRequirements(), nil)
	assert.True(t, costerr.IsInput(err), "got %v", err)
}
