// Package model binds a confinement concept and fuel to the power balance,
// fuel physics and cost accounts, and runs the forward costing pipeline.
package model

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/1cFE/1costingfe/pkg/cost"
	"github.com/1cFE/1costingfe/pkg/costerr"
	"github.com/1cFE/1costingfe/pkg/defaults"
	"github.com/1cFE/1costingfe/pkg/physics"
	"github.com/1cFE/1costingfe/pkg/plant"
	"github.com/1cFE/1costingfe/pkg/validation"
)

// ForwardResult is the output of one forward evaluation.
type ForwardResult struct {
	Concept      plant.Concept      `json:"concept"`
	Fuel         plant.Fuel         `json:"fuel"`
	Family       plant.Family       `json:"family"`
	Requirements plant.Requirements `json:"requirements"`
	Power        physics.PowerTable `json:"power"`
	Costs        cost.Result        `json:"costs"`
	Params       plant.Params       `json:"params"`
	Report       *validation.Report `json:"report"`

	// accounts are the cost accounts the result was priced with, including
	// any constant overrides from Requirements.
	accounts *cost.Model
}

// Evaluation is the pure pipeline output used by the analysis layer.
type Evaluation struct {
	Power physics.PowerTable
	Costs cost.Result
}

// CostModel evaluates plants of one concept and fuel. Family, fuel and
// concept dispatch happen once in New; every evaluation then calls the
// bound functions directly. Evaluate is safe for concurrent use.
type CostModel struct {
	concept   plant.Concept
	fuel      plant.Fuel
	family    plant.Family
	balance   physics.Balance
	fuelModel physics.FuelModel
	accounts  *cost.Model
	table     *defaults.Table
	required  []string
	known     map[string]bool
	log       *zap.Logger

	mu   sync.Mutex
	last *ForwardResult
}

// Option configures a CostModel.
type Option func(*options)

type options struct {
	constants cost.Constants
	table     *defaults.Table
	log       *zap.Logger
}

// WithConstants replaces the default costing constants.
func WithConstants(c cost.Constants) Option {
	return func(o *options) { o.constants = c }
}

// WithDefaults replaces the built-in default parameter table.
func WithDefaults(t *defaults.Table) Option {
	return func(o *options) { o.table = t }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// New binds a model for concept and fuel.
func New(concept plant.Concept, fuel plant.Fuel, opts ...Option) (*CostModel, error) {
	o := options{constants: cost.DefaultConstants(), log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.table == nil {
		o.table = defaults.Builtin()
	}

	family, err := concept.Family()
	if err != nil {
		return nil, err
	}
	balance, err := physics.BalanceFor(family)
	if err != nil {
		return nil, err
	}
	fm, err := physics.FuelModelFor(fuel)
	if err != nil {
		return nil, err
	}
	accounts, err := cost.NewModel(o.constants, concept, fuel)
	if err != nil {
		return nil, err
	}

	required := make([]string, 0, len(balance.Required)+len(fm.Required))
	required = append(required, balance.Required...)
	required = append(required, fm.Required...)
	known := map[string]bool{physics.ParamPRadOver: family == plant.MFE}
	for _, name := range required {
		known[name] = true
	}

	return &CostModel{
		concept:   concept,
		fuel:      fuel,
		family:    family,
		balance:   balance,
		fuelModel: fm,
		accounts:  accounts,
		table:     o.table,
		required:  required,
		known:     known,
		log:       o.log.With(zap.String("concept", string(concept)), zap.String("fuel", string(fuel))),
	}, nil
}

// Concept returns the bound concept.
func (m *CostModel) Concept() plant.Concept { return m.concept }

// Fuel returns the bound fuel.
func (m *CostModel) Fuel() plant.Fuel { return m.fuel }

// Family returns the confinement family of the bound concept.
func (m *CostModel) Family() plant.Family { return m.family }

// RequiredParams lists the engineering and fuel parameters the model
// reads.
func (m *CostModel) RequiredParams() []string {
	return append([]string(nil), m.required...)
}

// Last returns the most recent forward result, or nil before the first
// successful Forward.
func (m *CostModel) Last() *ForwardResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// ResolveParams merges defaults, engineering overrides and the customer
// values of req into one mapping. Unknown override names are rejected.
func (m *CostModel) ResolveParams(req plant.Requirements, overrides map[string]float64) (plant.Params, error) {
	var unknown []string
	for name := range overrides {
		if !m.known[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return plant.Params{}, costerr.Input(unknown[0], "not a parameter of %s/%s (unknown: %v)", m.concept, m.fuel.Label(), unknown)
	}
	base, err := m.table.Resolve(m.concept, m.fuel)
	if err != nil {
		return plant.Params{}, err
	}
	return base.Merge(overrides).Merge(req.Params()), nil
}

// Forward sizes the plant for req's net electric target and prices it.
// overrides replace individual engineering defaults.
func (m *CostModel) Forward(req plant.Requirements, overrides map[string]float64) (*ForwardResult, error) {
	report, params, accounts, err := m.prepare(req, overrides)
	if err != nil {
		return nil, err
	}
	ev, err := m.evaluate(accounts, req, params)
	if err != nil {
		return nil, err
	}
	return m.finish(req, params, ev, report, accounts)
}

// ForwardAtFusion prices the plant at a given fusion power instead of a
// net electric target. The resulting net power replaces the target in the
// returned requirements and parameters. A design that does not reach
// positive net power is infeasible.
func (m *CostModel) ForwardAtFusion(pFus float64, req plant.Requirements, overrides map[string]float64) (*ForwardResult, error) {
	if !(pFus > 0) {
		return nil, costerr.Input("p_fus", "fusion power must be > 0, got %g MW", pFus)
	}
	if req.NetElectricMW <= 0 {
		// Only used to pass requirement validation; replaced below.
		req.NetElectricMW = pFus
	}
	report, params, accounts, err := m.prepare(req, overrides)
	if err != nil {
		return nil, err
	}
	e := physics.EngineeringFrom(params)
	pt, err := m.balance.Forward(pFus, e, m.fuelModel.AshFraction(e.Burn))
	if err != nil {
		return nil, err
	}
	if pt.PNet <= 0 {
		return nil, costerr.Infeasible("fusion power %.1f MW yields net electric %.1f MW", pFus, pt.PNet)
	}
	req.NetElectricMW = pt.PNet
	params = params.With(plant.ParamNetElectric, pt.PNet)
	costs, err := accounts.Compute(m.costInputs(pt, e, req, params))
	if err != nil {
		return nil, err
	}
	return m.finish(req, params, Evaluation{Power: pt, Costs: costs}, report, accounts)
}

// Evaluate runs the pipeline on an already resolved mapping without range
// validation. Continuous customer values are read from params; module
// count, NOAK status and overrides come from req. It does not touch the
// model's state.
func (m *CostModel) Evaluate(req plant.Requirements, params plant.Params) (Evaluation, error) {
	accounts, err := m.accountsFor(req)
	if err != nil {
		return Evaluation{}, err
	}
	return m.evaluate(accounts, req, params)
}

// EvaluateResult runs Evaluate against the requirements of res, reusing
// the cost accounts res was priced with. The analysis layer calls it once
// per perturbed mapping.
func (m *CostModel) EvaluateResult(res *ForwardResult, params plant.Params) (Evaluation, error) {
	accounts, err := m.resultAccounts(res)
	if err != nil {
		return Evaluation{}, err
	}
	return m.evaluate(accounts, res.Requirements, params)
}

func (m *CostModel) resultAccounts(res *ForwardResult) (*cost.Model, error) {
	if res.accounts != nil && res.Concept == m.concept && res.Fuel == m.fuel {
		return res.accounts, nil
	}
	return m.accountsFor(res.Requirements)
}

func (m *CostModel) evaluate(accounts *cost.Model, req plant.Requirements, params plant.Params) (Evaluation, error) {
	e := physics.EngineeringFrom(params)
	frac := m.fuelModel.AshFraction(e.Burn)
	pFus, err := m.balance.Inverse(params.Value(plant.ParamNetElectric), e, frac)
	if err != nil {
		return Evaluation{}, err
	}
	pt, err := m.balance.Forward(pFus, e, frac)
	if err != nil {
		return Evaluation{}, err
	}
	costs, err := accounts.Compute(m.costInputs(pt, e, req, params))
	if err != nil {
		return Evaluation{}, err
	}
	return Evaluation{Power: pt, Costs: costs}, nil
}

func (m *CostModel) costInputs(pt physics.PowerTable, e physics.Engineering, req plant.Requirements, params plant.Params) cost.Inputs {
	return cost.Inputs{
		Power:              pt,
		Eng:                e,
		Consumption:        m.fuelModel.Consumption(e.Burn),
		NMod:               req.NMod,
		Availability:       params.Value(plant.ParamAvailability),
		LifetimeYr:         params.Value(plant.ParamLifetime),
		ConstructionTimeYr: params.Value(plant.ParamConstructionTime),
		InterestRate:       params.Value(plant.ParamInterestRate),
		InflationRate:      params.Value(plant.ParamInflationRate),
		NOAK:               req.NOAK,
		Overrides:          req.CostOverrides,
	}
}

// accountsFor returns the bound accounts, rebuilt on a derived constants
// bundle when req carries constant overrides.
func (m *CostModel) accountsFor(req plant.Requirements) (*cost.Model, error) {
	if len(req.ConstantOverrides) == 0 {
		return m.accounts, nil
	}
	c, err := m.accounts.Constants().WithOverrides(req.ConstantOverrides)
	if err != nil {
		return nil, err
	}
	return cost.NewModel(c, m.concept, m.fuel)
}

func (m *CostModel) prepare(req plant.Requirements, overrides map[string]float64) (*validation.Report, plant.Params, *cost.Model, error) {
	report := validation.ValidateRequirements(req)
	if err := report.Err(); err != nil {
		return nil, plant.Params{}, nil, err
	}
	params, err := m.ResolveParams(req, overrides)
	if err != nil {
		return nil, plant.Params{}, nil, err
	}
	report.Merge(validation.ValidateParams(params, m.required))
	if err := report.Err(); err != nil {
		return nil, plant.Params{}, nil, err
	}
	accounts, err := m.accountsFor(req)
	if err != nil {
		return nil, plant.Params{}, nil, err
	}
	return report, params, accounts, nil
}

func (m *CostModel) finish(req plant.Requirements, params plant.Params, ev Evaluation, report *validation.Report, accounts *cost.Model) (*ForwardResult, error) {
	report.Merge(validation.CheckPowerTable(ev.Power))
	if err := report.Err(); err != nil {
		return nil, err
	}
	for _, msg := range report.Messages() {
		m.log.Warn("advisory", zap.String("message", msg))
	}
	m.log.Debug("forward evaluated",
		zap.Float64("p_fus", ev.Power.PFus),
		zap.Float64("p_net", ev.Power.PNet),
		zap.Float64("lcoe", ev.Costs.LCOE),
	)

	res := &ForwardResult{
		Concept:      m.concept,
		Fuel:         m.fuel,
		Family:       m.family,
		Requirements: req,
		Power:        ev.Power,
		Costs:        ev.Costs,
		Params:       params,
		Report:       report,
		accounts:     accounts,
	}
	m.mu.Lock()
	m.last = res
	m.mu.Unlock()
	return res, nil
}

func (r *ForwardResult) String() string {
	return fmt.Sprintf("%s/%s: p_fus %.1f MW, p_net %.1f MW, LCOE %.2f $/MWh",
		r.Concept, r.Fuel.Label(), r.Power.PFus, r.Power.PNet, r.Costs.LCOE)
}
