package plant

// Customer parameter names as they appear in a resolved Params mapping.
const (
	ParamNetElectric      = "net_electric_mw"
	ParamAvailability     = "availability"
	ParamLifetime         = "lifetime_yr"
	ParamConstructionTime = "construction_time_yr"
	ParamInterestRate     = "interest_rate"
	ParamInflationRate    = "inflation_rate"
)

// CustomerParams lists the customer values carried in Params.
var CustomerParams = []string{
	ParamNetElectric,
	ParamAvailability,
	ParamLifetime,
	ParamConstructionTime,
	ParamInterestRate,
	ParamInflationRate,
}

// Requirements are the customer-facing inputs of a forward evaluation.
type Requirements struct {
	NetElectricMW      float64 `yaml:"net_electric_mw" json:"net_electric_mw"`
	Availability       float64 `yaml:"availability" json:"availability"`
	LifetimeYr         float64 `yaml:"lifetime_yr" json:"lifetime_yr"`
	NMod               int     `yaml:"n_mod" json:"n_mod"`
	ConstructionTimeYr float64 `yaml:"construction_time_yr" json:"construction_time_yr"`
	InterestRate       float64 `yaml:"interest_rate" json:"interest_rate"`
	InflationRate      float64 `yaml:"inflation_rate" json:"inflation_rate"`
	NOAK               bool    `yaml:"noak" json:"noak"`

	// CostOverrides pins cost accounts (e.g. "cas21") to fixed M$ values.
	CostOverrides map[string]float64 `yaml:"cost_overrides,omitempty" json:"cost_overrides,omitempty"`
	// ConstantOverrides replaces costing constants by yaml field name.
	ConstantOverrides map[string]float64 `yaml:"constant_overrides,omitempty" json:"constant_overrides,omitempty"`
}

// DefaultRequirements returns requirements with the customer defaults
// filled in for the given net electric target.
func DefaultRequirements(netElectricMW float64) Requirements {
	return Requirements{
		NetElectricMW:      netElectricMW,
		Availability:       0.85,
		LifetimeYr:         40,
		NMod:               1,
		ConstructionTimeYr: 6,
		InterestRate:       0.07,
		InflationRate:      0.02,
		NOAK:               true,
	}
}

// Params returns the continuous customer values as a mapping.
func (r Requirements) Params() map[string]float64 {
	return map[string]float64{
		ParamNetElectric:      r.NetElectricMW,
		ParamAvailability:     r.Availability,
		ParamLifetime:         r.LifetimeYr,
		ParamConstructionTime: r.ConstructionTimeYr,
		ParamInterestRate:     r.InterestRate,
		ParamInflationRate:    r.InflationRate,
	}
}

// WithParam returns a copy of r with the customer value name set to v.
// It reports false when name is not one of CustomerParams.
func (r Requirements) WithParam(name string, v float64) (Requirements, bool) {
	switch name {
	case ParamNetElectric:
		r.NetElectricMW = v
	case ParamAvailability:
		r.Availability = v
	case ParamLifetime:
		r.LifetimeYr = v
	case ParamConstructionTime:
		r.ConstructionTimeYr = v
	case ParamInterestRate:
		r.InterestRate = v
	case ParamInflationRate:
		r.InflationRate = v
	default:
		return r, false
	}
	return r, true
}
