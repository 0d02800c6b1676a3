package validation

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/1cFE/1costingfe/pkg/physics"
	"github.com/1cFE/1costingfe/pkg/plant"
)

// ValidateRequirements checks the customer requirements. Out-of-range
// values are errors; unusual but possible values are warnings.
func ValidateRequirements(req plant.Requirements) *Report {
	r := NewReport()

	positive := []struct {
		name  string
		value float64
	}{
		{plant.ParamNetElectric, req.NetElectricMW},
		{plant.ParamLifetime, req.LifetimeYr},
		{plant.ParamConstructionTime, req.ConstructionTimeYr},
		{plant.ParamInterestRate, req.InterestRate},
	}
	for _, p := range positive {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			r.AddError(Result{
				Level:       LevelInput,
				Message:     fmt.Sprintf("%s must be > 0", p.name),
				Param:       p.name,
				ActualValue: p.value,
				Expected:    "> 0",
			})
		}
	}

	if !(req.Availability > 0 && req.Availability <= 1) {
		r.AddError(Result{
			Level:       LevelInput,
			Message:     fmt.Sprintf("availability %.4g must be in (0, 1]", req.Availability),
			Param:       plant.ParamAvailability,
			ActualValue: req.Availability,
			Expected:    "0 < availability <= 1",
		})
	} else if req.Availability > 0.95 {
		r.AddWarning(Result{
			Level:       LevelAdvisory,
			Message:     fmt.Sprintf("availability %.2f is above what operating plants achieve", req.Availability),
			Param:       plant.ParamAvailability,
			ActualValue: req.Availability,
			Expected:    "<= 0.95",
		})
	}

	if req.NMod < 1 {
		r.AddError(Result{
			Level:       LevelInput,
			Message:     "n_mod must be >= 1",
			Param:       "n_mod",
			ActualValue: req.NMod,
			Expected:    ">= 1",
		})
	}

	if !(req.InflationRate > -1) {
		r.AddError(Result{
			Level:       LevelInput,
			Message:     "inflation_rate must be > -1",
			Param:       plant.ParamInflationRate,
			ActualValue: req.InflationRate,
			Expected:    "> -1",
		})
	} else if req.InflationRate > 0.10 {
		r.AddWarning(Result{
			Level:       LevelAdvisory,
			Message:     fmt.Sprintf("inflation_rate %.3f is unusually high", req.InflationRate),
			Param:       plant.ParamInflationRate,
			ActualValue: req.InflationRate,
			Expected:    "<= 0.10",
		})
	}

	if req.LifetimeYr > 60 {
		r.AddWarning(Result{
			Level:       LevelAdvisory,
			Message:     fmt.Sprintf("lifetime %.0f yr exceeds typical licensed plant life", req.LifetimeYr),
			Param:       plant.ParamLifetime,
			ActualValue: req.LifetimeYr,
			Expected:    "<= 60",
		})
	}

	return r
}

// ValidateParams checks a resolved parameter mapping against the names
// the family and fuel require. Missing names, non-finite values, fractions
// outside [0, 1], non-positive divisors and negative powers are errors.
func ValidateParams(p plant.Params, required []string) *Report {
	r := NewReport()

	var missing []string
	for _, name := range required {
		if !p.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		r.AddError(Result{
			Level:    LevelInput,
			Message:  fmt.Sprintf("missing required parameters: %s", strings.Join(missing, ", ")),
			Param:    missing[0],
			Expected: "present",
		})
	}

	for _, name := range p.Names() {
		v := p.Value(name)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			r.AddError(Result{
				Level:       LevelInput,
				Message:     fmt.Sprintf("%s is not a finite number", name),
				Param:       name,
				ActualValue: fmt.Sprint(v),
				Expected:    "finite",
			})
		}
	}

	validateFractions(p, r)
	validateDivisors(p, r)
	validatePowers(p, r)
	validatePlasma(p, r)

	if eta, ok := p.Get(physics.ParamEtaTh); ok && eta > 0.65 && eta <= 1 {
		r.AddWarning(Result{
			Level:       LevelAdvisory,
			Message:     fmt.Sprintf("thermal efficiency %.2f is above practical thermal cycles", eta),
			Param:       physics.ParamEtaTh,
			ActualValue: eta,
			Expected:    "<= 0.65",
		})
	}

	return r
}

func validateFractions(p plant.Params, r *Report) {
	for _, name := range physics.FractionParams {
		v, ok := p.Get(name)
		if !ok {
			continue
		}
		if v < 0 || v > 1 {
			r.AddError(Result{
				Level:       LevelInput,
				Message:     fmt.Sprintf("%s %.4g must be within [0, 1]", name, v),
				Param:       name,
				ActualValue: v,
				Expected:    "0 <= value <= 1",
			})
		}
	}
}

func validateDivisors(p plant.Params, r *Report) {
	for _, name := range physics.DivisorParams {
		v, ok := p.Get(name)
		if !ok {
			continue
		}
		if v <= 0 {
			r.AddError(Result{
				Level:       LevelInput,
				Message:     fmt.Sprintf("%s is used as a divisor and must be > 0", name),
				Param:       name,
				ActualValue: v,
				Expected:    "> 0",
			})
		}
	}
}

func validatePowers(p plant.Params, r *Report) {
	for _, name := range p.Names() {
		if !strings.HasPrefix(name, "p_") {
			continue
		}
		if v := p.Value(name); v < 0 {
			r.AddError(Result{
				Level:       LevelInput,
				Message:     fmt.Sprintf("power %s must be >= 0 MW", name),
				Param:       name,
				ActualValue: v,
				Expected:    ">= 0",
			})
		}
	}
	if v, ok := p.Get(physics.ParamMN); ok && v <= 0 {
		r.AddError(Result{
			Level:       LevelInput,
			Message:     "neutron energy multiplier mn must be > 0",
			Param:       physics.ParamMN,
			ActualValue: v,
			Expected:    "> 0",
		})
	}
}

func validatePlasma(p plant.Params, r *Report) {
	nonNegative := []string{physics.ParamNe, physics.ParamTe, physics.ParamVolume, physics.ParamB}
	for _, name := range nonNegative {
		if v, ok := p.Get(name); ok && v < 0 {
			r.AddError(Result{
				Level:       LevelInput,
				Message:     fmt.Sprintf("%s must be >= 0", name),
				Param:       name,
				ActualValue: v,
				Expected:    ">= 0",
			})
		}
	}
	if v, ok := p.Get(physics.ParamZeff); ok && v < 1 {
		r.AddError(Result{
			Level:       LevelInput,
			Message:     fmt.Sprintf("Z_eff %.3g must be >= 1", v),
			Param:       physics.ParamZeff,
			ActualValue: v,
			Expected:    ">= 1",
		})
	}
}
