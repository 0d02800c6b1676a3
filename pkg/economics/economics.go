// Package economics annualizes plant costs and computes the levelized cost
// of electricity.
package economics

import (
	"math"

	"github.com/1cFE/1costingfe/pkg/costerr"
	"github.com/1cFE/1costingfe/pkg/physics"
	"github.com/1cFE/1costingfe/pkg/plant"
)

// CRF is the capital recovery factor i(1+i)^n / ((1+i)^n − 1) for rate i
// over n years. It is evaluated as i / (1 − (1+i)^−n) through expm1 and
// log1p, which stays accurate for small rates. At i = 0 it returns 1/n.
func CRF(rate, years float64) (float64, error) {
	if years <= 0 {
		return 0, costerr.Input(plant.ParamLifetime, "plant lifetime must be > 0, got %g yr", years)
	}
	if rate <= -1 {
		return 0, costerr.Input(plant.ParamInterestRate, "interest rate must be > -1, got %g", rate)
	}
	if rate == 0 {
		return 1 / years, nil
	}
	return rate / -math.Expm1(-years*math.Log1p(rate)), nil
}

// EffectiveCRF compounds the CRF forward over the construction period,
// during which capital accrues interest before any revenue.
func EffectiveCRF(rate, years, constructionYears float64) (float64, error) {
	crf, err := CRF(rate, years)
	if err != nil {
		return 0, err
	}
	if constructionYears < 0 {
		return 0, costerr.Input(plant.ParamConstructionTime, "construction time must be >= 0, got %g yr", constructionYears)
	}
	return crf * math.Pow(1+rate, constructionYears), nil
}

// LevelizedAnnualCost shifts a today's-dollar annual cost to
// operation-start dollars.
func LevelizedAnnualCost(annual, inflation, projectYears float64) float64 {
	return annual * math.Pow(1+inflation, projectYears)
}

// AnnualEnergyMWh is the electricity delivered per year by nMod modules.
func AnnualEnergyMWh(pNetMW float64, nMod int, availability float64) float64 {
	return physics.HoursPerYear * pNetMW * float64(nMod) * availability
}

// LCOE returns the levelized cost of electricity in $/MWh from annualized
// capital, O&M and fuel costs in M$.
func LCOE(capital, om, fuel, pNetMW float64, nMod int, availability float64) (float64, error) {
	if pNetMW <= 0 {
		return 0, costerr.Infeasible("net electric power %.3g MW is not positive", pNetMW)
	}
	if nMod < 1 {
		return 0, costerr.Input("n_mod", "module count must be >= 1, got %d", nMod)
	}
	if availability <= 0 {
		return 0, costerr.Input(plant.ParamAvailability, "availability must be > 0, got %g", availability)
	}
	return (capital + om + fuel) * 1e6 / AnnualEnergyMWh(pNetMW, nMod, availability), nil
}
