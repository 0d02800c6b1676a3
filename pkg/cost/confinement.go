package cost

import (
	"github.com/1cFE/1costingfe/pkg/costerr"
	"github.com/1cFE/1costingfe/pkg/physics"
	"github.com/1cFE/1costingfe/pkg/plant"
)

// ConfinementFunc prices the concept-specific core of CAS22: magnets,
// laser or ion drivers, pulsed power.
type ConfinementFunc func(c Confinement, pt physics.PowerTable) float64

func coils(c Confinement, pt physics.PowerTable) float64 {
	return c.CoilPerMWFus * pt.PFus
}

func pulsedPower(c Confinement, pt physics.PowerTable) float64 {
	return c.PulsedPowerPerMW*pt.PDriver + c.MIFCoilPerMW*pt.PCoils
}

var confinementAccounts = map[plant.Concept]ConfinementFunc{
	plant.Tokamak: func(c Confinement, pt physics.PowerTable) float64 {
		return coils(c, pt)
	},
	plant.Stellarator: func(c Confinement, pt physics.PowerTable) float64 {
		return c.StellaratorFactor * coils(c, pt)
	},
	plant.Mirror: func(c Confinement, pt physics.PowerTable) float64 {
		return c.MirrorFactor * coils(c, pt)
	},
	plant.LaserIFE: func(c Confinement, pt physics.PowerTable) float64 {
		return c.LaserPerMW * (pt.PImplosion + pt.PIgnition)
	},
	plant.HeavyIon: func(c Confinement, pt physics.PowerTable) float64 {
		return c.HeavyIonPerMW * (pt.PImplosion + pt.PIgnition)
	},
	plant.ZPinch: func(c Confinement, pt physics.PowerTable) float64 {
		return c.ZPinchFactor * pulsedPower(c, pt)
	},
	plant.MagTarget: func(c Confinement, pt physics.PowerTable) float64 {
		return pulsedPower(c, pt)
	},
	plant.PlasmaJet: func(c Confinement, pt physics.PowerTable) float64 {
		return c.PlasmaJetFactor * pulsedPower(c, pt)
	},
}

// ConfinementFor returns the confinement account of concept.
func ConfinementFor(concept plant.Concept) (ConfinementFunc, error) {
	fn, ok := confinementAccounts[concept]
	if !ok {
		return nil, costerr.Input("concept", "no confinement cost account for %q", string(concept))
	}
	return fn, nil
}
