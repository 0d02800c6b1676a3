package physics

import (
	"math"

	"github.com/1cFE/1costingfe/pkg/costerr"
	"github.com/1cFE/1costingfe/pkg/plant"
)

// Burn-fraction parameter names.
const (
	ParamDDFT       = "dd_f_T"
	ParamDDFHe3     = "dd_f_He3"
	ParamDHe3DDFrac = "dhe3_dd_frac"
	ParamDHe3FT     = "dhe3_f_T"
)

// BurnFractions are the continuous fuel-cycle parameters.
type BurnFractions struct {
	DDFT       float64 // fraction of DD tritium burned in situ
	DDFHe3     float64 // fraction of DD helium-3 burned in situ
	DHe3DDFrac float64 // power fraction from DD side reactions in a DHe3 plasma
	DHe3FT     float64 // tritium burn fraction of those side reactions
}

// BurnFractionsFrom reads the burn fractions out of a parameter mapping.
func BurnFractionsFrom(p plant.Params) BurnFractions {
	return BurnFractions{
		DDFT:       p.Value(ParamDDFT),
		DDFHe3:     p.Value(ParamDDFHe3),
		DHe3DDFrac: p.Value(ParamDHe3DDFrac),
		DHe3FT:     p.Value(ParamDHe3FT),
	}
}

// Consumption is the purchased fuel mass per MJ of fusion energy.
// Tritium is bred and helium-4 is ash, so neither appears.
type Consumption struct {
	DeuteriumKgPerMJ float64 `json:"deuterium_kg_per_mj"`
	Helium3KgPerMJ   float64 `json:"helium3_kg_per_mj"`
	Boron11KgPerMJ   float64 `json:"boron11_kg_per_mj"`
	ProtonKgPerMJ    float64 `json:"proton_kg_per_mj"`
}

// FuelModel is the fuel-specific physics bound once per model. Every
// function in it is smooth in the burn fractions.
type FuelModel struct {
	Fuel plant.Fuel
	// Required lists the burn-fraction parameters the fuel reads.
	Required    []string
	AshFraction func(b BurnFractions) float64
	Consumption func(b BurnFractions) Consumption
}

// FuelModelFor selects the fuel physics for f.
func FuelModelFor(f plant.Fuel) (FuelModel, error) {
	switch f {
	case plant.DT:
		return FuelModel{Fuel: f, AshFraction: ashFractionDT, Consumption: consumptionDT}, nil
	case plant.DD:
		return FuelModel{
			Fuel:        f,
			Required:    []string{ParamDDFT, ParamDDFHe3},
			AshFraction: ashFractionDD,
			Consumption: consumptionDD,
		}, nil
	case plant.DHe3:
		return FuelModel{
			Fuel:        f,
			Required:    []string{ParamDHe3DDFrac, ParamDHe3FT},
			AshFraction: ashFractionDHe3,
			Consumption: consumptionDHe3,
		}, nil
	case plant.PB11:
		return FuelModel{Fuel: f, AshFraction: ashFractionPB11, Consumption: consumptionPB11}, nil
	}
	return FuelModel{}, costerr.Input("fuel", "unknown fuel %q", string(f))
}

// Split partitions fusion power into charged-particle (ash) and neutron
// power. The two always sum to pFus.
func Split(pFus, ashFraction float64) (ash, neutron float64) {
	ash = pFus * ashFraction
	return ash, pFus - ash
}

// AshNeutronSplit is the one-shot form of Split for callers without a
// bound FuelModel.
func AshNeutronSplit(pFus float64, f plant.Fuel, b BurnFractions) (ash, neutron float64, err error) {
	fm, err := FuelModelFor(f)
	if err != nil {
		return 0, 0, err
	}
	ash, neutron = Split(pFus, fm.AshFraction(b))
	return ash, neutron, nil
}

func ashFractionDT(BurnFractions) float64 { return EAlphaDT / EnergyDT }

func ashFractionPB11(BurnFractions) float64 { return 1.0 }

// ashFractionDD is the semi-catalyzed DD split: both primary branches plus
// the secondary DT and DHe3 burns they feed.
func ashFractionDD(b BurnFractions) float64 {
	charged := eChargedPrimaryDD + 0.5*b.DDFT*EAlphaDT + 0.5*b.DDFHe3*EnergyDHe3
	total := ddEventEnergy(b.DDFT, b.DDFHe3)
	return charged / total
}

// ashFractionDHe3 blends the aneutronic primary with DD side reactions,
// whose tritium partly burns.
func ashFractionDHe3(b BurnFractions) float64 {
	neutron := eNeutronPrimaryDD + 0.5*b.DHe3FT*ENeutDT
	charged := eChargedPrimaryDD + 0.5*b.DHe3FT*EAlphaDT
	return (1 - b.DHe3DDFrac) + b.DHe3DDFrac*charged/(neutron+charged)
}

// ddEventEnergy is the mean energy released per primary DD event,
// including the secondary burns.
func ddEventEnergy(fT, fHe3 float64) float64 {
	return eTotalPrimaryDD + 0.5*fT*EnergyDT + 0.5*fHe3*EnergyDHe3
}

// perMJ converts "particles per reaction releasing energyMeV" to kg/MJ.
func perMJ(count, massKg, energyMeV float64) float64 {
	return count * massKg * 1e6 / (energyMeV * MeVToJoules)
}

func consumptionDT(BurnFractions) Consumption {
	return Consumption{DeuteriumKgPerMJ: perMJ(1, DeuteronMassKg, EnergyDT)}
}

func consumptionDD(b BurnFractions) Consumption {
	deuterons := 2 + 0.5*b.DDFT + 0.5*b.DDFHe3
	return Consumption{DeuteriumKgPerMJ: perMJ(deuterons, DeuteronMassKg, ddEventEnergy(b.DDFT, b.DDFHe3))}
}

func consumptionDHe3(b BurnFractions) Consumption {
	x := b.DHe3DDFrac
	ddEnergy := ddEventEnergy(b.DHe3FT, 0)
	deuterium := (1-x)*perMJ(1, DeuteronMassKg, EnergyDHe3) +
		x*perMJ(2+0.5*b.DHe3FT, DeuteronMassKg, ddEnergy)
	// DD side reactions breed half a helion per event.
	helium3 := (1-x)*perMJ(1, HelionMassKg, EnergyDHe3) - x*perMJ(0.5, HelionMassKg, ddEnergy)
	return Consumption{
		DeuteriumKgPerMJ: deuterium,
		Helium3KgPerMJ:   math.Max(helium3, 0),
	}
}

func consumptionPB11(BurnFractions) Consumption {
	return Consumption{
		ProtonKgPerMJ:  perMJ(1, ProtonMassKg, EnergyPB11),
		Boron11KgPerMJ: perMJ(1, Boron11MassKg, EnergyPB11),
	}
}
