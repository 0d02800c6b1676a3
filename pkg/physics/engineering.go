package physics

import (
	"github.com/1cFE/1costingfe/pkg/costerr"
	"github.com/1cFE/1costingfe/pkg/plant"
)

// Engineering parameter names.
const (
	// All families.
	ParamMN     = "mn"      // blanket neutron energy multiplier
	ParamEtaTh  = "eta_th"  // thermal-to-electric efficiency
	ParamEtaP   = "eta_p"   // fraction of pump power returned as heat
	ParamFSub   = "f_sub"   // subsystem load as a fraction of gross electric
	ParamPPump  = "p_pump"  // MW
	ParamPTrit  = "p_trit"  // MW, tritium systems
	ParamPHouse = "p_house" // MW, housekeeping
	ParamPCryo  = "p_cryo"  // MW

	// Magnetic.
	ParamPInput   = "p_input" // MW, auxiliary heating delivered to plasma
	ParamEtaPin   = "eta_pin" // heating wall-plug efficiency (also MIF driver)
	ParamEtaDE    = "eta_de"  // direct energy conversion efficiency
	ParamFDec     = "f_dec"   // fraction of transport power to DEC
	ParamPCoils   = "p_coils" // MW (also MIF)
	ParamPCool    = "p_cool"  // MW
	ParamNe       = "n_e"     // m^-3
	ParamTe       = "T_e"     // keV
	ParamZeff     = "Z_eff"
	ParamVolume   = "plasma_volume" // m^3
	ParamB        = "B"             // T
	ParamRWall    = "r_wall"        // synchrotron wall reflectivity
	ParamPRadOver = "p_rad"         // MW, optional radiation override

	// Inertial.
	ParamPImplosion = "p_implosion" // MW
	ParamPIgnition  = "p_ignition"  // MW
	ParamEtaPin1    = "eta_pin1"
	ParamEtaPin2    = "eta_pin2"
	ParamPTarget    = "p_target" // MW (also MIF)

	// Magneto-inertial.
	ParamPDriver = "p_driver" // MW
)

var commonParams = []string{ParamMN, ParamEtaTh, ParamEtaP, ParamFSub, ParamPPump, ParamPTrit, ParamPHouse, ParamPCryo}

var familyParams = map[plant.Family][]string{
	plant.MFE: {ParamPInput, ParamEtaPin, ParamEtaDE, ParamFDec, ParamPCoils, ParamPCool,
		ParamNe, ParamTe, ParamZeff, ParamVolume, ParamB, ParamRWall},
	plant.IFE: {ParamPImplosion, ParamPIgnition, ParamEtaPin1, ParamEtaPin2, ParamPTarget},
	plant.MIF: {ParamPDriver, ParamEtaPin, ParamPTarget, ParamPCoils},
}

// RequiredParams lists the engineering parameters the family's power
// balance reads.
func RequiredParams(f plant.Family) ([]string, error) {
	extra, ok := familyParams[f]
	if !ok {
		return nil, costerr.Input("family", "unknown confinement family %q", string(f))
	}
	out := make([]string, 0, len(commonParams)+len(extra))
	out = append(out, commonParams...)
	return append(out, extra...), nil
}

// FractionParams are the parameters restricted to [0, 1].
var FractionParams = []string{ParamEtaTh, ParamEtaP, ParamFSub, ParamEtaPin, ParamEtaDE, ParamFDec,
	ParamEtaPin1, ParamEtaPin2, ParamRWall, ParamDDFT, ParamDDFHe3, ParamDHe3DDFrac, ParamDHe3FT}

// DivisorParams are used as divisors and must be strictly positive when
// present.
var DivisorParams = []string{ParamEtaPin, ParamEtaPin1, ParamEtaPin2}

// Engineering is the typed view of the engineering parameters. Fields a
// family does not use stay zero.
type Engineering struct {
	MN, EtaTh, EtaP, FSub        float64
	PPump, PTrit, PHouse, PCryo  float64
	PInput, EtaPin, EtaDE, FDec  float64
	PCoils, PCool                float64
	Ne, Te, Zeff, Volume, B      float64
	RWall                        float64
	PRadOverride                 float64
	HasRadOverride               bool
	PImplosion, PIgnition        float64
	EtaPin1, EtaPin2, PTarget    float64
	PDriver                      float64
	Burn                         BurnFractions
}

// EngineeringFrom reads the typed engineering view out of p.
func EngineeringFrom(p plant.Params) Engineering {
	rad, hasRad := p.Get(ParamPRadOver)
	return Engineering{
		MN:             p.Value(ParamMN),
		EtaTh:          p.Value(ParamEtaTh),
		EtaP:           p.Value(ParamEtaP),
		FSub:           p.Value(ParamFSub),
		PPump:          p.Value(ParamPPump),
		PTrit:          p.Value(ParamPTrit),
		PHouse:         p.Value(ParamPHouse),
		PCryo:          p.Value(ParamPCryo),
		PInput:         p.Value(ParamPInput),
		EtaPin:         p.Value(ParamEtaPin),
		EtaDE:          p.Value(ParamEtaDE),
		FDec:           p.Value(ParamFDec),
		PCoils:         p.Value(ParamPCoils),
		PCool:          p.Value(ParamPCool),
		Ne:             p.Value(ParamNe),
		Te:             p.Value(ParamTe),
		Zeff:           p.Value(ParamZeff),
		Volume:         p.Value(ParamVolume),
		B:              p.Value(ParamB),
		RWall:          p.Value(ParamRWall),
		PRadOverride:   rad,
		HasRadOverride: hasRad,
		PImplosion:     p.Value(ParamPImplosion),
		PIgnition:      p.Value(ParamPIgnition),
		EtaPin1:        p.Value(ParamEtaPin1),
		EtaPin2:        p.Value(ParamEtaPin2),
		PTarget:        p.Value(ParamPTarget),
		PDriver:        p.Value(ParamPDriver),
		Burn:           BurnFractionsFrom(p),
	}
}
