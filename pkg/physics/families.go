package physics

import "math"

// Magnetic confinement: radiation is drawn from the ash, the remaining
// transport power goes to direct conversion or the first wall, heating is
// supplied by wall-plug auxiliary systems.
func mfeForward(pFus float64, e Engineering, ashFrac float64) PowerTable {
	ash, neutron := Split(pFus, ashFrac)
	radRaw := RadiatedPower(e)
	rad := math.Min(radRaw, ash)
	transport := ash - rad

	pt := PowerTable{
		PFus:       pFus,
		PAsh:       ash,
		PNeutron:   neutron,
		PRad:       rad,
		PTransport: transport,
		PDEE:       e.FDec * e.EtaDE * transport,
		PDECWaste:  e.FDec * (1 - e.EtaDE) * transport,
		PWall:      (1 - e.FDec) * transport,
		PInput:     e.PInput,
		PPump:      e.PPump,
		PCoils:     e.PCoils,
		PCool:      e.PCool,
		PCryo:      e.PCryo,
		PAux:       e.PTrit + e.PHouse,
		RadClamped: radRaw > ash,
	}
	pt.PTh = e.MN*neutron + rad + pt.PWall + e.PInput + e.EtaP*e.PPump
	pt.PThe = e.EtaTh * pt.PTh
	pt.PET = pt.PThe + pt.PDEE
	pt.PSub = e.FSub * pt.PET
	pt.PRecirc = e.PCoils + e.PPump + pt.PSub + pt.PAux + e.PCool + e.PCryo + e.PInput/e.EtaPin
	pt.close()
	return pt
}

func mfeRegimes(e Engineering, ashFrac float64) []regime {
	rad := RadiatedPower(e)
	heat := e.PInput + e.EtaP*e.PPump
	recirc := e.PCoils + e.PPump + e.PTrit + e.PHouse + e.PCool + e.PCryo + e.PInput/e.EtaPin
	return []regime{
		{
			// rad < p_ash: transport power = ashFrac·p_fus − rad
			gross: line{
				Slope:  e.EtaTh*(e.MN*(1-ashFrac)+(1-e.FDec)*ashFrac) + e.FDec*e.EtaDE*ashFrac,
				Offset: e.EtaTh*(e.FDec*rad+heat) - e.FDec*e.EtaDE*rad,
			},
			recirc: recirc,
			valid:  func(pFus float64) bool { return rad <= ashFrac*pFus },
		},
		{
			// rad clamped to p_ash: no transport power
			gross: line{
				Slope:  e.EtaTh * (e.MN*(1-ashFrac) + ashFrac),
				Offset: e.EtaTh * heat,
			},
			recirc: recirc,
			valid:  func(pFus float64) bool { return rad >= ashFrac*pFus },
		},
	}
}

// Inertial confinement: ash and driver energy thermalize in the chamber;
// the drivers and the target factory dominate the recirculating load.
func ifeForward(pFus float64, e Engineering, ashFrac float64) PowerTable {
	ash, neutron := Split(pFus, ashFrac)
	driver := e.PImplosion + e.PIgnition
	pt := PowerTable{
		PFus:       pFus,
		PAsh:       ash,
		PNeutron:   neutron,
		PTransport: ash,
		PWall:      ash,
		PInput:     driver,
		PImplosion: e.PImplosion,
		PIgnition:  e.PIgnition,
		PPump:      e.PPump,
		PCryo:      e.PCryo,
		PTarget:    e.PTarget,
		PAux:       e.PTrit + e.PHouse,
	}
	pt.PTh = e.MN*neutron + ash + driver + e.EtaP*e.PPump
	pt.PThe = e.EtaTh * pt.PTh
	pt.PET = pt.PThe
	pt.PSub = e.FSub * pt.PET
	pt.PRecirc = e.PTarget + e.PPump + pt.PSub + pt.PAux + e.PCryo +
		e.PImplosion/e.EtaPin1 + e.PIgnition/e.EtaPin2
	pt.close()
	return pt
}

func ifeRegimes(e Engineering, ashFrac float64) []regime {
	return []regime{{
		gross: line{
			Slope:  e.EtaTh * (e.MN*(1-ashFrac) + ashFrac),
			Offset: e.EtaTh * (e.PImplosion + e.PIgnition + e.EtaP*e.PPump),
		},
		recirc: e.PTarget + e.PPump + e.PTrit + e.PHouse + e.PCryo +
			e.PImplosion/e.EtaPin1 + e.PIgnition/e.EtaPin2,
		valid: always,
	}}
}

// Magneto-inertial: a pulsed-power driver compresses a magnetized target.
func mifForward(pFus float64, e Engineering, ashFrac float64) PowerTable {
	ash, neutron := Split(pFus, ashFrac)
	pt := PowerTable{
		PFus:       pFus,
		PAsh:       ash,
		PNeutron:   neutron,
		PTransport: ash,
		PWall:      ash,
		PInput:     e.PDriver,
		PDriver:    e.PDriver,
		PPump:      e.PPump,
		PCoils:     e.PCoils,
		PCryo:      e.PCryo,
		PTarget:    e.PTarget,
		PAux:       e.PTrit + e.PHouse,
	}
	pt.PTh = e.MN*neutron + ash + e.PDriver + e.EtaP*e.PPump
	pt.PThe = e.EtaTh * pt.PTh
	pt.PET = pt.PThe
	pt.PSub = e.FSub * pt.PET
	pt.PRecirc = e.PTarget + e.PCoils + e.PPump + pt.PSub + pt.PAux + e.PCryo + e.PDriver/e.EtaPin
	pt.close()
	return pt
}

func mifRegimes(e Engineering, ashFrac float64) []regime {
	return []regime{{
		gross: line{
			Slope:  e.EtaTh * (e.MN*(1-ashFrac) + ashFrac),
			Offset: e.EtaTh * (e.PDriver + e.EtaP*e.PPump),
		},
		recirc: e.PTarget + e.PCoils + e.PPump + e.PTrit + e.PHouse + e.PCryo + e.PDriver/e.EtaPin,
		valid:  always,
	}}
}
