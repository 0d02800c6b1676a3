package physics

import "math"

// Bremsstrahlung returns the bremsstrahlung power in MW for electron
// density ne (m^-3), temperature te (keV), effective charge zeff and plasma
// volume (m^3).
func Bremsstrahlung(ne, te, zeff, volume float64) float64 {
	if te <= 0 {
		return 0
	}
	return bremsCoefficient * zeff * ne * ne * math.Sqrt(te) * volume / MegawattToWatts
}

// Synchrotron returns the net synchrotron power in MW. Only the fraction
// (1 - rWall) escapes the wall reflection.
func Synchrotron(ne, te, b, volume, rWall float64) float64 {
	return syncCoefficient * b * b * ne * te * (1 - rWall) * volume / MegawattToWatts
}

// RadiatedPower is the plasma radiation before clamping. It depends only
// on plasma parameters, never on fusion power.
func RadiatedPower(e Engineering) float64 {
	if e.HasRadOverride {
		return e.PRadOverride
	}
	return Bremsstrahlung(e.Ne, e.Te, e.Zeff, e.Volume) + Synchrotron(e.Ne, e.Te, e.B, e.Volume, e.RWall)
}
