package physics

// Physical constants (CODATA 2018).
const (
	MeVToJoules     = 1.602176634e-13  // J per MeV
	DeuteronMassKg  = 3.3435837724e-27 // kg
	HelionMassKg    = 5.0064127796e-27 // kg, helium-3 nucleus
	ProtonMassKg    = 1.67262192369e-27
	Boron11MassKg   = 1.8283e-26 // 11.0093 u
	SecondsPerYear  = 365.25 * 24 * 3600
	HoursPerYear    = 8760.0
	MegawattToWatts = 1e6
)

// Reaction energies in MeV.
const (
	// D + T -> He4(3.52) + n(14.06)
	EAlphaDT = 3.52
	EnergyDT = 17.58
	ENeutDT  = 14.06

	// D + D -> T(1.01) + p(3.02)
	ETritonDD  = 1.01
	EProtonDD  = 3.02
	EnergyDDpT = 4.03

	// D + D -> He3(0.82) + n(2.45)
	EHelionDD    = 0.82
	ENeutDD      = 2.45
	EnergyDDnHe3 = 3.27

	// D + He3 -> He4(3.6) + p(14.7)
	EnergyDHe3 = 18.35

	// p + B11 -> 3 He4
	EnergyPB11 = 8.68
)

// DD primary per-event averages over the two equally likely branches.
const (
	eChargedPrimaryDD = 0.5*(ETritonDD+EProtonDD) + 0.5*EHelionDD
	eNeutronPrimaryDD = 0.5 * ENeutDD
	eTotalPrimaryDD   = 0.5*EnergyDDpT + 0.5*EnergyDDnHe3
)

// Radiation coefficients in SI units with T_e in keV.
const (
	bremsCoefficient = 5.35e-37 // W m^3 keV^-1/2
	syncCoefficient  = 6.2e-17  // W m^3 T^-2 keV^-1
)
