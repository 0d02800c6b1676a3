// Package cost prices a fusion plant by standard cost account (CAS10 to
// CAS90) and rolls the accounts up into capital, annual cost and LCOE.
package cost

import (
	"fmt"
	"math"

	"github.com/1cFE/1costingfe/pkg/costerr"
	"github.com/1cFE/1costingfe/pkg/economics"
	"github.com/1cFE/1costingfe/pkg/physics"
	"github.com/1cFE/1costingfe/pkg/plant"
)

// ReactorPlant itemizes CAS22 reactor plant equipment per module.
type ReactorPlant struct {
	Blanket       float64 `json:"blanket"`
	Breeding      float64 `json:"breeding"`
	Shield        float64 `json:"shield"`
	Confinement   float64 `json:"confinement"`
	Heating       float64 `json:"heating"`
	Structure     float64 `json:"structure"`
	Vacuum        float64 `json:"vacuum"`
	PowerSupplies float64 `json:"power_supplies"`
	Divertor      float64 `json:"divertor"`
	DEC           float64 `json:"dec"`
	TargetFactory float64 `json:"target_factory"`
	FuelHandling  float64 `json:"fuel_handling"`
	HeatTransfer  float64 `json:"heat_transfer"`
	Installation  float64 `json:"installation"`
	Total         float64 `json:"total"`
}

// Result is the complete cost output in M$ (annual accounts in M$/yr).
type Result struct {
	CAS10       float64      `json:"cas10"`
	CAS21       float64      `json:"cas21"`
	CAS22       float64      `json:"cas22"`
	CAS22Detail ReactorPlant `json:"cas22_detail"`
	CAS23       float64      `json:"cas23"`
	CAS24       float64      `json:"cas24"`
	CAS25       float64      `json:"cas25"`
	CAS26       float64      `json:"cas26"`
	CAS27       float64      `json:"cas27"`
	CAS28       float64      `json:"cas28"`
	CAS29       float64      `json:"cas29"`
	CAS20       float64      `json:"cas20"`
	CAS30       float64      `json:"cas30"`
	CAS40       float64      `json:"cas40"`
	CAS50       float64      `json:"cas50"`
	CAS60       float64      `json:"cas60"`
	CAS70       float64      `json:"cas70"`
	CAS80       float64      `json:"cas80"`
	CAS90       float64      `json:"cas90"`

	Overnight      float64 `json:"overnight"`
	TotalCapital   float64 `json:"total_capital"`
	OvernightPerKW float64 `json:"overnight_per_kw"` // $/kW net
	AnnualCost     float64 `json:"annual_cost"`
	LCOE           float64 `json:"lcoe"` // $/MWh
}

// Line is one row of the account breakdown.
type Line struct {
	Code  string  `json:"code"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

var accountNames = map[string]string{
	"cas10": "Pre-construction",
	"cas21": "Buildings",
	"cas22": "Reactor plant equipment",
	"cas23": "Turbine plant equipment",
	"cas24": "Electric plant equipment",
	"cas25": "Miscellaneous plant equipment",
	"cas26": "Heat rejection",
	"cas27": "Special materials",
	"cas28": "Digital twin",
	"cas29": "Contingency",
	"cas20": "Direct costs",
	"cas30": "Indirect services",
	"cas40": "Owner's costs",
	"cas50": "Supplementary costs",
	"cas60": "Interest during construction",
	"cas70": "Annualized O&M",
	"cas80": "Annualized fuel",
	"cas90": "Annualized capital",
}

// Accounts lists the accounts with CAS20 after its parts.
func (r Result) Accounts() []Line {
	values := map[string]float64{
		"cas10": r.CAS10, "cas21": r.CAS21, "cas22": r.CAS22, "cas23": r.CAS23,
		"cas24": r.CAS24, "cas25": r.CAS25, "cas26": r.CAS26, "cas27": r.CAS27,
		"cas28": r.CAS28, "cas29": r.CAS29, "cas20": r.CAS20, "cas30": r.CAS30,
		"cas40": r.CAS40, "cas50": r.CAS50, "cas60": r.CAS60, "cas70": r.CAS70,
		"cas80": r.CAS80, "cas90": r.CAS90,
	}
	lines := make([]Line, 0, len(values))
	for _, code := range AccountCodes() {
		lines = append(lines, Line{Code: code, Name: accountNames[code], Value: values[code]})
	}
	return lines
}

var accountOrder = []string{
	"cas10", "cas21", "cas22", "cas23", "cas24", "cas25", "cas26", "cas27", "cas28", "cas29",
	"cas20", "cas30", "cas40", "cas50", "cas60", "cas70", "cas80", "cas90",
}

// AccountCodes returns every account code in report order. All but the
// CAS20 subtotal can be pinned through cost overrides.
func AccountCodes() []string {
	return append([]string(nil), accountOrder...)
}

// FuelFactors are the fuel-dependent scalars used inside the accounts.
// They are plain multipliers so the accounts stay smooth in every
// continuous input once the fuel is fixed.
type FuelFactors struct {
	Breeding      float64 `json:"breeding"` // 1 for DT, 0 otherwise
	Tritium       float64 `json:"tritium"`
	BuildingScale float64 `json:"building_scale"`
	LicensingCost float64 `json:"licensing_cost"` // M$
	LicensingTime float64 `json:"licensing_time"` // yr
}

// FuelFactorsFor resolves the factors of fuel f.
func FuelFactorsFor(c Constants, f plant.Fuel) FuelFactors {
	breeding := 0.0
	if f == plant.DT {
		breeding = 1
	}
	return FuelFactors{
		Breeding:      breeding,
		Tritium:       c.TritiumScale.For(f),
		BuildingScale: c.BuildingScale.For(f),
		LicensingCost: c.LicensingCost.For(f),
		LicensingTime: c.LicensingTime.For(f),
	}
}

// Inputs are the per-evaluation quantities the accounts read. Power is
// per module.
type Inputs struct {
	Power       physics.PowerTable
	Eng         physics.Engineering
	Consumption physics.Consumption

	NMod               int
	Availability       float64
	LifetimeYr         float64
	ConstructionTimeYr float64
	InterestRate       float64
	InflationRate      float64
	NOAK               bool

	// Overrides pins accounts by code to fixed values.
	Overrides map[string]float64
}

// Model prices plants of one concept and fuel. The concept's confinement
// account and the fuel factors are bound when the Model is built.
type Model struct {
	constants   Constants
	factors     FuelFactors
	confinement ConfinementFunc
}

// NewModel binds the accounts for concept and fuel.
func NewModel(c Constants, concept plant.Concept, fuel plant.Fuel) (*Model, error) {
	conf, err := ConfinementFor(concept)
	if err != nil {
		return nil, err
	}
	return &Model{constants: c, factors: FuelFactorsFor(c, fuel), confinement: conf}, nil
}

// Constants returns the bundle the model was built with.
func (m *Model) Constants() Constants { return m.constants }

// Factors returns the bound fuel factors.
func (m *Model) Factors() FuelFactors { return m.factors }

// Compute prices one operating point.
func (m *Model) Compute(in Inputs) (Result, error) {
	for code := range in.Overrides {
		if _, ok := accountNames[code]; !ok {
			return Result{}, costerr.Input("cost_overrides", "unknown cost account %q", code)
		}
		if code == "cas20" {
			return Result{}, costerr.Input("cost_overrides", "cas20 is the sum of cas21 through cas29; pin those accounts instead")
		}
	}
	if in.NMod < 1 {
		return Result{}, costerr.Input("n_mod", "module count must be >= 1, got %d", in.NMod)
	}
	pin := func(code string, v float64) float64 {
		if o, ok := in.Overrides[code]; ok {
			return o
		}
		return v
	}

	c, f, pt := m.constants, m.factors, in.Power
	n := float64(in.NMod)
	pNet := pt.PNet * n
	projectYears := f.LicensingTime + in.ConstructionTimeYr

	var r Result
	r.CAS10 = pin("cas10", cas10(c, f, pNet))
	r.CAS21 = pin("cas21", n*cas21(c, f, pt.PET))
	r.CAS22Detail = cas22(c, f, m.confinement, pt, in.Eng)
	r.CAS22 = pin("cas22", n*r.CAS22Detail.Total)
	r.CAS23 = pin("cas23", n*perKW(c.Turbine, pt.PET))
	r.CAS24 = pin("cas24", n*perKW(c.Electrical, pt.PET))
	r.CAS25 = pin("cas25", n*perKW(c.Miscellaneous, pt.PET))
	r.CAS26 = pin("cas26", n*perKW(c.HeatRejection, pt.PET))
	r.CAS27 = pin("cas27", n*c.SpecialMaterials*pt.PTh)
	r.CAS28 = pin("cas28", c.DigitalTwin)
	subtotal := r.CAS21 + r.CAS22 + r.CAS23 + r.CAS24 + r.CAS25 + r.CAS26 + r.CAS27 + r.CAS28
	r.CAS29 = pin("cas29", cas29(c, subtotal, in.NOAK))
	r.CAS20 = subtotal + r.CAS29

	r.CAS30 = pin("cas30", cas30(c, pNet, in.ConstructionTimeYr))
	r.CAS40 = pin("cas40", c.OwnersFrac*r.CAS20)
	r.CAS50 = pin("cas50", c.SparePartsFrac*(r.CAS22+r.CAS23+r.CAS24+r.CAS25+r.CAS26)+c.Supplementary)
	r.CAS60 = pin("cas60", c.IDCRate*pNet*projectYears)

	r.Overnight = r.CAS10 + r.CAS20 + r.CAS30 + r.CAS40 + r.CAS50
	r.TotalCapital = r.Overnight + r.CAS60
	if pNet > 0 {
		r.OvernightPerKW = r.Overnight * 1e3 / pNet
	}

	r.CAS70 = pin("cas70", economics.LevelizedAnnualCost(perKW(c.OMPerKWYr, pNet), in.InflationRate, projectYears))
	fuel := cas80(c, in.Consumption, pt.PFus*n, in.Availability)
	r.CAS80 = pin("cas80", economics.LevelizedAnnualCost(fuel, in.InflationRate, projectYears))

	crf, err := economics.EffectiveCRF(in.InterestRate, in.LifetimeYr, in.ConstructionTimeYr)
	if err != nil {
		return Result{}, err
	}
	r.CAS90 = pin("cas90", crf*r.TotalCapital)

	r.AnnualCost = r.CAS90 + r.CAS70 + r.CAS80
	lcoe, err := economics.LCOE(r.CAS90, r.CAS70, r.CAS80, pt.PNet, in.NMod, in.Availability)
	if err != nil {
		return Result{}, fmt.Errorf("levelizing costs: %w", err)
	}
	r.LCOE = lcoe
	return r, nil
}

// perKW converts a $/kW unit cost at mw megawatts to M$.
func perKW(dollarsPerKW, mw float64) float64 {
	return dollarsPerKW * mw * 1e-3
}

func cas10(c Constants, f FuelFactors, pNet float64) float64 {
	land := c.LandIntensity * pNet * c.LandCost
	licensing := f.LicensingCost + f.LicensingTime*c.LicensingStaff
	return land + c.Permits + licensing + c.PlantStudies + c.PlantReports + c.OtherPreConstruc
}

func cas21(c Constants, f FuelFactors, pET float64) float64 {
	b := c.Buildings
	nuclear := b.FusionHeatIsland + b.Reactor + b.HotCell + b.Ventilation
	conventional := b.SiteImprovements + b.TurbineBuilding + b.HeatExchanger + b.PowerSupply +
		b.Administration + b.Control + b.Maintenance + b.Warehouse + b.Cryogenics
	return perKW(conventional+f.BuildingScale*nuclear, pET)
}

func cas22(c Constants, f FuelFactors, confinement ConfinementFunc, pt physics.PowerTable, e physics.Engineering) ReactorPlant {
	// Wall-plug power drawn by coils and heating systems.
	supplied := e.PCoils
	if e.EtaPin > 0 {
		supplied += e.PInput / e.EtaPin
	}
	rp := ReactorPlant{
		Blanket:       c.BlanketPerMW * pt.PNeutron,
		Breeding:      f.Breeding * c.BreedingPerMW * pt.PNeutron,
		Shield:        c.ShieldPerMW * pt.PNeutron,
		Confinement:   confinement(c.Confinement, pt),
		Heating:       c.HeatingPerMW * e.PInput,
		Structure:     c.StructurePerMWth * pt.PTh,
		Vacuum:        c.VacuumPerMW * pt.PFus,
		PowerSupplies: c.PowerSuppliesPerMW * supplied,
		Divertor:      c.DivertorPerMW * pt.PWall,
		DEC:           c.DECPerMW * pt.PDEE,
		TargetFactory: c.TargetFactoryPerMW * pt.PTarget,
		FuelHandling:  c.FuelHandlingBase + f.Tritium*c.TritiumPlant,
		HeatTransfer:  c.HeatTransferPerMWth * pt.PTh,
	}
	equipment := rp.Blanket + rp.Breeding + rp.Shield + rp.Confinement + rp.Heating +
		rp.Structure + rp.Vacuum + rp.PowerSupplies + rp.Divertor + rp.DEC +
		rp.TargetFactory + rp.FuelHandling + rp.HeatTransfer
	rp.Installation = c.InstallationFrac * equipment
	rp.Total = equipment + rp.Installation
	return rp
}

func cas29(c Constants, subtotal float64, noak bool) float64 {
	if noak {
		return c.ContingencyNOAK * subtotal
	}
	return c.ContingencyFOAK * subtotal
}

// cas30 scales each indirect service as coeff·P·(P/P_ref)^exp·t_con.
func cas30(c Constants, pNet, constructionYears float64) float64 {
	if pNet <= 0 {
		return 0
	}
	scale := pNet * math.Pow(pNet/c.IndirectRef, c.IndirectExp) * constructionYears
	return (c.FieldOffice + c.ConstructionSvc + c.DesignSvc) * scale
}

// cas80 is the today's-dollar annual fuel bill in M$.
func cas80(c Constants, use physics.Consumption, pFus, availability float64) float64 {
	mjPerYear := pFus * physics.SecondsPerYear * availability
	dollarsPerMJ := use.DeuteriumKgPerMJ*c.FuelPrice.Deuterium +
		use.Helium3KgPerMJ*c.FuelPrice.Helium3 +
		use.Boron11KgPerMJ*c.FuelPrice.Boron11 +
		use.ProtonKgPerMJ*c.FuelPrice.Protium
	return dollarsPerMJ * mjPerYear / 1e6
}
