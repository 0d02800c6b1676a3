package cost

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1cFE/1costingfe/pkg/costerr"
	"github.com/1cFE/1costingfe/pkg/plant"
)

// FuelTable holds one value per fuel.
type FuelTable struct {
	DT   float64 `yaml:"dt" json:"dt"`
	DD   float64 `yaml:"dd" json:"dd"`
	DHe3 float64 `yaml:"dhe3" json:"dhe3"`
	PB11 float64 `yaml:"pb11" json:"pb11"`
}

// For returns the entry for fuel f.
func (t FuelTable) For(f plant.Fuel) float64 {
	switch f {
	case plant.DD:
		return t.DD
	case plant.DHe3:
		return t.DHe3
	case plant.PB11:
		return t.PB11
	}
	return t.DT
}

// Buildings are CAS21 unit costs in $/kW of gross electric power.
type Buildings struct {
	SiteImprovements float64 `yaml:"site_improvements"`
	FusionHeatIsland float64 `yaml:"fusion_heat_island"` // nuclear grade
	TurbineBuilding  float64 `yaml:"turbine_building"`
	HeatExchanger    float64 `yaml:"heat_exchanger"`
	PowerSupply      float64 `yaml:"power_supply"`
	Reactor          float64 `yaml:"reactor_auxiliaries"` // nuclear grade
	HotCell          float64 `yaml:"hot_cell"`            // nuclear grade
	Administration   float64 `yaml:"administration"`
	Control          float64 `yaml:"control_room"`
	Maintenance      float64 `yaml:"maintenance"`
	Warehouse        float64 `yaml:"warehouse"`
	Cryogenics       float64 `yaml:"cryogenics"`
	Ventilation      float64 `yaml:"ventilation"` // nuclear grade
}

// Confinement holds the concept-specific CAS22 core unit costs.
type Confinement struct {
	CoilPerMWFus      float64 `yaml:"coil_per_mw_fus"` // M$ per MW fusion
	StellaratorFactor float64 `yaml:"stellarator_factor"`
	MirrorFactor      float64 `yaml:"mirror_factor"`
	LaserPerMW        float64 `yaml:"laser_per_mw"`        // M$ per MW driver energy
	HeavyIonPerMW     float64 `yaml:"heavy_ion_per_mw"`    // M$ per MW driver energy
	PulsedPowerPerMW  float64 `yaml:"pulsed_power_per_mw"` // M$ per MW driver energy
	ZPinchFactor      float64 `yaml:"zpinch_factor"`
	PlasmaJetFactor   float64 `yaml:"plasma_jet_factor"`
	MIFCoilPerMW      float64 `yaml:"mif_coil_per_mw"` // M$ per MW coil power
}

// Constants is the costing coefficient bundle. It is a value type and is
// never changed after construction; WithOverrides returns a new bundle.
// Money is in M$ unless a field says otherwise.
type Constants struct {
	// CAS10 pre-construction
	LandIntensity    float64   `yaml:"land_intensity"` // acre per MWe
	LandCost         float64   `yaml:"land_cost"`      // M$ per acre
	Permits          float64   `yaml:"permits"`
	LicensingCost    FuelTable `yaml:"licensing_cost"`
	LicensingTime    FuelTable `yaml:"licensing_time"` // yr
	LicensingStaff   float64   `yaml:"licensing_staff"` // M$ per yr of licensing
	PlantStudies     float64   `yaml:"plant_studies"`
	PlantReports     float64   `yaml:"plant_reports"`
	OtherPreConstruc float64   `yaml:"other_pre_construction"`

	// CAS21 buildings
	Buildings     Buildings `yaml:"buildings"`
	BuildingScale FuelTable `yaml:"building_scale"` // nuclear-grade multiplier

	// CAS22 reactor plant equipment
	BlanketPerMW        float64     `yaml:"blanket_per_mw"`  // per MW neutron
	BreedingPerMW       float64     `yaml:"breeding_per_mw"` // per MW neutron, DT only
	ShieldPerMW         float64     `yaml:"shield_per_mw"`   // per MW neutron
	Confinement         Confinement `yaml:"confinement"`
	HeatingPerMW        float64     `yaml:"heating_per_mw"`   // per MW delivered
	StructurePerMWth    float64     `yaml:"structure_per_mw"` // per MW thermal
	VacuumPerMW         float64     `yaml:"vacuum_per_mw"`    // per MW fusion
	PowerSuppliesPerMW  float64     `yaml:"power_supplies_per_mw"`
	DivertorPerMW       float64     `yaml:"divertor_per_mw"` // per MW wall load
	DECPerMW            float64     `yaml:"dec_per_mw"`      // per MW direct electric
	TargetFactoryPerMW  float64     `yaml:"target_factory_per_mw"`
	FuelHandlingBase    float64     `yaml:"fuel_handling_base"`
	TritiumPlant        float64     `yaml:"tritium_plant"`
	TritiumScale        FuelTable   `yaml:"tritium_scale"`
	HeatTransferPerMWth float64     `yaml:"heat_transfer_per_mw"`
	InstallationFrac    float64     `yaml:"installation_frac"`

	// CAS23-CAS28, $/kW gross electric unless noted
	Turbine          float64 `yaml:"turbine"`
	Electrical       float64 `yaml:"electrical"`
	Miscellaneous    float64 `yaml:"miscellaneous"`
	HeatRejection    float64 `yaml:"heat_rejection"`
	SpecialMaterials float64 `yaml:"special_materials_per_mw"` // M$ per MW thermal
	DigitalTwin      float64 `yaml:"digital_twin"`

	// CAS29 contingency
	ContingencyFOAK float64 `yaml:"contingency_foak"`
	ContingencyNOAK float64 `yaml:"contingency_noak"`

	// CAS30 indirect services: coeff·P·(P/RefPower)^Exponent·t_con
	FieldOffice     float64 `yaml:"field_office"`
	ConstructionSvc float64 `yaml:"construction_services"`
	DesignSvc       float64 `yaml:"design_services"`
	IndirectRef     float64 `yaml:"indirect_ref_power"` // MW
	IndirectExp     float64 `yaml:"indirect_exponent"`

	// CAS40-CAS60
	OwnersFrac     float64 `yaml:"owners_frac"`
	SparePartsFrac float64 `yaml:"spare_parts_frac"`
	Supplementary  float64 `yaml:"supplementary_fixed"`
	IDCRate        float64 `yaml:"idc_per_mw_yr"` // M$ per MW net per project year

	// CAS70-CAS80
	OMPerKWYr float64   `yaml:"om_per_kw_yr"` // $/kW-yr
	FuelPrice FuelPrice `yaml:"fuel_price"`
}

// FuelPrice holds purchased-fuel prices in $/kg.
type FuelPrice struct {
	Deuterium float64 `yaml:"deuterium"`
	Helium3   float64 `yaml:"helium3"`
	Boron11   float64 `yaml:"boron11"`
	Protium   float64 `yaml:"protium"`
}

// DefaultConstants returns the baseline costing constants.
func DefaultConstants() Constants {
	return Constants{
		LandIntensity:    0.25,
		LandCost:         0.01,
		Permits:          10,
		LicensingCost:    FuelTable{DT: 5, DD: 3, DHe3: 1.5, PB11: 0.5},
		LicensingTime:    FuelTable{DT: 5, DD: 3, DHe3: 2, PB11: 1},
		LicensingStaff:   2,
		PlantStudies:     20,
		PlantReports:     2,
		OtherPreConstruc: 1,

		Buildings: Buildings{
			SiteImprovements: 30,
			FusionHeatIsland: 120,
			TurbineBuilding:  60,
			HeatExchanger:    25,
			PowerSupply:      20,
			Reactor:          40,
			HotCell:          50,
			Administration:   10,
			Control:          15,
			Maintenance:      25,
			Warehouse:        10,
			Cryogenics:       15,
			Ventilation:      30,
		},
		BuildingScale: FuelTable{DT: 1, DD: 0.8, DHe3: 0.6, PB11: 0.5},

		BlanketPerMW:  0.15,
		BreedingPerMW: 0.10,
		ShieldPerMW:   0.05,
		Confinement: Confinement{
			CoilPerMWFus:      0.30,
			StellaratorFactor: 1.5,
			MirrorFactor:      0.6,
			LaserPerMW:        30,
			HeavyIonPerMW:     40,
			PulsedPowerPerMW:  15,
			ZPinchFactor:      0.8,
			PlasmaJetFactor:   1.2,
			MIFCoilPerMW:      20,
		},
		HeatingPerMW:        5,
		StructurePerMWth:    0.04,
		VacuumPerMW:         0.02,
		PowerSuppliesPerMW:  0.2,
		DivertorPerMW:       0.03,
		DECPerMW:            1.0,
		TargetFactoryPerMW:  100,
		FuelHandlingBase:    30,
		TritiumPlant:        100,
		TritiumScale:        FuelTable{DT: 1, DD: 0.5, DHe3: 0.1, PB11: 0},
		HeatTransferPerMWth: 0.08,
		InstallationFrac:    0.14,

		Turbine:          150,
		Electrical:       80,
		Miscellaneous:    40,
		HeatRejection:    60,
		SpecialMaterials: 0.02,
		DigitalTwin:      5,

		ContingencyFOAK: 0.15,
		ContingencyNOAK: 0.05,

		FieldOffice:     0.060,
		ConstructionSvc: 0.052,
		DesignSvc:       0.052,
		IndirectRef:     150,
		IndirectExp:     -0.5,

		OwnersFrac:     0.05,
		SparePartsFrac: 0.05,
		Supplementary:  38,
		IDCRate:        0.099,

		OMPerKWYr: 60,
		FuelPrice: FuelPrice{Deuterium: 2175, Helium3: 2e6, Boron11: 10000, Protium: 5},
	}
}

// WithOverrides returns a copy of c with the named fields replaced. Names
// are yaml field names; nested fields use dots ("licensing_cost.dt",
// "confinement.laser_per_mw"). Unknown names are input errors.
func (c Constants) WithOverrides(overrides map[string]float64) (Constants, error) {
	if len(overrides) == 0 {
		return c, nil
	}
	tree := map[string]any{}
	for name, v := range overrides {
		parts := strings.Split(name, ".")
		node := tree
		for _, p := range parts[:len(parts)-1] {
			child, ok := node[p].(map[string]any)
			if !ok {
				child = map[string]any{}
				node[p] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = v
	}
	raw, err := yaml.Marshal(tree)
	if err != nil {
		return Constants{}, fmt.Errorf("encoding constant overrides: %w", err)
	}
	out := c
	if err := decodeStrict(raw, &out); err != nil {
		return Constants{}, costerr.Input("constant_overrides", "%v", err)
	}
	return out, nil
}

// LoadConstants reads a YAML file of constants on top of the defaults.
// Fields absent from the file keep their default values.
func LoadConstants(path string) (Constants, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Constants{}, fmt.Errorf("reading constants file: %w", err)
	}
	c := DefaultConstants()
	if err := decodeStrict(data, &c); err != nil {
		return Constants{}, fmt.Errorf("parsing constants file %s: %w", path, err)
	}
	return c, nil
}

func decodeStrict(data []byte, out *Constants) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
