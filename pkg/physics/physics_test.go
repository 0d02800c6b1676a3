package physics

import (
	"math"
	"testing"

	"github.com/1cFE/1costingfe/pkg/costerr"
	"github.com/1cFE/1costingfe/pkg/plant"
)

func testBurn() BurnFractions {
	return BurnFractions{DDFT: 0.969, DDFHe3: 0.689, DHe3DDFrac: 0.07, DHe3FT: 0.97}
}

func testEngineering(f plant.Family) Engineering {
	e := Engineering{
		MN: 1.1, EtaTh: 0.46, EtaP: 0.5, FSub: 0.03,
		PPump: 1, PTrit: 10, PHouse: 4, PCryo: 0.5,
		Burn: testBurn(),
	}
	switch f {
	case plant.MFE:
		e.PInput, e.EtaPin, e.EtaDE, e.FDec = 50, 0.5, 0.85, 0
		e.PCoils, e.PCool = 2, 13.7
		e.Ne, e.Te, e.Zeff, e.Volume, e.B, e.RWall = 1e20, 15, 1.5, 500, 5, 0.95
	case plant.IFE:
		e.PImplosion, e.PIgnition, e.EtaPin1, e.EtaPin2, e.PTarget = 10, 0.1, 0.1, 0.1, 1
	case plant.MIF:
		e.PDriver, e.EtaPin, e.PCoils, e.PTarget = 10, 0.3, 0.5, 1
	}
	return e
}

func relErr(got, want float64) float64 {
	return math.Abs(got-want) / math.Abs(want)
}

func TestAshFractionDT(t *testing.T) {
	fm, err := FuelModelFor(plant.DT)
	if err != nil {
		t.Fatal(err)
	}
	got := fm.AshFraction(testBurn())
	if math.Abs(got-0.2002) > 1e-4 {
		t.Errorf("DT ash fraction = %.5f, want ~0.2002", got)
	}
}

func TestAshFractionPB11(t *testing.T) {
	ash, neutron, err := AshNeutronSplit(100, plant.PB11, testBurn())
	if err != nil {
		t.Fatal(err)
	}
	if ash != 100 || neutron != 0 {
		t.Errorf("pB11 split = (%g, %g), want (100, 0)", ash, neutron)
	}
}

func TestAshFractionOrdering(t *testing.T) {
	b := testBurn()
	frac := map[plant.Fuel]float64{}
	for _, f := range plant.Fuels() {
		fm, err := FuelModelFor(f)
		if err != nil {
			t.Fatal(err)
		}
		frac[f] = fm.AshFraction(b)
		if frac[f] <= 0 || frac[f] > 1 {
			t.Errorf("%s ash fraction = %g, want in (0, 1]", f, frac[f])
		}
	}
	// More aneutronic fuels put more power in charged particles.
	if !(frac[plant.DT] < frac[plant.DD] && frac[plant.DD] < frac[plant.DHe3] && frac[plant.DHe3] < frac[plant.PB11]) {
		t.Errorf("ash fractions not ordered DT < DD < DHe3 < pB11: %v", frac)
	}
}

func TestSplitSumsToFusionPower(t *testing.T) {
	for _, f := range plant.Fuels() {
		for _, pFus := range []float64{1, 250, 2300, 1e5} {
			ash, neutron, err := AshNeutronSplit(pFus, f, testBurn())
			if err != nil {
				t.Fatal(err)
			}
			if relErr(ash+neutron, pFus) > 1e-12 {
				t.Errorf("%s at %g MW: ash+neutron = %g", f, pFus, ash+neutron)
			}
		}
	}
}

func TestUnknownFuel(t *testing.T) {
	_, err := FuelModelFor(plant.Fuel("dli6"))
	if !costerr.IsInput(err) {
		t.Errorf("expected input error, got %v", err)
	}
}

func TestConsumption(t *testing.T) {
	b := testBurn()
	dt := consumptionDT(b)
	// One deuteron per 17.58 MeV: 3.34e-27 kg / 2.817e-12 J ≈ 1.19e-9 kg/MJ.
	if math.Abs(dt.DeuteriumKgPerMJ-1.187e-9)/1.187e-9 > 0.01 {
		t.Errorf("DT deuterium = %.4g kg/MJ, want ~1.187e-9", dt.DeuteriumKgPerMJ)
	}
	if dt.Helium3KgPerMJ != 0 || dt.Boron11KgPerMJ != 0 {
		t.Errorf("DT should only consume deuterium: %+v", dt)
	}

	dhe3 := consumptionDHe3(b)
	if dhe3.Helium3KgPerMJ <= 0 {
		t.Errorf("DHe3 helium-3 = %g, want > 0", dhe3.Helium3KgPerMJ)
	}
	pb := consumptionPB11(b)
	if pb.Boron11KgPerMJ <= pb.ProtonKgPerMJ {
		t.Errorf("boron mass (%g) should exceed proton mass (%g) per MJ", pb.Boron11KgPerMJ, pb.ProtonKgPerMJ)
	}
}

func TestRadiation(t *testing.T) {
	e := testEngineering(plant.MFE)
	brems := Bremsstrahlung(e.Ne, e.Te, e.Zeff, e.Volume)
	// 5.35e-37 · 1.5 · 1e40 · sqrt(15) · 500 W
	if math.Abs(brems-15.54) > 0.05 {
		t.Errorf("bremsstrahlung = %.3f MW, want ~15.54", brems)
	}
	if Bremsstrahlung(e.Ne, 0, e.Zeff, e.Volume) != 0 {
		t.Error("bremsstrahlung at zero temperature should be 0")
	}
	if Synchrotron(e.Ne, e.Te, e.B, e.Volume, 1) != 0 {
		t.Error("perfectly reflecting wall should return all synchrotron power")
	}

	e.PRadOverride, e.HasRadOverride = 42, true
	if RadiatedPower(e) != 42 {
		t.Errorf("radiation override ignored: %g", RadiatedPower(e))
	}
}

func TestRoundTrip(t *testing.T) {
	families := []plant.Family{plant.MFE, plant.IFE, plant.MIF}
	for _, fam := range families {
		bal, err := BalanceFor(fam)
		if err != nil {
			t.Fatal(err)
		}
		e := testEngineering(fam)
		for _, fuel := range plant.Fuels() {
			fm, _ := FuelModelFor(fuel)
			frac := fm.AshFraction(e.Burn)
			for _, pFus := range []float64{500, 2300, 8000} {
				pt, err := bal.Forward(pFus, e, frac)
				if err != nil {
					t.Fatal(err)
				}
				if pt.PNet <= 0 {
					continue
				}
				back, err := bal.Inverse(pt.PNet, e, frac)
				if err != nil {
					t.Errorf("%s/%s inverse at %g MW: %v", fam, fuel, pFus, err)
					continue
				}
				if relErr(back, pFus) > 1e-6 {
					t.Errorf("%s/%s round trip: %g -> %g MW", fam, fuel, pFus, back)
				}
			}
		}
	}
}

func TestRoundTripClampedRadiation(t *testing.T) {
	bal, _ := BalanceFor(plant.MFE)
	e := testEngineering(plant.MFE)
	e.PRadOverride, e.HasRadOverride = 800, true
	frac := EAlphaDT / EnergyDT

	// Below 800/0.2 = 4000 MW the radiation is clamped to the ash power.
	for _, pFus := range []float64{3000, 4000, 6000} {
		pt, _ := bal.Forward(pFus, e, frac)
		if pFus < 3999 && !pt.RadClamped {
			t.Errorf("p_fus %g: expected clamped radiation", pFus)
		}
		if pt.PRad > pt.PAsh+1e-9 {
			t.Errorf("p_fus %g: p_rad %g exceeds p_ash %g", pFus, pt.PRad, pt.PAsh)
		}
		back, err := bal.Inverse(pt.PNet, e, frac)
		if err != nil {
			t.Fatal(err)
		}
		if relErr(back, pFus) > 1e-6 {
			t.Errorf("clamped round trip: %g -> %g MW", pFus, back)
		}
	}
}

func TestEnergyConservation(t *testing.T) {
	for _, fam := range []plant.Family{plant.MFE, plant.IFE, plant.MIF} {
		bal, _ := BalanceFor(fam)
		e := testEngineering(fam)
		e.FDec = 0
		if fam == plant.MFE {
			e.FDec = 0.4
		}
		for _, fuel := range plant.Fuels() {
			fm, _ := FuelModelFor(fuel)
			pt, _ := bal.Forward(2000, e, fm.AshFraction(e.Burn))

			if relErr(pt.PAsh+pt.PNeutron, pt.PFus) > 1e-6 {
				t.Errorf("%s/%s: ash+neutron = %g, want %g", fam, fuel, pt.PAsh+pt.PNeutron, pt.PFus)
			}
			// Heat and electricity leaving the blanket, wall and converter
			// equal fusion power plus blanket gain and injected energy.
			in := pt.PFus + (e.MN-1)*pt.PNeutron + pt.PInput + e.EtaP*e.PPump
			out := pt.PTh + pt.PDEE + pt.PDECWaste
			if relErr(out, in) > 1e-6 {
				t.Errorf("%s/%s: outputs %g != inputs %g", fam, fuel, out, in)
			}
			if relErr(pt.PThe+pt.PLoss, pt.PTh) > 1e-9 {
				t.Errorf("%s/%s: p_the + p_loss != p_th", fam, fuel)
			}
			if pt.PNet > pt.PET {
				t.Errorf("%s/%s: p_net %g exceeds p_et %g", fam, fuel, pt.PNet, pt.PET)
			}
			if math.Abs(pt.PNet-pt.PET*(1-1/pt.QEng)) > 1e-6*pt.PET {
				t.Errorf("%s/%s: p_net inconsistent with Q_eng", fam, fuel)
			}
		}
	}
}

func TestFamilyLoads(t *testing.T) {
	frac := EAlphaDT / EnergyDT

	ife, _ := BalanceFor(plant.IFE)
	pt, _ := ife.Forward(2000, testEngineering(plant.IFE), frac)
	if pt.PCoils != 0 || pt.PTarget <= 0 {
		t.Errorf("IFE: p_coils = %g, p_target = %g", pt.PCoils, pt.PTarget)
	}
	if math.Abs(pt.PInput-10.1) > 1e-12 {
		t.Errorf("IFE driver energy = %g, want 10.1", pt.PInput)
	}

	mif, _ := BalanceFor(plant.MIF)
	pt, _ = mif.Forward(2000, testEngineering(plant.MIF), frac)
	if pt.PDriver != 10 || pt.PTarget <= 0 {
		t.Errorf("MIF: p_driver = %g, p_target = %g", pt.PDriver, pt.PTarget)
	}
}

func TestNetCoefficientsMatchForward(t *testing.T) {
	bal, _ := BalanceFor(plant.MFE)
	e := testEngineering(plant.MFE)
	e.FDec = 0.3
	frac := EAlphaDT / EnergyDT
	for _, pFus := range []float64{1000, 3000} {
		a, b := bal.NetCoefficients(e, frac, pFus)
		pt, _ := bal.Forward(pFus, e, frac)
		if math.Abs(a*pFus+b-pt.PNet) > 1e-9*pt.PET {
			t.Errorf("p_fus %g: A·p+B = %g, forward p_net = %g", pFus, a*pFus+b, pt.PNet)
		}
	}
}

func TestInverseInfeasible(t *testing.T) {
	bal, _ := BalanceFor(plant.MFE)
	e := testEngineering(plant.MFE)
	frac := EAlphaDT / EnergyDT

	e.FSub = 1
	if _, err := bal.Inverse(1000, e, frac); !costerr.IsInfeasible(err) {
		t.Errorf("f_sub = 1: expected infeasible error, got %v", err)
	}

	e = testEngineering(plant.MFE)
	if _, err := bal.Inverse(0, e, frac); !costerr.IsInput(err) {
		t.Errorf("zero target: expected input error, got %v", err)
	}
	if _, err := bal.Forward(-5, e, frac); !costerr.IsInput(err) {
		t.Errorf("negative fusion power: expected input error, got %v", err)
	}
}

func TestForwardNegativeNetIsValid(t *testing.T) {
	bal, _ := BalanceFor(plant.MFE)
	pt, err := bal.Forward(10, testEngineering(plant.MFE), EAlphaDT/EnergyDT)
	if err != nil {
		t.Fatalf("forward should not fail on low power: %v", err)
	}
	if pt.PNet >= 0 {
		t.Errorf("p_net at 10 MW fusion = %g, expected negative", pt.PNet)
	}
}

func TestRequiredParams(t *testing.T) {
	names, err := RequiredParams(plant.IFE)
	if err != nil {
		t.Fatal(err)
	}
	has := map[string]bool{}
	for _, n := range names {
		has[n] = true
	}
	if !has[ParamEtaPin1] || has[ParamPInput] {
		t.Errorf("IFE required params = %v", names)
	}
	if _, err := RequiredParams(plant.Family("stellar")); !costerr.IsInput(err) {
		t.Errorf("unknown family: expected input error, got %v", err)
	}
}
