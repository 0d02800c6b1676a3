package physics

import (
	"github.com/1cFE/1costingfe/pkg/costerr"
	"github.com/1cFE/1costingfe/pkg/plant"
)

// line is y = Slope·p_fus + Offset.
type line struct {
	Slope, Offset float64
}

// regime is one affine branch of a family's power balance: gross electric
// power is a line in fusion power and the recirculating load is a fixed
// part plus f_sub·p_et. valid reports whether the branch applies at a
// given fusion power.
type regime struct {
	gross  line
	recirc float64
	valid  func(pFus float64) bool
}

func always(float64) bool { return true }

// Balance is the forward and inverse power balance of one confinement
// family. It is selected once per model and then called uniformly.
type Balance struct {
	Family   plant.Family
	Required []string

	forward   func(pFus float64, e Engineering, ashFrac float64) PowerTable
	linearize func(e Engineering, ashFrac float64) []regime
}

// BalanceFor returns the power balance of family f.
func BalanceFor(f plant.Family) (Balance, error) {
	required, err := RequiredParams(f)
	if err != nil {
		return Balance{}, err
	}
	b := Balance{Family: f, Required: required}
	switch f {
	case plant.MFE:
		b.forward, b.linearize = mfeForward, mfeRegimes
	case plant.IFE:
		b.forward, b.linearize = ifeForward, ifeRegimes
	case plant.MIF:
		b.forward, b.linearize = mifForward, mifRegimes
	}
	return b, nil
}

// Forward computes the power table at fusion power pFus. A non-positive
// net electric power is a valid result here; callers decide whether it
// is acceptable.
func (b Balance) Forward(pFus float64, e Engineering, ashFrac float64) (PowerTable, error) {
	if pFus <= 0 {
		return PowerTable{}, costerr.Input("p_fus", "fusion power must be > 0, got %g MW", pFus)
	}
	return b.forward(pFus, e, ashFrac), nil
}

// NetCoefficients returns A and B of p_net = A·p_fus + B for the branch
// that applies at pFus.
func (b Balance) NetCoefficients(e Engineering, ashFrac, pFus float64) (a, c float64) {
	regimes := b.linearize(e, ashFrac)
	r := regimes[0]
	for _, candidate := range regimes {
		if candidate.valid(pFus) {
			r = candidate
			break
		}
	}
	return netLine(r, e.FSub)
}

func netLine(r regime, fSub float64) (a, c float64) {
	return (1 - fSub) * r.gross.Slope, (1-fSub)*r.gross.Offset - r.recirc
}

// Inverse returns the fusion power that delivers pNet of net electric
// power. Every branch is affine in fusion power, so the answer is the
// closed form (pNet − B)/A of the branch consistent with it.
func (b Balance) Inverse(pNet float64, e Engineering, ashFrac float64) (float64, error) {
	if pNet <= 0 {
		return 0, costerr.Input(plant.ParamNetElectric, "net electric target must be > 0, got %g MW", pNet)
	}
	growing := false
	var required float64
	for _, r := range b.linearize(e, ashFrac) {
		a, c := netLine(r, e.FSub)
		if a <= 0 {
			continue
		}
		growing = true
		pFus := (pNet - c) / a
		if pFus > 0 && r.valid(pFus) {
			return pFus, nil
		}
		required = pFus
	}
	if !growing {
		return 0, costerr.Infeasible("net electric power does not increase with fusion power; the %s plant can never deliver %.1f MW", b.Family, pNet)
	}
	return 0, costerr.Infeasible("net electric target %.1f MW needs non-physical fusion power %.3g MW", pNet, required)
}
