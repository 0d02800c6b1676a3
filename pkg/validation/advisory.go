package validation

import (
	"fmt"

	"github.com/1cFE/1costingfe/pkg/physics"
)

// CheckPowerTable inspects an evaluated operating point. Non-positive net
// electric power is a physical error; the remaining checks are advisory.
func CheckPowerTable(pt physics.PowerTable) *Report {
	r := NewReport()

	if pt.PNet <= 0 {
		r.AddError(Result{
			Level:       LevelPhysical,
			Message:     fmt.Sprintf("net electric power %.1f MW is not positive: recirculating power %.1f MW exceeds gross %.1f MW", pt.PNet, pt.PRecirc, pt.PET),
			Param:       "p_net",
			ActualValue: pt.PNet,
			Expected:    "> 0",
		})
		return r
	}

	if pt.PInput > 0 && pt.QSci < 1 {
		r.AddWarning(Result{
			Level:       LevelAdvisory,
			Message:     fmt.Sprintf("scientific Q %.2f is below breakeven", pt.QSci),
			Param:       "q_sci",
			ActualValue: pt.QSci,
			Expected:    ">= 1",
		})
	}
	if pt.RecFrac > 0.5 {
		r.AddWarning(Result{
			Level:       LevelAdvisory,
			Message:     fmt.Sprintf("recirculating fraction %.2f: more than half of gross power feeds the plant", pt.RecFrac),
			Param:       "rec_frac",
			ActualValue: pt.RecFrac,
			Expected:    "<= 0.5",
		})
	}
	if pt.QEng < 2 {
		r.AddWarning(Result{
			Level:       LevelAdvisory,
			Message:     fmt.Sprintf("engineering Q %.2f is low", pt.QEng),
			Param:       "q_eng",
			ActualValue: pt.QEng,
			Expected:    ">= 2",
		})
	}
	if pt.RadClamped {
		r.AddWarning(Result{
			Level:       LevelAdvisory,
			Message:     "radiated power is clamped to the charged-particle power",
			Param:       "p_rad",
			ActualValue: pt.PRad,
			Suggestions: []string{"lower Z_eff or n_e", "raise r_wall", "set p_rad explicitly"},
		})
	}

	return r
}
