package physics

// PowerTable holds the power flows of one operating point. Powers are in
// MW; QSci, QEng and RecFrac are dimensionless.
type PowerTable struct {
	PFus       float64 `json:"p_fus"`
	PAsh       float64 `json:"p_ash"`
	PNeutron   float64 `json:"p_neutron"`
	PRad       float64 `json:"p_rad"`
	PTransport float64 `json:"p_transport"`
	PDEE       float64 `json:"p_dee"` // direct-conversion electric
	PDECWaste  float64 `json:"p_dec_waste"`
	PWall      float64 `json:"p_wall"`
	PInput     float64 `json:"p_input"` // external heating / driver energy delivered
	PTh        float64 `json:"p_th"`
	PThe       float64 `json:"p_the"`
	PET        float64 `json:"p_et"` // gross electric
	PLoss      float64 `json:"p_loss"`
	PPump      float64 `json:"p_pump"`
	PSub       float64 `json:"p_sub"`
	PAux       float64 `json:"p_aux"`
	PCoils     float64 `json:"p_coils"`
	PCool      float64 `json:"p_cool"`
	PCryo      float64 `json:"p_cryo"`
	PTarget    float64 `json:"p_target"`
	PImplosion float64 `json:"p_implosion"`
	PIgnition  float64 `json:"p_ignition"`
	PDriver    float64 `json:"p_driver"`
	PRecirc    float64 `json:"p_recirc"`
	PNet       float64 `json:"p_net"`
	QSci       float64 `json:"q_sci"` // 0 when there is no external heating
	QEng       float64 `json:"q_eng"`
	RecFrac    float64 `json:"rec_frac"`

	RadClamped bool `json:"rad_clamped"`
}

// close fills the derived ratios and the net electric power.
func (pt *PowerTable) close() {
	pt.PLoss = pt.PTh - pt.PThe
	if pt.PInput > 0 {
		pt.QSci = pt.PFus / pt.PInput
	}
	// p_net = p_et·(1 − 1/Q_eng), written without the division so that
	// p_et = 0 stays finite.
	pt.PNet = pt.PET - pt.PRecirc
	if pt.PRecirc > 0 {
		pt.QEng = pt.PET / pt.PRecirc
	}
	if pt.PET > 0 {
		pt.RecFrac = pt.PRecirc / pt.PET
	}
}

// Flow is one labeled entry of a power table.
type Flow struct {
	Key   string
	Value float64
	Unit  string
}

// Flows lists the table in reporting order. Entries that are always zero
// for the table's family are still listed.
func (pt PowerTable) Flows() []Flow {
	mw := func(k string, v float64) Flow { return Flow{Key: k, Value: v, Unit: "MW"} }
	return []Flow{
		mw("p_fus", pt.PFus), mw("p_ash", pt.PAsh), mw("p_neutron", pt.PNeutron),
		mw("p_rad", pt.PRad), mw("p_transport", pt.PTransport), mw("p_wall", pt.PWall),
		mw("p_input", pt.PInput), mw("p_dee", pt.PDEE), mw("p_dec_waste", pt.PDECWaste),
		mw("p_th", pt.PTh), mw("p_the", pt.PThe), mw("p_et", pt.PET), mw("p_loss", pt.PLoss),
		mw("p_pump", pt.PPump), mw("p_sub", pt.PSub), mw("p_aux", pt.PAux),
		mw("p_coils", pt.PCoils), mw("p_cool", pt.PCool), mw("p_cryo", pt.PCryo),
		mw("p_target", pt.PTarget), mw("p_implosion", pt.PImplosion), mw("p_ignition", pt.PIgnition),
		mw("p_driver", pt.PDriver), mw("p_recirc", pt.PRecirc), mw("p_net", pt.PNet),
		{Key: "q_sci", Value: pt.QSci}, {Key: "q_eng", Value: pt.QEng}, {Key: "rec_frac", Value: pt.RecFrac},
	}
}
