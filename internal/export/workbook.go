// Package export writes costing results to an Excel workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/1cFE/1costingfe/pkg/analysis"
	"github.com/1cFE/1costingfe/pkg/model"
)

// Sheet names.
const (
	SheetSummary     = "Summary"
	SheetPower       = "Power"
	SheetCosts       = "Costs"
	SheetParams      = "Params"
	SheetSensitivity = "Sensitivity"
	SheetComparison  = "Comparison"
	SheetSweep       = "Sweep"
)

const defaultSheet = "Sheet1"

// Workbook accumulates result sheets. Each Add call creates one or more
// sheets; adding the same kind twice is an error.
type Workbook struct {
	f      *excelize.File
	sheets int
}

// NewWorkbook returns an empty workbook.
func NewWorkbook() *Workbook {
	return &Workbook{f: excelize.NewFile()}
}

// AddForward writes the summary, power table, cost accounts and resolved
// parameters of res.
func (w *Workbook) AddForward(res *model.ForwardResult) error {
	summary := [][]any{
		{"Concept", string(res.Concept)},
		{"Fuel", res.Fuel.Label()},
		{"Family", string(res.Family)},
		{"Net electric (MW)", res.Power.PNet},
		{"Fusion power (MW)", res.Power.PFus},
		{"Modules", res.Requirements.NMod},
		{"Availability", res.Requirements.Availability},
		{"Overnight ($/kW)", res.Costs.OvernightPerKW},
		{"Total capital (M$)", res.Costs.TotalCapital},
		{"Annual cost (M$/yr)", res.Costs.AnnualCost},
		{"LCOE ($/MWh)", res.Costs.LCOE},
	}
	for _, msg := range res.Report.Messages() {
		summary = append(summary, []any{"Advisory", msg})
	}
	if err := w.sheet(SheetSummary, []string{"Item", "Value"}, summary); err != nil {
		return err
	}

	var power [][]any
	for _, f := range res.Power.Flows() {
		power = append(power, []any{f.Key, f.Value, f.Unit})
	}
	if err := w.sheet(SheetPower, []string{"Flow", "Value", "Unit"}, power); err != nil {
		return err
	}

	var costs [][]any
	for _, l := range res.Costs.Accounts() {
		costs = append(costs, []any{l.Code, l.Name, l.Value})
	}
	if err := w.sheet(SheetCosts, []string{"Account", "Name", "M$"}, costs); err != nil {
		return err
	}

	var params [][]any
	for _, name := range res.Params.Names() {
		params = append(params, []any{name, res.Params.Value(name)})
	}
	return w.sheet(SheetParams, []string{"Parameter", "Value"}, params)
}

// AddSensitivity writes one row per parameter.
func (w *Workbook) AddSensitivity(s *analysis.SensitivityResult) error {
	rows := make([][]any, 0, len(s.Entries))
	for _, e := range s.Entries {
		rows = append(rows, []any{e.Param, e.Value, e.Derivative, e.Elasticity})
	}
	return w.sheet(SheetSensitivity, []string{"Parameter", "Value", "dLCOE/dp", "Elasticity"}, rows)
}

// AddComparison writes the ranked pairs followed by the skipped ones.
func (w *Workbook) AddComparison(c *analysis.Comparison) error {
	rows := make([][]any, 0, len(c.Ranked)+len(c.Skipped))
	for i, r := range c.Ranked {
		rows = append(rows, []any{i + 1, string(r.Concept), r.Fuel.Label(), r.Power.PFus, r.Costs.OvernightPerKW, r.Costs.LCOE, ""})
	}
	for _, s := range c.Skipped {
		rows = append(rows, []any{"", string(s.Pair.Concept), s.Pair.Fuel.Label(), "", "", "", s.Error})
	}
	return w.sheet(SheetComparison, []string{"Rank", "Concept", "Fuel", "p_fus (MW)", "Overnight ($/kW)", "LCOE ($/MWh)", "Error"}, rows)
}

// AddSweep writes the sweep points.
func (w *Workbook) AddSweep(s *analysis.SweepResult) error {
	rows := make([][]any, 0, len(s.Points))
	for _, p := range s.Points {
		if p.Err != "" {
			rows = append(rows, []any{p.Value, "", "", "", p.Err})
			continue
		}
		rows = append(rows, []any{p.Value, p.LCOE, p.PFus, p.QEng, ""})
	}
	return w.sheet(SheetSweep, []string{s.Param, "LCOE ($/MWh)", "p_fus (MW)", "Q_eng", "Error"}, rows)
}

// Write streams the workbook as xlsx.
func (w *Workbook) Write(out io.Writer) error {
	if w.sheets == 0 {
		return fmt.Errorf("workbook has no sheets")
	}
	return w.f.Write(out)
}

// SaveAs writes the workbook to path.
func (w *Workbook) SaveAs(path string) error {
	if w.sheets == 0 {
		return fmt.Errorf("workbook has no sheets")
	}
	if err := w.f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}

// Close releases the workbook's temporary files.
func (w *Workbook) Close() error {
	return w.f.Close()
}

func (w *Workbook) sheet(name string, header []string, rows [][]any) error {
	if idx, _ := w.f.GetSheetIndex(name); idx >= 0 {
		return fmt.Errorf("sheet %s already written", name)
	}
	if w.sheets == 0 {
		if err := w.f.SetSheetName(defaultSheet, name); err != nil {
			return fmt.Errorf("naming sheet %s: %w", name, err)
		}
	} else if _, err := w.f.NewSheet(name); err != nil {
		return fmt.Errorf("creating sheet %s: %w", name, err)
	}
	w.sheets++

	hdr := make([]any, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	if err := w.f.SetSheetRow(name, "A1", &hdr); err != nil {
		return fmt.Errorf("writing %s header: %w", name, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := w.f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", name, i+2, err)
		}
	}
	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	return w.f.SetColWidth(name, "A", last, 18)
}
