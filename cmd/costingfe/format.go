package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/1cFE/1costingfe/pkg/analysis"
	"github.com/1cFE/1costingfe/pkg/model"
	"github.com/1cFE/1costingfe/pkg/plant"
	"github.com/1cFE/1costingfe/pkg/validation"
)

// printer renders results as fixed-width tables, Markdown or JSON.
type printer struct {
	out  io.Writer
	mode string
}

func (a *app) printer() printer {
	return printer{out: a.out, mode: a.output}
}

func (p printer) newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetTitle(title)
	t.SetStyle(table.StyleLight)
	return t
}

func (p printer) render(tables ...table.Writer) error {
	for i, t := range tables {
		switch p.mode {
		case "markdown":
			fmt.Fprintln(p.out, t.RenderMarkdown())
		case "table", "":
			fmt.Fprintln(p.out, t.Render())
		default:
			return fmt.Errorf("unknown output format %q", p.mode)
		}
		if i < len(tables)-1 {
			fmt.Fprintln(p.out)
		}
	}
	return nil
}

func (p printer) json(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var numberColumns = []table.ColumnConfig{
	{Number: 2, Align: text.AlignRight},
	{Number: 3, Align: text.AlignRight},
	{Number: 4, Align: text.AlignRight},
	{Number: 5, Align: text.AlignRight},
}

func (p printer) forward(res *model.ForwardResult) error {
	if p.mode == "json" {
		return p.json(res)
	}

	power := p.newTable(fmt.Sprintf("Power balance: %s/%s", res.Concept, res.Fuel.Label()))
	power.AppendHeader(table.Row{"Flow", "Value", "Unit"})
	for _, f := range res.Power.Flows() {
		if f.Value == 0 {
			continue
		}
		power.AppendRow(table.Row{f.Key, formatValue(f.Value), f.Unit})
	}
	power.SetColumnConfigs(numberColumns[:1])

	costs := p.newTable("Cost accounts (M$)")
	costs.AppendHeader(table.Row{"Account", "Name", "M$"})
	for _, l := range res.Costs.Accounts() {
		costs.AppendRow(table.Row{l.Code, l.Name, formatMoney(l.Value)})
	}
	costs.AppendFooter(table.Row{"", "Overnight", formatMoney(res.Costs.Overnight)})
	costs.SetColumnConfigs([]table.ColumnConfig{{Number: 3, Align: text.AlignRight}})

	summary := p.newTable("Summary")
	summary.AppendRows([]table.Row{
		{"Net electric", fmt.Sprintf("%.1f MW", res.Power.PNet)},
		{"Fusion power", fmt.Sprintf("%.1f MW", res.Power.PFus)},
		{"Q_eng", fmt.Sprintf("%.2f", res.Power.QEng)},
		{"Overnight cost", fmt.Sprintf("%.0f $/kW", res.Costs.OvernightPerKW)},
		{"Total capital", fmt.Sprintf("%s M$", formatMoney(res.Costs.TotalCapital))},
		{"LCOE", fmt.Sprintf("%.2f $/MWh", res.Costs.LCOE)},
	})

	if err := p.render(power, costs, summary); err != nil {
		return err
	}
	p.report(res.Report)
	return nil
}

// report prints advisory findings below a forward result.
func (p printer) report(r *validation.Report) {
	if r == nil || len(r.Warnings) == 0 {
		return
	}
	fmt.Fprintf(p.out, "\nWARNINGS (%d):\n", len(r.Warnings))
	for _, w := range r.Warnings {
		fmt.Fprintf(p.out, "  [%s] %s\n", w.Level, w.Message)
		if w.Param != "" {
			fmt.Fprintf(p.out, "    -> %s = %v\n", w.Param, w.ActualValue)
		}
		if w.Expected != "" {
			fmt.Fprintf(p.out, "    expected: %s\n", w.Expected)
		}
		for _, s := range w.Suggestions {
			fmt.Fprintf(p.out, "    * %s\n", s)
		}
	}
}

func (p printer) sensitivity(res *model.ForwardResult, s *analysis.SensitivityResult) error {
	if p.mode == "json" {
		return p.json(s)
	}
	t := p.newTable(fmt.Sprintf("LCOE sensitivity: %s/%s (LCOE %.2f $/MWh, %s differences)", res.Concept, res.Fuel.Label(), s.LCOE, s.Method))
	t.AppendHeader(table.Row{"Parameter", "Value", "dLCOE/dp", "Elasticity"})
	for _, e := range s.Entries {
		t.AppendRow(table.Row{e.Param, formatValue(e.Value), fmt.Sprintf("%.4g", e.Derivative), fmt.Sprintf("%+.4f", e.Elasticity)})
	}
	t.SetColumnConfigs(numberColumns[:3])
	if err := p.render(t); err != nil {
		return err
	}
	if len(s.Skipped) > 0 {
		fmt.Fprintf(p.out, "\nSkipped (zero-valued): %v\n", s.Skipped)
	}
	return nil
}

func (p printer) backcast(req analysis.BackcastRequest, out *analysis.BackcastResult) error {
	if p.mode == "json" {
		return p.json(out)
	}
	status := "FEASIBLE"
	if !out.Feasible {
		status = "INFEASIBLE"
	}
	t := p.newTable(fmt.Sprintf("Backcast: %s after %d iterations", status, out.Iterations))
	t.AppendHeader(table.Row{"Parameter", "Required", "Min", "Max"})
	for _, b := range req.Free {
		t.AppendRow(table.Row{b.Param, formatValue(out.Values[b.Param]), formatValue(b.Min), formatValue(b.Max)})
	}
	t.SetColumnConfigs(numberColumns[:3])

	targets := p.newTable("Outputs")
	targets.AppendHeader(table.Row{"Output", "Target", "Achieved"})
	names := make([]string, 0, len(out.Outputs))
	for name := range out.Outputs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		target := ""
		if v, ok := req.Targets[name]; ok {
			target = formatValue(v)
		}
		targets.AppendRow(table.Row{name, target, formatValue(out.Outputs[name])})
	}
	targets.SetColumnConfigs(numberColumns[:2])

	if err := p.render(t, targets); err != nil {
		return err
	}
	if out.Message != "" {
		fmt.Fprintf(p.out, "\n%s\n", out.Message)
	}
	return nil
}

func (p printer) comparison(c *analysis.Comparison) error {
	if p.mode == "json" {
		return p.json(c)
	}
	t := p.newTable("Concept comparison (ascending LCOE)")
	t.AppendHeader(table.Row{"#", "Concept", "Fuel", "p_fus (MW)", "Q_eng", "$/kW", "LCOE ($/MWh)"})
	for i, r := range c.Ranked {
		t.AppendRow(table.Row{i + 1, r.Concept, r.Fuel.Label(),
			fmt.Sprintf("%.0f", r.Power.PFus), fmt.Sprintf("%.2f", r.Power.QEng),
			fmt.Sprintf("%.0f", r.Costs.OvernightPerKW), fmt.Sprintf("%.2f", r.Costs.LCOE)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})
	if err := p.render(t); err != nil {
		return err
	}
	for _, s := range c.Skipped {
		fmt.Fprintf(p.out, "skipped %s: %s\n", s.Pair, s.Error)
	}
	return nil
}

func (p printer) sweep(s *analysis.SweepResult) error {
	if p.mode == "json" {
		return p.json(s)
	}
	t := p.newTable("Sweep: " + s.Param)
	t.AppendHeader(table.Row{s.Param, "LCOE ($/MWh)", "p_fus (MW)", "Q_eng", "Note"})
	for _, pt := range s.Points {
		if pt.Err != "" {
			t.AppendRow(table.Row{formatValue(pt.Value), "-", "-", "-", pt.Err})
			continue
		}
		t.AppendRow(table.Row{formatValue(pt.Value), fmt.Sprintf("%.2f", pt.LCOE), fmt.Sprintf("%.0f", pt.PFus), fmt.Sprintf("%.2f", pt.QEng), ""})
	}
	t.SetColumnConfigs(numberColumns[:3])

	sum := p.newTable("LCOE summary")
	sum.AppendHeader(table.Row{"Feasible", "Min", "Median", "Mean", "Max", "Std dev"})
	sum.AppendRow(table.Row{s.Summary.Feasible,
		fmt.Sprintf("%.2f", s.Summary.Min), fmt.Sprintf("%.2f", s.Summary.Median),
		fmt.Sprintf("%.2f", s.Summary.Mean), fmt.Sprintf("%.2f", s.Summary.Max),
		fmt.Sprintf("%.2f", s.Summary.StdDev)})
	return p.render(t, sum)
}

func (p printer) concepts() error {
	type row struct {
		Concept plant.Concept `json:"concept"`
		Family  plant.Family  `json:"family"`
	}
	var rows []row
	for _, c := range plant.Concepts() {
		f, _ := c.Family()
		rows = append(rows, row{Concept: c, Family: f})
	}
	if p.mode == "json" {
		return p.json(map[string]any{"concepts": rows, "fuels": plant.Fuels()})
	}
	t := p.newTable("Concepts")
	t.AppendHeader(table.Row{"Concept", "Family"})
	for _, r := range rows {
		t.AppendRow(table.Row{r.Concept, r.Family})
	}
	f := p.newTable("Fuels")
	f.AppendHeader(table.Row{"Fuel", "Label"})
	for _, fuel := range plant.Fuels() {
		f.AppendRow(table.Row{fuel, fuel.Label()})
	}
	return p.render(t, f)
}

func formatValue(v float64) string {
	return fmt.Sprintf("%.4g", v)
}

func formatMoney(v float64) string {
	if v >= 1_000 || v <= -1_000 {
		return fmt.Sprintf("%.2fB", v/1_000)
	}
	return fmt.Sprintf("%.1f", v)
}
