package main

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/1cFE/1costingfe/internal/export"
	"github.com/1cFE/1costingfe/internal/logging"
	"github.com/1cFE/1costingfe/internal/server"
	"github.com/1cFE/1costingfe/pkg/analysis"
	"github.com/1cFE/1costingfe/pkg/costerr"
	"github.com/1cFE/1costingfe/pkg/model"
	"github.com/1cFE/1costingfe/pkg/scenario"
)

type backcastFlags struct {
	target   float64
	param    string
	min, max float64
}

type sweepFlags struct {
	param    string
	from, to float64
	points   int
}

func (a *app) logger() (*zap.Logger, error) {
	return logging.New(a.cfg.Log.Level, a.cfg.Log.Format)
}

// loadScenario reads the scenario file when one is given, otherwise builds
// one from the concept, fuel and net flags. --set overrides apply to both.
func (a *app) loadScenario(args []string, sf scenarioFlags) (*scenario.Scenario, error) {
	var sc *scenario.Scenario
	if len(args) == 1 {
		loaded, err := scenario.LoadPath(args[0])
		if err != nil {
			return nil, err
		}
		sc = loaded
	} else {
		sc = scenario.New(sf.concept, sf.fuel, sf.net)
	}
	for name, raw := range sf.sets {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, costerr.Input(name, "override %q is not a number", raw)
		}
		if sc.Overrides == nil {
			sc.Overrides = make(map[string]float64)
		}
		sc.Overrides[name] = v
	}
	return sc, nil
}

// forward prices the scenario's plant.
func (a *app) forward(sc *scenario.Scenario, log *zap.Logger) (*model.CostModel, *model.ForwardResult, error) {
	pair, err := sc.Pair()
	if err != nil {
		return nil, nil, err
	}
	opts, err := a.cfg.ModelOptions()
	if err != nil {
		return nil, nil, err
	}
	opts = append(opts, model.WithLogger(logging.Component(log, "model")))
	m, err := model.New(pair.Concept, pair.Fuel, opts...)
	if err != nil {
		return nil, nil, err
	}
	res, err := m.Forward(sc.Requirements, sc.Overrides)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", pair, err)
	}
	log.Info("forward evaluated", zap.String("pair", pair.String()), zap.Float64("lcoe", res.Costs.LCOE))
	return m, res, nil
}

func (a *app) batchOptions(log *zap.Logger) ([]analysis.Option, error) {
	modelOpts, err := a.cfg.ModelOptions()
	if err != nil {
		return nil, err
	}
	opts := []analysis.Option{
		analysis.WithLogger(logging.Component(log, "analysis")),
		analysis.WithModelOptions(modelOpts...),
	}
	if a.cfg.Batch.Workers > 0 {
		opts = append(opts, analysis.WithWorkers(a.cfg.Batch.Workers))
	}
	return opts, nil
}

// writeWorkbook saves the sheets added by fill when --xlsx is set.
func (a *app) writeWorkbook(log *zap.Logger, fill func(*export.Workbook) error) error {
	if a.xlsx == "" {
		return nil
	}
	w := export.NewWorkbook()
	defer w.Close()
	if err := fill(w); err != nil {
		return err
	}
	if err := w.SaveAs(a.xlsx); err != nil {
		return err
	}
	log.Info("workbook written", zap.String("path", a.xlsx))
	return nil
}

func (a *app) runForward(args []string, sf scenarioFlags) error {
	log, err := a.logger()
	if err != nil {
		return err
	}
	defer log.Sync()

	sc, err := a.loadScenario(args, sf)
	if err != nil {
		return err
	}
	_, res, err := a.forward(sc, log)
	if err != nil {
		return err
	}
	if err := a.printer().forward(res); err != nil {
		return err
	}
	return a.writeWorkbook(log, func(w *export.Workbook) error { return w.AddForward(res) })
}

func (a *app) runSensitivity(args []string, sf scenarioFlags, method string) error {
	log, err := a.logger()
	if err != nil {
		return err
	}
	defer log.Sync()

	sc, err := a.loadScenario(args, sf)
	if err != nil {
		return err
	}
	m, res, err := a.forward(sc, log)
	if err != nil {
		return err
	}
	opts := sc.Sensitivity.Options()
	if method != "" {
		opts.Method = analysis.Method(method)
	}
	sens, err := analysis.Sensitivity(m, res, opts)
	if err != nil {
		return err
	}
	if err := a.printer().sensitivity(res, sens); err != nil {
		return err
	}
	return a.writeWorkbook(log, func(w *export.Workbook) error {
		if err := w.AddForward(res); err != nil {
			return err
		}
		return w.AddSensitivity(sens)
	})
}

func (a *app) runBackcast(args []string, sf scenarioFlags, bf backcastFlags) error {
	log, err := a.logger()
	if err != nil {
		return err
	}
	defer log.Sync()

	sc, err := a.loadScenario(args, sf)
	if err != nil {
		return err
	}
	var req analysis.BackcastRequest
	switch {
	case bf.param != "":
		req = analysis.BackcastRequest{
			Targets: map[string]float64{analysis.OutputLCOE: bf.target},
			Free:    []analysis.Bound{{Param: bf.param, Min: bf.min, Max: bf.max}},
		}
	case sc.Backcast != nil:
		req = *sc.Backcast
	default:
		return costerr.Input("backcast", "give --param and --target or a scenario with a backcast section")
	}

	m, res, err := a.forward(sc, log)
	if err != nil {
		return err
	}
	out, err := analysis.Backcast(m, res, req)
	if err != nil {
		return err
	}
	log.Info("backcast solved",
		zap.Bool("feasible", out.Feasible),
		zap.Int("iterations", out.Iterations),
	)
	return a.printer().backcast(req, out)
}

func (a *app) runCompare(ctx context.Context, args []string, sf scenarioFlags) error {
	log, err := a.logger()
	if err != nil {
		return err
	}
	defer log.Sync()

	sc, err := a.loadScenario(args, sf)
	if err != nil {
		return err
	}
	pairs, err := sc.Compare.Resolve()
	if err != nil {
		return err
	}
	opts, err := a.batchOptions(log)
	if err != nil {
		return err
	}
	cmp, err := analysis.CompareAll(ctx, pairs, sc.Requirements, opts...)
	if err != nil {
		return err
	}
	if err := a.printer().comparison(cmp); err != nil {
		return err
	}
	return a.writeWorkbook(log, func(w *export.Workbook) error { return w.AddComparison(cmp) })
}

func (a *app) runSweep(ctx context.Context, args []string, sf scenarioFlags, sw sweepFlags) error {
	log, err := a.logger()
	if err != nil {
		return err
	}
	defer log.Sync()

	sc, err := a.loadScenario(args, sf)
	if err != nil {
		return err
	}
	def := sc.Sweep
	if sw.param != "" {
		def = &scenario.SweepDef{Param: sw.param, From: sw.from, To: sw.to, Points: sw.points}
	}
	if def == nil {
		return costerr.Input("sweep", "give --param, --from and --to or a scenario with a sweep section")
	}
	values, err := def.Values()
	if err != nil {
		return err
	}

	m, res, err := a.forward(sc, log)
	if err != nil {
		return err
	}
	opts, err := a.batchOptions(log)
	if err != nil {
		return err
	}
	out, err := analysis.Sweep(ctx, m, res, def.Param, values, opts...)
	if err != nil {
		return err
	}
	if err := a.printer().sweep(out); err != nil {
		return err
	}
	return a.writeWorkbook(log, func(w *export.Workbook) error { return w.AddSweep(out) })
}

func (a *app) runConcepts() error {
	return a.printer().concepts()
}

func (a *app) runServe(ctx context.Context) error {
	log, err := a.logger()
	if err != nil {
		return err
	}
	defer log.Sync()

	opts, err := a.cfg.ModelOptions()
	if err != nil {
		return err
	}
	srv := server.New(server.Options{
		Port:         a.cfg.Server.Port,
		Logger:       logging.Component(log, "server"),
		ModelOptions: opts,
		Workers:      a.cfg.Batch.Workers,
	})
	return srv.Start(ctx)
}
