package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/1cFE/1costingfe/internal/logging"
	"github.com/1cFE/1costingfe/pkg/analysis"
	"github.com/1cFE/1costingfe/pkg/costerr"
	"github.com/1cFE/1costingfe/pkg/model"
	"github.com/1cFE/1costingfe/pkg/plant"
	"github.com/1cFE/1costingfe/pkg/scenario"
)

const maxBody = 1 << 20

type conceptInfo struct {
	Concept plant.Concept `json:"concept"`
	Family  plant.Family  `json:"family"`
}

func (s *Server) handleConcepts(w http.ResponseWriter, _ *http.Request) {
	var concepts []conceptInfo
	for _, c := range plant.Concepts() {
		f, _ := c.Family()
		concepts = append(concepts, conceptInfo{Concept: c, Family: f})
	}
	writeResult(w, map[string]any{
		"concepts": concepts,
		"fuels":    plant.Fuels(),
	})
}

func (s *Server) handleDefaults(w http.ResponseWriter, r *http.Request) {
	pair, err := scenario.PairDef{Concept: chi.URLParam(r, "concept"), Fuel: chi.URLParam(r, "fuel")}.Parse()
	if err != nil {
		writeError(w, err)
		return
	}
	m, err := s.model(pair)
	if err != nil {
		writeError(w, err)
		return
	}
	params, err := m.ResolveParams(plant.DefaultRequirements(1000), nil)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, map[string]any{
		"concept":  pair.Concept,
		"fuel":     pair.Fuel,
		"family":   m.Family(),
		"required": m.RequiredParams(),
		"params":   params,
	})
}

func (s *Server) handleForward(w http.ResponseWriter, r *http.Request) {
	sc, err := decodeScenario(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	_, res, err := s.forward(sc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, res)
}

func (s *Server) handleSensitivity(w http.ResponseWriter, r *http.Request) {
	sc, err := decodeScenario(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	m, res, err := s.forward(sc)
	if err != nil {
		writeError(w, err)
		return
	}
	sens, err := analysis.Sensitivity(m, res, sc.Sensitivity.Options())
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, sens)
}

func (s *Server) handleBackcast(w http.ResponseWriter, r *http.Request) {
	sc, err := decodeScenario(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	if sc.Backcast == nil {
		writeError(w, costerr.Input("backcast", "request has no backcast section"))
		return
	}
	m, res, err := s.forward(sc)
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := analysis.Backcast(m, res, *sc.Backcast)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, out)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	sc, err := decodeScenario(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	pairs, err := sc.Compare.Resolve()
	if err != nil {
		writeError(w, err)
		return
	}
	cmp, err := analysis.CompareAll(r.Context(), pairs, sc.Requirements, s.batchOptions()...)
	if err != nil {
		writeError(w, err)
		return
	}
	for _, res := range cmp.Ranked {
		s.metrics.observeEvaluation(string(res.Concept), string(res.Fuel), res.Costs.LCOE, nil)
	}
	writeResult(w, cmp)
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	sc, err := decodeScenario(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	if sc.Sweep == nil {
		writeError(w, costerr.Input("sweep", "request has no sweep section"))
		return
	}
	values, err := sc.Sweep.Values()
	if err != nil {
		writeError(w, err)
		return
	}
	m, res, err := s.forward(sc)
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := analysis.Sweep(r.Context(), m, res, sc.Sweep.Param, values, s.batchOptions()...)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, out)
}

func decodeScenario(w http.ResponseWriter, r *http.Request) (*scenario.Scenario, error) {
	sc := scenario.New("", "", 0)
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(sc); err != nil {
		return nil, costerr.Input("body", "decoding scenario: %v", err)
	}
	return sc, nil
}

func (s *Server) model(pair plant.Pair) (*model.CostModel, error) {
	opts := append([]model.Option{model.WithLogger(logging.Component(s.log, "model"))}, s.modelOpts...)
	return model.New(pair.Concept, pair.Fuel, opts...)
}

func (s *Server) forward(sc *scenario.Scenario) (*model.CostModel, *model.ForwardResult, error) {
	pair, err := sc.Pair()
	if err != nil {
		return nil, nil, err
	}
	m, err := s.model(pair)
	if err != nil {
		return nil, nil, err
	}
	res, err := m.Forward(sc.Requirements, sc.Overrides)
	lcoe := 0.0
	if err == nil {
		lcoe = res.Costs.LCOE
	}
	s.metrics.observeEvaluation(string(pair.Concept), string(pair.Fuel), lcoe, err)
	if err != nil {
		s.log.Info("forward rejected", zap.String("pair", pair.String()), zap.Error(err))
		return nil, nil, err
	}
	return m, res, nil
}

func (s *Server) batchOptions() []analysis.Option {
	opts := []analysis.Option{
		analysis.WithLogger(logging.Component(s.log, "analysis")),
		analysis.WithModelOptions(s.modelOpts...),
	}
	if s.workers > 0 {
		opts = append(opts, analysis.WithWorkers(s.workers))
	}
	return opts
}
