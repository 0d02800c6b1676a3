package analysis

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/1cFE/1costingfe/pkg/model"
	"github.com/1cFE/1costingfe/pkg/plant"
)

// Skip records a pair that could not be priced.
type Skip struct {
	Pair  plant.Pair `json:"pair"`
	Error string     `json:"error"`
}

// Comparison ranks concept and fuel pairs by LCOE.
type Comparison struct {
	Ranked  []*model.ForwardResult `json:"ranked"`
	Skipped []Skip                 `json:"skipped,omitempty"`
}

type pairOutcome struct {
	res *model.ForwardResult
	err error
}

// CompareAll prices every pair against the same requirements and returns
// the successes in ascending LCOE order. Pairs that fail are logged and
// listed in Skipped; they never abort the batch. Only context
// cancellation returns an error.
func CompareAll(ctx context.Context, pairs []plant.Pair, req plant.Requirements, opts ...Option) (*Comparison, error) {
	cfg := newConfig(opts)
	if len(pairs) == 0 {
		pairs = plant.AllPairs()
	}

	modelOpts := make([]model.Option, 0, len(cfg.modelOpts)+1)
	modelOpts = append(modelOpts, cfg.modelOpts...)
	modelOpts = append(modelOpts, model.WithLogger(cfg.log))

	outcomes := make([]pairOutcome, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)
	for i, pair := range pairs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = pricePair(pair, req, modelOpts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Comparison{}
	for i, o := range outcomes {
		if o.err != nil {
			cfg.log.Warn("pair skipped",
				zap.String("pair", pairs[i].String()),
				zap.Error(o.err),
			)
			out.Skipped = append(out.Skipped, Skip{Pair: pairs[i], Error: o.err.Error()})
			continue
		}
		out.Ranked = append(out.Ranked, o.res)
	}
	sort.SliceStable(out.Ranked, func(i, j int) bool {
		return out.Ranked[i].Costs.LCOE < out.Ranked[j].Costs.LCOE
	})
	cfg.log.Info("comparison complete",
		zap.Int("ranked", len(out.Ranked)),
		zap.Int("skipped", len(out.Skipped)),
	)
	return out, nil
}

// pricePair builds a model for pair and prices it. opts is shared by
// every worker and must not be appended to.
func pricePair(pair plant.Pair, req plant.Requirements, opts []model.Option) pairOutcome {
	m, err := model.New(pair.Concept, pair.Fuel, opts...)
	if err != nil {
		return pairOutcome{err: err}
	}
	res, err := m.Forward(req, nil)
	return pairOutcome{res: res, err: err}
}
