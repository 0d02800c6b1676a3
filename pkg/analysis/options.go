// Package analysis differentiates and batches the forward costing
// pipeline: LCOE sensitivities, Jacobian backcasting, cross-concept
// comparison and parameter sweeps.
package analysis

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/1cFE/1costingfe/pkg/model"
	"github.com/1cFE/1costingfe/pkg/plant"
)

// Option configures the batched entry points.
type Option func(*config)

type config struct {
	workers   int
	log       *zap.Logger
	modelOpts []model.Option
}

func newConfig(opts []Option) config {
	c := config{workers: runtime.GOMAXPROCS(0), log: zap.NewNop()}
	for _, opt := range opts {
		opt(&c)
	}
	if c.workers < 1 {
		c.workers = 1
	}
	return c
}

// WithWorkers bounds the number of concurrent evaluations.
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) { c.log = l }
}

// WithModelOptions passes options to every model built by CompareAll.
func WithModelOptions(opts ...model.Option) Option {
	return func(c *config) { c.modelOpts = append(c.modelOpts, opts...) }
}

// perturbed returns base with names[i] set to x[i]·scale[i].
func perturbed(base plant.Params, names []string, x, scale []float64) plant.Params {
	values := base.Map()
	for i, name := range names {
		values[name] = x[i] * scale[i]
	}
	return plant.NewParams(values)
}
