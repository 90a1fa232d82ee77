// Package experiment drives full simulation runs from a config,
// sampling statistics and feeding metric observers along the way.
package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/fieldlab/internal/config"
	"github.com/san-kum/fieldlab/internal/engine"
	"github.com/san-kum/fieldlab/internal/metrics"
	"github.com/san-kum/fieldlab/internal/storage"
)

// Result holds the recorded series and final metric values of a run.
type Result struct {
	Series     []storage.Sample
	Metrics    map[string]float64
	FinalStats engine.Statistics
}

type Experiment struct {
	cfg         *config.Config
	eng         *engine.Engine
	metrics     []metrics.Metric
	sampleEvery int
}

// New builds the engine from the config and seeds the initial Gaussian
// bump. sampleEvery controls series density; values below 1 mean every
// step.
func New(cfg *config.Config, sampleEvery int) (*Experiment, error) {
	eng, err := engine.New(cfg.GridSize, cfg.Length, cfg.Dt, cfg.EngineParams())
	if err != nil {
		return nil, err
	}
	eng.SeedGaussian(cfg.Seed.Amplitude, cfg.Seed.Sigma)

	if sampleEvery < 1 {
		sampleEvery = 1
	}

	return &Experiment{
		cfg:         cfg,
		eng:         eng,
		sampleEvery: sampleEvery,
	}, nil
}

func (e *Experiment) AddMetric(m metrics.Metric) {
	e.metrics = append(e.metrics, m)
}

// DefaultMetrics attaches the standard run diagnostics.
func (e *Experiment) DefaultMetrics() {
	e.AddMetric(metrics.NewMassDrift())
	e.AddMetric(metrics.NewBoundedness(e.cfg.Engine.RegBound))
	e.AddMetric(metrics.NewWarningRate())
}

// Engine exposes the underlying engine, mainly for inspecting the
// final fields after Run.
func (e *Experiment) Engine() *engine.Engine { return e.eng }

// Run steps the configured number of times, observing metrics every
// step and recording samples at the configured density. The context is
// checked between steps so long runs can be cancelled.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	steps := e.cfg.Steps
	if steps <= 0 {
		return nil, fmt.Errorf("experiment: step count must be positive, got %d", steps)
	}

	series := make([]storage.Sample, 0, steps/e.sampleEvery+1)

	for step := 0; step < steps; step++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		e.eng.Advance(1)
		stats := e.eng.Stats()
		for _, m := range e.metrics {
			m.Observe(stats)
		}
		if step%e.sampleEvery == 0 || step == steps-1 {
			series = append(series, storage.SampleFrom(stats))
		}
	}

	vals := make(map[string]float64, len(e.metrics))
	for _, m := range e.metrics {
		vals[m.Name()] = m.Value()
	}

	return &Result{
		Series:     series,
		Metrics:    vals,
		FinalStats: e.eng.Stats(),
	}, nil
}
