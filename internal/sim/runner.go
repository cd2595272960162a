// Package sim drives a particle system headlessly for a fixed
// duration, observing metrics every frame.
package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/pbdsim/internal/metrics"
	"github.com/san-kum/pbdsim/internal/particles"
)

type Runner struct {
	sys       *particles.System
	metrics   []metrics.Metric
	observers []Observer
}

func New(sys *particles.System) *Runner {
	return &Runner{sys: sys}
}

func (r *Runner) AddMetric(m metrics.Metric) { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer)     { r.observers = append(r.observers, o) }
func (r *Runner) System() *particles.System  { return r.sys }

// Run steps the system Duration/Dt times. Metrics are observed after
// every frame; observers can stop the run early. A cancelled context
// returns the partial result alongside ctx.Err().
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	frames := int(cfg.Duration / cfg.Dt)
	result := &Result{
		Times:     make([]float64, 0, frames),
		Series:    make(map[string][]float64),
		Summaries: make(map[string]metrics.Summary),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	t := 0.0
	for frame := 0; frame < frames; frame++ {
		select {
		case <-ctx.Done():
			r.finish(result)
			return result, ctx.Err()
		default:
		}

		if err := r.sys.Step(float32(cfg.Dt)); err != nil {
			result.Errors = append(result.Errors, err)
			break
		}
		t += cfg.Dt
		result.FramesTaken++
		result.Times = append(result.Times, t)

		for _, m := range r.metrics {
			m.Observe(r.sys, t)
		}

		if cfg.ValidateState {
			if err := r.checkFinite(t); err != nil {
				result.Errors = append(result.Errors, err)
				break
			}
		}

		stop := false
		for _, obs := range r.observers {
			if !obs.OnFrame(r.sys, frame, t) {
				stop = true
			}
		}
		if stop {
			break
		}
	}

	r.finish(result)
	return result, nil
}

func (r *Runner) finish(result *Result) {
	for _, m := range r.metrics {
		result.Series[m.Name()] = append([]float64(nil), m.Series()...)
		result.Summaries[m.Name()] = metrics.Summarize(m.Series())
	}
}

func (r *Runner) checkFinite(t float64) error {
	h, err := r.sys.RenderHandle()
	if err != nil {
		return err
	}
	for i := 0; i < r.sys.NumParticles(); i++ {
		x, y, z := h.At(i)
		if bad(x) || bad(y) || bad(z) {
			return fmt.Errorf("non-finite position for particle %d at t=%.4f", i, t)
		}
	}
	return nil
}

func bad(v float32) bool {
	f := float64(v)
	return math.IsNaN(f) || math.IsInf(f, 0)
}
