package sim

import (
	"fmt"

	"github.com/san-kum/pbdsim/internal/metrics"
	"github.com/san-kum/pbdsim/internal/particles"
)

// Observer receives the live system after every completed frame.
// Returning false stops the run early without error.
type Observer interface {
	OnFrame(s *particles.System, frame int, t float64) bool
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(s *particles.System, frame int, t float64) bool

func (f ObserverFunc) OnFrame(s *particles.System, frame int, t float64) bool {
	return f(s, frame, t)
}

type Config struct {
	Dt       float64
	Duration float64
	// ValidateState aborts the run when a position goes NaN or Inf.
	ValidateState bool
}

func (c Config) validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	}
	return nil
}

// Result collects per-frame metric series and their summaries for a
// completed (or aborted) run.
type Result struct {
	Times       []float64
	Series      map[string][]float64
	Summaries   map[string]metrics.Summary
	FramesTaken int
	Errors      []error
}
