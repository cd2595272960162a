// Package metrics observes particle system state per frame for
// headless runs and diagnostics.
package metrics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/pbdsim/internal/particles"
)

type Metric interface {
	Name() string
	Observe(s *particles.System, t float64)
	// Value is the most recent observation.
	Value() float64
	// Series is every observation since the last Reset.
	Series() []float64
	Reset()
}

// Summary condenses a metric series for run reports.
type Summary struct {
	Mean, StdDev, Min, Max float64
}

func Summarize(series []float64) Summary {
	if len(series) == 0 {
		return Summary{}
	}
	mean, std := stat.MeanStdDev(series, nil)
	min, max := series[0], series[0]
	for _, v := range series {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return Summary{Mean: mean, StdDev: std, Min: min, Max: max}
}

// series is the shared accumulation base for the concrete metrics.
type series struct {
	name    string
	samples []float64
}

func (b *series) Name() string      { return b.name }
func (b *series) Series() []float64 { return b.samples }
func (b *series) Reset()            { b.samples = b.samples[:0] }

func (b *series) Value() float64 {
	if len(b.samples) == 0 {
		return 0
	}
	return b.samples[len(b.samples)-1]
}
