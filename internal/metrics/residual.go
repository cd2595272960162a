package metrics

import "github.com/san-kum/pbdsim/internal/particles"

// ConstraintResidual records the mean absolute distance-constraint
// error: how far registered pairs sit from their rest separation.
type ConstraintResidual struct {
	series
}

func NewConstraintResidual() *ConstraintResidual {
	return &ConstraintResidual{series{name: "constraint_residual"}}
}

func (c *ConstraintResidual) Observe(s *particles.System, t float64) {
	cons := s.DistanceConstraints()
	if len(cons) == 0 {
		c.samples = append(c.samples, 0)
		return
	}
	h, err := s.RenderHandle()
	if err != nil {
		return
	}
	var sum float64
	for _, dc := range cons {
		ax, ay, az := h.At(int(dc.A))
		bx, by, bz := h.At(int(dc.B))
		d := particles.Vec3{X: ax - bx, Y: ay - by, Z: az - bz}.Length()
		diff := float64(d - dc.Rest)
		if diff < 0 {
			diff = -diff
		}
		sum += diff
	}
	c.samples = append(c.samples, sum/float64(len(cons)))
}

// BoundsViolations counts particles with any position component
// outside the world box. It should read zero after every completed
// step.
type BoundsViolations struct {
	series
}

func NewBoundsViolations() *BoundsViolations {
	return &BoundsViolations{series{name: "out_of_bounds"}}
}

func (b *BoundsViolations) Observe(s *particles.System, t float64) {
	lo, hi := s.Bounds()
	h, err := s.RenderHandle()
	if err != nil {
		return
	}
	count := 0
	for i := 0; i < s.NumParticles(); i++ {
		x, y, z := h.At(i)
		if x < lo.X || x > hi.X || y < lo.Y || y > hi.Y || z < lo.Z || z > hi.Z {
			count++
		}
	}
	b.samples = append(b.samples, float64(count))
}

// DroppedParticles tracks the running count of queued particles
// discarded at capacity.
type DroppedParticles struct {
	series
}

func NewDroppedParticles() *DroppedParticles {
	return &DroppedParticles{series{name: "dropped"}}
}

func (d *DroppedParticles) Observe(s *particles.System, t float64) {
	d.samples = append(d.samples, float64(s.Dropped()))
}
