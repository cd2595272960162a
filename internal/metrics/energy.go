package metrics

import "github.com/san-kum/pbdsim/internal/particles"

// KineticEnergy accumulates 0.5*m*v^2 over all finite-mass particles
// each frame. A resting scene should hold it near zero; a blow-up is
// unmistakable.
type KineticEnergy struct {
	series
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{series{name: "kinetic_energy"}}
}

func (k *KineticEnergy) Observe(s *particles.System, t float64) {
	var total float64
	for i := 0; i < s.NumParticles(); i++ {
		w := s.InvMass(i)
		if w <= 0 {
			continue
		}
		v := s.Velocity(i)
		total += 0.5 * float64(v.LengthSq()) / float64(w)
	}
	k.samples = append(k.samples, total)
}
