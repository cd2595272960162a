package particles_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pbdsim/internal/particles"
)

func quietWorld() particles.Config {
	cfg := particles.DefaultConfig()
	cfg.GridSize = [3]int{16, 16, 16}
	cfg.ParticleRadius = 0.25
	cfg.MinBounds = particles.Vec3{X: 0, Y: 0, Z: 0}
	cfg.MaxBounds = particles.Vec3{X: 8, Y: 8, Z: 8}
	cfg.MaxParticles = 1024
	cfg.Gravity = particles.Vec3{}
	cfg.Seed = 42
	return cfg
}

func separation(s *particles.System, a, b int) float32 {
	pa, err := s.Position(a)
	Expect(err).NotTo(HaveOccurred())
	pb, err := s.Position(b)
	Expect(err).NotTo(HaveOccurred())
	return pa.Sub(pb).Length()
}

var _ = Describe("constraint solver", func() {
	var s *particles.System

	AfterEach(func() {
		if s != nil {
			s.Destroy()
			s = nil
		}
	})

	Describe("point constraints", func() {
		It("holds a pinned particle at its target through collisions", func() {
			var err error
			s, err = particles.New(quietWorld())
			Expect(err).NotTo(HaveOccurred())

			target := particles.Vec3{X: 4, Y: 4, Z: 4}
			Expect(s.Append(target, particles.Vec3{}, 1, 1, particles.PhaseSolid)).To(Succeed())
			Expect(s.AddPointConstraint(0, target)).To(Succeed())

			// an overlapping free particle shoves against the pin
			intruder := particles.Vec3{X: 4.2, Y: 4, Z: 4}
			Expect(s.Append(intruder, particles.Vec3{}, 1, 1, particles.PhaseSolid)).To(Succeed())

			for frame := 0; frame < 20; frame++ {
				Expect(s.Step(0.016)).To(Succeed())
				p, err := s.Position(0)
				Expect(err).NotTo(HaveOccurred())
				Expect(p.Sub(target).Length()).To(BeNumerically("<", 1e-6))
			}
		})
	})

	Describe("distance constraints", func() {
		It("converges a free pair to the rest separation", func() {
			var err error
			s, err = particles.New(quietWorld())
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Append(particles.Vec3{X: 3, Y: 4, Z: 4}, particles.Vec3{}, 1, 1, particles.PhaseSolid)).To(Succeed())
			Expect(s.Append(particles.Vec3{X: 4.2, Y: 4, Z: 4}, particles.Vec3{}, 1, 1, particles.PhaseSolid)).To(Succeed())
			Expect(s.AddDistanceConstraint(0, 1, 1.0)).To(Succeed())

			tolerance := 1e-3 * float64(s.Radius())
			for frame := 0; frame < 10; frame++ {
				Expect(s.Step(0.016)).To(Succeed())
			}
			Expect(float64(separation(s, 0, 1))).To(BeNumerically("~", 1.0, tolerance))
		})

		It("splits the correction by inverse mass", func() {
			var err error
			s, err = particles.New(quietWorld())
			Expect(err).NotTo(HaveOccurred())

			// anchor has infinite mass: it must not move at all
			anchor := particles.Vec3{X: 4, Y: 4, Z: 4}
			Expect(s.Append(anchor, particles.Vec3{}, 0, 1, particles.PhaseSolid)).To(Succeed())
			Expect(s.Append(particles.Vec3{X: 5.5, Y: 4, Z: 4}, particles.Vec3{}, 1, 1, particles.PhaseSolid)).To(Succeed())
			Expect(s.AddDistanceConstraint(0, 1, 1.0)).To(Succeed())

			for frame := 0; frame < 10; frame++ {
				Expect(s.Step(0.016)).To(Succeed())
			}
			p0, err := s.Position(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(p0.Sub(anchor).Length()).To(BeNumerically("<", 1e-6))
			Expect(float64(separation(s, 0, 1))).To(BeNumerically("~", 1.0, 1e-3))
		})
	})

	Describe("world boundary", func() {
		It("keeps every position component inside the bounds", func() {
			cfg := quietWorld()
			cfg.Gravity = particles.Vec3{Y: -9.8}
			var err error
			s, err = particles.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			// fast particles aimed at walls
			Expect(s.Append(particles.Vec3{X: 1, Y: 1, Z: 1}, particles.Vec3{X: -50, Y: -50, Z: -50}, 1, 1, particles.PhaseSolid)).To(Succeed())
			Expect(s.Append(particles.Vec3{X: 7, Y: 7, Z: 7}, particles.Vec3{X: 50, Y: 50, Z: 50}, 1, 1, particles.PhaseSolid)).To(Succeed())

			for frame := 0; frame < 30; frame++ {
				Expect(s.Step(0.016)).To(Succeed())
				for i := 0; i < s.NumParticles(); i++ {
					p, err := s.Position(i)
					Expect(err).NotTo(HaveOccurred())
					Expect(p.X).To(And(BeNumerically(">=", 0.0), BeNumerically("<=", 8.0)))
					Expect(p.Y).To(And(BeNumerically(">=", 0.0), BeNumerically("<=", 8.0)))
					Expect(p.Z).To(And(BeNumerically(">=", 0.0), BeNumerically("<=", 8.0)))
				}
			}
		})
	})

	Describe("stability at rest", func() {
		It("leaves a resting lattice essentially untouched", func() {
			cfg := quietWorld()
			cfg.MaxParticles = 100
			var err error
			s, err = particles.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			// 5x5x1 solid grid, zero velocity, zero gravity
			step := s.Radius() * 2.002
			ll := particles.Vec3{X: 2, Y: 2, Z: 4}
			ur := particles.Vec3{X: 2 + 4.5*step, Y: 2 + 4.5*step, Z: 4 + step*0.5}
			Expect(s.AddParticleGrid(ll, ur, 1, false)).To(Succeed())
			Expect(s.NumParticles()).To(Equal(25))

			before := make([]particles.Vec3, 25)
			for i := range before {
				p, err := s.Position(i)
				Expect(err).NotTo(HaveOccurred())
				before[i] = p
			}

			for frame := 0; frame < 10; frame++ {
				Expect(s.Step(0.016)).To(Succeed())
			}

			var worst float64
			for i := range before {
				p, err := s.Position(i)
				Expect(err).NotTo(HaveOccurred())
				worst = math.Max(worst, float64(p.Sub(before[i]).Length()))
			}
			Expect(worst).To(BeNumerically("<", 1e-4))
		})
	})

	Describe("fluids", func() {
		It("pulls an isolated fluid blob toward its rest density without exploding", func() {
			cfg := quietWorld()
			cfg.Gravity = particles.Vec3{Y: -9.8}
			var err error
			s, err = particles.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			blue := particles.Color{B: 1, A: 1}
			Expect(s.AddFluidBlock(
				particles.Vec3{X: 2, Y: 2, Z: 2},
				particles.Vec3{X: 4, Y: 4, Z: 4},
				1, 1.5, blue,
			)).To(Succeed())
			Expect(s.NumParticles()).To(BeNumerically(">", 0))

			for frame := 0; frame < 30; frame++ {
				Expect(s.Step(0.016)).To(Succeed())
			}
			// everything still finite and inside the world
			for i := 0; i < s.NumParticles(); i++ {
				p, err := s.Position(i)
				Expect(err).NotTo(HaveOccurred())
				Expect(math.IsNaN(float64(p.X + p.Y + p.Z))).To(BeFalse())
				Expect(p.Y).To(BeNumerically(">=", 0.0))
			}
		})
	})
})
