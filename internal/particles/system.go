package particles

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/pbdsim/internal/device"
	"github.com/san-kum/pbdsim/internal/render"
)

// System is the particle simulator. All attribute arrays are parallel
// and mutated in lockstep: slot i is the same logical particle in the
// position, velocity, inverse-mass, rest-density, and phase buffers.
type System struct {
	cfg     Config
	backend device.Backend
	arena   *device.Arena
	rng     *rand.Rand

	n int // live particles, append-only

	bridge      *render.Bridge // live stride-4 positions, shared with drawing
	prevPos     []float32      // stride 4, survives exactly one frame
	vel         []float32      // stride 4, derived each frame
	invMass     []float32
	restDensity []float32
	phase       []int32
	lambda      []float32 // fluid multiplier scratch, sorted order

	grid *grid

	distance   []DistanceConstraint
	points     []PointConstraint
	groups     []ColorGroup
	rigidIndex int32

	pendingParticles []pendingParticle
	pendingFluids    []pendingFluid
	dropped          int

	destroyed bool
}

// New allocates every buffer at fixed capacity. Construction is the
// only allocation point; a failure here aborts setup with no partial
// system left behind.
func New(cfg Config) (*System, error) {
	if cfg.MaxParticles <= 0 {
		return nil, fmt.Errorf("%w: max particles %d", ErrBadConfig, cfg.MaxParticles)
	}
	if cfg.ParticleRadius <= 0 {
		return nil, fmt.Errorf("%w: particle radius %v", ErrBadConfig, cfg.ParticleRadius)
	}
	if cfg.SolverIterations <= 0 {
		return nil, fmt.Errorf("%w: solver iterations %d", ErrBadConfig, cfg.SolverIterations)
	}
	for axis := 0; axis < 3; axis++ {
		if cfg.GridSize[axis] <= 0 {
			return nil, fmt.Errorf("%w: grid size %v", ErrBadConfig, cfg.GridSize)
		}
	}
	if cfg.MaxBounds.X <= cfg.MinBounds.X ||
		cfg.MaxBounds.Y <= cfg.MinBounds.Y ||
		cfg.MaxBounds.Z <= cfg.MinBounds.Z {
		return nil, fmt.Errorf("%w: bounds %v..%v", ErrBadConfig, cfg.MinBounds, cfg.MaxBounds)
	}

	a := device.NewArena()
	s := &System{
		cfg:         cfg,
		backend:     device.Get(),
		arena:       a,
		rng:         rand.New(rand.NewSource(cfg.Seed)),
		bridge:      render.NewBridge(a.Vec4(cfg.MaxParticles)),
		prevPos:     a.Vec4(cfg.MaxParticles),
		vel:         a.Vec4(cfg.MaxParticles),
		invMass:     a.Floats(cfg.MaxParticles),
		restDensity: a.Floats(cfg.MaxParticles),
		phase:       a.Ints(cfg.MaxParticles),
		lambda:      a.Floats(cfg.MaxParticles),
	}
	s.grid = newGrid(a, cfg)
	return s, nil
}

// Step advances the simulation by one frame. dt is clamped to
// MaxTimestep; nothing else fails at runtime, numerical instability is
// an accepted tradeoff bounded only by the clamp and iteration count.
func (s *System) Step(dt float32) error {
	if s.destroyed {
		return ErrDestroyed
	}
	if dt <= 0 {
		return nil
	}
	if dt > MaxTimestep {
		dt = MaxTimestep
	}

	s.flushPending()
	if s.n == 0 {
		return nil
	}

	pos, err := s.bridge.Map()
	if err != nil {
		return err
	}

	s.integrate(pos, dt)

	// positions shift every iteration, so the grid rebuilds each time
	for it := 0; it < s.cfg.SolverIterations; it++ {
		s.grid.Build(s.backend, pos, s.invMass, s.phase, s.n)
		s.collide(pos)
		s.solveFluids(pos)
		s.collideWorld(pos)
		s.solveDistance(pos)
		s.solvePoints(pos)
	}

	s.deriveVelocity(pos, dt)

	return s.bridge.Unmap()
}

// Destroy releases the arena. The system is unusable afterward; the
// owning graphics context must still be alive when this runs.
func (s *System) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	s.arena.Release()
}

func (s *System) NumParticles() int { return s.n }
func (s *System) MaxParticles() int { return s.cfg.MaxParticles }
func (s *System) Radius() float32   { return s.cfg.ParticleRadius }
func (s *System) Bounds() (Vec3, Vec3) {
	return s.cfg.MinBounds, s.cfg.MaxBounds
}

// Gravity returns the current gravity vector.
func (s *System) Gravity() Vec3 { return s.cfg.Gravity }

// SetGravity adjusts gravity between frames, for interactive tuning.
func (s *System) SetGravity(g Vec3) { s.cfg.Gravity = g }

// SolverIterations returns the per-frame iteration count.
func (s *System) SolverIterations() int { return s.cfg.SolverIterations }

// SetSolverIterations adjusts the iteration count; values below 1 are
// clamped.
func (s *System) SetSolverIterations(n int) {
	if n < 1 {
		n = 1
	}
	s.cfg.SolverIterations = n
}

// RenderHandle exposes the live position buffer as a drawable vertex
// source. Valid only between frames; refused while mapped.
func (s *System) RenderHandle() (render.Handle, error) {
	if s.destroyed {
		return render.Handle{}, ErrDestroyed
	}
	return s.bridge.Handle()
}

// ColorGroups returns the rendering annotation ranges in insertion
// order. The slice is live; callers must not mutate it.
func (s *System) ColorGroups() []ColorGroup { return s.groups }

// Position reads one particle's live position between frames,
// primarily for tests and metrics.
func (s *System) Position(i int) (Vec3, error) {
	h, err := s.RenderHandle()
	if err != nil {
		return Vec3{}, err
	}
	x, y, z := h.At(i)
	return Vec3{x, y, z}, nil
}

// Velocity reads one particle's derived velocity.
func (s *System) Velocity(i int) Vec3 {
	return Vec3{s.vel[i*4], s.vel[i*4+1], s.vel[i*4+2]}
}

// InvMass reads one particle's inverse mass.
func (s *System) InvMass(i int) float32 { return s.invMass[i] }

// RestDensity reads one particle's rest density.
func (s *System) RestDensity(i int) float32 { return s.restDensity[i] }

// Phase reads one particle's phase tag.
func (s *System) Phase(i int) int32 { return s.phase[i] }
