package particles

type pendingParticle struct {
	pos  Vec3
	vel  Vec3
	mass float32
}

type pendingFluid struct {
	pos     Vec3
	color   Color
	mass    float32
	density float32
}

// QueueParticle enqueues one solid particle for insertion at the next
// Step. The position is jittered slightly so stacked spawns don't
// land in exactly the same spot.
func (s *System) QueueParticle(pos, vel Vec3, mass float32) {
	jitter := s.cfg.ParticleRadius * 0.01
	pos.X += (s.rng.Float32()*2 - 1) * jitter
	pos.Y += (s.rng.Float32()*2 - 1) * jitter
	s.pendingParticles = append(s.pendingParticles, pendingParticle{pos, vel, mass})
}

// QueueFluid enqueues one fluid particle for insertion at the next
// Step.
func (s *System) QueueFluid(pos Vec3, color Color, mass, density float32) {
	s.pendingFluids = append(s.pendingFluids, pendingFluid{pos, color, mass, density})
}

// flushPending drains both queues in enqueue order, once per frame,
// before integration. Particles that no longer fit are dropped and
// counted; a queue is never left partially drained.
func (s *System) flushPending() {
	for _, p := range s.pendingParticles {
		err := s.Append(p.pos, p.vel, p.mass, 1.5, PhaseSolid)
		if err != nil {
			s.dropped++
			continue
		}
		s.groups = append(s.groups, ColorGroup{
			Start: s.n - 1,
			End:   s.n,
			Color: s.palettePick(),
		})
	}
	s.pendingParticles = s.pendingParticles[:0]

	if len(s.pendingFluids) > 0 {
		start := s.n
		var last Color
		for _, f := range s.pendingFluids {
			last = f.color
			if err := s.Append(f.pos, Vec3{0, -1, 0}, f.mass, f.density, PhaseFluid); err != nil {
				s.dropped++
			}
		}
		if s.n > start {
			s.groups = append(s.groups, ColorGroup{Start: start, End: s.n, Color: last})
		}
		s.pendingFluids = s.pendingFluids[:0]
	}
}

// Dropped reports how many queued particles have been discarded
// because the system was at capacity.
func (s *System) Dropped() int { return s.dropped }

// Append writes one particle across every parallel buffer and bumps
// the live count. Returns ErrCapacity (and writes nothing) when full.
// mass <= 0 means infinite mass: inverse mass zero, an immovable
// anchor.
func (s *System) Append(pos, vel Vec3, mass, density float32, phase int32) error {
	if s.destroyed {
		return ErrDestroyed
	}
	if s.n == s.cfg.MaxParticles {
		return ErrCapacity
	}

	if err := s.bridge.WriteAt(s.n, [4]float32{pos.X, pos.Y, pos.Z, 1}); err != nil {
		return err
	}

	i := s.n
	s.vel[i*4] = vel.X
	s.vel[i*4+1] = vel.Y
	s.vel[i*4+2] = vel.Z
	s.vel[i*4+3] = 0
	s.invMass[i] = invertMass(mass)
	s.restDensity[i] = density
	s.phase[i] = phase
	s.n++
	return nil
}

// Batch is a block of particles appended in one call. All slices must
// agree on length; Pos and Vel are stride-4.
type Batch struct {
	Pos         []float32
	Vel         []float32
	InvMass     []float32
	RestDensity []float32
	Phase       []int32
}

func (b *Batch) count() int { return len(b.InvMass) }

// AppendBatch writes a contiguous block of particles. The whole batch
// is rejected with ErrCapacity if it would exceed MaxParticles; there
// are no partial batch writes.
func (s *System) AppendBatch(b Batch) error {
	if s.destroyed {
		return ErrDestroyed
	}
	k := b.count()
	if len(b.Pos) != k*4 || len(b.Vel) != k*4 || len(b.RestDensity) != k || len(b.Phase) != k {
		return ErrBadConfig
	}
	if s.n+k > s.cfg.MaxParticles {
		return ErrCapacity
	}
	if k == 0 {
		return nil
	}

	if err := s.bridge.WriteBlock(s.n, b.Pos); err != nil {
		return err
	}
	copy(s.vel[s.n*4:], b.Vel)
	copy(s.invMass[s.n:], b.InvMass)
	copy(s.restDensity[s.n:], b.RestDensity)
	copy(s.phase[s.n:], b.Phase)
	s.n += k
	return nil
}

func invertMass(mass float32) float32 {
	if mass <= 0 {
		return 0
	}
	return 1 / mass
}
