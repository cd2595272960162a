package particles

// integrate saves every particle's current position as "previous",
// folds gravity into velocity, and predicts the next position. Zero
// inverse mass means an immovable anchor; gravity does not touch it.
func (s *System) integrate(pos []float32, dt float32) {
	g := s.cfg.Gravity
	s.backend.Dispatch(s.n, func(start, end int) {
		for i := start; i < end; i++ {
			copy(s.prevPos[i*4:i*4+4], pos[i*4:i*4+4])
			if s.invMass[i] <= 0 {
				continue
			}
			s.vel[i*4] += g.X * dt
			s.vel[i*4+1] += g.Y * dt
			s.vel[i*4+2] += g.Z * dt

			pos[i*4] += s.vel[i*4] * dt
			pos[i*4+1] += s.vel[i*4+1] * dt
			pos[i*4+2] += s.vel[i*4+2] * dt
		}
	})
}

// deriveVelocity back-derives velocity from the travelled distance
// after all solver iterations. Velocity only survives a frame through
// position memory; this is what makes the scheme position-based.
func (s *System) deriveVelocity(pos []float32, dt float32) {
	inv := 1 / dt
	s.backend.Dispatch(s.n, func(start, end int) {
		for i := start; i < end; i++ {
			s.vel[i*4] = (pos[i*4] - s.prevPos[i*4]) * inv
			s.vel[i*4+1] = (pos[i*4+1] - s.prevPos[i*4+1]) * inv
			s.vel[i*4+2] = (pos[i*4+2] - s.prevPos[i*4+2]) * inv
		}
	})
}
