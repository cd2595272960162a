package particles

import "math"

// Smoothing kernels for the fluid density constraint, float32
// renditions of the usual poly6/spiky pair.
func poly6(r2, h2 float32) float32 {
	if r2 > h2 {
		return 0
	}
	d := h2 - r2
	return float32(315.0/(64.0*math.Pi*math.Pow(float64(h2), 4.5))) * d * d * d
}

func spikyGrad(r, h float32) float32 {
	if r > h || r < 1e-6 {
		return 0
	}
	d := h - r
	return float32(-45.0/(math.Pi*math.Pow(float64(h), 6))) * d * d
}

// collide resolves pairwise overlaps. One thread per sorted slot scans
// the 27-cell neighborhood and accumulates its own separation, so each
// overlapping pair is processed twice, once from each side; both
// particles move apart proportional to inverse mass without any
// cross-thread writes. Particles sharing a rigid group are skipped.
// Pairs linked by a distance constraint are NOT excluded: adjacent
// structural particles get double-corrected. That is a known
// approximation of this scheme, kept deliberately.
func (s *System) collide(pos []float32) {
	g := s.grid
	diameter := s.cfg.ParticleRadius * 2

	s.backend.Dispatch(s.n, func(start, end int) {
		for si := start; si < end; si++ {
			wi := g.sortedInvMass[si]
			if wi <= 0 {
				continue
			}
			pi := Vec3{g.sortedPos[si*4], g.sortedPos[si*4+1], g.sortedPos[si*4+2]}
			phi := g.sortedPhase[si]

			var delta Vec3
			g.forNeighbors(pi.X, pi.Y, pi.Z, func(sj int) {
				if sj == si {
					return
				}
				phj := g.sortedPhase[sj]
				if phi >= PhaseRigid && phj == phi {
					return
				}
				d := pi.Sub(Vec3{g.sortedPos[sj*4], g.sortedPos[sj*4+1], g.sortedPos[sj*4+2]})
				dist := d.Length()
				if dist >= diameter || dist < 1e-7 {
					return
				}
				wj := g.sortedInvMass[sj]
				push := (diameter - dist) * wi / (wi + wj)
				delta = delta.Add(d.Scale(push / dist))
			})

			oi := int(g.index[si])
			pos[oi*4] += delta.X
			pos[oi*4+1] += delta.Y
			pos[oi*4+2] += delta.Z
		}
	})
}

// solveFluids applies a single linearized density constraint to every
// FLUID particle: a density estimate over the support radius, one
// Lagrange multiplier driving it toward the particle's rest density,
// and a position correction from the multipliers of both sides of each
// pair. Not a full pressure solve.
func (s *System) solveFluids(pos []float32) {
	g := s.grid
	h := g.cellSize // support radius equals cell size so 27 cells cover it
	h2 := h * h
	// kernels are normalized by the poly6 self-term so an isolated
	// unit-mass particle has density 1; rest densities stay O(1)
	w0 := poly6(0, h2)
	const relaxation = 1e-4 // CFM epsilon keeping the denominator sane

	// multiplier kernel: density and lambda per fluid particle
	s.backend.Dispatch(s.n, func(start, end int) {
		for si := start; si < end; si++ {
			if g.sortedPhase[si] != PhaseFluid {
				s.lambda[si] = 0
				continue
			}
			pi := Vec3{g.sortedPos[si*4], g.sortedPos[si*4+1], g.sortedPos[si*4+2]}
			ro := s.restDensity[g.index[si]]

			var rho, gradSq float32
			var gradSum Vec3
			g.forNeighbors(pi.X, pi.Y, pi.Z, func(sj int) {
				d := pi.Sub(Vec3{g.sortedPos[sj*4], g.sortedPos[sj*4+1], g.sortedPos[sj*4+2]})
				r2 := d.LengthSq()
				if r2 >= h2 {
					return
				}
				rho += neighborMass(g.sortedInvMass[sj]) * poly6(r2, h2) / w0
				if sj == si {
					return
				}
				r := sqrt32(r2)
				k := spikyGrad(r, h) / (ro * w0)
				if k == 0 {
					return
				}
				grad := d.Scale(k / r)
				gradSum = gradSum.Add(grad)
				gradSq += grad.LengthSq()
			})

			c := rho/ro - 1
			s.lambda[si] = -c / (gradSum.LengthSq() + gradSq + relaxation)
		}
	})

	// correction kernel: apply (lambda_i + lambda_j) along each pair
	s.backend.Dispatch(s.n, func(start, end int) {
		for si := start; si < end; si++ {
			if g.sortedPhase[si] != PhaseFluid || g.sortedInvMass[si] <= 0 {
				continue
			}
			pi := Vec3{g.sortedPos[si*4], g.sortedPos[si*4+1], g.sortedPos[si*4+2]}
			ro := s.restDensity[g.index[si]]

			var delta Vec3
			g.forNeighbors(pi.X, pi.Y, pi.Z, func(sj int) {
				if sj == si {
					return
				}
				d := pi.Sub(Vec3{g.sortedPos[sj*4], g.sortedPos[sj*4+1], g.sortedPos[sj*4+2]})
				r := d.Length()
				k := spikyGrad(r, h)
				if k == 0 {
					return
				}
				scale := (s.lambda[si] + s.lambda[sj]) * k / (ro * w0 * r)
				delta = delta.Add(d.Scale(scale))
			})

			oi := int(g.index[si])
			pos[oi*4] += delta.X
			pos[oi*4+1] += delta.Y
			pos[oi*4+2] += delta.Z
		}
	})
}

// neighborMass converts inverse mass back to mass for the density
// sum. Immovable anchors (w=0) count as unit mass rather than
// infinite, which under-weighs walls a little but keeps the estimate
// finite.
func neighborMass(w float32) float32 {
	if w <= 0 {
		return 1
	}
	return 1 / w
}

// collideWorld clamps predicted positions so the particle surface
// stays inside [MinBounds, MaxBounds]. The velocity component dies
// implicitly when velocity is re-derived from the position delta.
func (s *System) collideWorld(pos []float32) {
	r := s.cfg.ParticleRadius
	lo := s.cfg.MinBounds
	hi := s.cfg.MaxBounds
	s.backend.Dispatch(s.n, func(start, end int) {
		for i := start; i < end; i++ {
			pos[i*4] = clamp32(pos[i*4], lo.X+r, hi.X-r)
			pos[i*4+1] = clamp32(pos[i*4+1], lo.Y+r, hi.Y-r)
			pos[i*4+2] = clamp32(pos[i*4+2], lo.Z+r, hi.Z-r)
		}
	})
}

// solveDistance projects every registered pair toward its rest
// separation, split by inverse-mass ratio so heavier or pinned
// particles move less. Corrections apply in place in registration
// order (Gauss-Seidel), so later constraints see earlier corrections
// within the same pass; the pass runs on the host since constraint
// counts are small next to particle counts.
func (s *System) solveDistance(pos []float32) {
	for _, c := range s.distance {
		a, b := int(c.A), int(c.B)
		wa, wb := s.invMass[a], s.invMass[b]
		wSum := wa + wb
		if wSum <= 0 {
			continue
		}
		d := Vec3{
			pos[b*4] - pos[a*4],
			pos[b*4+1] - pos[a*4+1],
			pos[b*4+2] - pos[a*4+2],
		}
		dist := d.Length()
		if dist < 1e-7 {
			continue
		}
		corr := d.Scale((dist - c.Rest) / (dist * wSum))

		pos[a*4] += corr.X * wa
		pos[a*4+1] += corr.Y * wa
		pos[a*4+2] += corr.Z * wa
		pos[b*4] -= corr.X * wb
		pos[b*4+1] -= corr.Y * wb
		pos[b*4+2] -= corr.Z * wb
	}
}

// solvePoints overwrites predicted positions of pinned particles,
// overriding every correction from the earlier stages. Runs on the
// host in registration order so that duplicate pins on one particle
// resolve deterministically: the last registration wins.
func (s *System) solvePoints(pos []float32) {
	for _, c := range s.points {
		i := int(c.Index)
		pos[i*4] = c.Target.X
		pos[i*4+1] = c.Target.Y
		pos[i*4+2] = c.Target.Z
	}
}
