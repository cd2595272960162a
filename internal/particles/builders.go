package particles

// Scenario builders: each computes a point lattice, appends it as one
// batch, registers the structural constraints, and records one color
// group. Deterministic for a fixed construction seed; the only
// randomness is lattice jitter and palette picks from the system's own
// generator.

var palette = []Color{
	{0.27, 0.53, 0.94, 1},
	{0.94, 0.35, 0.30, 1},
	{0.38, 0.80, 0.43, 1},
	{0.95, 0.77, 0.26, 1},
	{0.65, 0.44, 0.90, 1},
	{0.30, 0.82, 0.85, 1},
}

func (s *System) palettePick() Color {
	return palette[s.rng.Intn(len(palette))]
}

func latticeCount(lo, hi, step float32) int {
	if hi <= lo || step <= 0 {
		return 0
	}
	return int(ceil32((hi - lo) / step))
}

// AddFluidBlock fills the box [ll, ur] with fluid particles on a
// jittered lattice spaced at 2.5 radii, all sharing one rest density
// and display color.
func (s *System) AddFluidBlock(ll, ur Vec3, mass, density float32, color Color) error {
	step := s.cfg.ParticleRadius * 2.5
	jitter := s.cfg.ParticleRadius * 0.01
	nx := latticeCount(ll.X, ur.X, step)
	ny := latticeCount(ll.Y, ur.Y, step)
	nz := latticeCount(ll.Z, ur.Z, step)
	k := nx * ny * nz
	if k == 0 {
		return nil
	}

	b := newBatch(k)
	i := 0
	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				b.Pos[i*4] = ll.X + float32(x)*step + (s.rng.Float32()*2-1)*jitter
				b.Pos[i*4+1] = ll.Y + float32(y)*step + (s.rng.Float32()*2-1)*jitter
				b.Pos[i*4+2] = ll.Z + float32(z)*step + (s.rng.Float32()*2-1)*jitter
				b.Pos[i*4+3] = 1
				b.InvMass[i] = invertMass(mass)
				b.RestDensity[i] = density
				b.Phase[i] = PhaseFluid
				i++
			}
		}
	}

	start := s.n
	if err := s.AppendBatch(b); err != nil {
		return err
	}
	s.groups = append(s.groups, ColorGroup{Start: start, End: s.n, Color: color})
	return nil
}

// AddParticleGrid fills the box [ll, ur] with solid particles spaced
// just over one diameter apart, optionally jittered.
func (s *System) AddParticleGrid(ll, ur Vec3, mass float32, addJitter bool) error {
	step := s.cfg.ParticleRadius * 2.002
	var jitter float32
	if addJitter {
		jitter = s.cfg.ParticleRadius * 0.01
	}
	nx := latticeCount(ll.X, ur.X, step)
	ny := latticeCount(ll.Y, ur.Y, step)
	nz := latticeCount(ll.Z, ur.Z, step)
	k := nx * ny * nz
	if k == 0 {
		return nil
	}

	b := newBatch(k)
	i := 0
	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				b.Pos[i*4] = ll.X + float32(x)*step + (s.rng.Float32()*2-1)*jitter
				b.Pos[i*4+1] = ll.Y + float32(y)*step + (s.rng.Float32()*2-1)*jitter
				b.Pos[i*4+2] = ll.Z + float32(z)*step + (s.rng.Float32()*2-1)*jitter
				b.Pos[i*4+3] = 1
				b.InvMass[i] = invertMass(mass)
				b.RestDensity[i] = 1
				b.Phase[i] = PhaseSolid
				i++
			}
		}
	}

	start := s.n
	if err := s.AppendBatch(b); err != nil {
		return err
	}
	s.groups = append(s.groups, ColorGroup{Start: start, End: s.n, Color: s.palettePick()})
	return nil
}

// AddRope chains links+1 particles from start along spacing, each pair
// held at rest separation. pinStart anchors the first particle to its
// spawn point.
func (s *System) AddRope(start, spacing Vec3, rest float32, links int, mass float32, pinStart bool) error {
	if links < 1 {
		return nil
	}
	k := links + 1
	b := newBatch(k)
	dists := make([]DistanceConstraint, 0, links)

	first := uint32(s.n)
	for i := 0; i < k; i++ {
		p := start.Add(spacing.Scale(float32(i)))
		b.Pos[i*4] = p.X
		b.Pos[i*4+1] = p.Y
		b.Pos[i*4+2] = p.Z
		b.Pos[i*4+3] = 1
		b.InvMass[i] = invertMass(mass)
		b.RestDensity[i] = 1
		b.Phase[i] = PhaseRigid + s.rigidIndex
		if i > 0 {
			dists = append(dists, DistanceConstraint{
				A:    first + uint32(i-1),
				B:    first + uint32(i),
				Rest: rest,
			})
		}
	}

	if err := s.AppendBatch(b); err != nil {
		return err
	}
	var points []PointConstraint
	if pinStart {
		points = []PointConstraint{{Index: first, Target: start}}
	}
	s.appendConstraints(dists, points)
	s.groups = append(s.groups, ColorGroup{Start: int(first), End: s.n, Color: s.palettePick()})
	s.rigidIndex++
	return nil
}

// AddClothSheet builds a horizontal sheet spanning [ll.X,ur.X] by
// [ll.Z,ur.Z] at height ll.Y, with lattice steps spacing.X and
// spacing.Z doubling as the structural rest lengths. The ll.X edge
// column is always pinned; holdEdges pins all four edges.
func (s *System) AddClothSheet(ll, ur Vec3, spacing Vec3, mass float32, holdEdges bool) error {
	nx := latticeCount(ll.X, ur.X, spacing.X)
	nz := latticeCount(ll.Z, ur.Z, spacing.Z)
	k := nx * nz
	if k == 0 {
		return nil
	}

	b := newBatch(k)
	dists := make([]DistanceConstraint, 0, 2*k)
	points := make([]PointConstraint, 0, nz)

	first := uint32(s.n)
	i := 0
	for z := 0; z < nz; z++ {
		for x := 0; x < nx; x++ {
			p := Vec3{ll.X + float32(x)*spacing.X, ll.Y, ll.Z + float32(z)*spacing.Z}
			b.Pos[i*4] = p.X
			b.Pos[i*4+1] = p.Y
			b.Pos[i*4+2] = p.Z
			b.Pos[i*4+3] = 1
			b.InvMass[i] = invertMass(mass)
			b.RestDensity[i] = 1
			b.Phase[i] = PhaseRigid + s.rigidIndex

			self := first + uint32(i)
			pinned := x == 0
			if holdEdges {
				pinned = pinned || x == nx-1 || z == 0 || z == nz-1
			}
			if pinned {
				points = append(points, PointConstraint{Index: self, Target: p})
			}
			if x > 0 {
				dists = append(dists, DistanceConstraint{A: self - 1, B: self, Rest: spacing.X})
			}
			if z > 0 {
				dists = append(dists, DistanceConstraint{A: self - uint32(nx), B: self, Rest: spacing.Z})
			}
			i++
		}
	}

	if err := s.AppendBatch(b); err != nil {
		return err
	}
	s.appendConstraints(dists, points)
	s.groups = append(s.groups, ColorGroup{Start: int(first), End: s.n, Color: s.palettePick()})
	s.rigidIndex++
	return nil
}

// AddStaticSphereShell places near-immovable particles on a hollow
// spherical shell, every one pinned to its spawn point. Useful as a
// fixed obstacle for fluids and cloth.
func (s *System) AddStaticSphereShell(center Vec3, radius, spacing float32) error {
	if radius <= 0 || spacing <= 0 {
		return nil
	}
	n := latticeCount(-radius, radius, spacing)

	var b Batch
	var points []PointConstraint
	first := uint32(s.n)
	for z := 0; z < n; z++ {
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				p := Vec3{
					center.X - radius + float32(x)*spacing,
					center.Y - radius + float32(y)*spacing,
					center.Z - radius + float32(z)*spacing,
				}
				d := p.Sub(center).Length()
				if d < radius-spacing || d > radius {
					continue
				}
				b.Pos = append(b.Pos, p.X, p.Y, p.Z, 1)
				b.Vel = append(b.Vel, 0, 0, 0, 0)
				b.InvMass = append(b.InvMass, 0.01)
				b.RestDensity = append(b.RestDensity, 1)
				b.Phase = append(b.Phase, PhaseRigid+s.rigidIndex)
				points = append(points, PointConstraint{
					Index:  first + uint32(len(points)),
					Target: p,
				})
			}
		}
	}
	if b.count() == 0 {
		return nil
	}

	if err := s.AppendBatch(b); err != nil {
		return err
	}
	s.appendConstraints(nil, points)
	s.groups = append(s.groups, ColorGroup{Start: int(first), End: s.n, Color: s.palettePick()})
	s.rigidIndex++
	return nil
}

func newBatch(k int) Batch {
	return Batch{
		Pos:         make([]float32, k*4),
		Vel:         make([]float32, k*4),
		InvMass:     make([]float32, k),
		RestDensity: make([]float32, k),
		Phase:       make([]int32, k),
	}
}
