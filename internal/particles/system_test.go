package particles

import (
	"errors"
	"testing"
)

func TestNewRejectsBadConfig(t *testing.T) {
	cases := []func(*Config){
		func(c *Config) { c.MaxParticles = 0 },
		func(c *Config) { c.ParticleRadius = 0 },
		func(c *Config) { c.SolverIterations = 0 },
		func(c *Config) { c.GridSize[1] = 0 },
		func(c *Config) { c.MaxBounds = c.MinBounds },
	}
	for i, mutate := range cases {
		cfg := testConfig()
		mutate(&cfg)
		if _, err := New(cfg); !errors.Is(err, ErrBadConfig) {
			t.Errorf("case %d: got %v, want ErrBadConfig", i, err)
		}
	}
}

func TestStepAfterDestroy(t *testing.T) {
	s, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	s.Destroy()
	if err := s.Step(0.01); !errors.Is(err, ErrDestroyed) {
		t.Fatalf("step after destroy: got %v, want ErrDestroyed", err)
	}
	if _, err := s.RenderHandle(); !errors.Is(err, ErrDestroyed) {
		t.Fatalf("handle after destroy: got %v, want ErrDestroyed", err)
	}
	s.Destroy() // idempotent
}

func TestCountMonotonic(t *testing.T) {
	s, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Destroy()

	prev := 0
	for frame := 0; frame < 8; frame++ {
		if frame%2 == 0 {
			s.QueueParticle(Vec3{float32(frame) + 0.5, 6, 4}, Vec3{}, 1)
		}
		if err := s.Step(0.016); err != nil {
			t.Fatal(err)
		}
		if s.NumParticles() < prev {
			t.Fatalf("count shrank: %d -> %d", prev, s.NumParticles())
		}
		if s.NumParticles() > s.MaxParticles() {
			t.Fatalf("count exceeds capacity: %d", s.NumParticles())
		}
		prev = s.NumParticles()
	}
}

func TestConstraintValidation(t *testing.T) {
	s, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Destroy()

	if err := s.Append(Vec3{2, 2, 2}, Vec3{}, 1, 1, PhaseSolid); err != nil {
		t.Fatal(err)
	}
	if err := s.Append(Vec3{3, 2, 2}, Vec3{}, 1, 1, PhaseSolid); err != nil {
		t.Fatal(err)
	}

	if err := s.AddDistanceConstraint(0, 1, 1); err != nil {
		t.Errorf("valid pair rejected: %v", err)
	}
	if err := s.AddDistanceConstraint(0, 2, 1); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("unborn reference: got %v, want ErrInvalidIndex", err)
	}
	if err := s.AddDistanceConstraint(1, 1, 1); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("self pair: got %v, want ErrInvalidIndex", err)
	}
	if err := s.AddPointConstraint(5, Vec3{}); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("unborn pin: got %v, want ErrInvalidIndex", err)
	}
	if s.NumDistanceConstraints() != 1 || s.NumPointConstraints() != 0 {
		t.Errorf("rejected constraints were registered")
	}
}

func TestStepClampsTimestep(t *testing.T) {
	s, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Destroy()

	// v = 1 downward under a huge dt still only travels MaxTimestep worth
	if err := s.Append(Vec3{4, 6, 4}, Vec3{0, -1, 0}, 1, 1, PhaseSolid); err != nil {
		t.Fatal(err)
	}
	if err := s.Step(10); err != nil {
		t.Fatal(err)
	}
	p, _ := s.Position(0)
	want := 6 - 1*MaxTimestep
	if abs32(p.Y-want) > 1e-5 {
		t.Errorf("y = %v, want %v (dt clamp)", p.Y, want)
	}
}

func TestBuilderGroupsMonotonic(t *testing.T) {
	cfg := testConfig()
	cfg.MaxParticles = 4096
	s, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Destroy()

	if err := s.AddParticleGrid(Vec3{1, 1, 1}, Vec3{3, 3, 2}, 1, false); err != nil {
		t.Fatal(err)
	}
	if err := s.AddRope(Vec3{4, 6, 4}, Vec3{0.5, 0, 0}, 0.5, 4, 1, true); err != nil {
		t.Fatal(err)
	}
	if err := s.AddClothSheet(Vec3{1, 6, 1}, Vec3{4, 6, 4}, Vec3{0.5, 0, 0.5}, 1, false); err != nil {
		t.Fatal(err)
	}

	groups := s.ColorGroups()
	if len(groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(groups))
	}
	at := 0
	for i, g := range groups {
		if g.Start != at || g.End <= g.Start {
			t.Fatalf("group %d range [%d,%d) not contiguous from %d", i, g.Start, g.End, at)
		}
		at = g.End
	}
	if at != s.NumParticles() {
		t.Fatalf("groups cover %d of %d particles", at, s.NumParticles())
	}

	// rope: links constraints plus one pin; cloth adds its own share
	if s.NumPointConstraints() == 0 || s.NumDistanceConstraints() == 0 {
		t.Error("builders registered no constraints")
	}

	// distinct rigid groups for rope and cloth
	ropeStart := groups[1].Start
	clothStart := groups[2].Start
	if s.Phase(ropeStart) == s.Phase(clothStart) {
		t.Error("rope and cloth share a rigid group")
	}
	if s.Phase(ropeStart) < PhaseRigid {
		t.Error("rope particles not rigid-tagged")
	}
}
