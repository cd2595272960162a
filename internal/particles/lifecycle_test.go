package particles

import (
	"errors"
	"testing"
)

func TestAppendBatchRoundTrip(t *testing.T) {
	s, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Destroy()

	const k = 5
	b := newBatch(k)
	for i := 0; i < k; i++ {
		b.Pos[i*4] = float32(i) + 0.5
		b.Pos[i*4+1] = 1
		b.Pos[i*4+2] = 2
		b.Pos[i*4+3] = 1
		b.Vel[i*4] = float32(i) * 0.1
		b.InvMass[i] = 1 / float32(i+1)
		b.RestDensity[i] = 1.5
		b.Phase[i] = PhaseSolid
	}
	if err := s.AppendBatch(b); err != nil {
		t.Fatal(err)
	}
	if s.NumParticles() != k {
		t.Fatalf("count = %d, want %d", s.NumParticles(), k)
	}

	// bit-exact round trip before any Step
	for i := 0; i < k; i++ {
		p, err := s.Position(i)
		if err != nil {
			t.Fatal(err)
		}
		if p.X != float32(i)+0.5 || p.Y != 1 || p.Z != 2 {
			t.Errorf("slot %d position = %v", i, p)
		}
		if v := s.Velocity(i); v.X != float32(i)*0.1 {
			t.Errorf("slot %d velocity = %v", i, v)
		}
		if w := s.InvMass(i); w != 1/float32(i+1) {
			t.Errorf("slot %d invMass = %v", i, w)
		}
		if ro := s.RestDensity(i); ro != 1.5 {
			t.Errorf("slot %d restDensity = %v", i, ro)
		}
		if ph := s.Phase(i); ph != PhaseSolid {
			t.Errorf("slot %d phase = %v", i, ph)
		}
	}
}

func TestAppendCapacity(t *testing.T) {
	cfg := testConfig()
	cfg.MaxParticles = 3
	s, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Destroy()

	for i := 0; i < 3; i++ {
		if err := s.Append(Vec3{float32(i), 1, 1}, Vec3{}, 1, 1, PhaseSolid); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	if err := s.Append(Vec3{9, 1, 1}, Vec3{}, 1, 1, PhaseSolid); !errors.Is(err, ErrCapacity) {
		t.Fatalf("append past capacity: got %v, want ErrCapacity", err)
	}
	if s.NumParticles() != 3 {
		t.Fatalf("count moved past capacity: %d", s.NumParticles())
	}
}

func TestAppendBatchRejectsOverflowWhole(t *testing.T) {
	cfg := testConfig()
	cfg.MaxParticles = 4
	s, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Destroy()

	if err := s.Append(Vec3{1, 1, 1}, Vec3{}, 1, 1, PhaseSolid); err != nil {
		t.Fatal(err)
	}

	b := newBatch(4)
	for i := range b.InvMass {
		b.InvMass[i] = 1
		b.RestDensity[i] = 1
		b.Pos[i*4+3] = 1
	}
	if err := s.AppendBatch(b); !errors.Is(err, ErrCapacity) {
		t.Fatalf("overflowing batch: got %v, want ErrCapacity", err)
	}
	// nothing partially written
	if s.NumParticles() != 1 {
		t.Fatalf("count = %d after rejected batch, want 1", s.NumParticles())
	}
}

func TestQueueFlushOrdering(t *testing.T) {
	s, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Destroy()

	s.QueueParticle(Vec3{2, 2, 2}, Vec3{0.5, 0, 0}, 2)
	s.QueueParticle(Vec3{5, 5, 5}, Vec3{0, 0.5, 0}, 4)

	if s.NumParticles() != 0 {
		t.Fatal("queue must not insert before Step")
	}
	if err := s.Step(0.01); err != nil {
		t.Fatal(err)
	}
	if s.NumParticles() != 2 {
		t.Fatalf("count after flush = %d, want 2", s.NumParticles())
	}

	// slots follow enqueue order; positions match up to spawn jitter
	jitter := s.Radius() * 0.011
	p0, _ := s.Position(0)
	p1, _ := s.Position(1)
	if abs32(p0.X-2) > jitter+0.01 || abs32(p1.X-5) > jitter+0.01 {
		t.Errorf("flush order broken: p0=%v p1=%v", p0, p1)
	}
	if s.InvMass(0) != 0.5 || s.InvMass(1) != 0.25 {
		t.Errorf("masses out of order: %v %v", s.InvMass(0), s.InvMass(1))
	}
	if s.Phase(0) != PhaseSolid || s.Phase(1) != PhaseSolid {
		t.Error("queued particles must be solid")
	}

	// each queued solid got its own color group, ranges monotonic
	groups := s.ColorGroups()
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	if groups[0].Start != 0 || groups[0].End != 1 || groups[1].Start != 1 || groups[1].End != 2 {
		t.Errorf("group ranges %+v not monotonic", groups)
	}
}

func TestQueueFluidFlushSharesGroup(t *testing.T) {
	s, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Destroy()

	blue := Color{0, 0, 1, 1}
	s.QueueFluid(Vec3{2, 4, 2}, blue, 1, 2)
	s.QueueFluid(Vec3{4, 4, 4}, blue, 1, 2)
	if err := s.Step(0.01); err != nil {
		t.Fatal(err)
	}

	if s.NumParticles() != 2 {
		t.Fatalf("count = %d", s.NumParticles())
	}
	if s.Phase(0) != PhaseFluid || s.RestDensity(1) != 2 {
		t.Error("fluid attributes not applied")
	}
	groups := s.ColorGroups()
	if len(groups) != 1 || groups[0].Start != 0 || groups[0].End != 2 {
		t.Fatalf("fluid batch should share one group, got %+v", groups)
	}
}

func TestDroppedCounter(t *testing.T) {
	cfg := testConfig()
	cfg.MaxParticles = 1
	s, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Destroy()

	s.QueueParticle(Vec3{2, 2, 2}, Vec3{}, 1)
	s.QueueParticle(Vec3{4, 4, 4}, Vec3{}, 1)
	if err := s.Step(0.01); err != nil {
		t.Fatal(err)
	}
	if s.NumParticles() != 1 {
		t.Fatalf("count = %d, want 1", s.NumParticles())
	}
	if s.Dropped() != 1 {
		t.Fatalf("dropped = %d, want 1", s.Dropped())
	}
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
