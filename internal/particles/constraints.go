package particles

import "fmt"

// AddDistanceConstraint registers a pair held at rest separation.
// Indices must reference live particles at registration time; there is
// no particle removal, so a valid reference stays valid.
func (s *System) AddDistanceConstraint(a, b uint32, rest float32) error {
	if s.destroyed {
		return ErrDestroyed
	}
	if int(a) >= s.n || int(b) >= s.n {
		return fmt.Errorf("%w: pair (%d,%d), %d live", ErrInvalidIndex, a, b, s.n)
	}
	if a == b {
		return fmt.Errorf("%w: self pair %d", ErrInvalidIndex, a)
	}
	s.distance = append(s.distance, DistanceConstraint{A: a, B: b, Rest: rest})
	return nil
}

// AddPointConstraint pins a particle to a fixed world point.
func (s *System) AddPointConstraint(index uint32, target Vec3) error {
	if s.destroyed {
		return ErrDestroyed
	}
	if int(index) >= s.n {
		return fmt.Errorf("%w: index %d, %d live", ErrInvalidIndex, index, s.n)
	}
	s.points = append(s.points, PointConstraint{Index: index, Target: target})
	return nil
}

// NumDistanceConstraints reports the registered pair count.
func (s *System) NumDistanceConstraints() int { return len(s.distance) }

// NumPointConstraints reports the registered pin count.
func (s *System) NumPointConstraints() int { return len(s.points) }

// DistanceConstraints returns the registered pairs. The slice is live;
// callers must not mutate it.
func (s *System) DistanceConstraints() []DistanceConstraint { return s.distance }

// PointConstraints returns the registered pins. The slice is live;
// callers must not mutate it.
func (s *System) PointConstraints() []PointConstraint { return s.points }

// appendConstraints registers builder-produced lists whose indices are
// already known to be live.
func (s *System) appendConstraints(dists []DistanceConstraint, points []PointConstraint) {
	s.distance = append(s.distance, dists...)
	s.points = append(s.points, points...)
}
