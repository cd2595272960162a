package particles

import "errors"

// Domain errors for particle system operations.
var (
	// ErrCapacity indicates an add would exceed MaxParticles. The add
	// is a no-op; nothing is partially written.
	ErrCapacity = errors.New("particles: particle capacity exhausted")

	// ErrInvalidIndex indicates a constraint referencing a slot at or
	// beyond the live particle count.
	ErrInvalidIndex = errors.New("particles: constraint references unborn particle")

	// ErrDestroyed indicates an operation on a destroyed system.
	ErrDestroyed = errors.New("particles: system destroyed")

	// ErrBadConfig indicates invalid construction parameters.
	ErrBadConfig = errors.New("particles: invalid configuration")
)
