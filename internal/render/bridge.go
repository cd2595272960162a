// Package render owns the live position buffer shared between the
// simulation and the drawing shell. Ownership moves in one direction
// per frame: the simulation maps the buffer, mutates it through kernel
// dispatches, and unmaps it; the shell may only read through a Handle
// outside that window. There is exactly one writer, so no locking.
package render

import "errors"

var (
	// ErrMapped indicates the buffer is mapped for simulation access.
	ErrMapped = errors.New("render: position buffer is mapped")

	// ErrNotMapped indicates an unmap without a matching map.
	ErrNotMapped = errors.New("render: position buffer is not mapped")
)

// Bridge wraps the stride-4 position buffer (xyzw per particle, w is
// the homogeneous/validity flag) and tracks map state.
type Bridge struct {
	buf    []float32
	mapped bool
}

// NewBridge takes ownership of buf, which must be stride-4.
func NewBridge(buf []float32) *Bridge {
	return &Bridge{buf: buf}
}

// Map grants the simulation exclusive access to the raw buffer for the
// duration of a frame.
func (b *Bridge) Map() ([]float32, error) {
	if b.mapped {
		return nil, ErrMapped
	}
	b.mapped = true
	return b.buf, nil
}

func (b *Bridge) Unmap() error {
	if !b.mapped {
		return ErrNotMapped
	}
	b.mapped = false
	return nil
}

func (b *Bridge) Mapped() bool { return b.mapped }

// WriteAt stores one vec4 at the given slot while the buffer is
// unmapped. This is the host-side upload path used when particles are
// appended between frames.
func (b *Bridge) WriteAt(slot int, v [4]float32) error {
	if b.mapped {
		return ErrMapped
	}
	copy(b.buf[slot*4:slot*4+4], v[:])
	return nil
}

// WriteBlock stores a contiguous stride-4 block starting at slot.
func (b *Bridge) WriteBlock(slot int, data []float32) error {
	if b.mapped {
		return ErrMapped
	}
	copy(b.buf[slot*4:slot*4+len(data)], data)
	return nil
}

// Handle exposes the buffer to the drawing shell. Valid only between
// frames; reading through a handle while mapped is undefined, so the
// handle is refused outright during the mapped window.
func (b *Bridge) Handle() (Handle, error) {
	if b.mapped {
		return Handle{}, ErrMapped
	}
	return Handle{positions: b.buf}, nil
}

// Handle is a read-only view of the live position buffer for drawing.
type Handle struct {
	positions []float32
}

// Positions returns the stride-4 position data. The slice aliases the
// live buffer; callers must not retain it across a Step.
func (h Handle) Positions() []float32 { return h.positions }

// At returns the position of one slot.
func (h Handle) At(slot int) (x, y, z float32) {
	return h.positions[slot*4], h.positions[slot*4+1], h.positions[slot*4+2]
}
