package render

import (
	"errors"
	"testing"
)

func TestMapUnmapExclusivity(t *testing.T) {
	b := NewBridge(make([]float32, 16))

	buf, err := b.Map()
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if len(buf) != 16 {
		t.Fatalf("mapped buffer length = %d", len(buf))
	}

	if _, err := b.Map(); !errors.Is(err, ErrMapped) {
		t.Errorf("double map: got %v, want ErrMapped", err)
	}
	if _, err := b.Handle(); !errors.Is(err, ErrMapped) {
		t.Errorf("handle while mapped: got %v, want ErrMapped", err)
	}
	if err := b.WriteAt(0, [4]float32{1, 2, 3, 1}); !errors.Is(err, ErrMapped) {
		t.Errorf("write while mapped: got %v, want ErrMapped", err)
	}

	if err := b.Unmap(); err != nil {
		t.Fatalf("unmap: %v", err)
	}
	if err := b.Unmap(); !errors.Is(err, ErrNotMapped) {
		t.Errorf("double unmap: got %v, want ErrNotMapped", err)
	}
}

func TestWriteAtRoundTrip(t *testing.T) {
	b := NewBridge(make([]float32, 8))
	if err := b.WriteAt(1, [4]float32{4, 5, 6, 1}); err != nil {
		t.Fatalf("write: %v", err)
	}
	h, err := b.Handle()
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	x, y, z := h.At(1)
	if x != 4 || y != 5 || z != 6 {
		t.Errorf("At(1) = (%v,%v,%v), want (4,5,6)", x, y, z)
	}
}
