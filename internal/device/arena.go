package device

import "fmt"

// Arena owns every buffer backing a particle system. Buffers are
// allocated once, at fixed capacity, and released together; nothing is
// ever resized, so a slot index stays a stable particle identity for
// the lifetime of the arena.
type Arena struct {
	released bool
	bytes    int64
}

func NewArena() *Arena {
	return &Arena{}
}

// Vec4 allocates a stride-4 float buffer for n vectors (xyzw layout).
func (a *Arena) Vec4(n int) []float32 {
	a.account(int64(n) * 4 * 4)
	return make([]float32, n*4)
}

func (a *Arena) Floats(n int) []float32 {
	a.account(int64(n) * 4)
	return make([]float32, n)
}

func (a *Arena) Uints(n int) []uint32 {
	a.account(int64(n) * 4)
	return make([]uint32, n)
}

func (a *Arena) Ints(n int) []int32 {
	a.account(int64(n) * 4)
	return make([]int32, n)
}

// Bytes reports the total allocation size, for diagnostics.
func (a *Arena) Bytes() int64 { return a.bytes }

func (a *Arena) Released() bool { return a.released }

// Release marks the arena dead. Allocation after Release is a
// programming error and panics, matching the source's assert on use
// after finalize.
func (a *Arena) Release() {
	a.released = true
}

func (a *Arena) account(n int64) {
	if a.released {
		panic(fmt.Sprintf("device: allocation of %d bytes from released arena", n))
	}
	a.bytes += n
}
