package particles

import (
	"sort"

	"github.com/san-kum/pbdsim/internal/device"
)

// emptyCell marks a cell with no particles in its [start,end) range.
const emptyCell = 0xffffffff

// grid is the spatial hash acceleration structure. Each rebuild hashes
// every particle into a uniform cell, sorts the particle index
// permutation by hash, and derives per-cell half-open ranges into the
// sorted order. Positions, inverse masses, and phases are re-gathered
// into sorted order at the same time; those snapshots are read-only
// for the rest of the iteration.
type grid struct {
	size     [3]int
	numCells int
	origin   Vec3
	cellSize float32

	hash  []uint32 // sorted along with index during Build
	index []uint32 // permutation: sorted slot -> original slot

	cellStart []uint32
	cellEnd   []uint32

	sortedPos     []float32 // stride 4
	sortedInvMass []float32
	sortedPhase   []int32
}

func newGrid(a *device.Arena, cfg Config) *grid {
	g := &grid{
		size:     cfg.GridSize,
		numCells: cfg.GridSize[0] * cfg.GridSize[1] * cfg.GridSize[2],
		origin:   cfg.MinBounds,
		cellSize: cfg.ParticleRadius * 2, // cell size equals particle diameter
	}
	g.hash = a.Uints(cfg.MaxParticles)
	g.index = a.Uints(cfg.MaxParticles)
	g.cellStart = a.Uints(g.numCells)
	g.cellEnd = a.Uints(g.numCells)
	g.sortedPos = a.Vec4(cfg.MaxParticles)
	g.sortedInvMass = a.Floats(cfg.MaxParticles)
	g.sortedPhase = a.Ints(cfg.MaxParticles)
	return g
}

// cellCoords maps a world position to integer cell coordinates,
// clamped to the grid bounds. Out-of-range particles bin into the
// border cells rather than wrapping.
func (g *grid) cellCoords(x, y, z float32) (cx, cy, cz int) {
	cx = clampi(int(floor32((x-g.origin.X)/g.cellSize)), 0, g.size[0]-1)
	cy = clampi(int(floor32((y-g.origin.Y)/g.cellSize)), 0, g.size[1]-1)
	cz = clampi(int(floor32((z-g.origin.Z)/g.cellSize)), 0, g.size[2]-1)
	return
}

func (g *grid) cellIndex(cx, cy, cz int) int {
	return (cz*g.size[1]+cy)*g.size[0] + cx
}

// Build rebuilds the whole structure for the first n particles of pos.
func (g *grid) Build(backend device.Backend, pos, invMass []float32, phase []int32, n int) {
	// hash kernel: one thread per particle
	backend.Dispatch(n, func(start, end int) {
		for i := start; i < end; i++ {
			cx, cy, cz := g.cellCoords(pos[i*4], pos[i*4+1], pos[i*4+2])
			g.hash[i] = uint32(g.cellIndex(cx, cy, cz))
			g.index[i] = uint32(i)
		}
	})

	// key-value sort by hash; ties need no sub-order
	sort.Sort(hashIndexPairs{g.hash[:n], g.index[:n]})

	// reset kernel: one thread per cell
	backend.Dispatch(g.numCells, func(start, end int) {
		for c := start; c < end; c++ {
			g.cellStart[c] = emptyCell
			g.cellEnd[c] = emptyCell
		}
	})

	// boundary + gather kernel: one thread per sorted slot. Each cell
	// boundary is written by exactly one thread (the one whose hash
	// differs from its neighbor), so no atomics are needed.
	backend.Dispatch(n, func(start, end int) {
		for si := start; si < end; si++ {
			h := g.hash[si]
			if si == 0 || h != g.hash[si-1] {
				g.cellStart[h] = uint32(si)
			}
			if si == n-1 || h != g.hash[si+1] {
				g.cellEnd[h] = uint32(si + 1)
			}

			oi := int(g.index[si])
			copy(g.sortedPos[si*4:si*4+4], pos[oi*4:oi*4+4])
			g.sortedInvMass[si] = invMass[oi]
			g.sortedPhase[si] = phase[oi]
		}
	})
}

// forNeighbors invokes fn for every sorted slot in the 27-cell
// neighborhood of (x,y,z), including the querying particle's own slot.
func (g *grid) forNeighbors(x, y, z float32, fn func(sj int)) {
	cx, cy, cz := g.cellCoords(x, y, z)
	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny, nz := cx+dx, cy+dy, cz+dz
				if nx < 0 || ny < 0 || nz < 0 ||
					nx >= g.size[0] || ny >= g.size[1] || nz >= g.size[2] {
					continue
				}
				c := g.cellIndex(nx, ny, nz)
				start := g.cellStart[c]
				if start == emptyCell {
					continue
				}
				for sj := int(start); sj < int(g.cellEnd[c]); sj++ {
					fn(sj)
				}
			}
		}
	}
}

type hashIndexPairs struct {
	hash  []uint32
	index []uint32
}

func (p hashIndexPairs) Len() int           { return len(p.hash) }
func (p hashIndexPairs) Less(i, j int) bool { return p.hash[i] < p.hash[j] }
func (p hashIndexPairs) Swap(i, j int) {
	p.hash[i], p.hash[j] = p.hash[j], p.hash[i]
	p.index[i], p.index[j] = p.index[j], p.index[i]
}
