package particles

import "math"

// Phase classifies a particle's material behavior. Rigid groups are
// encoded as PhaseRigid plus a per-group counter, so phase >= PhaseRigid
// means "rigid, group phase-PhaseRigid".
const (
	PhaseSolid int32 = 0
	PhaseFluid int32 = 1
	PhaseRigid int32 = 2
)

// MaxTimestep bounds dt to keep stiff constraint projection from
// exploding. Larger steps are clamped, not rejected.
const MaxTimestep float32 = 0.05

type Vec3 struct {
	X, Y, Z float32
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float32   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) LengthSq() float32    { return v.Dot(v) }
func (v Vec3) Length() float32      { return sqrt32(v.LengthSq()) }

// Color is an RGBA display color attached to a group of particles. It
// is a rendering annotation only; the solver never reads it.
type Color struct {
	R, G, B, A float32
}

// ColorGroup marks a contiguous slot range [Start, End) drawn with one
// color. Ranges are non-overlapping and monotonic in insertion order.
type ColorGroup struct {
	Start, End int
	Color      Color
}

// DistanceConstraint keeps an unordered particle pair at Rest
// separation, corrections split by inverse mass.
type DistanceConstraint struct {
	A, B uint32
	Rest float32
}

// PointConstraint pins one particle to a fixed world point.
type PointConstraint struct {
	Index  uint32
	Target Vec3
}

// Config carries everything fixed at construction. Buffer capacity is
// set once from MaxParticles; nothing reallocates afterward.
type Config struct {
	ParticleRadius   float32
	GridSize         [3]int
	MaxParticles     int
	MinBounds        Vec3
	MaxBounds        Vec3
	SolverIterations int
	Gravity          Vec3
	Seed             int64
}

func DefaultConfig() Config {
	return Config{
		ParticleRadius:   0.25,
		GridSize:         [3]int{64, 64, 64},
		MaxParticles:     1 << 16,
		MinBounds:        Vec3{-16, 0, -16},
		MaxBounds:        Vec3{16, 32, 16},
		SolverIterations: 4,
		Gravity:          Vec3{0, -9.8, 0},
		Seed:             1,
	}
}

func sqrt32(x float32) float32  { return float32(math.Sqrt(float64(x))) }
func floor32(x float32) float32 { return float32(math.Floor(float64(x))) }
func ceil32(x float32) float32  { return float32(math.Ceil(float64(x))) }

func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
