// Package particles implements a position-based dynamics particle
// system: predicted positions are integrated forward each frame, a
// spatial hash grid rebuilds the neighbor structure, and a fixed
// number of solver iterations project collision, fluid density,
// world-boundary, distance, and point constraints onto the predicted
// positions. Velocity is never integrated across frames; it is derived
// from the position delta after solving.
//
// All particle attributes live in parallel flat arrays indexed by a
// stable slot in [0, NumParticles). Slots are append-only; there is no
// removal.
package particles
