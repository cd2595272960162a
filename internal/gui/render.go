package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/pbdsim/internal/particles"
)

func (a *App) drawWorld() {
	lo, hi := a.Sys.Bounds()
	center := rl.NewVector3((lo.X+hi.X)/2, (lo.Y+hi.Y)/2, (lo.Z+hi.Z)/2)
	rl.DrawCubeWires(center, hi.X-lo.X, hi.Y-lo.Y, hi.Z-lo.Z, ColGrid)

	// floor grid
	step := (hi.X - lo.X) / 8
	for i := 0; i <= 8; i++ {
		x := lo.X + float32(i)*step
		rl.DrawLine3D(rl.NewVector3(x, lo.Y, lo.Z), rl.NewVector3(x, lo.Y, hi.Z), ColGrid)
	}
	stepZ := (hi.Z - lo.Z) / 8
	for i := 0; i <= 8; i++ {
		z := lo.Z + float32(i)*stepZ
		rl.DrawLine3D(rl.NewVector3(lo.X, lo.Y, z), rl.NewVector3(hi.X, lo.Y, z), ColGrid)
	}
}

func (a *App) drawParticles() {
	h, err := a.Sys.RenderHandle()
	if err != nil {
		return
	}

	radius := a.Sys.Radius()
	groups := a.Sys.ColorGroups()
	gi := 0
	n := a.Sys.NumParticles()

	for i := 0; i < n; i++ {
		for gi < len(groups) && i >= groups[gi].End {
			gi++
		}
		color := rl.NewColor(150, 150, 150, 255)
		if gi < len(groups) && i >= groups[gi].Start {
			color = toRaylib(groups[gi].Color)
		}
		if a.Sys.InvMass(i) <= 0 {
			color = ColTextDim
		}

		x, y, z := h.At(i)
		rl.DrawSphere(rl.NewVector3(x, y, z), radius, color)
	}

	// distance constraints as thin links
	for _, dc := range a.Sys.DistanceConstraints() {
		ax, ay, az := h.At(int(dc.A))
		bx, by, bz := h.At(int(dc.B))
		rl.DrawLine3D(rl.NewVector3(ax, ay, az), rl.NewVector3(bx, by, bz), ColTextDim)
	}
}

func toRaylib(c particles.Color) rl.Color {
	to := func(v float32) uint8 {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return uint8(v * 255)
	}
	return rl.NewColor(to(c.R), to(c.G), to(c.B), to(c.A))
}
