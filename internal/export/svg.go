// Package export renders run artifacts to SVG.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/pbdsim/internal/particles"
)

// SnapshotSVG draws the current particle positions as a front (XY)
// orthographic scatter, one circle per particle filled with its color
// group. Particles outside every group fall back to grey.
func SnapshotSVG(sys *particles.System, width, height int) (string, error) {
	h, err := sys.RenderHandle()
	if err != nil {
		return "", err
	}

	lo, hi := sys.Bounds()
	rangeX := float64(hi.X - lo.X)
	rangeY := float64(hi.Y - lo.Y)
	if rangeX == 0 || rangeY == 0 {
		return "", fmt.Errorf("export: degenerate world bounds")
	}

	scaleX := float64(width) / rangeX
	scaleY := float64(height) / rangeY
	dotRadius := float64(sys.Radius()) * scaleX
	if dotRadius < 0.5 {
		dotRadius = 0.5
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	groups := sys.ColorGroups()
	for i := 0; i < sys.NumParticles(); i++ {
		x, y, _ := h.At(i)
		cx := (float64(x) - float64(lo.X)) * scaleX
		cy := float64(height) - (float64(y)-float64(lo.Y))*scaleY
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, hexColor(groupColor(groups, i))))
	}

	sb.WriteString("</svg>")
	return sb.String(), nil
}

// SeriesSVG plots one metric series as a polyline over frame time.
func SeriesSVG(times, values []float64, width, height int, strokeColor string) string {
	if len(times) < 2 || len(times) != len(values) {
		return ""
	}

	minV, maxV := values[0], values[0]
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	rangeV := maxV - minV
	if rangeV == 0 {
		rangeV = 1
	}
	minV -= rangeV * 0.1
	rangeV *= 1.2

	t0 := times[0]
	rangeT := times[len(times)-1] - t0
	if rangeT == 0 {
		rangeT = 1
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i := range times {
		x := (times[i] - t0) / rangeT * float64(width)
		y := float64(height) - (values[i]-minV)/rangeV*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

func groupColor(groups []particles.ColorGroup, slot int) particles.Color {
	for _, g := range groups {
		if slot >= g.Start && slot < g.End {
			return g.Color
		}
	}
	return particles.Color{R: 0.6, G: 0.6, B: 0.6, A: 1}
}

func hexColor(c particles.Color) string {
	to := func(v float32) int {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return int(v * 255)
	}
	return fmt.Sprintf("#%02x%02x%02x", to(c.R), to(c.G), to(c.B))
}
