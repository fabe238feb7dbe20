// Package export renders tracks and rides to standalone SVG documents.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/gondola/internal/camera"
	"github.com/san-kum/gondola/internal/dynamo"
	"github.com/san-kum/gondola/internal/gondola"
	"github.com/san-kum/gondola/internal/track"
)

const (
	CurveColor      = "#ffd700"
	PointColor      = "#ff3030"
	TrajectoryColor = "#00e5ff"
	BodyColor       = "#e0e0e0"
	Background      = "#0a0a0a"

	margin = 0.1
)

// TrackSVG draws the curve samples as a polyline, the control points as
// dots and the ridden trajectory, ending in the body outline at its last
// position. The view is fitted to all inputs with uniform scaling.
// Non-finite trajectory points are skipped.
func TrackSVG(controlPoints, samples, trajectory []dynamo.Vec2, width, height int) string {
	trajectory = finitePoints(trajectory)
	cam := fitView(width, height, controlPoints, samples, trajectory)
	window := dynamo.V(float64(width), float64(height))

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, Background))

	if len(samples) >= 2 {
		sb.WriteString(pathElement(cam, window, samples, CurveColor, ""))
	}
	if len(trajectory) >= 2 {
		sb.WriteString(pathElement(cam, window, trajectory, TrajectoryColor, ` stroke-dasharray="4 3"`))
	}

	dot := 3.0
	sb.WriteString(fmt.Sprintf(`<g fill="%s">
`, PointColor))
	for _, p := range controlPoints {
		px := cam.WorldToPixel(p, window)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, px.X, px.Y, dot))
	}
	sb.WriteString("</g>\n")

	if len(trajectory) > 0 {
		last := trajectory[len(trajectory)-1]
		px := cam.WorldToPixel(last, window)
		r := gondola.Radius / cam.Size.X * float64(width)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-width="1.5"/>
`, px.X, px.Y, r, BodyColor))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func pathElement(cam *camera.Camera, window dynamo.Vec2, pts []dynamo.Vec2, color, extra string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5"%s d="M`, color, extra))
	for i, p := range pts {
		px := cam.WorldToPixel(p, window)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", px.X, px.Y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px.X, px.Y))
		}
	}
	sb.WriteString(`"/>
`)
	return sb.String()
}

// fitView returns a camera covering every set with the window's aspect
// ratio, so circles stay round.
func fitView(width, height int, sets ...[]dynamo.Vec2) *camera.Camera {
	min, max, ok := track.BoundsOf(sets...)
	if !ok {
		return camera.New(dynamo.Vec2{}, dynamo.V(20, 20))
	}
	return camera.Fit(min, max, margin).WithAspect(float64(width) / float64(height))
}

func finitePoints(pts []dynamo.Vec2) []dynamo.Vec2 {
	out := make([]dynamo.Vec2, 0, len(pts))
	for _, p := range pts {
		if p.IsValid() {
			out = append(out, p)
		}
	}
	return out
}
