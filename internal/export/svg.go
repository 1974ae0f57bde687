// Package export renders orbit tracks as SVG images.
package export

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/san-kum/cosmosim/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

type SVGOptions struct {
	Width, Height int
	Stroke        string
	Background    string
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Width: 600, Height: 600, Stroke: "#00ff00", Background: "#0a0a0a"}
}

// Point is a position in the orbital plane.
type Point struct{ X, Y float64 }

// planeBasis returns orthonormal axes of the plane spanned by r and v,
// with the first axis along r.
func planeBasis(r, v r3.Vec) (e1, e2 r3.Vec, ok bool) {
	h := r3.Cross(r, v)
	if r3.Norm(r) == 0 || r3.Norm(h) == 0 {
		return r3.Vec{}, r3.Vec{}, false
	}
	e1 = r3.Unit(r)
	e2 = r3.Unit(r3.Cross(h, r))
	return e1, e2, true
}

// Project maps each sample onto the orbital plane. Degenerate tracks
// (radial motion) fall back to the reference x-y plane.
func Project(tr *sim.Track) []Point {
	e1, e2 := r3.Vec{X: 1}, r3.Vec{Y: 1}
	if len(tr.Samples) > 0 {
		s := tr.Samples[0].State
		if a, b, ok := planeBasis(s.Position, s.Velocity); ok {
			e1, e2 = a, b
		}
	}
	pts := make([]Point, len(tr.Samples))
	for i, s := range tr.Samples {
		p := s.State.Position
		pts[i] = Point{X: r3.Dot(p, e1), Y: r3.Dot(p, e2)}
	}
	return pts
}

// WriteTrackSVG draws the track in its orbital plane with the barycenter
// marked at the origin.
func WriteTrackSVG(w io.Writer, tr *sim.Track, opts SVGOptions) error {
	pts := Project(tr)
	if len(pts) < 2 {
		return fmt.Errorf("track needs at least 2 samples, got %d", len(pts))
	}

	extent := 0.0
	for _, p := range pts {
		extent = math.Max(extent, math.Max(math.Abs(p.X), math.Abs(p.Y)))
	}
	if extent == 0 {
		extent = 1
	}
	// 10% padding on every side.
	scale := 0.45 * float64(min(opts.Width, opts.Height)) / extent
	cx, cy := float64(opts.Width)/2, float64(opts.Height)/2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		opts.Width, opts.Height, opts.Width, opts.Height, opts.Background, opts.Stroke)

	for i, p := range pts {
		x := cx + p.X*scale
		y := cy - p.Y*scale
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString(`"/>
`)
	fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
`, cx, cy, opts.Stroke)
	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func ExportTrackSVG(path string, tr *sim.Track, opts SVGOptions) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteTrackSVG(file, tr, opts)
}
