package export

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/cosmosim/internal/orbit"
	"github.com/san-kum/cosmosim/internal/sim"
)

func track(t *testing.T, e, inclination float64) *sim.Track {
	t.Helper()
	o, err := orbit.Rebuild(orbit.Record{
		OrbitedMass:  2e30,
		OrbitingMass: 6e24,
		Elements:     orbit.Elements{Periapsis: 1.5e11, Eccentricity: e, Inclination: inclination},
	})
	if err != nil {
		t.Fatal(err)
	}
	tr, err := sim.TrackOrbit(context.Background(), o, sim.TrackConfig{Samples: 64})
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestProject_StaysInPlane(t *testing.T) {
	tr := track(t, 0.5, 1.1)
	pts := Project(tr)
	if len(pts) != len(tr.Samples) {
		t.Fatalf("expected %d points, got %d", len(tr.Samples), len(pts))
	}
	// Projection onto the orbit plane keeps every radius.
	for i, p := range pts {
		r := math.Hypot(p.X, p.Y)
		if math.Abs(r-tr.Samples[i].Radius) > 1e-6*tr.Samples[i].Radius {
			t.Errorf("sample %d: expected radius %g, got %g", i, tr.Samples[i].Radius, r)
		}
	}
}

func TestWriteTrackSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTrackSVG(&buf, track(t, 0.2, 0), DefaultSVGOptions()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<?xml") || !strings.Contains(out, "<path") {
		t.Errorf("expected svg with a path, got %q", out[:min(len(out), 80)])
	}
	if got := strings.Count(out, " L"); got != 63 {
		t.Errorf("expected 63 line segments, got %d", got)
	}
}

func TestExportTrackSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orbit.svg")
	if err := ExportTrackSVG(path, track(t, 0, 0), DefaultSVGOptions()); err != nil {
		t.Fatal(err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("expected non-empty file, got %v %v", info, err)
	}
}

func TestWriteTrackSVG_TooShort(t *testing.T) {
	if err := WriteTrackSVG(new(bytes.Buffer), &sim.Track{}, DefaultSVGOptions()); err == nil {
		t.Error("expected error for empty track")
	}
}
