package store

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/cosmosim/internal/orbit"
	"github.com/san-kum/cosmosim/internal/sim"
	"github.com/san-kum/cosmosim/internal/space"
)

func testTrack(t *testing.T, e float64) (*space.Node, *sim.Track) {
	t.Helper()
	o, err := orbit.Rebuild(orbit.Record{
		OrbitedMass:  2e30,
		OrbitingMass: 6e24,
		Elements:     orbit.Elements{Periapsis: 1.5e11, Eccentricity: e},
	})
	if err != nil {
		t.Fatal(err)
	}
	cfg := sim.TrackConfig{Samples: 5, Periods: 1}
	if e >= 1 {
		cfg.Duration = 1e6
	}
	tr, err := sim.TrackOrbit(context.Background(), o, cfg)
	if err != nil {
		t.Fatal(err)
	}
	return &space.Node{ID: "p1", Kind: "planet", Orbit: &o}, tr
}

func TestExportTrackJSON(t *testing.T) {
	n, tr := testTrack(t, 0.2)
	path := filepath.Join(t.TempDir(), "track.json")

	if err := ExportTrackJSON(path, n, tr); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var got TrackExport
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.NodeID != "p1" || len(got.Samples) != 5 {
		t.Errorf("unexpected export %+v", got)
	}
	if got.Period == nil || *got.Period != tr.Orbit.Period {
		t.Errorf("expected period %g", tr.Orbit.Period)
	}

	rebuilt, err := orbit.Rebuild(got.Orbit)
	if err != nil {
		t.Fatal(err)
	}
	if rebuilt != tr.Orbit {
		t.Errorf("orbit did not survive export:\n got %v\nwant %v", rebuilt, tr.Orbit)
	}
}

func TestWriteTrackJSON_Unbound(t *testing.T) {
	n, tr := testTrack(t, 1)
	var buf bytes.Buffer
	if err := WriteTrackJSON(&buf, n, tr); err != nil {
		t.Fatalf("unbound orbit should encode: %v", err)
	}
	var got TrackExport
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Period != nil {
		t.Errorf("expected no period, got %v", *got.Period)
	}
}

func TestWriteTrackCSV(t *testing.T) {
	_, tr := testTrack(t, 0.2)
	var buf bytes.Buffer
	if err := WriteTrackCSV(&buf, tr); err != nil {
		t.Fatal(err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 6 {
		t.Fatalf("expected header and 5 rows, got %d", len(rows))
	}
	if len(rows[0]) != len(csvHeader) || rows[0][0] != "time" {
		t.Errorf("unexpected header %v", rows[0])
	}
	if rows[1][0] != "0" {
		t.Errorf("expected first sample at t=0, got %s", rows[1][0])
	}
}

func TestWriteTreeJSON(t *testing.T) {
	n, _ := testTrack(t, 0.2)
	temp := 300.0
	root := &space.Node{ID: "s1", Kind: "star_system", Shape: space.Sphere{Radius: 1e13}, Temperature: &temp}
	root.AddChild(n)

	var buf bytes.Buffer
	if err := WriteTreeJSON(&buf, root); err != nil {
		t.Fatal(err)
	}
	var got NodeExport
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Shape.Type != "sphere" || *got.Temperature != 300 {
		t.Errorf("unexpected root %+v", got)
	}
	if len(got.Children) != 1 || got.Children[0].Orbit == nil {
		t.Fatalf("expected one orbiting child, got %+v", got.Children)
	}
}
