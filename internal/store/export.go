package store

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/san-kum/cosmosim/internal/orbit"
	"github.com/san-kum/cosmosim/internal/sim"
	"github.com/san-kum/cosmosim/internal/space"
	"gonum.org/v1/gonum/spatial/r3"
)

type TrackExport struct {
	NodeID  string         `json:"node_id"`
	Kind    space.Kind     `json:"kind"`
	Orbit   orbit.Record   `json:"orbit"`
	Period  *float64       `json:"period,omitempty"`
	Samples []SampleExport `json:"samples"`
}

type SampleExport struct {
	Time        float64 `json:"time"`
	Position    r3.Vec  `json:"position"`
	Velocity    r3.Vec  `json:"velocity"`
	Radius      float64 `json:"radius"`
	Speed       float64 `json:"speed"`
	TrueAnomaly float64 `json:"true_anomaly"`
}

func newTrackExport(n *space.Node, tr *sim.Track) TrackExport {
	data := TrackExport{
		NodeID:  n.ID,
		Kind:    n.Kind,
		Orbit:   tr.Orbit.Record(n.Precession),
		Samples: make([]SampleExport, len(tr.Samples)),
	}
	if !math.IsInf(tr.Orbit.Period, 0) {
		p := tr.Orbit.Period
		data.Period = &p
	}
	for i, s := range tr.Samples {
		data.Samples[i] = SampleExport{
			Time:        s.Time,
			Position:    s.State.Position,
			Velocity:    s.State.Velocity,
			Radius:      s.Radius,
			Speed:       s.Speed,
			TrueAnomaly: s.TrueAnomaly,
		}
	}
	return data
}

// WriteTrackJSON writes the track of n's orbit as indented JSON.
func WriteTrackJSON(w io.Writer, n *space.Node, tr *sim.Track) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newTrackExport(n, tr))
}

func ExportTrackJSON(path string, n *space.Node, tr *sim.Track) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteTrackJSON(file, n, tr)
}

var csvHeader = []string{"time", "x", "y", "z", "vx", "vy", "vz", "radius", "speed", "true_anomaly"}

func WriteTrackCSV(w io.Writer, tr *sim.Track) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	format := func(v float64) string { return strconv.FormatFloat(v, 'g', 10, 64) }
	for _, s := range tr.Samples {
		p, v := s.State.Position, s.State.Velocity
		row := []string{
			format(s.Time),
			format(p.X), format(p.Y), format(p.Z),
			format(v.X), format(v.Y), format(v.Z),
			format(s.Radius), format(s.Speed), format(s.TrueAnomaly),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// NodeExport is the JSON form of a generated hierarchy.
type NodeExport struct {
	ID          string          `json:"id"`
	Kind        space.Kind      `json:"kind"`
	Name        string          `json:"name"`
	Seed        int64           `json:"seed"`
	Position    r3.Vec          `json:"position"`
	Velocity    r3.Vec          `json:"velocity"`
	Mass        float64         `json:"mass"`
	Shape       space.ShapeSpec `json:"shape"`
	Orbit       *orbit.Record   `json:"orbit,omitempty"`
	Temperature *float64        `json:"temperature,omitempty"`
	Children    []NodeExport    `json:"children,omitempty"`
}

func NewNodeExport(n *space.Node) (NodeExport, error) {
	spec, err := space.SpecOf(n.Shape)
	if err != nil {
		return NodeExport{}, err
	}
	out := NodeExport{
		ID:          n.ID,
		Kind:        n.Kind,
		Name:        n.Name,
		Seed:        n.Seed,
		Position:    n.Position,
		Velocity:    n.Velocity,
		Mass:        n.Mass,
		Shape:       spec,
		Temperature: n.Temperature,
	}
	if n.Orbit != nil {
		rec := n.Orbit.Record(n.Precession)
		out.Orbit = &rec
	}
	for _, c := range n.Children {
		ce, err := NewNodeExport(c)
		if err != nil {
			return NodeExport{}, err
		}
		out.Children = append(out.Children, ce)
	}
	return out, nil
}

// WriteTreeJSON writes root and its in-memory descendants.
func WriteTreeJSON(w io.Writer, root *space.Node) error {
	data, err := NewNodeExport(root)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
