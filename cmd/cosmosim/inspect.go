package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/cosmosim/internal/export"
	"github.com/san-kum/cosmosim/internal/integrators"
	"github.com/san-kum/cosmosim/internal/sim"
	"github.com/san-kum/cosmosim/internal/space"
	"github.com/san-kum/cosmosim/internal/store"
	"github.com/san-kum/cosmosim/internal/viz"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"
)

func listRuns(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	runList, err := st.Runs(ctx)
	if err != nil {
		return err
	}
	if len(runList) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ROOT\tKIND\tSEED\tDEPTH\tNODES\tDURATION\tCREATED")
	for _, r := range runList {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%v\t%s\n",
			r.RootID, r.Kind, r.Seed, r.Depth, r.NodeCount, r.Duration,
			r.CreatedAt.Local().Format(time.DateTime))
	}
	return w.Flush()
}

func show(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := st.Tree(ctx, args[0], treeDepth)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "id\t%s\n", n.ID)
	fmt.Fprintf(w, "kind\t%s\n", n.Kind)
	if n.Name != "" {
		fmt.Fprintf(w, "name\t%s\n", n.Name)
	}
	if n.ParentID != "" {
		fmt.Fprintf(w, "parent\t%s\n", n.ParentID)
	}
	fmt.Fprintf(w, "seed\t%d\n", n.Seed)
	fmt.Fprintf(w, "mass\t%.4g kg\n", n.Mass)
	fmt.Fprintf(w, "shape\t%v\n", n.Shape)
	fmt.Fprintf(w, "position\t%s\n", formatVec(n.Position))
	if n.Temperature != nil {
		fmt.Fprintf(w, "temperature\t%.1f K\n", *n.Temperature)
	}
	if n.Orbit != nil {
		fmt.Fprintf(w, "orbit\t%s\n", n.Orbit)
	}
	// The stored node is the resolver for every ancestor on the way up.
	abs, err := space.AbsolutePositionAt(ctx, n, at, st)
	if err != nil {
		return fmt.Errorf("absolute position: %w", err)
	}
	fmt.Fprintf(w, "absolute (t=%gs)\t%s\n", at, formatVec(abs))
	if err := w.Flush(); err != nil {
		return err
	}

	if len(n.Children) > 0 {
		fmt.Fprintln(out)
		printTree(out, n, treeDepth)
	}
	return nil
}

func deleteTree(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	removed, err := st.DeleteTree(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %d nodes\n", removed)
	return nil
}

func plotOrbit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := st.Node(ctx, args[0])
	if err != nil {
		return err
	}
	if n.Orbit == nil {
		return fmt.Errorf("%s has no orbit", n.ID)
	}

	tr, err := sim.TrackOrbit(ctx, *n.Orbit, trackConfig())
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if outPath != "" && format != "plot" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "json":
		return store.WriteTrackJSON(w, n, tr)
	case "csv":
		return store.WriteTrackCSV(w, tr)
	case "svg":
		return export.WriteTrackSVG(w, tr, export.DefaultSVGOptions())
	case "plot":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	o := tr.Orbit
	fmt.Fprintf(w, "%s\n%s\n\n", n, o)

	radii := tr.Radii()
	for i := range radii {
		radii[i] /= o.Periapsis
	}
	graph := asciigraph.Plot(radii,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("radius / periapsis"),
	)
	fmt.Fprintln(w, graph)
	fmt.Fprintln(w)

	speeds := tr.Speeds()
	for i := range speeds {
		speeds[i] /= 1000
	}
	graph = asciigraph.Plot(speeds,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("speed (km/s)"),
	)
	fmt.Fprintln(w, graph)
	return nil
}

func verify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := st.Node(ctx, args[0])
	if err != nil {
		return err
	}
	if n.Orbit == nil {
		return fmt.Errorf("%s has no orbit", n.ID)
	}

	names := []string{integrator}
	if integrator == "all" {
		names = integrators.Names()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n%s\n\n", n, n.Orbit)

	var results []*sim.Comparison
	for _, name := range names {
		start := time.Now()
		c, err := sim.Verify(ctx, *n.Orbit, sim.VerifyConfig{
			Integrator:     name,
			StepsPerPeriod: steps,
			Track:          trackConfig(),
		})
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		fmt.Fprintf(os.Stderr, "%s done in %v\n", name, time.Since(start).Round(time.Millisecond))
		results = append(results, c)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tMAX POS ERR\tMAX VEL ERR\tENERGY DRIFT\tECCENTRICITY\tPERIOD")
	for _, c := range results {
		period := "-"
		if c.SpectralPeriod > 0 {
			period = fmt.Sprintf("%.6g s", c.SpectralPeriod)
		}
		fmt.Fprintf(w, "%s\t%.3e\t%.3e\t%.3e\t%.6f\t%s\n",
			c.Integrator, c.MaxPositionError, c.MaxVelocityError, c.EnergyDrift, c.Eccentricity, period)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(results) == 1 {
		errs := make([]float64, len(results[0].PositionErrors))
		for i, e := range results[0].PositionErrors {
			errs[i] = math.Log10(math.Max(e, 1e-18))
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, asciigraph.Plot(errs,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption("log10 relative position error"),
		))
	}
	return nil
}

func browse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	var root *space.Node
	if len(args) > 0 {
		root, err = st.Node(ctx, args[0])
	} else {
		var roots []*space.Node
		roots, err = st.Roots(ctx)
		if err == nil && len(roots) == 0 {
			return fmt.Errorf("no stored hierarchies, run generate first")
		}
		if err == nil {
			root = roots[len(roots)-1]
		}
	}
	if err != nil {
		return err
	}
	return viz.Run(ctx, st, root)
}

func trackConfig() sim.TrackConfig {
	return sim.TrackConfig{
		Samples:  cfg.Track.Samples,
		Periods:  cfg.Track.Periods,
		Duration: span,
		Solver:   cfg.Solver(),
	}
}

func printTree(w io.Writer, root *space.Node, maxDepth int) {
	root.Walk(func(n *space.Node, d int) bool {
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", d), n)
		return d < maxDepth
	})
}

func printCounts(w io.Writer, counts map[space.Kind]int) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, k := range sortedKinds(counts) {
		fmt.Fprintf(tw, "  %s\t%d\n", k, counts[k])
	}
	tw.Flush()
}

func formatVec(v r3.Vec) string {
	return fmt.Sprintf("(%.4g, %.4g, %.4g) m", v.X, v.Y, v.Z)
}
