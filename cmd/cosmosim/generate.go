package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/cosmosim/internal/config"
	"github.com/san-kum/cosmosim/internal/cosmos"
	"github.com/san-kum/cosmosim/internal/hierarchy"
	"github.com/san-kum/cosmosim/internal/random"
	"github.com/san-kum/cosmosim/internal/sim"
	"github.com/san-kum/cosmosim/internal/space"
	"github.com/san-kum/cosmosim/internal/storage"
	"github.com/san-kum/cosmosim/internal/store"
	"github.com/spf13/cobra"
)

func newGenerator(enumerator hierarchy.Enumerator) *hierarchy.Generator {
	opts := cfg.GeneratorOptions()
	opts.Enumerator = enumerator
	opts.Logger = slog.Default()
	return hierarchy.New(cosmos.NewRegistry(), opts)
}

func openStore() (*storage.Store, error) {
	st, err := storage.Open(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return st, nil
}

func generate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	kindName := cfg.Root
	if len(args) > 0 {
		kindName = args[0]
	}
	kind, err := cosmos.ParseKind(kindName)
	if err != nil {
		return err
	}

	if preset != "" {
		p := config.GetPreset(string(kind), preset)
		if p == nil {
			return fmt.Errorf("unknown preset %q for %s", preset, kind)
		}
		if !cmd.Flags().Changed("depth") {
			cfg.Depth = p.Depth
		}
		if !cmd.Flags().Changed("max-children") {
			cfg.MaxChildren = p.MaxChildren
		}
		fmt.Fprintf(os.Stderr, "using preset: %s/%s\n", kind, preset)
	}

	s, err := resolveSeed()
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	gen := newGenerator(nil)
	start := time.Now()
	root, err := gen.Root(ctx, kind, s)
	if err != nil {
		return err
	}
	if _, err := gen.Populate(ctx, root.Node, cfg.Depth, cfg.MaxChildren, root.Source); err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	elapsed := time.Since(start)

	count := 0
	root.Node.Walk(func(*space.Node, int) bool { count++; return true })

	if err := st.PutTree(ctx, root.Node); err != nil {
		return err
	}
	run := storage.Run{
		ID:          uuid.NewString(),
		RootID:      root.Node.ID,
		Kind:        kind,
		Seed:        s,
		Depth:       cfg.Depth,
		MaxChildren: cfg.MaxChildren,
		NodeCount:   count,
		Duration:    elapsed,
	}
	if err := st.PutRun(ctx, run); err != nil {
		return err
	}

	if jsonOut {
		return store.WriteTreeJSON(cmd.OutOrStdout(), root.Node)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "generated %s %s (seed %d) in %v\n", kind, root.Node.ID, s, elapsed.Round(time.Millisecond))
	printCounts(out, countKinds(root.Node))
	return nil
}

func expand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	parent, err := st.Node(ctx, args[0])
	if err != nil {
		return err
	}
	s, err := resolveSeed()
	if err != nil {
		return err
	}

	gen := newGenerator(st)
	nodes, err := gen.Populate(ctx, parent, treeDepth, cfg.MaxChildren, random.New(s))
	if err != nil {
		return fmt.Errorf("expansion failed: %w", err)
	}
	if err := st.PutNodes(ctx, nodes); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "added %d nodes under %s (seed %d)\n", len(nodes), parent.ID, s)
	return nil
}

// regen rebuilds a stored structure from its seed and prints the fresh
// sub-hierarchy next to the stored one. Nothing is written.
func regen(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	stub, err := st.Node(ctx, args[0])
	if err != nil {
		return err
	}
	parent := &space.Node{}
	if stub.ParentID != "" {
		if parent, err = st.Tree(ctx, stub.ParentID, 1); err != nil {
			return err
		}
	}

	gen := newGenerator(nil)
	rebuilt, _, err := gen.Reconstitute(ctx, parent, stub, treeDepth, cfg.MaxChildren)
	if err != nil {
		return err
	}
	stored, err := st.Tree(ctx, stub.ID, treeDepth)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "stored:")
	printTree(out, stored, treeDepth)
	fmt.Fprintln(out, "\nregenerated:")
	printTree(out, rebuilt, treeDepth)
	return nil
}

func stats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	kindName := cfg.Root
	if len(args) > 0 {
		kindName = args[0]
	}
	kind, err := cosmos.ParseKind(kindName)
	if err != nil {
		return err
	}
	s, err := resolveSeed()
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "running %d generations of %s (seeds %d..%d)\n", runs, kind, s, s+int64(runs)-1)

	// Per-run info logs would drown the table.
	quiet := slog.New(slog.DiscardHandler)
	opts := cfg.GeneratorOptions()
	opts.Logger = quiet
	gen := hierarchy.New(cosmos.NewRegistry(), opts)

	start := time.Now()
	results, err := sim.NewEnsemble(gen, runs, s).Run(ctx, kind, cfg.Depth, cfg.MaxChildren)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tMEAN\tSTDDEV\tMIN\tMAX")
	for _, k := range sim.Summarize(results) {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%d\t%d\n", k.Kind, k.Mean, k.StdDev, k.Min, k.Max)
	}
	w.Flush()
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d runs in %v\n", len(results), time.Since(start).Round(time.Millisecond))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) > 0 {
		names := config.ListPresets(args[0])
		if len(names) == 0 {
			return fmt.Errorf("no presets for kind: %s", args[0])
		}
		fmt.Fprintf(out, "presets for %s:\n", args[0])
		for _, name := range names {
			p := config.GetPreset(args[0], name)
			fmt.Fprintf(out, "  %-10s depth=%d max-children=%d\n", name, p.Depth, p.MaxChildren)
		}
		return nil
	}

	kinds := make([]string, 0, len(config.Presets))
	for k := range config.Presets {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(out, "%s: %s\n", k, strings.Join(config.ListPresets(k), ", "))
	}
	return nil
}

func countKinds(root *space.Node) map[space.Kind]int {
	counts := make(map[space.Kind]int)
	root.Walk(func(n *space.Node, _ int) bool {
		counts[n.Kind]++
		return true
	})
	return counts
}

func sortedKinds(counts map[space.Kind]int) []space.Kind {
	kinds := make([]space.Kind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
