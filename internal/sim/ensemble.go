package sim

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/san-kum/cosmosim/internal/dynamo"
	"github.com/san-kum/cosmosim/internal/hierarchy"
	"github.com/san-kum/cosmosim/internal/space"
	"gonum.org/v1/gonum/stat"
)

// RunStats summarizes one seeded generation.
type RunStats struct {
	Seed    int64
	Nodes   int
	Counts  map[space.Kind]int
	Elapsed time.Duration
}

// Ensemble generates independent hierarchies from consecutive seeds in
// parallel. Each run owns its random source and its nodes; the generator
// and its registry are only read.
type Ensemble struct {
	gen       *hierarchy.Generator
	numRuns   int
	seedStart int64
}

func NewEnsemble(gen *hierarchy.Generator, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{gen: gen, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, kind space.Kind, depth, limit int) ([]RunStats, error) {
	results := make([]RunStats, e.numRuns)
	errs := make([]error, e.numRuns)

	dynamo.ParallelFor(e.numRuns, 1, func(start, end int) {
		for i := start; i < end; i++ {
			seed := e.seedStart + int64(i)
			results[i], errs[i] = e.one(ctx, kind, seed, depth, limit)
		}
	})

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("run %d (seed %d): %w", i, e.seedStart+int64(i), err)
		}
	}
	return results, nil
}

func (e *Ensemble) one(ctx context.Context, kind space.Kind, seed int64, depth, limit int) (RunStats, error) {
	start := time.Now()
	root, err := e.gen.Root(ctx, kind, seed)
	if err != nil {
		return RunStats{}, err
	}
	if _, err := e.gen.Populate(ctx, root.Node, depth, limit, root.Source); err != nil {
		return RunStats{}, err
	}

	st := RunStats{Seed: seed, Counts: make(map[space.Kind]int), Elapsed: time.Since(start)}
	root.Node.Walk(func(n *space.Node, _ int) bool {
		st.Nodes++
		st.Counts[n.Kind]++
		return true
	})
	return st, nil
}

// KindSummary describes the per-run count of one structure kind.
type KindSummary struct {
	Kind   space.Kind
	Mean   float64
	StdDev float64
	Min    int
	Max    int
}

// Summarize aggregates per-kind counts across runs, sorted by kind. Runs
// without a kind count as zero.
func Summarize(runs []RunStats) []KindSummary {
	kinds := make(map[space.Kind]bool)
	for _, r := range runs {
		for k := range r.Counts {
			kinds[k] = true
		}
	}

	out := make([]KindSummary, 0, len(kinds))
	for k := range kinds {
		xs := make([]float64, len(runs))
		ks := KindSummary{Kind: k, Min: -1}
		for i, r := range runs {
			n := r.Counts[k]
			xs[i] = float64(n)
			if ks.Min < 0 || n < ks.Min {
				ks.Min = n
			}
			if n > ks.Max {
				ks.Max = n
			}
		}
		if len(xs) > 1 {
			ks.Mean, ks.StdDev = stat.MeanStdDev(xs, nil)
		} else {
			ks.Mean = xs[0]
		}
		out = append(out, ks)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}
