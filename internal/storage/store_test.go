package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/cosmosim/internal/cosmos"
	"github.com/san-kum/cosmosim/internal/hierarchy"
	"github.com/san-kum/cosmosim/internal/random"
	"github.com/san-kum/cosmosim/internal/space"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

func vecEqualWithinRel(a, b r3.Vec, tol float64) bool {
	return scalar.EqualWithinAbsOrRel(a.X, b.X, 1e-9, tol) &&
		scalar.EqualWithinAbsOrRel(a.Y, b.Y, 1e-9, tol) &&
		scalar.EqualWithinAbsOrRel(a.Z, b.Z, 1e-9, tol)
}

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cosmos.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func generate(t *testing.T, seed int64) (*hierarchy.Generator, *space.Node, []*space.Node) {
	t.Helper()
	gen := hierarchy.New(cosmos.NewRegistry(), hierarchy.Options{})
	root, err := gen.Root(context.Background(), cosmos.Galaxy, seed)
	if err != nil {
		t.Fatal(err)
	}
	nodes, err := gen.Populate(context.Background(), root.Node, 2, 3, root.Source)
	if err != nil {
		t.Fatal(err)
	}
	return gen, root.Node, nodes
}

func TestOpen_RequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cosmos.db")
	for i := 0; i < 2; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		if err := s.Close(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestStore_RoundTrip(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	_, root, _ := generate(t, 31)

	if err := s.PutTree(ctx, root); err != nil {
		t.Fatalf("PutTree failed: %v", err)
	}

	var want []*space.Node
	root.Walk(func(n *space.Node, _ int) bool {
		want = append(want, n)
		return true
	})

	for _, w := range want {
		got, err := s.Node(ctx, w.ID)
		if err != nil {
			t.Fatalf("Node(%s): %v", w.ID, err)
		}
		if got.Kind != w.Kind || got.ParentID != w.ParentID || got.Seed != w.Seed ||
			got.Position != w.Position || got.Velocity != w.Velocity || got.Mass != w.Mass {
			t.Errorf("node %s differs:\n got %+v\nwant %+v", w.ID, got, w)
		}
		if got.Shape != w.Shape {
			t.Errorf("node %s: expected shape %v, got %v", w.ID, w.Shape, got.Shape)
		}
		if (got.Orbit == nil) != (w.Orbit == nil) {
			t.Fatalf("node %s: orbit presence differs", w.ID)
		}
		if w.Orbit != nil && *got.Orbit != *w.Orbit {
			t.Errorf("node %s: orbit differs:\n got %v\nwant %v", w.ID, got.Orbit, w.Orbit)
		}
		if (got.Temperature == nil) != (w.Temperature == nil) ||
			(w.Temperature != nil && *got.Temperature != *w.Temperature) {
			t.Errorf("node %s: temperature differs", w.ID)
		}
	}
}

func TestStore_ChildrenAndRoots(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	_, root, _ := generate(t, 32)
	if err := s.PutTree(ctx, root); err != nil {
		t.Fatal(err)
	}

	roots, err := s.Roots(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(roots) != 1 || roots[0].ID != root.ID {
		t.Fatalf("expected the galaxy as the only root, got %v", roots)
	}

	children, err := s.Children(ctx, root.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(children) != len(root.Children) {
		t.Fatalf("expected %d children, got %d", len(root.Children), len(children))
	}
	for i, c := range children {
		if c.ID != root.Children[i].ID {
			t.Errorf("child %d: expected %s, got %s", i, root.Children[i].ID, c.ID)
		}
	}

	tree, err := s.Tree(ctx, root.ID, 2)
	if err != nil {
		t.Fatal(err)
	}
	total := 0
	tree.Walk(func(*space.Node, int) bool { total++; return true })
	expected := 0
	root.Walk(func(*space.Node, int) bool { expected++; return true })
	if total != expected {
		t.Errorf("expected %d nodes in the loaded tree, got %d", expected, total)
	}

	counts, err := s.Counts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := make(map[space.Kind]int)
	root.Walk(func(n *space.Node, _ int) bool { want[n.Kind]++; return true })
	if len(counts) != len(want) {
		t.Fatalf("expected kinds %v, got %v", want, counts)
	}
	for kind, n := range want {
		if counts[kind] != n {
			t.Errorf("%s: expected %d, got %d", kind, n, counts[kind])
		}
	}
}

func TestStore_NotFound(t *testing.T) {
	s := openTemp(t)
	if _, err := s.Node(context.Background(), "missing"); !errors.Is(err, space.ErrNotFound) {
		t.Errorf("expected space.ErrNotFound, got %v", err)
	}
}

func TestStore_Enumerator(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	_, root, _ := generate(t, 33)
	if err := s.PutTree(ctx, root); err != nil {
		t.Fatal(err)
	}

	// A fresh copy of the root without in-memory children: the store must
	// supply the existing systems so a second pass adds new ones only.
	bare, err := s.Node(ctx, root.ID)
	if err != nil {
		t.Fatal(err)
	}
	gen := hierarchy.New(cosmos.NewRegistry(), hierarchy.Options{Enumerator: s})
	added := 0
	for g, err := range gen.Children(ctx, bare, 2, random.New(7)) {
		if err != nil {
			t.Fatal(err)
		}
		for _, c := range root.Children {
			if c.ID == g.Node.ID {
				t.Errorf("regenerated existing child %s", c.ID)
			}
		}
		added++
	}
	if added != 2 {
		t.Errorf("expected 2 new systems, got %d", added)
	}
}

func TestStore_PositionResolver(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	_, root, nodes := generate(t, 34)
	if err := s.PutTree(ctx, root); err != nil {
		t.Fatal(err)
	}

	for _, n := range nodes {
		if n.Kind != cosmos.Planet {
			continue
		}
		stored, err := s.Node(ctx, n.ID)
		if err != nil {
			t.Fatal(err)
		}
		want, err := space.AbsolutePositionAt(ctx, n, 3e7, space.NewIndex(root))
		if err != nil {
			t.Fatal(err)
		}
		got, err := space.AbsolutePositionAt(ctx, stored, 3e7, s)
		if err != nil {
			t.Fatal(err)
		}
		if !vecEqualWithinRel(got, want, 1e-12) {
			t.Errorf("planet %s: expected %v, got %v", n.ID, want, got)
		}
		return
	}
	t.Skip("no planet generated")
}

func TestStore_Runs(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	first := Run{ID: "a", RootID: "r1", Kind: cosmos.Galaxy, Seed: 1, Depth: 2, MaxChildren: 5, NodeCount: 10,
		Duration: 1500 * time.Millisecond, CreatedAt: time.Now().Add(-time.Hour)}
	second := Run{ID: "b", RootID: "r2", Kind: cosmos.Universe, Seed: 2, Depth: 1, MaxChildren: 3, NodeCount: 4}
	for _, r := range []Run{first, second} {
		if err := s.PutRun(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := s.Runs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].ID != "b" || runs[1].ID != "a" {
		t.Fatalf("expected newest first, got %+v", runs)
	}
	if runs[1].Duration != 1500*time.Millisecond || runs[1].Kind != cosmos.Galaxy {
		t.Errorf("unexpected run %+v", runs[1])
	}
}

func TestStore_DeleteTree(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	_, root, _ := generate(t, 35)
	if err := s.PutTree(ctx, root); err != nil {
		t.Fatal(err)
	}
	total := 0
	root.Walk(func(*space.Node, int) bool { total++; return true })

	n, err := s.DeleteTree(ctx, root.ID)
	if err != nil {
		t.Fatal(err)
	}
	if int(n) != total {
		t.Errorf("expected %d deleted, got %d", total, n)
	}
	counts, err := s.Counts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(counts) != 0 {
		t.Errorf("expected an empty store, got %v", counts)
	}
}
