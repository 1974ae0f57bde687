package hierarchy

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cosmosim/internal/dynamo"
	"github.com/san-kum/cosmosim/internal/space"
	"gonum.org/v1/gonum/spatial/r3"
)

var _ = Describe("Generator", func() {
	var (
		ctx context.Context
		gen *Generator
	)

	BeforeEach(func() {
		ctx = context.Background()
		reg := NewRegistry()
		reg.Register(kindStar, KindEntry{Configurator: leaf(kindStar, 1, nil)})
		gen = New(reg, Options{})
	})

	Describe("a flat region of 4e60 m³", func() {
		var (
			parent *space.Node
			def    ChildDefinition
		)

		BeforeEach(func() {
			// A disk of radius 1e21 m thick enough to hold 4e60 m³.
			thickness := 4e60 / (4.0 / 3 * math.Pi * 1e42)
			parent = &space.Node{ID: "region", Shape: space.Ellipsoid{Axes: r3.Vec{X: 1e21, Y: 1e21, Z: thickness}}}
			def = ChildDefinition{Kind: kindStar, Space: 1e20, Density: 1e-60}
		})

		It("has the expected volume", func() {
			Expect(parent.Volume()).To(BeNumerically("~", 4e60, 1e48))
		})

		It("produces at most five well separated children", func() {
			got, err := drain(gen, ctx, parent, []ChildDefinition{def}, 5, 42)
			Expect(err).NotTo(HaveOccurred())
			Expect(len(got)).To(BeNumerically(">=", 1))
			Expect(len(got)).To(BeNumerically("<=", 5))
			Expect(minSeparation(got)).To(BeNumerically(">=", 2e20))
		})

		It("stops at the cap when the density allows hundreds", func() {
			def.Density = 1e-58
			got, err := drain(gen, ctx, parent, []ChildDefinition{def}, 5, 42)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(5))
		})

		It("fails fast when the clearance exceeds the region", func() {
			def.Space = 2e21
			_, err := drain(gen, ctx, parent, []ChildDefinition{def}, 5, 42)
			Expect(errors.Is(err, dynamo.ErrDegenerateOrbit)).To(BeTrue())
		})
	})

	Describe("density budget", func() {
		var parent *space.Node

		BeforeEach(func() {
			parent = &space.Node{ID: "p", Shape: space.Sphere{Radius: 1e6}}
		})

		mean := func(expected float64, limit, runs int) float64 {
			def := ChildDefinition{Kind: kindStar, Space: 1, Density: expected / parent.Volume()}
			total := 0
			for seed := 0; seed < runs; seed++ {
				got, err := drain(gen, ctx, parent, []ChildDefinition{def}, limit, int64(seed+1))
				Expect(err).NotTo(HaveOccurred())
				total += len(got)
			}
			return float64(total) / float64(runs)
		}

		It("approaches V·d when below the cap", func() {
			Expect(mean(2.5, 5, 2000)).To(BeNumerically("~", 2.5, 0.06))
		})

		It("approaches the cap when V·d exceeds it", func() {
			Expect(mean(7.3, 5, 200)).To(Equal(5.0))
		})

		It("realizes a fractional budget with its probability", func() {
			Expect(mean(0.25, 5, 4000)).To(BeNumerically("~", 0.25, 0.03))
		})
	})

	Describe("placement", func() {
		It("keeps clearance spheres apart in a crowded region", func() {
			parent := &space.Node{ID: "p", Shape: space.Sphere{Radius: 100}}
			def := ChildDefinition{Kind: kindStar, Space: 10, Density: 1000 / parent.Volume()}

			got, err := drain(gen, ctx, parent, []ChildDefinition{def}, 1000, 9)
			Expect(err).NotTo(HaveOccurred())
			Expect(len(got)).To(BeNumerically("<", 1000))
			Expect(minSeparation(got)).To(BeNumerically(">=", 20))
			for _, g := range got {
				Expect(r3.Norm(g.Node.Position) + def.Space).To(BeNumerically("<=", 100))
			}
		})

		It("avoids existing children", func() {
			parent := &space.Node{ID: "p", Shape: space.Sphere{Radius: 100}}
			parent.AddChild(&space.Node{ID: "core", Kind: kindDust, Shape: space.Sphere{Radius: 60}})
			def := ChildDefinition{Kind: kindStar, Space: 5, Density: 20 / parent.Volume()}

			got, err := drain(gen, ctx, parent, []ChildDefinition{def}, 20, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).NotTo(BeEmpty())
			for _, g := range got {
				Expect(r3.Norm(g.Node.Position)).To(BeNumerically(">=", 65))
			}
		})
	})

	Describe("determinism", func() {
		It("repeats the same sequence for the same seed", func() {
			parent := &space.Node{ID: "p", Shape: space.Sphere{Radius: 1e4}}
			defs := []ChildDefinition{
				{Kind: kindStar, Space: 50, Density: 40 / parent.Volume()},
				{Kind: kindDust, Space: 5, Density: 400 / parent.Volume()},
			}
			gen.Registry().Register(kindDust, KindEntry{Configurator: leaf(kindDust, 1, nil)})

			a, err := drain(gen, ctx, parent, defs, 100, 77)
			Expect(err).NotTo(HaveOccurred())
			b, err := drain(gen, ctx, parent, defs, 100, 77)
			Expect(err).NotTo(HaveOccurred())

			Expect(b).To(HaveLen(len(a)))
			for i := range a {
				Expect(b[i].Node.ID).To(Equal(a[i].Node.ID))
				Expect(b[i].Node.Kind).To(Equal(a[i].Node.Kind))
				Expect(b[i].Node.Position).To(Equal(a[i].Node.Position))
			}

			c, err := drain(gen, ctx, parent, defs, 100, 78)
			Expect(err).NotTo(HaveOccurred())
			Expect(c[0].Node.Position).NotTo(Equal(a[0].Node.Position))
		})
	})
})
