// Package hierarchy populates a parent region with child structures.
//
// Children are drawn lazily from a weighted density model: each
// ChildDefinition contributes an expected count (parent volume times
// density), already present children use up that budget, and every new
// child is placed by an OpenSpaceFinder so that clearance spheres never
// overlap. The structure itself is produced by the Configurator registered
// for the child's kind.
//
// All randomness comes from the *random.Source passed to each call, and
// every realized child carries its own seed so its sub-hierarchy can be
// regenerated later.
package hierarchy
