// Package space models the spatial nodes of the cosmic hierarchy: their
// shapes, their positions relative to the enclosing container, and the
// resolution of absolute positions through chains of orbits.
package space
