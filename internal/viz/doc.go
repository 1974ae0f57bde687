// Package viz provides a terminal browser for generated hierarchies.
//
// The browser is a Bubble Tea program over any [Source] of nodes, such as
// the sqlite store or an in-memory tree:
//
//   - [Browser]: walk down and up the hierarchy, inspect a node
//   - [Canvas]: Braille pixel canvas used for the orbit view
//   - Theme selection with built-in color schemes
//
// # Key Bindings
//
//	j/k   - Move the cursor
//	enter - Open the selected node
//	h     - Back to the parent
//	o     - Toggle the orbit view of the selected node
//	t     - Cycle color themes
//	q     - Quit
package viz
