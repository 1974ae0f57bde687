// Package cosmos registers the structure kinds of the cosmic hierarchy,
// from the universe down to planets, with the configuration strategy and
// child definitions of each.
package cosmos
