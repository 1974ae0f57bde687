package viz

import (
	"math"
	"strings"
)

// Each braille cell holds 2x4 dots. dotBits[row][col] is the bit of the
// dot at that position, offset from U+2800.
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

const brailleBlank = '\u2800'

// Canvas is a braille dot matrix of Width x Height cells, addressed in
// dots: (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	grid := make([][]rune, h)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(string(brailleBlank), w))
	}
	return &Canvas{Width: w, Height: h, Grid: grid}
}

// cell locates the dot at (x, y). ok is false outside the canvas.
func (c *Canvas) cell(x, y int) (row, col int, bit rune, ok bool) {
	if x < 0 || y < 0 || x >= c.Width*2 || y >= c.Height*4 {
		return 0, 0, 0, false
	}
	return y / 4, x / 2, dotBits[y%4][x%2], true
}

// Set turns on the dot at (x, y); points outside the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if row, col, bit, ok := c.cell(x, y); ok {
		c.Grid[row][col] |= bit
	}
}

func (c *Canvas) IsSet(x, y int) bool {
	row, col, bit, ok := c.cell(x, y)
	return ok && c.Grid[row][col]&bit != 0
}

// DrawLine sets every dot on the segment from (x0, y0) to (x1, y1).
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := x1-x0, y1-y0
	n := max(abs(dx), abs(dy))
	if n == 0 {
		c.Set(x0, y0)
		return
	}
	for i := 0; i <= n; i++ {
		c.Set(x0+int(math.Round(float64(dx*i)/float64(n))), y0+int(math.Round(float64(dy*i)/float64(n))))
	}
}

// Path draws the polyline through (xs[i], ys[i]) centered on the origin,
// scaled so the largest coordinate touches the edge. Both axes share one
// scale so ellipses keep their shape. It returns the sub-pixel position
// of the origin.
func (c *Canvas) Path(xs, ys []float64) (ox, oy int) {
	w, h := c.Width*2, c.Height*4
	ox, oy = w/2, h/2
	extent := 0.0
	for i := range xs {
		extent = math.Max(extent, math.Max(math.Abs(xs[i]), math.Abs(ys[i])))
	}
	if extent == 0 || len(xs) == 0 {
		return ox, oy
	}
	// Braille dots are close to square.
	scale := (float64(min(w, h))/2 - 1) / extent

	px := func(i int) (int, int) {
		return ox + int(math.Round(xs[i]*scale)), oy - int(math.Round(ys[i]*scale))
	}
	x0, y0 := px(0)
	for i := 1; i < len(xs); i++ {
		x1, y1 := px(i)
		c.DrawLine(x0, y0, x1, y1)
		x0, y0 = x1, y1
	}
	return ox, oy
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
