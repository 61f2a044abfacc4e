package render

import (
	"io"
	"math"
	"strings"

	"github.com/zeusync/bounce/internal/core/systems/physics"
	"github.com/zeusync/bounce/internal/core/world"
)

const (
	blank    = ' '
	lineRune = '#'
	bodyRune = 'o'
)

var _ Canvas = (*ASCIICanvas)(nil)

// ASCIICanvas rasterizes shapes into a grid of runes. Each cell covers an
// equal slice of the world rect; points outside the rect are dropped.
type ASCIICanvas struct {
	cols, rows int
	cellW      float64
	cellH      float64
	cells      [][]rune
}

func NewASCIICanvas(bounds world.Rect, cols, rows int) *ASCIICanvas {
	c := &ASCIICanvas{
		cols:  cols,
		rows:  rows,
		cellW: bounds.Width / float64(cols),
		cellH: bounds.Height / float64(rows),
		cells: make([][]rune, rows),
	}
	for r := range c.cells {
		c.cells[r] = make([]rune, cols)
	}
	c.Clear()
	return c
}

func (c *ASCIICanvas) Clear() {
	for _, row := range c.cells {
		for i := range row {
			row[i] = blank
		}
	}
}

func (c *ASCIICanvas) Arc(center physics.Vec2, radius float64) {
	// enough samples to touch every cell the outline crosses
	span := radius / math.Min(c.cellW, c.cellH)
	n := max(8, int(math.Ceil(2*math.Pi*span*2)))
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		c.plot(center.Add(physics.V(math.Cos(a)*radius, math.Sin(a)*radius)), bodyRune)
	}
	c.plot(center, bodyRune)
}

func (c *ASCIICanvas) Line(from, to physics.Vec2) {
	d := physics.VectorBetween(from, to)
	steps := int(math.Ceil(2 * math.Max(math.Abs(d.X)/c.cellW, math.Abs(d.Y)/c.cellH)))
	if steps == 0 {
		c.plot(from, lineRune)
		return
	}
	for i := 0; i <= steps; i++ {
		c.plot(from.Add(d.Scale(float64(i)/float64(steps))), lineRune)
	}
}

func (c *ASCIICanvas) plot(p physics.Vec2, r rune) {
	col := int(math.Floor(p.X / c.cellW))
	row := int(math.Floor(p.Y / c.cellH))
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return
	}
	c.cells[row][col] = r
}

// At returns the rune in the given cell, or a blank outside the grid.
func (c *ASCIICanvas) At(col, row int) rune {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return blank
	}
	return c.cells[row][col]
}

func (c *ASCIICanvas) String() string {
	var sb strings.Builder
	sb.Grow((c.cols + 1) * c.rows)
	for _, row := range c.cells {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (c *ASCIICanvas) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, c.String())
	return int64(n), err
}
