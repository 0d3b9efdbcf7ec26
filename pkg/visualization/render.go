package visualization

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	glyphEmpty   = "·"
	glyphNode    = "●"
	glyphCrowd   = "◉"
	glyphAnt     = "A"
	glyphCarrier = "Ⓐ"
)

type cell struct {
	glyph string
	color string
	count int
}

// cellIndex maps a plane coordinate to a grid index, clamped to the grid.
func cellIndex(v, extent float64, cells int) int {
	if extent <= 0 || cells <= 0 {
		return 0
	}
	i := int(math.Floor(v / extent * float64(cells)))
	return max(0, min(cells-1, i))
}

// RenderGrid draws the frame as cols x rows characters. Ants are drawn on
// top of nodes; a cell holding several nodes uses the color of the last one.
func RenderGrid(f *Frame, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}

	grid := make([][]cell, rows)
	for y := range grid {
		grid[y] = make([]cell, cols)
	}

	for _, n := range f.Nodes {
		if n.Carried {
			continue
		}
		c := &grid[cellIndex(n.Y, f.Height, rows)][cellIndex(n.X, f.Width, cols)]
		c.count++
		c.color = n.Color
		c.glyph = glyphNode
		if c.count > 1 {
			c.glyph = glyphCrowd
		}
	}

	for _, a := range f.Ants {
		c := &grid[cellIndex(a.Y, f.Height, rows)][cellIndex(a.X, f.Width, cols)]
		c.color = a.Color
		c.glyph = glyphAnt
		if a.Holding != 0 {
			c.glyph = glyphCarrier
		}
	}

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
	styles := make(map[string]lipgloss.Style)

	var b strings.Builder
	for y, row := range grid {
		for _, c := range row {
			if c.glyph == "" {
				b.WriteString(dim.Render(glyphEmpty))
				continue
			}
			style, ok := styles[c.color]
			if !ok {
				style = lipgloss.NewStyle().Foreground(lipgloss.Color(c.color))
				styles[c.color] = style
			}
			b.WriteString(style.Render(c.glyph))
		}
		if y < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
