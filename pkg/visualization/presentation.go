package visualization

import (
	"fmt"
	"image/color"
	"math"
	"sync"

	"github.com/dd0wney/cluso-antcluster/pkg/colony"
	"github.com/dd0wney/cluso-antcluster/pkg/graph"
)

// Palette used by the renderers.
var (
	Blue    = color.NRGBA{R: 0, G: 0, B: 255, A: 255}
	Magenta = color.NRGBA{R: 255, G: 0, B: 255, A: 255}
	Red     = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
)

// ClusterColors is cycled through when coloring nodes by cluster index.
var ClusterColors = []color.NRGBA{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 255},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 255},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 255},
	{R: 0xd6, G: 0x27, B: 0x28, A: 255},
	{R: 0x94, G: 0x67, B: 0xbd, A: 255},
	{R: 0x8c, G: 0x56, B: 0x4b, A: 255},
	{R: 0xe3, G: 0x77, B: 0xc2, A: 255},
	{R: 0xbc, G: 0xbd, B: 0x22, A: 255},
}

// Presentation holds display attributes for nodes, keyed by node identity.
// Nodes without an entry are drawn opaque blue.
type Presentation struct {
	mu     sync.RWMutex
	colors map[*graph.Node]color.NRGBA
}

// NewPresentation creates an empty presentation layer
func NewPresentation() *Presentation {
	return &Presentation{colors: make(map[*graph.Node]color.NRGBA)}
}

func (p *Presentation) get(n *graph.Node) color.NRGBA {
	if c, ok := p.colors[n]; ok {
		return c
	}
	return Blue
}

// Color returns the node's color including alpha.
func (p *Presentation) Color(n *graph.Node) color.NRGBA {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.get(n)
}

// SetColor changes the node's RGB and keeps its current alpha.
func (p *Presentation) SetColor(n *graph.Node, c color.NRGBA) {
	p.mu.Lock()
	defer p.mu.Unlock()

	c.A = p.get(n).A
	p.colors[n] = c
}

// SetAlpha sets the node's transparency in [0, 1]. Values outside the range
// are clamped.
func (p *Presentation) SetAlpha(n *graph.Node, alpha float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	alpha = math.Max(0, math.Min(1, alpha))
	c := p.get(n)
	c.A = uint8(alpha * 255)
	p.colors[n] = c
}

// Alpha returns the node's transparency rounded to two decimals.
func (p *Presentation) Alpha(n *graph.Node) float64 {
	return math.Round(float64(p.Color(n).A)/255*100) / 100
}

// ColorClusters paints every node with the palette color of its cluster.
func (p *Presentation) ColorClusters(clusters [][]*graph.Node) {
	for i, members := range clusters {
		c := ClusterColors[i%len(ClusterColors)]
		for _, n := range members {
			p.SetColor(n, c)
		}
	}
}

// AntColor is magenta for an empty ant and red for one carrying a node.
func AntColor(a *colony.Ant) color.NRGBA {
	if a.IsHolding() {
		return Red
	}
	return Magenta
}

// Hex formats c as #rrggbb, dropping alpha.
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
