package visualization

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-antcluster/pkg/colony"
	"github.com/dd0wney/cluso-antcluster/pkg/graph"
)

// NodeView is one node as drawn in a frame
type NodeView struct {
	ID         uint64    `json:"id"`
	X          float64   `json:"x"`
	Y          float64   `json:"y"`
	Features   []float64 `json:"features"`
	ErrorScore float64   `json:"error"`
	Color      string    `json:"color"`
	Alpha      float64   `json:"alpha"`
	Carried    bool      `json:"carried,omitempty"`
}

// AntView is one ant as drawn in a frame
type AntView struct {
	ID      int     `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Holding uint64  `json:"holding,omitempty"`
	Color   string  `json:"color"`
}

// Frame is a point-in-time picture of the plane
type Frame struct {
	RunID     string     `json:"run_id"`
	Iteration int        `json:"iteration"`
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	Nodes     []NodeView `json:"nodes"`
	Ants      []AntView  `json:"ants"`
}

// NewFrame captures nodes and ants. pres may be nil, in which case every
// node gets the default presentation.
func NewFrame(nodes []*graph.Node, ants []*colony.Ant, pres *Presentation, width, height float64) *Frame {
	if pres == nil {
		pres = NewPresentation()
	}

	carried := make(map[*graph.Node]bool)
	f := &Frame{
		Width:  width,
		Height: height,
		Nodes:  make([]NodeView, 0, len(nodes)),
		Ants:   make([]AntView, 0, len(ants)),
	}

	for _, a := range ants {
		pos := a.Position()
		view := AntView{ID: a.ID(), X: pos.X, Y: pos.Y, Color: Hex(AntColor(a))}
		if h := a.Holding(); h != nil {
			view.Holding = h.ID()
			carried[h] = true
		}
		f.Ants = append(f.Ants, view)
	}

	for _, n := range nodes {
		pos := n.Placement()
		f.Nodes = append(f.Nodes, NodeView{
			ID:         n.ID(),
			X:          pos.X,
			Y:          pos.Y,
			Features:   n.Features(),
			ErrorScore: n.ErrorScore(),
			Color:      Hex(pres.Color(n)),
			Alpha:      pres.Alpha(n),
			Carried:    carried[n],
		})
	}

	return f
}

// ExportJSON exports the frame to JSON
func (f *Frame) ExportJSON() ([]byte, error) {
	return json.Marshal(f)
}

// WriteCompressed writes the frame as JSON inside a snappy framed stream.
func (f *Frame) WriteCompressed(w io.Writer) error {
	sw := snappy.NewBufferedWriter(w)
	if err := json.NewEncoder(sw).Encode(f); err != nil {
		sw.Close()
		return fmt.Errorf("encode frame: %w", err)
	}
	return sw.Close()
}

// ReadCompressed reads a frame written by WriteCompressed.
func ReadCompressed(r io.Reader) (*Frame, error) {
	var f Frame
	if err := json.NewDecoder(snappy.NewReader(r)).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return &f, nil
}
