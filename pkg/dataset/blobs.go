package dataset

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/dd0wney/cluso-antcluster/pkg/graph"
	"github.com/dd0wney/cluso-antcluster/pkg/logging"
)

// ErrNoCenters is returned by Blobs when no centers are given
var ErrNoCenters = errors.New("dataset: no blob centers")

// Blobs generates perCenter rows around every center, each feature drawn
// from a normal distribution with standard deviation spread. Rows are
// grouped by center and labeled with the center's index.
func Blobs(centers [][]float64, perCenter int, spread float64, seed uint64) (*Dataset, error) {
	if len(centers) == 0 {
		return nil, ErrNoCenters
	}
	if perCenter < 1 {
		return nil, fmt.Errorf("dataset: perCenter must be positive, got %d", perCenter)
	}
	if spread < 0 {
		return nil, fmt.Errorf("dataset: spread must be non-negative, got %v", spread)
	}

	dim := len(centers[0])
	for i, c := range centers {
		if len(c) != dim {
			return nil, fmt.Errorf("%w: center %d has %d features, want %d", ErrRaggedRow, i, len(c), dim)
		}
	}

	rng := rand.New(rand.NewPCG(seed, seed^0xda3e39cb94b95bdb))
	ds := &Dataset{
		Rows:   make([]graph.FeatureRow, 0, len(centers)*perCenter),
		Labels: make([]string, 0, len(centers)*perCenter),
	}
	for i := 0; i < dim; i++ {
		ds.Columns = append(ds.Columns, "x"+strconv.Itoa(i))
	}

	for ci, c := range centers {
		label := strconv.Itoa(ci)
		for j := 0; j < perCenter; j++ {
			row := make(graph.FeatureRow, dim)
			for k := range row {
				row[k] = c[k] + rng.NormFloat64()*spread
			}
			ds.Rows = append(ds.Rows, row)
			ds.Labels = append(ds.Labels, label)
		}
	}

	return ds, nil
}

// Standardize rescales every column in place to zero mean and unit
// standard deviation. Constant columns are only centered.
func (d *Dataset) Standardize() {
	dim := d.Dim()
	col := make([]float64, len(d.Rows))

	for k := 0; k < dim; k++ {
		for i, row := range d.Rows {
			col[i] = row[k]
		}
		mean, std := stat.MeanStdDev(col, nil)
		switch {
		case len(col) < 2:
			std = 1
		case std == 0:
			logging.Warn("constant column left unscaled", logging.Int("column", k))
			std = 1
		}
		for _, row := range d.Rows {
			row[k] = (row[k] - mean) / std
		}
	}
}
