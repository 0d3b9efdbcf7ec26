package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-antcluster/pkg/graph"
	"github.com/dd0wney/cluso-antcluster/pkg/validation"
)

var (
	// ErrNoRows is returned when the input holds no data rows
	ErrNoRows = errors.New("dataset: no rows")

	// ErrRaggedRow is returned when a row has a different number of features than the first
	// or lacks the label column
	ErrRaggedRow = errors.New("dataset: inconsistent feature count")

	// ErrLabelColumn is returned when LabelColumn lies outside the header
	ErrLabelColumn = errors.New("dataset: label column out of range")
)

// CSVOptions controls LoadCSV
type CSVOptions struct {
	// Header skips the first record and keeps it as column names
	Header bool
	// LabelColumn is the index of a non-numeric label column, or -1
	LabelColumn int
	// Comma is the field delimiter; zero means ','
	Comma rune
}

// DefaultCSVOptions expects a header and no label column
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{Header: true, LabelColumn: -1}
}

// Dataset is a set of rows with optional labels
type Dataset struct {
	Columns []string
	Rows    []graph.FeatureRow
	Labels  []string
}

// Dim returns the number of features per row
func (d *Dataset) Dim() int {
	if len(d.Rows) == 0 {
		return 0
	}
	return len(d.Rows[0])
}

// LoadCSV reads numeric rows from r.
func LoadCSV(r io.Reader, opts CSVOptions) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comma = validation.DefaultOr(opts.Comma, ',')

	ds := &Dataset{}
	line := 0

	if opts.Header {
		header, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil, ErrNoRows
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: read header: %w", err)
		}
		line++
		if opts.LabelColumn >= len(header) {
			return nil, fmt.Errorf("%w: column %d requested, header has %d", ErrLabelColumn, opts.LabelColumn, len(header))
		}
		for i, col := range header {
			if i == opts.LabelColumn {
				continue
			}
			ds.Columns = append(ds.Columns, strings.TrimSpace(col))
		}
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: line %d: %w", line+1, err)
		}
		line++
		if opts.LabelColumn >= len(record) {
			return nil, fmt.Errorf("%w: line %d has no label column %d", ErrRaggedRow, line, opts.LabelColumn)
		}

		row := make(graph.FeatureRow, 0, len(record))
		for i, field := range record {
			if i == opts.LabelColumn {
				ds.Labels = append(ds.Labels, strings.TrimSpace(field))
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("dataset: line %d column %d: %w", line, i+1, err)
			}
			row = append(row, v)
		}

		if len(ds.Rows) > 0 && len(row) != len(ds.Rows[0]) {
			return nil, fmt.Errorf("%w: line %d has %d features, want %d", ErrRaggedRow, line, len(row), len(ds.Rows[0]))
		}
		ds.Rows = append(ds.Rows, row)
	}

	if len(ds.Rows) == 0 {
		return nil, ErrNoRows
	}
	return ds, nil
}

// Nodes creates one registry node per row, all placed at the origin.
func (d *Dataset) Nodes(reg *graph.Registry) []*graph.Node {
	nodes := make([]*graph.Node, 0, len(d.Rows))
	for _, row := range d.Rows {
		nodes = append(nodes, reg.Create(row, graph.Position{}))
	}
	return nodes
}
