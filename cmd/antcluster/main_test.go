package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-antcluster/pkg/dataset"
	"github.com/dd0wney/cluso-antcluster/pkg/graph"
	"github.com/dd0wney/cluso-antcluster/pkg/health"
	"github.com/dd0wney/cluso-antcluster/pkg/logging"
	"github.com/dd0wney/cluso-antcluster/pkg/metrics"
	"github.com/dd0wney/cluso-antcluster/pkg/simulation"
	"github.com/dd0wney/cluso-antcluster/pkg/visualization"
)

func TestRunBlobs(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	opts := options{
		labelColumn: -1,
		blobs:       20,
		iterations:  50,
		k:           3,
		exportPath:  filepath.Join(dir, "frame.sz"),
		render:      true,
	}
	require.NoError(t, run(context.Background(), opts, &out, logging.NewNopLogger()))

	report := out.String()
	assert.Contains(t, report, "50 iterations")
	assert.Contains(t, report, "cluster 2:")
	assert.Contains(t, report, "purity")
	// 10 default ants over 50 iterations
	assert.Contains(t, report, "of 500 attempts")

	f, err := os.Open(opts.exportPath)
	require.NoError(t, err)
	defer f.Close()

	frame, err := visualization.ReadCompressed(f)
	require.NoError(t, err)
	assert.Len(t, frame.Nodes, 60)
	assert.Equal(t, 50, frame.Iteration)
}

func TestRunCSV(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "rows.csv")
	rows := "a,b,label\n0,0,x\n0,1,x\n1,0,x\n9,9,y\n9,8,y\n8,9,y\n"
	require.NoError(t, os.WriteFile(data, []byte(rows), 0o644))

	cfgPath := filepath.Join(dir, "colony.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("ants: 2\nclusters: 2\nradius: 20\n"), 0o644))

	var out bytes.Buffer
	opts := options{
		configPath:  cfgPath,
		dataPath:    data,
		labelColumn: 2,
		iterations:  10,
		exportPath:  filepath.Join(dir, "frame.json"),
	}
	require.NoError(t, run(context.Background(), opts, &out, logging.NewNopLogger()))

	assert.Contains(t, out.String(), "cluster 1:")

	raw, err := os.ReadFile(opts.exportPath)
	require.NoError(t, err)
	var frame visualization.Frame
	require.NoError(t, json.Unmarshal(raw, &frame))
	assert.Len(t, frame.Nodes, 6)
}

func TestRunNeedsInput(t *testing.T) {
	err := run(context.Background(), options{labelColumn: -1, iterations: -1}, &bytes.Buffer{}, logging.NewNopLogger())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "-data or -blobs"))
}

func TestRunRejectsRowWithoutLabel(t *testing.T) {
	data := filepath.Join(t.TempDir(), "rows.csv")
	require.NoError(t, os.WriteFile(data, []byte("a,b,label\n1,2,x\n3,4\n5,6,z\n"), 0o644))

	opts := options{dataPath: data, labelColumn: 2, iterations: 1}
	err := run(context.Background(), opts, &bytes.Buffer{}, logging.NewNopLogger())
	assert.ErrorIs(t, err, dataset.ErrRaggedRow)
}

func TestPurity(t *testing.T) {
	a := graph.NewNode(graph.FeatureRow{0})
	b := graph.NewNode(graph.FeatureRow{0})
	c := graph.NewNode(graph.FeatureRow{0})
	d := graph.NewNode(graph.FeatureRow{0})

	labels := map[*graph.Node]string{a: "x", b: "x", c: "y", d: "y"}

	assert.Equal(t, 1.0, purity([][]*graph.Node{{a, b}, {c, d}}, labels))
	assert.Equal(t, 0.5, purity([][]*graph.Node{{a, b, c, d}}, labels))
	assert.Equal(t, 0.0, purity(nil, labels))
}

func TestHealthEndpoint(t *testing.T) {
	ds, err := dataset.Blobs([][]float64{{0, 0}, {10, 10}}, 10, 1, 3)
	require.NoError(t, err)
	reg := graph.NewRegistry()
	ds.Nodes(reg)

	cfg := simulation.DefaultConfig()
	cfg.Iterations = 20
	sim, err := simulation.New(cfg, reg)
	require.NoError(t, err)
	_, err = sim.Run(context.Background())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	newHealthChecker(sim).Handler()(rec, httptest.NewRequest("GET", "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp health.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Checks, "progress")
	assert.Contains(t, resp.Checks, "carried")
	assert.Contains(t, resp.Checks, "memory")
	assert.Equal(t, "Run finished", resp.Checks["progress"].Message)
}

func TestSampleSystemMetrics(t *testing.T) {
	m := metrics.NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sampleSystemMetrics(ctx, m, time.Hour)

	assert.Positive(t, testutil.ToFloat64(m.UptimeSeconds))
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.UptimeSeconds), time.Since(processStart).Seconds()-1)
	assert.Positive(t, testutil.ToFloat64(m.GoRoutines))
	assert.Positive(t, testutil.ToFloat64(m.MemoryAllocBytes))
}
