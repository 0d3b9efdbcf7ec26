package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dd0wney/cluso-antcluster/pkg/dataset"
	"github.com/dd0wney/cluso-antcluster/pkg/graph"
	"github.com/dd0wney/cluso-antcluster/pkg/health"
	"github.com/dd0wney/cluso-antcluster/pkg/logging"
	"github.com/dd0wney/cluso-antcluster/pkg/metrics"
	"github.com/dd0wney/cluso-antcluster/pkg/simulation"
	"github.com/dd0wney/cluso-antcluster/pkg/visualization"
)

var processStart = time.Now()

type options struct {
	configPath  string
	dataPath    string
	labelColumn int
	noHeader    bool
	standardize bool
	blobs       int
	iterations  int
	k           int
	exportPath  string
	metricsAddr string
	render      bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "YAML config file (defaults are used when empty)")
	flag.StringVar(&opts.dataPath, "data", "", "CSV file with one numeric row per line")
	flag.IntVar(&opts.labelColumn, "label", -1, "Index of a label column in -data, or -1")
	flag.BoolVar(&opts.noHeader, "no-header", false, "The CSV file has no header row")
	flag.BoolVar(&opts.standardize, "standardize", false, "Rescale every feature to zero mean and unit variance")
	flag.IntVar(&opts.blobs, "blobs", 0, "Generate this many rows per cluster instead of reading -data")
	flag.IntVar(&opts.iterations, "iterations", -1, "Override the configured iteration count")
	flag.IntVar(&opts.k, "k", 0, "Number of clusters to report (default from config)")
	flag.StringVar(&opts.exportPath, "export", "", "Write the final frame here (.sz for snappy, JSON otherwise)")
	flag.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address during the run")
	flag.BoolVar(&opts.render, "render", false, "Print the final plane as a character grid")
	flag.Parse()

	logger := logging.With(logging.Component("antcluster"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout, logger); err != nil {
		logging.ErrorLog("run failed", logging.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer, logger logging.Logger) error {
	cfg := simulation.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := simulation.LoadConfig(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if opts.iterations >= 0 {
		cfg.Iterations = opts.iterations
	}
	if opts.k > 0 {
		cfg.Clusters = opts.k
	}

	ds, err := loadDataset(opts, cfg.Clusters, cfg.Seed)
	if err != nil {
		return err
	}
	if opts.standardize {
		ds.Standardize()
	}

	registry := graph.NewRegistry()
	labels := make(map[*graph.Node]string, len(ds.Labels))
	for i, n := range ds.Nodes(registry) {
		if i < len(ds.Labels) {
			labels[n] = ds.Labels[i]
		}
	}
	logger.Info("loaded rows", logging.Count(registry.Len()), logging.Int("features", ds.Dim()))

	m := metrics.NewRegistry()
	sim, err := simulation.New(cfg, registry,
		simulation.WithLogger(logger),
		simulation.WithMetrics(m),
	)
	if err != nil {
		return err
	}

	if opts.metricsAddr != "" {
		sampleCtx, stopSampling := context.WithCancel(ctx)
		defer stopSampling()
		go sampleSystemMetrics(sampleCtx, m, 5*time.Second)

		srv := serveMetrics(opts.metricsAddr, m, newHealthChecker(sim), logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	result, err := sim.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	m.UpdateSystemMetrics(processStart)

	centers, err := sim.Centers(cfg.Clusters)
	if err != nil {
		return err
	}
	eval, err := sim.Evaluate(centers)
	if err != nil {
		return err
	}

	report(out, result, eval, labels)

	if opts.render {
		fmt.Fprintln(out, visualization.RenderGrid(sim.Snapshot(), 80, 30))
	}
	if opts.exportPath != "" {
		if err := export(sim.Snapshot(), opts.exportPath); err != nil {
			return err
		}
		logger.Info("exported frame", logging.String("path", opts.exportPath))
	}
	return nil
}

func loadDataset(opts options, k int, seed uint64) (*dataset.Dataset, error) {
	if opts.blobs > 0 {
		// k centers evenly spaced on a circle in a 2D feature space
		centers := make([][]float64, k)
		for i := range centers {
			angle := 2 * math.Pi * float64(i) / float64(k)
			centers[i] = []float64{10 * math.Cos(angle), 10 * math.Sin(angle)}
		}
		return dataset.Blobs(centers, opts.blobs, 1, seed)
	}

	if opts.dataPath == "" {
		return nil, errors.New("one of -data or -blobs is required")
	}
	f, err := os.Open(opts.dataPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	csvOpts := dataset.DefaultCSVOptions()
	csvOpts.Header = !opts.noHeader
	csvOpts.LabelColumn = opts.labelColumn
	return dataset.LoadCSV(f, csvOpts)
}

func newHealthChecker(sim *simulation.Simulation) *health.Checker {
	checker := health.NewChecker()
	checker.Register("progress", health.ProgressCheck(func() (int, bool) {
		p := sim.Progress()
		return p.Iteration, p.Finished
	}, 30*time.Second))
	checker.Register("carried", health.CarriedCheck(func() (int, int) {
		p := sim.Progress()
		return p.Carried, p.Ants
	}))
	checker.Register("memory", health.MemoryCheck(func() (uint64, uint64) {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		return ms.Alloc, ms.Sys
	}))
	return checker
}

// sampleSystemMetrics refreshes the uptime, goroutine and memory gauges
// until ctx is done.
func sampleSystemMetrics(ctx context.Context, m *metrics.Registry, every time.Duration) {
	m.UpdateSystemMetrics(processStart)
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.UpdateSystemMetrics(processStart)
		}
	}
}

func serveMetrics(addr string, m *metrics.Registry, checker *health.Checker, logger logging.Logger) *http.Server {
	if err := m.GetPrometheusRegistry().Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		logger.Warn("process metrics unavailable", logging.Error(err))
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.Handle("/health", checker.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("serving metrics", logging.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", logging.Error(err))
		}
	}()
	return srv
}

func report(out io.Writer, result *simulation.Result, eval *simulation.Evaluation, labels map[*graph.Node]string) {
	fmt.Fprintf(out, "run %s: %d iterations in %s", result.RunID, result.Iterations, result.Duration.Round(time.Millisecond))
	if result.Canceled {
		fmt.Fprint(out, " (canceled)")
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "pickups %d, drops %d of %d attempts, still carried %d\n",
		result.Stats.Pickups, result.Stats.Drops, result.Stats.Attempts(), result.Stats.Carried)

	for i, size := range eval.Sizes() {
		fmt.Fprintf(out, "cluster %d: %d nodes\n", i, size)
	}
	fmt.Fprintf(out, "sse %.4f\n", eval.SSE)

	if len(labels) > 0 {
		fmt.Fprintf(out, "purity %.4f\n", purity(eval.Clusters, labels))
	}
}

// purity is the fraction of labeled nodes whose label matches the majority
// label of their cluster.
func purity(clusters [][]*graph.Node, labels map[*graph.Node]string) float64 {
	total, correct := 0, 0
	for _, c := range clusters {
		counts := make(map[string]int)
		best := 0
		for _, n := range c {
			label, ok := labels[n]
			if !ok {
				continue
			}
			counts[label]++
			best = max(best, counts[label])
			total++
		}
		correct += best
	}
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}

func export(f *visualization.Frame, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if filepath.Ext(path) == ".sz" {
		return f.WriteCompressed(file)
	}
	data, err := f.ExportJSON()
	if err != nil {
		return err
	}
	_, err = file.Write(data)
	return err
}
