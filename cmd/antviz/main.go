package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-antcluster/pkg/dataset"
	"github.com/dd0wney/cluso-antcluster/pkg/graph"
	"github.com/dd0wney/cluso-antcluster/pkg/logging"
	"github.com/dd0wney/cluso-antcluster/pkg/simulation"
	"github.com/dd0wney/cluso-antcluster/pkg/visualization"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	planeBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#FFFF00"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type keyMap struct {
	Pause    key.Binding
	Step     key.Binding
	Evaluate key.Binding
	Faster   key.Binding
	Slower   key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Pause: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "pause/resume"),
	),
	Step: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "single step"),
	),
	Evaluate: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "color clusters"),
	),
	Faster: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "faster"),
	),
	Slower: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "slower"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Step, k.Evaluate, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Step, k.Evaluate},
		{k.Faster, k.Slower, k.Quit},
	}
}

type model struct {
	sim          *simulation.Simulation
	help         help.Model
	keys         keyMap
	paused       bool
	stepsPerTick int
	cols, rows   int
	sse          float64
	evaluated    bool
	err          error
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func initialModel(sim *simulation.Simulation) model {
	sim.AnnotateErrors()
	return model{
		sim:          sim,
		help:         help.New(),
		keys:         keys,
		stepsPerTick: 1,
		cols:         60,
		rows:         24,
	}
}

func (m model) Init() tea.Cmd {
	return tickCmd()
}

func (m *model) advance(steps int) {
	for i := 0; i < steps; i++ {
		if err := m.sim.Step(); err != nil {
			m.err = err
			m.paused = true
			return
		}
	}
}

func (m *model) evaluate() {
	centers, err := m.sim.Centers(m.sim.Config().Clusters)
	if err != nil {
		m.err = err
		return
	}
	eval, err := m.sim.Evaluate(centers)
	if err != nil {
		m.err = err
		return
	}
	m.sse = eval.SSE
	m.evaluated = true
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		// Leave room for the stats box and borders
		m.cols = max(10, msg.Width-40)
		m.rows = max(5, msg.Height-10)

	case tickMsg:
		if !m.paused {
			m.advance(m.stepsPerTick)
		}
		return m, tickCmd()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused

		case key.Matches(msg, m.keys.Step):
			m.paused = true
			m.advance(1)

		case key.Matches(msg, m.keys.Evaluate):
			m.evaluate()

		case key.Matches(msg, m.keys.Faster):
			m.stepsPerTick = min(m.stepsPerTick*2, 1024)
			logging.Debug("speed changed", logging.Int("steps_per_tick", m.stepsPerTick))

		case key.Matches(msg, m.keys.Slower):
			m.stepsPerTick = max(m.stepsPerTick/2, 1)
			logging.Debug("speed changed", logging.Int("steps_per_tick", m.stepsPerTick))
		}
	}

	return m, nil
}

func (m model) renderStats() string {
	stats := m.sim.Stats()
	state := "running"
	if m.paused {
		state = "paused"
	}

	var s strings.Builder
	fmt.Fprintf(&s, "Iteration: %d (%s)\n", m.sim.Iteration(), state)
	fmt.Fprintf(&s, "Speed:     %d steps/tick\n", m.stepsPerTick)
	fmt.Fprintf(&s, "Nodes:     %d\n", m.sim.Registry().Len())
	fmt.Fprintf(&s, "Ants:      %d\n", len(m.sim.Ants()))
	fmt.Fprintf(&s, "Carried:   %d\n\n", stats.Carried)
	fmt.Fprintf(&s, "Pickups:   %d / %d\n", stats.Pickups, stats.Pickups+stats.PickupsRejected)
	fmt.Fprintf(&s, "Drops:     %d / %d\n", stats.Drops, stats.Drops+stats.DropsRejected)
	if m.evaluated {
		fmt.Fprintf(&s, "\nSSE:       %.3f", m.sse)
	}
	return statsBoxStyle.Render(s.String())
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("🐜 Ant Colony Clustering"))
	s.WriteString("\n\n")

	plane := planeBoxStyle.Render(visualization.RenderGrid(m.sim.Snapshot(), m.cols, m.rows))
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderStats(), plane))

	if m.err != nil {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)))
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return s.String()
}

func main() {
	configPath := flag.String("config", "", "YAML config file")
	perCluster := flag.Int("blobs", 40, "Rows generated per cluster")
	logPath := flag.String("log", "", "Write JSON logs to this file (discarded when empty)")
	flag.Parse()

	// The terminal belongs to the UI, so logs go to a file or nowhere
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		logging.SetDefaultLogger(logging.NewJSONLogger(f, logging.DebugLevel))
	} else {
		logging.SetDefaultLogger(logging.NewNopLogger())
	}

	cfg := simulation.DefaultConfig()
	if *configPath != "" {
		loaded, err := simulation.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	centers := make([][]float64, cfg.Clusters)
	for i := range centers {
		angle := 2 * math.Pi * float64(i) / float64(cfg.Clusters)
		centers[i] = []float64{10 * math.Cos(angle), 10 * math.Sin(angle)}
	}
	ds, err := dataset.Blobs(centers, *perCluster, 1, cfg.Seed)
	if err != nil {
		log.Fatalf("Failed to generate rows: %v", err)
	}

	registry := graph.NewRegistry()
	ds.Nodes(registry)

	sim, err := simulation.New(cfg, registry,
		simulation.WithLogger(logging.With(logging.Component("antviz"))),
	)
	if err != nil {
		log.Fatalf("Failed to create simulation: %v", err)
	}
	logging.Info("starting viewer", logging.RunID(sim.RunID()), logging.Count(registry.Len()))

	p := tea.NewProgram(initialModel(sim), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
