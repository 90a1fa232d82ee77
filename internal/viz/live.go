package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fieldlab/internal/engine"
	"github.com/san-kum/fieldlab/internal/grid"
)

const (
	frameRate       = 30
	historyCapacity = 400
	heatmapRows     = 32
)

var (
	canvasStyle  = lipgloss.NewStyle().Padding(1, 2)
	statsStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	graphStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

var fieldNames = []string{"density", "excitation", "regulation"}

// LiveConfig describes how the live view builds and reseeds its engine.
type LiveConfig struct {
	GridSize      int
	Length        float64
	Dt            float64
	Params        engine.Params
	SeedAmplitude float64
	SeedWidth     float64
	StepsPerFrame int
}

// Model is the bubbletea state for the live simulation view.
type Model struct {
	cfg        LiveConfig
	eng        *engine.Engine
	running    bool
	fieldIdx   int
	showDamage bool
	rmsHistory []float64
	err        error
}

// NewModel builds the live view and seeds the engine.
func NewModel(cfg LiveConfig) (Model, error) {
	if cfg.StepsPerFrame <= 0 {
		cfg.StepsPerFrame = 5
	}
	eng, err := engine.New(cfg.GridSize, cfg.Length, cfg.Dt, cfg.Params)
	if err != nil {
		return Model{}, err
	}
	eng.SeedGaussian(cfg.SeedAmplitude, cfg.SeedWidth)

	return Model{
		cfg:        cfg,
		eng:        eng,
		running:    true,
		rmsHistory: make([]float64, 0, historyCapacity),
	}, nil
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "f", "tab":
			m.fieldIdx = (m.fieldIdx + 1) % len(fieldNames)
		case "d":
			m.showDamage = !m.showDamage
		case "i":
			m.inject()
		}
	case tickMsg:
		if m.running {
			m.eng.Advance(m.cfg.StepsPerFrame)
			st := m.eng.Stats()
			m.rmsHistory = append(m.rmsHistory, st.Rho.RMS)
			if len(m.rmsHistory) > historyCapacity {
				m.rmsHistory = m.rmsHistory[1:]
			}
		}
		return m, tick()
	}
	return m, nil
}

// reset rebuilds the engine from the original config, dropping any
// timestep halving a previous instability forced.
func (m *Model) reset() {
	eng, err := engine.New(m.cfg.GridSize, m.cfg.Length, m.cfg.Dt, m.cfg.Params)
	if err != nil {
		m.err = err
		return
	}
	eng.SeedGaussian(m.cfg.SeedAmplitude, m.cfg.SeedWidth)
	m.eng = eng
	m.rmsHistory = m.rmsHistory[:0]
	m.err = nil
}

// inject drops a fresh Gaussian pulse of half the seed amplitude onto
// the current density field.
func (m *Model) inject() {
	geo := m.eng.Geometry()
	n := geo.N
	pulse := make(grid.Field, n*n)
	c := geo.Length / 2
	twoSigmaSq := 2 * m.cfg.SeedWidth * m.cfg.SeedWidth
	for i := 0; i < n; i++ {
		x := float64(i) * geo.Dx
		for j := 0; j < n; j++ {
			y := float64(j) * geo.Dx
			r2 := (x-c)*(x-c) + (y-c)*(y-c)
			pulse[i*n+j] = 0.5 * m.cfg.SeedAmplitude * math.Exp(-r2/twoSigmaSq)
		}
	}
	if err := m.eng.InjectDensity(pulse); err != nil {
		m.err = err
	}
}

func (m Model) View() string {
	snap := m.eng.Snapshot()
	st := m.eng.Stats()

	var field grid.Field
	switch m.fieldIdx {
	case 0:
		field = snap.Rho
	case 1:
		field = snap.Excit
	default:
		field = snap.Reg
	}

	canvas := Heatmap(field, m.eng.Geometry().N, heatmapRows, true)
	if m.showDamage {
		if broken := m.eng.Broken(); broken != nil {
			canvas = DamageOverlay(broken, m.eng.Geometry().N, heatmapRows)
		}
	}
	canvasView := canvasStyle.Render(canvas)

	var s strings.Builder
	s.WriteString(headerStyle.Render("FIELDLAB LIVE") + "\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	view := fieldNames[m.fieldIdx]
	if m.showDamage {
		view = "damage"
	}
	s.WriteString(fmt.Sprintf("%s  view: %s\n\n", status, view))

	if len(m.rmsHistory) > 1 {
		chart := asciigraph.Plot(m.rmsHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("density RMS"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Step") + valueStyle.Render(fmt.Sprintf("%d", st.Step)) + "\n")
	s.WriteString(labelStyle.Render("Dt") + valueStyle.Render(fmt.Sprintf("%.5f", st.Dt)) + "\n")
	s.WriteString(labelStyle.Render("Mass") + valueStyle.Render(fmt.Sprintf("%.4f", st.TotalMass)) + "\n")
	s.WriteString(labelStyle.Render("Rho max") + valueStyle.Render(fmt.Sprintf("%.4f", st.Rho.Max)) + "\n")
	s.WriteString(labelStyle.Render("Excit RMS") + valueStyle.Render(fmt.Sprintf("%.4f", st.Excit.RMS)) + "\n")
	s.WriteString(labelStyle.Render("Reg RMS") + valueStyle.Render(fmt.Sprintf("%.4f", st.Reg.RMS)) + "\n")

	engaged := "no"
	if st.ThresholdEngaged {
		engaged = "yes"
	}
	s.WriteString(labelStyle.Render("Stiffening") + valueStyle.Render(engaged) + "\n")
	if st.BrokenCells > 0 {
		s.WriteString(labelStyle.Render("Broken") + warningStyle.Render(fmt.Sprintf("%d", st.BrokenCells)) + "\n")
	}
	if st.StabilityWarnings > 0 {
		s.WriteString(labelStyle.Render("Warnings") + warningStyle.Render(fmt.Sprintf("%d", st.StabilityWarnings)) + "\n")
	}
	if m.err != nil {
		s.WriteString("\n" + warningStyle.Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("\nSP:Pause R:Reset F:Field D:Damage\nI:Inject Q:Quit"))

	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

// Run starts the live view and blocks until the user quits.
func Run(cfg LiveConfig) error {
	m, err := NewModel(cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
