package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/isinglab/internal/ising"
	"github.com/san-kum/isinglab/internal/render"
)

const (
	historyCapacity = 600
	chartWidth      = 34
	chartHeight     = 4
	gifScale        = 4
	gifDelayMillis  = 50
)

type TickMsg time.Time

// Model holds the running simulation and the UI state around it.
type Model struct {
	runner    *ising.Runner
	sim       *ising.Model
	running   bool
	recording bool
	recorder  *render.Recorder
	gifPath   string
	statusMsg string
	showHelp  bool
}

// NewModel wraps a runner for interactive display. The runner's schedule, if
// any, keeps driving temperature and field between manual adjustments.
// Recorded GIF frames are written to gifPath when recording stops.
func NewModel(runner *ising.Runner, gifPath string) Model {
	return Model{
		runner:  runner,
		sim:     runner.Model(),
		running: true,
		gifPath: gifPath,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and advances the simulation on each tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "up", "k":
			m.sim.SetTemperature(m.sim.Temperature() * 1.05)
		case "down", "j":
			m.sim.SetTemperature(m.sim.Temperature() * 0.95)
		case "right", "l":
			m.sim.SetField(m.sim.Field() + 0.05)
		case "left", "h":
			m.sim.SetField(m.sim.Field() - 0.05)
		case "g":
			if m.recording {
				if err := m.recorder.Save(m.gifPath); err != nil {
					m.statusMsg = "gif: " + err.Error()
				} else {
					m.statusMsg = "saved " + m.gifPath
				}
				m.recording = false
				m.recorder = nil
			} else {
				m.recording = true
				m.recorder = render.NewRecorder(gifScale, gifDelayMillis)
				m.statusMsg = ""
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.runner.Step()
			if m.recording {
				m.recorder.Capture(m.sim.Lattice())
			}
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// View renders the spin grid next to the observables panel.
func (m Model) View() string {
	lat := m.sim.Lattice()
	gridView := canvasStyle.Render(SpinGrid(lat))

	var s strings.Builder
	s.WriteString(headerStyle.Render("ISING MODEL") + "\n")
	s.WriteString(m.statusLine() + "\n\n")

	energy, magnet, heat, chi := m.sim.Last()
	s.WriteString(labelStyle.Render("Sweep") + valueStyle.Render(fmt.Sprintf("%d", m.sim.Generation())) + "\n")
	s.WriteString(labelStyle.Render("Temperature") + valueStyle.Render(fmt.Sprintf("%.4f", m.sim.Temperature())) + "\n")
	s.WriteString(labelStyle.Render("Field") + valueStyle.Render(fmt.Sprintf("%.4f", m.sim.Field())) + "\n")
	s.WriteString(labelStyle.Render("Energy/spin") + valueStyle.Render(fmt.Sprintf("%.4f", energy/float64(m.sim.Spins()))) + "\n")
	s.WriteString(labelStyle.Render("Magnetization") + valueStyle.Render(fmt.Sprintf("%+.4f", magnet)) + "\n")
	s.WriteString(labelStyle.Render("Spec. heat") + valueStyle.Render(fmt.Sprintf("%.4f", heat)) + "\n")
	s.WriteString(labelStyle.Render("Suscept.") + valueStyle.Render(fmt.Sprintf("%.4f", chi)) + "\n\n")

	s.WriteString(MagnetBar(magnet, 30) + "\n")

	if chart := HistoryPlot(tail(m.sim.Magnetization(), historyCapacity), "Magnetization", chartWidth, chartHeight); chart != "" {
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(helpStyle.Render("\nSP:Pause ↑↓:Temp ←→:Field\nG:Record Q:Quit ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, gridView, statsView)

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  Up/K     - Temperature +5%          ║
║  Down/J   - Temperature -5%          ║
║  Right/L  - Field +0.05              ║
║  Left/H   - Field -0.05              ║
║  G        - Toggle GIF recording     ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n" + mainView
	}
	return mainView
}

func (m Model) statusLine() string {
	switch {
	case m.recording:
		return statusRecording.Render("● RECORDING")
	case m.running:
		return statusRunning.Render("RUNNING")
	default:
		return statusPaused.Render("PAUSED")
	}
}

func tail(values []float64, n int) []float64 {
	if len(values) > n {
		return values[len(values)-n:]
	}
	return values
}
