// Package tui is the terminal front end: pick a preset scenario, then
// watch it run as a character-cell projection of the particle field.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/pbdsim/internal/config"
	"github.com/san-kum/pbdsim/internal/metrics"
	"github.com/san-kum/pbdsim/internal/particles"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	blueTxt = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

var presetInfo = map[string]string{
	"dam-break":    "fluid column collapse",
	"cloth-drape":  "sheet over a shell",
	"rope-swing":   "pinned chain",
	"ball-pit":     "granular pile",
	"shell-splash": "fluid onto a shell",
}

type state int

const (
	stateMenu state = iota
	stateSim
)

type model struct {
	state    state
	cursor   int
	presets  []string
	selected string

	sys     *particles.System
	cfg     *config.Config
	kinetic *metrics.KineticEnergy
	simTime float64

	running   bool
	paused    bool
	speed     float64
	history   []float64
	lastFrame time.Time
	fps       float64
	err       error

	width  int
	height int
}

func NewApp() *model {
	return &model{
		state:   stateMenu,
		presets: config.ListPresets(),
		kinetic: metrics.NewKineticEnergy(),
		speed:   1.0,
		history: make([]float64, 0, 60),
		width:   80,
		height:  24,
	}
}

func Run() error {
	p := tea.NewProgram(NewApp(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m model) Init() tea.Cmd { return nil }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.state != stateSim {
			return m, nil
		}
		if m.running && !m.paused && m.sys != nil && m.err == nil {
			now := time.Now()
			if !m.lastFrame.IsZero() {
				dt := now.Sub(m.lastFrame).Seconds()
				if dt > 0 {
					m.fps = 1.0 / dt
				}
			}
			m.lastFrame = now
			steps := int(m.speed)
			if steps < 1 {
				steps = 1
			}
			for i := 0; i < steps; i++ {
				m.step()
			}
		}
		if m.running {
			return m, tick()
		}
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.state == stateMenu {
		return m.menuKey(msg)
	}
	return m.simKey(msg)
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.presets[m.cursor]
		m.start()
		m.state = stateSim
		return m, tea.Batch(tea.ClearScreen, tick())
	}
	return m, nil
}

func (m model) simKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.teardown()
		return m, tea.Quit
	case "q", "escape":
		m.teardown()
		m.state = stateMenu
		return m, tea.ClearScreen
	case " ", "p":
		m.paused = !m.paused
	case "r":
		m.teardown()
		m.start()
		return m, tea.Batch(tea.ClearScreen, tick())
	case "+", "=":
		m.speed = math.Min(m.speed*2, 16)
	case "-", "_":
		m.speed = math.Max(m.speed/2, 0.25)
	case "0":
		m.speed = 1.0
	}
	return m, nil
}

func (m *model) start() {
	m.cfg = config.GetPreset(m.selected)
	if m.cfg == nil {
		m.err = fmt.Errorf("unknown preset %q", m.selected)
		return
	}
	sys, err := m.cfg.Build()
	if err != nil {
		m.err = err
		return
	}
	m.sys = sys
	m.err = nil
	m.simTime = 0
	m.speed = 1.0
	m.history = m.history[:0]
	m.kinetic.Reset()
	m.lastFrame = time.Time{}
	m.running = true
	m.paused = false
}

func (m *model) teardown() {
	if m.sys != nil {
		m.sys.Destroy()
		m.sys = nil
	}
	m.running = false
	m.paused = false
	m.err = nil
}

func (m *model) step() {
	if err := m.sys.Step(float32(m.cfg.Run.Dt)); err != nil {
		m.err = err
		m.paused = true
		return
	}
	m.simTime += m.cfg.Run.Dt
	m.kinetic.Observe(m.sys, m.simTime)
	m.history = append(m.history, m.kinetic.Value())
	if len(m.history) > 60 {
		m.history = m.history[1:]
	}
}

func (m model) View() string {
	if m.state == stateMenu {
		return m.viewMenu()
	}
	return m.viewSim()
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("           " + cyan.Render("p b d s i m") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-16s", name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-16s", name)) + dimmer.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter start   q quit") + "\n")

	return b.String()
}

func (m model) viewSim() string {
	if m.err != nil {
		return "\n   " + red.Render("error: "+m.err.Error()) + "\n\n" + dim.Render("   q back") + "\n"
	}
	if m.sys == nil {
		return ""
	}

	cw := m.width - 6
	ch := m.height - 10
	if cw < 50 {
		cw = 50
	}
	if ch < 12 {
		ch = 12
	}

	var b strings.Builder

	statusIcon := green.Render("●")
	statusText := green.Render("running")
	if m.paused {
		statusIcon = yellow.Render("○")
		statusText = yellow.Render("paused")
	}
	b.WriteString(fmt.Sprintf("\n   %s %s  %s\n", statusIcon, cyan.Render(m.selected), statusText))

	progress := m.simTime / m.cfg.Run.Duration
	if progress > 1 {
		progress = 1
	}
	barWidth := 36
	filled := int(progress * float64(barWidth))
	timeStr := fmt.Sprintf("%.1fs/%.0fs", m.simTime, m.cfg.Run.Duration)
	bar := cyan.Render(strings.Repeat("━", filled)) + dimmer.Render(strings.Repeat("─", barWidth-filled))
	b.WriteString(fmt.Sprintf("   %s %s  %s\n\n", bar, dim.Render(timeStr), dim.Render(fmt.Sprintf("%.0ffps", m.fps))))

	for _, row := range m.drawField(cw, ch) {
		b.WriteString("   " + string(row) + "\n")
	}

	b.WriteString(fmt.Sprintf("\n   %s%s  %s%s  %s%s\n",
		dim.Render("particles="), white.Render(fmt.Sprintf("%d", m.sys.NumParticles())),
		dim.Render("dropped="), white.Render(fmt.Sprintf("%d", m.sys.Dropped())),
		dim.Render("speed="), white.Render(fmt.Sprintf("%gx", m.speed))))

	if len(m.history) > 1 {
		b.WriteString(fmt.Sprintf("   %s %s\n", dim.Render("KE"), blueTxt.Render(sparkline(m.history, 24))))
	}

	b.WriteString("\n" + dim.Render("   space pause  ±speed  r reset  q back") + "\n")

	return b.String()
}

// drawField projects the particle field onto the terminal, front view:
// world X maps to columns, world Y to rows. Depth is dropped.
func (m model) drawField(cw, ch int) [][]rune {
	canvas := make([][]rune, ch)
	for i := range canvas {
		canvas[i] = make([]rune, cw)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	h, err := m.sys.RenderHandle()
	if err != nil {
		return canvas
	}
	lo, hi := m.sys.Bounds()
	rangeX := hi.X - lo.X
	rangeY := hi.Y - lo.Y
	if rangeX <= 0 || rangeY <= 0 {
		return canvas
	}

	for i := 0; i < m.sys.NumParticles(); i++ {
		x, y, _ := h.At(i)
		col := int(float32(cw-1) * (x - lo.X) / rangeX)
		row := ch - 1 - int(float32(ch-1)*(y-lo.Y)/rangeY)
		if col < 0 || col >= cw || row < 0 || row >= ch {
			continue
		}
		canvas[row][col] = phaseGlyph(m.sys.Phase(i), m.sys.InvMass(i))
	}

	// world floor
	for j := 0; j < cw; j++ {
		if canvas[ch-1][j] == ' ' {
			canvas[ch-1][j] = '_'
		}
	}
	return canvas
}

func phaseGlyph(phase int32, invMass float32) rune {
	if invMass <= 0 {
		return '#'
	}
	switch phase {
	case particles.PhaseFluid:
		return '~'
	case particles.PhaseRigid:
		return '+'
	default:
		return 'o'
	}
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < len(data); i += step {
		idx := int((data[i] - minVal) / rang * float64(len(chars)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}
