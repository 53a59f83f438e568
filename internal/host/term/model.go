package term

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/cosmos/internal/metrics"
	"github.com/san-kum/cosmos/internal/render"
	"github.com/san-kum/cosmos/internal/scene"
	"github.com/san-kum/cosmos/internal/surface"
)

type TickMsg time.Time

// Model drives a mounted surface from bubbletea ticks.
type Model struct {
	host     *Host
	surf     *surface.Surface
	interval time.Duration
	theme    Theme
	styles   styles
	paused   bool
	last     time.Time
	frames   *metrics.Recorder
	fps      *metrics.FrameRate
	cols     int
}

// NewModel wraps a surface already mounted on host.
func NewModel(host *Host, surf *surface.Surface, tps int, theme Theme) Model {
	if tps <= 0 {
		tps = 60
	}
	return Model{
		host:     host,
		surf:     surf,
		interval: time.Second / time.Duration(tps),
		theme:    theme,
		styles:   newStyles(theme),
		frames:   &metrics.Recorder{},
		fps:      metrics.NewFrameRate(),
		cols:     host.Viewport().Width / 2,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			_ = m.surf.Unmount()
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
			if m.paused {
				m.surf.Scheduler().Cancel()
			} else {
				m.last = time.Time{}
				m.surf.Scheduler().Start()
			}
		case "t":
			m.theme = next(m.theme)
			m.styles = newStyles(m.theme)
		}
	case tea.WindowSizeMsg:
		m.cols = msg.Width
		m.host.Resize(msg.Width, msg.Height)
	case TickMsg:
		now := time.Time(msg)
		if m.host.Advance(now) > 0 {
			if !m.last.IsZero() {
				d := now.Sub(m.last)
				m.frames.Observe(d)
				m.fps.Observe(d)
			}
			m.last = now
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	if c := m.host.Canvas(); c != nil {
		b.WriteString(colorize(c))
	}

	status := m.styles.running.Render("RUNNING")
	if m.paused {
		status = m.styles.paused.Render("PAUSED")
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.title.Render("COSMOS "),
		status,
		m.styles.label.Render("  fps "),
		m.styles.value.Render(fmt.Sprintf("%5.1f", m.fps.Value())),
		m.styles.label.Render("  frame "),
		m.styles.sparkline(m.frames.Samples(), 20),
	)
	b.WriteString(line + "\n")
	b.WriteString(m.styles.hint.Render("space:pause  t:theme  q:quit"))
	return b.String()
}

func (m Model) Paused() bool { return m.paused }

func (m Model) Theme() Theme { return m.theme }

// colorize renders the canvas, one lipgloss style per run of equal colour.
func colorize(c *render.Braille) string {
	cols, rows := c.Cells()
	var b strings.Builder
	for row := 0; row < rows; row++ {
		var run strings.Builder
		var runColor scene.Color
		flush := func() {
			if run.Len() == 0 {
				return
			}
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runColor.String())).Render(run.String()))
			run.Reset()
		}
		for col := 0; col < cols; col++ {
			g, tint := c.Cell(col, row)
			if tint != runColor {
				flush()
				runColor = tint
			}
			run.WriteRune(g)
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}
