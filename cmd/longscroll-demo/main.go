// Command longscroll-demo exercises the longscroll package against a
// bubbletea terminal host: a hundred thousand variable-height junk rows,
// scrolled with familiar j/k/g/G/<C-d>/<C-u> keys, driving the
// virtualized render pipeline instead of a fixed-size in-memory slice.
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/gristlabs/long-scroll"
)

const rowCount = 100_000

var (
	statusStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
)

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(longscroll.DefaultFrameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type model struct {
	ls      *longscroll.LongScroll
	surface *termSurface
	ds      *rowDataSource
	width   int
	height  int
}

func newModel(width, height int) *model {
	contentHeight := height - 2 // title line + status line
	if contentHeight < 1 {
		contentHeight = 1
	}
	ds := newRowDataSource(rowCount, width)
	surface := &termSurface{clientHeight: float64(contentHeight)}
	ls := longscroll.NewLongScroll(ds).WithPreferredBlockSize(40)

	m := &model{ls: ls, surface: surface, ds: ds, width: width, height: height}
	ls.MakeDom(surface)
	return m
}

func (m *model) Init() tea.Cmd {
	return tickCmd()
}

func (m *model) scrollBy(lines float64) {
	m.surface.scrollTop = m.surface.clampScroll(m.surface.scrollTop + lines)
	m.ls.OnScroll()
}

func (m *model) scrollTo(px float64) {
	m.surface.scrollTop = m.surface.clampScroll(px)
	m.ls.OnScroll()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		contentHeight := m.height - 2
		if contentHeight < 1 {
			contentHeight = 1
		}
		m.surface.clientHeight = float64(contentHeight)
		m.ds.width = m.width
		m.ls.OnResize()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "j", "down":
			m.scrollBy(1)
		case "k", "up":
			m.scrollBy(-1)
		case "J":
			m.scrollBy(10)
		case "K":
			m.scrollBy(-10)
		case "ctrl+d":
			m.scrollBy(m.surface.clientHeight)
		case "ctrl+u":
			m.scrollBy(-m.surface.clientHeight)
		case "g":
			m.scrollTo(0)
		case "G":
			pane, err := m.ls.GetPaneHeight()
			if err == nil {
				m.scrollTo(pane)
			}
		}
		return m, nil

	case tickMsg:
		m.ls.Tick()
		return m, tickCmd()
	}
	return m, nil
}

func (m *model) View() string {
	row, _ := m.ls.GetClampedRowAtPx(m.surface.scrollTop)
	title := titleStyle.Render(fmt.Sprintf("longscroll-demo: %d rows, focal row %d", rowCount, row))
	status := statusStyle.Render(fmt.Sprintf(
		"scroll=%.0f blocks=%d preferredBlockSize=%d  (j/k scroll, J/K 10 lines, ^d/^u page, g/G ends, q quit)",
		m.surface.scrollTop, len(m.ls.BlockSet().Blocks()), m.ls.BlockSet().PreferredBlockSize()))

	vp, err := m.ls.Viewport()
	if err != nil {
		return title + "\n" + status
	}

	lines := make([]string, 0, int(m.surface.clientHeight))
	for _, b := range m.ls.BlockSet().Blocks() {
		host, ok := b.Host().(*termBlockHost)
		if !ok || len(host.lines) == 0 {
			continue
		}
		top, bot := host.translateY, host.translateY+float64(len(host.lines))
		if bot <= vp.Top || top >= vp.Bot {
			continue
		}
		for i, line := range host.lines {
			y := top + float64(i)
			if y >= vp.Top && y < vp.Bot {
				lines = append(lines, line)
			}
		}
	}

	body := lipgloss.NewStyle().Height(int(m.surface.clientHeight)).Render(joinLines(lines))
	return title + "\n" + body + "\n" + status
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}

func main() {
	width, height := 120, 40
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}

	p := tea.NewProgram(newModel(width, height), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "longscroll-demo:", err)
		os.Exit(1)
	}
}
