package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	progressdomain "github.com/Jibinz12/cerebra-app/internal/modules/progress/domain"
	"github.com/Jibinz12/cerebra-app/internal/modules/progress/dto"
	"github.com/Jibinz12/cerebra-app/internal/ui/theme"
)

// Port is the slice of the progress module this view drives.
type Port interface {
	Refresh(ctx context.Context) (dto.StatsOutput, error)
	ResetHistory(ctx context.Context, resetXP bool) error
}

// RefreshedMsg delivers the server snapshot. It bubbles through the
// app so the header totals can update.
type RefreshedMsg struct {
	Out dto.StatsOutput
	Err error
}

type resetDoneMsg struct {
	resetXP bool
	err     error
}

// Model is the stats tab: level, XP bar, and the session history.
type Model struct {
	port Port

	stats  dto.StatsOutput
	loaded bool

	bar        progress.Model
	spinner    spinner.Model
	loading    bool
	statusLine string

	width  int
	height int
}

func New(port Port) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		bar:     progress.New(progress.WithSolidFill(string(theme.Yellow)), progress.WithoutPercentage()),
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.spinner.Tick)
}

// Typing is always false here; the stats tab has no inputs.
func (m Model) Typing() bool { return false }

// RefreshNow re-fetches the snapshot on behalf of a palette command.
func (m Model) RefreshNow() (Model, tea.Cmd) {
	m.loading = true
	m.statusLine = ""
	return m, tea.Batch(m.spinner.Tick, m.refreshCmd())
}

// ResetNow clears the history, and the XP total too when resetXP is
// set.
func (m Model) ResetNow(resetXP bool) (Model, tea.Cmd) {
	m.statusLine = "clearing history…"
	return m, m.resetCmd(resetXP)
}

// Forget drops the cached snapshot. The app calls this when the
// session's credential stops working.
func (m *Model) Forget() {
	m.stats = dto.StatsOutput{}
	m.loaded = false
	m.statusLine = "signed out"
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = min(m.width-12, 48)

	case RefreshedMsg:
		m.loading = false
		if msg.Err != nil {
			m.statusLine = "stats load failed: " + msg.Err.Error()
			return m, nil
		}
		m.stats = msg.Out
		m.loaded = true
		m.statusLine = ""

	case resetDoneMsg:
		if msg.err != nil {
			m.statusLine = "reset failed: " + msg.err.Error()
			return m, nil
		}
		if msg.resetXP {
			m.statusLine = "history and XP cleared"
		} else {
			m.statusLine = "history cleared, XP kept"
		}
		return m, m.refreshCmd()

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case tea.KeyMsg:
		if msg.String() == "r" {
			return m.RefreshNow()
		}
	}
	return m, nil
}

func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Refresh(context.Background())
		return RefreshedMsg{Out: out, Err: err}
	}
}

func (m Model) resetCmd(resetXP bool) tea.Cmd {
	return func() tea.Msg {
		err := m.port.ResetHistory(context.Background(), resetXP)
		return resetDoneMsg{resetXP: resetXP, err: err}
	}
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.loading && !m.loaded {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Fetching your stats…")
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render(fmt.Sprintf("Level %d", m.stats.Level)) + "\n\n")
	sb.WriteString(m.bar.ViewAs(levelPercent(m.stats)) + "\n")
	sb.WriteString(theme.XP.Render(fmt.Sprintf("%d XP", m.stats.TotalXP)) +
		theme.Muted.Render(fmt.Sprintf("  ·  %d / %d into this level", m.stats.LevelProgress, m.stats.LevelStep)) + "\n\n")

	sb.WriteString(theme.Title.Render("History") + "\n")
	if len(m.stats.History) == 0 {
		sb.WriteString(theme.Muted.Render("  Nothing logged yet. Finish a focus session or a quiz") + "\n")
	}
	rows := m.stats.History
	if maxRows := m.height - 12; maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
	}
	for _, e := range rows {
		line := fmt.Sprintf("  %s  %-32s %4dm  %+5d",
			e.Timestamp.Format("Jan 02 15:04"), truncate(e.Topic, 32), e.Minutes, e.XP)
		if strings.HasPrefix(e.Topic, progressdomain.UndoPrefix) {
			sb.WriteString(theme.Muted.Render(line) + "\n")
		} else {
			sb.WriteString(line + "\n")
		}
	}
	sb.WriteString("\n" + theme.Muted.Render("r:refresh"))

	if m.statusLine != "" {
		sb.WriteString("\n" + theme.Muted.Render(m.statusLine))
	}

	pane := theme.Pane.Width(min(m.width-4, 88)).Render(sb.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Top, pane)
}

func levelPercent(s dto.StatsOutput) float64 {
	if s.LevelStep == 0 {
		return 0
	}
	return float64(s.LevelProgress) / float64(s.LevelStep)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
