package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	plandto "github.com/Jibinz12/cerebra-app/internal/modules/plan/dto"
	planin "github.com/Jibinz12/cerebra-app/internal/modules/plan/port/in"
	progressdomain "github.com/Jibinz12/cerebra-app/internal/modules/progress/domain"
	apperrors "github.com/Jibinz12/cerebra-app/internal/platform/errors"
	"github.com/Jibinz12/cerebra-app/internal/ui/components"
	"github.com/Jibinz12/cerebra-app/internal/ui/theme"
	focusview "github.com/Jibinz12/cerebra-app/internal/ui/views/focus"
	quizview "github.com/Jibinz12/cerebra-app/internal/ui/views/quiz"
	scheduleview "github.com/Jibinz12/cerebra-app/internal/ui/views/schedule"
	statsview "github.com/Jibinz12/cerebra-app/internal/ui/views/stats"
)

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabSchedule tabID = iota
	tabFocus
	tabQuiz
	tabStats
	tabCount
)

var tabLabels = [tabCount]string{
	"Schedule", "Focus", "Quiz", "Stats",
}

// ─── async messages ──────────────────────────────────────────────────────────

type syllabusMsg struct {
	name   string
	topics []string
	err    error
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab      key.Binding
	Jump     key.Binding
	Generate key.Binding
	Done     key.Binding
	Focus    key.Binding
	Edit     key.Binding
	Help     key.Binding
	Palette  key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Jump:     key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "jump to tab")),
		Generate: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "generate plan")),
		Done:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle done")),
		Focus:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "focus on slot")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e/d", "edit/delete slot")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:  key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Jump},
		{k.Generate, k.Done, k.Focus, k.Edit},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the global
// help overlay, the command palette, and the XP header. All business
// logic is delegated to port interfaces; all rendering to sub-views.
type Model struct {
	plan planin.Usecase

	schedView scheduleview.Model
	focusView focusview.Model
	quizView  quizview.Model
	statsView statsview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette

	// xp mirrors the server total between refreshes; every remote
	// round trip that carries totals overwrites it.
	xp progressdomain.Experience

	status string
	conn   string
	width  int
	height int
}

func NewModel(plan planin.Usecase, focus focusview.Port, quiz quizview.Port, progress statsview.Port, sync scheduleview.ProgressPort) Model {
	return Model{
		plan:      plan,
		schedView: scheduleview.New(plan, sync),
		focusView: focusview.New(focus),
		quizView:  quizview.New(quiz),
		statsView: statsview.New(progress),
		activeTab: tabSchedule,
		keys:      defaultKeys(),
		help:      help.New(),
		palette:   components.NewPalette(),
		status:    "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.schedView.Init(),
		m.focusView.Init(),
		m.quizView.Init(),
		m.statsView.Init(),
	)
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette eats key input while open. Everything else keeps
	// flowing underneath it; the tick chains re-arm only when their
	// view sees the tick, so swallowing one would stop a countdown
	// for good.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		switch msg.(type) {
		case tea.KeyMsg, tea.MouseMsg:
			return m, cmd
		}
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, tea.Batch(cmds...)

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case syllabusMsg:
		if msg.err != nil {
			m.status = "syllabus: " + msg.err.Error()
			return m, nil
		}
		m.schedView.PrefillTopics(msg.topics)
		m.activeTab = tabSchedule
		m.status = fmt.Sprintf("%d topics extracted from %s", len(msg.topics), msg.name)
		return m, nil

	// FocusRequestMsg bubbles up from the schedule tab; switch over and
	// hand the slot to the countdown.
	case scheduleview.FocusRequestMsg:
		m.activeTab = tabFocus
		m.status = "focus: " + msg.Task
		var cmd tea.Cmd
		m.focusView, cmd = m.focusView.Update(focusview.StartMsg{Task: msg.Task, Minutes: msg.Minutes})
		return m, cmd

	case focusview.CompletedMsg:
		m.noteRemote(msg.Err)
		if msg.Err == nil {
			m.xp = progressdomain.Experience{TotalXP: msg.Out.TotalXP}
			m.status = fmt.Sprintf("focus session logged · level %d", msg.Out.Level)
		}

	case quizview.FinishedMsg:
		m.noteRemote(msg.Err)
		if msg.Err == nil && msg.Out.Refreshed {
			m.xp = progressdomain.Experience{TotalXP: msg.Out.TotalXP}
		}

	case scheduleview.ToggledMsg:
		m.noteRemote(msg.Err)
		if msg.Err == nil {
			m.xp = progressdomain.Experience{TotalXP: msg.Out.Stats.TotalXP}
		}

	case statsview.RefreshedMsg:
		m.noteRemote(msg.Err)
		if msg.Err == nil {
			m.xp = progressdomain.Experience{TotalXP: msg.Out.TotalXP}
		}

	case scheduleview.LoadedMsg:
		m.noteRemote(msg.Err)

	case scheduleview.SavedMsg:
		m.noteRemote(msg.Err)

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		// Yield to sub-views while a form or filter is capturing keys.
		if m.typing() {
			break
		}

		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "1", "2", "3", "4":
			// Number keys answer questions while a quiz is running.
			if m.activeTab == tabQuiz {
				break
			}
			n, _ := strconv.Atoi(msg.String())
			m.activeTab = tabID(n - 1)
			return m, nil
		case "?":
			m.showHelp = true
			return m, nil
		case ":":
			return m, m.palette.Open()
		}
	}

	// Keys go to the active tab only; everything else is broadcast so
	// the focus countdown and background loads keep moving off-screen.
	switch msg.(type) {
	case tea.KeyMsg, tea.MouseMsg:
		var cmd tea.Cmd
		switch m.activeTab {
		case tabSchedule:
			m.schedView, cmd = m.schedView.Update(msg)
		case tabFocus:
			m.focusView, cmd = m.focusView.Update(msg)
		case tabQuiz:
			m.quizView, cmd = m.quizView.Update(msg)
		case tabStats:
			m.statsView, cmd = m.statsView.Update(msg)
		}
		cmds = append(cmds, cmd)
	default:
		var cmd tea.Cmd
		m.schedView, cmd = m.schedView.Update(msg)
		cmds = append(cmds, cmd)
		m.focusView, cmd = m.focusView.Update(msg)
		cmds = append(cmds, cmd)
		m.quizView, cmd = m.quizView.Update(msg)
		cmds = append(cmds, cmd)
		m.statsView, cmd = m.statsView.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabSchedule:
		return m.schedView.View()
	case tabFocus:
		return m.focusView.View()
	case tabQuiz:
		return m.quizView.View()
	case tabStats:
		return m.statsView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "cerebra  " + strings.Join(parts, sep)
	xp := theme.XP.Render(fmt.Sprintf("Lv %d · %d XP", m.xp.Level(), m.xp.TotalXP))
	gap := m.width - lipgloss.Width(bar) - lipgloss.Width(xp) - 1
	if gap < 1 {
		gap = 1
	}
	bar += strings.Repeat(" ", gap) + xp + " "
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.conn != "" {
		left = theme.Danger.Render(m.conn) + "  " + left
	}
	if m.focusView.Running() && m.activeTab != tabFocus {
		left = theme.Hot.Render("● "+m.focusView.Headline()) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ───────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)
	var cmd tea.Cmd

	switch parts[0] {
	case "plan:generate":
		if len(parts) < 4 {
			m.status = "usage: plan:generate <hours> <energy> <topic,topic,...>"
			return m, nil
		}
		hours, err := strconv.Atoi(parts[1])
		if err != nil || hours <= 0 {
			m.status = "invalid hours"
			return m, nil
		}
		topics := strings.Split(strings.Join(parts[3:], " "), ",")
		m.activeTab = tabSchedule
		m.schedView, cmd = m.schedView.GenerateNow(plandto.GenerateInput{
			Topics: topics,
			Hours:  hours,
			Energy: parts[2],
		})

	case "plan:load":
		date := ""
		if len(parts) >= 2 {
			date = parts[1]
		}
		m.activeTab = tabSchedule
		m.schedView, cmd = m.schedView.ReloadNow(date)

	case "plan:save":
		m.activeTab = tabSchedule
		m.schedView, cmd = m.schedView.SaveNow()

	case "plan:clear":
		date := m.schedView.Date()
		if len(parts) >= 2 {
			if parts[1] == "all" {
				date = ""
			} else {
				date = parts[1]
			}
		} else if date == "" {
			m.status = "no day loaded: plan:clear <date|all>"
			return m, nil
		}
		m.activeTab = tabSchedule
		m.schedView, cmd = m.schedView.ClearNow(date)

	case "plan:analyze":
		if len(parts) < 2 {
			m.status = "usage: plan:analyze <file>"
			return m, nil
		}
		path := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		m.status = "reading " + path + "…"
		return m, m.analyzeCmd(path)

	case "focus:start":
		if len(parts) < 3 {
			m.status = "usage: focus:start <minutes> <task>"
			return m, nil
		}
		minutes, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid minutes"
			return m, nil
		}
		m.activeTab = tabFocus
		m.focusView, cmd = m.focusView.Update(focusview.StartMsg{
			Task:    strings.Join(parts[2:], " "),
			Minutes: minutes,
		})

	case "focus:adjust":
		if len(parts) < 2 {
			m.status = "usage: focus:adjust <minutes>"
			return m, nil
		}
		delta, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid minutes"
			return m, nil
		}
		m.activeTab = tabFocus
		m.focusView, cmd = m.focusView.AdjustNow(delta)

	case "quiz:start":
		topic := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		if topic == "" {
			m.status = "usage: quiz:start <topic>"
			return m, nil
		}
		m.activeTab = tabQuiz
		m.quizView, cmd = m.quizView.StartNow(topic)

	case "stats:refresh":
		m.activeTab = tabStats
		m.statsView, cmd = m.statsView.RefreshNow()

	case "stats:reset":
		resetXP := len(parts) >= 2 && parts[1] == "xp"
		m.activeTab = tabStats
		m.statsView, cmd = m.statsView.ResetNow(resetXP)

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, cmd
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// typing reports whether the active tab has a form or filter open, in
// which case global key bindings must yield to allow free typing.
func (m Model) typing() bool {
	switch m.activeTab {
	case tabSchedule:
		return m.schedView.Typing()
	case tabFocus:
		return m.focusView.Typing()
	case tabQuiz:
		return m.quizView.Typing()
	case tabStats:
		return m.statsView.Typing()
	}
	return false
}

// noteRemote keeps the connection banner current from whichever remote
// round trip finished last. An expired credential also drops the loaded
// day, the history snapshot, and the header totals.
func (m *Model) noteRemote(err error) {
	switch {
	case err == nil:
		m.conn = ""
	case errors.Is(err, apperrors.ErrAuthExpired):
		m.conn = "auth expired: restart with a fresh CEREBRA_TOKEN"
		m.schedView.Forget()
		m.statsView.Forget()
		m.xp = progressdomain.Experience{}
	case errors.Is(err, apperrors.ErrRemoteUnavailable):
		m.conn = "offline: companion service unreachable"
	}
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.schedView, _ = m.schedView.Update(sz)
	m.focusView, _ = m.focusView.Update(sz)
	m.quizView, _ = m.quizView.Update(sz)
	m.statsView, _ = m.statsView.Update(sz)
}

func (m Model) analyzeCmd(path string) tea.Cmd {
	return func() tea.Msg {
		content, err := os.ReadFile(path)
		if err != nil {
			return syllabusMsg{err: err}
		}
		out, err := m.plan.AnalyzeSyllabus(context.Background(), plandto.AnalyzeInput{
			Filename: filepath.Base(path),
			Content:  content,
		})
		if err != nil {
			return syllabusMsg{err: err}
		}
		return syllabusMsg{name: filepath.Base(path), topics: out.Topics}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
