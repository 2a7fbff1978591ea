package focus

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Jibinz12/cerebra-app/internal/modules/focus/domain"
	"github.com/Jibinz12/cerebra-app/internal/modules/focus/dto"
	apperrors "github.com/Jibinz12/cerebra-app/internal/platform/errors"
	"github.com/Jibinz12/cerebra-app/internal/ui/components"
	"github.com/Jibinz12/cerebra-app/internal/ui/theme"
)

// Port is the slice of the focus module this view drives.
type Port interface {
	Complete(ctx context.Context, input dto.CompletionInput) (dto.CompletionOutput, error)
}

// StartMsg asks this view to begin a countdown. The schedule tab emits
// focus requests and the app forwards them here after switching tabs.
type StartMsg struct {
	Task    string
	Minutes int
}

// CompletedMsg reports the award round trip after a countdown expires.
// It bubbles through the app so the header totals can update.
type CompletedMsg struct {
	Out dto.CompletionOutput
	Err error
}

// tickMsg carries the generation that armed it. A tick from an exited
// session is dropped instead of driving the next one twice as fast.
type tickMsg struct{ gen int }

const (
	adjustStep = 5

	// defaultMinutes is the session length when the form's minutes
	// field is left blank.
	defaultMinutes = 25
)

var clockStyle = lipgloss.NewStyle().Foreground(theme.Peach).Bold(true).Padding(0, 1)

// Model is the focus tab: one countdown at a time, driven by a
// one-second ticker while running.
type Model struct {
	port Port

	session domain.Session
	gen     int

	form   components.Form
	bar    progress.Model
	status string

	width  int
	height int
}

func New(port Port) Model {
	return Model{
		port: port,
		form: components.NewForm("focus.start", "Start a focus session",
			components.Field{Label: "Task", Placeholder: "Deep work on Go", CharLimit: 120},
			components.Field{Label: "Minutes", Placeholder: "25", CharLimit: 4},
		),
		bar: progress.New(progress.WithSolidFill(string(theme.Peach)), progress.WithoutPercentage()),
	}
}

func (m Model) Init() tea.Cmd { return nil }

// Typing reports whether the start form is capturing keys, so global
// bindings yield.
func (m Model) Typing() bool { return m.form.Visible() }

// Running reports whether a countdown is ticking.
func (m Model) Running() bool { return m.session.State == domain.StateRunning }

// Headline is the compact fragment the app status bar shows while a
// session runs on another tab.
func (m Model) Headline() string {
	return m.session.Clock() + " " + m.session.Task
}

// AdjustNow applies a palette-issued length change.
func (m Model) AdjustNow(delta int) (Model, tea.Cmd) {
	return m.adjust(delta)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form.Visible() {
		switch msg.(type) {
		case components.FormSubmitMsg, components.FormCancelMsg:
		default:
			var cmd tea.Cmd
			m.form, cmd = m.form.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.form.SetWidth(min(m.width-4, 64))
		m.bar.Width = min(m.width-16, 48)

	case StartMsg:
		return m.start(msg.Task, msg.Minutes)

	case tickMsg:
		if msg.gen != m.gen || m.session.State != domain.StateRunning {
			return m, nil
		}
		comp, done := m.session.Tick()
		if done {
			m.status = "time! logging the session..."
			return m, m.completeCmd(comp)
		}
		return m, m.tickCmd()

	case CompletedMsg:
		switch {
		case msg.Err != nil:
			m.status = fmt.Sprintf("logging failed: %v", msg.Err)
		case msg.Out.LogDropped:
			m.status = fmt.Sprintf("+%d XP counted, but the history entry was dropped", domain.CompleteXP)
		default:
			m.status = fmt.Sprintf("+%d XP (level %d, %d total)", domain.CompleteXP, msg.Out.Level, msg.Out.TotalXP)
		}

	case components.FormSubmitMsg:
		if msg.ID != "focus.start" {
			return m, nil
		}
		minutes := defaultMinutes
		if msg.Values[1] != "" {
			n, err := strconv.Atoi(msg.Values[1])
			if err != nil {
				m.status = "minutes must be a number"
				return m, nil
			}
			minutes = n
		}
		return m.start(msg.Values[0], minutes)

	case components.FormCancelMsg:
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "s":
			if m.session.State != domain.StateRunning {
				return m, m.form.Open()
			}
		case "+", "=":
			return m.adjust(adjustStep)
		case "-", "_":
			return m.adjust(-adjustStep)
		case "x":
			if err := m.session.Exit(); err != nil {
				m.status = "nothing running to stop"
				return m, nil
			}
			m.status = "session abandoned, no award"
		}
	}
	return m, nil
}

func (m Model) start(task string, minutes int) (Model, tea.Cmd) {
	session, err := domain.Start(task, minutes)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.session = session
	m.gen++
	m.status = ""
	return m, m.tickCmd()
}

func (m Model) adjust(delta int) (Model, tea.Cmd) {
	err := m.session.Adjust(delta)
	switch {
	case errors.Is(err, apperrors.ErrAdjustBelowFloor):
		m.status = fmt.Sprintf("sessions stay above %d minutes", domain.FloorMinutes)
	case errors.Is(err, apperrors.ErrNotRunning):
		m.status = "nothing running to adjust"
	case err == nil:
		m.status = fmt.Sprintf("length now %d minutes", m.session.DurationMinutes)
	}
	return m, nil
}

func (m Model) tickCmd() tea.Cmd {
	gen := m.gen
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func (m Model) completeCmd(comp domain.Completion) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Complete(context.Background(), dto.CompletionInput{
			Task:           comp.Task,
			PlannedMinutes: comp.PlannedMinutes,
		})
		return CompletedMsg{Out: out, Err: err}
	}
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.form.Visible() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.form.View())
	}

	var sb strings.Builder
	switch m.session.State {
	case domain.StateRunning:
		total := m.session.DurationMinutes * 60
		percent := float64(total-m.session.RemainingSeconds) / float64(total)
		sb.WriteString(theme.Title.Render(m.session.Task) + "\n\n")
		sb.WriteString(clockStyle.Render(m.session.Clock()) + "\n\n")
		sb.WriteString(m.bar.ViewAs(percent) + "\n\n")
		length := fmt.Sprintf("%d minute session", m.session.DurationMinutes)
		if m.session.DurationMinutes != m.session.PlannedMinutes {
			length += fmt.Sprintf(" (planned %d)", m.session.PlannedMinutes)
		}
		sb.WriteString(theme.Muted.Render(length) + "\n")
		sb.WriteString(theme.Muted.Render("+/-:adjust 5m  x:stop"))

	case domain.StateExpired:
		sb.WriteString(theme.Done.Render("Session complete") + "\n\n")
		sb.WriteString(clockStyle.Render("00:00") + "\n\n")
		sb.WriteString(theme.XP.Render(fmt.Sprintf("+%d XP", domain.CompleteXP)) +
			theme.Muted.Render("  "+m.session.Task) + "\n")
		sb.WriteString(theme.Muted.Render("s:start another"))

	default:
		sb.WriteString(theme.Title.Render("Focus") + "\n\n")
		sb.WriteString(theme.Muted.Render("No session running.") + "\n")
		sb.WriteString(theme.Muted.Render("Press s to start one, or pick a slot on the Schedule tab."))
	}

	if m.status != "" {
		sb.WriteString("\n\n" + theme.Muted.Render(m.status))
	}

	pane := theme.Pane.Width(min(m.width-4, 64)).Render(sb.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, pane)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
