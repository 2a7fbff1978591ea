package quiz

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Jibinz12/cerebra-app/internal/modules/quiz/domain"
	"github.com/Jibinz12/cerebra-app/internal/modules/quiz/dto"
	"github.com/Jibinz12/cerebra-app/internal/ui/components"
	"github.com/Jibinz12/cerebra-app/internal/ui/theme"
)

// Port is the slice of the quiz module this view drives.
type Port interface {
	Start(ctx context.Context, topic string) (dto.QuizOutput, error)
	Finish(ctx context.Context, input dto.FinishInput) (dto.FinishOutput, error)
}

type startedMsg struct {
	out dto.QuizOutput
	err error
}

// FinishedMsg reports the XP round trip after the last question. It
// bubbles through the app so the header totals can update.
type FinishedMsg struct {
	Out dto.FinishOutput
	Err error
}

type phase int

const (
	phaseIdle phase = iota
	phaseLoading
	phaseActive
	phaseDone
)

// Model is the quiz tab: topic prompt, one question at a time, scored
// recap at the end.
type Model struct {
	port Port

	phase   phase
	session domain.Session
	cursor  int
	gained  int

	form       components.Form
	spinner    spinner.Model
	statusLine string

	width  int
	height int
}

func New(port Port) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port: port,
		form: components.NewForm("quiz.topic", "Quiz me",
			components.Field{Label: "Topic", Placeholder: "Goroutines", CharLimit: 120},
		),
		spinner: sp,
	}
}

func (m Model) Init() tea.Cmd { return nil }

// Typing reports whether the topic form is capturing keys, so global
// bindings yield.
func (m Model) Typing() bool { return m.form.Visible() }

// StartNow launches a quiz straight from a palette command.
func (m Model) StartNow(topic string) (Model, tea.Cmd) {
	return m.startQuiz(topic)
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

	case startedMsg:
		if msg.err != nil {
			m.phase = phaseIdle
			m.statusLine = "quiz failed: " + msg.err.Error()
			return m, nil
		}
		questions := make([]domain.Question, 0, len(msg.out.Questions))
		for _, q := range msg.out.Questions {
			questions = append(questions, domain.Question{Prompt: q.Prompt, Options: q.Options, Answer: q.Answer})
		}
		session, err := domain.NewSession(msg.out.Topic, questions)
		if err != nil {
			m.phase = phaseIdle
			m.statusLine = "quiz failed: " + err.Error()
			return m, nil
		}
		m.session = session
		m.phase = phaseActive
		m.cursor = 0
		m.gained = 0
		m.statusLine = ""

	case FinishedMsg:
		switch {
		case msg.Err != nil:
			m.statusLine = "quiz log failed: " + msg.Err.Error()
		case !msg.Out.Refreshed:
			m.statusLine = "no points this round, nothing logged"
		case msg.Out.LogDropped:
			m.statusLine = fmt.Sprintf("+%d XP counted, but the history entry was dropped", msg.Out.XPGained)
		default:
			m.statusLine = fmt.Sprintf("+%d XP (level %d, %d total)", msg.Out.XPGained, msg.Out.Level, msg.Out.TotalXP)
		}

	case spinner.TickMsg:
		if m.phase == phaseLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case components.FormSubmitMsg:
		if msg.ID != "quiz.topic" {
			return m, nil
		}
		return m.startQuiz(msg.Values[0])

	case components.FormCancelMsg:
		return m, nil

	case tea.KeyMsg:
		switch m.phase {
		case phaseIdle, phaseDone:
			if msg.String() == "s" {
				return m, m.form.Open()
			}

		case phaseActive:
			return m.updateActive(msg)
		}
	}
	return m, nil
}

func (m Model) updateActive(msg tea.KeyMsg) (Model, tea.Cmd) {
	options := m.session.Current().Options
	switch key := msg.String(); key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(options)-1 {
			m.cursor++
		}
	case "1", "2", "3", "4":
		n, _ := strconv.Atoi(key)
		if n <= len(options) {
			m.cursor = n - 1
			return m.answer(options[n-1])
		}
	case "enter":
		if m.session.Phase == domain.PhaseUnanswered {
			return m.answer(options[m.cursor])
		}
		return m.next()
	case "n":
		return m.next()
	}
	return m, nil
}

func (m Model) answer(option string) (Model, tea.Cmd) {
	res := m.session.Answer(option)
	if !res.Accepted {
		m.statusLine = "first answer stands, enter moves on"
	}
	return m, nil
}

func (m Model) next() (Model, tea.Cmd) {
	adv, err := m.session.Next()
	if err != nil {
		m.statusLine = "answer before moving on"
		return m, nil
	}
	m.statusLine = ""
	if !adv.Done {
		m.cursor = 0
		return m, nil
	}
	m.phase = phaseDone
	m.gained = adv.XPGained
	return m, m.finishCmd(adv.XPGained)
}

func (m Model) startQuiz(topic string) (Model, tea.Cmd) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		m.statusLine = "name a topic first"
		return m, nil
	}
	m.phase = phaseLoading
	m.statusLine = ""
	return m, tea.Batch(m.spinner.Tick, m.startCmd(topic))
}

func (m Model) startCmd(topic string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Start(context.Background(), topic)
		return startedMsg{out: out, err: err}
	}
}

func (m Model) finishCmd(gained int) tea.Cmd {
	topic := m.session.Topic
	return func() tea.Msg {
		out, err := m.port.Finish(context.Background(), dto.FinishInput{Topic: topic, XPGained: gained})
		return FinishedMsg{Out: out, Err: err}
	}
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.form.Visible() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.form.View())
	}

	var sb strings.Builder
	switch m.phase {
	case phaseLoading:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Writing questions…")

	case phaseActive:
		q := m.session.Current()
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("Question %d of %d · %s",
			m.session.Index+1, len(m.session.Questions), m.session.Topic)) + "\n\n")
		sb.WriteString(theme.Title.Render(q.Prompt) + "\n\n")
		answered := m.session.Phase != domain.PhaseUnanswered
		for i, opt := range q.Options {
			line := fmt.Sprintf("  %d) %s", i+1, opt)
			switch {
			case answered && opt == q.Answer:
				line = theme.Done.Render("✓" + line[1:])
			case answered && opt == m.session.Selected:
				line = theme.Danger.Render("✗" + line[1:])
			case !answered && i == m.cursor:
				line = theme.Hot.Render("❯" + line[1:])
			}
			sb.WriteString(line + "\n")
		}
		sb.WriteString("\n" + theme.Muted.Render(fmt.Sprintf("score %d", m.session.Score)) + "\n")
		if answered {
			sb.WriteString(theme.Muted.Render("enter:next question"))
		} else {
			sb.WriteString(theme.Muted.Render("1-4/enter:answer  j/k:move"))
		}

	case phaseDone:
		sb.WriteString(theme.Title.Render("Quiz complete · "+m.session.Topic) + "\n\n")
		sb.WriteString(fmt.Sprintf("%d of %d correct\n", m.session.Score, len(m.session.Questions)))
		sb.WriteString(theme.XP.Render(fmt.Sprintf("+%d XP", m.gained)) + "\n\n")
		sb.WriteString(theme.Muted.Render("s:another quiz"))

	default:
		sb.WriteString(theme.Title.Render("Quiz") + "\n\n")
		sb.WriteString(theme.Muted.Render("Test yourself on anything you have been studying.") + "\n")
		sb.WriteString(theme.Muted.Render("Press s to pick a topic."))
	}

	if m.statusLine != "" {
		sb.WriteString("\n\n" + theme.Muted.Render(m.statusLine))
	}

	pane := theme.Pane.Width(min(m.width-4, 72)).Render(sb.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, pane)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
