package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Jibinz12/cerebra-app/internal/ui/theme"
)

// FormSubmitMsg carries the confirmed field values in declaration order.
// ID tells apart the forms of a view that owns more than one.
type FormSubmitMsg struct {
	ID     string
	Values []string
}

// FormCancelMsg is emitted when a form closes without submitting.
type FormCancelMsg struct{ ID string }

// Field describes one input line of a Form.
type Field struct {
	Label       string
	Placeholder string
	CharLimit   int
}

var (
	formStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Lavender).
			Background(theme.Mantle).
			Padding(0, 1)

	formLabel = lipgloss.NewStyle().Foreground(theme.Subtext0).Width(10)
)

// Form is a small modal input group. Tab cycles fields, enter submits,
// esc cancels; the owning view decides where it renders.
type Form struct {
	id      string
	title   string
	labels  []string
	inputs  []textinput.Model
	focused int
	visible bool
	width   int
}

func NewForm(id, title string, fields ...Field) Form {
	f := Form{id: id, title: title}
	for _, field := range fields {
		ti := textinput.New()
		ti.Placeholder = field.Placeholder
		ti.CharLimit = field.CharLimit
		if ti.CharLimit == 0 {
			ti.CharLimit = 128
		}
		f.labels = append(f.labels, field.Label)
		f.inputs = append(f.inputs, ti)
	}
	return f
}

// Visible reports whether the form is currently shown.
func (f Form) Visible() bool { return f.visible }

// SetWidth sets the render width for the form pane.
func (f *Form) SetWidth(w int) { f.width = w }

// Open shows the form with the first field focused. Prefill values are
// applied by position; missing or empty entries leave a field blank.
func (f *Form) Open(prefill ...string) tea.Cmd {
	f.visible = true
	f.focused = 0
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		if i < len(prefill) {
			f.inputs[i].SetValue(prefill[i])
		}
		f.inputs[i].Blur()
	}
	if len(f.inputs) == 0 {
		return nil
	}
	f.inputs[0].CursorEnd()
	return f.inputs[0].Focus()
}

func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	if !f.visible {
		return f, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			f.visible = false
			return f, func() tea.Msg { return FormCancelMsg{ID: f.id} }
		case "enter":
			values := make([]string, len(f.inputs))
			for i := range f.inputs {
				values[i] = strings.TrimSpace(f.inputs[i].Value())
			}
			f.visible = false
			return f, func() tea.Msg { return FormSubmitMsg{ID: f.id, Values: values} }
		case "tab", "down":
			return f.focusField(f.focused + 1)
		case "shift+tab", "up":
			return f.focusField(f.focused - 1)
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return f, cmd
}

func (f Form) focusField(next int) (Form, tea.Cmd) {
	if len(f.inputs) == 0 {
		return f, nil
	}
	next = (next + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focused].Blur()
	f.focused = next
	f.inputs[f.focused].CursorEnd()
	return f, f.inputs[f.focused].Focus()
}

func (f Form) View() string {
	if !f.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(f.title) + "\n\n")
	for i := range f.inputs {
		sb.WriteString(formLabel.Render(f.labels[i]) + " " + f.inputs[i].View() + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("enter:submit  tab:next field  esc:cancel"))

	w := f.width
	if w < 20 {
		w = 64
	}
	return formStyle.Width(w - 2).Render(sb.String())
}
