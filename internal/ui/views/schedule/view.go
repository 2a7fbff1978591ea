package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Jibinz12/cerebra-app/internal/modules/plan/domain"
	"github.com/Jibinz12/cerebra-app/internal/modules/plan/dto"
	progressdomain "github.com/Jibinz12/cerebra-app/internal/modules/progress/domain"
	progressdto "github.com/Jibinz12/cerebra-app/internal/modules/progress/dto"
	"github.com/Jibinz12/cerebra-app/internal/ui/components"
	"github.com/Jibinz12/cerebra-app/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type PlanPort interface {
	Generate(ctx context.Context, input dto.GenerateInput) (dto.ScheduleOutput, error)
	SaveDay(ctx context.Context, input dto.SaveDayInput) (dto.SaveDayOutput, error)
	LoadDay(ctx context.Context, date string) (dto.ScheduleOutput, error)
	UpdateTask(ctx context.Context, input dto.UpdateTaskInput) error
	DeleteTask(ctx context.Context, id int64) error
	ClearDay(ctx context.Context, date string) error
}

// ProgressPort posts completion toggles so the XP ledger follows the
// checkboxes.
type ProgressPort interface {
	Sync(ctx context.Context, input progressdto.LogInput) (progressdto.SyncOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// LoadedMsg delivers a day, either freshly generated or restored from
// the calendar. Generated days are saved right after they render.
type LoadedMsg struct {
	Out       dto.ScheduleOutput
	Generated bool
	Err       error
}

// SavedMsg reports the calendar write-back of the visible day.
type SavedMsg struct {
	Out dto.SaveDayOutput
	Err error
}

// ToggledMsg reports the XP round trip behind a completion flip. It
// bubbles through the app so the header totals can update.
type ToggledMsg struct {
	Res progressdomain.ToggleResult
	Out progressdto.SyncOutput
	Err error
}

// FocusRequestMsg asks the app to start a focus session on a slot.
type FocusRequestMsg struct {
	Task    string
	Minutes int
}

type taskEditedMsg struct{ err error }

type taskDeletedMsg struct {
	index int
	err   error
}

type dayClearedMsg struct {
	date string
	err  error
}

type minuteTickMsg time.Time

// ─── list item ───────────────────────────────────────────────────────────────

type slotItem struct {
	idx  int
	item domain.Item
	live bool
	done bool
}

func (i slotItem) Title() string {
	marker := "  "
	switch {
	case i.live:
		marker = "▶ "
	case i.done:
		marker = "✓ "
	}
	return marker + i.item.TimeText + "  " + i.item.Task
}

func (i slotItem) Description() string {
	if i.item.IsBreak() {
		return "break"
	}
	desc := fmt.Sprintf("%dm", i.item.DurationMinutes())
	if i.item.Type != "" {
		desc = i.item.Type + " · " + desc
	}
	if i.done {
		desc += "  done"
	}
	return desc
}

func (i slotItem) FilterValue() string { return i.item.Task }

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the schedule tab: the day plan on the left, the selected
// slot's coaching detail on the right. It owns the completion ledger
// and the minute ticker that tracks the live slot.
type Model struct {
	plan     PlanPort
	progress ProgressPort

	day     domain.Schedule
	ledger  *progressdomain.Ledger
	liveIdx int
	liveOK  bool

	list    list.Model
	preview viewport.Model
	spinner spinner.Model
	loading bool

	genForm  components.Form
	editForm components.Form
	editIdx  int

	pendingTopics string
	statusLine    string
	width         int
	height        int
}

func New(plan PlanPort, progress ProgressPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Schedule"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		plan:     plan,
		progress: progress,
		ledger:   progressdomain.NewLedger(),
		list:     l,
		preview:  vp,
		spinner:  sp,
		genForm: components.NewForm("plan.generate", "Generate a day plan",
			components.Field{Label: "Topics", Placeholder: "Go, SQL, Algebra", CharLimit: 256},
			components.Field{Label: "Hours", Placeholder: "2", CharLimit: 3},
			components.Field{Label: "Energy", Placeholder: "Low / Medium / High", CharLimit: 12},
			components.Field{Label: "Start", Placeholder: "blank for right now", CharLimit: 8},
		),
		editForm: components.NewForm("plan.edit", "Edit slot",
			components.Field{Label: "Task", Placeholder: "Deep work on Go", CharLimit: 160},
			components.Field{Label: "Time", Placeholder: "09:00 - 09:40", CharLimit: 16},
		),
		editIdx: -1,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(""), m.spinner.Tick, minuteTickCmd(time.Now()))
}

// Typing reports whether a form or the list filter is capturing keys,
// so global bindings yield.
func (m Model) Typing() bool {
	return m.genForm.Visible() || m.editForm.Visible() || m.list.FilterState() == list.Filtering
}

// Date is the day currently on screen, empty before the first load.
func (m Model) Date() string { return m.day.Date }

// ─── palette entry points ────────────────────────────────────────────────────

// GenerateNow runs a palette-issued generate.
func (m Model) GenerateNow(input dto.GenerateInput) (Model, tea.Cmd) {
	return m.generate(input)
}

// ReloadNow restores a date from the calendar; empty means today.
func (m Model) ReloadNow(date string) (Model, tea.Cmd) {
	m.loading = true
	m.statusLine = ""
	return m, tea.Batch(m.spinner.Tick, m.loadCmd(date))
}

// SaveNow persists the visible day to the calendar.
func (m Model) SaveNow() (Model, tea.Cmd) {
	if len(m.day.Items) == 0 {
		m.statusLine = "nothing to save"
		return m, nil
	}
	m.statusLine = "saving…"
	return m, m.saveCmd()
}

// ClearNow wipes one date, or the whole calendar when date is empty.
func (m Model) ClearNow(date string) (Model, tea.Cmd) {
	m.statusLine = "clearing…"
	return m, m.clearCmd(date)
}

// PrefillTopics queues syllabus topics for the next generate form.
func (m *Model) PrefillTopics(topics []string) {
	m.pendingTopics = strings.Join(topics, ", ")
	m.statusLine = fmt.Sprintf("%d syllabus topics ready, press g to generate", len(topics))
}

// Forget drops the loaded day and its completion marks. The app calls
// this when the session's credential stops working.
func (m *Model) Forget() {
	m.day = domain.Schedule{}
	m.ledger.Reset()
	m.liveIdx, m.liveOK = 0, false
	m.list.Title = "Schedule"
	m.list.SetItems(nil)
	m.preview.SetContent(m.renderDetail())
	m.statusLine = "signed out"
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.genForm.Visible() || m.editForm.Visible() {
		switch msg.(type) {
		case components.FormSubmitMsg, components.FormCancelMsg:
		default:
			var cmd tea.Cmd
			if m.genForm.Visible() {
				m.genForm, cmd = m.genForm.Update(msg)
			} else {
				m.editForm, cmd = m.editForm.Update(msg)
			}
			return m, cmd
		}
	}

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			verb := "load"
			if msg.Generated {
				verb = "generate"
			}
			m.statusLine = verb + " failed: " + msg.Err.Error()
			return m, nil
		}
		cmd := m.setDay(msg.Out)
		if msg.Generated {
			m.loading = true
			m.statusLine = "plan ready, saving to calendar…"
			return m, tea.Batch(cmd, m.spinner.Tick, m.saveCmd())
		}
		if len(m.day.Items) == 0 {
			m.statusLine = "no plan for " + m.day.Date + ", press g to generate one"
		} else {
			m.statusLine = fmt.Sprintf("%d slots on %s", len(m.day.Items), m.day.Date)
		}
		return m, cmd

	case SavedMsg:
		m.loading = false
		total := len(m.day.Items)
		if msg.Err != nil {
			m.statusLine = fmt.Sprintf("saved %d of %d slots: %v", msg.Out.Created, total, msg.Err)
			return m, nil
		}
		if !msg.Out.Reconciled {
			m.statusLine = fmt.Sprintf("saved %d slots, reload before editing rows", msg.Out.Created)
			return m, nil
		}
		out := msg.Out.Schedule
		out.Tip = m.day.Tip
		cmd := m.setDay(out)
		m.statusLine = fmt.Sprintf("saved %d slots to %s", msg.Out.Created, m.day.Date)
		return m, cmd

	case ToggledMsg:
		switch {
		case msg.Err != nil:
			m.statusLine = "log failed: " + msg.Err.Error()
		case msg.Out.LogDropped:
			m.statusLine = "totals refreshed, but the history entry was dropped"
		case msg.Res.Celebrate:
			m.statusLine = fmt.Sprintf("✓ %s  +%d XP", msg.Res.Topic, msg.Res.XPDelta)
		default:
			m.statusLine = fmt.Sprintf("undo logged, %d XP returned", -msg.Res.XPDelta)
		}

	case taskEditedMsg:
		if msg.err != nil {
			m.statusLine = "update failed: " + msg.err.Error()
		} else {
			m.statusLine = "calendar updated"
		}

	case taskDeletedMsg:
		if msg.err != nil {
			m.statusLine = "delete failed: " + msg.err.Error()
			return m, nil
		}
		return m, m.removeLocal(msg.index)

	case dayClearedMsg:
		if msg.err != nil {
			m.statusLine = "clear failed: " + msg.err.Error()
			return m, nil
		}
		if msg.date == "" || msg.date == m.day.Date {
			cmd := m.setDay(dto.ScheduleOutput{Date: m.day.Date})
			m.statusLine = "calendar cleared"
			return m, cmd
		}
		m.statusLine = "cleared " + msg.date

	case minuteTickMsg:
		now := time.Time(msg)
		prevIdx, prevOK := m.liveIdx, m.liveOK
		m.relocate(now)
		cmds = append(cmds, minuteTickCmd(now))
		if prevIdx != m.liveIdx || prevOK != m.liveOK {
			cmds = append(cmds, m.syncItems())
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case components.FormSubmitMsg:
		return m.submitForm(msg)

	case components.FormCancelMsg:
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "g":
			return m, m.genForm.Open(m.pendingTopics)
		case "r":
			return m.ReloadNow(m.day.Date)
		case " ":
			sel, ok := m.selectedSlot()
			if !ok {
				return m, nil
			}
			res := m.ledger.Toggle(sel.idx, sel.item.Task)
			m.statusLine = "logging…"
			return m, tea.Batch(m.syncItems(), m.toggleCmd(res, sel.item.DurationMinutes()))
		case "enter":
			sel, ok := m.selectedSlot()
			if !ok {
				return m, nil
			}
			if sel.item.IsBreak() {
				m.statusLine = "breaks run themselves"
				return m, nil
			}
			task, minutes := sel.item.Task, sel.item.DurationMinutes()
			return m, func() tea.Msg { return FocusRequestMsg{Task: task, Minutes: minutes} }
		case "e":
			sel, ok := m.selectedSlot()
			if !ok {
				return m, nil
			}
			m.editIdx = sel.idx
			return m, m.editForm.Open(sel.item.Task, sel.item.TimeText)
		case "d":
			sel, ok := m.selectedSlot()
			if !ok {
				return m, nil
			}
			if sel.item.RemoteID != 0 {
				m.statusLine = "deleting…"
				return m, m.deleteCmd(sel.idx, sel.item.RemoteID)
			}
			return m, m.removeLocal(sel.idx)
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			m.preview.SetContent(m.renderDetail())
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) submitForm(msg components.FormSubmitMsg) (Model, tea.Cmd) {
	switch msg.ID {
	case "plan.generate":
		topics := splitTopics(msg.Values[0])
		if len(topics) == 0 {
			m.statusLine = "list at least one topic"
			return m, nil
		}
		hours, err := strconv.Atoi(msg.Values[1])
		if err != nil || hours <= 0 {
			m.statusLine = "hours must be a positive number"
			return m, nil
		}
		energy := msg.Values[2]
		if energy == "" {
			energy = "Medium"
		}
		m.pendingTopics = ""
		return m.generate(dto.GenerateInput{
			Topics: topics,
			Hours:  hours,
			Energy: energy,
			Start:  msg.Values[3],
		})

	case "plan.edit":
		task, timeText := msg.Values[0], msg.Values[1]
		if task == "" || timeText == "" {
			m.statusLine = "task and time are both required"
			return m, nil
		}
		idx := m.editIdx
		m.editIdx = -1
		if idx < 0 || idx >= len(m.day.Items) {
			return m, nil
		}
		remoteID := m.day.Items[idx].RemoteID
		if err := m.day.EditItem(idx, task, timeText); err != nil {
			m.statusLine = err.Error()
			return m, nil
		}
		m.relocate(time.Now())
		cmds := []tea.Cmd{m.syncItems()}
		if remoteID != 0 {
			m.statusLine = "updating calendar…"
			cmds = append(cmds, m.updateCmd(remoteID, task, timeText))
		} else {
			m.statusLine = "slot updated locally, plan:save to persist"
		}
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.genForm.Visible() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.genForm.View())
	}
	if m.editForm.Visible() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.editForm.View())
	}
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Planning…")
	}

	contentH := m.height - 1
	if contentH < 1 {
		contentH = 1
	}
	listW := m.width / 2
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(contentH).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(contentH - 2).
		Render(m.preview.View())

	panes := lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
	return lipgloss.JoinVertical(lipgloss.Left, panes, theme.Muted.Render(" "+m.statusLine))
}

func (m Model) renderDetail() string {
	sel, ok := m.selectedSlot()
	if !ok {
		if m.day.Tip != "" {
			return theme.Muted.Render("tip: " + m.day.Tip)
		}
		return theme.Muted.Render("No slots yet. Press g to generate a day")
	}

	it := sel.item
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(it.Task) + "\n\n")
	sb.WriteString(theme.Muted.Render("time: ") + fmt.Sprintf("%s  (%dm)", it.TimeText, it.DurationMinutes()) + "\n")
	if it.Type != "" {
		sb.WriteString(theme.Muted.Render("type: ") + it.Type + "\n")
	}
	if sel.done {
		sb.WriteString(theme.Done.Render("completed") + "\n")
	}
	if it.Reason != "" {
		sb.WriteString("\n" + it.Reason + "\n")
	}
	if len(it.KeyConcepts) > 0 {
		sb.WriteString("\n" + theme.Title.Render("Key concepts") + "\n")
		for _, c := range it.KeyConcepts {
			sb.WriteString("  • " + c + "\n")
		}
	}
	if resources := it.ParsedResources(); len(resources) > 0 && !it.IsBreak() {
		sb.WriteString("\n" + theme.Title.Render("Resources") + "\n")
		for _, r := range resources {
			sb.WriteString("  " + r.Kind + ": " + r.Query + "\n")
			sb.WriteString(theme.Muted.Render("    "+r.SearchURL()) + "\n")
		}
	}
	if m.day.Tip != "" {
		sb.WriteString("\n" + theme.Muted.Render("tip: "+m.day.Tip) + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("enter:focus  space:done  e:edit  d:delete  g:new plan  r:reload"))
	return sb.String()
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	contentH := m.height - 1
	if contentH < 1 {
		contentH = 1
	}
	listW := m.width / 2
	detailW := m.width - listW
	m.list.SetSize(listW, contentH)
	m.preview.Width = detailW - 4
	m.preview.Height = contentH - 4
	m.genForm.SetWidth(min(m.width-4, 72))
	m.editForm.SetWidth(min(m.width-4, 72))
	m.preview.SetContent(m.renderDetail())
}

func (m Model) generate(input dto.GenerateInput) (Model, tea.Cmd) {
	m.loading = true
	m.statusLine = ""
	return m, tea.Batch(m.spinner.Tick, m.generateCmd(input))
}

// setDay swaps in a new day and restarts the completion ledger from
// whatever the calendar already recorded.
func (m *Model) setDay(out dto.ScheduleOutput) tea.Cmd {
	items := make([]domain.Item, 0, len(out.Items))
	m.ledger.Reset()
	for i, in := range out.Items {
		item := domain.NewItem(in.Time, in.Task, in.Type, in.Reason, in.KeyConcepts, in.Resources)
		item.RemoteID = in.ID
		items = append(items, item)
		m.ledger.SetDone(i, in.Completed)
	}
	m.day = domain.Schedule{Date: out.Date, Tip: out.Tip, Items: items}
	m.list.Title = "Schedule · " + out.Date
	m.relocate(time.Now())
	return m.syncItems()
}

func (m *Model) removeLocal(idx int) tea.Cmd {
	if err := m.day.RemoveItem(idx); err != nil {
		m.statusLine = err.Error()
		return nil
	}
	m.ledger.Reset()
	m.relocate(time.Now())
	m.statusLine = "slot removed, completion marks reset"
	return m.syncItems()
}

func (m *Model) relocate(now time.Time) {
	m.liveIdx, m.liveOK = m.day.LiveIndex(now)
}

// syncItems rebuilds the list rows from the day plus the live and done
// markers, and refreshes the detail pane.
func (m *Model) syncItems() tea.Cmd {
	items := make([]list.Item, len(m.day.Items))
	for i, it := range m.day.Items {
		items[i] = slotItem{
			idx:  i,
			item: it,
			live: m.liveOK && i == m.liveIdx,
			done: m.ledger.IsDone(i),
		}
	}
	cmd := m.list.SetItems(items)
	m.preview.SetContent(m.renderDetail())
	return cmd
}

func (m Model) selectedSlot() (slotItem, bool) {
	sel, ok := m.list.SelectedItem().(slotItem)
	return sel, ok
}

func splitTopics(raw string) []string {
	var topics []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			topics = append(topics, part)
		}
	}
	return topics
}

// minuteTickCmd fires on the next wall-clock minute so the live slot
// marker flips right at slot boundaries.
func minuteTickCmd(now time.Time) tea.Cmd {
	next := now.Truncate(time.Minute).Add(time.Minute)
	return tea.Tick(time.Until(next), func(t time.Time) tea.Msg { return minuteTickMsg(t) })
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) loadCmd(date string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.plan.LoadDay(context.Background(), date)
		return LoadedMsg{Out: out, Err: err}
	}
}

func (m Model) generateCmd(input dto.GenerateInput) tea.Cmd {
	return func() tea.Msg {
		out, err := m.plan.Generate(context.Background(), input)
		return LoadedMsg{Out: out, Generated: true, Err: err}
	}
}

func (m Model) saveCmd() tea.Cmd {
	input := dto.SaveDayInput{Date: m.day.Date}
	for _, it := range m.day.Items {
		input.Items = append(input.Items, dto.SaveItemInput{
			Time:        it.TimeText,
			Task:        it.Task,
			Type:        it.Type,
			Reason:      it.Reason,
			KeyConcepts: it.KeyConcepts,
			Resources:   it.Resources,
		})
	}
	return func() tea.Msg {
		out, err := m.plan.SaveDay(context.Background(), input)
		return SavedMsg{Out: out, Err: err}
	}
}

func (m Model) toggleCmd(res progressdomain.ToggleResult, minutes int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.progress.Sync(context.Background(), progressdto.LogInput{
			Topic:   res.Topic,
			Minutes: minutes,
			XP:      res.XPDelta,
		})
		return ToggledMsg{Res: res, Out: out, Err: err}
	}
}

func (m Model) updateCmd(id int64, task, timeText string) tea.Cmd {
	return func() tea.Msg {
		err := m.plan.UpdateTask(context.Background(), dto.UpdateTaskInput{ID: id, Task: task, Time: timeText})
		return taskEditedMsg{err: err}
	}
}

func (m Model) deleteCmd(index int, id int64) tea.Cmd {
	return func() tea.Msg {
		err := m.plan.DeleteTask(context.Background(), id)
		return taskDeletedMsg{index: index, err: err}
	}
}

func (m Model) clearCmd(date string) tea.Cmd {
	return func() tea.Msg {
		err := m.plan.ClearDay(context.Background(), date)
		return dayClearedMsg{date: date, err: err}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
