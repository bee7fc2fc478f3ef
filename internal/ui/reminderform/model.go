package reminderform

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/followup/internal/keys"
	"github.com/nhle/followup/internal/model"
	"github.com/nhle/followup/internal/theme"
	"github.com/nhle/followup/internal/workflow"
)

// Status messages shown below the controls.
const (
	msgSettingReminder     = "Setting reminder and sending..."
	msgSending             = "Sending..."
	msgSentWithReminder    = "Email sent with follow-up reminder!"
	msgReminderSetManual   = "Reminder set! Please click Send to send the email."
	msgSentWithoutReminder = "Email sent without reminder."
	msgSendManual          = "Please click Send to send the email."
)

// Workflow is the flag-and-send service the form drives.
type Workflow interface {
	SetFlagAndSend(ctx context.Context, r model.ReminderRange) (workflow.Result, error)
	SendOnly(ctx context.Context) (workflow.Result, error)
}

type action int

const (
	actionSetReminder action = iota
	actionSendOnly
)

// workflowDoneMsg carries the result of a workflow call back to Update.
type workflowDoneMsg struct {
	action action
	result workflow.Result
	err    error
}

type focusArea int

const (
	focusPicks focusArea = iota
	focusDate
)

// Model is the Bubble Tea model for the reminder pane.
type Model struct {
	ctx       context.Context
	workflow  Workflow
	keys      *keys.KeyMap
	help      help.Model
	spinner   spinner.Model
	dateInput textinput.Model
	status    model.UIStatus
	selected  model.QuickPick
	cursor    int
	focus     focusArea
	now       func() time.Time
	width     int
	height    int
}

// New creates the reminder pane. now supplies the current time for
// quick-pick computation.
func New(
	ctx context.Context,
	wf Workflow,
	keyMap *keys.KeyMap,
	now func() time.Time,
) Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)

	input := textinput.New()
	input.Placeholder = "YYYY-MM-DD"
	input.CharLimit = len(model.DateInputLayout)
	input.Width = len(model.DateInputLayout) + 1
	input.SetValue(now().Format(model.DateInputLayout))

	return Model{
		ctx:       ctx,
		workflow:  wf,
		keys:      keyMap,
		help:      help.New(),
		spinner:   sp,
		dateInput: input,
		now:       now,
		width:     80,
		height:    24,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Status returns the current UI status.
func (m Model) Status() model.UIStatus {
	return m.status
}

// Selected returns the chosen quick pick, or "" when none is chosen.
func (m Model) Selected() model.QuickPick {
	return m.selected
}

// Preselect chooses pick before the pane is shown. An empty pick leaves
// the selection unset.
func (m Model) Preselect(pick model.QuickPick) Model {
	if pick == "" {
		return m
	}
	next, _ := m.choose(pick)
	return next.(Model)
}

// SetSize updates the pane dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if !m.status.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case workflowDoneMsg:
		m.status = statusFor(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focus == focusDate && !m.status.Loading() {
		var cmd tea.Cmd
		m.dateInput, cmd = m.dateInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Every control, quit included, is disabled while a workflow call is
	// in flight.
	if m.status.Loading() {
		return m, nil
	}

	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.focus == focusDate {
		switch {
		case key.Matches(msg, m.keys.SetReminder):
			return m.submit()
		case key.Matches(msg, m.keys.Focus), msg.Type == tea.KeyEsc:
			m.focusPicks()
			return m, nil
		}
		var cmd tea.Cmd
		m.dateInput, cmd = m.dateInput.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Left):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Right):
		if m.cursor < len(model.QuickPicks)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Pick):
		return m.choose(model.QuickPicks[m.cursor])

	case key.Matches(msg, m.keys.QuickPick):
		idx := int(msg.String()[0] - '1')
		if idx >= 0 && idx < len(model.QuickPicks) {
			return m.choose(model.QuickPicks[idx])
		}

	case key.Matches(msg, m.keys.Focus):
		if m.selected == model.QuickPickCustom {
			m.focus = focusDate
			return m, m.dateInput.Focus()
		}

	case key.Matches(msg, m.keys.SetReminder):
		return m.submit()

	case key.Matches(msg, m.keys.SendWithout):
		return m.sendOnly()
	}

	return m, nil
}

// choose selects a quick pick without contacting the mailbox.
func (m Model) choose(pick model.QuickPick) (tea.Model, tea.Cmd) {
	m.selected = pick
	for i, p := range model.QuickPicks {
		if p == pick {
			m.cursor = i
		}
	}

	if pick == model.QuickPickCustom {
		m.focus = focusDate
		return m, m.dateInput.Focus()
	}
	m.focusPicks()
	return m, nil
}

func (m *Model) focusPicks() {
	m.focus = focusPicks
	m.dateInput.Blur()
}

// submit computes the range for the selection and starts SetFlagAndSend.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.selected == "" {
		return m, nil
	}

	r, err := model.ComputeRange(m.selected, m.now(), m.dateInput.Value())
	if err != nil {
		m.status = model.UIStatus{Kind: model.StatusError, Message: err.Error()}
		return m, nil
	}

	m.focusPicks()
	m.status = model.UIStatus{Kind: model.StatusLoading, Message: msgSettingReminder}

	ctx, wf := m.ctx, m.workflow
	run := func() tea.Msg {
		res, err := wf.SetFlagAndSend(ctx, r)
		return workflowDoneMsg{action: actionSetReminder, result: res, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, run)
}

// sendOnly starts SendOnly without computing any dates.
func (m Model) sendOnly() (tea.Model, tea.Cmd) {
	m.focusPicks()
	m.status = model.UIStatus{Kind: model.StatusLoading, Message: msgSending}

	ctx, wf := m.ctx, m.workflow
	run := func() tea.Msg {
		res, err := wf.SendOnly(ctx)
		return workflowDoneMsg{action: actionSendOnly, result: res, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, run)
}

// statusFor maps a workflow result onto the banner to show.
func statusFor(msg workflowDoneMsg) model.UIStatus {
	if msg.err != nil {
		return model.UIStatus{Kind: model.StatusError, Message: msg.err.Error()}
	}

	unavailable := msg.result.Outcome == workflow.OutcomeSendUnavailable
	text := msgSentWithReminder
	switch {
	case msg.action == actionSetReminder && unavailable:
		text = msgReminderSetManual
	case msg.action == actionSendOnly && unavailable:
		text = msgSendManual
	case msg.action == actionSendOnly:
		text = msgSentWithoutReminder
	}
	return model.UIStatus{Kind: model.StatusSuccess, Message: text}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(theme.TitleStyle.Render("Set Follow-up Reminder"))
	b.WriteString("\n")
	b.WriteString(m.renderPicks())
	b.WriteString("\n")

	if m.selected == model.QuickPickCustom {
		b.WriteString(theme.LabelStyle.Render("Reminder date"))
		b.WriteString("\n")
		b.WriteString(m.dateInput.View())
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderActions())
	b.WriteString("\n\n")

	if s := m.renderStatus(); s != "" {
		b.WriteString(s)
		b.WriteString("\n\n")
	}

	b.WriteString(m.help.View(m.keys))

	return theme.PanelStyle.
		Width(m.panelWidth()).
		Render(b.String())
}

func (m Model) renderPicks() string {
	buttons := make([]string, 0, len(model.QuickPicks))
	for i, p := range model.QuickPicks {
		style := theme.ButtonStyle
		switch {
		case m.status.Loading():
			style = style.Foreground(theme.ColorSubtle)
		case p == m.selected:
			style = theme.PrimaryButtonStyle
		case i == m.cursor && m.focus == focusPicks:
			style = theme.FocusedButtonStyle
		}
		buttons = append(buttons, style.Render(p.Label()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}

func (m Model) renderActions() string {
	setStyle := theme.PrimaryButtonStyle
	if m.selected == "" || m.status.Loading() {
		setStyle = theme.DisabledStyle
	}
	sendStyle := theme.ButtonStyle
	if m.status.Loading() {
		sendStyle = theme.DisabledStyle
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		setStyle.Render("✉ Set Reminder & Send"),
		sendStyle.Render("Send Without Reminder"),
	)
}

func (m Model) renderStatus() string {
	switch m.status.Kind {
	case model.StatusLoading:
		return m.spinner.View() + " " + m.status.Message
	case model.StatusSuccess:
		return theme.SuccessBannerStyle.Render(m.status.Message)
	case model.StatusError:
		return theme.ErrorBannerStyle.Render(m.status.Message)
	default:
		return ""
	}
}

func (m Model) panelWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 72 {
		w = 72
	}
	return w
}
