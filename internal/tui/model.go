package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hilthontt/codeboard/internal/client"
	"github.com/hilthontt/codeboard/internal/domain"
	"github.com/hilthontt/codeboard/internal/infrastructure/executor"
	"github.com/hilthontt/codeboard/internal/protocol"
)

const (
	docLines   = 16
	chatLines  = 8
	noticeTail = 3
)

type (
	changedMsg struct{}
	closedMsg  struct {
		err error
	}
	runDoneMsg struct {
		result executor.Result
		err    error
	}
)

// snapshot is a copy of the session taken under the reconciler lock, so
// View never touches shared state.
type snapshot struct {
	phase    client.Phase
	roomID   string
	identity string
	admin    bool
	users    []string
	chat     []protocol.Chat
	text     string
	language string
	output   string
	shapes   int
	pending  int
	tool     domain.Tool
	color    string
	scale    float64
	invite   *protocol.Invite
	notices  []string
}

type model struct {
	ctx    context.Context
	cancel context.CancelFunc
	rec    *client.Reconciler
	url    string
	runner executor.Executor
	theme  theme
	input  textinput.Model

	width   int
	height  int
	status  string
	running bool
	snap    snapshot
}

func newModel(ctx context.Context, rec *client.Reconciler, url string, runner executor.Executor, renderer *lipgloss.Renderer) model {
	ctx, cancel := context.WithCancel(ctx)
	t := newTheme(renderer)

	ti := textinput.New()
	ti.Placeholder = "chat, or /help"
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = 60
	ti.PromptStyle = t.TextBrand()
	ti.TextStyle = t.TextAccent()
	ti.PlaceholderStyle = t.TextBody()

	m := model{
		ctx:    ctx,
		cancel: cancel,
		rec:    rec,
		url:    url,
		runner: runner,
		theme:  t,
		input:  ti,
	}
	m.snap = m.read()
	return m
}

// Run shows the terminal UI for rec until the user quits.
func Run(ctx context.Context, rec *client.Reconciler, url string, runner executor.Executor) error {
	m := newModel(ctx, rec, url, runner, lipgloss.DefaultRenderer())
	defer m.cancel()

	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.connect(), waitForChange(m.rec))
}

func (m model) connect() tea.Cmd {
	ctx, rec, url := m.ctx, m.rec, m.url
	return func() tea.Msg {
		return closedMsg{err: rec.Connect(ctx, url)}
	}
}

func waitForChange(rec *client.Reconciler) tea.Cmd {
	return func() tea.Msg {
		<-rec.Changed()
		return changedMsg{}
	}
}

func (m model) run() tea.Cmd {
	req := executor.Request{Code: m.snap.text, Language: m.snap.language}
	ctx, runner := m.ctx, m.runner
	return func() tea.Msg {
		result, err := runner.Submit(ctx, req)
		return runDoneMsg{result: result, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(20, msg.Width-4)
		return m, nil

	case changedMsg:
		m.snap = m.read()
		return m, waitForChange(m.rec)

	case closedMsg:
		m.status = "disconnected"
		if msg.err != nil {
			m.status = "disconnected: " + msg.err.Error()
		}
		return m, nil

	case runDoneMsg:
		m.running = false
		output := msg.result.Output + msg.result.Error
		if msg.err != nil {
			output = msg.err.Error()
		}
		m.rec.Handle(client.RunFinished{Output: output, Time: msg.result.Time})
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.cancel()
			return m, tea.Quit
		case key.Matches(msg, keys.Undo):
			m.rec.Handle(client.UndoRequest{})
			return m, nil
		case key.Matches(msg, keys.Redo):
			m.rec.Handle(client.RedoRequest{})
			return m, nil
		case key.Matches(msg, keys.Enter):
			return m.submit()
		}
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.SetValue("")
	m.status = ""

	if strings.TrimSpace(line) == "/help" {
		m.status = helpText
		return m, nil
	}

	c, err := parseCommand(line, m.snap.text)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	if c.quit {
		m.cancel()
		return m, tea.Quit
	}

	for _, ev := range c.events {
		m.rec.Handle(ev)
	}

	if c.run {
		if m.running {
			m.status = "a run is already in progress"
			return m, nil
		}
		m.running = true
		return m, m.run()
	}
	return m, nil
}

func (m model) read() snapshot {
	var snap snapshot
	m.rec.View(func(s *client.Session) {
		snap = snapshot{
			phase:    s.Phase,
			roomID:   s.RoomID,
			identity: s.Identity,
			admin:    s.Admin,
			users:    append([]string(nil), s.Users...),
			chat:     append([]protocol.Chat(nil), s.Chat...),
			text:     s.Text,
			language: s.Language,
			output:   s.Output,
			shapes:   s.Mirror.Len(),
			pending:  len(s.Pending),
			tool:     s.Tool,
			color:    s.Color,
			scale:    s.View.Scale(),
			notices:  append([]string(nil), s.Notices...),
		}
		if s.Invite != nil {
			invite := *s.Invite
			snap.invite = &invite
		}
	})
	return snap
}

func (m model) View() string {
	s := m.snap
	var sections []string

	header := m.theme.TextBrand().Bold(true).Render("codeboard") + "  " +
		m.theme.TextAccent().Render(s.roomID) + "  " +
		m.theme.TextBody().Render(fmt.Sprintf("%s as %s", phaseName(s.phase), s.identity))
	if s.admin {
		header += "  " + m.theme.TextHighlight().Render("admin")
	}
	sections = append(sections, header)

	half := 0
	if m.width > 0 {
		half = max(20, m.width/2-2)
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.panel(half, fmt.Sprintf("code (%s)", s.language), tail(strings.Split(s.text, "\n"), docLines)),
		m.panel(half, "output", tail(strings.Split(strings.TrimRight(s.output, "\n"), "\n"), 4)),
	)

	var chat []string
	for _, c := range tail(s.chat, chatLines) {
		chat = append(chat, fmt.Sprintf("%s %s: %s", c.Time, c.User, c.Text))
	}
	board := []string{
		fmt.Sprintf("shapes %d (+%d pending)", s.shapes, s.pending),
		fmt.Sprintf("tool %s  color %s  zoom %.2f", s.tool, s.color, s.scale),
	}
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.panel(half, "users", s.users),
		m.panel(half, "board", board),
		m.panel(half, "chat", chat),
	)
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, left, right))

	if s.invite != nil {
		sections = append(sections, m.theme.TextHighlight().
			Render(fmt.Sprintf("%s invites %s to talk  (/dismiss)", s.invite.From, s.invite.To)))
	}
	for _, n := range tail(s.notices, noticeTail) {
		sections = append(sections, m.theme.TextError().Render("! "+n))
	}
	if m.status != "" {
		sections = append(sections, m.theme.TextError().Render(m.status))
	}
	if m.running {
		sections = append(sections, m.theme.TextHighlight().Render("running..."))
	}

	sections = append(sections, m.input.View())
	sections = append(sections, m.theme.TextBody().Faint(true).
		Render("enter send • ctrl+z undo • ctrl+y redo • /help commands • ctrl+c quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m model) panel(width int, title string, lines []string) string {
	style := m.theme.Panel()
	if width > 0 {
		style = style.Width(width)
	}
	body := m.theme.TextAccent().Render(strings.Join(lines, "\n"))
	return style.Render(m.theme.TextBrand().Render(title) + "\n" + body)
}

func tail[T any](items []T, n int) []T {
	if len(items) > n {
		return items[len(items)-n:]
	}
	return items
}

func phaseName(p client.Phase) string {
	switch p {
	case client.PhaseConnected:
		return "connected"
	case client.PhaseJoined:
		return "joined"
	case client.PhaseTerminated:
		return "terminated"
	}
	return "offline"
}
