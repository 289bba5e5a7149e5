// Package tui renders the chat widget in a terminal with Bubble Tea.
package tui

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"go.uber.org/zap"

	"github.com/liliang-cn/docassist/internal/widget"
)

const (
	headerHeight = 2
	inputHeight  = 5
	footerHeight = 2
)

// Options configures the model
type Options struct {
	// Title is shown in the header
	Title string
	// Markdown renders assistant answers with glamour
	Markdown bool
	// Logger receives controller logs; it must not write to the terminal
	Logger *zap.Logger
}

var errRenderPanic = errors.New("markdown renderer panicked")

// refreshMsg tells the model the screen changed
type refreshMsg struct{}

// Model is the Bubble Tea model of the chat widget
type Model struct {
	screen *Screen
	ctrl   *widget.Controller
	ctx    context.Context
	cancel context.CancelFunc

	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	styles   Styles
	renderer *glamour.TermRenderer

	title    string
	markdown bool
	scrolls  int
}

// New creates a model driving a controller that talks to backend
func New(backend widget.Backend, opts Options) Model {
	screen := NewScreen()
	ctx, cancel := context.WithCancel(context.Background())

	var ctrlOpts []widget.Option
	if opts.Logger != nil {
		ctrlOpts = append(ctrlOpts, widget.WithLogger(opts.Logger))
	}

	if opts.Title == "" {
		opts.Title = "Assistant Documentation"
	}

	styles := DefaultStyles()

	ta := textarea.New()
	ta.Placeholder = "Posez votre question... (Entrée pour envoyer, Alt+Entrée pour un retour à la ligne)"
	ta.ShowLineNumbers = false
	ta.CharLimit = 4096
	ta.SetHeight(3)
	ta.SetWidth(80)
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	vp := viewport.New(80, 20)

	m := Model{
		screen:   screen,
		ctrl:     widget.New(screen.Ports(), backend, ctrlOpts...),
		ctx:      ctx,
		cancel:   cancel,
		textarea: ta,
		viewport: vp,
		spinner:  sp,
		styles:   styles,
		title:    opts.Title,
		markdown: opts.Markdown,
	}
	m.renderer = m.newRenderer(80)
	return m
}

// Close cancels requests still in flight
func (m Model) Close() {
	m.cancel()
}

// Screen returns the widget state, for transcripts
func (m Model) Screen() *Screen {
	return m.screen
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.run(widget.Initialize{}),
		m.waitForChange(),
	)
}

// run dispatches cmd off the UI goroutine
func (m Model) run(cmd widget.Command) tea.Cmd {
	return func() tea.Msg {
		m.ctrl.Dispatch(m.ctx, cmd)
		return nil
	}
}

func (m Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.screen.Changes():
			return refreshMsg{}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit

		case "enter":
			if !m.screen.Input.Enabled() {
				return m, nil
			}
			m.screen.Input.SetValue(m.textarea.Value())
			return m, m.run(widget.SubmitQuestion{})

		case "ctrl+r":
			if !m.screen.Reload.Enabled() {
				return m, nil
			}
			return m, m.run(widget.ReloadDocuments{})

		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		if m.screen.Input.Enabled() {
			var cmd tea.Cmd
			m.textarea, cmd = m.textarea.Update(msg)
			m.screen.Input.SetValue(m.textarea.Value())
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.viewport.Width = max(msg.Width-2, 10)
		m.viewport.Height = max(msg.Height-headerHeight-inputHeight-footerHeight, 3)
		m.textarea.SetWidth(max(msg.Width-4, 10))
		m.renderer = m.newRenderer(m.viewport.Width - 4)
		m.viewport.SetContent(m.renderLog())

	case refreshMsg:
		cmds = append(cmds, m.sync(), m.waitForChange())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		if m.busy() {
			m.viewport.SetContent(m.renderLog())
		}

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// sync copies the screen state into the bubbles components
func (m *Model) sync() tea.Cmd {
	var cmd tea.Cmd
	if value := m.screen.Input.Value(); value != m.textarea.Value() {
		m.textarea.SetValue(value)
	}
	if m.screen.Input.Enabled() {
		if !m.textarea.Focused() {
			cmd = m.textarea.Focus()
		}
	} else {
		m.textarea.Blur()
	}

	m.viewport.SetContent(m.renderLog())
	if scrolls := m.screen.Log.Scrolls(); scrolls != m.scrolls {
		m.scrolls = scrolls
		m.viewport.GotoBottom()
	}
	return cmd
}

func (m Model) newRenderer(width int) *glamour.TermRenderer {
	if !m.markdown {
		return nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(width, 20)),
	)
	if err != nil {
		return nil
	}
	return r
}

// renderLog renders every message of the log
func (m Model) renderLog() string {
	var sb strings.Builder
	for _, msg := range m.screen.Log.Messages() {
		sb.WriteString(m.styles.forKind(msg.Kind).Render(kindLabel(msg.Kind)))
		sb.WriteString("\n")
		sb.WriteString(m.renderText(msg))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func (m Model) renderText(msg widget.Message) string {
	text := TerminalText(msg.Text)

	if msg.ID != "" {
		return m.styles.Loading.Render(m.spinner.View() + " " + text)
	}

	if msg.Kind == widget.KindAssistant && m.renderer != nil {
		if rendered, err := m.safeRenderMarkdown(text); err == nil {
			return strings.TrimRight(rendered, "\n")
		}
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = m.styles.Body.Render(line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) safeRenderMarkdown(text string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = "", errRenderPanic
		}
	}()
	return m.renderer.Render(text)
}

func (m Model) View() string {
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		m.styles.Header.Render(m.title),
		" ",
		m.styles.Stats.Render(TerminalText(m.screen.Stats.Text())),
	)

	busy := ""
	if m.busy() {
		busy = " " + m.spinner.View()
	}

	footer := lipgloss.JoinHorizontal(lipgloss.Center,
		m.button(m.screen.Send, "entrée"),
		" ",
		m.button(m.screen.Reload, "ctrl+r"),
		busy,
		"  ",
		m.styles.Help.Render("pgup/pgdown défiler • esc quitter"),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.viewport.View(),
		m.styles.Input.Render(m.textarea.View()),
		footer,
	)
}

func (m Model) busy() bool {
	return !m.screen.Input.Enabled() || !m.screen.Reload.Enabled()
}

func (m Model) button(b *widget.MemoryButton, key string) string {
	label := TerminalText(b.Label()) + " (" + key + ")"
	if b.Enabled() {
		return m.styles.Button.Render(label)
	}
	return m.styles.Disabled.Render(label)
}

func kindLabel(kind widget.Kind) string {
	switch kind {
	case widget.KindUser:
		return "Vous"
	case widget.KindAssistant:
		return "Assistant"
	default:
		return "Système"
	}
}

// TerminalText removes escape sequences and control characters from s,
// keeping newlines and tabs, so backend text cannot drive the terminal.
func TerminalText(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
