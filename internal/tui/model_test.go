package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liliang-cn/docassist/internal/domain"
	"github.com/liliang-cn/docassist/internal/widget"
)

type stubBackend struct {
	answer    string
	questions []string
	reloads   int
}

func (s *stubBackend) Stats(ctx context.Context) (*domain.StatsResponse, error) {
	return &domain.StatsResponse{Success: true, SectionsCount: domain.Count(42)}, nil
}

func (s *stubBackend) Reload(ctx context.Context) (*domain.ReloadResponse, error) {
	s.reloads++
	return &domain.ReloadResponse{Success: true, SectionsCount: domain.Count(12)}, nil
}

func (s *stubBackend) Ask(ctx context.Context, question string) (*domain.AskResponse, error) {
	s.questions = append(s.questions, question)
	return &domain.AskResponse{Success: true, Answer: s.answer}, nil
}

// exec runs cmd synchronously the way the Bubble Tea runtime would
func exec(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func TestSubmitQuestion(t *testing.T) {
	backend := &stubBackend{answer: "X is a thing."}
	m := New(backend, Options{})
	defer m.cancel()

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m = typeText(t, m, "What is X?")
	assert.Equal(t, "What is X?", m.screen.Input.Value())

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, exec(t, cmd))
	assert.Equal(t, []string{"What is X?"}, backend.questions)

	m, _ = update(t, m, refreshMsg{})
	assert.Empty(t, m.textarea.Value())

	out := m.renderLog()
	assert.Contains(t, out, "Vous")
	assert.Contains(t, out, "What is X?")
	assert.Contains(t, out, "X is a thing.")
	assert.NotContains(t, out, widget.LoadingText)
}

func TestInitShowsStats(t *testing.T) {
	m := New(&stubBackend{}, Options{})
	defer m.cancel()

	m.run(widget.Initialize{})()
	assert.Equal(t, "42 sections de documentation disponibles", m.screen.Stats.Text())
	assert.Contains(t, m.View(), "42 sections de documentation disponibles")
}

func TestReloadShortcut(t *testing.T) {
	backend := &stubBackend{}
	m := New(backend, Options{})
	defer m.cancel()

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	exec(t, cmd)

	assert.Equal(t, 1, backend.reloads)
	assert.Equal(t, ReloadLabel, m.screen.Reload.Label())
	assert.Equal(t, "12 sections de documentation disponibles", m.screen.Stats.Text())
}

func TestKeysIgnoredWhileDisabled(t *testing.T) {
	backend := &stubBackend{}
	m := New(backend, Options{})
	defer m.cancel()

	m.screen.Input.SetEnabled(false)
	m.screen.Reload.SetEnabled(false)

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Nil(t, cmd)
	assert.Zero(t, backend.reloads)
}

func TestWaitForChange(t *testing.T) {
	m := New(&stubBackend{}, Options{})

	m.screen.Stats.SetText("changed")
	m.screen.Stats.SetText("changed again")
	assert.Equal(t, refreshMsg{}, m.waitForChange()())

	m.cancel()
	assert.Nil(t, m.waitForChange()())
}

func TestQuitCancelsContext(t *testing.T) {
	m := New(&stubBackend{}, Options{})

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, tea.QuitMsg{}, exec(t, cmd))
	assert.Error(t, m.ctx.Err())
}

func TestRenderMultilineAndEscapes(t *testing.T) {
	m := New(&stubBackend{}, Options{})
	defer m.cancel()

	m.screen.Log.Append(widget.Message{Kind: widget.KindAssistant, Text: "first\n\x1b[31msecond\x1b[0m\x07"})
	out := m.renderLog()

	assert.NotContains(t, out, "\x1b[31m")
	assert.NotContains(t, out, "\x07")
	first := strings.Index(out, "first")
	second := strings.Index(out, "second")
	require.True(t, first >= 0 && second > first)
	assert.Contains(t, out[first:second], "\n")
}

func TestTerminalText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a\nb\tc", "a\nb\tc"},
		{"\x1b[1mbold\x1b[0m", "bold"},
		{"bell\x07 and \rreturn", "bell and return"},
		{"\x1b]0;title\x07text", "text"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TerminalText(tt.in), "input %q", tt.in)
	}
}

func TestWriteTranscript(t *testing.T) {
	s := NewScreen()
	s.Log.Append(widget.Message{Kind: widget.KindUser, Text: "<script>alert(1)</script>\nsuite"})
	s.Log.Append(widget.Message{Kind: widget.KindAssistant, Text: "Réponse"})

	var b strings.Builder
	require.NoError(t, s.WriteTranscript(&b))

	out := b.String()
	assert.Contains(t, out, `<div class="message user">&lt;script&gt;alert(1)&lt;/script&gt;<br>suite</div>`)
	assert.Contains(t, out, `<div class="message assistant">Réponse</div>`)
	assert.NotContains(t, out, "<script>")
}
