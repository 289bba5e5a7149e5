package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/liliang-cn/docassist/internal/widget"
)

// Colors of the chat widget
var (
	Primary = lipgloss.Color("#2196F3")
	Accent  = lipgloss.Color("#8BC34A")
	Muted   = lipgloss.Color("#6b7280")
	Warning = lipgloss.Color("#FFC107")
)

// Styles holds the lipgloss styles used by the model
type Styles struct {
	Header    lipgloss.Style
	Stats     lipgloss.Style
	User      lipgloss.Style
	Assistant lipgloss.Style
	System    lipgloss.Style
	Body      lipgloss.Style
	Loading   lipgloss.Style
	Input     lipgloss.Style
	Button    lipgloss.Style
	Disabled  lipgloss.Style
	Help      lipgloss.Style
	Spinner   lipgloss.Style
}

// DefaultStyles returns the default widget styles
func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(Primary).Padding(0, 1),
		Stats:     lipgloss.NewStyle().Foreground(Muted).Italic(true),
		User:      lipgloss.NewStyle().Bold(true).Foreground(Primary),
		Assistant: lipgloss.NewStyle().Bold(true).Foreground(Accent),
		System:    lipgloss.NewStyle().Bold(true).Foreground(Warning),
		Body:      lipgloss.NewStyle().PaddingLeft(2),
		Loading:   lipgloss.NewStyle().PaddingLeft(2).Foreground(Muted).Italic(true),
		Input:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Accent).Padding(0, 1),
		Button:    lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(Primary).Padding(0, 1),
		Disabled:  lipgloss.NewStyle().Foreground(Muted).Background(lipgloss.Color("#2a3850")).Padding(0, 1),
		Help:      lipgloss.NewStyle().Foreground(Muted),
		Spinner:   lipgloss.NewStyle().Foreground(Accent),
	}
}

func (s Styles) forKind(kind widget.Kind) lipgloss.Style {
	switch kind {
	case widget.KindUser:
		return s.User
	case widget.KindAssistant:
		return s.Assistant
	default:
		return s.System
	}
}
