package tui

import (
	"fmt"
	"io"

	"github.com/liliang-cn/docassist/internal/widget"
)

// Labels of the widget controls
const (
	SendLabel    = "Envoyer"
	ReloadLabel  = "Recharger la documentation"
	LoadingStats = "Chargement des statistiques..."
)

// Screen is the widget state shared by the controller and the model.
// The controller mutates it from command goroutines; every mutation is
// signalled on a 1-buffered channel so bursts collapse into one redraw.
type Screen struct {
	Log    *widget.MemoryLog
	Input  *widget.MemoryInput
	Send   *widget.MemoryButton
	Reload *widget.MemoryButton
	Stats  *widget.MemoryStats

	changes chan struct{}
}

// NewScreen creates a screen with enabled controls and an empty log
func NewScreen() *Screen {
	s := &Screen{changes: make(chan struct{}, 1)}
	s.Log = widget.NewMemoryLog(s.notify)
	s.Input = widget.NewMemoryInput(s.notify)
	s.Send = widget.NewMemoryButton(SendLabel, s.notify)
	s.Reload = widget.NewMemoryButton(ReloadLabel, s.notify)
	s.Stats = widget.NewMemoryStats(LoadingStats, s.notify)
	return s
}

// Ports returns the screen elements as controller ports
func (s *Screen) Ports() widget.Ports {
	return widget.Ports{
		Log:    s.Log,
		Input:  s.Input,
		Send:   s.Send,
		Reload: s.Reload,
		Stats:  s.Stats,
	}
}

// Changes is signalled after any mutation
func (s *Screen) Changes() <-chan struct{} {
	return s.changes
}

func (s *Screen) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

const transcriptPage = `<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<title>Assistant Documentation</title>
</head>
<body>
<div class="chat-messages">
%s</div>
</body>
</html>
`

// WriteTranscript writes the log as an HTML page
func (s *Screen) WriteTranscript(w io.Writer) error {
	if _, err := fmt.Fprintf(w, transcriptPage, s.Log.HTML()); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	return nil
}
