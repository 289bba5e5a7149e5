package widget

import (
	"context"

	"github.com/liliang-cn/docassist/internal/domain"
)

// Log is the visible message log
type Log interface {
	// Append adds msg after every existing entry
	Append(msg Message)
	// Remove deletes the entry with the given lookup key and reports whether it existed
	Remove(key string) bool
	// ScrollToEnd brings the newest entry into view
	ScrollToEnd()
}

// Input is the question text field
type Input interface {
	Value() string
	Clear()
	SetEnabled(enabled bool)
	Focus()
}

// Button is a clickable control with a text label
type Button interface {
	Label() string
	SetLabel(label string)
	SetEnabled(enabled bool)
}

// StatsDisplay shows the documentation statistic
type StatsDisplay interface {
	SetText(text string)
}

// Ports are the UI elements a Controller drives
type Ports struct {
	Log    Log
	Input  Input
	Send   Button
	Reload Button
	Stats  StatsDisplay
}

// Backend is the question-answering service.
//
// A returned error means the request itself failed (network, undecodable
// payload). A response with Success false is an application-level failure.
type Backend interface {
	Stats(ctx context.Context) (*domain.StatsResponse, error)
	Reload(ctx context.Context) (*domain.ReloadResponse, error)
	Ask(ctx context.Context, question string) (*domain.AskResponse, error)
}
