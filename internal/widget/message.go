package widget

import (
	"fmt"
	"html"
	"strings"
)

// Kind tells who a message comes from; renderers style entries by kind
type Kind string

const (
	KindUser      Kind = "user"
	KindAssistant Kind = "assistant"
	KindSystem    Kind = "system"
)

// Message is one entry of the chat log
type Message struct {
	Kind Kind
	Text string
	// ID is the correlation id of a transient message, empty otherwise
	ID string
}

// KeyFor returns the lookup key of the message with correlation id id
func KeyFor(id string) string {
	return "msg-" + id
}

// Key returns the lookup key of the message, or "" when it has no correlation id
func (m Message) Key() string {
	if m.ID == "" {
		return ""
	}
	return KeyFor(m.ID)
}

// Lines splits the text on newlines; each element renders as one visual line
func (m Message) Lines() []string {
	return strings.Split(m.Text, "\n")
}

// Markup escapes text for HTML and then turns newlines into <br> tags.
// Escaping always happens first so message text can never inject markup.
func Markup(text string) string {
	return strings.ReplaceAll(html.EscapeString(text), "\n", "<br>")
}

// HTML renders the message as a log entry element
func (m Message) HTML() string {
	id := ""
	if key := m.Key(); key != "" {
		id = fmt.Sprintf(` id="%s"`, html.EscapeString(key))
	}
	return fmt.Sprintf(`<div class="message %s"%s>%s</div>`, html.EscapeString(string(m.Kind)), id, Markup(m.Text))
}
