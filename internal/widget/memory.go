package widget

import (
	"slices"
	"strings"
	"sync"
)

// The Memory* ports keep widget state in memory. Front ends render from them
// and tests assert on them. Every port is safe for concurrent use and calls
// its onChange hook, if any, after each mutation.

// MemoryLog is an in-memory message log
type MemoryLog struct {
	mu       sync.Mutex
	entries  []Message
	scrolls  int
	onChange func()
}

// NewMemoryLog creates an empty log
func NewMemoryLog(onChange func()) *MemoryLog {
	return &MemoryLog{onChange: onChange}
}

func (l *MemoryLog) changed() {
	if l.onChange != nil {
		l.onChange()
	}
}

// Append adds msg at the end of the log
func (l *MemoryLog) Append(msg Message) {
	l.mu.Lock()
	l.entries = append(l.entries, msg)
	l.mu.Unlock()
	l.changed()
}

// Remove deletes the entry with the given key
func (l *MemoryLog) Remove(key string) bool {
	if key == "" {
		return false
	}
	l.mu.Lock()
	i := slices.IndexFunc(l.entries, func(m Message) bool { return m.Key() == key })
	if i >= 0 {
		l.entries = slices.Delete(l.entries, i, i+1)
	}
	l.mu.Unlock()

	if i < 0 {
		return false
	}
	l.changed()
	return true
}

// ScrollToEnd records a request to show the newest entry
func (l *MemoryLog) ScrollToEnd() {
	l.mu.Lock()
	l.scrolls++
	l.mu.Unlock()
	l.changed()
}

// Messages returns a copy of the entries in display order
func (l *MemoryLog) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.entries)
}

// Scrolls returns how many times the log was scrolled to its end
func (l *MemoryLog) Scrolls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.scrolls
}

// HTML renders every entry as escaped markup, one element per line
func (l *MemoryLog) HTML() string {
	var b strings.Builder
	for _, m := range l.Messages() {
		b.WriteString(m.HTML())
		b.WriteString("\n")
	}
	return b.String()
}

// MemoryInput is an in-memory text field. It starts enabled.
type MemoryInput struct {
	mu          sync.Mutex
	value       string
	enabled     bool
	focuses     int
	transitions []bool
	onChange    func()
}

// NewMemoryInput creates an empty, enabled input
func NewMemoryInput(onChange func()) *MemoryInput {
	return &MemoryInput{enabled: true, onChange: onChange}
}

func (in *MemoryInput) changed() {
	if in.onChange != nil {
		in.onChange()
	}
}

// SetValue replaces the text, as typing would
func (in *MemoryInput) SetValue(value string) {
	in.mu.Lock()
	in.value = value
	in.mu.Unlock()
}

func (in *MemoryInput) Value() string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.value
}

func (in *MemoryInput) Clear() {
	in.mu.Lock()
	in.value = ""
	in.mu.Unlock()
	in.changed()
}

func (in *MemoryInput) SetEnabled(enabled bool) {
	in.mu.Lock()
	in.enabled = enabled
	in.transitions = append(in.transitions, enabled)
	in.mu.Unlock()
	in.changed()
}

func (in *MemoryInput) Enabled() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.enabled
}

func (in *MemoryInput) Focus() {
	in.mu.Lock()
	in.focuses++
	in.mu.Unlock()
	in.changed()
}

// Focuses returns how many times focus was requested
func (in *MemoryInput) Focuses() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.focuses
}

// Transitions returns every SetEnabled argument in call order
func (in *MemoryInput) Transitions() []bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return slices.Clone(in.transitions)
}

// MemoryButton is an in-memory button. It starts enabled.
type MemoryButton struct {
	mu          sync.Mutex
	label       string
	enabled     bool
	labels      []string
	transitions []bool
	onChange    func()
}

// NewMemoryButton creates an enabled button showing label
func NewMemoryButton(label string, onChange func()) *MemoryButton {
	return &MemoryButton{label: label, enabled: true, onChange: onChange}
}

func (b *MemoryButton) changed() {
	if b.onChange != nil {
		b.onChange()
	}
}

func (b *MemoryButton) Label() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.label
}

func (b *MemoryButton) SetLabel(label string) {
	b.mu.Lock()
	b.label = label
	b.labels = append(b.labels, label)
	b.mu.Unlock()
	b.changed()
}

func (b *MemoryButton) SetEnabled(enabled bool) {
	b.mu.Lock()
	b.enabled = enabled
	b.transitions = append(b.transitions, enabled)
	b.mu.Unlock()
	b.changed()
}

func (b *MemoryButton) Enabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.enabled
}

// Labels returns every SetLabel argument in call order
func (b *MemoryButton) Labels() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.labels)
}

// Transitions returns every SetEnabled argument in call order
func (b *MemoryButton) Transitions() []bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.transitions)
}

// MemoryStats is an in-memory statistics display
type MemoryStats struct {
	mu       sync.Mutex
	text     string
	onChange func()
}

// NewMemoryStats creates a display showing text
func NewMemoryStats(text string, onChange func()) *MemoryStats {
	return &MemoryStats{text: text, onChange: onChange}
}

func (s *MemoryStats) SetText(text string) {
	s.mu.Lock()
	s.text = text
	s.mu.Unlock()
	if s.onChange != nil {
		s.onChange()
	}
}

func (s *MemoryStats) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

var (
	_ Log          = (*MemoryLog)(nil)
	_ Input        = (*MemoryInput)(nil)
	_ Button       = (*MemoryButton)(nil)
	_ StatsDisplay = (*MemoryStats)(nil)
)
