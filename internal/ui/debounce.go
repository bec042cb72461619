package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultSearchDelay is how long the search input must stay idle before the
// query applies.
const DefaultSearchDelay = 300 * time.Millisecond

type searchTickMsg struct {
	seq   int
	query string
}

// debouncer delays a value until no newer value arrives within delay.
// Each Schedule supersedes the pending one; stale ticks are ignored.
type debouncer struct {
	delay time.Duration
	seq   int
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay}
}

func (d *debouncer) Schedule(value string) tea.Cmd {
	d.seq++
	seq := d.seq
	return tea.Tick(d.delay, func(time.Time) tea.Msg {
		return searchTickMsg{seq: seq, query: value}
	})
}

// Accept reports whether msg is the latest scheduled tick and returns its
// trimmed value.
func (d *debouncer) Accept(msg searchTickMsg) (string, bool) {
	if msg.seq != d.seq {
		return "", false
	}
	return strings.TrimSpace(msg.query), true
}
