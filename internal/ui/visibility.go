package ui

import (
	"strings"
	"sync"
	"unicode/utf8"
)

// Visibility is the shared show/hide state for every rendered password.
// Toggle and Set are the writers; rows only read it.
type Visibility struct {
	mu      sync.RWMutex
	visible bool
}

// NewVisibility creates a Visibility with passwords hidden.
func NewVisibility() *Visibility {
	return &Visibility{}
}

func (v *Visibility) Visible() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.visible
}

func (v *Visibility) Toggle() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.visible = !v.visible
}

func (v *Visibility) Set(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.visible = visible
}

// Mask returns password, or one asterisk per rune when hidden.
func (v *Visibility) Mask(password string, reveal bool) string {
	if reveal || v.Visible() {
		return password
	}
	return strings.Repeat("*", utf8.RuneCountInString(password))
}
