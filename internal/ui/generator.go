package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/passkeep/passkeep-go/internal/crypto"
)

// generatedMsg carries a password from the generator panel to the add form.
type generatedMsg struct {
	password string
}

const (
	genFieldLength = iota
	genFieldCharset
)

var letterCases = []crypto.LetterCase{crypto.CaseLower, crypto.CaseUpper, crypto.CaseRandom}

// generatorPanel edits PasswordOptions and generates passwords locally.
type generatorPanel struct {
	opts       crypto.PasswordOptions
	letterCase crypto.LetterCase
	length     textinput.Model
	charset    textinput.Model
	focus      int
	err        string
	generate   func(crypto.PasswordOptions) (string, error)
}

func newGeneratorPanel() generatorPanel {
	length := textinput.New()
	length.Prompt = "Length: "
	length.CharLimit = 3
	length.SetValue(strconv.Itoa(crypto.DefaultLength))

	charset := textinput.New()
	charset.Prompt = "Own charset: "
	charset.Placeholder = "e.g. abcDEF123!@#"

	return generatorPanel{
		opts:       crypto.DefaultOptions(),
		letterCase: crypto.CaseLower,
		length:     length,
		charset:    charset,
		generate:   crypto.Generate,
	}
}

func (g *generatorPanel) Focus() tea.Cmd {
	g.focus = genFieldLength
	g.charset.Blur()
	return g.length.Focus()
}

// poolsLocked reports whether a custom charset disables the pool toggles.
func (g *generatorPanel) poolsLocked() bool {
	return g.charset.Value() != ""
}

func (g *generatorPanel) toggleLetters() {
	g.opts.ApplyLetterCase(!g.opts.Letters, g.letterCase)
}

func (g *generatorPanel) cycleCase() {
	if !g.opts.Letters {
		return
	}
	for i, c := range letterCases {
		if c == g.letterCase {
			g.letterCase = letterCases[(i+1)%len(letterCases)]
			break
		}
	}
	g.opts.ApplyLetterCase(true, g.letterCase)
}

// run reads the inputs into the options, clamps the length and generates.
func (g *generatorPanel) run() tea.Cmd {
	n, _ := strconv.Atoi(strings.TrimSpace(g.length.Value()))
	g.opts.Length = crypto.ClampLength(n)
	g.length.SetValue(strconv.Itoa(g.opts.Length))
	g.opts.CustomCharset = g.charset.Value()

	password, err := g.generate(g.opts)
	if err != nil {
		g.err = err.Error()
		return nil
	}
	g.err = ""
	return func() tea.Msg { return generatedMsg{password: password} }
}

func (g generatorPanel) Update(msg tea.Msg, keys keyMap) (generatorPanel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Submit):
			return g, g.run()
		case key.Matches(msg, keys.NextField):
			if g.focus == genFieldLength {
				g.focus = genFieldCharset
				g.length.Blur()
				return g, g.charset.Focus()
			}
			return g, g.Focus()
		case key.Matches(msg, keys.Letters):
			if !g.poolsLocked() {
				g.toggleLetters()
			}
			return g, nil
		case key.Matches(msg, keys.Digits):
			if !g.poolsLocked() {
				g.opts.Digits = !g.opts.Digits
			}
			return g, nil
		case key.Matches(msg, keys.Symbols):
			if !g.poolsLocked() {
				g.opts.Symbols = !g.opts.Symbols
			}
			return g, nil
		case key.Matches(msg, keys.Case):
			if !g.poolsLocked() {
				g.cycleCase()
			}
			return g, nil
		}
	}

	var cmd tea.Cmd
	if g.focus == genFieldLength {
		g.length, cmd = g.length.Update(msg)
	} else {
		g.charset, cmd = g.charset.Update(msg)
	}
	return g, cmd
}

func (g generatorPanel) View(s Styles) string {
	chip := func(label string, on bool) string {
		if on {
			return s.ChipOn.Render(label)
		}
		return s.Chip.Render(label)
	}

	var b strings.Builder
	b.WriteString(s.Title.Render("Password generator"))
	b.WriteString("\n")
	b.WriteString(g.length.View())
	b.WriteString("\n\n")

	b.WriteString(chip("Letters", g.opts.Letters) + " " + chip("Digits", g.opts.Digits) + " " + chip("Symbols", g.opts.Symbols))
	b.WriteString("\n")
	if g.opts.Letters {
		for _, c := range letterCases {
			b.WriteString(chip(string(c), c == g.letterCase))
		}
		b.WriteString("\n")
	}
	if g.poolsLocked() {
		b.WriteString(s.Muted.Render("toggles are locked while a custom charset is set"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(g.charset.View())
	b.WriteString("\n")

	if g.err != "" {
		b.WriteString("\n")
		b.WriteString(s.Error.Render(g.err))
		b.WriteString("\n")
	}
	return b.String()
}
