package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/passkeep/passkeep-go/internal/model"
	"github.com/passkeep/passkeep-go/internal/service"
)

const (
	formFieldName = iota
	formFieldPassword
)

// addForm collects a new service. Field errors come from local validation
// or from the API response.
type addForm struct {
	name     textinput.Model
	password textinput.Model
	focus    int
	errs     model.FieldErrors
	pending  bool
}

func newAddForm() addForm {
	name := textinput.New()
	name.Prompt = "Service: "
	name.Placeholder = "e.g. mail"
	name.CharLimit = 64

	password := textinput.New()
	password.Prompt = "Password: "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	return addForm{name: name, password: password}
}

func (f *addForm) Focus() tea.Cmd {
	f.focus = formFieldName
	f.password.Blur()
	return f.name.Focus()
}

func (f *addForm) Reset() {
	f.name.Reset()
	f.password.Reset()
	f.errs = nil
	f.pending = false
}

func (f *addForm) SetPassword(p string) {
	f.password.SetValue(p)
	delete(f.errs, model.FieldServicePassword)
}

// Payload returns the current input. The name is trimmed, the password is
// taken verbatim.
func (f *addForm) Payload(existing []string) service.ServicePayload {
	return service.ServicePayload{
		ServiceName:     strings.TrimSpace(f.name.Value()),
		ServicePassword: f.password.Value(),
		ExistingNames:   existing,
	}
}

// Validate runs the local checks and keeps their messages for display.
func (f *addForm) Validate(existing []string) bool {
	f.errs = service.Validate(f.Payload(existing))
	return len(f.errs) == 0
}

func (f addForm) Update(msg tea.Msg, keys keyMap) (addForm, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, keys.NextField) {
		if f.focus == formFieldName {
			f.focus = formFieldPassword
			f.name.Blur()
			return f, f.password.Focus()
		}
		return f, f.Focus()
	}

	var cmd tea.Cmd
	if f.focus == formFieldName {
		f.name, cmd = f.name.Update(msg)
	} else {
		f.password, cmd = f.password.Update(msg)
	}
	return f, cmd
}

func (f addForm) View(s Styles, reveal bool, spin string) string {
	if reveal {
		f.password.EchoMode = textinput.EchoNormal
	}

	var b strings.Builder
	b.WriteString(s.Title.Render("Add service"))
	b.WriteString("\n")
	b.WriteString(f.name.View())
	b.WriteString("\n")
	if msg := f.errs[model.FieldServiceName]; msg != "" {
		b.WriteString(s.Error.Render(msg))
		b.WriteString("\n")
	}
	b.WriteString(f.password.View())
	b.WriteString("\n")
	if msg := f.errs[model.FieldServicePassword]; msg != "" {
		b.WriteString(s.Error.Render(msg))
		b.WriteString("\n")
	}
	if msg := f.errs[model.FieldGeneral]; msg != "" {
		b.WriteString("\n")
		b.WriteString(s.Error.Render(msg))
		b.WriteString("\n")
	}
	if f.pending {
		b.WriteString("\n")
		b.WriteString(spin + " saving...")
		b.WriteString("\n")
	}
	return b.String()
}
