package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/passkeep/passkeep-go/internal/client"
	"github.com/passkeep/passkeep-go/internal/model"
	"github.com/passkeep/passkeep-go/internal/service"
)

const (
	statusDuration = 1500 * time.Millisecond
	requestTimeout = 30 * time.Second
)

// API is the subset of the passkeep client the UI needs.
type API interface {
	ListServices(ctx context.Context, query string) ([]model.StoredService, error)
	AddService(ctx context.Context, name, password string) ([]model.StoredService, error)
	DeleteService(ctx context.Context, name string) ([]model.StoredService, error)
}

// Options tunes the UI. Zero values pick the defaults.
type Options struct {
	SearchDelay time.Duration
	Copy        func(string) error
}

type mode int

const (
	modeList mode = iota
	modeAdd
	modeGenerator
	modeConfirmDelete
)

type (
	servicesLoadedMsg struct {
		services []model.StoredService
		err      error
	}
	addResultMsg struct {
		services []model.StoredService
		err      error
	}
	deleteResultMsg struct {
		services []model.StoredService
		err      error
	}
	statusClearMsg struct {
		seq int
	}
)

// Model is the bubbletea model of the passkeep terminal UI.
type Model struct {
	api    API
	keys   keyMap
	styles Styles
	help   help.Model

	mode       mode
	items      []model.StoredService
	query      string
	search     textinput.Model
	debounce   *debouncer
	cursor     int
	reveal     bool
	visibility *Visibility
	copy       func(string) error

	loading   bool
	err       string
	status    string
	statusSeq int
	spinner   spinner.Model

	form    addForm
	gen     generatorPanel
	confirm confirmDialog
}

// New creates the UI model backed by api.
func New(api API, opts Options) Model {
	if opts.SearchDelay <= 0 {
		opts.SearchDelay = DefaultSearchDelay
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}

	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "service name"
	search.Focus()

	return Model{
		api:        api,
		keys:       defaultKeyMap(),
		styles:     DefaultStyles(),
		help:       help.New(),
		search:     search,
		debounce:   newDebouncer(opts.SearchDelay),
		visibility: NewVisibility(),
		copy:       opts.Copy,
		loading:    true,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		form:       newAddForm(),
		gen:        newGeneratorPanel(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.load())
}

func (m Model) load() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		services, err := api.ListServices(ctx, "")
		return servicesLoadedMsg{services: services, err: err}
	}
}

func (m Model) add(name, password string) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		services, err := api.AddService(ctx, name, password)
		return addResultMsg{services: services, err: err}
	}
}

func (m Model) remove(name string) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		services, err := api.DeleteService(ctx, name)
		return deleteResultMsg{services: services, err: err}
	}
}

// Visible returns the services matching the applied search query.
func (m Model) Visible() []model.StoredService {
	return service.Filter(m.items, m.query)
}

func (m Model) busy() bool {
	return m.loading || m.form.pending || m.confirm.pending
}

func (m Model) selected() (model.StoredService, bool) {
	visible := m.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return model.StoredService{}, false
	}
	return visible[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) setStatus(s string) tea.Cmd {
	m.status = s
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return statusClearMsg{seq: seq}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case searchTickMsg:
		if q, ok := m.debounce.Accept(msg); ok {
			m.query = q
			m.cursor = 0
			m.reveal = false
		}
		return m, nil

	case statusClearMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case servicesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.items = msg.services
		m.clampCursor()
		return m, nil

	case addResultMsg:
		return m.handleAddResult(msg)

	case deleteResultMsg:
		return m.handleDeleteResult(msg)

	case generatedMsg:
		m.form.SetPassword(msg.password)
		m.mode = modeAdd
		m.form.focus = formFieldPassword
		m.form.name.Blur()
		return m, m.form.password.Focus()
	}

	switch m.mode {
	case modeAdd:
		return m.updateAdd(msg)
	case modeGenerator:
		return m.updateGenerator(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	default:
		return m.updateList(msg)
	}
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.reveal = false
			}
			return m, nil
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.Visible())-1 {
				m.cursor++
				m.reveal = false
			}
			return m, nil
		case key.Matches(msg, m.keys.Visibility):
			m.visibility.Toggle()
			return m, nil
		case key.Matches(msg, m.keys.Reveal):
			m.reveal = !m.reveal
			return m, nil
		case key.Matches(msg, m.keys.Reload):
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.load())
		case key.Matches(msg, m.keys.Add):
			m.mode = modeAdd
			m.form.Reset()
			m.search.Blur()
			return m, m.form.Focus()
		case key.Matches(msg, m.keys.Copy):
			svc, ok := m.selected()
			if !ok {
				return m, nil
			}
			if err := m.copy(svc.ServicePassword); err != nil {
				return m, m.setStatus("copy failed: " + err.Error())
			}
			return m, m.setStatus("copied")
		case key.Matches(msg, m.keys.Delete):
			svc, ok := m.selected()
			if !ok {
				return m, nil
			}
			m.mode = modeConfirmDelete
			m.confirm = confirmDialog{name: svc.ServiceName}
			return m, nil
		}
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		return m, tea.Batch(cmd, m.debounce.Schedule(m.search.Value()))
	}
	return m, cmd
}

func (m Model) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form.pending {
		return m, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m.backToList()
		case key.Matches(msg, m.keys.Generate):
			m.mode = modeGenerator
			return m, m.gen.Focus()
		case key.Matches(msg, m.keys.Submit):
			if !m.form.Validate(model.Names(m.items)) {
				return m, nil
			}
			p := m.form.Payload(nil)
			m.form.pending = true
			return m, tea.Batch(m.spinner.Tick, m.add(p.ServiceName, p.ServicePassword))
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg, m.keys)
	return m, cmd
}

func (m Model) updateGenerator(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Back) {
		m.mode = modeAdd
		return m, m.form.Focus()
	}
	var cmd tea.Cmd
	m.gen, cmd = m.gen.Update(msg, m.keys)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.confirm.pending {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		m.confirm.pending = true
		m.confirm.err = ""
		return m, tea.Batch(m.spinner.Tick, m.remove(m.confirm.name))
	case key.Matches(keyMsg, m.keys.Cancel):
		m.mode = modeList
		m.confirm = confirmDialog{}
	}
	return m, nil
}

func (m Model) backToList() (tea.Model, tea.Cmd) {
	m.mode = modeList
	m.form.Reset()
	m.form.name.Blur()
	m.form.password.Blur()
	return m, m.search.Focus()
}

func (m Model) handleAddResult(msg addResultMsg) (tea.Model, tea.Cmd) {
	m.form.pending = false
	if msg.err != nil {
		var apiErr *client.APIError
		if errors.As(msg.err, &apiErr) && len(apiErr.Fields) > 0 {
			m.form.errs = apiErr.Fields
		} else {
			m.form.errs = model.FieldErrors{model.FieldGeneral: msg.err.Error()}
		}
		return m, nil
	}

	m.items = msg.services
	next, focus := m.backToList()
	m = next.(Model)
	return m, tea.Batch(focus, m.setStatus("saved"))
}

func (m Model) handleDeleteResult(msg deleteResultMsg) (tea.Model, tea.Cmd) {
	m.confirm.pending = false
	if msg.err != nil {
		m.confirm.err = msg.err.Error()
		return m, nil
	}
	m.items = msg.services
	m.mode = modeList
	m.confirm = confirmDialog{}
	m.clampCursor()
	return m, m.setStatus("deleted")
}

func (m Model) View() string {
	var b strings.Builder
	switch m.mode {
	case modeAdd:
		b.WriteString(m.form.View(m.styles, m.visibility.Visible(), m.spinner.View()))
	case modeGenerator:
		b.WriteString(m.gen.View(m.styles))
	case modeConfirmDelete:
		b.WriteString(m.confirm.View(m.styles, m.spinner.View()))
		b.WriteString("\n")
	default:
		b.WriteString(m.listView())
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Success.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.helpKeys()))
	return b.String()
}

func (m Model) listView() string {
	s := m.styles
	var b strings.Builder
	b.WriteString(s.Title.Render("Saved services"))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(m.spinner.View() + " loading...\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(s.Error.Render(m.err))
		b.WriteString("\n")
		return b.String()
	}

	visible := m.Visible()
	if len(visible) == 0 {
		if m.query != "" {
			b.WriteString(s.Muted.Render("nothing matches the search"))
		} else {
			b.WriteString(s.Muted.Render("no saved services"))
		}
		b.WriteString("\n")
		return b.String()
	}

	// Reveal applies to the selected row until the cursor moves.
	for i, svc := range visible {
		row := s.Name.Render(svc.ServiceName) + "  " +
			s.Password.Render(m.visibility.Mask(svc.ServicePassword, m.reveal && i == m.cursor))
		if i == m.cursor {
			b.WriteString(s.Selected.Render(row))
		} else {
			b.WriteString("  " + row)
		}
		b.WriteString("\n")
	}
	return b.String()
}

type bindings []key.Binding

func (b bindings) ShortHelp() []key.Binding  { return b }
func (b bindings) FullHelp() [][]key.Binding { return [][]key.Binding{b} }

func (m Model) helpKeys() help.KeyMap {
	k := m.keys
	switch m.mode {
	case modeAdd:
		return bindings{k.NextField, k.Generate, k.Submit, k.Back}
	case modeGenerator:
		return bindings{k.Submit, k.NextField, k.Letters, k.Digits, k.Symbols, k.Case, k.Back}
	case modeConfirmDelete:
		return bindings{k.Confirm, k.Cancel}
	default:
		return bindings{k.Up, k.Down, k.Add, k.Delete, k.Copy, k.Visibility, k.Reveal, k.Reload, k.Quit}
	}
}
