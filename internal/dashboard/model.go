package dashboard

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/contactbook/internal/logger"
	"github.com/smileynet/contactbook/internal/store"
)

// helpBarHeight is the number of lines reserved for the help bar at the bottom.
const helpBarHeight = 1

// statusBarHeight is the number of lines reserved for the status line.
const statusBarHeight = 1

// borderChrome is the number of lines consumed by top + bottom borders.
const borderChrome = 2

// Model is the root Bubble Tea model for the dashboard TUI.
// It manages a two-pane layout with mode-based routing and focus management.
type Model struct {
	store Store
	path  string
	log   *slog.Logger

	mode     Mode
	focus    Focus
	width    int
	height   int
	browse   browseState
	search   textinput.Model
	confirm  confirmState
	viewport viewport.Model
	help     help.Model

	browseKeys  browseKeys
	searchKeys  searchKeys
	confirmKeys confirmKeys

	status    string
	statusErr bool
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger used for save, load and delete events.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.log = l
		}
	}
}

// NewModel creates a dashboard Model over s persisting to path, in browse
// mode with left-pane focus.
func NewModel(s Store, path string, opts ...Option) Model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "name"

	m := Model{
		store:       s,
		path:        path,
		log:         logger.Discard(),
		mode:        ModeBrowse,
		focus:       PaneLeft,
		search:      ti,
		viewport:    viewport.New(0, 0),
		help:        help.New(),
		browseKeys:  BrowseKeyMap(),
		searchKeys:  SearchKeyMap(),
		confirmKeys: ConfirmKeyMap(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.refresh()
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages with mode-based routing.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		_, rightWidth := PaneWidths(msg.Width)
		vpWidth := rightWidth - borderChrome
		if vpWidth < 0 {
			vpWidth = 0
		}
		m.viewport.Width = vpWidth
		m.viewport.Height = m.contentHeight()
		m.syncDetail()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case ModeSearch:
			return m.handleSearchKey(msg)
		case ModeConfirm:
			return m.handleConfirmKey(msg), nil
		default:
			return m.handleBrowseKey(msg)
		}
	}

	return m, nil
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.browseKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.browseKeys.Tab):
		if m.focus == PaneLeft {
			m.focus = PaneRight
		} else {
			m.focus = PaneLeft
		}
		return m, nil

	case key.Matches(msg, m.browseKeys.Search):
		m.mode = ModeSearch
		m.focus = PaneLeft
		return m, m.search.Focus()

	case key.Matches(msg, m.browseKeys.Delete):
		c, ok := m.browse.Selected()
		if !ok {
			m.setStatus("No contacts to delete.", false)
			return m, nil
		}
		m.confirm = newConfirmState(c.Name, m.store.List())
		m.mode = ModeConfirm
		return m, nil

	case key.Matches(msg, m.browseKeys.Save):
		m.save()
		return m, nil

	case key.Matches(msg, m.browseKeys.Reload):
		m.load()
		return m, nil
	}

	if m.focus == PaneRight {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	m.browse, _ = m.browse.Update(msg)
	m.syncDetail()
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.searchKeys.Accept):
		m.mode = ModeBrowse
		m.search.Blur()
		return m, nil

	case key.Matches(msg, m.searchKeys.Clear):
		m.mode = ModeBrowse
		m.search.Blur()
		m.search.SetValue("")
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refresh()
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) Model {
	switch {
	case key.Matches(msg, m.confirmKeys.Confirm):
		name := m.confirm.name
		removed := m.store.Delete(name)
		m.log.Info("contacts deleted", "name", name, "removed", removed)
		if removed > 0 {
			m.setStatus(fmt.Sprintf("Contact(s) named '%s' deleted successfully!", name), false)
		} else {
			m.setStatus(fmt.Sprintf("No contact found with the exact name '%s'.", name), true)
		}
		m.mode = ModeBrowse
		m.refresh()

	case key.Matches(msg, m.confirmKeys.Cancel):
		m.mode = ModeBrowse
		m.setStatus("Delete cancelled.", false)
	}
	return m
}

func (m *Model) save() {
	if err := m.store.Save(m.path); err != nil {
		m.log.Error("save failed", "path", m.path, "error", err)
		m.setStatus(fmt.Sprintf("Error saving contacts to file: %v", err), true)
		return
	}
	m.setStatus(fmt.Sprintf("Contacts saved to %s successfully!", m.path), false)
}

func (m *Model) load() {
	res, err := m.store.Load(m.path)
	switch {
	case errors.Is(err, store.ErrNoFile):
		m.setStatus("No existing contacts file found.", true)
		return
	case err != nil:
		m.log.Error("load failed", "path", m.path, "error", err)
		m.setStatus(fmt.Sprintf("Error loading contacts from file: %v", err), true)
		return
	}
	msg := fmt.Sprintf("Contacts loaded from %s successfully!", m.path)
	if n := len(res.Skipped); n > 0 {
		msg += fmt.Sprintf(" (%d invalid lines skipped)", n)
	}
	m.setStatus(msg, false)
	m.refresh()
}

// refresh re-reads the visible contacts from the store using the current
// search term.
func (m *Model) refresh() {
	term := m.search.Value()
	if term == "" {
		m.browse = m.browse.apply(m.store.List(), "")
	} else {
		m.browse = m.browse.apply(m.store.Search(term), term)
	}
	m.syncDetail()
}

// syncDetail puts the selected contact's detail into the right viewport.
func (m *Model) syncDetail() {
	m.viewport.SetContent(m.browse.detailView())
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// contentHeight returns the usable height for pane content,
// accounting for border chrome, the status line and the help bar.
func (m Model) contentHeight() int {
	h := m.height - borderChrome - statusBarHeight - helpBarHeight
	if h < 1 {
		return 1
	}
	return h
}

// View renders the two-pane layout with status line and help bar.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	leftWidth, rightWidth := PaneWidths(m.width)
	contentHeight := m.contentHeight()

	var leftStyle, rightStyle lipgloss.Style
	if m.focus == PaneLeft {
		leftStyle = FocusedBorder()
		rightStyle = UnfocusedBorder()
	} else {
		leftStyle = UnfocusedBorder()
		rightStyle = FocusedBorder()
	}

	leftStyle = leftStyle.
		Width(leftWidth - borderChrome).
		Height(contentHeight)
	rightStyle = rightStyle.
		Width(rightWidth - borderChrome).
		Height(contentHeight)

	leftPane := leftStyle.Render(m.viewLeft(leftWidth-borderChrome, contentHeight))
	rightPane := rightStyle.Render(m.viewRight(rightWidth-borderChrome, contentHeight))
	panes := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
	helpView := m.help.View(HelpBindings(m.mode))

	return lipgloss.JoinVertical(lipgloss.Left, panes, m.viewStatus(), helpView)
}

// viewLeft renders the contact list, with the search input on top while a
// search is being typed or kept.
func (m Model) viewLeft(width, height int) string {
	if m.mode == ModeSearch || m.search.Value() != "" {
		return m.search.View() + "\n" + m.browse.View(width, height-1)
	}
	return m.browse.View(width, height)
}

// viewRight renders the right pane content based on mode.
func (m Model) viewRight(width, height int) string {
	if m.mode == ModeConfirm {
		return m.confirm.View(width, height)
	}
	return m.viewport.View()
}

func (m Model) viewStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return statusFailText.Render(m.status)
	}
	return statusOKText.Render(m.status)
}
