// Package tui is the terminal front-end: a two-pane browser over the
// library (folders left, tracks right) with a transport bar.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kmaier/crate/internal/domain"
	"github.com/kmaier/crate/internal/library"
	"github.com/kmaier/crate/internal/player"
	"github.com/kmaier/crate/internal/search"
)

// mode is what the keyboard currently controls.
type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeJump
	modeNewCategory
	modeImportFiles
	modeImportDir
	modeConfirmDelete
	modeHelp
)

// pane is the focused column in browse mode.
type pane int

const (
	paneCategories pane = iota
	paneTracks
)

const pollInterval = 500 * time.Millisecond

type tickMsg time.Time

type importDoneMsg struct {
	created int
	err     error
}

// Model is the bubbletea application model.
type Model struct {
	lib    *library.Service
	ctrl   *player.Controller
	remote *player.Remote
	keys   KeyMap
	logger *slog.Logger

	mode  mode
	focus pane

	catCursor   int
	trackCursor int
	input       textinput.Model
	status      string

	// confirmCat is the folder pending deletion while the confirm
	// prompt is up; nil means the prompt covers the track selection.
	confirmCat *domain.Category

	width  int
	height int
}

// New creates the TUI model. The library must already be loaded.
func New(lib *library.Service, ctrl *player.Controller, remote *player.Remote, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	ti := textinput.New()
	ti.CharLimit = 256
	return Model{
		lib:    lib,
		ctrl:   ctrl,
		remote: remote,
		keys:   DefaultKeyMap(),
		logger: logger,
		input:  ti,
		focus:  paneTracks,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.ctrl.Poll(context.Background())
		return m, tick()

	case importDoneMsg:
		if msg.err != nil {
			m.status = errorStyle.Render("import failed: " + msg.err.Error())
		} else {
			m.status = fmt.Sprintf("imported %d tracks", msg.created)
		}
		m.clampCursors()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch, modeJump, modeNewCategory, modeImportFiles, modeImportDir:
		return m.handleInputKey(msg)
	case modeConfirmDelete:
		return m.handleConfirmKey(msg)
	case modeHelp:
		m.mode = modeBrowse
		return m, nil
	}
	return m.handleBrowseKey(msg)
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.lib.SetQuery("")
		m.lib.ClearSelection()
		m.status = ""
		m.clampCursors()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		if m.focus == paneCategories {
			m.focus = paneTracks
		} else {
			m.focus = paneCategories
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		return m.activate(ctx)

	case key.Matches(msg, m.keys.Filter):
		m.mode = modeSearch
		m.input.Placeholder = "search"
		m.input.SetValue(m.lib.Query())
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Jump):
		m.mode = modeJump
		m.input.Placeholder = "jump to track"
		m.input.SetValue("")
		m.input.Focus()
		m.focus = paneTracks
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Select):
		if m.focus == paneTracks {
			if t := m.trackAtCursor(); t != nil {
				m.lib.ToggleSelect(t.ID)
				m.moveCursor(1)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.SelectAll):
		m.lib.SelectAll()
		return m, nil

	case key.Matches(msg, m.keys.NewCategory):
		m.mode = modeNewCategory
		m.input.Placeholder = "folder name"
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.AddToCat):
		return m.fileSelection(true)

	case key.Matches(msg, m.keys.RemoveCat):
		return m.fileSelection(false)

	case key.Matches(msg, m.keys.Delete):
		if m.focus == paneCategories {
			if c := m.categoryAtCursor(); c != nil {
				m.confirmCat = c
				m.mode = modeConfirmDelete
			}
			return m, nil
		}
		if m.lib.SelectionCount() == 0 {
			m.status = "nothing selected"
			return m, nil
		}
		m.confirmCat = nil
		m.mode = modeConfirmDelete
		return m, nil

	case key.Matches(msg, m.keys.ImportFile):
		m.mode = modeImportFiles
		m.input.Placeholder = "file paths, space separated"
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.ImportDir):
		m.mode = modeImportDir
		m.input.Placeholder = "folder path"
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.PlayPause):
		return m.transport(ctx, player.CmdToggle)

	case key.Matches(msg, m.keys.NextTrack):
		return m.transport(ctx, player.CmdNext)

	case key.Matches(msg, m.keys.PrevTrack):
		return m.transport(ctx, player.CmdPrev)

	case key.Matches(msg, m.keys.SeekFwd):
		return m.transport(ctx, player.CmdSeekForward)

	case key.Matches(msg, m.keys.SeekBack):
		return m.transport(ctx, player.CmdSeekBack)

	case key.Matches(msg, m.keys.StopPlay):
		return m.transport(ctx, player.CmdStop)
	}
	return m, nil
}

func (m Model) transport(ctx context.Context, cmd player.Command) (tea.Model, tea.Cmd) {
	if err := m.remote.Handle(ctx, cmd); err != nil {
		m.status = errorStyle.Render(err.Error())
	}
	return m, nil
}

// activate handles enter: category pane switches the filter, track pane
// starts playback.
func (m Model) activate(ctx context.Context) (tea.Model, tea.Cmd) {
	if m.focus == paneCategories {
		if m.catCursor == 0 {
			m.lib.SetActiveCategory(domain.CategoryAll)
		} else if c := m.categoryAtCursor(); c != nil {
			m.lib.SetActiveCategory(c.ID)
		}
		m.trackCursor = 0
		return m, nil
	}
	t := m.trackAtCursor()
	if t == nil {
		return m, nil
	}
	if err := m.ctrl.Play(ctx, t); err != nil {
		m.status = errorStyle.Render(err.Error())
	} else {
		m.status = ""
	}
	return m, nil
}

func (m Model) fileSelection(add bool) (tea.Model, tea.Cmd) {
	c := m.categoryAtCursor()
	if c == nil {
		m.status = "move the folder cursor onto a folder first"
		return m, nil
	}
	if m.lib.SelectionCount() == 0 {
		m.status = "nothing selected"
		return m, nil
	}
	var err error
	if add {
		err = m.lib.AddSelectedToCategory(c.ID)
	} else {
		err = m.lib.RemoveSelectedFromCategory(c.ID)
	}
	if err != nil {
		m.status = errorStyle.Render(err.Error())
		return m, nil
	}
	if add {
		m.status = "filed selection into " + c.Name
	} else {
		m.status = "unfiled selection from " + c.Name
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil

	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		entered := m.mode
		m.mode = modeBrowse
		m.input.Blur()
		return m.submitInput(entered, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	switch m.mode {
	case modeSearch:
		// Live filter while typing.
		m.lib.SetQuery(m.input.Value())
		m.clampCursors()
	case modeJump:
		// Live cursor move to the best-ranked match.
		m.jumpTo(m.input.Value())
	}
	return m, cmd
}

// jumpTo moves the track cursor onto the best-ranked match for query,
// leaving the filter itself alone.
func (m *Model) jumpTo(query string) {
	ranked := search.Rank(query, m.lib.Filtered())
	if len(ranked) == 0 {
		return
	}
	m.trackCursor = ranked[0]
	m.clampCursors()
}

func (m Model) submitInput(entered mode, value string) (tea.Model, tea.Cmd) {
	switch entered {
	case modeSearch:
		m.lib.SetQuery(value)
		m.clampCursors()
		return m, nil

	case modeJump:
		m.jumpTo(value)
		return m, nil

	case modeNewCategory:
		if _, err := m.lib.CreateCategory(value); err != nil {
			m.status = errorStyle.Render(err.Error())
		}
		return m, nil

	case modeImportFiles:
		if value == "" {
			return m, nil
		}
		paths := strings.Fields(value)
		lib := m.lib
		return m, func() tea.Msg {
			ids, err := lib.ImportFiles(context.Background(), paths)
			return importDoneMsg{created: len(ids), err: err}
		}

	case modeImportDir:
		if value == "" {
			return m, nil
		}
		lib := m.lib
		return m, func() tea.Msg {
			ids, err := lib.ImportFolder(context.Background(), value)
			return importDoneMsg{created: len(ids), err: err}
		}
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		if c := m.confirmCat; c != nil {
			if err := m.lib.DeleteCategory(c.ID); err != nil {
				m.status = errorStyle.Render(err.Error())
			} else {
				m.status = "deleted folder " + c.Name
			}
		} else {
			n := m.lib.SelectionCount()
			if err := m.lib.DeleteSelected(); err != nil {
				m.status = errorStyle.Render(err.Error())
			} else {
				m.status = fmt.Sprintf("deleted %d tracks", n)
			}
		}
		m.confirmCat = nil
		m.mode = modeBrowse
		m.clampCursors()
		return m, nil

	case key.Matches(msg, m.keys.Deny):
		m.confirmCat = nil
		m.mode = modeBrowse
		return m, nil
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	if m.focus == paneCategories {
		m.catCursor += delta
		m.clampCursors()
		return
	}
	m.trackCursor += delta
	m.clampCursors()
}

// clampCursors keeps both cursors inside their lists after any change
// to the underlying data or filters.
func (m *Model) clampCursors() {
	// Categories pane includes the synthetic "All" row at index 0.
	maxCat := len(m.lib.Categories())
	if m.catCursor > maxCat {
		m.catCursor = maxCat
	}
	if m.catCursor < 0 {
		m.catCursor = 0
	}

	n := len(m.lib.Filtered())
	if m.trackCursor >= n {
		m.trackCursor = n - 1
	}
	if m.trackCursor < 0 {
		m.trackCursor = 0
	}
}

// categoryAtCursor returns the category under the cursor, nil on the
// synthetic "All" row.
func (m Model) categoryAtCursor() *domain.Category {
	cats := m.lib.Categories()
	idx := m.catCursor - 1
	if idx < 0 || idx >= len(cats) {
		return nil
	}
	return cats[idx]
}

func (m Model) trackAtCursor() *domain.Track {
	visible := m.lib.Filtered()
	if m.trackCursor < 0 || m.trackCursor >= len(visible) {
		return nil
	}
	return visible[m.trackCursor]
}
