package tui

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmaier/crate/internal/audiofile"
	"github.com/kmaier/crate/internal/library"
	"github.com/kmaier/crate/internal/player"
	"github.com/kmaier/crate/internal/store"
)

func newTestModel(t *testing.T) (Model, *library.Service) {
	t.Helper()
	st, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	caps := audiofile.NewCaps(true)
	picker := audiofile.NewWalkPicker(caps)
	lib := library.NewService(st, picker, caps, nil)
	require.NoError(t, lib.Load())

	ctrl := player.NewController(player.NewNoopOutput(), st, lib, nil, filepath.Join(t.TempDir(), "cache"), nil)
	remote := player.NewRemote(ctrl, nil)
	return New(lib, ctrl, remote, nil), lib
}

func importTrack(t *testing.T, lib *library.Service, name string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0644))
	ids, err := lib.ImportFiles(context.Background(), []string{path})
	require.NoError(t, err)
	require.Len(t, ids, 1)
}

func pressRune(t *testing.T, m Model, r rune) Model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func typeString(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = pressRune(t, m, r)
	}
	return m
}

func TestDeleteFolderAsksForConfirmation(t *testing.T) {
	m, lib := newTestModel(t)
	fav := lib.Categories()[0]

	m.focus = paneCategories
	m.catCursor = 1 // first real folder, below the "All" row

	m = pressRune(t, m, 'd')
	assert.Equal(t, modeConfirmDelete, m.mode)
	require.NotNil(t, m.confirmCat)
	assert.Equal(t, fav.ID, m.confirmCat.ID)
	// Nothing removed until the user confirms.
	assert.Len(t, lib.Categories(), 1)

	// Denying keeps the folder.
	m = pressRune(t, m, 'n')
	assert.Equal(t, modeBrowse, m.mode)
	assert.Nil(t, m.confirmCat)
	assert.Len(t, lib.Categories(), 1)

	// Confirming removes it.
	m = pressRune(t, m, 'd')
	m = pressRune(t, m, 'y')
	assert.Equal(t, modeBrowse, m.mode)
	assert.Empty(t, lib.Categories())
}

func TestDeleteOnAllRowIsNoop(t *testing.T) {
	m, lib := newTestModel(t)

	m.focus = paneCategories
	m.catCursor = 0 // the synthetic "All" row

	m = pressRune(t, m, 'd')
	assert.Equal(t, modeBrowse, m.mode)
	assert.Len(t, lib.Categories(), 1)
}

func TestJumpMovesCursorToBestMatch(t *testing.T) {
	m, lib := newTestModel(t)
	importTrack(t, lib, "alpha.mp3")
	importTrack(t, lib, "night drive.mp3")

	m = pressRune(t, m, 'f')
	assert.Equal(t, modeJump, m.mode)

	m = typeString(t, m, "night")
	assert.Equal(t, 1, m.trackCursor)

	// Enter lands on the match and returns to browsing.
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, 1, m.trackCursor)
	// The jump never touches the text filter.
	assert.Empty(t, lib.Query())
}
