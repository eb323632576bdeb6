package library

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmaier/crate/internal/audiofile"
	"github.com/kmaier/crate/internal/domain"
	"github.com/kmaier/crate/internal/store"
)

func newTestService(t *testing.T, handles bool) (*Service, domain.Store) {
	t.Helper()
	st, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	caps := audiofile.NewCaps(handles)
	picker := audiofile.NewFallbackPicker(audiofile.NewWalkPicker(caps), audiofile.NewLegacyPicker())
	svc := NewService(st, picker, caps, nil)
	require.NoError(t, svc.Load())
	return svc, st
}

func writeAudio(t *testing.T, path string, data []byte) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestLoadSeedsFavorites(t *testing.T) {
	svc, _ := newTestService(t, true)

	cats := svc.Categories()
	require.Len(t, cats, 1)
	assert.Equal(t, FavoritesName, cats[0].Name)
	assert.NotEmpty(t, cats[0].ID)
}

func TestLoadDoesNotReseedFavorites(t *testing.T) {
	svc, st := newTestService(t, true)
	require.NoError(t, svc.DeleteCategory(svc.Categories()[0].ID))
	require.NoError(t, st.PutCategory(&domain.Category{ID: "c1", Name: "Mine", CreatedAt: 1}))

	require.NoError(t, svc.Load())
	cats := svc.Categories()
	require.Len(t, cats, 1)
	assert.Equal(t, "Mine", cats[0].Name)
}

func TestImportFilesWithHandles(t *testing.T) {
	svc, st := newTestService(t, true)
	dir := t.TempDir()
	path := writeAudio(t, filepath.Join(dir, "song.mp3"), []byte("audio-bytes"))

	ids, err := svc.ImportFiles(context.Background(), []string{path})
	require.NoError(t, err)
	require.Len(t, ids, 1)

	tr := svc.TrackByID(ids[0])
	require.NotNil(t, tr)
	assert.Equal(t, "song.mp3", tr.Name)
	assert.Equal(t, domain.StorageHandle, tr.Storage)
	assert.Equal(t, int64(len("audio-bytes")), tr.Size)
	require.NotNil(t, tr.Handle)

	// Handle-backed imports write no blob.
	_, err = st.Blob(ids[0])
	assert.ErrorIs(t, err, domain.ErrBlobNotFound)
}

func TestImportFilesWithoutHandlesEmbedsBlob(t *testing.T) {
	svc, st := newTestService(t, false)
	dir := t.TempDir()
	path := writeAudio(t, filepath.Join(dir, "song.mp3"), []byte("audio-bytes"))

	ids, err := svc.ImportFiles(context.Background(), []string{path})
	require.NoError(t, err)
	require.Len(t, ids, 1)

	tr := svc.TrackByID(ids[0])
	require.NotNil(t, tr)
	assert.Equal(t, domain.StorageBlob, tr.Storage)
	assert.Nil(t, tr.Handle)

	data, err := st.Blob(ids[0])
	require.NoError(t, err)
	assert.Equal(t, []byte("audio-bytes"), data)
}

func TestImportFilesJoinsActiveCategory(t *testing.T) {
	svc, _ := newTestService(t, true)
	fav := svc.Categories()[0]
	svc.SetActiveCategory(fav.ID)

	dir := t.TempDir()
	path := writeAudio(t, filepath.Join(dir, "song.mp3"), []byte("x"))
	ids, err := svc.ImportFiles(context.Background(), []string{path})
	require.NoError(t, err)
	require.Len(t, ids, 1)

	assert.True(t, svc.TrackByID(ids[0]).InCategory(fav.ID))
	assert.Equal(t, 1, svc.CategoryCount(fav.ID))
}

func TestImportFilesSkipsInvalid(t *testing.T) {
	svc, _ := newTestService(t, true)
	dir := t.TempDir()
	good := writeAudio(t, filepath.Join(dir, "good.mp3"), []byte("x"))
	bad := writeAudio(t, filepath.Join(dir, "notes.txt"), []byte("x"))

	ids, err := svc.ImportFiles(context.Background(), []string{good, bad, filepath.Join(dir, "missing.mp3")})
	require.NoError(t, err)
	assert.Len(t, ids, 1)
	assert.Len(t, svc.Tracks(), 1)
}

func TestImportFolderGroupsByParentDir(t *testing.T) {
	svc, _ := newTestService(t, true)
	dir := t.TempDir()
	writeAudio(t, filepath.Join(dir, "Road Trip", "a.mp3"), []byte("a"))
	writeAudio(t, filepath.Join(dir, "Road Trip", "b.mp3"), []byte("b"))
	writeAudio(t, filepath.Join(dir, "Chill", "c.mp3"), []byte("c"))
	writeAudio(t, filepath.Join(dir, "root.mp3"), []byte("r"))

	ids, err := svc.ImportFolder(context.Background(), dir)
	require.NoError(t, err)
	assert.Len(t, ids, 4)

	byName := make(map[string]*domain.Category)
	for _, c := range svc.Categories() {
		byName[c.Name] = c
	}
	require.Contains(t, byName, "Road Trip")
	require.Contains(t, byName, "Chill")
	require.Contains(t, byName, importedName)

	assert.Equal(t, 2, svc.CategoryCount(byName["Road Trip"].ID))
	assert.Equal(t, 1, svc.CategoryCount(byName["Chill"].ID))
	assert.Equal(t, 1, svc.CategoryCount(byName[importedName].ID))
}

func TestImportFolderReusesExistingCategory(t *testing.T) {
	svc, _ := newTestService(t, true)
	existing, err := svc.CreateCategory("Chill")
	require.NoError(t, err)

	dir := t.TempDir()
	writeAudio(t, filepath.Join(dir, "Chill", "c.mp3"), []byte("c"))

	_, err = svc.ImportFolder(context.Background(), dir)
	require.NoError(t, err)

	count := 0
	for _, c := range svc.Categories() {
		if c.Name == "Chill" {
			count++
			assert.Equal(t, existing.ID, c.ID)
		}
	}
	assert.Equal(t, 1, count)
}

func TestCreateCategoryRejectsEmptyName(t *testing.T) {
	svc, _ := newTestService(t, true)
	_, err := svc.CreateCategory("   ")
	assert.ErrorIs(t, err, ErrEmptyCategoryName)
}

func TestDeleteCategoryDetachesAndResetsFilter(t *testing.T) {
	svc, _ := newTestService(t, true)
	cat, err := svc.CreateCategory("Workout")
	require.NoError(t, err)

	dir := t.TempDir()
	path := writeAudio(t, filepath.Join(dir, "song.mp3"), []byte("x"))
	svc.SetActiveCategory(cat.ID)
	ids, err := svc.ImportFiles(context.Background(), []string{path})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCategory(cat.ID))

	assert.Equal(t, domain.CategoryAll, svc.ActiveCategory())
	tr := svc.TrackByID(ids[0])
	require.NotNil(t, tr) // the track survives its category
	assert.False(t, tr.InCategory(cat.ID))
}

func TestSelectionCategoryMembership(t *testing.T) {
	svc, _ := newTestService(t, true)
	fav := svc.Categories()[0]

	dir := t.TempDir()
	a := writeAudio(t, filepath.Join(dir, "a.mp3"), []byte("a"))
	b := writeAudio(t, filepath.Join(dir, "b.mp3"), []byte("b"))
	ids, err := svc.ImportFiles(context.Background(), []string{a, b})
	require.NoError(t, err)
	require.Len(t, ids, 2)

	svc.ToggleSelect(ids[0])
	require.NoError(t, svc.AddSelectedToCategory(fav.ID))
	assert.Equal(t, 1, svc.CategoryCount(fav.ID))
	assert.True(t, svc.TrackByID(ids[0]).InCategory(fav.ID))
	assert.False(t, svc.TrackByID(ids[1]).InCategory(fav.ID))

	// Filing the batch consumes the selection.
	assert.Equal(t, 0, svc.SelectionCount())

	svc.ToggleSelect(ids[0])
	require.NoError(t, svc.RemoveSelectedFromCategory(fav.ID))
	assert.Equal(t, 0, svc.CategoryCount(fav.ID))
	assert.Equal(t, 0, svc.SelectionCount())
}

func TestDeleteSelectedCascadesBlobs(t *testing.T) {
	svc, st := newTestService(t, false)
	dir := t.TempDir()
	a := writeAudio(t, filepath.Join(dir, "a.mp3"), []byte("a"))
	b := writeAudio(t, filepath.Join(dir, "b.mp3"), []byte("b"))
	ids, err := svc.ImportFiles(context.Background(), []string{a, b})
	require.NoError(t, err)
	require.Len(t, ids, 2)

	svc.ToggleSelect(ids[0])
	require.NoError(t, svc.DeleteSelected())

	assert.Nil(t, svc.TrackByID(ids[0]))
	assert.NotNil(t, svc.TrackByID(ids[1]))
	assert.Equal(t, 0, svc.SelectionCount())

	_, err = st.Blob(ids[0])
	assert.ErrorIs(t, err, domain.ErrBlobNotFound)
	_, err = st.Blob(ids[1])
	require.NoError(t, err)
}

func TestFilteredAppliesCategoryThenQuery(t *testing.T) {
	svc, _ := newTestService(t, true)
	fav := svc.Categories()[0]

	dir := t.TempDir()
	a := writeAudio(t, filepath.Join(dir, "morning run.mp3"), []byte("a"))
	b := writeAudio(t, filepath.Join(dir, "night drive.mp3"), []byte("b"))
	c := writeAudio(t, filepath.Join(dir, "morning calm.mp3"), []byte("c"))
	ids, err := svc.ImportFiles(context.Background(), []string{a, b, c})
	require.NoError(t, err)
	require.Len(t, ids, 3)

	svc.ToggleSelect(ids[0])
	svc.ToggleSelect(ids[1])
	require.NoError(t, svc.AddSelectedToCategory(fav.ID))
	svc.ClearSelection()

	svc.SetActiveCategory(fav.ID)
	svc.SetQuery("morning")

	visible := svc.Filtered()
	require.Len(t, visible, 1)
	assert.Equal(t, "morning run.mp3", visible[0].Name)
}

func TestSelectAllTogglesVisible(t *testing.T) {
	svc, _ := newTestService(t, true)
	dir := t.TempDir()
	a := writeAudio(t, filepath.Join(dir, "a.mp3"), []byte("a"))
	b := writeAudio(t, filepath.Join(dir, "b.mp3"), []byte("b"))
	_, err := svc.ImportFiles(context.Background(), []string{a, b})
	require.NoError(t, err)

	svc.SelectAll()
	assert.Equal(t, 2, svc.SelectionCount())

	// A second select-all over a fully selected view clears it.
	svc.SelectAll()
	assert.Equal(t, 0, svc.SelectionCount())
}

func TestSetActiveCategoryUnknownResetsToAll(t *testing.T) {
	svc, _ := newTestService(t, true)
	svc.SetActiveCategory("nope")
	assert.Equal(t, domain.CategoryAll, svc.ActiveCategory())
}

func TestHandlesDoNotSurviveReload(t *testing.T) {
	svc, st := newTestService(t, true)
	dir := t.TempDir()
	path := writeAudio(t, filepath.Join(dir, "song.mp3"), []byte("x"))
	ids, err := svc.ImportFiles(context.Background(), []string{path})
	require.NoError(t, err)

	// A fresh service over the same store has no session handles.
	caps := audiofile.NewCaps(true)
	fresh := NewService(st, audiofile.NewWalkPicker(caps), caps, nil)
	require.NoError(t, fresh.Load())

	tr := fresh.TrackByID(ids[0])
	require.NotNil(t, tr)
	assert.Equal(t, domain.StorageHandle, tr.Storage)
	assert.Nil(t, tr.Handle)
}
