package audiofile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmaier/crate/internal/domain"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func TestWalkPickerPickFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.mp3"), []byte("aaa"))
	writeFile(t, filepath.Join(dir, "notes.txt"), []byte("nope"))

	p := NewWalkPicker(NewCaps(true))
	files, err := p.PickFiles(context.Background(), []string{
		filepath.Join(dir, "a.mp3"),
		filepath.Join(dir, "notes.txt"),
		filepath.Join(dir, "missing.mp3"),
	})
	require.NoError(t, err)

	// Invalid and unreadable entries are dropped silently.
	require.Len(t, files, 1)
	assert.Equal(t, "a.mp3", files[0].Name)
	assert.Equal(t, int64(3), files[0].Size)
	require.NotNil(t, files[0].Handle)

	content, err := files[0].Handle.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("aaa"), content)
}

func TestWalkPickerNoHandlesWithoutCapability(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.mp3"), []byte("aaa"))

	p := NewWalkPicker(NewCaps(false))
	files, err := p.PickFiles(context.Background(), []string{filepath.Join(dir, "a.mp3")})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Nil(t, files[0].Handle)
}

func TestWalkPickerPickFolder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Road Trip", "a.mp3"), []byte("a"))
	writeFile(t, filepath.Join(dir, "Road Trip", "b.mp3"), []byte("b"))
	writeFile(t, filepath.Join(dir, "Road Trip", "cover.jpg"), []byte("x"))
	writeFile(t, filepath.Join(dir, "Chill", "c.flac"), []byte("c"))

	p := NewWalkPicker(NewCaps(true))
	files, err := p.PickFolder(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, files, 3)
	names := []string{files[0].Name, files[1].Name, files[2].Name}
	assert.Equal(t, []string{"c.flac", "a.mp3", "b.mp3"}, names) // sorted by RelPath
	for _, f := range files {
		assert.NotNil(t, f.Handle)
		assert.NotEmpty(t, f.RelPath)
	}
}

func TestWalkPickerDepthLimit(t *testing.T) {
	dir := t.TempDir()
	deep := dir
	for i := 0; i < maxWalkDepth+2; i++ {
		deep = filepath.Join(deep, "d")
	}
	writeFile(t, filepath.Join(deep, "toodeep.mp3"), []byte("x"))
	writeFile(t, filepath.Join(dir, "d", "ok.mp3"), []byte("x"))

	p := NewWalkPicker(NewCaps(true))
	files, err := p.PickFolder(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, "ok.mp3", files[0].Name)
}

func TestWalkPickerMissingFolderUnavailable(t *testing.T) {
	p := NewWalkPicker(NewCaps(true))
	_, err := p.PickFolder(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, domain.ErrPickerUnavailable)
}

func TestLegacyPickerDeclaresTypesAndOmitsHandles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Imported", "a.mp3"), []byte("a"))

	p := NewLegacyPicker()
	files, err := p.PickFolder(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Nil(t, files[0].Handle)
	assert.Equal(t, filepath.Join("Imported", "a.mp3"), files[0].RelPath)
}

func TestFallbackPickerUsesLegacyOnUnavailable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.mp3"), []byte("a"))

	fb := NewFallbackPicker(unavailablePicker{}, NewLegacyPicker())
	files, err := fb.PickFolder(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "a.mp3", files[0].Name)
}

func TestFallbackPickerKeepsEmptyPrimaryResult(t *testing.T) {
	// An empty selection is a real result, not a reason to fall back.
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "cover.jpg"), []byte("x"))

	fb := NewFallbackPicker(NewWalkPicker(NewCaps(true)), failingPicker{})
	files, err := fb.PickFolder(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestHandleFetchDeniedAfterRemoval(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gone.mp3")
	writeFile(t, path, []byte("x"))

	h := NewHandle(path)
	require.NoError(t, os.Remove(path))

	_, err := h.Fetch(context.Background())
	assert.ErrorIs(t, err, domain.ErrHandleDenied)
}

type unavailablePicker struct{}

func (unavailablePicker) PickFiles(context.Context, []string) ([]PickedFile, error) {
	return nil, domain.ErrPickerUnavailable
}

func (unavailablePicker) PickFolder(context.Context, string) ([]PickedFile, error) {
	return nil, domain.ErrPickerUnavailable
}

type failingPicker struct{}

func (failingPicker) PickFiles(context.Context, []string) ([]PickedFile, error) {
	panic("fallback must not be reached")
}

func (failingPicker) PickFolder(context.Context, string) ([]PickedFile, error) {
	panic("fallback must not be reached")
}
