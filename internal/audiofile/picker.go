package audiofile

import (
	"context"
	"errors"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"

	"github.com/kmaier/crate/internal/domain"
)

// maxWalkDepth bounds folder recursion to guard against symlink loops
// and pathological trees.
const maxWalkDepth = 10

// PickedFile is one item produced by a pick gesture: enough metadata to
// import the file, plus a capability handle when the strategy grants one.
type PickedFile struct {
	Name    string // Base filename
	Path    string // Absolute source path
	RelPath string // Path relative to the picked root (folder picks only)
	Size    int64
	Type    string // Declared content type, empty when unknown

	Handle domain.Handle
}

// Picker resolves user pick gestures into files. A nil, error-free
// result means the user selected nothing; domain.ErrPickerUnavailable
// means the strategy itself cannot serve the request and a fallback
// should be tried.
type Picker interface {
	PickFiles(ctx context.Context, paths []string) ([]PickedFile, error)
	PickFolder(ctx context.Context, dir string) ([]PickedFile, error)
}

// fileHandle is the capability handle granted for files picked in this
// session. It is never persisted; after a restart content comes from
// the blob store or not at all.
type fileHandle struct {
	path string
}

func (h fileHandle) Path() string { return h.path }

func (h fileHandle) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(h.path)
	if err != nil {
		return nil, domain.ErrHandleDenied
	}
	return data, nil
}

// NewHandle wraps a source path in a session-scoped capability handle.
func NewHandle(path string) domain.Handle {
	return fileHandle{path: path}
}

// WalkPicker is the primary strategy: a concurrent fastwalk traversal
// that attaches a capability handle to every accepted file. Any
// internal failure is reported as domain.ErrPickerUnavailable so the
// caller can fall back; it never propagates raw errors.
type WalkPicker struct {
	caps domain.Capabilities
}

// NewWalkPicker creates the primary picker strategy.
func NewWalkPicker(caps domain.Capabilities) *WalkPicker {
	return &WalkPicker{caps: caps}
}

func (p *WalkPicker) PickFiles(ctx context.Context, paths []string) ([]PickedFile, error) {
	out := make([]PickedFile, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, domain.ErrPickerUnavailable
		}
		pf, ok := statPick(path, "")
		if !ok {
			continue // validation rejects silently
		}
		if p.caps.Handles() {
			pf.Handle = NewHandle(pf.Path)
		}
		out = append(out, pf)
	}
	return out, nil
}

func (p *WalkPicker) PickFolder(ctx context.Context, dir string) ([]PickedFile, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, domain.ErrPickerUnavailable
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, domain.ErrPickerUnavailable
	}

	var (
		mu  sync.Mutex
		out []PickedFile
	)
	conf := fastwalk.Config{Follow: false}
	err = fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries, keep walking
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		if d.IsDir() {
			if walkDepth(rel) > maxWalkDepth {
				return filepath.SkipDir
			}
			return nil
		}
		// Only the name is known here; content type comes later.
		if !IsAudioFile(d.Name()) {
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}
		pf := PickedFile{
			Name:    d.Name(),
			Path:    path,
			RelPath: rel,
			Size:    info.Size(),
		}
		if p.caps.Handles() {
			pf.Handle = NewHandle(path)
		}
		mu.Lock()
		out = append(out, pf)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, domain.ErrPickerUnavailable
	}

	// fastwalk is concurrent; restore a stable order.
	sort.Slice(out, func(i, j int) bool { return out[i].RelPath < out[j].RelPath })
	return out, nil
}

// LegacyPicker is the fallback strategy: a plain sequential walk. It
// declares content types the way a form input would and never grants
// capability handles, so every import lands in the blob store.
type LegacyPicker struct{}

// NewLegacyPicker creates the fallback picker strategy.
func NewLegacyPicker() *LegacyPicker {
	return &LegacyPicker{}
}

func (p *LegacyPicker) PickFiles(ctx context.Context, paths []string) ([]PickedFile, error) {
	out := make([]PickedFile, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		declared := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
		pf, ok := statPick(path, declared)
		if !ok {
			continue
		}
		out = append(out, pf)
	}
	return out, nil
}

func (p *LegacyPicker) PickFolder(ctx context.Context, dir string) ([]PickedFile, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	var out []PickedFile
	if err := p.walk(ctx, root, root, 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *LegacyPicker) walk(ctx context.Context, root, dir string, depth int, out *[]PickedFile) error {
	if depth > maxWalkDepth {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil // skip unreadable directories
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if err := p.walk(ctx, root, path, depth+1, out); err != nil {
				return err
			}
			continue
		}
		if !IsAudioFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			continue
		}
		*out = append(*out, PickedFile{
			Name:    entry.Name(),
			Path:    path,
			RelPath: rel,
			Size:    info.Size(),
			Type:    mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
		})
	}
	return nil
}

// FallbackPicker tries the primary strategy and falls back to the
// legacy one when the primary reports itself unavailable. An empty
// primary result is a real result, not a reason to fall back.
type FallbackPicker struct {
	primary Picker
	legacy  Picker
}

// NewFallbackPicker composes the two strategies.
func NewFallbackPicker(primary, legacy Picker) *FallbackPicker {
	return &FallbackPicker{primary: primary, legacy: legacy}
}

func (p *FallbackPicker) PickFiles(ctx context.Context, paths []string) ([]PickedFile, error) {
	files, err := p.primary.PickFiles(ctx, paths)
	if errors.Is(err, domain.ErrPickerUnavailable) {
		return p.legacy.PickFiles(ctx, paths)
	}
	return files, err
}

func (p *FallbackPicker) PickFolder(ctx context.Context, dir string) ([]PickedFile, error) {
	files, err := p.primary.PickFolder(ctx, dir)
	if errors.Is(err, domain.ErrPickerUnavailable) {
		return p.legacy.PickFolder(ctx, dir)
	}
	return files, err
}

// statPick builds a PickedFile for an explicit path, applying the
// declared-type validation. Returns false when the file is rejected or
// unreadable.
func statPick(path, declaredType string) (PickedFile, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return PickedFile{}, false
	}
	if !IsAudioUpload(filepath.Base(abs), declaredType) {
		return PickedFile{}, false
	}
	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		return PickedFile{}, false
	}
	return PickedFile{
		Name: filepath.Base(abs),
		Path: abs,
		Size: info.Size(),
		Type: declaredType,
	}, true
}

// walkDepth counts directory levels below the walk root.
func walkDepth(rel string) int {
	if rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// Caps is the capability provider selected once at startup.
type Caps struct {
	handles bool
}

// NewCaps builds a capability provider. When handles is false every
// import is embedded into the blob store (the copy-imports mode).
func NewCaps(handles bool) Caps {
	return Caps{handles: handles}
}

func (c Caps) Handles() bool { return c.handles }
