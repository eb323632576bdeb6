package player

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/kmaier/crate/internal/domain"
)

// Status is the transport's lifecycle state.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusPlaying
	StatusPaused
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	default:
		return "idle"
	}
}

// TrackLister provides the visible track list the transport advances
// through. The library service implements it with its filtered view.
type TrackLister interface {
	Filtered() []*domain.Track
}

// BlobReader reads embedded track content. The store implements it.
type BlobReader interface {
	Blob(id string) ([]byte, error)
}

// Controller owns the transport: which track is loaded, whether it is
// playing, and how next/prev move through the visible list.
type Controller struct {
	output   Output
	blobs    BlobReader
	tracks   TrackLister
	sink     NowPlayingSink
	cacheDir string
	logger   *slog.Logger

	mu      sync.Mutex
	status  Status
	current *domain.Track
	last    PlayState

	// gen invalidates in-flight loads. Content resolution can block on
	// I/O; a newer Play call bumps gen and the stale load is dropped
	// instead of clobbering the newer track.
	gen uint64
}

// NewController creates a transport over the given output. cacheDir
// holds content materialized for the output to read; it may be shared
// across runs. sink may be nil.
func NewController(output Output, blobs BlobReader, tracks TrackLister, sink NowPlayingSink, cacheDir string, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		output:   output,
		blobs:    blobs,
		tracks:   tracks,
		sink:     sink,
		cacheDir: cacheDir,
		logger:   logger,
	}
}

// Play loads and starts the given track. Content behind a revoked
// handle with no blob fallback yields domain.ErrContentUnavailable and
// the transport returns to idle.
func (c *Controller) Play(ctx context.Context, t *domain.Track) error {
	c.mu.Lock()
	c.gen++
	g := c.gen
	c.status = StatusLoading
	c.current = t
	c.mu.Unlock()

	path, err := c.resolve(ctx, t)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != g {
		// A newer Play superseded this load.
		return nil
	}
	if err != nil {
		c.status = StatusIdle
		c.current = nil
		c.last = PlayState{}
		c.notify()
		c.logger.Warn("track content unavailable", "trackID", t.ID, "name", t.Name, "error", err)
		return domain.ErrContentUnavailable
	}
	if err := c.output.Load(path); err != nil {
		c.status = StatusIdle
		c.current = nil
		c.notify()
		c.logger.Error("output failed to load track", "error", err, "trackID", t.ID)
		return err
	}
	c.status = StatusPlaying
	c.last = PlayState{}
	c.notify()
	c.logger.Info("playing", "trackID", t.ID, "name", t.Name, "storage", t.Storage)
	return nil
}

// resolve materializes a filesystem path for the track's content.
// Handle-backed tracks play straight from the source when it is still
// reachable; otherwise content falls back to the blob store and is
// staged into the cache directory.
func (c *Controller) resolve(ctx context.Context, t *domain.Track) (string, error) {
	if t.Handle != nil {
		if _, err := os.Stat(t.Handle.Path()); err == nil {
			return t.Handle.Path(), nil
		}
		// Source moved; the handle may still serve content.
		if data, err := t.Handle.Fetch(ctx); err == nil {
			return c.stage(t, data)
		}
	}
	data, err := c.blobs.Blob(t.ID)
	if err != nil {
		return "", err
	}
	return c.stage(t, data)
}

// stage writes content where the output can read it, keyed by track ID
// so repeated plays reuse the same file.
func (c *Controller) stage(t *domain.Track, data []byte) (string, error) {
	if err := os.MkdirAll(c.cacheDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(c.cacheDir, t.ID+filepath.Ext(t.Name))
	if info, err := os.Stat(path); err == nil && info.Size() == int64(len(data)) {
		return path, nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// TogglePause flips between playing and paused. No-op while idle.
func (c *Controller) TogglePause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.status {
	case StatusPlaying:
		if err := c.output.Pause(true); err != nil {
			return err
		}
		c.status = StatusPaused
	case StatusPaused:
		if err := c.output.Pause(false); err != nil {
			return err
		}
		c.status = StatusPlaying
	default:
		return nil
	}
	c.notify()
	return nil
}

// SeekBy moves the position by a relative number of seconds.
func (c *Controller) SeekBy(seconds float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != StatusPlaying && c.status != StatusPaused {
		return nil
	}
	return c.output.Seek(seconds)
}

// SeekTo sets the position directly, in seconds from the start.
func (c *Controller) SeekTo(seconds float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != StatusPlaying && c.status != StatusPaused {
		return nil
	}
	return c.output.SeekTo(seconds)
}

// Next plays the track after the current one in the visible list,
// wrapping at the end. No-op while the list is empty or nothing is
// loaded.
func (c *Controller) Next(ctx context.Context) error {
	return c.step(ctx, 1)
}

// Prev plays the track before the current one, wrapping at the start.
// No-op while the list is empty or nothing is loaded.
func (c *Controller) Prev(ctx context.Context) error {
	return c.step(ctx, -1)
}

// PlayTop starts the first visible track. No-op on an empty list.
func (c *Controller) PlayTop(ctx context.Context) error {
	visible := c.tracks.Filtered()
	if len(visible) == 0 {
		return nil
	}
	return c.Play(ctx, visible[0])
}

func (c *Controller) step(ctx context.Context, dir int) error {
	visible := c.tracks.Filtered()
	if len(visible) == 0 {
		return nil
	}

	c.mu.Lock()
	currentID := ""
	if c.current != nil {
		currentID = c.current.ID
	}
	c.mu.Unlock()
	if currentID == "" {
		return nil
	}

	idx := -1
	for i, t := range visible {
		if t.ID == currentID {
			idx = i
			break
		}
	}
	var next *domain.Track
	if idx < 0 {
		// Current track left the visible list, restart from an edge.
		if dir > 0 {
			next = visible[0]
		} else {
			next = visible[len(visible)-1]
		}
	} else {
		next = visible[(idx+dir+len(visible))%len(visible)]
	}
	return c.Play(ctx, next)
}

// Stop unloads the current track and returns to idle.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	if c.status == StatusIdle {
		return nil
	}
	c.status = StatusIdle
	c.current = nil
	c.last = PlayState{}
	c.notify()
	return c.output.Stop()
}

// Poll refreshes the transport snapshot from the output and advances to
// the next track when the current one finished. Call it on a timer.
func (c *Controller) Poll(ctx context.Context) {
	c.mu.Lock()
	if c.status != StatusPlaying && c.status != StatusPaused {
		c.mu.Unlock()
		return
	}
	st, err := c.output.State()
	if err != nil {
		c.mu.Unlock()
		return
	}
	c.last = st
	finished := st.Finished && c.status == StatusPlaying
	c.mu.Unlock()

	if finished {
		if err := c.Next(ctx); err != nil {
			c.logger.Warn("auto-advance failed", "error", err)
		}
	}
}

// Status returns the transport lifecycle state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Current returns the loaded track, nil while idle.
func (c *Controller) Current() *domain.Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Snapshot returns the last polled transport position.
func (c *Controller) Snapshot() PlayState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Close stops playback and releases the output.
func (c *Controller) Close() error {
	if err := c.Stop(); err != nil {
		c.logger.Debug("stop on close failed", "error", err)
	}
	return c.output.Close()
}

// notify pushes the current track to the sink. Caller holds mu.
func (c *Controller) notify() {
	if c.sink == nil {
		return
	}
	c.sink.NowPlaying(c.current, c.status == StatusPaused)
}
