// Package player drives audio playback through an external output and
// tracks transport state across the visible track list.
package player

import "github.com/kmaier/crate/internal/domain"

// PlayState is a snapshot of the output's transport position.
type PlayState struct {
	Position float64 // Seconds from the start of the loaded file
	Duration float64 // Seconds, 0 while unknown
	Paused   bool
	Finished bool // The loaded file played to its end
}

// Output is a playback backend. Implementations own a single loaded
// file at a time; Load replaces it.
type Output interface {
	Load(path string) error
	Pause(paused bool) error
	// Seek moves the position by a relative number of seconds. Negative
	// values seek backwards; the backend clamps at the file boundaries.
	Seek(seconds float64) error
	// SeekTo sets the position to an absolute number of seconds from
	// the start. The backend clamps at the file boundaries.
	SeekTo(seconds float64) error
	State() (PlayState, error)
	Stop() error
	Close() error
}

// NowPlayingSink receives track changes, for surfaces that mirror the
// transport (status bars, desktop integrations). A nil track means
// playback stopped.
type NowPlayingSink interface {
	NowPlaying(track *domain.Track, paused bool)
}
