package player

import "sync"

// NoopOutput is a silent Output used when no real audio backend is
// available. Transport state still advances so the library remains
// browsable, but nothing is heard.
type NoopOutput struct {
	mu     sync.Mutex
	loaded string
	paused bool
}

func NewNoopOutput() *NoopOutput { return &NoopOutput{} }

func (o *NoopOutput) Load(path string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.loaded = path
	o.paused = false
	return nil
}

func (o *NoopOutput) Pause(paused bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.paused = paused
	return nil
}

func (o *NoopOutput) Seek(seconds float64) error { return nil }

func (o *NoopOutput) SeekTo(seconds float64) error { return nil }

func (o *NoopOutput) State() (PlayState, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return PlayState{Paused: o.paused}, nil
}

func (o *NoopOutput) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.loaded = ""
	return nil
}

func (o *NoopOutput) Close() error { return nil }
