package player

import (
	"context"
	"log/slog"
)

// Command is a transport action issued from outside the main UI, the
// way hardware media keys or a remote surface would.
type Command int

const (
	CmdToggle Command = iota
	CmdPlay
	CmdPause
	CmdNext
	CmdPrev
	CmdSeekForward
	CmdSeekBack
	CmdStop
)

// defaultSeekStep is the relative seek distance for the coarse
// seek commands, in seconds.
const defaultSeekStep = 10

// Remote maps transport commands onto the controller. It is the single
// entry point for every surface that is not the track list itself.
type Remote struct {
	ctrl     *Controller
	seekStep float64
	logger   *slog.Logger
}

// NewRemote creates a command surface over the controller.
func NewRemote(ctrl *Controller, logger *slog.Logger) *Remote {
	if logger == nil {
		logger = slog.Default()
	}
	return &Remote{ctrl: ctrl, seekStep: defaultSeekStep, logger: logger}
}

// Handle executes one transport command. Unknown commands are ignored.
func (r *Remote) Handle(ctx context.Context, cmd Command) error {
	switch cmd {
	case CmdToggle:
		return r.ctrl.TogglePause()
	case CmdPlay:
		if r.ctrl.Status() == StatusPaused {
			return r.ctrl.TogglePause()
		}
		if r.ctrl.Status() == StatusIdle {
			return r.ctrl.PlayTop(ctx)
		}
		return nil
	case CmdPause:
		if r.ctrl.Status() == StatusPlaying {
			return r.ctrl.TogglePause()
		}
		return nil
	case CmdNext:
		return r.ctrl.Next(ctx)
	case CmdPrev:
		return r.ctrl.Prev(ctx)
	case CmdSeekForward:
		return r.ctrl.SeekBy(r.seekStep)
	case CmdSeekBack:
		return r.ctrl.SeekBy(-r.seekStep)
	case CmdStop:
		return r.ctrl.Stop()
	default:
		r.logger.Debug("ignoring unknown transport command", "cmd", int(cmd))
		return nil
	}
}

// HandleSeekTo sets the position directly, the way a progress-bar
// scrub or a position-carrying media-key event does.
func (r *Remote) HandleSeekTo(ctx context.Context, seconds float64) error {
	if seconds < 0 {
		seconds = 0
	}
	return r.ctrl.SeekTo(seconds)
}
