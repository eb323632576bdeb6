package player

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/dexterlb/mpvipc"

	"github.com/kmaier/crate/internal/domain"
)

// connectTimeout bounds how long we wait for mpv's IPC socket to come
// up after spawning the process.
const connectTimeout = 5 * time.Second

// MPV is an Output backed by an mpv subprocess controlled over its JSON
// IPC socket.
type MPV struct {
	cmd    *exec.Cmd
	conn   *mpvipc.Connection
	socket string
	logger *slog.Logger
}

// StartMPV spawns mpv in idle mode and connects to its IPC socket.
// command defaults to "mpv" and socket to a per-process path under the
// temp directory. extraArgs are appended to the mpv command line.
func StartMPV(command, socket string, extraArgs []string, logger *slog.Logger) (*MPV, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if command == "" {
		command = "mpv"
	}
	if socket == "" {
		socket = filepath.Join(os.TempDir(), fmt.Sprintf("crate-mpv-%d.sock", os.Getpid()))
	}

	args := []string{
		"--idle=yes",
		"--no-video",
		"--no-terminal",
		"--input-ipc-server=" + socket,
	}
	args = append(args, extraArgs...)

	cmd := exec.Command(command, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start mpv: %w", err)
	}

	conn, err := waitForSocket(socket)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, fmt.Errorf("connect to mpv ipc: %w", err)
	}

	logger.Debug("mpv started", "command", command, "socket", socket)
	return &MPV{cmd: cmd, conn: conn, socket: socket, logger: logger}, nil
}

// waitForSocket polls until mpv creates the IPC socket and accepts the
// connection.
func waitForSocket(socket string) (*mpvipc.Connection, error) {
	deadline := time.Now().Add(connectTimeout)
	for {
		conn := mpvipc.NewConnection(socket)
		err := conn.Open()
		if err == nil {
			return conn, nil
		}
		if time.Now().After(deadline) {
			return nil, err
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func (m *MPV) Load(path string) error {
	if _, err := m.conn.Call("loadfile", path, "replace"); err != nil {
		return err
	}
	return m.conn.Set("pause", false)
}

func (m *MPV) Pause(paused bool) error {
	return m.conn.Set("pause", paused)
}

func (m *MPV) Seek(seconds float64) error {
	_, err := m.conn.Call("seek", seconds, "relative")
	return err
}

func (m *MPV) SeekTo(seconds float64) error {
	_, err := m.conn.Call("seek", seconds, "absolute")
	return err
}

func (m *MPV) State() (PlayState, error) {
	var st PlayState
	st.Position = m.getFloat("time-pos")
	st.Duration = m.getFloat("duration")
	st.Paused = m.getBool("pause")
	st.Finished = m.getBool("eof-reached")
	return st, nil
}

// getFloat reads a numeric mpv property, 0 when unavailable. mpv
// reports properties as null while no file is loaded.
func (m *MPV) getFloat(prop string) float64 {
	v, err := m.conn.Get(prop)
	if err != nil {
		return 0
	}
	f, ok := v.(float64)
	if !ok {
		return 0
	}
	return f
}

func (m *MPV) getBool(prop string) bool {
	v, err := m.conn.Get(prop)
	if err != nil {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// NowPlaying mirrors the current track into mpv's media title, so OS
// integrations that read it (MPRIS and friends) show the right name.
func (m *MPV) NowPlaying(track *domain.Track, paused bool) {
	title := ""
	if track != nil {
		title = track.DisplayName()
	}
	if err := m.conn.Set("force-media-title", title); err != nil {
		m.logger.Debug("failed to set media title", "error", err)
	}
}

func (m *MPV) Stop() error {
	_, err := m.conn.Call("stop")
	return err
}

// Close shuts mpv down and removes the IPC socket.
func (m *MPV) Close() error {
	if _, err := m.conn.Call("quit"); err != nil {
		m.logger.Debug("mpv quit command failed", "error", err)
	}
	_ = m.conn.Close()

	done := make(chan error, 1)
	go func() { done <- m.cmd.Wait() }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		_ = m.cmd.Process.Kill()
		<-done
	}

	_ = os.Remove(m.socket)
	return nil
}
