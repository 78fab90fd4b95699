package player

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vidlink-cli/vidlink/log"
	"github.com/vidlink-cli/vidlink/where"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
)

// MPV drives one mpv process over its JSON IPC socket. The process is started lazily by the
// first Play and reused for every later source, so switching from a streamed URL to the buffered
// blob keeps the window.
type MPV struct {
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	tickerStop chan struct{}
	// mu serializes socket round trips
	mu        sync.Mutex
	requestID int64
}

func NewMPV() *MPV {
	return &MPV{
		exited: make(chan struct{}),
	}
}

// Play starts mpv on target, or replaces the loaded file when mpv is already running.
func (m *MPV) Play(target string, title string, start float64) error {
	safeTarget, err := sanitizeMediaTarget(target)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	safeTitle := sanitizeTitle(title)

	if m.IsRunning() {
		return m.replace(safeTarget, safeTitle, start)
	}

	if m.socketPath == "" {
		m.socketPath = filepath.Join(where.Temp(), "mpv-"+uuid.NewString()[:8]+".sock")
	}

	m.cmd = exec.Command("mpv", mpvArgs(m.socketPath, safeTarget, safeTitle, start)...)

	m.cmd.SysProcAttr = detached()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	m.exited = make(chan struct{})
	go func(cmd *exec.Cmd, exited chan struct{}) {
		_ = cmd.Wait()
		close(exited)
	}(m.cmd, m.exited)

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = terminate(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	return nil
}

// mpvArgs builds the command line. The user's mpv.conf is respected: no vo, profile or hwdec is forced.
// keep-open holds the last frame at the end so it can still be captured.
func mpvArgs(socketPath, target, title string, start float64) []string {
	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--input-ipc-server=" + socketPath,
		"--force-media-title=" + title,
		"--title=" + title,
		"--force-window=yes",
		"--idle=yes",
		"--keep-open=yes",
	}

	if start > 0 {
		args = append(args, "--start="+formatSeconds(start))
	}

	return append(args, "--", target)
}

// replace loads target into the running instance at start seconds.
func (m *MPV) replace(target, title string, start float64) error {
	if err := m.Set("start", formatSeconds(start)); err != nil {
		return fmt.Errorf("set start: %w", err)
	}
	if err := m.Set("force-media-title", title); err != nil {
		return fmt.Errorf("set title: %w", err)
	}
	_, err := m.sendCommand([]interface{}{"loadfile", target, "replace"})
	return err
}

// Socket is the IPC socket path. Empty until the first Play.
func (m *MPV) Socket() string {
	return m.socketPath
}

// Wait returns a channel that is closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// property reads an mpv property and asserts its JSON type.
func property[T any](m *MPV, name string) (T, error) {
	var zero T

	data, err := m.sendCommand([]interface{}{"get_property", name})
	if err != nil {
		return zero, err
	}

	value, ok := data.(T)
	if !ok {
		return zero, fmt.Errorf("property %s: unexpected %T", name, data)
	}
	return value, nil
}

func (m *MPV) GetTimePos() (float64, error) {
	return property[float64](m, "time-pos")
}

// GetDuration is the length of the loaded file. Unknown for some streams until enough was read.
func (m *MPV) GetDuration() (float64, error) {
	return property[float64](m, "duration")
}

func (m *MPV) GetPercentWatched() (float64, error) {
	pos, err := m.GetTimePos()
	if err != nil {
		return 0, err
	}

	dur, err := m.GetDuration()
	if err != nil || dur <= 0 {
		return 0, err
	}

	return pos / dur * 100, nil
}

func (m *MPV) GetPausedStatus() (bool, error) {
	return property[bool](m, "pause")
}

// TogglePause cycles the pause property.
func (m *MPV) TogglePause() error {
	_, err := m.sendCommand([]interface{}{"cycle", "pause"})
	return err
}

// SetPaused sets the pause property.
func (m *MPV) SetPaused(paused bool) error {
	return m.Set("pause", paused)
}

// Seek moves playback to the given absolute position in seconds.
func (m *MPV) Seek(seconds float64) error {
	_, err := m.sendCommand([]interface{}{"seek", seconds, "absolute"})
	return err
}

// SeekRelative moves playback by delta seconds.
func (m *MPV) SeekRelative(delta float64) error {
	_, err := m.sendCommand([]interface{}{"seek", delta, "relative"})
	return err
}

// Screenshot saves the current video frame, without subtitles or OSD, to path.
func (m *MPV) Screenshot(path string) error {
	_, err := m.sendCommand([]interface{}{"screenshot-to-file", path, "video"})
	return err
}

// IsRunning reports whether mpv still answers on its socket.
func (m *MPV) IsRunning() bool {
	if m.socketPath == "" {
		return false
	}

	select {
	case <-m.exited:
		return false
	default:
	}

	_, err := m.sendCommand([]interface{}{"get_property", "pid"})
	return err == nil
}

// StartIPCTicker reports position and duration once a second until StopIPCTicker or exit.
func (m *MPV) StartIPCTicker(callback func(timePos int, duration int)) {
	if m.tickerStop != nil {
		return
	}

	stop := make(chan struct{})
	m.tickerStop = stop

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-m.exited:
				return
			case <-ticker.C:
				pos, err := m.GetTimePos()
				if err != nil {
					continue
				}

				dur, _ := m.GetDuration()

				callback(int(pos), int(dur))
			}
		}
	}()
}

func (m *MPV) StopIPCTicker() {
	if m.tickerStop != nil {
		close(m.tickerStop)
		m.tickerStop = nil
	}
}

// Close shuts down the mpv process and removes its socket.
func (m *MPV) Close() error {
	m.StopIPCTicker()

	if m.socketPath == "" {
		return nil
	}

	_, _ = m.sendCommand([]interface{}{"quit"})

	select {
	case <-m.exited:
	case <-time.After(3 * time.Second):
		_ = terminate(m.cmd)
	}

	_ = os.Remove(m.socketPath)

	return nil
}

// Set assigns an mpv property.
func (m *MPV) Set(property string, value interface{}) error {
	_, err := m.sendCommand([]interface{}{"set_property", property, value})
	return err
}

// sanitizeMediaTarget accepts http(s) URLs and local paths only.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}

func formatSeconds(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}
