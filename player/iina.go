package player

import (
	"fmt"
	"os/exec"
	"runtime"
)

// IINA launches the macOS IINA player. It has no IPC channel, so only Play and Close do anything.
type IINA struct {
	cmd    *exec.Cmd
	exited chan struct{}
}

func NewIINA() *IINA {
	return &IINA{
		exited: make(chan struct{}),
	}
}

func (m *IINA) Play(target string, title string, start float64) error {
	if runtime.GOOS != "darwin" {
		return fmt.Errorf("IINA is only supported on macOS")
	}

	safeTarget, err := sanitizeMediaTarget(target)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	// IINA forwards mpv options given after --args with an mpv- prefix.
	args := []string{"-a", "IINA", "--args", "--mpv-force-media-title=" + sanitizeTitle(title)}
	if start > 0 {
		args = append(args, "--mpv-start="+formatSeconds(start))
	}
	args = append(args, safeTarget)

	m.cmd = exec.Command("open", args...)

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("LaunchServices failed to invoke IINA: %w", err)
	}

	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	return nil
}

func (m *IINA) Wait() <-chan struct{} {
	return m.exited
}

func (m *IINA) TogglePause() error                  { return ErrUnsupported }
func (m *IINA) SetPaused(bool) error                { return ErrUnsupported }
func (m *IINA) GetTimePos() (float64, error)        { return 0, ErrUnsupported }
func (m *IINA) GetDuration() (float64, error)       { return 0, ErrUnsupported }
func (m *IINA) GetPercentWatched() (float64, error) { return 0, ErrUnsupported }
func (m *IINA) GetPausedStatus() (bool, error)      { return false, ErrUnsupported }
func (m *IINA) Seek(float64) error                  { return ErrUnsupported }
func (m *IINA) SeekRelative(float64) error          { return ErrUnsupported }
func (m *IINA) Screenshot(string) error             { return ErrUnsupported }
func (m *IINA) IsRunning() bool {
	if m.cmd == nil {
		return false
	}
	select {
	case <-m.exited:
		return false
	default:
		return true
	}
}
func (m *IINA) Close() error {
	if m.cmd != nil && m.cmd.Process != nil {
		_ = m.cmd.Process.Kill()
	}
	return nil
}
func (m *IINA) StartIPCTicker(func(timePos int, duration int)) {}
func (m *IINA) StopIPCTicker()                                 {}
