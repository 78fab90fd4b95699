//go:build !windows

package player

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// detached puts mpv in its own process group so a Ctrl+C in the TUI does not reach it.
func detached() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

// terminate kills mpv together with any helpers it spawned (yt-dlp, ffmpeg).
func terminate(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}

	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
