// Package player defines a unified abstraction layer for media playback engines.
// The primary implementation drives mpv through its JSON-IPC interface.
package player

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
	"github.com/vidlink-cli/vidlink/key"
)

// ErrUnsupported is returned by backends that cannot perform an operation.
var ErrUnsupported = errors.New("player: operation not supported by this backend")

// Player encapsulates the required capabilities for a media playback backend.
type Player interface {
	// Play starts playback of target at start seconds.
	// If a player instance is already running, the target replaces the current file.
	Play(target string, title string, start float64) error

	// TogglePause inverts the current playback suspension state.
	TogglePause() error

	// SetPaused suspends or resumes playback.
	SetPaused(paused bool) error

	// GetPausedStatus retrieves the current suspension state of the playback engine.
	GetPausedStatus() (bool, error)

	// GetTimePos retrieves the current absolute playback position in seconds.
	GetTimePos() (float64, error)

	// GetDuration retrieves the total length of the active media file in seconds.
	GetDuration() (float64, error)

	// GetPercentWatched calculates the relative playback completion percentage (0-100).
	GetPercentWatched() (float64, error)

	// Seek moves to an absolute position in seconds.
	Seek(seconds float64) error

	// SeekRelative moves by delta seconds.
	SeekRelative(delta float64) error

	// Screenshot writes the current frame at the video's native resolution to path.
	Screenshot(path string) error

	// IsRunning validates the liveness of the underlying playback process.
	IsRunning() bool

	// Close terminates the playback engine and releases all associated system resources.
	Close() error

	// StartIPCTicker polls playback metrics once a second and reports them to callback.
	StartIPCTicker(callback func(timePos int, duration int))

	// StopIPCTicker terminates the polling task.
	StopIPCTicker()

	// Wait returns a channel that is closed when the playback session terminates.
	Wait() <-chan struct{}
}

// New returns the backend named by player.default.
func New() Player {
	switch strings.ToLower(viper.GetString(key.Player)) {
	case "iina":
		return NewIINA()
	default:
		return NewMPV()
	}
}
