// Package capture grabs still frames from the playing video.
//
// A frame may only be read from a source the shell is allowed to read: the buffered copy served
// from the local blob server, or a remote file whose server opts into cross-origin reads.
// Embed pages are never readable.
package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/vidlink-cli/vidlink/buffer"
	"github.com/vidlink-cli/vidlink/filesystem"
	"github.com/vidlink-cli/vidlink/log"
	"github.com/vidlink-cli/vidlink/source"
	"github.com/vidlink-cli/vidlink/util"
	"github.com/vidlink-cli/vidlink/where"
)

// ErrSecurity is returned when the frame of the current source may not be read.
var ErrSecurity = errors.New("无法截图：视频源不允许跨域读取 (capture blocked: the video source does not allow cross-origin reads)")

// Access is whether frames of the current source may be read.
type Access int

const (
	Denied Access = iota
	SameOrigin
	CORSEnabled
)

func (a Access) String() string {
	switch a {
	case SameOrigin:
		return "same-origin"
	case CORSEnabled:
		return "cors-enabled"
	default:
		return "denied"
	}
}

// Allowed reports whether capture may proceed.
func (a Access) Allowed() bool {
	return a == SameOrigin || a == CORSEnabled
}

// Prober reports whether url allows reads from origin.
type Prober interface {
	Allows(ctx context.Context, url, origin string) bool
}

// Resolve decides access for the current result. Iframe results are denied, a buffered source is
// same-origin, and a streamed source is probed.
func Resolve(ctx context.Context, data *source.Data, state buffer.State, origin string, prober Prober) Access {
	if data == nil || data.PlayerType == source.Iframe {
		return Denied
	}

	if state.Phase == buffer.Ready && state.Handle.IsPresent() {
		return SameOrigin
	}

	if state.Source != "" && prober != nil && prober.Allows(ctx, state.Source, origin) {
		return CORSEnabled
	}

	return Denied
}

// Surface is the playing video.
type Surface interface {
	GetPausedStatus() (bool, error)
	SetPaused(paused bool) error
	GetTimePos() (float64, error)
	Screenshot(path string) error
}

// Frame is a captured still. It lives in memory until saved or dismissed.
type Frame struct {
	Image     []byte
	Timestamp float64
}

// Capture reads the current frame at the video's native resolution and pauses playback.
func Capture(ctx context.Context, surface Surface, access Access) (*Frame, error) {
	logger := log.For("capture")

	if !access.Allowed() {
		logger.Warnf("refused: %s", access)
		return nil, ErrSecurity
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timestamp, err := surface.GetTimePos()
	if err != nil {
		return nil, fmt.Errorf("read position: %w", err)
	}

	path := filepath.Join(where.Temp(), uuid.NewString()+".png")
	if err := surface.Screenshot(path); err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}
	defer util.Ignore(func() error { return filesystem.API().Remove(path) })

	image, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read screenshot: %w", err)
	}

	if paused, err := surface.GetPausedStatus(); err == nil && !paused {
		if err := surface.SetPaused(true); err != nil {
			logger.Warnf("pause after capture: %v", err)
		}
	}

	logger.Infof("captured frame at %.2fs (%s)", timestamp, util.FormatBytes(int64(len(image))))
	return &Frame{Image: image, Timestamp: timestamp}, nil
}

// Name is the file name the frame is saved under: <title>_frame_<M-SS>.png.
func (f *Frame) Name(title string) string {
	stem := util.SanitizeFilename(title)
	if stem == "" {
		stem = "video"
	}

	stamp := strings.ReplaceAll(util.FormatDuration(int(f.Timestamp)), ":", "-")
	return fmt.Sprintf("%s_frame_%s.png", stem, stamp)
}

// Save writes the frame to the captures directory and returns its path.
func (f *Frame) Save(title string) (string, error) {
	path := filepath.Join(where.Captures(), f.Name(title))

	if _, err := filesystem.WriteAtomic(path, bytes.NewReader(f.Image)); err != nil {
		return "", fmt.Errorf("save frame: %w", err)
	}

	log.For("capture").Infof("saved frame to %s", path)
	return path, nil
}
