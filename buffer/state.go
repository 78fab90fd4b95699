package buffer

import (
	"fmt"

	"github.com/samber/mo"
	"github.com/vidlink-cli/vidlink/blob"
)

// Phase is the position of the machine in its lifecycle.
type Phase int

const (
	// Idle holds no source.
	Idle Phase = iota
	// Downloading is reading the source into memory.
	Downloading
	// Ready holds the whole source behind a blob handle.
	Ready
	// StreamingFallback plays the source directly from its URL.
	StreamingFallback
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Downloading:
		return "downloading"
	case Ready:
		return "ready"
	case StreamingFallback:
		return "streaming-fallback"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is a snapshot of the machine.
type State struct {
	Phase Phase
	// Progress is 0-99 while downloading with a known length and 100 once ready.
	Progress int
	// Handle is present only in Ready.
	Handle mo.Option[blob.Handle]
	// Fallback reports that buffering was abandoned for direct streaming.
	Fallback bool
	// Source is the URL passed to Load.
	Source string
	// Generation increases with every Load, Skip and Close.
	Generation uint64
}

func (s State) String() string {
	if s.Phase == Downloading {
		return fmt.Sprintf("%s %d%%", s.Phase, s.Progress)
	}
	return s.Phase.String()
}
