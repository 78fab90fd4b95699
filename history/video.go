package history

import (
	"fmt"
	"time"

	"github.com/vidlink-cli/vidlink/source"
	"github.com/vidlink-cli/vidlink/util"
)

// SavedVideo is a single playback entry preserved in the user's history.
type SavedVideo struct {
	// Input is the text the video was resolved from. It identifies the entry.
	Input             string          `json:"input"`
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	Platform          source.Platform `json:"platform"`
	WatchedPercentage float64         `json:"watched_percentage"`
	// Position is the last playback position in seconds.
	Position  float64   `json:"position"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *SavedVideo) encode() string {
	return s.Input
}

func (s *SavedVideo) String() string {
	return fmt.Sprintf("%s [%s] %s (%.0f%%)", s.Title, s.Platform.Label(), util.FormatDuration(int(s.Position)), s.WatchedPercentage)
}

func newSavedVideo(data *source.Data) *SavedVideo {
	input := data.OriginalURL
	if input == "" {
		input = data.External()
	}

	return &SavedVideo{
		Input:    input,
		ID:       data.ID,
		Title:    data.Title,
		Platform: data.Platform,
	}
}
