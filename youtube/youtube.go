// Package youtube builds the addresses used for YouTube results. YouTube is never fetched:
// its results are always embeds.
package youtube

import (
	"fmt"

	"github.com/vidlink-cli/vidlink/constant"
)

// EmbedURL is the iframe player address.
func EmbedURL(id string) string {
	return fmt.Sprintf(constant.YouTubeEmbedTemplate, id)
}

// WatchURL is the canonical page address.
func WatchURL(id string) string {
	return fmt.Sprintf(constant.YouTubeWatchTemplate, id)
}

// ThumbnailURL is the maximum resolution thumbnail.
func ThumbnailURL(id string) string {
	return fmt.Sprintf(constant.YouTubeThumbnailTemplate, id)
}
