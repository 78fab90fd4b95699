// Package source defines the normalized result of resolving a pasted video link.
package source

import "fmt"

// Platform names the site a link belongs to.
type Platform string

const (
	YouTube  Platform = "youtube"
	Bilibili Platform = "bilibili"
	Direct   Platform = "direct"
	Unknown  Platform = "unknown"
)

// Label is the human readable platform name used in titles.
func (p Platform) Label() string {
	switch p {
	case YouTube:
		return "YouTube"
	case Bilibili:
		return "Bilibili"
	case Direct:
		return "Direct"
	default:
		return "Unknown"
	}
}

// PlayerType decides how a result is rendered and which capabilities apply to it.
type PlayerType string

const (
	// Native sources are directly addressable media: bufferable, seekable and capturable.
	Native PlayerType = "native"
	// Iframe sources are opaque embed pages.
	Iframe PlayerType = "iframe"
)

// Data is the normalized output of the resolution pipeline.
type Data struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Platform    Platform    `json:"platform"`
	PlayerType  PlayerType  `json:"playerType"`
	Thumbnail   string      `json:"thumbnailUrl,omitempty"`
	Duration    string      `json:"duration,omitempty"`
	Sources     []*Video    `json:"sources" jsonschema:"minItems=1"`
	Description string      `json:"description,omitempty"`
	AISummary   *Enrichment `json:"aiSummary,omitempty"`

	// OriginalURL is the trimmed input the result was resolved from.
	OriginalURL string `json:"originalUrl,omitempty"`
}

// Primary returns the source rendered by the player.
func (d *Data) Primary() *Video {
	if len(d.Sources) == 0 {
		return nil
	}
	return d.Sources[0]
}

// Downloadable returns the first source that may be saved directly.
// Iframe results never qualify since their downloadable flag is advisory only.
func (d *Data) Downloadable() (*Video, bool) {
	if d.PlayerType == Iframe {
		return nil, false
	}
	for _, v := range d.Sources {
		if v.Downloadable {
			return v, true
		}
	}
	return nil, false
}

// External returns the URL to hand to a browser when the content cannot be used in place.
func (d *Data) External() string {
	for _, v := range d.Sources {
		if v.Downloadable {
			return v.URL
		}
	}
	if p := d.Primary(); p != nil {
		return p.URL
	}
	return d.OriginalURL
}

func (d *Data) String() string {
	return fmt.Sprintf("%s [%s/%s]", d.Title, d.Platform, d.PlayerType)
}
