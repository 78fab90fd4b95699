// Package classify decides which resolution pipeline a pasted link belongs to.
//
// Classification is pure string matching: no network I/O, deterministic, and tolerant of
// surrounding path segments, query strings and protocol-relative URLs.
package classify

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/vidlink-cli/vidlink/constant"
	"github.com/vidlink-cli/vidlink/util"
)

// Kind tags an Identifier.
type Kind string

const (
	ShortLink   Kind = "short-link"
	BilibiliBV  Kind = "bilibili-bv"
	BilibiliAV  Kind = "bilibili-av"
	YouTube     Kind = "youtube"
	Direct      Kind = "direct"
	Unsupported Kind = "unsupported"
)

// Identifier is the classifier's verdict. Value holds the id, or the URL for
// Direct and ShortLink kinds; it is empty for Unsupported.
type Identifier struct {
	Kind  Kind   `json:"kind"`
	Value string `json:"value,omitempty"`
}

// IsBilibili reports whether the identifier is a BV or av id.
func (i Identifier) IsBilibili() bool {
	return i.Kind == BilibiliBV || i.Kind == BilibiliAV
}

var (
	bvPattern      = regexp.MustCompile(`BV[0-9A-Za-z]{10}`)
	avPattern      = regexp.MustCompile(`(?i)(?:^|[^a-z])av(?P<id>\d+)`)
	youtubePattern = regexp.MustCompile(`(?:youtube(?:-nocookie)?\.com/(?:watch\?(?:[^#]*&)?v=|embed/|shorts/|v/)|youtu\.be/)(?P<id>[A-Za-z0-9_-]{11})`)
	directPattern  = regexp.MustCompile(`(?i)\.(?P<ext>mp4|webm|ogg|mov)$`)
)

// Classify applies the detection order: short link, BV id, av id, YouTube, direct file, unsupported.
// A ShortLink verdict is provisional; the caller resolves it and classifies the result with Extract.
func Classify(text string) Identifier {
	text = strings.TrimSpace(text)
	if IsShortLink(text) {
		return Identifier{Kind: ShortLink, Value: text}
	}
	return Extract(text)
}

// IsShortLink reports whether the text points at the redirect service.
func IsShortLink(text string) bool {
	return strings.Contains(strings.ToLower(text), constant.ShortLinkMarker)
}

// Extract runs every step of Classify except short-link detection.
func Extract(text string) Identifier {
	text = strings.TrimSpace(text)

	if id, ok := BV(text); ok {
		return Identifier{Kind: BilibiliBV, Value: id}
	}

	if id, ok := AV(text); ok {
		return Identifier{Kind: BilibiliAV, Value: id}
	}

	if id := util.ReGroups(youtubePattern, text)["id"]; id != "" {
		return Identifier{Kind: YouTube, Value: id}
	}

	if _, ok := Extension(text); ok {
		return Identifier{Kind: Direct, Value: text}
	}

	return Identifier{Kind: Unsupported}
}

// BV finds a BV id anywhere in the text.
func BV(text string) (string, bool) {
	id := bvPattern.FindString(text)
	return id, id != ""
}

// AV finds an av id anywhere in the text and returns its digits.
func AV(text string) (string, bool) {
	id := util.ReGroups(avPattern, text)["id"]
	return id, id != ""
}

// Extension returns the lower-cased media extension the URL path ends with.
// Query strings and fragments are ignored.
func Extension(text string) (string, bool) {
	path := text
	if u, err := url.Parse(text); err == nil {
		path = u.Path
	} else if i := strings.IndexAny(text, "?#"); i >= 0 {
		path = text[:i]
	}

	ext := util.ReGroups(directPattern, path)["ext"]
	return strings.ToLower(ext), ext != ""
}
