package resolver

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/vidlink-cli/vidlink/bilibili"
	"github.com/vidlink-cli/vidlink/classify"
	"github.com/vidlink-cli/vidlink/constant"
	"github.com/vidlink-cli/vidlink/source"
	"github.com/vidlink-cli/vidlink/util"
	"github.com/vidlink-cli/vidlink/youtube"
)

// errNotFetched marks a stage that does not apply to the identifier.
var errNotFetched = errors.New("not fetched")

// Source labels for assembled results.
const (
	formatDirect  = "MP4 (Direct)"
	qualityDirect = "High (q=80)"
	formatEmbed   = "Embed"
	qualityEmbed  = "Auto"
	formatPage    = "Web Page"
	qualityOrig   = "Original"
)

// Assemble combines the classifier verdict with the fetched metadata and stream into a result.
// Native playback is preferred; an embed is the last resort.
func (r *Resolver) Assemble(id classify.Identifier, metadata mo.Result[bilibili.Metadata], stream mo.Result[string]) (*source.Data, error) {
	switch id.Kind {
	case classify.BilibiliBV, classify.BilibiliAV:
		return r.assembleBilibili(id, metadata.OrElse(bilibili.Metadata{}), stream)
	case classify.YouTube:
		return assembleYouTube(id), nil
	case classify.Direct:
		return assembleDirect(id), nil
	default:
		return nil, ErrUnsupported
	}
}

func (r *Resolver) assembleBilibili(id classify.Identifier, metadata bilibili.Metadata, stream mo.Result[string]) (*source.Data, error) {
	display := id.Value
	if id.Kind == classify.BilibiliAV {
		display = "av" + id.Value
	}

	data := &source.Data{
		ID:          display,
		Title:       metadata.Title,
		Platform:    source.Bilibili,
		Thumbnail:   metadata.Cover,
		Description: metadata.Description,
	}

	if data.Title == "" {
		data.Title = placeholder(source.Bilibili, display)
	}

	if metadata.DurationSeconds > 0 {
		data.Duration = util.FormatDuration(metadata.DurationSeconds)
	}

	if direct, err := stream.Get(); err == nil {
		data.PlayerType = source.Native
		data.Sources = []*source.Video{{
			URL:          direct,
			Format:       formatDirect,
			Quality:      qualityDirect,
			Downloadable: true,
		}}
		return data, nil
	}

	embed, err := r.bilibili.EmbedURL(id)
	if err != nil {
		return nil, fmt.Errorf("embed url: %w", err)
	}

	data.PlayerType = source.Iframe
	data.Sources = []*source.Video{{
		URL:     embed,
		Format:  formatEmbed,
		Quality: qualityEmbed,
	}}
	return data, nil
}

func assembleYouTube(id classify.Identifier) *source.Data {
	return &source.Data{
		ID:         id.Value,
		Title:      placeholder(source.YouTube, id.Value),
		Platform:   source.YouTube,
		PlayerType: source.Iframe,
		Thumbnail:  youtube.ThumbnailURL(id.Value),
		Sources: []*source.Video{
			{URL: youtube.EmbedURL(id.Value), Format: formatEmbed, Quality: qualityEmbed},
			{URL: youtube.WatchURL(id.Value), Format: formatPage, Quality: qualityOrig, Downloadable: true},
		},
	}
}

func assembleDirect(id classify.Identifier) *source.Data {
	ext, _ := classify.Extension(id.Value)

	return &source.Data{
		ID:         uuid.NewString(),
		Title:      directTitle(id.Value),
		Platform:   source.Direct,
		PlayerType: source.Native,
		Sources: []*source.Video{{
			URL:          id.Value,
			Format:       strings.ToUpper(ext),
			Quality:      qualityOrig,
			Downloadable: true,
		}},
	}
}

// directTitle is the percent-decoded last path segment of raw.
func directTitle(raw string) string {
	var segment string
	if u, err := url.Parse(raw); err == nil {
		segment = path.Base(u.EscapedPath())
	} else {
		segment = path.Base(strings.SplitN(raw, "?", 2)[0])
	}

	if decoded, err := url.PathUnescape(segment); err == nil {
		segment = decoded
	}

	switch segment {
	case "", ".", "/":
		return constant.DirectTitlePlaceholder
	default:
		return segment
	}
}

func placeholder(platform source.Platform, id string) string {
	return fmt.Sprintf(constant.PlaceholderTitleFormat, platform.Label(), id)
}
