package inline

import (
	"context"
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/vidlink-cli/vidlink/source"
)

// Parser resolves one input.
type Parser interface {
	Parse(ctx context.Context, raw string) (*source.Data, error)
}

// Enricher decorates a result.
type Enricher interface {
	Enrich(ctx context.Context, title string, platform source.Platform) source.Enrichment
}

// SourcePicker selects the sources printed in plain mode.
type SourcePicker func(*source.Data) []*source.Video

type Options struct {
	Out      io.Writer
	Parser   Parser
	Enricher mo.Option[Enricher]
	Inputs   []string
	Json     bool
	// Pretty prints a human readable summary per input instead of bare URLs.
	Pretty      bool
	Concurrency int
	Picker      mo.Option[SourcePicker]
}

// ParseSourcePicker returns the picker named kind: primary, downloadable or all.
func ParseSourcePicker(kind string) (SourcePicker, error) {
	switch kind {
	case "primary":
		return func(data *source.Data) []*source.Video {
			return lo.Compact([]*source.Video{data.Primary()})
		}, nil
	case "downloadable":
		return func(data *source.Data) []*source.Video {
			if video, ok := data.Downloadable(); ok {
				return []*source.Video{video}
			}
			return nil
		}, nil
	case "all":
		return func(data *source.Data) []*source.Video {
			return data.Sources
		}, nil
	default:
		return nil, fmt.Errorf("unknown source picker: %s", kind)
	}
}
