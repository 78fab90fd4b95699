package bilibili

import (
	"context"
	"net/url"

	"github.com/samber/mo"
	"github.com/tidwall/gjson"
	"github.com/vidlink-cli/vidlink/classify"
	"github.com/vidlink-cli/vidlink/log"
)

// Metadata is the subset of the view API the result needs. Every field may be empty.
type Metadata struct {
	Title           string
	Cover           string
	Description     string
	DurationSeconds int
}

// FetchMetadata queries the view API for id.
func (c *Client) FetchMetadata(ctx context.Context, id classify.Identifier) mo.Result[Metadata] {
	logger := log.For("metadata").WithField("id", id.Value)

	name, err := param(id, "bvid", "aid")
	if err != nil {
		return mo.Err[Metadata](err)
	}

	body, err := c.relay.Raw(ctx, withQuery(c.options.MetadataEndpoint, url.Values{name: {id.Value}}))
	if err != nil {
		logger.Warnf("request failed: %v", err)
		return mo.Err[Metadata](err)
	}

	if !gjson.ValidBytes(body) {
		logger.Warn("response is not json")
		return mo.Err[Metadata](ErrMalformed)
	}

	parsed := gjson.ParseBytes(body)
	if code := parsed.Get("code"); !code.Exists() || code.Int() != 0 {
		apiErr := &APIError{Code: code.Int(), Message: parsed.Get("message").String()}
		logger.Warn(apiErr)
		return mo.Err[Metadata](apiErr)
	}

	data := parsed.Get("data")
	return mo.Ok(Metadata{
		Title:           data.Get("title").String(),
		Cover:           data.Get("pic").String(),
		Description:     data.Get("desc").String(),
		DurationSeconds: int(data.Get("duration").Int()),
	})
}
