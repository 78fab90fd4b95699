package bilibili

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/samber/mo"
	"github.com/tidwall/gjson"
	"github.com/vidlink-cli/vidlink/classify"
	"github.com/vidlink-cli/vidlink/log"
	"github.com/vidlink-cli/vidlink/network"
)

// ErrNoStream is returned when the parsing service answered successfully but without a URL.
var ErrNoStream = errors.New("bilibili: no stream url")

// streamProfile is the fixed quality/format profile requested from the parsing service.
var streamProfile = url.Values{
	"p":      {"1"},
	"q":      {"80"},
	"format": {"mp4"},
	"otype":  {"json"},
}

// ResolveStream asks the parsing service for a direct MP4 URL.
// The inner target carries its own timestamp; the relay adds another to the outer URL.
func (c *Client) ResolveStream(ctx context.Context, id classify.Identifier) mo.Result[string] {
	logger := log.For("stream").WithField("id", id.Value)

	name, err := param(id, "bv", "av")
	if err != nil {
		return mo.Err[string](err)
	}

	query := url.Values{name: {id.Value}, "t": {network.Timestamp()}}
	for k, v := range streamProfile {
		query[k] = v
	}

	body, err := c.relay.Raw(ctx, withQuery(c.options.StreamEndpoint, query))
	if err != nil {
		logger.Warnf("request failed: %v", err)
		return mo.Err[string](err)
	}

	if !gjson.ValidBytes(body) {
		logger.Warn("response is not json")
		return mo.Err[string](ErrMalformed)
	}

	parsed := gjson.ParseBytes(body)
	if code := parsed.Get("code"); !code.Exists() || code.Int() != 0 {
		apiErr := &APIError{Code: code.Int(), Message: parsed.Get("msg").String()}
		logger.Warn(apiErr)
		return mo.Err[string](apiErr)
	}

	direct := strings.TrimSpace(parsed.Get("url").String())
	if direct == "" {
		logger.Warn(ErrNoStream)
		return mo.Err[string](ErrNoStream)
	}

	if strings.HasPrefix(direct, "//") {
		direct = "https:" + direct
	}

	return mo.Ok(direct)
}
