// Package bilibili fetches video metadata and direct stream URLs for Bilibili identifiers.
//
// Both calls go through the raw-mode relay. Neither ever panics on a bad answer: every failure
// is returned as an error result and the caller picks the fallback.
package bilibili

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"text/template"

	"github.com/spf13/viper"
	"github.com/vidlink-cli/vidlink/classify"
	"github.com/vidlink-cli/vidlink/key"
)

var (
	// ErrMalformed is returned when an answer is not a JSON document.
	ErrMalformed = errors.New("bilibili: malformed response")
	// ErrNotBilibili is returned for identifiers of another platform.
	ErrNotBilibili = errors.New("bilibili: not a bilibili identifier")
)

// APIError is a non-zero code inside an otherwise valid envelope.
type APIError struct {
	Code    int64
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("bilibili: code %d", e.Code)
	}
	return fmt.Sprintf("bilibili: code %d: %s", e.Code, e.Message)
}

// Relay is the raw-mode proxy.
type Relay interface {
	Raw(ctx context.Context, target string) ([]byte, error)
}

// Options holds the upstream addresses.
type Options struct {
	MetadataEndpoint string
	StreamEndpoint   string
	EmbedTemplate    string
}

// Client resolves Bilibili identifiers.
type Client struct {
	relay   Relay
	options Options
	embed   *template.Template
}

// New returns a Client. An unparsable embed template is reported here rather than on first use.
func New(relay Relay, options Options) (*Client, error) {
	embed, err := template.New("embed").Option("missingkey=error").Parse(options.EmbedTemplate)
	if err != nil {
		return nil, fmt.Errorf("embed template: %w", err)
	}

	return &Client{relay: relay, options: options, embed: embed}, nil
}

// FromConfig returns a Client configured from the bilibili.* keys.
func FromConfig(relay Relay) (*Client, error) {
	return New(relay, Options{
		MetadataEndpoint: viper.GetString(key.BilibiliMetadataEndpoint),
		StreamEndpoint:   viper.GetString(key.BilibiliStreamEndpoint),
		EmbedTemplate:    viper.GetString(key.BilibiliEmbedTemplate),
	})
}

// EmbedURL renders the embed page address with comments disabled and high quality requested.
func (c *Client) EmbedURL(id classify.Identifier) (string, error) {
	param, err := param(id, "bvid", "aid")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if err := c.embed.Execute(&b, struct{ Param, ID string }{param, id.Value}); err != nil {
		return "", fmt.Errorf("render embed url: %w", err)
	}
	return b.String(), nil
}

// withQuery adds values to endpoint, keeping whatever the endpoint already carries.
func withQuery(endpoint string, values url.Values) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint + "?" + values.Encode()
	}

	query := u.Query()
	for k, v := range values {
		query[k] = v
	}
	u.RawQuery = query.Encode()
	return u.String()
}

// param names the query parameter for id: bv-style for BV ids, av-style for av ids.
func param(id classify.Identifier, bv, av string) (string, error) {
	switch id.Kind {
	case classify.BilibiliBV:
		return bv, nil
	case classify.BilibiliAV:
		return av, nil
	default:
		return "", ErrNotBilibili
	}
}
