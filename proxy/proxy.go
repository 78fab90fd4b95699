// Package proxy talks to the CORS-bypassing relay every upstream request goes through.
//
// The relay has two modes sharing one query contract (?url=<target>&t=<timestamp>):
// raw mode answers with the target's body verbatim, json mode wraps it as {status:{url}, contents}.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/viper"
	"github.com/tidwall/gjson"
	"github.com/vidlink-cli/vidlink/key"
	"github.com/vidlink-cli/vidlink/network"
)

// ErrMalformed is returned when a json-mode answer is not a JSON document.
var ErrMalformed = errors.New("proxy: malformed json envelope")

// Envelope is a json-mode answer.
type Envelope struct {
	// StatusURL is the final URL after the relay followed redirects. May be empty.
	StatusURL string
	// Contents is the target's body as text. May be empty.
	Contents string
}

// Client relays requests through the configured endpoints.
type Client struct {
	http         *resty.Client
	rawEndpoint  string
	jsonEndpoint string
}

// New builds a relay client over an explicit HTTP client and endpoints.
func New(http *resty.Client, rawEndpoint, jsonEndpoint string) *Client {
	return &Client{
		http:         http,
		rawEndpoint:  rawEndpoint,
		jsonEndpoint: jsonEndpoint,
	}
}

// FromConfig builds a relay client from proxy.raw and proxy.json.
func FromConfig() *Client {
	return New(network.NewResty(), viper.GetString(key.ProxyRaw), viper.GetString(key.ProxyJSON))
}

// URL returns the relay address for target. A fresh timestamp is attached on every call.
func URL(endpoint, target string) string {
	query := url.Values{}
	query.Set("url", target)
	query.Set("t", network.Timestamp())

	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint + "?" + query.Encode()
	}

	merged := u.Query()
	for k, v := range query {
		merged[k] = v
	}
	u.RawQuery = merged.Encode()
	return u.String()
}

// Raw fetches target through the raw relay and returns its body.
func (c *Client) Raw(ctx context.Context, target string) ([]byte, error) {
	return c.get(ctx, c.rawEndpoint, target)
}

// JSON fetches target through the json relay and unwraps the envelope.
func (c *Client) JSON(ctx context.Context, target string) (*Envelope, error) {
	body, err := c.get(ctx, c.jsonEndpoint, target)
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(body) {
		return nil, ErrMalformed
	}

	parsed := gjson.ParseBytes(body)
	return &Envelope{
		StatusURL: parsed.Get("status.url").String(),
		Contents:  parsed.Get("contents").String(),
	}, nil
}

func (c *Client) get(ctx context.Context, endpoint, target string) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(URL(endpoint, target))
	if err != nil {
		return nil, fmt.Errorf("proxy request: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("proxy request: unexpected status %s", resp.Status())
	}

	return resp.Body(), nil
}
