// Package network provides the pre-configured HTTP clients shared by the resolvers, the buffering machine and downloads.
package network

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/viper"
	"github.com/vidlink-cli/vidlink/constant"
	"github.com/vidlink-cli/vidlink/key"
)

const maxRedirects = 10

// Client is the HTTP client for short API calls (proxy, parsing service, CORS probes).
var Client = &http.Client{
	Timeout:       time.Minute,
	Transport:     newTransport(),
	CheckRedirect: noReferrer,
}

// Media is the HTTP client for media transfers. It has no overall timeout since
// reading a large body legitimately takes long; callers bound it with a context.
var Media = &http.Client{
	Transport:     newTransport(),
	CheckRedirect: noReferrer,
}

// newTransport initializes a tuned http.Transport with optimized pool and timeout parameters.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 30 * time.Second
	return t
}

// noReferrer keeps the Referer header off redirected requests.
func noReferrer(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return errors.New("stopped after 10 redirects")
	}
	req.Header.Del("Referer")
	return nil
}

// NewResty returns a resty client for the upstream services.
// With proxy.impersonate_tls set, requests carry a Chrome TLS fingerprint.
func NewResty() *resty.Client {
	client := resty.New().
		SetTimeout(30*time.Second).
		SetHeader("User-Agent", constant.UserAgent).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxRedirects))

	if viper.GetBool(key.ProxyImpersonateTLS) {
		client.SetTransport(ChromeTransport())
	} else {
		client.SetTransport(Client.Transport)
	}

	return client
}
