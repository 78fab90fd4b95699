package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

const dialTimeout = 30 * time.Second

var (
	chromeOnce sync.Once
	chrome     *chromeRoundTripper
)

// ChromeTransport returns a RoundTripper whose TLS ClientHello mimics Chrome 120.
// HTTP/2 is attempted first; servers that only speak HTTP/1.1 are retried over a forced h1 handshake.
func ChromeTransport() http.RoundTripper {
	chromeOnce.Do(func() {
		chrome = &chromeRoundTripper{
			h2: &http2.Transport{
				DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
					return dialChrome(ctx, network, addr, nil)
				},
			},
			h1: &http.Transport{
				DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
					return dialChrome(ctx, network, addr, []string{"http/1.1"})
				},
			},
		}
	})
	return chrome
}

type chromeRoundTripper struct {
	h2 *http2.Transport
	h1 *http.Transport
}

func (c *chromeRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return c.h1.RoundTrip(req)
	}

	resp, err := c.h2.RoundTrip(req)
	if err == nil {
		return resp, nil
	}

	retry := req.Clone(req.Context())
	if req.Body != nil {
		if req.GetBody == nil {
			return nil, fmt.Errorf("h2 request failed and body cannot be replayed: %w", err)
		}
		body, bodyErr := req.GetBody()
		if bodyErr != nil {
			return nil, fmt.Errorf("replay body: %w", bodyErr)
		}
		retry.Body = body
	}

	return c.h1.RoundTrip(retry)
}

// dialChrome opens a TCP connection and performs a uTLS handshake with the Chrome fingerprint.
// A non-nil protos overrides the advertised ALPN list.
func dialChrome(ctx context.Context, network, addr string, protos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: protos,
	}, utls.HelloChrome_120)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}
