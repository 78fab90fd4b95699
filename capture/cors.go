package capture

import (
	"context"
	"net/http"
	"strings"

	"github.com/vidlink-cli/vidlink/log"
	"github.com/vidlink-cli/vidlink/network"
)

// CORSProbe checks Access-Control-Allow-Origin on a HEAD request.
type CORSProbe struct {
	Client *http.Client
}

// NewCORSProbe returns a probe over the shared API client.
func NewCORSProbe() *CORSProbe {
	return &CORSProbe{Client: network.Client}
}

// Allows reports whether url answers with a wildcard or origin in Access-Control-Allow-Origin.
func (p *CORSProbe) Allows(ctx context.Context, url, origin string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, network.CacheBust(url), nil)
	if err != nil {
		return false
	}
	req.Header.Set("Origin", origin)

	resp, err := p.Client.Do(req)
	if err != nil {
		log.For("capture").Warnf("cors probe: %v", err)
		return false
	}
	_ = resp.Body.Close()

	allowed := strings.TrimSpace(resp.Header.Get("Access-Control-Allow-Origin"))
	return allowed == "*" || (allowed != "" && strings.EqualFold(allowed, origin))
}
