// Package shortlink resolves b23.tv redirect links to a canonical URL or an embedded identifier.
//
// Resolution is best effort. The followed redirect reported by the relay is preferred; the raw
// redirect page is scraped only when that carries no identifier, and the scrape depends on
// markup this package does not control.
package shortlink

import (
	"context"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/vidlink-cli/vidlink/classify"
	"github.com/vidlink-cli/vidlink/log"
	"github.com/vidlink-cli/vidlink/proxy"
)

// ErrUnresolved is returned when neither a canonical URL nor an identifier could be found.
var ErrUnresolved = errors.New("short link could not be resolved")

// Fetcher is the json-mode relay.
type Fetcher interface {
	JSON(ctx context.Context, target string) (*proxy.Envelope, error)
}

// Resolution is what could be learned about a short link.
type Resolution struct {
	// CanonicalURL is the redirect target, when known.
	CanonicalURL string
	// ID is a Bilibili identifier, when one was found. Otherwise its kind is Unsupported.
	ID classify.Identifier
}

// Resolver resolves short links through a relay.
type Resolver struct {
	relay Fetcher
}

// New returns a Resolver using relay.
func New(relay Fetcher) *Resolver {
	return &Resolver{relay: relay}
}

// Resolve follows shortURL. Failures are logged and returned as an error result; callers
// continue with the original input.
func (r *Resolver) Resolve(ctx context.Context, shortURL string) mo.Result[Resolution] {
	logger := log.For("shortlink").WithField("url", shortURL)

	envelope, err := r.relay.JSON(ctx, shortURL)
	if err != nil {
		logger.Warnf("relay failed: %v", err)
		return mo.Err[Resolution](err)
	}

	resolution := Resolution{ID: classify.Identifier{Kind: classify.Unsupported}}

	if target := strings.TrimSpace(envelope.StatusURL); target != "" && !classify.IsShortLink(target) {
		resolution.CanonicalURL = target
		if id := classify.Extract(target); id.IsBilibili() {
			resolution.ID = id
			return mo.Ok(resolution)
		}
	}

	if envelope.Contents != "" {
		canonical, id := scrape(envelope.Contents)
		if resolution.CanonicalURL == "" {
			resolution.CanonicalURL = canonical
		}
		resolution.ID = id
	}

	if resolution.CanonicalURL == "" && !resolution.ID.IsBilibili() {
		logger.Warn("no redirect target or identifier found")
		return mo.Err[Resolution](ErrUnresolved)
	}

	logger.Debugf("resolved to %q (%s)", resolution.CanonicalURL, resolution.ID.Kind)
	return mo.Ok(resolution)
}

// scrape looks for the canonical address in the page head, then for a bare identifier anywhere in it.
func scrape(contents string) (canonical string, id classify.Identifier) {
	id = classify.Identifier{Kind: classify.Unsupported}

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(contents)); err == nil {
		candidates := []string{
			doc.Find(`meta[property="og:url"]`).AttrOr("content", ""),
			doc.Find(`link[rel="canonical"]`).AttrOr("href", ""),
			doc.Find(`meta[itemprop="url"]`).AttrOr("content", ""),
		}

		canonical, _ = lo.Find(candidates, func(c string) bool {
			return c != "" && !classify.IsShortLink(c)
		})

		for _, candidate := range candidates {
			if found := bilibiliIn(candidate); found.IsBilibili() {
				return canonical, found
			}
		}
	}

	return canonical, bilibiliIn(contents)
}

func bilibiliIn(text string) classify.Identifier {
	if bv, ok := classify.BV(text); ok {
		return classify.Identifier{Kind: classify.BilibiliBV, Value: bv}
	}
	if av, ok := classify.AV(text); ok {
		return classify.Identifier{Kind: classify.BilibiliAV, Value: av}
	}
	return classify.Identifier{Kind: classify.Unsupported}
}
