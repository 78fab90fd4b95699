// Package resolver turns pasted text into a normalized, playable result.
//
// Pipeline: classify, resolve a short link when one was found, then fetch metadata and a direct
// stream concurrently, then assemble. Every stage except classification fails softly: the only
// error Parse returns is ErrUnsupported.
package resolver

import (
	"context"
	"errors"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/vidlink-cli/vidlink/bilibili"
	"github.com/vidlink-cli/vidlink/classify"
	"github.com/vidlink-cli/vidlink/constant"
	"github.com/vidlink-cli/vidlink/log"
	"github.com/vidlink-cli/vidlink/proxy"
	"github.com/vidlink-cli/vidlink/shortlink"
	"github.com/vidlink-cli/vidlink/source"
)

// ErrUnsupported is returned when no platform can be identified in the input.
var ErrUnsupported = errors.New(constant.UnsupportedInput)

// ShortLinks resolves redirect links.
type ShortLinks interface {
	Resolve(ctx context.Context, shortURL string) mo.Result[shortlink.Resolution]
}

// Bilibili fetches what a Bilibili result needs.
type Bilibili interface {
	FetchMetadata(ctx context.Context, id classify.Identifier) mo.Result[bilibili.Metadata]
	ResolveStream(ctx context.Context, id classify.Identifier) mo.Result[string]
	EmbedURL(id classify.Identifier) (string, error)
}

// Enricher attaches tags and a summary. It never fails; a static record stands in for errors.
type Enricher interface {
	Enrich(ctx context.Context, title string, platform source.Platform) source.Enrichment
}

// Resolver runs the pipeline.
type Resolver struct {
	shortLinks ShortLinks
	bilibili   Bilibili
	enricher   mo.Option[Enricher]
}

// New returns a Resolver over explicit collaborators.
func New(shortLinks ShortLinks, bilibili Bilibili) *Resolver {
	return &Resolver{
		shortLinks: shortLinks,
		bilibili:   bilibili,
		enricher:   mo.None[Enricher](),
	}
}

// FromConfig wires the relay, the short-link resolver and the Bilibili client from configuration.
func FromConfig() (*Resolver, error) {
	relay := proxy.FromConfig()

	client, err := bilibili.FromConfig(relay)
	if err != nil {
		return nil, err
	}

	return New(shortlink.New(relay), client), nil
}

// WithEnricher makes Parse attach an enrichment record to every result.
func (r *Resolver) WithEnricher(enricher Enricher) *Resolver {
	r.enricher = mo.Some(enricher)
	return r
}

// Parse resolves raw into a result. A fresh result is built on every call.
func (r *Resolver) Parse(ctx context.Context, raw string) (*source.Data, error) {
	text := strings.TrimSpace(raw)
	logger := log.For("resolver").WithField("input", text)

	id := classify.Classify(text)
	if id.Kind == classify.ShortLink {
		id = r.expand(ctx, text)
	}
	logger.Debugf("classified as %s", id.Kind)

	var (
		metadata = mo.Err[bilibili.Metadata](errNotFetched)
		stream   = mo.Err[string](errNotFetched)
	)

	switch id.Kind {
	case classify.Unsupported:
		return nil, ErrUnsupported
	case classify.BilibiliBV, classify.BilibiliAV:
		metadataCh := lo.Async(func() mo.Result[bilibili.Metadata] {
			return r.bilibili.FetchMetadata(ctx, id)
		})
		streamCh := lo.Async(func() mo.Result[string] {
			return r.bilibili.ResolveStream(ctx, id)
		})
		metadata, stream = <-metadataCh, <-streamCh
	}

	data, err := r.Assemble(id, metadata, stream)
	if err != nil {
		return nil, err
	}
	data.OriginalURL = text

	if enricher, ok := r.enricher.Get(); ok {
		enrichment := enricher.Enrich(ctx, data.Title, data.Platform)
		data.AISummary = &enrichment
	}

	logger.Infof("resolved %s", data)
	return data, nil
}

// expand resolves a short link and classifies whatever it led to.
// When resolution fails the original text is classified instead.
func (r *Resolver) expand(ctx context.Context, text string) classify.Identifier {
	resolution, err := r.shortLinks.Resolve(ctx, text).Get()
	if err != nil {
		return classify.Extract(text)
	}

	if resolution.ID.IsBilibili() {
		return resolution.ID
	}

	if resolution.CanonicalURL != "" {
		if id := classify.Extract(resolution.CanonicalURL); id.Kind != classify.Unsupported {
			return id
		}
	}

	return classify.Extract(text)
}
