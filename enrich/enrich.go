// Package enrich requests tags, a summary and a sentiment for a resolved video.
//
// Enrichment is decoration. It never fails: whenever the service is unconfigured, unreachable
// or answers with something unusable, a static record is returned after a short delay.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/tidwall/gjson"
	"github.com/vidlink-cli/vidlink/auth"
	"github.com/vidlink-cli/vidlink/internal/cache"
	"github.com/vidlink-cli/vidlink/key"
	"github.com/vidlink-cli/vidlink/log"
	"github.com/vidlink-cli/vidlink/network"
	"github.com/vidlink-cli/vidlink/source"
	"github.com/vidlink-cli/vidlink/where"
)

const maxTags = 5

var (
	// ErrUnconfigured is returned by Request when no endpoint or credential is set.
	ErrUnconfigured = errors.New("enrich: service not configured")
	// ErrMalformed is returned by Request when the answer lacks tags or a summary.
	ErrMalformed = errors.New("enrich: malformed response")
)

// Fallback is returned whenever the service cannot be used.
var Fallback = source.Enrichment{
	Tags:      []string{"视频", "在线播放", "精彩内容", "推荐", "分享"},
	Summary:   "这是一个来自网络的视频内容，可在线播放或下载保存。",
	Sentiment: "neutral",
}

var sentiments = []string{"positive", "neutral", "negative"}

// Options configures a Service.
type Options struct {
	Endpoint      string
	APIKey        string
	FallbackDelay time.Duration
	// CacheTTL keeps successful answers on disk. Zero disables caching.
	CacheTTL time.Duration
	Client   *resty.Client
}

// Service talks to the enrichment endpoint.
type Service struct {
	options Options
	cache   mo.Option[*cache.Cache[string, source.Enrichment]]
}

// New returns a Service.
func New(options Options) *Service {
	if options.Client == nil {
		options.Client = network.NewResty()
	}

	s := &Service{options: options, cache: mo.None[*cache.Cache[string, source.Enrichment]]()}
	if options.CacheTTL > 0 {
		s.cache = mo.Some(cache.New[string, source.Enrichment](
			filepath.Join(where.Enrichment(), "records.json"),
			options.CacheTTL,
			nil,
		))
	}

	return s
}

// FromConfig returns a Service configured from the enrich.* keys.
// An explicit enrich.api_key wins over the credential stored in the keyring.
func FromConfig() *Service {
	apiKey := viper.GetString(key.EnrichAPIKey)
	if apiKey == "" {
		if stored, err := auth.GetKey(); err == nil {
			apiKey = stored
		}
	}

	return New(Options{
		Endpoint:      viper.GetString(key.EnrichEndpoint),
		APIKey:        apiKey,
		FallbackDelay: time.Duration(viper.GetInt(key.EnrichFallbackDelay)) * time.Millisecond,
		CacheTTL:      time.Duration(viper.GetInt(key.EnrichCacheTTL)) * time.Hour,
	})
}

// Enrich returns the service's record for the video, or Fallback.
func (s *Service) Enrich(ctx context.Context, title string, platform source.Platform) source.Enrichment {
	logger := log.For("enrich").WithField("title", title)
	cacheKey := cache.GenerateKey(title, string(platform))

	if c, ok := s.cache.Get(); ok {
		if cached, ok := c.Get(cacheKey).Get(); ok {
			logger.Debugf("cache hit")
			return cached
		}
	}

	enrichment, err := s.Request(ctx, title, platform)
	if err != nil {
		logger.Warnf("using fallback: %v", err)
		s.wait(ctx)
		return fallback()
	}

	if c, ok := s.cache.Get(); ok {
		if err := c.Set(cacheKey, enrichment); err != nil {
			logger.Warnf("cache write: %v", err)
		}
	}

	return enrichment
}

// Request performs one call to the service without any fallback.
func (s *Service) Request(ctx context.Context, title string, platform source.Platform) (source.Enrichment, error) {
	if s.options.Endpoint == "" || s.options.APIKey == "" {
		return source.Enrichment{}, ErrUnconfigured
	}

	resp, err := s.options.Client.R().
		SetContext(ctx).
		SetAuthToken(s.options.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"title": title, "platform": string(platform)}).
		Post(s.options.Endpoint)
	if err != nil {
		return source.Enrichment{}, fmt.Errorf("enrich request: %w", err)
	}

	if resp.IsError() {
		return source.Enrichment{}, fmt.Errorf("enrich request: unexpected status %s", resp.Status())
	}

	return parse(resp.Body())
}

func parse(body []byte) (source.Enrichment, error) {
	if !gjson.ValidBytes(body) {
		return source.Enrichment{}, ErrMalformed
	}

	parsed := gjson.ParseBytes(body)

	tags := lo.FilterMap(parsed.Get("tags").Array(), func(tag gjson.Result, _ int) (string, bool) {
		text := strings.TrimSpace(tag.String())
		return text, tag.Type == gjson.String && text != ""
	})
	summary := strings.TrimSpace(parsed.Get("summary").String())

	if len(tags) == 0 || summary == "" {
		return source.Enrichment{}, ErrMalformed
	}

	sentiment := strings.ToLower(parsed.Get("sentiment").String())
	if !lo.Contains(sentiments, sentiment) {
		sentiment = "neutral"
	}

	return source.Enrichment{
		Tags:      lo.Slice(tags, 0, maxTags),
		Summary:   summary,
		Sentiment: sentiment,
	}, nil
}

func (s *Service) wait(ctx context.Context) {
	if s.options.FallbackDelay <= 0 {
		return
	}

	timer := time.NewTimer(s.options.FallbackDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// fallback returns a copy so callers cannot mutate the shared tags.
func fallback() source.Enrichment {
	record := Fallback
	record.Tags = append([]string(nil), Fallback.Tags...)
	return record
}
