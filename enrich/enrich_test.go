package enrich

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidlink-cli/vidlink/filesystem"
	"github.com/vidlink-cli/vidlink/source"
)

func init() {
	filesystem.SetMemMapFs()
}

type captured struct {
	auth string
	body map[string]string
	hits int
}

func newServer(status int, answer string, seen *captured) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.hits++
		seen.auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&seen.body)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(answer))
	}))
}

func TestEnrich(t *testing.T) {
	ctx := context.Background()

	Convey("Given a working service", t, func() {
		seen := new(captured)
		server := newServer(http.StatusOK, `{"tags":["a","b","c","d","e","f"],"summary":"ok","sentiment":"POSITIVE"}`, seen)
		defer server.Close()

		service := New(Options{Endpoint: server.URL, APIKey: "k", Client: resty.New()})

		Convey("The answer is used", func() {
			record := service.Enrich(ctx, "标题", source.Bilibili)
			So(record.Tags, ShouldResemble, []string{"a", "b", "c", "d", "e"})
			So(record.Summary, ShouldEqual, "ok")
			So(record.Sentiment, ShouldEqual, "positive")
		})

		Convey("The request carries the credential and the video", func() {
			service.Enrich(ctx, "标题", source.Bilibili)
			So(seen.auth, ShouldEqual, "Bearer k")
			So(seen.body, ShouldResemble, map[string]string{"title": "标题", "platform": "bilibili"})
		})
	})

	Convey("Given a cached service", t, func() {
		seen := new(captured)
		server := newServer(http.StatusOK, `{"tags":["x"],"summary":"s","sentiment":"negative"}`, seen)
		defer server.Close()

		service := New(Options{Endpoint: server.URL, APIKey: "k", CacheTTL: time.Hour, Client: resty.New()})

		Convey("A second lookup of the same title is served from disk", func() {
			first := service.Enrich(ctx, "cached title", source.YouTube)
			second := service.Enrich(ctx, "Cached  Title", source.YouTube)
			So(second, ShouldResemble, first)
			So(seen.hits, ShouldEqual, 1)
		})
	})

	Convey("Given a failing service", t, func() {
		seen := new(captured)
		server := newServer(http.StatusInternalServerError, `oops`, seen)
		defer server.Close()

		service := New(Options{Endpoint: server.URL, APIKey: "k", FallbackDelay: 20 * time.Millisecond, Client: resty.New()})

		Convey("The fallback is returned after the delay", func() {
			started := time.Now()
			record := service.Enrich(ctx, "t", source.Direct)
			So(record, ShouldResemble, Fallback)
			So(time.Since(started), ShouldBeGreaterThanOrEqualTo, 20*time.Millisecond)
		})
	})

	Convey("Given an answer without tags", t, func() {
		seen := new(captured)
		server := newServer(http.StatusOK, `{"summary":"s"}`, seen)
		defer server.Close()

		service := New(Options{Endpoint: server.URL, APIKey: "k", Client: resty.New()})

		Convey("Request reports it as malformed", func() {
			_, err := service.Request(ctx, "t", source.Direct)
			So(err, ShouldEqual, ErrMalformed)
		})
	})

	Convey("Given no credential", t, func() {
		service := New(Options{Endpoint: "http://127.0.0.1:1", Client: resty.New()})

		Convey("The service is not contacted", func() {
			_, err := service.Request(ctx, "t", source.Direct)
			So(err, ShouldEqual, ErrUnconfigured)
			So(service.Enrich(ctx, "t", source.Direct).Sentiment, ShouldEqual, "neutral")
		})
	})
}
