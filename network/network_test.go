package network

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCacheBust(t *testing.T) {
	Convey("Given a fixed clock", t, func() {
		now = func() time.Time { return time.UnixMilli(1700000000123) }
		defer func() { now = time.Now }()

		Convey("It adds t to a URL without a query", func() {
			So(CacheBust("https://example.com/a.mp4"), ShouldEqual, "https://example.com/a.mp4?t=1700000000123")
		})

		Convey("It keeps existing parameters", func() {
			u, err := url.Parse(CacheBust("https://example.com/a.mp4?token=x"))
			So(err, ShouldBeNil)
			So(u.Query().Get("token"), ShouldEqual, "x")
			So(u.Query().Get("t"), ShouldEqual, "1700000000123")
		})

		Convey("It replaces a previous t", func() {
			u, _ := url.Parse(CacheBust("https://example.com/?t=1"))
			So(u.Query()["t"], ShouldResemble, []string{"1700000000123"})
		})
	})
}

func TestNoReferrer(t *testing.T) {
	Convey("Given a redirecting server", t, func() {
		var referer string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/start" {
				http.Redirect(w, r, "/end", http.StatusFound)
				return
			}
			referer = r.Header.Get("Referer")
		}))
		defer server.Close()

		Convey("The redirected request carries no Referer", func() {
			resp, err := Media.Get(server.URL + "/start")
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(referer, ShouldBeEmpty)
		})
	})
}

func TestNewResty(t *testing.T) {
	Convey("NewResty sends the browser user agent", t, func() {
		var agent string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			agent = r.Header.Get("User-Agent")
		}))
		defer server.Close()

		_, err := NewResty().R().Get(server.URL)
		So(err, ShouldBeNil)
		So(agent, ShouldContainSubstring, "Chrome/120")
	})
}
