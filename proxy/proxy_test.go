package proxy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-resty/resty/v2"
	. "github.com/smartystreets/goconvey/convey"
)

func TestURL(t *testing.T) {
	Convey("URL", t, func() {
		raw := URL("https://relay.example/raw", "https://api.example/view?bvid=BV1xx411c7mD")
		u, err := url.Parse(raw)
		So(err, ShouldBeNil)

		Convey("It encodes the target", func() {
			So(u.Query().Get("url"), ShouldEqual, "https://api.example/view?bvid=BV1xx411c7mD")
		})

		Convey("It attaches a timestamp", func() {
			So(u.Query().Get("t"), ShouldNotBeEmpty)
		})

		Convey("It keeps parameters already on the endpoint", func() {
			u, _ := url.Parse(URL("https://relay.example/get?charset=utf-8", "https://x"))
			So(u.Query().Get("charset"), ShouldEqual, "utf-8")
			So(u.Query().Get("url"), ShouldEqual, "https://x")
		})
	})
}

func TestClient(t *testing.T) {
	Convey("Given a relay", t, func() {
		var seen url.Values
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = r.URL.Query()
			switch r.URL.Path {
			case "/raw":
				_, _ = w.Write([]byte("raw:" + seen.Get("url")))
			case "/get":
				_, _ = w.Write([]byte(`{"status":{"url":"https://www.bilibili.com/video/BV1xx411c7mD"},"contents":"<html></html>"}`))
			case "/broken":
				_, _ = w.Write([]byte(`<html>not json`))
			default:
				w.WriteHeader(http.StatusBadGateway)
			}
		}))
		defer server.Close()

		client := New(resty.New(), server.URL+"/raw", server.URL+"/get")
		ctx := context.Background()

		Convey("Raw returns the body verbatim", func() {
			body, err := client.Raw(ctx, "https://target.example/a")
			So(err, ShouldBeNil)
			So(string(body), ShouldEqual, "raw:https://target.example/a")
			So(seen.Get("t"), ShouldNotBeEmpty)
		})

		Convey("JSON unwraps the envelope", func() {
			env, err := client.JSON(ctx, "https://b23.tv/abc")
			So(err, ShouldBeNil)
			So(env.StatusURL, ShouldEqual, "https://www.bilibili.com/video/BV1xx411c7mD")
			So(env.Contents, ShouldEqual, "<html></html>")
		})

		Convey("A non-JSON envelope is reported", func() {
			broken := New(resty.New(), server.URL+"/raw", server.URL+"/broken")
			_, err := broken.JSON(ctx, "https://b23.tv/abc")
			So(err, ShouldEqual, ErrMalformed)
		})

		Convey("An error status is reported", func() {
			failing := New(resty.New(), server.URL+"/down", server.URL+"/down")
			_, err := failing.Raw(ctx, "https://target.example/a")
			So(err, ShouldNotBeNil)
		})
	})
}
