package capture

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidlink-cli/vidlink/blob"
	"github.com/vidlink-cli/vidlink/buffer"
	"github.com/vidlink-cli/vidlink/filesystem"
	"github.com/vidlink-cli/vidlink/source"
	"github.com/vidlink-cli/vidlink/where"
)

func init() {
	filesystem.SetMemMapFs()
}

type fakeSurface struct {
	paused     bool
	pauseCalls int
	position   float64
	failShot   bool
}

func (f *fakeSurface) GetPausedStatus() (bool, error) { return f.paused, nil }
func (f *fakeSurface) GetTimePos() (float64, error)   { return f.position, nil }
func (f *fakeSurface) SetPaused(paused bool) error {
	f.pauseCalls++
	f.paused = paused
	return nil
}
func (f *fakeSurface) Screenshot(path string) error {
	if f.failShot {
		return errors.New("no video")
	}
	return filesystem.API().WriteFile(path, []byte("png"), 0o644)
}

type staticProbe bool

func (p staticProbe) Allows(context.Context, string, string) bool { return bool(p) }

func TestResolve(t *testing.T) {
	ctx := context.Background()
	native := &source.Data{PlayerType: source.Native}
	embed := &source.Data{PlayerType: source.Iframe}
	ready := buffer.State{Phase: buffer.Ready, Handle: mo.Some(blob.Handle("h")), Source: "https://a/b.mp4"}
	streaming := buffer.State{Phase: buffer.StreamingFallback, Fallback: true, Source: "https://a/b.mp4"}

	Convey("Resolve", t, func() {
		Convey("Embeds are always denied", func() {
			So(Resolve(ctx, embed, ready, "http://o", staticProbe(true)), ShouldEqual, Denied)
		})

		Convey("A buffered source is same-origin", func() {
			So(Resolve(ctx, native, ready, "http://o", staticProbe(false)), ShouldEqual, SameOrigin)
		})

		Convey("A streamed source depends on the probe", func() {
			So(Resolve(ctx, native, streaming, "http://o", staticProbe(true)), ShouldEqual, CORSEnabled)
			So(Resolve(ctx, native, streaming, "http://o", staticProbe(false)), ShouldEqual, Denied)
		})
	})
}

func TestCORSProbe(t *testing.T) {
	ctx := context.Background()

	Convey("Given a server with a CORS header", t, func() {
		var method, origin string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method, origin = r.Method, r.Header.Get("Origin")
			w.Header().Set("Access-Control-Allow-Origin", r.URL.Query().Get("acao"))
		}))
		defer server.Close()

		probe := &CORSProbe{Client: server.Client()}

		Convey("A wildcard or the exact origin is allowed", func() {
			So(probe.Allows(ctx, server.URL+"/v.mp4?acao=*", "http://127.0.0.1:7878"), ShouldBeTrue)
			So(method, ShouldEqual, http.MethodHead)
			So(origin, ShouldEqual, "http://127.0.0.1:7878")

			So(probe.Allows(ctx, server.URL+"/v.mp4?acao=http://127.0.0.1:7878", "http://127.0.0.1:7878"), ShouldBeTrue)
		})

		Convey("Anything else is refused", func() {
			So(probe.Allows(ctx, server.URL+"/v.mp4", "http://127.0.0.1:7878"), ShouldBeFalse)
			So(probe.Allows(ctx, server.URL+"/v.mp4?acao=https://else", "http://127.0.0.1:7878"), ShouldBeFalse)
		})
	})
}

func TestCapture(t *testing.T) {
	ctx := context.Background()

	Convey("Given a playing surface", t, func() {
		surface := &fakeSurface{position: 125.7}

		Convey("Denied access fails with a security error", func() {
			_, err := Capture(ctx, surface, Denied)
			So(err, ShouldEqual, ErrSecurity)
			So(surface.pauseCalls, ShouldEqual, 0)
		})

		Convey("An allowed capture returns the frame and pauses", func() {
			frame, err := Capture(ctx, surface, SameOrigin)
			So(err, ShouldBeNil)
			So(string(frame.Image), ShouldEqual, "png")
			So(frame.Timestamp, ShouldEqual, 125.7)
			So(surface.paused, ShouldBeTrue)

			Convey("And it can be saved under a descriptive name", func() {
				So(frame.Name("我的 视频"), ShouldEqual, "我的_视频_frame_2-05.png")

				path, err := frame.Save("我的 视频")
				So(err, ShouldBeNil)
				So(path, ShouldEqual, filepath.Join(where.Captures(), "我的_视频_frame_2-05.png"))

				data, err := filesystem.API().ReadFile(path)
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, "png")
			})
		})

		Convey("A paused surface stays paused without another call", func() {
			surface.paused = true
			_, err := Capture(ctx, surface, CORSEnabled)
			So(err, ShouldBeNil)
			So(surface.pauseCalls, ShouldEqual, 0)
		})

		Convey("A failed screenshot is reported", func() {
			surface.failShot = true
			_, err := Capture(ctx, surface, SameOrigin)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, ErrSecurity), ShouldBeFalse)
		})
	})
}
