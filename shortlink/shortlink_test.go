package shortlink

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidlink-cli/vidlink/classify"
	"github.com/vidlink-cli/vidlink/proxy"
)

type fakeRelay struct {
	envelope *proxy.Envelope
	err      error
}

func (f fakeRelay) JSON(context.Context, string) (*proxy.Envelope, error) {
	return f.envelope, f.err
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	Convey("Given a relay that followed the redirect", t, func() {
		r := New(fakeRelay{envelope: &proxy.Envelope{
			StatusURL: "https://www.bilibili.com/video/BV1xx411c7mD?share_source=copy_web",
		}})

		Convey("The identifier comes from the redirect target", func() {
			res := r.Resolve(ctx, "https://b23.tv/abc123")
			So(res.IsOk(), ShouldBeTrue)
			So(res.MustGet().ID, ShouldResemble, classify.Identifier{Kind: classify.BilibiliBV, Value: "BV1xx411c7mD"})
			So(res.MustGet().CanonicalURL, ShouldStartWith, "https://www.bilibili.com/video/BV1xx411c7mD")
		})
	})

	Convey("Given a relay that only returned the redirect page", t, func() {
		Convey("The og:url is used", func() {
			r := New(fakeRelay{envelope: &proxy.Envelope{
				StatusURL: "https://b23.tv/abc123",
				Contents:  `<html><head><meta property="og:url" content="https://www.bilibili.com/video/av170001/"></head></html>`,
			}})

			res := r.Resolve(ctx, "https://b23.tv/abc123")
			So(res.IsOk(), ShouldBeTrue)
			So(res.MustGet().ID, ShouldResemble, classify.Identifier{Kind: classify.BilibiliAV, Value: "170001"})
			So(res.MustGet().CanonicalURL, ShouldEqual, "https://www.bilibili.com/video/av170001/")
		})

		Convey("A bare identifier in the body is found", func() {
			r := New(fakeRelay{envelope: &proxy.Envelope{
				Contents: `<script>window.__INITIAL_STATE__={"bvid":"BV1xx411c7mD"}</script>`,
			}})

			res := r.Resolve(ctx, "https://b23.tv/abc123")
			So(res.IsOk(), ShouldBeTrue)
			So(res.MustGet().ID.Value, ShouldEqual, "BV1xx411c7mD")
		})

		Convey("A redirect to another site keeps the canonical URL only", func() {
			r := New(fakeRelay{envelope: &proxy.Envelope{
				StatusURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			}})

			res := r.Resolve(ctx, "https://b23.tv/abc123")
			So(res.IsOk(), ShouldBeTrue)
			So(res.MustGet().ID.IsBilibili(), ShouldBeFalse)
			So(res.MustGet().CanonicalURL, ShouldEqual, "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
		})
	})

	Convey("Given nothing useful", t, func() {
		Convey("An empty envelope is unresolved", func() {
			res := New(fakeRelay{envelope: &proxy.Envelope{}}).Resolve(ctx, "https://b23.tv/x")
			So(res.IsError(), ShouldBeTrue)
			So(res.Error(), ShouldEqual, ErrUnresolved)
		})

		Convey("A relay failure is returned as a value", func() {
			boom := errors.New("boom")
			res := New(fakeRelay{err: boom}).Resolve(ctx, "https://b23.tv/x")
			So(res.IsError(), ShouldBeTrue)
			So(res.Error(), ShouldEqual, boom)
		})
	})
}
