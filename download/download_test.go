package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidlink-cli/vidlink/filesystem"
	"github.com/vidlink-cli/vidlink/source"
	"github.com/vidlink-cli/vidlink/where"
)

func init() {
	filesystem.SetMemMapFs()
}

type recorder struct {
	opened []string
}

func (r *recorder) open(url string) error {
	r.opened = append(r.opened, url)
	return nil
}

func native(url string) *source.Data {
	return &source.Data{
		Title:      "片段 1",
		PlayerType: source.Native,
		Sources:    []*source.Video{{URL: url, Downloadable: true}},
	}
}

func TestForce(t *testing.T) {
	ctx := context.Background()

	Convey("Given a reachable source", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("movie"))
		}))
		defer server.Close()

		opener := new(recorder)
		downloader := New(server.Client(), opener.open)

		Convey("It is saved under the title", func() {
			var last int64
			outcome, err := downloader.Force(ctx, native(server.URL+"/a.webm"), mo.None[[]byte](), func(written, _ int64) {
				last = written
			})
			So(err, ShouldBeNil)
			So(outcome.Path, ShouldEqual, filepath.Join(where.Downloads(), "片段_1.webm"))
			So(last, ShouldEqual, 5)
			So(opener.opened, ShouldBeEmpty)

			data, err := filesystem.API().ReadFile(outcome.Path)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "movie")
		})

		Convey("A buffered copy is written without a request", func() {
			outcome, err := downloader.Force(ctx, native("http://127.0.0.1:1/x.mp4"), mo.Some([]byte("cached")), nil)
			So(err, ShouldBeNil)

			data, _ := filesystem.API().ReadFile(outcome.Path)
			So(string(data), ShouldEqual, "cached")
		})
	})

	Convey("Given a failing source", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		opener := new(recorder)
		downloader := New(server.Client(), opener.open)

		Convey("The URL is opened externally", func() {
			outcome, err := downloader.Force(ctx, native(server.URL+"/a.mp4"), mo.None[[]byte](), nil)
			So(err, ShouldBeNil)
			So(outcome.Path, ShouldBeEmpty)
			So(outcome.External, ShouldEqual, server.URL+"/a.mp4")
			So(outcome.Cause, ShouldNotBeNil)
			So(opener.opened, ShouldResemble, []string{server.URL + "/a.mp4"})
		})
	})

	Convey("Given an embed result", t, func() {
		opener := new(recorder)
		downloader := New(nil, opener.open)
		data := &source.Data{
			PlayerType: source.Iframe,
			Sources: []*source.Video{
				{URL: "https://www.youtube.com/embed/dQw4w9WgXcQ"},
				{URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", Downloadable: true},
			},
		}

		Convey("The external page is opened instead", func() {
			outcome, err := downloader.Force(ctx, data, mo.None[[]byte](), nil)
			So(err, ShouldBeNil)
			So(outcome.Cause, ShouldEqual, ErrNotDownloadable)
			So(opener.opened, ShouldResemble, []string{"https://www.youtube.com/watch?v=dQw4w9WgXcQ"})
		})
	})
}

func TestFileName(t *testing.T) {
	Convey("FileName", t, func() {
		So(FileName("a/b", "https://x/y.MOV?z=1"), ShouldEqual, "a_b.mov")
		So(FileName("", "https://x/y"), ShouldEqual, "y.mp4")
		So(FileName("", "https://cdn.example.com/media/clip.final.webm?sig=a.b"), ShouldEqual, "clip.final.webm")
		So(FileName("", "https://x/"), ShouldEqual, "video.mp4")
	})
}
