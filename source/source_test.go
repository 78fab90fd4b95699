package source

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestVideo(t *testing.T) {
	Convey("Video", t, func() {
		v := &Video{
			URL:     "http://example.com/vid.mp4",
			Quality: "High (q=80)",
		}

		Convey("String representation", func() {
			So(v.String(), ShouldEqual, "High (q=80)")
			v.Quality = ""
			So(v.String(), ShouldEqual, "http://example.com/vid.mp4")
		})
	})
}

func TestData(t *testing.T) {
	Convey("Given an iframe result with a downloadable watch URL", t, func() {
		data := &Data{
			ID:         "dQw4w9WgXcQ",
			PlayerType: Iframe,
			Platform:   YouTube,
			Sources: []*Video{
				{URL: "https://www.youtube.com/embed/dQw4w9WgXcQ"},
				{URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", Downloadable: true},
			},
		}

		Convey("It is never directly downloadable", func() {
			_, ok := data.Downloadable()
			So(ok, ShouldBeFalse)
		})

		Convey("Its external URL is the watch page", func() {
			So(data.External(), ShouldEqual, "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
		})

		Convey("The embed is the primary source", func() {
			So(data.Primary().URL, ShouldEqual, "https://www.youtube.com/embed/dQw4w9WgXcQ")
		})
	})

	Convey("Given a native result", t, func() {
		data := &Data{
			PlayerType: Native,
			Sources:    []*Video{{URL: "https://x/y.mp4", Downloadable: true}},
		}

		Convey("The first downloadable source is returned", func() {
			v, ok := data.Downloadable()
			So(ok, ShouldBeTrue)
			So(v.URL, ShouldEqual, "https://x/y.mp4")
		})

		Convey("It serializes with the wire field names", func() {
			raw, err := json.Marshal(data)
			So(err, ShouldBeNil)
			So(string(raw), ShouldContainSubstring, `"playerType":"native"`)
			So(string(raw), ShouldContainSubstring, `"isDownloadable":true`)
			So(string(raw), ShouldNotContainSubstring, "aiSummary")
		})
	})

	Convey("Platform labels", t, func() {
		So(Bilibili.Label(), ShouldEqual, "Bilibili")
		So(YouTube.Label(), ShouldEqual, "YouTube")
		So(Platform("x").Label(), ShouldEqual, "Unknown")
	})
}
