package classify

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestClassify(t *testing.T) {
	Convey("Given Bilibili links", t, func() {
		Convey("A BV id is extracted regardless of surroundings", func() {
			for _, input := range []string{
				"https://www.bilibili.com/video/BV1xx411c7mD",
				"https://www.bilibili.com/video/BV1xx411c7mD/?spm_id_from=333.1007&vd_source=abc",
				"//www.bilibili.com/video/BV1xx411c7mD?p=2",
				"m.bilibili.com/video/BV1xx411c7mD",
				"  BV1xx411c7mD  ",
				"【标题】 https://www.bilibili.com/video/BV1xx411c7mD 分享",
			} {
				So(Classify(input), ShouldResemble, Identifier{Kind: BilibiliBV, Value: "BV1xx411c7mD"})
			}
		})

		Convey("An av id yields its digits", func() {
			So(Classify("https://www.bilibili.com/video/av170001"), ShouldResemble, Identifier{Kind: BilibiliAV, Value: "170001"})
			So(Classify("AV170001"), ShouldResemble, Identifier{Kind: BilibiliAV, Value: "170001"})
		})

		Convey("A BV id wins over an av id", func() {
			So(Classify("https://www.bilibili.com/video/BV1xx411c7mD?from=av170001").Kind, ShouldEqual, BilibiliBV)
		})

		Convey("av inside a word is not an id", func() {
			So(Classify("https://example.com/lavender123").Kind, ShouldEqual, Unsupported)
		})
	})

	Convey("Given a short link", t, func() {
		Convey("It is classified provisionally", func() {
			id := Classify(" https://b23.tv/abc123 ")
			So(id.Kind, ShouldEqual, ShortLink)
			So(id.Value, ShouldEqual, "https://b23.tv/abc123")
		})

		Convey("Extract ignores the marker", func() {
			So(Extract("https://b23.tv/BV1xx411c7mD").Kind, ShouldEqual, BilibiliBV)
		})
	})

	Convey("Given YouTube links", t, func() {
		const id = "dQw4w9WgXcQ"

		Convey("Every supported shape yields the same id", func() {
			for _, input := range []string{
				"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
				"https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ&t=42s",
				"https://youtu.be/dQw4w9WgXcQ",
				"https://youtu.be/dQw4w9WgXcQ?si=xyz",
				"https://www.youtube.com/embed/dQw4w9WgXcQ",
				"//www.youtube.com/embed/dQw4w9WgXcQ?autoplay=1",
				"youtube.com/shorts/dQw4w9WgXcQ",
				"https://m.youtube.com/watch?v=dQw4w9WgXcQ",
			} {
				So(Classify(input), ShouldResemble, Identifier{Kind: YouTube, Value: id})
			}
		})

		Convey("A short id is not accepted", func() {
			So(Classify("https://youtu.be/abc").Kind, ShouldEqual, Unsupported)
		})
	})

	Convey("Given direct file URLs", t, func() {
		Convey("The extension match is case-insensitive", func() {
			id := Classify("https://example.com/video.MP4")
			So(id.Kind, ShouldEqual, Direct)
			So(id.Value, ShouldEqual, "https://example.com/video.MP4")
		})

		Convey("Query strings and fragments are ignored", func() {
			So(Classify("https://cdn.example.com/a/b/clip.webm?token=1#t=10").Kind, ShouldEqual, Direct)
		})

		Convey("Every supported extension matches", func() {
			for _, ext := range []string{"mp4", "webm", "ogg", "mov"} {
				got, ok := Extension("https://example.com/v." + ext)
				So(ok, ShouldBeTrue)
				So(got, ShouldEqual, ext)
			}
		})

		Convey("Other extensions do not", func() {
			So(Classify("https://example.com/playlist.m3u8").Kind, ShouldEqual, Unsupported)
		})
	})

	Convey("Given text with no recognizable pattern", t, func() {
		So(Classify("hello world"), ShouldResemble, Identifier{Kind: Unsupported})
		So(Classify(""), ShouldResemble, Identifier{Kind: Unsupported})
	})
}
