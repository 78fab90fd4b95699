package youtube

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestURLs(t *testing.T) {
	Convey("Given a video id", t, func() {
		const id = "dQw4w9WgXcQ"

		So(EmbedURL(id), ShouldEqual, "https://www.youtube.com/embed/dQw4w9WgXcQ")
		So(WatchURL(id), ShouldEqual, "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
		So(ThumbnailURL(id), ShouldEqual, "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg")
	})
}
