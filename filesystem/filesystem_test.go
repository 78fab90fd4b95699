package filesystem

import (
	"errors"
	"io"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			So(API().Name(), ShouldEqual, "MemMapFS")
		})
	})
}

func TestWriteAtomic(t *testing.T) {
	Convey("Given an in-memory filesystem", t, func() {
		SetMemMapFs()

		Convey("A complete write lands under the final name", func() {
			written, err := WriteAtomic("/videos/clip.mp4", strings.NewReader("movie"))
			So(err, ShouldBeNil)
			So(written, ShouldEqual, 5)

			data, err := API().ReadFile("/videos/clip.mp4")
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "movie")

			exists, _ := API().Exists("/videos/clip.mp4" + PartialSuffix)
			So(exists, ShouldBeFalse)
		})

		Convey("A failed write leaves nothing behind", func() {
			_, err := WriteAtomic("/videos/broken.mp4", io.MultiReader(strings.NewReader("mov"), brokenReader{}))
			So(err, ShouldNotBeNil)

			for _, name := range []string{"/videos/broken.mp4", "/videos/broken.mp4" + PartialSuffix} {
				exists, _ := API().Exists(name)
				So(exists, ShouldBeFalse)
			}
		})
	})
}
