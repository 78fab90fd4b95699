package version

import (
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidlink-cli/vidlink/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestCompare(t *testing.T) {
	Convey("Compare", t, func() {
		So(first(Compare("0.3.0", "0.2.9")), ShouldEqual, 1)
		So(first(Compare("v1.0.0", "1.0.0")), ShouldEqual, 0)
		So(first(Compare("1.0.0", "1.0.1")), ShouldEqual, -1)
		So(first(Compare("1.2", "1.2.0")), ShouldEqual, 0)
		So(first(Compare("1.3.0-rc.1", "1.3.0")), ShouldEqual, -1)
		So(first(Compare("1.3.0", "1.2.9-beta")), ShouldEqual, 1)

		_, err := Compare("x", "1.0.0")
		So(err, ShouldNotBeNil)
	})
}

func TestLatest(t *testing.T) {
	Convey("Given a release API", t, func() {
		hits := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			_, _ = w.Write([]byte(`{"tag_name":"v9.8.7"}`))
		}))
		defer server.Close()

		Convey("The tag is returned without its prefix and cached", func() {
			v, err := latest(server.URL)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "9.8.7")

			v, err = latest(server.URL)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "9.8.7")
			So(hits, ShouldBeLessThanOrEqualTo, 1)
		})
	})
}

func first(n int, _ error) int {
	return n
}
