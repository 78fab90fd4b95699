package cmd

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidlink-cli/vidlink/config"
	"github.com/vidlink-cli/vidlink/key"
)

func TestParseValue(t *testing.T) {
	Convey("Given config fields of every kind", t, func() {
		Convey("Strings keep spaces between words", func() {
			v, err := parseValue(config.Default[key.DownloadsPath], []string{"/media/my", "videos"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "/media/my videos")
		})

		Convey("Integers are parsed and bounded", func() {
			v, err := parseValue(config.Default[key.BufferStallTimeout], []string{"15"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 15)

			_, err = parseValue(config.Default[key.BufferStallTimeout], []string{"-1"})
			So(err, ShouldNotBeNil)

			_, err = parseValue(config.Default[key.PlayerCompletionPercentage], []string{"120"})
			So(err, ShouldNotBeNil)
		})

		Convey("Booleans are parsed", func() {
			v, err := parseValue(config.Default[key.EnrichEnable], []string{"false"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, false)

			_, err = parseValue(config.Default[key.EnrichEnable], []string{"sometimes"})
			So(err, ShouldNotBeNil)
		})

		Convey("A value is required", func() {
			_, err := parseValue(config.Default[key.Player], nil)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestDisplay(t *testing.T) {
	Convey("Secrets are masked", t, func() {
		So(display(key.EnrichAPIKey, "sk-123456789"), ShouldEqual, "********6789")
		So(display(key.EnrichAPIKey, ""), ShouldEqual, "")
		So(display(key.Player, "mpv"), ShouldEqual, "mpv")
	})
}
