package cache

import (
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidlink-cli/vidlink/filesystem"
	"github.com/vidlink-cli/vidlink/where"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestCache(t *testing.T) {
	Convey("Given an empty cache", t, func() {
		c := New[string, int](filepath.Join(where.Cache(), "test_cache.json"), time.Hour, nil)
		_ = c.Delete("a")

		Convey("Missing keys are None", func() {
			So(c.Get("a").IsAbsent(), ShouldBeTrue)
		})

		Convey("When a value is set", func() {
			So(c.Set("a", 42), ShouldBeNil)

			Convey("It can be read back", func() {
				So(c.Get("a").MustGet(), ShouldEqual, 42)
			})

			Convey("It survives a new handle on the same file", func() {
				other := New[string, int](filepath.Join(where.Cache(), "test_cache.json"), time.Hour, nil)
				So(other.Get("a").OrEmpty(), ShouldEqual, 42)
			})

			Convey("And deleted", func() {
				So(c.Delete("a"), ShouldBeNil)
				So(c.Get("a").IsPresent(), ShouldBeFalse)
			})
		})
	})
}

func TestGenerateKey(t *testing.T) {
	Convey("GenerateKey", t, func() {
		So(GenerateKey("Some  Title", "bilibili"), ShouldEqual, GenerateKey("some title", "bilibili"))
		So(GenerateKey("Some Title", "bilibili"), ShouldNotEqual, GenerateKey("Some Title", "youtube"))
		So(GenerateKey("x", "y"), ShouldHaveLength, 64)
	})
}
