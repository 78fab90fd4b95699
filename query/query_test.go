package query

import (
	"fmt"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vidlink-cli/vidlink/filesystem"
	"github.com/vidlink-cli/vidlink/key"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.SearchShowQuerySuggestions, true)
}

func TestQuery(t *testing.T) {
	Convey("Given remembered links", t, func() {
		So(Remember("https://www.bilibili.com/video/BV1xx411c7mD", 1), ShouldBeNil)
		So(Remember("https://youtu.be/dQw4w9WgXcQ", 10), ShouldBeNil)

		Convey("Suggestions match fuzzily and keep the original casing", func() {
			s := SuggestMany("bv1xx")
			So(s, ShouldContain, "https://www.bilibili.com/video/BV1xx411c7mD")
		})

		Convey("Higher ranked links come first", func() {
			s := SuggestMany("https")
			So(len(s), ShouldBeGreaterThanOrEqualTo, 2)
			So(s[0], ShouldEqual, "https://youtu.be/dQw4w9WgXcQ")
		})

		Convey("Remembering again refreshes the suggestions", func() {
			_ = SuggestMany("https")
			So(Remember("https://www.bilibili.com/video/BV1xx411c7mD", 100), ShouldBeNil)
			So(Suggest("https").MustGet(), ShouldEqual, "https://www.bilibili.com/video/BV1xx411c7mD")
		})

		Convey("Suggestions can be turned off", func() {
			viper.Set(key.SearchShowQuerySuggestions, false)
			defer viper.Set(key.SearchShowQuerySuggestions, true)
			So(Suggest("https").IsAbsent(), ShouldBeTrue)
		})

		Convey("Blank input is ignored", func() {
			So(Remember("   ", 1), ShouldBeNil)
		})
	})
}

func TestRememberConcurrently(t *testing.T) {
	Convey("Given links remembered from several goroutines", t, func() {
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_ = Remember(fmt.Sprintf("https://example.com/concurrent/%d.mp4", i), 1)
				_ = Remember("https://example.com/concurrent/shared.mp4", 1)
			}(i)
		}
		wg.Wait()

		Convey("No update is lost", func() {
			cached, _, err := cacher.Get()
			So(err, ShouldBeNil)
			So(cached[normalize("https://example.com/concurrent/shared.mp4")].Rank, ShouldEqual, 50)
			So(SuggestMany("example.com/concurrent"), ShouldHaveLength, 51)
		})
	})
}
